package mapper

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct{ id int }

func TestMapSlice(t *testing.T) {
	assert.Nil(t, MapSlice[int, string](nil, strconv.Itoa))
	assert.Equal(t, []string{"1", "2"}, MapSlice([]int{1, 2}, strconv.Itoa))
}

func TestMapperToDTOList(t *testing.T) {
	m := New(strconv.Itoa)
	assert.Equal(t, "7", m.ToDTO(7))
	assert.Equal(t, []string{"1", "2"}, m.ToDTOList([]int{1, 2}))

	empty := m.ToDTOList(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMapSlicePtrWithID(t *testing.T) {
	toString := func(r *row) (*string, error) {
		if r.id < 0 {
			return nil, errors.New("negative")
		}
		if r.id == 0 {
			return nil, nil
		}
		s := strconv.Itoa(r.id)
		return &s, nil
	}
	getID := func(r *row) int { return r.id }

	out, err := MapSlicePtrWithID([]*row{{1}, nil, {0}, {3}}, toString, getID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "3", *out[1])

	_, err = MapSlicePtrWithID([]*row{{-7}}, toString, getID)
	assert.ErrorContains(t, err, "item ID -7")
}
