package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWithPrefix(t *testing.T) {
	sid, err := NewAssignmentSID()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sid, "asg_"))
	assert.Len(t, sid, len("asg_")+DefaultLength)
	assert.NoError(t, ValidatePrefix(sid, PrefixAssignment))

	other, err := NewAssignmentSID()
	require.NoError(t, err)
	assert.NotEqual(t, sid, other)
}

func TestValidatePrefix(t *testing.T) {
	assert.NoError(t, ValidatePrefix("cus_abc123XYZ", PrefixCustomer))
	assert.Error(t, ValidatePrefix("prd_abc123XYZ", PrefixCustomer))
	assert.Error(t, ValidatePrefix("cus_", PrefixCustomer))
	assert.Error(t, ValidatePrefix("cusabc", PrefixCustomer))
	assert.Error(t, ValidatePrefix("cus_ab-c", PrefixCustomer))
}
