package mapper

import "fmt"

// Mapper converts domain values of type T into their DTO form D.
type Mapper[T any, D any] struct {
	toDTO func(T) D
}

func New[T any, D any](toDTO func(T) D) *Mapper[T, D] {
	return &Mapper[T, D]{toDTO: toDTO}
}

func (m *Mapper[T, D]) ToDTO(entity T) D {
	return m.toDTO(entity)
}

// ToDTOList maps every entity. A nil input yields an empty, non-nil slice so
// lists always encode as JSON arrays.
func (m *Mapper[T, D]) ToDTOList(entities []T) []D {
	return append(make([]D, 0, len(entities)), MapSlice(entities, m.toDTO)...)
}

// MapSlice applies mapFunc to each element. Returns nil for a nil input.
func MapSlice[T any, R any](items []T, mapFunc func(T) R) []R {
	if items == nil {
		return nil
	}
	result := make([]R, 0, len(items))
	for _, item := range items {
		result = append(result, mapFunc(item))
	}
	return result
}

// MapSlicePtrWithID maps a slice of pointers with error handling, skipping nil
// inputs and outputs and naming the failing item's ID in the error.
func MapSlicePtrWithID[T any, R any, ID any](
	items []*T,
	mapFunc func(*T) (*R, error),
	getID func(*T) ID,
) ([]*R, error) {
	if items == nil {
		return nil, nil
	}

	result := make([]*R, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		mapped, err := mapFunc(item)
		if err != nil {
			return nil, fmt.Errorf("failed to map item ID %v: %w", getID(item), err)
		}
		if mapped != nil {
			result = append(result, mapped)
		}
	}
	return result, nil
}
