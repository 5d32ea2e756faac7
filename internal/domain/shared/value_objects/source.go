package value_objects

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidSource = errors.New("invalid source")

// Source tells whether a product is built in-house or resold from a third party.
type Source string

const (
	SourceInHouse    Source = "In-house"
	SourceThirdParty Source = "3rd Party"
)

var ValidSources = map[Source]bool{
	SourceInHouse:    true,
	SourceThirdParty: true,
}

func ParseSource(value string) (Source, error) {
	switch strings.ToLower(strings.Join(strings.Fields(value), " ")) {
	case "", "in-house", "inhouse", "in house":
		return SourceInHouse, nil
	case "3rd party", "third party", "3rd-party", "third-party":
		return SourceThirdParty, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidSource, value)
	}
}

func (s Source) String() string {
	return string(s)
}

func (s Source) IsValid() bool {
	return ValidSources[s]
}
