package value_objects

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidBillingType = errors.New("invalid billing type")

type BillingType string

const (
	BillingTypeOneTime   BillingType = "One-time"
	BillingTypeRecurring BillingType = "Recurring"
)

var ValidBillingTypes = map[BillingType]bool{
	BillingTypeOneTime:   true,
	BillingTypeRecurring: true,
}

// ParseBillingType accepts the canonical labels case-insensitively, plus the
// compact spellings "onetime" and "one_time". Empty input yields One-time.
func ParseBillingType(value string) (BillingType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "one-time", "onetime", "one_time", "one time":
		return BillingTypeOneTime, nil
	case "recurring":
		return BillingTypeRecurring, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidBillingType, value)
	}
}

func (b BillingType) String() string {
	return string(b)
}

func (b BillingType) IsValid() bool {
	return ValidBillingTypes[b]
}

func (b BillingType) IsRecurring() bool {
	return b == BillingTypeRecurring
}
