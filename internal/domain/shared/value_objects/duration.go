package value_objects

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidDuration = errors.New("invalid duration")

// Duration is a calendar length such as "3 Months".
type Duration struct {
	units int
	unit  PeriodUnit
}

func NewDuration(units int, unit PeriodUnit) (Duration, error) {
	if units <= 0 {
		return Duration{}, fmt.Errorf("%w: units must be greater than 0", ErrInvalidDuration)
	}
	if !unit.IsValid() {
		return Duration{}, fmt.Errorf("%w: %s", ErrInvalidPeriodUnit, unit)
	}
	return Duration{units: units, unit: unit}, nil
}

func (d Duration) Units() int {
	return d.units
}

func (d Duration) Unit() PeriodUnit {
	return d.unit
}

// AddTo returns the calendar date d after t.
func (d Duration) AddTo(t time.Time) time.Time {
	return d.unit.Advance(t, d.units)
}

func (d Duration) String() string {
	return fmt.Sprintf("%d %s", d.units, d.unit)
}
