package value_objects

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/orris-inc/subtrack/internal/shared/calendar"
)

var ErrInvalidPeriodUnit = errors.New("invalid period unit")

// PeriodUnit is the calendar unit a recurrence or a paid duration is counted in.
type PeriodUnit string

const (
	PeriodDays   PeriodUnit = "Days"
	PeriodMonths PeriodUnit = "Months"
	PeriodYears  PeriodUnit = "Years"
)

var ValidPeriodUnits = map[PeriodUnit]bool{
	PeriodDays:   true,
	PeriodMonths: true,
	PeriodYears:  true,
}

// ParsePeriodUnit normalizes "days", "MONTH", "year" and similar to the
// canonical plural labels. Empty input yields Months.
func ParsePeriodUnit(value string) (PeriodUnit, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return PeriodMonths, nil
	}
	v = cases.Title(language.English).String(strings.ToLower(v))
	if !strings.HasSuffix(v, "s") {
		v += "s"
	}
	unit := PeriodUnit(v)
	if !ValidPeriodUnits[unit] {
		return "", fmt.Errorf("%w: %s", ErrInvalidPeriodUnit, value)
	}
	return unit, nil
}

func (p PeriodUnit) String() string {
	return string(p)
}

func (p PeriodUnit) IsValid() bool {
	return ValidPeriodUnits[p]
}

// Advance moves the calendar date t forward by n units.
func (p PeriodUnit) Advance(t time.Time, n int) time.Time {
	switch p {
	case PeriodDays:
		return calendar.AddDays(t, n)
	case PeriodYears:
		return calendar.AddYears(t, n)
	default:
		return calendar.AddMonths(t, n)
	}
}

// MonthsPerUnit is used to price multi-unit payments from a monthly rate.
// Days have no monthly equivalent and return 0.
func (p PeriodUnit) MonthsPerUnit() int {
	switch p {
	case PeriodMonths:
		return 1
	case PeriodYears:
		return 12
	default:
		return 0
	}
}
