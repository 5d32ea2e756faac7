// Package biztime anchors "today" to the business timezone. Timestamps are
// stored in UTC; calendar dates (assignment, purchase, expiry) are stored as
// UTC midnight of the business-local date.
package biztime

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/orris-inc/subtrack/internal/shared/calendar"
)

const DefaultTimezone = "UTC"

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init loads the business timezone. Only the first call has an effect.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// Location returns the business timezone, initializing the default on first use.
func Location() *time.Location {
	if err := Init(""); err != nil {
		panic(fmt.Sprintf("biztime: failed to initialize timezone: %v", err))
	}
	return bizLocation
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

// Now returns the current instant in the business timezone, so calendar
// truncation yields the business-local date.
func Now() time.Time {
	return time.Now().In(Location())
}

// DateOf returns the business-local calendar date that t falls on.
func DateOf(t time.Time) time.Time {
	return calendar.TruncateToDay(t.In(Location()))
}

// Today returns the current business-local calendar date.
func Today() time.Time {
	return DateOf(time.Now())
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp and returns the calendar
// date it denotes. Timestamps are converted to the business timezone first.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(calendar.Layout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", s, err)
	}
	return DateOf(t), nil
}

// FormatDate renders a calendar date as YYYY-MM-DD; the zero time renders empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(calendar.Layout)
}

// FormatInBizTimezone formats a UTC timestamp in the business timezone.
func FormatInBizTimezone(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}
