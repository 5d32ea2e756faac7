package renewal

import (
	"time"

	"github.com/orris-inc/subtrack/internal/shared/calendar"
)

// ReminderThreshold is the first calendar day on which a reminder for expiry is due.
func ReminderThreshold(expiry time.Time, leadDays int) time.Time {
	return calendar.AddDays(expiry, -leadDays)
}

// IsReminderDue reports whether a reminder should go out on today. It is due
// once today reaches the threshold, unless one was already sent on or after
// the threshold. An indeterminate expiry is never due.
func IsReminderDue(today time.Time, expiry *time.Time, leadDays int, lastSent *time.Time) bool {
	if expiry == nil {
		return false
	}
	threshold := ReminderThreshold(*expiry, leadDays)
	if calendar.Before(today, threshold) {
		return false
	}
	if lastSent != nil && !calendar.Before(*lastSent, threshold) {
		return false
	}
	return true
}

// InWindow reports whether expiry falls within [today, today+days].
func InWindow(today time.Time, expiry *time.Time, days int) bool {
	if expiry == nil {
		return false
	}
	from := calendar.TruncateToDay(today)
	to := calendar.AddDays(from, days)
	e := calendar.TruncateToDay(*expiry)
	return !e.Before(from) && !e.After(to)
}
