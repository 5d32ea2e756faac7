// Package calendar implements date-only arithmetic. Dates are represented as
// time.Time values at 00:00 UTC; time-of-day and location are never meaningful.
package calendar

import "time"

const Layout = "2006-01-02"

// Date builds the canonical value for a calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TruncateToDay drops the time-of-day of t as observed in t's own location.
func TruncateToDay(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func AddDays(t time.Time, n int) time.Time {
	d := TruncateToDay(t)
	return d.AddDate(0, 0, n)
}

// AddMonths moves t by n months, clamping the day to the last day of the
// target month: Jan 31 + 1 month is Feb 28 (or Feb 29 in leap years).
func AddMonths(t time.Time, n int) time.Time {
	d := TruncateToDay(t)
	total := int(d.Month()) - 1 + n
	year := d.Year() + floorDiv(total, 12)
	month := time.Month(floorMod(total, 12) + 1)
	day := d.Day()
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return Date(year, month, day)
}

func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, 12*n)
}

// Diff returns the calendar distance from "from" to "to" as years, months and
// days. A negative day component borrows the length of the month preceding
// to's month; a negative month component borrows twelve months. Callers are
// expected to pass from <= to.
func Diff(from, to time.Time) (years, months, days int) {
	from, to = TruncateToDay(from), TruncateToDay(to)

	years = to.Year() - from.Year()
	months = int(to.Month()) - int(from.Month())
	days = to.Day() - from.Day()

	if days < 0 {
		prev := to.AddDate(0, 0, -to.Day())
		days += DaysIn(prev.Year(), prev.Month())
		months--
	}
	if months < 0 {
		months += 12
		years--
	}
	return years, months, days
}

// Before reports whether a falls on an earlier calendar day than b.
func Before(a, b time.Time) bool {
	return TruncateToDay(a).Before(TruncateToDay(b))
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
