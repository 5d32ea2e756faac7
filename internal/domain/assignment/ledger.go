package assignment

import (
	"time"

	"github.com/orris-inc/subtrack/internal/shared/calendar"
)

// NextStart decides where a newly recorded payment begins.
//
// On an empty ledger the assignment date wins, then the paid date, then now.
// Otherwise a payment made on or before the previous expiry continues from
// that expiry, and a later payment opens a gap starting on the paid date.
func NextStart(entries []LedgerEntry, assignedOn, paidOn *time.Time, now time.Time) time.Time {
	paid := calendar.TruncateToDay(now)
	if paidOn != nil {
		paid = calendar.TruncateToDay(*paidOn)
	}

	if len(entries) == 0 {
		if assignedOn != nil {
			return calendar.TruncateToDay(*assignedOn)
		}
		return paid
	}

	last := entries[len(entries)-1].end
	if !paid.After(last) {
		return last
	}
	return paid
}

// Recompute returns a copy of entries with ordinals renumbered 1..N and every
// entry from fromIndex onward re-chained: its start becomes the previous
// entry's end and its end is start plus its own duration. Index 0 starts at
// rootStart, or keeps its own start when rootStart is nil. Entries before
// fromIndex are copied unchanged. The input slice is never modified.
func Recompute(entries []LedgerEntry, fromIndex int, rootStart *time.Time) []LedgerEntry {
	out := make([]LedgerEntry, len(entries))
	copy(out, entries)

	if fromIndex < 0 {
		fromIndex = 0
	}
	for i := range out {
		out[i].ordinal = i + 1
		if i < fromIndex {
			continue
		}

		start := out[i].start
		switch {
		case i > 0:
			start = out[i-1].end
		case rootStart != nil:
			start = calendar.TruncateToDay(*rootStart)
		}
		out[i].start = start
		out[i].end = out[i].duration.AddTo(start)
	}
	return out
}

// IsContiguous reports whether every entry starts where the previous one ends.
func IsContiguous(entries []LedgerEntry) bool {
	for i := 1; i < len(entries); i++ {
		if !entries[i].start.Equal(entries[i-1].end) {
			return false
		}
	}
	return true
}
