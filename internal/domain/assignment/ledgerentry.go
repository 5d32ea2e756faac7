package assignment

import (
	"fmt"
	"time"

	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
)

// LedgerEntry is one recorded payment period of an assignment.
type LedgerEntry struct {
	ordinal    int
	amount     float64
	duration   vo.Duration
	start      time.Time
	end        time.Time
	recordedAt time.Time
}

// ReconstructLedgerEntry rebuilds an entry from persistence.
func ReconstructLedgerEntry(ordinal int, amount float64, units int, unit vo.PeriodUnit, start, end, recordedAt time.Time) (LedgerEntry, error) {
	d, err := vo.NewDuration(units, unit)
	if err != nil {
		return LedgerEntry{}, fmt.Errorf("ledger entry %d: %w", ordinal, err)
	}
	return LedgerEntry{
		ordinal:    ordinal,
		amount:     amount,
		duration:   d,
		start:      start,
		end:        end,
		recordedAt: recordedAt,
	}, nil
}

func (e LedgerEntry) Ordinal() int { return e.ordinal }

func (e LedgerEntry) Amount() float64 { return e.amount }

func (e LedgerEntry) Duration() vo.Duration { return e.duration }

// Start is the date the paid period begins ("datePaid").
func (e LedgerEntry) Start() time.Time { return e.start }

// End is the date the paid period expires ("expiresAt").
func (e LedgerEntry) End() time.Time { return e.end }

func (e LedgerEntry) RecordedAt() time.Time { return e.recordedAt }
