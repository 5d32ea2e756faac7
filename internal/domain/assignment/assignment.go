package assignment

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/calendar"
	"github.com/orris-inc/subtrack/internal/shared/id"
)

// Assignment links one customer to one product. It carries optional
// overrides of the product's terms and the ledger of recorded payments.
type Assignment struct {
	id               uint
	sid              string
	customerID       uint
	productID        uint
	remarks          string
	dateAssigned     *time.Time
	overrides        vo.TermsOverride
	entries          []LedgerEntry
	lastReminderSent *time.Time
	version          int
	persistedVersion int
	createdAt        time.Time
	updatedAt        time.Time
}

func NewAssignment(customerID, productID uint, remarks string, dateAssigned *time.Time, today time.Time) (*Assignment, error) {
	if customerID == 0 || productID == 0 {
		return nil, ErrInvalidReference
	}
	assigned, err := checkAssignedDate(dateAssigned, today)
	if err != nil {
		return nil, err
	}

	sid, err := id.NewAssignmentSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate assignment SID: %w", err)
	}

	now := biztime.NowUTC()
	return &Assignment{
		sid:          sid,
		customerID:   customerID,
		productID:    productID,
		remarks:      strings.TrimSpace(remarks),
		dateAssigned: assigned,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructAssignment rebuilds an assignment from persistence. Entries must
// already be ordered by ordinal.
func ReconstructAssignment(
	id uint,
	sid string,
	customerID, productID uint,
	remarks string,
	dateAssigned *time.Time,
	overrides vo.TermsOverride,
	entries []LedgerEntry,
	lastReminderSent *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) (*Assignment, error) {
	if id == 0 {
		return nil, fmt.Errorf("assignment ID cannot be zero")
	}
	if customerID == 0 || productID == 0 {
		return nil, ErrInvalidReference
	}
	for i, e := range entries {
		if e.ordinal != i+1 {
			return nil, fmt.Errorf("assignment %d: ledger ordinal %d at position %d", id, e.ordinal, i)
		}
	}
	return &Assignment{
		id:               id,
		sid:              sid,
		customerID:       customerID,
		productID:        productID,
		remarks:          remarks,
		dateAssigned:     dateAssigned,
		overrides:        overrides,
		entries:          entries,
		lastReminderSent: lastReminderSent,
		version:          version,
		persistedVersion: version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

func (a *Assignment) ID() uint { return a.id }
func (a *Assignment) SID() string { return a.sid }
func (a *Assignment) CustomerID() uint { return a.customerID }
func (a *Assignment) ProductID() uint { return a.productID }
func (a *Assignment) Remarks() string { return a.remarks }
func (a *Assignment) DateAssigned() *time.Time { return a.dateAssigned }
func (a *Assignment) Overrides() vo.TermsOverride { return a.overrides }
func (a *Assignment) LastReminderSent() *time.Time { return a.lastReminderSent }
func (a *Assignment) Version() int { return a.version }

// PersistedVersion is the version the aggregate was loaded or last saved at.
func (a *Assignment) PersistedVersion() int { return a.persistedVersion }
func (a *Assignment) CreatedAt() time.Time { return a.createdAt }
func (a *Assignment) UpdatedAt() time.Time { return a.updatedAt }

// Entries returns a copy of the ledger in ordinal order.
func (a *Assignment) Entries() []LedgerEntry {
	out := make([]LedgerEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

// LatestExpiry is the end of the last ledger entry, or nil for an empty ledger.
func (a *Assignment) LatestExpiry() *time.Time {
	if len(a.entries) == 0 {
		return nil
	}
	end := a.entries[len(a.entries)-1].end
	return &end
}

// EffectiveTerms overlays this assignment's overrides on the product terms.
func (a *Assignment) EffectiveTerms(productTerms vo.Terms) vo.Terms {
	return a.overrides.Apply(productTerms)
}

func (a *Assignment) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("assignment ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("assignment ID cannot be zero")
	}
	a.id = id
	return nil
}

// UpdateDetails changes the remark and assignment date. The ledger is left
// untouched: once payments exist they are the source of truth.
func (a *Assignment) UpdateDetails(remarks *string, dateAssigned *time.Time, clearDate bool, today time.Time) error {
	next := a.dateAssigned
	if clearDate {
		next = nil
	} else if dateAssigned != nil {
		d, err := checkAssignedDate(dateAssigned, today)
		if err != nil {
			return err
		}
		next = d
	}
	if remarks != nil {
		a.remarks = strings.TrimSpace(*remarks)
	}
	a.dateAssigned = next
	a.touch()
	return nil
}

// MergeOverrides replaces the override fields that are set in o.
func (a *Assignment) MergeOverrides(o vo.TermsOverride) error {
	if err := o.Validate(); err != nil {
		return err
	}
	merged := a.overrides
	if o.Amount != nil {
		merged.Amount = o.Amount
	}
	if o.BillingType != nil {
		merged.BillingType = o.BillingType
	}
	if o.Source != nil {
		merged.Source = o.Source
	}
	if o.Count != nil {
		merged.Count = o.Count
	}
	if o.Period != nil {
		merged.Period = o.Period
	}
	a.overrides = merged
	a.touch()
	return nil
}

// Payment describes a payment being recorded.
type Payment struct {
	Amount   float64
	Units    int
	Unit     vo.PeriodUnit
	PaidDate *time.Time
}

// RecordPayment appends a ledger entry. See NextStart for how its start is chosen.
func (a *Assignment) RecordPayment(p Payment, now time.Time) (LedgerEntry, error) {
	if p.Amount <= 0 {
		return LedgerEntry{}, ErrInvalidAmount
	}
	if p.Units <= 0 {
		return LedgerEntry{}, ErrInvalidUnits
	}
	d, err := vo.NewDuration(p.Units, p.Unit)
	if err != nil {
		return LedgerEntry{}, err
	}

	start := NextStart(a.entries, a.dateAssigned, p.PaidDate, now)
	entry := LedgerEntry{
		ordinal:    len(a.entries) + 1,
		amount:     p.Amount,
		duration:   d,
		start:      start,
		end:        d.AddTo(start),
		recordedAt: now.UTC(),
	}
	a.entries = append(a.Entries(), entry)
	a.touch()
	return entry, nil
}

// EntryEdit is a partial change to one ledger entry.
type EntryEdit struct {
	Amount *float64
	Units  *int
	Unit   *vo.PeriodUnit
}

// EditEntry changes entry index (0-based). When the duration changes, the
// entry keeps its start, its end is recomputed, and every later entry is
// re-chained from it. An amount-only edit moves no dates.
func (a *Assignment) EditEntry(index int, edit EntryEdit) error {
	if index < 0 || index >= len(a.entries) {
		return ErrEntryNotFound
	}

	entries := a.Entries()
	target := entries[index]

	if edit.Amount != nil {
		if *edit.Amount <= 0 {
			return ErrInvalidAmount
		}
		target.amount = *edit.Amount
	}

	durationChanged := edit.Units != nil || edit.Unit != nil
	if durationChanged {
		units, unit := target.duration.Units(), target.duration.Unit()
		if edit.Units != nil {
			units = *edit.Units
		}
		if edit.Unit != nil {
			unit = *edit.Unit
		}
		if units <= 0 {
			return ErrInvalidUnits
		}
		d, err := vo.NewDuration(units, unit)
		if err != nil {
			return err
		}
		target.duration = d
		target.end = d.AddTo(target.start)
	}
	entries[index] = target

	if durationChanged {
		entries = Recompute(entries, index+1, nil)
	}
	a.entries = entries
	a.touch()
	return nil
}

// DeleteEntry removes entry index (0-based), renumbers the rest and re-chains
// from the removed position. When the first entry is removed the new first
// entry starts on the assignment date, or on the removed entry's start when
// the assignment has no date.
func (a *Assignment) DeleteEntry(index int) error {
	if index < 0 || index >= len(a.entries) {
		return ErrEntryNotFound
	}

	removed := a.entries[index]
	remaining := make([]LedgerEntry, 0, len(a.entries)-1)
	remaining = append(remaining, a.entries[:index]...)
	remaining = append(remaining, a.entries[index+1:]...)

	root := a.dateAssigned
	if root == nil {
		start := removed.start
		root = &start
	}

	a.entries = Recompute(remaining, index, root)
	a.touch()
	return nil
}

// touch bumps the version at most once between saves.
func (a *Assignment) touch() {
	a.version = a.persistedVersion + 1
	a.updatedAt = biztime.NowUTC()
}

// MarkPersisted records that the current version has been written.
func (a *Assignment) MarkPersisted() {
	a.persistedVersion = a.version
}

func checkAssignedDate(d *time.Time, today time.Time) (*time.Time, error) {
	if d == nil {
		return nil, nil
	}
	day := calendar.TruncateToDay(*d)
	if calendar.Before(today, day) {
		return nil, ErrDateInFuture
	}
	return &day, nil
}
