// Package renewal derives expiry dates and classifies how much time is left
// before them. Everything here is pure and works at calendar-date granularity.
package renewal

import (
	"time"

	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/product"
	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
	"github.com/orris-inc/subtrack/internal/shared/calendar"
)

// Basis is everything the expiry of an assignment depends on.
type Basis struct {
	LedgerExpiry   *time.Time
	AssignmentDate *time.Time
	PurchaseDate   *time.Time
	Terms          vo.Terms
}

// BasisFor collects the resolver inputs from an assignment and its product.
func BasisFor(a *assignment.Assignment, p *product.Product) Basis {
	return Basis{
		LedgerExpiry:   a.LatestExpiry(),
		AssignmentDate: a.DateAssigned(),
		PurchaseDate:   p.DatePurchased(),
		Terms:          a.EffectiveTerms(p.Terms()),
	}
}

// StartDate returns the date a synthetic expiry is measured from: the
// assignment date, then the product purchase date.
func (b Basis) StartDate() *time.Time {
	if b.AssignmentDate != nil {
		return b.AssignmentDate
	}
	return b.PurchaseDate
}

// ResolveExpiry returns the current effective expiry, or nil when it is
// indeterminate.
//
// A non-empty ledger always wins. Otherwise a One-time purchase expires on its
// start date itself and a Recurring one expires count periods after it.
func ResolveExpiry(b Basis) *time.Time {
	if b.LedgerExpiry != nil {
		d := calendar.TruncateToDay(*b.LedgerExpiry)
		return &d
	}

	start := b.StartDate()
	if start == nil {
		return nil
	}

	day := calendar.TruncateToDay(*start)
	if !b.Terms.BillingType.IsRecurring() {
		// One-time: the purchase date itself is the reference date.
		return &day
	}
	expiry := b.Terms.Recurrence().AddTo(day)
	return &expiry
}

// Resolve is ResolveExpiry(BasisFor(a, p)).
func Resolve(a *assignment.Assignment, p *product.Product) *time.Time {
	return ResolveExpiry(BasisFor(a, p))
}
