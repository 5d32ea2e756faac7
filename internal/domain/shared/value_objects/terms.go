package value_objects

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Terms are the commercial terms of a product: what it costs and how it recurs.
type Terms struct {
	Amount      float64
	BillingType BillingType
	Source      Source
	Count       int
	Period      PeriodUnit
}

// DefaultTerms fills the zero values the way products are created without them.
func DefaultTerms(amount float64) Terms {
	return Terms{
		Amount:      amount,
		BillingType: BillingTypeOneTime,
		Source:      SourceInHouse,
		Count:       1,
		Period:      PeriodMonths,
	}
}

func (t Terms) Validate() error {
	if t.Amount < 0 || math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, t.Amount)
	}
	if !t.BillingType.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidBillingType, t.BillingType)
	}
	if !t.Source.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidSource, t.Source)
	}
	if t.Count <= 0 {
		return fmt.Errorf("%w: count must be greater than 0", ErrInvalidDuration)
	}
	if !t.Period.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidPeriodUnit, t.Period)
	}
	return nil
}

// Recurrence returns the (count, period) duration. Valid terms always yield one.
func (t Terms) Recurrence() Duration {
	count, period := t.Count, t.Period
	if count <= 0 {
		count = 1
	}
	if !period.IsValid() {
		period = PeriodMonths
	}
	return Duration{units: count, unit: period}
}

// TermsOverride holds per-assignment replacements; nil fields fall back to the product.
type TermsOverride struct {
	Amount      *float64
	BillingType *BillingType
	Source      *Source
	Count       *int
	Period      *PeriodUnit
}

func (o TermsOverride) IsEmpty() bool {
	return o.Amount == nil && o.BillingType == nil && o.Source == nil && o.Count == nil && o.Period == nil
}

// Apply overlays the override onto base.
func (o TermsOverride) Apply(base Terms) Terms {
	out := base
	if o.Amount != nil {
		out.Amount = *o.Amount
	}
	if o.BillingType != nil {
		out.BillingType = *o.BillingType
	}
	if o.Source != nil {
		out.Source = *o.Source
	}
	if o.Count != nil {
		out.Count = *o.Count
	}
	if o.Period != nil {
		out.Period = *o.Period
	}
	return out
}

func (o TermsOverride) Validate() error {
	if o.Amount != nil && (*o.Amount < 0 || math.IsNaN(*o.Amount)) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, *o.Amount)
	}
	if o.BillingType != nil && !o.BillingType.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidBillingType, *o.BillingType)
	}
	if o.Source != nil && !o.Source.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidSource, *o.Source)
	}
	if o.Count != nil && *o.Count <= 0 {
		return fmt.Errorf("%w: count must be greater than 0", ErrInvalidDuration)
	}
	if o.Period != nil && !o.Period.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidPeriodUnit, *o.Period)
	}
	return nil
}
