package usecases

import (
	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
)

// TermsInput carries the raw commercial terms of a request. Nil fields keep
// the base value.
type TermsInput struct {
	Amount      *float64
	BillingType *string
	Source      *string
	Count       *int
	Period      *string
}

func (in TermsInput) IsEmpty() bool {
	return in.Amount == nil && in.BillingType == nil && in.Source == nil && in.Count == nil && in.Period == nil
}

// applyTerms parses in on top of base.
func applyTerms(base vo.Terms, in TermsInput) (vo.Terms, error) {
	out := base
	if in.Amount != nil {
		out.Amount = *in.Amount
	}
	if in.BillingType != nil {
		bt, err := vo.ParseBillingType(*in.BillingType)
		if err != nil {
			return vo.Terms{}, err
		}
		out.BillingType = bt
	}
	if in.Source != nil {
		s, err := vo.ParseSource(*in.Source)
		if err != nil {
			return vo.Terms{}, err
		}
		out.Source = s
	}
	if in.Count != nil {
		out.Count = *in.Count
	}
	if in.Period != nil {
		p, err := vo.ParsePeriodUnit(*in.Period)
		if err != nil {
			return vo.Terms{}, err
		}
		out.Period = p
	}
	if err := out.Validate(); err != nil {
		return vo.Terms{}, err
	}
	return out, nil
}
