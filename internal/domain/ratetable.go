package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AgeRate is one row of an age-banded premium table: the monthly premium for
// a single covered life at the given integer age, with and without the
// tobacco surcharge.
type AgeRate struct {
	Age     int             `yaml:"age" json:"age"`
	Regular decimal.Decimal `yaml:"regular" json:"regular"`
	Tobacco decimal.Decimal `yaml:"tobacco" json:"tobacco"`
}

// FamilyTier names a household composition priced as a unit.
type FamilyTier string

const (
	TierSingle            FamilyTier = "single"
	TierCouple            FamilyTier = "couple"
	TierSingleAndChildren FamilyTier = "single_and_children"
	TierSingleAndSpouse   FamilyTier = "single_and_spouse"
	TierFamily            FamilyTier = "family"
	TierChildOnly         FamilyTier = "child_only"
)

// FamilyPricing holds the optional tiered family prices for a rate table.
// FixedPrice, when set, overrides everything: the plan charges one flat
// amount regardless of composition. Nil fields mean the tier is not offered
// and pricing falls through to per-member summation.
type FamilyPricing struct {
	FixedPrice        *decimal.Decimal `yaml:"fixed_price,omitempty" json:"fixed_price,omitempty"`
	Single            *decimal.Decimal `yaml:"single,omitempty" json:"single,omitempty"`
	Couple            *decimal.Decimal `yaml:"couple,omitempty" json:"couple,omitempty"`
	SingleAndChildren *decimal.Decimal `yaml:"single_and_children,omitempty" json:"single_and_children,omitempty"`
	SingleAndSpouse   *decimal.Decimal `yaml:"single_and_spouse,omitempty" json:"single_and_spouse,omitempty"`
	Family            *decimal.Decimal `yaml:"family,omitempty" json:"family,omitempty"`
	ChildOnly         *decimal.Decimal `yaml:"child_only,omitempty" json:"child_only,omitempty"`
}

// TierPrice returns the price for a named tier, or nil if the table does not
// carry that tier.
func (fp *FamilyPricing) TierPrice(tier FamilyTier) *decimal.Decimal {
	switch tier {
	case TierSingle:
		return fp.Single
	case TierCouple:
		return fp.Couple
	case TierSingleAndChildren:
		return fp.SingleAndChildren
	case TierSingleAndSpouse:
		return fp.SingleAndSpouse
	case TierFamily:
		return fp.Family
	case TierChildOnly:
		return fp.ChildOnly
	default:
		return nil
	}
}

// RateTable is the pricing record for one plan in one rating area over an
// effective date range. Ages holds rows sorted ascending by age; sparse
// tables keyed by representative ages are valid and are interpolated at
// lookup time.
type RateTable struct {
	PlanID         string        `yaml:"plan_id" json:"plan_id"`
	RatingAreaID   string        `yaml:"rating_area_id" json:"rating_area_id"`
	EffectiveStart time.Time     `yaml:"effective_start" json:"effective_start"`
	EffectiveEnd   time.Time     `yaml:"effective_end" json:"effective_end"`
	Ages           []AgeRate     `yaml:"ages" json:"ages"`
	Family         FamilyPricing `yaml:"family" json:"family"`
}

// InEffect reports whether the table covers the given date. A zero
// EffectiveEnd means open-ended.
func (rt *RateTable) InEffect(at time.Time) bool {
	if at.Before(rt.EffectiveStart) {
		return false
	}
	if rt.EffectiveEnd.IsZero() {
		return true
	}
	return !at.After(rt.EffectiveEnd)
}

// MaxTabulatedAge returns the highest age carried by the table, or -1 for an
// empty table.
func (rt *RateTable) MaxTabulatedAge() int {
	if len(rt.Ages) == 0 {
		return -1
	}
	return rt.Ages[len(rt.Ages)-1].Age
}
