package domain

import (
	"github.com/shopspring/decimal"
)

// MetalLevel is the ACA coverage tier of a plan.
type MetalLevel string

const (
	MetalBronze       MetalLevel = "Bronze"
	MetalSilver       MetalLevel = "Silver"
	MetalGold         MetalLevel = "Gold"
	MetalPlatinum     MetalLevel = "Platinum"
	MetalCatastrophic MetalLevel = "Catastrophic"
)

// Plan is a marketplace health plan. The benefit-design fields (deductible,
// copays) are not used by rating; they are carried through to quote output so
// callers can display them.
type Plan struct {
	ID               string          `yaml:"id" json:"id"`
	Name             string          `yaml:"name" json:"name"`
	Carrier          string          `yaml:"carrier" json:"carrier"`
	MetalLevel       MetalLevel      `yaml:"metal_level" json:"metal_level"`
	OnMarket         bool            `yaml:"on_market" json:"on_market"`
	PlanType         string          `yaml:"plan_type" json:"plan_type"`
	Deductible       decimal.Decimal `yaml:"deductible" json:"deductible"`
	OOPMax           decimal.Decimal `yaml:"oop_max" json:"oop_max"`
	PrimaryCareCopay decimal.Decimal `yaml:"primary_care_copay" json:"primary_care_copay"`
	SpecialistCopay  decimal.Decimal `yaml:"specialist_copay" json:"specialist_copay"`
}

// IsSilver reports whether the plan sits on the Silver tier, the tier the
// subsidy benchmark is drawn from.
func (p *Plan) IsSilver() bool {
	return p.MetalLevel == MetalSilver
}

// PlanCounty records that a plan is sold in a county. Unique on the pair.
type PlanCounty struct {
	PlanID   string `yaml:"plan_id" json:"plan_id"`
	CountyID int    `yaml:"county_id" json:"county_id"`
}
