package domain

import (
	"github.com/shopspring/decimal"
)

// PolicyConfig carries the regulatory tables the subsidy and affordability
// calculations depend on. Loaded from policy.yaml when supplied, otherwise
// the compiled-in defaults for the current plan year apply.
type PolicyConfig struct {
	Metadata              PolicyMetadata     `yaml:"metadata" json:"metadata"`
	PovertyGuidelines     PovertyGuidelines  `yaml:"poverty_guidelines" json:"poverty_guidelines"`
	ApplicablePercentages []FPLBracket       `yaml:"applicable_percentages" json:"applicable_percentages"`
	Eligibility           SubsidyEligibility `yaml:"eligibility" json:"eligibility"`
	Affordability         AffordabilityRules `yaml:"affordability" json:"affordability"`
}

// PolicyMetadata records which plan year the tables describe.
type PolicyMetadata struct {
	PlanYear    int    `yaml:"plan_year" json:"plan_year"`
	LastUpdated string `yaml:"last_updated" json:"last_updated"`
	Description string `yaml:"description" json:"description"`
}

// PovertyGuidelines is the federal poverty guideline table indexed by
// household size. Base holds sizes 1 through len(Base); each member beyond
// that adds AdditionalPerMember.
type PovertyGuidelines struct {
	Base                []decimal.Decimal `yaml:"base" json:"base"`
	AdditionalPerMember decimal.Decimal   `yaml:"additional_per_member" json:"additional_per_member"`
}

// FPLBracket is one row of the applicable-percentage schedule: between
// FloorPct and CeilingPct of FPL, the expected household contribution rises
// linearly from InitialPct to FinalPct of income.
type FPLBracket struct {
	FloorPct   decimal.Decimal `yaml:"floor_pct" json:"floor_pct"`
	CeilingPct decimal.Decimal `yaml:"ceiling_pct" json:"ceiling_pct"`
	InitialPct decimal.Decimal `yaml:"initial_pct" json:"initial_pct"`
	FinalPct   decimal.Decimal `yaml:"final_pct" json:"final_pct"`
}

// SubsidyEligibility bounds the FPL percentage band inside which a household
// qualifies for the premium tax credit.
type SubsidyEligibility struct {
	MinFPLPct decimal.Decimal `yaml:"min_fpl_pct" json:"min_fpl_pct"`
	MaxFPLPct decimal.Decimal `yaml:"max_fpl_pct" json:"max_fpl_pct"`
}

// AffordabilityRules holds the IRS safe-harbor threshold for judging whether
// an ICHRA offer is affordable.
type AffordabilityRules struct {
	ThresholdPct decimal.Decimal `yaml:"threshold_pct" json:"threshold_pct"`
}

// DefaultPolicyConfig returns the compiled-in policy tables: 2025 federal
// poverty guidelines (48 contiguous states) and the applicable-percentage
// schedule this engine's rate data was published against.
func DefaultPolicyConfig() *PolicyConfig {
	return &PolicyConfig{
		Metadata: PolicyMetadata{
			PlanYear:    2025,
			LastUpdated: "2025-01-17",
			Description: "HHS poverty guidelines and premium tax credit applicable percentages",
		},
		PovertyGuidelines: PovertyGuidelines{
			Base: []decimal.Decimal{
				decimal.NewFromInt(15650), // household of 1
				decimal.NewFromInt(21150),
				decimal.NewFromInt(26650),
				decimal.NewFromInt(32150),
				decimal.NewFromInt(37650),
				decimal.NewFromInt(43150),
				decimal.NewFromInt(48650),
				decimal.NewFromInt(54150), // household of 8
			},
			AdditionalPerMember: decimal.NewFromInt(5500),
		},
		ApplicablePercentages: []FPLBracket{
			{
				FloorPct:   decimal.NewFromInt(100),
				CeilingPct: decimal.NewFromInt(133),
				InitialPct: decimal.NewFromFloat(2.06),
				FinalPct:   decimal.NewFromFloat(2.06),
			},
			{
				FloorPct:   decimal.NewFromInt(133),
				CeilingPct: decimal.NewFromInt(150),
				InitialPct: decimal.NewFromFloat(3.09),
				FinalPct:   decimal.NewFromFloat(4.12),
			},
			{
				FloorPct:   decimal.NewFromInt(150),
				CeilingPct: decimal.NewFromInt(200),
				InitialPct: decimal.NewFromFloat(4.12),
				FinalPct:   decimal.NewFromFloat(6.49),
			},
			{
				FloorPct:   decimal.NewFromInt(200),
				CeilingPct: decimal.NewFromInt(250),
				InitialPct: decimal.NewFromFloat(6.49),
				FinalPct:   decimal.NewFromFloat(8.29),
			},
			{
				FloorPct:   decimal.NewFromInt(250),
				CeilingPct: decimal.NewFromInt(300),
				InitialPct: decimal.NewFromFloat(8.29),
				FinalPct:   decimal.NewFromFloat(9.78),
			},
			{
				FloorPct:   decimal.NewFromInt(300),
				CeilingPct: decimal.NewFromInt(400),
				InitialPct: decimal.NewFromFloat(9.78),
				FinalPct:   decimal.NewFromFloat(9.78),
			},
		},
		Eligibility: SubsidyEligibility{
			MinFPLPct: decimal.NewFromInt(100),
			MaxFPLPct: decimal.NewFromInt(400),
		},
		Affordability: AffordabilityRules{
			ThresholdPct: decimal.NewFromFloat(9.02),
		},
	}
}
