package subsidy

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ichrago/ichrago/internal/domain"
)

// SubsidyEngine computes ACA premium tax credits from household income and
// the rating area's benchmark Silver premium.
type SubsidyEngine struct {
	guidelines  domain.PovertyGuidelines
	schedule    []domain.FPLBracket
	eligibility domain.SubsidyEligibility
	logger      *zap.Logger
}

// SubsidyResult is the outcome of a subsidy calculation. When IsEligible is
// false only FPLPercentage carries information; every money field is zero.
type SubsidyResult struct {
	IsEligible           bool            `json:"is_eligible"`
	FPLPercentage        decimal.Decimal `json:"fpl_percentage"`
	ApplicablePercentage decimal.Decimal `json:"applicable_percentage"`
	ExpectedContribution decimal.Decimal `json:"expected_contribution"`
	MaxSubsidy           decimal.Decimal `json:"max_subsidy"`
	MonthlySubsidy       decimal.Decimal `json:"monthly_subsidy"`
}

// NewSubsidyEngine creates an engine with the compiled-in policy tables.
func NewSubsidyEngine() *SubsidyEngine {
	return NewSubsidyEngineWithConfig(domain.DefaultPolicyConfig(), nil)
}

// NewSubsidyEngineWithConfig creates an engine with configurable policy
// tables, e.g. loaded from policy.yaml for a different plan year.
func NewSubsidyEngineWithConfig(config *domain.PolicyConfig, logger *zap.Logger) *SubsidyEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubsidyEngine{
		guidelines:  config.PovertyGuidelines,
		schedule:    config.ApplicablePercentages,
		eligibility: config.Eligibility,
		logger:      logger.Named("subsidy"),
	}
}

// FPL returns the federal poverty guideline amount for a household size.
// Sizes beyond the tabulated range add the per-member increment.
func (se *SubsidyEngine) FPL(householdSize int) (decimal.Decimal, error) {
	if householdSize < 1 {
		return decimal.Zero, fmt.Errorf("household size %d: %w", householdSize, domain.ErrInvalidInput)
	}
	if len(se.guidelines.Base) == 0 {
		return decimal.Zero, fmt.Errorf("poverty guideline table is empty: %w", domain.ErrInvalidInput)
	}

	base := se.guidelines.Base
	if householdSize <= len(base) {
		return base[householdSize-1], nil
	}

	extra := decimal.NewFromInt(int64(householdSize - len(base)))
	return base[len(base)-1].Add(se.guidelines.AdditionalPerMember.Mul(extra)), nil
}

// CalculateSubsidy computes the monthly premium tax credit for a household
// against the benchmark Silver premium. Eligibility requires the household's
// FPL percentage to fall inside the policy band; outside it the result is
// ineligible with a zero subsidy. The subsidy never goes negative: a
// benchmark cheaper than the expected contribution yields zero.
func (se *SubsidyEngine) CalculateSubsidy(benchmark, income decimal.Decimal, householdSize, age int) (*SubsidyResult, error) {
	if benchmark.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("benchmark premium %s must be positive: %w", benchmark, domain.ErrInvalidInput)
	}
	if income.IsNegative() {
		return nil, fmt.Errorf("income %s must not be negative: %w", income, domain.ErrInvalidInput)
	}
	fpl, err := se.FPL(householdSize)
	if err != nil {
		return nil, err
	}

	fplPct := income.Div(fpl).Mul(decimal.NewFromInt(100))
	result := &SubsidyResult{FPLPercentage: fplPct.Round(2)}

	if fplPct.LessThan(se.eligibility.MinFPLPct) || fplPct.GreaterThan(se.eligibility.MaxFPLPct) {
		se.logger.Debug("household outside subsidy band",
			zap.String("fpl_pct", fplPct.StringFixed(2)),
			zap.Int("household_size", householdSize))
		return result, nil
	}

	result.IsEligible = true
	result.ApplicablePercentage = se.applicablePercentage(fplPct)
	result.ExpectedContribution = income.
		Mul(result.ApplicablePercentage).
		Div(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(12)).
		Round(2)
	result.MaxSubsidy = benchmark.Sub(result.ExpectedContribution)
	result.MonthlySubsidy = decimal.Max(decimal.Zero, result.MaxSubsidy).Round(2)

	return result, nil
}

// applicablePercentage walks the bracket schedule and linearly interpolates
// the expected-contribution percentage inside the matched bracket, rounded to
// the nearest hundredth of a percent as the published tables are.
func (se *SubsidyEngine) applicablePercentage(fplPct decimal.Decimal) decimal.Decimal {
	if len(se.schedule) == 0 {
		return decimal.Zero
	}

	bracket := se.schedule[len(se.schedule)-1]
	for _, b := range se.schedule {
		if fplPct.LessThan(b.CeilingPct) {
			bracket = b
			break
		}
	}

	span := bracket.CeilingPct.Sub(bracket.FloorPct)
	rise := bracket.FinalPct.Sub(bracket.InitialPct)
	if span.IsZero() || rise.IsZero() {
		return bracket.InitialPct
	}

	offset := fplPct.Sub(bracket.FloorPct)
	return bracket.InitialPct.Add(rise.Mul(offset).Div(span)).Round(2)
}
