package rating

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ichrago/ichrago/internal/domain"
)

// RateSource supplies the rate table in effect for a plan in a rating area.
type RateSource interface {
	RateTableFor(planID, ratingAreaID string, at time.Time) (*domain.RateTable, error)
}

// PremiumCalculator prices individuals and households against rate tables
// effective on its quote date.
type PremiumCalculator struct {
	rates  RateSource
	asOf   time.Time
	logger *zap.Logger
}

// NewPremiumCalculator creates a calculator quoting as of the given date. A
// zero date quotes as of now.
func NewPremiumCalculator(rates RateSource, asOf time.Time, logger *zap.Logger) *PremiumCalculator {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PremiumCalculator{
		rates:  rates,
		asOf:   asOf,
		logger: logger.Named("rating"),
	}
}

// AsOf returns the calculator's quote date.
func (pc *PremiumCalculator) AsOf() time.Time {
	return pc.asOf
}

// PriceIndividual returns the monthly premium for one person on a plan in a
// rating area. ErrPlanNotFound means the plan is unpriceable there.
func (pc *PremiumCalculator) PriceIndividual(planID string, age int, tobacco bool, ratingAreaID string) (decimal.Decimal, error) {
	table, err := pc.rates.RateTableFor(planID, ratingAreaID, pc.asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return PremiumForAge(table, age, tobacco)
}

// PriceFamily returns the monthly household premium for a plan in a rating
// area, following the plan's family-rating method.
func (pc *PremiumCalculator) PriceFamily(planID string, lives []CoveredLife, ratingAreaID string) (decimal.Decimal, error) {
	table, err := pc.rates.RateTableFor(planID, ratingAreaID, pc.asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return FamilyPremium(table, lives)
}

// LivesForMember expands a member and dependents into covered lives aged as
// of the quote date. Each life keeps its own tobacco flag.
func (pc *PremiumCalculator) LivesForMember(m *domain.Member) []CoveredLife {
	lives := make([]CoveredLife, 0, 1+len(m.Dependents))
	lives = append(lives, CoveredLife{Age: m.AgeAt(pc.asOf), Tobacco: m.Tobacco})
	for i := range m.Dependents {
		dep := &m.Dependents[i]
		lives = append(lives, CoveredLife{Age: dep.AgeAt(pc.asOf), Tobacco: dep.Tobacco})
	}
	return lives
}
