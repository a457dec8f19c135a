package rating

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ichrago/ichrago/internal/domain"
)

// CoveredLife is one person priced on a policy.
type CoveredLife struct {
	Age     int
	Tobacco bool
}

// familyRater attempts to price a household by one rating method. The bool
// reports whether the method applies to this table and composition; when it
// does not, pricing falls through to the next rater.
type familyRater func(table *domain.RateTable, lives []CoveredLife) (decimal.Decimal, bool, error)

// familyRaters is the precedence chain: a flat fixed price overrides
// everything, a matching composition tier beats summation, and per-member
// community rating is the universal fallback.
var familyRaters = []familyRater{fixedPriceRate, tierRate, perMemberRate}

// FamilyPremium prices a household of covered lives on one rate table using
// the plan's declared family-rating method.
func FamilyPremium(table *domain.RateTable, lives []CoveredLife) (decimal.Decimal, error) {
	if len(lives) == 0 {
		return decimal.Zero, fmt.Errorf("no covered lives: %w", domain.ErrInvalidInput)
	}

	for _, rate := range familyRaters {
		premium, applied, err := rate(table, lives)
		if err != nil {
			return decimal.Zero, err
		}
		if applied {
			return premium, nil
		}
	}
	return decimal.Zero, fmt.Errorf("no rating method for plan %s: %w", table.PlanID, domain.ErrPlanNotFound)
}

func fixedPriceRate(table *domain.RateTable, _ []CoveredLife) (decimal.Decimal, bool, error) {
	if table.Family.FixedPrice == nil {
		return decimal.Zero, false, nil
	}
	return *table.Family.FixedPrice, true, nil
}

func tierRate(table *domain.RateTable, lives []CoveredLife) (decimal.Decimal, bool, error) {
	for _, tier := range tierCandidates(lives) {
		if price := table.Family.TierPrice(tier); price != nil {
			return *price, true, nil
		}
	}
	return decimal.Zero, false, nil
}

func perMemberRate(table *domain.RateTable, lives []CoveredLife) (decimal.Decimal, bool, error) {
	total := decimal.Zero
	for _, life := range lives {
		premium, err := PremiumForAge(table, life.Age, life.Tobacco)
		if err != nil {
			return decimal.Zero, false, err
		}
		total = total.Add(premium)
	}
	return total, true, nil
}

// tierCandidates classifies the household by counting adults against
// children and returns the tiers to try, most specific first. Households
// with more than two adults have no canonical tier and price per member.
func tierCandidates(lives []CoveredLife) []domain.FamilyTier {
	adults, children := 0, 0
	for _, life := range lives {
		if life.Age >= domain.AdultAge {
			adults++
		} else {
			children++
		}
	}

	switch {
	case adults == 1 && children == 0:
		return []domain.FamilyTier{domain.TierSingle}
	case adults == 2 && children == 0:
		return []domain.FamilyTier{domain.TierCouple, domain.TierSingleAndSpouse}
	case adults == 1:
		return []domain.FamilyTier{domain.TierSingleAndChildren}
	case adults == 2:
		return []domain.FamilyTier{domain.TierFamily}
	case adults == 0 && children > 0:
		return []domain.FamilyTier{domain.TierChildOnly}
	default:
		return nil
	}
}
