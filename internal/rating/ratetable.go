package rating

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ichrago/ichrago/internal/domain"
)

// PremiumForAge returns the monthly premium for a single covered life at the
// given age. Sparse tables are linearly interpolated between the two nearest
// tabulated ages and rounded half-up to the cent; ages beyond the table's
// bounds clamp to the nearest band (65+ prices at the top band, never
// extrapolated). Negative ages are rejected.
func PremiumForAge(table *domain.RateTable, age int, tobacco bool) (decimal.Decimal, error) {
	if age < 0 {
		return decimal.Zero, fmt.Errorf("age %d: %w", age, domain.ErrAgeOutOfRange)
	}
	rows := table.Ages
	if len(rows) == 0 {
		return decimal.Zero, fmt.Errorf("plan %s rating area %s has an empty rate table: %w",
			table.PlanID, table.RatingAreaID, domain.ErrPlanNotFound)
	}

	if age <= rows[0].Age {
		return rateColumn(rows[0], tobacco), nil
	}
	if age >= rows[len(rows)-1].Age {
		return rateColumn(rows[len(rows)-1], tobacco), nil
	}

	idx := sort.Search(len(rows), func(i int) bool { return rows[i].Age >= age })
	if rows[idx].Age == age {
		return rateColumn(rows[idx], tobacco), nil
	}
	return interpolate(rows[idx-1], rows[idx], age, tobacco), nil
}

// interpolate computes rate_low + (rate_high - rate_low) * (age - age_low) /
// (age_high - age_low), rounded to the nearest cent half-up.
func interpolate(lower, upper domain.AgeRate, age int, tobacco bool) decimal.Decimal {
	lo := rateColumn(lower, tobacco)
	hi := rateColumn(upper, tobacco)

	offset := decimal.NewFromInt(int64(age - lower.Age))
	span := decimal.NewFromInt(int64(upper.Age - lower.Age))

	return lo.Add(hi.Sub(lo).Mul(offset).Div(span)).Round(2)
}

func rateColumn(row domain.AgeRate, tobacco bool) decimal.Decimal {
	if tobacco {
		return row.Tobacco
	}
	return row.Regular
}
