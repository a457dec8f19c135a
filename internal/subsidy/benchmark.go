package subsidy

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ichrago/ichrago/internal/domain"
)

// SilverPremium pairs an on-market Silver plan with its priced monthly
// premium for one member.
type SilverPremium struct {
	PlanID  string          `json:"plan_id"`
	Premium decimal.Decimal `json:"premium"`
}

// BenchmarkResult identifies the Silver plan whose premium anchors the
// subsidy calculation.
type BenchmarkResult struct {
	PlanID  string          `json:"plan_id"`
	Premium decimal.Decimal `json:"premium"`
}

// BenchmarkSilver selects the second-lowest-cost Silver premium. With a
// single Silver plan the lowest stands in, flagged with a warning; with none
// there is no benchmark and the subsidy step is skipped. Ties sort by plan id
// so repeated runs pick the same plan.
func BenchmarkSilver(premiums []SilverPremium) (*BenchmarkResult, *domain.Warning) {
	if len(premiums) == 0 {
		w := domain.Warningf(domain.WarnNoSilverBenchmark, "no priceable Silver plans in rating area")
		return nil, &w
	}

	sorted := make([]SilverPremium, len(premiums))
	copy(sorted, premiums)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Premium.Equal(sorted[j].Premium) {
			return sorted[i].Premium.LessThan(sorted[j].Premium)
		}
		return sorted[i].PlanID < sorted[j].PlanID
	})

	if len(sorted) == 1 {
		w := domain.Warningf(domain.WarnBenchmarkFallbackLowest,
			"only one Silver plan (%s); using lowest premium as benchmark", sorted[0].PlanID)
		return &BenchmarkResult{PlanID: sorted[0].PlanID, Premium: sorted[0].Premium}, &w
	}

	return &BenchmarkResult{PlanID: sorted[1].PlanID, Premium: sorted[1].Premium}, nil
}
