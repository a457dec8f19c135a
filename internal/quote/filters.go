package quote

import "github.com/ichrago/ichrago/internal/domain"

// Market filter values.
const (
	MarketAny = ""
	MarketOn  = "on"
	MarketOff = "off"
)

// Filters narrows the candidate plan pool before best-plan selection.
// Filtering happens after pricing and subsidy so the benchmark stays stable
// no matter how the pool is narrowed. Applying the same filters twice yields
// the same pool.
type Filters struct {
	Carriers    []string            `json:"carriers,omitempty" yaml:"carriers"`
	MetalLevels []domain.MetalLevel `json:"metal_levels,omitempty" yaml:"metal_levels"`
	Market      string              `json:"market,omitempty" yaml:"market"`
}

// IsZero reports whether no filtering is requested.
func (f Filters) IsZero() bool {
	return len(f.Carriers) == 0 && len(f.MetalLevels) == 0 && f.Market == MarketAny
}

// Allows reports whether a plan survives the filters.
func (f Filters) Allows(plan domain.Plan) bool {
	if len(f.Carriers) > 0 && !containsString(f.Carriers, plan.Carrier) {
		return false
	}
	if len(f.MetalLevels) > 0 && !containsMetal(f.MetalLevels, plan.MetalLevel) {
		return false
	}
	switch f.Market {
	case MarketOn:
		if !plan.OnMarket {
			return false
		}
	case MarketOff:
		if plan.OnMarket {
			return false
		}
	}
	return true
}

// Apply returns the plans that survive the filters, preserving order.
func (f Filters) Apply(plans []domain.Plan) []domain.Plan {
	if f.IsZero() {
		return plans
	}
	kept := make([]domain.Plan, 0, len(plans))
	for _, p := range plans {
		if f.Allows(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsMetal(levels []domain.MetalLevel, level domain.MetalLevel) bool {
	for _, l := range levels {
		if l == level {
			return true
		}
	}
	return false
}
