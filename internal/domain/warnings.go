package domain

import "fmt"

// WarningCode identifies a class of data-quality finding. Warnings ride along
// on results and never interrupt a calculation.
type WarningCode string

const (
	// WarnTobaccoRateBelowRegular flags a rate table row whose tobacco
	// premium undercuts the regular premium. Some jurisdictions waive the
	// surcharge under age 21, so this is recorded, not rejected.
	WarnTobaccoRateBelowRegular WarningCode = "tobacco_rate_below_regular"

	// WarnBenchmarkFallbackLowest flags a rating area with a single Silver
	// plan, where the lowest premium stood in for the second lowest.
	WarnBenchmarkFallbackLowest WarningCode = "benchmark_fallback_lowest"

	// WarnNoSilverBenchmark flags a rating area with no priceable Silver
	// plans at all. Subsidy calculation is skipped for the member.
	WarnNoSilverBenchmark WarningCode = "no_silver_benchmark"
)

// Warning is a non-fatal data-quality finding attached to a result.
type Warning struct {
	Code    WarningCode `json:"code" yaml:"code"`
	Message string      `json:"message" yaml:"message"`
}

// Warningf builds a Warning with a formatted message.
func Warningf(code WarningCode, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (w Warning) String() string {
	return string(w.Code) + ": " + w.Message
}
