package quote

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ichrago/ichrago/internal/domain"
	"github.com/ichrago/ichrago/internal/subsidy"
)

// PlanQuote is one priced candidate plan for a member.
type PlanQuote struct {
	Plan         domain.Plan     `json:"plan"`
	GrossPremium decimal.Decimal `json:"gross_premium"`
	// MonthlySubsidy is the credit applied to this plan, capped at the
	// gross premium. Always zero for off-market plans.
	MonthlySubsidy decimal.Decimal `json:"monthly_subsidy"`
	// NetPremium is the premium after subsidy, never below zero.
	NetPremium decimal.Decimal `json:"net_premium"`
	// ContributionUsed is the employer money actually disbursed: the class
	// contribution capped at the net premium.
	ContributionUsed decimal.Decimal `json:"contribution_used"`
	// MemberCost is what the member pays out of pocket: net premium minus
	// the contribution, floored at zero.
	MemberCost decimal.Decimal `json:"member_cost"`
}

// MemberQuote is the complete quoting outcome for one member whose pipeline
// succeeded.
type MemberQuote struct {
	MemberID     string `json:"member_id"`
	MemberName   string `json:"member_name"`
	CountyID     int    `json:"county_id"`
	CountyName   string `json:"county_name"`
	RatingAreaID string `json:"rating_area_id"`

	Contribution decimal.Decimal          `json:"contribution"`
	Subsidy      *subsidy.SubsidyResult   `json:"subsidy,omitempty"`
	Benchmark    *subsidy.BenchmarkResult `json:"benchmark,omitempty"`

	BestPlan  *PlanQuote  `json:"best_plan"`
	OnMarket  []PlanQuote `json:"on_market"`
	OffMarket []PlanQuote `json:"off_market"`

	Previous               domain.PreviousContributions `json:"previous_contributions"`
	EmployerMonthlySavings decimal.Decimal              `json:"employer_monthly_savings"`
	MemberMonthlySavings   decimal.Decimal              `json:"member_monthly_savings"`

	Warnings []domain.Warning `json:"warnings,omitempty"`
}

// MemberError is the result slot for a member whose pipeline failed. Failed
// members are excluded from group aggregates but never abort the quote.
type MemberError struct {
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
	Stage      Stage  `json:"stage"`
	Message    string `json:"message"`
	TimedOut   bool   `json:"timed_out,omitempty"`
}

// Stage names the pipeline step a member failed in.
type Stage string

const (
	StageClass     Stage = "class"
	StageResolve   Stage = "resolve"
	StageEnumerate Stage = "enumerate"
	StagePrice     Stage = "price"
	StageSubsidize Stage = "subsidize"
	StageTimeout   Stage = "timeout"
)

// GroupSummary aggregates the successful member quotes: what the employer
// disburses and the members pay under the ICHRA, against the recorded costs
// of the group plan being replaced.
type GroupSummary struct {
	MembersQuoted int `json:"members_quoted"`
	MembersFailed int `json:"members_failed"`

	EmployerMonthlyTotal   decimal.Decimal `json:"employer_monthly_total"`
	EmployerPreviousTotal  decimal.Decimal `json:"employer_previous_total"`
	EmployerMonthlySavings decimal.Decimal `json:"employer_monthly_savings"`

	EmployeeMonthlyTotal   decimal.Decimal `json:"employee_monthly_total"`
	EmployeePreviousTotal  decimal.Decimal `json:"employee_previous_total"`
	EmployeeMonthlySavings decimal.Decimal `json:"employee_monthly_savings"`

	TotalMonthlySubsidy decimal.Decimal `json:"total_monthly_subsidy"`
}

// GroupQuoteResult is the derived, disposable artifact of quoting a group.
// It is recomputed whenever members or filters change and is never a source
// of truth.
type GroupQuoteResult struct {
	QuoteID     string    `json:"quote_id"`
	GroupID     string    `json:"group_id"`
	GroupName   string    `json:"group_name"`
	GeneratedAt time.Time `json:"generated_at"`
	AsOf        time.Time `json:"as_of"`

	Filters Filters `json:"filters"`

	Members []MemberQuote `json:"members"`
	Errors  []MemberError `json:"errors,omitempty"`
	Summary GroupSummary  `json:"summary"`

	Warnings []domain.Warning `json:"warnings,omitempty"`
}
