package affordability

import (
	"github.com/shopspring/decimal"
)

// Result is the outcome of the safe-harbor test for one offer: the offer is
// affordable when the employee's share of the lowest-cost Silver self-only
// premium stays within the income-based cap.
type Result struct {
	Affordable   bool            `json:"affordable"`
	LCSPSelfOnly decimal.Decimal `json:"lcsp_self_only"`
	Contribution decimal.Decimal `json:"contribution"`

	// EmployeeShare is what the employee would pay for the reference plan
	// after the contribution, floored at zero. RequiredShare is the monthly
	// cap: household income times the threshold percentage, over twelve
	// months. Margin is their difference; negative means the offer fails
	// the test by that amount.
	EmployeeShare decimal.Decimal `json:"employee_share"`
	RequiredShare decimal.Decimal `json:"required_share"`
	Margin        decimal.Decimal `json:"margin"`
	ThresholdPct  decimal.Decimal `json:"threshold_pct"`
}

// MemberCheck pairs one class member with their individual test outcome and
// the smallest contribution that would pass for them.
type MemberCheck struct {
	MemberID            string          `json:"member_id"`
	MemberName          string          `json:"member_name"`
	Result              Result          `json:"result"`
	MinimumContribution decimal.Decimal `json:"minimum_contribution"`
}

// ClassResult is the class-level sweep: every member evaluated against the
// class's self-only contribution, with the member whose circumstances demand
// the largest contribution identified as binding. MinimumContribution is the
// smallest class contribution at which every evaluated member passes.
type ClassResult struct {
	ClassID          string          `json:"class_id"`
	ClassName        string          `json:"class_name"`
	Offered          decimal.Decimal `json:"offered"`
	MembersEvaluated int             `json:"members_evaluated"`
	MembersSkipped   int             `json:"members_skipped"`
	AllAffordable    bool            `json:"all_affordable"`

	BindingMemberID     string          `json:"binding_member_id"`
	BindingMemberName   string          `json:"binding_member_name"`
	MinimumContribution decimal.Decimal `json:"minimum_contribution"`

	Members []MemberCheck `json:"members"`
}

// AffordabilityError represents errors from the affordability solver.
type AffordabilityError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *AffordabilityError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *AffordabilityError) Unwrap() error {
	return e.Cause
}
