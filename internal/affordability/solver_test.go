package affordability

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ichrago/ichrago/internal/domain"
)

// At 30000 income the monthly cap is 30000 * 9.02% / 12 = 225.50.

func TestCheckAffordability(t *testing.T) {
	solver := NewSolver()

	tests := []struct {
		name           string
		lcsp           float64
		contribution   float64
		income         float64
		wantAffordable bool
		wantShare      float64
		wantMargin     float64
	}{
		{"comfortably affordable", 400, 200, 30000, true, 200, 25.50},
		{"unaffordable", 400, 150, 30000, false, 250, -24.50},
		{"exactly at the cap passes", 400, 174.50, 30000, true, 225.50, 0},
		{"one cent over fails", 400, 174.49, 30000, false, 225.51, -0.01},
		{"contribution above premium floors the share", 300, 350, 30000, true, 0, 225.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := solver.CheckAffordability(
				decimal.NewFromFloat(tt.lcsp),
				decimal.NewFromFloat(tt.contribution),
				decimal.NewFromFloat(tt.income))
			if err != nil {
				t.Fatalf("CheckAffordability returned error: %v", err)
			}
			if result.Affordable != tt.wantAffordable {
				t.Errorf("Affordable = %v, want %v", result.Affordable, tt.wantAffordable)
			}
			if !result.EmployeeShare.Equal(decimal.NewFromFloat(tt.wantShare)) {
				t.Errorf("EmployeeShare = %s, want %v", result.EmployeeShare, tt.wantShare)
			}
			if !result.Margin.Equal(decimal.NewFromFloat(tt.wantMargin)) {
				t.Errorf("Margin = %s, want %v", result.Margin, tt.wantMargin)
			}
		})
	}
}

func TestCheckAffordabilityValidation(t *testing.T) {
	solver := NewSolver()

	cases := []struct {
		name         string
		lcsp         float64
		contribution float64
		income       float64
	}{
		{"negative premium", -1, 0, 30000},
		{"negative contribution", 400, -10, 30000},
		{"zero income", 400, 100, 0},
		{"negative income", 400, 100, -5},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := solver.CheckAffordability(
				decimal.NewFromFloat(tt.lcsp),
				decimal.NewFromFloat(tt.contribution),
				decimal.NewFromFloat(tt.income))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var affErr *AffordabilityError
			if !errors.As(err, &affErr) {
				t.Errorf("expected *AffordabilityError, got %T", err)
			}
		})
	}
}

func TestMinimumContribution(t *testing.T) {
	solver := NewSolver()

	got, err := solver.MinimumContribution(decimal.NewFromInt(400), decimal.NewFromInt(30000))
	if err != nil {
		t.Fatalf("MinimumContribution returned error: %v", err)
	}
	if !got.Equal(decimal.NewFromFloat(174.50)) {
		t.Errorf("MinimumContribution = %s, want 174.50", got)
	}

	// A premium already inside the cap needs no contribution at all.
	got, err = solver.MinimumContribution(decimal.NewFromInt(200), decimal.NewFromInt(30000))
	if err != nil {
		t.Fatalf("MinimumContribution returned error: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("MinimumContribution = %s, want 0", got)
	}
}

func TestMinimumContributionClosesTheGap(t *testing.T) {
	solver := NewSolver()
	lcsp := decimal.NewFromFloat(512.34)
	income := decimal.NewFromInt(41000)

	minC, err := solver.MinimumContribution(lcsp, income)
	if err != nil {
		t.Fatalf("MinimumContribution returned error: %v", err)
	}
	result, err := solver.CheckAffordability(lcsp, minC, income)
	if err != nil {
		t.Fatalf("CheckAffordability returned error: %v", err)
	}
	if !result.Affordable {
		t.Errorf("offer with the minimum contribution %s should be affordable, margin %s", minC, result.Margin)
	}
}

type staticPremiums map[string]decimal.Decimal

func (sp staticPremiums) LCSPSelfOnly(m *domain.Member) (decimal.Decimal, error) {
	p, ok := sp[m.ID]
	if !ok {
		return decimal.Zero, fmt.Errorf("no premium for member %s", m.ID)
	}
	return p, nil
}

func TestSolveClass(t *testing.T) {
	solver := NewSolver()

	class := &domain.ICHRAClass{ID: "ft", Name: "Full-time", EmployeeMonthly: decimal.NewFromInt(150)}
	members := []domain.Member{
		{ID: "m-amy", Name: "Amy", ClassID: "ft", HouseholdIncome: decimal.NewFromInt(30000)},
		{ID: "m-ben", Name: "Ben", ClassID: "ft", HouseholdIncome: decimal.NewFromInt(60000)},
		{ID: "m-cara", Name: "Cara", ClassID: "ft"},
		{ID: "m-dee", Name: "Dee", ClassID: "pt", HouseholdIncome: decimal.NewFromInt(25000)},
	}
	premiums := staticPremiums{
		"m-amy": decimal.NewFromInt(400),
		"m-ben": decimal.NewFromInt(400),
	}

	result, err := solver.SolveClass(class, members, premiums)
	if err != nil {
		t.Fatalf("SolveClass returned error: %v", err)
	}

	if result.MembersEvaluated != 2 {
		t.Errorf("MembersEvaluated = %d, want 2", result.MembersEvaluated)
	}
	if result.MembersSkipped != 1 {
		t.Errorf("MembersSkipped = %d, want 1", result.MembersSkipped)
	}
	if result.AllAffordable {
		t.Error("AllAffordable = true, want false; Amy's offer fails at 150")
	}
	// Amy's income demands the larger contribution: 400 - 225.50.
	if result.BindingMemberID != "m-amy" {
		t.Errorf("BindingMemberID = %s, want m-amy", result.BindingMemberID)
	}
	if !result.MinimumContribution.Equal(decimal.NewFromFloat(174.50)) {
		t.Errorf("MinimumContribution = %s, want 174.50", result.MinimumContribution)
	}
	if len(result.Members) != 2 {
		t.Fatalf("Members length = %d, want 2", len(result.Members))
	}
	if !result.Members[1].MinimumContribution.IsZero() {
		t.Errorf("Ben's minimum = %s, want 0", result.Members[1].MinimumContribution)
	}
}

func TestSolveClassNoEvaluableMembers(t *testing.T) {
	solver := NewSolver()
	class := &domain.ICHRAClass{ID: "ft", EmployeeMonthly: decimal.NewFromInt(100)}
	members := []domain.Member{{ID: "m-1", ClassID: "ft"}}

	_, err := solver.SolveClass(class, members, staticPremiums{})
	if err == nil {
		t.Fatal("expected error for a class with no evaluable members")
	}
}

func TestSolveClassPremiumLookupFailure(t *testing.T) {
	solver := NewSolver()
	class := &domain.ICHRAClass{ID: "ft", EmployeeMonthly: decimal.NewFromInt(100)}
	members := []domain.Member{
		{ID: "m-ghost", ClassID: "ft", HouseholdIncome: decimal.NewFromInt(30000)},
	}

	_, err := solver.SolveClass(class, members, staticPremiums{})
	if err == nil {
		t.Fatal("expected error when the reference premium cannot be computed")
	}
	var affErr *AffordabilityError
	if !errors.As(err, &affErr) {
		t.Fatalf("expected *AffordabilityError, got %T", err)
	}
	if affErr.Cause == nil {
		t.Error("expected the lookup failure to be carried as Cause")
	}
}
