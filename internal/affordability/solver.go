package affordability

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ichrago/ichrago/internal/domain"
)

// LCSPSource supplies the lowest-cost Silver self-only premium for a member,
// the reference premium the safe-harbor test is anchored to.
type LCSPSource interface {
	LCSPSelfOnly(m *domain.Member) (decimal.Decimal, error)
}

// Solver runs the IRS safe-harbor affordability test for ICHRA offers.
type Solver struct {
	thresholdPct decimal.Decimal
	logger       *zap.Logger
}

// NewSolver creates a solver with the compiled-in threshold for the current
// plan year.
func NewSolver() *Solver {
	return NewSolverWithConfig(domain.DefaultPolicyConfig(), nil)
}

// NewSolverWithConfig creates a solver with a configurable threshold, for
// plan years whose percentage has been published since this build.
func NewSolverWithConfig(policy *domain.PolicyConfig, logger *zap.Logger) *Solver {
	if policy == nil {
		policy = domain.DefaultPolicyConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{
		thresholdPct: policy.Affordability.ThresholdPct,
		logger:       logger.Named("affordability"),
	}
}

// CheckAffordability tests one offer: affordable iff the lowest-cost Silver
// self-only premium minus the contribution stays within the monthly cap of
// income times the threshold percentage.
func (s *Solver) CheckAffordability(lcspSelfOnly, contribution, householdIncome decimal.Decimal) (*Result, error) {
	if err := s.validate(lcspSelfOnly, contribution, householdIncome); err != nil {
		return nil, err
	}

	required := s.requiredShare(householdIncome)
	share := decimal.Max(decimal.Zero, lcspSelfOnly.Sub(contribution))

	return &Result{
		Affordable:    share.LessThanOrEqual(required),
		LCSPSelfOnly:  lcspSelfOnly,
		Contribution:  contribution,
		EmployeeShare: share,
		RequiredShare: required,
		Margin:        required.Sub(share),
		ThresholdPct:  s.thresholdPct,
	}, nil
}

// MinimumContribution returns the smallest monthly contribution that makes
// the offer affordable for the household, floored at zero.
func (s *Solver) MinimumContribution(lcspSelfOnly, householdIncome decimal.Decimal) (decimal.Decimal, error) {
	if err := s.validate(lcspSelfOnly, decimal.Zero, householdIncome); err != nil {
		return decimal.Zero, err
	}
	needed := lcspSelfOnly.Sub(s.requiredShare(householdIncome))
	return decimal.Max(decimal.Zero, needed).Round(2), nil
}

// SolveClass evaluates every member of a class against the class's self-only
// contribution and reports the binding member, the one whose circumstances
// demand the largest contribution. Members without a stated household income
// are skipped and counted.
func (s *Solver) SolveClass(class *domain.ICHRAClass, members []domain.Member, premiums LCSPSource) (*ClassResult, error) {
	if class == nil {
		return nil, &AffordabilityError{
			Operation: "solve_class",
			Message:   "class is required",
		}
	}

	result := &ClassResult{
		ClassID:       class.ID,
		ClassName:     class.Name,
		Offered:       class.EmployeeMonthly,
		AllAffordable: true,
	}

	for i := range members {
		m := &members[i]
		if m.ClassID != class.ID {
			continue
		}
		if !m.HouseholdIncome.IsPositive() {
			s.logger.Debug("skipping member with no stated income",
				zap.String("member_id", m.ID))
			result.MembersSkipped++
			continue
		}

		lcsp, err := premiums.LCSPSelfOnly(m)
		if err != nil {
			return nil, &AffordabilityError{
				Operation: "solve_class",
				Message:   fmt.Sprintf("reference premium for member %s", m.ID),
				Cause:     err,
			}
		}

		check, err := s.CheckAffordability(lcsp, class.EmployeeMonthly, m.HouseholdIncome)
		if err != nil {
			return nil, &AffordabilityError{
				Operation: "solve_class",
				Message:   fmt.Sprintf("member %s", m.ID),
				Cause:     err,
			}
		}
		minContribution, err := s.MinimumContribution(lcsp, m.HouseholdIncome)
		if err != nil {
			return nil, &AffordabilityError{
				Operation: "solve_class",
				Message:   fmt.Sprintf("member %s", m.ID),
				Cause:     err,
			}
		}

		result.MembersEvaluated++
		result.AllAffordable = result.AllAffordable && check.Affordable
		result.Members = append(result.Members, MemberCheck{
			MemberID:            m.ID,
			MemberName:          m.Name,
			Result:              *check,
			MinimumContribution: minContribution,
		})
		if minContribution.GreaterThan(result.MinimumContribution) || result.BindingMemberID == "" {
			result.BindingMemberID = m.ID
			result.BindingMemberName = m.Name
			result.MinimumContribution = minContribution
		}
	}

	if result.MembersEvaluated == 0 {
		return nil, &AffordabilityError{
			Operation: "solve_class",
			Message:   fmt.Sprintf("class %q has no members with a stated household income", class.ID),
		}
	}

	s.logger.Info("class affordability solved",
		zap.String("class_id", class.ID),
		zap.Int("evaluated", result.MembersEvaluated),
		zap.Bool("all_affordable", result.AllAffordable),
		zap.String("minimum_contribution", result.MinimumContribution.StringFixed(2)))
	return result, nil
}

func (s *Solver) validate(lcsp, contribution, income decimal.Decimal) error {
	if lcsp.IsNegative() {
		return &AffordabilityError{
			Operation: "check_affordability",
			Message:   fmt.Sprintf("reference premium %s must not be negative", lcsp),
		}
	}
	if contribution.IsNegative() {
		return &AffordabilityError{
			Operation: "check_affordability",
			Message:   fmt.Sprintf("contribution %s must not be negative", contribution),
		}
	}
	if !income.IsPositive() {
		return &AffordabilityError{
			Operation: "check_affordability",
			Message:   fmt.Sprintf("household income %s must be positive", income),
		}
	}
	return nil
}

// requiredShare is the monthly income cap the employee share is judged
// against.
func (s *Solver) requiredShare(income decimal.Decimal) decimal.Decimal {
	return income.
		Mul(s.thresholdPct).
		Div(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(12)).
		Round(2)
}
