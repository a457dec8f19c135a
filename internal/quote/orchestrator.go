package quote

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ichrago/ichrago/internal/domain"
	"github.com/ichrago/ichrago/internal/rating"
	"github.com/ichrago/ichrago/internal/subsidy"
)

// DefaultWorkers bounds concurrent member pipelines when no override is
// given.
const DefaultWorkers = 8

// Geography resolves a member's ZIP code to a county and rating area.
type Geography interface {
	ResolveMember(zip string, explicitCountyID *int) (domain.County, string, error)
}

// Pricer prices plans for individuals and households on a fixed quote date.
type Pricer interface {
	AsOf() time.Time
	PriceIndividual(planID string, age int, tobacco bool, ratingAreaID string) (decimal.Decimal, error)
	PriceFamily(planID string, lives []rating.CoveredLife, ratingAreaID string) (decimal.Decimal, error)
	LivesForMember(m *domain.Member) []rating.CoveredLife
}

// SubsidyCalculator computes the premium tax credit against a benchmark.
type SubsidyCalculator interface {
	CalculateSubsidy(benchmark, income decimal.Decimal, householdSize, age int) (*subsidy.SubsidyResult, error)
}

// PlanCatalog supplies plan records and county availability.
type PlanCatalog interface {
	Plan(id string) (domain.Plan, bool)
	PlansInCounty(countyID int) []string
	CountyCount() int
	Warnings() []domain.Warning
}

// Orchestrator runs the full quoting pipeline for a group: each member is
// resolved, priced, subsidized, and ranked independently, so one bad member
// never sinks the group.
type Orchestrator struct {
	catalog PlanCatalog
	geo     Geography
	pricer  Pricer
	subs    SubsidyCalculator
	workers int
	logger  *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers caps how many member pipelines run at once.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLogger sets the orchestrator's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator wires the quoting pipeline together.
func NewOrchestrator(catalog PlanCatalog, geo Geography, pricer Pricer, subs SubsidyCalculator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		catalog: catalog,
		geo:     geo,
		pricer:  pricer,
		subs:    subs,
		workers: DefaultWorkers,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.Named("quote")
	return o
}

// QuoteGroup quotes every member of the group concurrently and aggregates
// the results. Member failures land in the Errors manifest; only structural
// problems (empty group, no reference data) return an error. When the
// context expires mid-run, members still in flight are reported as timed
// out and the partial result is returned.
func (o *Orchestrator) QuoteGroup(ctx context.Context, group *domain.Group, filters Filters) (*GroupQuoteResult, error) {
	if group == nil || len(group.Members) == 0 {
		return nil, fmt.Errorf("group has no members to quote: %w", domain.ErrInvalidInput)
	}
	if o.catalog.CountyCount() == 0 {
		return nil, fmt.Errorf("reference data has no counties loaded: %w", domain.ErrInvalidInput)
	}

	start := time.Now()
	o.logger.Info("quoting group",
		zap.String("group_id", group.ID),
		zap.Int("members", len(group.Members)),
		zap.Int("workers", o.workers))

	type slot struct {
		quote *MemberQuote
		fail  *MemberError
	}
	slots := make([]slot, len(group.Members))

	g := new(errgroup.Group)
	g.SetLimit(o.workers)
	for i := range group.Members {
		i := i
		g.Go(func() error {
			m := &group.Members[i]
			q, fail := o.quoteMember(ctx, group, m, filters)
			slots[i] = slot{quote: q, fail: fail}
			return nil
		})
	}
	// Workers never return errors; every outcome lands in its slot.
	_ = g.Wait()

	result := &GroupQuoteResult{
		QuoteID:     uuid.NewString(),
		GroupID:     group.ID,
		GroupName:   group.Name,
		GeneratedAt: time.Now(),
		AsOf:        o.pricer.AsOf(),
		Filters:     filters,
		Warnings:    o.catalog.Warnings(),
	}
	for _, s := range slots {
		switch {
		case s.quote != nil:
			result.Members = append(result.Members, *s.quote)
		case s.fail != nil:
			result.Errors = append(result.Errors, *s.fail)
		}
	}
	result.Summary = summarize(result.Members, result.Errors)

	o.logger.Info("group quote complete",
		zap.String("quote_id", result.QuoteID),
		zap.Int("quoted", result.Summary.MembersQuoted),
		zap.Int("failed", result.Summary.MembersFailed),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// quoteMember runs the member pipeline: resolve geography, enumerate and
// price county plans, benchmark and subsidize, apply the class contribution,
// and rank. Exactly one of the returns is non-nil.
func (o *Orchestrator) quoteMember(ctx context.Context, group *domain.Group, m *domain.Member, filters Filters) (*MemberQuote, *MemberError) {
	if ctx.Err() != nil {
		return nil, timedOut(m)
	}

	var contribution decimal.Decimal
	if m.ClassID != "" {
		class := group.ClassByID(m.ClassID)
		if class == nil {
			return nil, failed(m, StageClass, fmt.Sprintf("class %q is not defined for the group", m.ClassID))
		}
		contribution = class.ContributionFor(m)
	}

	county, areaID, err := o.geo.ResolveMember(m.Zip, m.CountyID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, timedOut(m)
		}
		return nil, failed(m, StageResolve, err.Error())
	}

	priced, fail := o.priceCandidates(ctx, m, county.ID, areaID)
	if fail != nil {
		return nil, fail
	}
	if len(priced) == 0 {
		return nil, failed(m, StageEnumerate,
			fmt.Sprintf("no priceable plans in %s county (%d)", county.Name, county.ID))
	}

	// The benchmark comes from the unfiltered Silver market so narrowing
	// the displayed pool never moves the subsidy.
	benchmark, subsidyRes, warnings, fail := o.subsidize(m, priced, areaID)
	if fail != nil {
		return nil, fail
	}

	candidates := make([]PlanQuote, 0, len(priced))
	for _, pp := range priced {
		if !filters.Allows(pp.plan) {
			continue
		}
		candidates = append(candidates, buildPlanQuote(pp, subsidyRes, contribution))
	}
	if len(candidates) == 0 {
		return nil, failed(m, StageEnumerate,
			fmt.Sprintf("no plans in %s county (%d) match the filters", county.Name, county.ID))
	}

	sort.Slice(candidates, func(i, j int) bool {
		return cheaperForMember(&candidates[i], &candidates[j])
	})
	best := candidates[0]

	var onMarket, offMarket []PlanQuote
	for _, pq := range candidates {
		if pq.Plan.OnMarket {
			onMarket = append(onMarket, pq)
		} else {
			offMarket = append(offMarket, pq)
		}
	}

	return &MemberQuote{
		MemberID:               m.ID,
		MemberName:             m.Name,
		CountyID:               county.ID,
		CountyName:             county.Name,
		RatingAreaID:           areaID,
		Contribution:           contribution,
		Subsidy:                subsidyRes,
		Benchmark:              benchmark,
		BestPlan:               &best,
		OnMarket:               onMarket,
		OffMarket:              offMarket,
		Previous:               m.Previous,
		EmployerMonthlySavings: m.Previous.EmployerMonthly.Sub(best.ContributionUsed),
		MemberMonthlySavings:   m.Previous.MemberMonthly.Sub(best.MemberCost),
		Warnings:               warnings,
	}, nil
}

// pricedPlan is a candidate with its gross household premium, before subsidy
// and contribution.
type pricedPlan struct {
	plan  domain.Plan
	gross decimal.Decimal
}

// priceCandidates enumerates the plans sold in the member's county and
// prices each for the member's household. Plans with no rate table in effect
// are dropped; any other pricing error fails the member.
func (o *Orchestrator) priceCandidates(ctx context.Context, m *domain.Member, countyID int, areaID string) ([]pricedPlan, *MemberError) {
	ids := o.catalog.PlansInCounty(countyID)
	sort.Strings(ids)

	lives := o.pricer.LivesForMember(m)

	priced := make([]pricedPlan, 0, len(ids))
	for _, id := range ids {
		if ctx.Err() != nil {
			return nil, timedOut(m)
		}
		plan, ok := o.catalog.Plan(id)
		if !ok {
			o.logger.Warn("availability references unknown plan",
				zap.String("plan_id", id), zap.Int("county_id", countyID))
			continue
		}
		gross, err := o.pricer.PriceFamily(plan.ID, lives, areaID)
		if err != nil {
			if errors.Is(err, domain.ErrPlanNotFound) {
				o.logger.Debug("plan has no rate table in effect, skipping",
					zap.String("plan_id", plan.ID), zap.String("rating_area_id", areaID))
				continue
			}
			return nil, failed(m, StagePrice, fmt.Sprintf("plan %s: %v", plan.ID, err))
		}
		priced = append(priced, pricedPlan{plan: plan, gross: gross})
	}
	return priced, nil
}

// subsidize benchmarks the member against the Silver market and computes the
// credit. Members with no stated income are quoted unsubsidized.
func (o *Orchestrator) subsidize(m *domain.Member, priced []pricedPlan, areaID string) (*subsidy.BenchmarkResult, *subsidy.SubsidyResult, []domain.Warning, *MemberError) {
	age := m.AgeAt(o.pricer.AsOf())

	var silvers []subsidy.SilverPremium
	for _, pp := range priced {
		if !pp.plan.OnMarket || !pp.plan.IsSilver() {
			continue
		}
		// The benchmark is anchored to the member alone, not the
		// household.
		premium, err := o.pricer.PriceIndividual(pp.plan.ID, age, m.Tobacco, areaID)
		if err != nil {
			if errors.Is(err, domain.ErrPlanNotFound) {
				continue
			}
			return nil, nil, nil, failed(m, StageSubsidize, fmt.Sprintf("benchmark plan %s: %v", pp.plan.ID, err))
		}
		silvers = append(silvers, subsidy.SilverPremium{PlanID: pp.plan.ID, Premium: premium})
	}

	var warnings []domain.Warning
	benchmark, warn := subsidy.BenchmarkSilver(silvers)
	if warn != nil {
		warnings = append(warnings, *warn)
	}
	if benchmark == nil || !m.HouseholdIncome.IsPositive() {
		return benchmark, nil, warnings, nil
	}

	result, err := o.subs.CalculateSubsidy(benchmark.Premium, m.HouseholdIncome, m.HouseholdSize, age)
	if err != nil {
		return nil, nil, nil, failed(m, StageSubsidize, err.Error())
	}
	return benchmark, result, warnings, nil
}

// buildPlanQuote applies the subsidy and contribution to one priced plan.
// The credit only touches on-market plans and never exceeds the gross
// premium; the contribution disbursed never exceeds what is left after it.
func buildPlanQuote(pp pricedPlan, sub *subsidy.SubsidyResult, contribution decimal.Decimal) PlanQuote {
	pq := PlanQuote{Plan: pp.plan, GrossPremium: pp.gross}
	if pp.plan.OnMarket && sub != nil && sub.IsEligible {
		pq.MonthlySubsidy = decimal.Min(sub.MonthlySubsidy, pp.gross)
	}
	pq.NetPremium = pp.gross.Sub(pq.MonthlySubsidy)
	pq.ContributionUsed = decimal.Min(contribution, pq.NetPremium)
	pq.MemberCost = decimal.Max(decimal.Zero, pq.NetPremium.Sub(contribution))
	return pq
}

// cheaperForMember orders candidates by member cost, then gross premium,
// then plan id, so repeated runs rank identically.
func cheaperForMember(a, b *PlanQuote) bool {
	if !a.MemberCost.Equal(b.MemberCost) {
		return a.MemberCost.LessThan(b.MemberCost)
	}
	if !a.GrossPremium.Equal(b.GrossPremium) {
		return a.GrossPremium.LessThan(b.GrossPremium)
	}
	return a.Plan.ID < b.Plan.ID
}

// summarize aggregates the successful member quotes against the recorded
// group-plan baseline. Failed members are counted but contribute nothing.
func summarize(members []MemberQuote, failures []MemberError) GroupSummary {
	s := GroupSummary{
		MembersQuoted: len(members),
		MembersFailed: len(failures),
	}
	for i := range members {
		mq := &members[i]
		if mq.BestPlan == nil {
			continue
		}
		s.EmployerMonthlyTotal = s.EmployerMonthlyTotal.Add(mq.BestPlan.ContributionUsed)
		s.EmployeeMonthlyTotal = s.EmployeeMonthlyTotal.Add(mq.BestPlan.MemberCost)
		s.TotalMonthlySubsidy = s.TotalMonthlySubsidy.Add(mq.BestPlan.MonthlySubsidy)
		s.EmployerPreviousTotal = s.EmployerPreviousTotal.Add(mq.Previous.EmployerMonthly)
		s.EmployeePreviousTotal = s.EmployeePreviousTotal.Add(mq.Previous.MemberMonthly)
	}
	s.EmployerMonthlySavings = s.EmployerPreviousTotal.Sub(s.EmployerMonthlyTotal)
	s.EmployeeMonthlySavings = s.EmployeePreviousTotal.Sub(s.EmployeeMonthlyTotal)
	return s
}

func failed(m *domain.Member, stage Stage, message string) *MemberError {
	return &MemberError{
		MemberID:   m.ID,
		MemberName: m.Name,
		Stage:      stage,
		Message:    message,
	}
}

func timedOut(m *domain.Member) *MemberError {
	return &MemberError{
		MemberID:   m.ID,
		MemberName: m.Name,
		Stage:      StageTimeout,
		Message:    "member quote canceled before completion",
		TimedOut:   true,
	}
}
