package refdata

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ichrago/ichrago/internal/domain"
)

// File names of the government marketplace extracts inside the data
// directory.
const (
	countiesFile     = "counties.csv"
	zipCountiesFile  = "zip_counties.csv"
	plansFile        = "plans.csv"
	ratesFile        = "rates.csv"
	familyRatesFile  = "family_rates.csv"
	planCountiesFile = "plan_counties.csv"
)

type rateKey struct {
	planID       string
	ratingAreaID string
}

// snapshot is one fully-loaded, immutable view of the reference data. Reload
// builds a fresh snapshot and swaps it in; readers holding rows from the old
// snapshot keep a consistent view.
type snapshot struct {
	counties     map[int]domain.County
	zipCounties  map[string][]domain.ZipCounty
	countyAreas  map[int]string
	plans        map[string]domain.Plan
	rateTables   map[rateKey][]domain.RateTable
	availability *AvailabilityIndex
	warnings     []domain.Warning
}

// Store loads and serves the CSV reference extracts: counties, ZIP/county
// mappings, plans, rate tables, family tiers, and plan availability. All
// lookups are read-only; the only mutation is an explicit Reload.
type Store struct {
	dataDir string
	logger  *zap.Logger

	mu   sync.RWMutex
	snap *snapshot

	hookMu      sync.Mutex
	reloadHooks []func()
}

// NewStore creates a store rooted at dataDir. Call Load before first use.
func NewStore(dataDir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		dataDir: dataDir,
		logger:  logger.Named("refdata"),
	}
}

// Load reads every extract from the data directory. An empty county or plan
// table is a structural failure; data-quality findings inside otherwise
// well-formed rows become warnings on the store.
func (s *Store) Load() error {
	snap, err := s.loadSnapshot()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.logger.Info("reference data loaded",
		zap.Int("counties", len(snap.counties)),
		zap.Int("zips", len(snap.zipCounties)),
		zap.Int("plans", len(snap.plans)),
		zap.Int("rate_tables", countTables(snap.rateTables)),
		zap.Int("warnings", len(snap.warnings)))

	return nil
}

// Reload rebuilds the snapshot from disk and notifies every registered hook.
// Callers that cache derived values (rating areas) invalidate in their hook.
func (s *Store) Reload() error {
	if err := s.Load(); err != nil {
		return err
	}

	s.hookMu.Lock()
	hooks := make([]func(), len(s.reloadHooks))
	copy(hooks, s.reloadHooks)
	s.hookMu.Unlock()

	for _, hook := range hooks {
		hook()
	}

	s.logger.Info("reload hooks fired", zap.Int("hooks", len(hooks)))
	return nil
}

// OnReload registers a callback invoked after each successful Reload.
func (s *Store) OnReload(hook func()) {
	s.hookMu.Lock()
	s.reloadHooks = append(s.reloadHooks, hook)
	s.hookMu.Unlock()
}

func (s *Store) current() (*snapshot, error) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if snap == nil {
		return nil, fmt.Errorf("reference data not loaded")
	}
	return snap, nil
}

// County returns the county with the given id.
func (s *Store) County(id int) (domain.County, bool) {
	snap, err := s.current()
	if err != nil {
		return domain.County{}, false
	}
	c, ok := snap.counties[id]
	return c, ok
}

// CountyCount returns the number of loaded counties.
func (s *Store) CountyCount() int {
	snap, err := s.current()
	if err != nil {
		return 0
	}
	return len(snap.counties)
}

// ZipRows returns every ZipCounty row for a ZIP code. Empty means the ZIP is
// unknown to the loaded extracts.
func (s *Store) ZipRows(zip string) []domain.ZipCounty {
	snap, err := s.current()
	if err != nil {
		return nil
	}
	rows := snap.zipCounties[zip]
	out := make([]domain.ZipCounty, len(rows))
	copy(out, rows)
	return out
}

// RatingAreaByCounty returns the rating area a county prices under, derived
// from the ZipCounty join at load time.
func (s *Store) RatingAreaByCounty(countyID int) (string, bool) {
	snap, err := s.current()
	if err != nil {
		return "", false
	}
	area, ok := snap.countyAreas[countyID]
	return area, ok
}

// Plan returns the plan with the given id.
func (s *Store) Plan(id string) (domain.Plan, bool) {
	snap, err := s.current()
	if err != nil {
		return domain.Plan{}, false
	}
	p, ok := snap.plans[id]
	return p, ok
}

// Plans returns every loaded plan sorted by id.
func (s *Store) Plans() []domain.Plan {
	snap, err := s.current()
	if err != nil {
		return nil
	}
	out := make([]domain.Plan, 0, len(snap.plans))
	for _, p := range snap.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RateTableFor returns the rate table in effect for a plan in a rating area
// at the given date. ErrPlanNotFound means the plan is unpriceable there.
func (s *Store) RateTableFor(planID, ratingAreaID string, at time.Time) (*domain.RateTable, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}

	tables := snap.rateTables[rateKey{planID: planID, ratingAreaID: ratingAreaID}]
	for i := range tables {
		if tables[i].InEffect(at) {
			return &tables[i], nil
		}
	}
	return nil, fmt.Errorf("no rate table for plan %s in rating area %s at %s: %w",
		planID, ratingAreaID, at.Format(dateLayout), domain.ErrPlanNotFound)
}

// Availability returns the plan/county membership index.
func (s *Store) Availability() *AvailabilityIndex {
	snap, err := s.current()
	if err != nil {
		return NewAvailabilityIndex()
	}
	return snap.availability
}

// PlansInCounty returns the ids of the plans sold in a county.
func (s *Store) PlansInCounty(countyID int) []string {
	return s.Availability().PlansInCounty(countyID)
}

// Warnings returns the data-quality findings recorded during the last load.
func (s *Store) Warnings() []domain.Warning {
	snap, err := s.current()
	if err != nil {
		return nil
	}
	out := make([]domain.Warning, len(snap.warnings))
	copy(out, snap.warnings)
	return out
}

func (s *Store) loadSnapshot() (*snapshot, error) {
	snap := &snapshot{
		counties:     make(map[int]domain.County),
		zipCounties:  make(map[string][]domain.ZipCounty),
		countyAreas:  make(map[int]string),
		plans:        make(map[string]domain.Plan),
		rateTables:   make(map[rateKey][]domain.RateTable),
		availability: NewAvailabilityIndex(),
	}

	if err := s.loadCounties(snap); err != nil {
		return nil, err
	}
	if err := s.loadZipCounties(snap); err != nil {
		return nil, err
	}
	if err := s.loadPlans(snap); err != nil {
		return nil, err
	}
	if err := s.loadRates(snap); err != nil {
		return nil, err
	}
	if err := s.loadFamilyRates(snap); err != nil {
		return nil, err
	}
	if err := s.loadPlanCounties(snap); err != nil {
		return nil, err
	}

	if len(snap.counties) == 0 {
		return nil, fmt.Errorf("%s: no counties loaded", countiesFile)
	}
	if len(snap.plans) == 0 {
		return nil, fmt.Errorf("%s: no plans loaded", plansFile)
	}

	return snap, nil
}

func (s *Store) loadCounties(snap *snapshot) error {
	path := filepath.Join(s.dataDir, countiesFile)
	rows, err := readRows(path, []string{"id", "name", "state", "rating_area_count", "service_area_count"})
	if err != nil {
		return err
	}

	for i, row := range rows {
		line := i + 2
		id, err := parseInt(path, line, "id", row[0])
		if err != nil {
			return err
		}
		raCount, err := parseInt(path, line, "rating_area_count", row[3])
		if err != nil {
			return err
		}
		saCount, err := parseInt(path, line, "service_area_count", row[4])
		if err != nil {
			return err
		}
		snap.counties[id] = domain.County{
			ID:               id,
			Name:             row[1],
			State:            row[2],
			RatingAreaCount:  raCount,
			ServiceAreaCount: saCount,
		}
	}
	return nil
}

func (s *Store) loadZipCounties(snap *snapshot) error {
	path := filepath.Join(s.dataDir, zipCountiesFile)
	rows, err := readRows(path, []string{"zip", "county_id", "rating_area_id"})
	if err != nil {
		return err
	}

	for i, row := range rows {
		line := i + 2
		countyID, err := parseInt(path, line, "county_id", row[1])
		if err != nil {
			return err
		}
		zip := row[0]
		snap.zipCounties[zip] = append(snap.zipCounties[zip], domain.ZipCounty{
			Zip:          zip,
			CountyID:     countyID,
			RatingAreaID: row[2],
		})
		if _, seen := snap.countyAreas[countyID]; !seen {
			snap.countyAreas[countyID] = row[2]
		}
	}
	return nil
}

func (s *Store) loadPlans(snap *snapshot) error {
	path := filepath.Join(s.dataDir, plansFile)
	rows, err := readRows(path, []string{"id", "name", "carrier", "metal_level", "market", "plan_type",
		"deductible", "oop_max", "primary_care_copay", "specialist_copay"})
	if err != nil {
		return err
	}

	for i, row := range rows {
		line := i + 2
		onMarket, err := parseMarket(path, line, row[4])
		if err != nil {
			return err
		}
		deductible, err := parseDecimal(path, line, "deductible", row[6])
		if err != nil {
			return err
		}
		oopMax, err := parseDecimal(path, line, "oop_max", row[7])
		if err != nil {
			return err
		}
		pcCopay, err := parseDecimal(path, line, "primary_care_copay", row[8])
		if err != nil {
			return err
		}
		spCopay, err := parseDecimal(path, line, "specialist_copay", row[9])
		if err != nil {
			return err
		}
		snap.plans[row[0]] = domain.Plan{
			ID:               row[0],
			Name:             row[1],
			Carrier:          row[2],
			MetalLevel:       domain.MetalLevel(row[3]),
			OnMarket:         onMarket,
			PlanType:         row[5],
			Deductible:       deductible,
			OOPMax:           oopMax,
			PrimaryCareCopay: pcCopay,
			SpecialistCopay:  spCopay,
		}
	}
	return nil
}

func parseMarket(path string, line int, raw string) (bool, error) {
	switch raw {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s line %d: invalid market %q (want on or off)", path, line, raw)
	}
}

func (s *Store) loadRates(snap *snapshot) error {
	path := filepath.Join(s.dataDir, ratesFile)
	rows, err := readRows(path, []string{"plan_id", "rating_area_id", "effective_start", "effective_end",
		"age", "regular_rate", "tobacco_rate"})
	if err != nil {
		return err
	}

	type tableKey struct {
		rateKey
		start time.Time
		end   time.Time
	}
	grouped := make(map[tableKey]*domain.RateTable)
	order := make([]tableKey, 0)

	for i, row := range rows {
		line := i + 2
		start, err := parseDate(path, line, "effective_start", row[2])
		if err != nil {
			return err
		}
		end, err := parseDate(path, line, "effective_end", row[3])
		if err != nil {
			return err
		}
		age, err := parseInt(path, line, "age", row[4])
		if err != nil {
			return err
		}
		regular, err := parseDecimal(path, line, "regular_rate", row[5])
		if err != nil {
			return err
		}
		tobacco, err := parseDecimal(path, line, "tobacco_rate", row[6])
		if err != nil {
			return err
		}

		if tobacco.LessThan(regular) {
			w := domain.Warningf(domain.WarnTobaccoRateBelowRegular,
				"plan %s rating area %s age %d: tobacco rate %s below regular %s",
				row[0], row[1], age, tobacco.StringFixed(2), regular.StringFixed(2))
			snap.warnings = append(snap.warnings, w)
			s.logger.Warn("tobacco rate below regular rate",
				zap.String("plan_id", row[0]),
				zap.String("rating_area_id", row[1]),
				zap.Int("age", age))
		}

		key := tableKey{
			rateKey: rateKey{planID: row[0], ratingAreaID: row[1]},
			start:   start,
			end:     end,
		}
		table, ok := grouped[key]
		if !ok {
			table = &domain.RateTable{
				PlanID:         row[0],
				RatingAreaID:   row[1],
				EffectiveStart: start,
				EffectiveEnd:   end,
			}
			grouped[key] = table
			order = append(order, key)
		}
		table.Ages = append(table.Ages, domain.AgeRate{Age: age, Regular: regular, Tobacco: tobacco})
	}

	for _, key := range order {
		table := grouped[key]
		sort.Slice(table.Ages, func(i, j int) bool { return table.Ages[i].Age < table.Ages[j].Age })
		snap.rateTables[key.rateKey] = append(snap.rateTables[key.rateKey], *table)
	}
	return nil
}

func (s *Store) loadFamilyRates(snap *snapshot) error {
	path := filepath.Join(s.dataDir, familyRatesFile)
	rows, err := readRows(path, []string{"plan_id", "rating_area_id", "tier", "rate"})
	if err != nil {
		return err
	}

	for i, row := range rows {
		line := i + 2
		rate, err := parseDecimal(path, line, "rate", row[3])
		if err != nil {
			return err
		}

		key := rateKey{planID: row[0], ratingAreaID: row[1]}
		tables := snap.rateTables[key]
		if len(tables) == 0 {
			s.logger.Warn("family rate for unknown rate table",
				zap.String("plan_id", row[0]),
				zap.String("rating_area_id", row[1]))
			continue
		}

		for t := range tables {
			if err := setTierPrice(&tables[t].Family, row[2], rate); err != nil {
				return fmt.Errorf("%s line %d: %w", path, line, err)
			}
		}
	}
	return nil
}

func setTierPrice(fp *domain.FamilyPricing, tier string, rate decimal.Decimal) error {
	price := rate
	switch tier {
	case "fixed":
		fp.FixedPrice = &price
	case string(domain.TierSingle):
		fp.Single = &price
	case string(domain.TierCouple):
		fp.Couple = &price
	case string(domain.TierSingleAndChildren):
		fp.SingleAndChildren = &price
	case string(domain.TierSingleAndSpouse):
		fp.SingleAndSpouse = &price
	case string(domain.TierFamily):
		fp.Family = &price
	case string(domain.TierChildOnly):
		fp.ChildOnly = &price
	default:
		return fmt.Errorf("invalid family tier %q", tier)
	}
	return nil
}

func (s *Store) loadPlanCounties(snap *snapshot) error {
	path := filepath.Join(s.dataDir, planCountiesFile)
	rows, err := readRows(path, []string{"plan_id", "county_id"})
	if err != nil {
		return err
	}

	for i, row := range rows {
		line := i + 2
		countyID, err := parseInt(path, line, "county_id", row[1])
		if err != nil {
			return err
		}
		snap.availability.add(row[0], countyID)
	}
	return nil
}

func countTables(m map[rateKey][]domain.RateTable) int {
	n := 0
	for _, tables := range m {
		n += len(tables)
	}
	return n
}
