package geography

import (
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ichrago/ichrago/internal/domain"
)

// CountyDirectory is the slice of reference data geography resolution needs.
type CountyDirectory interface {
	ZipRows(zip string) []domain.ZipCounty
	County(id int) (domain.County, bool)
	RatingAreaByCounty(countyID int) (string, bool)
}

// Resolver maps ZIP codes to counties and counties to rating areas. Rating
// areas are memoized in an injected Cache; concurrent misses for the same
// county collapse into one directory lookup.
type Resolver struct {
	directory CountyDirectory
	cache     Cache
	logger    *zap.Logger
	sf        singleflight.Group
}

// NewResolver creates a resolver over the directory. A nil cache gets an
// in-memory default.
func NewResolver(directory CountyDirectory, cache Cache, logger *zap.Logger) *Resolver {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		directory: directory,
		cache:     cache,
		logger:    logger.Named("geography"),
	}
}

// ValidateZip checks that zip is a syntactically valid 5-digit US ZIP code
// in 10000-99999.
func ValidateZip(zip string) error {
	if len(zip) != 5 {
		return fmt.Errorf("zip %q: %w", zip, domain.ErrInvalidZipFormat)
	}
	n, err := strconv.Atoi(zip)
	if err != nil || n < 10000 || n > 99999 {
		return fmt.Errorf("zip %q: %w", zip, domain.ErrInvalidZipFormat)
	}
	return nil
}

// ResolveCounty resolves a ZIP code to its county and rating area. A ZIP
// spanning several counties comes back with Ambiguous set and the full
// candidate list; the caller must pick one explicitly before pricing.
func (r *Resolver) ResolveCounty(zip string) (*domain.CountyResolution, error) {
	if err := ValidateZip(zip); err != nil {
		return nil, err
	}

	rows := r.directory.ZipRows(zip)
	if len(rows) == 0 {
		return nil, fmt.Errorf("zip %s: %w", zip, domain.ErrZipNotFound)
	}

	if len(rows) == 1 {
		county, ok := r.directory.County(rows[0].CountyID)
		if !ok {
			return nil, fmt.Errorf("zip %s references unknown county %d: %w",
				zip, rows[0].CountyID, domain.ErrZipNotFound)
		}
		r.cache.Set(county.ID, rows[0].RatingAreaID)
		return &domain.CountyResolution{
			Zip:          zip,
			County:       &county,
			RatingAreaID: rows[0].RatingAreaID,
		}, nil
	}

	counties := make([]domain.County, 0, len(rows))
	seen := make(map[int]bool, len(rows))
	for _, row := range rows {
		if seen[row.CountyID] {
			continue
		}
		seen[row.CountyID] = true
		county, ok := r.directory.County(row.CountyID)
		if !ok {
			r.logger.Warn("zip row references unknown county",
				zap.String("zip", zip),
				zap.Int("county_id", row.CountyID))
			continue
		}
		counties = append(counties, county)
	}
	if len(counties) == 0 {
		return nil, fmt.Errorf("zip %s references only unknown counties: %w", zip, domain.ErrZipNotFound)
	}
	if len(counties) == 1 {
		area, _ := r.directory.RatingAreaByCounty(counties[0].ID)
		r.cache.Set(counties[0].ID, area)
		return &domain.CountyResolution{
			Zip:          zip,
			County:       &counties[0],
			RatingAreaID: area,
		}, nil
	}

	sort.Slice(counties, func(i, j int) bool { return counties[i].ID < counties[j].ID })
	return &domain.CountyResolution{
		Zip:       zip,
		Ambiguous: true,
		Counties:  counties,
	}, nil
}

// RatingAreaForCounty returns the rating area a county prices under, reading
// through the cache. Concurrent lookups for one county are deduplicated.
func (r *Resolver) RatingAreaForCounty(countyID int) (string, error) {
	if area, ok := r.cache.Get(countyID); ok && area != "" {
		return area, nil
	}

	key := "ra:" + strconv.Itoa(countyID)
	v, err, _ := r.sf.Do(key, func() (interface{}, error) {
		area, ok := r.directory.RatingAreaByCounty(countyID)
		if !ok {
			return "", fmt.Errorf("county %d: %w", countyID, domain.ErrRatingAreaNotFound)
		}
		r.cache.Set(countyID, area)
		return area, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// ResolveMember resolves geography for a single quoted member. An explicit
// county selection settles a multi-county ZIP; without one, ambiguity is an
// error for that member.
func (r *Resolver) ResolveMember(zip string, explicitCountyID *int) (domain.County, string, error) {
	resolution, err := r.ResolveCounty(zip)
	if err != nil {
		return domain.County{}, "", err
	}

	if !resolution.Ambiguous {
		return *resolution.County, resolution.RatingAreaID, nil
	}

	if explicitCountyID == nil {
		return domain.County{}, "", fmt.Errorf("zip %s spans %d counties and no county was selected: %w",
			zip, len(resolution.Counties), domain.ErrAmbiguousCounty)
	}

	for _, county := range resolution.Counties {
		if county.ID == *explicitCountyID {
			area, err := r.RatingAreaForCounty(county.ID)
			if err != nil {
				return domain.County{}, "", err
			}
			return county, area, nil
		}
	}
	return domain.County{}, "", fmt.Errorf("county %d is not a candidate for zip %s: %w",
		*explicitCountyID, zip, domain.ErrAmbiguousCounty)
}

// InvalidateCache drops memoized rating areas. Registered as a reload hook on
// the reference store.
func (r *Resolver) InvalidateCache() {
	r.cache.Invalidate()
	r.logger.Info("rating area cache invalidated")
}
