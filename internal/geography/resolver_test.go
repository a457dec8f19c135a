package geography

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ichrago/ichrago/internal/domain"
)

type fakeDirectory struct {
	zips        map[string][]domain.ZipCounty
	counties    map[int]domain.County
	areas       map[int]string
	areaLookups int
}

func (f *fakeDirectory) ZipRows(zip string) []domain.ZipCounty { return f.zips[zip] }

func (f *fakeDirectory) County(id int) (domain.County, bool) {
	c, ok := f.counties[id]
	return c, ok
}

func (f *fakeDirectory) RatingAreaByCounty(countyID int) (string, bool) {
	f.areaLookups++
	area, ok := f.areas[countyID]
	return area, ok
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		zips: map[string][]domain.ZipCounty{
			"78701": {{Zip: "78701", CountyID: 453, RatingAreaID: "RA_TX_001"}},
			"78653": {
				{Zip: "78653", CountyID: 453, RatingAreaID: "RA_TX_001"},
				{Zip: "78653", CountyID: 491, RatingAreaID: "RA_TX_001"},
			},
			"79901": {{Zip: "79901", CountyID: 141, RatingAreaID: "RA_TX_008"}},
		},
		counties: map[int]domain.County{
			453: {ID: 453, Name: "Travis", State: "TX"},
			491: {ID: 491, Name: "Williamson", State: "TX"},
		},
		areas: map[int]string{
			453: "RA_TX_001",
			491: "RA_TX_001",
		},
	}
}

func TestValidateZip(t *testing.T) {
	tests := []struct {
		zip   string
		valid bool
	}{
		{"78701", true},
		{"10000", true},
		{"99999", true},
		{"09999", false},
		{"1234", false},
		{"123456", false},
		{"78a01", false},
		{"", false},
		{"-1234", false},
	}

	for _, tt := range tests {
		t.Run(tt.zip, func(t *testing.T) {
			err := ValidateZip(tt.zip)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, domain.ErrInvalidZipFormat))
			}
		})
	}
}

func TestResolver_ResolveCounty_Single(t *testing.T) {
	r := NewResolver(newFakeDirectory(), nil, nil)

	res, err := r.ResolveCounty("78701")
	require.NoError(t, err)
	assert.False(t, res.Ambiguous)
	require.NotNil(t, res.County)
	assert.Equal(t, 453, res.County.ID)
	assert.Equal(t, "RA_TX_001", res.RatingAreaID)
}

func TestResolver_ResolveCounty_Ambiguous(t *testing.T) {
	r := NewResolver(newFakeDirectory(), nil, nil)

	res, err := r.ResolveCounty("78653")
	require.NoError(t, err)
	assert.True(t, res.Ambiguous)
	require.Len(t, res.Counties, 2)
	assert.Equal(t, 453, res.Counties[0].ID, "candidates sorted by county id")
	assert.Equal(t, 491, res.Counties[1].ID)
	assert.Nil(t, res.County, "no heuristic pick across counties")
}

func TestResolver_ResolveCounty_Errors(t *testing.T) {
	r := NewResolver(newFakeDirectory(), nil, nil)

	_, err := r.ResolveCounty("78a01")
	assert.True(t, errors.Is(err, domain.ErrInvalidZipFormat))

	_, err = r.ResolveCounty("78799")
	assert.True(t, errors.Is(err, domain.ErrZipNotFound))

	// ZIP row pointing at a county missing from the county table.
	_, err = r.ResolveCounty("79901")
	assert.True(t, errors.Is(err, domain.ErrZipNotFound))
}

func TestResolver_RatingAreaForCounty_CachesResult(t *testing.T) {
	dir := newFakeDirectory()
	cache := NewMemoryCache()
	r := NewResolver(dir, cache, nil)

	area, err := r.RatingAreaForCounty(453)
	require.NoError(t, err)
	assert.Equal(t, "RA_TX_001", area)
	assert.Equal(t, 1, dir.areaLookups)

	_, err = r.RatingAreaForCounty(453)
	require.NoError(t, err)
	assert.Equal(t, 1, dir.areaLookups, "second lookup served from cache")

	r.InvalidateCache()
	assert.Equal(t, 0, cache.Len())

	_, err = r.RatingAreaForCounty(453)
	require.NoError(t, err)
	assert.Equal(t, 2, dir.areaLookups, "invalidation forces a fresh lookup")
}

func TestResolver_RatingAreaForCounty_NotFound(t *testing.T) {
	r := NewResolver(newFakeDirectory(), nil, nil)

	_, err := r.RatingAreaForCounty(999)
	assert.True(t, errors.Is(err, domain.ErrRatingAreaNotFound))
}

func TestResolver_ResolveMember(t *testing.T) {
	r := NewResolver(newFakeDirectory(), nil, nil)

	county, area, err := r.ResolveMember("78701", nil)
	require.NoError(t, err)
	assert.Equal(t, "Travis", county.Name)
	assert.Equal(t, "RA_TX_001", area)

	// Ambiguous ZIP without a selection is an error for the member.
	_, _, err = r.ResolveMember("78653", nil)
	assert.True(t, errors.Is(err, domain.ErrAmbiguousCounty))

	// Explicit selection settles it.
	williamson := 491
	county, area, err = r.ResolveMember("78653", &williamson)
	require.NoError(t, err)
	assert.Equal(t, "Williamson", county.Name)
	assert.Equal(t, "RA_TX_001", area)

	// Selection outside the candidate set stays an error.
	harris := 201
	_, _, err = r.ResolveMember("78653", &harris)
	assert.True(t, errors.Is(err, domain.ErrAmbiguousCounty))
}
