package refdata

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ichrago/ichrago/internal/domain"
)

func loadTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore("testdata", zap.NewNop())
	require.NoError(t, store.Load())
	return store
}

func TestStore_Load(t *testing.T) {
	store := loadTestStore(t)

	assert.Equal(t, 3, store.CountyCount())

	travis, ok := store.County(453)
	require.True(t, ok)
	assert.Equal(t, "Travis", travis.Name)
	assert.Equal(t, "TX", travis.State)

	_, ok = store.County(999)
	assert.False(t, ok)

	plan, ok := store.Plan("TX0001")
	require.True(t, ok)
	assert.Equal(t, domain.MetalSilver, plan.MetalLevel)
	assert.True(t, plan.OnMarket)
	assert.Equal(t, "Ambetter", plan.Carrier)

	offMarket, ok := store.Plan("TX0004")
	require.True(t, ok)
	assert.False(t, offMarket.OnMarket)

	plans := store.Plans()
	require.Len(t, plans, 5)
	assert.Equal(t, "TX0001", plans[0].ID, "plans sorted by id")
}

func TestStore_ZipRows(t *testing.T) {
	store := loadTestStore(t)

	single := store.ZipRows("78701")
	require.Len(t, single, 1)
	assert.Equal(t, 453, single[0].CountyID)
	assert.Equal(t, "RA_TX_001", single[0].RatingAreaID)

	multi := store.ZipRows("78653")
	assert.Len(t, multi, 2, "zip straddling two counties keeps both rows")

	assert.Empty(t, store.ZipRows("00000"))
}

func TestStore_RateTableFor(t *testing.T) {
	store := loadTestStore(t)
	mid2025 := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	table, err := store.RateTableFor("TX0002", "RA_TX_001", mid2025)
	require.NoError(t, err)
	require.Len(t, table.Ages, 5)
	assert.Equal(t, 21, table.Ages[0].Age, "ages sorted ascending")
	assert.Equal(t, 65, table.MaxTabulatedAge())

	// Tier prices from family_rates.csv are attached to the table.
	require.NotNil(t, table.Family.Couple)
	assert.True(t, table.Family.Couple.Equal(decimal.NewFromInt(690)))
	assert.Nil(t, table.Family.FixedPrice)

	fixed, err := store.RateTableFor("TX0004", "RA_TX_001", mid2025)
	require.NoError(t, err)
	require.NotNil(t, fixed.Family.FixedPrice)
	assert.True(t, fixed.Family.FixedPrice.Equal(decimal.NewFromInt(1250)))

	// Open-ended table stays in effect past the plan year.
	_, err = store.RateTableFor("TX0001", "RA_TX_001", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)

	// Bounded table does not.
	_, err = store.RateTableFor("TX0002", "RA_TX_001", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, errors.Is(err, domain.ErrPlanNotFound))

	// Plan with no table in the rating area is unpriceable there.
	_, err = store.RateTableFor("TX0005", "RA_TX_001", mid2025)
	assert.True(t, errors.Is(err, domain.ErrPlanNotFound))

	_, err = store.RateTableFor("NOPE", "RA_TX_001", mid2025)
	assert.True(t, errors.Is(err, domain.ErrPlanNotFound))
}

func TestStore_TobaccoWarningRecorded(t *testing.T) {
	store := loadTestStore(t)

	warnings := store.Warnings()
	require.NotEmpty(t, warnings)

	found := false
	for _, w := range warnings {
		if w.Code == domain.WarnTobaccoRateBelowRegular {
			found = true
			assert.Contains(t, w.Message, "TX0003")
		}
	}
	assert.True(t, found, "expected tobacco-below-regular warning for TX0003 age 21")
}

func TestStore_ReloadFiresHooks(t *testing.T) {
	store := loadTestStore(t)

	fired := 0
	store.OnReload(func() { fired++ })
	store.OnReload(func() { fired++ })

	require.NoError(t, store.Reload())
	assert.Equal(t, 2, fired)
}

func TestStore_MissingDataDir(t *testing.T) {
	store := NewStore("testdata-does-not-exist", zap.NewNop())
	err := store.Load()
	assert.Error(t, err)
}

func TestStore_NotLoaded(t *testing.T) {
	store := NewStore("testdata", zap.NewNop())

	_, err := store.RateTableFor("TX0001", "RA_TX_001", time.Now())
	assert.Error(t, err)
	assert.Equal(t, 0, store.CountyCount())
}
