package rating

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ichrago/ichrago/internal/domain"
)

func sparseTable() *domain.RateTable {
	return &domain.RateTable{
		PlanID:       "TX0001",
		RatingAreaID: "RA_TX_001",
		Ages: []domain.AgeRate{
			{Age: 21, Regular: decimal.NewFromFloat(276.10), Tobacco: decimal.NewFromFloat(331.32)},
			{Age: 30, Regular: decimal.NewFromInt(320), Tobacco: decimal.NewFromInt(384)},
			{Age: 35, Regular: decimal.NewFromInt(360), Tobacco: decimal.NewFromInt(432)},
			{Age: 50, Regular: decimal.NewFromFloat(487.25), Tobacco: decimal.NewFromFloat(584.70)},
			{Age: 65, Regular: decimal.NewFromFloat(830.40), Tobacco: decimal.NewFromFloat(996.48)},
		},
	}
}

func TestPremiumForAge(t *testing.T) {
	table := sparseTable()

	tests := []struct {
		name     string
		age      int
		tobacco  bool
		expected decimal.Decimal
	}{
		{
			name:     "exact tabulated age",
			age:      30,
			expected: decimal.NewFromInt(320),
		},
		{
			name: "interpolated between 30 and 35",
			age:  32,
			// 320 + (360-320) * 2/5 = 336.00
			expected: decimal.NewFromFloat(336.00),
		},
		{
			name: "interpolated on the tobacco column",
			age:  32,
			tobacco: true,
			// 384 + (432-384) * 2/5 = 403.20
			expected: decimal.NewFromFloat(403.20),
		},
		{
			name: "interpolated over an uneven gap",
			age:  25,
			// 276.10 + (320-276.10) * 4/9 = 295.6111... -> 295.61
			expected: decimal.NewFromFloat(295.61),
		},
		{
			name:     "age above the table clamps to the top band",
			age:      70,
			expected: decimal.NewFromFloat(830.40),
		},
		{
			name:     "age at the top band",
			age:      65,
			expected: decimal.NewFromFloat(830.40),
		},
		{
			name:     "age below the lowest band clamps to the bottom band",
			age:      18,
			expected: decimal.NewFromFloat(276.10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := PremiumForAge(table, tt.age, tt.tobacco)
			if err != nil {
				t.Fatalf("PremiumForAge(%d) returned error: %v", tt.age, err)
			}
			if !result.Equal(tt.expected) {
				t.Errorf("PremiumForAge(%d, tobacco=%v) = %v, expected %v", tt.age, tt.tobacco, result, tt.expected)
			}
		})
	}
}

func TestPremiumForAge_HalfUpRounding(t *testing.T) {
	table := &domain.RateTable{
		Ages: []domain.AgeRate{
			{Age: 20, Regular: decimal.NewFromInt(100), Tobacco: decimal.NewFromInt(100)},
			{Age: 22, Regular: decimal.NewFromFloat(100.05), Tobacco: decimal.NewFromFloat(100.05)},
		},
	}

	// Midpoint is 100.025; the half cent rounds up.
	result, err := PremiumForAge(table, 21, false)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Equal(decimal.NewFromFloat(100.03)) {
		t.Errorf("PremiumForAge(21) = %v, expected 100.03", result)
	}
}

func TestPremiumForAge_ClampMatchesTopBand(t *testing.T) {
	table := sparseTable()

	at65, err := PremiumForAge(table, 65, false)
	if err != nil {
		t.Fatal(err)
	}
	at70, err := PremiumForAge(table, 70, false)
	if err != nil {
		t.Fatal(err)
	}
	if !at70.Equal(at65) {
		t.Errorf("premium at 70 (%v) should equal premium at 65 (%v)", at70, at65)
	}
}

func TestPremiumForAge_TobaccoMonotonic(t *testing.T) {
	table := sparseTable()

	for age := 21; age <= 70; age++ {
		regular, err := PremiumForAge(table, age, false)
		if err != nil {
			t.Fatal(err)
		}
		tobacco, err := PremiumForAge(table, age, true)
		if err != nil {
			t.Fatal(err)
		}
		if tobacco.LessThan(regular) {
			t.Errorf("age %d: tobacco premium %v below regular %v", age, tobacco, regular)
		}
	}
}

func TestPremiumForAge_Errors(t *testing.T) {
	table := sparseTable()

	_, err := PremiumForAge(table, -1, false)
	if !errors.Is(err, domain.ErrAgeOutOfRange) {
		t.Errorf("expected ErrAgeOutOfRange for negative age, got %v", err)
	}

	empty := &domain.RateTable{PlanID: "TX0009", RatingAreaID: "RA_TX_001"}
	_, err = PremiumForAge(empty, 30, false)
	if !errors.Is(err, domain.ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound for empty table, got %v", err)
	}
}
