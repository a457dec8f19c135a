package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMember_AgeAt(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		member   Member
		expected int
	}{
		{
			name:     "birthday already passed this year",
			member:   Member{BirthDate: time.Date(1993, 3, 10, 0, 0, 0, 0, time.UTC)},
			expected: 32,
		},
		{
			name:     "birthday later this year",
			member:   Member{BirthDate: time.Date(1993, 9, 10, 0, 0, 0, 0, time.UTC)},
			expected: 31,
		},
		{
			name:     "static age used when birth date missing",
			member:   Member{Age: 45},
			expected: 45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.member.AgeAt(asOf))
		})
	}
}

func TestICHRAClass_ContributionFor(t *testing.T) {
	class := &ICHRAClass{
		ID:               "full-time",
		Name:             "Full Time",
		EmployeeMonthly:  decimal.NewFromInt(400),
		DependentMonthly: decimal.NewFromInt(150),
	}

	single := &Member{ID: "m1"}
	withKids := &Member{ID: "m2", Dependents: []Dependent{{Name: "child", Age: 8}}}

	assert.True(t, class.ContributionFor(single).Equal(decimal.NewFromInt(400)))
	assert.True(t, class.ContributionFor(withKids).Equal(decimal.NewFromInt(550)))
}

func TestGroup_ClassByID(t *testing.T) {
	group := &Group{
		Classes: []ICHRAClass{
			{ID: "ft", Name: "Full Time"},
			{ID: "pt", Name: "Part Time"},
		},
	}

	assert.Equal(t, "Part Time", group.ClassByID("pt").Name)
	assert.Nil(t, group.ClassByID("seasonal"))
}

func TestDependent_AgeAt(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	withBirthDate := Dependent{BirthDate: time.Date(2010, 1, 20, 0, 0, 0, 0, time.UTC), Age: 99}
	assert.Equal(t, 15, withBirthDate.AgeAt(asOf), "birth date wins over static age")

	staticOnly := Dependent{Age: 12}
	assert.Equal(t, 12, staticOnly.AgeAt(asOf))
}
