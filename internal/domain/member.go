package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdultAge is the age at or above which a covered life counts as an adult
// when classifying household composition for tier pricing.
const AdultAge = 21

// Dependent is a covered life on a member's household other than the member.
type Dependent struct {
	Name      string    `yaml:"name" json:"name"`
	BirthDate time.Time `yaml:"birth_date" json:"birth_date"`
	Age       int       `yaml:"age,omitempty" json:"age,omitempty"`
	Tobacco   bool      `yaml:"tobacco" json:"tobacco"`
	Spouse    bool      `yaml:"spouse" json:"spouse"`
}

// AgeAt returns the dependent's age at the given date, preferring the birth
// date when present over a statically supplied age.
func (d *Dependent) AgeAt(at time.Time) int {
	if d.BirthDate.IsZero() {
		return d.Age
	}
	return yearsBetween(d.BirthDate, at)
}

// PreviousContributions is the member's recorded cost under the group plan
// being replaced. Comparison baseline only; the rating engine never mutates
// it.
type PreviousContributions struct {
	PlanName        string          `yaml:"plan_name" json:"plan_name"`
	EmployerMonthly decimal.Decimal `yaml:"employer_monthly" json:"employer_monthly"`
	MemberMonthly   decimal.Decimal `yaml:"member_monthly" json:"member_monthly"`
}

// Member is one employee to be quoted. The engine consumes members read-only.
// CountyID disambiguates a multi-county ZIP; it must be set when the ZIP
// resolves to more than one county.
type Member struct {
	ID              string                `yaml:"id" json:"id"`
	Name            string                `yaml:"name" json:"name"`
	BirthDate       time.Time             `yaml:"birth_date" json:"birth_date"`
	Age             int                   `yaml:"age,omitempty" json:"age,omitempty"`
	Tobacco         bool                  `yaml:"tobacco" json:"tobacco"`
	Zip             string                `yaml:"zip" json:"zip"`
	CountyID        *int                  `yaml:"county_id,omitempty" json:"county_id,omitempty"`
	HouseholdIncome decimal.Decimal       `yaml:"household_income" json:"household_income"`
	HouseholdSize   int                   `yaml:"household_size" json:"household_size"`
	ClassID         string                `yaml:"class_id" json:"class_id"`
	Dependents      []Dependent           `yaml:"dependents,omitempty" json:"dependents,omitempty"`
	Previous        PreviousContributions `yaml:"previous_contributions" json:"previous_contributions"`
}

// AgeAt returns the member's age at the given date, preferring the birth
// date when present over a statically supplied age.
func (m *Member) AgeAt(at time.Time) int {
	if m.BirthDate.IsZero() {
		return m.Age
	}
	return yearsBetween(m.BirthDate, at)
}

// HasDependents reports whether any dependents are covered with the member.
func (m *Member) HasDependents() bool {
	return len(m.Dependents) > 0
}

// ICHRAClass is an employee class with its monthly ICHRA contribution
// amounts. The dependent amount applies once when the member covers any
// dependents, matching how the allowance is offered.
type ICHRAClass struct {
	ID               string          `yaml:"id" json:"id"`
	Name             string          `yaml:"name" json:"name"`
	EmployeeMonthly  decimal.Decimal `yaml:"employee_monthly" json:"employee_monthly"`
	DependentMonthly decimal.Decimal `yaml:"dependent_monthly" json:"dependent_monthly"`
}

// ContributionFor returns the class's total monthly contribution for a
// member, including the dependent allowance when the member covers
// dependents.
func (c *ICHRAClass) ContributionFor(m *Member) decimal.Decimal {
	if m.HasDependents() {
		return c.EmployeeMonthly.Add(c.DependentMonthly)
	}
	return c.EmployeeMonthly
}

// Group is the employer whose members are being quoted.
type Group struct {
	ID      string       `yaml:"id" json:"id"`
	Name    string       `yaml:"name" json:"name"`
	Classes []ICHRAClass `yaml:"classes" json:"classes"`
	Members []Member     `yaml:"members" json:"members"`
}

// ClassByID returns the class with the given id, or nil.
func (g *Group) ClassByID(id string) *ICHRAClass {
	for i := range g.Classes {
		if g.Classes[i].ID == id {
			return &g.Classes[i]
		}
	}
	return nil
}

// yearsBetween counts whole years elapsed from birth to at.
func yearsBetween(birth, at time.Time) int {
	years := at.Year() - birth.Year()
	if at.YearDay() < birth.YearDay() {
		years--
	}
	return years
}
