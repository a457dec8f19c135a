package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ichrago/ichrago/internal/domain"
	"github.com/ichrago/ichrago/internal/geography"
	"github.com/ichrago/ichrago/internal/quote"
)

// QuoteRequest is the input document for a group quote: the roster of
// members and their classes, plus optional display filters and quote date.
type QuoteRequest struct {
	AsOf    time.Time     `yaml:"as_of,omitempty" json:"as_of,omitempty"`
	Group   domain.Group  `yaml:"group" json:"group"`
	Filters quote.Filters `yaml:"filters,omitempty" json:"filters,omitempty"`
}

// InputParser handles parsing of quote request files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a quote request from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*QuoteRequest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var req QuoteRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.applyDefaults(&req)

	if err := ip.ValidateRequest(&req); err != nil {
		return nil, fmt.Errorf("quote request validation failed: %w", err)
	}

	return &req, nil
}

// applyDefaults fills derivable fields the document may omit. A household
// size of zero means unstated and becomes the member plus their dependents.
func (ip *InputParser) applyDefaults(req *QuoteRequest) {
	for i := range req.Group.Members {
		m := &req.Group.Members[i]
		if m.HouseholdSize == 0 {
			m.HouseholdSize = 1 + len(m.Dependents)
		}
	}
}

// ValidateRequest validates the loaded quote request
func (ip *InputParser) ValidateRequest(req *QuoteRequest) error {
	if err := ip.validateGroup(&req.Group); err != nil {
		return err
	}
	if err := ip.validateFilters(&req.Filters); err != nil {
		return err
	}
	return nil
}

func (ip *InputParser) validateGroup(group *domain.Group) error {
	if group.ID == "" {
		return fmt.Errorf("group id is required")
	}
	if len(group.Members) == 0 {
		return fmt.Errorf("group has no members")
	}

	classIDs := make(map[string]bool, len(group.Classes))
	for i := range group.Classes {
		class := &group.Classes[i]
		if err := ip.validateClass(class); err != nil {
			return fmt.Errorf("class %d (%s) validation failed: %w", i, class.ID, err)
		}
		if classIDs[class.ID] {
			return fmt.Errorf("duplicate class id %q", class.ID)
		}
		classIDs[class.ID] = true
	}

	memberIDs := make(map[string]bool, len(group.Members))
	for i := range group.Members {
		m := &group.Members[i]
		if err := ip.validateMember(m, classIDs); err != nil {
			return fmt.Errorf("member %d (%s) validation failed: %w", i, m.Name, err)
		}
		if memberIDs[m.ID] {
			return fmt.Errorf("duplicate member id %q", m.ID)
		}
		memberIDs[m.ID] = true
	}

	return nil
}

func (ip *InputParser) validateClass(class *domain.ICHRAClass) error {
	if class.ID == "" {
		return fmt.Errorf("class id is required")
	}
	if class.EmployeeMonthly.IsNegative() {
		return fmt.Errorf("employee contribution cannot be negative")
	}
	if class.DependentMonthly.IsNegative() {
		return fmt.Errorf("dependent contribution cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateMember(m *domain.Member, classIDs map[string]bool) error {
	if m.ID == "" {
		return fmt.Errorf("member id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.BirthDate.IsZero() && m.Age <= 0 {
		return fmt.Errorf("either birth_date or a positive age is required")
	}
	if m.Age < 0 || m.Age > 125 {
		return fmt.Errorf("age %d is out of range", m.Age)
	}
	if err := geography.ValidateZip(m.Zip); err != nil {
		return err
	}
	if m.HouseholdIncome.IsNegative() {
		return fmt.Errorf("household income cannot be negative")
	}
	if m.HouseholdSize < 1 {
		return fmt.Errorf("household size must be at least 1")
	}
	if m.HouseholdSize < 1+len(m.Dependents) {
		return fmt.Errorf("household size %d is smaller than the covered lives", m.HouseholdSize)
	}
	if m.ClassID != "" && !classIDs[m.ClassID] {
		return fmt.Errorf("class %q is not defined", m.ClassID)
	}
	for i := range m.Dependents {
		dep := &m.Dependents[i]
		if dep.Age < 0 || dep.Age > 125 {
			return fmt.Errorf("dependent %d: age %d is out of range", i, dep.Age)
		}
	}
	if m.Previous.EmployerMonthly.IsNegative() || m.Previous.MemberMonthly.IsNegative() {
		return fmt.Errorf("previous contributions cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateFilters(f *quote.Filters) error {
	switch f.Market {
	case quote.MarketAny, quote.MarketOn, quote.MarketOff:
	default:
		return fmt.Errorf("market filter %q must be %q, %q, or empty", f.Market, quote.MarketOn, quote.MarketOff)
	}
	for _, level := range f.MetalLevels {
		switch level {
		case domain.MetalBronze, domain.MetalSilver, domain.MetalGold,
			domain.MetalPlatinum, domain.MetalCatastrophic:
		default:
			return fmt.Errorf("metal level %q is not recognized", level)
		}
	}
	return nil
}
