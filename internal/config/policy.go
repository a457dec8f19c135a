package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ichrago/ichrago/internal/domain"
)

// LoadPolicy reads a policy table override file: poverty guidelines,
// applicable percentages, eligibility band, and the affordability threshold
// for a plan year other than the compiled-in one. An empty path returns the
// compiled-in tables.
func LoadPolicy(path string) (*domain.PolicyConfig, error) {
	if path == "" {
		return domain.DefaultPolicyConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}

	var policy domain.PolicyConfig
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}

	if err := validatePolicy(&policy); err != nil {
		return nil, fmt.Errorf("policy validation failed: %w", err)
	}
	return &policy, nil
}

func validatePolicy(policy *domain.PolicyConfig) error {
	if len(policy.PovertyGuidelines.Base) == 0 {
		return fmt.Errorf("poverty guideline table is empty")
	}
	for i, amount := range policy.PovertyGuidelines.Base {
		if !amount.IsPositive() {
			return fmt.Errorf("poverty guideline for household of %d must be positive", i+1)
		}
	}
	if policy.PovertyGuidelines.AdditionalPerMember.IsNegative() {
		return fmt.Errorf("additional per-member guideline cannot be negative")
	}

	if len(policy.ApplicablePercentages) == 0 {
		return fmt.Errorf("applicable percentage schedule is empty")
	}
	for i, b := range policy.ApplicablePercentages {
		if b.FloorPct.GreaterThanOrEqual(b.CeilingPct) {
			return fmt.Errorf("bracket %d: floor %s must be below ceiling %s", i, b.FloorPct, b.CeilingPct)
		}
		if b.InitialPct.IsNegative() || b.FinalPct.IsNegative() {
			return fmt.Errorf("bracket %d: percentages cannot be negative", i)
		}
		if i > 0 && b.FloorPct.LessThan(policy.ApplicablePercentages[i-1].CeilingPct) {
			return fmt.Errorf("bracket %d: floor %s overlaps the previous bracket", i, b.FloorPct)
		}
	}

	if policy.Eligibility.MinFPLPct.GreaterThanOrEqual(policy.Eligibility.MaxFPLPct) {
		return fmt.Errorf("eligibility band %s..%s is empty",
			policy.Eligibility.MinFPLPct, policy.Eligibility.MaxFPLPct)
	}
	if !policy.Affordability.ThresholdPct.IsPositive() {
		return fmt.Errorf("affordability threshold must be positive")
	}
	return nil
}
