package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoadPolicyEmptyPathUsesDefaults(t *testing.T) {
	policy, err := LoadPolicy("")
	if err != nil {
		t.Fatalf("LoadPolicy returned error: %v", err)
	}
	if policy.Metadata.PlanYear != 2025 {
		t.Errorf("PlanYear = %d, want 2025", policy.Metadata.PlanYear)
	}
	if len(policy.PovertyGuidelines.Base) != 8 {
		t.Errorf("guideline table size = %d, want 8", len(policy.PovertyGuidelines.Base))
	}
}

func TestLoadPolicyFromFile(t *testing.T) {
	doc := `
metadata:
  plan_year: 2026
poverty_guidelines:
  base: [16000, 21600]
  additional_per_member: 5600
applicable_percentages:
  - floor_pct: 100
    ceiling_pct: 400
    initial_pct: 3.5
    final_pct: 3.5
eligibility:
  min_fpl_pct: 100
  max_fpl_pct: 400
affordability:
  threshold_pct: 9.10
`
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	policy, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("LoadPolicy returned error: %v", err)
	}
	if policy.Metadata.PlanYear != 2026 {
		t.Errorf("PlanYear = %d, want 2026", policy.Metadata.PlanYear)
	}
	if !policy.PovertyGuidelines.Base[0].Equal(decimal.NewFromInt(16000)) {
		t.Errorf("base[0] = %s, want 16000", policy.PovertyGuidelines.Base[0])
	}
	if !policy.Affordability.ThresholdPct.Equal(decimal.NewFromFloat(9.10)) {
		t.Errorf("threshold = %s, want 9.10", policy.Affordability.ThresholdPct)
	}
}

func TestLoadPolicyRejectsBadTables(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			"empty guidelines",
			`
poverty_guidelines:
  base: []
applicable_percentages:
  - {floor_pct: 100, ceiling_pct: 400, initial_pct: 2, final_pct: 2}
eligibility: {min_fpl_pct: 100, max_fpl_pct: 400}
affordability: {threshold_pct: 9.02}
`,
		},
		{
			"inverted bracket",
			`
poverty_guidelines:
  base: [16000]
  additional_per_member: 5600
applicable_percentages:
  - {floor_pct: 200, ceiling_pct: 150, initial_pct: 2, final_pct: 2}
eligibility: {min_fpl_pct: 100, max_fpl_pct: 400}
affordability: {threshold_pct: 9.02}
`,
		},
		{
			"overlapping brackets",
			`
poverty_guidelines:
  base: [16000]
  additional_per_member: 5600
applicable_percentages:
  - {floor_pct: 100, ceiling_pct: 200, initial_pct: 2, final_pct: 2}
  - {floor_pct: 150, ceiling_pct: 300, initial_pct: 2, final_pct: 3}
eligibility: {min_fpl_pct: 100, max_fpl_pct: 400}
affordability: {threshold_pct: 9.02}
`,
		},
		{
			"zero threshold",
			`
poverty_guidelines:
  base: [16000]
  additional_per_member: 5600
applicable_percentages:
  - {floor_pct: 100, ceiling_pct: 400, initial_pct: 2, final_pct: 2}
eligibility: {min_fpl_pct: 100, max_fpl_pct: 400}
affordability: {threshold_pct: 0}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "policy.yaml")
			if err := os.WriteFile(path, []byte(tt.doc), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadPolicy(path); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}
