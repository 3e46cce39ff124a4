package trustconfig

import (
	"os"
	"path/filepath"
	"testing"

	"dtri/pkg/governance"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dtri.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
forecast:
  alpha: 0.5
governance:
  retrain_endpoint: http://retrain.internal/v1/jobs
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Forecast.Alpha != 0.5 {
		t.Errorf("alpha = %.2f, want 0.5 from file", cfg.Forecast.Alpha)
	}
	// Untouched sections keep their defaults.
	if cfg.Forecast.MaxWindow != 90 {
		t.Errorf("max window = %d, want default 90", cfg.Forecast.MaxWindow)
	}
	if len(cfg.Governance.Rules) == 0 {
		t.Error("default rules must survive a partial override")
	}
	if cfg.Governance.RetrainEndpoint != "http://retrain.internal/v1/jobs" {
		t.Errorf("retrain endpoint = %q", cfg.Governance.RetrainEndpoint)
	}
}

func TestLoadOverridesTrustImpactDeltas(t *testing.T) {
	path := writeConfig(t, `
content_risk:
  trust_impact:
    trust_continue: 7
    experience_low: -9
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ContentRisk.TrustImpact.TrustContinue != 7 {
		t.Errorf("trust_continue = %d, want 7 from file", cfg.ContentRisk.TrustImpact.TrustContinue)
	}
	if cfg.ContentRisk.TrustImpact.ExperienceLow != -9 {
		t.Errorf("experience_low = %d, want -9 from file", cfg.ContentRisk.TrustImpact.ExperienceLow)
	}
	// Untouched deltas keep the defaults.
	if cfg.ContentRisk.TrustImpact.TrustFlag != 3 {
		t.Errorf("trust_flag = %d, want default 3", cfg.ContentRisk.TrustImpact.TrustFlag)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "forecast: [not a map")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error, got nil")
	}
}

func TestLoadRejectsInvalidSections(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad_alpha", "forecast:\n  alpha: 1.5\n"},
		{"bad_band", "content_risk:\n  bands:\n    flag: 0.9\n    suppress: 0.5\n"},
		{"bad_rule_operator", "governance:\n  rules:\n    - id: r1\n      metric_name: m\n      operator: '~'\n      threshold: 1\n      action: alert\n      active: true\n"},
		{"bad_rule_action", "governance:\n  rules:\n    - id: r1\n      metric_name: m\n      operator: '<'\n      threshold: 1\n      action: explode\n      active: true\n"},
		{"bad_elasticity", "scoring:\n  benchmarks:\n    automotive:\n      average_monthly_revenue: 2500000\n      average_visibility_score: 65\n      elasticity_per_point: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected read error, got nil")
	}
}

func TestDefaultRuleSetIsValid(t *testing.T) {
	cfg := Default()
	if err := governance.ValidateRules(cfg.Governance.Rules); err != nil {
		t.Fatalf("default rules must validate: %v", err)
	}
	var hasFreeze bool
	for _, r := range cfg.Governance.Rules {
		if r.Action == governance.ActionFreezeModel {
			hasFreeze = true
		}
	}
	if !hasFreeze {
		t.Error("default rule set must include a freeze guard")
	}
}
