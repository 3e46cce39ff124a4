// Package trustconfig loads and validates the combined configuration for the
// scoring, forecasting, content risk and governance components.
package trustconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dtri/pkg/contentrisk"
	"dtri/pkg/forecast"
	"dtri/pkg/governance"
	"dtri/pkg/scoring"
)

// GovernanceConfig carries the rule set and the wiring for governance side
// effects. Empty addresses select the in-memory store.
type GovernanceConfig struct {
	Rules           []governance.Rule `yaml:"rules"`
	RetrainEndpoint string            `yaml:"retrain_endpoint"`
	RedisAddr       string            `yaml:"redis_addr"`
	PostgresDSN     string            `yaml:"postgres_dsn"`
}

// Config is the full component configuration.
type Config struct {
	Scoring     scoring.Config     `yaml:"scoring"`
	Forecast    forecast.Config    `yaml:"forecast"`
	ContentRisk contentrisk.Config `yaml:"content_risk"`
	Governance  GovernanceConfig   `yaml:"governance"`
}

// Default returns the compiled-in tables and the standard rule set.
func Default() Config {
	return Config{
		Scoring:     scoring.DefaultConfig(),
		Forecast:    forecast.DefaultConfig(),
		ContentRisk: contentrisk.DefaultConfig(),
		Governance: GovernanceConfig{
			Rules: []governance.Rule{
				{ID: "freeze-low-confidence", MetricName: "model_confidence", Operator: governance.OpLess, Threshold: 0.6, Action: governance.ActionFreezeModel, Active: true},
				{ID: "review-visibility-drop", MetricName: "visibility_delta", Operator: governance.OpLess, Threshold: -10, Action: governance.ActionManualReview, Active: true},
				{ID: "alert-content-risk", MetricName: "content_risk", Operator: governance.OpGreaterEqual, Threshold: 0.75, Action: governance.ActionAlert, Active: true},
				{ID: "retrain-drift", MetricName: "drift_score", Operator: governance.OpGreater, Threshold: 0.3, Action: governance.ActionAutoRetrain, Active: true},
			},
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section and fails on the first problem.
func (c Config) Validate() error {
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if err := c.Forecast.Validate(); err != nil {
		return fmt.Errorf("forecast: %w", err)
	}
	if err := c.ContentRisk.Validate(); err != nil {
		return fmt.Errorf("content_risk: %w", err)
	}
	if err := governance.ValidateRules(c.Governance.Rules); err != nil {
		return fmt.Errorf("governance: %w", err)
	}
	return nil
}
