package scoring

import (
	"math"
	"testing"
)

func TestRevenueAtRisk(t *testing.T) {
	cfg := DefaultConfig()
	b := cfg.Benchmarks["automotive"]

	scores := VisibilityScores{Overall: 55, SEO: 50, AEO: 60, GEO: 65, Social: 70}
	impact := cfg.RevenueAtRisk(scores, b)

	// Gap of 10 points at $1500/pt.
	if impact.MonthlyAtRisk != 15000 {
		t.Errorf("monthly at risk = %.2f, want 15000", impact.MonthlyAtRisk)
	}
	if impact.AnnualAtRisk != 180000 {
		t.Errorf("annual at risk = %.2f, want 180000", impact.AnnualAtRisk)
	}
	// SEO gap 15 * 1500 * 0.4 = 9000.
	if math.Abs(impact.Breakdown.OrganicSearch-9000) > 1e-9 {
		t.Errorf("organic breakdown = %.2f, want 9000", impact.Breakdown.OrganicSearch)
	}
	// GEO and Social are at or above benchmark: no negative attribution.
	if impact.Breakdown.LocalSearch != 0 || impact.Breakdown.SocialMedia != 0 {
		t.Errorf("channels above benchmark must contribute 0, got %.2f / %.2f",
			impact.Breakdown.LocalSearch, impact.Breakdown.SocialMedia)
	}
	if impact.PercentileRank != 30 {
		t.Errorf("percentile rank = %d, want 30", impact.PercentileRank)
	}
}

func TestRevenueAtRiskNeverNegative(t *testing.T) {
	cfg := DefaultConfig()
	b := cfg.Benchmarks["automotive"]

	// Entity above benchmark everywhere.
	scores := VisibilityScores{Overall: 90, SEO: 90, AEO: 90, GEO: 90, Social: 90}
	impact := cfg.RevenueAtRisk(scores, b)
	if impact.MonthlyAtRisk != 0 || impact.AnnualAtRisk != 0 {
		t.Errorf("above-benchmark entity must have zero revenue at risk, got %.2f", impact.MonthlyAtRisk)
	}
}

func TestBenchmarkForBrand(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		brand          string
		wantElasticity float64
	}{
		{"BMW", 2500},
		{"Lexus", 2500},
		{"Kia", 1000},
		{"Toyota", 1500},
		{"", 1500},
	}
	for _, tt := range tests {
		if got := cfg.BenchmarkForBrand(tt.brand).ElasticityPerPoint; got != tt.wantElasticity {
			t.Errorf("BenchmarkForBrand(%q) elasticity = %.0f, want %.0f", tt.brand, got, tt.wantElasticity)
		}
	}
}

func TestEstimateImprovement(t *testing.T) {
	cfg := DefaultConfig()
	b := cfg.Benchmarks["automotive"]

	current := VisibilityScores{Overall: 60, SEO: 60, AEO: 60, GEO: 60, Social: 60}
	target := VisibilityScores{Overall: 70, SEO: 70, AEO: 60, GEO: 60, Social: 60}

	got := cfg.EstimateImprovement(current, target, b)
	// 10 overall points at $1500/pt.
	if got.MonthlyRevenueLift != 15000 {
		t.Errorf("revenue lift = %.2f, want 15000", got.MonthlyRevenueLift)
	}
	// Only SEO improves: 10 points at $500/pt.
	if got.ImplementationCost != 5000 {
		t.Errorf("implementation cost = %.2f, want 5000", got.ImplementationCost)
	}
	if got.PaybackMonths <= 0 || got.ROIEstimate <= 0 {
		t.Errorf("expected positive ROI and payback, got %+v", got)
	}
	t.Logf("improvement: lift=%.0f cost=%.0f roi=%.0f%% payback=%.2fmo",
		got.MonthlyRevenueLift, got.ImplementationCost, got.ROIEstimate, got.PaybackMonths)
}

func TestDecayTaxCost(t *testing.T) {
	// 2-point decline, beta 0.15, 20% closing rate, $650 CAC, neutral TSM.
	got := DecayTaxCost(2, 0.15, 0.20, 650, 1.0)
	want := (2 * 0.15 / 0.20) * 650
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("DecayTaxCost = %.2f, want %.2f", got, want)
	}
	if DecayTaxCost(2, 0.15, 0, 650, 1.0) != 0 {
		t.Error("zero closing rate must not divide by zero")
	}
}

func TestAROIAndStrategicWindow(t *testing.T) {
	cfg := DefaultConfig()
	aroi := cfg.AROI(10000, 1.0, 5000)
	if math.Abs(aroi-2.5) > 1e-9 {
		t.Errorf("AROI = %.4f, want 2.5 (lift*lam/cost)", aroi)
	}
	if cfg.AROI(10000, 1.0, 0) != 0 {
		t.Error("zero cost of effort must yield 0, not Inf")
	}

	sw := StrategicWindowValue(10, 6, 0.20, 3000, 1.0)
	if sw != 36000 {
		t.Errorf("StrategicWindowValue = %.2f, want 36000", sw)
	}
}

func TestSeasonalityFactor(t *testing.T) {
	cfg := DefaultConfig()
	want := []float64{0.9, 1.1, 1.2, 1.0}
	for q := 1; q <= 4; q++ {
		if got := cfg.SeasonalityFactor(q); got != want[q-1] {
			t.Errorf("Q%d factor = %.2f, want %.2f", q, got, want[q-1])
		}
	}
	if cfg.SeasonalityFactor(0) != 1.0 || cfg.SeasonalityFactor(5) != 1.0 {
		t.Error("out-of-range quarter must be neutral")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero_target", func(c *Config) { c.WeightTargetSum = 0 }},
		{"no_benchmarks", func(c *Config) { c.Benchmarks = nil }},
		{"missing_default_segment", func(c *Config) { delete(c.Benchmarks, "automotive") }},
		{"bad_elasticity", func(c *Config) {
			b := c.Benchmarks["automotive"]
			b.ElasticityPerPoint = 0
			c.Benchmarks["automotive"] = b
		}},
		{"channel_weights_drift", func(c *Config) { c.ChannelWeights.Organic = 0.5 }},
		{"bad_seasonality", func(c *Config) { c.Seasonality[2] = 0 }},
		{"tsm_cap_below_floor", func(c *Config) { c.TSMCap = 0.5 }},
		{"bad_lam", func(c *Config) { c.LAM = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config must validate, got %v", err)
	}
}
