package scoring

import (
	"fmt"
	"math"
)

// Benchmark holds per-segment industry reference numbers.
type Benchmark struct {
	AvgMonthlyRevenue  float64 `json:"average_monthly_revenue" yaml:"average_monthly_revenue"`
	AvgVisibilityScore float64 `json:"average_visibility_score" yaml:"average_visibility_score"`
	ElasticityPerPoint float64 `json:"elasticity_per_point" yaml:"elasticity_per_point"`
	MarketGrowthRate   float64 `json:"market_growth_rate" yaml:"market_growth_rate"`
}

// ChannelWeights attribute composite movement across visibility channels.
type ChannelWeights struct {
	Organic  float64 `yaml:"organic"`
	AISearch float64 `yaml:"ai_search"`
	Local    float64 `yaml:"local"`
	Social   float64 `yaml:"social"`
}

// Config carries every tunable of the scorer. All tables were literals in the
// source system; they are injected here so tenants can tune them and tests can
// pin them.
type Config struct {
	// WeightTargetSum is the documented total for sub-component weight tables.
	WeightTargetSum float64 `yaml:"weight_target_sum"`

	// Benchmarks by market segment, with brand lists selecting the segment.
	Benchmarks    map[string]Benchmark `yaml:"benchmarks"`
	LuxuryBrands  []string             `yaml:"luxury_brands"`
	EconomyBrands []string             `yaml:"economy_brands"`

	ChannelWeights ChannelWeights `yaml:"channel_weights"`
	CostPerPoint   ChannelWeights `yaml:"cost_per_point"`

	// Seasonality factors indexed by calendar quarter (Q1..Q4).
	Seasonality [4]float64 `yaml:"seasonality"`

	TSMCap float64 `yaml:"tsm_cap"`
	// LAM is the leverage-adjustment multiplier applied in AROI.
	LAM float64 `yaml:"lam"`
}

// DefaultConfig returns the production defaults carried over from the source
// model (segment elasticities, channel attribution, quarter factors).
func DefaultConfig() Config {
	return Config{
		WeightTargetSum: 1.0,
		Benchmarks: map[string]Benchmark{
			"automotive": {AvgMonthlyRevenue: 2500000, AvgVisibilityScore: 65, ElasticityPerPoint: 1500, MarketGrowthRate: 0.03},
			"luxury":     {AvgMonthlyRevenue: 5000000, AvgVisibilityScore: 70, ElasticityPerPoint: 2500, MarketGrowthRate: 0.05},
			"economy":    {AvgMonthlyRevenue: 1500000, AvgVisibilityScore: 60, ElasticityPerPoint: 1000, MarketGrowthRate: 0.02},
		},
		LuxuryBrands:   []string{"BMW", "Mercedes-Benz", "Audi", "Lexus", "Porsche", "Jaguar", "Land Rover"},
		EconomyBrands:  []string{"Kia", "Hyundai", "Nissan", "Mitsubishi", "Subaru"},
		ChannelWeights: ChannelWeights{Organic: 0.40, AISearch: 0.30, Local: 0.20, Social: 0.10},
		CostPerPoint:   ChannelWeights{Organic: 500, AISearch: 750, Local: 300, Social: 400},
		Seasonality:    [4]float64{0.9, 1.1, 1.2, 1.0},
		TSMCap:         3.0,
		LAM:            1.25,
	}
}

// Validate fails fast on a malformed table. Called once at configuration
// load; scoring calls themselves never error.
func (c Config) Validate() error {
	if c.WeightTargetSum <= 0 {
		return fmt.Errorf("weight target sum must be positive, got %.4f", c.WeightTargetSum)
	}
	if len(c.Benchmarks) == 0 {
		return fmt.Errorf("at least one segment benchmark is required")
	}
	if _, ok := c.Benchmarks["automotive"]; !ok {
		return fmt.Errorf("benchmarks must include the default %q segment", "automotive")
	}
	for segment, b := range c.Benchmarks {
		if b.ElasticityPerPoint <= 0 {
			return fmt.Errorf("segment %q elasticity must be positive, got %.2f", segment, b.ElasticityPerPoint)
		}
		if b.AvgVisibilityScore < 0 || b.AvgVisibilityScore > 100 {
			return fmt.Errorf("segment %q benchmark visibility %.2f outside [0,100]", segment, b.AvgVisibilityScore)
		}
	}
	chSum := c.ChannelWeights.Organic + c.ChannelWeights.AISearch + c.ChannelWeights.Local + c.ChannelWeights.Social
	if math.Abs(chSum-1.0) > weightEpsilon {
		return fmt.Errorf("channel weights sum %.6f, want 1.0", chSum)
	}
	for i, f := range c.Seasonality {
		if f <= 0 {
			return fmt.Errorf("seasonality factor Q%d must be positive, got %.2f", i+1, f)
		}
	}
	if c.TSMCap < 1.0 {
		return fmt.Errorf("tsm cap %.2f below the multiplier floor of 1.0", c.TSMCap)
	}
	if c.LAM <= 0 {
		return fmt.Errorf("lam must be positive, got %.2f", c.LAM)
	}
	return nil
}

// BenchmarkForBrand selects the segment benchmark by brand classification.
func (c Config) BenchmarkForBrand(brand string) Benchmark {
	for _, b := range c.LuxuryBrands {
		if b == brand {
			return c.Benchmarks["luxury"]
		}
	}
	for _, b := range c.EconomyBrands {
		if b == brand {
			return c.Benchmarks["economy"]
		}
	}
	return c.Benchmarks["automotive"]
}

// SeasonalityFactor returns the adjustment for a calendar quarter (1..4).
// Out-of-range quarters get the neutral factor.
func (c Config) SeasonalityFactor(quarter int) float64 {
	if quarter < 1 || quarter > 4 {
		return 1.0
	}
	return c.Seasonality[quarter-1]
}
