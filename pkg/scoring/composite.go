// Package scoring implements the trust composite: weighted aggregation of
// sub-component indices and translation of score movement into dollars.
package scoring

import (
	"fmt"
	"math"
	"time"
)

// SubComponent is one weighted input to an index. Weight is a fraction of the
// index total; Score is on the 0-100 scale. FinancialLink tags components
// whose movement is tied to a dollar lever (lead response, pricing, etc.).
type SubComponent struct {
	ID            string  `json:"id"`
	Weight        float64 `json:"weight"`
	Score         float64 `json:"score"`
	FinancialLink string  `json:"financial_link,omitempty"`
}

// CompositeScore is a derived snapshot; recomputed on demand, never mutated.
type CompositeScore struct {
	EntityID     string    `json:"entity_id"`
	Value        float64   `json:"value"`
	ComputedAt   time.Time `json:"computed_at"`
	DollarImpact float64   `json:"dollar_impact"`
}

// weightEpsilon bounds acceptable drift of a weight table from its documented
// target sum. Exceeding it is a deployment defect, rejected at config load.
const weightEpsilon = 1e-6

// ValidateWeights rejects a weight set whose total deviates from target by
// more than weightEpsilon. Called at configuration load, not per scoring call.
func ValidateWeights(components []SubComponent, target float64) error {
	total := 0.0
	for _, c := range components {
		if c.Weight < 0 || c.Weight > 1 {
			return fmt.Errorf("sub-component %q weight %.4f outside [0,1]", c.ID, c.Weight)
		}
		total += c.Weight
	}
	if math.Abs(total-target) > weightEpsilon {
		return fmt.Errorf("weight total %.6f deviates from target %.6f", total, target)
	}
	return nil
}

// Aggregate computes the weighted average of sub-component scores.
// Out-of-range sub-scores are clamped to [0,100], not rejected; weight
// validity is the config loader's job.
func Aggregate(components []SubComponent) float64 {
	totalWeight := 0.0
	weightedSum := 0.0
	for _, c := range components {
		totalWeight += c.Weight
		weightedSum += clamp100(c.Score) * c.Weight
	}
	if totalWeight <= 0 {
		return 0
	}
	return weightedSum / totalWeight
}

// Composite combines the internal-execution index with the external-perception
// index at equal weight.
func Composite(internal, external float64) float64 {
	return internal*0.50 + external*0.50
}

// CompositeSnapshot combines the two indices for an entity and prices the gap
// to the segment benchmark at the current trust sensitivity. A positive
// DollarImpact is monthly revenue at risk; negative means the entity scores
// above benchmark.
func (c Config) CompositeSnapshot(entityID string, internal, external float64, b Benchmark, tsm float64, now time.Time) CompositeScore {
	value := Composite(clamp100(internal), clamp100(external))
	return CompositeScore{
		EntityID:     entityID,
		Value:        value,
		ComputedAt:   now,
		DollarImpact: DollarImpact(b.AvgVisibilityScore-value, b.ElasticityPerPoint, tsm),
	}
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
