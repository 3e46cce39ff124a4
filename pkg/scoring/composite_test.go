package scoring

import (
	"math"
	"testing"
	"time"
)

func TestAggregateWeightedSum(t *testing.T) {
	components := []SubComponent{
		{ID: "proc", Weight: 0.5, Score: 80},
		{ID: "cert", Weight: 0.5, Score: 60},
	}
	if err := ValidateWeights(components, 1.0); err != nil {
		t.Fatalf("valid weight set rejected: %v", err)
	}
	got := Aggregate(components)
	if got != 70 {
		t.Errorf("Aggregate = %.4f, want exactly 70", got)
	}
}

func TestAggregateClampsSubScores(t *testing.T) {
	components := []SubComponent{
		{ID: "a", Weight: 0.5, Score: 150},
		{ID: "b", Weight: 0.5, Score: -20},
	}
	got := Aggregate(components)
	if got != 50 {
		t.Errorf("Aggregate with out-of-range scores = %.4f, want 50 (clamped to 100 and 0)", got)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(nil); got != 0 {
		t.Errorf("Aggregate(nil) = %.4f, want 0", got)
	}
}

func TestValidateWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		target  float64
		wantErr bool
	}{
		{"exact", []float64{0.5, 0.5}, 1.0, false},
		{"four_way", []float64{0.4, 0.3, 0.2, 0.1}, 1.0, false},
		{"short", []float64{0.5, 0.4}, 1.0, true},
		{"over", []float64{0.6, 0.6}, 1.0, true},
		{"negative_weight", []float64{1.2, -0.2}, 1.0, true},
		{"tiny_drift_ok", []float64{0.5, 0.5 + 1e-9}, 1.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var components []SubComponent
			for i, w := range tt.weights {
				components = append(components, SubComponent{ID: string(rune('a' + i)), Weight: w, Score: 50})
			}
			err := ValidateWeights(components, tt.target)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWeights(%v) error = %v, wantErr %v", tt.weights, err, tt.wantErr)
			}
		})
	}
}

func TestComposite(t *testing.T) {
	if got := Composite(80, 60); got != 70 {
		t.Errorf("Composite(80,60) = %.4f, want 70", got)
	}
	if got := Composite(0, 100); got != 50 {
		t.Errorf("Composite(0,100) = %.4f, want 50", got)
	}
}

func TestCompositeSnapshot(t *testing.T) {
	cfg := DefaultConfig()
	b := cfg.Benchmarks["automotive"]
	now := time.Now().UTC()

	// 0.5*70 + 0.5*60 = 65 sits exactly on the automotive benchmark.
	at := cfg.CompositeSnapshot("dealer-1", 70, 60, b, 1.0, now)
	if at.Value != 65 {
		t.Errorf("value = %.2f, want 65", at.Value)
	}
	if at.DollarImpact != 0 {
		t.Errorf("at-benchmark impact = %.2f, want 0", at.DollarImpact)
	}
	if at.EntityID != "dealer-1" || !at.ComputedAt.Equal(now) {
		t.Errorf("snapshot identity fields wrong: %+v", at)
	}

	// 15 points below benchmark at $1500/pt.
	below := cfg.CompositeSnapshot("dealer-1", 50, 50, b, 1.0, now)
	if below.DollarImpact != 22500 {
		t.Errorf("below-benchmark impact = %.2f, want 22500", below.DollarImpact)
	}

	// Indices outside the scale are clamped before combining.
	clamped := cfg.CompositeSnapshot("dealer-1", 150, -50, b, 1.0, now)
	if clamped.Value != 50 {
		t.Errorf("clamped value = %.2f, want 50", clamped.Value)
	}
}

func TestTSM(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.TSM(0, 0); got != 1.0 {
		t.Errorf("neutral TSM = %.4f, want 1.0", got)
	}

	// 1.0 + 0.05*0.3 + 0.1*0.5 = 1.065
	got := cfg.TSM(0.05, 0.1)
	if math.Abs(got-1.065) > 1e-9 {
		t.Errorf("TSM(0.05, 0.1) = %.6f, want 1.065", got)
	}

	// Monotone in both inputs.
	if cfg.TSM(0.10, 0.1) <= got || cfg.TSM(0.05, 0.2) <= got {
		t.Error("TSM must be monotonically increasing in both inputs")
	}

	// Negative macro inputs never push the multiplier below 1.
	if cfg.TSM(-5, -5) != 1.0 {
		t.Errorf("TSM with negative inputs = %.4f, want 1.0", cfg.TSM(-5, -5))
	}

	// Capped.
	if got := cfg.TSM(100, 100); got != cfg.TSMCap {
		t.Errorf("TSM cap = %.4f, want %.4f", got, cfg.TSMCap)
	}
}

func TestDollarImpact(t *testing.T) {
	// 5 points at $1500/pt under neutral macro conditions.
	if got := DollarImpact(5, 1500, 1.0); got != 7500 {
		t.Errorf("DollarImpact = %.2f, want 7500", got)
	}
	// TSM scales linearly.
	if got := DollarImpact(5, 1500, 1.2); math.Abs(got-9000) > 1e-9 {
		t.Errorf("DollarImpact with TSM 1.2 = %.2f, want 9000", got)
	}
}

func TestClassifyCompetitivePosition(t *testing.T) {
	tests := []struct {
		delta float64
		want  Position
	}{
		{0.15, PositionBehind},
		{0.101, PositionBehind},
		{0.10, PositionCompetitive},
		{0.0, PositionCompetitive},
		{-0.10, PositionCompetitive},
		{-0.11, PositionAhead},
	}
	for _, tt := range tests {
		if got := ClassifyCompetitivePosition(tt.delta); got != tt.want {
			t.Errorf("ClassifyCompetitivePosition(%.3f) = %s, want %s", tt.delta, got, tt.want)
		}
	}
}
