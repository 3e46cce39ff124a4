package forecast

import "math"

// Regime labels the recent behavior of a metric series for governance
// dashboards.
type Regime string

const (
	RegimeStable       Regime = "stable"
	RegimeVolatile     Regime = "volatile"
	RegimeTrendingUp   Regime = "trending_up"
	RegimeTrendingDown Regime = "trending_down"
)

const (
	regimeVolatilityCutoff = 15.0
	regimeTrendCutoff      = 5.0
)

// ClassifyRegime compares the mean of the last three observations against the
// three before them. High recent volatility wins over trend direction; series
// shorter than six points default to stable.
func ClassifyRegime(values []float64) Regime {
	if len(values) < 6 {
		return RegimeStable
	}

	recent := values[len(values)-3:]
	older := values[len(values)-6 : len(values)-3]

	recentAvg := mean(recent)
	change := recentAvg - mean(older)

	variance := 0.0
	for _, v := range recent {
		variance += (v - recentAvg) * (v - recentAvg)
	}
	volatility := math.Sqrt(variance / float64(len(recent)))

	switch {
	case volatility > regimeVolatilityCutoff:
		return RegimeVolatile
	case change > regimeTrendCutoff:
		return RegimeTrendingUp
	case change < -regimeTrendCutoff:
		return RegimeTrendingDown
	default:
		return RegimeStable
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
