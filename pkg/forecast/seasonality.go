package forecast

import "math"

// Seasonality is the weekly seasonality diagnostic. Informational only: the
// flag does not fold back into the point forecast.
type Seasonality struct {
	Present    bool    `json:"present"`
	PeriodDays int     `json:"period_days"`
	Amplitude  float64 `json:"amplitude"`
}

// seasonalityMinSamples is the floor for the weekday diagnostic: two weeks of
// daily observations.
const seasonalityMinSamples = 14

// DetectWeeklySeasonality buckets samples by weekday and flags seasonality
// when the standard deviation of the seven weekday means exceeds the
// configured amplitude threshold.
func (f *Forecaster) DetectWeeklySeasonality(samples []Sample) Seasonality {
	if len(samples) < seasonalityMinSamples {
		return Seasonality{}
	}

	var sums [7]float64
	var counts [7]int
	for _, s := range samples {
		day := int(s.Time.Weekday())
		sums[day] += s.Value
		counts[day]++
	}

	var dayMeans [7]float64
	for i := range sums {
		if counts[i] > 0 {
			dayMeans[i] = sums[i] / float64(counts[i])
		}
	}

	overall := 0.0
	for _, m := range dayMeans {
		overall += m
	}
	overall /= 7

	variance := 0.0
	for _, m := range dayMeans {
		variance += (m - overall) * (m - overall)
	}
	variance /= 7
	amplitude := math.Sqrt(variance)

	return Seasonality{
		Present:    amplitude > f.cfg.SeasonalAmplitude,
		PeriodDays: 7,
		Amplitude:  amplitude,
	}
}
