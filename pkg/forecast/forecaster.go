// Package forecast predicts metric trajectories from historical snapshots
// using exponential smoothing and least-squares trend extrapolation.
package forecast

import (
	"errors"
	"math"
	"time"
)

// ErrNoForecast is returned when a series is too short to forecast. It is an
// absence-of-data signal, not a failure.
var ErrNoForecast = errors.New("insufficient history for forecast")

// minPoints is the data floor below which no forecast is produced.
const minPoints = 3

// Point is one observation: days since the start of the series and the metric
// value at that offset.
type Point struct {
	DayOffset float64 `json:"day_offset"`
	Value     float64 `json:"value"`
}

// Sample is a timestamped observation, used when the caller still has wall
// clock times (weekday seasonality needs them).
type Sample struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Trend labels the direction of the forecast relative to the current value.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Result is a derived forecast for one metric of one entity.
type Result struct {
	Metric         string       `json:"metric"`
	CurrentValue   float64      `json:"current_value"`
	PredictedValue float64      `json:"predicted_value"`
	Confidence     float64      `json:"confidence"`
	Trend          Trend        `json:"trend"`
	HorizonDays    int          `json:"horizon_days"`
	ImpactPoints   float64      `json:"impact_points"`
	Seasonality    *Seasonality `json:"seasonality,omitempty"`
}

// Config carries the forecaster tunables.
type Config struct {
	// Alpha is the exponential smoothing factor.
	Alpha float64 `yaml:"alpha"`
	// StableBand is the |predicted-current| width classified as stable.
	StableBand float64 `yaml:"stable_band"`
	// SeasonalAmplitude is the weekday-mean std-dev above which weekly
	// seasonality is flagged.
	SeasonalAmplitude float64 `yaml:"seasonal_amplitude"`
	// MaxWindow caps how many trailing points feed the regression.
	MaxWindow int `yaml:"max_window"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{Alpha: 0.3, StableBand: 2.0, SeasonalAmplitude: 2.0, MaxWindow: 90}
}

// Validate fails fast on a malformed config.
func (c Config) Validate() error {
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return errors.New("smoothing alpha must be in (0,1)")
	}
	if c.StableBand < 0 {
		return errors.New("stable band must be non-negative")
	}
	if c.SeasonalAmplitude <= 0 {
		return errors.New("seasonal amplitude threshold must be positive")
	}
	if c.MaxWindow < minPoints {
		return errors.New("max window below the forecast data floor")
	}
	return nil
}

// Forecaster computes forecasts. Stateless and safe for concurrent use.
type Forecaster struct {
	cfg Config
}

// New creates a forecaster, filling zero-value tunables with defaults.
func New(cfg Config) *Forecaster {
	def := DefaultConfig()
	if cfg.Alpha <= 0 || cfg.Alpha >= 1 {
		cfg.Alpha = def.Alpha
	}
	if cfg.StableBand <= 0 {
		cfg.StableBand = def.StableBand
	}
	if cfg.SeasonalAmplitude <= 0 {
		cfg.SeasonalAmplitude = def.SeasonalAmplitude
	}
	if cfg.MaxWindow < minPoints {
		cfg.MaxWindow = def.MaxWindow
	}
	return &Forecaster{cfg: cfg}
}

// Predict extrapolates a metric horizonDays past the last observed offset.
// Fewer than minPoints observations yield (nil, ErrNoForecast). Well-formed
// numeric input never produces any other error.
func (f *Forecaster) Predict(metric string, points []Point, horizonDays int) (*Result, error) {
	if len(points) < minPoints {
		return nil, ErrNoForecast
	}
	if len(points) > f.cfg.MaxWindow {
		points = points[len(points)-f.cfg.MaxWindow:]
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	smoothed := exponentialMovingAverage(values, f.cfg.Alpha)

	xs := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.DayOffset
	}
	slope, intercept, r2 := linearRegression(xs, smoothed)

	lastX := points[len(points)-1].DayOffset
	predicted := clamp100(math.Round(slope*(lastX+float64(horizonDays)) + intercept))
	current := math.Round(points[len(points)-1].Value)

	delta := predicted - current
	trend := TrendStable
	if math.Abs(delta) >= f.cfg.StableBand {
		if delta > 0 {
			trend = TrendUp
		} else {
			trend = TrendDown
		}
	}

	return &Result{
		Metric:         metric,
		CurrentValue:   current,
		PredictedValue: predicted,
		Confidence:     r2,
		Trend:          trend,
		HorizonDays:    horizonDays,
		ImpactPoints:   delta,
	}, nil
}

// PredictSeries forecasts from timestamped samples, deriving day offsets from
// the first observation and attaching the weekly seasonality diagnostic.
func (f *Forecaster) PredictSeries(metric string, samples []Sample, horizonDays int) (*Result, error) {
	if len(samples) < minPoints {
		return nil, ErrNoForecast
	}
	start := samples[0].Time
	points := make([]Point, len(samples))
	for i, s := range samples {
		points[i] = Point{
			DayOffset: s.Time.Sub(start).Hours() / 24,
			Value:     s.Value,
		}
	}
	result, err := f.Predict(metric, points, horizonDays)
	if err != nil {
		return nil, err
	}
	seasonality := f.DetectWeeklySeasonality(samples)
	result.Seasonality = &seasonality
	return result, nil
}

// exponentialMovingAverage smooths a series: ema[0]=v[0],
// ema[i]=alpha*v[i]+(1-alpha)*ema[i-1].
func exponentialMovingAverage(values []float64, alpha float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	ema := make([]float64, len(values))
	ema[0] = values[0]
	for i := 1; i < len(values); i++ {
		ema[i] = alpha*values[i] + (1-alpha)*ema[i-1]
	}
	return ema
}

// linearRegression fits y = slope*x + intercept by ordinary least squares and
// reports R² clamped to [0,1] as the confidence proxy.
func linearRegression(xs, ys []float64) (slope, intercept, r2 float64) {
	n := float64(len(xs))
	if n < 2 {
		return 0, 0, 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, sumY / n, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	yMean := sumY / n
	var ssTotal, ssResidual float64
	for i := range xs {
		ssTotal += (ys[i] - yMean) * (ys[i] - yMean)
		fit := slope*xs[i] + intercept
		ssResidual += (ys[i] - fit) * (ys[i] - fit)
	}
	if ssTotal == 0 {
		// Flat series: the fit is exact but carries no explanatory power.
		return slope, intercept, 0
	}
	r2 = 1 - ssResidual/ssTotal
	return slope, intercept, math.Max(0, math.Min(1, r2))
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
