package forecast

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/fincast/fincast/internal/analytics"
	"github.com/fincast/fincast/internal/analytics/stats"
)

// Source supplies uniform pseudo-random draws in [0, 1). *math/rand.Rand
// satisfies it; tests inject seeded sources for reproducible simulations.
type Source interface {
	Float64() float64
}

// Interval bounds a prediction at the 95% level
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// PeriodForecast represents a single predicted period
type PeriodForecast struct {
	PeriodOffset int       `json:"period_offset"` // 1..horizon
	Value        float64   `json:"value"`
	Interval     *Interval `json:"interval,omitempty"`
	Confidence   float64   `json:"confidence"`
	Median       float64   `json:"median,omitempty"` // Monte Carlo only
}

// ModelQuality contains metadata and fit metrics for the forecast model.
// Each method populates only the metrics it defines.
type ModelQuality struct {
	RSquared      float64                `json:"r_squared,omitempty"`
	StandardError float64                `json:"standard_error,omitempty"`
	MAPE          float64                `json:"mape,omitempty"` // Mean Absolute Percentage Error
	Residuals     []float64              `json:"residuals,omitempty"`
	MAValues      []float64              `json:"ma_values,omitempty"`
	Volatility    float64                `json:"volatility,omitempty"`
	MeanReturn    float64                `json:"mean_return,omitempty"`
	SharpeRatio   float64                `json:"sharpe_ratio,omitempty"`
	Parameters    map[string]interface{} `json:"parameters,omitempty"`
	DataPoints    int                    `json:"data_points"` // Number of data points used
}

// Result contains the forecast predictions and model quality
type Result struct {
	Method          string           `json:"method"`
	Forecasts       []PeriodForecast `json:"forecasts"`
	Quality         ModelQuality     `json:"quality"`
	SeasonalFactors map[int]float64  `json:"seasonal_factors,omitempty"` // seasonal method only
	BaseForecasts   []PeriodForecast `json:"base_forecasts,omitempty"`   // unadjusted trend, seasonal method only
}

// Config holds per-call forecast parameters. Zero fields fall back to the
// defaults below; Alpha is validated against [0,1] before defaulting.
type Config struct {
	Horizon     int     // Number of periods to forecast
	Alpha       float64 // Smoothing factor for exponential methods (0-1)
	WindowSize  int     // Window size for moving average methods
	Simulations int     // Number of Monte Carlo paths
	Rand        Source  // Uniform random source; nil gets a time-seeded one
}

// DefaultConfig returns default forecast configuration
func DefaultConfig() Config {
	return Config{
		Horizon:     12,   // Forecast 12 periods ahead
		Alpha:       0.3,  // Exponential smoothing factor
		WindowSize:  3,    // 3-point moving average
		Simulations: 1000, // Monte Carlo paths
	}
}

// withDefaults fills zero Config fields with the standard values
func withDefaults(config Config) Config {
	if config.Horizon <= 0 {
		config.Horizon = 12
	}
	if config.Alpha == 0 {
		config.Alpha = 0.3
	}
	if config.WindowSize <= 0 {
		config.WindowSize = 3
	}
	if config.Simulations <= 0 {
		config.Simulations = 1000
	}
	if config.Rand == nil {
		config.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return config
}

// Forecaster interface for all forecasting methods
type Forecaster interface {
	// Name returns the method name
	Name() string
	// Forecast generates predictions for future periods
	Forecast(series analytics.Series, config Config) (*Result, error)
}

// registry maps method names to forecasters. Method files register
// themselves from init, so importing the package brings the full set.
var registry = map[string]Forecaster{}

// Register makes a forecaster available under name.
func Register(name string, f Forecaster) {
	registry[name] = f
}

// Get resolves a registered forecaster by method name.
func Get(name string) (Forecaster, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown forecaster: %s", name)
	}
	return f, nil
}

// List returns the registered method names in sorted order.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MAPE returns the mean absolute percentage error, in percent. Periods
// with a zero actual are skipped rather than dividing by zero; if every
// actual is zero the result is 0.
func MAPE(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return 0
	}

	var sum float64
	var counted int
	for i, a := range actual {
		if a == 0 {
			continue
		}
		sum += math.Abs((a - predicted[i]) / a)
		counted++
	}

	if counted == 0 {
		return 0
	}
	return 100 * sum / float64(counted)
}

// MAE returns the mean absolute error.
func MAE(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return 0
	}

	var sum float64
	for i, a := range actual {
		sum += math.Abs(a - predicted[i])
	}
	return sum / float64(len(actual))
}

// RMSE returns the root mean squared error.
func RMSE(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return 0
	}

	var sumSq float64
	for i, a := range actual {
		d := a - predicted[i]
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(actual)))
}

// calculateRSquared computes the coefficient of determination of a fit.
// A zero total sum of squares (constant series) returns 0.
func calculateRSquared(actual, fitted []float64) float64 {
	if len(actual) != len(fitted) || len(actual) == 0 {
		return 0
	}

	mean := stats.Mean(actual)
	ssRes := 0.0
	ssTot := 0.0
	for i := range actual {
		r := actual[i] - fitted[i]
		ssRes += r * r
		d := actual[i] - mean
		ssTot += d * d
	}

	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// zScore95 is the normal z value for a 95% prediction interval
const zScore95 = 1.96

// calculateInterval returns the 95% interval around value. The width is
// fixed by the residual standard error and does not widen with the horizon.
func calculateInterval(value, stdError float64) *Interval {
	margin := zScore95 * stdError
	return &Interval{
		Lower: value - margin,
		Upper: value + margin,
	}
}

// calculateConfidence returns the confidence for a period offset: base
// minus 0.05 per step, floored at 0.1.
func calculateConfidence(base float64, periodOffset int) float64 {
	confidence := base - 0.05*float64(periodOffset)
	if confidence < 0.1 {
		return 0.1
	}
	return confidence
}
