package forecast

import (
	"github.com/fincast/fincast/internal/analytics"
	"github.com/fincast/fincast/internal/analytics/stats"
)

// MovingAverageForecaster projects the most recent trailing window average
// flat across the horizon
type MovingAverageForecaster struct{}

// NewMovingAverageForecaster creates a new moving average forecaster
func NewMovingAverageForecaster() *MovingAverageForecaster {
	return &MovingAverageForecaster{}
}

func init() {
	Register("moving_average", NewMovingAverageForecaster())
}

// Name returns the method name
func (f *MovingAverageForecaster) Name() string {
	return "moving_average"
}

// Forecast generates predictions using a trailing moving average
func (f *MovingAverageForecaster) Forecast(series analytics.Series, config Config) (*Result, error) {
	cfg := withDefaults(config)
	window := cfg.WindowSize

	if len(series) < window {
		return nil, &analytics.InsufficientDataError{Required: window, Actual: len(series)}
	}

	values := series.Values()

	// One trailing average per window ending at index window-1 and later.
	maValues := make([]float64, 0, len(values)-window+1)
	for end := window; end <= len(values); end++ {
		sum := 0.0
		for _, v := range values[end-window : end] {
			sum += v
		}
		maValues = append(maValues, sum/float64(window))
	}

	last := maValues[len(maValues)-1]
	forecasts := make([]PeriodForecast, cfg.Horizon)
	for i := 1; i <= cfg.Horizon; i++ {
		forecasts[i-1] = PeriodForecast{
			PeriodOffset: i,
			Value:        last,
			Confidence:   calculateConfidence(0.85, i),
		}
	}

	return &Result{
		Method:    "moving_average",
		Forecasts: forecasts,
		Quality: ModelQuality{
			MAValues:   maValues,
			Volatility: stats.StdDev(maValues),
			Parameters: map[string]interface{}{
				"window_size": window,
			},
			DataPoints: len(series),
		},
	}, nil
}
