package forecast

import (
	"github.com/fincast/fincast/internal/analytics"
)

// ExponentialSmoothingForecaster applies single exponential smoothing and
// projects the final level flat across the horizon
type ExponentialSmoothingForecaster struct{}

// NewExponentialSmoothingForecaster creates a new exponential smoothing forecaster
func NewExponentialSmoothingForecaster() *ExponentialSmoothingForecaster {
	return &ExponentialSmoothingForecaster{}
}

func init() {
	Register("exponential_smoothing", NewExponentialSmoothingForecaster())
}

// Name returns the method name
func (f *ExponentialSmoothingForecaster) Name() string {
	return "exponential_smoothing"
}

// Forecast generates predictions using single exponential smoothing
func (f *ExponentialSmoothingForecaster) Forecast(series analytics.Series, config Config) (*Result, error) {
	if len(series) == 0 {
		return nil, &analytics.InsufficientDataError{Required: 1, Actual: 0}
	}
	if config.Alpha < 0 || config.Alpha > 1 {
		return nil, &analytics.InvalidParameterError{Parameter: "alpha", Value: config.Alpha}
	}

	cfg := withDefaults(config)
	alpha := cfg.Alpha

	values := series.Values()
	smoothed := make([]float64, len(values))
	smoothed[0] = values[0]
	for t := 1; t < len(values); t++ {
		smoothed[t] = alpha*values[t] + (1-alpha)*smoothed[t-1]
	}

	residuals := make([]float64, len(values))
	for i := range values {
		residuals[i] = values[i] - smoothed[i]
	}

	// The smoothed level carries no trend component, so every horizon
	// period repeats it.
	level := smoothed[len(smoothed)-1]
	forecasts := make([]PeriodForecast, cfg.Horizon)
	for i := 1; i <= cfg.Horizon; i++ {
		forecasts[i-1] = PeriodForecast{
			PeriodOffset: i,
			Value:        level,
			Confidence:   calculateConfidence(0.90, i),
		}
	}

	return &Result{
		Method:    "exponential_smoothing",
		Forecasts: forecasts,
		Quality: ModelQuality{
			MAPE:      MAPE(values, smoothed),
			Residuals: residuals,
			Parameters: map[string]interface{}{
				"alpha": alpha,
			},
			DataPoints: len(series),
		},
	}, nil
}
