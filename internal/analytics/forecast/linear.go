package forecast

import (
	"github.com/fincast/fincast/internal/analytics"
	"github.com/fincast/fincast/internal/analytics/stats"
)

// LinearRegressionForecaster fits an ordinary least squares trend over the
// series index and extrapolates it forward
type LinearRegressionForecaster struct{}

// NewLinearRegressionForecaster creates a new linear regression forecaster
func NewLinearRegressionForecaster() *LinearRegressionForecaster {
	return &LinearRegressionForecaster{}
}

func init() {
	Register("linear_regression", NewLinearRegressionForecaster())
}

// Name returns the method name
func (f *LinearRegressionForecaster) Name() string {
	return "linear_regression"
}

// Forecast generates predictions by extrapolating a least-squares trend
func (f *LinearRegressionForecaster) Forecast(series analytics.Series, config Config) (*Result, error) {
	if len(series) < 3 {
		return nil, &analytics.InsufficientDataError{Required: 3, Actual: len(series)}
	}

	cfg := withDefaults(config)

	values := series.Values()
	indexes := make([]float64, len(values))
	for i := range indexes {
		indexes[i] = float64(i)
	}

	slope, intercept := stats.LinearTrend(indexes, values)

	// Residuals of the historical fit drive the interval width.
	fitted := make([]float64, len(values))
	residuals := make([]float64, len(values))
	for i, v := range values {
		fitted[i] = intercept + slope*float64(i)
		residuals[i] = v - fitted[i]
	}

	stdError := stats.StdDev(residuals)

	n := len(values)
	forecasts := make([]PeriodForecast, cfg.Horizon)
	for i := 1; i <= cfg.Horizon; i++ {
		predicted := intercept + slope*float64(n-1+i)
		if predicted < 0 {
			predicted = 0
		}

		forecasts[i-1] = PeriodForecast{
			PeriodOffset: i,
			Value:        predicted,
			Interval:     calculateInterval(predicted, stdError),
			Confidence:   calculateConfidence(0.95, i),
		}
	}

	return &Result{
		Method:    "linear_regression",
		Forecasts: forecasts,
		Quality: ModelQuality{
			RSquared:      calculateRSquared(values, fitted),
			StandardError: stdError,
			Parameters: map[string]interface{}{
				"slope":     slope,
				"intercept": intercept,
			},
			DataPoints: len(series),
		},
	}, nil
}
