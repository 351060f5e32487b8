package forecast

import (
	"github.com/fincast/fincast/internal/analytics"
	"github.com/fincast/fincast/internal/analytics/stats"
)

// seasonalMinPoints is the minimum history length for deriving monthly
// factors; below it the method falls back to the linear trend.
const seasonalMinPoints = 24

// SeasonalForecaster scales a linear trend forecast by monthly factors
// derived from the historical series
type SeasonalForecaster struct{}

// NewSeasonalForecaster creates a new seasonal forecaster
func NewSeasonalForecaster() *SeasonalForecaster {
	return &SeasonalForecaster{}
}

func init() {
	Register("seasonal", NewSeasonalForecaster())
}

// Name returns the method name
func (f *SeasonalForecaster) Name() string {
	return "seasonal"
}

// Forecast generates seasonally adjusted predictions on top of a linear
// trend. Series shorter than two full years delegate entirely to the
// linear regression forecaster.
func (f *SeasonalForecaster) Forecast(series analytics.Series, config Config) (*Result, error) {
	if len(series) < seasonalMinPoints {
		// Not enough history for stable monthly factors.
		return NewLinearRegressionForecaster().Forecast(series, config)
	}

	base, err := NewLinearRegressionForecaster().Forecast(series, config)
	if err != nil {
		return nil, err
	}

	factors := calculateSeasonalFactors(series)

	// Bucket lookup runs on the one-based period offset, so the first
	// forecast period reads bucket 1. Missing buckets leave the trend
	// unscaled.
	forecasts := make([]PeriodForecast, len(base.Forecasts))
	copy(forecasts, base.Forecasts)
	for i := range forecasts {
		factor, ok := factors[forecasts[i].PeriodOffset%12]
		if !ok {
			factor = 1
		}
		forecasts[i].Value = base.Forecasts[i].Value * factor
	}

	return &Result{
		Method:          "seasonal",
		Forecasts:       forecasts,
		Quality:         base.Quality,
		SeasonalFactors: factors,
		BaseForecasts:   base.Forecasts,
	}, nil
}

// calculateSeasonalFactors buckets the series by calendar month (keys 0..11)
// and returns each bucket mean relative to the overall mean. A zero overall
// mean yields no factors, leaving the base forecast unscaled.
func calculateSeasonalFactors(series analytics.Series) map[int]float64 {
	overall := stats.Mean(series.Values())
	if overall == 0 {
		return map[int]float64{}
	}

	buckets := make(map[int][]float64)
	for _, p := range series {
		key := int(p.Period.Month()) - 1
		buckets[key] = append(buckets[key], p.Value)
	}

	factors := make(map[int]float64, len(buckets))
	for key, values := range buckets {
		factors[key] = stats.Mean(values) / overall
	}
	return factors
}
