package forecast

import (
	"math"
	"sort"

	"github.com/fincast/fincast/internal/analytics"
	"github.com/fincast/fincast/internal/analytics/stats"
)

// MonteCarloForecaster simulates compounded return paths drawn from the
// historical return distribution and reports order statistics per period
type MonteCarloForecaster struct{}

// NewMonteCarloForecaster creates a new Monte Carlo forecaster
func NewMonteCarloForecaster() *MonteCarloForecaster {
	return &MonteCarloForecaster{}
}

func init() {
	Register("monte_carlo", NewMonteCarloForecaster())
}

// Name returns the method name
func (f *MonteCarloForecaster) Name() string {
	return "monte_carlo"
}

// Forecast generates predictions by simulating random return paths
func (f *MonteCarloForecaster) Forecast(series analytics.Series, config Config) (*Result, error) {
	if len(series) < 5 {
		return nil, &analytics.InsufficientDataError{Required: 5, Actual: len(series)}
	}

	cfg := withDefaults(config)

	values := series.Values()
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (values[i]-prev)/prev)
	}

	meanReturn := stats.Mean(returns)
	volatility := stats.StdDev(returns)

	lastValue := values[len(values)-1]
	horizon := cfg.Horizon
	simulations := cfg.Simulations
	rng := cfg.Rand

	// periods[p] collects the simulated value of period p+1 across paths.
	periods := make([][]float64, horizon)
	for p := range periods {
		periods[p] = make([]float64, simulations)
	}

	for s := 0; s < simulations; s++ {
		value := lastValue
		for p := 0; p < horizon; p++ {
			sampled := meanReturn + volatility*sampleNormal(rng)
			value = value * (1 + sampled)
			if value < 0 {
				value = 0
			}
			periods[p][s] = value
		}
	}

	forecasts := make([]PeriodForecast, horizon)
	for p := 0; p < horizon; p++ {
		sorted := periods[p]
		sort.Float64s(sorted)

		n := len(sorted)
		forecasts[p] = PeriodForecast{
			PeriodOffset: p + 1,
			Value:        stats.Mean(sorted),
			Median:       sorted[n/2],
			Interval: &Interval{
				Lower: sorted[int(0.05*float64(n))],
				Upper: sorted[int(0.95*float64(n))],
			},
			Confidence: 0.90, // flat across the horizon for this method
		}
	}

	sharpeRatio := 0.0
	if volatility != 0 {
		sharpeRatio = meanReturn / volatility
	}

	return &Result{
		Method:    "monte_carlo",
		Forecasts: forecasts,
		Quality: ModelQuality{
			MeanReturn:  meanReturn,
			Volatility:  volatility,
			SharpeRatio: sharpeRatio,
			Parameters: map[string]interface{}{
				"simulations": simulations,
			},
			DataPoints: len(series),
		},
	}, nil
}

// sampleNormal draws one standard normal value from rng using the
// Box-Muller transform. u1 is clamped away from zero to keep the log finite.
func sampleNormal(rng Source) float64 {
	u1 := rng.Float64()
	if u1 == 0 {
		u1 = math.SmallestNonzeroFloat64
	}
	u2 := rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
