package forecast

import (
	"errors"
	"math"
	"testing"

	"github.com/fincast/fincast/internal/analytics"
)

func TestMovingAverageForecaster_BasicForecast(t *testing.T) {
	series := generateLinearSeries(50, 1.0, 0.0)

	config := Config{Horizon: 5, WindowSize: 7}

	forecaster := NewMovingAverageForecaster()
	result, err := forecaster.Forecast(series, config)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	if len(result.Forecasts) != config.Horizon {
		t.Errorf("Expected %d forecasts, got %d", config.Horizon, len(result.Forecasts))
	}

	if result.Method != "moving_average" {
		t.Errorf("Expected method 'moving_average', got '%s'", result.Method)
	}
}

func TestMovingAverageForecaster_TrailingWindows(t *testing.T) {
	// Windows of 3 over [10,20,30,40]: averages 20 and 30; forecasts repeat 30.
	series := analytics.Series{
		{Period: testBaseTime, Value: 10},
		{Period: testBaseTime.AddDate(0, 1, 0), Value: 20},
		{Period: testBaseTime.AddDate(0, 2, 0), Value: 30},
		{Period: testBaseTime.AddDate(0, 3, 0), Value: 40},
	}

	result, err := NewMovingAverageForecaster().Forecast(series, Config{Horizon: 4, WindowSize: 3})
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	expected := []float64{20, 30}
	if len(result.Quality.MAValues) != len(expected) {
		t.Fatalf("Expected %d moving averages, got %d", len(expected), len(result.Quality.MAValues))
	}
	for i, want := range expected {
		if math.Abs(result.Quality.MAValues[i]-want) > 1e-9 {
			t.Errorf("Moving average %d: expected %v, got %v", i, want, result.Quality.MAValues[i])
		}
	}

	for i, f := range result.Forecasts {
		if math.Abs(f.Value-30) > 1e-9 {
			t.Errorf("Forecast %d: expected 30, got %v", i, f.Value)
		}
	}

	// Population std dev of [20,30] is 5.
	if math.Abs(result.Quality.Volatility-5) > 1e-9 {
		t.Errorf("Expected volatility 5, got %v", result.Quality.Volatility)
	}
}

func TestMovingAverageForecaster_InsufficientData(t *testing.T) {
	series := generateLinearSeries(2, 1.0, 0.0)

	forecaster := NewMovingAverageForecaster()
	_, err := forecaster.Forecast(series, Config{Horizon: 5, WindowSize: 3})
	if err == nil {
		t.Fatal("Expected error for insufficient data")
	}

	var insufficientErr *analytics.InsufficientDataError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("Expected InsufficientDataError, got %T", err)
	}
	if insufficientErr.Required != 3 || insufficientErr.Actual != 2 {
		t.Errorf("Expected required=3 actual=2, got required=%d actual=%d",
			insufficientErr.Required, insufficientErr.Actual)
	}
}

func TestMovingAverageForecaster_ConfidenceDecay(t *testing.T) {
	series := generateLinearSeries(20, 1.0, 0.0)

	result, err := NewMovingAverageForecaster().Forecast(series, Config{Horizon: 4, WindowSize: 3})
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	// Starts at 0.85 - 0.05 and drops 0.05 per period.
	for i, f := range result.Forecasts {
		expected := 0.85 - 0.05*float64(i+1)
		if math.Abs(f.Confidence-expected) > 1e-9 {
			t.Errorf("Forecast %d: expected confidence %v, got %v", i, expected, f.Confidence)
		}
	}
}

func TestMovingAverageForecaster_Name(t *testing.T) {
	forecaster := NewMovingAverageForecaster()
	if forecaster.Name() != "moving_average" {
		t.Errorf("Expected name 'moving_average', got '%s'", forecaster.Name())
	}
}

func BenchmarkMovingAverageForecaster(b *testing.B) {
	series := generateLinearSeries(100, 1.0, 0.0)
	config := Config{Horizon: 10, WindowSize: 3}
	forecaster := NewMovingAverageForecaster()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = forecaster.Forecast(series, config)
	}
}
