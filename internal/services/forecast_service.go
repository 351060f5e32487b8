package services

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/fincast/fincast/internal/analytics"
	"github.com/fincast/fincast/internal/analytics/forecast"
	"github.com/fincast/fincast/internal/config"
	"github.com/fincast/fincast/internal/logging"
	"github.com/fincast/fincast/internal/models"
	"github.com/fincast/fincast/internal/notify"
	"github.com/fincast/fincast/internal/utils"
)

// maxSimulationBudget bounds simulations*horizon for Monte Carlo requests so
// a single request cannot monopolize the process.
const maxSimulationBudget = 1_000_000

// ForecastService handles forecasting business logic
type ForecastService struct {
	logger    *logging.Logger
	defaults  config.ForecastConfig
	reporting config.ReportingConfig
	notifier  *notify.Notifier
}

// NewForecastService creates a new ForecastService. The notifier is
// optional; when nil, results are returned without being published.
func NewForecastService(
	logger *logging.Logger,
	defaults config.ForecastConfig,
	reporting config.ReportingConfig,
	notifier *notify.Notifier,
) *ForecastService {
	return &ForecastService{
		logger:    logger,
		defaults:  defaults,
		reporting: reporting,
		notifier:  notifier,
	}
}

// ForecastRequest represents a forecast request. Zero-valued parameters fall
// back to the configured defaults.
type ForecastRequest struct {
	Series      models.SeriesDocument
	Method      string
	Horizon     int
	Alpha       float64
	WindowSize  int
	Simulations int
	Seed        int64 // nonzero seeds the random source for reproducible runs
}

// ForecastPeriod represents a single predicted period
type ForecastPeriod struct {
	Period     string  `json:"period"`
	Value      float64 `json:"value"`
	LowerBound float64 `json:"lower_bound,omitempty"`
	UpperBound float64 `json:"upper_bound,omitempty"`
	Confidence float64 `json:"confidence"`
	Median     float64 `json:"median,omitempty"`
}

// ForecastResponse represents the complete forecast response
type ForecastResponse struct {
	Name            string                `json:"name,omitempty"`
	Method          string                `json:"method"`
	Horizon         int                   `json:"horizon"`
	Periods         []ForecastPeriod      `json:"periods"`
	Base            []ForecastPeriod      `json:"base,omitempty"`
	SeasonalFactors map[int]float64       `json:"seasonal_factors,omitempty"`
	Quality         forecast.ModelQuality `json:"quality"`
	GeneratedAt     time.Time             `json:"generated_at"`
}

// Run validates the request, applies configured defaults, and produces a
// forecast with period labels in the reporting timezone. The response is
// returned even when publishing fails so callers can still act on it.
func (s *ForecastService) Run(ctx context.Context, req *ForecastRequest) (*ForecastResponse, error) {
	startExec := time.Now()

	if req.Horizon < 0 || req.WindowSize < 0 || req.Simulations < 0 {
		return nil, &ServiceError{
			Code:    CodeInvalidRequest,
			Message: "Forecast parameters cannot be negative",
		}
	}

	eff := s.applyDefaults(req)

	series, err := req.Series.ToSeries()
	if err != nil {
		return nil, &ServiceError{
			Code:    CodeInvalidRequest,
			Message: "Invalid series document",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}

	forecaster, err := forecast.Get(eff.Method)
	if err != nil {
		return nil, &ServiceError{
			Code:    CodeUnsupportedMethod,
			Message: err.Error(),
			Details: map[string]interface{}{
				"available_methods": forecast.List(),
			},
		}
	}

	// Simulation count only drives work for Monte Carlo, so the budget is
	// enforced there rather than uniformly.
	if eff.Method == "monte_carlo" && eff.Simulations*eff.Horizon > maxSimulationBudget {
		return nil, &ServiceError{
			Code:    CodeLimitExceeded,
			Message: "Simulation budget exceeded",
			Details: map[string]interface{}{
				"simulations": eff.Simulations,
				"horizon":     eff.Horizon,
				"budget":      maxSimulationBudget,
			},
		}
	}

	fcfg := forecast.Config{
		Horizon:     eff.Horizon,
		Alpha:       eff.Alpha,
		WindowSize:  eff.WindowSize,
		Simulations: eff.Simulations,
	}
	if req.Seed != 0 {
		fcfg.Rand = rand.New(rand.NewSource(req.Seed))
	}

	result, err := forecaster.Forecast(series, fcfg)
	if err != nil {
		return nil, mapEngineError(err)
	}

	lastPeriod := series[len(series)-1].Period
	resp := &ForecastResponse{
		Name:            req.Series.Name,
		Method:          result.Method,
		Horizon:         eff.Horizon,
		Periods:         s.labelForecasts(lastPeriod, result.Forecasts),
		Base:            s.labelForecasts(lastPeriod, result.BaseForecasts),
		SeasonalFactors: result.SeasonalFactors,
		Quality:         result.Quality,
		GeneratedAt:     time.Now().UTC(),
	}

	latency := time.Since(startExec)
	s.logger.WithContext(ctx).Info("Forecast completed",
		"series", req.Series.Name,
		"method", result.Method,
		"horizon", eff.Horizon,
		"data_points", len(series),
		"latency_ms", latency.Milliseconds())

	if s.notifier != nil {
		pubCtx, cancel := context.WithTimeout(ctx, utils.PublishTimeout)
		defer cancel()

		if err := s.notifier.PublishForecast(pubCtx, result); err != nil {
			return resp, &ServiceError{
				Code:    CodePublishFailed,
				Message: "Failed to publish forecast",
				Details: map[string]interface{}{"error": err.Error()},
			}
		}
	}

	return resp, nil
}

// applyDefaults resolves per-request parameters against the configured
// defaults, falling back to the engine defaults when neither is set.
func (s *ForecastService) applyDefaults(req *ForecastRequest) config.ForecastConfig {
	eff := s.defaults
	if req.Method != "" {
		eff.Method = req.Method
	}
	if req.Horizon > 0 {
		eff.Horizon = req.Horizon
	}
	if req.Alpha != 0 {
		eff.Alpha = req.Alpha
	}
	if req.WindowSize > 0 {
		eff.WindowSize = req.WindowSize
	}
	if req.Simulations > 0 {
		eff.Simulations = req.Simulations
	}

	engine := forecast.DefaultConfig()
	if eff.Method == "" {
		eff.Method = "linear_regression"
	}
	if eff.Horizon <= 0 {
		eff.Horizon = engine.Horizon
	}
	if eff.Alpha == 0 {
		eff.Alpha = engine.Alpha
	}
	if eff.WindowSize <= 0 {
		eff.WindowSize = engine.WindowSize
	}
	if eff.Simulations <= 0 {
		eff.Simulations = engine.Simulations
	}
	return eff
}

// labelForecasts converts engine predictions into response periods labeled
// in the reporting timezone, offset month by month from the last observed
// period.
func (s *ForecastService) labelForecasts(last time.Time, forecasts []forecast.PeriodForecast) []ForecastPeriod {
	if len(forecasts) == 0 {
		return nil
	}

	periods := make([]ForecastPeriod, len(forecasts))
	for i, f := range forecasts {
		p := ForecastPeriod{
			Period:     s.reporting.PeriodLabel(last.AddDate(0, f.PeriodOffset, 0)),
			Value:      f.Value,
			Confidence: f.Confidence,
			Median:     f.Median,
		}
		if f.Interval != nil {
			p.LowerBound = f.Interval.Lower
			p.UpperBound = f.Interval.Upper
		}
		periods[i] = p
	}
	return periods
}

// mapEngineError converts engine failures into coded service errors
func mapEngineError(err error) *ServiceError {
	var insufficientErr *analytics.InsufficientDataError
	if errors.As(err, &insufficientErr) {
		return &ServiceError{
			Code:    CodeForecastFailed,
			Message: err.Error(),
			Details: map[string]interface{}{
				"required": insufficientErr.Required,
				"actual":   insufficientErr.Actual,
			},
		}
	}

	var paramErr *analytics.InvalidParameterError
	if errors.As(err, &paramErr) {
		return &ServiceError{
			Code:    CodeInvalidRequest,
			Message: err.Error(),
			Details: map[string]interface{}{
				"parameter": paramErr.Parameter,
				"value":     paramErr.Value,
			},
		}
	}

	return &ServiceError{
		Code:    CodeForecastFailed,
		Message: "Forecast computation failed",
		Details: map[string]interface{}{"error": err.Error()},
	}
}
