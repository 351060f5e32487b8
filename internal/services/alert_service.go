package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fincast/fincast/internal/analytics/alert"
	"github.com/fincast/fincast/internal/config"
	"github.com/fincast/fincast/internal/logging"
	"github.com/fincast/fincast/internal/models"
	"github.com/fincast/fincast/internal/notify"
	"github.com/fincast/fincast/internal/utils"
)

// AlertService runs the alert rules over financial bundles and dispatches
// the results when a notifier is attached.
type AlertService struct {
	logger    *logging.Logger
	evaluator *alert.Evaluator
	notifier  *notify.Notifier
}

// NewAlertService creates a new AlertService. The notifier is optional; when
// nil, evaluation results are returned without being published.
func NewAlertService(logger *logging.Logger, thresholds alert.Thresholds, notifier *notify.Notifier) *AlertService {
	return &AlertService{
		logger:    logger,
		evaluator: alert.NewEvaluator(thresholds),
		notifier:  notifier,
	}
}

// ThresholdsFromConfig copies the configured trigger levels into engine
// thresholds. A zero-value config gets the standard defaults so an absent
// alerts section does not disable every rule.
func ThresholdsFromConfig(cfg config.AlertsConfig) alert.Thresholds {
	if cfg == (config.AlertsConfig{}) {
		return alert.DefaultThresholds()
	}
	return alert.Thresholds{
		BudgetWarningPercent:  cfg.BudgetWarningPercent,
		BudgetCriticalPercent: cfg.BudgetCriticalPercent,
		RevenueDropPercent:    cfg.RevenueDropPercent,
		CostIncreasePercent:   cfg.CostIncreasePercent,
		MinCashFlow:           cfg.MinCashFlow,
		MarginDropPoints:      cfg.MarginDropPoints,
		OutlierStdDevs:        cfg.OutlierStdDevs,
	}
}

// Evaluate runs every alert rule over the bundle document and publishes the
// results when a notifier is attached. The summary is returned even when
// publishing fails so callers can still act on it.
func (s *AlertService) Evaluate(ctx context.Context, doc models.BundleDocument) (*alert.Summary, error) {
	startEval := time.Now()

	bundle, err := doc.ToBundle()
	if err != nil {
		return nil, &ServiceError{
			Code:    CodeInvalidRequest,
			Message: "Invalid bundle document",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}

	summary := s.evaluator.EvaluateAll(bundle)

	latency := time.Since(startEval)
	s.logger.WithContext(ctx).Info("Evaluation completed",
		"alerts", len(summary.Alerts),
		"critical", summary.Counts[alert.SeverityCritical],
		"high", summary.Counts[alert.SeverityHigh],
		"trend", summary.Trend,
		"latency_ms", latency.Milliseconds())

	if s.notifier != nil {
		if err := s.dispatch(ctx, summary); err != nil {
			return &summary, err
		}
	}

	return &summary, nil
}

// EvaluateRaw decodes a queue envelope containing a JSON bundle document and
// evaluates it. The daemon consuming inbound bundle messages goes through
// this path.
func (s *AlertService) EvaluateRaw(ctx context.Context, payload []byte) (*alert.Summary, error) {
	body, err := notify.Decode(payload)
	if err != nil {
		return nil, &ServiceError{
			Code:    CodeEvaluationFailed,
			Message: "Failed to decode bundle envelope",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}

	var doc models.BundleDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ServiceError{
			Code:    CodeEvaluationFailed,
			Message: "Failed to parse bundle document",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}

	return s.Evaluate(ctx, doc)
}

// dispatch publishes the individual alerts and then the summary, bounded by
// its own timeout so a stalled queue cannot eat the whole evaluation budget
func (s *AlertService) dispatch(ctx context.Context, summary alert.Summary) error {
	ctx, cancel := context.WithTimeout(ctx, utils.PublishTimeout)
	defer cancel()

	if _, err := s.notifier.PublishAlerts(ctx, summary.Alerts); err != nil {
		return &ServiceError{
			Code:    CodePublishFailed,
			Message: "Failed to publish alerts",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}

	if err := s.notifier.PublishSummary(ctx, summary); err != nil {
		return &ServiceError{
			Code:    CodePublishFailed,
			Message: "Failed to publish evaluation summary",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}

	return nil
}
