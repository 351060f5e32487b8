package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fincast/fincast/internal/analytics/alert"
	"github.com/fincast/fincast/internal/analytics/forecast"
	"github.com/fincast/fincast/internal/config"
	"github.com/fincast/fincast/internal/logging"
	"github.com/fincast/fincast/internal/queue"
	"github.com/fincast/fincast/internal/utils"
)

// DefaultSubjectPrefix is used when the config leaves the prefix empty
const DefaultSubjectPrefix = "fincast"

// AlertSubject returns the per-severity alert subject for a prefix
func AlertSubject(prefix string, severity alert.Severity) string {
	return prefix + ".alerts." + strings.ToLower(string(severity))
}

// SummarySubject returns the evaluation summary subject for a prefix
func SummarySubject(prefix string) string {
	return prefix + ".alerts.summary"
}

// ForecastSubject returns the per-method forecast subject for a prefix
func ForecastSubject(prefix, method string) string {
	return prefix + ".forecasts." + method
}

// BundleSubject returns the inbound evaluation-bundle subject for a prefix
func BundleSubject(prefix string) string {
	return prefix + ".bundles"
}

// Notifier routes finished evaluations onto the queue, one subject per
// severity, gated by a configurable minimum severity.
type Notifier struct {
	publisher   queue.Publisher
	logger      *logging.Logger
	prefix      string
	minSeverity alert.Severity
	threshold   int
}

// New creates a Notifier over the given publisher. Alerts below the
// config's minimum severity are silently skipped.
func New(publisher queue.Publisher, cfg config.NotifyConfig, logger *logging.Logger) (*Notifier, error) {
	if logger == nil {
		logger = logging.Global()
	}

	minSeverity := alert.SeverityLow
	if cfg.MinSeverity != "" {
		parsed, err := alert.ParseSeverity(cfg.MinSeverity)
		if err != nil {
			return nil, fmt.Errorf("notify config: %w", err)
		}
		minSeverity = parsed
	}

	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}

	return &Notifier{
		publisher:   publisher,
		logger:      logger,
		prefix:      prefix,
		minSeverity: minSeverity,
		threshold:   cfg.CompressThreshold,
	}, nil
}

// PublishAlert dispatches a single alert when it clears the severity gate
func (n *Notifier) PublishAlert(ctx context.Context, a alert.Alert) error {
	if !a.Severity.AtLeast(n.minSeverity) {
		return nil
	}

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	payload, err := Encode(data, n.threshold)
	if err != nil {
		return err
	}

	subject := AlertSubject(n.prefix, a.Severity)
	if err := n.publishWithRetry(ctx, subject, payload); err != nil {
		return fmt.Errorf("publish alert %s: %w", a.ID, err)
	}

	n.logger.Debug("Alert published",
		"subject", subject,
		"alert_id", a.ID,
		"severity", string(a.Severity))
	return nil
}

// PublishAlerts batch-publishes every alert that clears the severity gate
// and returns the number actually dispatched. Alerts that fail to serialize
// are skipped, not fatal.
func (n *Notifier) PublishAlerts(ctx context.Context, alerts []alert.Alert) (int, error) {
	messages := make([]queue.BatchMessage, 0, len(alerts))
	for _, a := range alerts {
		if !a.Severity.AtLeast(n.minSeverity) {
			continue
		}

		data, err := json.Marshal(a)
		if err != nil {
			n.logger.Warn("Failed to serialize alert", "alert_id", a.ID, "error", err)
			continue
		}

		payload, err := Encode(data, n.threshold)
		if err != nil {
			n.logger.Warn("Failed to encode alert", "alert_id", a.ID, "error", err)
			continue
		}

		messages = append(messages, queue.BatchMessage{
			Subject: AlertSubject(n.prefix, a.Severity),
			Data:    payload,
		})
	}

	if len(messages) == 0 {
		return 0, nil
	}

	count, err := n.publisher.PublishBatch(ctx, messages)
	if err != nil {
		return count, fmt.Errorf("publish alerts: %w", err)
	}

	n.logger.Info("Alerts published",
		"total", len(alerts),
		"dispatched", count,
		"skipped", len(alerts)-len(messages))
	return count, nil
}

// PublishSummary dispatches an evaluation summary. The severity gate does
// not apply; summaries always go out.
func (n *Notifier) PublishSummary(ctx context.Context, summary alert.Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	payload, err := Encode(data, n.threshold)
	if err != nil {
		return err
	}

	subject := SummarySubject(n.prefix)
	if err := n.publishWithRetry(ctx, subject, payload); err != nil {
		return fmt.Errorf("publish summary: %w", err)
	}

	n.logger.Info("Summary published",
		"subject", subject,
		"alerts", len(summary.Alerts),
		"trend", summary.Trend)
	return nil
}

// PublishForecast dispatches a forecast result under its method subject
func (n *Notifier) PublishForecast(ctx context.Context, result *forecast.Result) error {
	if result == nil {
		return fmt.Errorf("nil forecast result")
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal forecast: %w", err)
	}

	payload, err := Encode(data, n.threshold)
	if err != nil {
		return err
	}

	subject := ForecastSubject(n.prefix, result.Method)
	if err := n.publishWithRetry(ctx, subject, payload); err != nil {
		return fmt.Errorf("publish forecast: %w", err)
	}

	n.logger.Debug("Forecast published",
		"subject", subject,
		"method", result.Method,
		"periods", len(result.Forecasts))
	return nil
}

// publishWithRetry retries transient publish failures with exponential
// backoff capped at utils.MaxRetryBackoff
func (n *Notifier) publishWithRetry(ctx context.Context, subject string, data []byte) error {
	backoff := utils.DefaultRetryBackoff

	var err error
	for attempt := 0; attempt < utils.DefaultMaxRetries; attempt++ {
		if err = n.publisher.Publish(ctx, subject, data); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		time.Sleep(backoff)
		backoff *= 2
		if backoff > utils.MaxRetryBackoff {
			backoff = utils.MaxRetryBackoff
		}
	}
	return err
}
