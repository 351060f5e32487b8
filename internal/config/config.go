package config

import (
	"fmt"
)

// Config is the complete application configuration.
type Config struct {
	Queue     QueueConfig     `mapstructure:"queue"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Forecast  ForecastConfig  `mapstructure:"forecast"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Reporting ReportingConfig `mapstructure:"reporting"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// QueueConfig selects and parameterizes the message queue backend.
type QueueConfig struct {
	Type     string `mapstructure:"type"`     // nats (default), redis, kafka, memory
	URL      string `mapstructure:"url"`      // server URL, e.g. nats://localhost:4222
	Username string `mapstructure:"username"` // optional authentication
	Password string `mapstructure:"password"` // optional authentication

	// Redis backend only
	RedisDB       int    `mapstructure:"redis_db"`       // database number, default 0
	RedisStream   string `mapstructure:"redis_stream"`   // stream key prefix, default "fincast"
	RedisGroup    string `mapstructure:"redis_group"`    // consumer group, default "fincast-group"
	RedisConsumer string `mapstructure:"redis_consumer"` // consumer name, default hostname

	// Kafka backend only
	KafkaBrokers []string `mapstructure:"kafka_brokers"`  // broker addresses; falls back to url
	KafkaGroupID string   `mapstructure:"kafka_group_id"` // consumer group ID
}

// NotifyConfig controls publishing of evaluation results.
type NotifyConfig struct {
	Enabled           bool   `mapstructure:"enabled"`            // publish alerts, summaries and forecasts
	SubjectPrefix     string `mapstructure:"subject_prefix"`     // leading subject token, default "fincast"
	MinSeverity       string `mapstructure:"min_severity"`       // lowest severity worth publishing: low, medium, high, critical
	CompressThreshold int    `mapstructure:"compress_threshold"` // compress payloads above this many bytes, 0 disables
}

// ForecastConfig holds the forecasting defaults applied to requests
// that leave a parameter unset.
type ForecastConfig struct {
	Method      string  `mapstructure:"method"`      // default forecasting method
	Horizon     int     `mapstructure:"horizon"`     // future periods to project
	Alpha       float64 `mapstructure:"alpha"`       // exponential smoothing factor
	WindowSize  int     `mapstructure:"window_size"` // moving average window
	Simulations int     `mapstructure:"simulations"` // Monte Carlo path count
}

// AlertsConfig holds the alert rule trigger levels.
type AlertsConfig struct {
	BudgetWarningPercent  float64 `mapstructure:"budget_warning_percent"`  // budget overrun warning level
	BudgetCriticalPercent float64 `mapstructure:"budget_critical_percent"` // budget overrun critical level
	RevenueDropPercent    float64 `mapstructure:"revenue_drop_percent"`    // period-over-period revenue change trigger
	CostIncreasePercent   float64 `mapstructure:"cost_increase_percent"`   // category cost growth trigger
	MinCashFlow           float64 `mapstructure:"min_cash_flow"`           // net cash flow floor
	MarginDropPoints      float64 `mapstructure:"margin_drop_points"`      // margin change trigger, in points
	OutlierStdDevs        float64 `mapstructure:"outlier_std_devs"`        // transaction outlier distance, in standard deviations
}

// ReportingConfig holds period and timezone settings for report labels.
type ReportingConfig struct {
	Timezone string `mapstructure:"timezone"` // IANA name or fixed offset, e.g. "Asia/Tokyo", "+09:00"
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // minimum level: debug, info, warn, error
	Format     string `mapstructure:"format"`      // json for machines, console for humans
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or a file path
	TimeFormat string `mapstructure:"time_format"` // console timestamp format: RFC3339, Unix, Kitchen
}

// Validate checks every section and reports the first failure with its
// section name attached.
func (c *Config) Validate() error {
	sections := []struct {
		name  string
		check func() error
	}{
		{"queue", c.Queue.Validate},
		{"notify", c.Notify.Validate},
		{"forecast", c.Forecast.Validate},
		{"alerts", c.Alerts.Validate},
		{"logging", c.Logging.Validate},
	}

	for _, s := range sections {
		if err := s.check(); err != nil {
			return fmt.Errorf("%s config: %w", s.name, err)
		}
	}
	return nil
}

// Validate checks the queue section. The memory backend needs no URL;
// Kafka accepts either a broker list or the generic URL.
func (c *QueueConfig) Validate() error {
	switch c.Type {
	case "", "nats", "redis", "memory":
		if c.Type != "memory" && c.URL == "" {
			return fmt.Errorf("queue.url is required for type %q", c.Type)
		}
	case "kafka":
		if len(c.KafkaBrokers) == 0 && c.URL == "" {
			return fmt.Errorf("queue.kafka_brokers is required for type kafka")
		}
	default:
		return fmt.Errorf("queue.type must be one of: nats, redis, kafka, memory")
	}

	return nil
}

// Validate checks the notify section. A disabled section is left alone
// so unused settings cannot block startup.
func (c *NotifyConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.SubjectPrefix == "" {
		return fmt.Errorf("notify.subject_prefix is required")
	}

	switch c.MinSeverity {
	case "low", "medium", "high", "critical":
	default:
		return fmt.Errorf("notify.min_severity must be one of: low, medium, high, critical")
	}

	if c.CompressThreshold < 0 {
		return fmt.Errorf("notify.compress_threshold cannot be negative")
	}

	return nil
}

// Validate checks the forecast defaults.
func (c *ForecastConfig) Validate() error {
	if c.Method == "" {
		return fmt.Errorf("forecast.method is required")
	}
	if c.Horizon < 1 {
		return fmt.Errorf("forecast.horizon must be at least 1")
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		return fmt.Errorf("forecast.alpha must be between 0 and 1")
	}
	if c.WindowSize < 1 {
		return fmt.Errorf("forecast.window_size must be at least 1")
	}
	if c.Simulations < 1 {
		return fmt.Errorf("forecast.simulations must be at least 1")
	}
	return nil
}

// Validate checks the alert thresholds for internal consistency.
func (c *AlertsConfig) Validate() error {
	if c.BudgetWarningPercent < 0 {
		return fmt.Errorf("alerts.budget_warning_percent cannot be negative")
	}
	if c.BudgetCriticalPercent < c.BudgetWarningPercent {
		return fmt.Errorf("alerts.budget_critical_percent cannot be below alerts.budget_warning_percent")
	}
	if c.OutlierStdDevs <= 0 {
		return fmt.Errorf("alerts.outlier_std_devs must be positive")
	}
	return nil
}

// Validate checks the logging section.
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Level)
	}

	switch c.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q is not json or console", c.Format)
	}

	return nil
}
