package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads the configuration file, layers FINCAST_* environment
// variables over it, and validates the result. With an empty path the
// usual locations are searched; a missing file there just means
// defaults. An explicit path that cannot be read is an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FINCAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, dir := range []string{".", "./configs", "./config", "/etc/fincast"} {
			v.AddConfigPath(dir)
		}
	}

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads the configuration, swallowing any failure in
// favor of the built-in defaults.
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	// Queue defaults
	v.SetDefault("queue.type", "nats")
	v.SetDefault("queue.url", "nats://localhost:4222")
	v.SetDefault("queue.redis_stream", "fincast")
	v.SetDefault("queue.redis_group", "fincast-group")

	// Notify defaults
	v.SetDefault("notify.enabled", true)
	v.SetDefault("notify.subject_prefix", "fincast")
	v.SetDefault("notify.min_severity", "medium")
	v.SetDefault("notify.compress_threshold", 1024)

	// Forecast defaults
	v.SetDefault("forecast.method", "linear_regression")
	v.SetDefault("forecast.horizon", 12)
	v.SetDefault("forecast.alpha", 0.3)
	v.SetDefault("forecast.window_size", 3)
	v.SetDefault("forecast.simulations", 1000)

	// Alert threshold defaults
	v.SetDefault("alerts.budget_warning_percent", 10)
	v.SetDefault("alerts.budget_critical_percent", 20)
	v.SetDefault("alerts.revenue_drop_percent", -10)
	v.SetDefault("alerts.cost_increase_percent", 15)
	v.SetDefault("alerts.min_cash_flow", 0)
	v.SetDefault("alerts.margin_drop_points", -5)
	v.SetDefault("alerts.outlier_std_devs", 2)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
}

// DefaultConfig returns the built-in configuration, matching what Load
// produces when no file and no environment overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Queue: QueueConfig{
			Type:        "nats",
			URL:         "nats://localhost:4222",
			RedisStream: "fincast",
			RedisGroup:  "fincast-group",
		},
		Notify: NotifyConfig{
			Enabled:           true,
			SubjectPrefix:     "fincast",
			MinSeverity:       "medium",
			CompressThreshold: 1024,
		},
		Forecast: ForecastConfig{
			Method:      "linear_regression",
			Horizon:     12,
			Alpha:       0.3,
			WindowSize:  3,
			Simulations: 1000,
		},
		Alerts: AlertsConfig{
			BudgetWarningPercent:  10,
			BudgetCriticalPercent: 20,
			RevenueDropPercent:    -10,
			CostIncreasePercent:   15,
			MinCashFlow:           0,
			MarginDropPoints:      -5,
			OutlierStdDevs:        2,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
