package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fincast/fincast/internal/config"
	"github.com/fincast/fincast/internal/logging"
	"github.com/fincast/fincast/internal/notify"
	"github.com/fincast/fincast/internal/queue"
	"github.com/fincast/fincast/internal/services"
	"github.com/fincast/fincast/internal/utils"
)

// Build metadata, stamped by the linker.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)

	logger.Info("Alert daemon starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	// The context ends on SIGINT or SIGTERM; everything downstream
	// hangs off it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	q, err := queue.NewQueue(cfg.Queue)
	if err != nil {
		logger.Fatal("Failed to connect to queue", "error", err)
	}
	defer func() { _ = q.Close() }()
	logger.Info("Connected to queue", "type", cfg.Queue.Type, "url", cfg.Queue.URL)

	var notifier *notify.Notifier
	if cfg.Notify.Enabled {
		notifier, err = notify.New(q, cfg.Notify, logger)
		if err != nil {
			logger.Fatal("Failed to create notifier", "error", err)
		}
		logger.Info("Result publishing enabled",
			"min_severity", cfg.Notify.MinSeverity,
			"compress_threshold", cfg.Notify.CompressThreshold)
	} else {
		logger.Info("Result publishing disabled")
	}

	alertService := services.NewAlertService(logger, services.ThresholdsFromConfig(cfg.Alerts), notifier)

	prefix := cfg.Notify.SubjectPrefix
	if prefix == "" {
		prefix = notify.DefaultSubjectPrefix
	}
	subject := notify.BundleSubject(prefix)

	handler := func(data []byte) error {
		evalCtx, evalCancel := context.WithTimeout(ctx, utils.EvaluationTimeout)
		defer evalCancel()

		return logging.Job(evalCtx, logger, "evaluate-bundle", func(jobCtx context.Context) error {
			_, err := alertService.EvaluateRaw(jobCtx, data)
			return err
		})
	}

	if err := q.Subscribe(subject, handler); err != nil {
		logger.Fatal("Failed to subscribe", "subject", subject, "error", err)
	}

	logger.Info("Alert daemon started successfully",
		"subject", subject,
		"queue_type", cfg.Queue.Type,
		"queue_url", cfg.Queue.URL,
		"publishing", cfg.Notify.Enabled)

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	// Give in-flight evaluations a moment before the queue connection
	// drops out from under them.
	time.Sleep(utils.ShutdownTimeout)
	logger.Info("Alert daemon stopped")
}
