package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/fincast/fincast/internal/analytics/alert"
	"github.com/fincast/fincast/internal/config"
	"github.com/fincast/fincast/internal/logging"
	"github.com/fincast/fincast/internal/models"
	"github.com/fincast/fincast/internal/notify"
	"github.com/fincast/fincast/internal/queue"
	"github.com/fincast/fincast/internal/services"
	"github.com/fincast/fincast/internal/utils"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	input := flag.String("input", "", "Path to the bundle document JSON (default: stdin)")
	output := flag.String("output", "", "Path for the evaluation summary JSON (default: stdout)")
	publish := flag.Bool("publish", false, "Publish alerts and summary to the configured queue")

	flag.Parse()

	// Thresholds come from the configured alert levels
	cfg := config.LoadOrDefault(*configPath)

	// Logs go to stderr so piped JSON output stays clean
	logger := logging.NewWithWriter(os.Stderr, zerolog.WarnLevel)

	doc, err := readBundle(*input)
	if err != nil {
		log.Fatalf("Error reading bundle: %v", err)
	}

	var notifier *notify.Notifier
	if *publish {
		q, err := queue.NewQueue(cfg.Queue)
		if err != nil {
			log.Fatalf("Error connecting to queue: %v", err)
		}
		defer func() { _ = q.Close() }()

		notifier, err = notify.New(q, cfg.Notify, logger)
		if err != nil {
			log.Fatalf("Error creating notifier: %v", err)
		}
	}

	svc := services.NewAlertService(logger, services.ThresholdsFromConfig(cfg.Alerts), notifier)

	ctx, cancel := context.WithTimeout(context.Background(), utils.EvaluationTimeout)
	defer cancel()

	summary, err := svc.Evaluate(ctx, doc)
	if err != nil {
		log.Fatalf("Error evaluating bundle: %v", err)
	}

	if err := writeSummary(*output, summary); err != nil {
		log.Fatalf("Error writing summary: %v", err)
	}
}

// readBundle loads a bundle document from the given path, or stdin when the
// path is empty or "-"
func readBundle(path string) (models.BundleDocument, error) {
	var doc models.BundleDocument

	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return doc, err
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse bundle document: %w", err)
	}
	return doc, nil
}

// writeSummary writes the evaluation summary to the given path, or stdout
// when the path is empty
func writeSummary(path string, summary *alert.Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
