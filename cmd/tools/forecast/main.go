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
	input := flag.String("input", "", "Path to the series document JSON (default: stdin)")
	output := flag.String("output", "", "Path for the forecast JSON (default: stdout)")
	method := flag.String("method", "", "Forecasting method (linear_regression, exponential_smoothing, moving_average, seasonal, monte_carlo)")
	horizon := flag.Int("horizon", 0, "Number of future periods to project")
	alpha := flag.Float64("alpha", 0, "Smoothing factor for exponential smoothing (0-1)")
	window := flag.Int("window", 0, "Window size for moving average")
	simulations := flag.Int("simulations", 0, "Monte Carlo simulation count")
	seed := flag.Int64("seed", 0, "Random seed for reproducible Monte Carlo runs")
	publish := flag.Bool("publish", false, "Publish the result to the configured queue")

	flag.Parse()

	// Unset parameters fall back to the configured defaults
	cfg := config.LoadOrDefault(*configPath)

	// Logs go to stderr so piped JSON output stays clean
	logger := logging.NewWithWriter(os.Stderr, zerolog.WarnLevel)

	doc, err := readSeries(*input)
	if err != nil {
		log.Fatalf("Error reading series: %v", err)
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

	svc := services.NewForecastService(logger, cfg.Forecast, cfg.Reporting, notifier)

	ctx, cancel := context.WithTimeout(context.Background(), utils.ForecastTimeout)
	defer cancel()

	resp, err := svc.Run(ctx, &services.ForecastRequest{
		Series:      doc,
		Method:      *method,
		Horizon:     *horizon,
		Alpha:       *alpha,
		WindowSize:  *window,
		Simulations: *simulations,
		Seed:        *seed,
	})
	if err != nil {
		log.Fatalf("Error running forecast: %v", err)
	}

	if err := writeResponse(*output, resp); err != nil {
		log.Fatalf("Error writing forecast: %v", err)
	}
}

// readSeries loads a series document from the given path, or stdin when the
// path is empty or "-"
func readSeries(path string) (models.SeriesDocument, error) {
	var doc models.SeriesDocument

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
		return doc, fmt.Errorf("parse series document: %w", err)
	}
	return doc, nil
}

// writeResponse writes the forecast to the given path, or stdout when the
// path is empty
func writeResponse(path string, resp *services.ForecastResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
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
