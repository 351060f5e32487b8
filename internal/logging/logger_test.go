package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fincast/fincast/internal/config"
)

// logLines parses each JSON event the logger wrote to buf.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var docs []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(line), &doc); err != nil {
			t.Fatalf("log output is not JSON: %v\n%s", err, line)
		}
		docs = append(docs, doc)
	}
	return docs
}

func TestLogger_ErrorValuesFlattenToMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	logger.Error("Publish failed", "error", errors.New("queue unavailable"), "subject", "fincast.alerts.high")

	docs := logLines(t, &buf)
	if len(docs) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(docs))
	}
	if docs[0]["error"] != "queue unavailable" {
		t.Errorf("error field = %v, want flattened message", docs[0]["error"])
	}
	if docs[0]["subject"] != "fincast.alerts.high" {
		t.Errorf("subject field = %v", docs[0]["subject"])
	}
}

func TestLogger_WithCarriesFieldsOnEveryEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel).With("component", "notifier")

	logger.Info("Alerts published", "count", 3)
	logger.Info("Summary published")

	docs := logLines(t, &buf)
	if len(docs) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(docs))
	}
	for i, doc := range docs {
		if doc["component"] != "notifier" {
			t.Errorf("event %d missing inherited component field: %v", i, doc)
		}
	}
}

func TestLogger_DanglingKeyIsDropped(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	logger.Info("odd fields", "count", 3, "orphan")

	docs := logLines(t, &buf)
	if _, present := docs[0]["orphan"]; present {
		t.Error("Dangling key must not become a field")
	}
	if docs[0]["count"] != float64(3) {
		t.Errorf("count field = %v", docs[0]["count"])
	}
}

func TestLogger_WithContextTagsJobID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	ctx := WithJobID(context.Background(), "8f14e45f-evaluate")
	logger.WithContext(ctx).Info("Evaluation completed")

	docs := logLines(t, &buf)
	if docs[0]["job_id"] != "8f14e45f-evaluate" {
		t.Errorf("job_id = %v", docs[0]["job_id"])
	}

	// Without a job ID the logger comes back untouched.
	buf.Reset()
	logger.WithContext(context.Background()).Info("bare")
	docs = logLines(t, &buf)
	if _, present := docs[0]["job_id"]; present {
		t.Error("Unexpected job_id on untagged context")
	}
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	if FromContext(context.Background()) != Global() {
		t.Error("Empty context should yield the global logger")
	}

	logger := NewWithWriter(&bytes.Buffer{}, zerolog.InfoLevel)
	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Error("Context logger not returned")
	}
}

func TestJob_LogsOutcomeAndPropagatesContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	var seenJobID string
	err := Job(context.Background(), logger, "evaluate-bundle", func(ctx context.Context) error {
		seenJobID = JobID(ctx)
		return nil
	})
	if err != nil {
		t.Fatalf("Job returned error: %v", err)
	}
	if seenJobID == "" {
		t.Error("Job must attach a job ID to the context")
	}

	docs := logLines(t, &buf)
	if len(docs) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(docs))
	}
	if docs[0]["message"] != "Job completed" {
		t.Errorf("message = %v", docs[0]["message"])
	}
	if docs[0]["job"] != "evaluate-bundle" {
		t.Errorf("job = %v", docs[0]["job"])
	}
	if docs[0]["job_id"] != seenJobID {
		t.Errorf("job_id = %v, want %s", docs[0]["job_id"], seenJobID)
	}
	if _, present := docs[0]["duration_ms"]; !present {
		t.Error("Missing duration_ms field")
	}
}

func TestJob_FailureReturnsError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	boom := errors.New("bundle malformed")
	err := Job(context.Background(), logger, "evaluate-bundle", func(ctx context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected the handler error back, got %v", err)
	}

	docs := logLines(t, &buf)
	if docs[0]["message"] != "Job failed" {
		t.Errorf("message = %v", docs[0]["message"])
	}
	if docs[0]["error"] != "bundle malformed" {
		t.Errorf("error = %v", docs[0]["error"])
	}
}

func TestNewFromConfig_LevelFallback(t *testing.T) {
	logger, err := NewFromConfig(config.LoggingConfig{Level: "verbose"})
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	if logger.zl.GetLevel() != zerolog.InfoLevel {
		t.Errorf("Unknown level should fall back to info, got %s", logger.zl.GetLevel())
	}
}

func TestNewFromConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fincast.log")

	logger, err := NewFromConfig(config.LoggingConfig{Level: "info", OutputPath: path})
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}

	logger.Info("Alert daemon starting...")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Log file not created: %v", err)
	}
	if !strings.Contains(string(data), "Alert daemon starting") {
		t.Errorf("Log file missing event: %s", data)
	}
}
