package logging

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Job runs a named unit of work with a fresh job ID attached to the
// context. The outcome is logged either way; the error comes back so
// queue handlers can reject the message.
func Job(ctx context.Context, logger *Logger, name string, fn func(ctx context.Context) error) error {
	jobID := uuid.New().String()

	ctx = WithJobID(ctx, jobID)
	ctx = WithLogger(ctx, logger)

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	jobLogger := logger.With("job", name, "job_id", jobID, "duration_ms", elapsed.Milliseconds())
	if err != nil {
		jobLogger.Error("Job failed", "error", err)
		return err
	}

	jobLogger.Info("Job completed")
	return nil
}
