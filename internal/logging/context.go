package logging

import "context"

type ctxKey int

const (
	loggerCtxKey ctxKey = iota
	jobIDCtxKey
)

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// FromContext returns the context's logger, or the global fallback when
// the context carries none.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerCtxKey).(*Logger); ok {
		return logger
	}
	return global
}

// WithJobID tags the context with an evaluation job ID.
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, jobIDCtxKey, jobID)
}

// JobID returns the context's job ID, or "" when none is set.
func JobID(ctx context.Context) string {
	id, _ := ctx.Value(jobIDCtxKey).(string)
	return id
}

// WithContext returns a logger that emits the context's job ID on every
// event, so work done under one Job call lines up in the output.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if id := JobID(ctx); id != "" {
		return l.With("job_id", id)
	}
	return l
}
