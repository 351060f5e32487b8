package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger behind a variadic key-value API. Fields
// attached through With live in the underlying zerolog context, so they
// are serialized once per child logger rather than once per event.
type Logger struct {
	zl zerolog.Logger
}

var global = NewDevelopment()

func newLogger(w io.Writer, level zerolog.Level) *Logger {
	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// NewProduction returns a JSON logger at info level writing to stdout.
func NewProduction() *Logger {
	return newLogger(os.Stdout, zerolog.InfoLevel)
}

// NewDevelopment returns a console logger at debug level. Tests and the
// global fallback use it.
func NewDevelopment() *Logger {
	return newLogger(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}, zerolog.DebugLevel)
}

// NewWithWriter returns a JSON logger writing to w. The CLI tools use it
// to keep diagnostics on stderr while results go to stdout.
func NewWithWriter(w io.Writer, level zerolog.Level) *Logger {
	return newLogger(w, level)
}

// SetGlobal replaces the process-wide fallback logger.
func SetGlobal(logger *Logger) {
	global = logger
}

// Global returns the process-wide fallback logger.
func Global() *Logger {
	return global
}

// emit writes one event from alternating key-value pairs. A trailing key
// without a value is dropped. Error values under the "error" key are
// flattened to their message so log output stays a plain string field.
func (l *Logger) emit(e *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		if key == "error" {
			if err, ok := fields[i+1].(error); ok {
				e.Str("error", err.Error())
				continue
			}
		}
		e.Interface(key, fields[i+1])
	}
	e.Msg(msg)
}

func (l *Logger) Debug(msg string, fields ...any) {
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...any) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...any) {
	l.emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...any) {
	l.emit(l.zl.Error(), msg, fields)
}

// Fatal logs the message and exits the process.
func (l *Logger) Fatal(msg string, fields ...any) {
	l.emit(l.zl.Fatal(), msg, fields)
}

// With returns a child logger that carries the given key-value pairs on
// every event.
func (l *Logger) With(fields ...any) *Logger {
	zc := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		if key == "error" {
			if err, ok := fields[i+1].(error); ok {
				zc = zc.Str("error", err.Error())
				continue
			}
		}
		zc = zc.Interface(key, fields[i+1])
	}
	return &Logger{zl: zc.Logger()}
}
