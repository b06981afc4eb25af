// Package log provides structured logging for classifier training and
// inference, backed by zerolog. It defines a minimal key/value logging
// interface plus standard attribute keys so that train/finalize/label
// operations emit analyzable, uniform log records.
package log

import (
	"context"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gomlkit/classify/pkg/errors"
)

// Logger is a minimal structured logging interface. Fields are alternating
// key/value pairs, as in log/slog.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If a field value is an error its message is logged under its key.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, value-compatible with slog.Level.
type Level int

// Standard logging levels.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch {
	case l <= LevelDebug:
		return zerolog.DebugLevel
	case l <= LevelInfo:
		return zerolog.InfoLevel
	case l <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = newZerologLogger(
		zerolog.New(os.Stderr).With().Timestamp().Logger(),
	)
)

func init() {
	// Route library warnings (ConvergenceWarning etc.) through zerolog.
	errors.SetZerologWarnFunc(func(warning error) {
		GetLogger().Warn("classifier warning", ErrAttrKey, warning)
	})
}

// GetLogger returns the default library logger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// GetLoggerWithName returns the default logger scoped to a component name.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(ComponentKey, name)
}

// SetLogger replaces the default library logger. Useful for tests and for
// routing output into an application's existing zerolog tree.
func SetLogger(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// SetLevel sets the minimum level emitted by the zerolog backend.
func SetLevel(level Level) {
	zerolog.SetGlobalLevel(level.zerolog())
}

// NewZerolog wraps an existing zerolog.Logger in the library's Logger
// interface.
func NewZerolog(zl zerolog.Logger) Logger {
	return newZerologLogger(zl)
}

type zerologLogger struct {
	zl zerolog.Logger
}

func newZerologLogger(zl zerolog.Logger) *zerologLogger {
	return &zerologLogger{zl: zl}
}

func (z *zerologLogger) Debug(msg string, fields ...any) {
	z.emit(z.zl.Debug(), msg, fields)
}

func (z *zerologLogger) Info(msg string, fields ...any) {
	z.emit(z.zl.Info(), msg, fields)
}

func (z *zerologLogger) Warn(msg string, fields ...any) {
	z.emit(z.zl.Warn(), msg, fields)
}

func (z *zerologLogger) Error(msg string, fields ...any) {
	z.emit(z.zl.Error(), msg, fields)
}

func (z *zerologLogger) With(fields ...any) Logger {
	ctx := z.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func (z *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return level.zerolog() >= z.zl.GetLevel()
}

func (z *zerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case zerolog.LogObjectMarshaler:
			e = e.Object(key, v)
		case error:
			e = e.AnErr(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(msg)
}
