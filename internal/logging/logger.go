// Package logging provides structured logging for barcore built on
// log/slog.
//
// Every module logs through a Logger scoped to its own component name
// (e.g. "module/date"), so one bar process produces a single stream
// that can still be filtered per segment. Output is text by default and
// JSON when requested via configuration.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Level represents a log level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel converts a level name to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is the structured logging interface used throughout barcore.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(err error, msg string, fields ...interface{})

	With(fields ...interface{}) Logger
	WithComponent(component string) Logger
}

// Config holds logger configuration.
type Config struct {
	Level  Level
	Format string // "json" or "text"
	Output io.Writer
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:  LevelInfo,
		Format: "text",
		Output: os.Stderr,
	}
}

// BarLogger implements Logger on top of slog.
type BarLogger struct {
	logger    *slog.Logger
	level     Level
	component string
	fields    map[string]interface{}
}

// NewLogger creates a new structured logger.
func NewLogger(config *Config) *BarLogger {
	if config == nil {
		config = DefaultConfig()
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel(config.Level),
	}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(config.Output, opts)
	} else {
		handler = slog.NewTextHandler(config.Output, opts)
	}

	return &BarLogger{
		logger: slog.New(handler),
		level:  config.Level,
		fields: make(map[string]interface{}),
	}
}

// Debug logs a debug message.
func (l *BarLogger) Debug(msg string, fields ...interface{}) {
	if l.level > LevelDebug {
		return
	}
	l.log(slog.LevelDebug, nil, msg, fields...)
}

// Info logs an info message.
func (l *BarLogger) Info(msg string, fields ...interface{}) {
	if l.level > LevelInfo {
		return
	}
	l.log(slog.LevelInfo, nil, msg, fields...)
}

// Warn logs a warning message.
func (l *BarLogger) Warn(msg string, fields ...interface{}) {
	if l.level > LevelWarn {
		return
	}
	l.log(slog.LevelWarn, nil, msg, fields...)
}

// Error logs an error message with an optional underlying error.
func (l *BarLogger) Error(err error, msg string, fields ...interface{}) {
	l.log(slog.LevelError, err, msg, fields...)
}

// With creates a new logger carrying additional persistent fields.
func (l *BarLogger) With(fields ...interface{}) Logger {
	newFields := make(map[string]interface{}, len(l.fields)+len(fields)/2)
	for k, v := range l.fields {
		newFields[k] = v
	}
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			newFields[key] = fields[i+1]
		}
	}

	return &BarLogger{
		logger:    l.logger,
		level:     l.level,
		component: l.component,
		fields:    newFields,
	}
}

// WithComponent creates a new logger scoped to a component name.
func (l *BarLogger) WithComponent(component string) Logger {
	return &BarLogger{
		logger:    l.logger,
		level:     l.level,
		component: component,
		fields:    l.fields,
	}
}

func (l *BarLogger) log(level slog.Level, err error, msg string, fields ...interface{}) {
	attrs := make([]slog.Attr, 0, len(l.fields)+len(fields)/2+2)

	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	for k, v := range l.fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			attrs = append(attrs, slog.Any(key, fields[i+1]))
		}
	}

	record := slog.NewRecord(time.Now(), level, msg, 0)
	record.AddAttrs(attrs...)

	_ = l.logger.Handler().Handle(context.Background(), record)
}

func slogLevel(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Nop returns a logger that discards everything, for tests.
func Nop() Logger {
	return NewLogger(&Config{Level: LevelError, Format: "text", Output: io.Discard})
}
