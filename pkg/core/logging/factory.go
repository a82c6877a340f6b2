// ============================================================================
// microscheme - S-expression front end
// ============================================================================
//
// Package:     logging
// Description: Factory functions turning configuration into loggers, plus a
//              key/value wrapper for call sites that log loose pairs
// Created:     2026-10-17
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	mslog "github.com/msto63/microscheme/pkg/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Component name shown in every entry
	Name string

	// Level (trace, debug, info, warn, error)
	Level string

	// Format (console, text, json, logfmt)
	Format string

	// Output defaults to stderr so stdout stays clean for compiler output
	Output io.Writer

	// Additional outputs besides Output
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:   name,
		Level:  "warn",
		Format: "console",
	}
}

// NewLogger creates a logger from cfg. Unknown level or format strings fall
// back to warn and console.
func NewLogger(cfg LoggerConfig) *mslog.Logger {
	level, err := mslog.ParseLevel(cfg.Level)
	if err != nil {
		level = mslog.LevelWarn
	}
	format, err := mslog.ParseFormat(cfg.Format)
	if err != nil {
		format = mslog.FormatConsole
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		output = io.MultiWriter(append([]io.Writer{output}, cfg.AdditionalOutputs...)...)
	}

	return mslog.NewWithConfig(mslog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.Name,
	})
}

// NewServiceLogger creates an info-level JSON logger for the compile service
func NewServiceLogger(name string) *mslog.Logger {
	cfg := DefaultLoggerConfig(name)
	cfg.Level = "info"
	cfg.Format = "json"
	return NewLogger(cfg)
}

// Logger wraps the structured logger for key/value call sites
type Logger struct {
	*mslog.Logger
	name string
}

// New creates a key/value logger named name, derived from the default logger
func New(name string) *Logger {
	return &Logger{
		Logger: mslog.GetDefault().WithName(name),
		name:   name,
	}
}

// Wrap adapts an existing structured logger
func Wrap(logger *mslog.Logger, name string) *Logger {
	return &Logger{Logger: logger.WithName(name), name: name}
}

// Name returns the component name
func (l *Logger) Name() string {
	return l.name
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// toFields converts key-value pairs to log fields; a trailing odd key is dropped
func toFields(keysAndValues ...interface{}) mslog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mslog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
