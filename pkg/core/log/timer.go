// File: timer.go
// Title: Operation Timer
// Description: Measures how long an operation took and logs it on Stop.
// Created: 2026-10-17

package log

import (
	"time"
)

// Timer measures the duration of an operation
type Timer struct {
	logger    *Logger
	operation string
	startTime time.Time
	fields    Fields
	level     Level
	stopped   bool
}

// NewTimer creates a new timer for the given operation
func NewTimer(logger *Logger, operation string) *Timer {
	return &Timer{
		logger:    logger,
		operation: operation,
		startTime: time.Now(),
		fields:    make(Fields),
		level:     LevelDebug,
	}
}

// WithLevel sets the log level for the completion message
func (t *Timer) WithLevel(level Level) *Timer {
	t.level = level
	return t
}

// WithField adds a field to be logged when the timer completes
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Elapsed returns the elapsed time since the timer was started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.startTime)
}

// Stop stops the timer and logs the elapsed time. A second call returns 0.
func (t *Timer) Stop() time.Duration {
	if t.stopped {
		return 0
	}
	t.stopped = true
	elapsed := t.Elapsed()

	if t.logger != nil {
		t.fields["operation"] = t.operation
		t.logger.logDuration(t.level, t.operation+" completed", elapsed, t.fields)
	}
	return elapsed
}

func (l *Logger) logDuration(level Level, message string, d time.Duration, fields Fields) {
	if !l.IsLevelEnabled(level) {
		return
	}
	l.mutex.RLock()
	entry := NewEntry(level, message).WithDuration(d)
	entry.Logger = l.name
	entry.RequestID = l.requestID
	entry.WithFields(l.contextFields).WithFields(fields)
	formatter, output, writeMu := l.formatter, l.output, l.writeMu
	l.mutex.RUnlock()

	if formatted, err := formatter.Format(entry); err == nil {
		writeMu.Lock()
		_, _ = output.Write(formatted)
		writeMu.Unlock()
	}
}
