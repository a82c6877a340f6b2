// Package log provides structured logging for microscheme.
//
// Package: log
// Title: microscheme Structured Logging
// Description: Leveled logger with JSON, text, console and logfmt output.
//              Loggers are immutable: every With* call returns a derived
//              logger sharing the parent's output.
//
// Usage:
//
//	logger := log.NewWithConfig(log.Config{
//		Level:  log.LevelDebug,
//		Format: log.FormatConsole,
//		Name:   "mscheme",
//	})
//	logger.Debug("parsed form", log.Fields{"index": 0, "kind": "list"})
//
//	timer := logger.StartTimer("compile")
//	defer timer.Stop()
package log
