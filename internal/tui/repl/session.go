// ============================================================================
// microscheme - S-expression front end
// ============================================================================
//
// Package:     repl
// Description: Line evaluation and history shared by the interactive and
//              the plain REPL
// Created:     2026-10-17
// License:     MIT
// ============================================================================

package repl

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/msto63/microscheme/internal/compiler"
	"github.com/msto63/microscheme/internal/history"
	"github.com/msto63/microscheme/pkg/core/logging"
)

// Fixed REPL output
const (
	MsgBye         = "Bye!"
	MsgInterrupted = "CTRL-C"
	MsgEOF         = "CTRL-D"
	MsgNoHistory   = "No previous history."
)

const storeTimeout = 2 * time.Second

// Config configures a REPL session
type Config struct {
	Prompt      string
	ExitCommand string

	// Name labels diagnostics, "repl" by default
	Name string

	Report       compiler.ReportOptions
	Store        history.Store
	HistoryLimit int

	Compiler *compiler.Compiler
	Logger   *logging.Logger
}

// Session evaluates REPL lines. It is not safe for concurrent use.
type Session struct {
	cfg Config
}

// NewSession fills in defaults for cfg
func NewSession(cfg Config) *Session {
	if cfg.Prompt == "" {
		cfg.Prompt = ">> "
	}
	if cfg.ExitCommand == "" {
		cfg.ExitCommand = "exit"
	}
	if cfg.Name == "" {
		cfg.Name = "repl"
	}
	if cfg.Store == nil {
		cfg.Store = history.NewMemoryStore(cfg.HistoryLimit, "")
	}
	if cfg.Compiler == nil {
		cfg.Compiler = compiler.New(compiler.Options{})
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New("repl")
	}
	return &Session{cfg: cfg}
}

// Prompt returns the configured prompt
func (s *Session) Prompt() string { return s.cfg.Prompt }

// LoadHistory returns previously entered lines, oldest first
func (s *Session) LoadHistory(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	lines, err := s.cfg.Store.Recent(ctx, s.cfg.HistoryLimit)
	if err != nil {
		s.cfg.Logger.Warn("failed to load history", "error", err)
		return nil, err
	}
	return lines, nil
}

// Outcome is the result of evaluating one line
type Outcome struct {
	Output string
	Quit   bool
}

// Eval records line in history and compiles it. The exit command ends the
// session with MsgBye; a blank line produces no output.
func (s *Session) Eval(ctx context.Context, line string) Outcome {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Outcome{}
	}

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	if err := s.cfg.Store.Add(storeCtx, line); err != nil {
		s.cfg.Logger.Warn("failed to save history", "error", err)
	}
	cancel()

	if trimmed == s.cfg.ExitCommand {
		return Outcome{Output: MsgBye + "\n", Quit: true}
	}

	res := s.cfg.Compiler.Compile(line)
	var buf bytes.Buffer
	if err := compiler.Report(&buf, s.cfg.Name, res, s.cfg.Report); err != nil {
		s.cfg.Logger.Error("failed to render report", "error", err)
	}
	return Outcome{Output: buf.String()}
}

// Close releases the history store
func (s *Session) Close() error {
	return s.cfg.Store.Close()
}
