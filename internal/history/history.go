// File: history.go
// Title: REPL History
// Description: Persistent line history for the interactive loop. Lines are
//              stored in SQLite; an empty path or "off" keeps them in memory.
// Created: 2026-10-17

package history

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one submitted REPL line
type Entry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Line      string    `json:"line"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists REPL lines
type Store interface {
	// Add appends line. Blank lines and a repeat of the previous line are
	// ignored.
	Add(ctx context.Context, line string) error

	// Recent returns up to limit lines, oldest first. limit <= 0 returns all.
	Recent(ctx context.Context, limit int) ([]string, error)

	// Entries returns up to limit entries, oldest first
	Entries(ctx context.Context, limit int) ([]Entry, error)

	Clear(ctx context.Context) error
	Close() error
}

// Config selects and sizes a store
type Config struct {
	// Path of the SQLite file; "" or "off" selects the memory store
	Path string

	// Limit caps stored lines; 0 means unlimited
	Limit int

	// SessionID tags new entries; generated when empty
	SessionID string
}

// Open returns the store described by cfg
func Open(cfg Config) (Store, error) {
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.New().String()
	}
	if cfg.Path == "" || strings.EqualFold(cfg.Path, "off") {
		return NewMemoryStore(cfg.Limit, cfg.SessionID), nil
	}
	return NewSQLiteStore(cfg)
}

func newEntry(session, line string) Entry {
	return Entry{
		ID:        uuid.New().String(),
		SessionID: session,
		Line:      line,
		CreatedAt: time.Now(),
	}
}

func skippable(line, previous string) bool {
	return strings.TrimSpace(line) == "" || line == previous
}
