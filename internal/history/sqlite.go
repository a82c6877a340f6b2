package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	mserror "github.com/msto63/microscheme/pkg/core/error"
)

// SQLiteStore keeps history in a SQLite database
type SQLiteStore struct {
	db      *sql.DB
	mu      sync.Mutex
	path    string
	limit   int
	session string
}

// NewSQLiteStore opens (and creates if needed) the database at cfg.Path
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, storeError(err, "failed to create history directory", "history.Open", cfg.Path)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, storeError(err, "failed to open history database", "history.Open", cfg.Path)
	}

	s := &SQLiteStore{db: db, path: cfg.Path, limit: cfg.Limit, session: cfg.SessionID}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, storeError(err, "failed to initialize history schema", "history.Open", cfg.Path)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		session_id TEXT NOT NULL,
		line TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_entries_session ON entries(session_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Path returns the database file
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Add(ctx context.Context, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var previous string
	err := s.db.QueryRowContext(ctx, `SELECT line FROM entries ORDER BY seq DESC LIMIT 1`).Scan(&previous)
	if err != nil && err != sql.ErrNoRows {
		return storeError(err, "failed to read history", "history.Add", s.path)
	}
	if skippable(line, previous) {
		return nil
	}

	e := newEntry(s.session, line)
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (id, session_id, line, created_at)
		VALUES (?, ?, ?, ?)
	`, e.ID, e.SessionID, e.Line, e.CreatedAt); err != nil {
		return storeError(err, "failed to add history entry", "history.Add", s.path)
	}

	if s.limit > 0 {
		if _, err := s.db.ExecContext(ctx, `
			DELETE FROM entries WHERE seq NOT IN (
				SELECT seq FROM entries ORDER BY seq DESC LIMIT ?
			)
		`, s.limit); err != nil {
			return storeError(err, "failed to prune history", "history.Add", s.path)
		}
	}
	return nil
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]string, error) {
	entries, err := s.Entries(ctx, limit)
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Line
	}
	return lines, nil
}

func (s *SQLiteStore) Entries(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, line, created_at FROM (
			SELECT seq, id, session_id, line, created_at
			FROM entries ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC
	`, limit)
	if err != nil {
		return nil, storeError(err, "failed to load history", "history.Entries", s.path)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Line, &e.CreatedAt); err != nil {
			return nil, storeError(err, "failed to scan history entry", "history.Entries", s.path)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, "failed to load history", "history.Entries", s.path)
	}
	return entries, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return storeError(err, "failed to clear history", "history.Clear", s.path)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func storeError(err error, msg, op, path string) error {
	return mserror.Wrap(err, msg).
		WithCode(mserror.CodeHistoryError).
		WithOperation(op).
		WithDetail("path", path)
}
