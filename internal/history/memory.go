package history

import (
	"context"
	"sync"
)

// MemoryStore keeps history for the lifetime of the process
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	limit   int
	session string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(limit int, sessionID string) *MemoryStore {
	return &MemoryStore{limit: limit, session: sessionID}
}

func (m *MemoryStore) Add(_ context.Context, line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	previous := ""
	if n := len(m.entries); n > 0 {
		previous = m.entries[n-1].Line
	}
	if skippable(line, previous) {
		return nil
	}

	m.entries = append(m.entries, newEntry(m.session, line))
	if m.limit > 0 && len(m.entries) > m.limit {
		m.entries = append([]Entry(nil), m.entries[len(m.entries)-m.limit:]...)
	}
	return nil
}

func (m *MemoryStore) Recent(ctx context.Context, limit int) ([]string, error) {
	entries, _ := m.Entries(ctx, limit)
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Line
	}
	return lines, nil
}

func (m *MemoryStore) Entries(_ context.Context, limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	start := 0
	if limit > 0 && len(m.entries) > limit {
		start = len(m.entries) - limit
	}
	return append([]Entry(nil), m.entries[start:]...), nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	m.entries = nil
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }
