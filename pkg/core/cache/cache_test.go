package cache

import (
	"errors"
	"testing"
	"time"
)

// fakeClock lets tests move time forward
type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(cfg Config) (*Cache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)}
	c := New[string](cfg)
	c.now = clock.now
	return c, clock
}

func TestCache_GetSet(t *testing.T) {
	c, _ := newTestCache(Config{MaxItems: 4})

	if _, ok := c.Get("a"); ok {
		t.Fatal("Get() on empty cache reported a hit")
	}
	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("Get() = %q, %v, want 1, true", v, ok)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Size != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
	if got := stats.HitRate(); got != 50 {
		t.Errorf("HitRate() = %v, want 50", got)
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Get() after Delete reported a hit")
	}
}

func TestCache_TTL(t *testing.T) {
	c, clock := newTestCache(Config{MaxItems: 4, TTL: time.Minute})

	c.Set("a", "1")
	clock.advance(30 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("entry expired early")
	}
	clock.advance(31 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Fatal("entry outlived its TTL")
	}
	if c.Stats().Size != 0 {
		t.Error("expired entry was not removed on Get")
	}
}

func TestCache_Eviction(t *testing.T) {
	tests := []struct {
		name    string
		ttl     time.Duration
		advance time.Duration
		gone    string
	}{
		{"oldest without expiry", 0, time.Second, "a"},
		{"expired entries first", 90 * time.Second, 60 * time.Second, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clock := newTestCache(Config{MaxItems: 2, TTL: tt.ttl})
			c.Set("a", "1")
			clock.advance(tt.advance)
			c.Set("b", "2")
			clock.advance(tt.advance)
			c.Set("c", "3")

			if got := c.Stats().Size; got != 2 {
				t.Fatalf("Size = %d, want 2", got)
			}
			if _, ok := c.Get(tt.gone); ok {
				t.Errorf("%q should have been evicted", tt.gone)
			}
			if _, ok := c.Get("c"); !ok {
				t.Error("newest entry missing")
			}
		})
	}
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	c, _ := newTestCache(Config{MaxItems: 2})
	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("a", "3")

	if v, _ := c.Get("a"); v != "3" {
		t.Errorf("Get(a) = %q, want 3", v)
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("overwrite evicted another entry")
	}
}

func TestCache_GetOrSet(t *testing.T) {
	c, _ := newTestCache(Config{MaxItems: 4})
	calls := 0
	fn := func() (string, error) {
		calls++
		return "v", nil
	}

	for i := 0; i < 3; i++ {
		if v, err := c.GetOrSet("k", fn); err != nil || v != "v" {
			t.Fatalf("GetOrSet() = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrSet("bad", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("GetOrSet() error = %v, want boom", err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed result was cached")
	}
}

func TestCache_PruneAndClear(t *testing.T) {
	c, clock := newTestCache(Config{MaxItems: 4, TTL: time.Minute})
	c.Set("a", "1")
	c.Set("b", "2")
	clock.advance(2 * time.Minute)
	c.Set("c", "3")

	if got := c.Prune(); got != 2 {
		t.Errorf("Prune() = %d, want 2", got)
	}
	c.Clear()
	if got := c.Stats().Size; got != 0 {
		t.Errorf("Size after Clear = %d", got)
	}
}

func TestKey(t *testing.T) {
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("Key() ignores part boundaries")
	}
	if Key("x", "y") != Key("x", "y") {
		t.Error("Key() is not deterministic")
	}
	if got := len(Key("x")); got != 64 {
		t.Errorf("len(Key()) = %d, want 64", got)
	}
}
