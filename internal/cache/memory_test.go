package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestMemory(ttl time.Duration, maxEntries int) (*Memory, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(ttl, maxEntries)
	m.now = clock.Now
	return m, clock
}

func (c *Memory) size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(time.Minute, 0)

	if _, err := m.Get(ctx, "missing"); !errors.Is(err, ErrMiss) {
		t.Fatalf("Get(missing) error = %v, want ErrMiss", err)
	}

	value := []byte(`{"style":"casual"}`)
	if err := m.Set(ctx, "k", value); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Mutating the caller's slice must not affect the stored copy.
	value[0] = 'x'

	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"style":"casual"}` {
		t.Errorf("Get() = %s", got)
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestMemory(time.Minute, 0)

	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	clock.Advance(59 * time.Second)
	if _, err := m.Get(ctx, "k"); err != nil {
		t.Fatalf("Get() before expiry error = %v", err)
	}

	clock.Advance(2 * time.Second)
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("Get() after expiry error = %v, want ErrMiss", err)
	}
	if m.size() != 0 {
		t.Errorf("expired entry not removed, size = %d", m.size())
	}
}

func TestMemorySetSweepsExpired(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestMemory(time.Minute, 0)

	// Distinct keys that are never read again must not accumulate.
	for i := 0; i < 50; i++ {
		_ = m.Set(ctx, fmt.Sprintf("https://img.test/%d.png", i), []byte("x"))
	}
	if m.size() != 50 {
		t.Fatalf("size = %d, want 50", m.size())
	}

	clock.Advance(2 * time.Minute)
	_ = m.Set(ctx, "fresh", []byte("y"))

	if m.size() != 1 {
		t.Errorf("size after sweep = %d, want 1", m.size())
	}
	if _, err := m.Get(ctx, "fresh"); err != nil {
		t.Errorf("Get(fresh) error = %v", err)
	}
}

func TestMemoryMaxEntries(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestMemory(time.Hour, 3)

	for _, key := range []string{"a", "b", "c"} {
		_ = m.Set(ctx, key, []byte(key))
		clock.Advance(time.Second)
	}

	// Overwriting an existing key never evicts.
	_ = m.Set(ctx, "b", []byte("b2"))
	if m.size() != 3 {
		t.Fatalf("size = %d, want 3", m.size())
	}

	_ = m.Set(ctx, "d", []byte("d"))
	if m.size() != 3 {
		t.Errorf("size = %d, want 3", m.size())
	}
	if _, err := m.Get(ctx, "a"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get(a) error = %v, want the oldest entry evicted", err)
	}
	for _, key := range []string{"b", "c", "d"} {
		if _, err := m.Get(ctx, key); err != nil {
			t.Errorf("Get(%s) error = %v", key, err)
		}
	}

	for i := 0; i < 100; i++ {
		_ = m.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"))
	}
	if m.size() > 3 {
		t.Errorf("size = %d exceeds limit 3", m.size())
	}
}

func TestNewMemoryDefaults(t *testing.T) {
	m := NewMemory(0, 0)
	if m.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", m.ttl, DefaultTTL)
	}
	if m.maxEntries != DefaultMaxEntries {
		t.Errorf("maxEntries = %d, want %d", m.maxEntries, DefaultMaxEntries)
	}
}

func TestKey(t *testing.T) {
	a := Key("design", "https://example.com/a.png")
	b := Key("design", "https://example.com/b.png")

	if a == b {
		t.Error("different refs produced the same key")
	}
	if a != Key("design", "https://example.com/a.png") {
		t.Error("Key() is not stable")
	}
	if !strings.HasPrefix(a, "design:") || len(a) != len("design:")+64 {
		t.Errorf("unexpected key format %q", a)
	}
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var s Store = Noop{}
	_ = s.Set(ctx, "k", []byte("v"))
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Errorf("Noop.Get() error = %v, want ErrMiss", err)
	}
}
