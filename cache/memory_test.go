package cache

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(clock.now)

	if err := m.Set(ctx, "page:/", []byte("first"), 20*time.Second); err != nil {
		t.Fatal(err)
	}

	clock.advance(19 * time.Second)
	got, ok, err := m.Get(ctx, "page:/")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || string(got) != "first" {
		t.Fatalf("Get before expiry = %q, %v; want %q, true", got, ok, "first")
	}

	clock.advance(time.Second)
	if _, ok, _ := m.Get(ctx, "page:/"); ok {
		t.Fatal("entry still present after ttl")
	}
	if m.Len() != 0 {
		t.Errorf("expired entry not dropped, Len() = %d", m.Len())
	}
}

func TestMemoryClear(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)
	for _, key := range []string{"a", "b", "c"} {
		if err := m.Set(ctx, key, []byte(key), time.Minute); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"a", "b", "c"} {
		if _, ok, _ := m.Get(ctx, key); ok {
			t.Errorf("key %q survived Clear", key)
		}
	}
}

func TestMemorySetCopiesValue(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)
	value := []byte("hello")
	m.Set(ctx, "k", value, time.Minute)
	value[0] = 'j'

	got, _, _ := m.Get(ctx, "k")
	if string(got) != "hello" {
		t.Errorf("stored value changed with caller's slice: %q", got)
	}
}

func TestMemorySetSweepsExpired(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(0, 0)}
	m := NewMemory(clock.now)

	m.Set(ctx, "old", []byte("x"), time.Second)
	clock.advance(2 * time.Second)
	m.Set(ctx, "new", []byte("y"), time.Second)

	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}
