package cache

import (
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache(t *testing.T, cfg Config) (*Cache[int], *clock) {
	t.Helper()
	c := New[int](cfg)
	t.Cleanup(c.Close)
	clk := &clock{t: time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)}
	c.now = clk.now
	return c, clk
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t, Config{})
	c.Set("a", 1)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("Get(b) found a missing key")
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d, %d", hits, misses)
	}

	c.Delete("a")
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Delete", c.Len())
	}
}

func TestCache_IdleExpiry(t *testing.T) {
	c, clk := newTestCache(t, Config{TTL: time.Minute})
	c.Set("a", 1)

	clk.t = clk.t.Add(50 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("entry expired early")
	}

	// the read above refreshed the entry
	clk.t = clk.t.Add(50 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("read did not extend the entry")
	}

	clk.t = clk.t.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("idle entry still present")
	}
}

func TestCache_GetOrCreate(t *testing.T) {
	c, _ := newTestCache(t, Config{})
	calls := 0
	create := func() int {
		calls++
		return 42
	}

	if v := c.GetOrCreate("k", create); v != 42 {
		t.Errorf("GetOrCreate() = %d", v)
	}
	if v := c.GetOrCreate("k", create); v != 42 {
		t.Errorf("GetOrCreate() = %d", v)
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, clk := newTestCache(t, Config{MaxItems: 2})
	c.Set("a", 1)
	clk.t = clk.t.Add(time.Second)
	c.Set("b", 2)
	clk.t = clk.t.Add(time.Second)
	c.Get("a")
	clk.t = clk.t.Add(time.Second)
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a was used recently and should survive")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCache_Cleanup(t *testing.T) {
	c, clk := newTestCache(t, Config{TTL: time.Second})
	c.Set("a", 1)
	clk.t = clk.t.Add(time.Minute)
	c.cleanup()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after cleanup", c.Len())
	}
}
