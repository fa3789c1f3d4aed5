// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time forward without sleeping.
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
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestLRU(capacity int, ttl time.Duration) (*LRU[string, int], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRU[string, int](capacity, ttl)
	c.now = clock.Now
	return c, clock
}

func TestNewLRU_Defaults(t *testing.T) {
	c := NewLRU[int, int](0, 0)
	if c.capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", c.capacity, DefaultCapacity)
	}
	if c.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultTTL)
	}
}

func TestLRU_GetAdd(t *testing.T) {
	c, _ := newTestLRU(3, time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Fatal("Get() on empty cache returned ok")
	}
	c.Add("a", 1)
	c.Add("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v, want 1, true", v, ok)
	}

	c.Add("a", 10)
	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("Get(a) after replace = %d, want 10", v)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestLRU_Eviction(t *testing.T) {
	tests := []struct {
		name    string
		touch   string
		evicted string
	}{
		{name: "oldest evicted", touch: "", evicted: "a"},
		{name: "get refreshes recency", touch: "a", evicted: "b"},
		{name: "touch newest", touch: "c", evicted: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestLRU(3, time.Minute)
			c.Add("a", 1)
			c.Add("b", 2)
			c.Add("c", 3)
			if tt.touch != "" {
				c.Get(tt.touch)
			}
			c.Add("d", 4)

			if _, ok := c.Get(tt.evicted); ok {
				t.Errorf("%q still cached, want evicted", tt.evicted)
			}
			if c.Len() != 3 {
				t.Errorf("Len() = %d, want 3", c.Len())
			}
			if _, ok := c.Get("d"); !ok {
				t.Error("newest entry missing")
			}
		})
	}
}

func TestLRU_TTL(t *testing.T) {
	c, clock := newTestLRU(4, time.Minute)
	c.Add("a", 1)

	clock.Advance(30 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("entry expired before its TTL")
	}

	clock.Advance(31 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Fatal("entry still returned after its TTL")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want expired entry dropped", c.Len())
	}
}

func TestLRU_AddRefreshesTTL(t *testing.T) {
	c, clock := newTestLRU(4, time.Minute)
	c.Add("a", 1)
	clock.Advance(50 * time.Second)
	c.Add("a", 2)
	clock.Advance(50 * time.Second)

	if v, ok := c.Get("a"); !ok || v != 2 {
		t.Errorf("Get(a) = %d, %v, want 2, true", v, ok)
	}
}

func TestLRU_CleanupExpired(t *testing.T) {
	c, clock := newTestLRU(8, time.Minute)
	c.Add("a", 1)
	c.Add("b", 2)
	clock.Advance(45 * time.Second)
	c.Add("c", 3)
	clock.Advance(30 * time.Second)

	if removed := c.CleanupExpired(); removed != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("unexpired entry removed")
	}
}

func TestLRU_RemoveClear(t *testing.T) {
	c, _ := newTestLRU(4, time.Minute)
	c.Add("a", 1)
	c.Add("b", 2)

	if !c.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if c.Remove("a") {
		t.Error("second Remove(a) = true, want false")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	c.Add("c", 3)
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) after Clear = %d, %v, want 3, true", v, ok)
	}
}

func TestLRU_Peek(t *testing.T) {
	c, clock := newTestLRU(2, time.Minute)
	c.Add("a", 1)
	c.Add("b", 2)

	if v, ok := c.Peek("a"); !ok || v != 1 {
		t.Errorf("Peek(a) = %d, %v, want 1, true", v, ok)
	}
	// Peek must not refresh recency: a is still the eviction candidate.
	c.Add("c", 3)
	if _, ok := c.Peek("a"); ok {
		t.Error("Peek(a) after eviction returned ok")
	}
	if hits, misses, _ := c.Stats(); hits != 0 || misses != 0 {
		t.Errorf("Stats() hits, misses = %d, %d, want 0, 0", hits, misses)
	}

	clock.Advance(2 * time.Minute)
	if _, ok := c.Peek("b"); ok {
		t.Error("Peek(b) returned an expired entry")
	}
}

func TestLRU_Stats(t *testing.T) {
	c, _ := newTestLRU(4, time.Minute)
	c.Add("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	hits, misses, size := c.Stats()
	if hits != 2 || misses != 1 || size != 1 {
		t.Errorf("Stats() = %d, %d, %d, want 2, 1, 1", hits, misses, size)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[string, int](16, time.Minute)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*200+i)%32)
				c.Add(key, i)
				c.Get(key)
				if i%50 == 0 {
					c.CleanupExpired()
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 16 {
		t.Errorf("Len() = %d, exceeds capacity 16", c.Len())
	}
}

func BenchmarkLRU_Get(b *testing.B) {
	c := NewLRU[int, int](1024, time.Minute)
	for i := 0; i < 1024; i++ {
		c.Add(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(i % 1024)
	}
}
