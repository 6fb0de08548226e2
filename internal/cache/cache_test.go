// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

type testPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSetGetRoundtrip(t *testing.T) {
	c := New(10)

	want := testPayload{Name: "silence suzuka", Count: 3}
	if err := c.Set("k1", want, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got testPayload
	if !c.Get("k1", &got) {
		t.Fatal("expected hit for k1")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestGetMiss(t *testing.T) {
	c := New(10)

	var got testPayload
	if c.Get("absent", &got) {
		t.Error("expected miss for absent key")
	}

	stats := c.Stats()
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
}

func TestExpiredEntryRemovedOnRead(t *testing.T) {
	clk := newFakeClock()
	c := New(10, WithClock(clk.Now))

	if err := c.Set("k1", testPayload{Name: "a"}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	clk.Advance(time.Minute + time.Second)

	var got testPayload
	if c.Get("k1", &got) {
		t.Error("expected miss for expired entry")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after expired read, want 0", c.Len())
	}

	stats := c.Stats()
	if stats.Expired != 1 {
		t.Errorf("Expired = %d, want 1", stats.Expired)
	}
}

func TestGetDoesNotExtendExpiry(t *testing.T) {
	clk := newFakeClock()
	c := New(10, WithClock(clk.Now))

	if err := c.Set("k1", testPayload{Name: "a"}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Read just before expiry, then cross it. The read must not push the
	// deadline out.
	clk.Advance(59 * time.Second)
	var got testPayload
	if !c.Get("k1", &got) {
		t.Fatal("expected hit before expiry")
	}

	clk.Advance(2 * time.Second)
	if c.Get("k1", &got) {
		t.Error("expected miss after expiry despite recent read")
	}
}

func TestEvictionRemovesOldestFifth(t *testing.T) {
	clk := newFakeClock()
	c := New(10, WithClock(clk.Now))

	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("k%d", i)
		if err := c.Set(key, testPayload{Count: i}, time.Hour); err != nil {
			t.Fatalf("Set %s failed: %v", key, err)
		}
		clk.Advance(time.Second)
	}

	// k0 and k1 have the oldest last-access times; the insert at capacity
	// evicts both of them (10/5 = 2).
	if err := c.Set("k10", testPayload{Count: 10}, time.Hour); err != nil {
		t.Fatalf("Set k10 failed: %v", err)
	}

	if c.Len() != 9 {
		t.Errorf("Len() = %d after eviction, want 9", c.Len())
	}
	var got testPayload
	if c.Get("k0", &got) {
		t.Error("k0 should have been evicted")
	}
	if c.Get("k1", &got) {
		t.Error("k1 should have been evicted")
	}
	if !c.Get("k9", &got) {
		t.Error("k9 should have survived eviction")
	}
	if stats := c.Stats(); stats.Evictions != 2 {
		t.Errorf("Evictions = %d, want 2", stats.Evictions)
	}
}

func TestGetRefreshesLastAccess(t *testing.T) {
	clk := newFakeClock()
	c := New(10, WithClock(clk.Now))

	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("k%d", i)
		if err := c.Set(key, testPayload{Count: i}, time.Hour); err != nil {
			t.Fatalf("Set %s failed: %v", key, err)
		}
		clk.Advance(time.Second)
	}

	// Touch k0 so it is no longer the oldest; eviction should take k1 and
	// k2 instead.
	var got testPayload
	if !c.Get("k0", &got) {
		t.Fatal("expected hit for k0")
	}
	clk.Advance(time.Second)

	if err := c.Set("k10", testPayload{Count: 10}, time.Hour); err != nil {
		t.Fatalf("Set k10 failed: %v", err)
	}

	if !c.Get("k0", &got) {
		t.Error("refreshed k0 should have survived eviction")
	}
	if c.Get("k1", &got) {
		t.Error("k1 should have been evicted")
	}
	if c.Get("k2", &got) {
		t.Error("k2 should have been evicted")
	}
}

func TestEvictionNoopBelowFiveEntries(t *testing.T) {
	c := New(4)

	for i := 0; i < 4; i++ {
		if err := c.Set(fmt.Sprintf("k%d", i), i, time.Hour); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	// 4/5 rounds down to zero, so the batch eviction is a no-op and the
	// insert goes one over capacity.
	if err := c.Set("k4", 4, time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
}

func TestSetSerializationFailure(t *testing.T) {
	c := New(10)

	if err := c.Set("bad", make(chan int), time.Minute); err == nil {
		t.Fatal("expected serialization error for chan value")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after failed Set, want 0", c.Len())
	}
}

func TestDeserializationFailureIsMiss(t *testing.T) {
	c := New(10)

	if err := c.Set("k1", "not a number", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got int
	if c.Get("k1", &got) {
		t.Error("expected miss when payload does not match dest type")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after bad payload dropped, want 0", c.Len())
	}
}

func TestInvalidate(t *testing.T) {
	c := New(10)

	if err := c.Set("k1", 1, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	c.Invalidate("k1")
	c.Invalidate("never-existed")

	var got int
	if c.Get("k1", &got) {
		t.Error("expected miss after Invalidate")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestClear(t *testing.T) {
	c := New(100)

	for i := 0; i < 20; i++ {
		if err := c.Set(fmt.Sprintf("k%d", i), i, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", c.Len())
	}
	var got int
	if c.Get("k3", &got) {
		t.Error("expected miss after Clear")
	}
}

func TestOverwriteDoesNotGrowCount(t *testing.T) {
	c := New(10)

	for i := 0; i < 5; i++ {
		if err := c.Set("same", i, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d after overwrites, want 1", c.Len())
	}

	var got int
	if !c.Get("same", &got) {
		t.Fatal("expected hit")
	}
	if got != 4 {
		t.Errorf("got %d, want latest value 4", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New(50)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%60)
				if err := c.Set(key, testPayload{Count: i}, time.Minute); err != nil {
					t.Errorf("Set failed: %v", err)
					return
				}
				var got testPayload
				c.Get(key, &got)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 60 {
		t.Errorf("Len() = %d, want <= 60", c.Len())
	}
}
