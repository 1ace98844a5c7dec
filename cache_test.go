// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

import (
	"sync"
	"testing"
)

func TestCacheProbeStore(t *testing.T) {
	t.Parallel()
	c := &hotCache{}
	addr := []byte{10, 1, 2, 3}

	if _, ok := c.probe(addr); ok {
		t.Error("probe on empty cache, expected miss")
	}
	c.store(addr, 42)
	if nh, ok := c.probe(addr); !ok || nh != 42 {
		t.Errorf("probe after store = (%d, %v), want (42, true)", nh, ok)
	}

	c.invalidate()
	if _, ok := c.probe(addr); ok {
		t.Error("probe after invalidate, expected miss")
	}
}

func TestCacheStoresNoNextHop(t *testing.T) {
	t.Parallel()
	// A negative result is cached too; the tag bit keeps it from looking
	// like an empty slot.
	c := &hotCache{}
	addr := []byte{10, 1, 2, 3}
	c.store(addr, NoNextHop)
	if nh, ok := c.probe(addr); !ok || nh != NoNextHop {
		t.Errorf("probe of cached miss = (%d, %v), want (NoNextHop, true)", nh, ok)
	}
}

func TestCacheNilReceiver(t *testing.T) {
	t.Parallel()
	var c *hotCache
	addr := []byte{10, 1, 2, 3}
	if _, ok := c.probe(addr); ok {
		t.Error("nil cache probe, expected miss")
	}
	c.store(addr, 1)
	c.invalidate()
	if hits, misses := c.stats(); hits != 0 || misses != 0 {
		t.Errorf("nil cache stats = (%d, %d), want (0, 0)", hits, misses)
	}
}

func TestCacheCounters(t *testing.T) {
	t.Parallel()
	c := &hotCache{}
	addr := []byte{10, 1, 2, 3}

	c.probe(addr) // miss
	c.store(addr, 1)
	c.probe(addr) // hit
	c.probe(addr) // hit

	if hits, misses := c.stats(); hits != 2 || misses != 1 {
		t.Errorf("stats = (%d, %d), want (2, 1)", hits, misses)
	}
}

// TestCacheTransparent checks that lookups return identical results
// with the cache on, warm, off, and freshly invalidated.
func TestCacheTransparent(t *testing.T) {
	t.Parallel()
	rng := newPRNG()
	n := workLoadN()

	tbl := New4()
	defer tbl.Close()
	for range n {
		if err := InsertPrefix(tbl, clusteredPrefix4(rng), randomNextHop(rng)); err != nil {
			t.Fatal(err)
		}
	}

	addrs := make([][]byte, n)
	cold := make([]uint32, n)
	for i := range addrs {
		addrs[i] = addrBytes(clusteredAddr4(rng))
		cold[i] = tbl.Lookup(addrs[i])
	}

	// Warm probes hit the cache.
	for i, a := range addrs {
		if got := tbl.Lookup(a); got != cold[i] {
			t.Fatalf("warm Lookup(%v) = %d, want %d", a, got, cold[i])
		}
	}
	if tbl.Stats().CacheHits == 0 {
		t.Error("warm probes recorded no cache hits")
	}

	tbl.EnableHotCache(false)
	for i, a := range addrs {
		if got := tbl.Lookup(a); got != cold[i] {
			t.Fatalf("uncached Lookup(%v) = %d, want %d", a, got, cold[i])
		}
	}
	if s := tbl.Stats(); s.CacheEnabled {
		t.Error("Stats().CacheEnabled = true after EnableHotCache(false)")
	}

	tbl.EnableHotCache(true)
	for i, a := range addrs {
		if got := tbl.Lookup(a); got != cold[i] {
			t.Fatalf("re-enabled Lookup(%v) = %d, want %d", a, got, cold[i])
		}
	}
}

// TestCacheInvalidatedOnMutation checks that a mutation is visible
// through addresses that were already cached.
func TestCacheInvalidatedOnMutation(t *testing.T) {
	t.Parallel()
	for name, tbl := range tables4() {
		if err := InsertPrefix(tbl, mpp("10.0.0.0/8"), 1); err != nil {
			t.Fatal(err)
		}
		addr := addrBytes(mpa("10.1.2.3"))
		if got := tbl.Lookup(addr); got != 1 {
			t.Fatalf("%s: Lookup = %d, want 1", name, got)
		}
		tbl.Lookup(addr) // cached now

		if err := InsertPrefix(tbl, mpp("10.1.0.0/16"), 2); err != nil {
			t.Fatal(err)
		}
		if got := tbl.Lookup(addr); got != 2 {
			t.Errorf("%s: Lookup after add = %d, want 2", name, got)
		}

		if err := DeletePrefix(tbl, mpp("10.1.0.0/16")); err != nil {
			t.Fatal(err)
		}
		if got := tbl.Lookup(addr); got != 1 {
			t.Errorf("%s: Lookup after delete = %d, want 1", name, got)
		}
		tbl.Close()
	}
}

// TestCacheConcurrentReaders hammers the single-lookup path from many
// goroutines with no concurrent mutator; meant to run under -race.
func TestCacheConcurrentReaders(t *testing.T) {
	t.Parallel()
	rng := newPRNG()

	tbl := New4()
	defer tbl.Close()
	for range 100 {
		if err := InsertPrefix(tbl, clusteredPrefix4(rng), randomNextHop(rng)); err != nil {
			t.Fatal(err)
		}
	}

	addrs := make([][]byte, 256)
	want := make([]uint32, len(addrs))
	for i := range addrs {
		addrs[i] = addrBytes(clusteredAddr4(rng))
		want[i] = tbl.Lookup(addrs[i])
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				for i, a := range addrs {
					if got := tbl.Lookup(a); got != want[i] {
						t.Errorf("concurrent Lookup(%v) = %d, want %d", a, got, want[i])
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
