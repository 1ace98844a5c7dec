// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

import "sync/atomic"

// hotCacheSize must be a power of two.
const hotCacheSize = 8192

// hotCache is a direct-mapped cache of recently resolved addresses on
// the single-lookup path. A slot is one uint64: a 32-bit hash tag in
// the high half and the resolved next hop in the low half, stored and
// loaded atomically so concurrent readers never observe a torn pair.
// The tag's top bit is forced set, so the zero word of an empty or
// invalidated slot can never alias a stored entry.
//
// A miss is indistinguishable from "not cached" and falls through to
// the real lookup; a slot collision simply evicts.
type hotCache struct {
	slots  [hotCacheSize]atomic.Uint64
	hits   atomic.Uint64
	misses atomic.Uint64
}

// fnv1a is the fast non-cryptographic hash selecting the slot.
func fnv1a(addr []byte) uint64 {
	h := uint64(0xcbf29ce484222325)
	for _, b := range addr {
		h ^= uint64(b)
		h *= 0x100000001b3
	}
	return h
}

func cacheTag(h uint64) uint64 { return (h >> 32) | 1<<31 }

// probe returns the cached next hop for addr and whether it was
// present.
func (c *hotCache) probe(addr []byte) (nextHop uint32, ok bool) {
	if c == nil {
		return 0, false
	}
	h := fnv1a(addr)
	word := c.slots[h&(hotCacheSize-1)].Load()
	if word>>32 != cacheTag(h) {
		c.misses.Add(1)
		return 0, false
	}
	c.hits.Add(1)
	return uint32(word), true
}

func (c *hotCache) store(addr []byte, nextHop uint32) {
	if c == nil {
		return
	}
	h := fnv1a(addr)
	c.slots[h&(hotCacheSize-1)].Store(cacheTag(h)<<32 | uint64(nextHop))
}

// invalidate clears the whole cache. Called by the single mutator on
// every add or delete, so a stale hit after a mutation is never
// observable.
func (c *hotCache) invalidate() {
	if c == nil {
		return
	}
	for i := range c.slots {
		c.slots[i].Store(0)
	}
}

func (c *hotCache) stats() (hits, misses uint64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}
