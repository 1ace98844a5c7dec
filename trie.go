// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

// Trie is the generic 8-bit-stride LPM trie, shared by the IPv4 and
// IPv6 variants. Each level consumes one address byte; a prefix that
// ends mid-byte is expanded over the contiguous slot range whose top
// bits match it.
//
// The default route (prefix length 0) is held out-of-band so that
// setting or clearing it never touches the trie.
type Trie struct {
	pool  *nodePool8
	rules registry
	cache *hotCache

	root    uint32
	maxBits int // 32 or 128

	hasDefault bool
	defaultNH  uint32

	closed bool
}

// New4 returns an empty 8-bit-stride trie for IPv4.
func New4() *Trie { return newTrie(32) }

// New6 returns an empty 8-bit-stride trie for IPv6.
func New6() *Trie { return newTrie(128) }

func newTrie(maxBits int) *Trie {
	pool := newNodePool8()
	root, _ := pool.alloc() // cannot fail on an empty pool
	return &Trie{
		pool:      pool,
		rules:     registry{},
		cache:     &hotCache{},
		root:      root,
		maxBits:   maxBits,
		defaultNH: NoNextHop,
	}
}

// MaxBits returns the address width of the table's family.
func (t *Trie) MaxBits() int { return t.maxBits }

// EnableHotCache switches the hot-path address cache on or off.
// Must not be called concurrently with readers.
func (t *Trie) EnableHotCache(on bool) {
	if on && t.cache == nil {
		t.cache = &hotCache{}
	} else if !on {
		t.cache = nil
	}
}

// Add registers prefix/bits with the given next hop. A re-add of the
// exact prefix replaces its next hop. Slots already claimed by a
// longer prefix are left untouched.
func (t *Trie) Add(prefix []byte, bits int, nextHop uint32) error {
	if t.closed {
		return ErrTableClosed
	}
	if err := checkPrefix(prefix, bits, t.maxBits); err != nil {
		return err
	}
	t.cache.invalidate()

	if bits == 0 {
		t.hasDefault = true
		t.defaultNH = nextHop
		t.rules.insert(prefix, 0, nextHop)
		return nil
	}

	// Walk full bytes, creating children as needed.
	n := t.root
	depth := 0
	for bits-depth > 8 {
		b := prefix[depth>>3]
		child := t.pool.nodes[n].entries[b].child()
		if child == 0 {
			var err error
			child, err = t.pool.alloc()
			if err != nil {
				return err
			}
			e := t.pool.nodes[n].entries[b]
			t.pool.nodes[n].entries[b] = e.withChild(child, false)
		}
		n = child
		depth += 8
	}

	// Expand the final (possibly partial) byte.
	remainder := bits - depth // 1..8
	base, count := expandRange(uint32(prefix[depth>>3]), remainder, 8)
	node := t.pool.node(n)
	for i := base; i < base+count; i++ {
		if e := node.entries[i]; !e.valid() || e.remainder() <= remainder {
			node.entries[i] = e.withRoute(remainder, nextHop)
		}
	}

	t.rules.insert(prefix, bits, nextHop)
	return nil
}

// Delete removes the exact prefix/bits registration. Slots the prefix
// owned are handed back to the longest covering route that ends in the
// same node, or cleared. Nodes are never deallocated.
func (t *Trie) Delete(prefix []byte, bits int) error {
	if t.closed {
		return ErrTableClosed
	}
	if err := checkPrefix(prefix, bits, t.maxBits); err != nil {
		return err
	}
	if _, ok := t.rules.get(prefix, bits); !ok {
		return ErrPrefixNotFound
	}
	t.cache.invalidate()

	if bits == 0 {
		t.hasDefault = false
		t.defaultNH = NoNextHop
		t.rules.remove(prefix, 0)
		return nil
	}

	n := t.root
	depth := 0
	for bits-depth > 8 {
		child := t.pool.nodes[n].entries[prefix[depth>>3]].child()
		if child == 0 {
			return ErrPrefixNotFound
		}
		n = child
		depth += 8
	}

	remainder := bits - depth
	base, count := expandRange(uint32(prefix[depth>>3]), remainder, 8)

	// A covering route ending in this same node takes over the slots;
	// routes ending in shallower nodes are found by the lookup walk
	// anyway and need no rewrite.
	coverNH, coverBits, hasCover := t.rules.covering(prefix, bits)
	restore := hasCover && coverBits > depth

	node := t.pool.node(n)
	for i := base; i < base+count; i++ {
		e := node.entries[i]
		if !e.valid() || e.remainder() != remainder {
			continue // slot owned by a longer prefix
		}
		if restore {
			node.entries[i] = e.withRoute(coverBits-depth, coverNH)
		} else {
			node.entries[i] = e.withoutRoute()
		}
	}

	t.rules.remove(prefix, bits)
	return nil
}

// Lookup returns the next hop of the longest registered prefix
// covering addr, the default route if none matches, or NoNextHop.
func (t *Trie) Lookup(addr []byte) uint32 {
	if t.closed || len(addr)*8 < t.maxBits {
		return NoNextHop
	}
	if nh, ok := t.cache.probe(addr); ok {
		return nh
	}
	nh := t.lookupWalk(addr)
	t.cache.store(addr, nh)
	return nh
}

// lookupWalk walks the trie remembering the deepest valid slot.
func (t *Trie) lookupWalk(addr []byte) uint32 {
	best := NoNextHop
	n := t.root
	for d := 0; d < t.maxBits>>3; d++ {
		e := t.pool.nodes[n].entries[addr[d]]
		if e.valid() {
			best = e.nextHop()
		}
		n = e.child()
		if n == 0 {
			break
		}
	}
	if best == NoNextHop && t.hasDefault {
		return t.defaultNH
	}
	return best
}

// LookupAll returns every registered prefix covering addr, shortest
// first. If nothing matches and a default route exists, only the
// default route is returned.
func (t *Trie) LookupAll(addr []byte) []Route {
	if t.closed || len(addr)*8 < t.maxBits {
		return nil
	}
	routes := t.rules.matches(addr, t.maxBits)
	if len(routes) == 0 && t.hasDefault {
		routes = append(routes, Route{Bits: 0, NextHop: t.defaultNH})
	}
	return routes
}

// Get returns the next hop registered for the exact prefix/bits.
func (t *Trie) Get(prefix []byte, bits int) (nextHop uint32, ok bool) {
	if t.closed || checkPrefix(prefix, bits, t.maxBits) != nil {
		return 0, false
	}
	return t.rules.get(prefix, bits)
}

// Routes enumerates all registered prefixes in sorted order.
func (t *Trie) Routes() []RouteEntry {
	if t.closed {
		return nil
	}
	return t.rules.routes(t.maxBits == 32)
}

// Stats returns counters and memory totals.
func (t *Trie) Stats() Stats {
	s := Stats{Algorithm: Stride8v4}
	if t.maxBits == 128 {
		s.Algorithm = Stride8v6
	}
	if t.closed {
		return s
	}
	s.Prefixes = len(t.rules)
	s.Nodes = t.pool.len()
	s.Bytes = t.pool.bytes()
	s.CacheEnabled = t.cache != nil
	s.CacheHits, s.CacheMisses = t.cache.stats()
	return s
}

// Close releases the node pool and caches. Further mutations return
// ErrTableClosed; further lookups return NoNextHop.
func (t *Trie) Close() error {
	t.closed = true
	t.pool = nil
	t.rules = nil
	t.cache = nil
	return nil
}
