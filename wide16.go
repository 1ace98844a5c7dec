// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

// wideLevels is the number of leading 16-bit-stride levels. Three
// levels cover the first 48 bits, where real-world IPv6 allocation
// boundaries concentrate, so the common case resolves in 3 hops
// instead of 6; the remaining 80 bits fall through to 8-bit-stride
// nodes for a worst case of 13 hops instead of 16.
const wideLevels = 3

// Wide16 is the wide-stride IPv6 table: 16-16-16-8-8-8... strides.
//
// The two node layouts share the trie, so the wide flag of an entry
// records whether its child lives in the 16-bit or the 8-bit pool.
// Children allocated below the last wide level are always 8-bit nodes.
type Wide16 struct {
	wide  *nodePool16
	pool  *nodePool8
	rules registry
	cache *hotCache

	root uint32 // index into the wide pool

	hasDefault bool
	defaultNH  uint32

	closed bool
}

// NewWide16 returns an empty wide-stride IPv6 table.
func NewWide16() *Wide16 {
	wide := newNodePool16()
	root, _ := wide.alloc() // cannot fail on an empty pool
	return &Wide16{
		wide:      wide,
		pool:      newNodePool8(),
		rules:     registry{},
		cache:     &hotCache{},
		root:      root,
		defaultNH: NoNextHop,
	}
}

// MaxBits returns the IPv6 address width.
func (t *Wide16) MaxBits() int { return 128 }

// EnableHotCache switches the hot-path address cache on or off.
// Must not be called concurrently with readers.
func (t *Wide16) EnableHotCache(on bool) {
	if on && t.cache == nil {
		t.cache = &hotCache{}
	} else if !on {
		t.cache = nil
	}
}

// wideKey returns the 16-bit stride key of the given level for a
// prefix that may be shorter than the level needs; missing bytes read
// as zero and are masked off by the expansion range anyway.
func wideKey(prefix []byte, level int) uint32 {
	var b [2]byte
	copy(b[:], prefix[min(2*level, len(prefix)):])
	return uint32(b[0])<<8 | uint32(b[1])
}

// Add registers prefix/bits with the given next hop. Slots already
// claimed by a longer prefix are left untouched.
func (t *Wide16) Add(prefix []byte, bits int, nextHop uint32) error {
	if t.closed {
		return ErrTableClosed
	}
	if err := checkPrefix(prefix, bits, 128); err != nil {
		return err
	}
	t.cache.invalidate()

	if bits == 0 {
		t.hasDefault = true
		t.defaultNH = nextHop
		t.rules.insert(prefix, 0, nextHop)
		return nil
	}

	n := t.root
	depth := 0
	for level := 0; level < wideLevels; level++ {
		if bits-depth <= 16 {
			// The prefix terminates in this wide node.
			remainder := bits - depth
			base, count := expandRange(wideKey(prefix, level), remainder, 16)
			node := t.wide.node(n)
			for i := base; i < base+count; i++ {
				if e := node.entries[i]; !e.valid() || e.remainder() <= remainder {
					node.entries[i] = e.withRoute(remainder, nextHop)
				}
			}
			t.rules.insert(prefix, bits, nextHop)
			return nil
		}

		key := wideKey(prefix, level)
		e := t.wide.nodes[n].entries[key]
		if !e.hasChild() {
			wideChild := level+1 < wideLevels
			var child uint32
			var err error
			if wideChild {
				child, err = t.wide.alloc()
			} else {
				child, err = t.pool.alloc()
			}
			if err != nil {
				return err
			}
			t.wide.nodes[n].entries[key] = e.withChild(child, wideChild)
			n = child
		} else {
			n = e.child()
		}
		depth += 16
	}

	// 8-bit-stride levels for the remaining 80 bits.
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

	remainder := bits - depth
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

// Delete removes the exact prefix/bits registration, handing slots
// back to the longest covering route ending in the same node.
func (t *Wide16) Delete(prefix []byte, bits int) error {
	if t.closed {
		return ErrTableClosed
	}
	if err := checkPrefix(prefix, bits, 128); err != nil {
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

	coverNH, coverBits, hasCover := t.rules.covering(prefix, bits)

	n := t.root
	depth := 0
	for level := 0; level < wideLevels; level++ {
		if bits-depth <= 16 {
			remainder := bits - depth
			base, count := expandRange(wideKey(prefix, level), remainder, 16)
			restore := hasCover && coverBits > depth
			node := t.wide.node(n)
			for i := base; i < base+count; i++ {
				e := node.entries[i]
				if !e.valid() || e.remainder() != remainder {
					continue
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

		e := t.wide.nodes[n].entries[wideKey(prefix, level)]
		if !e.hasChild() {
			return ErrPrefixNotFound
		}
		n = e.child()
		depth += 16
	}

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
	restore := hasCover && coverBits > depth
	node := t.pool.node(n)
	for i := base; i < base+count; i++ {
		e := node.entries[i]
		if !e.valid() || e.remainder() != remainder {
			continue
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
func (t *Wide16) Lookup(addr []byte) uint32 {
	if t.closed || len(addr) < 16 {
		return NoNextHop
	}
	if nh, ok := t.cache.probe(addr); ok {
		return nh
	}
	nh := t.lookupWalk(addr)
	t.cache.store(addr, nh)
	return nh
}

func (t *Wide16) lookupWalk(addr []byte) uint32 {
	best := NoNextHop
	n := t.root

	level := 0
	for ; level < wideLevels; level++ {
		e := t.wide.nodes[n].entries[uint32(addr[2*level])<<8|uint32(addr[2*level+1])]
		if e.valid() {
			best = e.nextHop()
		}
		if !e.hasChild() {
			return t.orDefault(best)
		}
		n = e.child()
		if !e.wide() {
			level++
			break
		}
	}

	for d := 2 * level; d < 16; d++ {
		e := t.pool.nodes[n].entries[addr[d]]
		if e.valid() {
			best = e.nextHop()
		}
		n = e.child()
		if n == 0 {
			break
		}
	}
	return t.orDefault(best)
}

func (t *Wide16) orDefault(nh uint32) uint32 {
	if nh == NoNextHop && t.hasDefault {
		return t.defaultNH
	}
	return nh
}

// LookupAll returns every registered prefix covering addr, shortest
// first. If nothing matches and a default route exists, only the
// default route is returned.
func (t *Wide16) LookupAll(addr []byte) []Route {
	if t.closed || len(addr) < 16 {
		return nil
	}
	routes := t.rules.matches(addr, 128)
	if len(routes) == 0 && t.hasDefault {
		routes = append(routes, Route{Bits: 0, NextHop: t.defaultNH})
	}
	return routes
}

// Get returns the next hop registered for the exact prefix/bits.
func (t *Wide16) Get(prefix []byte, bits int) (nextHop uint32, ok bool) {
	if t.closed || checkPrefix(prefix, bits, 128) != nil {
		return 0, false
	}
	return t.rules.get(prefix, bits)
}

// Routes enumerates all registered prefixes in sorted order.
func (t *Wide16) Routes() []RouteEntry {
	if t.closed {
		return nil
	}
	return t.rules.routes(false)
}

// Stats returns counters and memory totals.
func (t *Wide16) Stats() Stats {
	s := Stats{Algorithm: Wide16v6}
	if t.closed {
		return s
	}
	s.Prefixes = len(t.rules)
	s.Nodes = t.pool.len()
	s.WideNodes = t.wide.len()
	s.Bytes = t.pool.bytes() + t.wide.bytes()
	s.CacheEnabled = t.cache != nil
	s.CacheHits, s.CacheMisses = t.cache.stats()
	return s
}

// Close releases the node pools and caches. Further mutations return
// ErrTableClosed; further lookups return NoNextHop.
func (t *Wide16) Close() error {
	t.closed = true
	t.wide = nil
	t.pool = nil
	t.rules = nil
	t.cache = nil
	return nil
}
