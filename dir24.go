// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

// DIR-24-8: a flat table over the top 24 address bits answers most
// IPv4 lookups with a single read; prefixes longer than /24 extend
// their tbl24 slot into a 256-entry tbl8 group covering the last byte,
// for a worst case of two reads.
//
// A tbl24 or tbl8 word packs, from the top: valid flag, extended flag
// (tbl24 only: "consult a tbl8 group"), and 30 bits of next hop or
// group index. The 30-bit layout caps next-hop values; Add rejects
// larger ones with ErrNextHopRange.
const (
	dir24Valid = uint32(1) << 31
	dir24Ext   = uint32(1) << 30
	dir24Mask  = uint32(1)<<30 - 1

	tbl24Size         = 1 << 24
	tbl8GroupEntries  = 256
	initialTbl8Groups = 256
)

// Dir24 is the DIR-24-8 IPv4 table.
//
// The depth arrays shadow the packed words with the prefix length that
// claimed each slot. They are written only by Add/Delete to decide
// which slots a route may overwrite or must hand back; the lookup path
// never touches them, so the packed-word layout above is exactly what
// a lookup reads.
type Dir24 struct {
	tbl24   []uint32
	depth24 []uint8

	tbl8       []uint32
	depth8     []uint8
	groupsUsed uint32

	rules registry
	cache *hotCache

	hasDefault bool
	defaultNH  uint32

	closed bool
}

// NewDir24 returns an empty DIR-24-8 table.
func NewDir24() *Dir24 {
	return &Dir24{
		tbl24:     make([]uint32, tbl24Size),
		depth24:   make([]uint8, tbl24Size),
		tbl8:      make([]uint32, initialTbl8Groups*tbl8GroupEntries),
		depth8:    make([]uint8, initialTbl8Groups*tbl8GroupEntries),
		rules:     registry{},
		cache:     &hotCache{},
		defaultNH: NoNextHop,
	}
}

// MaxBits returns the IPv4 address width.
func (t *Dir24) MaxBits() int { return 32 }

// EnableHotCache switches the hot-path address cache on or off.
// Must not be called concurrently with readers.
func (t *Dir24) EnableHotCache(on bool) {
	if on && t.cache == nil {
		t.cache = &hotCache{}
	} else if !on {
		t.cache = nil
	}
}

// allocGroup hands out a fresh zeroed tbl8 group, growing the group
// array by the usual factor when full. Groups are never freed.
func (t *Dir24) allocGroup() uint32 {
	if int(t.groupsUsed)*tbl8GroupEntries == len(t.tbl8) {
		grown := make([]uint32, len(t.tbl8)*poolGrowthFactor)
		copy(grown, t.tbl8)
		t.tbl8 = grown

		grownDepth := make([]uint8, len(t.depth8)*poolGrowthFactor)
		copy(grownDepth, t.depth8)
		t.depth8 = grownDepth
	}
	g := t.groupsUsed
	t.groupsUsed++
	return g
}

// idx24 returns the top-24-bit table index for a prefix that may be
// shorter than 3 bytes.
func idx24(prefix []byte) uint32 {
	var b [3]byte
	copy(b[:], prefix)
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// Add registers prefix/bits with the given next hop. Slots already
// claimed by a longer prefix, directly or through a tbl8 group, are
// left untouched.
func (t *Dir24) Add(prefix []byte, bits int, nextHop uint32) error {
	if t.closed {
		return ErrTableClosed
	}
	if err := checkPrefix(prefix, bits, 32); err != nil {
		return err
	}
	if nextHop&^dir24Mask != 0 {
		return ErrNextHopRange
	}
	t.cache.invalidate()

	if bits == 0 {
		t.hasDefault = true
		t.defaultNH = nextHop
		t.rules.insert(prefix, 0, nextHop)
		return nil
	}

	if bits <= 24 {
		base, count := expandRange(idx24(prefix), bits, 24)
		for i := base; i < base+count; i++ {
			e := t.tbl24[i]
			switch {
			case e&dir24Ext != 0:
				// Slot extends into a tbl8 group: the route becomes
				// the inherited value of every group slot it is not
				// outranked in.
				t.fillGroup(e&dir24Mask, 0, tbl8GroupEntries, nextHop, uint8(bits))
			case e&dir24Valid == 0 || t.depth24[i] <= uint8(bits):
				t.tbl24[i] = dir24Valid | nextHop
				t.depth24[i] = uint8(bits)
			}
		}
		t.rules.insert(prefix, bits, nextHop)
		return nil
	}

	// Longer than /24: the route lives in a tbl8 group.
	di := idx24(prefix)
	e := t.tbl24[di]
	var g uint32
	if e&dir24Ext == 0 {
		g = t.allocGroup()
		if e&dir24Valid != 0 {
			// Propagate the direct slot's shorter route into the fresh
			// group as the inherited value of the uncovered last bytes.
			t.fillGroup(g, 0, tbl8GroupEntries, e&dir24Mask, t.depth24[di])
		}
		t.tbl24[di] = dir24Valid | dir24Ext | g
	} else {
		g = e & dir24Mask
	}

	base, count := expandRange(uint32(prefix[3]), bits-24, 8)
	t.fillGroup(g, base, base+count, nextHop, uint8(bits))

	t.rules.insert(prefix, bits, nextHop)
	return nil
}

// fillGroup writes nextHop into the group slots [from, to) that are
// invalid or claimed by a route no longer than depth.
func (t *Dir24) fillGroup(g, from, to uint32, nextHop uint32, depth uint8) {
	off := g * tbl8GroupEntries
	for i := off + from; i < off+to; i++ {
		if t.tbl8[i]&dir24Valid == 0 || t.depth8[i] <= depth {
			t.tbl8[i] = dir24Valid | nextHop
			t.depth8[i] = depth
		}
	}
}

// Delete removes the exact prefix/bits registration. Slots the route
// claimed are handed back to the longest covering route, or cleared.
// tbl8 groups are never reclaimed.
func (t *Dir24) Delete(prefix []byte, bits int) error {
	if t.closed {
		return ErrTableClosed
	}
	if err := checkPrefix(prefix, bits, 32); err != nil {
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

	if bits <= 24 {
		base, count := expandRange(idx24(prefix), bits, 24)
		for i := base; i < base+count; i++ {
			e := t.tbl24[i]
			switch {
			case e&dir24Ext != 0:
				t.clearGroup(e&dir24Mask, 0, tbl8GroupEntries, uint8(bits), coverNH, coverBits, hasCover)
			case e&dir24Valid != 0 && t.depth24[i] == uint8(bits):
				if hasCover {
					t.tbl24[i] = dir24Valid | coverNH
					t.depth24[i] = uint8(coverBits)
				} else {
					t.tbl24[i] = 0
					t.depth24[i] = 0
				}
			}
		}
	} else {
		e := t.tbl24[idx24(prefix)]
		if e&dir24Ext != 0 {
			base, count := expandRange(uint32(prefix[3]), bits-24, 8)
			t.clearGroup(e&dir24Mask, base, base+count, uint8(bits), coverNH, coverBits, hasCover)
		}
	}

	t.rules.remove(prefix, bits)
	return nil
}

// clearGroup hands the group slots [from, to) claimed by exactly depth
// back to the covering route, or clears them.
func (t *Dir24) clearGroup(g, from, to uint32, depth uint8, coverNH uint32, coverBits int, hasCover bool) {
	off := g * tbl8GroupEntries
	for i := off + from; i < off+to; i++ {
		if t.tbl8[i]&dir24Valid == 0 || t.depth8[i] != depth {
			continue
		}
		if hasCover {
			t.tbl8[i] = dir24Valid | coverNH
			t.depth8[i] = uint8(coverBits)
		} else {
			t.tbl8[i] = 0
			t.depth8[i] = 0
		}
	}
}

// Lookup returns the next hop of the longest registered prefix
// covering addr, the default route if none matches, or NoNextHop.
func (t *Dir24) Lookup(addr []byte) uint32 {
	if t.closed || len(addr) < 4 {
		return NoNextHop
	}
	if nh, ok := t.cache.probe(addr); ok {
		return nh
	}
	ip := uint32(addr[0])<<24 | uint32(addr[1])<<16 | uint32(addr[2])<<8 | uint32(addr[3])
	nh := t.lookupIP(ip)
	t.cache.store(addr, nh)
	return nh
}

// Lookup4 is the numeric overload of Lookup: ip is the big-endian
// address value (192.168.0.1 is 0xC0A80001).
func (t *Dir24) Lookup4(ip uint32) uint32 {
	if t.closed {
		return NoNextHop
	}
	return t.lookupIP(ip)
}

// lookupIP is the two-access core: one tbl24 read, then a tbl8 read
// only when the slot is extended.
func (t *Dir24) lookupIP(ip uint32) uint32 {
	e := t.tbl24[ip>>8]
	if e&dir24Ext == 0 {
		if e&dir24Valid != 0 {
			return e & dir24Mask
		}
		if t.hasDefault {
			return t.defaultNH
		}
		return NoNextHop
	}
	te := t.tbl8[(e&dir24Mask)<<8|ip&0xff]
	if te&dir24Valid != 0 {
		return te & dir24Mask
	}
	if t.hasDefault {
		return t.defaultNH
	}
	return NoNextHop
}

// LookupAll returns every registered prefix covering addr, shortest
// first. If nothing matches and a default route exists, only the
// default route is returned.
func (t *Dir24) LookupAll(addr []byte) []Route {
	if t.closed || len(addr) < 4 {
		return nil
	}
	routes := t.rules.matches(addr, 32)
	if len(routes) == 0 && t.hasDefault {
		routes = append(routes, Route{Bits: 0, NextHop: t.defaultNH})
	}
	return routes
}

// Get returns the next hop registered for the exact prefix/bits.
func (t *Dir24) Get(prefix []byte, bits int) (nextHop uint32, ok bool) {
	if t.closed || checkPrefix(prefix, bits, 32) != nil {
		return 0, false
	}
	return t.rules.get(prefix, bits)
}

// Routes enumerates all registered prefixes in sorted order.
func (t *Dir24) Routes() []RouteEntry {
	if t.closed {
		return nil
	}
	return t.rules.routes(true)
}

// Stats returns counters and memory totals.
func (t *Dir24) Stats() Stats {
	s := Stats{
		Algorithm:  Dir24v4,
		Prefixes:   len(t.rules),
		Tbl8Groups: int(t.groupsUsed),
		Bytes:      len(t.tbl24)*4 + len(t.depth24) + len(t.tbl8)*4 + len(t.depth8),
	}
	s.CacheEnabled = t.cache != nil
	s.CacheHits, s.CacheMisses = t.cache.stats()
	return s
}

// Close releases the tables and caches. Further mutations return
// ErrTableClosed; further lookups return NoNextHop.
func (t *Dir24) Close() error {
	t.closed = true
	t.tbl24 = nil
	t.depth24 = nil
	t.tbl8 = nil
	t.depth8 = nil
	t.rules = nil
	t.cache = nil
	return nil
}
