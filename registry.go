// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

import (
	"net/netip"
	"slices"
)

// prefixKey is a masked prefix in canonical form: up to 16 raw
// big-endian address bytes, bits beyond the prefix length zeroed.
type prefixKey struct {
	bytes [16]byte
	bits  uint8
}

// registry records the exact set of registered prefixes with their
// next hops, next to the expanded table representation. The expanded
// entries answer lookups; the registry answers everything the
// expansion is lossy about: exact-match delete, the covering route to
// restore after a delete, lookup-all and route enumeration.
type registry map[prefixKey]uint32

// maskKey builds the canonical key for prefix/bits. The caller has
// validated that prefix holds at least (bits+7)/8 bytes.
func maskKey(prefix []byte, bits int) prefixKey {
	var k prefixKey
	k.bits = uint8(bits)
	n := (bits + 7) / 8
	copy(k.bytes[:n], prefix[:n])
	if rem := bits & 7; rem != 0 {
		k.bytes[n-1] &= ^byte(0) << (8 - rem)
	}
	return k
}

func (r registry) insert(prefix []byte, bits int, nextHop uint32) {
	r[maskKey(prefix, bits)] = nextHop
}

func (r registry) get(prefix []byte, bits int) (nextHop uint32, ok bool) {
	nextHop, ok = r[maskKey(prefix, bits)]
	return nextHop, ok
}

func (r registry) remove(prefix []byte, bits int) (ok bool) {
	k := maskKey(prefix, bits)
	if _, ok = r[k]; ok {
		delete(r, k)
	}
	return ok
}

// covering returns the longest registered prefix strictly shorter than
// bits that covers prefix, excluding the default route.
func (r registry) covering(prefix []byte, bits int) (nextHop uint32, cbits int, ok bool) {
	for b := bits - 1; b > 0; b-- {
		if nh, found := r[maskKey(prefix, b)]; found {
			return nh, b, true
		}
	}
	return NoNextHop, 0, false
}

// matches collects every registered prefix covering addr, ordered
// shortest first, excluding the default route.
func (r registry) matches(addr []byte, maxBits int) []Route {
	routes := make([]Route, 0, 8)
	for b := 1; b <= maxBits; b++ {
		if nh, ok := r[maskKey(addr, b)]; ok {
			routes = append(routes, Route{Bits: b, NextHop: nh})
		}
	}
	return routes
}

// routes enumerates all registered prefixes as netip routes, sorted by
// address and prefix length. is4 selects the address family of the
// table the registry belongs to.
func (r registry) routes(is4 bool) []RouteEntry {
	all := make([]RouteEntry, 0, len(r))
	for k, nh := range r {
		var addr netip.Addr
		if is4 {
			addr = netip.AddrFrom4([4]byte(k.bytes[:4]))
		} else {
			addr = netip.AddrFrom16(k.bytes)
		}
		all = append(all, RouteEntry{
			CIDR:    netip.PrefixFrom(addr, int(k.bits)),
			NextHop: nh,
		})
	}
	slices.SortFunc(all, func(a, b RouteEntry) int {
		if c := a.CIDR.Addr().Compare(b.CIDR.Addr()); c != 0 {
			return c
		}
		return a.CIDR.Bits() - b.CIDR.Bits()
	})
	return all
}
