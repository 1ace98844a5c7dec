// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

// Package golden holds a simple and slow route table, implemented as a
// slice of prefixes and next hops, used by the tests as a brute-force
// reference for the real algorithms.
package golden

import (
	"net/netip"
	"slices"
)

// NoNextHop mirrors the sentinel of the lpm package.
const NoNextHop = ^uint32(0)

// Table is the linear-scan reference table.
type Table []Item

// Item is one registered prefix.
type Item struct {
	Pfx     netip.Prefix
	NextHop uint32
}

// Insert registers pfx, replacing the next hop on re-insert.
func (t *Table) Insert(pfx netip.Prefix, nextHop uint32) {
	pfx = pfx.Masked()
	for i, item := range *t {
		if item.Pfx == pfx {
			(*t)[i].NextHop = nextHop
			return
		}
	}
	*t = append(*t, Item{pfx, nextHop})
}

// Delete removes the exact prefix, reporting whether it was present.
func (t *Table) Delete(pfx netip.Prefix) (existed bool) {
	pfx = pfx.Masked()
	for i, item := range *t {
		if item.Pfx == pfx {
			*t = slices.Delete(*t, i, i+1)
			return true
		}
	}
	return false
}

// Lookup scans all prefixes and returns the next hop of the longest
// one containing addr, or NoNextHop.
func (t Table) Lookup(addr netip.Addr) uint32 {
	bestLen := -1
	nextHop := NoNextHop

	for _, item := range t {
		if item.Pfx.Contains(addr) && item.Pfx.Bits() > bestLen {
			bestLen = item.Pfx.Bits()
			nextHop = item.NextHop
		}
	}
	return nextHop
}

// LookupAll returns every prefix containing addr ordered by prefix
// length, the default route only when nothing longer matched.
func (t Table) LookupAll(addr netip.Addr) []Item {
	var all []Item
	for _, item := range t {
		if item.Pfx.Contains(addr) && item.Pfx.Bits() > 0 {
			all = append(all, item)
		}
	}
	slices.SortFunc(all, func(a, b Item) int { return a.Pfx.Bits() - b.Pfx.Bits() })
	if len(all) > 0 {
		return all
	}
	for _, item := range t {
		if item.Pfx.Bits() == 0 {
			return []Item{item}
		}
	}
	return nil
}
