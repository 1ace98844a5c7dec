// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

import (
	"fmt"
	"net/netip"
)

// Algorithm selects the table implementation behind New.
type Algorithm int

const (
	// Stride8v4 is the generic 8-bit-stride trie for IPv4.
	Stride8v4 Algorithm = iota
	// Stride8v6 is the generic 8-bit-stride trie for IPv6.
	Stride8v6
	// Dir24v4 is the DIR-24-8 direct table for IPv4.
	Dir24v4
	// Wide16v6 is the 16-16-16-8... wide-stride trie for IPv6.
	Wide16v6
)

func (a Algorithm) String() string {
	switch a {
	case Stride8v4:
		return "stride8-v4"
	case Stride8v6:
		return "stride8-v6"
	case Dir24v4:
		return "dir24-v4"
	case Wide16v6:
		return "wide16-v6"
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// Route is one match returned by LookupAll: the prefix length that
// matched and its next hop.
type Route struct {
	Bits    int
	NextHop uint32
}

// RouteEntry is one registered prefix, used for enumeration and
// serialization.
type RouteEntry struct {
	CIDR    netip.Prefix `json:"cidr"`
	NextHop uint32       `json:"nextHop"`
}

// Table is the common surface of all four algorithms.
//
// Prefixes and addresses are raw big-endian byte sequences (network
// order), 4 bytes for IPv4 tables and 16 for IPv6 tables. A table
// supports one concurrent mutator (Add/Delete) or arbitrarily many
// concurrent readers, never both at once.
type Table interface {
	// Add registers prefix/bits with the given next hop, replacing the
	// next hop if the exact prefix is already present. Bits 0 sets the
	// default route.
	Add(prefix []byte, bits int, nextHop uint32) error

	// Delete removes the exact prefix/bits registration.
	// Returns ErrPrefixNotFound if it was never added.
	Delete(prefix []byte, bits int) error

	// Lookup returns the next hop of the longest registered prefix
	// covering addr, the default route if none matches, or NoNextHop.
	Lookup(addr []byte) uint32

	// LookupBatch resolves addrs into nextHops in input order with the
	// same per-address semantics as Lookup.
	LookupBatch(addrs [][]byte, nextHops []uint32) error

	// LookupAll returns every registered prefix covering addr, ordered
	// shortest to longest. If none matches and a default route exists,
	// only the default route is returned.
	LookupAll(addr []byte) []Route

	// Routes enumerates all registered prefixes in sorted order.
	Routes() []RouteEntry

	// MaxBits returns the address width of the table's family, 32 or
	// 128.
	MaxBits() int

	// Stats returns counters and memory totals for display.
	Stats() Stats

	// Close releases the table's pools and caches. The table must not
	// be used afterwards.
	Close() error
}

// New creates an empty table for the chosen algorithm.
func New(algo Algorithm) (Table, error) {
	switch algo {
	case Stride8v4:
		return New4(), nil
	case Stride8v6:
		return New6(), nil
	case Dir24v4:
		return NewDir24(), nil
	case Wide16v6:
		return NewWide16(), nil
	}
	return nil, fmt.Errorf("lpm: unknown algorithm %d", int(algo))
}

// checkPrefix validates prefix/bits against the table's address width.
func checkPrefix(prefix []byte, bits, maxBits int) error {
	if bits < 0 || bits > maxBits {
		return ErrInvalidPrefix
	}
	if len(prefix)*8 < bits {
		return ErrInvalidPrefix
	}
	return nil
}

// InsertPrefix adds a parsed prefix to t. The prefix's address family
// must match the table's.
func InsertPrefix(t Table, pfx netip.Prefix, nextHop uint32) error {
	if !pfx.IsValid() {
		return ErrInvalidPrefix
	}
	if pfx.Addr().BitLen() != t.MaxBits() {
		return ErrFamilyMismatch
	}
	pfx = pfx.Masked()
	return t.Add(pfx.Addr().AsSlice(), pfx.Bits(), nextHop)
}

// DeletePrefix removes a parsed prefix from t.
func DeletePrefix(t Table, pfx netip.Prefix) error {
	if !pfx.IsValid() {
		return ErrInvalidPrefix
	}
	if pfx.Addr().BitLen() != t.MaxBits() {
		return ErrFamilyMismatch
	}
	pfx = pfx.Masked()
	return t.Delete(pfx.Addr().AsSlice(), pfx.Bits())
}

// LookupAddr resolves a parsed address against t. An address of the
// wrong family resolves to NoNextHop.
func LookupAddr(t Table, addr netip.Addr) uint32 {
	if addr.BitLen() != t.MaxBits() {
		return NoNextHop
	}
	return t.Lookup(addr.AsSlice())
}
