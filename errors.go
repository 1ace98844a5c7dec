// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

import "errors"

// NoNextHop is the sentinel returned by lookups when neither a prefix
// nor a default route matches the address. It is the maximum
// representable value of the next-hop width and can therefore never be
// registered as a real next hop on tables that restrict the range
// (DIR-24-8) and never collides with one elsewhere in practice.
const NoNextHop = ^uint32(0)

var (
	// ErrInvalidPrefix is returned when the prefix bytes are too short
	// for the prefix length or the length exceeds the address family's
	// bit width.
	ErrInvalidPrefix = errors.New("lpm: invalid prefix")

	// ErrPrefixNotFound is returned by Delete when no exact
	// prefix/length match is registered.
	ErrPrefixNotFound = errors.New("lpm: prefix not found")

	// ErrFamilyMismatch is returned by the netip adapters when the
	// address family of the argument does not match the table's.
	ErrFamilyMismatch = errors.New("lpm: address family mismatch")

	// ErrNextHopRange is returned by DIR-24-8 tables for next-hop
	// values that do not fit in 30 bits.
	ErrNextHopRange = errors.New("lpm: next hop exceeds 30 bits")

	// ErrTableClosed is returned for mutations on a closed table.
	ErrTableClosed = errors.New("lpm: table closed")

	// ErrPoolExhausted is returned when the node index space is used
	// up; the table remains in its last valid state.
	ErrPoolExhausted = errors.New("lpm: node pool exhausted")

	// ErrBatchLength is returned when the next-hop slice of a batch
	// lookup is shorter than the address slice.
	ErrBatchLength = errors.New("lpm: batch output slice too short")
)
