// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

// Package lpm provides high-performance longest-prefix-match (LPM)
// tables for IPv4 and IPv6 addresses, the software equivalent of a
// router's FIB lookup stage.
//
// Four table algorithms are available behind one interface:
//
//   - Stride8v4: generic 8-bit-stride trie for IPv4
//   - Stride8v6: generic 8-bit-stride trie for IPv6
//   - Dir24v4:   DIR-24-8 direct table for IPv4
//   - Wide16v6:  16-16-16-8... wide-stride trie for IPv6
//
// The trie variants allocate their nodes from growable arenas and
// reference them by index, never by pointer, so pool growth can
// relocate storage without invalidating the trie. DIR-24-8 trades
// 64 MB of direct table for a one-to-two memory access lookup.
//
// Batch lookups are dispatched once per process to the widest lane
// kernel the host CPU supports (scalar, 4, 8 or 16 lanes); every tier
// produces bit-identical results.
//
// A table supports one concurrent mutator or arbitrarily many
// concurrent readers, never both. Distinct tables are fully
// independent. The package never locks and never logs; every failure
// is an error return.
package lpm

// Version of the lpm library.
const Version = "lpm 1.0.0"
