// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

import (
	"fmt"
	"math/rand/v2"
	"net/netip"
	"testing"
)

// this file contains helpers for the other test functions

// newPRNG returns a deterministic generator; parallel tests each get
// their own.
func newPRNG() *rand.Rand {
	return rand.New(rand.NewPCG(42, 42))
}

// abbreviation
var mpa = netip.MustParseAddr

// abbreviation, panics on non masked input
var mpp = func(s string) netip.Prefix {
	pfx := netip.MustParsePrefix(s)
	if pfx == pfx.Masked() {
		return pfx
	}
	panic(fmt.Sprintf("%s is not canonicalized as %s", s, pfx.Masked()))
}

// workLoadN to adjust loops for tests with -short
func workLoadN() int {
	if testing.Short() {
		return 200
	}
	return 2_000
}

func pfxBytes(pfx netip.Prefix) ([]byte, int) {
	return pfx.Addr().AsSlice(), pfx.Bits()
}

func addrBytes(addr netip.Addr) []byte {
	return addr.AsSlice()
}

func randomAddr4(rng *rand.Rand) netip.Addr {
	var b [4]byte
	for i := range b {
		b[i] = byte(rng.UintN(256))
	}
	return netip.AddrFrom4(b)
}

func randomAddr6(rng *rand.Rand) netip.Addr {
	var b [16]byte
	for i := range b {
		b[i] = byte(rng.UintN(256))
	}
	return netip.AddrFrom16(b)
}

func randomPrefix4(rng *rand.Rand) netip.Prefix {
	pfx, err := randomAddr4(rng).Prefix(rng.IntN(33))
	if err != nil {
		panic(err)
	}
	return pfx
}

func randomPrefix6(rng *rand.Rand) netip.Prefix {
	pfx, err := randomAddr6(rng).Prefix(rng.IntN(129))
	if err != nil {
		panic(err)
	}
	return pfx
}

// clusteredAddr4 returns an address biased into 10.0.0.0/8 so that
// random probes actually hit the registered test routes now and then.
func clusteredAddr4(rng *rand.Rand) netip.Addr {
	var b [4]byte
	b[0] = 10
	for i := 1; i < 4; i++ {
		b[i] = byte(rng.UintN(4))
	}
	return netip.AddrFrom4(b)
}

// clusteredPrefix4 returns a prefix inside 10.0.0.0/8.
func clusteredPrefix4(rng *rand.Rand) netip.Prefix {
	var b [4]byte
	b[0] = 10
	for i := 1; i < 4; i++ {
		b[i] = byte(rng.UintN(4))
	}
	bits := 8 + rng.IntN(25)
	pfx, err := netip.AddrFrom4(b).Prefix(bits)
	if err != nil {
		panic(err)
	}
	return pfx
}

// clusteredAddr6 and clusteredPrefix6 bias into 2001:db8::/32.
func clusteredAddr6(rng *rand.Rand) netip.Addr {
	var b [16]byte
	b[0], b[1], b[2], b[3] = 0x20, 0x01, 0x0d, 0xb8
	for i := 4; i < 16; i++ {
		b[i] = byte(rng.UintN(4))
	}
	return netip.AddrFrom16(b)
}

func clusteredPrefix6(rng *rand.Rand) netip.Prefix {
	var b [16]byte
	b[0], b[1], b[2], b[3] = 0x20, 0x01, 0x0d, 0xb8
	for i := 4; i < 16; i++ {
		b[i] = byte(rng.UintN(4))
	}
	bits := 32 + rng.IntN(97)
	pfx, err := netip.AddrFrom16(b).Prefix(bits)
	if err != nil {
		panic(err)
	}
	return pfx
}

// randomNextHop stays within the 30-bit range DIR-24-8 accepts, so the
// same value set works across all algorithms.
func randomNextHop(rng *rand.Rand) uint32 {
	return uint32(rng.UintN(1 << 30))
}

// tables4 returns one fresh table per IPv4 algorithm.
func tables4() map[string]Table {
	return map[string]Table{
		"stride8-v4": New4(),
		"dir24-v4":   NewDir24(),
	}
}

// tables6 returns one fresh table per IPv6 algorithm.
func tables6() map[string]Table {
	return map[string]Table{
		"stride8-v6": New6(),
		"wide16-v6":  NewWide16(),
	}
}
