// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

import (
	"testing"
)

func TestEntryPacking(t *testing.T) {
	t.Parallel()
	e := emptyEntry
	if e.valid() || e.hasChild() {
		t.Errorf("emptyEntry = %#x, want no route and no child", uint64(e))
	}
	if e.nextHop() != NoNextHop {
		t.Errorf("emptyEntry.nextHop() = %d, want NoNextHop", e.nextHop())
	}

	e = e.withRoute(5, 12345)
	if !e.valid() || e.remainder() != 5 || e.nextHop() != 12345 {
		t.Errorf("withRoute(5, 12345) = %#x", uint64(e))
	}

	e = e.withChild(99, false)
	if e.child() != 99 || e.wide() || !e.hasChild() {
		t.Errorf("withChild(99, false) = %#x", uint64(e))
	}
	if !e.valid() || e.remainder() != 5 || e.nextHop() != 12345 {
		t.Errorf("withChild clobbered the route: %#x", uint64(e))
	}

	e = e.withoutRoute()
	if e.valid() || e.nextHop() != NoNextHop || e.remainder() != 0 {
		t.Errorf("withoutRoute() = %#x", uint64(e))
	}
	if e.child() != 99 {
		t.Errorf("withoutRoute clobbered the child: %#x", uint64(e))
	}

	// Wide child at index 0 is a legal reference.
	e = emptyEntry.withChild(0, true)
	if !e.hasChild() || !e.wide() || e.child() != 0 {
		t.Errorf("withChild(0, true) = %#x", uint64(e))
	}

	// Extremes of every field survive a round trip.
	e = emptyEntry.withRoute(16, NoNextHop-1).withChild(maxNodeIndex, true)
	if e.remainder() != 16 || e.nextHop() != NoNextHop-1 || e.child() != maxNodeIndex || !e.wide() {
		t.Errorf("extreme fields = %#x", uint64(e))
	}
}

func TestExpandRange(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		key        uint32
		remainder  int
		strideBits int
		base       uint32
		count      uint32
	}{
		{0b1010_0000, 1, 8, 0b1000_0000, 128},
		{0b1010_0000, 3, 8, 0b1010_0000, 32},
		{0b1010_1010, 8, 8, 0b1010_1010, 1},
		{0b1111_1111, 4, 8, 0b1111_0000, 16},
		{0x2001, 1, 16, 0x0000, 32768},
		{0x2001, 16, 16, 0x2001, 1},
		{0xFFEE, 8, 16, 0xFF00, 256},
	}
	for _, tc := range testCases {
		base, count := expandRange(tc.key, tc.remainder, tc.strideBits)
		if base != tc.base || count != tc.count {
			t.Errorf("expandRange(%#x, %d, %d) = (%#x, %d), want (%#x, %d)",
				tc.key, tc.remainder, tc.strideBits, base, count, tc.base, tc.count)
		}
	}
}

func TestPoolGrowthKeepsIndices(t *testing.T) {
	t.Parallel()
	p := newNodePool8()

	// Fill past several growth steps, tagging each node through its
	// index, then verify the tags after all relocations.
	const nodes = 4 * initialPoolSize8
	idxs := make([]uint32, nodes)
	for i := range idxs {
		idx, err := p.alloc()
		if err != nil {
			t.Fatalf("alloc #%d: %v", i, err)
		}
		if idx == 0 {
			t.Fatal("alloc handed out the reserved index 0")
		}
		idxs[i] = idx
		p.node(idx).entries[0] = emptyEntry.withRoute(8, uint32(i))
	}

	for i, idx := range idxs {
		e := p.node(idx).entries[0]
		if !e.valid() || e.nextHop() != uint32(i) {
			t.Fatalf("node %d lost its tag after growth: %#x", idx, uint64(e))
		}
	}
	if p.len() != nodes {
		t.Errorf("len() = %d, want %d", p.len(), nodes)
	}
}

func TestPool16GrowthKeepsIndices(t *testing.T) {
	t.Parallel()
	p := newNodePool16()

	const nodes = 4 * initialPoolSize16
	for i := 0; i < nodes; i++ {
		idx, err := p.alloc()
		if err != nil {
			t.Fatalf("alloc #%d: %v", i, err)
		}
		if idx != uint32(i) {
			t.Fatalf("alloc #%d = %d, 16-bit pool indices start at 0", i, idx)
		}
		p.node(idx).entries[0] = emptyEntry.withRoute(16, uint32(i))
	}

	for i := 0; i < nodes; i++ {
		e := p.node(uint32(i)).entries[0]
		if !e.valid() || e.nextHop() != uint32(i) {
			t.Fatalf("node %d lost its tag after growth: %#x", i, uint64(e))
		}
	}
}

func TestPoolFreshNodesInvalid(t *testing.T) {
	t.Parallel()
	p := newNodePool8()
	idx, err := p.alloc()
	if err != nil {
		t.Fatal(err)
	}
	for i, e := range p.node(idx).entries {
		if e != emptyEntry {
			t.Fatalf("fresh node entry %d = %#x, want emptyEntry", i, uint64(e))
		}
	}
}

func TestRegistryCovering(t *testing.T) {
	t.Parallel()
	r := registry{}
	p := addrBytes(mpa("10.1.2.0"))
	r.insert(p, 8, 100)
	r.insert(p, 16, 200)
	r.insert(addrBytes(mpa("0.0.0.0")), 0, 7)

	if nh, bits, ok := r.covering(p, 24); !ok || bits != 16 || nh != 200 {
		t.Errorf("covering(/24) = (%d, %d, %v), want (200, 16, true)", nh, bits, ok)
	}
	if nh, bits, ok := r.covering(p, 16); !ok || bits != 8 || nh != 100 {
		t.Errorf("covering(/16) = (%d, %d, %v), want (100, 8, true)", nh, bits, ok)
	}
	// The default route never acts as a covering route.
	if _, _, ok := r.covering(p, 8); ok {
		t.Error("covering(/8) found a route, want none")
	}
}

func TestTrieNodeCount(t *testing.T) {
	t.Parallel()
	tbl := New4()
	defer tbl.Close()

	// Root only.
	if got := tbl.Stats().Nodes; got != 1 {
		t.Fatalf("empty trie Nodes = %d, want 1", got)
	}

	// A /8 terminates in the root.
	if err := InsertPrefix(tbl, mpp("10.0.0.0/8"), 1); err != nil {
		t.Fatal(err)
	}
	if got := tbl.Stats().Nodes; got != 1 {
		t.Errorf("after /8 Nodes = %d, want 1", got)
	}

	// A /32 needs the three levels below the root.
	if err := InsertPrefix(tbl, mpp("10.1.2.3/32"), 2); err != nil {
		t.Fatal(err)
	}
	if got := tbl.Stats().Nodes; got != 4 {
		t.Errorf("after /32 Nodes = %d, want 4", got)
	}

	// Deleting never frees nodes.
	if err := DeletePrefix(tbl, mpp("10.1.2.3/32")); err != nil {
		t.Fatal(err)
	}
	if got := tbl.Stats().Nodes; got != 4 {
		t.Errorf("after delete Nodes = %d, want 4", got)
	}
}

// TestTrieSameNodeOverlap pins the slot arithmetic for prefixes of
// different length terminating in the same node.
func TestTrieSameNodeOverlap(t *testing.T) {
	t.Parallel()
	tbl := New4()
	defer tbl.Close()

	// 10.0.0.0/9 expands over half the level-1 node, 10.64.0.0/10 over a
	// quarter inside it.
	if err := InsertPrefix(tbl, mpp("10.64.0.0/10"), 10); err != nil {
		t.Fatal(err)
	}
	if err := InsertPrefix(tbl, mpp("10.0.0.0/9"), 9); err != nil {
		t.Fatal(err)
	}

	if got := LookupAddr(tbl, mpa("10.64.0.1")); got != 10 {
		t.Errorf("addr in /10 = %d, want 10", got)
	}
	if got := LookupAddr(tbl, mpa("10.0.0.1")); got != 9 {
		t.Errorf("addr in /9 only = %d, want 9", got)
	}
	if got := LookupAddr(tbl, mpa("10.128.0.1")); got != NoNextHop {
		t.Errorf("addr outside /9 = %d, want NoNextHop", got)
	}

	// Deleting the /9 leaves the /10 intact.
	if err := DeletePrefix(tbl, mpp("10.0.0.0/9")); err != nil {
		t.Fatal(err)
	}
	if got := LookupAddr(tbl, mpa("10.64.0.1")); got != 10 {
		t.Errorf("after /9 delete, addr in /10 = %d, want 10", got)
	}
	if got := LookupAddr(tbl, mpa("10.0.0.1")); got != NoNextHop {
		t.Errorf("after /9 delete, addr in /9 only = %d, want NoNextHop", got)
	}
}

func TestTrieV6FullDepth(t *testing.T) {
	t.Parallel()
	tbl := New6()
	defer tbl.Close()

	if err := InsertPrefix(tbl, mpp("2001:db8::/32"), 1); err != nil {
		t.Fatal(err)
	}
	if err := InsertPrefix(tbl, mpp("2001:db8::1/128"), 2); err != nil {
		t.Fatal(err)
	}

	if got := LookupAddr(tbl, mpa("2001:db8::1")); got != 2 {
		t.Errorf("/128 match = %d, want 2", got)
	}
	if got := LookupAddr(tbl, mpa("2001:db8::2")); got != 1 {
		t.Errorf("/32 match = %d, want 1", got)
	}
	if got := LookupAddr(tbl, mpa("2001:db9::1")); got != NoNextHop {
		t.Errorf("no match = %d, want NoNextHop", got)
	}
}
