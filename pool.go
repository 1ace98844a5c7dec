// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

// node8 is an 8-bit-stride trie node: one slot per possible next
// address byte.
type node8 struct {
	entries [256]entry
}

// node16 is a 16-bit-stride trie node used by the first levels of the
// Wide16 algorithm: one slot per possible next address word.
type node16 struct {
	entries [65536]entry
}

const (
	initialPoolSize8  = 256
	initialPoolSize16 = 4
	poolGrowthFactor  = 2
)

// nodePool8 is a growable arena of 8-bit-stride nodes. Nodes are
// referenced by index, never by pointer, so growth may relocate the
// backing array without invalidating references held in trie entries.
// Index 0 is reserved as the no-child sentinel and never handed out.
//
// There is no per-node free: deleted prefixes leave their nodes
// allocated but inert, the arena is reclaimed as a whole when the
// table is closed.
type nodePool8 struct {
	nodes []node8
	used  uint32
}

func newNodePool8() *nodePool8 {
	p := &nodePool8{
		nodes: make([]node8, 1, initialPoolSize8),
		used:  1, // index 0 reserved
	}
	return p
}

// alloc hands out the index of a fresh node with all next-hop fields
// preset to the invalid sentinel. Growth copies into a new backing
// array and swaps it in; every previously issued index stays valid.
func (p *nodePool8) alloc() (uint32, error) {
	if p.used > maxNodeIndex {
		return 0, ErrPoolExhausted
	}
	if int(p.used) == cap(p.nodes) {
		grown := make([]node8, p.used, cap(p.nodes)*poolGrowthFactor)
		copy(grown, p.nodes)
		p.nodes = grown
	}
	idx := p.used
	p.nodes = p.nodes[:idx+1]
	n := &p.nodes[idx]
	for i := range n.entries {
		n.entries[i] = emptyEntry
	}
	p.used++
	return idx, nil
}

// node returns the node at idx. The pointer is only valid until the
// next alloc.
func (p *nodePool8) node(idx uint32) *node8 { return &p.nodes[idx] }

// len returns the number of allocated nodes, excluding the reserved
// index 0.
func (p *nodePool8) len() int { return int(p.used) - 1 }

// bytes returns the memory held by the arena's backing array.
func (p *nodePool8) bytes() int { return cap(p.nodes) * 256 * 8 }

// nodePool16 is the 16-bit-stride arena of the Wide16 algorithm.
// Unlike the 8-bit pool, index 0 is a legal node index (the root); the
// wide flag of the referencing entry stands in for the sentinel.
type nodePool16 struct {
	nodes []node16
	used  uint32
}

func newNodePool16() *nodePool16 {
	return &nodePool16{nodes: make([]node16, 0, initialPoolSize16)}
}

func (p *nodePool16) alloc() (uint32, error) {
	if p.used > maxNodeIndex {
		return 0, ErrPoolExhausted
	}
	if int(p.used) == cap(p.nodes) {
		grown := make([]node16, p.used, cap(p.nodes)*poolGrowthFactor)
		copy(grown, p.nodes)
		p.nodes = grown
	}
	idx := p.used
	p.nodes = p.nodes[:idx+1]
	n := &p.nodes[idx]
	for i := range n.entries {
		n.entries[i] = emptyEntry
	}
	p.used++
	return idx, nil
}

func (p *nodePool16) node(idx uint32) *node16 { return &p.nodes[idx] }

func (p *nodePool16) len() int { return int(p.used) }

func (p *nodePool16) bytes() int { return cap(p.nodes) * 65536 * 8 }
