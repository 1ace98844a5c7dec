// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

// Batch lookup for the stride-8 trie.
//
// The lane kernels walk all W addresses of a group level by level,
// keeping W in-flight node indices and W partial results, so the
// independent table probes of a level overlap in the memory system.
// A lane whose walk ended (no child) goes dead and is skipped; the
// group ends early once every lane is dead. The remainder below a full
// group is processed by the scalar loop. All widths return the same
// results as Lookup, address by address.

// LookupBatch resolves addrs into nextHops in input order.
func (t *Trie) LookupBatch(addrs [][]byte, nextHops []uint32) error {
	if len(nextHops) < len(addrs) {
		return ErrBatchLength
	}
	if t.closed {
		return ErrTableClosed
	}
	minLen := t.maxBits >> 3
	for _, a := range addrs {
		if len(a) < minLen {
			// Defective input somewhere in the batch: resolve every
			// address on the checked scalar path.
			for i := range addrs {
				nextHops[i] = t.Lookup(addrs[i])
			}
			return nil
		}
	}

	var done int
	switch vectorLanes() {
	case lanes16:
		done = t.lookupLanes16(addrs, nextHops)
	case lanes8:
		done = t.lookupLanes8(addrs, nextHops)
	case lanes4:
		done = t.lookupLanes4(addrs, nextHops)
	}
	for i := done; i < len(addrs); i++ {
		nextHops[i] = t.lookupWalk(addrs[i])
	}
	return nil
}

func (t *Trie) lookupLanes4(addrs [][]byte, nextHops []uint32) int {
	pool := t.pool.nodes
	def := NoNextHop
	if t.hasDefault {
		def = t.defaultNH
	}
	levels := t.maxBits >> 3

	i := 0
	for ; i+lanes4 <= len(addrs); i += lanes4 {
		var n [lanes4]uint32
		var r [lanes4]uint32
		for j := range n {
			n[j] = t.root
			r[j] = NoNextHop
		}
		for d := 0; d < levels; d++ {
			live := false
			for j := 0; j < lanes4; j++ {
				if n[j] == 0 {
					continue
				}
				e := pool[n[j]].entries[addrs[i+j][d]]
				if e.valid() {
					r[j] = e.nextHop()
				}
				if n[j] = e.child(); n[j] != 0 {
					live = true
				}
			}
			if !live {
				break
			}
		}
		for j := 0; j < lanes4; j++ {
			if r[j] == NoNextHop {
				r[j] = def
			}
			nextHops[i+j] = r[j]
		}
	}
	return i
}

func (t *Trie) lookupLanes8(addrs [][]byte, nextHops []uint32) int {
	pool := t.pool.nodes
	def := NoNextHop
	if t.hasDefault {
		def = t.defaultNH
	}
	levels := t.maxBits >> 3

	i := 0
	for ; i+lanes8 <= len(addrs); i += lanes8 {
		var n [lanes8]uint32
		var r [lanes8]uint32
		for j := range n {
			n[j] = t.root
			r[j] = NoNextHop
		}
		for d := 0; d < levels; d++ {
			live := false
			for j := 0; j < lanes8; j++ {
				if n[j] == 0 {
					continue
				}
				e := pool[n[j]].entries[addrs[i+j][d]]
				if e.valid() {
					r[j] = e.nextHop()
				}
				if n[j] = e.child(); n[j] != 0 {
					live = true
				}
			}
			if !live {
				break
			}
		}
		for j := 0; j < lanes8; j++ {
			if r[j] == NoNextHop {
				r[j] = def
			}
			nextHops[i+j] = r[j]
		}
	}
	return i
}

func (t *Trie) lookupLanes16(addrs [][]byte, nextHops []uint32) int {
	pool := t.pool.nodes
	def := NoNextHop
	if t.hasDefault {
		def = t.defaultNH
	}
	levels := t.maxBits >> 3

	i := 0
	for ; i+lanes16 <= len(addrs); i += lanes16 {
		var n [lanes16]uint32
		var r [lanes16]uint32
		for j := range n {
			n[j] = t.root
			r[j] = NoNextHop
		}
		for d := 0; d < levels; d++ {
			live := false
			for j := 0; j < lanes16; j++ {
				if n[j] == 0 {
					continue
				}
				e := pool[n[j]].entries[addrs[i+j][d]]
				if e.valid() {
					r[j] = e.nextHop()
				}
				if n[j] = e.child(); n[j] != 0 {
					live = true
				}
			}
			if !live {
				break
			}
		}
		for j := 0; j < lanes16; j++ {
			if r[j] == NoNextHop {
				r[j] = def
			}
			nextHops[i+j] = r[j]
		}
	}
	return i
}
