// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

// Batch lookup for the wide-stride trie. One kernel serves all lane
// widths: the group size is the only tier difference, the per-level
// lane structure is identical. Lanes walk the three wide levels first,
// every surviving lane then sits on an 8-bit node at byte offset 6 and
// the narrow levels finish the walk.

// LookupBatch resolves addrs into nextHops in input order.
func (t *Wide16) LookupBatch(addrs [][]byte, nextHops []uint32) error {
	if len(nextHops) < len(addrs) {
		return ErrBatchLength
	}
	if t.closed {
		return ErrTableClosed
	}
	for _, a := range addrs {
		if len(a) < 16 {
			for i := range addrs {
				nextHops[i] = t.Lookup(addrs[i])
			}
			return nil
		}
	}

	i := 0
	if w := vectorLanes(); w > 1 {
		for ; i+w <= len(addrs); i += w {
			t.lookupLanes(addrs[i:i+w], nextHops[i:i+w])
		}
	}
	for ; i < len(addrs); i++ {
		nextHops[i] = t.lookupWalk(addrs[i])
	}
	return nil
}

// lookupLanes resolves one group of up to 16 addresses, level
// synchronous across lanes.
func (t *Wide16) lookupLanes(addrs [][]byte, nextHops []uint32) {
	var nBuf, rBuf [lanes16]uint32
	var wideBuf, aliveBuf [lanes16]bool

	w := len(addrs)
	n, r := nBuf[:w], rBuf[:w]
	isWide, alive := wideBuf[:w], aliveBuf[:w]
	for j := 0; j < w; j++ {
		n[j] = t.root
		r[j] = NoNextHop
		isWide[j] = true
		alive[j] = true
	}

	for level := 0; level < wideLevels; level++ {
		live := false
		for j := 0; j < w; j++ {
			if !alive[j] {
				continue
			}
			a := addrs[j]
			e := t.wide.nodes[n[j]].entries[uint32(a[2*level])<<8|uint32(a[2*level+1])]
			if e.valid() {
				r[j] = e.nextHop()
			}
			if !e.hasChild() {
				alive[j] = false
				continue
			}
			n[j] = e.child()
			isWide[j] = e.wide()
			live = true
		}
		if !live {
			break
		}
	}

	// Children below the last wide level are always 8-bit nodes, so
	// every surviving lane resumes at byte 6.
	for d := 2 * wideLevels; d < 16; d++ {
		live := false
		for j := 0; j < w; j++ {
			if !alive[j] || isWide[j] {
				continue
			}
			e := t.pool.nodes[n[j]].entries[addrs[j][d]]
			if e.valid() {
				r[j] = e.nextHop()
			}
			if n[j] = e.child(); n[j] == 0 {
				alive[j] = false
				continue
			}
			live = true
		}
		if !live {
			break
		}
	}

	for j := 0; j < w; j++ {
		if r[j] == NoNextHop && t.hasDefault {
			r[j] = t.defaultNH
		}
		nextHops[j] = r[j]
	}
}
