// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

// entry is one slot of a trie node, packed into a single machine word.
//
// Layout, most significant bit first:
//
//	bit  63     valid, a prefix terminates in this slot
//	bit  62     wide, the child is a 16-bit-stride node (Wide16 only)
//	bits 57-61  remainder, prefix bits consumed inside this node (1-16)
//	bits 32-56  child node index, 0 means no child in the 8-bit pool
//	bits  0-31  next hop
//
// The remainder field records how many of the node's stride bits the
// terminating prefix actually used, which is what allows expansion
// ranges of a shorter prefix to leave slots of a longer one untouched
// and lets delete find exactly the slots it owns.
type entry uint64

const (
	entryValid     entry = 1 << 63
	entryWide      entry = 1 << 62
	remainderShift       = 57
	remainderMask  entry = 0x1f << remainderShift
	childShift           = 32
	childMask      entry = 0x1ff_ffff << childShift
	nextHopMask    entry = 0xffff_ffff

	// maxNodeIndex is the largest index the 25-bit child field can hold.
	maxNodeIndex = 1<<25 - 1
)

// emptyEntry has no route, no child and the next-hop field preset to
// the invalid sentinel.
const emptyEntry = entry(NoNextHop)

func (e entry) valid() bool { return e&entryValid != 0 }
func (e entry) wide() bool  { return e&entryWide != 0 }

// remainder returns the stride bits consumed by the terminating prefix.
func (e entry) remainder() int { return int(e&remainderMask) >> remainderShift }

// child returns the child node index, 0 for none.
func (e entry) child() uint32 { return uint32((e & childMask) >> childShift) }

func (e entry) nextHop() uint32 { return uint32(e & nextHopMask) }

// hasChild reports whether the slot references a child node. Index 0 is
// the no-child sentinel of the 8-bit pool but a legal index in the
// 16-bit pool, hence the extra wide check.
func (e entry) hasChild() bool { return e.child() != 0 || e.wide() }

// withRoute returns e with the route fields replaced, keeping any child
// reference intact.
func (e entry) withRoute(remainder int, nextHop uint32) entry {
	e &^= entryValid | remainderMask | nextHopMask
	return e | entryValid | entry(remainder)<<remainderShift | entry(nextHop)
}

// withoutRoute returns e with the route fields cleared and the next hop
// preset to the invalid sentinel, keeping any child reference intact.
func (e entry) withoutRoute() entry {
	e &^= entryValid | remainderMask | nextHopMask
	return e | entry(NoNextHop)
}

// withChild returns e referencing the given child node, keeping any
// route intact.
func (e entry) withChild(idx uint32, wide bool) entry {
	e &^= entryWide | childMask
	e |= entry(idx) << childShift
	if wide {
		e |= entryWide
	}
	return e
}

// expandRange returns the first slot and the slot count of the
// expansion range for a prefix that terminates with remainder bits
// inside a node of strideBits, keyed by the stride index key.
// The range covers all slots whose top remainder bits equal those of
// the key, 2^(strideBits-remainder) slots in total.
func expandRange(key uint32, remainder, strideBits int) (base, count uint32) {
	count = 1 << (strideBits - remainder)
	base = key &^ (count - 1)
	return base, count
}
