// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

import (
	"sync"

	"golang.org/x/sys/cpu"
)

// The batch kernels come in fixed lane widths. The width used by a
// process is decided exactly once, on first batch lookup, from the
// host's vector capability: wider vector units sustain more
// independent in-flight table probes per loop. Every width produces
// identical results; only throughput differs.
const (
	lanesScalar = 1
	lanes4      = 4
	lanes8      = 8
	lanes16     = 16
)

var dispatch struct {
	once  sync.Once
	lanes int
}

// vectorLanes returns the lane width bound to this process.
func vectorLanes() int {
	dispatch.once.Do(func() { dispatch.lanes = detectVectorLanes() })
	return dispatch.lanes
}

// detectVectorLanes probes the CPU capability tiers, widest first.
// Hosts without any advanced tier fall back to scalar.
func detectVectorLanes() int {
	switch {
	case cpu.X86.HasAVX512F:
		return lanes16
	case cpu.X86.HasAVX2:
		return lanes8
	case cpu.X86.HasSSE42 || cpu.ARM64.HasASIMD:
		return lanes4
	default:
		return lanesScalar
	}
}

// forceVectorLanes overrides the bound lane width, returning the
// previous one. Tests use it to exercise every kernel on any host.
func forceVectorLanes(n int) (prev int) {
	prev = vectorLanes()
	dispatch.lanes = n
	return prev
}
