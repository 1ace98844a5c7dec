// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

import (
	"fmt"
	"strings"
)

// Stats is a snapshot of a table's public counters and memory totals,
// meant for display; nothing in the package reads it back.
type Stats struct {
	Algorithm  Algorithm `json:"algorithm"`
	Prefixes   int       `json:"prefixes"`
	Nodes      int       `json:"nodes,omitempty"`
	WideNodes  int       `json:"wideNodes,omitempty"`
	Tbl8Groups int       `json:"tbl8Groups,omitempty"`
	Bytes      int       `json:"bytes"`

	CacheEnabled bool   `json:"cacheEnabled"`
	CacheHits    uint64 `json:"cacheHits"`
	CacheMisses  uint64 `json:"cacheMisses"`
}

func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "algorithm: %s\n", s.Algorithm)
	fmt.Fprintf(&b, "prefixes:  %d\n", s.Prefixes)
	switch s.Algorithm {
	case Dir24v4:
		fmt.Fprintf(&b, "tbl8 groups: %d\n", s.Tbl8Groups)
	case Wide16v6:
		fmt.Fprintf(&b, "nodes: %d (8-bit), %d (16-bit)\n", s.Nodes, s.WideNodes)
	default:
		fmt.Fprintf(&b, "nodes: %d\n", s.Nodes)
	}
	fmt.Fprintf(&b, "memory: %.2f MB\n", float64(s.Bytes)/(1<<20))
	if s.CacheEnabled {
		ratio := 0.0
		if total := s.CacheHits + s.CacheMisses; total > 0 {
			ratio = 100 * float64(s.CacheHits) / float64(total)
		}
		fmt.Fprintf(&b, "hot cache: enabled (hits: %d, misses: %d, ratio: %.1f%%)\n",
			s.CacheHits, s.CacheMisses, ratio)
	} else {
		fmt.Fprintf(&b, "hot cache: disabled\n")
	}
	return b.String()
}

// MarshalJSON emits the algorithm by name.
func (a Algorithm) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}
