// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

// Command lpm is a small harness around the lpm package: it loads a
// routes file, prints table statistics or runs a lookup benchmark.
// A routes file holds one "CIDR next-hop" pair per line, '#' comments.
package main

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/sugawarayuuta/sonnet"

	"github.com/fibtrie/lpm"
)

var (
	algoName string
	asJSON   bool
	probes   int
)

func main() {
	root := &cobra.Command{
		Use:           "lpm",
		Short:         "longest-prefix-match table harness",
		Version:       lpm.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&algoName, "algo", "dir24-v4",
		"table algorithm: stride8-v4, stride8-v6, dir24-v4, wide16-v6")

	statsCmd := &cobra.Command{
		Use:   "stats <routes-file>",
		Short: "load a routes file and print table statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  runStats,
	}
	statsCmd.Flags().BoolVar(&asJSON, "json", false, "emit statistics as JSON")

	benchCmd := &cobra.Command{
		Use:   "bench <routes-file>",
		Short: "load a routes file and measure batch lookup throughput",
		Args:  cobra.ExactArgs(1),
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&probes, "probes", 1_000_000, "number of random addresses to resolve")

	root.AddCommand(statsCmd, benchCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lpm:", err)
		os.Exit(1)
	}
}

func newTable() (lpm.Table, bool, error) {
	for _, a := range []lpm.Algorithm{lpm.Stride8v4, lpm.Stride8v6, lpm.Dir24v4, lpm.Wide16v6} {
		if a.String() == algoName {
			tbl, err := lpm.New(a)
			return tbl, a == lpm.Stride8v4 || a == lpm.Dir24v4, err
		}
	}
	return nil, false, fmt.Errorf("unknown algorithm %q", algoName)
}

func loadRoutes(tbl lpm.Table, is4 bool, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return n, fmt.Errorf("malformed line %q", line)
		}
		pfx, err := netip.ParsePrefix(fields[0])
		if err != nil {
			return n, err
		}
		if pfx.Addr().Is4() != is4 {
			continue // other family, skip
		}
		nh, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return n, err
		}
		if err := lpm.InsertPrefix(tbl, pfx, uint32(nh)); err != nil {
			return n, err
		}
		n++
	}
	return n, scanner.Err()
}

func runStats(cmd *cobra.Command, args []string) error {
	tbl, is4, err := newTable()
	if err != nil {
		return err
	}
	defer tbl.Close()

	if _, err := loadRoutes(tbl, is4, args[0]); err != nil {
		return err
	}

	stats := tbl.Stats()
	if asJSON {
		buf, err := sonnet.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(buf))
		return nil
	}
	fmt.Print(stats)
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	tbl, is4, err := newTable()
	if err != nil {
		return err
	}
	defer tbl.Close()

	n, err := loadRoutes(tbl, is4, args[0])
	if err != nil {
		return err
	}

	prng := rand.New(rand.NewPCG(42, 42))
	addrs := make([][]byte, probes)
	for i := range addrs {
		if is4 {
			a := prng.Uint32()
			addrs[i] = []byte{byte(a >> 24), byte(a >> 16), byte(a >> 8), byte(a)}
		} else {
			a := make([]byte, 16)
			for j := 0; j < 16; j += 8 {
				v := prng.Uint64()
				for k := 0; k < 8; k++ {
					a[j+k] = byte(v >> (56 - 8*k))
				}
			}
			addrs[i] = a
		}
	}
	nextHops := make([]uint32, len(addrs))

	start := time.Now()
	if err := tbl.LookupBatch(addrs, nextHops); err != nil {
		return err
	}
	elapsed := time.Since(start)

	misses := 0
	for _, nh := range nextHops {
		if nh == lpm.NoNextHop {
			misses++
		}
	}
	fmt.Printf("routes: %d, probes: %d, misses: %d\n", n, probes, misses)
	fmt.Printf("elapsed: %s (%.1f ns/lookup, %.2f Mlps)\n", elapsed,
		float64(elapsed.Nanoseconds())/float64(probes),
		float64(probes)/elapsed.Seconds()/1e6)
	return nil
}
