// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

import (
	"io"

	"github.com/sugawarayuuta/sonnet"
)

// MarshalRoutes serializes the registered routes of a table as a JSON
// array of {cidr, nextHop} objects, sorted by address and prefix
// length.
func MarshalRoutes(t Table) ([]byte, error) {
	return sonnet.Marshal(t.Routes())
}

// WriteRoutes writes the JSON route dump to w.
func WriteRoutes(w io.Writer, t Table) error {
	buf, err := MarshalRoutes(t)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// UnmarshalRoutes parses a JSON route dump produced by MarshalRoutes
// and adds every route to t, so a table can be rebuilt under any
// algorithm of the same address family.
func UnmarshalRoutes(t Table, data []byte) error {
	var routes []RouteEntry
	if err := sonnet.Unmarshal(data, &routes); err != nil {
		return err
	}
	for _, r := range routes {
		if err := InsertPrefix(t, r.CIDR, r.NextHop); err != nil {
			return err
		}
	}
	return nil
}
