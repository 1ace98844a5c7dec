// Copyright (c) 2026 The fibtrie authors
// SPDX-License-Identifier: MIT

package lpm

// Batch lookup for DIR-24-8.
//
// Per group of W addresses the kernels do one parallel gather of W
// tbl24 words by address-derived index, then a second gather masked to
// the lanes whose word turned out to be extended, and finally blend
// valid lanes, invalid lanes and the default route. The remainder
// below a full group runs through the scalar core.

// LookupBatch resolves addrs into nextHops in input order.
func (t *Dir24) LookupBatch(addrs [][]byte, nextHops []uint32) error {
	if len(nextHops) < len(addrs) {
		return ErrBatchLength
	}
	if t.closed {
		return ErrTableClosed
	}
	for _, a := range addrs {
		if len(a) < 4 {
			for i := range addrs {
				nextHops[i] = t.Lookup(addrs[i])
			}
			return nil
		}
	}

	var done int
	switch vectorLanes() {
	case lanes16:
		done = t.gatherLanes16(addrs, nextHops)
	case lanes8:
		done = t.gatherLanes8(addrs, nextHops)
	case lanes4:
		done = t.gatherLanes4(addrs, nextHops)
	}
	for i := done; i < len(addrs); i++ {
		nextHops[i] = t.lookupIP(be32(addrs[i]))
	}
	return nil
}

// LookupBatch4 is the numeric overload of LookupBatch; ips are
// big-endian address values.
func (t *Dir24) LookupBatch4(ips []uint32, nextHops []uint32) error {
	if len(nextHops) < len(ips) {
		return ErrBatchLength
	}
	if t.closed {
		return ErrTableClosed
	}
	for i, ip := range ips {
		nextHops[i] = t.lookupIP(ip)
	}
	return nil
}

func be32(addr []byte) uint32 {
	return uint32(addr[0])<<24 | uint32(addr[1])<<16 | uint32(addr[2])<<8 | uint32(addr[3])
}

func (t *Dir24) gatherLanes4(addrs [][]byte, nextHops []uint32) int {
	def := NoNextHop
	if t.hasDefault {
		def = t.defaultNH
	}

	i := 0
	for ; i+lanes4 <= len(addrs); i += lanes4 {
		var ip, data [lanes4]uint32
		for j := range ip {
			ip[j] = be32(addrs[i+j])
		}
		for j := range data {
			data[j] = t.tbl24[ip[j]>>8]
		}
		var extLanes uint32
		for j := range data {
			if data[j]&dir24Ext != 0 {
				extLanes |= 1 << j
			}
		}
		if extLanes != 0 {
			for j := range data {
				if extLanes>>j&1 != 0 {
					data[j] = t.tbl8[(data[j]&dir24Mask)<<8|ip[j]&0xff]
				}
			}
		}
		for j := range data {
			if data[j]&dir24Valid != 0 {
				nextHops[i+j] = data[j] & dir24Mask
			} else {
				nextHops[i+j] = def
			}
		}
	}
	return i
}

func (t *Dir24) gatherLanes8(addrs [][]byte, nextHops []uint32) int {
	def := NoNextHop
	if t.hasDefault {
		def = t.defaultNH
	}

	i := 0
	for ; i+lanes8 <= len(addrs); i += lanes8 {
		var ip, data [lanes8]uint32
		for j := range ip {
			ip[j] = be32(addrs[i+j])
		}
		for j := range data {
			data[j] = t.tbl24[ip[j]>>8]
		}
		var extLanes uint32
		for j := range data {
			if data[j]&dir24Ext != 0 {
				extLanes |= 1 << j
			}
		}
		if extLanes != 0 {
			for j := range data {
				if extLanes>>j&1 != 0 {
					data[j] = t.tbl8[(data[j]&dir24Mask)<<8|ip[j]&0xff]
				}
			}
		}
		for j := range data {
			if data[j]&dir24Valid != 0 {
				nextHops[i+j] = data[j] & dir24Mask
			} else {
				nextHops[i+j] = def
			}
		}
	}
	return i
}

func (t *Dir24) gatherLanes16(addrs [][]byte, nextHops []uint32) int {
	def := NoNextHop
	if t.hasDefault {
		def = t.defaultNH
	}

	i := 0
	for ; i+lanes16 <= len(addrs); i += lanes16 {
		var ip, data [lanes16]uint32
		for j := range ip {
			ip[j] = be32(addrs[i+j])
		}
		for j := range data {
			data[j] = t.tbl24[ip[j]>>8]
		}
		var extLanes uint32
		for j := range data {
			if data[j]&dir24Ext != 0 {
				extLanes |= 1 << j
			}
		}
		if extLanes != 0 {
			for j := range data {
				if extLanes>>j&1 != 0 {
					data[j] = t.tbl8[(data[j]&dir24Mask)<<8|ip[j]&0xff]
				}
			}
		}
		for j := range data {
			if data[j]&dir24Valid != 0 {
				nextHops[i+j] = data[j] & dir24Mask
			} else {
				nextHops[i+j] = def
			}
		}
	}
	return i
}
