// Copyright (c) 2016-2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package core

import (
	"encoding/binary"
	"fmt"
)

// AddressSize is the wire width of an Address: a 4-byte id plus a 2-byte port.
const AddressSize = 6

// IntroducerID and IntroducerPort identify the well-known bootstrap node
// every joiner contacts first.
const (
	IntroducerID   = 1
	IntroducerPort = 0
)

// Address identifies a node by a 4-byte id and a 2-byte port, mirroring the
// 6-byte raw buffer the original implementation read integer fields out of
// via unaligned casts. This type pins down an explicit, endianness-stable
// layout instead.
type Address struct {
	ID   uint32
	Port uint16
}

// Introducer returns the fixed (id=1, port=0) bootstrap address.
func Introducer() Address {
	return Address{ID: IntroducerID, Port: IntroducerPort}
}

// IsIntroducer reports whether a is the well-known introducer address.
func (a Address) IsIntroducer() bool {
	return a == Introducer()
}

// Less orders addresses lexicographically by (id, port), the same ordering
// PeerView and Ring entries are sorted by.
func (a Address) Less(b Address) bool {
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	return a.Port < b.Port
}

// String renders the address as "a.b.c.d:port" using the big-endian byte
// decomposition of ID as four dotted octets, matching the original's
// printAddress debug format.
func (a Address) String() string {
	b := a.Bytes()
	return fmt.Sprintf("%d.%d.%d.%d:%d", b[0], b[1], b[2], b[3], a.Port)
}

// Bytes encodes the address into its 6-byte wire representation:
// 4-byte big-endian id followed by 2-byte big-endian port.
func (a Address) Bytes() [AddressSize]byte {
	var buf [AddressSize]byte
	binary.BigEndian.PutUint32(buf[0:4], a.ID)
	binary.BigEndian.PutUint16(buf[4:6], a.Port)
	return buf
}

// AddressFromBytes decodes a 6-byte wire buffer into an Address.
func AddressFromBytes(buf [AddressSize]byte) Address {
	return Address{
		ID:   binary.BigEndian.Uint32(buf[0:4]),
		Port: binary.BigEndian.Uint16(buf[4:6]),
	}
}

// DialString returns the "host:port" form of an address suitable for the
// dotted-quad-plus-port "from" field in the storage wire format.
func (a Address) DialString() string {
	b := a.Bytes()
	return fmt.Sprintf("%d.%d.%d.%d:%d", b[0], b[1], b[2], b[3], a.Port)
}
