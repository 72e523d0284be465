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
package membership

import (
	"encoding/binary"
	"fmt"

	"github.com/swimkv/swimkv/core"
)

// MsgType tags a membership wire message.
type MsgType byte

const (
	JOINREQ MsgType = iota + 1
	JOINREP
	GOSSIPHB
)

func (t MsgType) String() string {
	switch t {
	case JOINREQ:
		return "JOINREQ"
	case JOINREP:
		return "JOINREP"
	case GOSSIPHB:
		return "GOSSIPHB"
	default:
		return fmt.Sprintf("MsgType(%d)", t)
	}
}

// messageSize is 1 type byte + 6 address bytes + 1 padding byte + 8
// heartbeat bytes.
const messageSize = 1 + core.AddressSize + 1 + 8

// Message is one decoded membership wire message: a type tag plus the
// (address, heartbeat) pair every membership message carries, per §6's
// "one peer per message" rule.
type Message struct {
	Type      MsgType
	Address   core.Address
	Heartbeat int64
}

// Encode serializes m into the fixed-width wire format: type tag, 6-byte
// address, 1 padding byte, 8-byte little-endian heartbeat.
func Encode(m Message) []byte {
	buf := make([]byte, messageSize)
	buf[0] = byte(m.Type)
	addr := m.Address.Bytes()
	copy(buf[1:1+core.AddressSize], addr[:])
	// buf[1+core.AddressSize] left as the padding byte, always zero.
	binary.LittleEndian.PutUint64(buf[1+core.AddressSize+1:], uint64(m.Heartbeat))
	return buf
}

// Decode parses a single membership wire message.
func Decode(buf []byte) (Message, error) {
	if len(buf) != messageSize {
		return Message{}, fmt.Errorf("membership: wire message has %d bytes, want %d", len(buf), messageSize)
	}
	var addrBytes [core.AddressSize]byte
	copy(addrBytes[:], buf[1:1+core.AddressSize])
	hb := binary.LittleEndian.Uint64(buf[1+core.AddressSize+1:])
	return Message{
		Type:      MsgType(buf[0]),
		Address:   core.AddressFromBytes(addrBytes),
		Heartbeat: int64(hb),
	}, nil
}
