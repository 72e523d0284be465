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
package storage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/swimkv/swimkv/core"
)

// Encode serializes m as a pipe-delimited ASCII line: fields depend on
// m.Type, per the wire format's per-type field table.
func Encode(m Message) string {
	fields := []string{strconv.FormatInt(m.TransID, 10), m.From.DialString(), strconv.Itoa(int(m.Type))}

	switch m.Type {
	case CREATE, UPDATE:
		fields = append(fields, m.Key, m.Value, strconv.Itoa(int(m.Replica)))
	case READ, DELETE:
		fields = append(fields, m.Key)
	case REPLY:
		fields = append(fields, strconv.FormatBool(m.Success))
	case READREPLY:
		fields = append(fields, m.Value)
	}

	return strings.Join(fields, "|")
}

// Decode parses a pipe-delimited storage wire line. Parsing tolerates
// empty trailing fields (e.g. READREPLY with a not-found empty value).
func Decode(line string) (Message, error) {
	fields := strings.Split(line, "|")
	if len(fields) < 3 {
		return Message{}, fmt.Errorf("storage: malformed message %q", line)
	}

	transID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Message{}, fmt.Errorf("storage: bad transID in %q: %w", line, err)
	}
	from, err := parseDialString(fields[1])
	if err != nil {
		return Message{}, fmt.Errorf("storage: bad from address in %q: %w", line, err)
	}
	typeCode, err := strconv.Atoi(fields[2])
	if err != nil {
		return Message{}, fmt.Errorf("storage: bad type in %q: %w", line, err)
	}
	m := Message{TransID: transID, From: from, Type: MessageType(typeCode)}

	switch m.Type {
	case CREATE, UPDATE:
		if len(fields) < 6 {
			return Message{}, fmt.Errorf("storage: %s message missing fields: %q", m.Type, line)
		}
		m.Key = fields[3]
		m.Value = fields[4]
		replica, err := strconv.Atoi(fields[5])
		if err != nil {
			return Message{}, fmt.Errorf("storage: bad replica in %q: %w", line, err)
		}
		m.Replica = core.ReplicaType(replica)
	case READ, DELETE:
		if len(fields) < 4 {
			return Message{}, fmt.Errorf("storage: %s message missing key: %q", m.Type, line)
		}
		m.Key = fields[3]
	case REPLY:
		if len(fields) < 4 {
			return Message{}, fmt.Errorf("storage: REPLY message missing success: %q", line)
		}
		success, err := strconv.ParseBool(fields[3])
		if err != nil {
			return Message{}, fmt.Errorf("storage: bad success in %q: %w", line, err)
		}
		m.Success = success
	case READREPLY:
		if len(fields) >= 4 {
			m.Value = fields[3]
		}
	default:
		return Message{}, fmt.Errorf("storage: unknown message type %d in %q", typeCode, line)
	}

	return m, nil
}

// parseDialString parses the "a.b.c.d:port" form back into an Address.
func parseDialString(s string) (core.Address, error) {
	host, portStr, ok := strings.Cut(s, ":")
	if !ok {
		return core.Address{}, fmt.Errorf("missing port in %q", s)
	}
	octets := strings.Split(host, ".")
	if len(octets) != 4 {
		return core.Address{}, fmt.Errorf("malformed host %q", host)
	}
	var id uint32
	for _, o := range octets {
		v, err := strconv.Atoi(o)
		if err != nil || v < 0 || v > 255 {
			return core.Address{}, fmt.Errorf("malformed octet %q", o)
		}
		id = id<<8 | uint32(v)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return core.Address{}, fmt.Errorf("malformed port %q", portStr)
	}
	return core.Address{ID: id, Port: uint16(port)}, nil
}
