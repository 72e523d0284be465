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
	"fmt"
	"strconv"
	"strings"
)

// Entry is the value a LocalStore maps a key to: the stored string value,
// the local heartbeat at which it was last written, and the replica role
// this node plays for the key.
type Entry struct {
	Value     string
	Timestamp int64
	Replica   ReplicaType
}

// NewEntry constructs an Entry. replica must not be RESERVED: RESERVED is a
// request-only sentinel and is never valid to persist.
func NewEntry(value string, timestamp int64, replica ReplicaType) Entry {
	if replica == RESERVED {
		panic("core: RESERVED is not a storable replica role")
	}
	return Entry{Value: value, Timestamp: timestamp, Replica: replica}
}

// Serialize encodes the entry as "value|timestamp|replica" for storage in a
// string-keyed LocalStore.
func (e Entry) Serialize() string {
	return fmt.Sprintf("%s|%d|%d", e.Value, e.Timestamp, int(e.Replica))
}

// ParseEntry decodes a serialized Entry. Returns an error if s is malformed.
func ParseEntry(s string) (Entry, error) {
	parts := strings.SplitN(s, "|", 3)
	if len(parts) != 3 {
		return Entry{}, fmt.Errorf("core: malformed entry %q", s)
	}
	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("core: malformed entry timestamp %q: %w", s, err)
	}
	replicaInt, err := strconv.Atoi(parts[2])
	if err != nil {
		return Entry{}, fmt.Errorf("core: malformed entry replica %q: %w", s, err)
	}
	return Entry{Value: parts[0], Timestamp: ts, Replica: ReplicaType(replicaInt)}, nil
}
