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

	"github.com/swimkv/swimkv/core"
)

// MessageType identifies one of the storage message family's six kinds.
type MessageType int

const (
	CREATE MessageType = iota
	READ
	UPDATE
	DELETE
	REPLY
	READREPLY
)

func (t MessageType) String() string {
	switch t {
	case CREATE:
		return "CREATE"
	case READ:
		return "READ"
	case UPDATE:
		return "UPDATE"
	case DELETE:
		return "DELETE"
	case REPLY:
		return "REPLY"
	case READREPLY:
		return "READREPLY"
	default:
		return fmt.Sprintf("MessageType(%d)", int(t))
	}
}

// Message is a decoded storage wire message. Not every field applies to
// every Type; see the per-type field table in the wire format.
type Message struct {
	TransID int64
	From    core.Address
	Type    MessageType

	Key     string
	Value   string
	Replica core.ReplicaType

	Success bool
}
