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

// Package network defines the simulated message-passing substrate the
// membership and storage layers send and receive opaque byte payloads
// over. It is the one piece of shared mutable state between nodes in this
// module: every other piece of per-node state is owned exclusively by the
// owning node.
package network

import "github.com/swimkv/swimkv/core"

// Packet is a single opaque payload addressed from one node to another.
type Packet struct {
	From    core.Address
	To      core.Address
	Payload []byte
}

// Network is the external collaborator that moves opaque byte payloads
// between peer addresses. Delivery is at-most-once per send, unordered,
// and may be dropped -- callers must not assume a Send results in a
// matching Recv anywhere.
type Network interface {
	// Send enqueues payload for delivery to to. The payload is copied by
	// the implementation; callers may reuse their buffer after Send
	// returns.
	Send(from, to core.Address, payload []byte) error

	// Recv drains and returns every packet currently queued for addr.
	// Each call returns only packets queued since the previous Recv for
	// that address; order across packets is unspecified.
	Recv(addr core.Address) []Packet
}
