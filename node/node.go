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
package node

import (
	"github.com/swimkv/swimkv/core"
	"github.com/swimkv/swimkv/lib/eventlog"
	"github.com/swimkv/swimkv/lib/hashring"
	"github.com/swimkv/swimkv/lib/membership"
	"github.com/swimkv/swimkv/lib/network"
	"github.com/swimkv/swimkv/lib/storage"
)

// Node is one peer in the cluster: it owns a membership layer, a ring
// manager, and a storage coordinator, and exposes the single Tick entry
// point the driver invokes once per simulated time unit. A Node marked
// Fail on the network becomes inert automatically, since its Recv calls
// return nothing and its sends are silently dropped by the network.
type Node struct {
	self core.Address

	ml    *membership.Layer
	ring  *hashring.Ring
	store storage.KVStore
	sc    *storage.Coordinator
}

// New constructs a Node for self, wiring the membership layer, ring
// manager, and storage coordinator over the shared network and logger.
// If store is nil, an in-memory MemStore is used.
func New(self core.Address, config Config, net network.Network, store storage.KVStore, logger eventlog.Logger) *Node {
	if store == nil {
		store = storage.NewMemStore()
	}
	ring := hashring.New(config.Ring, self)
	return &Node{
		self:  self,
		ml:    membership.New(self, config.Membership, net, logger),
		ring:  ring,
		store: store,
		sc:    storage.New(self, config.Storage, net, ring, store, logger),
	}
}

// Join starts the membership join protocol.
func (n *Node) Join() {
	n.ml.Join()
}

// Tick drains inbound membership traffic, rebuilds the ring from the
// resulting peer view, and drains inbound storage traffic -- running
// stabilization if the ring's neighborhood around self changed.
//
// now is the driver's simulated time unit; the storage coordinator and
// ring manager key their own bookkeeping off self's membership heartbeat
// instead, since that counter only advances once self has joined the
// group.
func (n *Node) Tick(now int64) {
	n.ml.Tick(now)

	if !n.ml.InGroup() {
		return
	}

	n.ring.Rebuild(n.ml.View().Addresses())
	changed := n.ring.DetectChange()

	n.sc.Tick(n.ml.Heartbeat(), changed)
}

// ClientCreate issues a client-side CREATE for key.
func (n *Node) ClientCreate(key, value string) {
	n.sc.ClientCreate(key, value, n.ml.Heartbeat())
}

// ClientRead issues a client-side READ for key.
func (n *Node) ClientRead(key string) {
	n.sc.ClientRead(key, n.ml.Heartbeat())
}

// ClientUpdate issues a client-side UPDATE for key.
func (n *Node) ClientUpdate(key, value string) {
	n.sc.ClientUpdate(key, value, n.ml.Heartbeat())
}

// ClientDelete issues a client-side DELETE for key.
func (n *Node) ClientDelete(key string) {
	n.sc.ClientDelete(key, n.ml.Heartbeat())
}

// InGroup reports whether the node has completed the join protocol.
func (n *Node) InGroup() bool {
	return n.ml.InGroup()
}

// PeerView returns the node's current membership view. Callers must not
// mutate it.
func (n *Node) PeerView() *membership.PeerView {
	return n.ml.View()
}

// Ring returns the node's current consistent-hash ring. Callers must not
// mutate it.
func (n *Node) Ring() *hashring.Ring {
	return n.ring
}

// Address returns self.
func (n *Node) Address() core.Address {
	return n.self
}
