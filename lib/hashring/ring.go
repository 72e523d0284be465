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

// Package hashring derives a sorted consistent-hash ring from a node's
// membership view and computes replica placement for any key. Unlike the
// weighted rendezvous hashing the rest of the corpus uses for blob
// placement, replica lookup here walks a sorted ring: the data model
// calls for an ordered sequence of Nodes by hash, not a scored pick.
package hashring

import (
	"sort"

	"github.com/swimkv/swimkv/core"
	"github.com/swimkv/swimkv/utils/stringset"
)

// Node is one ring position: an address and its reduced hash.
type Node struct {
	Address core.Address
	Hash    uint64
}

// Ring is a sorted consistent-hash ring, owned exclusively by one node. It
// also tracks the two predecessors and two successors of self so that
// stabilization can detect when the ring neighborhood around self changes.
type Ring struct {
	config Config
	self   core.Address

	nodes   []Node
	members stringset.Set

	haveReplicasOf []core.Address
	hasMyReplicas  []core.Address

	pendingHaveReplicasOf []core.Address
	pendingHasMyReplicas  []core.Address
}

// New constructs an empty Ring for self.
func New(config Config, self core.Address) *Ring {
	config.applyDefaults()
	return &Ring{config: config, self: self}
}

// Rebuild recomputes the ring from the given set of known addresses
// (typically ML's current PeerView). Construction is idempotent given the
// same input: the same addresses always yield the same sorted Nodes.
func (r *Ring) Rebuild(addrs []core.Address) {
	nodes := make([]Node, len(addrs))
	for i, a := range addrs {
		nodes[i] = Node{Address: a, Hash: hash64(a.String(), r.config.RingSize)}
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Hash != nodes[j].Hash {
			return nodes[i].Hash < nodes[j].Hash
		}
		return nodes[i].Address.Less(nodes[j].Address)
	})
	r.nodes = nodes

	members := make(stringset.Set, len(nodes))
	for _, n := range nodes {
		members.Add(n.Address.String())
	}
	r.members = members
}

// Nodes returns the current sorted ring. Callers must not mutate it.
func (r *Ring) Nodes() []Node {
	return r.nodes
}

// Contains reports whether addr is currently a ring member.
func (r *Ring) Contains(addr core.Address) bool {
	return r.members.Has(addr.String())
}

// FindNodes computes the replica triple responsible for key: the node at
// the smallest hash index >= H(key), and its two ring successors. It
// returns ok=false if fewer than three nodes are known.
func (r *Ring) FindNodes(key string) (primary, secondary, tertiary Node, ok bool) {
	n := len(r.nodes)
	if n < 3 {
		return Node{}, Node{}, Node{}, false
	}

	pos := hash64(key, r.config.RingSize)
	i := sort.Search(n, func(i int) bool { return r.nodes[i].Hash >= pos })
	if i == n {
		i = 0
	}
	return r.nodes[i], r.nodes[(i+1)%n], r.nodes[(i+2)%n], true
}

// selfIndex returns self's position in the sorted ring, or -1 if self is
// not currently a ring member.
func (r *Ring) selfIndex() int {
	for i, node := range r.nodes {
		if node.Address == r.self {
			return i
		}
	}
	return -1
}

// predecessors returns self's two ring predecessors, wrapping around, in
// ring order: the one two positions back first, the immediate predecessor
// second.
func (r *Ring) predecessors() []core.Address {
	n := len(r.nodes)
	i := r.selfIndex()
	if i < 0 || n < 3 {
		return nil
	}
	return []core.Address{
		r.nodes[(i-2+2*n)%n].Address,
		r.nodes[(i-1+n)%n].Address,
	}
}

// successors returns self's two ring successors, wrapping around.
func (r *Ring) successors() []core.Address {
	n := len(r.nodes)
	i := r.selfIndex()
	if i < 0 || n < 3 {
		return nil
	}
	return []core.Address{
		r.nodes[(i+1)%n].Address,
		r.nodes[(i+2)%n].Address,
	}
}

// HaveReplicasOf returns the two predecessors recorded by the last
// Commit call: the nodes whose replicas self is currently holding.
func (r *Ring) HaveReplicasOf() []core.Address {
	return r.haveReplicasOf
}

// HasMyReplicas returns the two successors recorded by the last Commit
// call: the nodes currently holding replicas of self's keys.
func (r *Ring) HasMyReplicas() []core.Address {
	return r.hasMyReplicas
}

// DetectChange recomputes self's predecessor/successor pairs from the
// current ring and reports whether either changed from the previously
// committed pair, comparing by address identity rather than hash (hash
// collisions would otherwise break equality). The new pair is held
// pending: stabilization logic must run against the still-committed
// HaveReplicasOf/HasMyReplicas (the prior ancestors) before Commit
// replaces them, since skip decisions are defined in terms of what was
// true before this change.
func (r *Ring) DetectChange() bool {
	r.pendingHaveReplicasOf = r.predecessors()
	r.pendingHasMyReplicas = r.successors()

	return !addrSliceEqual(r.pendingHaveReplicasOf, r.haveReplicasOf) ||
		!addrSliceEqual(r.pendingHasMyReplicas, r.hasMyReplicas)
}

// Commit replaces the committed predecessor/successor pair with the one
// computed by the last DetectChange call, for the next round's change
// detection.
func (r *Ring) Commit() {
	r.haveReplicasOf = r.pendingHaveReplicasOf
	r.hasMyReplicas = r.pendingHasMyReplicas
}

func addrSliceEqual(a, b []core.Address) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
