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

// Package membership implements the gossip-based SWIM-style failure
// detector: join via a well-known introducer, heartbeat gossip, and
// suspicion/eviction of silent peers.
package membership

import (
	"math/rand"

	"github.com/swimkv/swimkv/core"
	"github.com/swimkv/swimkv/lib/eventlog"
	"github.com/swimkv/swimkv/lib/network"
)

// Layer is one node's membership layer: it owns a PeerView and drives the
// join protocol, gossip ingest, and the per-tick suspicion/eviction
// algorithm described by the core's design.
type Layer struct {
	self   core.Address
	config Config
	net    network.Network
	logger eventlog.Logger
	rng    *rand.Rand

	heartbeat int64
	inGroup   bool
	view      *PeerView
}

// New constructs a Layer for self. The PeerView initially contains only
// self; Join must be called once to enter the group.
func New(self core.Address, config Config, net network.Network, logger eventlog.Logger) *Layer {
	config.applyDefaults()
	return &Layer{
		self:   self,
		config: config,
		net:    net,
		logger: logger,
		rng:    rand.New(rand.NewSource(int64(self.ID)<<16 | int64(self.Port))),
		view:   NewPeerView(self, 0),
	}
}

// InGroup reports whether this node has completed the join protocol.
func (l *Layer) InGroup() bool {
	return l.inGroup
}

// Heartbeat returns self's current monotonic tick counter, the same
// notion of local time the ring manager and storage coordinator key their
// own bookkeeping off of.
func (l *Layer) Heartbeat() int64 {
	return l.heartbeat
}

// View returns the current PeerView. Callers must not mutate it.
func (l *Layer) View() *PeerView {
	return l.view
}

// Join starts the join protocol: the introducer enters the group
// immediately, every other node sends a JOINREQ to the introducer.
func (l *Layer) Join() {
	if l.self.IsIntroducer() {
		l.inGroup = true
		return
	}
	l.send(core.Introducer(), Message{Type: JOINREQ, Address: l.self, Heartbeat: l.heartbeat})
}

// Tick drains inbound membership messages and, once in_group, runs the
// per-tick suspicion/eviction/gossip algorithm.
func (l *Layer) Tick(now int64) {
	for _, pkt := range l.net.Recv(l.self) {
		l.handle(pkt.Payload)
	}

	if !l.inGroup {
		return
	}

	l.heartbeat++

	l.view.Sort()

	l.evictStale()

	l.view.RefreshSelf(l.self, l.heartbeat)

	l.gossip()
}

func (l *Layer) handle(payload []byte) {
	msg, err := Decode(payload)
	if err != nil {
		return
	}
	switch msg.Type {
	case JOINREQ:
		l.handleJoinReq(msg)
	case JOINREP:
		wasInGroup := l.inGroup
		l.ingest(msg.Address, msg.Heartbeat)
		if !wasInGroup {
			l.inGroup = true
		}
	case GOSSIPHB:
		l.ingest(msg.Address, msg.Heartbeat)
	}
}

// handleJoinReq implements the introducer's side of the join protocol: it
// replies with one JOINREP per currently known peer, then admits the
// requester into its own PeerView.
func (l *Layer) handleJoinReq(msg Message) {
	for _, e := range l.view.Entries() {
		l.send(msg.Address, Message{Type: JOINREP, Address: e.Address, Heartbeat: e.Heartbeat})
	}
	l.ingest(msg.Address, msg.Heartbeat)
}

// ingest applies the monotonic gossip-merge rule and logs a node-add event
// for newly discovered peers.
func (l *Layer) ingest(addr core.Address, heartbeat int64) {
	if added := l.view.Merge(addr, heartbeat, l.heartbeat); added {
		l.logger.NodeAdd(l.self, addr)
	}
}

// evictStale partitions peers by staleness relative to the current
// heartbeat and removes any that have crossed TRemove, logging a remove
// event for each.
func (l *Layer) evictStale() {
	entries := l.view.Entries()
	var evicted []core.Address
	for _, e := range entries {
		if e.Address == l.self {
			continue
		}
		if l.heartbeat-e.LastSeen > l.config.TRemove {
			evicted = append(evicted, e.Address)
		}
	}
	for _, addr := range evicted {
		if i := l.view.IndexOf(addr); i >= 0 {
			l.view.RemoveAt(i)
		}
		l.logger.NodeRemove(l.self, addr)
	}
}

// healthyPeers returns every entry, self included, that is neither
// suspected nor evicted, per the staleness thresholds in §4.1.
func (l *Layer) healthyPeers() []PeerEntry {
	var healthy []PeerEntry
	for _, e := range l.view.Entries() {
		if l.heartbeat-e.LastSeen <= l.config.TFail {
			healthy = append(healthy, e)
		}
	}
	return healthy
}

// gossip picks up to Fanout random healthy peers (excluding self) and
// sends each a GOSSIPHB for self plus every other healthy, non-suspected
// peer.
func (l *Layer) gossip() {
	healthy := l.healthyPeers()

	var targets []core.Address
	for _, e := range healthy {
		if e.Address != l.self {
			targets = append(targets, e.Address)
		}
	}
	l.rng.Shuffle(len(targets), func(i, j int) { targets[i], targets[j] = targets[j], targets[i] })
	if len(targets) > l.config.Fanout {
		targets = targets[:l.config.Fanout]
	}

	for _, target := range targets {
		for _, e := range healthy {
			l.send(target, Message{Type: GOSSIPHB, Address: e.Address, Heartbeat: e.Heartbeat})
		}
	}
}

func (l *Layer) send(to core.Address, msg Message) {
	_ = l.net.Send(l.self, to, Encode(msg))
}
