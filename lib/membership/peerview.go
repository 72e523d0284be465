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
	"sort"

	"github.com/swimkv/swimkv/core"
)

// PeerEntry is one row of a node's PeerView: a peer address plus the
// heartbeat gossip state this node has observed for it.
type PeerEntry struct {
	Address core.Address

	// Heartbeat is the monotonic counter reported by the entry's owner.
	Heartbeat int64

	// LastSeen is this node's own heartbeat value when the entry was last
	// refreshed, used to compute staleness.
	LastSeen int64
}

// PeerView is an ordered sequence of PeerEntry, sorted by (id, port) after
// every tick. It carries no locking of its own -- a node touches its own
// PeerView only from within its own tick.
type PeerView struct {
	entries []PeerEntry
}

// NewPeerView creates a PeerView containing only self.
func NewPeerView(self core.Address, heartbeat int64) *PeerView {
	return &PeerView{
		entries: []PeerEntry{{Address: self, Heartbeat: heartbeat, LastSeen: heartbeat}},
	}
}

// Len returns the number of known peers, including self.
func (v *PeerView) Len() int {
	return len(v.entries)
}

// Entries returns the underlying entries in current sort order. Callers
// must not mutate the returned slice.
func (v *PeerView) Entries() []PeerEntry {
	return v.entries
}

// Find returns the entry for addr and whether it was present.
func (v *PeerView) Find(addr core.Address) (PeerEntry, bool) {
	for _, e := range v.entries {
		if e.Address == addr {
			return e, true
		}
	}
	return PeerEntry{}, false
}

// IndexOf returns the index of addr, or -1 if absent.
func (v *PeerView) IndexOf(addr core.Address) int {
	for i, e := range v.entries {
		if e.Address == addr {
			return i
		}
	}
	return -1
}

// Merge ingests a gossiped (addr, heartbeat) pair per the monotonic merge
// rule: a strictly newer heartbeat updates the entry's heartbeat and
// refreshes last_seen to now; an unknown address is appended and reported
// as added; a stale or equal heartbeat is ignored. It returns whether the
// address was newly added.
func (v *PeerView) Merge(addr core.Address, heartbeat int64, now int64) (added bool) {
	for i := range v.entries {
		if v.entries[i].Address == addr {
			if heartbeat > v.entries[i].Heartbeat {
				v.entries[i].Heartbeat = heartbeat
				v.entries[i].LastSeen = now
			}
			return false
		}
	}
	v.entries = append(v.entries, PeerEntry{Address: addr, Heartbeat: heartbeat, LastSeen: now})
	return true
}

// RefreshSelf sets self's heartbeat and last_seen to now, per the per-tick
// algorithm's step 4.
func (v *PeerView) RefreshSelf(self core.Address, now int64) {
	for i := range v.entries {
		if v.entries[i].Address == self {
			v.entries[i].Heartbeat = now
			v.entries[i].LastSeen = now
			return
		}
	}
}

// Sort orders entries by (id, port), preserving the PeerView invariant.
func (v *PeerView) Sort() {
	sort.Slice(v.entries, func(i, j int) bool {
		return v.entries[i].Address.Less(v.entries[j].Address)
	})
}

// RemoveAt evicts the entry at index i.
func (v *PeerView) RemoveAt(i int) {
	v.entries = append(v.entries[:i], v.entries[i+1:]...)
}

// Addresses returns the addresses of every entry, in current order.
func (v *PeerView) Addresses() []core.Address {
	addrs := make([]core.Address, len(v.entries))
	for i, e := range v.entries {
		addrs[i] = e.Address
	}
	return addrs
}
