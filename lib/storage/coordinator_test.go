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
	"testing"

	"github.com/swimkv/swimkv/core"
	"github.com/swimkv/swimkv/lib/eventlog"
	"github.com/swimkv/swimkv/lib/hashring"
	"github.com/swimkv/swimkv/lib/network"

	"github.com/stretchr/testify/require"
)

// ring fixture built directly from a fixed address set is sufficient for
// exercising the storage coordinator in isolation from the membership
// layer, which has its own tests.
type harness struct {
	net     *network.Emulator
	logger  *eventlog.Recorder
	coords  map[core.Address]*Coordinator
	rings   map[core.Address]*hashring.Ring
	addrs   []core.Address
	heartbt int64
}

func newHarness(addrs ...core.Address) *harness {
	net := network.EmulatorFixture()
	logger := eventlog.NewRecorder()
	h := &harness{
		net:    net,
		logger: logger,
		coords: make(map[core.Address]*Coordinator),
		rings:  make(map[core.Address]*hashring.Ring),
		addrs:  addrs,
	}
	for _, a := range addrs {
		r := hashring.New(hashring.ConfigFixture(), a)
		r.Rebuild(addrs)
		r.DetectChange()
		r.Commit()
		h.rings[a] = r
		h.coords[a] = New(a, ConfigFixture(), net, r, NewMemStore(), logger)
	}
	return h
}

func (h *harness) tick() {
	h.heartbt++
	for _, a := range h.addrs {
		h.coords[a].Tick(h.heartbt, false)
	}
}

func (h *harness) tickN(n int) {
	for i := 0; i < n; i++ {
		h.tick()
	}
}

func keyReplicas(h *harness, key string) []core.Address {
	primary, secondary, tertiary, ok := h.rings[h.addrs[0]].FindNodes(key)
	if !ok {
		return nil
	}
	return []core.Address{primary.Address, secondary.Address, tertiary.Address}
}

func TestCreateQuorumExactTargeting(t *testing.T) {
	require := require.New(t)

	addrs := []core.Address{
		core.AddressFixture(1), core.AddressFixture(2), core.AddressFixture(3),
		core.AddressFixture(4), core.AddressFixture(5),
	}
	h := newHarness(addrs...)

	replicas := keyReplicas(h, "k")
	require.Len(replicas, 3)

	coordinatorAddr := addrs[0]
	h.coords[coordinatorAddr].ClientCreate("k", "v1", 0)
	h.tickN(4)

	for _, r := range replicas {
		raw, ok := h.coords[r].store.Read("k")
		require.True(ok, "replica %s should have stored the key", r)
		entry, err := core.ParseEntry(raw)
		require.NoError(err)
		require.Equal("v1", entry.Value)
	}
	for _, a := range addrs {
		if a == replicas[0] || a == replicas[1] || a == replicas[2] {
			continue
		}
		_, ok := h.coords[a].store.Read("k")
		require.False(ok, "non-replica %s should not have stored the key", a)
	}

	successCount := 0
	for _, e := range h.logger.Events {
		if e.Kind == "success" && e.Op == eventlog.OpCreate && e.Coordinator {
			successCount++
		}
	}
	require.Equal(1, successCount, "coordinator logs exactly one create-success")
}

func TestReadRepairDispatchesExactlyOneUpdate(t *testing.T) {
	require := require.New(t)

	addrs := []core.Address{
		core.AddressFixture(1), core.AddressFixture(2), core.AddressFixture(3),
		core.AddressFixture(4), core.AddressFixture(5),
	}
	h := newHarness(addrs...)
	replicas := keyReplicas(h, "k")
	require.Len(replicas, 3)

	// Seed replicas directly: two agree on "v1", one has the stale "v2".
	for i, r := range replicas {
		value := "v1"
		if i == 2 {
			value = "v2"
		}
		entry := core.NewEntry(value, 0, core.ReplicaTypeFromPosition(i))
		h.coords[r].store.Create("k", entry.Serialize())
	}

	coordinatorAddr := addrs[0]
	h.coords[coordinatorAddr].ClientRead("k", 0)
	h.tickN(4)

	readSuccessCount := 0
	for _, e := range h.logger.Events {
		if e.Kind == "success" && e.Op == eventlog.OpRead && e.Coordinator {
			readSuccessCount++
		}
	}
	require.Equal(1, readSuccessCount)

	replicaUpdateCount := 0
	for _, e := range h.logger.Events {
		if e.Op == eventlog.OpUpdate && !e.Coordinator {
			replicaUpdateCount++
		}
	}
	require.Equal(1, replicaUpdateCount, "exactly one repair UPDATE reaches a replica")

	raw, ok := h.coords[replicas[2]].store.Read("k")
	require.True(ok)
	entry, err := core.ParseEntry(raw)
	require.NoError(err)
	require.Equal("v1", entry.Value, "the stale replica should have been repaired to the majority value")
}

func TestTimeoutLogsFailureOnceAndIgnoresLateReply(t *testing.T) {
	require := require.New(t)

	addrs := []core.Address{
		core.AddressFixture(1), core.AddressFixture(2), core.AddressFixture(3),
		core.AddressFixture(4), core.AddressFixture(5),
	}
	h := newHarness(addrs...)
	replicas := keyReplicas(h, "k")

	// Fail every replica so no reply is ever produced.
	for _, r := range replicas {
		h.net.Fail(r)
	}

	coordinatorAddr := addrs[0]
	h.coords[coordinatorAddr].ClientUpdate("k", "v1", 0)

	cfg := ConfigFixture()
	h.tickN(int(cfg.Timeout) + 2)

	failureCount := 0
	for _, e := range h.logger.Events {
		if e.Kind == "failure" && e.Op == eventlog.OpUpdate && e.Coordinator {
			failureCount++
		}
	}
	require.Equal(1, failureCount)

	// Recover and deliver late failing replies for the expired transaction
	// (transID 1, the coordinator's first): they must not change the log.
	for _, r := range replicas {
		h.net.Recover(r)
	}
	for _, r := range replicas {
		late := Message{TransID: 1, From: r, Type: REPLY, Success: false}
		require.NoError(h.net.Send(r, coordinatorAddr, []byte(Encode(late))))
	}
	h.tickN(3)

	failureCount = 0
	for _, e := range h.logger.Events {
		if e.Kind == "failure" && e.Op == eventlog.OpUpdate && e.Coordinator {
			failureCount++
		}
	}
	require.Equal(1, failureCount, "a late reply after timeout must not produce a second log entry")
}

func TestStabilizationAfterFailureSkipsKnownSuccessor(t *testing.T) {
	require := require.New(t)

	fullAddrs := []core.Address{
		core.AddressFixture(1), core.AddressFixture(2), core.AddressFixture(3),
		core.AddressFixture(4), core.AddressFixture(5), core.AddressFixture(6),
	}
	h := newHarness(fullAddrs...)

	replicas := keyReplicas(h, "k")
	require.Len(replicas, 3)
	a, b, c := replicas[0], replicas[1], replicas[2]

	for i, r := range replicas {
		entry := core.NewEntry("v1", 0, core.ReplicaTypeFromPosition(i))
		h.coords[r].store.Create("k", entry.Serialize())
	}

	reduced := make([]core.Address, 0, len(fullAddrs)-1)
	for _, addr := range fullAddrs {
		if addr != b {
			reduced = append(reduced, addr)
		}
	}
	h.rings[a].Rebuild(reduced)
	require.True(h.rings[a].DetectChange(), "removing b changes a's ring neighborhood")

	h.heartbt++
	h.coords[a].Tick(h.heartbt, true)

	require.Empty(h.net.Recv(c), "a known successor that already holds a replica is not re-pushed")

	var pushedTo []core.Address
	for _, addr := range reduced {
		if addr == a {
			continue
		}
		pkts := h.net.Recv(addr)
		if len(pkts) > 0 {
			pushedTo = append(pushedTo, addr)
		}
	}
	require.Len(pushedTo, 1, "exactly the genuinely new replica-set member is pushed to")
	require.NotEqual(c, pushedTo[0])

	// Idempotence: a second stabilization pass with no further ring change
	// sends nothing further.
	h.rings[a].Rebuild(reduced)
	require.False(h.rings[a].DetectChange())

	h.heartbt++
	h.coords[a].Tick(h.heartbt, true)
	for _, addr := range reduced {
		require.Empty(h.net.Recv(addr), "stabilization with no ring change is a no-op")
	}
}

func TestTertiarySkipsWhenEitherAncestorSurvives(t *testing.T) {
	require := require.New(t)

	fullAddrs := []core.Address{
		core.AddressFixture(1), core.AddressFixture(2), core.AddressFixture(3),
		core.AddressFixture(4), core.AddressFixture(5), core.AddressFixture(6),
	}
	h := newHarness(fullAddrs...)

	replicas := keyReplicas(h, "k")
	tertiary := replicas[2]
	entry := core.NewEntry("v1", 0, core.TERTIARY)
	h.coords[tertiary].store.Create("k", entry.Serialize())

	// One prior ancestor leaves the ring while the other stays. Either
	// surviving ancestor is enough for the tertiary to skip, so the forced
	// stabilization run must be a no-op.
	ancestors := h.rings[tertiary].HaveReplicasOf()
	require.Len(ancestors, 2, "tertiary must have two predecessors in a 6-node ring")
	reduced := make([]core.Address, 0, len(fullAddrs)-1)
	for _, addr := range fullAddrs {
		if addr != ancestors[0] {
			reduced = append(reduced, addr)
		}
	}
	h.rings[tertiary].Rebuild(reduced)
	h.rings[tertiary].DetectChange()

	h.heartbt++
	h.coords[tertiary].Tick(h.heartbt, true)

	for _, addr := range fullAddrs {
		if addr == tertiary {
			continue
		}
		require.Empty(h.net.Recv(addr), "tertiary skips stabilization while an ancestor survives")
	}
}

func TestTertiaryPushesWhenBothAncestorsDead(t *testing.T) {
	require := require.New(t)

	fullAddrs := []core.Address{
		core.AddressFixture(1), core.AddressFixture(2), core.AddressFixture(3),
		core.AddressFixture(4), core.AddressFixture(5), core.AddressFixture(6),
		core.AddressFixture(7), core.AddressFixture(8),
	}
	h := newHarness(fullAddrs...)

	replicas := keyReplicas(h, "k")
	tertiary := replicas[2]
	entry := core.NewEntry("v1", 0, core.TERTIARY)
	h.coords[tertiary].store.Create("k", entry.Serialize())

	ancestors := h.rings[tertiary].HaveReplicasOf()
	require.Len(ancestors, 2, "tertiary must have two predecessors in an 8-node ring")

	reduced := make([]core.Address, 0, len(fullAddrs)-2)
	for _, addr := range fullAddrs {
		if addr == ancestors[0] || addr == ancestors[1] {
			continue
		}
		reduced = append(reduced, addr)
	}
	h.rings[tertiary].Rebuild(reduced)
	h.rings[tertiary].DetectChange()

	h.heartbt++
	h.coords[tertiary].Tick(h.heartbt, true)

	sent := 0
	for _, addr := range reduced {
		if addr == tertiary {
			continue
		}
		sent += len(h.net.Recv(addr))
	}
	require.Greater(sent, 0, "tertiary must push when both prior ancestors are gone from the ring")
}

func TestQuorumThreshold(t *testing.T) {
	require := require.New(t)
	require.Equal(2, quorumThreshold(3))
	require.Equal(1, quorumThreshold(1))
	require.Equal(1, quorumThreshold(0))
}
