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

// Package storage implements the storage coordinator: it owns the local
// replicated key-value map, serves inbound CRUD requests from peer
// replicas, and coordinates outbound client transactions with quorum
// decisions, read-repair, per-transaction timeouts, and ring-change
// stabilization.
package storage

import (
	"github.com/swimkv/swimkv/core"
	"github.com/swimkv/swimkv/lib/eventlog"
	"github.com/swimkv/swimkv/lib/hashring"
	"github.com/swimkv/swimkv/lib/network"
	"github.com/swimkv/swimkv/utils/stringset"

	"go.uber.org/atomic"
)

// Coordinator is one node's storage coordinator: client-side dispatch,
// server-side CRUD handling, and stabilization all share the same
// transaction bookkeeping.
type Coordinator struct {
	self   core.Address
	config Config
	net    network.Network
	ring   *hashring.Ring
	store  KVStore
	logger eventlog.Logger

	transID      atomic.Int64
	transactions map[int64]*transactionRecord
}

// New constructs a Coordinator for self. ring and store are shared with
// the rest of the node: ring supplies replica placement, store is the
// external flat key-value collaborator the Entry encoding is layered on.
func New(self core.Address, config Config, net network.Network, ring *hashring.Ring, store KVStore, logger eventlog.Logger) *Coordinator {
	config.applyDefaults()
	if store == nil {
		store = NewMemStore()
	}
	return &Coordinator{
		self:         self,
		config:       config,
		net:          net,
		ring:         ring,
		store:        store,
		logger:       logger,
		transactions: make(map[int64]*transactionRecord),
	}
}

func (c *Coordinator) nextTransID() int64 {
	return c.transID.Inc()
}

// ClientCreate dispatches a CREATE to key's three replicas. now is self's
// current heartbeat, used as the transaction's started_at.
func (c *Coordinator) ClientCreate(key, value string, now int64) {
	c.dispatchClientCRUD(eventlog.OpCreate, CREATE, key, value, now)
}

// ClientUpdate dispatches an UPDATE to key's three replicas.
func (c *Coordinator) ClientUpdate(key, value string, now int64) {
	c.dispatchClientCRUD(eventlog.OpUpdate, UPDATE, key, value, now)
}

// ClientDelete dispatches a DELETE to key's three replicas.
func (c *Coordinator) ClientDelete(key string, now int64) {
	c.dispatchClientCRUD(eventlog.OpDelete, DELETE, key, "", now)
}

// ClientRead dispatches a READ to key's three replicas.
func (c *Coordinator) ClientRead(key string, now int64) {
	primary, secondary, tertiary, ok := c.ring.FindNodes(key)
	if !ok {
		c.logger.OpFailure(c.self, eventlog.OpRead, key, true)
		return
	}
	targets := []core.Address{primary.Address, secondary.Address, tertiary.Address}

	transID := c.nextTransID()
	for _, t := range targets {
		c.send(t, Message{TransID: transID, From: c.self, Type: READ, Key: key})
	}
	c.transactions[transID] = newTransactionRecord(transID, now, eventlog.OpRead, key, targets)
}

// dispatchClientCRUD implements the shared client dispatch path for
// CREATE/UPDATE/DELETE: compute the replica triple, send one request per
// replica (CREATE/UPDATE carry a replica role assigned by position), and
// track a TransactionRecord. A ring too small to place the key dispatches
// to zero replicas and is logged as an immediate failure rather than
// waiting out a timeout no reply could ever resolve.
func (c *Coordinator) dispatchClientCRUD(op eventlog.Op, typ MessageType, key, value string, now int64) {
	primary, secondary, tertiary, ok := c.ring.FindNodes(key)
	if !ok {
		c.logger.OpFailure(c.self, op, key, true)
		return
	}
	targets := []core.Address{primary.Address, secondary.Address, tertiary.Address}

	transID := c.nextTransID()
	for i, t := range targets {
		msg := Message{TransID: transID, From: c.self, Type: typ, Key: key, Value: value}
		if typ == CREATE || typ == UPDATE {
			msg.Replica = core.ReplicaTypeFromPosition(i)
		}
		c.send(t, msg)
	}
	c.transactions[transID] = newTransactionRecord(transID, now, op, key, targets)
}

// Tick drains inbound storage messages, dispatching server-side CRUD
// requests and reply handling, then sweeps timed-out transactions, and
// finally runs stabilization if ringChanged.
func (c *Coordinator) Tick(now int64, ringChanged bool) {
	for _, pkt := range c.net.Recv(c.self) {
		msg, err := Decode(string(pkt.Payload))
		if err != nil {
			continue
		}
		c.dispatch(msg, now)
	}

	c.sweepTimeouts(now)

	if ringChanged {
		c.stabilize(now)
	}
}

func (c *Coordinator) dispatch(msg Message, now int64) {
	switch msg.Type {
	case CREATE:
		c.handleCreate(msg, now)
	case READ:
		c.handleRead(msg)
	case UPDATE:
		c.handleUpdate(msg, now)
	case DELETE:
		c.handleDelete(msg)
	case REPLY:
		c.handleCRUDReply(msg)
	case READREPLY:
		c.handleReadReply(msg, now)
	}
}

func (c *Coordinator) send(to core.Address, msg Message) {
	_ = c.net.Send(c.self, to, []byte(Encode(msg)))
}

// --- server (replica) path ---

func (c *Coordinator) handleCreate(msg Message, now int64) {
	if _, exists := c.store.Read(msg.Key); exists {
		c.logger.OpFailure(c.self, eventlog.OpCreate, msg.Key, false)
		c.send(msg.From, Message{TransID: msg.TransID, From: c.self, Type: REPLY, Success: false})
		return
	}
	entry := core.NewEntry(msg.Value, now, msg.Replica)
	c.store.Create(msg.Key, entry.Serialize())
	c.logger.OpSuccess(c.self, eventlog.OpCreate, msg.Key, false)
	c.send(msg.From, Message{TransID: msg.TransID, From: c.self, Type: REPLY, Success: true})
}

func (c *Coordinator) handleRead(msg Message) {
	raw, exists := c.store.Read(msg.Key)
	if !exists {
		c.logger.OpFailure(c.self, eventlog.OpRead, msg.Key, false)
		c.send(msg.From, Message{TransID: msg.TransID, From: c.self, Type: READREPLY, Value: ""})
		return
	}
	entry, err := core.ParseEntry(raw)
	if err != nil {
		c.logger.OpFailure(c.self, eventlog.OpRead, msg.Key, false)
		c.send(msg.From, Message{TransID: msg.TransID, From: c.self, Type: READREPLY, Value: ""})
		return
	}
	c.logger.OpSuccess(c.self, eventlog.OpRead, msg.Key, false)
	c.send(msg.From, Message{TransID: msg.TransID, From: c.self, Type: READREPLY, Value: entry.Value})
}

func (c *Coordinator) handleUpdate(msg Message, now int64) {
	raw, exists := c.store.Read(msg.Key)
	if !exists {
		c.logger.OpFailure(c.self, eventlog.OpUpdate, msg.Key, false)
		c.send(msg.From, Message{TransID: msg.TransID, From: c.self, Type: REPLY, Success: false})
		return
	}
	entry, err := core.ParseEntry(raw)
	if err != nil {
		c.logger.OpFailure(c.self, eventlog.OpUpdate, msg.Key, false)
		c.send(msg.From, Message{TransID: msg.TransID, From: c.self, Type: REPLY, Success: false})
		return
	}
	role := msg.Replica
	if role == core.RESERVED {
		role = entry.Replica
	}
	updated := core.NewEntry(msg.Value, now, role)
	c.store.Update(msg.Key, updated.Serialize())
	c.logger.OpSuccess(c.self, eventlog.OpUpdate, msg.Key, false)
	c.send(msg.From, Message{TransID: msg.TransID, From: c.self, Type: REPLY, Success: true})
}

func (c *Coordinator) handleDelete(msg Message) {
	if !c.store.Delete(msg.Key) {
		c.logger.OpFailure(c.self, eventlog.OpDelete, msg.Key, false)
		c.send(msg.From, Message{TransID: msg.TransID, From: c.self, Type: REPLY, Success: false})
		return
	}
	c.logger.OpSuccess(c.self, eventlog.OpDelete, msg.Key, false)
	c.send(msg.From, Message{TransID: msg.TransID, From: c.self, Type: REPLY, Success: true})
}

// --- client (coordinator) reply handling and quorum ---

func (c *Coordinator) handleCRUDReply(msg Message) {
	rec, ok := c.transactions[msg.TransID]
	if !ok {
		return // late reply for a discarded transaction: silently dropped.
	}
	rec.replies = append(rec.replies, reply{From: msg.From, Success: msg.Success})

	successCount, failCount := 0, 0
	for _, r := range rec.replies {
		if r.Success {
			successCount++
		} else {
			failCount++
		}
	}
	threshold := quorumThreshold(rec.expectedReplies)

	switch {
	case successCount >= threshold:
		c.logger.OpSuccess(c.self, rec.op, rec.key, true)
		delete(c.transactions, msg.TransID)
	case failCount >= threshold:
		c.logger.OpFailure(c.self, rec.op, rec.key, true)
		delete(c.transactions, msg.TransID)
	}
}

// handleReadReply implements READ's special quorum and read-repair rule.
// With two replies: if both are empty, fail and discard; if both agree on
// a non-empty value, log success but keep the record open for the third
// reply. Two non-empty, distinct replies are left undecided -- this is
// the open question on ambiguous two-reply READs, preserved deliberately:
// only a third reply or a timeout resolves it.
func (c *Coordinator) handleReadReply(msg Message, now int64) {
	rec, ok := c.transactions[msg.TransID]
	if !ok {
		return
	}
	rec.replies = append(rec.replies, reply{From: msg.From, Value: msg.Value})

	switch len(rec.replies) {
	case 2:
		v0, v1 := rec.replies[0].Value, rec.replies[1].Value
		if v0 == "" && v1 == "" {
			c.logger.OpFailure(c.self, eventlog.OpRead, rec.key, true)
			delete(c.transactions, msg.TransID)
			return
		}
		if v0 != "" && v0 == v1 {
			c.logger.OpSuccess(c.self, eventlog.OpRead, rec.key, true)
			rec.loggedFlag = true
		}
		// Ambiguous: leave the record open for the third reply.
	case 3:
		c.resolveReadQuorum(rec, now)
		delete(c.transactions, msg.TransID)
	}
}

// resolveReadQuorum evaluates the third READREPLY: a value reported by at
// least two replicas wins, and every replica that disagreed is repaired
// with a single-target UPDATE(replica=RESERVED).
func (c *Coordinator) resolveReadQuorum(rec *transactionRecord, now int64) {
	emptyCount := 0
	counts := make(map[string]int, 3)
	for _, r := range rec.replies {
		if r.Value == "" {
			emptyCount++
			continue
		}
		counts[r.Value]++
	}
	if emptyCount >= 2 {
		if !rec.loggedFlag {
			c.logger.OpFailure(c.self, eventlog.OpRead, rec.key, true)
		}
		return
	}

	var majority string
	for v, n := range counts {
		if n >= 2 {
			majority = v
			break
		}
	}
	if majority == "" {
		if !rec.loggedFlag {
			c.logger.OpFailure(c.self, eventlog.OpRead, rec.key, true)
		}
		return
	}

	if !rec.loggedFlag {
		c.logger.OpSuccess(c.self, eventlog.OpRead, rec.key, true)
	}
	for _, r := range rec.replies {
		if r.Value != majority {
			c.dispatchReadRepair(rec.key, majority, r.From, now)
		}
	}
}

// dispatchReadRepair sends a single-target repair UPDATE with
// replica=RESERVED so the receiving replica keeps its existing role.
func (c *Coordinator) dispatchReadRepair(key, value string, to core.Address, now int64) {
	transID := c.nextTransID()
	c.send(to, Message{TransID: transID, From: c.self, Type: UPDATE, Key: key, Value: value, Replica: core.RESERVED})
	c.transactions[transID] = newTransactionRecord(transID, now, eventlog.OpUpdate, key, []core.Address{to})
}

// --- timeout ---

// sweepTimeouts expires every TransactionRecord whose deadline has
// passed, logging a single coordinator-side failure for its original
// operation. Replies arriving afterward find no record and are dropped.
func (c *Coordinator) sweepTimeouts(now int64) {
	for transID, rec := range c.transactions {
		if rec.startedAt+c.config.Timeout <= now {
			c.logger.OpFailure(c.self, rec.op, rec.key, true)
			delete(c.transactions, transID)
		}
	}
}

// --- stabilization ---

// stabilize re-pushes locally stored keys to their current replica set
// whenever the ring neighborhood around self has changed. It reads the
// still-committed HaveReplicasOf/HasMyReplicas -- the prior ancestors, as
// of before this round's ring change -- since the skip decisions below are
// defined in terms of what was true immediately before the change.
func (c *Coordinator) stabilize(now int64) {
	haveReplicasOf := c.ring.HaveReplicasOf()
	hasMyReplicas := c.ring.HasMyReplicas()

	var toDelete []string

	for _, key := range c.store.Keys() {
		raw, ok := c.store.Read(key)
		if !ok {
			continue
		}
		entry, err := core.ParseEntry(raw)
		if err != nil {
			continue
		}

		primary, secondary, tertiary, ok := c.ring.FindNodes(key)
		if !ok {
			toDelete = append(toDelete, key)
			continue
		}
		replicaSet := []hashring.Node{primary, secondary, tertiary}

		targets, roles := c.stabilizationTargets(entry.Replica, replicaSet, haveReplicasOf, hasMyReplicas)
		if len(targets) > 0 {
			c.dispatchStabilizationCreate(key, entry.Value, targets, roles, now)
		}

		selfPos := -1
		for i, n := range replicaSet {
			if n.Address == c.self {
				selfPos = i
				break
			}
		}
		if selfPos < 0 {
			toDelete = append(toDelete, key)
			continue
		}
		if newRole := core.ReplicaTypeFromPosition(selfPos); newRole != entry.Replica {
			updated := core.NewEntry(entry.Value, entry.Timestamp, newRole)
			c.store.Update(key, updated.Serialize())
		}
	}

	for _, key := range toDelete {
		c.store.Delete(key)
	}

	c.ring.Commit()
}

// stabilizationTargets decides which members of replicaSet to push a
// CREATE to, and under what role, given self's currently stored replica
// position for the key.
func (c *Coordinator) stabilizationTargets(
	role core.ReplicaType,
	replicaSet []hashring.Node,
	haveReplicasOf, hasMyReplicas []core.Address,
) ([]core.Address, []core.ReplicaType) {

	var targets []core.Address
	var roles []core.ReplicaType

	knownSuccessors := addrSet(hasMyReplicas)

	switch role {
	case core.PRIMARY:
		for i, n := range replicaSet {
			if n.Address == c.self || knownSuccessors.Has(n.Address.String()) {
				continue
			}
			targets = append(targets, n.Address)
			roles = append(roles, core.ReplicaTypeFromPosition(i))
		}

	case core.SECONDARY:
		priorPrimary, has := ancestorAt(haveReplicasOf, 1)
		if has && c.ring.Contains(priorPrimary) {
			return nil, nil // the primary will handle it.
		}
		for i, n := range replicaSet {
			if n.Address == c.self || knownSuccessors.Has(n.Address.String()) {
				continue
			}
			if has && n.Address == priorPrimary {
				continue
			}
			targets = append(targets, n.Address)
			roles = append(roles, core.ReplicaTypeFromPosition(i))
		}

	case core.TERTIARY:
		anc0, has0 := ancestorAt(haveReplicasOf, 0)
		anc1, has1 := ancestorAt(haveReplicasOf, 1)
		if (has0 && c.ring.Contains(anc0)) || (has1 && c.ring.Contains(anc1)) {
			return nil, nil // either prior ancestor surviving is enough to skip.
		}
		for i, n := range replicaSet {
			if n.Address == c.self {
				continue
			}
			if has0 && n.Address == anc0 {
				continue
			}
			if has1 && n.Address == anc1 {
				continue
			}
			targets = append(targets, n.Address)
			roles = append(roles, core.ReplicaTypeFromPosition(i))
		}
	}

	return targets, roles
}

func (c *Coordinator) dispatchStabilizationCreate(key, value string, targets []core.Address, roles []core.ReplicaType, now int64) {
	transID := c.nextTransID()
	for i, t := range targets {
		c.send(t, Message{TransID: transID, From: c.self, Type: CREATE, Key: key, Value: value, Replica: roles[i]})
	}
	c.transactions[transID] = newTransactionRecord(transID, now, eventlog.OpCreate, key, targets)
}

// addrSet builds a membership set from a small address slice, so repeated
// skip-rule checks against hasMyReplicas/haveReplicasOf don't re-scan a
// slice per replica-set entry.
func addrSet(addrs []core.Address) stringset.Set {
	s := make(stringset.Set, len(addrs))
	for _, a := range addrs {
		s.Add(a.String())
	}
	return s
}

func ancestorAt(list []core.Address, i int) (core.Address, bool) {
	if i < len(list) {
		return list[i], true
	}
	return core.Address{}, false
}
