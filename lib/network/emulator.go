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
package network

import (
	"math/rand"
	"sync"

	"github.com/swimkv/swimkv/core"
)

// EmulatorConfig configures Emulator's simulated unreliability.
type EmulatorConfig struct {
	// DropRate is the probability, in [0, 1], that an enqueued packet is
	// silently discarded instead of delivered.
	DropRate float64 `yaml:"drop_rate"`
}

// Emulator is an in-memory Network suitable for tests and for driving a
// simulated cluster in a single process. It is safe for concurrent use,
// since the network is the one piece of state nodes legitimately share.
type Emulator struct {
	config EmulatorConfig
	rng    *rand.Rand

	mu     sync.Mutex
	queues map[core.Address][]Packet

	failed map[core.Address]bool
}

// NewEmulator creates an empty Emulator.
func NewEmulator(config EmulatorConfig) *Emulator {
	return &Emulator{
		config: config,
		rng:    rand.New(rand.NewSource(1)),
		queues: make(map[core.Address][]Packet),
		failed: make(map[core.Address]bool),
	}
}

// Send implements Network. Sends to a node marked Fail are silently
// dropped, matching a real node that has stopped polling its socket.
func (e *Emulator) Send(from, to core.Address, payload []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.failed[to] || e.failed[from] {
		return nil
	}
	if e.config.DropRate > 0 && e.rng.Float64() < e.config.DropRate {
		return nil
	}

	buf := make([]byte, len(payload))
	copy(buf, payload)
	e.queues[to] = append(e.queues[to], Packet{From: from, To: to, Payload: buf})
	return nil
}

// Recv implements Network.
func (e *Emulator) Recv(addr core.Address) []Packet {
	e.mu.Lock()
	defer e.mu.Unlock()

	pkts := e.queues[addr]
	delete(e.queues, addr)
	return pkts
}

// Fail marks addr as failed: every future Send to or from it is dropped,
// simulating the driver marking a node inert per the concurrency model.
func (e *Emulator) Fail(addr core.Address) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failed[addr] = true
}

// Recover reverses a prior Fail.
func (e *Emulator) Recover(addr core.Address) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.failed, addr)
}
