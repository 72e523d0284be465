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
package eventlog

import (
	"sync"

	"github.com/swimkv/swimkv/core"
)

// Event is one recorded call into a Recorder.
type Event struct {
	Kind        string // "add", "remove", "success", "failure"
	Self        core.Address
	Addr        core.Address // populated for add/remove
	Op          Op           // populated for success/failure
	Key         string
	Coordinator bool
}

// Recorder is a Logger that appends every call to an in-memory slice,
// for assertions in tests.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) NodeAdd(self, addr core.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Event{Kind: "add", Self: self, Addr: addr})
}

func (r *Recorder) NodeRemove(self, addr core.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Event{Kind: "remove", Self: self, Addr: addr})
}

func (r *Recorder) OpSuccess(self core.Address, op Op, key string, coordinator bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Event{Kind: "success", Self: self, Op: op, Key: key, Coordinator: coordinator})
}

func (r *Recorder) OpFailure(self core.Address, op Op, key string, coordinator bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Event{Kind: "failure", Self: self, Op: op, Key: key, Coordinator: coordinator})
}

// Count returns the number of recorded events matching kind.
func (r *Recorder) Count(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
