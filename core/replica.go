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
package core

import "fmt"

// ReplicaType tags the role a stored Entry plays in its key's replica set,
// or, on an UPDATE request, instructs the receiving replica to leave its
// current role untouched.
type ReplicaType int

// The three replica-set positions, plus the request-only sentinel.
const (
	PRIMARY ReplicaType = iota
	SECONDARY
	TERTIARY
	// RESERVED means "do not change replica role". It is only ever valid
	// on an inbound UPDATE request; servers must refuse to persist it into
	// a local Entry.
	RESERVED
)

// String implements fmt.Stringer.
func (r ReplicaType) String() string {
	switch r {
	case PRIMARY:
		return "PRIMARY"
	case SECONDARY:
		return "SECONDARY"
	case TERTIARY:
		return "TERTIARY"
	case RESERVED:
		return "RESERVED"
	default:
		return fmt.Sprintf("ReplicaType(%d)", int(r))
	}
}

// ReplicaTypeFromPosition maps a 0/1/2 replica-set index to its role.
// Panics on any other index since the caller controls the replica set size.
func ReplicaTypeFromPosition(i int) ReplicaType {
	switch i {
	case 0:
		return PRIMARY
	case 1:
		return SECONDARY
	case 2:
		return TERTIARY
	default:
		panic(fmt.Sprintf("replica position out of range: %d", i))
	}
}
