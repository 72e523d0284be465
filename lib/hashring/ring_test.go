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
package hashring

import (
	"testing"

	"github.com/swimkv/swimkv/core"

	"github.com/stretchr/testify/require"
)

func addrs(is ...uint32) []core.Address {
	out := make([]core.Address, len(is))
	for i, id := range is {
		out[i] = core.AddressFixture(id)
	}
	return out
}

func TestRebuildIsDeterministic(t *testing.T) {
	require := require.New(t)

	r1 := New(ConfigFixture(), core.AddressFixture(1))
	r2 := New(ConfigFixture(), core.AddressFixture(1))

	r1.Rebuild(addrs(1, 2, 3, 4, 5))
	r2.Rebuild(addrs(5, 4, 3, 2, 1))

	require.Equal(r1.Nodes(), r2.Nodes())
}

func TestFindNodesTooFewNodes(t *testing.T) {
	r := New(ConfigFixture(), core.AddressFixture(1))
	r.Rebuild(addrs(1, 2))

	_, _, _, ok := r.FindNodes("k")
	require.False(t, ok)
}

func TestFindNodesReturnsThreeDistinctSuccessors(t *testing.T) {
	require := require.New(t)

	r := New(ConfigFixture(), core.AddressFixture(1))
	r.Rebuild(addrs(1, 2, 3, 4, 5))

	primary, secondary, tertiary, ok := r.FindNodes("some-key")
	require.True(ok)

	nodes := r.Nodes()
	idx := -1
	for i, n := range nodes {
		if n.Address == primary.Address {
			idx = i
			break
		}
	}
	require.GreaterOrEqual(idx, 0)
	require.Equal(nodes[(idx+1)%len(nodes)].Address, secondary.Address)
	require.Equal(nodes[(idx+2)%len(nodes)].Address, tertiary.Address)
}

func TestStabilizeDetectsChange(t *testing.T) {
	require := require.New(t)

	self := core.AddressFixture(1)
	r := New(ConfigFixture(), self)

	r.Rebuild(addrs(1, 2, 3, 4, 5))
	require.True(r.DetectChange(), "first detection always reports a change")
	r.Commit()

	r.Rebuild(addrs(1, 2, 3, 4, 5))
	require.False(r.DetectChange(), "detection is idempotent with no ring change")
	r.Commit()

	r.Rebuild(addrs(1, 2, 3, 4, 5, 6))
	r.DetectChange()
	r.Commit()
	before := append([]core.Address(nil), r.HaveReplicasOf()...)

	r.Rebuild(addrs(1, 2, 3, 4, 5, 6))
	require.False(r.DetectChange())
	r.Commit()
	require.Equal(before, r.HaveReplicasOf())
}
