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

// Config defines the gossip failure detector's tunable parameters, all
// expressed in heartbeats.
type Config struct {
	// TFail is the number of heartbeats of silence after which a peer is
	// suspected and excluded from gossip.
	TFail int64 `yaml:"tfail" validate:"nonzero"`

	// TRemove is the number of heartbeats of silence after which a
	// suspected peer is evicted. Must exceed TFail.
	TRemove int64 `yaml:"tremove" validate:"nonzero"`

	// Fanout is the number of random healthy peers gossiped to per tick.
	Fanout int `yaml:"fanout" validate:"nonzero"`
}

func (c *Config) applyDefaults() {
	if c.TFail == 0 {
		c.TFail = 5
	}
	if c.TRemove == 0 {
		c.TRemove = 3 * c.TFail
	}
	if c.Fanout == 0 {
		c.Fanout = 3
	}
}
