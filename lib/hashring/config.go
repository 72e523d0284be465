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

// Config configures the consistent-hash ring.
type Config struct {
	// RingSize is the modulus every address hash is reduced into.
	RingSize uint64 `yaml:"ring_size" validate:"nonzero"`
}

func (c *Config) applyDefaults() {
	if c.RingSize == 0 {
		c.RingSize = 1 << 16
	}
}
