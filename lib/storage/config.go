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

// Config configures the storage coordinator.
type Config struct {
	// Timeout is the number of heartbeats an open TransactionRecord may
	// live before it is expired and logged as a coordinator-side failure.
	Timeout int64 `yaml:"timeout" validate:"nonzero"`
}

func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 10
	}
}
