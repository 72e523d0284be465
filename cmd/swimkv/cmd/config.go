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
package cmd

import (
	"github.com/swimkv/swimkv/metrics"
	"github.com/swimkv/swimkv/node"
	"github.com/swimkv/swimkv/utils/log"
)

// SimulationConfig controls the size and duration of a driver run.
type SimulationConfig struct {
	NumNodes int     `yaml:"num_nodes" validate:"nonzero"`
	Ticks    int64   `yaml:"ticks" validate:"nonzero"`
	DropRate float64 `yaml:"drop_rate"`
}

func (c *SimulationConfig) applyDefaults() {
	if c.NumNodes == 0 {
		c.NumNodes = 5
	}
	if c.Ticks == 0 {
		c.Ticks = 100
	}
}

// Config is the swimkv driver's top-level configuration, following the
// teacher's convention of one struct per binary aggregating every
// component's own Config.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Node       node.Config      `yaml:"node"`
	Metrics    metrics.Config   `yaml:"metrics"`
	ZapLogging log.ZapConfig    `yaml:"zap_logging"`
}
