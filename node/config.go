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

// Package node wires the membership layer, ring manager, and storage
// coordinator together into the single externally-driven tick() entry
// point the simulation driver calls once per simulated time unit.
package node

import (
	"github.com/swimkv/swimkv/lib/hashring"
	"github.com/swimkv/swimkv/lib/membership"
	"github.com/swimkv/swimkv/lib/storage"
)

// Config aggregates the three subsystems' configuration.
type Config struct {
	Membership membership.Config `yaml:"membership"`
	Ring       hashring.Config   `yaml:"ring"`
	Storage    storage.Config    `yaml:"storage"`
}
