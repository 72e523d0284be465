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

import "flag"

// Flags defines the swimkv simulation driver's CLI flags.
type Flags struct {
	ConfigFile  string
	SecretsFile string
	NumNodes    int
	Ticks       int64
	DropRate    float64
}

// ParseFlags parses the driver's CLI flags.
func ParseFlags() *Flags {
	var flags Flags
	flag.StringVar(
		&flags.ConfigFile, "config", "", "configuration file path")
	flag.StringVar(
		&flags.SecretsFile, "secrets", "", "path to a secrets YAML file to load into configuration")
	flag.IntVar(
		&flags.NumNodes, "nodes", 0, "number of simulated nodes to bootstrap, including the introducer")
	flag.Int64Var(
		&flags.Ticks, "ticks", 0, "number of simulated time units to run before exiting")
	flag.Float64Var(
		&flags.DropRate, "drop-rate", -1, "fraction of packets the network drops, in [0,1]; overrides config if >= 0")
	flag.Parse()
	return &flags
}
