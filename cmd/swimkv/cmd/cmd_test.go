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
	"context"
	"flag"
	"os"
	"testing"

	"github.com/swimkv/swimkv/core"
	"github.com/swimkv/swimkv/node"

	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
)

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	oldCommandLine := flag.CommandLine
	defer func() {
		os.Args = oldArgs
		flag.CommandLine = oldCommandLine
	}()

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	os.Args = []string{
		"swimkv",
		"-config=config.yaml",
		"-secrets=secrets.yaml",
		"-nodes=7",
		"-ticks=50",
		"-drop-rate=0.1",
	}

	flags := ParseFlags()

	require.Equal(t, "config.yaml", flags.ConfigFile)
	require.Equal(t, "secrets.yaml", flags.SecretsFile)
	require.Equal(t, 7, flags.NumNodes)
	require.Equal(t, int64(50), flags.Ticks)
	require.Equal(t, 0.1, flags.DropRate)
}

func TestWithConfigOption(t *testing.T) {
	var o options
	c := Config{Simulation: SimulationConfig{NumNodes: 9}}
	WithConfig(c)(&o)
	require.Equal(t, 9, o.config.Simulation.NumNodes)
}

func TestWithMetricsOption(t *testing.T) {
	var o options
	s := tally.NoopScope
	WithMetrics(s)(&o)
	require.Equal(t, s, o.metrics)
}

func TestNewAppAndRun(t *testing.T) {
	flags := &Flags{NumNodes: 5, Ticks: 40, DropRate: 0}

	app, err := NewApp(flags, WithConfig(Config{
		Simulation: SimulationConfig{NumNodes: 5, Ticks: 40},
		Node:       node.ConfigFixture(),
	}))
	require.NoError(t, err)
	defer app.Close()

	require.NoError(t, app.Run(context.Background()))

	introducer := app.Node(core.Introducer())
	require.NotNil(t, introducer)
	require.True(t, introducer.InGroup())
	require.Equal(t, 5, introducer.PeerView().Len())
}
