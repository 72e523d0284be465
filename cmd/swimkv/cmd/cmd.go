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

// Package cmd wires up and runs the swimkv simulation driver: it bootstraps
// a cluster of node.Nodes over a shared in-memory network.Emulator and
// advances them tick by tick, the way a real deployment's external clock
// would, logging membership convergence and storage outcomes as it goes.
package cmd

import (
	"context"
	"fmt"

	"github.com/swimkv/swimkv/core"
	"github.com/swimkv/swimkv/lib/eventlog"
	"github.com/swimkv/swimkv/lib/network"
	"github.com/swimkv/swimkv/metrics"
	"github.com/swimkv/swimkv/node"
	"github.com/swimkv/swimkv/utils/configutil"
	"github.com/swimkv/swimkv/utils/log"

	"github.com/uber-go/tally"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type options struct {
	config  *Config
	metrics tally.Scope
	logger  *zap.Logger
}

// Option defines an optional NewApp parameter.
type Option func(*options)

// WithConfig ignores config/secrets flags and directly uses the provided
// config struct.
func WithConfig(c Config) Option {
	return func(o *options) { o.config = &c }
}

// WithMetrics ignores metrics config and directly uses the provided tally
// scope.
func WithMetrics(s tally.Scope) Option {
	return func(o *options) { o.metrics = s }
}

// WithLogger ignores logging config and directly uses the provided logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// App is the swimkv simulation driver application.
type App struct {
	config Config
	flags  *Flags
	stats  tally.Scope
	logger *zap.Logger

	net     *network.Emulator
	logsink eventlog.Logger
	addrs   []core.Address
	nodes   map[core.Address]*node.Node

	cleanup []func()
}

// NewApp creates a new driver application, running it through the same
// parse-validate-load-configure staging every teacher binary in this
// module's lineage uses.
func NewApp(flags *Flags, opts ...Option) (*App, error) {
	app := &App{
		flags:   flags,
		cleanup: make([]func(), 0),
	}

	if err := app.parseOptions(opts...); err != nil {
		return nil, fmt.Errorf("parse options: %w", err)
	}
	if err := app.loadConfig(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := app.applyFlagOverrides(); err != nil {
		return nil, fmt.Errorf("apply flag overrides: %w", err)
	}
	if err := app.setupLogging(); err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	if err := app.setupMetrics(); err != nil {
		return nil, fmt.Errorf("setup metrics: %w", err)
	}
	if err := app.setupCluster(); err != nil {
		return nil, fmt.Errorf("setup cluster: %w", err)
	}

	return app, nil
}

func (a *App) parseOptions(opts ...Option) error {
	var overrides options
	for _, o := range opts {
		o(&overrides)
	}

	if overrides.config != nil {
		a.config = *overrides.config
	}
	if overrides.metrics != nil {
		a.stats = overrides.metrics
	}
	if overrides.logger != nil {
		a.logger = overrides.logger
	}

	return nil
}

func (a *App) loadConfig() error {
	if a.config == (Config{}) && a.flags.ConfigFile != "" {
		if err := configutil.Load(a.flags.ConfigFile, &a.config); err != nil {
			return fmt.Errorf("load config file: %w", err)
		}
		if a.flags.SecretsFile != "" {
			if err := configutil.Load(a.flags.SecretsFile, &a.config); err != nil {
				return fmt.Errorf("load secrets file: %w", err)
			}
		}
	}
	return nil
}

// applyFlagOverrides lets CLI flags override whatever the config file (or
// WithConfig) set, since the driver is most often invoked ad hoc rather
// than against a persisted config.
func (a *App) applyFlagOverrides() error {
	if a.flags.NumNodes > 0 {
		a.config.Simulation.NumNodes = a.flags.NumNodes
	}
	if a.flags.Ticks > 0 {
		a.config.Simulation.Ticks = a.flags.Ticks
	}
	if a.flags.DropRate >= 0 {
		a.config.Simulation.DropRate = a.flags.DropRate
	}
	a.config.Simulation.applyDefaults()
	return nil
}

func (a *App) setupLogging() error {
	if a.logger != nil {
		log.SetGlobalLogger(a.logger.Sugar())
	} else {
		zlog := log.ConfigureLogger(a.config.ZapLogging)
		a.logger = zlog.Desugar()
		a.cleanup = append(a.cleanup, func() { zlog.Sync() })
	}
	return nil
}

func (a *App) setupMetrics() error {
	if a.stats == nil {
		s, closer, err := metrics.New(a.config.Metrics)
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
		a.stats = s
		a.cleanup = append(a.cleanup, func() { closer.Close() })
	}
	return nil
}

// setupCluster builds the shared network emulator, the event logger, and
// one node.Node per simulated address, with core.Introducer() always
// occupying address 1 so every joiner has a well-known bootstrap target.
func (a *App) setupCluster() error {
	a.net = network.NewEmulator(network.EmulatorConfig{DropRate: a.config.Simulation.DropRate})
	a.logsink = eventlog.New(a.stats)

	n := a.config.Simulation.NumNodes
	a.addrs = make([]core.Address, 0, n)
	a.addrs = append(a.addrs, core.Introducer())
	for i := 2; i <= n; i++ {
		a.addrs = append(a.addrs, core.Address{ID: uint32(i), Port: 0})
	}

	a.nodes = make(map[core.Address]*node.Node, n)
	for _, addr := range a.addrs {
		a.nodes[addr] = node.New(addr, a.config.Node, a.net, nil, a.logsink)
	}
	return nil
}

// Run joins every node to the cluster and then advances the simulation for
// config.Simulation.Ticks time units, ticking every node concurrently
// within each round (never ticking the same node twice in one round) and
// barrier-synchronizing between rounds.
func (a *App) Run(ctx context.Context) error {
	for _, addr := range a.addrs {
		a.nodes[addr].Join()
	}

	for now := int64(1); now <= a.config.Simulation.Ticks; now++ {
		if err := a.tickAll(ctx, now); err != nil {
			return fmt.Errorf("tick %d: %w", now, err)
		}
	}

	log.Infof("simulation complete: %d nodes, %d ticks", len(a.addrs), a.config.Simulation.Ticks)
	return nil
}

func (a *App) tickAll(ctx context.Context, now int64) error {
	g, _ := errgroup.WithContext(ctx)
	for _, addr := range a.addrs {
		n := a.nodes[addr]
		g.Go(func() error {
			n.Tick(now)
			return nil
		})
	}
	return g.Wait()
}

// Node returns the node bootstrapped at addr, or nil if addr isn't part of
// this run's cluster. Exposed for callers (e.g. a REPL or test harness)
// that want to issue client operations against a specific node.
func (a *App) Node(addr core.Address) *node.Node {
	return a.nodes[addr]
}

// Close runs every registered cleanup function, in reverse registration
// order, the same convention the teacher's cmd.go binaries use.
func (a *App) Close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
}
