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

// Package eventlog defines the structured event log the membership and
// storage layers record node membership changes and per-operation
// outcomes into. It is an external collaborator per the core's scope: the
// core only ever calls into the Logger interface, never owns the sink.
package eventlog

import (
	"github.com/swimkv/swimkv/core"
	"github.com/swimkv/swimkv/utils/log"

	"github.com/uber-go/tally"
)

// Op identifies which CRUD operation a CRUD log event describes.
type Op string

const (
	OpCreate Op = "create"
	OpRead   Op = "read"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Logger is the event-log collaborator. Every method is a one-shot record
// of something that happened; Logger implementations must not block or
// fail the caller.
type Logger interface {
	// NodeAdd records that self's PeerView gained addr.
	NodeAdd(self, addr core.Address)

	// NodeRemove records that self's PeerView evicted addr.
	NodeRemove(self, addr core.Address)

	// OpSuccess records a successful CRUD outcome for key at self.
	// coordinator is true when self is logging its own client-side
	// decision rather than a replica's server-side handling.
	OpSuccess(self core.Address, op Op, key string, coordinator bool)

	// OpFailure records a failed CRUD outcome for key at self.
	OpFailure(self core.Address, op Op, key string, coordinator bool)
}

// scopedLogger is the default Logger, grounded on the teacher's pattern of
// wrapping a package-level zap logger with a tally.Scope for counters.
type scopedLogger struct {
	scope tally.Scope
}

// New returns the default Logger, which writes to the global log package
// and increments counters on scope.
func New(scope tally.Scope) Logger {
	if scope == nil {
		scope = tally.NoopScope
	}
	return &scopedLogger{scope: scope}
}

func (l *scopedLogger) NodeAdd(self, addr core.Address) {
	log.Infof("%s: peer added: %s", self, addr)
	l.scope.Counter("membership.node_add").Inc(1)
}

func (l *scopedLogger) NodeRemove(self, addr core.Address) {
	log.Infof("%s: peer removed: %s", self, addr)
	l.scope.Counter("membership.node_remove").Inc(1)
}

func (l *scopedLogger) OpSuccess(self core.Address, op Op, key string, coordinator bool) {
	log.Debugf("%s: %s success key=%s coordinator=%v", self, op, key, coordinator)
	l.scope.Tagged(map[string]string{"op": string(op), "role": role(coordinator)}).
		Counter("storage.success").Inc(1)
}

func (l *scopedLogger) OpFailure(self core.Address, op Op, key string, coordinator bool) {
	log.Debugf("%s: %s failure key=%s coordinator=%v", self, op, key, coordinator)
	l.scope.Tagged(map[string]string{"op": string(op), "role": role(coordinator)}).
		Counter("storage.failure").Inc(1)
}

func role(coordinator bool) string {
	if coordinator {
		return "coordinator"
	}
	return "replica"
}
