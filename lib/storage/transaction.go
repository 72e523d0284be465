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

import (
	"github.com/swimkv/swimkv/core"
	"github.com/swimkv/swimkv/lib/eventlog"
)

// reply is one collected REPLY/READREPLY for an open transaction.
type reply struct {
	From    core.Address
	Success bool   // meaningful for CRUD quorum
	Value   string // meaningful for READ; "" means not found
}

// transactionRecord tracks one in-flight client-side transaction: a
// dispatched CRUD, a read-repair UPDATE, or a stabilization CREATE. It is
// destroyed on quorum decision or on timeout.
//
// sentTo records the actual targets the transaction addressed, per the
// open question on stabilization bookkeeping: expected_replies derives
// from the real send count, not a copy of the primary-role request string.
// A timeout logs one failure for the record's op whatever that count is.
type transactionRecord struct {
	transID         int64
	startedAt       int64
	op              eventlog.Op
	key             string
	expectedReplies int
	sentTo          []core.Address

	loggedFlag bool
	replies    []reply
}

func newTransactionRecord(transID int64, startedAt int64, op eventlog.Op, key string, sentTo []core.Address) *transactionRecord {
	return &transactionRecord{
		transID:         transID,
		startedAt:       startedAt,
		op:              op,
		key:             key,
		expectedReplies: len(sentTo),
		sentTo:          sentTo,
	}
}

// quorumThreshold returns ceil((n+1)/2).
func quorumThreshold(n int) int {
	return (n + 2) / 2
}
