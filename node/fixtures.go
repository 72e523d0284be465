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
package node

import (
	"github.com/swimkv/swimkv/lib/hashring"
	"github.com/swimkv/swimkv/lib/membership"
	"github.com/swimkv/swimkv/lib/storage"
)

// ConfigFixture returns a Config with small thresholds suitable for fast
// deterministic tests.
func ConfigFixture() Config {
	return Config{
		Membership: membership.ConfigFixture(),
		Ring:       hashring.ConfigFixture(),
		Storage:    storage.ConfigFixture(),
	}
}
