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

import "github.com/spaolacci/murmur3"

// hash64 is the stable non-cryptographic string hash H used throughout the
// ring: H(s) mod ringSize. It is a thin wrapper over murmur3.Sum64 so that
// every caller reduces modulo the same RingSize.
func hash64(s string, ringSize uint64) uint64 {
	return murmur3.Sum64([]byte(s)) % ringSize
}
