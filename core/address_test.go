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
package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddressBytesRoundTrip(t *testing.T) {
	require := require.New(t)

	a := Address{ID: 0x01020304, Port: 0xABCD}
	b := AddressFromBytes(a.Bytes())
	require.Equal(a, b)
}

func TestAddressLess(t *testing.T) {
	require := require.New(t)

	require.True(Address{ID: 1, Port: 0}.Less(Address{ID: 2, Port: 0}))
	require.True(Address{ID: 1, Port: 0}.Less(Address{ID: 1, Port: 1}))
	require.False(Address{ID: 1, Port: 1}.Less(Address{ID: 1, Port: 0}))
	require.False(Address{ID: 1, Port: 0}.Less(Address{ID: 1, Port: 0}))
}

func TestIntroducer(t *testing.T) {
	require := require.New(t)

	require.True(Introducer().IsIntroducer())
	require.False(AddressFixture(2).IsIntroducer())
}

func TestAddressString(t *testing.T) {
	require := require.New(t)

	a := Address{ID: 0x0A0B0C0D, Port: 9000}
	require.Equal("10.11.12.13:9000", a.String())
}
