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
package membership

import (
	"testing"

	"github.com/swimkv/swimkv/core"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	require := require.New(t)

	for _, typ := range []MsgType{JOINREQ, JOINREP, GOSSIPHB} {
		m := Message{Type: typ, Address: core.AddressFixture(42), Heartbeat: 123456789}
		buf := Encode(m)
		require.Len(buf, messageSize)

		got, err := Decode(buf)
		require.NoError(err)
		require.Equal(m, got)
	}
}

func TestDecodeRejectsWrongSize(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestEncodePaddingByteIsZero(t *testing.T) {
	buf := Encode(Message{Type: GOSSIPHB, Address: core.AddressFixture(1), Heartbeat: 1})
	require.Equal(t, byte(0), buf[1+core.AddressSize])
}
