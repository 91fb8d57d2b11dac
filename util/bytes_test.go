/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUintRoundTrip(t *testing.T) {
	require.Equal(t, uint64(0x0102030405060708), BytesAsUint64(Uint64AsBytes(0x0102030405060708)))
	require.Equal(t, uint16(256), BytesAsUint16(Uint16AsBytes(256)))
	// big endian keeps numeric order under bytes.Compare
	require.True(t, bytes.Compare(Uint64AsBytes(1), Uint64AsBytes(256)) < 0)
}

func TestCopyBytes(t *testing.T) {
	require.Nil(t, CopyBytes(nil))

	orig := []byte{1, 2, 3}
	c := CopyBytes(orig)
	c[0] = 9
	require.Equal(t, []byte{1, 2, 3}, orig)
	require.Equal(t, []byte{}, CopyBytes([]byte{}))
}
