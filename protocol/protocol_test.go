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
package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProveRequestInsert(t *testing.T) {
	req := NewProveRequest([]byte("a")).Insert([]byte("b")).Insert([]byte("a"))
	require.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("a")}, req.Keys)
}

func TestVerifyRequestInsert(t *testing.T) {
	var req VerifyRequest
	req.Insert([]byte("a"), []byte("1")).Insert([]byte("a"), []byte("2"))
	require.Len(t, req.KV, 1)
	require.Equal(t, []byte("2"), req.KV["a"])
}

func TestVerifyRequestEncoding(t *testing.T) {
	var root [RootLen]byte
	for i := range root {
		root[i] = byte(i)
	}
	req := NewVerifyRequest([]byte{0x1, 0x2, 0x3}, root).Insert([]byte{0x1, 0x2, 0x3}, []byte{0x4, 0x5, 0x6})
	req.Strict = true

	encoded, err := req.Encode()
	require.NoError(t, err)

	var decoded VerifyRequest
	require.NoError(t, decoded.Decode(encoded))
	require.Equal(t, req.Proof, decoded.Proof)
	require.Equal(t, root, decoded.ExpectedRoot)
	require.Equal(t, []byte{0x4, 0x5, 0x6}, decoded.KV[string([]byte{0x1, 0x2, 0x3})])
	require.True(t, decoded.Strict)
}

func TestVerifyRequestRejectsShortRoot(t *testing.T) {
	encoded, err := encode(&verifyRequestMsg{Proof: []byte{0x1}, ExpectedRoot: []byte{0x1}}, "test")
	require.NoError(t, err)

	var decoded VerifyRequest
	require.Error(t, decoded.Decode(encoded))
}

func TestProveResponseDecodeFailure(t *testing.T) {
	resp := &ProveResponse{Proof: []byte("proof")}
	encoded, err := resp.Encode()
	require.NoError(t, err)

	var decoded ProveResponse
	require.NoError(t, decoded.Decode(encoded))
	require.Equal(t, resp.Proof, decoded.Proof)

	require.Error(t, decoded.Decode(encoded[:len(encoded)-2]))
}
