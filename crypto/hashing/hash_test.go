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

package hashing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSha256(t *testing.T) {
	h := NewSha256Hasher()
	// echo -n "hello" | sha256sum
	expected := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	require.Equal(t, expected, fmt.Sprintf("%x", h.Do([]byte("hello"))))
	require.Equal(t, uint16(256), h.Len())
}

func TestDoIsConcatenation(t *testing.T) {
	for _, newHasher := range []HasherF{NewSha256Hasher, NewBlake2bHasher, NewXorHasher} {
		h := newHasher()
		require.Equal(t, h.Do([]byte("hello world")), h.Do([]byte("hello"), []byte(" world")))
	}
}

func TestSalted(t *testing.T) {
	h := NewBlake2bHasher()
	require.Equal(t, h.Do([]byte("a"), []byte("salt")), h.Salted([]byte("salt"), []byte("a")))
}

func TestNewHasherF(t *testing.T) {
	testCases := []struct {
		testname    string
		name        string
		length      uint16
		expectedErr bool
	}{
		{"blake2b", BLAKE2B, 256, false},
		{"sha256", SHA256, 256, false},
		{"xor", XOR, 8, false},
		{"unknown", "md5", 0, true},
	}

	for _, test := range testCases {
		f, err := NewHasherF(test.name)
		if test.expectedErr {
			require.Errorf(t, err, "Expected error in test: %s", test.testname)
			continue
		}
		require.NoErrorf(t, err, "Unexpected error in test: %s", test.testname)
		require.Equalf(t, test.length, f().Len(), "Wrong length in test: %s", test.testname)
	}
}
