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
package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPositionChildren(t *testing.T) {
	root := rootPosition()
	require.Equal(t, uint16(numBits), root.height)

	left, right := root.Left(), root.Right()
	require.Equal(t, uint16(numBits-1), left.height)
	require.False(t, left.IsRightChild())
	require.True(t, right.IsRightChild())
	require.Equal(t, byte(0x80), right.index[0])

	require.Equal(t, right.Id(), left.Sibling().Id())
	require.Equal(t, root.Id(), left.Parent().Id())
	require.Equal(t, root.Id(), right.Parent().Id())
}

func TestPositionMasksIndex(t *testing.T) {
	index := make([]byte, indexLen)
	for i := range index {
		index[i] = 0xff
	}

	testCases := []struct {
		testname string
		height   uint16
		first    byte
		last     byte
	}{
		{"leaf keeps every bit", 0, 0xff, 0xff},
		{"height 4 clears the low nibble", 4, 0xff, 0xf0},
		{"height 8 clears the last byte", 8, 0xff, 0x00},
		{"height 253 keeps three bits", 253, 0xe0, 0x00},
		{"root clears everything", numBits, 0x00, 0x00},
	}

	for _, test := range testCases {
		pos := newPosition(test.height, index)
		require.Equalf(t, test.first, pos.index[0], "Wrong first byte in test: %s", test.testname)
		require.Equalf(t, test.last, pos.index[indexLen-1], "Wrong last byte in test: %s", test.testname)
		require.Lenf(t, pos.Id(), positionLen, "Wrong id length in test: %s", test.testname)
	}
}

func TestPathReachesRoot(t *testing.T) {
	index := []byte("0123456789abcdef0123456789abcdef")
	pos := newPosition(0, index)
	for pos.height < numBits {
		parent := pos.Parent()
		if pos.IsRightChild() {
			require.Equal(t, parent.Right().Id(), pos.Id())
		} else {
			require.Equal(t, parent.Left().Id(), pos.Id())
		}
		pos = parent
	}
	require.Equal(t, rootPosition().Id(), pos.Id())
}
