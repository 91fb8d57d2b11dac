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
	"fmt"

	"github.com/bbva/veritree/util"
)

const (
	numBits     = 256
	indexLen    = numBits / 8
	heightLen   = 2
	positionLen = heightLen + indexLen
)

// position identifies a node by its height and the index prefix every leaf
// below it shares. Index bits past the prefix are always zero.
type position struct {
	height uint16
	index  []byte
}

func newPosition(height uint16, index []byte) position {
	masked := make([]byte, indexLen)
	copy(masked, index)
	clearFrom(masked, numBits-int(height))
	return position{height: height, index: masked}
}

func rootPosition() position {
	return position{height: numBits, index: make([]byte, indexLen)}
}

// Id is the storage key of the node: height big endian followed by the
// masked index, so nodes of the same height sort together.
func (p position) Id() []byte {
	id := make([]byte, positionLen)
	copy(id, util.Uint16AsBytes(p.height))
	copy(id[heightLen:], p.index)
	return id
}

func (p position) String() string {
	return fmt.Sprintf("height: %d, index: %x", p.height, p.index)
}

func (p position) IsLeaf() bool {
	return p.height == 0
}

// Parent returns the position one level above.
func (p position) Parent() position {
	return newPosition(p.height+1, p.index)
}

// Left and Right return the children of an interior position.
func (p position) Left() position {
	return position{height: p.height - 1, index: p.index}
}

func (p position) Right() position {
	index := make([]byte, indexLen)
	copy(index, p.index)
	bitSet(index, numBits-int(p.height))
	return position{height: p.height - 1, index: index}
}

// Sibling returns the other child of the parent of p.
func (p position) Sibling() position {
	index := make([]byte, indexLen)
	copy(index, p.index)
	bitFlip(index, splitBit(p.height))
	return position{height: p.height, index: index}
}

// IsRightChild tells whether p hangs on the right of its parent.
func (p position) IsRightChild() bool {
	return bitIsSet(p.index, splitBit(p.height))
}

// splitBit is the bit, counted from the most significant, that separates
// the two children of a node at height+1.
func splitBit(height uint16) int {
	return numBits - 1 - int(height)
}

func bitIsSet(b []byte, i int) bool {
	return b[i/8]&(0x80>>uint(i%8)) != 0
}

func bitSet(b []byte, i int) {
	b[i/8] |= 0x80 >> uint(i%8)
}

func bitFlip(b []byte, i int) {
	b[i/8] ^= 0x80 >> uint(i%8)
}

// clearFrom zeroes every bit of b from bit i onwards.
func clearFrom(b []byte, i int) {
	full := i / 8
	if rem := i % 8; rem > 0 {
		b[full] &= 0xff << uint(8-rem)
		full++
	}
	for ; full < len(b); full++ {
		b[full] = 0
	}
}
