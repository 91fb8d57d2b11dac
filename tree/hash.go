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
	"github.com/bbva/veritree/crypto/hashing"
)

// Domain separation prefixes for the three kinds of digest.
const (
	leafPrefix     = byte(0x00)
	interiorPrefix = byte(0x01)
	emptyPrefix    = byte(0x02)
)

// digester computes node digests with a single, non shared hasher.
type digester struct {
	hasher   hashing.Hasher
	defaults [][]byte
}

func newDigester(hasher hashing.Hasher, defaults [][]byte) *digester {
	return &digester{hasher: hasher, defaults: defaults}
}

func (d *digester) leaf(index, value []byte) []byte {
	valueDigest := d.hasher.Do(value)
	return d.hasher.Do([]byte{leafPrefix}, index, valueDigest)
}

func (d *digester) interior(left, right []byte) []byte {
	return d.hasher.Do([]byte{interiorPrefix}, left, right)
}

func (d *digester) index(key []byte) []byte {
	return d.hasher.Do(key)
}

// defaultHashes returns the digest of an empty subtree for every height
// between the leaves (0) and the root (numBits).
func defaultHashes(hasher hashing.Hasher) [][]byte {
	defaults := make([][]byte, numBits+1)
	defaults[0] = hasher.Do([]byte{emptyPrefix})
	for i := 1; i <= numBits; i++ {
		defaults[i] = hasher.Do([]byte{interiorPrefix}, defaults[i-1], defaults[i-1])
	}
	return defaults
}
