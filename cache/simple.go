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
package cache

import (
	"github.com/bbva/veritree/storage"
)

// keySize fits a node position id: a 2 byte height plus a 32 byte index.
const keySize = 34

// SimpleCache is an unbounded in-memory map of byte array as key and values.
type SimpleCache struct {
	cached map[[keySize]byte][]byte
}

// NewSimpleCache returns an empty SimpleCache of 'initialSize' size.
func NewSimpleCache(initialSize uint64) *SimpleCache {
	return &SimpleCache{make(map[[keySize]byte][]byte, initialSize)}
}

// Get function returns the value of a given key in cache, and a boolean showing if
// the key is or is not present.
func (c SimpleCache) Get(key []byte) ([]byte, bool) {
	var k [keySize]byte
	copy(k[:], key)
	value, ok := c.cached[k]
	return value, ok
}

// Put function adds a key/value element to the SimpleCache.
func (c *SimpleCache) Put(key []byte, value []byte) {
	var k [keySize]byte
	copy(k[:], key)
	c.cached[k] = value
}

func (c *SimpleCache) Delete(key []byte) {
	var k [keySize]byte
	copy(k[:], key)
	delete(c.cached, k)
}

// Fill function inserts a bulk of key/value elements into the cache.
func (c *SimpleCache) Fill(r storage.KVPairReader) error {
	return fill(r, c.Put)
}

// Size function returns the number of items currently in the cache.
func (c SimpleCache) Size() int {
	return len(c.cached)
}
