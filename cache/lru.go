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
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/bbva/veritree/storage"
)

// LRUCache keeps at most size entries, evicting the least recently used.
type LRUCache struct {
	cached *lru.Cache
}

func NewLRUCache(size int) (*LRUCache, error) {
	cached, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrapf(err, "lru cache of size %d", size)
	}
	return &LRUCache{cached: cached}, nil
}

func (c LRUCache) Get(key []byte) ([]byte, bool) {
	value, ok := c.cached.Get(string(key))
	if !ok {
		return nil, false
	}
	return value.([]byte), true
}

func (c *LRUCache) Put(key []byte, value []byte) {
	c.cached.Add(string(key), value)
}

func (c *LRUCache) Delete(key []byte) {
	c.cached.Remove(string(key))
}

func (c *LRUCache) Fill(r storage.KVPairReader) error {
	return fill(r, c.Put)
}

func (c LRUCache) Size() int {
	return c.cached.Len()
}
