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
// Package cache implements the node caches the Merkle engine keeps in
// front of its store. Caches may drop entries at any time: the engine
// always falls back to the store, so a miss is never an error.
package cache

import (
	"fmt"

	"github.com/bbva/veritree/storage"
)

// Cache kinds accepted by New.
const (
	NONE   = "none"
	SIMPLE = "simple"
	LRU    = "lru"
	FAST   = "fast"
	FREE   = "free"
)

type Cache interface {
	Get(key []byte) ([]byte, bool)
	Put(key []byte, value []byte)
	Delete(key []byte)
	Size() int
}

// FillableCache can be bulk loaded from a storage table.
type FillableCache interface {
	Cache
	Fill(r storage.KVPairReader) error
}

// New builds a cache of the given kind. Size is a number of entries for
// the simple and lru caches and a number of bytes for fast and free.
func New(kind string, size int) (FillableCache, error) {
	switch kind {
	case NONE, "":
		return NewNoCache(), nil
	case SIMPLE:
		return NewSimpleCache(uint64(size)), nil
	case LRU:
		c, err := NewLRUCache(size)
		if err != nil {
			return nil, err
		}
		return c, nil
	case FAST:
		return NewFastCache(int64(size)), nil
	case FREE:
		return NewFreeCache(size), nil
	default:
		return nil, fmt.Errorf("unknown cache kind %q", kind)
	}
}

const fillBatch = 100

// fill drains r into put, closing the reader when done.
func fill(r storage.KVPairReader, put func(key, value []byte)) error {
	defer r.Close()
	for {
		entries := make([]*storage.KVPair, fillBatch)
		n, err := r.Read(entries)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		for _, entry := range entries[:n] {
			put(entry.Key, entry.Value)
		}
	}
}

// NoCache never holds anything. Every lookup goes to the store.
type NoCache struct{}

func NewNoCache() *NoCache { return &NoCache{} }

func (c NoCache) Get([]byte) ([]byte, bool) { return nil, false }
func (c NoCache) Put([]byte, []byte) {}
func (c NoCache) Delete([]byte) {}
func (c NoCache) Size() int { return 0 }
func (c NoCache) Fill(r storage.KVPairReader) error {
	r.Close()
	return nil
}
