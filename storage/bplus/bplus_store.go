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
// Package bplus implements an in-memory storage.Store over a B-tree.
package bplus

import (
	"bytes"
	"sync"

	"github.com/google/btree"

	"github.com/bbva/veritree/storage"
)

// BPlusTreeStore keeps every table in a single ordered tree. It is safe
// for concurrent use; a Mutate batch is applied under one write lock so
// readers never observe half of it.
type BPlusTreeStore struct {
	sync.RWMutex
	db *btree.BTree
}

func NewBPlusTreeStore() *BPlusTreeStore {
	return &BPlusTreeStore{db: btree.New(2)}
}

func (s *BPlusTreeStore) Mutate(mutations []*storage.Mutation) error {
	s.Lock()
	defer s.Unlock()
	for _, m := range mutations {
		key := storage.PrefixedKey(m.Table, m.Key)
		if m.Delete {
			s.db.Delete(KVItem{key, nil})
			continue
		}
		value := make([]byte, len(m.Value))
		copy(value, m.Value)
		s.db.ReplaceOrInsert(KVItem{key, value})
	}
	return nil
}

func (s *BPlusTreeStore) Get(table storage.Table, key []byte) (*storage.KVPair, error) {
	s.RLock()
	defer s.RUnlock()
	item := s.db.Get(KVItem{storage.PrefixedKey(table, key), nil})
	if item == nil {
		return nil, storage.ErrKeyNotFound
	}
	value := item.(KVItem).Value
	result := storage.NewKVPair(key, make([]byte, len(value)))
	copy(result.Value, value)
	return &result, nil
}

func (s *BPlusTreeStore) GetAll(table storage.Table) storage.KVPairReader {
	return NewBPlusKVPairReader(table, s)
}

func (s *BPlusTreeStore) Close() error {
	s.Lock()
	defer s.Unlock()
	s.db.Clear(false)
	return nil
}

type KVItem struct {
	Key, Value []byte
}

func (p KVItem) Less(b btree.Item) bool {
	return bytes.Compare(p.Key, b.(KVItem).Key) < 0
}

type BPlusKVPairReader struct {
	prefix  byte
	store   *BPlusTreeStore
	lastKey []byte
	started bool
}

func NewBPlusKVPairReader(table storage.Table, store *BPlusTreeStore) *BPlusKVPairReader {
	return &BPlusKVPairReader{
		prefix:  table.Prefix(),
		store:   store,
		lastKey: []byte{table.Prefix()},
	}
}

func (r *BPlusKVPairReader) Read(buffer []*storage.KVPair) (n int, err error) {
	if r.store == nil {
		return 0, nil
	}
	r.store.RLock()
	defer r.store.RUnlock()

	r.store.db.AscendGreaterOrEqual(KVItem{r.lastKey, nil}, func(i btree.Item) bool {
		if n >= len(buffer) {
			return false
		}
		key := i.(KVItem).Key
		if key[0] != r.prefix {
			return false
		}
		// the last key of the previous read is included by the ascend
		if r.started && bytes.Equal(key, r.lastKey) {
			return true
		}
		buffer[n] = &storage.KVPair{Key: key[1:], Value: i.(KVItem).Value}
		n++
		r.lastKey = key
		r.started = true
		return true
	})
	return n, nil
}

func (r *BPlusKVPairReader) Close() {
	r.store = nil
}
