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
// Package leveldb implements a storage.Store on top of goleveldb. All the
// tables share one keyspace and are told apart by the key prefix.
package leveldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	lstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bbva/veritree/storage"
)

type LevelDBStore struct {
	db   *leveldb.DB
	sync bool
}

// NewLevelDBStore opens the database at path. An empty path opens an
// in-memory database that vanishes on Close.
func NewLevelDBStore(path string) (*LevelDBStore, error) {
	var db *leveldb.DB
	var err error
	if path == "" {
		db, err = leveldb.Open(lstorage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "leveldb: unable to open %q", path)
	}
	return &LevelDBStore{db: db, sync: path != ""}, nil
}

// Mutate writes the whole batch atomically.
func (s *LevelDBStore) Mutate(mutations []*storage.Mutation) error {
	batch := new(leveldb.Batch)
	for _, m := range mutations {
		key := storage.PrefixedKey(m.Table, m.Key)
		if m.Delete {
			batch.Delete(key)
		} else {
			batch.Put(key, m.Value)
		}
	}
	err := s.db.Write(batch, &opt.WriteOptions{Sync: s.sync})
	return errors.Wrap(err, "leveldb: mutate")
}

func (s *LevelDBStore) Get(table storage.Table, key []byte) (*storage.KVPair, error) {
	value, err := s.db.Get(storage.PrefixedKey(table, key), nil)
	switch err {
	case nil:
		return &storage.KVPair{Key: key, Value: value}, nil
	case leveldb.ErrNotFound:
		return nil, storage.ErrKeyNotFound
	default:
		return nil, errors.Wrap(err, "leveldb: get")
	}
}

type LevelDBKVPairReader struct {
	snapshot *leveldb.Snapshot
	it       iterator.Iterator
}

func (r *LevelDBKVPairReader) Read(buffer []*storage.KVPair) (n int, err error) {
	for n < len(buffer) && r.it.Next() {
		// iterator slices are reused on the next call
		key := append([]byte(nil), r.it.Key()[1:]...)
		value := append([]byte(nil), r.it.Value()...)
		buffer[n] = &storage.KVPair{Key: key, Value: value}
		n++
	}
	return n, r.it.Error()
}

func (r *LevelDBKVPairReader) Close() {
	r.it.Release()
	if r.snapshot != nil {
		r.snapshot.Release()
	}
}

// GetAll iterates over a snapshot so concurrent writes are not observed.
func (s *LevelDBStore) GetAll(table storage.Table) storage.KVPairReader {
	rng := util.BytesPrefix([]byte{table.Prefix()})
	snapshot, err := s.db.GetSnapshot()
	if err != nil {
		return &LevelDBKVPairReader{it: s.db.NewIterator(rng, nil)}
	}
	return &LevelDBKVPairReader{snapshot: snapshot, it: snapshot.NewIterator(rng, nil)}
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
