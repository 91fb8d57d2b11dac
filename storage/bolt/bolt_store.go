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
// Package bolt implements a storage.Store on top of a single bbolt file,
// keeping one bucket per table.
package bolt

import (
	"bytes"

	b "github.com/coreos/bbolt"
	"github.com/pkg/errors"

	"github.com/bbva/veritree/storage"
	"github.com/bbva/veritree/util"
)

type BoltStore struct {
	db *b.DB
}

func bucketName(table storage.Table) []byte {
	return []byte(table.String())
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := b.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "bolt: unable to open %s", path)
	}

	err = db.Update(func(tx *b.Tx) error {
		for _, table := range storage.Tables {
			if _, err := tx.CreateBucketIfNotExists(bucketName(table)); err != nil {
				return errors.Wrapf(err, "create bucket %s", table)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Mutate applies the whole batch inside a single bolt transaction.
func (s *BoltStore) Mutate(mutations []*storage.Mutation) error {
	err := s.db.Update(func(tx *b.Tx) error {
		for _, m := range mutations {
			bucket := tx.Bucket(bucketName(m.Table))
			var err error
			if m.Delete {
				err = bucket.Delete(m.Key)
			} else {
				err = bucket.Put(m.Key, m.Value)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	return errors.Wrap(err, "bolt: mutate")
}

func (s *BoltStore) Get(table storage.Table, key []byte) (*storage.KVPair, error) {
	var value []byte
	err := s.db.View(func(tx *b.Tx) error {
		v := tx.Bucket(bucketName(table)).Get(key)
		if v == nil {
			return storage.ErrKeyNotFound
		}
		// bolt values are only valid while the transaction is open
		value = util.CopyBytes(v)
		return nil
	})
	if err != nil {
		if err == storage.ErrKeyNotFound {
			return nil, err
		}
		return nil, errors.Wrap(err, "bolt: get")
	}
	return &storage.KVPair{Key: key, Value: value}, nil
}

// BoltKVPairReader opens a short read transaction on every Read and
// resumes after the last key returned, so no transaction stays open
// between calls.
type BoltKVPairReader struct {
	bucket  []byte
	db      *b.DB
	lastKey []byte
	started bool
}

func (r *BoltKVPairReader) Read(buffer []*storage.KVPair) (n int, err error) {
	err = r.db.View(func(tx *b.Tx) error {
		cursor := tx.Bucket(r.bucket).Cursor()

		var k, v []byte
		if !r.started {
			k, v = cursor.First()
		} else {
			k, v = cursor.Seek(r.lastKey)
			if k != nil && bytes.Equal(k, r.lastKey) {
				k, v = cursor.Next()
			}
		}

		for ; k != nil && n < len(buffer); k, v = cursor.Next() {
			buffer[n] = &storage.KVPair{Key: util.CopyBytes(k), Value: util.CopyBytes(v)}
			r.lastKey = buffer[n].Key
			r.started = true
			n++
		}
		return nil
	})
	return n, err
}

func (r *BoltKVPairReader) Close() {
	r.lastKey = nil
}

func (s *BoltStore) GetAll(table storage.Table) storage.KVPairReader {
	return &BoltKVPairReader{bucket: bucketName(table), db: s.db}
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
