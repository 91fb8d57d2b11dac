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
package middleware

import (
	"bytes"

	"github.com/google/btree"

	"github.com/bbva/veritree/db"
	"github.com/bbva/veritree/log"
	"github.com/bbva/veritree/protocol"
	"github.com/bbva/veritree/util"
)

const bufferDegree = 8

// intent is the pending write buffered for a key. A tombstone records a
// deletion.
type intent struct {
	key       []byte
	value     []byte
	tombstone bool
}

func (i *intent) Less(than btree.Item) bool {
	return bytes.Compare(i.key, than.(*intent).key) < 0
}

// Cache buffers writes until Commit. Reads see the buffer first: a pending
// value is returned and a tombstone hides the key. Prove, Verify and
// RootHash ignore the buffer and always reflect committed state.
//
// A Cache is not safe for concurrent use; callers serialize access to it.
type Cache struct {
	inner   Middleware
	buffer  *btree.BTree
	version uint64
}

func NewCache(inner Middleware) *Cache {
	return &Cache{inner: inner, buffer: btree.New(bufferDegree)}
}

// Inner returns the layer the cache forwards to.
func (c *Cache) Inner() Middleware {
	return c.inner
}

func (c *Cache) Get(key []byte) ([]byte, bool, error) {
	if item := c.buffer.Get(&intent{key: key}); item != nil {
		i := item.(*intent)
		if i.tombstone {
			return nil, false, nil
		}
		return util.CopyBytes(i.value), true, nil
	}
	return c.inner.Get(key)
}

// Set buffers value for key, replacing any previous intent, and echoes
// the key.
func (c *Cache) Set(key, value []byte) ([]byte, error) {
	v := util.CopyBytes(value)
	if v == nil {
		v = []byte{}
	}
	c.buffer.ReplaceOrInsert(&intent{key: util.CopyBytes(key), value: v})
	return key, nil
}

// Delete buffers a tombstone for key, replacing any previous intent.
func (c *Cache) Delete(key []byte) error {
	c.buffer.ReplaceOrInsert(&intent{key: util.CopyBytes(key), tombstone: true})
	return nil
}

// Pending returns the buffered operations in ascending key order.
func (c *Cache) Pending() []db.Operation {
	ops := make([]db.Operation, 0, c.buffer.Len())
	c.buffer.Ascend(func(item btree.Item) bool {
		i := item.(*intent)
		if i.tombstone {
			ops = append(ops, db.NewDelete(i.key))
		} else {
			ops = append(ops, db.NewSet(i.key, i.value))
		}
		return true
	})
	return ops
}

// Len returns the number of buffered intents.
func (c *Cache) Len() int {
	return c.buffer.Len()
}

// Dirty tells whether there is anything left to commit.
func (c *Cache) Dirty() bool {
	return c.buffer.Len() > 0
}

// Version returns the number of commits forwarded successfully.
func (c *Cache) Version() uint64 {
	return c.version
}

// Commit forwards the buffered operations, in key order, followed by
// extra in the order given. The buffer is only emptied once the inner
// commit succeeds; on failure it is left as it was so the caller may retry
// or Clean.
func (c *Cache) Commit(extra []db.Operation) error {
	ops := append(c.Pending(), extra...)
	if err := c.inner.Commit(ops); err != nil {
		log.Debugf("Cache commit of %d operations failed, keeping %d buffered", len(ops), c.buffer.Len())
		return err
	}
	c.buffer.Clear(false)
	c.version++
	log.Debugf("Cache committed %d operations, version %d", len(ops), c.version)
	return nil
}

// Clean drops the buffer without forwarding it.
func (c *Cache) Clean() error {
	log.Debugf("Cache discarding %d buffered operations", c.buffer.Len())
	c.buffer.Clear(false)
	return nil
}

func (c *Cache) Prove(req *protocol.ProveRequest) (*protocol.ProveResponse, error) {
	return c.inner.Prove(req)
}

func (c *Cache) Verify(req *protocol.VerifyRequest) (*protocol.VerifyResponse, error) {
	return c.inner.Verify(req)
}

func (c *Cache) RootHash() db.Root {
	return c.inner.RootHash()
}
