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
// Package tree implements a 256 bit sparse Merkle tree over a
// storage.Store. Every key is placed at the leaf addressed by the digest of
// the key, so the root commits to the whole key space and any key can be
// proven present or absent.
package tree

import (
	"bytes"
	"sync"

	"github.com/pkg/errors"

	"github.com/bbva/veritree/cache"
	"github.com/bbva/veritree/crypto/hashing"
	"github.com/bbva/veritree/log"
	"github.com/bbva/veritree/metrics"
	"github.com/bbva/veritree/storage"
	"github.com/bbva/veritree/util"
)

var (
	ErrHasherSize   = errors.New("tree: hasher must produce 256 bit digests")
	ErrEmptyRequest = errors.New("tree: no keys to prove")
)

var (
	rootKey    = []byte("root")
	versionKey = []byte("version")
)

// Change is a single write applied by Tree.Apply. A Change with Delete set
// removes the key and ignores Value.
type Change struct {
	Key, Value []byte
	Delete     bool
}

// leaf is the record kept in the leaves table, indexed by the key digest.
type leaf struct {
	Key   []byte
	Value []byte
}

type stagedNode struct {
	height uint16
	digest []byte
}

type Tree struct {
	sync.RWMutex
	store    storage.Store
	cache    cache.Cache
	hasherF  hashing.HasherF
	defaults [][]byte
	root     []byte
	version  uint64
}

// NewTree loads the tree persisted in store, or an empty one. Nodes read
// from the store are kept in nodes, which may be nil.
func NewTree(store storage.Store, nodes cache.Cache, hasherF hashing.HasherF) (*Tree, error) {
	hasher := hasherF()
	if hasher.Len() != numBits {
		return nil, ErrHasherSize
	}
	if nodes == nil {
		nodes = cache.NewNoCache()
	}

	t := &Tree{
		store:    store,
		cache:    nodes,
		hasherF:  hasherF,
		defaults: defaultHashes(hasher),
	}
	t.root = t.defaults[numBits]

	pair, err := store.Get(storage.MetaTable, rootKey)
	switch err {
	case nil:
		t.root = pair.Value
	case storage.ErrKeyNotFound:
	default:
		return nil, errors.Wrap(err, "tree: unable to load root")
	}

	pair, err = store.Get(storage.MetaTable, versionKey)
	switch err {
	case nil:
		t.version = util.BytesAsUint64(pair.Value)
	case storage.ErrKeyNotFound:
	default:
		return nil, errors.Wrap(err, "tree: unable to load version")
	}

	log.Debugf("Tree loaded at version %d with root %x", t.version, t.root)
	return t, nil
}

func (t *Tree) digester() *digester {
	return newDigester(t.hasherF(), t.defaults)
}

// RootHash returns the digest of the last applied batch.
func (t *Tree) RootHash() []byte {
	t.RLock()
	defer t.RUnlock()
	return util.CopyBytes(t.root)
}

// Version returns the number of batches applied since the tree was created.
func (t *Tree) Version() uint64 {
	t.RLock()
	defer t.RUnlock()
	return t.version
}

// DefaultRoot returns the root of an empty tree.
func (t *Tree) DefaultRoot() []byte {
	return util.CopyBytes(t.defaults[numBits])
}

func (t *Tree) Get(key []byte) ([]byte, bool, error) {
	t.RLock()
	defer t.RUnlock()
	return t.getLeaf(t.digester().index(key), key)
}

func (t *Tree) getLeaf(index, key []byte) ([]byte, bool, error) {
	pair, err := t.store.Get(storage.LeavesTable, index)
	if err == storage.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "tree: unable to read leaf")
	}

	var l leaf
	if err := decodeMsgPack(pair.Value, &l); err != nil {
		return nil, false, errors.Wrap(err, "tree: unable to decode leaf")
	}
	if !bytes.Equal(l.Key, key) {
		return nil, false, nil
	}
	if l.Value == nil {
		l.Value = []byte{}
	}
	return l.Value, true, nil
}

// digestAt resolves a node digest from staged, then the cache, then the
// store, and finally the default digest of its height. Only callers
// holding the write lock pass a staging map; they also refill the cache
// with what they read from the store.
func (t *Tree) digestAt(pos position, staged map[string]stagedNode) ([]byte, error) {
	id := pos.Id()
	if staged != nil {
		if node, ok := staged[string(id)]; ok {
			return node.digest, nil
		}
	}

	if digest, ok := t.cache.Get(id); ok {
		metrics.TreeNodeReads.WithLabelValues("cache").Inc()
		return digest, nil
	}

	pair, err := t.store.Get(storage.NodesTable, id)
	switch err {
	case nil:
		metrics.TreeNodeReads.WithLabelValues("store").Inc()
		if staged != nil {
			t.cache.Put(id, pair.Value)
		}
		return pair.Value, nil
	case storage.ErrKeyNotFound:
		metrics.TreeNodeReads.WithLabelValues("default").Inc()
		return t.defaults[pos.height], nil
	default:
		return nil, errors.Wrapf(err, "tree: unable to read node %s", pos)
	}
}

// Apply writes the batch and returns the new root. Later changes to the
// same key win. Every node, leaf and metadata change is persisted with a
// single store mutation: on failure nothing is written and the tree keeps
// its previous root. An empty batch is a no-op.
func (t *Tree) Apply(changes []Change) ([]byte, error) {
	t.Lock()
	defer t.Unlock()

	if len(changes) == 0 {
		return util.CopyBytes(t.root), nil
	}

	d := t.digester()

	latest := make(map[string]Change, len(changes))
	for _, c := range changes {
		latest[string(d.index(c.Key))] = c
	}

	staged := make(map[string]stagedNode)
	mutations := make([]*storage.Mutation, 0, len(latest)*(numBits+2)+2)

	level := make([]position, 0, len(latest))
	for index, c := range latest {
		pos := newPosition(0, []byte(index))
		var digest []byte
		if c.Delete {
			digest = t.defaults[0]
			mutations = append(mutations, storage.NewDeletion(storage.LeavesTable, pos.index))
		} else {
			encoded, err := encodeMsgPack(&leaf{Key: c.Key, Value: c.Value})
			if err != nil {
				return nil, errors.Wrap(err, "tree: unable to encode leaf")
			}
			digest = d.leaf(pos.index, c.Value)
			mutations = append(mutations, storage.NewMutation(storage.LeavesTable, pos.index, encoded))
		}
		staged[string(pos.Id())] = stagedNode{height: 0, digest: digest}
		level = append(level, pos)
	}

	for height := 1; height <= numBits; height++ {
		seen := make(map[string]bool, len(level))
		next := make([]position, 0, len(level))
		for _, child := range level {
			parent := child.Parent()
			id := string(parent.Id())
			if seen[id] {
				continue
			}
			seen[id] = true

			left, err := t.digestAt(parent.Left(), staged)
			if err != nil {
				return nil, err
			}
			right, err := t.digestAt(parent.Right(), staged)
			if err != nil {
				return nil, err
			}
			staged[id] = stagedNode{height: parent.height, digest: d.interior(left, right)}
			next = append(next, parent)
		}
		level = next
	}

	root := staged[string(rootPosition().Id())].digest
	version := t.version + 1

	for id, node := range staged {
		if bytes.Equal(node.digest, t.defaults[node.height]) {
			mutations = append(mutations, storage.NewDeletion(storage.NodesTable, []byte(id)))
		} else {
			mutations = append(mutations, storage.NewMutation(storage.NodesTable, []byte(id), node.digest))
		}
	}
	mutations = append(mutations,
		storage.NewMutation(storage.MetaTable, rootKey, root),
		storage.NewMutation(storage.MetaTable, versionKey, util.Uint64AsBytes(version)),
	)

	if err := t.store.Mutate(mutations); err != nil {
		return nil, errors.Wrap(err, "tree: unable to persist batch")
	}

	for id, node := range staged {
		if bytes.Equal(node.digest, t.defaults[node.height]) {
			t.cache.Delete([]byte(id))
		} else {
			t.cache.Put([]byte(id), node.digest)
		}
	}
	t.root = root
	t.version = version

	log.Debugf("Tree applied %d changes at version %d: root %x", len(latest), version, root)
	return util.CopyBytes(root), nil
}
