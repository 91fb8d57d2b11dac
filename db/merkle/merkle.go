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
// Package merkle implements db.TreeDB on top of the sparse Merkle tree
// engine and a durable storage.Store.
package merkle

import (
	"bytes"
	"sync"

	"github.com/bbva/veritree/cache"
	"github.com/bbva/veritree/crypto/hashing"
	"github.com/bbva/veritree/db"
	"github.com/bbva/veritree/log"
	"github.com/bbva/veritree/protocol"
	"github.com/bbva/veritree/storage"
	"github.com/bbva/veritree/tree"
)

// Each call builds a fresh error so callers may attach a cause to it.

func errEmptyPath() error {
	return db.NewError(db.CodeInvalidArgument, "a path is required by this engine")
}

func errUnknownEngine() error {
	return db.NewError(db.CodeInvalidArgument, "unknown storage engine")
}

func errClosed() error {
	return db.NewError(db.CodeClosed, "merkle tree db is closed")
}

// MerkleTreeDB is safe for concurrent use: reads run in parallel while
// commits are exclusive.
type MerkleTreeDB struct {
	sync.RWMutex
	tree    *tree.Tree
	store   storage.Store
	hasherF hashing.HasherF
	closed  bool
}

// New builds a MerkleTreeDB over an already opened store. The node cache
// may be nil. Closing the MerkleTreeDB closes the store.
func New(store storage.Store, nodes cache.Cache, hasherF hashing.HasherF) (*MerkleTreeDB, error) {
	t, err := tree.NewTree(store, nodes, hasherF)
	if err != nil {
		if err == tree.ErrHasherSize {
			return nil, db.Wrap(db.CodeInvalidArgument, err, "unable to build tree")
		}
		return nil, db.Wrap(db.CodeIO, err, "unable to load tree")
	}
	return &MerkleTreeDB{tree: t, store: store, hasherF: hasherF}, nil
}

// Open builds the store, hasher and node cache described by conf.
func Open(conf *Config) (*MerkleTreeDB, error) {
	hasherF, err := hashing.NewHasherF(conf.Hasher)
	if err != nil {
		return nil, db.Wrap(db.CodeInvalidArgument, err, "unable to build hasher")
	}

	nodes, err := cache.New(conf.NodeCache, conf.NodeCacheSize)
	if err != nil {
		return nil, db.Wrap(db.CodeInvalidArgument, err, "unable to build node cache")
	}

	store, err := openStore(conf)
	if err != nil {
		if _, ok := err.(*db.Error); ok {
			return nil, err
		}
		return nil, db.Wrap(db.CodeIO, err, "unable to open store")
	}

	if conf.WarmCache {
		if err := nodes.Fill(store.GetAll(storage.NodesTable)); err != nil {
			store.Close()
			return nil, db.Wrap(db.CodeIO, err, "unable to warm node cache")
		}
	}

	m, err := New(store, nodes, hasherF)
	if err != nil {
		store.Close()
		return nil, err
	}

	log.Infof("Opened %s merkle tree db at %q, version %d, root %x", conf.Engine, conf.Path, m.Version(), m.RootHash())
	return m, nil
}

func (m *MerkleTreeDB) Get(key []byte) ([]byte, bool, error) {
	m.RLock()
	defer m.RUnlock()
	if m.closed {
		return nil, false, errClosed()
	}

	value, found, err := m.tree.Get(key)
	if err != nil {
		return nil, false, db.Wrap(db.CodeIO, err, "get failed")
	}
	return value, found, nil
}

// Set commits a single write and echoes the key.
func (m *MerkleTreeDB) Set(key, value []byte) ([]byte, error) {
	if err := m.Commit([]db.Operation{db.NewSet(key, value)}); err != nil {
		return nil, err
	}
	return key, nil
}

// Delete commits a single deletion.
func (m *MerkleTreeDB) Delete(key []byte) error {
	return m.Commit([]db.Operation{db.NewDelete(key)})
}

// Commit applies ops atomically: either every operation is durable or
// none is, and the root only moves on success.
func (m *MerkleTreeDB) Commit(ops []db.Operation) error {
	m.Lock()
	defer m.Unlock()
	if m.closed {
		return errClosed()
	}

	changes := make([]tree.Change, 0, len(ops))
	for _, op := range ops {
		switch op.Kind {
		case db.OpSet:
			changes = append(changes, tree.Change{Key: op.Key, Value: op.Value})
		case db.OpDelete:
			changes = append(changes, tree.Change{Key: op.Key, Delete: true})
		default:
			return db.NewError(db.CodeInvalidArgument, "unknown operation kind "+op.Kind.String())
		}
	}

	root, err := m.tree.Apply(changes)
	if err != nil {
		log.Errorf("Commit of %d operations failed: %v", len(ops), err)
		return db.Wrap(db.CodeIO, err, "commit failed")
	}

	log.Debugf("Committed %d operations: root %x", len(ops), root)
	return nil
}

// Prove builds a proof for the requested keys against the committed root.
func (m *MerkleTreeDB) Prove(req *protocol.ProveRequest) (*protocol.ProveResponse, error) {
	if req == nil || len(req.Keys) == 0 {
		return nil, db.NewError(db.CodeInvalidArgument, "prove request has no keys")
	}

	m.RLock()
	defer m.RUnlock()
	if m.closed {
		return nil, errClosed()
	}

	proof, err := m.tree.Prove(req.Keys)
	if err != nil {
		return nil, db.Wrap(db.CodeIO, err, "prove failed")
	}

	encoded, err := proof.Encode()
	if err != nil {
		return nil, db.Wrap(db.CodeSerialization, err, "unable to encode proof")
	}
	return &protocol.ProveResponse{Proof: encoded}, nil
}

// Verify checks req.Proof against req.ExpectedRoot and then every
// asserted value. A proof that does not lead to the root is an error; a
// proven value different from the asserted one gives Valid false. Keys the
// proof does not show present are only enforced with req.Strict.
func (m *MerkleTreeDB) Verify(req *protocol.VerifyRequest) (*protocol.VerifyResponse, error) {
	if req == nil {
		return nil, db.NewError(db.CodeInvalidArgument, "verify request is nil")
	}

	m.RLock()
	closed := m.closed
	m.RUnlock()
	if closed {
		return nil, errClosed()
	}

	proof, err := tree.DecodeProof(req.Proof)
	if err != nil {
		return nil, db.Wrap(db.CodeVerification, err, "malformed proof")
	}

	view, err := tree.Verify(m.hasherF(), proof, req.ExpectedRoot[:])
	if err != nil {
		code := db.CodeUnknown
		switch {
		case err == tree.ErrHasherSize:
			code = db.CodeInvalidArgument
		case tree.IsVerificationError(err):
			code = db.CodeVerification
		}
		return nil, db.Wrap(code, err, "proof verification failed")
	}

	for key, expected := range req.KV {
		value, ok := view.Get([]byte(key))
		if !ok {
			if req.Strict {
				log.Debugf("Asserted key %x is not proven present", key)
				return &protocol.VerifyResponse{Valid: false}, nil
			}
			continue
		}
		if !bytes.Equal(value, expected) {
			log.Debugf("Asserted value for key %x does not match the proof", key)
			return &protocol.VerifyResponse{Valid: false}, nil
		}
	}

	return &protocol.VerifyResponse{Valid: true}, nil
}

// RootHash returns the digest of the last successful commit.
func (m *MerkleTreeDB) RootHash() db.Root {
	var root db.Root
	copy(root[:], m.tree.RootHash())
	return root
}

// Version returns the number of successful non empty commits.
func (m *MerkleTreeDB) Version() uint64 {
	return m.tree.Version()
}

// Close releases the store. Every later call but RootHash and Version
// fails with db.CodeClosed.
func (m *MerkleTreeDB) Close() error {
	m.Lock()
	defer m.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return db.Wrap(db.CodeIO, m.store.Close(), "unable to close store")
}
