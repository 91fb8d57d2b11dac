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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbva/veritree/cache"
	"github.com/bbva/veritree/crypto/hashing"
	"github.com/bbva/veritree/storage"
	"github.com/bbva/veritree/storage/bplus"
)

type failingStore struct {
	storage.Store
	fail bool
}

func (s *failingStore) Mutate(mutations []*storage.Mutation) error {
	if s.fail {
		return errors.New("disk full")
	}
	return s.Store.Mutate(mutations)
}

func newTestTree(t *testing.T) (*Tree, storage.Store) {
	store := bplus.NewBPlusTreeStore()
	tree, err := NewTree(store, nil, hashing.NewBlake2bHasher)
	require.NoError(t, err)
	return tree, store
}

func set(key, value string) Change {
	return Change{Key: []byte(key), Value: []byte(value)}
}

func del(key string) Change {
	return Change{Key: []byte(key), Delete: true}
}

func TestEmptyTree(t *testing.T) {
	tree, _ := newTestTree(t)
	require.Equal(t, tree.DefaultRoot(), tree.RootHash())
	require.Equal(t, uint64(0), tree.Version())

	_, found, err := tree.Get([]byte("missing"))
	require.NoError(t, err)
	require.False(t, found)
}

func TestRejectsShortHasher(t *testing.T) {
	_, err := NewTree(bplus.NewBPlusTreeStore(), nil, hashing.NewXorHasher)
	require.Equal(t, ErrHasherSize, err)
}

func TestApplyAndGet(t *testing.T) {
	tree, _ := newTestTree(t)

	root, err := tree.Apply([]Change{set("a", "1"), set("b", "2")})
	require.NoError(t, err)
	require.NotEqual(t, tree.DefaultRoot(), root)
	require.Equal(t, root, tree.RootHash())
	require.Equal(t, uint64(1), tree.Version())

	value, found, err := tree.Get([]byte("a"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("1"), value)
}

func TestEmptyBatchIsNoop(t *testing.T) {
	tree, _ := newTestTree(t)
	root, err := tree.Apply(nil)
	require.NoError(t, err)
	require.Equal(t, tree.DefaultRoot(), root)
	require.Equal(t, uint64(0), tree.Version())
}

func TestEmptyValueIsMember(t *testing.T) {
	tree, _ := newTestTree(t)
	root, err := tree.Apply([]Change{set("empty", "")})
	require.NoError(t, err)
	require.NotEqual(t, tree.DefaultRoot(), root)

	value, found, err := tree.Get([]byte("empty"))
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, value, 0)
}

func TestLastChangeWins(t *testing.T) {
	tree, _ := newTestTree(t)
	_, err := tree.Apply([]Change{set("k", "first"), set("k", "second")})
	require.NoError(t, err)

	value, found, err := tree.Get([]byte("k"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("second"), value)

	_, err = tree.Apply([]Change{set("k", "third"), del("k")})
	require.NoError(t, err)
	_, found, err = tree.Get([]byte("k"))
	require.NoError(t, err)
	require.False(t, found)
}

func TestRootIsHistoryIndependent(t *testing.T) {
	one, _ := newTestTree(t)
	two, _ := newTestTree(t)

	_, err := one.Apply([]Change{set("a", "1"), set("b", "2"), set("c", "3")})
	require.NoError(t, err)

	_, err = two.Apply([]Change{set("c", "3")})
	require.NoError(t, err)
	_, err = two.Apply([]Change{set("a", "0"), set("b", "2")})
	require.NoError(t, err)
	_, err = two.Apply([]Change{set("a", "1"), set("d", "4")})
	require.NoError(t, err)
	_, err = two.Apply([]Change{del("d")})
	require.NoError(t, err)

	require.Equal(t, one.RootHash(), two.RootHash())
}

func TestDeleteEverythingRestoresEmptyRoot(t *testing.T) {
	tree, store := newTestTree(t)

	changes := make([]Change, 0, 20)
	for i := 0; i < 20; i++ {
		changes = append(changes, set(fmt.Sprintf("key-%d", i), "value"))
	}
	_, err := tree.Apply(changes)
	require.NoError(t, err)

	deletions := make([]Change, 0, 20)
	for i := 0; i < 20; i++ {
		deletions = append(deletions, del(fmt.Sprintf("key-%d", i)))
	}
	root, err := tree.Apply(deletions)
	require.NoError(t, err)
	require.Equal(t, tree.DefaultRoot(), root)

	// default nodes are never stored
	reader := store.GetAll(storage.NodesTable)
	defer reader.Close()
	n, err := reader.Read(make([]*storage.KVPair, 1))
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestReopenLoadsState(t *testing.T) {
	tree, store := newTestTree(t)
	root, err := tree.Apply([]Change{set("a", "1")})
	require.NoError(t, err)

	reopened, err := NewTree(store, nil, hashing.NewBlake2bHasher)
	require.NoError(t, err)
	require.Equal(t, root, reopened.RootHash())
	require.Equal(t, uint64(1), reopened.Version())

	root, err = reopened.Apply([]Change{set("b", "2")})
	require.NoError(t, err)

	fresh, _ := newTestTree(t)
	expected, err := fresh.Apply([]Change{set("a", "1"), set("b", "2")})
	require.NoError(t, err)
	require.Equal(t, expected, root)
}

func TestFailedApplyKeepsState(t *testing.T) {
	store := &failingStore{Store: bplus.NewBPlusTreeStore()}
	tree, err := NewTree(store, cache.NewSimpleCache(0), hashing.NewBlake2bHasher)
	require.NoError(t, err)

	root, err := tree.Apply([]Change{set("a", "1")})
	require.NoError(t, err)

	store.fail = true
	_, err = tree.Apply([]Change{set("b", "2"), del("a")})
	require.Error(t, err)

	require.Equal(t, root, tree.RootHash())
	require.Equal(t, uint64(1), tree.Version())
	_, found, err := tree.Get([]byte("b"))
	require.NoError(t, err)
	require.False(t, found)

	store.fail = false
	proof, err := tree.Prove([][]byte{[]byte("a")})
	require.NoError(t, err)
	_, err = Verify(hashing.NewBlake2bHasher(), proof, root)
	require.NoError(t, err, "The cache must not hold digests of the failed batch")
}

func TestCachesDoNotChangeRoots(t *testing.T) {
	changes := []Change{set("a", "1"), set("b", "2"), set("c", "3")}

	reference, _ := newTestTree(t)
	expected, err := reference.Apply(changes)
	require.NoError(t, err)

	for _, kind := range []string{cache.SIMPLE, cache.LRU, cache.FAST, cache.FREE} {
		nodes, err := cache.New(kind, 32*1024*1024)
		require.NoError(t, err)
		tree, err := NewTree(bplus.NewBPlusTreeStore(), nodes, hashing.NewBlake2bHasher)
		require.NoError(t, err)

		root, err := tree.Apply(changes[:1])
		require.NoError(t, err)
		root, err = tree.Apply(changes[1:])
		require.NoError(t, err)
		require.Equalf(t, expected, root, "Wrong root with cache %s", kind)
		require.NotZerof(t, nodes.Size(), "Cache %s should hold nodes", kind)
	}
}

func TestTinyCacheFallsBackToStore(t *testing.T) {
	nodes, err := cache.NewLRUCache(4)
	require.NoError(t, err)
	tree, err := NewTree(bplus.NewBPlusTreeStore(), nodes, hashing.NewSha256Hasher)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := tree.Apply([]Change{set(fmt.Sprintf("key-%d", i), "v")})
		require.NoError(t, err)
	}

	keys := [][]byte{[]byte("key-0"), []byte("key-9")}
	proof, err := tree.Prove(keys)
	require.NoError(t, err)
	view, err := Verify(hashing.NewSha256Hasher(), proof, tree.RootHash())
	require.NoError(t, err)
	value, ok := view.Get([]byte("key-0"))
	require.True(t, ok)
	require.Equal(t, []byte("v"), value)
}
