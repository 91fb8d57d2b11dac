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
package leveldb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbva/veritree/storage"
	storage_utils "github.com/bbva/veritree/testutils/storage"
)

func openLevelDBStore(t *testing.T) (storage.Store, func()) {
	path, deleteF := storage_utils.TempDir(t, "leveldb-store-test")
	store, err := NewLevelDBStore(path)
	require.NoError(t, err)
	return store, func() {
		store.Close()
		deleteF()
	}
}

func openMemoryStore(t *testing.T) (storage.Store, func()) {
	store, err := NewLevelDBStore("")
	require.NoError(t, err)
	return store, func() {
		store.Close()
	}
}

func TestLevelDBStore(t *testing.T) {
	storage_utils.RunStoreTests(t, openLevelDBStore)
}

func TestLevelDBMemoryStore(t *testing.T) {
	storage_utils.RunStoreTests(t, openMemoryStore)
}

func TestReaderIgnoresLaterWrites(t *testing.T) {
	store, closeF := openMemoryStore(t)
	defer closeF()

	require.NoError(t, store.Mutate([]*storage.Mutation{
		storage.NewMutation(storage.LeavesTable, []byte("a"), []byte("1")),
	}))

	reader := store.GetAll(storage.LeavesTable)
	defer reader.Close()

	require.NoError(t, store.Mutate([]*storage.Mutation{
		storage.NewMutation(storage.LeavesTable, []byte("b"), []byte("2")),
	}))

	buffer := make([]*storage.KVPair, 10)
	n, err := reader.Read(buffer)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []byte("a"), buffer[0].Key)
}
