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
package badger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbva/veritree/storage"
	storage_utils "github.com/bbva/veritree/testutils/storage"
)

func openBadgerStore(t *testing.T) (storage.Store, func()) {
	path, deleteF := storage_utils.TempDir(t, "badger-store-test")
	store, err := NewBadgerStore(path)
	require.NoError(t, err)
	return store, func() {
		store.Close()
		deleteF()
	}
}

func TestBadgerStore(t *testing.T) {
	storage_utils.RunStoreTests(t, openBadgerStore)
}

func TestReopenKeepsData(t *testing.T) {
	path, deleteF := storage_utils.TempDir(t, "badger-reopen-test")
	defer deleteF()

	store, err := NewBadgerStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Mutate([]*storage.Mutation{
		storage.NewMutation(storage.MetaTable, []byte("version"), []byte{0x01}),
	}))
	require.NoError(t, store.Close())

	store, err = NewBadgerStoreOpts(&Options{Path: path, ValueLogGC: true})
	require.NoError(t, err)
	defer store.Close()

	pair, err := store.Get(storage.MetaTable, []byte("version"))
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, pair.Value)
}
