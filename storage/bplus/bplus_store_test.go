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
package bplus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbva/veritree/storage"
	storage_utils "github.com/bbva/veritree/testutils/storage"
)

func openBPlusTreeStore(t *testing.T) (storage.Store, func()) {
	store := NewBPlusTreeStore()
	return store, func() {
		store.Close()
	}
}

func TestBPlusTreeStore(t *testing.T) {
	storage_utils.RunStoreTests(t, openBPlusTreeStore)
}

func TestStoredValuesAreCopies(t *testing.T) {
	store := NewBPlusTreeStore()
	defer store.Close()

	value := []byte{0x01}
	require.NoError(t, store.Mutate([]*storage.Mutation{
		storage.NewMutation(storage.LeavesTable, []byte("key"), value),
	}))
	value[0] = 0xff

	pair, err := store.Get(storage.LeavesTable, []byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, pair.Value)
}
