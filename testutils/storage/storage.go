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
// Package storage contains helpers shared by the storage backends tests.
package storage

import (
	"fmt"
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbva/veritree/storage"
)

// OpenF opens a fresh, empty store and returns it with its close function.
type OpenF func(t *testing.T) (storage.Store, func())

// TempDir creates a temporary directory and returns it with a function
// that removes it.
func TempDir(t *testing.T, name string) (string, func()) {
	path, err := ioutil.TempDir("", name)
	require.NoError(t, err)
	return path, func() {
		DeleteFile(path)
	}
}

func DeleteFile(path string) {
	err := os.RemoveAll(path)
	if err != nil {
		fmt.Printf("Unable to remove db file %s", err)
	}
}

// RunStoreTests checks the behaviour every storage.Store must share.
func RunStoreTests(t *testing.T, open OpenF) {
	t.Run("Mutate", func(t *testing.T) { testMutate(t, open) })
	t.Run("GetExistentKey", func(t *testing.T) { testGetExistentKey(t, open) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, open) })
	t.Run("TablesAreIsolated", func(t *testing.T) { testTablesAreIsolated(t, open) })
	t.Run("GetAll", func(t *testing.T) { testGetAll(t, open) })
}

func testMutate(t *testing.T, open OpenF) {
	store, closeF := open(t)
	defer closeF()

	tests := []struct {
		testname      string
		table         storage.Table
		key, value    []byte
		expectedError error
	}{
		{"Mutate Key=Value", storage.LeavesTable, []byte("Key"), []byte("Value"), nil},
	}

	for _, test := range tests {
		err := store.Mutate([]*storage.Mutation{
			storage.NewMutation(test.table, test.key, test.value),
		})
		require.Equalf(t, test.expectedError, err, "Error mutating in test: %s", test.testname)
		pair, err := store.Get(test.table, test.key)
		require.Equalf(t, test.expectedError, err, "Error getting key in test: %s", test.testname)
		require.Equalf(t, len(test.value), len(pair.Value), "Wrong value in test: %s", test.testname)
	}
}

func testGetExistentKey(t *testing.T, open OpenF) {
	store, closeF := open(t)
	defer closeF()

	testCases := []struct {
		table         storage.Table
		key, value    []byte
		expectedError error
	}{
		{storage.LeavesTable, []byte("Key1"), []byte("Value1"), nil},
		{storage.LeavesTable, []byte("Key2"), []byte("Value2"), nil},
		{storage.NodesTable, []byte("Key3"), []byte("Value3"), nil},
		{storage.NodesTable, []byte("Key4"), []byte("Value4"), storage.ErrKeyNotFound},
	}

	for _, test := range testCases {
		if test.expectedError == nil {
			err := store.Mutate([]*storage.Mutation{
				storage.NewMutation(test.table, test.key, test.value),
			})
			require.NoError(t, err)
		}

		stored, err := store.Get(test.table, test.key)
		if test.expectedError == nil {
			require.NoError(t, err)
			require.Equalf(t, test.key, stored.Key, "The stored key does not match the original: expected %d, actual %d", test.key, stored.Key)
			require.Equalf(t, test.value, stored.Value, "The stored value does not match the original: expected %d, actual %d", test.value, stored.Value)
		} else {
			require.Equal(t, test.expectedError, err)
		}
	}
}

func testDelete(t *testing.T, open OpenF) {
	store, closeF := open(t)
	defer closeF()

	key := []byte("doomed")
	require.NoError(t, store.Mutate([]*storage.Mutation{
		storage.NewMutation(storage.LeavesTable, key, []byte("value")),
	}))

	// one batch mixing a deletion and a write
	require.NoError(t, store.Mutate([]*storage.Mutation{
		storage.NewDeletion(storage.LeavesTable, key),
		storage.NewMutation(storage.LeavesTable, []byte("survivor"), []byte("value")),
	}))

	_, err := store.Get(storage.LeavesTable, key)
	require.Equal(t, storage.ErrKeyNotFound, err)
	_, err = store.Get(storage.LeavesTable, []byte("survivor"))
	require.NoError(t, err)

	// deleting a missing key is not an error
	require.NoError(t, store.Mutate([]*storage.Mutation{
		storage.NewDeletion(storage.LeavesTable, []byte("missing")),
	}))
}

func testTablesAreIsolated(t *testing.T, open OpenF) {
	store, closeF := open(t)
	defer closeF()

	key := []byte("shared")
	require.NoError(t, store.Mutate([]*storage.Mutation{
		storage.NewMutation(storage.LeavesTable, key, []byte("leaf")),
		storage.NewMutation(storage.NodesTable, key, []byte("node")),
	}))

	leaf, err := store.Get(storage.LeavesTable, key)
	require.NoError(t, err)
	require.Equal(t, []byte("leaf"), leaf.Value)

	node, err := store.Get(storage.NodesTable, key)
	require.NoError(t, err)
	require.Equal(t, []byte("node"), node.Value)

	_, err = store.Get(storage.MetaTable, key)
	require.Equal(t, storage.ErrKeyNotFound, err)
}

func testGetAll(t *testing.T, open OpenF) {
	store, closeF := open(t)
	defer closeF()

	numElems := 25
	mutations := make([]*storage.Mutation, 0, numElems+1)
	for i := 0; i < numElems; i++ {
		mutations = append(mutations, storage.NewMutation(storage.NodesTable, []byte{byte(i)}, []byte{byte(i)}))
	}
	// noise in other table
	mutations = append(mutations, storage.NewMutation(storage.MetaTable, []byte{0x00}, []byte{0xff}))
	require.NoError(t, store.Mutate(mutations))

	reader := store.GetAll(storage.NodesTable)
	defer reader.Close()

	var read []*storage.KVPair
	for {
		entries := make([]*storage.KVPair, 10)
		n, err := reader.Read(entries)
		require.NoError(t, err)
		if n == 0 {
			break
		}
		read = append(read, entries[:n]...)
	}

	require.Len(t, read, numElems)
	for i, pair := range read {
		require.Equal(t, []byte{byte(i)}, pair.Key)
		require.Equal(t, []byte{byte(i)}, pair.Value)
	}
}
