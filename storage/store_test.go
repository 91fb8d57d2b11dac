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
package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrefixedKey(t *testing.T) {
	key := []byte{0x01, 0x02}
	pk := PrefixedKey(NodesTable, key)
	require.Equal(t, []byte{NodesTable.Prefix(), 0x01, 0x02}, pk)

	// the original key must stay untouched
	pk[1] = 0xff
	require.Equal(t, []byte{0x01, 0x02}, key)
}

func TestTableNames(t *testing.T) {
	tests := []struct {
		table    Table
		expected string
	}{
		{DefaultTable, "default"},
		{LeavesTable, "leaves"},
		{NodesTable, "nodes"},
		{MetaTable, "meta"},
		{Table(42), "unknown"},
	}

	for _, test := range tests {
		require.Equal(t, test.expected, test.table.String())
	}
}

func TestMutationConstructors(t *testing.T) {
	m := NewMutation(LeavesTable, []byte("k"), []byte("v"))
	require.False(t, m.Delete)
	require.Equal(t, []byte("v"), m.Value)

	d := NewDeletion(LeavesTable, []byte("k"))
	require.True(t, d.Delete)
	require.Nil(t, d.Value)
}
