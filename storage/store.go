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
// Package storage defines the durable key-value layer the Merkle engine
// persists its leaves, nodes and metadata into.
package storage

import (
	"errors"
)

var (
	ErrKeyNotFound = errors.New("key not found")
)

// Table is a logical keyspace inside a Store.
type Table uint32

const (
	DefaultTable Table = iota
	LeavesTable
	NodesTable
	MetaTable
)

// Tables lists every table a Store must be able to hold.
var Tables = []Table{DefaultTable, LeavesTable, NodesTable, MetaTable}

func (t Table) String() string {
	switch t {
	case DefaultTable:
		return "default"
	case LeavesTable:
		return "leaves"
	case NodesTable:
		return "nodes"
	case MetaTable:
		return "meta"
	default:
		return "unknown"
	}
}

// Prefix returns the byte used to namespace the table in flat keyspaces.
func (t Table) Prefix() byte {
	return byte(t)
}

// Store is the interface every storage backend implements. Mutate must
// apply the whole batch or nothing.
type Store interface {
	Mutate(mutations []*Mutation) error
	Get(table Table, key []byte) (*KVPair, error)
	GetAll(table Table) KVPairReader
	Close() error
}

// Mutation is a single write inside a batch. Deletions carry no value.
type Mutation struct {
	Table      Table
	Key, Value []byte
	Delete     bool
}

func NewMutation(table Table, key, value []byte) *Mutation {
	return &Mutation{Table: table, Key: key, Value: value}
}

func NewDeletion(table Table, key []byte) *Mutation {
	return &Mutation{Table: table, Key: key, Delete: true}
}

type KVPair struct {
	Key, Value []byte
}

func NewKVPair(key, value []byte) KVPair {
	return KVPair{Key: key, Value: value}
}

// KVPairReader iterates over the pairs of a table in key order.
type KVPairReader interface {
	Read([]*KVPair) (n int, err error)
	Close()
}

// PrefixedKey returns key namespaced by the table prefix.
func PrefixedKey(table Table, key []byte) []byte {
	k := make([]byte, 0, len(key)+1)
	k = append(k, table.Prefix())
	return append(k, key...)
}
