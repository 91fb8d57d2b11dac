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
// Package db defines the capability contract of a verifiable key-value
// store: plain reads and writes (DB) extended with batched commits and
// membership proofs (TreeDB).
package db

import (
	"encoding/hex"

	"github.com/bbva/veritree/protocol"
)

// Root is the digest committing to the whole committed state.
type Root [protocol.RootLen]byte

func (r Root) String() string {
	return hex.EncodeToString(r[:])
}

// RootFromBytes copies b into a Root. It fails unless b has exactly
// protocol.RootLen bytes.
func RootFromBytes(b []byte) (Root, error) {
	var r Root
	if len(b) != len(r) {
		return r, NewError(CodeInvalidArgument, "root must be 32 bytes long")
	}
	copy(r[:], b)
	return r, nil
}

type OpKind uint8

const (
	OpSet OpKind = iota
	OpDelete
)

func (k OpKind) String() string {
	switch k {
	case OpSet:
		return "set"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Operation is a single write inside a committed batch. Value is ignored
// for deletions.
type Operation struct {
	Kind  OpKind
	Key   []byte
	Value []byte
}

func NewSet(key, value []byte) Operation {
	return Operation{Kind: OpSet, Key: key, Value: value}
}

func NewDelete(key []byte) Operation {
	return Operation{Kind: OpDelete, Key: key}
}

// DB is the basic read and write contract. Set echoes the key it wrote.
// A failing Set or Delete leaves the durable state untouched.
type DB interface {
	Get(key []byte) ([]byte, bool, error)
	Set(key, value []byte) ([]byte, error)
	Delete(key []byte) error
}

// TreeDB is a DB able to commit batches atomically and to prove and verify
// its contents against a root digest.
type TreeDB interface {
	DB
	Prove(req *protocol.ProveRequest) (*protocol.ProveResponse, error)
	Verify(req *protocol.VerifyRequest) (*protocol.VerifyResponse, error)
	Commit(ops []Operation) error
	RootHash() Root
}
