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
// Package middleware implements the decorator chain placed in front of a
// db.TreeDB. Every chain ends in a Passthrough wrapping the real store and
// may stack a write buffering Cache and a Metrics layer on top of it.
package middleware

import (
	"github.com/bbva/veritree/db"
	"github.com/bbva/veritree/protocol"
)

// Middleware is a db.TreeDB layer able to drop whatever state it holds on
// behalf of the caller.
type Middleware interface {
	db.TreeDB
	Clean() error
}

// Passthrough forwards every call to the wrapped TreeDB. It always sits at
// the bottom of a chain.
type Passthrough struct {
	db db.TreeDB
}

func NewPassthrough(base db.TreeDB) *Passthrough {
	return &Passthrough{db: base}
}

func (p *Passthrough) Get(key []byte) ([]byte, bool, error) {
	return p.db.Get(key)
}

func (p *Passthrough) Set(key, value []byte) ([]byte, error) {
	return p.db.Set(key, value)
}

func (p *Passthrough) Delete(key []byte) error {
	return p.db.Delete(key)
}

func (p *Passthrough) Prove(req *protocol.ProveRequest) (*protocol.ProveResponse, error) {
	return p.db.Prove(req)
}

func (p *Passthrough) Verify(req *protocol.VerifyRequest) (*protocol.VerifyResponse, error) {
	return p.db.Verify(req)
}

func (p *Passthrough) Commit(ops []db.Operation) error {
	return p.db.Commit(ops)
}

func (p *Passthrough) RootHash() db.Root {
	return p.db.RootHash()
}

// Clean is a no-op: a Passthrough holds no state.
func (p *Passthrough) Clean() error {
	return nil
}
