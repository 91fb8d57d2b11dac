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
// Package protocol defines the request and response types exchanged with a
// verifiable store to prove and verify its contents.
package protocol

import (
	"bytes"
	"fmt"

	"github.com/hashicorp/go-msgpack/codec"

	"github.com/bbva/veritree/log"
)

// RootLen is the size in bytes of a root digest.
const RootLen = 32

// ProveRequest lists the keys a proof must cover. Order is preserved and
// duplicates are allowed.
type ProveRequest struct {
	Keys [][]byte
}

func NewProveRequest(keys ...[]byte) *ProveRequest {
	return &ProveRequest{Keys: keys}
}

// Insert appends key to the request and returns it for chaining.
func (r *ProveRequest) Insert(key []byte) *ProveRequest {
	r.Keys = append(r.Keys, key)
	return r
}

// ProveResponse carries an opaque, encoded proof.
type ProveResponse struct {
	Proof []byte
}

func (r *ProveResponse) Encode() ([]byte, error) {
	return encode(r, "prove response")
}

func (r *ProveResponse) Decode(msg []byte) error {
	return decode(msg, r, "prove response")
}

// VerifyRequest asks whether Proof leads to ExpectedRoot and every key in
// KV maps to its expected value. Keys asserted in KV but not covered by the
// proof are only enforced when Strict is set.
type VerifyRequest struct {
	Proof        []byte
	ExpectedRoot [RootLen]byte
	KV           map[string][]byte
	Strict       bool
}

func NewVerifyRequest(proof []byte, root [RootLen]byte) *VerifyRequest {
	return &VerifyRequest{Proof: proof, ExpectedRoot: root, KV: make(map[string][]byte)}
}

// Insert asserts that key holds value and returns the request for chaining.
func (r *VerifyRequest) Insert(key, value []byte) *VerifyRequest {
	if r.KV == nil {
		r.KV = make(map[string][]byte)
	}
	r.KV[string(key)] = value
	return r
}

// verifyRequestMsg is the wire form of a VerifyRequest, with the root as a
// plain byte slice.
type verifyRequestMsg struct {
	Proof        []byte
	ExpectedRoot []byte
	KV           map[string][]byte
	Strict       bool
}

func (r *VerifyRequest) Encode() ([]byte, error) {
	msg := &verifyRequestMsg{
		Proof:        r.Proof,
		ExpectedRoot: r.ExpectedRoot[:],
		KV:           r.KV,
		Strict:       r.Strict,
	}
	return encode(msg, "verify request")
}

func (r *VerifyRequest) Decode(buf []byte) error {
	var msg verifyRequestMsg
	if err := decode(buf, &msg, "verify request"); err != nil {
		return err
	}
	if len(msg.ExpectedRoot) != RootLen {
		err := fmt.Errorf("expected root of %d bytes, got %d", RootLen, len(msg.ExpectedRoot))
		log.Errorf("Failed to decode verify request: %v", err)
		return err
	}
	r.Proof = msg.Proof
	copy(r.ExpectedRoot[:], msg.ExpectedRoot)
	r.KV = msg.KV
	if r.KV == nil {
		r.KV = make(map[string][]byte)
	}
	r.Strict = msg.Strict
	return nil
}

type VerifyResponse struct {
	Valid bool
}

func (r *VerifyResponse) Encode() ([]byte, error) {
	return encode(r, "verify response")
}

func (r *VerifyResponse) Decode(msg []byte) error {
	return decode(msg, r, "verify response")
}

func encode(in interface{}, what string) ([]byte, error) {
	var buf bytes.Buffer
	encoder := codec.NewEncoder(&buf, &codec.MsgpackHandle{})
	if err := encoder.Encode(in); err != nil {
		log.Errorf("Failed to encode %s: %v", what, err)
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(msg []byte, out interface{}, what string) error {
	reader := bytes.NewReader(msg)
	decoder := codec.NewDecoder(reader, &codec.MsgpackHandle{})
	if err := decoder.Decode(out); err != nil {
		log.Errorf("Failed to decode %s: %v", what, err)
		return err
	}
	return nil
}
