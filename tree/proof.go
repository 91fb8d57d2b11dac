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
	"bytes"

	"github.com/pkg/errors"
)

// ProofEntry proves the presence (Exists) or absence of a single key.
// Bitmap bit i is set when the sibling at height i is not the default
// digest of that height; only those siblings are carried, from the leaf
// upwards.
type ProofEntry struct {
	Key      []byte
	Value    []byte
	Exists   bool
	Bitmap   []byte
	Siblings [][]byte
}

// Proof holds one entry per requested key, in request order.
type Proof struct {
	Entries []*ProofEntry
}

func (p *Proof) Encode() ([]byte, error) {
	return encodeMsgPack(p)
}

func DecodeProof(msg []byte) (*Proof, error) {
	var p Proof
	if err := decodeMsgPack(msg, &p); err != nil {
		return nil, errors.Wrap(ErrMalformedProof, err.Error())
	}
	return &p, nil
}

// Prove builds a proof for keys against the current root. Keys may repeat;
// each one gets its own entry.
func (t *Tree) Prove(keys [][]byte) (*Proof, error) {
	t.RLock()
	defer t.RUnlock()

	if len(keys) == 0 {
		return nil, ErrEmptyRequest
	}

	d := t.digester()
	proof := &Proof{Entries: make([]*ProofEntry, 0, len(keys))}

	for _, key := range keys {
		index := d.index(key)
		value, exists, err := t.getLeaf(index, key)
		if err != nil {
			return nil, err
		}

		entry := &ProofEntry{
			Key:    key,
			Value:  value,
			Exists: exists,
			Bitmap: make([]byte, indexLen),
		}
		for pos := newPosition(0, index); pos.height < numBits; pos = pos.Parent() {
			sibling, err := t.digestAt(pos.Sibling(), nil)
			if err != nil {
				return nil, err
			}
			if !bytes.Equal(sibling, t.defaults[pos.height]) {
				bitSet(entry.Bitmap, int(pos.height))
				entry.Siblings = append(entry.Siblings, sibling)
			}
		}
		proof.Entries = append(proof.Entries, entry)
	}

	return proof, nil
}
