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

	"github.com/bbva/veritree/crypto/hashing"
)

var (
	ErrEmptyProof     = errors.New("tree: proof has no entries")
	ErrMalformedProof = errors.New("tree: malformed proof")
	ErrRootMismatch   = errors.New("tree: proof does not lead to the expected root")
)

// IsVerificationError tells whether err was caused by a proof that is
// malformed or does not match the expected root.
func IsVerificationError(err error) bool {
	switch errors.Cause(err) {
	case ErrEmptyProof, ErrMalformedProof, ErrRootMismatch:
		return true
	}
	return false
}

type viewEntry struct {
	value  []byte
	exists bool
}

// View is the key/value state a verified proof vouches for.
type View struct {
	entries map[string]viewEntry
}

// Get returns the value of key and whether the proof shows it present.
func (v *View) Get(key []byte) ([]byte, bool) {
	e, ok := v.entries[string(key)]
	if !ok || !e.exists {
		return nil, false
	}
	return e.value, true
}

// Covers tells whether the proof says anything about key, either its
// presence or its absence.
func (v *View) Covers(key []byte) bool {
	_, ok := v.entries[string(key)]
	return ok
}

func (v *View) Len() int {
	return len(v.entries)
}

// Verify recomputes the root from every entry of proof and checks it
// against root. It reads no state: the hasher must be the one the tree was
// built with.
func Verify(hasher hashing.Hasher, proof *Proof, root []byte) (*View, error) {
	if hasher.Len() != numBits {
		return nil, ErrHasherSize
	}
	if proof == nil || len(proof.Entries) == 0 {
		return nil, ErrEmptyProof
	}

	defaults := defaultHashes(hasher)
	d := newDigester(hasher, defaults)
	view := &View{entries: make(map[string]viewEntry, len(proof.Entries))}

	for i, entry := range proof.Entries {
		if entry == nil || len(entry.Bitmap) != indexLen {
			return nil, errors.Wrapf(ErrMalformedProof, "entry %d", i)
		}
		if !entry.Exists && len(entry.Value) != 0 {
			return nil, errors.Wrapf(ErrMalformedProof, "entry %d carries a value for an absent key", i)
		}

		index := d.index(entry.Key)
		current := defaults[0]
		if entry.Exists {
			current = d.leaf(index, entry.Value)
		}

		next := 0
		for pos := newPosition(0, index); pos.height < numBits; pos = pos.Parent() {
			sibling := defaults[pos.height]
			if bitIsSet(entry.Bitmap, int(pos.height)) {
				if next >= len(entry.Siblings) {
					return nil, errors.Wrapf(ErrMalformedProof, "entry %d is missing siblings", i)
				}
				sibling = entry.Siblings[next]
				next++
			}
			if pos.IsRightChild() {
				current = d.interior(sibling, current)
			} else {
				current = d.interior(current, sibling)
			}
		}
		if next != len(entry.Siblings) {
			return nil, errors.Wrapf(ErrMalformedProof, "entry %d has unused siblings", i)
		}

		if !bytes.Equal(current, root) {
			return nil, errors.Wrapf(ErrRootMismatch, "entry %d (key %x)", i, entry.Key)
		}

		view.entries[string(entry.Key)] = viewEntry{value: entry.Value, exists: entry.Exists}
	}

	return view, nil
}
