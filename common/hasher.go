// Copyright 2025 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package common

import (
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"
)

// keccakState - sha3 state which also reads the digest without allocating
type keccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

// Hasher - reusable legacy keccak256 state. Not thread-safe: take one per goroutine from NewHasher.
type Hasher struct {
	sha keccakState
}

var hasherPool = sync.Pool{
	New: func() any {
		return &Hasher{sha: sha3.NewLegacyKeccak256().(keccakState)}
	},
}

func NewHasher() *Hasher { return hasherPool.Get().(*Hasher) }

// Release - returns the hasher to the pool, it must not be used after
func (h *Hasher) Release() { hasherPool.Put(h) }

// Sum - keccak256 of the concatenation of data
func (h *Hasher) Sum(data ...[]byte) (out Hash) {
	h.sha.Reset()
	for _, d := range data {
		h.sha.Write(d) //nolint:errcheck
	}
	h.sha.Read(out[:]) //nolint:errcheck
	return out
}

func Keccak256Hash(data ...[]byte) Hash {
	h := NewHasher()
	defer h.Release()
	return h.Sum(data...)
}
