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

package trie

import (
	"fmt"
	"strings"

	"lukechampine.com/blake3"

	"github.com/erigontech/prefixsets/common"
)

//go:generate mockgen -typed=true -destination=./key_hasher_mock.go -package=trie . KeyHasher

// KeyHasher - maps account address or storage slot to its path in the trie.
// Must be pure, deterministic and safe for concurrent use.
type KeyHasher interface {
	HashKey(key []byte) common.Hash
}

type KeyHasherFunc func(key []byte) common.Hash

func (f KeyHasherFunc) HashKey(key []byte) common.Hash { return f(key) }

// KeccakKeyHasher - secure trie of Ethereum: path is keccak256 of the key
type KeccakKeyHasher struct{}

func (KeccakKeyHasher) HashKey(key []byte) common.Hash {
	return common.Keccak256Hash(key)
}

type Blake3KeyHasher struct{}

func (Blake3KeyHasher) HashKey(key []byte) common.Hash {
	return blake3.Sum256(key)
}

const (
	KeccakHasherName = "keccak256"
	Blake3HasherName = "blake3"
)

func KeyHasherByName(name string) (KeyHasher, error) {
	switch strings.ToLower(name) {
	case KeccakHasherName, "keccak", "":
		return KeccakKeyHasher{}, nil
	case Blake3HasherName:
		return Blake3KeyHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown key hasher %q, supported: %s, %s", name, KeccakHasherName, Blake3HasherName)
	}
}
