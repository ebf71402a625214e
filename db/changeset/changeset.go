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

// Package changeset - per-block change log of accounts and storage: previous values of every touched entity.
// Change log is written by block execution and read back by block ranges,
// for example to find trie paths which must be re-hashed after a batch of blocks.
package changeset

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/erigontech/prefixsets/common/length"
)

var (
	ErrDuplicateKey  = errors.New("changeset: duplicate key")
	ErrInvalidKeyLen = errors.New("changeset: invalid key length")
	ErrMalformed     = errors.New("changeset: malformed record")
)

type Change struct {
	Key   []byte
	Value []byte
}

// ChangeSet - changes of 1 block.
// Account changes are keyed by address, storage changes by address ++ slot.
type ChangeSet struct {
	Changes []Change
	keyLen  int
}

func NewAccountChangeSet() *ChangeSet {
	return &ChangeSet{keyLen: length.Addr}
}

func NewStorageChangeSet() *ChangeSet {
	return &ChangeSet{keyLen: length.Addr + length.Hash}
}

func (s *ChangeSet) Len() int           { return len(s.Changes) }
func (s *ChangeSet) Swap(i, j int)      { s.Changes[i], s.Changes[j] = s.Changes[j], s.Changes[i] }
func (s *ChangeSet) Less(i, j int) bool { return bytes.Compare(s.Changes[i].Key, s.Changes[j].Key) < 0 }

// Add - adds a change, key and value are copied
func (s *ChangeSet) Add(key []byte, value []byte) error {
	if len(key) != s.keyLen {
		return fmt.Errorf("%w: %d, expected %d", ErrInvalidKeyLen, len(key), s.keyLen)
	}
	s.Changes = append(s.Changes, Change{Key: bytes.Clone(key), Value: bytes.Clone(value)})
	return nil
}

// sortAndCheck - changes must be sorted before encoding, 1 key may appear in 1 block only once
func (s *ChangeSet) sortAndCheck() error {
	sort.Sort(s)
	for i := 1; i < len(s.Changes); i++ {
		if bytes.Equal(s.Changes[i-1].Key, s.Changes[i].Key) {
			return fmt.Errorf("%w: %x", ErrDuplicateKey, s.Changes[i].Key)
		}
	}
	return nil
}
