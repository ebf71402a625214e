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
	"slices"
	"sort"
)

// RetainDecider - trie loaders ask it whether a sub-trie under given prefix must be re-visited,
// or its intermediate hash can be reused
type RetainDecider interface {
	Retain(prefixHex []byte) bool
}

// PrefixSetMut - accumulates changed trie paths. Not thread-safe.
type PrefixSetMut struct {
	keys map[string]struct{}
	all  bool
}

func NewPrefixSetMut() *PrefixSetMut {
	return &PrefixSetMut{keys: map[string]struct{}{}}
}

// NewPrefixSetMutAll - set which reports every path as changed, for full re-generation of the trie
func NewPrefixSetMutAll() *PrefixSetMut {
	return &PrefixSetMut{keys: map[string]struct{}{}, all: true}
}

// Insert - idempotent, path is copied
func (s *PrefixSetMut) Insert(path Nibbles) {
	if s.keys == nil {
		s.keys = map[string]struct{}{}
	}
	s.keys[string(path)] = struct{}{}
}

func (s *PrefixSetMut) Len() int { return len(s.keys) }

// Freeze - sorted immutable copy of the set. Builder is reset to empty state.
func (s *PrefixSetMut) Freeze() PrefixSet {
	keys := make([]Nibbles, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, Nibbles(k))
	}
	slices.SortFunc(keys, Nibbles.Compare)
	frozen := PrefixSet{keys: keys, all: s.all}
	s.keys, s.all = map[string]struct{}{}, false
	return frozen
}

// PrefixSet - frozen set of changed trie paths: sorted, without duplicates. Safe for concurrent reads.
type PrefixSet struct {
	keys []Nibbles
	all  bool
}

var _ RetainDecider = PrefixSet{}

// Contains - whether any path of the set starts with prefix.
// Paths with given prefix are contiguous in sorted order and start from the first path >= prefix.
func (s PrefixSet) Contains(prefix Nibbles) bool {
	if s.all {
		return true
	}
	idx := sort.Search(len(s.keys), func(i int) bool { return s.keys[i].Compare(prefix) >= 0 })
	return idx < len(s.keys) && s.keys[idx].HasPrefix(prefix)
}

func (s PrefixSet) Retain(prefixHex []byte) bool { return s.Contains(prefixHex) }

func (s PrefixSet) Len() int         { return len(s.keys) }
func (s PrefixSet) IsEmpty() bool    { return !s.all && len(s.keys) == 0 }
func (s PrefixSet) AllChanged() bool { return s.all }

// Keys - copy of sorted paths
func (s PrefixSet) Keys() []Nibbles {
	keys := make([]Nibbles, len(s.keys))
	for i, k := range s.keys {
		keys[i] = k.Clone()
	}
	return keys
}

func (s PrefixSet) Equal(other PrefixSet) bool {
	return s.all == other.all && slices.EqualFunc(s.keys, other.keys, Nibbles.Equal)
}
