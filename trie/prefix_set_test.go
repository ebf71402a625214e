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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/prefixsets/common"
)

func TestPrefixSetMutInsertIsIdempotent(t *testing.T) {
	s := NewPrefixSetMut()
	s.Insert(Nibbles{1, 2, 3})
	s.Insert(Nibbles{1, 2, 3})
	s.Insert(Nibbles{0, 1})
	require.Equal(t, 2, s.Len())

	frozen := s.Freeze()
	require.Equal(t, []Nibbles{{0, 1}, {1, 2, 3}}, frozen.Keys())
	require.Zero(t, s.Len(), "builder is reset by Freeze")

	s.Insert(Nibbles{1, 2, 3})
	require.True(t, s.Freeze().Equal(PrefixSet{keys: []Nibbles{{1, 2, 3}}}))
}

func TestPrefixSetContains(t *testing.T) {
	s := NewPrefixSetMut()
	for _, k := range []Nibbles{{1, 2, 3, 4}, {1, 2, 5}, {3, 0}} {
		s.Insert(k)
	}
	frozen := s.Freeze()

	tests := []struct {
		prefix Nibbles
		want   bool
	}{
		{Nibbles{}, true},
		{Nibbles{1}, true},
		{Nibbles{1, 2}, true},
		{Nibbles{1, 2, 3, 4}, true},
		{Nibbles{1, 2, 3, 4, 0}, false},
		{Nibbles{1, 2, 4}, false},
		{Nibbles{1, 3}, false},
		{Nibbles{2}, false},
		{Nibbles{3}, true},
		{Nibbles{4}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, frozen.Contains(tt.prefix), "prefix %s", tt.prefix)
		assert.Equal(t, tt.want, frozen.Retain(tt.prefix), "prefix %s", tt.prefix)
	}
	assert.Equal(t, 3, frozen.Len())
	assert.False(t, frozen.IsEmpty())
	assert.False(t, frozen.AllChanged())
}

func TestPrefixSetEmptyAndAll(t *testing.T) {
	empty := NewPrefixSetMut().Freeze()
	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.Contains(Nibbles{}))
	assert.Empty(t, empty.Keys())

	var zero PrefixSet
	assert.True(t, zero.Equal(empty))

	all := NewPrefixSetMutAll().Freeze()
	assert.True(t, all.AllChanged())
	assert.False(t, all.IsEmpty())
	assert.True(t, all.Contains(Nibbles{0xf, 0xf}))
	assert.False(t, all.Equal(empty))
}

func TestPrefixSetKeysAreCopies(t *testing.T) {
	s := NewPrefixSetMut()
	path := Nibbles{1, 2}
	s.Insert(path)
	path[0] = 9
	frozen := s.Freeze()

	keys := frozen.Keys()
	require.Equal(t, []Nibbles{{1, 2}}, keys)
	keys[0][0] = 7
	require.Equal(t, []Nibbles{{1, 2}}, frozen.Keys())
}

func TestTriePrefixSets(t *testing.T) {
	accA := common.HexToHash("0xaa")
	accB := common.HexToHash("0xbb")

	accounts := NewPrefixSetMut()
	accounts.Insert(UnpackNibbles(accA[:]))
	accounts.Insert(UnpackNibbles(accB[:]))
	storage := NewPrefixSetMut()
	storage.Insert(UnpackNibbles(common.HexToHash("0x01").Bytes()))

	sets := NewTriePrefixSets(accounts.Freeze(),
		map[common.Hash]PrefixSet{accB: storage.Freeze()},
		map[common.Hash]struct{}{accB: {}, accA: {}})

	assert.Equal(t, 2, sets.AccountPrefixSet().Len())
	assert.Equal(t, []common.Hash{accA, accB}, sets.DestroyedAccounts())
	assert.True(t, sets.IsDestroyed(accA))
	assert.False(t, sets.IsDestroyed(common.Hash{}))
	assert.Equal(t, []common.Hash{accB}, sets.StorageAccounts())

	st, ok := sets.StoragePrefixSet(accB)
	require.True(t, ok)
	assert.Equal(t, 1, st.Len())
	_, ok = sets.StoragePrefixSet(accA)
	require.False(t, ok)

	// returned map is a copy
	m := sets.StoragePrefixSets()
	delete(m, accB)
	assert.Len(t, sets.StoragePrefixSets(), 1)

	assert.True(t, sets.Equal(sets))
	empty := NewTriePrefixSets(PrefixSet{}, nil, nil)
	assert.False(t, sets.Equal(empty))
	assert.True(t, empty.Equal(NewTriePrefixSets(NewPrefixSetMut().Freeze(), nil, nil)))
	assert.Empty(t, empty.DestroyedAccounts())
	assert.Empty(t, empty.StorageAccounts())
}
