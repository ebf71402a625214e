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
	"iter"
	"maps"
	"slices"

	"github.com/erigontech/prefixsets/common"
)

// TriePrefixSets - changed paths of the account trie and of storage tries, plus accounts which are
// absent in the latest state. Immutable.
type TriePrefixSets struct {
	accountPrefixSet  PrefixSet
	storagePrefixSets map[common.Hash]PrefixSet
	destroyedAccounts map[common.Hash]struct{}
}

// NewTriePrefixSets - takes ownership of the maps
func NewTriePrefixSets(accounts PrefixSet, storage map[common.Hash]PrefixSet, destroyed map[common.Hash]struct{}) *TriePrefixSets {
	if storage == nil {
		storage = map[common.Hash]PrefixSet{}
	}
	if destroyed == nil {
		destroyed = map[common.Hash]struct{}{}
	}
	return &TriePrefixSets{accountPrefixSet: accounts, storagePrefixSets: storage, destroyedAccounts: destroyed}
}

func (s *TriePrefixSets) AccountPrefixSet() PrefixSet { return s.accountPrefixSet }

func (s *TriePrefixSets) StoragePrefixSet(account common.Hash) (PrefixSet, bool) {
	set, ok := s.storagePrefixSets[account]
	return set, ok
}

// StoragePrefixSets - copy of the map: account digest -> changed paths of its storage trie
func (s *TriePrefixSets) StoragePrefixSets() map[common.Hash]PrefixSet {
	return maps.Clone(s.storagePrefixSets)
}

// StorageAccounts - sorted digests of accounts with changed storage
func (s *TriePrefixSets) StorageAccounts() []common.Hash {
	return sortedHashes(maps.Keys(s.storagePrefixSets))
}

func (s *TriePrefixSets) IsDestroyed(account common.Hash) bool {
	_, ok := s.destroyedAccounts[account]
	return ok
}

// DestroyedAccounts - sorted digests
func (s *TriePrefixSets) DestroyedAccounts() []common.Hash {
	return sortedHashes(maps.Keys(s.destroyedAccounts))
}

func (s *TriePrefixSets) Equal(other *TriePrefixSets) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.accountPrefixSet.Equal(other.accountPrefixSet) &&
		maps.EqualFunc(s.storagePrefixSets, other.storagePrefixSets, PrefixSet.Equal) &&
		maps.Equal(s.destroyedAccounts, other.destroyedAccounts)
}

func sortedHashes(seq iter.Seq[common.Hash]) []common.Hash {
	res := slices.Collect(seq)
	slices.SortFunc(res, common.Hash.Cmp)
	return res
}
