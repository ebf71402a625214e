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

package changeset

import (
	"fmt"

	"github.com/erigontech/prefixsets/common"
	"github.com/erigontech/prefixsets/common/length"
	"github.com/erigontech/prefixsets/db/kv"
	"github.com/erigontech/prefixsets/db/kv/dbutils"
)

/*
StorageChangeSet record:
key - blockNum_u64 + address
value - slot + value_before
*/

// EncodeStorage - emits 1 table record per change of block blockN
func EncodeStorage(blockN uint64, s *ChangeSet, f func(k, v []byte) error) error {
	if err := s.sortAndCheck(); err != nil {
		return err
	}
	for _, cs := range s.Changes {
		newK := dbutils.BlockNumberAddressKey(blockN, common.BytesToAddress(cs.Key[:length.Addr]))
		newV := make([]byte, length.Hash+len(cs.Value))
		copy(newV, cs.Key[length.Addr:])
		copy(newV[length.Hash:], cs.Value)
		if err := f(newK, newV); err != nil {
			return err
		}
	}
	return nil
}

func DecodeStorageChange(dbKey, dbValue []byte) (blockN uint64, addr common.Address, slot common.Hash, valBefore []byte, err error) {
	blockN, addr, err = dbutils.ParseBlockNumberAddressKey(dbKey)
	if err != nil {
		return 0, addr, slot, nil, fmt.Errorf("%w: storage change key: %w", ErrMalformed, err)
	}
	if len(dbValue) < length.Hash {
		return 0, addr, slot, nil, fmt.Errorf("%w: storage change value of block %d, address %x is %d bytes", ErrMalformed, blockN, addr, len(dbValue))
	}
	copy(slot[:], dbValue[:length.Hash])
	return blockN, addr, slot, dbValue[length.Hash:], nil
}

func WriteStorageChange(tx kv.Putter, blockN uint64, addr common.Address, slot common.Hash, valBefore []byte) error {
	v := make([]byte, length.Hash+len(valBefore))
	copy(v, slot[:])
	copy(v[length.Hash:], valBefore)
	return tx.Put(kv.StorageChangeSet, dbutils.BlockNumberAddressKey(blockN, addr), v)
}

func WriteStorageChanges(tx kv.Putter, blockN uint64, s *ChangeSet) error {
	return EncodeStorage(blockN, s, func(k, v []byte) error {
		return tx.Put(kv.StorageChangeSet, k, v)
	})
}
