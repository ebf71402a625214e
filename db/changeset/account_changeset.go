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
AccountChangeSet record:
key - blockNum_u64
value - address + account_before(encoded)
*/

// EncodeAccounts - emits 1 table record per change of block blockN
func EncodeAccounts(blockN uint64, s *ChangeSet, f func(k, v []byte) error) error {
	if err := s.sortAndCheck(); err != nil {
		return err
	}
	newK := dbutils.EncodeBlockNumber(blockN)
	for _, cs := range s.Changes {
		newV := make([]byte, len(cs.Key)+len(cs.Value))
		copy(newV, cs.Key)
		copy(newV[len(cs.Key):], cs.Value)
		if err := f(newK, newV); err != nil {
			return err
		}
	}
	return nil
}

func DecodeAccountChange(dbKey, dbValue []byte) (blockN uint64, addr common.Address, accBefore []byte, err error) {
	blockN, err = dbutils.DecodeBlockNumber(dbKey)
	if err != nil {
		return 0, addr, nil, fmt.Errorf("%w: account change key: %w", ErrMalformed, err)
	}
	if len(dbValue) < length.Addr {
		return 0, addr, nil, fmt.Errorf("%w: account change value of block %d is %d bytes", ErrMalformed, blockN, len(dbValue))
	}
	copy(addr[:], dbValue[:length.Addr])
	return blockN, addr, dbValue[length.Addr:], nil
}

func WriteAccountChange(tx kv.Putter, blockN uint64, addr common.Address, accBefore []byte) error {
	v := make([]byte, length.Addr+len(accBefore))
	copy(v, addr[:])
	copy(v[length.Addr:], accBefore)
	return tx.Put(kv.AccountChangeSet, dbutils.EncodeBlockNumber(blockN), v)
}

func WriteAccountChanges(tx kv.Putter, blockN uint64, s *ChangeSet) error {
	return EncodeAccounts(blockN, s, func(k, v []byte) error {
		return tx.Put(kv.AccountChangeSet, k, v)
	})
}
