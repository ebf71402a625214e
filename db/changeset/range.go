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
	"github.com/erigontech/prefixsets/db/kv/stream"
)

// AccountChangesInRange - address of every AccountChangeSet record of blocks [from, to], in table order.
// Address touched in many blocks is returned many times.
// Stream owns a cursor: caller must Close it. Store errors are returned by Next.
func AccountChangesInRange(tx kv.Tx, from, to uint64) (stream.Uno[common.Address], error) {
	if from > to {
		return stream.Empty[common.Address]{}, nil
	}
	c, err := tx.CursorDupSort(kv.AccountChangeSet)
	if err != nil {
		return nil, err
	}
	s := &AccountChanges{rangeCursor{c: c, to: to}}
	s.land(c.Seek(dbutils.EncodeBlockNumber(from)))
	return s, nil
}

// StorageChangesInRange - (address, slot) of every StorageChangeSet record with key in
// [(from, 0x00..00), (to, 0xff..ff)], in table order.
// Stream owns a cursor: caller must Close it. Store errors are returned by Next.
func StorageChangesInRange(tx kv.Tx, from, to uint64) (stream.Duo[common.Address, common.Hash], error) {
	if from > to {
		return stream.EmptyDuo[common.Address, common.Hash]{}, nil
	}
	c, err := tx.CursorDupSort(kv.StorageChangeSet)
	if err != nil {
		return nil, err
	}
	s := &StorageChanges{rangeCursor{c: c, to: to}}
	s.land(c.Seek(dbutils.EncodeBlockNumber(from)))
	return s, nil
}

// rangeCursor - cursor positioned at next record to return, or at nil when block `to` is passed
type rangeCursor struct {
	c    kv.CursorDupSort
	to   uint64
	k, v []byte
	err  error
}

func (r *rangeCursor) land(k, v []byte, err error) {
	r.k, r.v, r.err = k, v, err
	if err != nil || k == nil {
		return
	}
	if len(k) < length.BlockNum {
		r.err = fmt.Errorf("%w: key %x", ErrMalformed, k)
		return
	}
	blockN, _ := dbutils.DecodeBlockNumber(k[:length.BlockNum])
	if blockN > r.to {
		r.k, r.v = nil, nil
	}
}

func (r *rangeCursor) HasNext() bool { return r.err != nil || r.k != nil }

func (r *rangeCursor) Close() {
	if r.c != nil {
		r.c.Close()
		r.c = nil
	}
}

type AccountChanges struct{ rangeCursor }

func (s *AccountChanges) Next() (common.Address, error) {
	if s.err != nil {
		return common.Address{}, s.err
	}
	_, addr, _, err := DecodeAccountChange(s.k, s.v)
	if err != nil {
		return addr, err
	}
	s.land(s.c.Next())
	return addr, nil
}

type StorageChanges struct{ rangeCursor }

func (s *StorageChanges) Next() (common.Address, common.Hash, error) {
	if s.err != nil {
		return common.Address{}, common.Hash{}, s.err
	}
	_, addr, slot, _, err := DecodeStorageChange(s.k, s.v)
	if err != nil {
		return addr, slot, err
	}
	s.land(s.c.Next())
	return addr, slot, nil
}
