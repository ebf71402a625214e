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

package dbutils

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/erigontech/prefixsets/common"
	"github.com/erigontech/prefixsets/common/length"
)

const NumberLength = 8

// EncodeBlockNumber encodes a block number as big endian uint64
func EncodeBlockNumber(number uint64) []byte {
	enc := make([]byte, NumberLength)
	binary.BigEndian.PutUint64(enc, number)
	return enc
}

var ErrInvalidSize = errors.New("bit endian number has an invalid size")

func DecodeBlockNumber(number []byte) (uint64, error) {
	if len(number) != NumberLength {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, len(number))
	}
	return binary.BigEndian.Uint64(number), nil
}

// BlockNumberAddressKey = num (uint64 big endian) + address
// For StorageChangeSet
func BlockNumberAddressKey(number uint64, address common.Address) []byte {
	k := make([]byte, NumberLength+length.Addr)
	binary.BigEndian.PutUint64(k, number)
	copy(k[NumberLength:], address[:])
	return k
}

func ParseBlockNumberAddressKey(k []byte) (uint64, common.Address, error) {
	var addr common.Address
	if len(k) != NumberLength+length.Addr {
		return 0, addr, fmt.Errorf("%w: %d", ErrInvalidSize, len(k))
	}
	copy(addr[:], k[NumberLength:])
	return binary.BigEndian.Uint64(k), addr, nil
}

// AddressStorageKey = address + storage slot
func AddressStorageKey(address common.Address, slot common.Hash) []byte {
	k := make([]byte, 0, length.Addr+length.Hash)
	k = append(k, address[:]...)
	k = append(k, slot[:]...)
	return k
}

// NextSubtree - smallest key greater than every key starting with `in`.
// Returns false if there is no such key: `in` is empty or all 0xff.
func NextSubtree(in []byte) ([]byte, bool) {
	for i := len(in) - 1; i >= 0; i-- {
		if in[i] != 0xff {
			next := bytes.Clone(in[:i+1])
			next[i]++
			return next, true
		}
	}
	return nil, false
}
