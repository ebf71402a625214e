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

package accounts

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/holiman/uint256"

	"github.com/erigontech/prefixsets/common"
	"github.com/erigontech/prefixsets/common/length"
)

// Account is the Ethereum consensus representation of accounts.
// These objects are stored in the main account trie.
type Account struct {
	Nonce       uint64
	Balance     uint256.Int
	CodeHash    common.Hash // hash of the bytecode
	Incarnation uint64
}

// EmptyCodeHash - keccak256 of empty byte slice
var EmptyCodeHash = common.HexToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")

var ErrDecode = errors.New("account decode")

const (
	fieldNonce       = 1
	fieldBalance     = 2
	fieldIncarnation = 4
	fieldCodeHash    = 8
)

// NewAccount creates a new account w/o code nor storage.
func NewAccount() Account {
	return Account{CodeHash: EmptyCodeHash}
}

func (a *Account) IsEmptyCodeHash() bool {
	return a.CodeHash == EmptyCodeHash || a.CodeHash == (common.Hash{})
}

func bitLenToByteLen(bitLen int) int {
	return (bitLen + 7) / 8
}

func (a *Account) EncodingLengthForStorage() uint {
	var structLength uint = 1 // 1 byte for fieldset

	if !a.Balance.IsZero() {
		structLength += uint(a.Balance.ByteLen()) + 1
	}
	if a.Nonce > 0 {
		structLength += uint(bitLenToByteLen(bits.Len64(a.Nonce))) + 1
	}
	if !a.IsEmptyCodeHash() {
		structLength += length.Hash + 1
	}
	if a.Incarnation > 0 {
		structLength += uint(bitLenToByteLen(bits.Len64(a.Incarnation))) + 1
	}
	return structLength
}

// EncodeForStorage - first byte is the set of encoded fields, every field is prefixed by its length.
// Zero fields are omitted: empty account is encoded as 1 zero byte.
func (a *Account) EncodeForStorage(buffer []byte) {
	var fieldSet = 0
	var pos = 1
	if a.Nonce > 0 {
		fieldSet = fieldNonce
		pos = putUint(buffer, pos, a.Nonce)
	}

	if !a.Balance.IsZero() {
		fieldSet |= fieldBalance
		balanceBytes := a.Balance.ByteLen()
		buffer[pos] = byte(balanceBytes)
		pos++
		a.Balance.WriteToSlice(buffer[pos : pos+balanceBytes])
		pos += balanceBytes
	}

	if a.Incarnation > 0 {
		fieldSet |= fieldIncarnation
		pos = putUint(buffer, pos, a.Incarnation)
	}

	if !a.IsEmptyCodeHash() {
		fieldSet |= fieldCodeHash
		buffer[pos] = length.Hash
		copy(buffer[pos+1:], a.CodeHash[:])
	}

	buffer[0] = byte(fieldSet)
}

func putUint(buffer []byte, pos int, v uint64) int {
	n := bitLenToByteLen(bits.Len64(v))
	buffer[pos] = byte(n)
	for i := n; i > 0; i-- {
		buffer[pos+i] = byte(v)
		v >>= 8
	}
	return pos + n + 1
}

func SerialiseV3(a *Account) []byte {
	buf := make([]byte, a.EncodingLengthForStorage())
	a.EncodeForStorage(buf)
	return buf
}

func (a *Account) Reset() {
	a.Nonce = 0
	a.Balance.Clear()
	a.CodeHash = EmptyCodeHash
	a.Incarnation = 0
}

func (a *Account) DecodeForStorage(enc []byte) error {
	a.Reset()

	if len(enc) == 0 {
		return nil
	}

	var fieldSet = enc[0]
	var pos = 1
	var err error

	if fieldSet&fieldNonce > 0 {
		if a.Nonce, pos, err = readUint(enc, pos, "nonce"); err != nil {
			return err
		}
	}

	if fieldSet&fieldBalance > 0 {
		if len(enc) <= pos {
			return fmt.Errorf("%w: balance length missing", ErrDecode)
		}
		decodeLength := int(enc[pos])
		if decodeLength > 32 {
			return fmt.Errorf("%w: balance length %d > 32", ErrDecode, decodeLength)
		}
		if len(enc) < pos+decodeLength+1 {
			return fmt.Errorf("%w: malformed Account.Balance: %x, Length %d", ErrDecode, enc[pos+1:], decodeLength)
		}
		a.Balance.SetBytes(enc[pos+1 : pos+decodeLength+1])
		pos += decodeLength + 1
	}

	if fieldSet&fieldIncarnation > 0 {
		if a.Incarnation, pos, err = readUint(enc, pos, "incarnation"); err != nil {
			return err
		}
	}

	if fieldSet&fieldCodeHash > 0 {
		if len(enc) <= pos {
			return fmt.Errorf("%w: code hash length missing", ErrDecode)
		}
		decodeLength := int(enc[pos])
		if decodeLength != length.Hash {
			return fmt.Errorf("%w: codeHash should be 32 bytes long, got %d instead", ErrDecode, decodeLength)
		}
		if len(enc) < pos+decodeLength+1 {
			return fmt.Errorf("%w: malformed Account.CodeHash: %x, Length %d", ErrDecode, enc[pos+1:], decodeLength)
		}
		a.CodeHash.SetBytes(enc[pos+1 : pos+decodeLength+1])
	}
	return nil
}

func readUint(enc []byte, pos int, field string) (uint64, int, error) {
	if len(enc) <= pos {
		return 0, pos, fmt.Errorf("%w: %s length missing", ErrDecode, field)
	}
	decodeLength := int(enc[pos])
	if decodeLength > 8 {
		return 0, pos, fmt.Errorf("%w: %s length %d > 8", ErrDecode, field, decodeLength)
	}
	if len(enc) < pos+decodeLength+1 {
		return 0, pos, fmt.Errorf("%w: malformed %s: %x, Length %d", ErrDecode, field, enc[pos+1:], decodeLength)
	}
	var v uint64
	for _, b := range enc[pos+1 : pos+decodeLength+1] {
		v = v<<8 | uint64(b)
	}
	return v, pos + decodeLength + 1, nil
}

func DeserialiseV3(a *Account, enc []byte) error {
	return a.DecodeForStorage(enc)
}

func (a *Account) Equals(acc *Account) bool {
	return a.Nonce == acc.Nonce &&
		a.CodeHash == acc.CodeHash &&
		a.Balance.Eq(&acc.Balance) &&
		a.Incarnation == acc.Incarnation
}
