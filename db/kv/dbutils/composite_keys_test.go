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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/prefixsets/common"
)

func TestBlockNumberRoundTrip(t *testing.T) {
	for _, n := range []uint64{0, 1, 255, 256, math.MaxUint64} {
		got, err := DecodeBlockNumber(EncodeBlockNumber(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}

	_, err := DecodeBlockNumber([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestBlockNumberOrdering(t *testing.T) {
	// big endian keeps numeric order under bytewise comparison
	assert.Less(t, string(EncodeBlockNumber(255)), string(EncodeBlockNumber(256)))
	assert.Less(t, string(EncodeBlockNumber(1<<32)), string(EncodeBlockNumber(math.MaxUint64)))
}

func TestBlockNumberAddressKey(t *testing.T) {
	addr := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	k := BlockNumberAddressKey(7, addr)
	require.Len(t, k, NumberLength+20)

	n, got, err := ParseBlockNumberAddressKey(k)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), n)
	assert.Equal(t, addr, got)

	_, _, err = ParseBlockNumberAddressKey(k[:10])
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestNextSubtree(t *testing.T) {
	next, ok := NextSubtree([]byte{0x01, 0xff})
	require.True(t, ok)
	assert.Equal(t, []byte{0x02}, next)

	next, ok = NextSubtree([]byte{0x00})
	require.True(t, ok)
	assert.Equal(t, []byte{0x01}, next)

	next, ok = NextSubtree([]byte{0x01, 0xfe, 0xff})
	require.True(t, ok)
	assert.Equal(t, []byte{0x01, 0xff}, next)

	_, ok = NextSubtree([]byte{0xff, 0xff})
	require.False(t, ok)
	_, ok = NextSubtree(nil)
	require.False(t, ok)
}
