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

package common

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexToHash(t *testing.T) {
	h := HexToHash("0x01")
	require.Equal(t, byte(1), h[31])
	require.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000001", h.Hex())
	require.Equal(t, fmt.Sprintf("%x", h[:]), fmt.Sprintf("%x", h))

	long := FromHex("0xff" + "00000000000000000000000000000000000000000000000000000000000000aa")
	require.Equal(t, byte(0xaa), BytesToHash(long)[31])
	require.Equal(t, byte(0x00), BytesToHash(long)[0])
}

func TestHexToAddress(t *testing.T) {
	a := HexToAddress("0xBe828AD8B538D1D691891F6c725dEdc5989abBc1")
	require.Equal(t, "0xbe828ad8b538d1d691891f6c725dedc5989abbc1", a.Hex())
	require.Equal(t, -1, HexToAddress("0x01").Cmp(a))
}

func TestKeccak256Hash(t *testing.T) {
	empty := HexToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")
	require.Equal(t, empty, Keccak256Hash())
	require.Equal(t, empty, Keccak256Hash(nil, []byte{}))

	h := NewHasher()
	defer h.Release()
	require.Equal(t, Keccak256Hash([]byte{1, 2, 3}), h.Sum([]byte{1}, []byte{2, 3}))
	// state is reset between sums
	require.Equal(t, empty, h.Sum())
}
