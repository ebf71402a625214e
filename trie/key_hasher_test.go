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
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/erigontech/prefixsets/common"
)

func TestKeccakKeyHasher(t *testing.T) {
	require.Equal(t,
		common.HexToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"),
		KeccakKeyHasher{}.HashKey(nil))

	require.Equal(t, common.Keccak256Hash([]byte{1, 2, 3}), KeccakKeyHasher{}.HashKey([]byte{1, 2, 3}))
}

func TestBlake3KeyHasher(t *testing.T) {
	require.Equal(t,
		common.HexToHash("0xaf1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"),
		Blake3KeyHasher{}.HashKey(nil))
}

func TestKeccakKeyHasherConcurrent(t *testing.T) {
	expect := KeccakKeyHasher{}.HashKey([]byte("key"))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := (KeccakKeyHasher{}).HashKey([]byte("key")); got != expect {
					t.Errorf("got %x, expected %x", got, expect)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestKeyHasherByName(t *testing.T) {
	h, err := KeyHasherByName("keccak256")
	require.NoError(t, err)
	require.IsType(t, KeccakKeyHasher{}, h)

	h, err = KeyHasherByName("BLAKE3")
	require.NoError(t, err)
	require.IsType(t, Blake3KeyHasher{}, h)

	_, err = KeyHasherByName("sha1")
	require.Error(t, err)
}

func TestKeyHasherFunc(t *testing.T) {
	var h KeyHasher = KeyHasherFunc(func(key []byte) common.Hash { return common.BytesToHash(key) })
	require.Equal(t, common.HexToHash("0x0102"), h.HashKey([]byte{1, 2}))
}

func TestMockKeyHasher(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewMockKeyHasher(ctrl)
	h.EXPECT().HashKey([]byte{1}).Return(common.HexToHash("0x01")).Times(1)

	require.Equal(t, common.HexToHash("0x01"), h.HashKey([]byte{1}))
}
