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

package triedb

import (
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/prefixsets/common"
	"github.com/erigontech/prefixsets/trie"
)

func TestHashAddressesKeepsOrder(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	addrs := make([]common.Address, 3*minChunk+17)
	for i := range addrs {
		rnd.Read(addrs[i][:])
	}
	h := trie.KeccakKeyHasher{}

	sequential := hashAddresses(addrs, h, 1)
	require.Len(t, sequential, len(addrs))
	for i, addr := range addrs {
		require.Equal(t, h.HashKey(addr[:]), sequential[i])
	}
	for _, workers := range []int{0, 2, 3, 16, 1000} {
		assert.Equal(t, sequential, hashAddresses(addrs, h, workers), "workers=%d", workers)
	}
}

func TestHashStorageKeysKeepsOrder(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	pairs := make([]storageRef, 2*minChunk+1)
	for i := range pairs {
		rnd.Read(pairs[i].addr[:])
		rnd.Read(pairs[i].slot[:])
	}
	h := trie.Blake3KeyHasher{}

	sequential := hashStorageKeys(pairs, h, 1)
	for i, p := range pairs {
		require.Equal(t, h.HashKey(p.addr[:]), sequential[i].account)
		require.Equal(t, h.HashKey(p.slot[:]), sequential[i].slot)
	}
	assert.Equal(t, sequential, hashStorageKeys(pairs, h, 4))
}

func TestHashEmptyInput(t *testing.T) {
	assert.Empty(t, hashAddresses(nil, trie.KeccakKeyHasher{}, 4))
	assert.Empty(t, hashStorageKeys(nil, trie.KeccakKeyHasher{}, 4))
}

func TestParallelMapLengthMismatch(t *testing.T) {
	require.Panics(t, func() {
		parallelMap([]int{1, 2}, make([]int, 1), 2, func(i int) int { return i })
	})
}

func TestParallelMapBoundedWorkers(t *testing.T) {
	const workers = 2
	in := make([]int, 8*minChunk)
	for i := range in {
		in[i] = i
	}
	out := make([]int, len(in))

	var inflight, peak atomic.Int32
	parallelMap(in, out, workers, func(i int) int {
		n := inflight.Add(1)
		defer inflight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		return i * 2
	})

	for i := range in {
		require.Equal(t, 2*i, out[i])
	}
	assert.LessOrEqual(t, peak.Load(), int32(workers))
	assert.Zero(t, inflight.Load())
}
