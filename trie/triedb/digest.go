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
	"golang.org/x/sync/errgroup"

	"github.com/erigontech/prefixsets/common"
	"github.com/erigontech/prefixsets/trie"
)

// minChunk - below it a chunk is not worth a goroutine
const minChunk = 256

type storageRef struct {
	addr common.Address
	slot common.Hash
}

type storageDigest struct {
	account common.Hash
	slot    common.Hash
}

func hashAddresses(addrs []common.Address, h trie.KeyHasher, workers int) []common.Hash {
	out := make([]common.Hash, len(addrs))
	parallelMap(addrs, out, workers, func(addr common.Address) common.Hash {
		return h.HashKey(addr[:])
	})
	return out
}

func hashStorageKeys(pairs []storageRef, h trie.KeyHasher, workers int) []storageDigest {
	out := make([]storageDigest, len(pairs))
	parallelMap(pairs, out, workers, func(p storageRef) storageDigest {
		return storageDigest{account: h.HashKey(p.addr[:]), slot: h.HashKey(p.slot[:])}
	})
	return out
}

// parallelMap - out[i] = fn(in[i]). Input is split into contiguous chunks, every worker
// writes only its own range of `out`.
func parallelMap[In, Out any](in []In, out []Out, workers int, fn func(In) Out) {
	if len(in) != len(out) {
		panic("parallelMap: len(in) != len(out)")
	}
	workers = max(workers, 1)
	chunk := max((len(in)+workers-1)/workers, minChunk)
	if workers == 1 || len(in) <= chunk {
		for i := range in {
			out[i] = fn(in[i])
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < len(in); lo += chunk {
		hi := min(lo+chunk, len(in))
		src, dst := in[lo:hi], out[lo:hi]
		g.Go(func() error {
			for i := range src {
				dst[i] = fn(src[i])
			}
			return nil
		})
	}
	_ = g.Wait() // workers always return nil
}
