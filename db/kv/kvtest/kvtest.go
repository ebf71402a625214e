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

// Package kvtest - behaviour every kv.RwDB backend of this module must share.
package kvtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/prefixsets/db/kv"
	"github.com/erigontech/prefixsets/db/kv/dbutils"
	"github.com/erigontech/prefixsets/db/kv/stream"
)

// Run - runs all checks against fresh databases produced by `open`. `open` must register cleanup itself.
func Run(t *testing.T, open func(t *testing.T) kv.RwDB) {
	t.Run("plain put get", func(t *testing.T) { testPlain(t, open(t)) })
	t.Run("dupsort navigation", func(t *testing.T) { testDupSort(t, open(t)) })
	t.Run("dupsort delete", func(t *testing.T) { testDupSortDelete(t, open(t)) })
	t.Run("cursor edges", func(t *testing.T) { testCursorEdges(t, open(t)) })
	t.Run("prefix stream", func(t *testing.T) { testPrefix(t, open(t)) })
	t.Run("isolation", func(t *testing.T) { testIsolation(t, open(t)) })
	t.Run("errors", func(t *testing.T) { testErrors(t, open(t)) })
}

func bn(n uint64) []byte { return dbutils.EncodeBlockNumber(n) }

func testPlain(t *testing.T, db kv.RwDB) {
	ctx := context.Background()
	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		require.NoError(t, tx.Put(kv.HashedAccounts, []byte{0x02}, []byte("b")))
		require.NoError(t, tx.Put(kv.HashedAccounts, []byte{0x01}, []byte("a")))
		require.NoError(t, tx.Put(kv.HashedAccounts, []byte{0x03}, []byte("c")))
		return tx.Put(kv.HashedAccounts, []byte{0x02}, []byte("bb"))
	}))

	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		v, err := tx.GetOne(kv.HashedAccounts, []byte{0x02})
		require.NoError(t, err)
		assert.Equal(t, []byte("bb"), v)

		v, err = tx.GetOne(kv.HashedAccounts, []byte{0x04})
		require.NoError(t, err)
		assert.Nil(t, v)

		has, err := tx.Has(kv.HashedAccounts, []byte{0x01})
		require.NoError(t, err)
		assert.True(t, has)
		has, err = tx.Has(kv.HashedAccounts, []byte{0x05})
		require.NoError(t, err)
		assert.False(t, has)

		cnt, err := tx.Count(kv.HashedAccounts)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), cnt)

		var keys []byte
		require.NoError(t, tx.ForEach(kv.HashedAccounts, []byte{0x02}, func(k, v []byte) error {
			keys = append(keys, k...)
			return nil
		}))
		assert.Equal(t, []byte{0x02, 0x03}, keys)
		return nil
	}))

	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		require.NoError(t, tx.Delete(kv.HashedAccounts, []byte{0x02}))
		has, err := tx.Has(kv.HashedAccounts, []byte{0x02})
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, tx.ClearTable(kv.HashedAccounts))
		cnt, err := tx.Count(kv.HashedAccounts)
		require.NoError(t, err)
		assert.Zero(t, cnt)
		return nil
	}))
}

func testDupSort(t *testing.T, db kv.RwDB) {
	ctx := context.Background()
	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		for _, e := range []struct {
			k uint64
			v string
		}{{1, "c"}, {1, "a"}, {1, "b"}, {2, "x"}, {4, "y"}, {4, "z"}} {
			require.NoError(t, tx.Put(kv.AccountChangeSet, bn(e.k), []byte(e.v)))
		}
		return nil
	}))

	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		c, err := tx.CursorDupSort(kv.AccountChangeSet)
		require.NoError(t, err)
		defer c.Close()

		var got []string
		for k, v, err := c.First(); k != nil; k, v, err = c.NextNoDup() {
			require.NoError(t, err)
			for ; v != nil; _, v, err = c.NextDup() {
				require.NoError(t, err)
				got = append(got, string(v))
			}
			require.NoError(t, err)
		}
		assert.Equal(t, []string{"a", "b", "c", "x", "y", "z"}, got)

		v, err := c.SeekBothRange(bn(1), []byte("b"))
		require.NoError(t, err)
		assert.Equal(t, []byte("b"), v)
		v, err = c.SeekBothRange(bn(2), []byte("y"))
		require.NoError(t, err)
		assert.Nil(t, v)

		k, v, err := c.SeekBothExact(bn(4), []byte("z"))
		require.NoError(t, err)
		assert.Equal(t, bn(4), k)
		assert.Equal(t, []byte("z"), v)
		k, _, err = c.SeekBothExact(bn(4), []byte("q"))
		require.NoError(t, err)
		assert.Nil(t, k)

		k, v, err = c.SeekExact(bn(1))
		require.NoError(t, err)
		assert.Equal(t, bn(1), k)
		assert.Equal(t, []byte("a"), v)
		cnt, err := c.CountDuplicates()
		require.NoError(t, err)
		assert.Equal(t, uint64(3), cnt)
		v, err = c.LastDup()
		require.NoError(t, err)
		assert.Equal(t, []byte("c"), v)
		v, err = c.FirstDup()
		require.NoError(t, err)
		assert.Equal(t, []byte("a"), v)

		k, _, err = c.SeekExact(bn(3))
		require.NoError(t, err)
		assert.Nil(t, k)

		// last dup of the last key
		_, _, err = c.Last()
		require.NoError(t, err)
		_, v, err = c.NextDup()
		require.NoError(t, err)
		assert.Nil(t, v)
		k, v, err = c.Current()
		require.NoError(t, err)
		assert.Equal(t, bn(4), k)
		assert.Equal(t, []byte("z"), v)

		v, err = tx.GetOne(kv.AccountChangeSet, bn(4))
		require.NoError(t, err)
		assert.Equal(t, []byte("y"), v)

		cnt, err = tx.Count(kv.AccountChangeSet)
		require.NoError(t, err)
		assert.Equal(t, uint64(6), cnt)
		return nil
	}))
}

func testDupSortDelete(t *testing.T, db kv.RwDB) {
	ctx := context.Background()
	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		require.NoError(t, tx.Put(kv.AccountChangeSet, bn(1), []byte("a")))
		require.NoError(t, tx.Put(kv.AccountChangeSet, bn(1), []byte("b")))
		require.NoError(t, tx.Put(kv.AccountChangeSet, bn(2), []byte("c")))
		return tx.Delete(kv.AccountChangeSet, bn(1))
	}))
	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		keys, vals, err := stream.ToArrDuo[[]byte, []byte](mustPrefix(t, tx, kv.AccountChangeSet, nil))
		require.NoError(t, err)
		assert.Equal(t, [][]byte{bn(2)}, keys)
		assert.Equal(t, [][]byte{[]byte("c")}, vals)
		return nil
	}))
}

func testCursorEdges(t *testing.T, db kv.RwDB) {
	ctx := context.Background()
	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		for i := byte(1); i <= 3; i++ {
			require.NoError(t, tx.Put(kv.HashedAccounts, []byte{i}, []byte{i}))
		}
		return nil
	}))
	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		c, err := tx.Cursor(kv.HashedAccounts)
		require.NoError(t, err)
		defer c.Close()

		// fresh cursor: Next acts as First
		k, _, err := c.Next()
		require.NoError(t, err)
		assert.Equal(t, []byte{1}, k)

		k, _, err = c.Prev()
		require.NoError(t, err)
		assert.Nil(t, k)
		k, _, err = c.Next()
		require.NoError(t, err)
		assert.Equal(t, []byte{1}, k)

		k, _, err = c.Seek([]byte{0x10})
		require.NoError(t, err)
		assert.Nil(t, k)
		k, _, err = c.Prev()
		require.NoError(t, err)
		assert.Equal(t, []byte{3}, k)

		k, _, err = c.Last()
		require.NoError(t, err)
		assert.Equal(t, []byte{3}, k)
		k, _, err = c.Next()
		require.NoError(t, err)
		assert.Nil(t, k)
		k, _, err = c.Next()
		require.NoError(t, err)
		assert.Nil(t, k)

		k, v, err := c.Seek([]byte{0x01, 0x00})
		require.NoError(t, err)
		assert.Equal(t, []byte{2}, k)
		assert.Equal(t, []byte{2}, v)
		return nil
	}))
}

func testPrefix(t *testing.T, db kv.RwDB) {
	ctx := context.Background()
	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		for _, k := range [][]byte{{0x01, 0x01}, {0x01, 0x02}, {0x02, 0x01}, {0x00, 0xff}} {
			require.NoError(t, tx.Put(kv.HashedAccounts, k, []byte{0xaa}))
		}
		return nil
	}))
	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		keys, _, err := stream.ToArrDuo[[]byte, []byte](mustPrefix(t, tx, kv.HashedAccounts, []byte{0x01}))
		require.NoError(t, err)
		assert.Equal(t, [][]byte{{0x01, 0x01}, {0x01, 0x02}}, keys)

		cnt, err := stream.CountDuo[[]byte, []byte](mustPrefix(t, tx, kv.HashedAccounts, []byte{0x03}))
		require.NoError(t, err)
		assert.Zero(t, cnt)
		return nil
	}))
}

func testIsolation(t *testing.T, db kv.RwDB) {
	ctx := context.Background()
	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		return tx.Put(kv.HashedAccounts, []byte{1}, []byte{1})
	}))

	ro, err := db.BeginRo(ctx)
	require.NoError(t, err)
	defer ro.Rollback()

	rw, err := db.BeginRw(ctx)
	require.NoError(t, err)
	require.NoError(t, rw.Put(kv.HashedAccounts, []byte{2}, []byte{2}))
	rw.Rollback()

	has, err := ro.Has(kv.HashedAccounts, []byte{2})
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		has, err := tx.Has(kv.HashedAccounts, []byte{2})
		require.NoError(t, err)
		assert.False(t, has)
		has, err = tx.Has(kv.HashedAccounts, []byte{1})
		require.NoError(t, err)
		assert.True(t, has)
		return nil
	}))
}

func testErrors(t *testing.T, db kv.RwDB) {
	ctx := context.Background()
	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		_, err := tx.Cursor("NoSuchTable")
		require.ErrorIs(t, err, kv.ErrUnknownTable)
		_, err = tx.GetOne("NoSuchTable", []byte{1})
		require.ErrorIs(t, err, kv.ErrUnknownTable)
		_, err = tx.CursorDupSort(kv.HashedAccounts)
		require.ErrorIs(t, err, kv.ErrNotDupSort)
		err = tx.Put(kv.StorageChangeSet, bn(1), []byte{1})
		require.ErrorIs(t, err, kv.ErrDupKeyLen)
		return nil
	}))

	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		rw, ok := tx.(kv.RwTx)
		if !ok {
			return nil
		}
		require.ErrorIs(t, rw.Put(kv.HashedAccounts, []byte{1}, []byte{1}), kv.ErrReadOnly)
		return nil
	}))
}

func mustPrefix(t *testing.T, tx kv.Tx, table string, prefix []byte) stream.KV {
	t.Helper()
	s, err := tx.Prefix(table, prefix)
	require.NoError(t, err)
	return s
}
