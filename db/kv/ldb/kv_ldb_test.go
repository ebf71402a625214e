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

package ldb

import (
	"context"
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/ledgerwatch/log/v3"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/prefixsets/db/kv"
	"github.com/erigontech/prefixsets/db/kv/kvtest"
)

func TestLevelKVInMem(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) kv.RwDB {
		db := New(log.New()).InMem().MustOpen()
		t.Cleanup(db.Close)
		return db
	})
}

func TestLevelKVFile(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) kv.RwDB {
		db := New(log.New()).Path(t.TempDir()).WriteBuffer(4 * datasize.MB).BlockCache(8 * datasize.MB).MustOpen()
		t.Cleanup(db.Close)
		return db
	})
}

func TestTablesDoNotOverlap(t *testing.T) {
	db := New(log.New()).InMem().MustOpen()
	defer db.Close()
	ctx := context.Background()

	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		require.NoError(t, tx.Put(kv.HashedAccounts, []byte{1}, []byte{1}))
		return tx.Put(kv.SyncStageProgress, []byte{1}, []byte{2})
	}))
	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		cnt, err := tx.Count(kv.HashedAccounts)
		require.NoError(t, err)
		require.Equal(t, uint64(1), cnt)

		v, err := tx.GetOne(kv.SyncStageProgress, []byte{1})
		require.NoError(t, err)
		require.Equal(t, []byte{2}, v)
		return nil
	}))
}
