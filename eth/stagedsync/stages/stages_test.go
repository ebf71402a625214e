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

package stages_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/prefixsets/db/kv"
	"github.com/erigontech/prefixsets/db/kv/memdb"
	"github.com/erigontech/prefixsets/eth/stagedsync/stages"
)

func TestStageProgress(t *testing.T) {
	_, tx := memdb.NewTestTx(t)

	for _, stage := range stages.AllStages {
		progress, err := stages.GetStageProgress(tx, stage)
		require.NoError(t, err)
		require.Zero(t, progress)
	}

	require.NoError(t, stages.SaveStageProgress(tx, stages.Execution, 1_000_000))
	require.NoError(t, stages.SaveStageProgress(tx, stages.HashState, 999_999))

	progress, err := stages.GetStageProgress(tx, stages.Execution)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000), progress)
	progress, err = stages.GetStageProgress(tx, stages.HashState)
	require.NoError(t, err)
	require.Equal(t, uint64(999_999), progress)
}

func TestStageProgressMalformed(t *testing.T) {
	_, tx := memdb.NewTestTx(t)
	require.NoError(t, tx.Put(kv.SyncStageProgress, []byte(stages.Execution), []byte{1, 2, 3}))
	_, err := stages.GetStageProgress(tx, stages.Execution)
	require.Error(t, err)
}
