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

package stream_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/prefixsets/db/kv/stream"
)

func TestRange(t *testing.T) {
	res, err := stream.ToArr[uint8](stream.Range[uint8](3, 7))
	require.NoError(t, err)
	require.Equal(t, []uint8{3, 4, 5, 6}, res)

	res, err = stream.ToArr[uint8](stream.Range[uint8](7, 3))
	require.NoError(t, err)
	require.Empty(t, res)
}

func TestEmpty(t *testing.T) {
	res, err := stream.ToArr[int](stream.Empty[int]{})
	require.NoError(t, err)
	require.Empty(t, res)

	cnt, err := stream.CountDuo[int, int](stream.EmptyDuo[int, int]{})
	require.NoError(t, err)
	require.Zero(t, cnt)
}
