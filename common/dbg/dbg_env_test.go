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

package dbg

import (
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/require"
)

func TestEnvInt(t *testing.T) {
	require.Equal(t, 7, EnvInt("PREFIXSET_TEST_UNSET_INT", 7))

	t.Setenv("PREFIXSET_TEST_INT", "1_024")
	require.Equal(t, 1024, EnvInt("PREFIXSET_TEST_INT", 7))

	t.Setenv(EnvPrefix+"PREFIXSET_TEST_PREFIXED", "3")
	require.Equal(t, 3, EnvInt("PREFIXSET_TEST_PREFIXED", 7))
}

func TestEnvDataSize(t *testing.T) {
	require.Equal(t, 2*datasize.MB, EnvDataSize("PREFIXSET_TEST_UNSET_SIZE", 2*datasize.MB))
	t.Setenv("PREFIXSET_TEST_SIZE", "64MB")
	require.Equal(t, 64*datasize.MB, EnvDataSize("PREFIXSET_TEST_SIZE", 2*datasize.MB))
}

func TestEnvParsePanics(t *testing.T) {
	t.Setenv("PREFIXSET_TEST_BAD_INT", "12a")
	require.Panics(t, func() { EnvInt("PREFIXSET_TEST_BAD_INT", 1) })
	t.Setenv("PREFIXSET_TEST_BAD_SIZE", "lots")
	require.Panics(t, func() { EnvDataSize("PREFIXSET_TEST_BAD_SIZE", datasize.MB) })
}

func TestEnvString(t *testing.T) {
	require.Equal(t, "def", EnvString("PREFIXSET_TEST_UNSET_STR", "def"))
	t.Setenv("PREFIXSET_TEST_STR", "/data")
	require.Equal(t, "/data", EnvString("PREFIXSET_TEST_STR", "def"))
}

func TestStack(t *testing.T) {
	require.Contains(t, Stack(), "dbg_env_test.go")
}
