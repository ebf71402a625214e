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

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ledgerwatch/log/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/prefixsets/db/kv"
	"github.com/erigontech/prefixsets/db/kv/bolt"
	"github.com/erigontech/prefixsets/trie"
	"github.com/erigontech/prefixsets/trie/triedb"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := log.Root().GetHandler()
	t.Cleanup(func() { log.Root().SetHandler(prev) })

	var out bytes.Buffer
	app := makeApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"prefixsets", "--verbosity", "crit"}, args...))
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runApp(t, args...)
	require.NoError(t, err)
	return out
}

// summaryValue - value of `name: value` line
func summaryValue(t *testing.T, out, name string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if v, ok := strings.CutPrefix(line, name+": "); ok {
			return v
		}
	}
	t.Fatalf("no %q in output:\n%s", name, out)
	return ""
}

func TestGenAndLoad(t *testing.T) {
	for _, backend := range []string{backendBolt, backendLevelDB} {
		t.Run(backend, func(t *testing.T) {
			datadir := t.TempDir()
			out := mustRun(t, "gen", "--datadir", datadir, "--db.backend", backend, "--blocks", "20", "--accounts", "300", "--seed", "3")
			assert.Equal(t, "20", summaryValue(t, out, "blocks"))
			assert.NotEqual(t, "0", summaryValue(t, out, "destroyed accounts"))

			out = mustRun(t, "load", "--datadir", datadir, "--db.backend", backend)
			assert.Equal(t, "0-20", summaryValue(t, out, "blocks"))
			assert.NotEqual(t, "0", summaryValue(t, out, "account paths"))
			assert.NotEqual(t, "0", summaryValue(t, out, "storage tries"))
			assert.NotEqual(t, "0", summaryValue(t, out, "destroyed accounts"))
			assert.Equal(t, "false", summaryValue(t, out, "all accounts changed"))

			single := mustRun(t, "load", "--datadir", datadir, "--db.backend", backend, "--from", "5", "--to", "15", "--workers", "1", "--dump")
			multi := mustRun(t, "load", "--datadir", datadir, "--db.backend", backend, "--from", "5", "--to", "15", "--workers", "8", "--dump")
			assert.Equal(t, single, multi)
			assert.Contains(t, single, "\naccount ")
			assert.Contains(t, single, "\nstorage 0x")

			empty := mustRun(t, "load", "--datadir", datadir, "--db.backend", backend, "--from", "21", "--to", "30")
			assert.Equal(t, "0", summaryValue(t, empty, "account paths"))
			assert.Equal(t, "0", summaryValue(t, empty, "storage tries"))
			assert.Equal(t, "0", summaryValue(t, empty, "destroyed accounts"))
		})
	}
}

func TestGenCounts(t *testing.T) {
	datadir := t.TempDir()
	out := mustRun(t, "gen", "--datadir", datadir, "--blocks", "7", "--accounts", "200", "--destroyed", "25", "--seed", "11")
	hashed, err := strconv.Atoi(summaryValue(t, out, "hashed accounts"))
	require.NoError(t, err)
	destroyed, err := strconv.Atoi(summaryValue(t, out, "destroyed accounts"))
	require.NoError(t, err)
	assert.Equal(t, 200, hashed+destroyed)
	assert.NotZero(t, destroyed)

	first := mustRun(t, "load", "--datadir", datadir, "--from", "1", "--to", "1")
	assert.NotEqual(t, "0", summaryValue(t, first, "account paths"))
	last := mustRun(t, "load", "--datadir", datadir, "--from", "7", "--to", "7")
	assert.NotEqual(t, "0", summaryValue(t, last, "account paths"))
	past := mustRun(t, "load", "--datadir", datadir, "--from", "8", "--to", "8")
	assert.Equal(t, "0", summaryValue(t, past, "account paths"))
}

func TestLoadMatchesLibrary(t *testing.T) {
	datadir := t.TempDir()
	mustRun(t, "gen", "--datadir", datadir, "--blocks", "10", "--accounts", "100", "--hasher", trie.Blake3HasherName)
	out := mustRun(t, "load", "--datadir", datadir, "--from", "2", "--to", "9", "--hasher", trie.Blake3HasherName, "--dump")

	db, err := bolt.New(log.New()).Path(filepath.Join(datadir, "chaindata")).Readonly().Open()
	require.NoError(t, err)
	defer db.Close()
	var res *trie.TriePrefixSets
	require.NoError(t, db.View(context.Background(), func(tx kv.Tx) error {
		res, err = triedb.NewPrefixSetLoader(tx, trie.Blake3KeyHasher{}).Load(2, 9)
		return err
	}))

	var want bytes.Buffer
	require.NoError(t, printSummary(&want, 2, 9, res))
	require.NoError(t, printPaths(&want, res))
	assert.Equal(t, want.String(), out)
}

func TestLoadAllFromGenesis(t *testing.T) {
	datadir := t.TempDir()
	mustRun(t, "gen", "--datadir", datadir, "--blocks", "5")

	out := mustRun(t, "load", "--datadir", datadir, "--all-from-genesis")
	assert.Equal(t, "true", summaryValue(t, out, "all accounts changed"))
	assert.Equal(t, "0", summaryValue(t, out, "account paths"))

	out = mustRun(t, "load", "--datadir", datadir, "--all-from-genesis", "--from", "1")
	assert.Equal(t, "false", summaryValue(t, out, "all accounts changed"))
}

func TestLoadMetricsOutput(t *testing.T) {
	datadir := t.TempDir()
	mustRun(t, "gen", "--datadir", datadir, "--blocks", "3")
	out := mustRun(t, "load", "--datadir", datadir, "--metrics")
	assert.Contains(t, out, "prefixset_account_changes ")
	assert.Contains(t, out, "prefixset_load_seconds_count ")
}

func TestLoadConfigFile(t *testing.T) {
	datadir := t.TempDir()
	mustRun(t, "gen", "--datadir", datadir, "--db.backend", backendLevelDB, "--blocks", "10")

	yamlPath := filepath.Join(t.TempDir(), "load.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("db.backend: leveldb\nto: 5\n"), 0o600))
	out := mustRun(t, "--config", yamlPath, "load", "--datadir", datadir)
	assert.Equal(t, "0-5", summaryValue(t, out, "blocks"))

	// command line wins
	out = mustRun(t, "--config", yamlPath, "load", "--datadir", datadir, "--to", "7")
	assert.Equal(t, "0-7", summaryValue(t, out, "blocks"))

	tomlPath := filepath.Join(t.TempDir(), "load.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("\"db.backend\" = \"leveldb\"\nfrom = 3\nto = 4\n"), 0o600))
	out = mustRun(t, "--config", tomlPath, "load", "--datadir", datadir)
	assert.Equal(t, "3-4", summaryValue(t, out, "blocks"))
}

func TestErrors(t *testing.T) {
	datadir := t.TempDir()
	tests := []struct {
		name string
		args []string
		err  string
	}{
		{name: "no datadir", args: []string{"gen"}, err: errNoDataDir.Error()},
		{name: "unknown backend", args: []string{"gen", "--datadir", datadir, "--db.backend", "sqlite"}, err: "unknown --db.backend"},
		{name: "bad map size", args: []string{"gen", "--datadir", datadir, "--db.mapsize", "lots"}, err: "parsing --db.mapsize"},
		{name: "unknown hasher", args: []string{"load", "--datadir", datadir, "--hasher", "md5"}, err: "md5"},
		{name: "bad percent", args: []string{"gen", "--datadir", datadir, "--destroyed", "101"}, err: "--destroyed"},
		{name: "no accounts", args: []string{"gen", "--datadir", datadir, "--accounts", "0"}, err: "--accounts"},
		{name: "config extension", args: []string{"--config", "load.json", "load", "--datadir", datadir}, err: "only accepted are .yaml and .toml"},
		{name: "missing leveldb", args: []string{"load", "--datadir", datadir, "--db.backend", backendLevelDB}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, tt.args...)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.err)
		})
	}
}
