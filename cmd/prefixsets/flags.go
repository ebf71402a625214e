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
	"github.com/c2h5oh/datasize"
	"github.com/urfave/cli/v2"

	"github.com/erigontech/prefixsets/common/dbg"
	"github.com/erigontech/prefixsets/trie"
)

const (
	backendBolt    = "bolt"
	backendLevelDB = "leveldb"
)

var (
	ConfigFlag = cli.StringFlag{
		Name:  "config",
		Usage: "Sets flags from a .toml or .yaml file, flags given on the command line win",
	}
	DataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory for the database and logs",
		Value: dbg.EnvString("PREFIXSET_DATADIR", ""),
	}
	DBBackendFlag = cli.StringFlag{
		Name:  "db.backend",
		Usage: "Storage engine of the datadir: " + backendBolt + " or " + backendLevelDB,
		Value: backendBolt,
	}
	DBMapSizeFlag = cli.StringFlag{
		Name:  "db.mapsize",
		Usage: "Initial mmap size of the " + backendBolt + " database",
		Value: dbg.EnvDataSize("PREFIXSET_DB_MAPSIZE", 64*datasize.MB).String(),
	}
	DBCacheFlag = cli.StringFlag{
		Name:  "db.cache",
		Usage: "Block cache of the " + backendLevelDB + " database",
		Value: dbg.EnvDataSize("PREFIXSET_DB_CACHE", 32*datasize.MB).String(),
	}
	HasherFlag = cli.StringFlag{
		Name:  "hasher",
		Usage: "Hash function of trie keys: " + trie.KeccakHasherName + " or " + trie.Blake3HasherName,
		Value: trie.KeccakHasherName,
	}

	FromFlag = cli.Uint64Flag{
		Name:  "from",
		Usage: "First block of the range",
	}
	ToFlag = cli.Uint64Flag{
		Name:  "to",
		Usage: "Last block of the range, defaults to progress of the Execution stage",
	}
	WorkersFlag = cli.IntFlag{
		Name:  "workers",
		Usage: "Amount of goroutines hashing keys, 0 means PREFIXSET_WORKERS env or all CPUs but one",
	}
	DumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "Print every changed path",
	}
	AllFromGenesisFlag = cli.BoolFlag{
		Name:  "all-from-genesis",
		Usage: "When --from is 0 mark the whole account trie as changed",
	}
	MetricsFlag = cli.BoolFlag{
		Name:  "metrics",
		Usage: "Print collected metrics on exit",
	}

	BlocksFlag = cli.Uint64Flag{
		Name:  "blocks",
		Usage: "Amount of blocks to generate",
		Value: 100,
	}
	AccountsFlag = cli.IntFlag{
		Name:  "accounts",
		Usage: "Amount of distinct accounts touched by generated blocks",
		Value: 1000,
	}
	AccountChangesFlag = cli.IntFlag{
		Name:  "block.accounts",
		Usage: "Account changes per generated block",
		Value: 20,
	}
	StorageChangesFlag = cli.IntFlag{
		Name:  "block.storage",
		Usage: "Storage changes per generated block",
		Value: 20,
	}
	DestroyedFlag = cli.IntFlag{
		Name:  "destroyed",
		Usage: "Percent of accounts missing from HashedAccounts",
		Value: 10,
	}
	SeedFlag = cli.Int64Flag{
		Name:  "seed",
		Usage: "Seed of the generator",
		Value: 1,
	}
)

var dbFlags = []cli.Flag{
	&DataDirFlag,
	&DBBackendFlag,
	&DBMapSizeFlag,
	&DBCacheFlag,
	&HasherFlag,
}
