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
	"errors"
	"fmt"
	"path/filepath"

	"github.com/c2h5oh/datasize"
	"github.com/ledgerwatch/log/v3"
	"github.com/urfave/cli/v2"

	"github.com/erigontech/prefixsets/db/kv"
	"github.com/erigontech/prefixsets/db/kv/bolt"
	"github.com/erigontech/prefixsets/db/kv/ldb"
)

var errNoDataDir = errors.New("--datadir is required")

// openDB - chaindata of the datadir, in the engine chosen by --db.backend
func openDB(cliCtx *cli.Context, logger log.Logger, readonly bool) (kv.RwDB, error) {
	datadir := cliCtx.String(DataDirFlag.Name)
	if datadir == "" {
		return nil, errNoDataDir
	}
	path := filepath.Join(datadir, "chaindata")

	switch backend := cliCtx.String(DBBackendFlag.Name); backend {
	case backendBolt:
		var mapSize datasize.ByteSize
		if err := mapSize.UnmarshalText([]byte(cliCtx.String(DBMapSizeFlag.Name))); err != nil {
			return nil, fmt.Errorf("parsing --%s: %w", DBMapSizeFlag.Name, err)
		}
		opts := bolt.New(logger).Path(path).MapSize(mapSize)
		if readonly {
			opts = opts.Readonly()
		}
		db, err := opts.Open()
		if err != nil {
			return nil, err
		}
		return db, nil
	case backendLevelDB:
		var cache datasize.ByteSize
		if err := cache.UnmarshalText([]byte(cliCtx.String(DBCacheFlag.Name))); err != nil {
			return nil, fmt.Errorf("parsing --%s: %w", DBCacheFlag.Name, err)
		}
		opts := ldb.New(logger).Path(path).BlockCache(cache)
		if readonly {
			opts = opts.Readonly()
		}
		db, err := opts.Open()
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown --%s %q, expected %s or %s", DBBackendFlag.Name, backend, backendBolt, backendLevelDB)
	}
}
