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
	"math/rand"
	"slices"
	"time"

	"github.com/holiman/uint256"
	"github.com/ledgerwatch/log/v3"
	"github.com/urfave/cli/v2"

	"github.com/erigontech/prefixsets/common"
	"github.com/erigontech/prefixsets/common/length"
	"github.com/erigontech/prefixsets/core/types/accounts"
	"github.com/erigontech/prefixsets/db/changeset"
	"github.com/erigontech/prefixsets/db/kv"
	"github.com/erigontech/prefixsets/db/kv/stream"
	"github.com/erigontech/prefixsets/eth/stagedsync/stages"
	"github.com/erigontech/prefixsets/trie"
)

const logInterval = 30 * time.Second

var genCommand = cli.Command{
	Name:   "gen",
	Usage:  "Write random account and storage change logs, hashed accounts and stage progress into --datadir",
	Flags:  withDBFlags(&BlocksFlag, &AccountsFlag, &AccountChangesFlag, &StorageChangesFlag, &DestroyedFlag, &SeedFlag),
	Action: runGen,
}

func withDBFlags(flags ...cli.Flag) []cli.Flag {
	return append(slices.Clone(dbFlags), flags...)
}

type genConfig struct {
	blocks         uint64
	accounts       int
	accountChanges int
	storageChanges int
	destroyed      int // percent
	seed           int64
}

func (cfg genConfig) validate() error {
	if cfg.accounts <= 0 {
		return errors.New("--accounts must be positive")
	}
	if cfg.accountChanges < 0 || cfg.storageChanges < 0 {
		return errors.New("changes per block can't be negative")
	}
	if cfg.destroyed < 0 || cfg.destroyed > 100 {
		return fmt.Errorf("--destroyed is a percent, got %d", cfg.destroyed)
	}
	return nil
}

type genStats struct {
	accountChanges int
	storageChanges int
	hashedAccounts int
	destroyed      int
}

func runGen(cliCtx *cli.Context) error {
	logger, err := setup(cliCtx, "gen")
	if err != nil {
		return err
	}
	hasher, err := trie.KeyHasherByName(cliCtx.String(HasherFlag.Name))
	if err != nil {
		return err
	}
	cfg := genConfig{
		blocks:         cliCtx.Uint64(BlocksFlag.Name),
		accounts:       cliCtx.Int(AccountsFlag.Name),
		accountChanges: cliCtx.Int(AccountChangesFlag.Name),
		storageChanges: cliCtx.Int(StorageChangesFlag.Name),
		destroyed:      cliCtx.Int(DestroyedFlag.Name),
		seed:           cliCtx.Int64(SeedFlag.Name),
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	db, err := openDB(cliCtx, logger, false)
	if err != nil {
		return err
	}
	defer db.Close()

	start := time.Now()
	var stats genStats
	if err := db.Update(cliCtx.Context, func(tx kv.RwTx) error {
		stats, err = generate(tx, hasher, cfg, logger)
		return err
	}); err != nil {
		return err
	}
	logger.Info("[gen] Done", "blocks", cfg.blocks, "took", time.Since(start))
	_, err = fmt.Fprintf(cliCtx.App.Writer, "blocks: %d\naccount changes: %d\nstorage changes: %d\nhashed accounts: %d\ndestroyed accounts: %d\n",
		cfg.blocks, stats.accountChanges, stats.storageChanges, stats.hashedAccounts, stats.destroyed)
	return err
}

// generate - blocks [1, cfg.blocks] of random changes over cfg.accounts addresses
func generate(tx kv.RwTx, hasher trie.KeyHasher, cfg genConfig, logger log.Logger) (genStats, error) {
	var stats genStats
	rnd := rand.New(rand.NewSource(cfg.seed))
	addrs := make([]common.Address, cfg.accounts)
	for i := range addrs {
		rnd.Read(addrs[i][:])
	}

	logEvery := time.NewTicker(logInterval)
	defer logEvery.Stop()

	blocks := stream.Range[uint64](1, cfg.blocks+1)
	defer blocks.Close()
	for blocks.HasNext() {
		block, err := blocks.Next()
		if err != nil {
			return stats, err
		}
		accountChanges := changeset.NewAccountChangeSet()
		touched := map[common.Address]struct{}{}
		for i := 0; i < cfg.accountChanges; i++ {
			addr := addrs[rnd.Intn(len(addrs))]
			if _, ok := touched[addr]; ok {
				continue
			}
			touched[addr] = struct{}{}
			acc := randomAccount(rnd)
			if err := accountChanges.Add(addr[:], accounts.SerialiseV3(&acc)); err != nil {
				return stats, err
			}
		}
		if err := changeset.WriteAccountChanges(tx, block, accountChanges); err != nil {
			return stats, err
		}
		stats.accountChanges += accountChanges.Len()

		storageChanges := changeset.NewStorageChangeSet()
		written := map[[length.Addr + length.Hash]byte]struct{}{}
		for i := 0; i < cfg.storageChanges; i++ {
			var key [length.Addr + length.Hash]byte
			addr := addrs[rnd.Intn(len(addrs))]
			copy(key[:], addr[:])
			// few distinct slots per account, so that blocks touch the same slots
			key[len(key)-1] = byte(rnd.Intn(16))
			if _, ok := written[key]; ok {
				continue
			}
			written[key] = struct{}{}
			value := uint256.NewInt(rnd.Uint64()).Bytes()
			if err := storageChanges.Add(key[:], value); err != nil {
				return stats, err
			}
		}
		if err := changeset.WriteStorageChanges(tx, block, storageChanges); err != nil {
			return stats, err
		}
		stats.storageChanges += storageChanges.Len()

		select {
		case <-logEvery.C:
			logger.Info("[gen] Writing change logs", "block", block, "of", cfg.blocks)
		default:
		}
	}

	for _, addr := range addrs {
		if rnd.Intn(100) < cfg.destroyed {
			stats.destroyed++
			continue
		}
		digest := hasher.HashKey(addr[:])
		acc := randomAccount(rnd)
		if err := tx.Put(kv.HashedAccounts, digest[:], accounts.SerialiseV3(&acc)); err != nil {
			return stats, err
		}
	}
	it, err := tx.Prefix(kv.HashedAccounts, nil)
	if err != nil {
		return stats, err
	}
	if stats.hashedAccounts, err = stream.CountDuo[[]byte, []byte](it); err != nil {
		return stats, err
	}

	for _, stage := range []stages.SyncStage{stages.Execution, stages.HashState} {
		if err := stages.SaveStageProgress(tx, stage, cfg.blocks); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func randomAccount(rnd *rand.Rand) accounts.Account {
	acc := accounts.NewAccount()
	acc.Nonce = uint64(rnd.Intn(1000))
	acc.Balance.SetUint64(rnd.Uint64())
	if rnd.Intn(4) == 0 {
		rnd.Read(acc.CodeHash[:])
		acc.Incarnation = 1
	}
	return acc
}
