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
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/erigontech/prefixsets/common"
	"github.com/erigontech/prefixsets/db/kv"
	"github.com/erigontech/prefixsets/eth/stagedsync/stages"
	"github.com/erigontech/prefixsets/metrics"
	"github.com/erigontech/prefixsets/trie"
	"github.com/erigontech/prefixsets/trie/triedb"
)

var loadCommand = cli.Command{
	Name:   "load",
	Usage:  "Print trie paths changed in blocks [--from, --to] of --datadir",
	Flags:  withDBFlags(&FromFlag, &ToFlag, &WorkersFlag, &DumpFlag, &AllFromGenesisFlag, &MetricsFlag),
	Action: runLoad,
}

func runLoad(cliCtx *cli.Context) error {
	logger, err := setup(cliCtx, "load")
	if err != nil {
		return err
	}
	hasher, err := trie.KeyHasherByName(cliCtx.String(HasherFlag.Name))
	if err != nil {
		return err
	}
	db, err := openDB(cliCtx, logger, true)
	if err != nil {
		return err
	}
	defer db.Close()

	w := cliCtx.App.Writer
	if err := db.View(cliCtx.Context, func(tx kv.Tx) error {
		from, to := cliCtx.Uint64(FromFlag.Name), cliCtx.Uint64(ToFlag.Name)
		if !cliCtx.IsSet(ToFlag.Name) {
			progress, err := stages.GetStageProgress(tx, stages.Execution)
			if err != nil {
				return err
			}
			to = progress
		}

		opts := []triedb.Option{triedb.WithLogger(logger), triedb.WithLogPrefix("load")}
		if workers := cliCtx.Int(WorkersFlag.Name); workers > 0 {
			opts = append(opts, triedb.WithWorkers(workers))
		}
		res, err := triedb.NewPrefixSetLoader(tx, hasher, opts...).Load(from, to)
		if err != nil {
			return err
		}
		if cliCtx.Bool(AllFromGenesisFlag.Name) {
			if from == 0 {
				res = allAccountsChanged(res)
			} else {
				logger.Warn("[load] --all-from-genesis ignored", "from", from)
			}
		}

		if err := printSummary(w, from, to, res); err != nil {
			return err
		}
		if cliCtx.Bool(DumpFlag.Name) {
			return printPaths(w, res)
		}
		return nil
	}); err != nil {
		return err
	}

	if cliCtx.Bool(MetricsFlag.Name) {
		return printMetrics(w)
	}
	return nil
}

// allAccountsChanged - same storage and destroyed sets, every account path is changed
func allAccountsChanged(res *trie.TriePrefixSets) *trie.TriePrefixSets {
	destroyed := map[common.Hash]struct{}{}
	for _, account := range res.DestroyedAccounts() {
		destroyed[account] = struct{}{}
	}
	return trie.NewTriePrefixSets(trie.NewPrefixSetMutAll().Freeze(), res.StoragePrefixSets(), destroyed)
}

func printSummary(w io.Writer, from, to uint64, res *trie.TriePrefixSets) error {
	accountSet := res.AccountPrefixSet()
	storagePaths := 0
	for _, set := range res.StoragePrefixSets() {
		storagePaths += set.Len()
	}
	_, err := fmt.Fprintf(w, "blocks: %d-%d\naccount paths: %d\nall accounts changed: %t\nstorage tries: %d\nstorage paths: %d\ndestroyed accounts: %d\n",
		from, to, accountSet.Len(), accountSet.AllChanged(), len(res.StorageAccounts()), storagePaths, len(res.DestroyedAccounts()))
	return err
}

func printPaths(w io.Writer, res *trie.TriePrefixSets) error {
	for _, path := range res.AccountPrefixSet().Keys() {
		if _, err := fmt.Fprintf(w, "account %s\n", path); err != nil {
			return err
		}
	}
	for _, account := range res.StorageAccounts() {
		set, _ := res.StoragePrefixSet(account)
		for _, path := range set.Keys() {
			if _, err := fmt.Fprintf(w, "storage %s %s\n", account.Hex(), path); err != nil {
				return err
			}
		}
	}
	for _, account := range res.DestroyedAccounts() {
		if _, err := fmt.Fprintf(w, "destroyed %s\n", account.Hex()); err != nil {
			return err
		}
	}
	return nil
}

func printMetrics(w io.Writer) error {
	families, err := metrics.Gather()
	if err != nil {
		return err
	}
	var lines []string
	for _, family := range families {
		for _, m := range family.GetMetric() {
			name := family.GetName()
			if labels := m.GetLabel(); len(labels) > 0 {
				pairs := make([]string, len(labels))
				for i, l := range labels {
					pairs[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
				}
				name += "{" + strings.Join(pairs, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s %v", name, m.GetCounter().GetValue()))
			case m.GetSummary() != nil:
				lines = append(lines,
					fmt.Sprintf("%s_count %d", name, m.GetSummary().GetSampleCount()),
					fmt.Sprintf("%s_sum %v", name, m.GetSummary().GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)
	_, err = fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}
