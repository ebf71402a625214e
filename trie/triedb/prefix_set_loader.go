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

package triedb

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ledgerwatch/log/v3"

	"github.com/erigontech/prefixsets/common"
	"github.com/erigontech/prefixsets/common/dbg"
	"github.com/erigontech/prefixsets/common/estimate"
	"github.com/erigontech/prefixsets/db/changeset"
	"github.com/erigontech/prefixsets/db/kv"
	"github.com/erigontech/prefixsets/metrics"
	"github.com/erigontech/prefixsets/trie"
)

var (
	mxAccountChanges    = metrics.GetOrCreateCounter("prefixset_account_changes")
	mxStorageChanges    = metrics.GetOrCreateCounter("prefixset_storage_changes")
	mxDestroyedAccounts = metrics.GetOrCreateCounter("prefixset_destroyed_accounts")
	mxLoadSeconds       = metrics.GetOrCreateSummary("prefixset_load_seconds")
)

var defaultWorkers = dbg.EnvInt("PREFIXSET_WORKERS", estimate.AlmostAllCPUs())

const logInterval = 30 * time.Second

var ErrLoaderConsumed = errors.New("prefix set loader already used")

// StoreError - failure of the underlying store while reading a change log or probing the
// hashed accounts. Err is returned verbatim by Unwrap.
type StoreError struct {
	Op    string
	Table string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// PrefixSetLoader - collects trie paths changed in a block range. One-shot: Load can be called only once.
type PrefixSetLoader struct {
	tx        kv.Tx
	hasher    trie.KeyHasher
	workers   int
	logger    log.Logger
	logPrefix string

	consumed atomic.Bool
}

type Option func(*PrefixSetLoader)

// WithWorkers - amount of goroutines hashing keys. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(l *PrefixSetLoader) { l.workers = max(n, 1) }
}

func WithLogger(logger log.Logger) Option {
	return func(l *PrefixSetLoader) { l.logger = logger }
}

func WithLogPrefix(prefix string) Option {
	return func(l *PrefixSetLoader) { l.logPrefix = prefix }
}

// NewPrefixSetLoader - tx is only read, and only from the goroutine calling Load
func NewPrefixSetLoader(tx kv.Tx, hasher trie.KeyHasher, opts ...Option) *PrefixSetLoader {
	l := &PrefixSetLoader{
		tx:        tx,
		hasher:    hasher,
		workers:   defaultWorkers,
		logger:    log.New(),
		logPrefix: "prefixsets",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load - changed paths of account and storage tries for blocks [from, to], and accounts
// touched by account changes which are absent in HashedAccounts.
// Returns nil result on any error.
func (l *PrefixSetLoader) Load(from, to uint64) (*trie.TriePrefixSets, error) {
	if !l.consumed.CompareAndSwap(false, true) {
		return nil, ErrLoaderConsumed
	}
	defer mxLoadSeconds.UpdateDuration(time.Now())

	logEvery := time.NewTicker(logInterval)
	defer logEvery.Stop()

	start := time.Now()
	addrs, accRecords, err := l.readAccountChanges(from, to, logEvery)
	if err != nil {
		return nil, err
	}
	pairs, storRecords, err := l.readStorageChanges(from, to, logEvery)
	if err != nil {
		return nil, err
	}
	mxAccountChanges.AddUint64(accRecords)
	mxStorageChanges.AddUint64(storRecords)
	l.logger.Debug(fmt.Sprintf("[%s] Read change logs", l.logPrefix), "from", from, "to", to,
		"accountRecords", accRecords, "accounts", len(addrs), "storageRecords", storRecords, "slots", len(pairs))

	accDigests := hashAddresses(addrs, l.hasher, l.workers)
	storDigests := hashStorageKeys(pairs, l.hasher, l.workers)
	l.logger.Debug(fmt.Sprintf("[%s] Hashed keys", l.logPrefix), "workers", l.workers, "took", time.Since(start))

	accounts := trie.NewPrefixSetMut()
	storage := map[common.Hash]*trie.PrefixSetMut{}
	for _, d := range accDigests {
		accounts.Insert(trie.UnpackNibbles(d[:]))
	}
	for _, d := range storDigests {
		accounts.Insert(trie.UnpackNibbles(d.account[:]))
		set, ok := storage[d.account]
		if !ok {
			set = trie.NewPrefixSetMut()
			storage[d.account] = set
		}
		set.Insert(trie.UnpackNibbles(d.slot[:]))
	}

	destroyed, err := l.findDestroyed(accDigests)
	if err != nil {
		return nil, err
	}
	mxDestroyedAccounts.AddInt(len(destroyed))

	storageSets := make(map[common.Hash]trie.PrefixSet, len(storage))
	for account, set := range storage {
		storageSets[account] = set.Freeze()
	}
	res := trie.NewTriePrefixSets(accounts.Freeze(), storageSets, destroyed)

	l.logger.Info(fmt.Sprintf("[%s] Loaded prefix sets", l.logPrefix), "from", from, "to", to,
		"accounts", res.AccountPrefixSet().Len(), "storageTries", len(storageSets),
		"destroyed", len(destroyed), "took", time.Since(start))
	return res, nil
}

// readAccountChanges - distinct addresses in first-seen order, and amount of records read
func (l *PrefixSetLoader) readAccountChanges(from, to uint64, logEvery *time.Ticker) ([]common.Address, uint64, error) {
	it, err := changeset.AccountChangesInRange(l.tx, from, to)
	if err != nil {
		return nil, 0, &StoreError{Op: "open", Table: kv.AccountChangeSet, Err: err}
	}
	defer it.Close()

	seen := map[common.Address]struct{}{}
	var addrs []common.Address
	var records uint64
	for it.HasNext() {
		addr, err := it.Next()
		if err != nil {
			return nil, 0, &StoreError{Op: "next", Table: kv.AccountChangeSet, Err: err}
		}
		records++
		if _, ok := seen[addr]; !ok {
			seen[addr] = struct{}{}
			addrs = append(addrs, addr)
		}

		select {
		case <-logEvery.C:
			l.logger.Info(fmt.Sprintf("[%s] Reading account changes", l.logPrefix), "records", records, "accounts", len(addrs))
		default:
		}
	}
	return addrs, records, nil
}

// readStorageChanges - distinct (address, slot) pairs in first-seen order, and amount of records read
func (l *PrefixSetLoader) readStorageChanges(from, to uint64, logEvery *time.Ticker) ([]storageRef, uint64, error) {
	it, err := changeset.StorageChangesInRange(l.tx, from, to)
	if err != nil {
		return nil, 0, &StoreError{Op: "open", Table: kv.StorageChangeSet, Err: err}
	}
	defer it.Close()

	seen := map[storageRef]struct{}{}
	var pairs []storageRef
	var records uint64
	for it.HasNext() {
		addr, slot, err := it.Next()
		if err != nil {
			return nil, 0, &StoreError{Op: "next", Table: kv.StorageChangeSet, Err: err}
		}
		records++
		ref := storageRef{addr: addr, slot: slot}
		if _, ok := seen[ref]; !ok {
			seen[ref] = struct{}{}
			pairs = append(pairs, ref)
		}

		select {
		case <-logEvery.C:
			l.logger.Info(fmt.Sprintf("[%s] Reading storage changes", l.logPrefix), "records", records, "slots", len(pairs))
		default:
		}
	}
	return pairs, records, nil
}

// findDestroyed - digests which have no entry in HashedAccounts
func (l *PrefixSetLoader) findDestroyed(digests []common.Hash) (map[common.Hash]struct{}, error) {
	destroyed := map[common.Hash]struct{}{}
	if len(digests) == 0 {
		return destroyed, nil
	}
	c, err := l.tx.Cursor(kv.HashedAccounts)
	if err != nil {
		return nil, &StoreError{Op: "open", Table: kv.HashedAccounts, Err: err}
	}
	defer c.Close()

	for _, d := range digests {
		k, _, err := c.SeekExact(d[:])
		if err != nil {
			return nil, &StoreError{Op: "seek", Table: kv.HashedAccounts, Err: err}
		}
		if k == nil {
			destroyed[d] = struct{}{}
		}
	}
	l.logger.Debug(fmt.Sprintf("[%s] Checked hashed accounts", l.logPrefix), "accounts", len(digests), "destroyed", len(destroyed))
	return destroyed, nil
}
