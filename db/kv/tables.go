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

package kv

import (
	"sort"
)

// DBSchemaVersion versions list
// 1.0 - initial layout: AccountChangeSet, StorageChangeSet, HashedAccounts
var DBSchemaVersion = struct{ Major, Minor, Patch uint32 }{1, 0, 0}

// Dictionary:
// "Plain State" - state where keys aren't hashed. "CurrentState" - same, but keys are hashed. "PlainState" used for blocks execution. "CurrentState" used mostly for Merkle root calculation.
// "incarnation" - uint64 number - how much times given account was SelfDestruct'ed.

/*
AccountChangeSet
key - blockNum_u64
value - address + account(encoded)

Table is DupSort: one block number holds the pre-images of every account touched in that block.
An empty account value means the account did not exist before the block.
*/
const AccountChangeSet = "AccountChangeSet"

/*
StorageChangeSet
key - blockNum_u64 + address
value - key_hash + value_before

Table is DupSort: one (block, address) pair holds every slot of the account touched in that block.
*/
const StorageChangeSet = "StorageChangeSet"

/*
HashedAccounts
key - keccak(address)
value - account(encoded)

Snapshot of the latest account state, addressed by hashed address.
*/
const HashedAccounts = "HashedAccount"

// SyncStageProgress - key: stage name, value: block number (uint64 big endian)
const SyncStageProgress = "SyncStage"

// ChaindataTables - list of all tables. Order matters: it defines bucket creation order.
var ChaindataTables = []string{
	AccountChangeSet,
	StorageChangeSet,
	HashedAccounts,
	SyncStageProgress,
}

type TableCfg map[string]TableCfgItem
type TableFlags uint

const (
	Default TableFlags = 0x00
	DupSort TableFlags = 0x04
)

type TableCfgItem struct {
	Flags TableFlags
	// DupKeyLen - length of the key part for DupSort tables.
	// Backends without native DupSort support store `k ++ v` as one physical key,
	// and cut it back at this length on retrieval. So keys of such tables must have fixed length.
	DupKeyLen int
}

func (t TableCfgItem) IsDupSort() bool { return t.Flags&DupSort != 0 }

var ChaindataTablesCfg = TableCfg{
	AccountChangeSet: {
		Flags:     DupSort,
		DupKeyLen: 8,
	},
	StorageChangeSet: {
		Flags:     DupSort,
		DupKeyLen: 8 + 20,
	},
	HashedAccounts:    {Flags: Default},
	SyncStageProgress: {Flags: Default},
}

func init() {
	reinit()
}

func reinit() {
	for _, name := range ChaindataTables {
		if _, ok := ChaindataTablesCfg[name]; !ok {
			ChaindataTablesCfg[name] = TableCfgItem{}
		}
	}
}

// Names - sorted list of table names in the config
func (tc TableCfg) Names() []string {
	names := make([]string, 0, len(tc))
	for name := range tc {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
