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
	"context"
	"errors"

	"github.com/erigontech/prefixsets/db/kv/stream"
)

//Variables Naming:
//  tx - Database Transaction
//  txn - Ethereum Transaction (and TxNum - is also number of Ethereum Transaction)
//  RoTx - Read-Only Database Transaction
//  RwTx - Read-Write Database Transaction
//  k - key
//  v - value

//Methods Naming:
//  Get: exact match of criterias
//  Range: [from, to)
//  Each: [from, INF)
//  Prefix: Has(k, prefix)
//  Amount: [from, INF) AND maximum N records

//Entity Naming:
//  State: simple table in db
//  ChangeSet: used for unwinds and for building prefix sets - stores previous value
//  HashedState: latest state addressed by hashed keys

var (
	ErrUnknownTable = errors.New("unknown table")
	ErrNotDupSort   = errors.New("table is not DupSort")
	ErrDupKeyLen    = errors.New("key length doesn't match DupSort table configuration")
	ErrReadOnly     = errors.New("db opened in read-only mode")
)

/*
RoDB - Read-only version of KV.
Example:

	tx, err := db.BeginRo(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback() // it's safe to Rollback after `tx.Commit()`

	... application logic using `tx`
*/
type RoDB interface {
	Closer
	BeginRo(ctx context.Context) (Tx, error)

	// View like BeginRo but for short-living transactions. Example:
	//	 if err := db.View(ctx, func(tx kv.Tx) error {
	//	    ... code which uses database in transaction
	//	 }); err != nil {
	//			return err
	//	}
	View(ctx context.Context, f func(tx Tx) error) error

	ReadOnly() bool
	AllTables() TableCfg
}

type RwDB interface {
	RoDB

	Update(ctx context.Context, f func(tx RwTx) error) error

	// BeginRw - creates transaction. Only one write transaction may be open at a time,
	// BeginRw blocks until the previous one is committed or rolled back.
	BeginRw(ctx context.Context) (RwTx, error)
}

// Tx
// WARNING:
//   - Tx is not threadsafe and may only be used in the goroutine that created it
//   - Keys and values returned by Tx and its cursors are valid only until the end of transaction
type Tx interface {
	Getter

	// Cursor - creates cursor object on top of given table.
	// If table was created with DupSort flag, then cursor navigates over (key, value) pairs,
	// use CursorDupSort to get access to dup-aware navigation.
	Cursor(table string) (Cursor, error)
	CursorDupSort(table string) (CursorDupSort, error) // CursorDupSort - can be used if bucket has DupSort flag

	// Prefix - all pairs of table which key has given prefix, in ascending order
	Prefix(table string, prefix []byte) (stream.KV, error)

	Count(table string) (uint64, error)
	ListTables() ([]string, error)

	// ViewID returns the identifier associated with this transaction.
	ViewID() uint64
}

// RwTx
//
// WARNING:
//   - RwTx is not threadsafe and may only be used in the goroutine that created it.
//   - Cursors opened before a write must not be used after it
type RwTx interface {
	Tx
	Putter

	ClearTable(table string) error
	Commit() error // Commit all the operations of a transaction into the database.
}

/*
Cursor - low-level api to navigate through a db table
If methods (like First/Next/Seek) return error, then returned key SHOULD not be nil (can be []byte{} for example).
Example iterate table:

	c := db.Cursor(tableName)
	defer c.Close()
	for k, v, err := c.First(); k != nil; k, v, err = c.Next() {
	   if err != nil {
		   return err
	   }
	   ... logic using `k` and `v` (key and value)
	}
*/
type Cursor interface {
	First() ([]byte, []byte, error)               // First - position at first key/data item
	Seek(seek []byte) ([]byte, []byte, error)     // Seek - position at first key greater than or equal to specified key
	SeekExact(key []byte) ([]byte, []byte, error) // SeekExact - position at exact matching key if exists
	Next() ([]byte, []byte, error)                // Next - position at next key/value (can iterate over DupSort key/values automatically)
	Prev() ([]byte, []byte, error)                // Prev - position at previous key
	Last() ([]byte, []byte, error)                // Last - position at last key and last possible value
	Current() ([]byte, []byte, error)             // Current - return key/data at current cursor position

	Close()
}

/*
CursorDupSort
Example iterate over DupSort table:

	for k, v, err = cursor.First(); k != nil; k, v, err = cursor.NextNoDup() {
		if err != nil {
			return err
		}
		// iterate over all values of key `k`
		for ; v != nil; _, v, err = cursor.NextDup() {
			if err != nil {
				return err
			}
			// use
		}
	}
*/
type CursorDupSort interface {
	Cursor

	// SeekBothExact -
	// second parameter can be nil only if searched key has no duplicates, or return error
	SeekBothExact(key, value []byte) ([]byte, []byte, error)
	SeekBothRange(key, value []byte) ([]byte, error) // SeekBothRange - exact match of the key, but range match of the value
	FirstDup() ([]byte, error)                       // FirstDup - position at first data item of current key
	NextDup() ([]byte, []byte, error)                // NextDup - position at next data item of current key
	NextNoDup() ([]byte, []byte, error)              // NextNoDup - position at first data item of next key
	LastDup() ([]byte, error)                        // LastDup - position at last data item of current key

	CountDuplicates() (uint64, error) // CountDuplicates - number of duplicates for the current key
}

type Getter interface {
	// Has indicates whether a key exists in the database.
	Has(table string, key []byte) (bool, error)

	// GetOne references a readonly section of memory that must not be accessed after txn has terminated
	// For DupSort tables returns the smallest value of the key.
	GetOne(table string, key []byte) (val []byte, err error)

	Rollback() // Rollback - abandon all the operations of the transaction instead of saving them.

	// ForEach iterates over entries with keys greater or equal to fromPrefix.
	// walker is called for each eligible entry.
	// If walker returns an error - stop.
	ForEach(table string, fromPrefix []byte, walker func(k, v []byte) error) error
}

// Putter wraps the database write operations.
type Putter interface {
	// Put inserts or updates a single entry.
	// For DupSort tables adds one more value to the key.
	Put(table string, k, v []byte) error

	// Delete removes a single entry.
	// For DupSort tables removes all values of the key.
	Delete(table string, k []byte) error
}

type Closer interface {
	Close()
}
