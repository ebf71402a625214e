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

package memdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ledgerwatch/log/v3"
	"github.com/tidwall/btree"

	"github.com/erigontech/prefixsets/db/kv"
)

var ErrClosed = errors.New("memdb: database closed")

type item struct {
	k, v []byte
}

func less(a, b item) bool { return bytes.Compare(a.k, b.k) < 0 }

func newTable() *btree.BTreeG[item] {
	return btree.NewBTreeGOptions(less, btree.Options{NoLocks: true})
}

// MemoryDB - kv.RwDB on top of copy-on-write b-trees.
// Every transaction works with its own isolated copy of tables: readers see the state of the latest commit
// at the moment of BeginRo, the single writer publishes its copy at Commit.
type MemoryDB struct {
	mu      sync.RWMutex // guards tables and viewID
	writeMu sync.Mutex   // single writer
	tables  map[string]*btree.BTreeG[item]
	viewID  uint64
	cfg     kv.TableCfg
	closed  atomic.Bool
	log     log.Logger
}

func New(logger log.Logger) *MemoryDB {
	return NewWithTables(logger, kv.ChaindataTablesCfg)
}

func NewWithTables(logger log.Logger, cfg kv.TableCfg) *MemoryDB {
	db := &MemoryDB{tables: make(map[string]*btree.BTreeG[item], len(cfg)), cfg: cfg, log: logger}
	for name := range cfg {
		db.tables[name] = newTable()
	}
	return db
}

func (db *MemoryDB) ReadOnly() bool         { return false }
func (db *MemoryDB) AllTables() kv.TableCfg { return db.cfg }

func (db *MemoryDB) Close() {
	if db.closed.CompareAndSwap(false, true) {
		db.log.Trace("[memdb] closed")
	}
}

func (db *MemoryDB) BeginRo(ctx context.Context) (kv.Tx, error) {
	if err := db.check(ctx); err != nil {
		return nil, err
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	tables := make(map[string]*btree.BTreeG[item], len(db.tables))
	for name, t := range db.tables {
		tables[name] = t
	}
	return kv.NewTableTx(&memTx{db: db, tables: tables, viewID: db.viewID}, db.cfg), nil
}

func (db *MemoryDB) BeginRw(ctx context.Context) (kv.RwTx, error) {
	if err := db.check(ctx); err != nil {
		return nil, err
	}
	db.writeMu.Lock()
	db.mu.RLock()
	defer db.mu.RUnlock()
	tables := make(map[string]*btree.BTreeG[item], len(db.tables))
	for name, t := range db.tables {
		tables[name] = t.Copy()
	}
	return kv.NewTableTx(&memTx{db: db, tables: tables, viewID: db.viewID + 1, rw: true}, db.cfg), nil
}

func (db *MemoryDB) check(ctx context.Context) error {
	if db.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

func (db *MemoryDB) View(ctx context.Context, f func(tx kv.Tx) error) error {
	tx, err := db.BeginRo(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return f(tx)
}

func (db *MemoryDB) Update(ctx context.Context, f func(tx kv.RwTx) error) error {
	tx, err := db.BeginRw(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := f(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type memTx struct {
	db     *MemoryDB
	tables map[string]*btree.BTreeG[item]
	viewID uint64
	rw     bool
	done   bool
}

func (tx *memTx) table(name string) (*btree.BTreeG[item], error) {
	if tx.done {
		return nil, fmt.Errorf("memdb: tx %d already finished", tx.viewID)
	}
	t, ok := tx.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", kv.ErrUnknownTable, name)
	}
	return t, nil
}

func (tx *memTx) RawGet(table string, key []byte) ([]byte, error) {
	t, err := tx.table(table)
	if err != nil {
		return nil, err
	}
	it, ok := t.Get(item{k: key})
	if !ok {
		return nil, nil
	}
	return it.v, nil
}

func (tx *memTx) RawPut(table string, key, value []byte) error {
	if !tx.rw {
		return kv.ErrReadOnly
	}
	t, err := tx.table(table)
	if err != nil {
		return err
	}
	t.Set(item{k: bytes.Clone(key), v: append([]byte{}, value...)})
	return nil
}

func (tx *memTx) RawDelete(table string, key []byte) error {
	if !tx.rw {
		return kv.ErrReadOnly
	}
	t, err := tx.table(table)
	if err != nil {
		return err
	}
	t.Delete(item{k: key})
	return nil
}

func (tx *memTx) RawClearTable(table string) error {
	if !tx.rw {
		return kv.ErrReadOnly
	}
	if _, err := tx.table(table); err != nil {
		return err
	}
	tx.tables[table] = newTable()
	return nil
}

func (tx *memTx) RawCursor(table string) (kv.RawCursor, error) {
	t, err := tx.table(table)
	if err != nil {
		return nil, err
	}
	return &memCursor{iter: t.Iter()}, nil
}

func (tx *memTx) ViewID() uint64 { return tx.viewID }

func (tx *memTx) Commit() error {
	if tx.done {
		return nil
	}
	tx.done = true
	if !tx.rw {
		return nil
	}
	tx.db.mu.Lock()
	tx.db.tables = tx.tables
	tx.db.viewID = tx.viewID
	tx.db.mu.Unlock()
	tx.db.writeMu.Unlock()
	return nil
}

func (tx *memTx) Rollback() {
	if tx.done {
		return
	}
	tx.done = true
	if tx.rw {
		tx.db.writeMu.Unlock()
	}
}

type memCursor struct {
	iter btree.IterG[item]
}

func (c *memCursor) at(ok bool) ([]byte, []byte, error) {
	if !ok {
		return nil, nil, nil
	}
	it := c.iter.Item()
	return it.k, it.v, nil
}

func (c *memCursor) First() ([]byte, []byte, error)           { return c.at(c.iter.First()) }
func (c *memCursor) Last() ([]byte, []byte, error)            { return c.at(c.iter.Last()) }
func (c *memCursor) Seek(seek []byte) ([]byte, []byte, error) { return c.at(c.iter.Seek(item{k: seek})) }
func (c *memCursor) Next() ([]byte, []byte, error)            { return c.at(c.iter.Next()) }
func (c *memCursor) Prev() ([]byte, []byte, error)            { return c.at(c.iter.Prev()) }
func (c *memCursor) Close()                                   { c.iter.Release() }
