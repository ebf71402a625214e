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

package ldb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/c2h5oh/datasize"
	"github.com/ledgerwatch/log/v3"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/erigontech/prefixsets/db/kv"
)

type TableCfgFunc func(defaultBuckets kv.TableCfg) kv.TableCfg

type LevelOpts struct {
	path        string
	readOnly    bool
	inMem       bool
	writeBuffer datasize.ByteSize
	blockCache  datasize.ByteSize
	tableCfg    TableCfgFunc
	log         log.Logger
}

func New(logger log.Logger) LevelOpts {
	return LevelOpts{
		tableCfg: func(defaultBuckets kv.TableCfg) kv.TableCfg { return defaultBuckets },
		log:      logger,
	}
}

func (opts LevelOpts) Path(path string) LevelOpts {
	opts.path = path
	return opts
}

func (opts LevelOpts) Readonly() LevelOpts {
	opts.readOnly = true
	return opts
}

// InMem - leveldb on top of in-memory storage, path is ignored
func (opts LevelOpts) InMem() LevelOpts {
	opts.inMem = true
	return opts
}

func (opts LevelOpts) WriteBuffer(sz datasize.ByteSize) LevelOpts {
	opts.writeBuffer = sz
	return opts
}

func (opts LevelOpts) BlockCache(sz datasize.ByteSize) LevelOpts {
	opts.blockCache = sz
	return opts
}

func (opts LevelOpts) WithTableCfg(f TableCfgFunc) LevelOpts {
	opts.tableCfg = f
	return opts
}

func (opts LevelOpts) Open() (*LevelKV, error) {
	o := &opt.Options{Filter: filter.NewBloomFilter(10)}
	if opts.readOnly {
		o.ReadOnly = true
		o.ErrorIfMissing = true
	}
	if opts.writeBuffer > 0 {
		o.WriteBuffer = int(opts.writeBuffer.Bytes())
	}
	if opts.blockCache > 0 {
		o.BlockCacheCapacity = int(opts.blockCache.Bytes())
	}

	var db *leveldb.DB
	var err error
	switch {
	case opts.inMem:
		db, err = leveldb.Open(storage.NewMemStorage(), o)
	case opts.path == "":
		return nil, errors.New("ldb: path is required")
	default:
		db, err = leveldb.OpenFile(opts.path, o)
	}
	if err != nil {
		return nil, err
	}
	cfg := make(kv.TableCfg, len(kv.ChaindataTablesCfg))
	for k, v := range kv.ChaindataTablesCfg {
		cfg[k] = v
	}
	cfg = opts.tableCfg(cfg)
	opts.log.Debug("[ldb] opened", "path", opts.path, "inMem", opts.inMem, "readonly", opts.readOnly)
	return &LevelKV{db: db, cfg: cfg, opts: opts}, nil
}

func (opts LevelOpts) MustOpen() *LevelKV {
	db, err := opts.Open()
	if err != nil {
		panic(fmt.Errorf("fail to open ldb: %w", err))
	}
	return db
}

// LevelKV - kv.RwDB on top of goleveldb. Tables share one keyspace: every key is prefixed by `table name + 0x00`.
// Read transactions work on a snapshot, write transaction is a leveldb.Transaction (exclusive).
type LevelKV struct {
	db      *leveldb.DB
	cfg     kv.TableCfg
	opts    LevelOpts
	writeMu sync.Mutex
}

func (db *LevelKV) ReadOnly() bool         { return db.opts.readOnly }
func (db *LevelKV) AllTables() kv.TableCfg { return db.cfg }

func (db *LevelKV) Close() {
	if err := db.db.Close(); err != nil {
		db.opts.log.Warn("[ldb] close", "err", err)
	}
}

func (db *LevelKV) BeginRo(ctx context.Context) (kv.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := db.db.GetSnapshot()
	if err != nil {
		return nil, err
	}
	return kv.NewTableTx(&levelTx{r: snap, snap: snap}, db.cfg), nil
}

func (db *LevelKV) BeginRw(ctx context.Context) (kv.RwTx, error) {
	if db.opts.readOnly {
		return nil, kv.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db.writeMu.Lock()
	tr, err := db.db.OpenTransaction()
	if err != nil {
		db.writeMu.Unlock()
		return nil, err
	}
	return kv.NewTableTx(&levelTx{r: tr, tr: tr, writeMu: &db.writeMu}, db.cfg), nil
}

func (db *LevelKV) View(ctx context.Context, f func(tx kv.Tx) error) error {
	tx, err := db.BeginRo(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return f(tx)
}

func (db *LevelKV) Update(ctx context.Context, f func(tx kv.RwTx) error) error {
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

type reader interface {
	Get(key []byte, ro *opt.ReadOptions) ([]byte, error)
	NewIterator(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator
}

type levelTx struct {
	r       reader
	snap    *leveldb.Snapshot
	tr      *leveldb.Transaction
	writeMu *sync.Mutex
	done    bool
}

func tableKey(table string, key []byte) []byte {
	k := make([]byte, 0, len(table)+1+len(key))
	k = append(k, table...)
	k = append(k, 0)
	return append(k, key...)
}

func (tx *levelTx) RawGet(table string, key []byte) ([]byte, error) {
	v, err := tx.r.Get(tableKey(table, key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	if v == nil && err == nil {
		v = []byte{}
	}
	return v, err
}

func (tx *levelTx) RawPut(table string, key, value []byte) error {
	if tx.tr == nil {
		return kv.ErrReadOnly
	}
	return tx.tr.Put(tableKey(table, key), value, nil)
}

func (tx *levelTx) RawDelete(table string, key []byte) error {
	if tx.tr == nil {
		return kv.ErrReadOnly
	}
	return tx.tr.Delete(tableKey(table, key), nil)
}

func (tx *levelTx) RawClearTable(table string) error {
	if tx.tr == nil {
		return kv.ErrReadOnly
	}
	it := tx.tr.NewIterator(util.BytesPrefix(tableKey(table, nil)), nil)
	var keys [][]byte
	for it.Next() {
		keys = append(keys, bytes.Clone(it.Key()))
	}
	it.Release()
	if err := it.Error(); err != nil {
		return err
	}
	for _, k := range keys {
		if err := tx.tr.Delete(k, nil); err != nil {
			return err
		}
	}
	return nil
}

func (tx *levelTx) RawCursor(table string) (kv.RawCursor, error) {
	prefix := tableKey(table, nil)
	return &levelCursor{it: tx.r.NewIterator(util.BytesPrefix(prefix), nil), prefix: prefix}, nil
}

func (tx *levelTx) ViewID() uint64 { return 0 }

func (tx *levelTx) Commit() error {
	if tx.done {
		return nil
	}
	tx.done = true
	if tx.tr == nil {
		tx.snap.Release()
		return nil
	}
	defer tx.writeMu.Unlock()
	return tx.tr.Commit()
}

func (tx *levelTx) Rollback() {
	if tx.done {
		return
	}
	tx.done = true
	if tx.tr == nil {
		tx.snap.Release()
		return
	}
	tx.tr.Discard()
	tx.writeMu.Unlock()
}

// levelCursor - iterator over 1 table, strips table prefix. Keys and values are copied:
// iterator reuses its buffers.
type levelCursor struct {
	it     iterator.Iterator
	prefix []byte
}

func (c *levelCursor) at(ok bool) ([]byte, []byte, error) {
	if !ok {
		return nil, nil, c.it.Error()
	}
	k := bytes.Clone(c.it.Key()[len(c.prefix):])
	v := append([]byte{}, c.it.Value()...)
	return k, v, nil
}

func (c *levelCursor) First() ([]byte, []byte, error) { return c.at(c.it.First()) }
func (c *levelCursor) Last() ([]byte, []byte, error)  { return c.at(c.it.Last()) }
func (c *levelCursor) Next() ([]byte, []byte, error)  { return c.at(c.it.Next()) }
func (c *levelCursor) Prev() ([]byte, []byte, error)  { return c.at(c.it.Prev()) }
func (c *levelCursor) Close()                         { c.it.Release() }

func (c *levelCursor) Seek(seek []byte) ([]byte, []byte, error) {
	k := make([]byte, 0, len(c.prefix)+len(seek))
	k = append(append(k, c.prefix...), seek...)
	return c.at(c.it.Seek(k))
}
