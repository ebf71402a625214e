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

package bolt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/ledgerwatch/log/v3"
	"go.etcd.io/bbolt"

	"github.com/erigontech/prefixsets/db/kv"
)

const fileName = "chaindata.bolt"

type TableCfgFunc func(defaultBuckets kv.TableCfg) kv.TableCfg

func WithChaindataTables(defaultBuckets kv.TableCfg) kv.TableCfg {
	return defaultBuckets
}

type BoltOpts struct {
	path     string
	readOnly bool
	mapSize  datasize.ByteSize
	timeout  time.Duration
	tableCfg TableCfgFunc
	log      log.Logger
}

func New(logger log.Logger) BoltOpts {
	return BoltOpts{
		tableCfg: WithChaindataTables,
		timeout:  time.Second,
		log:      logger,
	}
}

// Path - directory of the database, file name is fixed
func (opts BoltOpts) Path(path string) BoltOpts {
	opts.path = path
	return opts
}

func (opts BoltOpts) Readonly() BoltOpts {
	opts.readOnly = true
	return opts
}

func (opts BoltOpts) MapSize(sz datasize.ByteSize) BoltOpts {
	opts.mapSize = sz
	return opts
}

// Timeout - how long Open waits for the file lock held by another process
func (opts BoltOpts) Timeout(d time.Duration) BoltOpts {
	opts.timeout = d
	return opts
}

func (opts BoltOpts) WithTableCfg(f TableCfgFunc) BoltOpts {
	opts.tableCfg = f
	return opts
}

func (opts BoltOpts) Open() (*BoltKV, error) {
	if opts.path == "" {
		return nil, errors.New("bolt: path is required")
	}
	if !opts.readOnly {
		if err := os.MkdirAll(opts.path, 0o755); err != nil {
			return nil, fmt.Errorf("could not create dir for BoltDB: %w", err)
		}
	}
	cfg := opts.tableCfg(copyCfg(kv.ChaindataTablesCfg))
	db, err := bbolt.Open(filepath.Join(opts.path, fileName), 0o600, &bbolt.Options{
		Timeout:         opts.timeout,
		ReadOnly:        opts.readOnly,
		InitialMmapSize: int(opts.mapSize.Bytes()),
	})
	if err != nil {
		return nil, err
	}
	if !opts.readOnly {
		if err := db.Update(func(tx *bbolt.Tx) error {
			for _, name := range cfg.Names() {
				if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
					return fmt.Errorf("could not create bucket %s: %w", name, err)
				}
			}
			return nil
		}); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	opts.log.Debug("[bolt] opened", "path", opts.path, "readonly", opts.readOnly, "tables", len(cfg))
	return &BoltKV{db: db, cfg: cfg, opts: opts}, nil
}

func (opts BoltOpts) MustOpen() *BoltKV {
	db, err := opts.Open()
	if err != nil {
		panic(fmt.Errorf("fail to open bolt: %w", err))
	}
	return db
}

func copyCfg(in kv.TableCfg) kv.TableCfg {
	out := make(kv.TableCfg, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// BoltKV - kv.RwDB on top of bbolt. Every table is a bucket.
type BoltKV struct {
	db   *bbolt.DB
	cfg  kv.TableCfg
	opts BoltOpts
}

func (db *BoltKV) ReadOnly() bool         { return db.opts.readOnly }
func (db *BoltKV) AllTables() kv.TableCfg { return db.cfg }

func (db *BoltKV) Close() {
	if err := db.db.Close(); err != nil {
		db.opts.log.Warn("[bolt] close", "err", err)
	}
}

func (db *BoltKV) BeginRo(ctx context.Context) (kv.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx, err := db.db.Begin(false)
	if err != nil {
		return nil, err
	}
	return kv.NewTableTx(&boltTx{tx: tx}, db.cfg), nil
}

func (db *BoltKV) BeginRw(ctx context.Context) (kv.RwTx, error) {
	if db.opts.readOnly {
		return nil, kv.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx, err := db.db.Begin(true)
	if err != nil {
		return nil, err
	}
	return kv.NewTableTx(&boltTx{tx: tx}, db.cfg), nil
}

func (db *BoltKV) View(ctx context.Context, f func(tx kv.Tx) error) error {
	tx, err := db.BeginRo(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return f(tx)
}

func (db *BoltKV) Update(ctx context.Context, f func(tx kv.RwTx) error) error {
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

type boltTx struct {
	tx *bbolt.Tx
}

func (tx *boltTx) bucket(table string) *bbolt.Bucket { return tx.tx.Bucket([]byte(table)) }

func mapErr(err error) error {
	if errors.Is(err, bbolt.ErrTxNotWritable) || errors.Is(err, bbolt.ErrDatabaseReadOnly) {
		return fmt.Errorf("%w: %w", kv.ErrReadOnly, err)
	}
	return err
}

func (tx *boltTx) RawGet(table string, key []byte) ([]byte, error) {
	b := tx.bucket(table)
	if b == nil {
		return nil, nil
	}
	return b.Get(key), nil
}

func (tx *boltTx) RawPut(table string, key, value []byte) error {
	if !tx.tx.Writable() {
		return kv.ErrReadOnly
	}
	b := tx.bucket(table)
	if b == nil {
		return fmt.Errorf("%w: %s", kv.ErrUnknownTable, table)
	}
	return mapErr(b.Put(key, value))
}

func (tx *boltTx) RawDelete(table string, key []byte) error {
	if !tx.tx.Writable() {
		return kv.ErrReadOnly
	}
	b := tx.bucket(table)
	if b == nil {
		return nil
	}
	return mapErr(b.Delete(key))
}

func (tx *boltTx) RawClearTable(table string) error {
	if !tx.tx.Writable() {
		return kv.ErrReadOnly
	}
	name := []byte(table)
	if err := tx.tx.DeleteBucket(name); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
		return mapErr(err)
	}
	_, err := tx.tx.CreateBucket(name)
	return mapErr(err)
}

func (tx *boltTx) RawCursor(table string) (kv.RawCursor, error) {
	b := tx.bucket(table)
	if b == nil {
		// table not created yet in read-only db
		return emptyCursor{}, nil
	}
	return &boltCursor{c: b.Cursor()}, nil
}

func (tx *boltTx) ViewID() uint64 { return uint64(tx.tx.ID()) }

func (tx *boltTx) Commit() error {
	if tx.tx.DB() == nil {
		return nil
	}
	if !tx.tx.Writable() {
		return tx.tx.Rollback()
	}
	return tx.tx.Commit()
}

func (tx *boltTx) Rollback() {
	if tx.tx.DB() == nil {
		return
	}
	_ = tx.tx.Rollback()
}

type boltCursor struct {
	c *bbolt.Cursor
}

func (c *boltCursor) First() ([]byte, []byte, error) {
	k, v := c.c.First()
	return k, v, nil
}

func (c *boltCursor) Last() ([]byte, []byte, error) {
	k, v := c.c.Last()
	return k, v, nil
}

func (c *boltCursor) Seek(seek []byte) ([]byte, []byte, error) {
	k, v := c.c.Seek(seek)
	return k, v, nil
}

func (c *boltCursor) Next() ([]byte, []byte, error) {
	k, v := c.c.Next()
	return k, v, nil
}

func (c *boltCursor) Prev() ([]byte, []byte, error) {
	k, v := c.c.Prev()
	return k, v, nil
}

func (c *boltCursor) Close() {}

type emptyCursor struct{}

func (emptyCursor) First() ([]byte, []byte, error)      { return nil, nil, nil }
func (emptyCursor) Last() ([]byte, []byte, error)       { return nil, nil, nil }
func (emptyCursor) Seek([]byte) ([]byte, []byte, error) { return nil, nil, nil }
func (emptyCursor) Next() ([]byte, []byte, error)       { return nil, nil, nil }
func (emptyCursor) Prev() ([]byte, []byte, error)       { return nil, nil, nil }
func (emptyCursor) Close()                              {}
