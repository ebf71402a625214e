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
	"bytes"
	"fmt"

	"github.com/erigontech/prefixsets/db/kv/stream"
)

// TableTx - RwTx on top of RawTx. Used by all backends of this module.
type TableTx struct {
	raw RawTx
	cfg TableCfg
}

var _ RwTx = (*TableTx)(nil)

func NewTableTx(raw RawTx, cfg TableCfg) *TableTx {
	return &TableTx{raw: raw, cfg: cfg}
}

func (tx *TableTx) tableCfg(table string) (TableCfgItem, error) {
	item, ok := tx.cfg[table]
	if !ok {
		return item, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return item, nil
}

func (tx *TableTx) Cursor(table string) (Cursor, error) {
	return tx.cursor(table)
}

func (tx *TableTx) CursorDupSort(table string) (CursorDupSort, error) {
	item, err := tx.tableCfg(table)
	if err != nil {
		return nil, err
	}
	if !item.IsDupSort() {
		return nil, fmt.Errorf("%w: %s", ErrNotDupSort, table)
	}
	return tx.cursor(table)
}

func (tx *TableTx) cursor(table string) (*tableCursor, error) {
	item, err := tx.tableCfg(table)
	if err != nil {
		return nil, err
	}
	raw, err := tx.raw.RawCursor(table)
	if err != nil {
		return nil, err
	}
	return newTableCursor(raw, table, item), nil
}

func (tx *TableTx) Has(table string, key []byte) (bool, error) {
	item, err := tx.tableCfg(table)
	if err != nil {
		return false, err
	}
	if !item.IsDupSort() {
		v, err := tx.raw.RawGet(table, key)
		return v != nil, err
	}
	c, err := tx.cursor(table)
	if err != nil {
		return false, err
	}
	defer c.Close()
	k, _, err := c.SeekExact(key)
	return k != nil && err == nil, err
}

func (tx *TableTx) GetOne(table string, key []byte) ([]byte, error) {
	item, err := tx.tableCfg(table)
	if err != nil {
		return nil, err
	}
	if !item.IsDupSort() {
		return tx.raw.RawGet(table, key)
	}
	c, err := tx.cursor(table)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	_, v, err := c.SeekExact(key)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (tx *TableTx) ForEach(table string, fromPrefix []byte, walker func(k, v []byte) error) error {
	c, err := tx.cursor(table)
	if err != nil {
		return err
	}
	defer c.Close()
	for k, v, err := c.Seek(fromPrefix); k != nil; k, v, err = c.Next() {
		if err != nil {
			return err
		}
		if err := walker(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (tx *TableTx) Prefix(table string, prefix []byte) (stream.KV, error) {
	c, err := tx.cursor(table)
	if err != nil {
		return nil, err
	}
	s := &prefixStream{c: c, prefix: prefix}
	s.nextK, s.nextV, s.err = c.Seek(prefix)
	return s, nil
}

func (tx *TableTx) Count(table string) (uint64, error) {
	c, err := tx.cursor(table)
	if err != nil {
		return 0, err
	}
	defer c.Close()
	var cnt uint64
	for k, _, err := c.First(); k != nil; k, _, err = c.Next() {
		if err != nil {
			return 0, err
		}
		cnt++
	}
	return cnt, nil
}

func (tx *TableTx) ListTables() ([]string, error) { return tx.cfg.Names(), nil }
func (tx *TableTx) ViewID() uint64                { return tx.raw.ViewID() }
func (tx *TableTx) Commit() error                 { return tx.raw.Commit() }
func (tx *TableTx) Rollback()                     { tx.raw.Rollback() }

func (tx *TableTx) Put(table string, k, v []byte) error {
	item, err := tx.tableCfg(table)
	if err != nil {
		return err
	}
	if !item.IsDupSort() {
		return tx.raw.RawPut(table, k, v)
	}
	if len(k) != item.DupKeyLen {
		return fmt.Errorf("%w: table %s, key %x, expected len %d", ErrDupKeyLen, table, k, item.DupKeyLen)
	}
	pk := make([]byte, 0, len(k)+len(v))
	pk = append(append(pk, k...), v...)
	return tx.raw.RawPut(table, pk, []byte{})
}

func (tx *TableTx) Delete(table string, k []byte) error {
	item, err := tx.tableCfg(table)
	if err != nil {
		return err
	}
	if !item.IsDupSort() {
		return tx.raw.RawDelete(table, k)
	}
	var toDelete [][]byte
	c, err := tx.raw.RawCursor(table)
	if err != nil {
		return err
	}
	pk, _, err := c.Seek(k)
	for ; err == nil && pk != nil && bytes.HasPrefix(pk, k); pk, _, err = c.Next() {
		toDelete = append(toDelete, bytes.Clone(pk))
	}
	c.Close()
	if err != nil {
		return err
	}
	for _, pk := range toDelete {
		if err := tx.raw.RawDelete(table, pk); err != nil {
			return err
		}
	}
	return nil
}

func (tx *TableTx) ClearTable(table string) error {
	if _, err := tx.tableCfg(table); err != nil {
		return err
	}
	return tx.raw.RawClearTable(table)
}

type prefixStream struct {
	c            *tableCursor
	prefix       []byte
	nextK, nextV []byte
	err          error
}

func (s *prefixStream) HasNext() bool {
	if s.err != nil {
		return true
	}
	return s.nextK != nil && bytes.HasPrefix(s.nextK, s.prefix)
}

func (s *prefixStream) Next() ([]byte, []byte, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	k, v := s.nextK, s.nextV
	s.nextK, s.nextV, s.err = s.c.Next()
	return k, v, nil
}

func (s *prefixStream) Close() { s.c.Close() }
