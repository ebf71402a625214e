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

	"github.com/erigontech/prefixsets/db/kv/dbutils"
)

type cursorState uint8

const (
	unpositioned cursorState = iota // fresh cursor: Next acts as First, Prev acts as Last
	positioned
	beforeFirst
	afterLast
)

// tableCursor - Cursor and CursorDupSort on top of RawCursor.
// DupSort tables store `k ++ v` as physical key with empty physical value.
type tableCursor struct {
	raw       RawCursor
	table     string
	dupKeyLen int // 0 - not DupSort table
	state     cursorState
	k, v      []byte
}

func newTableCursor(raw RawCursor, table string, cfg TableCfgItem) *tableCursor {
	c := &tableCursor{raw: raw, table: table}
	if cfg.IsDupSort() {
		c.dupKeyLen = cfg.DupKeyLen
	}
	return c
}

func (c *tableCursor) split(pk, pv []byte) ([]byte, []byte, error) {
	if c.dupKeyLen == 0 {
		return pk, pv, nil
	}
	if len(pk) < c.dupKeyLen {
		return nil, nil, fmt.Errorf("%w: table %s, physical key %x shorter than %d", ErrDupKeyLen, c.table, pk, c.dupKeyLen)
	}
	return pk[:c.dupKeyLen], pk[c.dupKeyLen:], nil
}

// land - moves cursor to the result of raw operation, `miss` is the state when raw cursor went out of table
func (c *tableCursor) land(pk, pv []byte, err error, miss cursorState) ([]byte, []byte, error) {
	if err != nil {
		return []byte{}, nil, err
	}
	if pk == nil {
		c.state, c.k, c.v = miss, nil, nil
		return nil, nil, nil
	}
	k, v, err := c.split(pk, pv)
	if err != nil {
		return []byte{}, nil, err
	}
	c.state, c.k, c.v = positioned, k, v
	return k, v, nil
}

func (c *tableCursor) physical(k, v []byte) []byte {
	if c.dupKeyLen == 0 {
		return k
	}
	pk := make([]byte, 0, len(k)+len(v))
	pk = append(pk, k...)
	return append(pk, v...)
}

func (c *tableCursor) First() ([]byte, []byte, error) {
	pk, pv, err := c.raw.First()
	return c.land(pk, pv, err, afterLast)
}

func (c *tableCursor) Last() ([]byte, []byte, error) {
	pk, pv, err := c.raw.Last()
	return c.land(pk, pv, err, beforeFirst)
}

func (c *tableCursor) Seek(seek []byte) ([]byte, []byte, error) {
	pk, pv, err := c.raw.Seek(seek)
	return c.land(pk, pv, err, afterLast)
}

func (c *tableCursor) SeekExact(key []byte) ([]byte, []byte, error) {
	k, v, err := c.Seek(key)
	if err != nil {
		return k, v, err
	}
	if k == nil || !bytes.Equal(k, key) {
		return nil, nil, nil
	}
	return k, v, nil
}

func (c *tableCursor) Next() ([]byte, []byte, error) {
	switch c.state {
	case unpositioned, beforeFirst:
		return c.First()
	case afterLast:
		return nil, nil, nil
	}
	pk, pv, err := c.raw.Next()
	return c.land(pk, pv, err, afterLast)
}

func (c *tableCursor) Prev() ([]byte, []byte, error) {
	switch c.state {
	case unpositioned, afterLast:
		return c.Last()
	case beforeFirst:
		return nil, nil, nil
	}
	pk, pv, err := c.raw.Prev()
	return c.land(pk, pv, err, beforeFirst)
}

func (c *tableCursor) Current() ([]byte, []byte, error) {
	if c.state != positioned {
		return nil, nil, nil
	}
	return c.k, c.v, nil
}

func (c *tableCursor) Close() {
	if c.raw != nil {
		c.raw.Close()
		c.raw = nil
	}
}

func (c *tableCursor) SeekBothExact(key, value []byte) ([]byte, []byte, error) {
	k, v, err := c.Seek(c.physical(key, value))
	if err != nil {
		return k, v, err
	}
	if k == nil || !bytes.Equal(k, key) || !bytes.Equal(v, value) {
		return nil, nil, nil
	}
	return k, v, nil
}

func (c *tableCursor) SeekBothRange(key, value []byte) ([]byte, error) {
	k, v, err := c.Seek(c.physical(key, value))
	if err != nil {
		return nil, err
	}
	if k == nil || !bytes.Equal(k, key) {
		return nil, nil
	}
	return v, nil
}

func (c *tableCursor) FirstDup() ([]byte, error) {
	if c.state != positioned {
		return nil, nil
	}
	key := bytes.Clone(c.k)
	_, v, err := c.Seek(key)
	return v, err
}

// NextDup - cursor stays at the last value of the key when there is no next value
func (c *tableCursor) NextDup() ([]byte, []byte, error) {
	if c.state != positioned {
		return nil, nil, nil
	}
	pk, pv, err := c.raw.Next()
	if err != nil {
		return []byte{}, nil, err
	}
	if pk != nil && c.dupKeyLen > 0 && bytes.HasPrefix(pk, c.k) {
		return c.land(pk, pv, nil, afterLast)
	}
	// went out of current key - step back
	if pk == nil {
		_, _, err = c.raw.Last()
	} else {
		_, _, err = c.raw.Prev()
	}
	if err != nil {
		return []byte{}, nil, err
	}
	return nil, nil, nil
}

func (c *tableCursor) NextNoDup() ([]byte, []byte, error) {
	switch c.state {
	case unpositioned, beforeFirst:
		return c.First()
	case afterLast:
		return nil, nil, nil
	}
	if c.dupKeyLen == 0 {
		return c.Next()
	}
	next, ok := dbutils.NextSubtree(c.k)
	if !ok {
		c.state, c.k, c.v = afterLast, nil, nil
		return nil, nil, nil
	}
	return c.Seek(next)
}

func (c *tableCursor) LastDup() ([]byte, error) {
	if c.state != positioned {
		return nil, nil
	}
	if c.dupKeyLen == 0 {
		return c.v, nil
	}
	var pk, pv []byte
	var err error
	next, ok := dbutils.NextSubtree(c.k)
	if ok {
		pk, _, err = c.raw.Seek(next)
		if err == nil {
			if pk == nil {
				pk, pv, err = c.raw.Last()
			} else {
				pk, pv, err = c.raw.Prev()
			}
		}
	} else {
		pk, pv, err = c.raw.Last()
	}
	_, v, err := c.land(pk, pv, err, afterLast)
	return v, err
}

func (c *tableCursor) CountDuplicates() (uint64, error) {
	if c.state != positioned {
		return 0, nil
	}
	if c.dupKeyLen == 0 {
		return 1, nil
	}
	key, back := bytes.Clone(c.k), c.physical(c.k, c.v)
	var cnt uint64
	pk, _, err := c.raw.Seek(key)
	for ; pk != nil && err == nil && bytes.HasPrefix(pk, key); pk, _, err = c.raw.Next() {
		cnt++
	}
	if err != nil {
		return 0, err
	}
	pk, pv, err := c.raw.Seek(back)
	if _, _, err = c.land(pk, pv, err, afterLast); err != nil {
		return 0, err
	}
	return cnt, nil
}
