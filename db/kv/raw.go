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

// RawTx - byte-level transaction of a storage engine without DupSort support.
// NewTableTx layers tables config, DupSort emulation and cursors on top of it.
//
// RawGet returns nil value if key is absent.
// Write methods of a read-only RawTx return ErrReadOnly.
type RawTx interface {
	RawGet(table string, key []byte) ([]byte, error)
	RawPut(table string, key, value []byte) error
	RawDelete(table string, key []byte) error
	RawClearTable(table string) error
	RawCursor(table string) (RawCursor, error)

	ViewID() uint64
	Commit() error
	Rollback()
}

// RawCursor - ordered byte-level cursor over 1 table. Returns nil key when it moves out of the table.
// Position after returning nil key is undefined: caller must re-position it by First/Last/Seek.
type RawCursor interface {
	First() ([]byte, []byte, error)
	Last() ([]byte, []byte, error)
	Seek(seek []byte) ([]byte, []byte, error)
	Next() ([]byte, []byte, error)
	Prev() ([]byte, []byte, error)
	Close()
}
