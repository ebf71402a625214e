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

package trie

import (
	"bytes"
)

// Nibbles - path in the hexary trie, 1 nibble (0x0..0xf) per byte
type Nibbles []byte

const hexChars = "0123456789abcdef"

// UnpackNibbles - splits every byte of key into 2 nibbles, high nibble first
// HI_NIBBLE(b) = (b >> 4) & 0x0F
// LO_NIBBLE(b) = b & 0x0F
func UnpackNibbles(key []byte) Nibbles {
	nibbles := make(Nibbles, len(key)*2)
	for i, b := range key {
		nibbles[i*2] = (b >> 4) & 0x0F
		nibbles[i*2+1] = b & 0x0F
	}
	return nibbles
}

// Pack - reverse of UnpackNibbles. Odd path is padded by zero nibble at the end.
func (n Nibbles) Pack() []byte {
	out := make([]byte, (len(n)+1)/2)
	for i := 0; i < len(n); i += 2 {
		b := (n[i] << 4) & 0xF0
		if i+1 < len(n) {
			b |= n[i+1] & 0x0F
		}
		out[i/2] = b
	}
	return out
}

func (n Nibbles) HasPrefix(prefix Nibbles) bool { return bytes.HasPrefix(n, prefix) }

// Compare - lexicographic order of paths: parent goes before its children
func (n Nibbles) Compare(other Nibbles) int { return bytes.Compare(n, other) }

func (n Nibbles) Equal(other Nibbles) bool { return bytes.Equal(n, other) }

func (n Nibbles) Clone() Nibbles { return bytes.Clone(n) }

// String - 1 hex char per nibble
func (n Nibbles) String() string {
	s := make([]byte, len(n))
	for i, nib := range n {
		s[i] = hexChars[nib&0x0F]
	}
	return string(s)
}
