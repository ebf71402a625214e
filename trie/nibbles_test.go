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
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackNibbles(t *testing.T) {
	cases := []struct {
		in     string
		expect string
	}{
		{in: "0000", expect: "00"},
		{in: "0102", expect: "12"},
		{in: "0102030405060708090f", expect: "123456789f"},
		{in: "0f000101", expect: "f011"},
		{in: "", expect: ""},
	}

	for _, tc := range cases {
		in := strToNibs(tc.in)
		packed := in.Pack()
		msg := "On: " + tc.in + " Len: " + strconv.Itoa(len(packed))
		assert.Equal(t, tc.expect, fmt.Sprintf("%x", packed), msg)

		assert.Equal(t, in, UnpackNibbles(packed), msg)
	}
}

func TestPackOddNibbles(t *testing.T) {
	assert.Equal(t, []byte{0xab, 0xc0}, Nibbles{0xa, 0xb, 0xc}.Pack())
	assert.Equal(t, "abc", Nibbles{0xa, 0xb, 0xc}.String())
}

func TestNibblesOrder(t *testing.T) {
	parent := Nibbles{0x1, 0x2}
	child := Nibbles{0x1, 0x2, 0x0}
	sibling := Nibbles{0x1, 0x3}

	assert.Negative(t, parent.Compare(child))
	assert.Negative(t, child.Compare(sibling))
	assert.True(t, child.HasPrefix(parent))
	assert.False(t, sibling.HasPrefix(parent))
	assert.True(t, parent.HasPrefix(nil))

	clone := parent.Clone()
	clone[0] = 0xf
	assert.Equal(t, Nibbles{0x1, 0x2}, parent)
}

// strToNibs - "0102" -> Nibbles{1, 2}
func strToNibs(in string) Nibbles {
	res := make(Nibbles, len(in)/2)
	for i := 0; i+1 < len(in); i += 2 {
		nib, err := strconv.ParseUint(in[i+1:i+2], 16, 4)
		if err != nil {
			panic(err)
		}
		res[i/2] = uint8(nib)
	}
	return res
}
