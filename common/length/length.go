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

package length

// Lengths of hashes and addresses in bytes.
const (
	// Hash is the expected length of the hash (in bytes)
	Hash = 32
	// Addr is the expected length of the address (in bytes)
	Addr = 20
	// BlockNum length of uint64 big endian
	BlockNum = 8
	// Incarnation length of uint64 for contract incarnations
	Incarnation = 8
)
