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

package stream

import (
	"golang.org/x/exp/constraints"
)

type (
	Empty[T any]       struct{}
	EmptyDuo[K, V any] struct{}
)

func (Empty[T]) HasNext() bool                     { return false }
func (Empty[T]) Next() (v T, err error)            { return v, err }
func (Empty[T]) Close()                            {}
func (EmptyDuo[K, V]) HasNext() bool               { return false }
func (EmptyDuo[K, V]) Next() (k K, v V, err error) { return k, v, err }
func (EmptyDuo[K, V]) Close()                      {}

func Range[T constraints.Integer](from, to T) *RangeIter[T] {
	return &RangeIter[T]{i: from, to: to}
}

type RangeIter[T constraints.Integer] struct {
	i, to T
}

func (it *RangeIter[T]) HasNext() bool    { return it.i < it.to }
func (it *RangeIter[T]) Close()           {}
func (it *RangeIter[T]) Next() (T, error) {
	v := it.i
	it.i++
	return v, nil
}

// ToArr - reads all items of the stream and closes it
func ToArr[T any](s Uno[T]) (res []T, err error) {
	defer s.Close()
	for s.HasNext() {
		k, err := s.Next()
		if err != nil {
			return res, err
		}
		res = append(res, k)
	}
	return res, nil
}

// ToArrDuo - reads all pairs of the stream and closes it
func ToArrDuo[K, V any](s Duo[K, V]) (keys []K, values []V, err error) {
	defer s.Close()
	for s.HasNext() {
		k, v, err := s.Next()
		if err != nil {
			return keys, values, err
		}
		keys = append(keys, k)
		values = append(values, v)
	}
	return keys, values, nil
}

func CountDuo[K, V any](s Duo[K, V]) (cnt int, err error) {
	defer s.Close()
	for s.HasNext() {
		_, _, err := s.Next()
		if err != nil {
			return cnt, err
		}
		cnt++
	}
	return cnt, err
}
