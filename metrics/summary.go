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

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

type Summary interface {
	prometheus.Summary
	// UpdateDuration observes the seconds elapsed since startTime.
	UpdateDuration(startTime time.Time)
	GetCount() uint64
	GetSum() float64
}

type summary struct {
	prometheus.Summary
}

func (s *summary) UpdateDuration(startTime time.Time) {
	s.Observe(time.Since(startTime).Seconds())
}

func (s *summary) GetCount() uint64 { return s.read().GetSampleCount() }
func (s *summary) GetSum() float64  { return s.read().GetSampleSum() }

func (s *summary) read() *dto.Summary { return readMetric(s).GetSummary() }
