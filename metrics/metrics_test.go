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
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in     string
		name   string
		labels prometheus.Labels
		err    bool
	}{
		{in: "plain", name: "plain"},
		{in: `with_labels{table="AccountChangeSet"}`, name: "with_labels", labels: prometheus.Labels{"table": "AccountChangeSet"}},
		{in: `two{a="1", b="2"}`, name: "two", labels: prometheus.Labels{"a": "1", "b": "2"}},
		{in: `empty{}`, name: "empty", labels: prometheus.Labels{}},
		{in: `open{a="1"`, err: true},
		{in: `bad{a=1}`, err: true},
		{in: `dup{a="1",a="2"}`, err: true},
		{in: `nokey{="1"}`, err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, labels, err := parseMetric(tt.in)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.labels, labels)
		})
	}
}

func TestSetCounter(t *testing.T) {
	s := NewSet()
	pc, err := s.GetOrCreateCounter(`changes{table="AccountChangeSet"}`)
	require.NoError(t, err)
	c := &counter{pc}
	c.AddInt(3)
	c.AddUint64(4)
	c.Inc()
	assert.Equal(t, float64(8), c.GetValue())
	assert.Equal(t, uint64(8), c.GetValueUint64())

	again, err := s.GetOrCreateCounter(`changes{table="AccountChangeSet"}`)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), (&counter{again}).GetValueUint64())

	_, err = s.NewCounter(`changes{table="AccountChangeSet"}`)
	require.Error(t, err)

	other, err := s.GetOrCreateCounter(`changes{table="StorageChangeSet"}`)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), (&counter{other}).GetValueUint64())

	families, err := s.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "changes", families[0].GetName())
	assert.Len(t, families[0].GetMetric(), 2)
}

func TestSetKindMismatch(t *testing.T) {
	s := NewSet()
	_, err := s.GetOrCreateCounter("load_seconds")
	require.NoError(t, err)
	_, err = s.GetOrCreateSummary("load_seconds")
	require.Error(t, err)
}

func TestSummary(t *testing.T) {
	s := NewSet()
	ps, err := s.GetOrCreateSummary("load_seconds")
	require.NoError(t, err)
	sm := &summary{ps}
	sm.Observe(1.5)
	sm.UpdateDuration(time.Now().Add(-time.Second))
	assert.Equal(t, uint64(2), sm.GetCount())
	assert.GreaterOrEqual(t, sm.GetSum(), 2.5)
}

func TestDefaultSet(t *testing.T) {
	c := GetOrCreateCounter("metrics_test_default_total")
	before := c.GetValueUint64()
	GetOrCreateCounter("metrics_test_default_total").Inc()
	assert.Equal(t, before+1, c.GetValueUint64())

	require.Panics(t, func() { NewCounter("metrics_test_default_total") })
	require.Panics(t, func() { GetOrCreateSummary("metrics_test_default_total") })

	sm := NewSummary("metrics_test_default_seconds")
	sm.Observe(0.25)
	assert.Equal(t, uint64(1), GetOrCreateSummary("metrics_test_default_seconds").GetCount())

	families, err := Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "metrics_test_default_total")
	assert.Same(t, defaultSet.registry, Registry())
}
