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
	"fmt"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Set is a group of metrics registered under their full names, labels
// included. Names use the `name{label="value",...}` form.
type Set struct {
	mu       sync.Mutex
	registry *prometheus.Registry
	metrics  map[string]prometheus.Collector
}

var defaultSet = NewSet()

func NewSet() *Set {
	return &Set{
		registry: prometheus.NewRegistry(),
		metrics:  map[string]prometheus.Collector{},
	}
}

// Registry returns the registry backing the default set.
func Registry() *prometheus.Registry { return defaultSet.registry }

// Gather collects every metric of the default set.
func Gather() ([]*dto.MetricFamily, error) { return defaultSet.Gather() }

func (s *Set) Gather() ([]*dto.MetricFamily, error) { return s.registry.Gather() }

func (s *Set) NewCounter(name string) (prometheus.Counter, error) {
	c, err := s.create(name, func(opts prometheus.Opts) prometheus.Collector {
		return prometheus.NewCounter(prometheus.CounterOpts(opts))
	})
	if err != nil {
		return nil, err
	}
	return c.(prometheus.Counter), nil
}

func (s *Set) GetOrCreateCounter(name string) (prometheus.Counter, error) {
	c, err := s.getOrCreate(name, func(opts prometheus.Opts) prometheus.Collector {
		return prometheus.NewCounter(prometheus.CounterOpts(opts))
	})
	if err != nil {
		return nil, err
	}
	counter, ok := c.(prometheus.Counter)
	if !ok {
		return nil, fmt.Errorf("metric %q is not a counter", name)
	}
	return counter, nil
}

func (s *Set) NewSummary(name string) (prometheus.Summary, error) {
	c, err := s.create(name, newSummary)
	if err != nil {
		return nil, err
	}
	return c.(prometheus.Summary), nil
}

func (s *Set) GetOrCreateSummary(name string) (prometheus.Summary, error) {
	c, err := s.getOrCreate(name, newSummary)
	if err != nil {
		return nil, err
	}
	sm, ok := c.(prometheus.Summary)
	if !ok {
		return nil, fmt.Errorf("metric %q is not a summary", name)
	}
	return sm, nil
}

func newSummary(opts prometheus.Opts) prometheus.Collector {
	return prometheus.NewSummary(prometheus.SummaryOpts{
		Name:        opts.Name,
		Help:        opts.Help,
		ConstLabels: opts.ConstLabels,
		Objectives:  map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	})
}

func (s *Set) create(name string, newCollector func(prometheus.Opts) prometheus.Collector) (prometheus.Collector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.metrics[name]; ok {
		return nil, fmt.Errorf("metric %q is already registered", name)
	}
	return s.register(name, newCollector)
}

func (s *Set) getOrCreate(name string, newCollector func(prometheus.Opts) prometheus.Collector) (prometheus.Collector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.metrics[name]; ok {
		return c, nil
	}
	return s.register(name, newCollector)
}

func (s *Set) register(name string, newCollector func(prometheus.Opts) prometheus.Collector) (prometheus.Collector, error) {
	metricName, labels, err := parseMetric(name)
	if err != nil {
		return nil, err
	}
	c := newCollector(prometheus.Opts{Name: metricName, Help: metricName, ConstLabels: labels})
	if err := s.registry.Register(c); err != nil {
		return nil, fmt.Errorf("register %q: %w", name, err)
	}
	s.metrics[name] = c
	return c, nil
}

// parseMetric splits `name{k="v",...}` into the bare name and its labels.
func parseMetric(s string) (string, prometheus.Labels, error) {
	name, rest, found := strings.Cut(s, "{")
	if !found {
		return s, nil, nil
	}
	if !strings.HasSuffix(rest, "}") {
		return "", nil, fmt.Errorf("missing closing brace in metric %q", s)
	}
	rest = strings.TrimSuffix(rest, "}")
	labels := prometheus.Labels{}
	if rest == "" {
		return name, labels, nil
	}
	for _, pair := range strings.Split(rest, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || k == "" || len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
			return "", nil, fmt.Errorf("malformed label %q in metric %q", pair, s)
		}
		if _, dup := labels[k]; dup {
			return "", nil, fmt.Errorf("duplicate label %q in metric %q", k, s)
		}
		labels[k] = v[1 : len(v)-1]
	}
	return name, labels, nil
}
