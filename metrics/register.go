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
)

// Metrics of the default set. Names can carry labels: `name{label="value"}`.
// Invalid names and kind conflicts panic: metrics are declared in package vars.

func NewCounter(name string) Counter {
	return &counter{must(defaultSet.NewCounter(name))}
}

func GetOrCreateCounter(name string) Counter {
	return &counter{must(defaultSet.GetOrCreateCounter(name))}
}

func NewSummary(name string) Summary {
	return &summary{must(defaultSet.NewSummary(name))}
}

func GetOrCreateSummary(name string) Summary {
	return &summary{must(defaultSet.GetOrCreateSummary(name))}
}

func must[T any](metric T, err error) T {
	if err != nil {
		panic(fmt.Errorf("could not get or create metric: %w", err))
	}
	return metric
}
