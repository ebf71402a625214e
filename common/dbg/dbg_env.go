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

package dbg

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/ledgerwatch/log/v3"
)

// EnvPrefix - every variable can also be given with this prefix
const EnvPrefix = "ERIGON_"

func envLookup(envVarName string) (string, bool) {
	for _, name := range []string{envVarName, EnvPrefix + envVarName} {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			log.Warn("[env]", name, v)
			return v, true
		}
	}
	return "", false
}

// envParse - panics if the variable is set but can't be parsed
func envParse[T any](envVarName string, defaultVal T, parse func(string) (T, error)) T {
	v, ok := envLookup(envVarName)
	if !ok {
		return defaultVal
	}
	parsed, err := parse(v)
	if err != nil {
		panic(fmt.Errorf("env %s=%q: %w", envVarName, v, err))
	}
	return parsed
}

func EnvString(envVarName string, defaultVal string) string {
	return envParse(envVarName, defaultVal, func(v string) (string, error) { return v, nil })
}

// EnvInt - accepts `_` separators: 1_000
func EnvInt(envVarName string, defaultVal int) int {
	return envParse(envVarName, defaultVal, func(v string) (int, error) {
		return strconv.Atoi(strings.ReplaceAll(v, "_", ""))
	})
}

func EnvDataSize(envVarName string, defaultVal datasize.ByteSize) datasize.ByteSize {
	return envParse(envVarName, defaultVal, datasize.ParseString)
}
