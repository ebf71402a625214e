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

// Command prefixsets writes synthetic change logs and loads trie prefix sets from them.
package main

import (
	"fmt"
	"os"

	"github.com/ledgerwatch/log/v3"
	"github.com/urfave/cli/v2"

	"github.com/erigontech/prefixsets/common/dbg"
	"github.com/erigontech/prefixsets/turbo/logging"
)

func main() {
	defer func() {
		panicResult := recover()
		if panicResult == nil {
			return
		}

		log.Error("catch panic", "err", panicResult, "stack", dbg.Stack())
		os.Exit(1)
	}()

	if err := makeApp().Run(os.Args); err != nil {
		_, printErr := fmt.Fprintln(os.Stderr, err)
		if printErr != nil {
			log.Warn("Fprintln error", "err", printErr)
		}
		os.Exit(1)
	}
}

func makeApp() *cli.App {
	return &cli.App{
		Name:     "prefixsets",
		Usage:    "Changed trie paths of a block range",
		Flags:    append([]cli.Flag{&ConfigFlag}, logging.Flags...),
		Commands: []*cli.Command{&genCommand, &loadCommand},
	}
}

// setup - applies --config and configures logging, for the command of cliCtx
func setup(cliCtx *cli.Context, name string) (log.Logger, error) {
	if configFilePath := cliCtx.String(ConfigFlag.Name); configFilePath != "" {
		if err := setFlagsFromConfigFile(cliCtx, configFilePath); err != nil {
			return nil, fmt.Errorf("failed setting config flags from yaml/toml file: %w", err)
		}
	}
	return logging.SetupLoggerCtx(name, cliCtx), nil
}
