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

package logging

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/ledgerwatch/log/v3"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config - where and how verbose the logs are. Empty DirPath means console only.
type Config struct {
	FilePrefix   string
	DirPath      string
	ConsoleLevel log.Lvl
	DirLevel     log.Lvl
	ConsoleJson  bool
	DirJson      bool
}

// SetupLoggerCtx - configures the root logger from the flags of `ctx` and returns it.
// Logs are written to <datadir>/logs when --log.dir.path is not set.
func SetupLoggerCtx(filePrefix string, ctx *cli.Context) log.Logger {
	return Setup(ConfigFromCtx(filePrefix, ctx))
}

func ConfigFromCtx(filePrefix string, ctx *cli.Context) Config {
	cfg := Config{
		FilePrefix:  filePrefix,
		DirPath:     ctx.String(LogDirPathFlag.Name),
		ConsoleJson: ctx.Bool(LogJsonFlag.Name),
		DirJson:     ctx.Bool(LogDirJsonFlag.Name),
	}
	if prefix := ctx.String(LogDirPrefixFlag.Name); prefix != "" {
		cfg.FilePrefix = prefix
	}

	var err error
	cfg.ConsoleLevel, err = tryGetLogLevel(ctx.String(LogConsoleVerbosityFlag.Name))
	if err != nil {
		// try verbosity flag
		cfg.ConsoleLevel, err = tryGetLogLevel(ctx.String(LogVerbosityFlag.Name))
		if err != nil {
			cfg.ConsoleLevel = log.LvlInfo
		}
	}
	cfg.DirLevel, err = tryGetLogLevel(ctx.String(LogDirVerbosityFlag.Name))
	if err != nil {
		cfg.DirLevel = cfg.ConsoleLevel
	}

	if cfg.DirPath == "" {
		if datadir := ctx.String("datadir"); datadir != "" {
			cfg.DirPath = filepath.Join(datadir, "logs")
		}
	}
	return cfg
}

// Setup - replaces handler of the root logger: console sink, plus rotated file sink if cfg.DirPath is set
func Setup(cfg Config) log.Logger {
	logger := log.Root()

	consoleHandler := log.LvlFilterHandler(cfg.ConsoleLevel, log.StderrHandler)
	if cfg.ConsoleJson {
		consoleHandler = log.LvlFilterHandler(cfg.ConsoleLevel, log.StreamHandler(os.Stderr, log.JsonFormat()))
	}
	logger.SetHandler(consoleHandler)

	if cfg.DirPath == "" {
		logger.Debug("no log dir set, console logging only")
		return logger
	}
	if err := os.MkdirAll(cfg.DirPath, 0764); err != nil {
		logger.Warn("failed to create log dir, console logging only", "dir", cfg.DirPath, "err", err)
		return logger
	}

	dirFormat := log.TerminalFormatNoColor()
	if cfg.DirJson {
		dirFormat = log.JsonFormat()
	}
	fileSink := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.DirPath, cfg.FilePrefix+".log"),
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     28, //days
	}
	fileHandler := log.LvlFilterHandler(cfg.DirLevel, log.StreamHandler(fileSink, dirFormat))
	logger.SetHandler(log.MultiHandler(consoleHandler, fileHandler))
	logger.Info("logging to file system", "log dir", cfg.DirPath, "file prefix", cfg.FilePrefix, "log level", cfg.DirLevel, "json", cfg.DirJson)
	return logger
}

func tryGetLogLevel(s string) (log.Lvl, error) {
	lvl, err := log.LvlFromString(s)
	if err != nil {
		l, err := strconv.Atoi(s)
		if err != nil {
			return 0, err
		}
		return log.Lvl(l), nil
	}
	return lvl, nil
}
