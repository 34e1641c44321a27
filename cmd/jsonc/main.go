// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Program jsonc checks, queries, and edits JSONC documents. Edits preserve
// the comments and layout of the input outside the values they change.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jsonc"
	"github.com/creachadair/jsonc/cst"
	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

var logger = log.NewNopLogger()

func main() {
	app := kingpin.New("jsonc", "Check, query, and edit JSONC documents.")
	app.HelpFlag.Short('h')

	cfg := new(config)
	app.Flag("log.level", "Only log messages with the given severity or above.").
		Default("warn").EnumVar(&cfg.logLevel, "debug", "info", "warn", "error")
	app.Flag("strict", "Accept only standard JSON.").BoolVar(&cfg.strict)
	app.Flag("color", "Colorize output (auto, always, never).").
		Default("auto").EnumVar(&cfg.color, "auto", "always", "never")
	app.PreAction(cfg.setup)

	addCheckCommand(app, cfg)
	addGetCommand(app, cfg)
	addSetCommand(app, cfg)
	addRemoveCommand(app, cfg)
	addDumpCommand(app, cfg)
	addBenchCommand(app, cfg)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}

// config holds the settings shared by all commands.
type config struct {
	logLevel string
	color    string
	strict   bool
}

func (c *config) setup(*kingpin.ParseContext) error {
	logger = newLogger(os.Stderr, c.logLevel)
	switch c.color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
	return nil
}

func newLogger(w io.Writer, lvl string) log.Logger {
	l := log.NewLogfmtLogger(log.NewSyncWriter(w))
	l = log.With(l, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(l, levelOption(lvl))
}

func levelOption(lvl string) level.Option {
	switch lvl {
	case "debug":
		return level.AllowDebug()
	case "info":
		return level.AllowInfo()
	case "error":
		return level.AllowError()
	default:
		return level.AllowWarn()
	}
}

func (c *config) options() *jsonc.Options {
	if c.strict {
		return jsonc.Strict()
	}
	return jsonc.Default()
}

// readInput returns the contents of the named file, or of stdin if path
// is "-".
func readInput(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	level.Debug(logger).Log("msg", "read input", "path", path, "bytes", len(data))
	return string(data), nil
}

// readTree reads and parses the named file.
func (c *config) readTree(path string) (*cst.Tree, error) {
	src, err := readInput(path)
	if err != nil {
		return nil, err
	}
	tree, err := cst.Parse(src, c.options())
	if err != nil {
		return nil, sourceError(path, src, err)
	}
	return tree, nil
}

// sourceError annotates err with the line and column of its location in
// src, if it has one.
func sourceError(path, src string, err error) error {
	if jerr, ok := jsonc.AsError(err); ok {
		return fmt.Errorf("%s:%v: %w", path, jerr.Location(src).First, err)
	}
	return fmt.Errorf("%s: %w", path, err)
}
