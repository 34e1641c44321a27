// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jsonc"
	"github.com/creachadair/jsonc/ast"
	"github.com/creachadair/jsonc/cst"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-kit/log/level"
)

// benchCommand measures parsing throughput on input files.
type benchCommand struct {
	cfg   *config
	files *[]string
	dur   *time.Duration
}

func addBenchCommand(app *kingpin.Application, cfg *config) {
	cmd := &benchCommand{cfg: cfg}
	cc := app.Command("bench", "Measure parsing throughput for files.").Action(cmd.run)
	cmd.dur = cc.Flag("time", "Minimum time to spend on each parser.").Default("1s").Duration()
	cmd.files = cc.Arg("file", "Input files.").Required().ExistingFiles()
}

func (cmd *benchCommand) run(*kingpin.ParseContext) error {
	for _, path := range *cmd.files {
		src, err := readInput(path)
		if err != nil {
			return err
		}
		if err := cmd.benchFile(os.Stdout, path, src); err != nil {
			return sourceError(path, src, err)
		}
	}
	return nil
}

// parsers are the operations measured by the bench command.
var parsers = []struct {
	name string
	run  func(string, *jsonc.Options) error
}{
	{"scan", func(src string, opts *jsonc.Options) error {
		s := jsonc.NewScanner(src, opts)
		for {
			if err := s.Next(); err == io.EOF {
				return nil
			} else if err != nil {
				return err
			}
		}
	}},
	{"ast", func(src string, opts *jsonc.Options) error {
		_, err := ast.Parse(src, opts)
		return err
	}},
	{"decode", func(src string, opts *jsonc.Options) error {
		_, err := ast.ParseValue(src, opts)
		return err
	}},
	{"cst", func(src string, opts *jsonc.Options) error {
		_, err := cst.Parse(src, opts)
		return err
	}},
}

func (cmd *benchCommand) benchFile(w io.Writer, path, src string) error {
	opts := cmd.cfg.options()
	color.New(color.Bold).Fprintf(w, "%s", path)
	fmt.Fprintf(w, " (%s)\n", humanize.Bytes(uint64(len(src))))
	for _, p := range parsers {
		n, elapsed, err := measure(*cmd.dur, func() error { return p.run(src, opts) })
		if err != nil {
			return err
		}
		rate := float64(len(src)) * float64(n) / elapsed.Seconds()
		per := elapsed / time.Duration(n)
		fmt.Fprintf(w, "\t%-8s %s runs, %v/op, %s/s\n",
			p.name, humanize.Comma(int64(n)), per, humanize.Bytes(uint64(rate)))
		level.Debug(logger).Log("msg", "benchmark", "path", path, "parser", p.name,
			"runs", n, "elapsed", elapsed)
	}
	return nil
}

// measure calls f repeatedly until at least minTime has elapsed, and reports
// the number of calls and the total elapsed time. It stops at the first error.
func measure(minTime time.Duration, f func() error) (int, time.Duration, error) {
	var n int
	start := time.Now()
	for {
		if err := f(); err != nil {
			return n, 0, err
		}
		n++
		if elapsed := time.Since(start); elapsed >= minTime && elapsed > 0 {
			return n, elapsed, nil
		}
	}
}
