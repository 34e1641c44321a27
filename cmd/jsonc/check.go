// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jsonc/ast"
	"github.com/fatih/color"
	"github.com/go-kit/log/level"
)

// checkCommand reports whether each of a set of files is a valid document.
type checkCommand struct {
	cfg    *config
	files  *[]string
	decode *bool
}

func addCheckCommand(app *kingpin.Application, cfg *config) {
	cmd := &checkCommand{cfg: cfg}
	cc := app.Command("check", "Check that files are valid JSONC.").Action(cmd.run)
	cmd.decode = cc.Flag("decode", "Also check that all strings and numbers can be decoded.").Bool()
	cmd.files = cc.Arg("file", "Files to check (- for stdin).").Required().Strings()
}

func (cmd *checkCommand) run(*kingpin.ParseContext) error {
	var nfail int
	for _, path := range *cmd.files {
		if err := cmd.checkFile(os.Stdout, path); err != nil {
			nfail++
			level.Info(logger).Log("msg", "check failed", "path", path, "err", err)
		}
	}
	if nfail > 0 {
		return fmt.Errorf("%d of %d files failed", nfail, len(*cmd.files))
	}
	return nil
}

// checkFile checks one file and writes a report of the outcome to w.
func (cmd *checkCommand) checkFile(w io.Writer, path string) error {
	src, err := readInput(path)
	if err == nil {
		err = cmd.checkText(src)
		if err != nil {
			err = sourceError(path, src, err)
		}
	}
	if err != nil {
		color.New(color.FgRed).Fprintf(w, "FAIL ")
		fmt.Fprintln(w, err)
		return err
	}
	color.New(color.FgGreen).Fprintf(w, "ok   ")
	fmt.Fprintln(w, path)
	return nil
}

func (cmd *checkCommand) checkText(src string) error {
	opts := cmd.cfg.options()
	if *cmd.decode {
		_, err := ast.ParseValue(src, opts)
		return err
	}
	_, err := ast.Parse(src, opts)
	return err
}
