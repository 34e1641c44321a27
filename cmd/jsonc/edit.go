// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jsonc/ast"
	"github.com/creachadair/jsonc/convert"
	"github.com/creachadair/jsonc/cst"
	"github.com/creachadair/jsonc/cursor"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/go-kit/log/level"
)

// getCommand prints the values selected by a path expression.
type getCommand struct {
	cfg    *config
	file   *string
	path   *string
	asJSON *bool
}

func addGetCommand(app *kingpin.Application, cfg *config) {
	cmd := &getCommand{cfg: cfg}
	cc := app.Command("get", "Print the values selected by a JSONPath expression.").Action(cmd.run)
	cmd.asJSON = cc.Flag("json", "Print values as standard JSON.").Short('j').Bool()
	cmd.file = cc.Arg("file", "Input file (- for stdin).").Required().String()
	cmd.path = cc.Arg("path", "JSONPath expression, for example $.a.b[0].").Required().String()
}

func (cmd *getCommand) run(*kingpin.ParseContext) error {
	tree, err := cmd.cfg.readTree(*cmd.file)
	if err != nil {
		return err
	}
	return getValues(os.Stdout, tree, *cmd.path, *cmd.asJSON)
}

// getValues writes the values of tree selected by path to w, one per line.
func getValues(w io.Writer, tree *cst.Tree, path string, asJSON bool) error {
	nodes, err := cursor.Select(tree.Root(), path)
	if err != nil {
		return err
	}
	level.Debug(logger).Log("msg", "selected values", "path", path, "count", len(nodes))
	if !asJSON {
		for _, n := range nodes {
			fmt.Fprintln(w, n.Text())
		}
		return nil
	}
	enc := jsontext.NewEncoder(w)
	for _, n := range nodes {
		v, err := n.Snapshot()
		if err != nil {
			return err
		}
		if err := convert.WriteJSON(enc, v); err != nil {
			return err
		}
	}
	return nil
}

// output controls how an edited document is reported.
type output struct {
	inPlace *bool
	diff    *bool
}

func (o *output) register(cc *kingpin.CmdClause) {
	o.inPlace = cc.Flag("in-place", "Rewrite the input file.").Short('w').Bool()
	o.diff = cc.Flag("diff", "Print a diff of the changes instead of the result.").Short('d').Bool()
}

// write reports the edited text of tree, whose original text was old.
func (o *output) write(path, old string, tree *cst.Tree) error {
	text := tree.String()
	switch {
	case *o.diff:
		writeDiff(os.Stdout, old, text)
	case *o.inPlace:
		if path == "-" {
			return errors.New("cannot rewrite standard input")
		}
		if text == old {
			level.Info(logger).Log("msg", "no changes", "path", path)
			return nil
		}
		fi, err := os.Stat(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(text), fi.Mode().Perm()); err != nil {
			return err
		}
		level.Info(logger).Log("msg", "updated file", "path", path, "bytes", len(text))
	default:
		fmt.Print(text)
	}
	return nil
}

// setCommand assigns a value at a path.
type setCommand struct {
	cfg   *config
	out   output
	file  *string
	path  *string
	value *string
}

func addSetCommand(app *kingpin.Application, cfg *config) {
	cmd := &setCommand{cfg: cfg}
	cc := app.Command("set", "Set the value at a path, creating it if necessary.").Action(cmd.run)
	cmd.out.register(cc)
	cmd.file = cc.Arg("file", "Input file (- for stdin).").Required().String()
	cmd.path = cc.Arg("path", "Path of member names and indices, for example $.a.b[0].").Required().String()
	cmd.value = cc.Arg("value", "JSONC text of the new value.").Required().String()
}

func (cmd *setCommand) run(*kingpin.ParseContext) error {
	tree, err := cmd.cfg.readTree(*cmd.file)
	if err != nil {
		return err
	}
	old := tree.String()
	if err := setValue(tree, *cmd.path, *cmd.value); err != nil {
		return err
	}
	return cmd.out.write(*cmd.file, old, tree)
}

// setValue parses text as a value and assigns it at path in tree.
func setValue(tree *cst.Tree, path, text string) error {
	opts := tree.Options()
	v, err := ast.ParseValue(text, &opts)
	if err != nil {
		return fmt.Errorf("parse value: %w", err)
	}
	n, err := cursor.Set(tree, path, v)
	if err != nil {
		return err
	}
	level.Debug(logger).Log("msg", "set value", "path", path, "span", n.Span())
	return nil
}

// removeCommand deletes the values selected by a path expression.
type removeCommand struct {
	cfg  *config
	out  output
	file *string
	path *string
}

func addRemoveCommand(app *kingpin.Application, cfg *config) {
	cmd := &removeCommand{cfg: cfg}
	cc := app.Command("rm", "Remove the values selected by a JSONPath expression.").Action(cmd.run)
	cmd.out.register(cc)
	cmd.file = cc.Arg("file", "Input file (- for stdin).").Required().String()
	cmd.path = cc.Arg("path", "JSONPath expression, for example $..debug.").Required().String()
}

func (cmd *removeCommand) run(*kingpin.ParseContext) error {
	tree, err := cmd.cfg.readTree(*cmd.file)
	if err != nil {
		return err
	}
	old := tree.String()
	n, err := removeValues(tree, *cmd.path)
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "removed values", "path", *cmd.path, "count", n)
	return cmd.out.write(*cmd.file, old, tree)
}

// removeValues removes the values of tree selected by path, and reports the
// number removed. The value of an object member is removed with its key.
func removeValues(tree *cst.Tree, path string) (int, error) {
	nodes, err := cursor.Select(tree.Root(), path)
	if err != nil {
		return 0, err
	}

	// Remove later nodes first, so that an enclosing value is not removed
	// before the values nested within it.
	slices.Reverse(nodes)
	var nr int
	for _, n := range nodes {
		if p := n.Parent(); p.Kind() == cst.Member {
			n = p
		}
		if !n.IsAttached() {
			continue
		}
		if err := n.Remove(); err != nil {
			return nr, err
		}
		nr++
	}
	return nr, nil
}
