// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jsonc"
	"github.com/creachadair/jsonc/convert"
	"github.com/creachadair/jsonc/cst"
	"github.com/go-json-experiment/json/jsontext"
)

// dumpCommand converts a document to another representation.
type dumpCommand struct {
	cfg    *config
	file   *string
	format *string
	indent *string
}

func addDumpCommand(app *kingpin.Application, cfg *config) {
	cmd := &dumpCommand{cfg: cfg}
	cc := app.Command("dump", "Convert a document to standard JSON, HuJSON, or a token listing.").Action(cmd.run)
	cmd.format = cc.Flag("format", "Output format.").Short('f').Default("json").Enum("json", "hujson", "tokens")
	cmd.indent = cc.Flag("indent", "Indentation for JSON output; empty for compact output.").Default("  ").String()
	cmd.file = cc.Arg("file", "Input file (- for stdin).").Required().String()
}

func (cmd *dumpCommand) run(*kingpin.ParseContext) error {
	if *cmd.format == "tokens" {
		src, err := readInput(*cmd.file)
		if err != nil {
			return err
		}
		if err := dumpTokens(os.Stdout, src, cmd.cfg.options()); err != nil {
			return sourceError(*cmd.file, src, err)
		}
		return nil
	}
	tree, err := cmd.cfg.readTree(*cmd.file)
	if err != nil {
		return err
	}
	return dumpValue(os.Stdout, tree, *cmd.format, *cmd.indent)
}

// dumpValue writes the value of tree to w in the given format.
func dumpValue(w io.Writer, tree *cst.Tree, format, indent string) error {
	v, err := tree.Snapshot()
	if err != nil {
		return err
	} else if v == nil {
		return nil // empty document
	}
	switch format {
	case "hujson":
		hv, err := convert.ToHuJSON(v)
		if err != nil {
			return err
		}
		hv.Format()
		_, err = w.Write(hv.Pack())
		return err
	default:
		var opts []jsontext.Options
		if indent != "" {
			opts = append(opts, jsontext.WithIndent(indent))
		}
		return convert.WriteJSON(jsontext.NewEncoder(w, opts...), v)
	}
}

// dumpTokens writes one line to w for each token of src, giving its location,
// type, and text.
func dumpTokens(w io.Writer, src string, opts *jsonc.Options) error {
	s := jsonc.NewScanner(src, opts)
	s.KeepTrivia(true)
	for {
		err := s.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		loc := s.Location()
		fmt.Fprintf(w, "%-8v %-14v %q\n", loc.First, s.Token(), s.Text())
	}
}
