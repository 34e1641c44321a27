// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"archive/zip"
	"errors"
	"flag"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/creachadair/jsonc"
	"github.com/creachadair/jsonc/ast"
	"github.com/creachadair/jsonc/cst"
	"github.com/creachadair/jsonc/value"
)

var (
	doHardTest = flag.Bool("compliance-test", false,
		"Run full compliance test")
	hardTestURL = flag.String("compliance-test-repo", "https://github.com/nst/JSONTestSuite",
		"Compliance test repository URL")
	hardTestArchive = flag.String("compliance-test-archive", "json-test-suite.zip",
		"Local cache for the compliance test archive")

	// The cases exercised here are those described by the article "Parsing
	// JSON is a Minefield", https://seriot.ch/projects/parsing_json.html.
	//
	// Accepted (y_*) cases must parse as strict JSON, and must also parse in
	// the default JSONC dialect, where the syntax tree reproduces the input
	// exactly. Rejected (n_*) cases must fail as strict JSON with an error
	// located within the input. Indeterminate (i_*) cases are not exercised.
)

// A suiteCase is one input file of the compliance suite.
type suiteCase struct {
	Name string // base name without extension, e.g., "y_array_empty"
	Tag  string // "y", "n", or "i"
	Text string
}

func openArchive(t *testing.T, path string) *zip.Reader {
	t.Helper()

	if fi, err := os.Stat(path); err == nil {
		zf, err := os.Open(path)
		if err != nil {
			t.Fatalf("Open archive: %v", err)
		}
		t.Cleanup(func() { zf.Close() })
		zr, err := zip.NewReader(zf, fi.Size())
		if err != nil {
			t.Fatalf("Open reader: %v", err)
		}
		return zr
	} else if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Stat archive: %v", err)
	}

	fullURL := *hardTestURL + "/archive/refs/heads/master.zip"
	t.Logf("Fetching %q ...", fullURL)
	rsp, err := http.Get(fullURL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	defer rsp.Body.Close()
	if ctype := rsp.Header.Get("content-type"); ctype != "application/zip" {
		t.Fatalf("Unexpected content-type: %q", ctype)
	}

	zf, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create output: %v", err)
	}
	t.Cleanup(func() { zf.Close() })

	size, err := io.Copy(zf, rsp.Body)
	if err != nil {
		t.Fatalf("Write output: %v", err)
	}
	zr, err := zip.NewReader(zf, size)
	if err != nil {
		t.Fatalf("Open reader: %v", err)
	}
	return zr
}

// loadSuite returns the parsing cases of the compliance suite.
func loadSuite(t *testing.T) []suiteCase {
	t.Helper()

	var out []suiteCase
	for _, f := range openArchive(t, *hardTestArchive).File {
		_, tail, ok := strings.Cut(f.Name, "/test_parsing/")
		if !ok || filepath.Ext(tail) != ".json" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Open %q: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Read %q: %v", f.Name, err)
		}
		name := strings.TrimSuffix(tail, ".json")
		tag, _, _ := strings.Cut(name, "_")
		out = append(out, suiteCase{Name: name, Tag: tag, Text: string(data)})
	}
	return out
}

// parseStrict parses text as strict JSON, and reports an error if it has no
// value.
func parseStrict(text string) (ast.Value, error) {
	doc, err := ast.Parse(text, jsonc.Strict())
	if err != nil {
		return nil, err
	} else if doc.Value == nil {
		return nil, errors.New("no value")
	}
	return doc.Value, nil
}

// checkAccepted verifies that text parses in every dialect, and that the
// concrete and abstract trees agree about its value.
func checkAccepted(t *testing.T, text string) {
	t.Helper()
	if _, err := parseStrict(text); err != nil {
		t.Fatalf("Parse strict: unexpected error: %v", err)
	}
	want, err := ast.ParseValue(text, nil)
	if err != nil {
		t.Fatalf("Parse JSONC: unexpected error: %v", err)
	}
	tree, err := cst.Parse(text, nil)
	if err != nil {
		t.Fatalf("Parse CST: unexpected error: %v", err)
	}
	if got := tree.String(); got != text {
		t.Errorf("CST text: got %q, want %q", got, text)
	}
	got, err := tree.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: unexpected error: %v", err)
	}
	if !value.Equal(got, want) {
		t.Errorf("Snapshot: got %s, want %s", value.Format(got), value.Format(want))
	}
}

// checkRejected verifies that text does not parse as strict JSON, and that
// the error is located within the input. It reports whether the default
// JSONC dialect accepts the text.
func checkRejected(t *testing.T, text string) bool {
	t.Helper()
	v, err := parseStrict(text)
	if err == nil {
		t.Fatalf("Parse strict: got %s, wanted error", value.Format(mustDecode(t, v)))
	}
	if jerr, ok := jsonc.AsError(err); ok {
		if sp := jerr.Span; sp.Pos < 0 || sp.End > len(text) || sp.Pos > sp.End {
			t.Errorf("Error span %v is outside the input (%d bytes)", sp, len(text))
		}
		t.Logf("- [expected]: %v at %v", err, jerr.Location(text).First)
	} else {
		t.Logf("- [expected]: %v", err)
	}
	_, err = cst.Parse(text, nil)
	return err == nil
}

func mustDecode(t *testing.T, v ast.Value) value.Value {
	t.Helper()
	dv, err := ast.Decode(v, jsonc.Strict())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return dv
}

func TestCompliance(t *testing.T) {
	if !*doHardTest {
		t.Skip("Skipping compliance test because --compliance-test is false")
	}
	var numYes, numNo, numExtended int
	for _, tc := range loadSuite(t) {
		switch tc.Tag {
		case "y":
			numYes++
			t.Run(tc.Name, func(t *testing.T) { checkAccepted(t, tc.Text) })
		case "n":
			numNo++
			t.Run(tc.Name, func(t *testing.T) {
				if checkRejected(t, tc.Text) {
					numExtended++
				}
			})
		case "i":
			// OK, skip silently
		default:
			t.Logf("WARNING: Skipped non-matching filename %q", tc.Name)
		}
	}
	t.Logf("Ran %d positive tests, %d negative tests", numYes, numNo)
	t.Logf("JSONC extensions accept %d of the negative inputs", numExtended)
}
