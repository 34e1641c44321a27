// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cursor_test

import (
	"errors"
	"testing"

	"github.com/creachadair/jsonc/cst"
	"github.com/creachadair/jsonc/cursor"
	"github.com/google/go-cmp/cmp"
)

const storeJSON = `{
  // Adapted from the JSONPath examples.
  "store": {
    "book": [
      {"category": "reference", "author": "Nigel Rees", "price": 8.95},
      {"category": "fiction", "author": "Evelyn Waugh", "price": 12.99},
      {"category": "fiction", "author": "Herman Melville", "isbn": "0-553-21311-3"},
      {"category": "fiction", "author": "J. R. R. Tolkien", "price": 22.99},
    ],
    "bicycle": {"color": "red", "price": 19.95},
  },
}`

func TestSelect(t *testing.T) {
	tree := mustParse(t, storeJSON)
	texts := func(ns []cst.Node) []string {
		out := []string{}
		for _, n := range ns {
			out = append(out, n.Text())
		}
		return out
	}

	tests := []struct {
		expr string
		want []string
	}{
		{"$", []string{tree.Value().Text()}},
		{"$.store.bicycle.color", []string{`"red"`}},
		{"$['store'].bicycle['color']", []string{`"red"`}},
		{"$.store.book[*].author", []string{
			`"Nigel Rees"`, `"Evelyn Waugh"`, `"Herman Melville"`, `"J. R. R. Tolkien"`,
		}},
		{"$..author", []string{
			`"Nigel Rees"`, `"Evelyn Waugh"`, `"Herman Melville"`, `"J. R. R. Tolkien"`,
		}},
		{"$.store..price", []string{"8.95", "12.99", "22.99", "19.95"}},
		{"$..book[2].isbn", []string{`"0-553-21311-3"`}},
		{"$..book[-1:].price", []string{"22.99"}},
		{"$..book[0,1].price", []string{"8.95", "12.99"}},
		{"$..book[:2].category", []string{`"reference"`, `"fiction"`}},
		{"$..book[9]", []string{}},
		{"$.store.bicycle.*", []string{`"red"`, "19.95"}},
		{"$.nonesuch.author", []string{}},
		{".store.bicycle.price", []string{"19.95"}},
	}
	for _, tc := range tests {
		got, err := cursor.Select(tree.Root(), tc.expr)
		if err != nil {
			t.Errorf("Select %q: unexpected error: %v", tc.expr, err)
			continue
		}
		if diff := cmp.Diff(tc.want, texts(got)); diff != "" {
			t.Errorf("Select %q (-want, +got):\n%s", tc.expr, diff)
		}
	}
}

func TestSelectErrors(t *testing.T) {
	tree := mustParse(t, storeJSON)
	if got, err := cursor.Select(tree.Root(), "$..book[?(@.isbn)]"); !errors.Is(err, cursor.ErrUnsupported) {
		t.Errorf("Select filter: got %v, %v; want %v", got, err, cursor.ErrUnsupported)
	}
	if got, err := cursor.Select(tree.Root(), "store"); err == nil {
		t.Errorf("Select invalid path: got %v, want error", got)
	}
	empty := mustParse(t, "// nothing here\n")
	if got, err := cursor.Select(empty.Root(), "$.a"); err != nil || len(got) != 0 {
		t.Errorf("Select on empty document: got %v, %v; want none", got, err)
	}
}
