// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cursor_test

import (
	"errors"
	"testing"

	"github.com/creachadair/jsonc/cst"
	"github.com/creachadair/jsonc/cursor"
	"github.com/creachadair/jsonc/value"
	"github.com/google/go-cmp/cmp"
)

func TestSet(t *testing.T) {
	tree := mustParse(t, `{
  "a": {"b": 1}, // keep me
  "list": [1, 2],
}`)
	steps := []struct {
		path string
		v    any
	}{
		{"$.a.b", 2},
		{"$.a.c[0]", "x"},
		{"$.list[-1]", true},
		{"$.list[2]", nil},
		{"$['new'].deep", "y"},
		{"$.list[0].z", 3},
	}
	for _, s := range steps {
		got, err := cursor.Set(tree, s.path, value.From(s.v))
		if err != nil {
			t.Fatalf("Set %q: unexpected error: %v", s.path, err)
		}
		if !got.IsAttached() {
			t.Errorf("Set %q: result is not attached", s.path)
		}
	}

	snap, err := tree.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	want := value.Object{
		{Key: "a", Value: value.Object{
			{Key: "b", Value: value.Number("2")},
			{Key: "c", Value: value.Array{value.String("x")}},
		}},
		{Key: "list", Value: value.Array{
			value.Object{{Key: "z", Value: value.Number("3")}},
			value.Bool(true),
			value.Null{},
		}},
		{Key: "new", Value: value.Object{{Key: "deep", Value: value.String("y")}}},
	}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("Result (-want, +got):\n%s", diff)
	}
	if tc := tree.Value().Member("a").TrailingComments(); len(tc) != 1 || tc[0].Text() != "// keep me" {
		t.Errorf("Comment on a: got %v, want [// keep me]", tc)
	}
}

func TestSetRoot(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		tree := mustParse(t, "// empty\n")
		if _, err := cursor.Set(tree, "$[0].name", value.From("p")); err != nil {
			t.Fatalf("Set: unexpected error: %v", err)
		}
		snap, err := tree.Snapshot()
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		want := value.Array{value.Object{{Key: "name", Value: value.String("p")}}}
		if diff := cmp.Diff(want, snap); diff != "" {
			t.Errorf("Result (-want, +got):\n%s", diff)
		}
	})
	t.Run("Replace", func(t *testing.T) {
		tree := mustParse(t, `[1, 2, 3]`)
		if _, err := cursor.Set(tree, "$", value.From(false)); err != nil {
			t.Fatalf("Set: unexpected error: %v", err)
		}
		if got := tree.String(); got != "false" {
			t.Errorf("Result: got %q, want false", got)
		}
	})
}

func TestSetErrors(t *testing.T) {
	tests := []struct {
		path string
		want error
	}{
		{"$..x", cursor.ErrUnsupported},
		{"$.a[*]", cursor.ErrUnsupported},
		{"$.a[0,1]", cursor.ErrUnsupported},
		{"$.a[1:2]", cursor.ErrUnsupported},
		{"$.list[5]", cst.ErrRange},
		{"$.list[7].x", cst.ErrRange},
	}
	for _, tc := range tests {
		tree := mustParse(t, `{"a": {}, "list": [1, 2]}`)
		before := tree.String()
		got, err := cursor.Set(tree, tc.path, value.From(1))
		if !errors.Is(err, tc.want) {
			t.Errorf("Set %q: got %v, %v; want %v", tc.path, got, err, tc.want)
		}
		if tree.String() != before {
			t.Errorf("Set %q: tree was modified: %q", tc.path, tree.String())
		}
	}
	if _, err := cursor.Set(mustParse(t, "{}"), "nonsense", value.From(1)); err == nil {
		t.Error("Set with invalid path: got nil, want error")
	}
}
