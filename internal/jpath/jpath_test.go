// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jpath_test

import (
	"testing"

	"github.com/creachadair/jsonc/internal/jpath"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"$", "$"},
		{"$.store.book[*]..author", "$.store.book[*]..author"},
		{"$..author", "$..author"},
		{"$.store.*", "$.store[*]"},
		{"$..book[2]", "$..book[2]"},
		{"$..book[-1:]", "$..book[-1:]"},
		{"$..book[0,1]", "$..book[0,1]"},
		{"$..book[:2]", "$..book[:2]"},
		{"$..book[?(@.isbn)]", "$..book[?(@.isbn)]"},
		{"$..*", "$..*"},
		{"$['apple sauce'].pearPlum", `$["apple sauce"].pearPlum`},
		{`$["quote\"d"][1:3]`, `$["quote\"d"][1:3]`},
		{".a.b", "$.a.b"},
		{"[0].x-y", "$[0].x-y"},
	}
	for _, tc := range tests {
		e, err := jpath.Parse(tc.input)
		if err != nil {
			t.Errorf("Parse %q: unexpected error: %v", tc.input, err)
			continue
		}
		if got := e.String(); got != tc.want {
			t.Errorf("Parse %q: got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseSteps(t *testing.T) {
	e, err := jpath.Parse("$.a['b c'][1,-2][1:][*]..d")
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	want := jpath.Expr{
		{Op: jpath.Member, Name: "a"},
		{Op: jpath.Member, Name: "b c", Quoted: true},
		{Op: jpath.Index, Indices: []int{1, -2}},
		{Op: jpath.Slice, Lo: 1, HasLo: true},
		{Op: jpath.Wildcard},
		{Op: jpath.Recur, Name: "d"},
	}
	if diff := cmp.Diff(want, e); diff != "" {
		t.Errorf("Parse (-want, +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"a.b",
		"$.",
		"$[1",
		"$[?(@.x]",
		"$['open]",
		"$.a!",
		"$[1,]",
	}
	for _, input := range tests {
		if e, err := jpath.Parse(input); err == nil {
			t.Errorf("Parse %q: got %v, want error", input, e)
		}
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		input    string
		n        int
		wlo, whi int
	}{
		{"$[:]", 5, 0, 5},
		{"$[1:3]", 5, 1, 3},
		{"$[-2:]", 5, 3, 5},
		{"$[:-1]", 5, 0, 4},
		{"$[4:2]", 5, 4, 4},
		{"$[10:]", 3, 3, 3},
	}
	for _, tc := range tests {
		e, err := jpath.Parse(tc.input)
		if err != nil {
			t.Fatalf("Parse %q: %v", tc.input, err)
		}
		lo, hi := e[0].Range(tc.n)
		if lo != tc.wlo || hi != tc.whi {
			t.Errorf("Range %q (n=%d): got [%d:%d], want [%d:%d]", tc.input, tc.n, lo, hi, tc.wlo, tc.whi)
		}
	}
}
