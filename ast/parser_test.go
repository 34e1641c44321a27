// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"errors"
	"testing"

	"github.com/creachadair/jsonc"
	"github.com/creachadair/jsonc/ast"
	"github.com/creachadair/jsonc/value"
	"github.com/google/go-cmp/cmp"
)

const commentInput = `// header
{
  // lead a
  "a": 1, // trail a
  "b": [
    true, /* t */
    null
    // dangling arr
  ],
  /* lead c */ c: "x"
  // dangling obj
}
// doc tail
`

// comText summarizes the comments of n as "position:text" strings.
func comText(n ast.Node) []string {
	var out []string
	for _, c := range n.Comments() {
		out = append(out, c.Position.String()+":"+c.Text)
	}
	return out
}

func mustParse(t *testing.T, src string, opts *jsonc.Options) *ast.Document {
	t.Helper()
	doc, err := ast.Parse(src, opts)
	if err != nil {
		t.Fatalf("Parse %q: unexpected error: %v", src, err)
	}
	return doc
}

func TestComments(t *testing.T) {
	doc := mustParse(t, commentInput, nil)
	obj, ok := doc.Value.(*ast.Object)
	if !ok {
		t.Fatalf("Value: got %T, want *ast.Object", doc.Value)
	}
	arr := obj.Find("b").Value.(*ast.Array)

	tests := []struct {
		name string
		node ast.Node
		want []string
	}{
		{"document", doc, []string{"dangling:doc tail"}},
		{"object", obj, []string{"leading:header", "dangling:dangling obj"}},
		{"a", obj.Find("a"), []string{"leading:lead a", "trailing:trail a"}},
		{"b", obj.Find("b"), nil},
		{"b[0]", arr.Values[0], []string{"trailing:t"}},
		{"b[1]", arr.Values[1], nil},
		{"array", arr, []string{"dangling:dangling arr"}},
		{"c", obj.Find("c"), []string{"leading:lead c"}},
	}
	for _, tc := range tests {
		if diff := cmp.Diff(tc.want, comText(tc.node)); diff != "" {
			t.Errorf("Comments of %s (-want, +got):\n%s", tc.name, diff)
		}
	}

	t.Run("Spans", func(t *testing.T) {
		for _, c := range obj.Find("a").Comments() {
			if got := commentInput[c.Span.Pos:c.Span.End]; got != c.Raw {
				t.Errorf("Comment span %v: got %q, want %q", c.Span, got, c.Raw)
			}
		}
		if got, want := doc.Span(), (jsonc.Span{Pos: 0, End: len(commentInput)}); got != want {
			t.Errorf("Document span: got %v, want %v", got, want)
		}
		if got := commentInput[obj.Span().Pos:obj.Span().End]; got[0] != '{' || got[len(got)-1] != '}' {
			t.Errorf("Object span %v: got %q", obj.Span(), got)
		}
	})
}

func TestCommentsSameLine(t *testing.T) {
	tests := []struct {
		input string
		want  [][]string // comments of each member or element
	}{
		{`[1, /* c */ 2]`, [][]string{nil, {"leading:c"}}},
		{`[1 /* c */, 2]`, [][]string{{"trailing:c"}, nil}},
		{`[1, /* x */ /* y */ 2]`, [][]string{nil, {"leading:x", "leading:y"}}},
		{`[1 /* x */, /* y */ 2]`, [][]string{{"trailing:x"}, {"leading:y"}}},
		{`[1, /* c */]`, [][]string{{"trailing:c"}}},
		{"[1, // c\n 2]", [][]string{{"trailing:c"}, nil}},
		{`{"a": 1, /* c */ "b": [2]}`, [][]string{nil, {"leading:c"}}},
		{`{"a": 1, /* c */ "b": {}}`, [][]string{nil, {"leading:c"}}},
		{"{\"a\": [1], /* c */\n\"b\": 2}", [][]string{{"trailing:c"}, nil}},
	}
	for _, tc := range tests {
		doc := mustParse(t, tc.input, nil)
		var items []ast.Node
		switch v := doc.Value.(type) {
		case *ast.Array:
			for _, elt := range v.Values {
				items = append(items, elt)
			}
		case *ast.Object:
			for _, m := range v.Members {
				items = append(items, m)
			}
		}
		var got [][]string
		for _, n := range items {
			got = append(got, comText(n))
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Parse %q comments (-want, +got):\n%s", tc.input, diff)
		}
	}
}

func TestCommentLines(t *testing.T) {
	const input = `/* First line
       indented
     less indented
*/ null`
	doc := mustParse(t, input, nil)
	cs := doc.Value.Comments()
	if len(cs) != 1 {
		t.Fatalf("Comments: got %d, want 1", len(cs))
	}
	want := []string{"First line", "  indented", "less indented"}
	if diff := cmp.Diff(want, cs[0].Lines()); diff != "" {
		t.Errorf("Lines (-want, +got):\n%s", diff)
	}
	if !cs[0].Block {
		t.Error("Block: got false, want true")
	}
}

func TestKeyOrder(t *testing.T) {
	const input = `{"z": 1, "a": {"y": true, "b": null}, "m": [], "a": "dup"}`

	got, err := ast.ParseValue(input, nil)
	if err != nil {
		t.Fatalf("ParseValue: unexpected error: %v", err)
	}
	want := value.Object{
		{Key: "z", Value: value.Number("1")},
		{Key: "a", Value: value.Object{
			{Key: "y", Value: value.Bool(true)},
			{Key: "b", Value: value.Null{}},
		}},
		{Key: "m", Value: value.Array{}},
		{Key: "a", Value: value.String("dup")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Ordered value (-want, +got):\n%s", diff)
	}

	opts := jsonc.Default()
	opts.PreserveKeyOrder = false
	mv, err := ast.ParseValue(input, opts)
	if err != nil {
		t.Fatalf("ParseValue: unexpected error: %v", err)
	}
	m, ok := mv.(*value.Map)
	if !ok {
		t.Fatalf("ParseValue: got %T, want *value.Map", mv)
	}
	if diff := cmp.Diff([]string{"a", "m", "z"}, m.Keys()); diff != "" {
		t.Errorf("Map keys (-want, +got):\n%s", diff)
	}
	if got := m.Get("a"); got != value.String("dup") {
		t.Errorf("Map a: got %v, want the last duplicate", got)
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		i64   int64
		f64   float64
	}{
		{"0", 0, 0},
		{"-17", -17, -17},
		{"2.5e2", 250, 250},
		{"0x1F", 31, 31},
		{"+5", 5, 5},
		{"1_000_000", 1000000, 1000000},
		{"-0x10", -16, -16},
	}
	for _, tc := range tests {
		doc := mustParse(t, tc.input, nil)
		num, ok := doc.Value.(*ast.Number)
		if !ok {
			t.Fatalf("Parse %q: got %T, want *ast.Number", tc.input, doc.Value)
		}
		if num.Text() != tc.input {
			t.Errorf("Text: got %q, want %q", num.Text(), tc.input)
		}
		if got, err := num.Int64(); err != nil || got != tc.i64 {
			t.Errorf("Int64 %q: got %v, %v; want %v", tc.input, got, err, tc.i64)
		}
		if got, err := num.Float64(); err != nil || got != tc.f64 {
			t.Errorf("Float64 %q: got %v, %v; want %v", tc.input, got, err, tc.f64)
		}
	}

	t.Run("Strict", func(t *testing.T) {
		for _, input := range []string{"0x1F", "+5", "1_000", "007"} {
			if doc, err := ast.Parse(input, jsonc.Strict()); !errors.Is(err, jsonc.LooseNumberNotAllowed) {
				t.Errorf("Parse %q: got %v, %v; want %v", input, doc, err, jsonc.LooseNumberNotAllowed)
			}
		}
	})

	t.Run("Errors", func(t *testing.T) {
		doc := mustParse(t, `[1.5, 99999999999999999999, -3]`, nil)
		vs := doc.Value.(*ast.Array).Values
		if _, err := vs[0].(*ast.Number).Int64(); !errors.Is(err, jsonc.InvalidNumberValue) {
			t.Errorf("Int64 1.5: got %v, want %v", err, jsonc.InvalidNumberValue)
		}
		_, err := vs[1].(*ast.Number).Int64()
		if !errors.Is(err, jsonc.NumberOutOfRange) || !errors.Is(err, jsonc.Conversion) {
			t.Errorf("Int64 big: got %v, want %v", err, jsonc.NumberOutOfRange)
		}
		if jerr, ok := jsonc.AsError(err); !ok || jerr.Span != vs[1].Span() {
			t.Errorf("Int64 big: got error %v, want span %v", err, vs[1].Span())
		}
		if _, err := vs[2].(*ast.Number).Uint64(); !errors.Is(err, jsonc.NumberOutOfRange) {
			t.Errorf("Uint64 -3: got %v, want %v", err, jsonc.NumberOutOfRange)
		}
	})
}

func TestStrings(t *testing.T) {
	const input = `{"ok": "a\tbé😀", "bad": "x\udc00y", w: word}`
	doc := mustParse(t, input, nil)
	obj := doc.Value.(*ast.Object)

	ok := obj.Find("ok").Value.(*ast.String)
	if got, err := ok.Value(); err != nil || got != "a\tbé😀" {
		t.Errorf("Value: got %q, %v; want %q", got, err, "a\tbé😀")
	}

	// Decoding errors are reported lazily, with spans inside the string.
	bad := obj.Find("bad").Value.(*ast.String)
	_, err := bad.Value()
	jerr, isErr := jsonc.AsError(err)
	if !isErr || jerr.Kind != jsonc.UnpairedSurrogate {
		t.Fatalf("Value: got %v, want %v", err, jsonc.UnpairedSurrogate)
	}
	if !bad.Span().Contains(jerr.Span) {
		t.Errorf("Error span %v is not within %v", jerr.Span, bad.Span())
	}
	if _, err := ast.Decode(obj, nil); !errors.Is(err, jsonc.UnpairedSurrogate) {
		t.Errorf("Decode: got %v, want %v", err, jsonc.UnpairedSurrogate)
	}

	opts := jsonc.Default()
	opts.Surrogates = jsonc.SurrogateReplace
	v, err := ast.ParseValue(input, opts)
	if err != nil {
		t.Fatalf("ParseValue: unexpected error: %v", err)
	}
	if got := v.(value.Object).Get("bad"); got != value.String("x\uFFFDy") {
		t.Errorf("Replaced: got %q, want %q", got, "x\uFFFDy")
	}
	if got := v.(value.Object).Get("w"); got != value.Word("word") {
		t.Errorf("Word: got %#v, want word", got)
	}
}

func TestKeys(t *testing.T) {
	doc := mustParse(t, `{"q": 1, bare: 2, 10: 3, true: 4}`, nil)
	var kinds []value.Kind
	var names []string
	for _, m := range doc.Value.(*ast.Object).Members {
		kinds = append(kinds, m.Key.Kind())
		name, err := m.Name()
		if err != nil {
			t.Fatalf("Name: unexpected error: %v", err)
		}
		names = append(names, name)
	}
	if diff := cmp.Diff([]value.Kind{
		value.StringKind, value.WordKind, value.NumberKind, value.WordKind,
	}, kinds); diff != "" {
		t.Errorf("Key kinds (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"q", "bare", "10", "true"}, names); diff != "" {
		t.Errorf("Key names (-want, +got):\n%s", diff)
	}

	if _, err := ast.Parse(`{bare: 1}`, jsonc.Strict()); !errors.Is(err, jsonc.UnquotedKeyNotAllowed) {
		t.Errorf("Strict unquoted key: got %v, want %v", err, jsonc.UnquotedKeyNotAllowed)
	}
}

func TestEmpty(t *testing.T) {
	for _, input := range []string{"", "  \n", "// only a comment\n", "/* a */ /* b */"} {
		doc := mustParse(t, input, nil)
		if doc.Value != nil {
			t.Errorf("Parse %q: got value %v, want nil", input, doc.Value)
		}
		v, err := ast.ParseValue(input, nil)
		if v != nil || err != nil {
			t.Errorf("ParseValue %q: got %v, %v; want nil, nil", input, v, err)
		}
	}
	doc := mustParse(t, "/* a */ /* b */", nil)
	if diff := cmp.Diff([]string{"dangling:a", "dangling:b"}, comText(doc)); diff != "" {
		t.Errorf("Document comments (-want, +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		opts  *jsonc.Options
		kind  jsonc.ErrorKind
	}{
		{`{"a" 1}`, nil, jsonc.ExpectedToken},
		{`[1, 2`, nil, jsonc.UnexpectedEnd},
		{`[1,]`, jsonc.Strict(), jsonc.TrailingCommaNotAllowed},
		{`// c` + "\n1", jsonc.Strict(), jsonc.CommentNotAllowed},
		{`word`, jsonc.Strict(), jsonc.WordNotAllowed},
		{`1 2`, nil, jsonc.ExtraInput},
		{`"abc`, nil, jsonc.UnterminatedString},
	}
	for _, tc := range tests {
		doc, err := ast.Parse(tc.input, tc.opts)
		if err == nil {
			t.Errorf("Parse %q: got %v, want error", tc.input, doc)
			continue
		}
		if doc != nil {
			t.Errorf("Parse %q: got partial tree %v", tc.input, doc)
		}
		if !errors.Is(err, tc.kind) || errors.Is(err, jsonc.Conversion) {
			t.Errorf("Parse %q: got %v, want %v", tc.input, err, tc.kind)
		}
	}
}
