// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package convert_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/creachadair/jsonc"
	"github.com/creachadair/jsonc/ast"
	"github.com/creachadair/jsonc/convert"
	"github.com/creachadair/jsonc/value"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/tailscale/hujson"
)

func mustDecode(t *testing.T, src string) value.Value {
	t.Helper()
	v, err := ast.ParseValue(src, nil)
	if err != nil {
		t.Fatalf("ParseValue %q: %v", src, err)
	}
	return v
}

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{`null`, `null`},
		{`[true, false]`, `[true,false]`},
		{`"a b"`, `"a b"`},
		{`{a: 1, "b": [2.5, -0.1e3], c: {},}`, `{"a":1,"b":[2.5,-0.1e3],"c":{}}`},
		{`[+1, 0x1F, 1_000, -0x10, 007, +2.5]`, `[1,31,1000,-16,7,2.5]`},
		{`[18446744073709551615]`, `[18446744073709551615]`},
		{`{x: word}`, `{"x":"word"}`},
		{`/* c */ [1, // x
		  2]`, `[1,2]`},
	}
	for _, tc := range tests {
		v := mustDecode(t, tc.input)
		var buf bytes.Buffer
		enc := jsontext.NewEncoder(&buf)
		if err := convert.WriteJSON(enc, v); err != nil {
			t.Errorf("WriteJSON %#q: unexpected error: %v", tc.input, err)
			continue
		}
		if got := string(bytes.TrimSpace(buf.Bytes())); got != tc.want {
			t.Errorf("WriteJSON %#q: got %#q, want %#q", tc.input, got, tc.want)
		}
	}
}

func TestWriteJSONMultiline(t *testing.T) {
	v := mustDecode(t, `{a: [1, 2]}`)
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf, jsontext.Multiline(true), jsontext.WithIndent("  "))
	if err := convert.WriteJSON(enc, v); err != nil {
		t.Fatalf("WriteJSON: unexpected error: %v", err)
	}
	const want = "{\n  \"a\": [\n    1,\n    2\n  ]\n}\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Output (-want, +got):\n%s", diff)
	}
}

func TestWriteJSONErrors(t *testing.T) {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf)
	err := convert.WriteJSON(enc, value.Array{value.Number("+1e999")})
	if !errors.Is(err, jsonc.NumberOutOfRange) {
		t.Errorf("WriteJSON +1e999: got %v, want %v", err, jsonc.NumberOutOfRange)
	}
	if _, err := convert.ToHuJSON(value.Object{{Key: "x", Value: value.Number("0x")}}); !errors.Is(err, jsonc.Conversion) {
		t.Errorf("ToHuJSON 0x: got %v, want %v", err, jsonc.Conversion)
	}
}

func TestHuJSON(t *testing.T) {
	t.Run("ToHuJSON", func(t *testing.T) {
		v := mustDecode(t, `{b: [1, +2, null], "a": {x: true}, w: what}`)
		hv, err := convert.ToHuJSON(v)
		if err != nil {
			t.Fatalf("ToHuJSON: unexpected error: %v", err)
		}
		const want = `{"b":[1,2,null],"a":{"x":true},"w":"what"}`
		if got := hv.String(); got != want {
			t.Errorf("ToHuJSON: got %#q, want %#q", got, want)
		}
		if !hv.IsStandard() {
			t.Error("ToHuJSON: result is not standard JSON")
		}
	})

	t.Run("FromHuJSON", func(t *testing.T) {
		hv, err := hujson.Parse([]byte(`{
  // comment
  "z": [1, "two", false,],
  "a": null,
  "z": 3e2, /* dup */
}`))
		if err != nil {
			t.Fatalf("hujson.Parse: %v", err)
		}
		got, err := convert.FromHuJSON(hv)
		if err != nil {
			t.Fatalf("FromHuJSON: unexpected error: %v", err)
		}
		want := value.Object{
			{Key: "z", Value: value.Array{value.Number("1"), value.String("two"), value.Bool(false)}},
			{Key: "a", Value: value.Null{}},
			{Key: "z", Value: value.Number("3e2")},
		}
		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("FromHuJSON (-want, +got):\n%s", diff)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		v := mustDecode(t, `["\u00e9", {"k": [[], {}]}, -1.5e-3]`)
		hv, err := convert.ToHuJSON(v)
		if err != nil {
			t.Fatalf("ToHuJSON: %v", err)
		}
		hv.Format()
		got, err := convert.FromHuJSON(hv)
		if err != nil {
			t.Fatalf("FromHuJSON: %v", err)
		}
		if diff := cmp.Diff(v, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Round trip (-want, +got):\n%s", diff)
		}
	})
}
