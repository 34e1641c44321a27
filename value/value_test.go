// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package value_test

import (
	"errors"
	"math"
	"testing"

	"github.com/creachadair/jsonc"
	"github.com/creachadair/jsonc/value"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

func TestKind(t *testing.T) {
	tests := []struct {
		tok  jsonc.Token
		want value.Kind
	}{
		{jsonc.LBrace, value.ObjectKind},
		{jsonc.LSquare, value.ArrayKind},
		{jsonc.String, value.StringKind},
		{jsonc.Number, value.NumberKind},
		{jsonc.True, value.BoolKind},
		{jsonc.False, value.BoolKind},
		{jsonc.Null, value.NullKind},
		{jsonc.Word, value.WordKind},
		{jsonc.Comma, value.Invalid},
		{jsonc.LineComment, value.Invalid},
	}
	for _, tc := range tests {
		if got := value.KindOf(tc.tok); got != tc.want {
			t.Errorf("KindOf(%v): got %v, want %v", tc.tok, got, tc.want)
		}
	}
	if got := value.Kind(99).String(); got != "invalid" {
		t.Errorf("Kind(99): got %q, want invalid", got)
	}
	if !value.ArrayKind.IsContainer() || value.WordKind.IsContainer() {
		t.Error("IsContainer: wrong result")
	}
}

func TestFind(t *testing.T) {
	obj := value.Object{
		{Key: "a", Value: value.Number("1")},
		{Key: "b", Value: value.Bool(true)},
		{Key: "a", Value: value.Number("2")},
	}
	if got := obj.Get("a"); got != value.Number("2") {
		t.Errorf("Get a: got %v, want 2", got)
	}
	if got, ok := obj.Find("c"); ok {
		t.Errorf("Find c: got %v, want not found", got)
	}
	if diff := cmp.Diff([]string{"a", "b", "a"}, obj.Keys()); diff != "" {
		t.Errorf("Keys (-want, +got):\n%s", diff)
	}

	m := value.NewMap()
	m.Set("b", value.Number("1"))
	m.Set("a", value.Null{})
	m.Set("b", value.Number("3"))
	if m.Len() != 2 {
		t.Errorf("Len: got %d, want 2", m.Len())
	}
	if got := m.Get("b"); got != value.Number("3") {
		t.Errorf("Get b: got %v, want 3", got)
	}
	if diff := cmp.Diff([]string{"a", "b"}, m.Keys()); diff != "" {
		t.Errorf("Keys (-want, +got):\n%s", diff)
	}
	if v, ok := m.Find("a"); !ok || v != (value.Null{}) {
		t.Errorf("Find a: got %v, %v; want null, true", v, ok)
	}
	var seen []string
	for k := range m.All() {
		seen = append(seen, k)
		break
	}
	if diff := cmp.Diff([]string{"a"}, seen); diff != "" {
		t.Errorf("All with early stop (-want, +got):\n%s", diff)
	}
	want := value.Object{{Key: "a", Value: value.Null{}}, {Key: "b", Value: value.Number("3")}}
	if diff := cmp.Diff(want, m.Object()); diff != "" {
		t.Errorf("Object (-want, +got):\n%s", diff)
	}
}

func TestNumber(t *testing.T) {
	if z, err := value.Number("0x1F").Int64(); err != nil || z != 31 {
		t.Errorf("Int64: got %d, %v; want 31", z, err)
	}
	if z, err := value.Number("1_000").Uint64(); err != nil || z != 1000 {
		t.Errorf("Uint64: got %d, %v; want 1000", z, err)
	}
	if f, err := value.Number("+2.5").Float64(); err != nil || f != 2.5 {
		t.Errorf("Float64: got %g, %v; want 2.5", f, err)
	}
	if z, err := value.Number("-1").Uint64(); err == nil {
		t.Errorf("Uint64(-1): got %d, want error", z)
	}
}

func TestFrom(t *testing.T) {
	got := value.From(map[string]any{
		"b": 1,
		"a": []any{true, nil, "s", 2.5},
		"c": []any{int8(-3), uint16(7), float32(0.5), uint64(math.MaxUint64)},
		"d": value.Word("w"),
	})
	want := value.Object{
		{Key: "a", Value: value.Array{value.Bool(true), value.Null{}, value.String("s"), value.Number("2.5")}},
		{Key: "b", Value: value.Number("1")},
		{Key: "c", Value: value.Array{
			value.Number("-3"), value.Number("7"), value.Number("0.5"), value.Number("18446744073709551615"),
		}},
		{Key: "d", Value: value.Word("w")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("From (-want, +got):\n%s", diff)
	}

	t.Run("Panics", func(t *testing.T) {
		mtest.MustPanic(t, func() { value.From([]bool{true}) })
		mtest.MustPanic(t, func() { value.From(func() {}) })
		mtest.MustPanic(t, func() { value.From(math.Inf(1)) })
		mtest.MustPanic(t, func() { value.From(math.NaN()) })
	})
}

func TestToAny(t *testing.T) {
	got, err := value.ToAny(value.Object{
		{Key: "a", Value: value.Array{value.Number("1"), value.String("x"), value.Word("w")}},
		{Key: "n", Value: value.Null{}},
		{Key: "t", Value: value.Bool(true)},
	})
	if err != nil {
		t.Fatalf("ToAny: unexpected error: %v", err)
	}
	want := map[string]any{"a": []any{1.0, "x", "w"}, "n": nil, "t": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToAny (-want, +got):\n%s", diff)
	}
	if v, err := value.ToAny(value.Array{value.Number("0x")}); err == nil {
		t.Errorf("ToAny bad number: got %v, want error", v)
	}
}

func TestEqual(t *testing.T) {
	m := value.NewMap()
	m.Set("b", value.Number("1"))
	m.Set("a", value.Number("2"))

	tests := []struct {
		a, b value.Value
		want bool
	}{
		{nil, nil, true},
		{value.Null{}, nil, false},
		{value.Number("1.0"), value.Number("1"), true},
		{value.Number("0x10"), value.Number("16"), true},
		{value.Number("1"), value.String("1"), false},
		{value.Word("x"), value.String("x"), false},
		{value.Array{value.Bool(true)}, value.Array{value.Bool(true)}, true},
		{value.Array{value.Bool(true)}, value.Array{}, false},
		{m, value.Object{{Key: "a", Value: value.Number("2")}, {Key: "b", Value: value.Number("1")}}, true},
		{m, value.Object{{Key: "b", Value: value.Number("1")}, {Key: "a", Value: value.Number("2")}}, false},
	}
	for i, tc := range tests {
		if got := value.Equal(tc.a, tc.b); got != tc.want {
			t.Errorf("Equal %d (%s, %s): got %v, want %v",
				i, value.Format(tc.a), value.Format(tc.b), got, tc.want)
		}
	}
}

func TestFormat(t *testing.T) {
	m := value.NewMap()
	m.Set("z", value.Array{})
	m.Set("q\"", value.Word("Infinity"))

	tests := []struct {
		input value.Value
		want  string
	}{
		{nil, `null`},
		{value.Null{}, `null`},
		{value.Bool(false), `false`},
		{value.Number("+0x1F"), `+0x1F`},
		{value.String("a\nb"), `"a\nb"`},
		{value.Object{}, `{}`},
		{value.Object{{Key: "a", Value: value.Array{value.Number("1"), value.Null{}}}}, `{"a":[1,null]}`},
		{m, `{"q\"":Infinity,"z":[]}`},
	}
	for _, tc := range tests {
		if got := value.Format(tc.input); got != tc.want {
			t.Errorf("Format: got %s, want %s", got, tc.want)
		}
	}
}

func TestWalk(t *testing.T) {
	v := value.Object{
		{Key: "a", Value: value.Array{value.Number("1"), value.Object{{Key: "b", Value: value.Number("2")}}}},
		{Key: "c", Value: value.Null{}},
	}
	walk := func(f func(value.Path) error) ([]string, error) {
		var paths []string
		err := value.Walk(v, func(p value.Path, _ value.Value) error {
			paths = append(paths, p.String())
			return f(p)
		})
		return paths, err
	}

	t.Run("All", func(t *testing.T) {
		got, err := walk(func(value.Path) error { return nil })
		if err != nil {
			t.Fatalf("Walk: unexpected error: %v", err)
		}
		want := []string{`$`, `$["a"]`, `$["a"][0]`, `$["a"][1]`, `$["a"][1]["b"]`, `$["c"]`}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Paths (-want, +got):\n%s", diff)
		}
	})
	t.Run("Skip", func(t *testing.T) {
		got, err := walk(func(p value.Path) error {
			if len(p) == 1 && p[0] == "a" {
				return value.ErrSkip
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Walk: unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{`$`, `$["a"]`, `$["c"]`}, got); diff != "" {
			t.Errorf("Paths (-want, +got):\n%s", diff)
		}
	})
	t.Run("Stop", func(t *testing.T) {
		stop := errors.New("stop")
		got, err := walk(func(p value.Path) error {
			if len(p) == 2 {
				return stop
			}
			return nil
		})
		if !errors.Is(err, stop) {
			t.Errorf("Walk: got error %v, want %v", err, stop)
		}
		if diff := cmp.Diff([]string{`$`, `$["a"]`, `$["a"][0]`}, got); diff != "" {
			t.Errorf("Paths (-want, +got):\n%s", diff)
		}
	})
	t.Run("Map", func(t *testing.T) {
		m := value.NewMap()
		m.Set("y", value.Bool(true))
		m.Set("x", value.Array{value.Null{}})
		var got []string
		value.Walk(m, func(p value.Path, _ value.Value) error {
			got = append(got, p.String())
			return nil
		})
		if diff := cmp.Diff([]string{`$`, `$["x"]`, `$["x"][0]`, `$["y"]`}, got); diff != "" {
			t.Errorf("Paths (-want, +got):\n%s", diff)
		}
	})
}
