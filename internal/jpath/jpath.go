// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package jpath implements a minimal JSONPath expression parser.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/creachadair/jsonc"
)

/*
Grammar:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." name
  step = ".." name
  step = "[" value "]"
  step = "[" slice "]"
  name = WORD
  name = "'" QTEXT "'"
  name = QUOTED
  name = "*"
 value = name
 value = INDEX ["," INDEX ...]
 value = filter
 slice = [INDEX] ":" [INDEX]
filter = "?(" TEXT ")"

  WORD = RE `[\w$-]+`
 QTEXT = RE `[^']*`
QUOTED = a JSON string literal
 INDEX = RE `-?\d+`
  TEXT = { all text with nested parentheses }

Based on:
  https://www.ietf.org/archive/id/draft-goessner-dispatch-jsonpath-00.html
*/

// An Expr is a parsed JSONPath expression.
type Expr []Step

// Parse parses s as a JSONPath expression. As a convenience, the leading "$"
// may be omitted if s begins with "." or "[".
func Parse(s string) (Expr, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok && !strings.HasPrefix(s, ".") && !strings.HasPrefix(s, "[") {
		return nil, errors.New("missing root marker")
	}
	if !ok {
		t = s
	}
	var out Expr
	for t != "" {
		step, rest, err := parseStep(t)
		if err != nil {
			return nil, fmt.Errorf("at offset %d: %w", len(s)-len(t), err)
		}
		out = append(out, step)
		t = rest
	}
	return out, nil
}

func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		buf.WriteString(s.String())
	}
	return buf.String()
}

func parseStep(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, ".."); ok {
		name, wild, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid ..name: %w", err)
		}
		return Step{Op: Recur, Name: name, Wild: wild}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "."); ok {
		name, wild, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid .name: %w", err)
		}
		if wild {
			return Step{Op: Wildcard}, u, nil
		}
		return Step{Op: Member, Name: name}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		step, u, err := parseBracket(t)
		if err != nil {
			return Step{}, t, err
		}
		u, ok := strings.CutPrefix(u, "]")
		if !ok {
			return Step{}, u, errors.New("missing close bracket")
		}
		return step, u, nil
	}
	return Step{}, s, fmt.Errorf("invalid path step %q", s)
}

func parseName(s string) (name string, wild bool, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "*"); ok {
		return "*", true, t, nil
	}
	if m := wordRE.FindString(s); m != "" {
		return m, false, s[len(m):], nil
	}
	if m := quoteRE.FindStringSubmatch(s); m != nil {
		return m[1], false, s[len(m[0]):], nil
	}
	if strings.HasPrefix(s, `"`) {
		sc := jsonc.NewScanner(s, nil)
		if err := sc.Next(); err != nil || sc.Token() != jsonc.String {
			return "", false, s, errors.New("invalid quoted name")
		}
		name, err := jsonc.Unquote(sc.Text(), jsonc.SurrogateReplace)
		if err != nil {
			return "", false, s, err
		}
		return name, false, s[sc.Offset():], nil
	}
	return "", false, s, errors.New("invalid name")
}

func parseBracket(s string) (Step, string, error) {
	if t, ok := strings.CutPrefix(s, "?("); ok {
		text, rest, err := parseScript(t)
		return Step{Op: Filter, Name: text}, rest, err
	}
	if indexRE.MatchString(s) || strings.HasPrefix(s, ":") {
		return parseIndices(s)
	}
	name, wild, rest, err := parseName(s)
	if err != nil {
		return Step{}, s, fmt.Errorf("invalid value: %q", s)
	} else if wild {
		return Step{Op: Wildcard}, rest, nil
	}
	return Step{Op: Member, Name: name, Quoted: true}, rest, nil
}

// parseIndices parses an index list "1,2,-1" or a slice "lo:hi".
func parseIndices(s string) (Step, string, error) {
	lo, rest, hasLo := parseInt(s)
	if u, ok := strings.CutPrefix(rest, ":"); ok {
		hi, rest, hasHi := parseInt(u)
		return Step{Op: Slice, Lo: lo, Hi: hi, HasLo: hasLo, HasHi: hasHi}, rest, nil
	}
	if !hasLo {
		return Step{}, s, errors.New("invalid index")
	}
	out := Step{Op: Index, Indices: []int{lo}}
	for {
		u, ok := strings.CutPrefix(rest, ",")
		if !ok {
			return out, rest, nil
		}
		next, v, ok := parseInt(u)
		if !ok {
			return Step{}, u, errors.New("invalid index list")
		}
		out.Indices = append(out.Indices, next)
		rest = v
	}
}

func parseInt(s string) (int, string, bool) {
	m := indexRE.FindString(s)
	if m == "" {
		return 0, s, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, s, false
	}
	return v, s[len(m):], true
}

func parseScript(s string) (text, rest string, _ error) {
	i, np := 0, 1
	for i < len(s) {
		if s[i] == ')' {
			np--
			if np == 0 {
				break
			}
		} else if s[i] == '(' {
			np++
		}
		i++
	}
	if np > 0 {
		return "", s, errors.New("unbalanced parentheses")
	}
	return s[:i], s[i+1:], nil
}

var (
	wordRE  = regexp.MustCompile(`^[\w$-]+`)
	indexRE = regexp.MustCompile(`^-?\d+`)
	quoteRE = regexp.MustCompile(`^'([^']*)'`)
)

// An Op is a path operator.
type Op byte

const (
	Invalid  Op = iota // invalid operator
	Member             // member lookup: .name or ['name']
	Index              // array index lookup: [1] or [1,2]
	Slice              // array slice: [lo:hi]
	Wildcard           // all members or elements: .* or [*]
	Recur              // recursive member lookup: ..name
	Filter             // filter: [?(...)]
)

var opText = [...]string{
	Invalid:  "invalid",
	Member:   "member",
	Index:    "index",
	Slice:    "slice",
	Wildcard: "wildcard",
	Recur:    "recur",
	Filter:   "filter",
}

func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}
	return opText[Invalid]
}

// A Step is a single step of a JSONPath expression.
type Step struct {
	Op      Op
	Name    string // for Member and Recur; the text of a Filter
	Quoted  bool   // Member was written in brackets
	Wild    bool   // Recur matches any name
	Indices []int  // for Index
	Lo, Hi  int    // for Slice, when HasLo and HasHi are set

	HasLo, HasHi bool
}

func (s Step) String() string {
	switch s.Op {
	case Member:
		if s.Quoted || wordRE.FindString(s.Name) != s.Name {
			return "[" + jsonc.Quote(s.Name) + "]"
		}
		return "." + s.Name
	case Recur:
		if s.Wild {
			return "..*"
		}
		return ".." + s.Name
	case Wildcard:
		return "[*]"
	case Index:
		ss := make([]string, len(s.Indices))
		for i, v := range s.Indices {
			ss[i] = strconv.Itoa(v)
		}
		return "[" + strings.Join(ss, ",") + "]"
	case Slice:
		var lo, hi string
		if s.HasLo {
			lo = strconv.Itoa(s.Lo)
		}
		if s.HasHi {
			hi = strconv.Itoa(s.Hi)
		}
		return "[" + lo + ":" + hi + "]"
	case Filter:
		return "[?(" + s.Name + ")]"
	}
	return "[invalid]"
}

// Range returns the indices selected by a Slice step from a sequence of
// length n. Negative bounds count backward from the end.
func (s Step) Range(n int) (lo, hi int) {
	lo, hi = 0, n
	if s.HasLo {
		lo = clampIndex(s.Lo, n)
	}
	if s.HasHi {
		hi = clampIndex(s.Hi, n)
	}
	return lo, max(lo, hi)
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	return min(max(i, 0), n)
}
