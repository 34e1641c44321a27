// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"fmt"
	"strings"
)

// A Span describes a contiguous span of a source input.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

// Len reports the length of s in bytes.
func (s Span) Len() int { return s.End - s.Pos }

// Contains reports whether o lies entirely within s.
func (s Span) Contains(o Span) bool { return s.Pos <= o.Pos && o.End <= s.End }

func (s Span) String() string { return fmt.Sprintf("[%d,%d)", s.Pos, s.End) }

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Location describes the complete location of a range of source text,
// including line and column offsets.
type Location struct {
	Span
	First, Last LineCol
}

// LocationOf computes the complete location of span in src. Offsets outside
// src are clamped to its bounds. A CR LF pair counts as a single line break.
func LocationOf(src string, span Span) Location {
	return Location{
		Span:  span,
		First: lineColAt(src, span.Pos),
		Last:  lineColAt(src, span.End),
	}
}

func lineColAt(src string, off int) LineCol {
	off = min(max(off, 0), len(src))
	head := src[:off]
	line := strings.Count(head, "\n")
	start := strings.LastIndexByte(head, '\n') + 1
	return LineCol{Line: line + 1, Column: off - start}
}
