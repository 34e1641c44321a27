// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"strings"

	"github.com/creachadair/jsonc"
)

// A Comment is a comment attached to a node of the syntax tree.
type Comment struct {
	Raw      string     // the complete source text, including markers
	Text     string     // the text without markers and surrounding space
	Span     jsonc.Span // the location of the comment in the source
	Block    bool       // true for /* ... */, false for // ...
	Position Position   // the relation of the comment to its node
}

// Position describes where a comment occurs relative to its node.
type Position byte

const (
	// Leading comments precede the node.
	Leading Position = iota

	// Trailing comments follow the node on the line where it ends.
	Trailing

	// Dangling comments occur inside an object or array after its last
	// member or element, or in a document after its value.
	Dangling
)

func (p Position) String() string {
	switch p {
	case Leading:
		return "leading"
	case Trailing:
		return "trailing"
	case Dangling:
		return "dangling"
	}
	return "unknown"
}

func newComment(loc jsonc.Anchor) Comment {
	raw := loc.Text()
	c := Comment{Raw: raw, Span: loc.Span(), Block: loc.Token() == jsonc.BlockComment}
	if c.Block {
		c.Text = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(raw, "/*"), "*/"))
	} else {
		c.Text = strings.TrimSpace(strings.TrimPrefix(raw, "//"))
	}
	return c
}

// Lines returns the lines of text of c with comment markers removed, and
// with the indentation common to all lines after the first removed so that
// the text is flush left. Trailing whitespace is removed from each line.
func (c Comment) Lines() []string {
	lines := strings.Split(c.Text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	if len(lines) > 1 {
		outdentCommentLines(lines)
	} else {
		lines[0] = strings.TrimSpace(lines[0])
	}
	return lines
}

// outdentCommentLines modifies lines to remove the shortest prefix of leading
// indentation that can be removed to leave the text flush left, and any
// trailing whitespace. The first line is assumed to be already cleaned of
// leading whitespace. Lines containing only whitespace do not count toward
// the common prefix.
func outdentCommentLines(lines []string) {
	pfx := -1
	for _, line := range lines[1:] {
		ns := len(line) - len(strings.TrimLeft(line, " \t"))
		if ns == len(line) {
			continue // blank
		}
		if pfx < 0 || ns < pfx {
			pfx = ns
		}
	}
	lines[0] = strings.TrimRight(lines[0], " \t")
	for i, line := range lines[1:] {
		if len(line) >= pfx && pfx > 0 {
			line = line[pfx:]
		}
		lines[i+1] = strings.TrimRight(line, " \t")
	}
}
