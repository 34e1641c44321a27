// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"go4.org/mem"
)

// Token is the type of a lexical token in the JSONC grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Number               // number
	String               // quoted string
	Word                 // unquoted word
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null

	BlockComment // comment: /* ... */
	LineComment  // comment: // ... (not including the line break)
	Whitespace   // a run of whitespace other than line breaks
	Newline      // a line break: LF or CR LF
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Number:  "number",
	String:  "string",
	Word:    "word",
	True:    "true",
	False:   "false",
	Null:    "null",

	BlockComment: "block comment",
	LineComment:  "line comment",
	Whitespace:   "whitespace",
	Newline:      "newline",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// IsComment reports whether t is a comment token.
func (t Token) IsComment() bool { return t == BlockComment || t == LineComment }

// IsTrivia reports whether t is a comment, whitespace, or newline token.
func (t Token) IsTrivia() bool { return t >= BlockComment }

// A Scanner reads lexical tokens from an in-memory source text. Each call to
// Next advances the scanner to the next token, or reports an error.
//
// The text of each token is a substring of the source; no token data are
// copied.
type Scanner struct {
	src    string
	opts   Options
	trivia bool // report whitespace and newline tokens

	cur, ahead scanState
	peeked     bool

	off       int // offset of the first unscanned byte
	line      int // 0-based line number at off
	lineStart int // offset of the beginning of the line at off
}

// scanState records the complete state of a single token.
type scanState struct {
	tok         Token
	pos, end    int
	first, last LineCol
	err         error
}

// NewScanner constructs a new lexical scanner that consumes src. If opts ==
// nil, the scanner uses [Default] options.
func NewScanner(src string, opts *Options) *Scanner {
	return &Scanner{src: src, opts: *opts.Resolve()}
}

// KeepTrivia configures the scanner to report (true) or discard (false)
// whitespace and newline tokens. By default they are discarded. Comments are
// always reported, subject to the AllowComments option.
func (s *Scanner) KeepTrivia(ok bool) { s.trivia = ok }

// Options returns the options in effect for s.
func (s *Scanner) Options() Options { return s.opts }

// Next advances s to the next token of the input, or reports an error.
// At the end of the input, Next returns io.EOF.
//
// If the next token is malformed, Next reports an *Error, but the token type
// and span of the malformed token are still available via Token and Span.
func (s *Scanner) Next() error {
	if s.peeked {
		s.cur, s.peeked = s.ahead, false
	} else {
		s.cur = s.scan()
	}
	return s.cur.err
}

// Peek reports the type of the token after the current one, without
// consuming it. The error is the one Next will report for that token.
func (s *Scanner) Peek() (Token, error) {
	if !s.peeked {
		s.ahead = s.scan()
		s.peeked = true
	}
	return s.ahead.tok, s.ahead.err
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.cur.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.cur.err }

// Text returns the undecoded text of the current token.
func (s *Scanner) Text() string { return s.src[s.cur.pos:s.cur.end] }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.cur.pos, End: s.cur.end} }

// Offset returns the offset of the end of the current token, which is the
// position where the next token (if any) begins.
func (s *Scanner) Offset() int { return s.cur.end }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{Span: s.Span(), First: s.cur.first, Last: s.cur.last}
}

func (s *Scanner) scan() scanState {
	for {
		pos := s.off
		if pos >= len(s.src) {
			lc := LineCol{Line: s.line + 1, Column: pos - s.lineStart}
			return scanState{tok: Invalid, pos: pos, end: pos, first: lc, last: lc, err: io.EOF}
		}

		var st scanState
		switch ch := s.src[pos]; {
		case ch == '\n':
			st = s.emit(Newline, pos, pos+1)
		case ch == '\r' && s.at(pos+1) == '\n':
			st = s.emit(Newline, pos, pos+2)
		case ch == '{', ch == '}', ch == '[', ch == ']', ch == ',', ch == ':':
			return s.emit(selfDelim(ch), pos, pos+1)
		case ch == '"':
			return s.scanString(pos)
		case ch == '-' || ch == '+' || isDigit(ch):
			return s.scanNumber(pos)
		case ch == '/':
			return s.scanComment(pos)
		default:
			if end := s.spaceEnd(pos); end > pos {
				st = s.emit(Whitespace, pos, end)
				break
			}
			r, n := s.decodeRune(pos)
			if isWordStart(r) {
				return s.scanWord(pos)
			}
			if r == utf8.RuneError && n == 1 {
				return s.fail(Invalid, pos, pos+1, UnexpectedCharacter, Span{pos, pos + 1}, "invalid UTF-8")
			}
			return s.fail(Invalid, pos, pos+n, UnexpectedCharacter, Span{pos, pos + n}, "unexpected %q", r)
		}
		if s.trivia {
			return st
		}
	}
}

// emit records a token of type tok spanning [pos, end) and advances the
// scanner past it.
func (s *Scanner) emit(tok Token, pos, end int) scanState {
	st := scanState{
		tok:   tok,
		pos:   pos,
		end:   end,
		first: LineCol{Line: s.line + 1, Column: pos - s.lineStart},
	}
	if text := mem.S(s.src[pos:end]); mem.IndexByte(text, '\n') >= 0 {
		s.line += strings.Count(s.src[pos:end], "\n")
		s.lineStart = pos + strings.LastIndexByte(s.src[pos:end], '\n') + 1
	}
	st.last = LineCol{Line: s.line + 1, Column: end - s.lineStart}
	s.off = end
	return st
}

// fail records a token of type tok spanning [pos, end) whose error has the
// given kind and error span.
func (s *Scanner) fail(tok Token, pos, end int, kind ErrorKind, span Span, msg string, args ...any) scanState {
	st := s.emit(tok, pos, runeBoundary(s.src, end))
	st.err = Errorf(kind, s.roundSpan(span), msg, args...)
	return st
}

func (s *Scanner) scanString(pos int) scanState {
	src := s.src
	i := pos + 1
	for i < len(src) {
		switch ch := src[i]; {
		case ch == '"':
			return s.emit(String, pos, i+1)
		case ch == '\\':
			n, st, ok := s.scanEscape(pos, i)
			if !ok {
				return st
			}
			i += n
		case ch == '\n' || ch == '\r':
			return s.fail(String, pos, i, UnterminatedString, Span{pos, i}, "line break in string")
		case ch < ' ':
			return s.fail(String, pos, i+1, UnexpectedCharacter, Span{i, i + 1}, "unescaped control %q", ch)
		case ch >= utf8.RuneSelf:
			r, n := s.decodeRune(i)
			if r == utf8.RuneError && n == 1 {
				return s.fail(String, pos, i+1, UnexpectedCharacter, Span{i, i + 1}, "invalid UTF-8 in string")
			}
			i += n
		default:
			i++
		}
	}
	return s.fail(String, pos, len(src), UnterminatedString, Span{pos, len(src)}, "missing closing quote")
}

// scanEscape checks the validity of the escape sequence beginning at offset i
// of a string beginning at pos. It reports the length of the escape sequence,
// or a failure state.
func (s *Scanner) scanEscape(pos, i int) (int, scanState, bool) {
	src := s.src
	if i+1 >= len(src) {
		return 0, s.fail(String, pos, len(src), UnterminatedString, Span{pos, len(src)}, "incomplete escape"), false
	}
	switch ch := src[i+1]; ch {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return 2, scanState{}, true
	case 'u':
		for j := i + 2; j < i+6; j++ {
			if j >= len(src) {
				return 0, s.fail(String, pos, len(src), UnterminatedString, Span{pos, len(src)}, "incomplete Unicode escape"), false
			} else if !isHexDigit(src[j]) {
				return 0, s.fail(String, pos, j+1, InvalidEscape, Span{i, j + 1}, "want 4 hex digits after \\u"), false
			}
		}
		return 6, scanState{}, true
	default:
		r, _ := s.decodeRune(i + 1)
		return 0, s.fail(String, pos, i+2, InvalidEscape, Span{i, i + 2}, "invalid %q after escape", r), false
	}
}

func (s *Scanner) scanNumber(pos int) scanState {
	src := s.src
	i := pos

	var loose Span
	var looseMsg string
	noteLoose := func(p, e int, msg string) {
		if loose.End == 0 {
			loose, looseMsg = Span{p, e}, msg
		}
	}
	invalid := func(end int, msg string) scanState {
		end = s.wordEnd(end) // consume the rest of the malformed literal
		return s.fail(Number, pos, end, InvalidNumber, Span{pos, end}, "%s", msg)
	}

	switch src[i] {
	case '+':
		noteLoose(i, i+1, "leading plus sign")
		i++
	case '-':
		i++
	}
	if s.at(i) == '0' && (s.at(i+1)|0x20) == 'x' {
		noteLoose(i, i+2, "hexadecimal literal")
		j, sep := s.scanDigits(i+2, isHexDigit)
		if j == i+2 {
			return invalid(j, "missing hexadecimal digits")
		} else if sep >= 0 {
			noteLoose(sep, sep+1, "digit separator")
		}
		i = j
	} else {
		j, sep := s.scanDigits(i, isDigit)
		if j == i {
			return invalid(j, "missing digits")
		}
		if src[i] == '0' && j > i+1 {
			noteLoose(i, i+1, "leading zero")
		}
		if sep >= 0 {
			noteLoose(sep, sep+1, "digit separator")
		}
		i = j

		// If a decimal point follows, consume a fractional part.
		if s.at(i) == '.' {
			j, sep := s.scanDigits(i+1, isDigit)
			if j == i+1 {
				return invalid(j, "no digits after decimal point")
			} else if sep >= 0 {
				noteLoose(sep, sep+1, "digit separator")
			}
			i = j
		}

		// If an exponent follows, consume it.
		if s.at(i)|0x20 == 'e' {
			i++
			if c := s.at(i); c == '+' || c == '-' {
				i++
			}
			j, sep := s.scanDigits(i, isDigit)
			if j == i {
				return invalid(j, "missing exponent digits")
			} else if sep >= 0 {
				noteLoose(sep, sep+1, "digit separator")
			}
			i = j
		}
	}

	// A number must not run directly into a word, as in "15px".
	if end := s.wordEnd(i); end > i {
		return invalid(end, "invalid character in number")
	}
	if loose.End != 0 && !s.opts.AllowLooseNumbers {
		return s.fail(Number, pos, i, LooseNumberNotAllowed, loose, "%s", looseMsg)
	}
	return s.emit(Number, pos, i)
}

// scanDigits returns the end offset of a run of digits satisfying f starting
// at offset i. Single "_" separators are permitted between digits; sep is the
// offset of the first separator, or -1 if there are none.
func (s *Scanner) scanDigits(i int, f func(byte) bool) (end, sep int) {
	src, start := s.src, i
	sep = -1
	for i < len(src) {
		if f(src[i]) {
			i++
		} else if src[i] == '_' && i > start && i+1 < len(src) && f(src[i+1]) {
			if sep < 0 {
				sep = i
			}
			i++
		} else {
			break
		}
	}
	return i, sep
}

func (s *Scanner) scanWord(pos int) scanState {
	end := s.wordEnd(pos)
	switch s.src[pos:end] {
	case "true":
		return s.emit(True, pos, end)
	case "false":
		return s.emit(False, pos, end)
	case "null":
		return s.emit(Null, pos, end)
	}
	return s.emit(Word, pos, end)
}

// wordEnd returns the end offset of a run of word characters at offset i.
func (s *Scanner) wordEnd(i int) int {
	for i < len(s.src) {
		r, n := s.decodeRune(i)
		if !isWordRune(r) {
			break
		}
		i += n
	}
	return i
}

func (s *Scanner) scanComment(pos int) scanState {
	var st scanState
	switch s.at(pos + 1) {
	case '/': // line comment, not including the line break
		end := len(s.src)
		if i := mem.IndexByte(mem.S(s.src[pos:]), '\n'); i >= 0 {
			end = pos + i
			if end > pos+2 && s.src[end-1] == '\r' {
				end--
			}
		}
		st = s.emit(LineComment, pos, end)

	case '*': // block comment
		i := mem.Index(mem.S(s.src[pos+2:]), mem.S("*/"))
		if i < 0 {
			return s.fail(BlockComment, pos, len(s.src), UnterminatedComment, Span{pos, len(s.src)}, "missing */")
		}
		st = s.emit(BlockComment, pos, pos+2+i+2)

	default:
		return s.fail(Invalid, pos, pos+1, UnexpectedCharacter, Span{pos, pos + 1}, "unexpected %q", '/')
	}
	if !s.opts.AllowComments {
		st.err = Errorf(CommentNotAllowed, Span{st.pos, st.end}, "%v", st.tok)
	}
	return st
}

// spaceEnd returns the end offset of a run of non-newline whitespace
// beginning at i, or i if there is none.
func (s *Scanner) spaceEnd(i int) int {
	for i < len(s.src) {
		ch := s.src[i]
		if ch == ' ' || ch == '\t' || (ch == '\r' && s.at(i+1) != '\n') {
			i++
			continue
		} else if ch < utf8.RuneSelf {
			break
		}
		r, n := s.decodeRune(i)
		if !isSpaceRune(r) {
			break
		}
		i += n
	}
	return i
}

// at returns the byte at offset i of the input, or 0 if i is out of range.
func (s *Scanner) at(i int) byte {
	if i < len(s.src) {
		return s.src[i]
	}
	return 0
}

func (s *Scanner) decodeRune(i int) (rune, int) {
	return mem.DecodeRune(mem.S(s.src[i:]))
}

// roundSpan adjusts the end of span forward to the next UTF-8 character
// boundary in the source, if it is not already on one.
func (s *Scanner) roundSpan(span Span) Span {
	span.End = runeBoundary(s.src, span.End)
	return span
}

// runeBoundary returns the smallest offset i >= off that does not fall inside
// a multi-byte UTF-8 sequence of src.
func runeBoundary(src string, off int) int {
	if off >= len(src) {
		return len(src)
	}
	start := off
	for start > 0 && off-start < utf8.UTFMax && !utf8.RuneStart(src[start]) {
		start--
	}
	if start == off {
		return off
	}
	if _, n := utf8.DecodeRuneInString(src[start:]); start+n > off {
		return start + n
	}
	return off
}

func isSpaceRune(r rune) bool {
	return r != '\n' && (unicode.IsSpace(r) || r == '\uFEFF')
}

func isWordStart(r rune) bool { return r == '_' || r == '$' || unicode.IsLetter(r) }
func isWordRune(r rune) bool  { return isWordStart(r) || r == '-' || unicode.IsDigit(r) }
func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch byte) Token { return self[strings.IndexByte("{}[],:", ch)] }
