// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// An Anchor represents a location in source text. The methods of an Anchor
// will report the location, token type, and contents of the anchor.
type Anchor interface {
	Token() Token       // Returns the token type of the anchor
	Text() string       // Returns the raw (undecoded) text of the anchor
	Span() Span         // Returns the span of the anchor
	Location() Location // Returns the full location of the anchor
}

// A Handler handles events from parsing an input stream.  If a method reports
// an error, parsing stops and that error is returned to the caller.
// The parser ensures objects and arrays are correctly balanced.
//
// The Anchor argument to a Handler method is only valid for the duration of
// that method call. If the method needs to retain information about the
// location after it returns, it must copy the relevant data. The text of an
// anchor is a substring of the source and may be retained.
type Handler interface {
	// Begin a new object, whose open brace is at loc.
	BeginObject(loc Anchor) error

	// End the most-recently-opened object, whose close brace is at loc.
	EndObject(loc Anchor) error

	// Begin a new array, whose open bracket is at loc.
	BeginArray(loc Anchor) error

	// End the most-recently-opened array, whose close bracket is at loc.
	EndArray(loc Anchor) error

	// Begin a new object member, whose key is at loc. The key token is a
	// String (still quoted), or a Word, Number, True, False, or Null if
	// unquoted keys are enabled.
	BeginMember(loc Anchor) error

	// End the current object member. This is called as soon as the value of
	// the member is complete, and loc is the last token of that value.
	EndMember(loc Anchor) error

	// Report a data value at the given location. The type of the value can be
	// recovered from the token. String tokens are quoted.
	Value(loc Anchor) error

	// EndOfInput reports the end of the input.
	EndOfInput(loc Anchor)
}

// CommentHandler is an optional interface that a Handler may implement to
// handle comment tokens. If a handler implements this method and comments are
// enabled, Comment will be called for each comment token that occurs in the
// input. If the handler does not provide this method, comments will be
// silently discarded.
type CommentHandler interface {
	// Process the line or block comment at the specified location.
	// Line comments include their leading "//" but not the line break.
	// Block comments include their leading "/*" and trailing "*/".
	Comment(loc Anchor)
}

// TriviaHandler is an optional interface that a Handler may implement to
// receive the tokens that do not otherwise produce events: whitespace,
// newlines, and the "," and ":" separators. Together with CommentHandler,
// this allows a handler to observe every byte of the input in order.
type TriviaHandler interface {
	Trivia(loc Anchor)
}

// Stream is a stream parser that consumes input and delivers events to a
// Handler corresponding with the structure of the input. A Stream parses a
// single document, consisting of at most one value surrounded by optional
// whitespace and comments.
type Stream struct {
	s    *Scanner
	opts Options

	ch  CommentHandler
	th  TriviaHandler
	eof bool
}

// NewStream constructs a new Stream that consumes src. If opts == nil, the
// stream uses [Default] options.
func NewStream(src string, opts *Options) *Stream {
	sc := NewScanner(src, opts)
	return &Stream{s: sc, opts: sc.Options()}
}

func (s *Stream) recoverParseError(errp *error) {
	if serr := recover(); serr != nil {
		switch err := serr.(type) {
		case *Error:
			*errp = err
		case handlerError:
			*errp = err.error
		default:
			panic(serr)
		}
	}
}

// Parse parses the input and delivers events to h until either an error
// occurs or the input is exhausted. An input with no value (only whitespace
// and comments, or nothing) is valid, and produces only EndOfInput. In case
// of a lexical or syntax error, the returned error has type [*Error].
func (s *Stream) Parse(h Handler) (err error) {
	defer s.recoverParseError(&err)
	s.ch, _ = h.(CommentHandler)
	s.th, _ = h.(TriviaHandler)
	s.s.KeepTrivia(s.th != nil)

	if s.next(); s.eof {
		h.EndOfInput(s.s)
		return nil
	}
	s.parseElement(h)
	if tok := s.next(); !s.eof {
		s.fail(ExtraInput, s.s.Span(), "unexpected %v after value", tok)
	}
	h.EndOfInput(s.s)
	return nil
}

// parseElement consumes a single value of any type.
func (s *Stream) parseElement(h Handler) {
	switch tok := s.s.Token(); tok {
	case LBrace:
		s.checkError(h.BeginObject(s.s))
		s.parseMembers(h)
		s.checkError(h.EndObject(s.s))
	case LSquare:
		s.checkError(h.BeginArray(s.s))
		s.parseElements(h)
		s.checkError(h.EndArray(s.s))
	case Number, String, True, False, Null:
		s.checkError(h.Value(s.s))
	case Word:
		if !s.opts.AllowUnquotedKeys {
			s.fail(WordNotAllowed, s.s.Span(), "unquoted word %q", s.s.Text())
		}
		s.checkError(h.Value(s.s))
	default:
		s.fail(UnexpectedToken, s.s.Span(), "unexpected %v", tok)
	}
}

// parseMembers consumes zero or more key:value object members.
// Precondition: token == LBrace.
// Postcondition: token == RBrace.
func (s *Stream) parseMembers(h Handler) {
	tok := s.advance("object")
	for tok != RBrace {
		s.checkKey(tok)
		s.checkError(h.BeginMember(s.s))
		if tok := s.advance("object"); tok != Colon {
			s.fail(ExpectedToken, s.s.Span(), "%s after object key", tokLabel([]Token{Colon}, tok))
		}
		s.trivia()
		s.advance("object")
		s.parseElement(h)
		s.checkError(h.EndMember(s.s))

		// Check whether we have more members (",") or are done ("}").
		tok = s.advance("object")
		if tok == Comma {
			comma := s.s.Span()
			s.trivia()
			if tok = s.advance("object"); tok == RBrace && !s.opts.AllowTrailingCommas {
				s.fail(TrailingCommaNotAllowed, comma, "after last object member")
			}
		} else if tok != RBrace {
			s.fail(ExpectedToken, s.s.Span(), "%s", tokLabel([]Token{Comma, RBrace}, tok))
		}
	}
}

// parseElements consumes zero or more comma-separated array values.
// Precondition: token == LSquare.
// Postcondition: token == RSquare.
func (s *Stream) parseElements(h Handler) {
	tok := s.advance("array")
	for tok != RSquare {
		s.parseElement(h)

		// Check whether we have more elements (",") or are done ("]").
		tok = s.advance("array")
		if tok == Comma {
			comma := s.s.Span()
			s.trivia()
			if tok = s.advance("array"); tok == RSquare && !s.opts.AllowTrailingCommas {
				s.fail(TrailingCommaNotAllowed, comma, "after last array element")
			}
		} else if tok != RSquare {
			s.fail(ExpectedToken, s.s.Span(), "%s", tokLabel([]Token{Comma, RSquare}, tok))
		}
	}
}

// checkKey reports an error if tok cannot be an object key.
func (s *Stream) checkKey(tok Token) {
	if tok == String {
		return
	} else if !tokOneOf(tok, Word, Number, True, False, Null) {
		s.fail(ExpectedToken, s.s.Span(), "%s", tokLabel([]Token{String, RBrace}, tok))
	} else if !s.opts.AllowUnquotedKeys {
		s.fail(UnquotedKeyNotAllowed, s.s.Span(), "unquoted key %q", s.s.Text())
	}
}

// next advances to the next significant token, delivering trivia and
// comments to the handler. At the end of input it sets s.eof and returns
// Invalid.
func (s *Stream) next() Token {
	for {
		err := s.s.Next()
		if err == io.EOF {
			s.eof = true
			return Invalid
		} else if err != nil {
			panic(asError(err))
		}
		switch tok := s.s.Token(); tok {
		case LineComment, BlockComment:
			if s.ch != nil {
				s.ch.Comment(s.s)
			}
		case Whitespace, Newline:
			s.trivia()
		default:
			return tok
		}
	}
}

// advance is as next, but reports an error at the end of input. The label
// names the enclosing construct.
func (s *Stream) advance(label string) Token {
	tok := s.next()
	if s.eof {
		s.fail(UnexpectedEnd, s.s.Span(), "unterminated %s", label)
	}
	return tok
}

// trivia delivers the current token to the trivia handler, if there is one.
func (s *Stream) trivia() {
	if s.th != nil {
		s.th.Trivia(s.s)
	}
}

func (s *Stream) fail(kind ErrorKind, span Span, msg string, args ...any) {
	panic(Errorf(kind, span, msg, args...))
}

func (s *Stream) checkError(err error) {
	if err != nil {
		panic(handlerError{err})
	}
}

type handlerError struct{ error }

func (h handlerError) Unwrap() error { return h.error }

func asError(err error) *Error {
	if e, ok := AsError(err); ok {
		return e
	}
	return &Error{Kind: UnknownError, Message: err.Error(), err: err}
}

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []Token, got any) string {
	if len(tokens) == 0 {
		return fmt.Sprint(got)
	}
	var exp string
	if len(tokens) == 1 {
		exp = tokens[0].String()
	} else {
		last := len(tokens) - 1
		ss := make([]string, len(tokens)-1)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}

// tokOneOf reports whether cur is an element of tokens.
func tokOneOf(cur Token, tokens ...Token) bool {
	return slices.Contains(tokens, cur)
}
