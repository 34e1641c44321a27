// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// An Error reports a problem with an escape sequence. The offsets are
// relative to the input passed to Unquote.
type Error struct {
	Pos, End  int  // the span of the offending escape sequence
	Surrogate bool // the escape is an unpaired UTF-16 surrogate
	Message   string
}

func (e *Error) Error() string { return fmt.Sprintf("offset %d: %s", e.Pos, e.Message) }

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. A \u escape
// for a UTF-16 high surrogate combines with an immediately following \u
// escape for a low surrogate into a single code point. If replace is true,
// unpaired surrogates are replaced by the Unicode replacement rune; otherwise
// they are reported as an *Error. Unquote reports an *Error for an invalid or
// incomplete escape sequence.
func Unquote(src mem.RO, replace bool) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		dec = mem.Append(dec, src)
		return dec, nil
	}

	putByte := func(bs ...byte) { dec = append(dec, bs...) }
	putRune := func(r rune) { dec = utf8.AppendRune(dec, r) }

	base := 0 // offset of src in the original input
	for src.Len() != 0 {
		dec = mem.Append(dec, src.SliceTo(i))
		esc := base + i

		src = src.SliceFrom(i + 1)
		base = esc + 1
		if src.Len() == 0 {
			return nil, &Error{Pos: esc, End: esc + 1, Message: "incomplete escape sequence"}
		}
		r, n := mem.DecodeRune(src)
		if n == 0 {
			n++
		}

		src = src.SliceFrom(n)
		base += n
		switch r {
		case '"', '\\', '/':
			putByte(byte(r))
		case 'b':
			putByte('\b')
		case 'f':
			putByte('\f')
		case 'n':
			putByte('\n')
		case 'r':
			putByte('\r')
		case 't':
			putByte('\t')
		case 'u':
			v, ok := parseHex4(src)
			if !ok {
				return nil, &Error{Pos: esc, End: min(base+4, base+src.Len()), Message: "invalid Unicode escape"}
			}
			src = src.SliceFrom(4)
			base += 4

			switch {
			case utf16.IsSurrogate(rune(v)) && v < 0xdc00:
				// A high surrogate must be followed immediately by \u and a low surrogate.
				if src.Len() >= 6 && src.At(0) == '\\' && src.At(1) == 'u' {
					if lo, ok := parseHex4(src.SliceFrom(2)); ok && lo >= 0xdc00 && lo <= 0xdfff {
						putRune(utf16.DecodeRune(rune(v), rune(lo)))
						src = src.SliceFrom(6)
						base += 6
						break
					}
				}
				fallthrough
			case utf16.IsSurrogate(rune(v)):
				if !replace {
					return nil, &Error{
						Pos: esc, End: esc + 6, Surrogate: true,
						Message: fmt.Sprintf("unpaired surrogate \\u%04x", v),
					}
				}
				putRune(utf8.RuneError)
			default:
				putRune(rune(v))
			}
		default:
			return nil, &Error{Pos: esc, End: esc + 1 + n, Message: fmt.Sprintf("invalid %q after escape", r)}
		}

		// Look for the next escape sequence, and if one is not found we can blit
		// the rest of the input and go home.
		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dec = mem.Append(dec, src)
			break
		}
	}
	return dec, nil
}

// parseHex4 decodes the first 4 bytes of data as a hexadecimal value.
func parseHex4(data mem.RO) (int64, bool) {
	if data.Len() < 4 {
		return 0, false
	}
	var v int64
	for i := range 4 {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, false
		}
	}
	return v, true
}
