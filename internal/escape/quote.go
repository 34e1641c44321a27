// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// Quote encodes a string to escape characters for inclusion in a JSON string.
// If ascii is true, all non-ASCII characters are escaped as \u sequences,
// with surrogate pairs for characters outside the Basic Multilingual Plane.
// Invalid UTF-8 is replaced by an escaped replacement rune.
func Quote(src mem.RO, ascii bool) []byte {
	buf := make([]byte, 0, src.Len()+2)
	putByte := func(bs ...byte) { buf = append(buf, bs...) }
	putU := func(r rune) {
		putByte('\\', 'u',
			hexDigit[(r>>12)&15], hexDigit[(r>>8)&15],
			hexDigit[(r>>4)&15], hexDigit[r&15])
	}

	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		src = src.SliceFrom(max(n, 1))
		if r < utf8.RuneSelf {
			if r < ' ' {
				if b := controlEsc[r]; b != 0 {
					putByte('\\', b)
				} else {
					putU(r)
				}
			} else if r == '\\' || r == '"' {
				putByte('\\', byte(r))
			} else {
				putByte(byte(r))
			}
			continue
		}

		switch {
		case r == utf8.RuneError, r == '\u2028', r == '\u2029':
			putU(r)
		case ascii && r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			putU(hi)
			putU(lo)
		case ascii:
			putU(r)
		default:
			buf = utf8.AppendRune(buf, r)
		}
	}
	return buf
}
