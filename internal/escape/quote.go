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

// Options control how Quote escapes its input.
// The zero value escapes for a double-quoted string.
type Options struct {
	Quote    byte // the delimiter, '"' or '\''; zero means '"'
	NonASCII bool // escape all non-ASCII characters
	HTML     bool // escape HTML-sensitive characters
}

func (o Options) quote() byte {
	if o.Quote == 0 {
		return '"'
	}
	return o.Quote
}

// Quote encodes a string to escape characters for inclusion in a JSON string
// delimited by opts.Quote. The delimiters are not added.
func Quote(src mem.RO, opts Options) []byte {
	buf := make([]byte, 0, src.Len())
	putByte := func(bs ...byte) { buf = append(buf, bs...) }
	putHex := func(r rune) {
		putByte('\\', 'u', hexDigit[(r>>12)&15], hexDigit[(r>>8)&15], hexDigit[(r>>4)&15], hexDigit[r&15])
	}
	q := opts.quote()

	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		if n == 0 {
			n = 1
		}
		src = src.SliceFrom(n)

		if r < utf8.RuneSelf {
			switch {
			case r < ' ':
				if b := controlEsc[r]; b != 0 {
					putByte('\\', b)
				} else {
					putHex(r)
				}
			case r == '\\' || byte(r) == q:
				putByte('\\', byte(r))
			case opts.HTML && (r == '<' || r == '>' || r == '&' || r == '\'' || r == '"'):
				putHex(r)
			case opts.NonASCII && r == 0x7f:
				putHex(r)
			default:
				putByte(byte(r))
			}
			continue
		}

		switch {
		case r == utf8.RuneError, r == '\u2028', r == '\u2029':
			putHex(r)
		case opts.NonASCII:
			if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
				putHex(r1)
				putHex(r2)
			} else {
				putHex(r)
			}
		default:
			buf = utf8.AppendRune(buf, r)
		}
	}
	return buf
}
