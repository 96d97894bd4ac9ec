// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtext

import (
	"errors"

	"github.com/creachadair/jtext/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string {
	body := escape.Quote(mem.S(src), escape.Options{})
	buf := make([]byte, 0, len(body)+2)
	buf = append(buf, '"')
	buf = append(buf, body...)
	return string(append(buf, '"'))
}

// Unquote decodes a JSON string value. Matching double or single quotation
// marks are removed, and escape sequences are replaced with their unescaped
// equivalents.
//
// Invalid escapes and unpaired surrogates are replaced by the Unicode
// replacement rune. Unquote reports an error for an incomplete escape
// sequence.
func Unquote(src []byte) ([]byte, error) {
	n := len(src)
	if n < 2 || (src[0] != '"' && src[0] != '\'') || src[n-1] != src[0] {
		return nil, errors.New("missing quotations")
	}
	return escape.Unquote(mem.B(src[1 : n-1]))
}
