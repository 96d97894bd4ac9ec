// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtext

import (
	"io"
	"math"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/creachadair/jtext/internal/escape"

	"go4.org/mem"
)

// scanString reads a string literal delimited by quote and returns its
// decoded value. Raw text is accumulated in r.buf with escapes validated, and
// decoded once the closing delimiter is found.
func (r *Reader) scanString(quote rune) (string, error) {
	r.next() // the opening delimiter
	r.buf = r.buf[:0]
	for {
		pos := r.here()
		ch, err := r.next()
		if err == io.EOF {
			return "", r.failAt(pos, LexicalError, ErrUnterminatedString,
				"Unterminated string. Expected delimiter: "+string(quote))
		} else if err != nil {
			return "", err
		}

		switch {
		case ch == quote:
			dec, err := escape.Unquote(mem.B(r.buf))
			if err != nil {
				return "", r.failAt(pos, LexicalError, ErrInvalidEscape, err.Error())
			}
			return string(dec), nil

		case ch == '\\':
			r.buf = append(r.buf, '\\')
			if err := r.scanEscape(quote); err != nil {
				return "", err
			}

		case ch < ' ' && r.strict:
			return "", r.failAt(pos, LexicalError, ErrUnexpectedChar,
				"Invalid character in string: "+strconv.QuoteRune(ch))

		default:
			r.buf = utf8.AppendRune(r.buf, ch)
		}
	}
}

// scanEscape validates the remainder of an escape sequence whose backslash
// has been consumed, and appends its text to r.buf.
func (r *Reader) scanEscape(quote rune) error {
	pos := r.here()
	ch, err := r.next()
	if err == io.EOF {
		return r.failAt(pos, LexicalError, ErrUnterminatedString,
			"Unterminated string. Expected delimiter: "+string(quote))
	} else if err != nil {
		return err
	}
	switch ch {
	case 'b', 'f', 'n', 'r', 't', '\\', '/', '"', '\'':
		r.buf = append(r.buf, byte(ch))
		return nil
	case 'u':
		r.buf = append(r.buf, 'u')
		for range 4 {
			hpos := r.here()
			h, err := r.next()
			if err == io.EOF {
				return r.failAt(hpos, LexicalError, ErrUnexpectedEnd,
					"Unexpected end while parsing Unicode escape sequence")
			} else if err != nil {
				return err
			} else if !isHexDigit(h) {
				return r.failAt(hpos, LexicalError, ErrInvalidEscape,
					"Invalid Unicode escape sequence: unexpected "+strconv.QuoteRune(h))
			}
			r.buf = append(r.buf, byte(h))
		}
		return nil
	}
	return r.failAt(pos, LexicalError, ErrInvalidEscape, "Bad JSON escape sequence: \\"+string(ch))
}

// scanComment reads a block or line comment. The state st reflects any
// punctuation consumed before the comment, and is committed with it.
func (r *Reader) scanComment(st readState) error {
	if r.strict {
		return r.failf(LexicalError, ErrUnexpectedChar, "Comments are not permitted: /")
	}
	r.next() // "/"
	pos := r.here()
	ch, err := r.next()
	if err == io.EOF {
		return r.failAt(pos, LexicalError, ErrUnexpectedEnd, "Unexpected end while parsing comment")
	} else if err != nil {
		return err
	}

	r.buf = r.buf[:0]
	switch ch {
	case '*':
		for {
			ch, err := r.next()
			if err == io.EOF {
				return r.failAt(r.here(), LexicalError, ErrUnterminatedComment, "Unexpected end while parsing comment")
			} else if err != nil {
				return err
			}
			if ch == '*' {
				next, err := r.peek()
				if err == nil && next == '/' {
					r.next()
					break
				} else if err != nil && err != io.EOF {
					return err
				}
			}
			r.buf = utf8.AppendRune(r.buf, ch)
		}

	case '/':
		for {
			ch, err := r.peek()
			if err == io.EOF || (err == nil && (ch == '\n' || ch == '\r')) {
				break
			} else if err != nil {
				return err
			}
			r.next()
			r.buf = utf8.AppendRune(r.buf, ch)
		}

	default:
		return r.failAt(pos, LexicalError, ErrUnexpectedChar,
			"Error parsing comment. Expected: *, got "+string(ch))
	}

	r.setToken(Comment, string(r.buf))
	r.state = st
	return nil
}

// scanPropertyName reads an object key beginning with ch.
func (r *Reader) scanPropertyName(ch rune) error {
	var name string
	switch {
	case ch == '"' || (ch == '\'' && !r.strict):
		s, err := r.scanString(ch)
		if err != nil {
			return err
		}
		name = s

	case r.strict:
		return r.failf(LexicalError, ErrUnexpectedChar, "Invalid property identifier character: %c", ch)

	default:
		r.buf = r.buf[:0]
		for {
			ch, err := r.peek()
			if err == io.EOF {
				return r.failf(LexicalError, ErrUnexpectedEnd, "Unexpected end while parsing unquoted property name")
			} else if err != nil {
				return err
			}
			if r.space(ch) || ch == ':' {
				break
			} else if !isIdentRune(ch) {
				return r.failf(LexicalError, ErrUnexpectedChar, "Invalid JavaScript property identifier character: %c", ch)
			}
			r.next()
			r.buf = utf8.AppendRune(r.buf, ch)
		}
		if len(r.buf) == 0 {
			return r.failf(LexicalError, ErrUnexpectedChar, "Unquoted property name is empty")
		}
		name = string(r.buf)
	}

	r.trk.setName(name)
	r.setToken(PropertyName, name)
	r.state = readProperty
	return nil
}

var (
	constTrue      = mem.S("true")
	constFalse     = mem.S("false")
	constNull      = mem.S("null")
	constUndefined = mem.S("undefined")
	constNaN       = mem.S("NaN")
	constInfinity  = mem.S("Infinity")
	constNew       = mem.S("new")
)

// scanConstant reads a named constant or a constructor.
func (r *Reader) scanConstant() error {
	r.buf = r.buf[:0]
	if err := r.readWhile(isLetter); err != nil {
		return err
	}

	word := mem.B(r.buf)
	var typ TokenType
	var val any
	switch {
	case word.Equal(constTrue):
		typ, val = Boolean, true
	case word.Equal(constFalse):
		typ, val = Boolean, false
	case word.Equal(constNull):
		typ = Null
	case word.Equal(constUndefined) && !r.strict:
		typ = Undefined
	case word.Equal(constNaN) && !r.strict:
		return r.finishNonFinite(math.NaN())
	case word.Equal(constInfinity) && !r.strict:
		return r.finishNonFinite(math.Inf(1))
	case word.Equal(constNew) && !r.strict:
		return r.scanConstructor()
	default:
		return r.badConstant(word)
	}
	if err := r.requireSeparator("value"); err != nil {
		return err
	}
	return r.emitValue(typ, val)
}

// badConstant reports an error for a word that is not a valid constant. If
// the word extends a known constant, the error points at the first character
// after the constant.
func (r *Reader) badConstant(word mem.RO) error {
	pos, at := r.start, 0
	for _, c := range []mem.RO{constTrue, constFalse, constNull, constUndefined, constNaN, constInfinity} {
		if word.Len() > c.Len() && mem.HasPrefix(word, c) {
			at = c.Len()
			pos.Column += at
			pos.Offset += at
			break
		}
	}
	return r.failAt(pos, LexicalError, ErrUnexpectedChar,
		"Unexpected character encountered while parsing value: "+string(r.buf[at:at+1]))
}

// finishNonFinite completes a NaN or infinity literal.
func (r *Reader) finishNonFinite(v float64) error {
	if err := r.requireSeparator("number"); err != nil {
		return err
	}
	if r.floats == FloatParseDecimal {
		return r.failAt(r.start, LexicalError, ErrInvalidNumber, "Cannot read "+formatSymbol(v)+" value")
	}
	return r.emitValue(Float, v)
}

// scanConstructor reads the remainder of "new Name(" after "new".
func (r *Reader) scanConstructor() error {
	ch, err := r.peek()
	if err == io.EOF {
		return r.failf(LexicalError, ErrUnexpectedEnd, "Unexpected end while parsing constructor")
	} else if err != nil {
		return err
	} else if !r.space(ch) {
		return r.failf(LexicalError, ErrUnexpectedChar, "Unexpected character while parsing constructor: %c", ch)
	}
	if _, err := r.skipSpace(); err == io.EOF {
		return r.failf(LexicalError, ErrUnexpectedEnd, "Unexpected end while parsing constructor")
	} else if err != nil {
		return err
	}

	r.buf = r.buf[:0]
	if err := r.readWhile(isIdentRune); err != nil {
		return err
	}
	if len(r.buf) == 0 {
		return r.failf(LexicalError, ErrUnexpectedChar, "Constructor name not found")
	}
	name := string(r.buf)

	ch, err = r.skipSpace()
	if err == io.EOF {
		return r.failf(LexicalError, ErrUnexpectedEnd, "Unexpected end while parsing constructor")
	} else if err != nil {
		return err
	} else if ch != '(' {
		return r.failf(LexicalError, ErrUnexpectedChar, "Unexpected character while parsing constructor: %c", ch)
	}
	r.next()
	return r.startContainer(ConstructorContainer, StartConstructor, name)
}

// readWhile consumes characters matching f into r.buf. It stops without error
// at the end of input.
func (r *Reader) readWhile(f func(rune) bool) error {
	for {
		ch, err := r.peek()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		} else if !f(ch) {
			return nil
		}
		r.next()
		r.buf = utf8.AppendRune(r.buf, ch)
	}
}

// requireSeparator checks that the next character, if any, may follow a
// complete literal.
func (r *Reader) requireSeparator(what string) error {
	ch, err := r.peek()
	if err == io.EOF {
		return nil
	} else if err != nil {
		return err
	} else if !r.separator(ch) {
		return r.failf(LexicalError, ErrUnexpectedChar, "Unexpected character encountered while parsing %s: %c", what, ch)
	}
	return nil
}

func isSpace(ch rune) bool { return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' }

// space reports whether ch is whitespace. The permissive grammar also allows
// form feed, vertical tab, no-break space, and the byte order mark.
func (r *Reader) space(ch rune) bool {
	if isSpace(ch) {
		return true
	}
	return !r.strict && (ch == '\f' || ch == '\v' || ch == '\u00a0' || ch == '\ufeff')
}

func (r *Reader) separator(ch rune) bool {
	switch ch {
	case ',', ']', '}', ')', '/':
		return true
	}
	return r.space(ch)
}

func isDigit(ch rune) bool  { return '0' <= ch && ch <= '9' }
func isLetter(ch rune) bool { return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') }

func isIdentRune(ch rune) bool {
	return ch == '_' || ch == '$' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
