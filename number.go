// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtext

import (
	"errors"
	"io"
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
	"go4.org/mem"
)

// scanNumber reads a numeric literal beginning with first, which is a digit
// or a minus sign. The literal must be followed by a separator or the end of
// input; otherwise the error reports the first character that cannot extend
// the literal.
func (r *Reader) scanNumber(first rune) error {
	r.buf = r.buf[:0]
	neg := first == '-'
	if neg {
		r.next()
		r.buf = append(r.buf, '-')
		ch, err := r.peek()
		if err == io.EOF {
			return r.failAt(r.start, LexicalError, ErrInvalidNumber, "Input string '-' is not a valid number")
		} else if err != nil {
			return err
		}
		if ch == 'I' && !r.strict {
			r.buf = r.buf[:0]
			if err := r.readWhile(isLetter); err != nil {
				return err
			} else if !mem.B(r.buf).Equal(constInfinity) {
				return r.failAt(r.start, LexicalError, ErrInvalidNumber,
					"Input string '-"+string(r.buf)+"' is not a valid number")
			}
			return r.finishNonFinite(math.Inf(-1))
		} else if !isDigit(ch) {
			return r.failAt(r.start, LexicalError, ErrInvalidNumber, "Input string '-' is not a valid number")
		}
	}

	if ch, _ := r.peek(); ch == '0' {
		r.next()
		r.buf = append(r.buf, '0')
		next, err := r.peek()
		if err != nil && err != io.EOF {
			return err
		} else if err == nil && (next == 'x' || next == 'X') {
			return r.scanRadix(16, neg)
		} else if err == nil && isDigit(next) {
			return r.scanRadix(8, neg)
		}
	} else if err := r.readWhile(isDigit); err != nil {
		return err
	}

	var isFloat bool
	ch, err := r.peek()
	if err != nil && err != io.EOF {
		return err
	}
	if err == nil && ch == '.' {
		r.next()
		r.buf = append(r.buf, '.')
		if err := r.requireDigit(); err != nil {
			return err
		}
		isFloat = true
		ch, err = r.peek()
		if err != nil && err != io.EOF {
			return err
		}
	}
	if err == nil && (ch == 'e' || ch == 'E') {
		r.next()
		r.buf = append(r.buf, byte(ch))
		if sign, err := r.peek(); err == nil && (sign == '+' || sign == '-') {
			r.next()
			r.buf = append(r.buf, byte(sign))
		}
		if err := r.requireDigit(); err != nil {
			return err
		}
		isFloat = true
	}
	if err := r.requireSeparator("number"); err != nil {
		return err
	}
	if isFloat {
		return r.emitFloat()
	}
	return r.emitInteger()
}

// requireDigit consumes a run of one or more decimal digits.
func (r *Reader) requireDigit() error {
	ch, err := r.peek()
	if err == io.EOF {
		return r.failf(LexicalError, ErrInvalidNumber, "Unexpected end while parsing number")
	} else if err != nil {
		return err
	} else if !isDigit(ch) {
		return r.failf(LexicalError, ErrInvalidNumber, "Unexpected character encountered while parsing number: %c", ch)
	}
	return r.readWhile(isDigit)
}

// scanRadix reads the digits of a hexadecimal (base 16) or octal (base 8)
// integer following its leading zero.
func (r *Reader) scanRadix(base int, neg bool) error {
	if r.strict {
		ch, _ := r.peek()
		return r.failf(LexicalError, ErrInvalidNumber, "Unexpected character encountered while parsing number: %c", ch)
	}
	digit := isDigit
	if base == 16 {
		ch, _ := r.next()
		r.buf = append(r.buf, byte(ch))
		digit = isHexDigit
	}
	start := len(r.buf)
	if err := r.readWhile(digit); err != nil {
		return err
	}
	if len(r.buf) == start {
		if ch, err := r.peek(); err == nil {
			return r.failf(LexicalError, ErrInvalidNumber, "Unexpected character encountered while parsing number: %c", ch)
		} else if err != io.EOF {
			return err
		}
		return r.failf(LexicalError, ErrInvalidNumber, "Unexpected end while parsing number")
	}
	if err := r.requireSeparator("number"); err != nil {
		return err
	}

	digits := r.buf[start:]
	u, err := mem.ParseUint(mem.B(digits), base, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return r.failAt(r.start, LexicalError, ErrInvalidNumber,
			"Input string '"+string(r.buf)+"' is not a valid integer")
	}
	if err == nil && u <= math.MaxInt64 {
		v := int64(u)
		if neg {
			v = -v
		}
		return r.emitValue(Integer, v)
	} else if err == nil && neg && u == 1<<63 {
		return r.emitValue(Integer, int64(math.MinInt64))
	}
	z, _ := new(big.Int).SetString(string(digits), base)
	if neg {
		z.Neg(z)
	}
	return r.emitValue(Integer, z)
}

// emitInteger commits the decimal integer literal in r.buf.
func (r *Reader) emitInteger() error {
	v, err := mem.ParseInt(mem.B(r.buf), 10, 64)
	if err == nil {
		return r.emitValue(Integer, v)
	} else if errors.Is(err, strconv.ErrRange) {
		if z, ok := new(big.Int).SetString(string(r.buf), 10); ok {
			return r.emitValue(Integer, z)
		}
	}
	return r.failAt(r.start, LexicalError, ErrInvalidNumber,
		"Input string '"+string(r.buf)+"' is not a valid integer")
}

// emitFloat commits the floating-point literal in r.buf, according to the
// float parse handling of r.
func (r *Reader) emitFloat() error {
	if r.floats == FloatParseDecimal {
		d, err := decimal.NewFromString(string(r.buf))
		if err != nil {
			return r.failAt(r.start, LexicalError, ErrInvalidNumber,
				"Input string '"+string(r.buf)+"' is not a valid decimal")
		}
		return r.emitValue(Float, d)
	}
	f, err := mem.ParseFloat(mem.B(r.buf), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return r.failAt(r.start, LexicalError, ErrInvalidNumber,
			"Input string '"+string(r.buf)+"' is not a valid number")
	}
	return r.emitValue(Float, f)
}
