// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtext

import (
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The ReadAs methods advance the reader to the next value, skipping comments,
// and convert it to the requested type. The current token is updated to the
// converted value.
//
// Each method reports ok == false without error if the value is null or
// undefined, if the reader has reached the end of the enclosing array, or if
// the input is exhausted. For conversions other than ReadAsString and
// ReadAsBytes an empty string is also treated as null.
//
// A value that cannot be converted is reported as a *SyntaxError of kind
// CoercionError. Unlike other syntax errors, a coercion error does not stop
// the reader.

// ReadAsInt32 reads the next value as a 32-bit integer. Floating-point values
// are accepted if they are integral, and strings are parsed according to the
// culture of the reader.
func (r *Reader) ReadAsInt32() (int32, bool, error) {
	ok, err := r.readValue(false)
	if !ok || err != nil {
		return 0, false, err
	}
	var n int64
	switch v := r.tok.Value.(type) {
	case int64:
		n = v
	case *big.Int:
		return 0, false, r.coercef("Value %s is too large or too small for an Int32", v)
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false, r.coercef("Input string '%s' is not a valid integer", formatFloatText(v))
		} else if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, false, r.coercef("Value %s is too large or too small for an Int32", formatFloatText(v))
		}
		n = int64(v)
	case decimal.Decimal:
		if !v.Equal(v.Truncate(0)) {
			return 0, false, r.coercef("Input string '%s' is not a valid integer", v)
		} else if v.Cmp(decimal.NewFromInt(math.MinInt32)) < 0 || v.Cmp(decimal.NewFromInt(math.MaxInt32)) > 0 {
			return 0, false, r.coercef("Value %s is too large or too small for an Int32", v)
		}
		n = v.IntPart()
	case string:
		if r.tok.Type != String {
			return 0, false, r.unexpected("integer")
		}
		z, err := strconv.ParseInt(r.culture.normalize(v), 10, 32)
		if err != nil {
			return 0, false, r.coercef("Could not convert string to integer: %s", v)
		}
		n = z
	default:
		return 0, false, r.unexpected("integer")
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false, r.coercef("Value %d is too large or too small for an Int32", n)
	}
	r.retype(Integer, n)
	return int32(n), true, nil
}

// ReadAsString reads the next value as a string. Numbers, Booleans, dates and
// binary values are converted to their text representation.
func (r *Reader) ReadAsString() (string, bool, error) {
	ok, err := r.readValue(true)
	if !ok || err != nil {
		return "", false, err
	}
	var s string
	switch v := r.tok.Value.(type) {
	case string:
		if r.tok.Type != String {
			return "", false, r.unexpected("string")
		}
		s = v
	case int64:
		s = strconv.FormatInt(v, 10)
	case *big.Int:
		s = v.String()
	case float64:
		s = formatFloatText(v)
	case decimal.Decimal:
		s = v.String()
	case bool:
		s = strconv.FormatBool(v)
	case time.Time:
		s = v.Format(time.RFC3339Nano)
	case []byte:
		s = base64.StdEncoding.EncodeToString(v)
	default:
		return "", false, r.unexpected("string")
	}
	r.retype(String, s)
	return s, true, nil
}

// ReadAsBoolean reads the next value as a Boolean. Numbers are true if they
// are non-zero, and the strings "true" and "false" are accepted regardless of
// case.
func (r *Reader) ReadAsBoolean() (bool, bool, error) {
	ok, err := r.readValue(false)
	if !ok || err != nil {
		return false, false, err
	}
	var b bool
	switch v := r.tok.Value.(type) {
	case bool:
		b = v
	case int64:
		b = v != 0
	case *big.Int:
		b = v.Sign() != 0
	case float64:
		b = v != 0
	case decimal.Decimal:
		b = v.Sign() != 0
	case string:
		if r.tok.Type != String {
			return false, false, r.unexpected("boolean")
		}
		switch t := strings.TrimSpace(v); {
		case strings.EqualFold(t, "true"):
			b = true
		case strings.EqualFold(t, "false"):
			b = false
		default:
			return false, false, r.coercef("Could not convert string to boolean: %s", v)
		}
	default:
		return false, false, r.unexpected("boolean")
	}
	r.retype(Boolean, b)
	return b, true, nil
}

// ReadAsDouble reads the next value as a float64.
func (r *Reader) ReadAsDouble() (float64, bool, error) {
	ok, err := r.readValue(false)
	if !ok || err != nil {
		return 0, false, err
	}
	var f float64
	switch v := r.tok.Value.(type) {
	case float64:
		f = v
	case int64:
		f = float64(v)
	case *big.Int:
		f, _ = new(big.Float).SetInt(v).Float64()
	case decimal.Decimal:
		f, _ = v.Float64()
	case string:
		if r.tok.Type != String {
			return 0, false, r.unexpected("double")
		}
		z, err := strconv.ParseFloat(r.culture.normalize(v), 64)
		if err != nil {
			return 0, false, r.coercef("Could not convert string to double: %s", v)
		}
		f = z
	default:
		return 0, false, r.unexpected("double")
	}
	r.retype(Float, f)
	return f, true, nil
}

// ReadAsDecimal reads the next value as a decimal. NaN and infinite values
// cannot be converted.
func (r *Reader) ReadAsDecimal() (decimal.Decimal, bool, error) {
	ok, err := r.readValue(false)
	if !ok || err != nil {
		return decimal.Decimal{}, false, err
	}
	var d decimal.Decimal
	switch v := r.tok.Value.(type) {
	case decimal.Decimal:
		d = v
	case int64:
		d = decimal.NewFromInt(v)
	case *big.Int:
		d = decimal.NewFromBigInt(v, 0)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Decimal{}, false, r.coercef("Cannot convert %s to decimal", formatSymbol(v))
		}
		d = decimal.NewFromFloat(v)
	case string:
		if r.tok.Type != String {
			return decimal.Decimal{}, false, r.unexpected("decimal")
		}
		z, err := decimal.NewFromString(r.culture.normalize(v))
		if err != nil {
			return decimal.Decimal{}, false, r.coercef("Could not convert string to decimal: %s", v)
		}
		d = z
	default:
		return decimal.Decimal{}, false, r.unexpected("decimal")
	}
	r.retype(Float, d)
	return d, true, nil
}

// ReadAsBytes reads the next value as binary data. It accepts a base64
// string, a UUID string in its 36-character canonical form, an array of
// integers in the range 0..255, or a binary value.
func (r *Reader) ReadAsBytes() ([]byte, bool, error) {
	if err := r.nextContent(); err == io.EOF {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	var data []byte
	switch r.tok.Type {
	case Null, Undefined, EndArray:
		return nil, false, nil
	case Bytes:
		data = r.tok.Value.([]byte)
	case String:
		s := r.tok.Value.(string)
		if len(s) == 36 {
			if u, err := uuid.Parse(s); err == nil {
				data = u[:]
				break
			}
		}
		dec, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, false, r.coercef("Could not convert string to bytes: %s", s)
		}
		data = dec
	case StartArray:
		var err error
		data, err = r.readByteArray()
		if err != nil {
			return nil, false, err
		}
	default:
		return nil, false, r.unexpected("bytes")
	}
	if data == nil {
		data = []byte{}
	}
	r.retype(Bytes, data)
	return data, true, nil
}

// readByteArray reads the elements of an array of byte values, whose start
// token is current.
func (r *Reader) readByteArray() ([]byte, error) {
	var data []byte
	for {
		if err := r.nextContent(); err == io.EOF {
			return nil, r.coerceAt(r.Position(), ErrUnexpectedEnd, "Unexpected end when reading bytes")
		} else if err != nil {
			return nil, err
		}
		switch r.tok.Type {
		case EndArray:
			return data, nil
		case Integer:
			v, ok := r.tok.Value.(int64)
			if !ok || v < 0 || v > math.MaxUint8 {
				return nil, r.coercef("Value %v is out of range for a byte", r.tok.Value)
			}
			data = append(data, byte(v))
		default:
			return nil, r.coercef("Unexpected token when reading bytes: %v", r.tok.Type)
		}
	}
}

// ReadAsDateTime reads the next value as a date, converted to UTC.
func (r *Reader) ReadAsDateTime() (time.Time, bool, error) {
	return r.readAsDate(DateParseDateTime, "DateTime")
}

// ReadAsDateTimeOffset reads the next value as a date, preserving its zone
// offset.
func (r *Reader) ReadAsDateTimeOffset() (time.Time, bool, error) {
	return r.readAsDate(DateParseDateTimeOffset, "DateTimeOffset")
}

func (r *Reader) readAsDate(h DateParseHandling, what string) (time.Time, bool, error) {
	ok, err := r.readValue(false)
	if !ok || err != nil {
		return time.Time{}, false, err
	}
	var t time.Time
	switch v := r.tok.Value.(type) {
	case time.Time:
		t = v
		if h == DateParseDateTime {
			t = t.UTC()
		}
	case string:
		if r.tok.Type != String {
			return time.Time{}, false, r.unexpected("date")
		}
		z, ok := parseDate(strings.TrimSpace(v), h)
		if !ok {
			return time.Time{}, false, r.coercef("Could not convert string to %s: %s", what, v)
		}
		t = z
	default:
		return time.Time{}, false, r.unexpected("date")
	}
	r.retype(Date, t)
	return t, true, nil
}

// nextContent advances to the next token that is not a comment.
func (r *Reader) nextContent() error {
	for {
		if err := r.Next(); err != nil {
			return err
		} else if r.tok.Type != Comment {
			return nil
		}
	}
}

// readValue advances to the next value for a typed read, and reports whether
// it is a value that can be converted. An empty string is converted to null
// unless keepEmpty is true.
func (r *Reader) readValue(keepEmpty bool) (bool, error) {
	if err := r.nextContent(); err == io.EOF {
		return false, nil
	} else if err != nil {
		return false, err
	}
	switch r.tok.Type {
	case Null, Undefined, EndArray:
		return false, nil
	case String:
		if r.tok.Value.(string) == "" && !keepEmpty {
			r.retype(Null, nil)
			return false, nil
		}
	}
	return true, nil
}

// retype replaces the type and value of the current token.
func (r *Reader) retype(typ TokenType, v any) {
	r.tok.Type = typ
	r.tok.Value = v
}

func (r *Reader) unexpected(what string) error {
	return r.coercef("Error reading %s. Unexpected token: %v", what, r.tok.Type)
}

func (r *Reader) coercef(msg string, args ...any) error {
	return r.coerceAt(r.tok.Location.First, ErrCoercion, fmt.Sprintf(msg, args...))
}

func (r *Reader) coerceAt(pos Position, base error, msg string) error {
	return &SyntaxError{
		Kind:    CoercionError,
		Pos:     pos,
		Path:    r.trk.path(),
		Message: msg,
		err:     base,
	}
}
