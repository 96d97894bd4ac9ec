// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtext

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// isoDateLayout is the layout of dates written in ISO 8601 form.
const isoDateLayout = "2006-01-02T15:04:05.9999999Z07:00"

// WriteValue writes v as a single value. The concrete type of v must be one
// of:
//
//   - nil, written as null
//   - UndefinedValue, written as undefined
//   - string, bool, or any integer or floating-point type
//   - decimal.Decimal or *big.Int
//   - []byte, written as a base64 string
//   - time.Time, written according to the date format handling
//   - uuid.UUID, written as a string in canonical form
//   - a pointer to any of the above; a nil pointer is written as null
//
// Any other type is reported as ErrUnsupportedType.
func (w *Writer) WriteValue(v any) error {
	switch t := v.(type) {
	case nil:
		return w.WriteNull()
	case UndefinedValue:
		return w.WriteUndefined()
	case string:
		return w.WriteString(t)
	case bool:
		return w.WriteBool(t)
	case int:
		return w.WriteInt64(int64(t))
	case int8:
		return w.WriteInt64(int64(t))
	case int16:
		return w.WriteInt64(int64(t))
	case int32:
		return w.WriteInt64(int64(t))
	case int64:
		return w.WriteInt64(t)
	case uint:
		return w.WriteUint64(uint64(t))
	case uint8:
		return w.WriteUint64(uint64(t))
	case uint16:
		return w.WriteUint64(uint64(t))
	case uint32:
		return w.WriteUint64(uint64(t))
	case uint64:
		return w.WriteUint64(t)
	case float32:
		return w.writeFloat(float64(t), 32, false)
	case float64:
		return w.writeFloat(t, 64, false)
	case decimal.Decimal:
		return w.writeBytes(func(buf []byte) []byte {
			return appendDecimalPlace(append(buf, t.String()...), len(buf))
		})
	case *big.Int:
		if t == nil {
			return w.WriteNull()
		}
		return w.writeBytes(func(buf []byte) []byte { return t.Append(buf, 10) })
	case []byte:
		if t == nil {
			return w.WriteNull()
		}
		return w.WriteBytes(t)
	case time.Time:
		return w.WriteDate(t)
	case uuid.UUID:
		return w.WriteString(t.String())
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return &WriterError{
			Path:    w.trk.path(),
			Message: fmt.Sprintf("Unsupported type: %T", v),
			err:     ErrUnsupportedType,
		}
	} else if rv.IsNil() {
		return w.WriteNull()
	}
	switch e := rv.Elem().Interface().(type) {
	case float32:
		return w.writeFloat(float64(e), 32, true)
	case float64:
		return w.writeFloat(e, 64, true)
	default:
		return w.WriteValue(e)
	}
}

// WriteNull writes a null value.
func (w *Writer) WriteNull() error { return w.writeText("null") }

// WriteUndefined writes an undefined value.
func (w *Writer) WriteUndefined() error { return w.writeText("undefined") }

// WriteBool writes a Boolean value.
func (w *Writer) WriteBool(b bool) error { return w.writeText(strconv.FormatBool(b)) }

// WriteString writes a string value, escaped according to the string escape
// handling of w.
func (w *Writer) WriteString(s string) error {
	return w.writeBytes(func(buf []byte) []byte { return w.appendString(buf, s) })
}

// WriteInt64 writes a signed integer value.
func (w *Writer) WriteInt64(v int64) error {
	return w.writeBytes(func(buf []byte) []byte { return strconv.AppendInt(buf, v, 10) })
}

// WriteUint64 writes an unsigned integer value.
func (w *Writer) WriteUint64(v uint64) error {
	return w.writeBytes(func(buf []byte) []byte { return strconv.AppendUint(buf, v, 10) })
}

// WriteFloat64 writes a floating-point value. NaN and infinities are written
// according to the float format handling of w.
func (w *Writer) WriteFloat64(f float64) error { return w.writeFloat(f, 64, false) }

// WriteBytes writes data as a base64-encoded string.
func (w *Writer) WriteBytes(data []byte) error {
	return w.writeBytes(func(buf []byte) []byte {
		buf = append(buf, w.quote)
		buf = base64.StdEncoding.AppendEncode(buf, data)
		return append(buf, w.quote)
	})
}

// WriteDate writes a date value in the form selected by the date format
// handling of w.
func (w *Writer) WriteDate(t time.Time) error {
	return w.writeBytes(func(buf []byte) []byte {
		buf = append(buf, w.quote)
		if w.dates == DateFormatMicrosoft {
			buf = formatMSDate(buf, t)
		} else {
			buf = t.AppendFormat(buf, isoDateLayout)
		}
		return append(buf, w.quote)
	})
}

// writeFloat writes a floating-point value of the given bit size. A nullable
// value is written as null rather than a default when it is not finite.
func (w *Writer) writeFloat(f float64, bits int, nullable bool) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		switch w.floats {
		case FloatFormatSymbol:
			return w.writeText(formatSymbol(f))
		case FloatFormatDefaultValue:
			if nullable {
				return w.WriteNull()
			}
			return w.writeText("0.0")
		default:
			return w.writeBytes(func(buf []byte) []byte {
				buf = append(buf, w.quote)
				buf = append(buf, formatSymbol(f)...)
				return append(buf, w.quote)
			})
		}
	}
	return w.writeBytes(func(buf []byte) []byte { return appendFloat(buf, f, bits) })
}

// appendFloat appends the text of a finite float to buf. Exponent notation is
// used for very large and very small magnitudes, and the result always has a
// decimal point or an exponent.
func appendFloat(buf []byte, f float64, bits int) []byte {
	start := len(buf)
	format := byte('f')
	if abs := math.Abs(f); abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	buf = strconv.AppendFloat(buf, f, format, -1, bits)
	if format == 'e' {
		// Trim a leading zero from a two-digit negative exponent: e-09 to e-9.
		if n := len(buf); n-start >= 4 && buf[n-4] == 'e' && buf[n-3] == '-' && buf[n-2] == '0' {
			buf[n-2] = buf[n-1]
			buf = buf[:n-1]
		}
	}
	return appendDecimalPlace(buf, start)
}

// appendDecimalPlace adds ".0" to the number starting at buf[start] if it has
// neither a decimal point nor an exponent.
func appendDecimalPlace(buf []byte, start int) []byte {
	if bytes.ContainsAny(buf[start:], ".eE") {
		return buf
	}
	return append(buf, ".0"...)
}

// formatSymbol returns the symbol for a NaN or infinite value.
func formatSymbol(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return "Infinity"
}

// formatFloatText returns the shortest text of f, as used when converting a
// number to a string.
func formatFloatText(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return formatSymbol(f)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
