// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtext_test

import (
	"bytes"
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/creachadair/jtext"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

// writeDrives writes a small document exercising objects, arrays and
// comments.
func writeDrives(t *testing.T, w *jtext.Writer) {
	t.Helper()
	steps := []func() error{
		w.WriteStartObject,
		func() error { return w.WritePropertyName("CPU", true) },
		func() error { return w.WriteValue("Intel") },
		func() error { return w.WritePropertyName("PSU", true) },
		func() error { return w.WriteValue("500W") },
		func() error { return w.WritePropertyName("Drives", true) },
		w.WriteStartArray,
		func() error { return w.WriteValue("DVD read/writer") },
		func() error { return w.WriteComment("(broken)") },
		func() error { return w.WriteValue("500 gigabyte hard drive") },
		func() error { return w.WriteValue("200 gigabyte hard drive") },
		w.WriteEndArray,
		w.WriteEndObject,
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("Step %d: unexpected error: %v", i+1, err)
		}
	}
}

func TestWriterFormatting(t *testing.T) {
	t.Run("Compact", func(t *testing.T) {
		var buf bytes.Buffer
		w := jtext.NewWriter(&buf)
		writeDrives(t, w)
		if err := w.Close(); err != nil {
			t.Fatalf("Close: unexpected error: %v", err)
		}
		const want = `{"CPU":"Intel","PSU":"500W","Drives":["DVD read/writer"/*(broken)*/,"500 gigabyte hard drive","200 gigabyte hard drive"]}`
		if got := buf.String(); got != want {
			t.Errorf("Output:\n got: %s\nwant: %s", got, want)
		}
	})

	t.Run("Indented", func(t *testing.T) {
		var buf bytes.Buffer
		w := jtext.NewWriter(&buf)
		w.SetFormatting(jtext.FormatIndented)
		writeDrives(t, w)
		if err := w.Close(); err != nil {
			t.Fatalf("Close: unexpected error: %v", err)
		}
		const want = `{
  "CPU": "Intel",
  "PSU": "500W",
  "Drives": [
    "DVD read/writer"
    /*(broken)*/,
    "500 gigabyte hard drive",
    "200 gigabyte hard drive"
  ]
}`
		if diff := diffStrings(want, buf.String()); diff != "" {
			t.Errorf("Output (-want, +got):\n%s", diff)
		}
	})

	t.Run("Tabs", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := jtext.WriterOptions{
			Formatting:  jtext.FormatIndented,
			IndentChar:  '\t',
			Indentation: 1,
		}.NewWriter(&buf)
		if err != nil {
			t.Fatalf("NewWriter: unexpected error: %v", err)
		}
		w.WriteStartObject()
		w.WritePropertyName("a", true)
		w.WriteStartArray()
		w.WriteEndArray()
		w.WritePropertyName("b", true)
		w.WriteStartArray()
		w.WriteValue(1)
		w.WriteEndArray()
		w.WriteEndObject()
		if err := w.Close(); err != nil {
			t.Fatalf("Close: unexpected error: %v", err)
		}
		const want = "{\n\t\"a\": [],\n\t\"b\": [\n\t\t1\n\t]\n}"
		if got := buf.String(); got != want {
			t.Errorf("Output:\n got: %q\nwant: %q", got, want)
		}
	})
}

func TestWriterValues(t *testing.T) {
	i64 := int64(-25)
	var nilInt *int
	big64 := new(big.Int).Lsh(big.NewInt(1), 64)
	zone := time.FixedZone("", 3600)
	when := time.Date(2012, 3, 21, 5, 40, 12, 340000000, time.UTC)
	id := uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff")

	tests := []struct {
		value any
		want  string
	}{
		{nil, `null`},
		{jtext.UndefinedValue{}, `undefined`},
		{true, `true`},
		{"a\tb\x01", `"a\tb\u0001"`},
		{`back\slash "quoted"`, `"back\\slash \"quoted\""`},
		{int8(-3), `-3`},
		{uint16(65535), `65535`},
		{uint64(math.MaxUint64), `18446744073709551615`},
		{math.MinInt64, `-9223372036854775808`},
		{1.0, `1.0`},
		{0.1, `0.1`},
		{-0.0, `0.0`},
		{123.456, `123.456`},
		{1e21, `1e+21`},
		{1e-7, `1e-7`},
		{float32(0.1), `0.1`},
		{decimal.NewFromInt(5), `5.0`},
		{decimal.New(125, -2), `1.25`},
		{big64, `18446744073709551616`},
		{(*big.Int)(nil), `null`},
		{[]byte{1, 2, 3}, `"AQID"`},
		{[]byte(nil), `null`},
		{when, `"2012-03-21T05:40:12.34Z"`},
		{when.In(zone), `"2012-03-21T06:40:12.34+01:00"`},
		{id, `"00112233-4455-6677-8899-aabbccddeeff"`},
		{&i64, `-25`},
		{nilInt, `null`},
	}
	for _, test := range tests {
		var buf bytes.Buffer
		w := jtext.NewWriter(&buf)
		if err := w.WriteValue(test.value); err != nil {
			t.Errorf("WriteValue(%#v): unexpected error: %v", test.value, err)
			continue
		}
		w.Flush()
		if got := buf.String(); got != test.want {
			t.Errorf("WriteValue(%#v): got %s, want %s", test.value, got, test.want)
		}
	}
}

func TestWriterUnsupported(t *testing.T) {
	var buf bytes.Buffer
	w := jtext.NewWriter(&buf)
	w.WriteStartArray()
	err := w.WriteValue(struct{}{})
	if !errors.Is(err, jtext.ErrUnsupportedType) {
		t.Fatalf("WriteValue: got %v, want %v", err, jtext.ErrUnsupportedType)
	}
	if got, want := err.Error(), "Unsupported type: struct {}. Path ''."; got != want {
		t.Errorf("Error: got %q, want %q", got, want)
	}
	if err := w.WriteValue(1); err != nil {
		t.Errorf("WriteValue after error: %v", err)
	}
	w.Close()
	if got, want := buf.String(), "[1]"; got != want {
		t.Errorf("Output: got %s, want %s", got, want)
	}
}

func TestFloatFormatHandling(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		handling jtext.FloatFormatHandling
		value    any
		want     string
	}{
		{jtext.FloatFormatSymbol, nan, `[NaN]`},
		{jtext.FloatFormatSymbol, math.Inf(-1), `[-Infinity]`},
		{jtext.FloatFormatString, nan, `["NaN"]`},
		{jtext.FloatFormatString, math.Inf(1), `["Infinity"]`},
		{jtext.FloatFormatDefaultValue, nan, `[0.0]`},
		{jtext.FloatFormatDefaultValue, &nan, `[null]`},
		{jtext.FloatFormatDefaultValue, 2.5, `[2.5]`},
		{jtext.FloatFormatString, &nan, `["NaN"]`},
	}
	for _, test := range tests {
		var buf bytes.Buffer
		w := jtext.NewWriter(&buf)
		w.SetFloatFormatHandling(test.handling)
		w.WriteStartArray()
		if err := w.WriteValue(test.value); err != nil {
			t.Errorf("WriteValue(%v): unexpected error: %v", test.value, err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close: unexpected error: %v", err)
		}
		if got := buf.String(); got != test.want {
			t.Errorf("Handling %d, value %v: got %s, want %s", test.handling, test.value, got, test.want)
		}
	}
}

func TestStringEscapeHandling(t *testing.T) {
	const input = "<a href='x'>&é\U0001F600"
	tests := []struct {
		handling jtext.StringEscapeHandling
		want     string
	}{
		{jtext.EscapeDefault, "\"<a href='x'>&é\U0001F600\""},
		{jtext.EscapeNonASCII, `"<a href='x'>&\u00e9\ud83d\ude00"`},
		{jtext.EscapeHTML, `"\u003ca href=\u0027x\u0027\u003e\u0026` + "é\U0001F600\""},
	}
	for _, test := range tests {
		var buf bytes.Buffer
		w := jtext.NewWriter(&buf)
		w.SetStringEscapeHandling(test.handling)
		if err := w.WriteString(input); err != nil {
			t.Fatalf("WriteString: unexpected error: %v", err)
		}
		w.Flush()
		if got := buf.String(); got != test.want {
			t.Errorf("Handling %d: got %s, want %s", test.handling, got, test.want)
		}
	}
}

func TestDateFormatHandling(t *testing.T) {
	when := time.Date(2012, 3, 21, 5, 40, 12, 340000000, time.UTC)
	tests := []struct {
		value time.Time
		want  string
	}{
		{when, `"\/Date(1332308412340)\/"`},
		{when.In(time.FixedZone("", 3600)), `"\/Date(1332308412340+0100)\/"`},
		{when.In(time.FixedZone("", -5*3600-1800)), `"\/Date(1332308412340-0530)\/"`},
	}
	for _, test := range tests {
		var buf bytes.Buffer
		w := jtext.NewWriter(&buf)
		w.SetDateFormatHandling(jtext.DateFormatMicrosoft)
		if err := w.WriteDate(test.value); err != nil {
			t.Fatalf("WriteDate: unexpected error: %v", err)
		}
		w.Flush()
		if got := buf.String(); got != test.want {
			t.Errorf("WriteDate(%v): got %s, want %s", test.value, got, test.want)
		}
	}
}

func TestWriterQuoting(t *testing.T) {
	t.Run("SingleQuote", func(t *testing.T) {
		var buf bytes.Buffer
		w := jtext.NewWriter(&buf)
		if err := w.SetQuoteChar('\''); err != nil {
			t.Fatalf("SetQuoteChar: unexpected error: %v", err)
		}
		w.WriteStartObject()
		w.WritePropertyName("it's", true)
		w.WriteValue(`say "hi"`)
		w.Close()
		if got, want := buf.String(), `{'it\'s':'say "hi"'}`; got != want {
			t.Errorf("Output: got %s, want %s", got, want)
		}
	})

	t.Run("InvalidQuote", func(t *testing.T) {
		w := jtext.NewWriter(new(bytes.Buffer))
		err := w.SetQuoteChar('`')
		if !errors.Is(err, jtext.ErrInvalidQuoteChar) {
			t.Fatalf("SetQuoteChar: got %v, want %v", err, jtext.ErrInvalidQuoteChar)
		}
		const want = `Invalid JavaScript string quote character. Valid quote characters are ' and ". Path ''.`
		if got := err.Error(); got != want {
			t.Errorf("Error: got %q, want %q", got, want)
		}
	})

	t.Run("UnquotedNames", func(t *testing.T) {
		var buf bytes.Buffer
		w := jtext.NewWriter(&buf)
		w.QuoteNames(false)
		w.WriteStartObject()
		w.WritePropertyName("a", true)
		w.WriteValue(1)
		w.WritePropertyName("b c", false)
		w.WriteValue(2)
		w.Close()
		if got, want := buf.String(), `{a:1,b c:2}`; got != want {
			t.Errorf("Output: got %s, want %s", got, want)
		}
	})

	t.Run("RawName", func(t *testing.T) {
		var buf bytes.Buffer
		w := jtext.NewWriter(&buf)
		w.WriteStartObject()
		w.WritePropertyName(`a\tb`, false)
		w.WriteValue(1)
		w.WritePropertyName("a\tb", true)
		w.WriteValue(2)
		w.Close()
		if got, want := buf.String(), `{"a\tb":1,"a\tb":2}`; got != want {
			t.Errorf("Output: got %s, want %s", got, want)
		}
	})
}

func TestWriterErrors(t *testing.T) {
	tests := []struct {
		name  string
		steps func(w *jtext.Writer) error
		is    error
		want  string
	}{
		{"EndAtTop", func(w *jtext.Writer) error {
			return w.WriteEndArray()
		}, jtext.ErrNoTokenToClose, "No token to close. Path ''."},

		{"Mismatch", func(w *jtext.Writer) error {
			w.WriteStartObject()
			return w.WriteEndArray()
		}, jtext.ErrNoTokenToClose, "No token to close. Path ''."},

		{"ValueInObject", func(w *jtext.Writer) error {
			w.WriteStartObject()
			return w.WriteValue(1)
		}, jtext.ErrInvalidState, "Token Value in state ObjectStart would result in an invalid JSON object. Path ''."},

		{"NameAtTop", func(w *jtext.Writer) error {
			return w.WritePropertyName("a", true)
		}, jtext.ErrInvalidState, "Token PropertyName in state Start would result in an invalid JSON object. Path ''."},

		{"NameInArray", func(w *jtext.Writer) error {
			w.WriteStartArray()
			w.WriteValue(true)
			return w.WritePropertyName("a", true)
		}, jtext.ErrInvalidState, "Token PropertyName in state Array would result in an invalid JSON object. Path '[0]'."},

		{"TwoNames", func(w *jtext.Writer) error {
			w.WriteStartObject()
			w.WritePropertyName("a", true)
			return w.WritePropertyName("b", true)
		}, jtext.ErrInvalidState, "Token PropertyName in state Property would result in an invalid JSON object. Path 'a'."},

		{"Closed", func(w *jtext.Writer) error {
			w.Close()
			return w.WriteNull()
		}, jtext.ErrInvalidState, "Writer is closed. Path ''."},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w := jtext.NewWriter(new(bytes.Buffer))
			err := test.steps(w)
			if !errors.Is(err, test.is) {
				t.Fatalf("Got error %v, want %v", err, test.is)
			}
			var werr *jtext.WriterError
			if !errors.As(err, &werr) {
				t.Fatalf("Got error %T, want *jtext.WriterError", err)
			}
			if got := err.Error(); got != test.want {
				t.Errorf("Error: got %q, want %q", got, test.want)
			}
		})
	}
}

func TestWriterRecovers(t *testing.T) {
	var buf bytes.Buffer
	w := jtext.NewWriter(&buf)
	w.WriteStartObject()
	if err := w.WriteValue(1); err == nil {
		t.Fatal("WriteValue in ObjectStart: got nil, want error")
	}
	if got := w.State(); got != jtext.StateObjectStart {
		t.Errorf("State after error: got %v, want %v", got, jtext.StateObjectStart)
	}
	w.WritePropertyName("a", true)
	w.WriteValue(1)
	w.WriteEndObject()
	w.Close()
	if got, want := buf.String(), `{"a":1}`; got != want {
		t.Errorf("Output: got %s, want %s", got, want)
	}
}

type failWriter struct{ err error }

func (f failWriter) Write([]byte) (int, error) { return 0, f.err }

func TestWriterSinkError(t *testing.T) {
	sinkErr := errors.New("disk full")
	w := jtext.NewWriter(failWriter{sinkErr})
	if err := w.WriteStartArray(); err != nil {
		t.Fatalf("WriteStartArray: unexpected error: %v", err)
	}
	if err := w.Flush(); err != sinkErr {
		t.Fatalf("Flush: got %v, want %v", err, sinkErr)
	}
	if got := w.State(); got != jtext.StateError {
		t.Errorf("State: got %v, want %v", got, jtext.StateError)
	}

	err := w.WriteNull()
	if !errors.Is(err, jtext.ErrInvalidState) {
		t.Errorf("WriteNull: got %v, want %v", err, jtext.ErrInvalidState)
	}
	if got, want := err.Error(), "Writer is in an error state: disk full. Path ''."; got != want {
		t.Errorf("Error: got %q, want %q", got, want)
	}
	if err := w.Close(); err != sinkErr {
		t.Errorf("Close: got %v, want %v", err, sinkErr)
	}
	if got := w.State(); got != jtext.StateClosed {
		t.Errorf("State after Close: got %v, want %v", got, jtext.StateClosed)
	}
}

func TestWriterClose(t *testing.T) {
	open := func(w *jtext.Writer) {
		w.WriteStartObject()
		w.WritePropertyName("a", true)
		w.WriteStartArray()
		w.WriteValue(1)
	}

	t.Run("AutoComplete", func(t *testing.T) {
		var buf bytes.Buffer
		w := jtext.NewWriter(&buf)
		open(w)
		if err := w.Close(); err != nil {
			t.Fatalf("Close: unexpected error: %v", err)
		}
		if got, want := buf.String(), `{"a":[1]}`; got != want {
			t.Errorf("Output: got %s, want %s", got, want)
		}
		if err := w.Close(); err != nil {
			t.Errorf("Second Close: unexpected error: %v", err)
		}
	})

	t.Run("NoAutoComplete", func(t *testing.T) {
		var buf bytes.Buffer
		w := jtext.NewWriter(&buf)
		w.AutoCompleteOnClose(false)
		open(w)
		if err := w.Close(); err != nil {
			t.Fatalf("Close: unexpected error: %v", err)
		}
		if got, want := buf.String(), `{"a":[1`; got != want {
			t.Errorf("Output: got %s, want %s", got, want)
		}
	})

	t.Run("PendingProperty", func(t *testing.T) {
		var buf bytes.Buffer
		w := jtext.NewWriter(&buf)
		w.WriteStartObject()
		w.WritePropertyName("a", true)
		if err := w.WriteEnd(); err != nil {
			t.Fatalf("WriteEnd: unexpected error: %v", err)
		}
		w.Close()
		if got, want := buf.String(), `{"a":null}`; got != want {
			t.Errorf("Output: got %s, want %s", got, want)
		}
	})

	t.Run("CloseOutput", func(t *testing.T) {
		c := &closeBuffer{}
		w := jtext.NewWriter(c)
		w.CloseOutput(true)
		w.WriteValue("x")
		if err := w.Close(); err != nil {
			t.Fatalf("Close: unexpected error: %v", err)
		}
		if !c.closed {
			t.Error("Underlying writer was not closed")
		}
		if got, want := c.String(), `"x"`; got != want {
			t.Errorf("Output: got %s, want %s", got, want)
		}
	})
}

type closeBuffer struct {
	bytes.Buffer
	closed bool
}

func (c *closeBuffer) Close() error { c.closed = true; return nil }

func TestWriterConstructor(t *testing.T) {
	var buf bytes.Buffer
	w := jtext.NewWriter(&buf)
	w.WriteStartObject()
	w.WritePropertyName("when", true)
	w.WriteStartConstructor("Date")
	w.WriteComment("c")
	w.WriteValue(1234)
	w.WriteValue("x")
	if got, want := w.Path(), "when[1]"; got != want {
		t.Errorf("Path: got %q, want %q", got, want)
	}
	if err := w.WriteEndConstructor(); err != nil {
		t.Fatalf("WriteEndConstructor: unexpected error: %v", err)
	}
	w.WriteEndObject()
	w.Close()
	if got, want := buf.String(), `{"when":new Date(/*c*/1234,"x")}`; got != want {
		t.Errorf("Output: got %s, want %s", got, want)
	}
}

func TestWriterMultipleValues(t *testing.T) {
	var buf bytes.Buffer
	w := jtext.NewWriter(&buf)
	w.WriteValue(1)
	w.WriteComment("c")
	w.WriteStartArray()
	w.WriteEndArray()
	w.WriteValue(true)
	w.Close()
	if got, want := buf.String(), "1/*c*/\n[]\ntrue"; got != want {
		t.Errorf("Output: got %q, want %q", got, want)
	}
}

func TestWriterRaw(t *testing.T) {
	var buf bytes.Buffer
	w := jtext.NewWriter(&buf)
	w.WriteStartArray()
	w.WriteRawValue(`{"x":1}`)
	w.WriteRawValue("2")
	w.WriteRaw(" ")
	w.WriteValue(3)
	w.WriteEndArray()
	w.Close()
	if got, want := buf.String(), `[{"x":1},2 ,3]`; got != want {
		t.Errorf("Output: got %s, want %s", got, want)
	}
}

func TestWriterPath(t *testing.T) {
	w := jtext.NewWriter(new(bytes.Buffer))
	type check struct {
		path  string
		depth int
		state jtext.WriteState
	}
	var got []check
	record := func() { got = append(got, check{w.Path(), w.Depth(), w.State()}) }

	record()
	w.WriteStartObject()
	record()
	w.WritePropertyName("a b", true)
	record()
	w.WriteStartArray()
	record()
	w.WriteValue(1)
	w.WriteValue(2)
	record()
	w.WriteEndArray()
	record()
	w.WritePropertyName("c", true)
	w.WriteValue(nil)
	record()
	w.WriteEndObject()
	record()

	want := []check{
		{"", 0, jtext.StateStart},
		{"", 1, jtext.StateObjectStart},
		{"['a b']", 1, jtext.StateProperty},
		{"['a b']", 2, jtext.StateArrayStart},
		{"['a b'][1]", 2, jtext.StateArray},
		{"['a b']", 1, jtext.StateObject},
		{"c", 1, jtext.StateObject},
		{"", 0, jtext.StateStart},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(check{})); diff != "" {
		t.Errorf("Writer positions (-want, +got):\n%s", diff)
	}
}

func TestWriterValid(t *testing.T) {
	var buf bytes.Buffer
	w := jtext.NewWriter(&buf)
	w.SetStringEscapeHandling(jtext.EscapeNonASCII)
	w.WriteStartObject()
	w.WritePropertyName("list", true)
	w.WriteStartArray()
	for _, v := range []any{1, 2.5, "three\n", true, nil, []byte("four"), decimal.New(5, 0), time.Unix(0, 0).UTC()} {
		if err := w.WriteValue(v); err != nil {
			t.Fatalf("WriteValue(%v): unexpected error: %v", v, err)
		}
	}
	w.WriteEndArray()
	w.WritePropertyName("café", true)
	w.WriteStartObject()
	w.WriteEndObject()
	if err := w.Close(); err != nil {
		t.Fatalf("Close: unexpected error: %v", err)
	}
	if !jsoniter.Valid(buf.Bytes()) {
		t.Errorf("Output is not valid JSON: %s", buf.String())
	}
	if strings.ContainsFunc(buf.String(), func(r rune) bool { return r > 127 }) {
		t.Errorf("Output contains non-ASCII characters: %s", buf.String())
	}
}

func TestWriterOptions(t *testing.T) {
	if _, err := (jtext.WriterOptions{QuoteChar: 'x'}).NewWriter(new(bytes.Buffer)); !errors.Is(err, jtext.ErrInvalidQuoteChar) {
		t.Errorf("NewWriter: got %v, want %v", err, jtext.ErrInvalidQuoteChar)
	}

	var buf bytes.Buffer
	w, err := jtext.WriterOptions{
		QuoteChar:      '\'',
		UnquotedNames:  true,
		FloatFormat:    jtext.FloatFormatSymbol,
		NoAutoComplete: true,
	}.NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter: unexpected error: %v", err)
	}
	w.WriteStartObject()
	w.WritePropertyName("x", true)
	w.WriteValue(math.Inf(1))
	w.WritePropertyName("y", true)
	w.WriteValue("z")
	w.Close()
	if got, want := buf.String(), `{x:Infinity,y:'z'`; got != want {
		t.Errorf("Output: got %s, want %s", got, want)
	}
}
