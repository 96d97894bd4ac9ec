// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtext

import (
	"fmt"
	"io"
	"strings"
)

// DefaultMaxDepth is the container nesting limit of a new Reader.
const DefaultMaxDepth = 64

// FloatParseHandling selects the Go type of Float token values.
type FloatParseHandling byte

const (
	FloatParseDouble  FloatParseHandling = iota // float64
	FloatParseDecimal                           // decimal.Decimal
)

// DateParseHandling selects whether date-shaped strings are read as Date
// tokens.
type DateParseHandling byte

const (
	DateParseNone           DateParseHandling = iota // dates are read as strings
	DateParseDateTime                                // dates are read as UTC times
	DateParseDateTimeOffset                          // dates keep their zone offset
)

// Formatting selects the layout of writer output.
type Formatting byte

const (
	FormatNone     Formatting = iota // compact
	FormatIndented                   // one member or element per line
)

// FloatFormatHandling selects how a Writer encodes NaN and infinities.
type FloatFormatHandling byte

const (
	FloatFormatString       FloatFormatHandling = iota // "NaN", "Infinity", "-Infinity"
	FloatFormatSymbol                                  // NaN, Infinity, -Infinity
	FloatFormatDefaultValue                            // 0.0, or null for nullable values
)

// StringEscapeHandling selects which characters a Writer escapes in strings.
type StringEscapeHandling byte

const (
	EscapeDefault  StringEscapeHandling = iota // control characters, quotes and backslash
	EscapeNonASCII                             // also every non-ASCII character
	EscapeHTML                                 // also <, >, &, ' and "
)

// DateFormatHandling selects how a Writer encodes date values.
type DateFormatHandling byte

const (
	DateFormatISO       DateFormatHandling = iota // "2012-03-21T05:40:12.34Z"
	DateFormatMicrosoft                           // "\/Date(1332308412340)\/"
)

var enumNames = map[string]map[string]byte{
	"float-parse":   {"double": byte(FloatParseDouble), "decimal": byte(FloatParseDecimal)},
	"date-parse":    {"none": byte(DateParseNone), "datetime": byte(DateParseDateTime), "datetimeoffset": byte(DateParseDateTimeOffset)},
	"formatting":    {"none": byte(FormatNone), "indented": byte(FormatIndented)},
	"float-format":  {"string": byte(FloatFormatString), "symbol": byte(FloatFormatSymbol), "default": byte(FloatFormatDefaultValue)},
	"string-escape": {"default": byte(EscapeDefault), "nonascii": byte(EscapeNonASCII), "html": byte(EscapeHTML)},
	"date-format":   {"iso": byte(DateFormatISO), "microsoft": byte(DateFormatMicrosoft)},
}

// ParseSetting parses the name of an option value for the named setting, for
// example ParseSetting("formatting", "indented"). The empty string selects
// the zero value. Names are not case sensitive.
func ParseSetting(setting, name string) (byte, error) {
	vals, ok := enumNames[setting]
	if !ok {
		return 0, fmt.Errorf("unknown setting %q", setting)
	}
	if name == "" {
		return 0, nil
	}
	v, ok := vals[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("invalid %s value %q", setting, name)
	}
	return v, nil
}

// Culture describes the locale conventions used when converting the text of
// string tokens to numbers. It does not affect the grammar of numeric
// literals.
type Culture struct {
	Name             string
	DecimalSeparator rune
}

// InvariantCulture is the default Culture.
var InvariantCulture = Culture{DecimalSeparator: '.'}

// normalize rewrites a culture-specific numeric string into invariant form.
func (c Culture) normalize(s string) string {
	s = strings.TrimSpace(s)
	if c.DecimalSeparator == 0 || c.DecimalSeparator == '.' {
		return s
	}
	return strings.ReplaceAll(s, string(c.DecimalSeparator), ".")
}

// ReaderOptions are settings for a Reader. The zero value provides the
// defaults used by NewReader, except that a zero MaxDepth means no limit.
type ReaderOptions struct {
	MaxDepth        int                `yaml:"max-depth"`
	MultipleContent bool               `yaml:"multiple-content"`
	FloatParse      FloatParseHandling `yaml:"-"`
	DateParse       DateParseHandling  `yaml:"-"`
	Culture         Culture            `yaml:"-"`
	Strict          bool               `yaml:"strict"`
	CloseInput      bool               `yaml:"close-input"`
	BufferSize      int                `yaml:"buffer-size"`
}

// NewReader constructs a Reader that consumes r with the settings from o.
func (o ReaderOptions) NewReader(r io.Reader) *Reader {
	rd := NewReader(r)
	rd.SetMaxDepth(o.MaxDepth)
	rd.SupportMultipleContent(o.MultipleContent)
	rd.SetFloatParseHandling(o.FloatParse)
	rd.SetDateParseHandling(o.DateParse)
	if o.Culture != (Culture{}) {
		rd.SetCulture(o.Culture)
	}
	rd.Strict(o.Strict)
	rd.CloseInput(o.CloseInput)
	if o.BufferSize > 0 {
		rd.SetBufferSize(o.BufferSize)
	}
	return rd
}

// WriterOptions are settings for a Writer. The zero value provides the
// defaults used by NewWriter, except as noted.
type WriterOptions struct {
	Formatting     Formatting           `yaml:"-"`
	IndentChar     rune                 `yaml:"-"` // zero means ' '
	Indentation    int                  `yaml:"indentation"`
	QuoteChar      rune                 `yaml:"-"` // zero means '"'
	UnquotedNames  bool                 `yaml:"unquoted-names"`
	FloatFormat    FloatFormatHandling  `yaml:"-"`
	StringEscape   StringEscapeHandling `yaml:"-"`
	DateFormat     DateFormatHandling   `yaml:"-"`
	CloseOutput    bool                 `yaml:"close-output"`
	NoAutoComplete bool                 `yaml:"no-auto-complete"` // do not close open containers on Close
}

// NewWriter constructs a Writer that emits to w with the settings from o.
// It reports an error if the settings are invalid.
func (o WriterOptions) NewWriter(w io.Writer) (*Writer, error) {
	wr := NewWriter(w)
	wr.SetFormatting(o.Formatting)
	if o.IndentChar != 0 || o.Indentation != 0 {
		wr.SetIndent(o.IndentChar, o.Indentation)
	}
	if o.QuoteChar != 0 {
		if err := wr.SetQuoteChar(o.QuoteChar); err != nil {
			return nil, err
		}
	}
	wr.QuoteNames(!o.UnquotedNames)
	wr.SetFloatFormatHandling(o.FloatFormat)
	wr.SetStringEscapeHandling(o.StringEscape)
	wr.SetDateFormatHandling(o.DateFormat)
	wr.CloseOutput(o.CloseOutput)
	wr.AutoCompleteOnClose(!o.NoAutoComplete)
	return wr, nil
}
