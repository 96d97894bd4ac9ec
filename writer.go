// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtext

import (
	"bufio"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/creachadair/jtext/internal/escape"
	"go4.org/mem"
)

// WriteState is the state of a Writer between tokens.
type WriteState byte

const (
	StateStart            WriteState = iota // nothing written, or a top-level value is complete
	StateProperty                           // after a property name
	StateObjectStart                        // after "{"
	StateObject                             // after a member value
	StateArrayStart                         // after "["
	StateArray                              // after an array element
	StateConstructorStart                   // after "new Name("
	StateConstructor                        // after a constructor argument
	StateClosed                             // the writer has been closed
	StateError                              // the output failed
)

var writeStateStr = [...]string{
	StateStart:            "Start",
	StateProperty:         "Property",
	StateObjectStart:      "ObjectStart",
	StateObject:           "Object",
	StateArrayStart:       "ArrayStart",
	StateArray:            "Array",
	StateConstructorStart: "ConstructorStart",
	StateConstructor:      "Constructor",
	StateClosed:           "Closed",
	StateError:            "Error",
}

func (s WriteState) String() string {
	if int(s) >= len(writeStateStr) {
		return fmt.Sprintf("WriteState(%d)", s)
	}
	return writeStateStr[s]
}

// A tokenClass groups the tokens that have the same effect on the state of a
// Writer.
type tokenClass byte

const (
	classStartObject tokenClass = iota
	classStartArray
	classStartConstructor
	classProperty
	classComment
	classValue
)

var classStr = [...]string{
	classStartObject:      "StartObject",
	classStartArray:       "StartArray",
	classStartConstructor: "StartConstructor",
	classProperty:         "PropertyName",
	classComment:          "Comment",
	classValue:            "Value",
}

// transitions[c][s] is the state following a token of class c written in
// state s. StateError marks a token that is not legal in that state.
var transitions = [...][StateError + 1]WriteState{
	classStartObject: {
		StateObjectStart, StateObjectStart, StateError, StateError, StateObjectStart,
		StateObjectStart, StateObjectStart, StateObjectStart, StateError, StateError,
	},
	classStartArray: {
		StateArrayStart, StateArrayStart, StateError, StateError, StateArrayStart,
		StateArrayStart, StateArrayStart, StateArrayStart, StateError, StateError,
	},
	classStartConstructor: {
		StateConstructorStart, StateConstructorStart, StateError, StateError, StateConstructorStart,
		StateConstructorStart, StateConstructorStart, StateConstructorStart, StateError, StateError,
	},
	classProperty: {
		StateProperty, StateError, StateProperty, StateProperty, StateError,
		StateError, StateError, StateError, StateError, StateError,
	},
	classComment: {
		StateStart, StateProperty, StateObjectStart, StateObject, StateArrayStart,
		StateArray, StateConstructorStart, StateConstructor, StateError, StateError,
	},
	classValue: {
		StateStart, StateObject, StateError, StateError, StateArray,
		StateArray, StateConstructor, StateConstructor, StateError, StateError,
	},
}

// A Writer emits JSON text to an output stream. Each method writes a single
// token, together with the separators and whitespace required before it.
//
// Output is buffered; call Flush or Close to ensure it has been delivered to
// the underlying writer. A token that is not legal in the current state is
// rejected with a *WriterError and leaves the writer unchanged. An error from
// the underlying writer is returned verbatim and moves the writer to
// StateError, after which all writes fail.
type Writer struct {
	out   *bufio.Writer
	dst   io.Writer
	state WriteState
	trk   tracker
	err   error // output error, in StateError
	done  bool  // a top-level value has been written

	format       Formatting
	indentChar   rune
	indent       int
	quote        byte
	quoteNames   bool
	floats       FloatFormatHandling
	escape       StringEscapeHandling
	dates        DateFormatHandling
	closeOutput  bool
	autoComplete bool

	buf  []byte   // the token being written
	held []string // comments to write after the next separator
}

// NewWriter constructs a Writer that emits compact JSON to w, with double
// quoted strings and property names, NaN and infinities written as strings,
// and ISO 8601 dates.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		out:          bufio.NewWriter(w),
		dst:          w,
		indentChar:   ' ',
		indent:       2,
		quote:        '"',
		quoteNames:   true,
		autoComplete: true,
	}
}

// SetFormatting selects compact or indented output.
func (w *Writer) SetFormatting(f Formatting) { w.format = f }

// SetIndent sets the character and count used for each level of indentation
// in indented output. A count of 0 or less selects 2, and a zero char selects
// a space.
func (w *Writer) SetIndent(char rune, n int) {
	if char == 0 {
		char = ' '
	}
	if n <= 0 {
		n = 2
	}
	w.indentChar, w.indent = char, n
}

// SetQuoteChar sets the delimiter for strings and property names, which must
// be either a double quotation mark (") or a single quotation mark (').
func (w *Writer) SetQuoteChar(q rune) error {
	if q != '"' && q != '\'' {
		return &WriterError{
			Path:    w.trk.path(),
			Message: "Invalid JavaScript string quote character. Valid quote characters are ' and \"",
			err:     ErrInvalidQuoteChar,
		}
	}
	w.quote = byte(q)
	return nil
}

// QuoteNames configures whether property names are quoted (true) or written
// bare (false).
func (w *Writer) QuoteNames(ok bool) { w.quoteNames = ok }

// SetFloatFormatHandling selects how NaN and infinite values are written.
func (w *Writer) SetFloatFormatHandling(h FloatFormatHandling) { w.floats = h }

// SetStringEscapeHandling selects which characters are escaped in strings.
func (w *Writer) SetStringEscapeHandling(h StringEscapeHandling) { w.escape = h }

// SetDateFormatHandling selects how dates are written.
func (w *Writer) SetDateFormatHandling(h DateFormatHandling) { w.dates = h }

// CloseOutput configures whether Close also closes the underlying writer, if
// it implements io.Closer.
func (w *Writer) CloseOutput(ok bool) { w.closeOutput = ok }

// AutoCompleteOnClose configures whether Close writes end tokens for any
// containers that are still open.
func (w *Writer) AutoCompleteOnClose(ok bool) { w.autoComplete = ok }

// State reports the current state of the writer.
func (w *Writer) State() WriteState { return w.state }

// Depth reports the number of containers currently open.
func (w *Writer) Depth() int { return w.trk.depth() }

// Path returns the path of the most recently written token.
func (w *Writer) Path() string { return w.trk.path() }

// Flush writes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	if w.state == StateError {
		return w.err
	}
	if err := w.out.Flush(); err != nil {
		return w.fault(err)
	}
	return nil
}

// Close closes the writer. Unless AutoCompleteOnClose is disabled, any open
// containers are first closed. Buffered output is flushed, and if CloseOutput
// is enabled and the underlying writer is an io.Closer, it is closed.
// Subsequent writes report ErrInvalidState.
func (w *Writer) Close() error {
	if w.state == StateClosed {
		return nil
	}
	var err error
	if w.state != StateError && w.autoComplete {
		for w.trk.depth() > 0 && err == nil {
			err = w.WriteEnd()
		}
	}
	if err == nil && w.state != StateError && len(w.held) != 0 {
		w.buf = w.buf[:0]
		w.appendHeld()
		err = w.commit(w.state)
	}
	if err == nil {
		err = w.Flush()
	}
	w.state = StateClosed
	if c, ok := w.dst.(io.Closer); ok && w.closeOutput {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// WriteStartObject writes the beginning of an object.
func (w *Writer) WriteStartObject() error {
	return w.writeStart(classStartObject, ObjectContainer, "{")
}

// WriteStartArray writes the beginning of an array.
func (w *Writer) WriteStartArray() error {
	return w.writeStart(classStartArray, ArrayContainer, "[")
}

// WriteStartConstructor writes the beginning of a constructor with the given
// name, for example "new Date(".
func (w *Writer) WriteStartConstructor(name string) error {
	return w.writeStart(classStartConstructor, ConstructorContainer, "new "+name+"(")
}

func (w *Writer) writeStart(c tokenClass, kind ContainerKind, text string) error {
	next, err := w.begin(c)
	if err != nil {
		return err
	}
	w.trk.advance()
	w.trk.push(kind)
	w.buf = append(w.buf, text...)
	return w.commit(next)
}

// WriteEndObject writes the end of the innermost container, which must be an
// object.
func (w *Writer) WriteEndObject() error { return w.writeEnd(ObjectContainer) }

// WriteEndArray writes the end of the innermost container, which must be an
// array.
func (w *Writer) WriteEndArray() error { return w.writeEnd(ArrayContainer) }

// WriteEndConstructor writes the end of the innermost container, which must
// be a constructor.
func (w *Writer) WriteEndConstructor() error { return w.writeEnd(ConstructorContainer) }

// WriteEnd writes the end of the innermost container, whatever its kind.
func (w *Writer) WriteEnd() error { return w.writeEnd(w.trk.topKind()) }

func (w *Writer) writeEnd(kind ContainerKind) error {
	if err := w.usable(); err != nil {
		return err
	} else if kind == 0 || w.trk.topKind() != kind {
		return &WriterError{Path: w.trk.path(), Message: "No token to close", err: ErrNoTokenToClose}
	}

	// A property without a value is completed with null.
	if w.state == StateProperty {
		if err := w.WriteNull(); err != nil {
			return err
		}
	}
	empty := w.state == StateObjectStart || w.state == StateArrayStart || w.state == StateConstructorStart

	w.buf = w.buf[:0]
	w.appendHeld()
	w.trk.pop(kind)
	if w.format == FormatIndented && !empty {
		w.appendIndent()
	}
	switch kind {
	case ObjectContainer:
		w.buf = append(w.buf, '}')
	case ArrayContainer:
		w.buf = append(w.buf, ']')
	default:
		w.buf = append(w.buf, ')')
	}
	next := w.postValue()
	if next == StateStart {
		w.done = true
	}
	return w.commit(next)
}

// WritePropertyName writes the name of an object member. If escape is true,
// special characters in name are escaped; otherwise name is written as-is.
func (w *Writer) WritePropertyName(name string, escape bool) error {
	next, err := w.begin(classProperty)
	if err != nil {
		return err
	}
	w.trk.setName(name)
	if w.quoteNames {
		w.buf = append(w.buf, w.quote)
	}
	if escape {
		w.buf = append(w.buf, w.escapeString(name)...)
	} else {
		w.buf = append(w.buf, name...)
	}
	if w.quoteNames {
		w.buf = append(w.buf, w.quote)
	}
	w.buf = append(w.buf, ':')
	return w.commit(next)
}

// WriteComment writes a block comment containing text.
func (w *Writer) WriteComment(text string) error {
	if len(w.held) != 0 {
		return w.writeSeparatedComment(text)
	}
	next, err := w.begin(classComment)
	if err != nil {
		return err
	}
	w.buf = append(w.buf, "/*"...)
	w.buf = append(w.buf, text...)
	w.buf = append(w.buf, "*/"...)
	return w.commit(next)
}

// writeSeparatedComment writes a block comment that follows the separator
// before the next member or element of the current container. The comment is
// held until that token, or the end of the container, is written.
func (w *Writer) writeSeparatedComment(text string) error {
	if err := w.usable(); err != nil {
		return err
	}
	switch w.state {
	case StateObject, StateArray, StateConstructor:
		w.held = append(w.held, text)
		return nil
	}
	return w.WriteComment(text)
}

// appendHeld stages the held comments, each on its own line when indented.
func (w *Writer) appendHeld() {
	for _, text := range w.held {
		if w.format == FormatIndented {
			w.appendIndent()
		}
		w.buf = append(w.buf, "/*"...)
		w.buf = append(w.buf, text...)
		w.buf = append(w.buf, "*/"...)
	}
	w.held = w.held[:0]
}

// WriteRaw writes text verbatim, without separators, whitespace, or any
// change to the state of the writer.
func (w *Writer) WriteRaw(text string) error {
	if err := w.usable(); err != nil {
		return err
	}
	if _, err := w.out.WriteString(text); err != nil {
		return w.fault(err)
	}
	return nil
}

// WriteRawValue writes text verbatim in the position of a value. Separators
// and whitespace are written before it as for any other value.
func (w *Writer) WriteRawValue(text string) error { return w.writeText(text) }

// writeText writes a value whose encoding is text.
func (w *Writer) writeText(text string) error {
	next, err := w.begin(classValue)
	if err != nil {
		return err
	}
	w.trk.advance()
	w.buf = append(w.buf, text...)
	return w.commit(next)
}

// writeBytes writes a value whose encoding is produced by appending to buf.
func (w *Writer) writeBytes(enc func(buf []byte) []byte) error {
	next, err := w.begin(classValue)
	if err != nil {
		return err
	}
	w.trk.advance()
	w.buf = enc(w.buf)
	return w.commit(next)
}

// begin checks that a token of class c is legal in the current state, and
// stages the separators and whitespace that precede it. It returns the state
// following the token.
func (w *Writer) begin(c tokenClass) (WriteState, error) {
	if err := w.usable(); err != nil {
		return 0, err
	}
	next := transitions[c][w.state]
	if next == StateError {
		return 0, &WriterError{
			Path: w.trk.path(),
			Message: fmt.Sprintf("Token %s in state %v would result in an invalid JSON object",
				classStr[c], w.state),
			err: ErrInvalidState,
		}
	}

	w.buf = w.buf[:0]
	if c != classComment {
		switch w.state {
		case StateObject, StateArray, StateConstructor:
			w.buf = append(w.buf, ',')
		case StateStart:
			if w.done {
				w.buf = append(w.buf, '\n')
			}
		}
		w.appendHeld()
	}
	if w.format == FormatIndented {
		switch {
		case w.state == StateProperty:
			w.buf = append(w.buf, ' ')
		case w.state == StateArray, w.state == StateArrayStart,
			w.state == StateConstructor, w.state == StateConstructorStart,
			c == classProperty && w.state != StateStart:
			w.appendIndent()
		}
	}
	if c == classValue && next == StateStart {
		w.done = true
	}
	return next, nil
}

// commit delivers the staged token and enters state next.
func (w *Writer) commit(next WriteState) error {
	if _, err := w.out.Write(w.buf); err != nil {
		return w.fault(err)
	}
	w.state = next
	return nil
}

// fault records a failure of the underlying writer.
func (w *Writer) fault(err error) error {
	w.state = StateError
	w.err = err
	return err
}

// usable reports an error if the writer is closed or has failed.
func (w *Writer) usable() error {
	switch w.state {
	case StateClosed:
		return &WriterError{Path: w.trk.path(), Message: "Writer is closed", err: ErrInvalidState}
	case StateError:
		return &WriterError{
			Path:    w.trk.path(),
			Message: "Writer is in an error state: " + w.err.Error(),
			err:     ErrInvalidState,
		}
	}
	return nil
}

// postValue reports the state following a complete value.
func (w *Writer) postValue() WriteState {
	switch w.trk.topKind() {
	case ObjectContainer:
		return StateObject
	case ArrayContainer:
		return StateArray
	case ConstructorContainer:
		return StateConstructor
	}
	return StateStart
}

func (w *Writer) appendIndent() {
	w.buf = append(w.buf, '\n')
	for range w.indent * w.trk.depth() {
		w.buf = utf8.AppendRune(w.buf, w.indentChar)
	}
}

// escapeString returns the escaped body of s, without delimiters.
func (w *Writer) escapeString(s string) []byte {
	return escape.Quote(mem.S(s), escape.Options{
		Quote:    w.quote,
		NonASCII: w.escape == EscapeNonASCII,
		HTML:     w.escape == EscapeHTML,
	})
}

// appendString appends s to buf as a quoted string.
func (w *Writer) appendString(buf []byte, s string) []byte {
	buf = append(buf, w.quote)
	buf = append(buf, w.escapeString(s)...)
	return append(buf, w.quote)
}
