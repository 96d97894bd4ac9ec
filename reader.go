// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtext

import (
	"errors"
	"fmt"
	"io"
)

// readState is the state of a Reader between tokens.
type readState byte

const (
	readStart            readState = iota // expecting a top-level value
	readComplete                          // a top-level value has been read
	readObjectStart                       // after "{"
	readProperty                          // after a property name, expecting ":"
	readMemberValue                       // after ":", expecting a value
	readObject                            // after a member value
	readObjectComma                       // after "," in an object
	readArrayStart                        // after "["
	readArray                             // after an array element
	readArrayComma                        // after "," in an array
	readConstructorStart                  // after "new Name("
	readConstructor                       // after a constructor argument
	readConstructorComma                  // after "," in a constructor
	readError                             // a syntax error was reported
	readClosed                            // the reader has been closed
)

// A Reader reads a stream of typed tokens from JSON text. Each call to Next
// advances the reader to the next token, or reports an error.
//
// By default a Reader accepts a permissive superset of JSON: comments,
// single-quoted strings, unquoted property names, trailing commas, array
// holes, NaN and Infinity, hexadecimal and octal integers, undefined, and
// constructors such as new Date(0). Call Strict to accept only RFC 8259 JSON.
type Reader struct {
	src   source
	in    io.Reader
	trk   tracker
	state readState
	tok   Token
	err   error // sticky error, in readError

	// Position of the last consumed character.
	line, col int
	lastCR    bool
	start     Position // start of the current token

	maxDepth   int
	exceeded   bool // MaxDepth was exceeded and not yet recovered
	multi      bool
	floats     FloatParseHandling
	dates      DateParseHandling
	culture    Culture
	strict     bool
	closeInput bool

	buf []byte // scratch space for literals
}

// NewReader constructs a new Reader that consumes input from r, with default
// settings: permissive grammar, MaxDepth of DefaultMaxDepth, a single
// top-level value, float64 numbers, and dates read as strings.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		src:      newSource(r),
		in:       r,
		line:     1,
		maxDepth: DefaultMaxDepth,
		culture:  InvariantCulture,
	}
}

// SetMaxDepth sets the maximum nesting depth of containers. A value of 0 or
// less removes the limit.
func (r *Reader) SetMaxDepth(n int) { r.maxDepth = max(n, 0) }

// MaxDepth reports the maximum nesting depth, or 0 if there is no limit.
func (r *Reader) MaxDepth() int { return r.maxDepth }

// SupportMultipleContent configures the reader to accept (true) or reject
// (false) further top-level values after the first is complete.
func (r *Reader) SupportMultipleContent(ok bool) { r.multi = ok }

// SetFloatParseHandling selects the type of Float token values.
func (r *Reader) SetFloatParseHandling(h FloatParseHandling) { r.floats = h }

// SetDateParseHandling selects whether date strings are read as Date tokens.
func (r *Reader) SetDateParseHandling(h DateParseHandling) { r.dates = h }

// SetCulture sets the culture used to convert string tokens to numbers.
func (r *Reader) SetCulture(c Culture) { r.culture = c }

// Strict configures the reader to accept only standard JSON (true), or the
// permissive grammar (false).
func (r *Reader) Strict(ok bool) { r.strict = ok }

// CloseInput configures whether Close also closes the underlying reader, if
// it implements io.Closer.
func (r *Reader) CloseInput(ok bool) { r.closeInput = ok }

// SetBufferSize sets the number of bytes requested from the underlying reader
// on each refill.
func (r *Reader) SetBufferSize(n int) { r.src.setBufferSize(n) }

// Token returns the current token.
func (r *Reader) Token() Token { return r.tok }

// Type returns the type of the current token.
func (r *Reader) Type() TokenType { return r.tok.Type }

// Value returns the value of the current token.
func (r *Reader) Value() any { return r.tok.Value }

// Location returns the location of the current token.
func (r *Reader) Location() Location { return r.tok.Location }

// Depth reports the number of containers currently open.
func (r *Reader) Depth() int { return r.trk.depth() }

// Path returns the path of the current token, for example "a.b[1]".
func (r *Reader) Path() string { return r.trk.path() }

// Position reports the position of the last character consumed.
func (r *Reader) Position() Position {
	return Position{Line: r.line, Column: r.col, Offset: r.src.offset()}
}

// Err returns the syntax error that stopped the reader, if any.
func (r *Reader) Err() error { return r.err }

// Close closes the reader. Subsequent calls to Next report ErrClosed. If
// CloseInput is enabled and the underlying reader is an io.Closer, it is also
// closed.
func (r *Reader) Close() error {
	r.state = readClosed
	r.tok = Token{}
	r.trk.reset()
	if c, ok := r.in.(io.Closer); ok && r.closeInput {
		return c.Close()
	}
	return nil
}

// Next advances r to the next token of the input, or reports an error. At
// the end of the input, Next returns io.EOF and the current token is None.
// Reaching the end of input while containers are open is not itself an error;
// in that case Depth reports a value greater than zero.
//
// A syntax error has concrete type *SyntaxError. After a syntax error, other
// than one reporting ErrMaxDepth, all further calls to Next return the same
// error. An error from the underlying reader is returned without change and
// does not disturb the state of r: once the underlying reader recovers, the
// next call to Next proceeds as if the error had not occurred.
func (r *Reader) Next() error {
	switch r.state {
	case readClosed:
		return ErrClosed
	case readError:
		return r.err
	}

	snap := r.save()
	err := r.scan()
	defer r.src.clearMark()
	if err == nil {
		return nil
	} else if err == io.EOF {
		r.tok = Token{Location: Location{
			Span:  Span{Pos: r.src.offset(), End: r.src.offset()},
			First: r.here(), Last: r.Position(),
		}}
		return io.EOF
	}

	var serr *SyntaxError
	if errors.As(err, &serr) {
		if !errors.Is(err, ErrMaxDepth) {
			r.state = readError
			r.err = err
		}
		return err
	}

	// The underlying reader failed: undo any partial progress.
	r.restore(snap)
	return err
}

// Skip skips the children of the current token. If the current token is a
// property name, its value is skipped. If it is the start of a container,
// the reader advances to the matching end token. Otherwise Skip does nothing.
func (r *Reader) Skip() error {
	if r.tok.Type == PropertyName {
		if err := r.Next(); err != nil {
			return err
		}
	}
	if !r.tok.Type.IsStart() {
		return nil
	}
	depth := r.trk.depth()
	for {
		if err := r.Next(); err == io.EOF {
			return io.ErrUnexpectedEOF
		} else if err != nil && !errors.Is(err, ErrMaxDepth) {
			return err
		}
		if r.tok.Type.IsEnd() && r.trk.depth() < depth {
			return nil
		}
	}
}

type snapshot struct {
	line, col int
	lastCR    bool
}

func (r *Reader) save() snapshot {
	r.src.setMark()
	return snapshot{line: r.line, col: r.col, lastCR: r.lastCR}
}

func (r *Reader) restore(s snapshot) {
	r.src.rewind()
	r.line, r.col, r.lastCR = s.line, s.col, s.lastCR
}

// here reports the position of the next unconsumed character.
func (r *Reader) here() Position {
	return Position{Line: r.line, Column: r.col + 1, Offset: r.src.offset()}
}

// peek returns the next character of input without consuming it.
func (r *Reader) peek() (rune, error) {
	ch, _, err := r.src.peek()
	return ch, err
}

// next consumes and returns the next character of input.
func (r *Reader) next() (rune, error) {
	ch, n, err := r.src.peek()
	if err != nil {
		return 0, err
	}
	r.src.skip(n)
	switch {
	case ch == '\n' && r.lastCR:
		r.lastCR = false
	case ch == '\n' || ch == '\r':
		r.line++
		r.col = 0
		r.lastCR = ch == '\r'
	default:
		r.col++
		r.lastCR = false
	}
	return ch, nil
}

// skipSpace consumes whitespace and returns the next non-space character
// without consuming it.
func (r *Reader) skipSpace() (rune, error) {
	for {
		ch, err := r.peek()
		if err != nil {
			return 0, err
		} else if !r.space(ch) {
			return ch, nil
		}
		r.next()
	}
}

// scan reads the next token. It changes the state of r only when a token is
// committed, so that a failure of the underlying reader can be undone.
func (r *Reader) scan() error {
	st := r.state
	for {
		ch, err := r.skipSpace()
		if err == io.EOF && st == readProperty {
			return r.failf(StructuralError, ErrUnexpectedEnd, "Unexpected end after property name. Expected ':'")
		} else if err == io.EOF && st == readMemberValue {
			return r.failf(StructuralError, ErrUnexpectedEnd, "Unexpected end after property name. Expected a value")
		} else if err != nil {
			return err
		}
		r.start = r.here()

		if ch == '/' {
			return r.scanComment(st)
		}

		switch st {
		case readStart:
			return r.scanValue(ch)

		case readComplete:
			if !r.multi {
				return r.failf(StructuralError, ErrAdditionalContent,
					"Additional text encountered after finished reading JSON content: %c", ch)
			}
			return r.scanValue(ch)

		case readObjectStart, readObjectComma:
			if ch == '}' {
				if st == readObjectComma && r.strict {
					return r.failf(StructuralError, ErrUnexpectedToken, "Trailing comma in object")
				}
				r.next()
				return r.endContainer(ObjectContainer)
			}
			return r.scanPropertyName(ch)

		case readProperty:
			if ch != ':' {
				return r.failf(StructuralError, ErrUnexpectedChar,
					"Invalid character after parsing property name. Expected ':' but got: %c", ch)
			}
			r.next()
			st = readMemberValue

		case readMemberValue:
			return r.scanValue(ch)

		case readObject:
			if ch == ',' {
				r.next()
				st = readObjectComma
				continue
			} else if ch == '}' {
				r.next()
				return r.endContainer(ObjectContainer)
			}
			return r.failf(StructuralError, ErrUnexpectedChar,
				"After parsing a value an unexpected character was encountered: %c", ch)

		case readArrayStart, readArrayComma, readConstructorStart, readConstructorComma:
			kind, closer := ArrayContainer, ']'
			if st == readConstructorStart || st == readConstructorComma {
				kind, closer = ConstructorContainer, ')'
			}
			if ch == closer {
				if r.strict && st == readArrayComma {
					return r.failf(StructuralError, ErrUnexpectedToken, "Trailing comma in array")
				}
				r.next()
				return r.endContainer(kind)
			} else if ch == ',' {
				if r.strict {
					return r.failf(StructuralError, ErrUnexpectedChar, "Unexpected character encountered while parsing value: ,")
				}
				r.next()
				r.emitValue(Undefined, nil)
				r.state = commaState(kind)
				return nil
			}
			return r.scanValue(ch)

		case readArray, readConstructor:
			kind, closer := ArrayContainer, ']'
			if st == readConstructor {
				kind, closer = ConstructorContainer, ')'
			}
			if ch == ',' {
				r.next()
				st = commaState(kind)
				continue
			} else if ch == closer {
				r.next()
				return r.endContainer(kind)
			}
			return r.failf(StructuralError, ErrUnexpectedChar,
				"After parsing a value an unexpected character was encountered: %c", ch)

		default:
			panic(fmt.Sprintf("invalid reader state %d", st))
		}
	}
}

// afterSeparator reports whether the last separator consumed by r was a comma
// that has not yet been followed by a member or element.
func (r *Reader) afterSeparator() bool {
	switch r.state {
	case readObjectComma, readArrayComma, readConstructorComma:
		return true
	}
	return false
}

func commaState(kind ContainerKind) readState {
	if kind == ConstructorContainer {
		return readConstructorComma
	}
	return readArrayComma
}

// scanValue reads a value token beginning with ch.
func (r *Reader) scanValue(ch rune) error {
	switch {
	case ch == '{':
		r.next()
		return r.startContainer(ObjectContainer, StartObject, nil)
	case ch == '[':
		r.next()
		return r.startContainer(ArrayContainer, StartArray, nil)
	case ch == '"' || (ch == '\'' && !r.strict):
		s, err := r.scanString(ch)
		if err != nil {
			return err
		}
		if r.dates != DateParseNone {
			if t, ok := parseDate(s, r.dates); ok {
				return r.emitValue(Date, t)
			}
		}
		return r.emitValue(String, s)
	case ch == '-' || isDigit(ch):
		return r.scanNumber(ch)
	case isLetter(ch):
		return r.scanConstant()
	case ch == '}' || ch == ']' || ch == ')':
		return r.failf(StructuralError, ErrUnexpectedToken, "Unexpected end of container while parsing value: %c", ch)
	}
	return r.failf(LexicalError, ErrUnexpectedChar, "Unexpected character encountered while parsing value: %c", ch)
}

// emitValue commits a scalar token.
func (r *Reader) emitValue(typ TokenType, v any) error {
	r.trk.advance()
	r.setToken(typ, v)
	r.state = r.postValue()
	return nil
}

// startContainer commits a start token and opens a container. If this
// exceeds the maximum depth, the token is still committed, but an error is
// reported; no further depth errors are reported until the depth returns
// within the limit.
func (r *Reader) startContainer(kind ContainerKind, typ TokenType, v any) error {
	r.trk.advance()
	r.trk.push(kind)
	r.setToken(typ, v)
	switch kind {
	case ObjectContainer:
		r.state = readObjectStart
	case ArrayContainer:
		r.state = readArrayStart
	default:
		r.state = readConstructorStart
	}
	if r.maxDepth > 0 && r.trk.depth() > r.maxDepth && !r.exceeded {
		r.exceeded = true
		return r.failAt(r.start, StructuralError, ErrMaxDepth,
			fmt.Sprintf("The reader's MaxDepth of %d has been exceeded", r.maxDepth))
	}
	return nil
}

// endContainer commits an end token closing a container of the given kind.
func (r *Reader) endContainer(kind ContainerKind) error {
	if !r.trk.pop(kind) {
		return r.failAt(r.start, StructuralError, ErrUnexpectedToken,
			fmt.Sprintf("Unexpected end of %v while in %v", kind, r.trk.topKind()))
	}
	if r.exceeded && r.trk.depth() <= r.maxDepth {
		r.exceeded = false
	}
	switch kind {
	case ObjectContainer:
		r.setToken(EndObject, nil)
	case ArrayContainer:
		r.setToken(EndArray, nil)
	default:
		r.setToken(EndConstructor, nil)
	}
	r.state = r.postValue()
	return nil
}

// postValue reports the state following a complete value.
func (r *Reader) postValue() readState {
	switch r.trk.topKind() {
	case ObjectContainer:
		return readObject
	case ArrayContainer:
		return readArray
	case ConstructorContainer:
		return readConstructor
	}
	return readComplete
}

func (r *Reader) setToken(typ TokenType, v any) {
	r.tok = Token{
		Type:  typ,
		Value: v,
		Location: Location{
			Span:  Span{Pos: r.start.Offset, End: r.src.offset()},
			First: r.start,
			Last:  r.Position(),
		},
	}
}

func (r *Reader) failf(kind ErrorKind, base error, msg string, args ...any) error {
	return r.failAt(r.here(), kind, base, fmt.Sprintf(msg, args...))
}

func (r *Reader) failAt(pos Position, kind ErrorKind, base error, msg string) error {
	return &SyntaxError{
		Kind:    kind,
		Pos:     pos,
		Path:    r.trk.path(),
		Message: msg,
		err:     base,
	}
}
