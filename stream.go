// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtext

import (
	"errors"
	"fmt"
	"io"
)

// An Anchor represents the current token of a stream. The methods of an
// Anchor report the token, its location in the input, and its path.
type Anchor interface {
	Token() Token       // Returns the current token
	Location() Location // Returns the full location of the token
	Path() string       // Returns the path of the token
}

// A Handler handles events from parsing an input stream.  If a method reports
// an error, parsing stops and that error is returned to the caller.
// The parser ensures containers are correctly balanced.
//
// The Anchor argument to a Handler method is only valid for the duration of
// that method call. If the method needs to retain information about the
// location after it returns, it must copy the relevant data.
type Handler interface {
	// Begin a new object, whose open brace is at loc.
	BeginObject(loc Anchor) error

	// End the most-recently-opened object, whose close brace is at loc.
	EndObject(loc Anchor) error

	// Begin a new array, whose open bracket is at loc.
	BeginArray(loc Anchor) error

	// End the most-recently-opened array, whose close bracket is at loc.
	EndArray(loc Anchor) error

	// Begin a new constructor, whose name is the value of the token at loc.
	BeginConstructor(loc Anchor) error

	// End the most-recently-opened constructor, whose close parenthesis is at
	// loc.
	EndConstructor(loc Anchor) error

	// Begin a new object member, whose name is the value of the token at loc.
	BeginMember(loc Anchor) error

	// End the current object member. The anchor is the last token of the
	// member's value.
	EndMember(loc Anchor) error

	// Report a data value at the given location. The type and value can be
	// recovered from the token.
	Value(loc Anchor) error

	// EndOfInput reports the end of the input stream.
	EndOfInput(loc Anchor)
}

// CommentHandler is an optional interface that a Handler may implement to
// handle comment tokens. If a handler implements this method, Comment will be
// called for each comment token that occurs in the input. If the handler does
// not provide this method, comments will be silently discarded.
type CommentHandler interface {
	// Process the line or block comment at the specified location. The value
	// of the token is the text of the comment without its delimiters.
	Comment(loc Anchor)
}

// Stream is a stream parser that consumes input and delivers events to a
// Handler corresponding with the structure of the input.
type Stream struct {
	r *Reader
}

// NewStream constructs a new Stream that consumes input from r. The stream
// accepts any number of top-level values.
func NewStream(r io.Reader) *Stream {
	rd := NewReader(r)
	rd.SupportMultipleContent(true)
	return &Stream{r: rd}
}

// NewStreamWithReader constructs a new Stream that consumes tokens from r.
func NewStreamWithReader(r *Reader) *Stream { return &Stream{r: r} }

// Strict configures the reader associated with s to accept only standard
// JSON (true), or the permissive grammar (false).
func (s *Stream) Strict(ok bool) { s.r.Strict(ok) }

func (s *Stream) recoverParseError(errp *error) {
	if serr := recover(); serr != nil {
		switch err := serr.(type) {
		case *SyntaxError:
			*errp = err
		case abortError:
			*errp = err.error
		default:
			panic(serr)
		}
	}
}

// Parse parses the input stream and delivers events to h until either an error
// occurs or the input is exhausted. In case of a syntax error, the returned
// error has type [*SyntaxError].
func (s *Stream) Parse(h Handler) (err error) {
	defer s.recoverParseError(&err)

	for {
		err := s.nextToken(h)
		if err == io.EOF {
			h.EndOfInput(s.r)
			return nil
		}
		s.checkRead(err)
		s.parseElement(h)
	}
}

// ParseOne parses a single value from the input stream and delivers events to
// h until the value is complete or an error occurs. If no further value is
// available from the input, ParseOne returns io.EOF. In case of a syntax
// error, the returned error has type [*SyntaxError].
func (s *Stream) ParseOne(h Handler) (err error) {
	defer s.recoverParseError(&err)

	if err := s.nextToken(h); err == io.EOF {
		h.EndOfInput(s.r)
		return err
	} else if err != nil {
		s.checkRead(err)
	}
	s.parseElement(h)
	return nil
}

// parseElement consumes a single value of any type.
// Precondition: the current token begins a value.
func (s *Stream) parseElement(h Handler) {
	switch tok := s.r.Type(); tok {
	case StartObject:
		s.checkError(h.BeginObject(s.r))
		s.parseMembers(h)
		s.checkError(h.EndObject(s.r))
	case StartArray:
		s.checkError(h.BeginArray(s.r))
		s.parseElements(h, EndArray)
		s.checkError(h.EndArray(s.r))
	case StartConstructor:
		s.checkError(h.BeginConstructor(s.r))
		s.parseElements(h, EndConstructor)
		s.checkError(h.EndConstructor(s.r))
	default:
		if !tok.IsPrimitive() {
			s.syntaxError(ErrUnexpectedToken, "unexpected %v", tok)
		}
		s.checkError(h.Value(s.r))
	}
}

// parseMembers consumes zero of more key:value object members.
// Postcondition: the current token is EndObject.
func (s *Stream) parseMembers(h Handler) {
	for {
		tok := s.advance(h)
		if tok == EndObject {
			return // end of object
		} else if tok != PropertyName {
			s.syntaxError(ErrUnexpectedToken, "expected %v or %v, got %v", PropertyName, EndObject, tok)
		}
		s.checkError(h.BeginMember(s.r))
		s.advance(h)
		s.parseElement(h)
		s.checkError(h.EndMember(s.r))
	}
}

// parseElements consumes zero or more array or constructor elements.
// Postcondition: the current token is end.
func (s *Stream) parseElements(h Handler, end TokenType) {
	for {
		if tok := s.advance(h); tok == end {
			return // end of container
		}
		s.parseElement(h)
	}
}

func (s *Stream) nextToken(h Handler) error {
	for {
		if err := s.r.Next(); err != nil {
			return err
		}

		// If we see a comment token, pass it to the handler if it implements
		// CommentHandler. Either way, discard the comment and fetch the next
		// available token for the rest of the parser.
		if s.r.Type() == Comment {
			if ch, ok := h.(CommentHandler); ok {
				ch.Comment(s.r)
			}
			continue
		}
		return nil
	}
}

func (s *Stream) advance(h Handler) TokenType {
	err := s.nextToken(h)
	if err == io.EOF {
		s.syntaxError(ErrUnexpectedEnd, "Unexpected end of input")
	}
	s.checkRead(err)
	return s.r.Type()
}

// checkRead aborts parsing if err is a read error.
func (s *Stream) checkRead(err error) {
	if err == nil {
		return
	}
	var serr *SyntaxError
	if errors.As(err, &serr) {
		panic(serr)
	}
	panic(abortError{err})
}

func (s *Stream) syntaxError(err error, msg string, args ...any) {
	panic(&SyntaxError{
		Kind:    StructuralError,
		Pos:     s.r.Position(),
		Path:    s.r.Path(),
		Message: fmt.Sprintf(msg, args...),
		err:     err,
	})
}

func (s *Stream) checkError(err error) {
	if err != nil {
		panic(abortError{err})
	}
}

// abortError carries an error from a handler or the underlying reader out of
// the parser.
type abortError struct{ error }

func (a abortError) Unwrap() error { return a.error }
