// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtext

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the errors reported by a Reader.
type ErrorKind byte

const (
	LexicalError    ErrorKind = iota + 1 // malformed literal
	StructuralError                      // token illegal in its context
	CoercionError                        // token cannot satisfy a typed read
)

func (k ErrorKind) String() string {
	switch k {
	case LexicalError:
		return "lexical error"
	case StructuralError:
		return "structural error"
	case CoercionError:
		return "coercion error"
	}
	return "unknown error"
}

// Sentinel errors wrapped by *SyntaxError and *WriterError values, for use
// with errors.Is.
var (
	ErrUnterminatedString  = errors.New("unterminated string")
	ErrUnterminatedComment = errors.New("unterminated comment")
	ErrInvalidNumber       = errors.New("invalid number")
	ErrInvalidEscape       = errors.New("invalid escape sequence")
	ErrUnexpectedChar      = errors.New("unexpected character")
	ErrUnexpectedEnd       = errors.New("unexpected end of input")
	ErrUnexpectedToken     = errors.New("unexpected token")
	ErrAdditionalContent   = errors.New("additional content after value")
	ErrMaxDepth            = errors.New("maximum depth exceeded")
	ErrClosed              = errors.New("reader is closed")
	ErrCoercion            = errors.New("cannot convert value")

	ErrNoTokenToClose   = errors.New("no token to close")
	ErrInvalidState     = errors.New("invalid writer state")
	ErrUnsupportedType  = errors.New("unsupported type")
	ErrInvalidQuoteChar = errors.New("invalid quote character")
)

// SyntaxError is the concrete type of errors reported by a Reader for
// malformed or unexpected input. It does not describe errors from the
// underlying source, which are reported verbatim.
type SyntaxError struct {
	Kind    ErrorKind
	Pos     Position // location of the offending character
	Path    string   // path of the reader at the point of failure
	Message string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("%s. Path '%s', line %d, position %d.", s.Message, s.Path, s.Pos.Line, s.Pos.Column)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// WriterError is the concrete type of errors reported by a Writer for calls
// that are not legal in its current state. Errors from the underlying sink
// are reported verbatim.
type WriterError struct {
	Path    string
	Message string

	err error
}

// Error satisfies the error interface.
func (w *WriterError) Error() string {
	return fmt.Sprintf("%s. Path '%s'.", w.Message, w.Path)
}

// Unwrap supports error wrapping.
func (w *WriterError) Unwrap() error { return w.err }
