// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtext

import (
	"fmt"
	"io"
)

// WriteToken copies the current token of r to w, together with all of its
// children. If r has no current token, WriteToken first advances r. If the
// current token is a property name, its value is also copied. On success, the
// current token of r is the last token copied.
//
// Comment tokens are copied as block comments if writeComments is true, and
// are otherwise discarded. WriteToken reports io.ErrUnexpectedEOF if r ends
// before the value is complete.
func (w *Writer) WriteToken(r *Reader, writeComments bool) error {
	if r.Type() == None {
		if err := r.Next(); err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
	}

	initial := r.Depth()
	if r.Type().IsStart() {
		initial--
	}
	var pending bool // a property name awaits its value
	for {
		tok := r.Token()
		var err error
		switch {
		case tok.Type == Comment && !writeComments:
		case tok.Type == Comment && r.afterSeparator():
			text, _ := tok.Value.(string)
			err = w.writeSeparatedComment(text)
		default:
			err = w.WriteCurrentToken(tok)
		}
		if err != nil {
			return err
		}
		switch tok.Type {
		case PropertyName:
			pending = true
		case Comment:
		default:
			pending = false
		}
		if !pending && r.Depth() <= initial {
			return nil
		}

		if err := r.Next(); err == io.EOF {
			return io.ErrUnexpectedEOF
		} else if err != nil {
			return err
		}
	}
}

// WriteCurrentToken writes the single token tok. A None token is ignored.
func (w *Writer) WriteCurrentToken(tok Token) error {
	switch tok.Type {
	case None:
		return nil
	case StartObject:
		return w.WriteStartObject()
	case StartArray:
		return w.WriteStartArray()
	case StartConstructor:
		name, _ := tok.Value.(string)
		return w.WriteStartConstructor(name)
	case PropertyName:
		name, _ := tok.Value.(string)
		return w.WritePropertyName(name, true)
	case Comment:
		text, _ := tok.Value.(string)
		return w.WriteComment(text)
	case Integer, Float, String, Boolean, Date, Bytes:
		return w.WriteValue(tok.Value)
	case Null:
		return w.WriteNull()
	case Undefined:
		return w.WriteUndefined()
	case EndObject:
		return w.WriteEndObject()
	case EndArray:
		return w.WriteEndArray()
	case EndConstructor:
		return w.WriteEndConstructor()
	}
	return &WriterError{
		Path:    w.trk.path(),
		Message: fmt.Sprintf("Unexpected token type: %v", tok.Type),
		err:     ErrUnsupportedType,
	}
}

// WriteAll copies every remaining token of r to w, stopping at the end of the
// input. It reports io.ErrUnexpectedEOF if the input ends inside a container.
// WriteAll does not flush w.
//
// A numeric literal too large for a float64, such as 1e400, is read as an
// infinity and written according to the float format of w. Under the default
// FloatFormatString it is copied as the string "Infinity".
func (w *Writer) WriteAll(r *Reader, writeComments bool) error {
	for {
		if err := r.Next(); err == io.EOF {
			if r.Depth() > 0 {
				return io.ErrUnexpectedEOF
			}
			return nil
		} else if err != nil {
			return err
		}
		if err := w.WriteToken(r, writeComments); err != nil {
			return err
		}
	}
}
