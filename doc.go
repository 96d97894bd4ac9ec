// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jtext implements a pull-style JSON token reader and a matching
// token writer.
//
// # Reading
//
// The Reader type reads a stream of typed tokens from JSON text. Construct a
// reader from an io.Reader and call its Next method to iterate over the
// stream. Next advances to the next token and returns nil, or reports an
// error:
//
//	r := jtext.NewReader(input)
//	for r.Next() == nil {
//	   log.Printf("Next token: %v at %s", r.Token(), r.Path())
//	}
//
// Next returns io.EOF when the input has been fully consumed. A malformed
// input is reported as an error of concrete type *jtext.SyntaxError, which
// records the line, column and path of the failure. Any other error comes
// from the underlying reader, and may be retried.
//
// By default the reader accepts a permissive superset of JSON that includes
// comments, single-quoted strings, unquoted property names, trailing commas,
// NaN and Infinity, hexadecimal and octal integers, and constructors:
//
//	{
//	  // a comment
//	  name: 'value',
//	  when: new Date(1234),
//	  list: [0x1F, NaN,],
//	}
//
// Call the Strict method to accept only standard JSON.
//
// The ReadAs methods advance the reader and convert the next value to a
// specific Go type:
//
//	n, ok, err := r.ReadAsInt32()
//
// # Writing
//
// The Writer type writes JSON text one token at a time, and checks that the
// tokens form a valid structure:
//
//	w := jtext.NewWriter(output)
//	w.SetFormatting(jtext.FormatIndented)
//	w.WriteStartObject()
//	w.WritePropertyName("count", true)
//	w.WriteValue(25)
//	w.WriteEndObject()
//	if err := w.Close(); err != nil {
//	   log.Fatalf("Write failed: %v", err)
//	}
//
// To copy tokens from a Reader to a Writer, use WriteToken or WriteAll.
//
// # Streaming
//
// The Stream type implements an event-driven parser over a Reader. The parser
// works by calling methods on a Handler value to report the structure of the
// input:
//
//	s := jtext.NewStream(input)
//	if err := s.Parse(handler); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// The methods of a handler correspond to the syntax of JSON values:
//
//	JSON type    | Methods                          | Description
//	------------ | -------------------------------- | -------------------------
//	object       | BeginObject, EndObject           | { ... }
//	array        | BeginArray, EndArray             | [ ... ]
//	constructor  | BeginConstructor, EndConstructor | new Name( ... )
//	member       | BeginMember, EndMember           | "key": value
//	value        | Value                            | true, false, null, number, string
//	--           | EndOfInput                       | end of input
//
// Each method is passed an Anchor value that can be used to retrieve the
// current token, its location, and its path.
package jtext
