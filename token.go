// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtext

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// TokenType is the type of a token in the JSON token stream.
type TokenType byte

// Constants defining the valid TokenType values.
const (
	None             TokenType = iota // no token: before the first read or after the last
	StartObject                       // "{"
	StartArray                        // "["
	StartConstructor                  // "new Name("
	PropertyName                      // object member key
	Comment                           // block or line comment
	Integer                           // integer number
	Float                             // number with fraction and/or exponent, NaN, or Infinity
	String                            // string
	Boolean                           // true or false
	Null                              // null
	Undefined                         // undefined, or an array hole
	EndObject                         // "}"
	EndArray                          // "]"
	EndConstructor                    // ")"
	Date                              // date value
	Bytes                             // binary value
)

var tokenStr = [...]string{
	None:             "None",
	StartObject:      "StartObject",
	StartArray:       "StartArray",
	StartConstructor: "StartConstructor",
	PropertyName:     "PropertyName",
	Comment:          "Comment",
	Integer:          "Integer",
	Float:            "Float",
	String:           "String",
	Boolean:          "Boolean",
	Null:             "Null",
	Undefined:        "Undefined",
	EndObject:        "EndObject",
	EndArray:         "EndArray",
	EndConstructor:   "EndConstructor",
	Date:             "Date",
	Bytes:            "Bytes",
}

func (t TokenType) String() string {
	if int(t) >= len(tokenStr) {
		return fmt.Sprintf("TokenType(%d)", t)
	}
	return tokenStr[t]
}

// IsStart reports whether t opens a container.
func (t TokenType) IsStart() bool {
	return t == StartObject || t == StartArray || t == StartConstructor
}

// IsEnd reports whether t closes a container.
func (t TokenType) IsEnd() bool {
	return t == EndObject || t == EndArray || t == EndConstructor
}

// IsPrimitive reports whether t is a scalar value token.
func (t TokenType) IsPrimitive() bool {
	switch t {
	case Integer, Float, String, Boolean, Null, Undefined, Date, Bytes:
		return true
	}
	return false
}

// A Token is a single typed token read from a JSON text.
//
// The concrete type of Value depends on Type:
//
//	Type              | Value
//	----------------- | ----------------------------------------
//	PropertyName      | string
//	String, Comment   | string
//	StartConstructor  | string (the constructor name)
//	Integer           | int64, or *big.Int if the value overflows int64
//	Float             | float64, or decimal.Decimal
//	Boolean           | bool
//	Date              | time.Time
//	Bytes             | []byte
//	otherwise         | nil
type Token struct {
	Type     TokenType
	Value    any
	Location Location
}

func (t Token) String() string {
	switch v := t.Value.(type) {
	case nil:
		return t.Type.String()
	case string:
		return fmt.Sprintf("%v(%q)", t.Type, v)
	case []byte:
		return fmt.Sprintf("%v(%x)", t.Type, v)
	case time.Time:
		return fmt.Sprintf("%v(%s)", t.Type, v.Format(time.RFC3339Nano))
	case *big.Int:
		return fmt.Sprintf("%v(%s)", t.Type, v.String())
	case decimal.Decimal:
		return fmt.Sprintf("%v(%s)", t.Type, v.String())
	default:
		return fmt.Sprintf("%v(%v)", t.Type, v)
	}
}

// UndefinedValue is the type of the Undefined value accepted by
// Writer.WriteValue.
type UndefinedValue struct{}

// Undef is the Undefined value.
var Undef UndefinedValue
