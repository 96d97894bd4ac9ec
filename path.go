// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtext

import (
	"strconv"
	"strings"
)

// ContainerKind identifies the type of an open container.
type ContainerKind byte

const (
	ObjectContainer ContainerKind = iota + 1
	ArrayContainer
	ConstructorContainer
)

func (k ContainerKind) String() string {
	switch k {
	case ObjectContainer:
		return "object"
	case ArrayContainer:
		return "array"
	case ConstructorContainer:
		return "constructor"
	}
	return "none"
}

// A frame records the state of one open container.
type frame struct {
	kind    ContainerKind
	index   int    // current element index; -1 before the first element
	name    string // current property name (objects)
	hasName bool
}

// hasPosition reports whether f currently addresses a member or element.
func (f frame) hasPosition() bool {
	if f.kind == ObjectContainer {
		return f.hasName
	}
	return f.index >= 0
}

// A tracker maintains the stack of open containers for a reader or writer.
type tracker struct {
	stk []frame
}

func (t *tracker) depth() int { return len(t.stk) }

func (t *tracker) push(kind ContainerKind) {
	t.stk = append(t.stk, frame{kind: kind, index: -1})
}

// pop removes the innermost frame, which must be of the given kind.
func (t *tracker) pop(kind ContainerKind) bool {
	n := len(t.stk)
	if n == 0 || t.stk[n-1].kind != kind {
		return false
	}
	t.stk = t.stk[:n-1]
	return true
}

// top returns the innermost frame, or nil if none is open.
func (t *tracker) top() *frame {
	if len(t.stk) == 0 {
		return nil
	}
	return &t.stk[len(t.stk)-1]
}

func (t *tracker) topKind() ContainerKind {
	if f := t.top(); f != nil {
		return f.kind
	}
	return 0
}

// setName records name as the current property of the innermost object.
func (t *tracker) setName(name string) {
	if f := t.top(); f != nil {
		f.name, f.hasName = name, true
	}
}

// advance records the start of a value. Inside an array or constructor this
// moves to the next element index.
func (t *tracker) advance() {
	if f := t.top(); f != nil && f.kind != ObjectContainer {
		f.index++
	}
}

func (t *tracker) reset() { t.stk = t.stk[:0] }

// path renders the stack as a path string, for example "a.b[2]['c d']".
func (t *tracker) path() string {
	var sb strings.Builder
	for _, f := range t.stk {
		if !f.hasPosition() {
			continue
		}
		if f.kind == ObjectContainer {
			writeName(&sb, f.name)
		} else {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(f.index))
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

func writeName(sb *strings.Builder, name string) {
	if isPlainName(name) {
		if sb.Len() != 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(name)
		return
	}
	sb.WriteString("['")
	for _, c := range name {
		if c == '\'' || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(c)
	}
	sb.WriteString("']")
}

// isPlainName reports whether name can be rendered without brackets.
func isPlainName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
