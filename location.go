// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtext

import "fmt"

// A Position describes a single location in source text.
type Position struct {
	Line   int // line number, 1-based
	Column int // character column in line, 1-based
	Offset int // byte offset from the start of input, 0-based
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// A Span describes a contiguous span of a source input.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

// A Location describes the complete location of a range of source text,
// including line and column offsets.
type Location struct {
	Span
	First, Last Position
}

func (loc Location) String() string {
	if loc.First.Line == loc.Last.Line {
		return fmt.Sprintf("%d:%d-%d", loc.First.Line, loc.First.Column, loc.Last.Column)
	}
	return fmt.Sprintf("%s-%s", loc.First, loc.Last)
}
