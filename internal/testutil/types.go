// Package testutil defines support code for unit tests.
package testutil

import (
	"errors"
	"io"
	"strings"

	"github.com/creachadair/jtext"
)

// ErrFault is the error reported by a FaultReader.
var ErrFault = errors.New("transient read fault")

// SlowReader is an io.Reader that delivers at most one byte per call.
type SlowReader struct {
	R io.Reader
}

// Read satisfies io.Reader.
func (s SlowReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return s.R.Read(p[:1])
}

// FaultReader is an io.Reader that delivers its input one byte at a time,
// and fails with ErrFault before each byte whose offset is in Faults. Each
// fault is reported once.
type FaultReader struct {
	Input  string
	Faults map[int]bool

	pos int
}

// NewFaultReader returns a FaultReader for input that fails before each of
// the given offsets.
func NewFaultReader(input string, offsets ...int) *FaultReader {
	f := &FaultReader{Input: input, Faults: make(map[int]bool)}
	for _, off := range offsets {
		f.Faults[off] = true
	}
	return f
}

// Read satisfies io.Reader.
func (f *FaultReader) Read(p []byte) (int, error) {
	if f.Faults[f.pos] {
		delete(f.Faults, f.pos)
		return 0, ErrFault
	} else if f.pos >= len(f.Input) {
		return 0, io.EOF
	} else if len(p) == 0 {
		return 0, nil
	}
	p[0] = f.Input[f.pos]
	f.pos++
	return 1, nil
}

// Tokens reads all the tokens of r and renders them one per line, for
// comparison in tests. It stops at the end of input or the first error, and
// returns that error if it is not io.EOF.
func Tokens(r *jtext.Reader) (string, error) {
	var sb strings.Builder
	for {
		err := r.Next()
		if err == io.EOF {
			return sb.String(), nil
		} else if err != nil {
			return sb.String(), err
		}
		sb.WriteString(r.Token().String())
		sb.WriteByte('\n')
	}
}

// ReadAll reads all the tokens of r, retrying after any error that is not a
// syntax error, and returns the tokens in order. The locations of the
// tokens are discarded.
func ReadAll(r *jtext.Reader) ([]jtext.Token, error) {
	var out []jtext.Token
	for {
		err := r.Next()
		if err == io.EOF {
			return out, nil
		} else if err != nil {
			var serr *jtext.SyntaxError
			if errors.As(err, &serr) {
				return out, err
			}
			continue
		}
		tok := r.Token()
		tok.Location = jtext.Location{}
		out = append(out, tok)
	}
}
