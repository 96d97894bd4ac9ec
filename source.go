// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtext

import (
	"io"
	"unicode/utf8"
)

// DefaultBufferSize is the default number of bytes a source requests from its
// underlying reader per refill.
const DefaultBufferSize = 4096

// maxEmptyReads is the number of consecutive empty reads a source will
// tolerate before reporting io.ErrNoProgress.
const maxEmptyReads = 100

// A source delivers runes from an underlying reader. It owns a buffer that is
// refilled on demand; data at or after the mark are retained across refills
// so that the caller can rewind to the mark.
//
// An error other than io.EOF from the underlying reader is returned to the
// caller of peek, but does not discard any buffered data.
type source struct {
	r     io.Reader
	buf   []byte
	pos   int // offset of the next unread byte in buf
	end   int // offset of the end of valid data in buf
	base  int // absolute input offset of buf[0]
	mark  int // absolute offset of the mark, or -1
	chunk int // bytes requested per read
	eof   bool
	err   error // read error deferred until buffered data are consumed
}

func newSource(r io.Reader) source {
	return source{r: r, mark: -1, chunk: DefaultBufferSize}
}

// setBufferSize sets the number of bytes requested per read. Sizes less than
// 1 are treated as 1.
func (s *source) setBufferSize(n int) { s.chunk = max(n, 1) }

// offset reports the absolute input offset of the next unread byte.
func (s *source) offset() int { return s.base + s.pos }

// setMark marks the current offset as the rewind point.
func (s *source) setMark() { s.mark = s.offset() }

// clearMark discards the rewind point.
func (s *source) clearMark() { s.mark = -1 }

// rewind moves the read position back to the mark.
func (s *source) rewind() {
	if s.mark >= 0 {
		s.pos = s.mark - s.base
	}
}

// peek returns the next rune of input and its encoded size in bytes, without
// consuming it. It returns io.EOF at the end of the input.
func (s *source) peek() (rune, int, error) {
	for {
		if s.pos < s.end {
			if b := s.buf[s.pos]; b < utf8.RuneSelf {
				return rune(b), 1, nil
			}
			if rest := s.buf[s.pos:s.end]; s.eof || utf8.FullRune(rest) {
				ch, n := utf8.DecodeRune(rest)
				return ch, n, nil
			}
		} else if s.eof {
			return 0, 0, io.EOF
		}
		if err := s.fill(); err != nil {
			return 0, 0, err
		}
	}
}

// skip consumes n bytes previously reported by peek.
func (s *source) skip(n int) { s.pos += n }

// fill reads more data into the buffer, compacting the retained region to the
// front of the buffer and growing it as necessary.
func (s *source) fill() error {
	if s.err != nil {
		err := s.err
		s.err = nil
		return err
	}

	keep := s.pos
	if s.mark >= 0 && s.mark-s.base < keep {
		keep = s.mark - s.base
	}
	if keep > 0 {
		s.end = copy(s.buf, s.buf[keep:s.end])
		s.pos -= keep
		s.base += keep
	}
	if need := s.end + s.chunk; need > len(s.buf) {
		nbuf := make([]byte, max(need, 2*len(s.buf)))
		copy(nbuf, s.buf[:s.end])
		s.buf = nbuf
	}

	for range maxEmptyReads {
		n, err := s.r.Read(s.buf[s.end : s.end+s.chunk])
		s.end += n
		if err == io.EOF {
			s.eof = true
			return nil
		} else if err != nil {
			if n > 0 {
				s.err = err
				return nil
			}
			return err
		} else if n > 0 {
			return nil
		}
	}
	return io.ErrNoProgress
}
