// Package linereader provides a line source with single-line pushback.
// A grammar can fetch a line, decide it does not belong to the current
// production, and hand it back so the next production sees it first.
package linereader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// ErrExhausted is returned by Next when the underlying source has no more lines.
var ErrExhausted = errors.New("linereader: no more lines")

// Source is the underlying line sequence. *bufio.Scanner satisfies it.
type Source interface {
	Scan() bool
	Text() string
	Err() error
}

// Reader yields lines from a Source one at a time. At most one line may be
// pending (pushed back) at any moment.
//
// A Reader is owned by a single parse and is not safe for concurrent use.
type Reader struct {
	src Source

	last    string
	hasLast bool

	pending bool
	line    int
}

// New returns a Reader over the lines of r.
func New(r io.Reader) *Reader {
	return NewFromSource(bufio.NewScanner(r))
}

// NewFromSource returns a Reader over an arbitrary Source.
func NewFromSource(src Source) *Reader {
	return &Reader{src: src}
}

// FromLines returns a Reader over an in-memory slice of lines.
func FromLines(lines []string) *Reader {
	return NewFromSource(&sliceSource{lines: lines, pos: -1})
}

// Next returns the next line. A pushed-back line is returned before the
// source is consulted again. When the source is exhausted Next returns
// ErrExhausted; a read failure in the source is returned wrapped.
func (r *Reader) Next() (string, error) {
	if r.pending {
		r.pending = false
		r.line++
		return r.last, nil
	}
	if !r.src.Scan() {
		if err := r.src.Err(); err != nil {
			return "", fmt.Errorf("linereader: read line %d: %w", r.line+1, err)
		}
		return "", ErrExhausted
	}
	r.last = r.src.Text()
	r.hasLast = true
	r.line++
	return r.last, nil
}

// Unget pushes the most recently fetched line back onto the stream.
// It panics if no line has been fetched yet or if a line is already pending:
// both are caller bugs, not input conditions.
func (r *Reader) Unget() {
	if !r.hasLast {
		panic("linereader: Unget before any line was fetched")
	}
	if r.pending {
		panic("linereader: Unget with a line already pending")
	}
	r.pending = true
	r.line--
}

// Line returns the 1-based number of the most recently fetched line,
// or 0 if nothing has been fetched (or the only fetched line was pushed back).
func (r *Reader) Line() int {
	return r.line
}

// sliceSource adapts a []string to Source.
type sliceSource struct {
	lines []string
	pos   int
}

func (s *sliceSource) Scan() bool {
	if s.pos+1 >= len(s.lines) {
		s.pos = len(s.lines)
		return false
	}
	s.pos++
	return true
}

func (s *sliceSource) Text() string {
	if s.pos < 0 || s.pos >= len(s.lines) {
		return ""
	}
	return s.lines[s.pos]
}

func (s *sliceSource) Err() error { return nil }
