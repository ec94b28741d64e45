// Copyright © 2018 The ELPS authors

package token

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from a byte stream (io.Reader).
// Invalid utf-8 sequences are not an error, they are scanned as
// utf8.RuneError one byte at a time so that every input can be tokenized.
type Scanner struct {
	file string
	r    *bufio.Reader

	readErr error

	buf  strings.Builder // text scanned since the last EmitToken or Ignore
	c    Rune            // the last rune accepted
	peek *Rune

	// location of the next rune to be scanned
	pos  int
	line int
	col  int

	start Location // location of the first rune in buf
}

// NewScanner initializes and returns a new Scanner.
func NewScanner(file string, r io.Reader) *Scanner {
	s := &Scanner{
		file: file,
		r:    bufio.NewReader(r),
		line: 1,
		col:  1,
	}
	s.Ignore()
	return s
}

// File returns the name of the source stream.
func (s *Scanner) File() string {
	return s.file
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.buf.Reset()
	s.start = Location{
		File: s.file,
		Pos:  s.pos,
		Line: s.line,
		Col:  s.col,
	}
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return s.buf.String()
}

// Rune returns the last rune accepted by the scanner.
func (s *Scanner) Rune() rune {
	return s.c.C
}

// Peek returns the next rune to be scanned.  When the underlying reader is
// exhausted or fails Peek returns a false second value.
func (s *Scanner) Peek() (rune, bool) {
	if s.peek != nil {
		return s.peek.C, true
	}
	if s.readErr != nil {
		return 0, false
	}
	c, n, err := s.r.ReadRune()
	if err != nil {
		s.readErr = err
		return 0, false
	}
	s.peek = &Rune{C: c, N: n}
	return c, true
}

// ScanRune accepts the next rune into the current token.  At the end of input
// ScanRune returns io.EOF.
func (s *Scanner) ScanRune() error {
	if _, ok := s.Peek(); !ok {
		return s.readErr
	}
	r := *s.peek
	s.peek = nil
	s.c = r
	if r.IsRuneError() {
		s.buf.WriteRune(utf8.RuneError)
	} else {
		s.buf.WriteRune(r.C)
	}
	s.pos += r.N
	if r.C == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return nil
}

// Err returns an error encountered reading the input stream.  Reaching the end
// of the stream is not an error.
func (s *Scanner) Err() error {
	if s.readErr == io.EOF {
		return nil
	}
	return s.readErr
}

// EOF returns true when no runes remain to be scanned.
func (s *Scanner) EOF() bool {
	_, ok := s.Peek()
	return !ok && s.readErr == io.EOF
}

// Accept scans the next rune if fn returns true for it.
func (s *Scanner) Accept(fn func(rune) bool) bool {
	peek, ok := s.Peek()
	if !ok || !fn(peek) {
		return false
	}
	return s.ScanRune() == nil
}

// AcceptRune scans the next rune if it is c.
func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(r rune) bool { return r == c })
}

// AcceptSeq scans runes until fn returns false and returns the number of
// runes scanned.
func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

// LocStart returns a Location referencing the beginning of the current token.
func (s *Scanner) LocStart() *Location {
	loc := s.start
	return &loc
}

// Loc returns a Location referencing the next rune to be scanned.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Pos:  s.pos,
		Line: s.line,
		Col:  s.col,
	}
}

// Rune contains a rune that read by Scanner during peeking operations.
type Rune struct {
	C rune
	N int
}

// IsRuneError returns true if Rune represents an invalid utf-8 sequence read
// by utf8.DecodeRune.
func (r Rune) IsRuneError() bool {
	return r.C == utf8.RuneError && r.N == 1
}
