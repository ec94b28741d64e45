// Copyright © 2018 The ELPS authors

package token

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerEOF(t *testing.T) {
	r := &io.LimitedReader{
		R: byteFiller('x'),
		N: 10,
	}
	s := NewScanner("", r)
	for i := 0; i < 10; i++ {
		err := s.ScanRune()
		if err != nil {
			t.Fatalf("Scan failure: %v", err)
		}
	}
	tok := s.EmitToken(ATOM)
	assert.Equal(t, "xxxxxxxxxx", tok.Text)

	for i := 0; i < 3; i++ {
		tok := s.EmitToken(ATOM)
		if tok.Text != "" {
			t.Errorf("Bad token text: %q", tok.Text)
		}
		err := s.ScanRune()
		if err != io.EOF {
			t.Fatalf("Not EOF: %q %v", s.Rune(), err)
		}
		if !s.EOF() {
			t.Fatalf("Scanner does not think it is EOF")
		}
	}
	assert.NoError(t, s.Err())
}

func TestScannerAcceptSeq(t *testing.T) {
	s := NewScanner("", strings.NewReader("aaab"))
	n := s.AcceptSeq(func(c rune) bool { return c == 'a' })
	assert.Equal(t, 3, n)
	assert.Equal(t, "aaa", s.Text())
	s.Ignore()
	assert.False(t, s.AcceptRune('a'))
	assert.True(t, s.AcceptRune('b'))
	if s.Accept(func(c rune) bool { return true }) {
		t.Fatal("not EOF")
	}
	if !s.EOF() {
		t.Fatal("not EOF")
	}
}

func TestScanner(t *testing.T) {
	s := NewScanner("", byteFiller('x'))

	var tokens []*Token
	for _, n := range []int{10, 7, 10} {
		for i := 0; i < n; i++ {
			err := s.ScanRune()
			if err != nil {
				t.Fatalf("Scan failure: %v", err)
			}
		}
		tokens = append(tokens, s.EmitToken(ATOM))
	}

	assert.Equal(t, 27, s.Loc().Pos)
	assert.Equal(t, "xxxxxxxxxx", tokens[0].Text)
	assert.Equal(t, 0, tokens[0].Source.Pos)
	assert.Equal(t, "xxxxxxx", tokens[1].Text)
	assert.Equal(t, 10, tokens[1].Source.Pos)
	assert.Equal(t, "xxxxxxxxxx", tokens[2].Text)
	assert.Equal(t, 17, tokens[2].Source.Pos)
}

func TestScannerLoc(t *testing.T) {
	s := NewScanner("test", newSeqFiller([]byte("123456789\n")))

	var tokens []*Token
	for _, n := range []int{10, 10, 5, 5} {
		for i := 0; i < n; i++ {
			err := s.ScanRune()
			if err != nil {
				t.Fatalf("Scan failure: %v", err)
			}
		}
		tokens = append(tokens, s.EmitToken(ATOM))
	}

	assert.Equal(t, 30, s.Loc().Pos)
	assert.Equal(t, 0, tokens[0].Source.Pos)
	assert.Equal(t, 10, tokens[1].Source.Pos)
	assert.Equal(t, 20, tokens[2].Source.Pos)
	assert.Equal(t, 25, tokens[3].Source.Pos)
	assert.Equal(t, "test:1:1", tokens[0].Source.String())
	assert.Equal(t, "test:2:1", tokens[1].Source.String())
	assert.Equal(t, "test:3:1", tokens[2].Source.String())
	assert.Equal(t, "test:3:6", tokens[3].Source.String())
}

func TestScannerInvalidUTF8(t *testing.T) {
	s := NewScanner("", strings.NewReader("a\xffb"))
	for i := 0; i < 3; i++ {
		require.NoError(t, s.ScanRune())
	}
	assert.Equal(t, "a�b", s.Text())
	assert.Equal(t, 3, s.Loc().Pos)
	assert.True(t, s.EOF())
}

func TestScannerReadError(t *testing.T) {
	boom := errors.New("boom")
	s := NewScanner("", io.MultiReader(strings.NewReader("a"), errReader{boom}))
	require.NoError(t, s.ScanRune())
	err := s.ScanRune()
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.Err(), boom)
	assert.False(t, s.EOF())
}

type errReader struct {
	err error
}

func (r errReader) Read(b []byte) (int, error) {
	return 0, r.err
}

type byteFiller byte

func (r byteFiller) Read(b []byte) (int, error) {
	for i := range b {
		b[i] = byte(r)
	}
	return len(b), nil
}

type seqFiller struct {
	seq []byte
	rem []byte
}

func newSeqFiller(seq []byte) *seqFiller {
	if len(seq) == 0 {
		panic("empty byte sequnce")
	}
	buf := make([]byte, len(seq))
	copy(buf, seq)
	return &seqFiller{
		seq: buf,
	}
}

func (r *seqFiller) Read(b []byte) (int, error) {
	if len(r.rem) == 0 {
		r.rem = r.seq
	}
	n := copy(b, r.rem)
	r.rem = r.rem[n:]
	return n, nil
}
