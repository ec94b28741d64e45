// Copyright © 2018 The ELPS authors

package rdparser

import (
	"github.com/luthersystems/schemer/parser/lexer"
	"github.com/luthersystems/schemer/parser/token"
)

// TokenStream is an arbitrary sequence of tokens.  Typically, a TokenStream
// will be a *lexer.Lexer but other implementations may be desirable, such as
// replaying tokens that have already been lexed.
type TokenStream interface {
	// ReadToken returns a set of token from an input source.  When no more
	// tokens can be generated ReadToken returns a token with type token.EOF.
	// ReadToken never returns an empty slice.  In the presence of io errors a
	// TokenStream must return a token with type token.INVALID.
	ReadToken() []*token.Token
}

// TokenGenerator implements TokenStream.  The function will be called any time
// a TokenSource wants a token.
type TokenGenerator func() []*token.Token

// ReadToken implements TokenStream.
func (fn TokenGenerator) ReadToken() []*token.Token {
	return fn()
}

// TokenSlice returns a TokenStream that returns the elements of tokens in
// order followed by an EOF token.  Any EOF tokens in the slice are ignored.
func TokenSlice(name string, tokens []*token.Token) TokenStream {
	eof := &token.Location{File: name, Pos: 0, Line: 1, Col: 1}
	return TokenGenerator(func() []*token.Token {
		for len(tokens) > 0 && tokens[0].Type == token.EOF {
			tokens = tokens[1:]
		}
		if len(tokens) == 0 {
			return []*token.Token{{
				Type:   token.EOF,
				Source: eof,
			}}
		}
		tok := tokens[0]
		tokens = tokens[1:]
		if tok.Source != nil {
			loc := *tok.Source
			loc.Pos += len(tok.Text)
			loc.Col += len(tok.Text)
			eof = &loc
		}
		return []*token.Token{tok}
	})
}

// TokenSource abstracts a TokenStream by adding "memory" and providing methods
// to process and branch off the stream's tokens.
type TokenSource struct {
	lex   TokenStream
	Token *token.Token
	peek  []*token.Token
}

func NewTokenStreamSource(stream TokenStream) *TokenSource {
	return &TokenSource{
		lex: stream,
	}
}

// NewTokenSource initializes and returns a new TokenSource that scans tokens
// from scanner.
func NewTokenSource(scanner *token.Scanner) *TokenSource {
	return NewTokenStreamSource(lexer.New(scanner))
}

func (s *TokenSource) Peek() *token.Token {
	if len(s.peek) > 0 {
		return s.peek[0]
	}
	s.peek = s.lex.ReadToken()
	return s.peek[0]
}

func (s *TokenSource) Accept(fn func(*token.Token) bool) bool {
	if fn(s.Peek()) {
		s.scan()
		return true
	}
	return false
}

func (s *TokenSource) AcceptType(typ ...token.Type) bool {
	for _, typ := range typ {
		if s.Peek().Type == typ {
			s.scan()
			return true
		}
	}
	return false
}

func (s *TokenSource) Scan() bool {
	if s.IsEOF() {
		s.Token = s.Peek()
		return false
	}
	s.scan()
	return true
}

func (s *TokenSource) IsEOF() bool {
	return s.Peek().Type == token.EOF
}

func (s *TokenSource) scan() {
	s.Token = s.Peek()
	s.peek = s.peek[1:]
}
