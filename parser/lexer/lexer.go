// Copyright © 2018 The ELPS authors

package lexer

import (
	"strings"

	"github.com/luthersystems/schemer/parser/token"
)

// Lexer reads tokens from a token.Scanner.  Atoms are maximal runs of
// printable ASCII characters other than parentheses.  Any other character,
// whitespace and non-ASCII runes included, only separates tokens.
type Lexer struct {
	scanner *token.Scanner
}

// New returns a Lexer that reads runes from s.
func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// Tokenize returns every token in text.  The terminating EOF token is not
// included, so empty input produces an empty slice.  Tokenize never fails.
func Tokenize(name string, text string) []*token.Token {
	lex := New(token.NewScanner(name, strings.NewReader(text)))
	var tokens []*token.Token
	for {
		tok := lex.ReadToken()[0]
		if tok.Type == token.EOF || tok.Type == token.INVALID {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// ReadToken returns the next token in the stream.  Once the stream is
// exhausted every call returns a token.EOF token.  A failure reading the
// underlying stream produces a token.INVALID token containing the error text.
func (lex *Lexer) ReadToken() []*token.Token {
	lex.scanner.AcceptSeq(isSeparator)
	lex.scanner.Ignore()
	if !lex.scanner.Accept(func(c rune) bool { return true }) {
		if err := lex.scanner.Err(); err != nil {
			return lex.emit(token.INVALID, err.Error())
		}
		return lex.emit(token.EOF, "")
	}
	switch lex.scanner.Rune() {
	case '(':
		return lex.emitText(token.PAREN_L)
	case ')':
		return lex.emitText(token.PAREN_R)
	default:
		lex.scanner.AcceptSeq(isAtomRune)
		return lex.emitText(token.ATOM)
	}
}

func (lex *Lexer) emit(typ token.Type, text string) []*token.Token {
	tok := []*token.Token{{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitText(typ token.Type) []*token.Token {
	return []*token.Token{lex.scanner.EmitToken(typ)}
}

// IsPrintable returns true if c is a graphic ASCII character (0x21-0x7E).
func IsPrintable(c rune) bool {
	return '!' <= c && c <= '~'
}

func isSeparator(c rune) bool {
	return !IsPrintable(c)
}

func isAtomRune(c rune) bool {
	return IsPrintable(c) && c != '(' && c != ')'
}
