// Copyright © 2018 The ELPS authors

package rdparser

import (
	"io"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/parser/token"
)

type reader struct {
}

// NewReader returns a lisp.Reader to use in a lisp.Runtime.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.
func (*reader) Read(name string, r io.Reader) (*lisp.LVal, error) {
	s := token.NewScanner(name, r)
	p := New(s)
	return p.Parse()
}

// Parser is a recursive descent parser for the grammar
//
//	expr  := ATOM | '(' expr* ')'
//	input := expr
type Parser struct {
	src *TokenSource
}

// NewFromSource initializes and returns a Parser that reads tokens from src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return NewFromSource(NewTokenSource(scanner))
}

// ParseTokens parses tokens which have already been produced by a lexer.
func ParseTokens(name string, tokens []*token.Token) (*lisp.LVal, error) {
	return NewFromSource(NewTokenStreamSource(TokenSlice(name, tokens))).Parse()
}

// Parse parses the entire input, which must contain exactly one expression.
// Input without tokens is a lisp.CondEmptyInput error and tokens following
// the expression are a lisp.CondTrailingTokens error.
func (p *Parser) Parse() (*lisp.LVal, error) {
	if p.src.IsEOF() {
		p.ReadToken()
		return nil, lisp.GoError(p.errorf(lisp.CondEmptyInput, "no expression"))
	}
	expr := p.ParseExpression()
	if expr.Type == lisp.LError {
		return nil, lisp.GoError(expr)
	}
	if !p.src.IsEOF() {
		if p.PeekType() == token.INVALID {
			p.ReadToken()
			return nil, lisp.GoError(p.errorf(lisp.CondScanError, "%s", p.TokenText()))
		}
		p.ReadToken()
		return nil, lisp.GoError(p.errorf(lisp.CondTrailingTokens, "unexpected %v following expression", p.src.Token))
	}
	return expr, nil
}

// ParseExpression parses a single expression.  Unlike Parse, ParseExpression
// does not require the expression to be followed by the end of input.
func (p *Parser) ParseExpression() *lisp.LVal {
	switch p.PeekType() {
	case token.ATOM:
		return p.ParseAtom()
	case token.PAREN_L:
		return p.ParseList()
	case token.INVALID:
		p.ReadToken()
		return p.errorf(lisp.CondScanError, "%s", p.TokenText())
	case token.EOF:
		p.ReadToken()
		return p.errorf(lisp.CondEmptyInput, "no expression")
	default:
		p.ReadToken()
		return p.errorf(lisp.CondUnexpectedToken, "unexpected token: %v", p.TokenType())
	}
}

func (p *Parser) ParseAtom() *lisp.LVal {
	if !p.Accept(token.ATOM) {
		return p.errorf(lisp.CondUnexpectedToken, "invalid atom: %v", p.PeekType())
	}
	return p.Atom(p.TokenText())
}

func (p *Parser) ParseList() *lisp.LVal {
	if !p.Accept(token.PAREN_L) {
		return p.errorf(lisp.CondUnexpectedToken, "invalid list: %v", p.PeekType())
	}
	open := p.src.Token
	expr := p.List(nil)
	for {
		if p.src.IsEOF() {
			lerr := p.errorf(lisp.CondUnmatchedSyntax, "unmatched %s", open.Text)
			lerr.Source = open.Source
			return lerr
		}
		if p.Accept(token.PAREN_R) {
			break
		}
		x := p.ParseExpression()
		if x.Type == lisp.LError {
			return x
		}
		expr.Cells = append(expr.Cells, x)
	}
	return expr
}

func (p *Parser) ReadToken() *token.Token {
	p.src.Scan()
	return p.src.Token
}

func (p *Parser) TokenText() string {
	return p.src.Token.Text
}

func (p *Parser) TokenType() token.Type {
	return p.src.Token.Type
}

func (p *Parser) Location() *token.Location {
	return p.src.Token.Source
}

func (p *Parser) PeekType() token.Type {
	return p.src.Peek().Type
}

func (p *Parser) PeekLocation() *token.Location {
	return p.src.Peek().Source
}

func (p *Parser) Atom(text string) *lisp.LVal {
	return p.tokenLVal(lisp.Atom(text))
}

func (p *Parser) List(cells []*lisp.LVal) *lisp.LVal {
	return p.tokenLVal(lisp.List(cells))
}

func (p *Parser) tokenLVal(v *lisp.LVal) *lisp.LVal {
	v.Source = p.Location()
	return v
}

func (p *Parser) Accept(typ ...token.Type) bool {
	return p.src.AcceptType(typ...)
}

func (p *Parser) errorf(condition string, format string, v ...interface{}) *lisp.LVal {
	err := lisp.ErrorConditionf(condition, format, v...)
	err.Source = p.Location()
	return err
}
