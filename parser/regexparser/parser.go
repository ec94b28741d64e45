// Copyright © 2018 The ELPS authors

/*
Package regexparser provides a lisp reader built from parser combinators.

	expr := '(' <expr>* ')' | <atom>
	atom := /[!-'*-~]+/

Any byte outside the printable ASCII range separates tokens.  The reader
accepts and rejects exactly the inputs accepted and rejected by rdparser and
reports the same error conditions at the same locations.
*/
package regexparser

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/parser/token"
	parsec "github.com/prataprc/goparsec"
)

// NewReader returns a lisp.Reader.
func NewReader() lisp.Reader {
	return &parsecReader{}
}

type parsecReader struct{}

func (p *parsecReader) Read(name string, r io.Reader) (*lisp.LVal, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		lerr := lisp.ErrorCondition(lisp.CondScanError, err)
		lerr.Source = &token.Location{File: name, Pos: 0, Line: 1, Col: 1}
		return nil, lisp.GoError(lerr)
	}
	return ParseLVal(name, b)
}

// ParseLVal parses exactly one expression from text.
func ParseLVal(name string, text []byte) (*lisp.LVal, error) {
	loc := &locator{name: name, text: text}
	clean := bytes.TrimRight(separate(text), " ")

	s := parsec.NewScanner(clean)
	_, s = s.SkipWS()
	if s.Endof() {
		return nil, loc.errorf(len(text), lisp.CondEmptyInput, "no expression")
	}
	root, s := newParsecParser(loc)(s)
	if root == nil {
		// Only a closing bracket can fail to start an expression.
		return nil, loc.errorf(s.GetCursor(), lisp.CondUnexpectedToken, "unexpected token: %v", token.PAREN_R)
	}
	v, ok := root.(*lisp.LVal)
	if !ok {
		return nil, loc.errorf(0, lisp.CondScanError, "unexpected parse node: %T", root)
	}
	if v.Type == lisp.LError {
		return nil, lisp.GoError(v)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		pos := s.GetCursor()
		return nil, loc.errorf(pos, lisp.CondTrailingTokens, "unexpected %v following expression", nextToken(clean[pos:]))
	}
	return v, nil
}

func newParsecParser(loc *locator) parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	atom := parsec.Token(atomPattern, "ATOM")

	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	closeOrEnd := parsec.OrdChoice(first, closeP, parsec.End())
	list := parsec.And(loc.listNode, openP, exprList, closeOrEnd)
	term := parsec.And(loc.atomNode, atom)
	expr = parsec.OrdChoice(first, term, list)
	return expr
}

// first unwraps the single node matched by an OrdChoice.
func first(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

const atomPattern = `[!-'*-~]+`

func (loc *locator) atomNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	term := nodes[0].(*parsec.Terminal)
	v := lisp.Atom(term.GetValue())
	v.Source = loc.locate(term.Position)
	return v
}

// listNode builds a list from an open bracket, its children and either a
// close bracket or the end of input.  Reaching the end of input produces an
// unmatched-syntax error located at the open bracket.
func (loc *locator) listNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	open := nodes[0].(*parsec.Terminal)
	children, _ := nodes[1].([]parsec.ParsecNode)
	v := lisp.List(make([]*lisp.LVal, 0, len(children)))
	v.Source = loc.locate(open.Position)
	for _, node := range children {
		c, ok := node.(*lisp.LVal)
		if !ok {
			lerr := lisp.ErrorConditionf(lisp.CondScanError, "unexpected parse node: %T", node)
			lerr.Source = v.Source
			return lerr
		}
		if c.Type == lisp.LError {
			return c
		}
		v.Cells = append(v.Cells, c)
	}
	if end, ok := nodes[2].(*parsec.Terminal); !ok || end.GetValue() != ")" {
		lerr := lisp.ErrorConditionf(lisp.CondUnmatchedSyntax, "unmatched %s", open.GetValue())
		lerr.Source = v.Source
		return lerr
	}
	return v
}

// locator maps byte offsets in the original text to source locations that
// agree with those computed by token.Scanner.
type locator struct {
	name string
	text []byte
}

func (loc *locator) locate(pos int) *token.Location {
	line, col := 1, 1
	b := loc.text[:pos]
	for len(b) > 0 {
		c, n := utf8.DecodeRune(b)
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		b = b[n:]
	}
	return &token.Location{
		File: loc.name,
		Pos:  pos,
		Line: line,
		Col:  col,
	}
}

func (loc *locator) errorf(pos int, condition string, format string, v ...interface{}) error {
	lerr := lisp.ErrorConditionf(condition, format, v...)
	lerr.Source = loc.locate(pos)
	return lisp.GoError(lerr)
}

// separate replaces every byte outside the printable ASCII range with a
// space.  Multi-byte runes become several spaces so byte offsets are
// preserved.
func separate(text []byte) []byte {
	clean := make([]byte, len(text))
	for i, c := range text {
		if '!' <= c && c <= '~' {
			clean[i] = c
		} else {
			clean[i] = ' '
		}
	}
	return clean
}

// nextToken returns the token at the start of b, which must not begin with
// a separator.
func nextToken(b []byte) *token.Token {
	switch b[0] {
	case '(':
		return &token.Token{Type: token.PAREN_L, Text: "("}
	case ')':
		return &token.Token{Type: token.PAREN_R, Text: ")"}
	}
	n := bytes.IndexAny(b, " ()")
	if n < 0 {
		n = len(b)
	}
	return &token.Token{Type: token.ATOM, Text: string(b[:n])}
}
