// Copyright © 2024 The ELPS authors

package token_test

import (
	"testing"

	"github.com/luthersystems/schemer/parser/lexer"
	"github.com/luthersystems/schemer/parser/token"
	"github.com/stretchr/testify/assert"
)

func TestShape(t *testing.T) {
	tests := []struct {
		input string
		atom  bool
		list  bool
		sexpr bool
		depth int
	}{
		{"", false, false, false, 0},
		{" a ", true, false, true, 0},
		{"atom", true, false, true, 0},
		{"atom atom", false, false, false, 0},
		{"()", false, true, true, 0},
		{"(abc$)", false, true, true, 0},
		{"(atom (turkey (pitch black))or ())", false, true, true, 0},
		{"  (  atom    turkey  or )  ", false, true, true, 0},
		{"(atom turkey) or", false, false, false, 0},
		{"(x y) z", false, false, false, 0},
		{"() ()", false, true, true, 0},
		{"(a (b", false, false, false, 2},
		{")(", false, false, false, -1},
		{"a)", false, false, false, -1},
		{")", false, false, false, -1},
	}
	for _, test := range tests {
		tokens := lexer.Tokenize("test", test.input)
		assert.Equal(t, test.atom, token.IsAtom(tokens), "IsAtom(%q)", test.input)
		assert.Equal(t, test.list, token.IsList(tokens), "IsList(%q)", test.input)
		assert.Equal(t, test.sexpr, token.IsSExpression(tokens), "IsSExpression(%q)", test.input)
		assert.Equal(t, test.depth, token.Depth(tokens), "Depth(%q)", test.input)
	}
}

func TestShapeIgnoresEOF(t *testing.T) {
	tokens := []*token.Token{
		{Type: token.PAREN_L, Text: "("},
		{Type: token.PAREN_R, Text: ")"},
		{Type: token.EOF},
	}
	assert.True(t, token.IsList(tokens))
	assert.False(t, token.IsAtom(tokens))
}
