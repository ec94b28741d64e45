// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/parser/lexer"
	"github.com/luthersystems/schemer/parser/token"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// lspPosition converts a 1-based source location to a 0-based LSP position.
func lspPosition(loc *token.Location) protocol.Position {
	line := loc.Line
	col := loc.Col
	if line > 0 {
		line--
	}
	if col > 0 {
		col--
	}
	return protocol.Position{
		Line:      safeUint(line),
		Character: safeUint(col),
	}
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// locationRange converts a source location to an LSP range width characters
// wide.  Tokens never span lines.
func locationRange(loc *token.Location, width int) protocol.Range {
	start := lspPosition(loc)
	end := protocol.Position{
		Line:      start.Line,
		Character: start.Character + safeUint(width),
	}
	return protocol.Range{Start: start, End: end}
}

// tokenAt returns the token of content containing the byte offset pos, or nil
// if pos falls on a separator.
func tokenAt(content string, pos int) *token.Token {
	for _, tok := range lexer.Tokenize("", content) {
		if tok.Source.Pos > pos {
			return nil
		}
		if pos < tok.Source.Pos+len(tok.Text) {
			return tok
		}
	}
	return nil
}

// tokenWidth returns the width in characters of the token starting at the
// byte offset pos.  Positions that do not start a token are one character
// wide.
func tokenWidth(content string, pos int) int {
	tok := tokenAt(content, pos)
	if tok == nil || tok.Source.Pos != pos {
		return 1
	}
	return utf8.RuneCountInString(tok.Text)
}

// offsetAt converts a 0-based LSP position to a byte offset in content.
// Characters are counted as runes.  Positions outside the content return -1.
func offsetAt(content string, line, col int) int {
	if line < 0 || col < 0 {
		return -1
	}
	pos := 0
	for ; line > 0; line-- {
		i := strings.IndexByte(content[pos:], '\n')
		if i < 0 {
			return -1
		}
		pos += i + 1
	}
	for ; col > 0; col-- {
		if pos >= len(content) || content[pos] == '\n' {
			return -1
		}
		_, n := utf8.DecodeRuneInString(content[pos:])
		pos += n
	}
	return pos
}

// exprAt returns the expression in the tree rooted at v which begins at the
// byte offset pos.
func exprAt(v *lisp.LVal, pos int) *lisp.LVal {
	if v == nil || v.Source == nil {
		return nil
	}
	if v.Source.Pos == pos {
		return v
	}
	for _, c := range v.Cells {
		if x := exprAt(c, pos); x != nil {
			return x
		}
	}
	return nil
}

// exprAtPosition returns the atom or list whose token lies under the 0-based
// LSP position.  A position on an open bracket selects the list.
func exprAtPosition(root *lisp.LVal, content string, line, col int) (*lisp.LVal, *token.Token) {
	pos := offsetAt(content, line, col)
	if pos < 0 {
		return nil, nil
	}
	tok := tokenAt(content, pos)
	if tok == nil || tok.Type == token.PAREN_R {
		return nil, nil
	}
	v := exprAt(root, tok.Source.Pos)
	if v == nil {
		return nil, nil
	}
	return v, tok
}

// wordAtPosition extracts the atom text ending at the given 0-based LSP
// position.  The cursor may be inside or at the end of the atom.
func wordAtPosition(content string, line, col int) string {
	lines := strings.Split(content, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	ln := []rune(lines[line])
	if col < 0 || col > len(ln) {
		return ""
	}
	start := col
	for start > 0 && isAtomChar(ln[start-1]) {
		start--
	}
	end := col
	for end < len(ln) && isAtomChar(ln[end]) {
		end++
	}
	return string(ln[start:end])
}

func isAtomChar(c rune) bool {
	return lexer.IsPrintable(c) && c != '(' && c != ')'
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}
