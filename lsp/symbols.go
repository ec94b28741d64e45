// Copyright © 2024 The ELPS authors

package lsp

import (
	"unicode/utf8"

	"github.com/luthersystems/schemer/lisp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol request.
// Every define form whose key is written as an atom is reported.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)

	doc.mu.Lock()
	expr := doc.expr
	doc.mu.Unlock()

	symbols := []protocol.DocumentSymbol{}
	collectDefines(expr, &symbols)
	return symbols, nil
}

// collectDefines walks v and appends a symbol for each define form.  Define
// consumes the two children which follow it.
func collectDefines(v *lisp.LVal, symbols *[]protocol.DocumentSymbol) {
	if v == nil || v.Type != lisp.LList {
		return
	}
	for i, c := range v.Cells {
		collectDefines(c, symbols)
		if c.Type != lisp.LAtom || c.Str != "define" || i+2 >= len(v.Cells) {
			continue
		}
		key, val := v.Cells[i+1], v.Cells[i+2]
		if key.Type != lisp.LAtom || key.Source == nil || key.Source.Line == 0 {
			continue
		}
		r := locationRange(key.Source, utf8.RuneCountInString(key.Str))
		detail := val.String()
		*symbols = append(*symbols, protocol.DocumentSymbol{
			Name:           key.Str,
			Detail:         &detail,
			Kind:           protocol.SymbolKindVariable,
			Range:          r,
			SelectionRange: r,
		})
	}
}
