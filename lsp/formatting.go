// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentFormatting handles textDocument/formatting requests.  A
// document that reads successfully is replaced by the canonical form of its
// expression, with single spaces between list elements.
func (s *Server) textDocumentFormatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)

	doc.mu.Lock()
	content := doc.Content
	expr := doc.expr
	doc.mu.Unlock()

	// Unreadable input gets no edits so the editor doesn't show an error
	// dialog for incomplete code.
	if expr == nil {
		return nil, nil
	}
	formatted := expr.String() + "\n"
	if formatted == content {
		return nil, nil
	}

	// Return a single edit replacing the entire document.
	lines := countLines(content)
	return []protocol.TextEdit{
		{
			Range: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   protocol.Position{Line: safeUint(lines + 1), Character: 0},
			},
			NewText: formatted,
		},
	}, nil
}

// countLines returns the number of newlines in s.
func countLines(s string) int {
	n := 0
	for _, c := range s {
		if c == '\n' {
			n++
		}
	}
	return n
}
