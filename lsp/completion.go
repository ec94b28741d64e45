// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/luthersystems/schemer/lisp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCompletion handles the textDocument/completion request.
// Candidates are the special forms and the symbols bound by the document.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)

	doc.mu.Lock()
	defer doc.mu.Unlock()

	prefix := wordAtPosition(doc.Content, int(params.Position.Line), int(params.Position.Character))
	items := specialOpCompletions(prefix)
	items = append(items, bindingCompletions(doc.env, prefix)...)
	return items, nil
}

func specialOpCompletions(prefix string) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	kind := protocol.CompletionItemKindKeyword
	for _, name := range lisp.SpecialOpNames() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		op, _ := lisp.LookupSpecialOp(name)
		items = append(items, protocol.CompletionItem{
			Label: name,
			Kind:  &kind,
			Documentation: &protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: docText(op.Doc),
			},
		})
	}
	return items
}

func bindingCompletions(env *lisp.LEnv, prefix string) []protocol.CompletionItem {
	if env == nil {
		return nil
	}
	var items []protocol.CompletionItem
	kind := protocol.CompletionItemKindVariable
	for _, k := range env.Keys() {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		bound, _ := env.Lookup(k)
		detail := bound.String()
		items = append(items, protocol.CompletionItem{
			Label:  k,
			Kind:   &kind,
			Detail: &detail,
		})
	}
	return items
}
