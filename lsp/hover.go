// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/schemerutil"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentHover handles the textDocument/hover request.  Hovering a
// special form shows its documentation.  Hovering any other atom or an open
// bracket shows the value of that expression given the bindings made by
// the document.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)

	doc.mu.Lock()
	defer doc.mu.Unlock()

	v, tok := exprAtPosition(doc.expr, doc.Content, int(params.Position.Line), int(params.Position.Character))
	if v == nil {
		return nil, nil
	}
	content := s.buildHoverContent(doc.env, v)
	r := locationRange(tok.Source, utf8.RuneCountInString(tok.Text))
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
		Range: &r,
	}, nil
}

// buildHoverContent builds Markdown hover text for v.
func (s *Server) buildHoverContent(env *lisp.LEnv, v *lisp.LVal) string {
	if v.Type == lisp.LAtom {
		if op, ok := lisp.LookupSpecialOp(v.Str); ok {
			return fmt.Sprintf("**special form** `%s`\n\n%s", op.Name, docText(op.Doc))
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "```scheme\n%s\n```", v)
	out, err := s.evalIn(env, v)
	if err != nil {
		fmt.Fprintf(&sb, "\n\nfails: `%s`", err)
	} else {
		fmt.Fprintf(&sb, "\n\nevaluates to `%s`", out)
	}
	return sb.String()
}

// evalIn evaluates v in a scratch environment holding a copy of the bindings
// of env, so hovering never changes the document bindings.
func (s *Server) evalIn(env *lisp.LEnv, v *lisp.LVal) (string, error) {
	session, err := schemerutil.NewSession(s.config...)
	if err != nil {
		return "", err
	}
	scratch := session.Env()
	if env != nil {
		for _, k := range env.Keys() {
			bound, _ := env.Lookup(k)
			scratch.Put(lisp.Atom(k), bound)
		}
	}
	r := scratch.Eval(v)
	if r.Type == lisp.LError {
		return "", lisp.GoError(r)
	}
	return scratch.Render(r), nil
}

// docText collapses the whitespace of a documentation string.
func docText(doc string) string {
	return strings.Join(strings.Fields(doc), " ")
}
