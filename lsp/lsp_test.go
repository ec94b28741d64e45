// Copyright © 2024 The ELPS authors

package lsp

import (
	"testing"

	"github.com/luthersystems/schemer/parser/token"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const testURI = "file:///test.scm"

func testServer() *Server {
	logger, _ := test.NewNullLogger()
	return New(WithLogger(logger))
}

// openDoc opens a document in the test server and returns it.
func openDoc(s *Server, uri, content string) *Document {
	return s.docs.Open(uri, 1, content)
}

// mockContext returns a minimal glsp.Context for testing.
func mockContext() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {},
	}
}

// capturingContext returns a context that captures published diagnostics.
func capturingContext() (*glsp.Context, *[]*protocol.PublishDiagnosticsParams) {
	var captured []*protocol.PublishDiagnosticsParams
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				captured = append(captured, params.(*protocol.PublishDiagnosticsParams))
			}
		},
	}
	return ctx, &captured
}

func openAndPublish(t *testing.T, s *Server, text string) *protocol.PublishDiagnosticsParams {
	t.Helper()
	ctx, captured := capturingContext()
	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        testURI,
			LanguageID: "scheme",
			Version:    1,
			Text:       text,
		},
	})
	require.NoError(t, err)
	require.Len(t, *captured, 1)
	return (*captured)[0]
}

// completionLabels extracts labels from a completion result.
func completionLabels(t *testing.T, result any) []string {
	t.Helper()
	require.NotNil(t, result, "completion result should not be nil")
	items, ok := result.([]protocol.CompletionItem)
	require.True(t, ok, "completion result should be []CompletionItem, got %T", result)
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	return labels
}

func hoverAt(t *testing.T, s *Server, line, col uint32) *protocol.Hover {
	t.Helper()
	h, err := s.textDocumentHover(mockContext(), &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     protocol.Position{Line: line, Character: col},
		},
	})
	require.NoError(t, err)
	return h
}

func hoverText(t *testing.T, h *protocol.Hover) string {
	t.Helper()
	require.NotNil(t, h)
	content, ok := h.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	return content.Value
}

func TestPositionConversion(t *testing.T) {
	pos := lspPosition(&token.Location{Line: 3, Col: 5})
	assert.Equal(t, protocol.UInteger(2), pos.Line)
	assert.Equal(t, protocol.UInteger(4), pos.Character)

	pos = lspPosition(&token.Location{})
	assert.Equal(t, protocol.UInteger(0), pos.Line)
	assert.Equal(t, protocol.UInteger(0), pos.Character)

	r := locationRange(&token.Location{Line: 1, Col: 2}, 3)
	assert.Equal(t, protocol.UInteger(1), r.Start.Character)
	assert.Equal(t, protocol.UInteger(4), r.End.Character)
	assert.Equal(t, r.Start.Line, r.End.Line)
}

func TestOffsetAt(t *testing.T) {
	content := "(a\n  é b)"
	assert.Equal(t, 0, offsetAt(content, 0, 0))
	assert.Equal(t, 1, offsetAt(content, 0, 1))
	assert.Equal(t, 5, offsetAt(content, 1, 2))
	assert.Equal(t, 8, offsetAt(content, 1, 4))
	assert.Equal(t, -1, offsetAt(content, 0, 5))
	assert.Equal(t, -1, offsetAt(content, 2, 0))
}

func TestTokenWidth(t *testing.T) {
	content := "(hotdogs  b)"
	assert.Equal(t, 1, tokenWidth(content, 0))
	assert.Equal(t, 7, tokenWidth(content, 1))
	assert.Equal(t, 1, tokenWidth(content, 3))
	assert.Equal(t, 1, tokenWidth(content, 8))
}

func TestWordAtPosition(t *testing.T) {
	tests := []struct {
		content string
		line    int
		col     int
		want    string
	}{
		{"(car lunch)", 0, 1, "car"},
		{"(car lunch)", 0, 3, "car"},
		{"(car lunch)", 0, 7, "lunch"},
		{"(car lunch)", 0, 10, "lunch"},
		{"(car lunch)", 0, 11, ""},
		{"(a\n  null?)", 1, 4, "null?"},
		{"'x", 0, 1, "'x"},
		{"(a)", 5, 0, ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, wordAtPosition(tc.content, tc.line, tc.col), "%q %d:%d", tc.content, tc.line, tc.col)
	}
}

func TestDocumentStore(t *testing.T) {
	store := NewDocumentStore()
	doc := store.Open(testURI, 1, "(a b)")
	require.NotNil(t, doc)
	assert.Equal(t, doc, store.Get(testURI))

	doc.mu.Lock()
	doc.analyze(nil)
	assert.True(t, doc.analyzed)
	doc.mu.Unlock()

	doc = store.Change(testURI, 2, "(a b c)")
	assert.Equal(t, int32(2), doc.Version)
	assert.Equal(t, "(a b c)", doc.Content)
	assert.False(t, doc.analyzed)

	store.Close(testURI)
	assert.Nil(t, store.Get(testURI))
}

func TestDocumentAnalyze(t *testing.T) {
	doc := &Document{URI: testURI, Content: "((define lunch (hotdogs)) (car lunch))"}
	doc.analyze(nil)
	require.NoError(t, doc.Err())
	require.NotNil(t, doc.expr)
	require.NotNil(t, doc.result)
	assert.Equal(t, "(() hotdogs)", doc.result.String())
	assert.Equal(t, []string{"lunch"}, doc.env.Keys())
	assert.Equal(t, "/test.scm", doc.expr.Source.File)

	doc = &Document{URI: testURI, Content: "(car"}
	doc.analyze(nil)
	require.Error(t, doc.parseErr)
	assert.Nil(t, doc.evalErr)
	assert.Nil(t, doc.expr)

	doc = &Document{URI: testURI, Content: "(car a)"}
	doc.analyze(nil)
	assert.NoError(t, doc.parseErr)
	require.Error(t, doc.evalErr)
	assert.Equal(t, doc.evalErr, doc.Err())
}

func TestDiagnosticsOnOpen_ValidCode(t *testing.T) {
	s := testServer()
	pub := openAndPublish(t, s, "(cons a (b c))")
	assert.Equal(t, testURI, pub.URI)
	assert.Empty(t, pub.Diagnostics)
	assert.NotNil(t, pub.Diagnostics)
}

func TestDiagnosticsOnOpen_Blank(t *testing.T) {
	s := testServer()
	pub := openAndPublish(t, s, "  \n")
	assert.Empty(t, pub.Diagnostics)
}

func TestDiagnosticsOnParseError(t *testing.T) {
	s := testServer()
	pub := openAndPublish(t, s, "(car\n  (a b)")
	require.Len(t, pub.Diagnostics, 1)
	d := pub.Diagnostics[0]
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, "schemer", *d.Source)
	require.NotNil(t, d.Code)
	assert.Equal(t, "unmatched-syntax", d.Code.Value)
	assert.Equal(t, "unmatched (", d.Message)
	assert.Equal(t, protocol.Position{Line: 0, Character: 0}, d.Range.Start)
	assert.Equal(t, protocol.Position{Line: 0, Character: 1}, d.Range.End)
}

func TestDiagnosticsOnTrailingTokens(t *testing.T) {
	s := testServer()
	pub := openAndPublish(t, s, "(a) hotdogs")
	require.Len(t, pub.Diagnostics, 1)
	d := pub.Diagnostics[0]
	assert.Equal(t, "trailing-tokens", d.Code.Value)
	assert.Equal(t, protocol.Position{Line: 0, Character: 4}, d.Range.Start)
	assert.Equal(t, protocol.Position{Line: 0, Character: 11}, d.Range.End)
}

func TestDiagnosticsOnEvalError(t *testing.T) {
	s := testServer()
	pub := openAndPublish(t, s, "(x\n  car a)")
	require.Len(t, pub.Diagnostics, 1)
	d := pub.Diagnostics[0]
	assert.Equal(t, "car-error", d.Code.Value)
	assert.Equal(t, "car of atom: a", d.Message)
	assert.Equal(t, protocol.Position{Line: 1, Character: 2}, d.Range.Start)
	assert.Equal(t, protocol.Position{Line: 1, Character: 5}, d.Range.End)
}

func TestDiagnosticsOnClose_Cleared(t *testing.T) {
	s := testServer()
	openAndPublish(t, s, "(car a)")

	ctx, captured := capturingContext()
	s.captureNotify(ctx)
	err := s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	require.Len(t, *captured, 1)
	assert.Empty(t, (*captured)[0].Diagnostics)
	assert.Nil(t, s.docs.Get(testURI))
}

func TestDiagnosticsOnSave_Immediate(t *testing.T) {
	s := testServer()
	openAndPublish(t, s, "(a)")
	s.docs.Change(testURI, 2, "(car a)")

	ctx, captured := capturingContext()
	err := s.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	require.Len(t, *captured, 1)
	require.Len(t, (*captured)[0].Diagnostics, 1)
	assert.Equal(t, "car-error", (*captured)[0].Diagnostics[0].Code.Value)
}

func TestHoverOnSpecialForm(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "(car (a b))")
	text := hoverText(t, hoverAt(t, s, 0, 2))
	assert.Contains(t, text, "**special form** `car`")
	assert.Contains(t, text, "Returns the first element")
}

func TestHoverOnList(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "(car (a b))")
	h := hoverAt(t, s, 0, 5)
	text := hoverText(t, h)
	assert.Contains(t, text, "(a b)")
	assert.Contains(t, text, "evaluates to `(a b)`")
	require.NotNil(t, h.Range)
	assert.Equal(t, protocol.UInteger(5), h.Range.Start.Character)
}

func TestHoverOnBoundAtom(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "((define lunch (hotdogs)) (car lunch))")
	text := hoverText(t, hoverAt(t, s, 0, 33))
	assert.Contains(t, text, "evaluates to `(hotdogs)`")

	doc := s.docs.Get(testURI)
	assert.Equal(t, []string{"lunch"}, doc.env.Keys())
}

func TestHoverOnFailure(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "(x (cdr y))")
	text := hoverText(t, hoverAt(t, s, 0, 3))
	assert.Contains(t, text, "fails: `")
	assert.Contains(t, text, "cdr-error")
}

func TestHoverOnEmpty(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "(a  b)")
	assert.Nil(t, hoverAt(t, s, 0, 3))
	assert.Nil(t, hoverAt(t, s, 0, 5))
	assert.Nil(t, hoverAt(t, s, 4, 0))

	h, err := s.textDocumentHover(mockContext(), &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///missing.scm"},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestCompletion(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "((define cdr-of-lunch x) (c))")
	result, err := s.textDocumentCompletion(mockContext(), &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     protocol.Position{Line: 0, Character: 27},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"car", "cdr", "cond", "cons", "cdr-of-lunch"}, completionLabels(t, result))
}

func TestCompletionEmptyPrefix(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "((define lunch x) ())")
	result, err := s.textDocumentCompletion(mockContext(), &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     protocol.Position{Line: 0, Character: 19},
		},
	})
	require.NoError(t, err)
	labels := completionLabels(t, result)
	assert.Contains(t, labels, "define")
	assert.Contains(t, labels, "lat?")
	assert.Contains(t, labels, "lunch")
}

func TestDocumentSymbols(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "((define lunch (hotdogs))\n (x define drink soda))")
	result, err := s.textDocumentDocumentSymbol(mockContext(), &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	symbols, ok := result.([]protocol.DocumentSymbol)
	require.True(t, ok)
	require.Len(t, symbols, 2)
	assert.Equal(t, "lunch", symbols[0].Name)
	assert.Equal(t, "(hotdogs)", *symbols[0].Detail)
	assert.Equal(t, protocol.Position{Line: 0, Character: 9}, symbols[0].Range.Start)
	assert.Equal(t, "drink", symbols[1].Name)
	assert.Equal(t, protocol.UInteger(1), symbols[1].Range.Start.Line)
}

func TestFormatting(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "(car\n   (a    b))")
	edits, err := s.textDocumentFormatting(mockContext(), &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, "(car (a b))\n", edits[0].NewText)
	assert.Equal(t, protocol.UInteger(2), edits[0].Range.End.Line)
}

func TestFormattingAlreadyFormatted(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "(car (a b))\n")
	edits, err := s.textDocumentFormatting(mockContext(), &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	assert.Nil(t, edits)
}

func TestFormattingParseError(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "(car (a b)")
	edits, err := s.textDocumentFormatting(mockContext(), &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	assert.Nil(t, edits)
}

func TestExitHandler(t *testing.T) {
	s := testServer()
	var exitCode int
	var exitCalled bool
	s.exitFn = func(code int) {
		exitCode = code
		exitCalled = true
	}

	err := s.exit(mockContext())
	require.NoError(t, err)
	assert.True(t, exitCalled, "exit handler should call exitFn")
	assert.Equal(t, 0, exitCode, "exit should call with code 0")
}

func TestInitializeLifecycle(t *testing.T) {
	s := testServer()

	rootURI := "file:///workspace"
	result, err := s.initialize(mockContext(), &protocol.InitializeParams{
		RootURI: &rootURI,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	initResult, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.NotNil(t, initResult.ServerInfo)
	assert.Equal(t, serverName, initResult.ServerInfo.Name)
	assert.Equal(t, "/workspace", s.rootPath)
	assert.NotNil(t, initResult.Capabilities.HoverProvider)
}

func TestServerLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s := New(WithLogger(logger))
	openAndPublish(t, s, "(car a)")

	var analyzed bool
	for _, e := range hook.AllEntries() {
		assert.Equal(t, "lsp", e.Data["component"])
		if e.Message == "analyzed document" {
			analyzed = true
			assert.Equal(t, testURI, e.Data["uri"])
			assert.Error(t, e.Data[logrus.ErrorKey].(error))
		}
	}
	assert.True(t, analyzed)
}
