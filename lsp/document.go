// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"
	"sync"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/schemerutil"
)

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu      sync.Mutex
	URI     string
	Version int32
	Content string

	analyzed bool
	expr     *lisp.LVal
	parseErr error
	result   *lisp.LVal
	evalErr  error
	// env holds the bindings made while evaluating the document.
	env *lisp.LEnv
}

// analyze reads and evaluates the document content in a new environment.
// The caller must hold d.mu.
func (d *Document) analyze(config []lisp.Config) {
	d.analyzed = true
	d.expr, d.parseErr = nil, nil
	d.result, d.evalErr = nil, nil

	s, err := schemerutil.NewSession(config...)
	if err != nil {
		d.env = nil
		d.evalErr = err
		return
	}
	d.env = s.Env()
	d.expr, d.parseErr = d.env.Runtime.Reader.Read(uriToPath(d.URI), strings.NewReader(d.Content))
	if d.parseErr != nil {
		return
	}
	v := d.env.Eval(d.expr)
	if v.Type == lisp.LError {
		d.evalErr = lisp.GoError(v)
		return
	}
	d.result = v
}

// Err returns the read or evaluation failure of the last analysis, if any.
func (d *Document) Err() error {
	if d.parseErr != nil {
		return d.parseErr
	}
	return d.evalErr
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store.  The document is analyzed on demand.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change updates a document's content (full sync) and discards its analysis.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.analyzed = false
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}
