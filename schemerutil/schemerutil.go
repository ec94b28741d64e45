// Copyright © 2024 The ELPS authors

// Package schemerutil drives the reader and evaluator for programs which
// exchange source text for printed results.
package schemerutil

import (
	"strings"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/parser"
)

// Markers returned by EvalSourceToString and Session.Marker in place of a
// printed result.
const (
	// BadScheme reports input that the reader rejects.
	BadScheme = "Bad scheme!"
	// BadEval reports a well formed expression that fails to evaluate.
	BadEval = "Bad eval!"
)

// EvalSourceToString reads the single expression in text, evaluates it in a
// new environment and returns its printed form.  Empty text produces an empty
// string.  Failures produce BadScheme or BadEval.
func EvalSourceToString(text string) string {
	s, err := NewSession()
	if err != nil {
		return BadEval
	}
	return s.Marker(text)
}

// Session evaluates a sequence of inputs in one environment, so bindings made
// by define are visible to later inputs.  A Session is not safe for
// concurrent use.
type Session struct {
	env *lisp.LEnv
}

// NewSession returns a Session whose environment reads source with
// parser.NewReader() and is then initialized with config.
func NewSession(config ...lisp.Config) (*Session, error) {
	env := lisp.NewEnv(nil)
	config = append([]lisp.Config{lisp.WithReader(parser.NewReader())}, config...)
	lerr := lisp.InitializeEnv(env, config...)
	if lerr.Type == lisp.LError {
		return nil, lisp.GoError(lerr)
	}
	return &Session{env: env}, nil
}

// Env returns the session environment.
func (s *Session) Env() *lisp.LEnv {
	return s.env
}

// Eval reads text, attributing it to the source name, and evaluates it.
// Failures are returned as *lisp.ErrorVal errors.
func (s *Session) Eval(name, text string) (*lisp.LVal, error) {
	expr, err := s.env.Runtime.Reader.Read(name, strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	v := s.env.Eval(expr)
	if v.Type == lisp.LError {
		return nil, lisp.GoError(v)
	}
	return v, nil
}

// EvalString is like Eval but returns the printed form of the result.
func (s *Session) EvalString(name, text string) (string, error) {
	v, err := s.Eval(name, text)
	if err != nil {
		return "", err
	}
	return s.env.Render(v), nil
}

// Marker is like EvalString but reports failures with the BadScheme and
// BadEval markers.  Empty text produces an empty string.
func (s *Session) Marker(text string) string {
	if text == "" {
		return ""
	}
	out, err := s.EvalString("input", text)
	if err != nil {
		return MarkerFor(err)
	}
	return out
}

// MarkerFor returns the marker string describing err.
func MarkerFor(err error) string {
	if lerr, ok := lisp.AsErrorVal(err); ok && lerr.IsSyntaxError() {
		return BadScheme
	}
	return BadEval
}
