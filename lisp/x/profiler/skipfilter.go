// Copyright © 2018 The ELPS authors

package profiler

import (
	"github.com/luthersystems/schemer/lisp"
)

// SkipFilter returns true for forms which should not be traced.
type SkipFilter func(form *lisp.LVal) bool

// defaultSkipFilter skips anything that does not name a special operator.
func defaultSkipFilter(form *lisp.LVal) bool {
	if form.Type != lisp.LAtom {
		return true
	}
	_, ok := lisp.LookupSpecialOp(form.Str)
	return !ok
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithFormFilter only traces the special operators given by name.
func WithFormFilter(names ...string) Option {
	traced := make(map[string]bool, len(names))
	for _, name := range names {
		traced[name] = true
	}
	return WithSkipFilter(func(form *lisp.LVal) bool {
		return !traced[form.Str]
	})
}
