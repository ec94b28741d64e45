// Copyright © 2018 The ELPS authors

// Package profiler provides lisp.Profiler implementations which observe the
// application of special forms.  Each application of a form like car or
// define becomes a span, a pprof label or a callgrind entry.
package profiler

import (
	"fmt"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/parser/token"
)

// profiler is a minimal lisp.Profiler
type profiler struct {
	runtime    *lisp.Runtime
	enabled    bool
	skipFilter SkipFilter
	labeler    FormLabeler
}

var _ lisp.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Complete() error {
	p.enabled = false
	return nil
}

func (p *profiler) Start(form *lisp.LVal) func() {
	return func() {}
}

// formLabel returns a label for form and the name of the special operator it
// applies.  Without a FormLabeler the label is the operator name.
func (p *profiler) formLabel(form *lisp.LVal) (string, string) {
	name := form.Str
	label := name
	if p.labeler != nil {
		label = sanitizeLabel(p.labeler(p.runtime, form))
	}
	if label == "" {
		label = name
	}
	return label, name
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(form *lisp.LVal) bool {
	return !p.enabled || defaultSkipFilter(form) || p.skipFilter != nil && p.skipFilter(form)
}

func getSourceLoc(form *lisp.LVal) *token.Location {
	if form.Source == nil || form.Source.Pos < 0 {
		return nil
	}
	return form.Source
}
