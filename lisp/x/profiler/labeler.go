// Copyright © 2018 The ELPS authors

package profiler

import (
	"fmt"
	"regexp"

	"github.com/luthersystems/schemer/lisp"
)

// FormLabeler provides an alternative name for a form label in the trace.
type FormLabeler func(runtime *lisp.Runtime, form *lisp.LVal) string

// WithFormLabeler sets the labeler for tracing spans.
func WithFormLabeler(labeler FormLabeler) Option {
	return func(p *profiler) {
		p.labeler = labeler
	}
}

// WithSourceLabeler labels spans with the operator name and the location of
// the form, e.g. "car@lunch.scm:3:4".
func WithSourceLabeler() Option {
	return WithFormLabeler(sourceLabeler)
}

func sourceLabeler(runtime *lisp.Runtime, form *lisp.LVal) string {
	loc := getSourceLoc(form)
	if loc == nil {
		return form.Str
	}
	return fmt.Sprintf("%s@%s", form.Str, loc)
}

var (
	sanitizeRegExp   = regexp.MustCompile(`[\s_]+`)
	validLabelRegExp = regexp.MustCompile(`[[:graph:]]*`)
)

func sanitizeLabel(userLabel string) string {
	if userLabel == "" {
		return ""
	}

	// Replace spaces with underscores
	userLabel = sanitizeRegExp.ReplaceAllString(userLabel, "_")

	// Find the first valid label match
	matches := validLabelRegExp.FindStringSubmatch(userLabel)
	if len(matches) > 0 {
		return matches[0]
	}

	return ""
}
