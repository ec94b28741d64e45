// Copyright © 2024 The ELPS authors

package schemerutil

import (
	"github.com/luthersystems/schemer/diagnostic"
	"github.com/luthersystems/schemer/lisp"
)

var conditionNotes = map[string]string{
	lisp.CondUnmatchedSyntax: "every ( must be closed by a matching )",
	lisp.CondTrailingTokens:  "input must contain exactly one expression; wrap multiple expressions in a list",
	lisp.CondEmptyInput:      "input must contain exactly one expression",
	lisp.CondDepthExceeded:   "a symbol bound to an expression that refers back to itself never resolves",
	lisp.CondCondError:       "every cond clause is a list (test result) and some test must evaluate to true",
	lisp.CondDefineError:     "the first operand of define must evaluate to an atom",
}

// Diagnostic converts err into a diagnostic.Diagnostic.  Errors produced by
// the reader or evaluator are located at their source; any other error
// becomes a bare message.
func Diagnostic(err error) diagnostic.Diagnostic {
	lerr, ok := lisp.AsErrorVal(err)
	if !ok {
		return diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Message:  err.Error(),
		}
	}
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  lerr.ErrorMessage(),
	}
	if lerr.Str != "" && lerr.Str != "error" {
		d.Message = lerr.Str + ": " + d.Message
	}
	if lerr.Source != nil && lerr.Source.Pos >= 0 {
		d.Spans = append(d.Spans, diagnostic.Span{
			File: lerr.Source.File,
			Line: lerr.Source.Line,
			Col:  lerr.Source.Col,
		})
	}
	if note, ok := conditionNotes[lerr.Str]; ok {
		d.Notes = append(d.Notes, note)
	}
	return d
}
