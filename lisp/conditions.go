// Copyright © 2024 The ELPS authors

package lisp

// Parse error condition names. These are stable API for programmatic
// error classification in LSP and tooling integrations.
const (
	CondEmptyInput      = "empty-input"
	CondUnmatchedSyntax = "unmatched-syntax"
	CondUnexpectedToken = "unexpected-token"
	CondTrailingTokens  = "trailing-tokens"
	CondScanError       = "scan-error"
)

// Evaluation error condition names.
const (
	CondCarError      = "car-error"
	CondCdrError      = "cdr-error"
	CondConsError     = "cons-error"
	CondCondError     = "cond-error"
	CondDefineError   = "define-error"
	CondArityError    = "arity-error"
	CondDepthExceeded = "depth-exceeded"
)

// IsSyntaxCondition returns true if condition names a failure to read source
// text rather than a failure to evaluate it.
func IsSyntaxCondition(condition string) bool {
	switch condition {
	case CondEmptyInput, CondUnmatchedSyntax, CondUnexpectedToken, CondTrailingTokens, CondScanError:
		return true
	default:
		return false
	}
}
