// Copyright © 2024 The ELPS authors

package token

// IsAtom returns true if tokens is exactly one ATOM token.
func IsAtom(tokens []*Token) bool {
	return len(tokens) == 1 && tokens[0].Type == ATOM
}

// IsList returns true if tokens form a bracketed list.  Brackets must balance
// without the depth ever going negative, at least one PAREN_L must occur, and
// no ATOM may appear outside the outermost brackets.  EOF tokens are ignored.
//
// IsList does not require the tokens to form a single list.  "() ()" is a
// list by this definition even though a reader rejects it.
func IsList(tokens []*Token) bool {
	depth := 0
	maxDepth := 0
	for _, tok := range tokens {
		switch tok.Type {
		case PAREN_L:
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case PAREN_R:
			depth--
			if depth < 0 {
				return false
			}
		case ATOM:
			if depth <= 0 {
				return false
			}
		case EOF:
		default:
			return false
		}
	}
	return depth == 0 && maxDepth > 0
}

// IsSExpression returns true if tokens are either an atom or a list.
func IsSExpression(tokens []*Token) bool {
	return IsAtom(tokens) || IsList(tokens)
}

// Depth returns the bracket nesting depth after reading tokens.  A negative
// depth means a PAREN_R was seen without a matching PAREN_L.
func Depth(tokens []*Token) int {
	depth := 0
	for _, tok := range tokens {
		switch tok.Type {
		case PAREN_L:
			depth++
		case PAREN_R:
			depth--
			if depth < 0 {
				return depth
			}
		}
	}
	return depth
}
