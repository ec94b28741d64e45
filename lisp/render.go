// Copyright © 2024 The ELPS authors

package lisp

import "strings"

// Render returns the printed form of v with symbols resolved in env.  An atom
// is evaluated first, so a bound symbol prints as its value.  Each child of a
// list is evaluated and then rendered, children which fail to evaluate are
// left out.  Lists print as their rendered children separated by single
// spaces inside parentheses.
//
// Because children are evaluated, rendering a list may apply special
// operators it contains (including define).  Use v.String() for the raw
// form.  When v is an atom that fails to evaluate its raw text is returned.
func (env *LEnv) Render(v *LVal) string {
	var buf strings.Builder
	if v.Type == LAtom {
		r := env.Eval(v)
		if r.Type == LError {
			return v.Str
		}
		v = r
	}
	env.renderValue(&buf, v)
	return buf.String()
}

func (env *LEnv) renderValue(buf *strings.Builder, v *LVal) {
	switch v.Type {
	case LAtom:
		buf.WriteString(v.Str)
	case LList:
		env.renderList(buf, v)
	default:
		buf.WriteString(v.String())
	}
}

func (env *LEnv) renderList(buf *strings.Builder, v *LVal) {
	buf.WriteString("(")
	n := 0
	for _, c := range v.Cells {
		r := env.Eval(c)
		if r.Type == LError || r.Type == LMarkVoid {
			continue
		}
		if n > 0 {
			buf.WriteString(" ")
		}
		env.renderValue(buf, r)
		n++
	}
	buf.WriteString(")")
}
