// Copyright © 2018 The ELPS authors

package lisp

import (
	"sort"

	"github.com/luthersystems/schemer/parser/token"
	"github.com/sirupsen/logrus"
)

// LEnv is a lisp environment.  An LEnv holds the bindings made by define.  It
// is not safe for concurrent use and callers should use one LEnv per session.
type LEnv struct {
	Loc     *token.Location
	Scope   map[string]*LVal
	Runtime *Runtime
}

// NewEnv initializes and returns a new LEnv with an empty scope.  When rt is
// nil StandardRuntime() is called to create a new Runtime for the returned
// LEnv.  Sharing a runtime between environments that are evaluated
// concurrently has unspecified results.
func NewEnv(rt *Runtime) *LEnv {
	if rt == nil {
		rt = StandardRuntime()
	}
	return &LEnv{
		Scope:   make(map[string]*LVal),
		Runtime: rt,
	}
}

// Lookup returns the value bound to the symbol name, if any.
func (env *LEnv) Lookup(name string) (*LVal, bool) {
	v, ok := env.Scope[name]
	return v, ok
}

// Put binds the atom k to v.  An existing binding for k is replaced.  Put
// returns a define-error if k is not an atom, otherwise it returns the void
// mark.
func (env *LEnv) Put(k, v *LVal) *LVal {
	if k.Type != LAtom {
		return env.ErrorConditionf(CondDefineError, "key is not an atom: %v", k)
	}
	env.Scope[k.Str] = v.Copy()
	return Void()
}

// Keys returns the bound symbol names in sorted order.
func (env *LEnv) Keys() []string {
	keys := make([]string, 0, len(env.Scope))
	for k := range env.Scope {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Errorf returns an LError with the generic condition located at the
// expression currently being evaluated.
func (env *LEnv) Errorf(format string, v ...interface{}) *LVal {
	return env.ErrorConditionf("error", format, v...)
}

// ErrorConditionf returns an LError with a formatted message located at the
// expression currently being evaluated.
func (env *LEnv) ErrorConditionf(condition string, format string, v ...interface{}) *LVal {
	lerr := ErrorConditionf(condition, format, v...)
	env.ErrorAssociate(lerr)
	return lerr
}

// ErrorAssociate sets the source location of lerr to the location of the
// expression being evaluated, if lerr has no location of its own.
func (env *LEnv) ErrorAssociate(lerr *LVal) {
	if lerr.Type != LError {
		return
	}
	if env.Loc == nil || env.Loc.Pos < 0 {
		return
	}
	if lerr.Source == nil || lerr.Source.Pos < 0 {
		lerr.Source = env.Loc
	}
}

// Eval evaluates v in the context (scope) of env and returns the resulting
// LVal.  Eval does not modify v.
//
// An atom bound by define evaluates to the evaluation of its bound value.  An
// unbound atom evaluates to itself.  A list is scanned from left to right;
// see evalList.  An LError result means the expression produced no value.
func (env *LEnv) Eval(v *LVal) *LVal {
	if lerr := env.enter(v); lerr != nil {
		return lerr
	}
	defer env.leave()
	if v.Source != nil && v.Source.Pos >= 0 {
		env.Loc = v.Source
	}
	switch v.Type {
	case LAtom:
		bound, ok := env.Scope[v.Str]
		if !ok {
			return v
		}
		return env.Eval(bound)
	case LList:
		return env.evalList(v)
	default:
		return v
	}
}

// evalList scans the children of v.  A child naming a special operator
// consumes the following children as operands and its result becomes the
// result of the whole list, unless the operator produces no value (define)
// in which case scanning continues after its operands.  Any other child is
// evaluated and appended to the result.  Children that fail to evaluate are
// dropped, but a failing special operator fails the list.
func (env *LEnv) evalList(v *LVal) *LVal {
	cells := v.Cells
	out := make([]*LVal, 0, len(cells))
	for i := 0; i < len(cells); i++ {
		c := cells[i]
		if op := lookupSpecialOp(c); op != nil {
			r, n := env.SpecialOpCall(op, c, cells[i+1:])
			if r.Type != LMarkVoid {
				return r
			}
			i += n
			continue
		}
		r := env.Eval(c)
		if r.Type == LError {
			if isFatal(r) {
				return r
			}
			env.Runtime.log().WithFields(logrus.Fields{
				"condition": r.Str,
				"source":    sourceString(c),
			}).Debug("drop child")
			continue
		}
		out = append(out, r)
	}
	result := List(out)
	result.Source = v.Source
	return result
}

// SpecialOpCall applies op, named by the atom head, to the unevaluated
// operands that follow it.  SpecialOpCall returns the result of the
// operator and the number of operands it consumed.
func (env *LEnv) SpecialOpCall(op *SpecialOp, head *LVal, rest []*LVal) (*LVal, int) {
	if head.Source != nil && head.Source.Pos >= 0 {
		env.Loc = head.Source
	}
	args := rest
	if op.Arity >= 0 {
		if len(rest) < op.Arity {
			return env.ErrorConditionf(CondArityError, "%s: expected %d operands, got %d", op.Name, op.Arity, len(rest)), 0
		}
		args = rest[:op.Arity]
	}
	defer env.trace(head)()
	env.Runtime.log().WithFields(logrus.Fields{
		"form":   op.Name,
		"source": sourceString(head),
	}).Debug("apply special form")
	loc := env.Loc
	r := op.fn(env, args)
	if r.Type == LError && (r.Source == nil || r.Source.Pos < 0) && loc != nil && loc.Pos >= 0 {
		r.Source = loc
	}
	return r, len(args)
}

func (env *LEnv) trace(form *LVal) func() {
	p := env.Runtime.Profiler
	if p == nil || !p.IsEnabled() {
		return func() {}
	}
	return p.Start(form)
}

func (env *LEnv) enter(v *LVal) *LVal {
	rt := env.Runtime
	if rt.MaxDepth > 0 && rt.depth >= rt.MaxDepth {
		lerr := ErrorConditionf(CondDepthExceeded, "maximum evaluation depth exceeded: %d", rt.MaxDepth)
		if v.Source != nil && v.Source.Pos >= 0 {
			lerr.Source = v.Source
		} else {
			env.ErrorAssociate(lerr)
		}
		return lerr
	}
	rt.depth++
	return nil
}

func (env *LEnv) leave() {
	env.Runtime.depth--
}

// isFatal returns true for failures that must not be dropped by list
// evaluation.  Exhausting the depth limit aborts the entire evaluation.
func isFatal(lerr *LVal) bool {
	return lerr.Str == CondDepthExceeded
}

func sourceString(v *LVal) string {
	if v.Source == nil {
		return ""
	}
	return v.Source.String()
}
