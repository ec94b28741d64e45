// Copyright © 2018 The ELPS authors

package lisp

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// SpecialOp is an operator recognized by name in any position of a list.
// Special operators receive their operands unevaluated.
type SpecialOp struct {
	Name string
	// Arity is the number of operands consumed.  A negative Arity consumes
	// every remaining child of the list.
	Arity int
	Doc   string
	fn    func(env *LEnv, args []*LVal) *LVal
}

var langSpecialOps = []*SpecialOp{
	{"quote", 1, `Returns its operand without evaluating it.`, opQuote},
	{QuoteAtom, 1, `Short form of quote.  Returns its operand without evaluating it.`, opQuote},
	{"car", 1, `Returns the first element of a non-empty list.`, opCar},
	{"cdr", 1, `Returns a list of every element of a non-empty list except the first.`, opCdr},
	{"cons", 2, `Returns a new list with the first operand prepended to the second.`, opCons},
	{"null?", 1, `Returns true if the operand is the empty list.`, opNullP},
	{"atom?", 1, `Returns true if the operand is an atom.`, opAtomP},
	{"eq?", 2, `Returns true if the operands are structurally equal.`, opEqP},
	{"lat?", 1, `Returns true if the operand is a list containing only atoms.`, opLatP},
	{"cond", -1, `Evaluates the result of the first clause (test result) whose test
		evaluates to true.  Fails if no clause matches.`, opCond},
	{"define", 2, `Binds the evaluated first operand, which must be an atom, to the
		evaluated second operand.  Produces no value.`, opDefine},
}

var langSpecialOpIndex map[string]*SpecialOp

func init() {
	langSpecialOpIndex = make(map[string]*SpecialOp, len(langSpecialOps))
	for _, op := range langSpecialOps {
		langSpecialOpIndex[op.Name] = op
	}
}

// LookupSpecialOp returns the special operator called name, if one exists.
func LookupSpecialOp(name string) (*SpecialOp, bool) {
	op, ok := langSpecialOpIndex[name]
	return op, ok
}

// SpecialOpNames returns the names of all special operators in sorted order.
func SpecialOpNames() []string {
	names := make([]string, 0, len(langSpecialOps))
	for _, op := range langSpecialOps {
		names = append(names, op.Name)
	}
	sort.Strings(names)
	return names
}

func lookupSpecialOp(v *LVal) *SpecialOp {
	if v.Type != LAtom {
		return nil
	}
	return langSpecialOpIndex[v.Str]
}

// evalOperands evaluates args in order and stops at the first failure.
func (env *LEnv) evalOperands(args []*LVal) ([]*LVal, *LVal) {
	vals := make([]*LVal, len(args))
	for i, arg := range args {
		vals[i] = env.Eval(arg)
		if vals[i].Type == LError {
			return nil, vals[i]
		}
	}
	return vals, nil
}

func opQuote(env *LEnv, args []*LVal) *LVal {
	return args[0]
}

func opCar(env *LEnv, args []*LVal) *LVal {
	vals, lerr := env.evalOperands(args)
	if lerr != nil {
		return lerr
	}
	return Head(vals[0])
}

func opCdr(env *LEnv, args []*LVal) *LVal {
	vals, lerr := env.evalOperands(args)
	if lerr != nil {
		return lerr
	}
	return Tail(vals[0])
}

func opCons(env *LEnv, args []*LVal) *LVal {
	vals, lerr := env.evalOperands(args)
	if lerr != nil {
		return lerr
	}
	return Prepend(vals[0], vals[1])
}

func opNullP(env *LEnv, args []*LVal) *LVal {
	vals, lerr := env.evalOperands(args)
	if lerr != nil {
		return lerr
	}
	return IsEmptyList(vals[0])
}

func opAtomP(env *LEnv, args []*LVal) *LVal {
	vals, lerr := env.evalOperands(args)
	if lerr != nil {
		return lerr
	}
	return IsAtom(vals[0])
}

func opEqP(env *LEnv, args []*LVal) *LVal {
	vals, lerr := env.evalOperands(args)
	if lerr != nil {
		return lerr
	}
	if env.Runtime.StrictEquality {
		return EqualStrict(vals[0], vals[1])
	}
	return Equal(vals[0], vals[1])
}

func opLatP(env *LEnv, args []*LVal) *LVal {
	vals, lerr := env.evalOperands(args)
	if lerr != nil {
		return lerr
	}
	return IsLat(vals[0])
}

func opCond(env *LEnv, args []*LVal) *LVal {
	for i, clause := range args {
		if clause.Type != LList || len(clause.Cells) < 2 {
			return ErrorConditionf(CondCondError, "clause %d is not a list of a test and a result: %v", i, clause)
		}
		test := env.Eval(clause.Cells[0])
		if test.Type == LError {
			return test
		}
		if test.IsTrue() {
			return env.Eval(clause.Cells[1])
		}
	}
	return ErrorConditionf(CondCondError, "no clause matched")
}

func opDefine(env *LEnv, args []*LVal) *LVal {
	vals, lerr := env.evalOperands(args)
	if lerr != nil {
		return lerr
	}
	key, val := vals[0], vals[1]
	if key.Type != LAtom {
		return ErrorConditionf(CondDefineError, "key is not an atom: %v", key)
	}
	env.Runtime.log().WithFields(logrus.Fields{
		"form":   "define",
		"symbol": key.Str,
		"source": sourceString(args[0]),
	}).Debugf("bind %s", val)
	return env.Put(key, val)
}
