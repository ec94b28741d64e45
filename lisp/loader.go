// Copyright © 2018 The ELPS authors

package lisp

import (
	"io"
	"strings"
)

// Loader evaluates source in an environment.  Loaders are typically applied
// through WithLoader when initializing an environment.
type Loader func(*LEnv) *LVal

// Reader abstracts a parser implementation so that it may be implemented in a
// separate package as an optional/swappable component.
type Reader interface {
	// Read the contents of r and return the single expression that it
	// contains.  Failures are reported as *ErrorVal values carrying one of
	// the syntax conditions (e.g. CondUnmatchedSyntax).
	Read(name string, r io.Reader) (*LVal, error)
}

// LoaderMust returns its first argument when err is nil.  If err is not
// nil LoaderMust panics.
func LoaderMust(fn Loader, err error) Loader {
	if err != nil {
		panic(err)
	}
	return fn
}

// TextLoader parses a text stream using r and returns a Loader which evaluates
// the stream's expression when called.  The reader will be invoked only once.
func TextLoader(r Reader, name string, stream io.Reader) (Loader, error) {
	expr, err := r.Read(name, stream)
	if err != nil {
		return nil, err
	}
	fn := func(env *LEnv) *LVal {
		return env.Eval(expr.Copy())
	}
	return fn, nil
}

// Load reads an expression from r using the runtime's Reader and evaluates
// it.  Read failures are returned as LError values.
func (env *LEnv) Load(name string, r io.Reader) *LVal {
	if env.Runtime.Reader == nil {
		return Errorf("no reader for environment runtime")
	}
	expr, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		return errorValue(err)
	}
	return env.Eval(expr)
}

// LoadString is like Load but reads from the string exprs.
func (env *LEnv) LoadString(name, exprs string) *LVal {
	return env.Load(name, strings.NewReader(exprs))
}

// errorValue converts err into an LError, preserving the condition of an
// *ErrorVal.
func errorValue(err error) *LVal {
	if lerr, ok := AsErrorVal(err); ok {
		return (*LVal)(lerr)
	}
	return ErrorCondition("error", err)
}
