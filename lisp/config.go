// Copyright © 2018 The ELPS authors

package lisp

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Config is a function that configures a root environment or its runtime.
type Config func(env *LEnv) *LVal

// InitializeEnv applies config to env in order.  The first Config to fail
// stops initialization and its error is returned.
func InitializeEnv(env *LEnv, config ...Config) *LVal {
	for _, fn := range config {
		lerr := fn(env)
		if lerr.Type == LError {
			return lerr
		}
	}
	return Nil()
}

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Reader = r
		return Nil()
	}
}

// WithStderr returns a Config that makes environments write debugging output
// to w instead of the default, os.Stderr.  The runtime logger is redirected
// to w as well.
func WithStderr(w io.Writer) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stderr = w
		env.Runtime.log().SetOutput(w)
		return Nil()
	}
}

// WithLogger returns a Config that replaces the runtime logger.
func WithLogger(logger *logrus.Logger) Config {
	return func(env *LEnv) *LVal {
		if logger == nil {
			return Errorf("nil logger")
		}
		env.Runtime.Logger = logger
		return Nil()
	}
}

// WithMaxDepth returns a Config that limits nested evaluation to n levels.
// Evaluation deeper than n fails with CondDepthExceeded.  A value of zero
// disables the limit.
func WithMaxDepth(n int) Config {
	return func(env *LEnv) *LVal {
		if n < 0 {
			return Errorf("negative maximum depth: %d", n)
		}
		env.Runtime.MaxDepth = n
		return Nil()
	}
}

// WithStrictEquality returns a Config that makes eq? require every pair of
// list elements to be equal.
func WithStrictEquality() Config {
	return func(env *LEnv) *LVal {
		env.Runtime.StrictEquality = true
		return Nil()
	}
}

// WithProfiler returns a Config that enables p and attaches it to the
// runtime.
func WithProfiler(p Profiler) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Profiler = p
		if p.IsEnabled() {
			return Nil()
		}
		if err := p.Enable(); err != nil {
			return Errorf("profiler: %v", err)
		}
		return Nil()
	}
}

// WithLoader returns a Config that evaluates fn in the environment.  A
// failure from fn fails the configuration.
func WithLoader(fn Loader) Config {
	return func(env *LEnv) *LVal {
		lval := fn(env)
		if lval.Type == LError {
			return lval
		}
		return Nil()
	}
}
