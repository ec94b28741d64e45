// Copyright © 2018 The ELPS authors

// Package schemertest runs sequences of expressions against isolated
// environments and compares their rendered results.
package schemertest

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/parser"
)

// BenchmarkParse returns a benchmark that reads the file at path with the
// reader returned by r.
func BenchmarkParse(path string, r func() lisp.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// TestSequence is a sequence of lisp expressions which are evaluated sequentially
// by a lisp.LEnv.
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the rendered result of a successful evaluation
	Cond   string // the error condition of a failed read or evaluation
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// NewEnv returns an environment whose runtime output is written to t.  The
// returned Logger should be flushed when the test completes.
func NewEnv(t testing.TB, config ...lisp.Config) (*lisp.LEnv, *Logger) {
	logger := NewLogger(t)
	env := lisp.NewEnv(nil)
	config = append([]lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithStderr(logger),
	}, config...)
	err := lisp.GoError(lisp.InitializeEnv(env, config...))
	if err != nil {
		t.Fatalf("failed to initialize lisp environment: %v", err)
	}
	return env, logger
}

// RunTestSuite runs each TestSequence in tests on isolated lisp.LEnvs.  Each
// environment is initialized with config.
func RunTestSuite(t *testing.T, tests TestSuite, config ...lisp.Config) {
	for i, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			env, logger := NewEnv(t, config...)
			defer logger.Flush()
			for j, expr := range test.TestSequence {
				result, cond := Eval(env, expr.Expr)
				if cond != expr.Cond {
					t.Errorf("test %d %q: expr %d: expected condition %q (got %q: %s)", i, test.Name, j, expr.Cond, cond, result)
					continue
				}
				if cond == "" && result != expr.Result {
					t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
				}
			}
		})
	}
}

// Eval reads and evaluates expr in env.  On success Eval returns the rendered
// result and an empty condition.  On failure it returns the error message and
// the error condition.
func Eval(env *lisp.LEnv, expr string) (string, string) {
	v, err := env.Runtime.Reader.Read("test", strings.NewReader(expr))
	if err != nil {
		if lerr, ok := lisp.AsErrorVal(err); ok {
			return lerr.Error(), lerr.Condition()
		}
		return err.Error(), "error"
	}
	res := env.Eval(v)
	if res.Type == lisp.LError {
		lerr := lisp.GoError(res).(*lisp.ErrorVal)
		return lerr.Error(), lerr.Condition()
	}
	return env.Render(res), ""
}

// RunBenchmark runs a standard benchmark that evaluates the expression parsed
// from source in a fresh environment.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	p := parser.NewReader()
	expr, err := p.Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		env := lisp.NewEnv(nil)
		b.StartTimer()
		lerr := env.Eval(expr)
		b.StopTimer()
		if lerr.Type == lisp.LError {
			b.Fatalf("eval: %v", lerr)
		}
	}
}
