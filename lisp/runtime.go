// Copyright © 2018 The ELPS authors

package lisp

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultMaxDepth is the default limit on nested evaluation.
const DefaultMaxDepth = 10000

// Runtime is an object underlying an LEnv.  It is responsible for holding
// evaluation limits, the source Reader and writing debugging output to a
// stream (typically os.Stderr).
type Runtime struct {
	Stderr   io.Writer
	Reader   Reader
	Logger   *logrus.Logger
	Profiler Profiler
	// MaxDepth bounds the number of nested Eval calls, including chains of
	// symbol resolution.  A value of zero or less disables the limit.
	MaxDepth int
	// StrictEquality makes eq? compare lists element-wise instead of using
	// the "any pair" rule of Equal.
	StrictEquality bool

	depth int
}

// StandardRuntime returns a new Runtime with Stderr set to os.Stderr and a
// logger that only reports warnings.
func StandardRuntime() *Runtime {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	return &Runtime{
		Stderr:   os.Stderr,
		Logger:   logger,
		MaxDepth: DefaultMaxDepth,
	}
}

// Depth returns the current evaluation depth.
func (r *Runtime) Depth() int {
	return r.depth
}

func (r *Runtime) getStderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

func (r *Runtime) log() *logrus.Logger {
	if r.Logger == nil {
		r.Logger = logrus.New()
		r.Logger.SetOutput(r.getStderr())
		r.Logger.SetLevel(logrus.WarnLevel)
	}
	return r.Logger
}
