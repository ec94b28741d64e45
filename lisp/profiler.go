// Copyright © 2018 The ELPS authors

package lisp

// Profiler observes the application of special operators.
type Profiler interface {
	// Is the profiler enabled?
	IsEnabled() bool
	// Enable the profiler
	Enable() error
	// End the profiling session and flush any pending output
	Complete() error
	// Start marks the application of the operator named by form and returns
	// a function that marks its completion.
	Start(form *LVal) func()
}
