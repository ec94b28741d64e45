// Copyright © 2018 The ELPS authors

// Package parser selects a lisp.Reader implementation.
package parser

import (
	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/parser/rdparser"
	"github.com/luthersystems/schemer/parser/regexparser"
)

// Option configures the reader returned by NewReader.
type Option func(*readerConfig)

type readerConfig struct {
	combinator bool
}

// WithCombinator makes NewReader return the parser-combinator reader from
// package regexparser instead of the recursive descent reader.  Both readers
// accept the same inputs and report the same error conditions.
func WithCombinator() Option {
	return func(c *readerConfig) {
		c.combinator = true
	}
}

// NewReader returns a new lisp.Reader
func NewReader(opts ...Option) lisp.Reader {
	var c readerConfig
	for _, opt := range opts {
		opt(&c)
	}
	if c.combinator {
		return regexparser.NewReader()
	}
	return rdparser.NewReader()
}
