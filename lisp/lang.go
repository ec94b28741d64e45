// Copyright © 2018 The ELPS authors

package lisp

// TrueAtom is the value produced by predicates that hold.  A cond clause is
// selected only when its test evaluates to exactly this atom.
const TrueAtom = "true"

// FalseAtom is the value produced by predicates that do not hold.
const FalseAtom = "false"

// QuoteAtom is the short form of the quote operator.  It must appear as its
// own atom, the text 'a is an ordinary atom.
const QuoteAtom = "'"
