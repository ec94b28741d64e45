// Copyright © 2024 The ELPS authors

package lisp

// Head returns the first element of a non-empty list.  An atom or an empty
// list produces a car-error.
func Head(v *LVal) *LVal {
	switch {
	case v.Type != LList:
		return ErrorConditionf(CondCarError, "car of %v: %v", v.Type, v)
	case len(v.Cells) == 0:
		return ErrorConditionf(CondCarError, "car of empty list")
	}
	return v.Cells[0]
}

// Tail returns a new list of every element of v after the first.  An atom or
// an empty list produces a cdr-error.
func Tail(v *LVal) *LVal {
	switch {
	case v.Type != LList:
		return ErrorConditionf(CondCdrError, "cdr of %v: %v", v.Type, v)
	case len(v.Cells) == 0:
		return ErrorConditionf(CondCdrError, "cdr of empty list")
	}
	cells := make([]*LVal, len(v.Cells)-1)
	copy(cells, v.Cells[1:])
	return List(cells)
}

// Prepend returns a new list containing item followed by the elements of
// list.  A list argument which is not a list produces a cons-error.
func Prepend(item, list *LVal) *LVal {
	if list.Type != LList {
		return ErrorConditionf(CondConsError, "cons onto %v: %v", list.Type, list)
	}
	cells := make([]*LVal, 0, len(list.Cells)+1)
	cells = append(cells, item)
	cells = append(cells, list.Cells...)
	return List(cells)
}

// IsEmptyList returns the atom true if v is a list with no elements.
func IsEmptyList(v *LVal) *LVal {
	return Bool(v.IsNil())
}

// IsAtom returns the atom true if v is an atom.
func IsAtom(v *LVal) *LVal {
	return Bool(v.Type == LAtom)
}

// IsLat returns the atom true if v is a list whose elements are all atoms.
// The empty list is a lat.
func IsLat(v *LVal) *LVal {
	if v.Type != LList {
		return Bool(false)
	}
	for _, c := range v.Cells {
		if c.Type != LAtom {
			return Bool(false)
		}
	}
	return Bool(true)
}

// Equal returns the atom true if a and b are structurally equal.  Atoms are
// equal when their text matches.  Two lists of the same length are equal
// when any pair of corresponding elements is equal, so two empty lists are
// never equal.  An atom never equals a list.
//
// BUG(schemer): The list rule above is "any pair" rather than "every pair".
// Use EqualStrict, or configure the runtime WithStrictEquality, for the
// conventional definition.
func Equal(a, b *LVal) *LVal {
	return Bool(equal(a, b, false))
}

// EqualStrict is like Equal but lists are equal only when every pair of
// corresponding elements is equal.  Two empty lists are equal.
func EqualStrict(a, b *LVal) *LVal {
	return Bool(equal(a, b, true))
}

func equal(a, b *LVal, strict bool) bool {
	switch {
	case a.Type == LAtom && b.Type == LAtom:
		return a.Str == b.Str
	case a.Type == LList && b.Type == LList:
		if len(a.Cells) != len(b.Cells) {
			return false
		}
		for i := range a.Cells {
			eq := equal(a.Cells[i], b.Cells[i], strict)
			if strict && !eq {
				return false
			}
			if !strict && eq {
				return true
			}
		}
		return strict
	default:
		return false
	}
}
