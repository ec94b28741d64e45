// Copyright © 2018 The ELPS authors

package lisp

import (
	"fmt"
	"strings"

	"github.com/luthersystems/schemer/parser/token"
)

// LType is the type of an LVal
type LType uint

// Possible LValType values
const (
	// LInvalid (0) is not a valid lisp type.
	LInvalid LType = iota
	// LAtom values store their text in the LVal.Str field.  Atoms are opaque
	// text, there is no numeric type.
	LAtom
	// LList values store their children in LVal.Cells.
	LList
	// LError values store the error condition name in LVal.Str and the
	// underlying Go error in LVal.Native.  An LError is the "no value" result
	// of an evaluation and never appears in reader output.
	LError
	// LMarkVoid is returned by special operators which produce no value, like
	// define.  The list evaluator consumes the mark and contributes nothing
	// to its output.  Applications never see LMarkVoid values.
	LMarkVoid
	// LTypeMax is not a real type but represents a value numerically greater
	// than all valid LType values.
	LTypeMax
)

var lvalTypeStrings = []string{
	LInvalid:  "INVALID",
	LAtom:     "atom",
	LList:     "list",
	LError:    "error",
	LMarkVoid: "marker-void",
}

func (t LType) String() string {
	if t >= LType(len(lvalTypeStrings)) {
		return lvalTypeStrings[LInvalid]
	}
	return lvalTypeStrings[t]
}

// LVal is a lisp value
type LVal struct {
	// Native is generic storage for data which cannot be represented as an
	// LVal.  LError values keep their Go error here.
	Native interface{}

	// Source is the values originating location in source code.  Programs
	// should not modify the contents of Source as the reference may be shared
	// by multiple LVals.
	Source *token.Location

	// Str used by LAtom values and as the condition name of LError values.
	Str string

	// Cells holds the children of an LList.
	Cells []*LVal

	// Type is the native type for a value in lisp.
	Type LType
}

// Atom returns an LVal representing the atom text.
func Atom(text string) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LAtom,
		Str:    text,
	}
}

// List returns an LVal representing a list.  Provided cells are used as
// backing storage for the returned list and are not copied.
func List(cells []*LVal) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LList,
		Cells:  cells,
	}
}

// Nil returns a new empty list.
func Nil() *LVal {
	return List(nil)
}

// Bool returns the atom true or the atom false.
func Bool(b bool) *LVal {
	if b {
		return Atom(TrueAtom)
	}
	return Atom(FalseAtom)
}

// Void returns the mark produced by operators that contribute no value.
func Void() *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LMarkVoid,
	}
}

// Len returns the number of children in a list.  Len returns -1 for any
// other type of value.
func (v *LVal) Len() int {
	if v.Type != LList {
		return -1
	}
	return len(v.Cells)
}

// IsNil returns true if v is the empty list.
func (v *LVal) IsNil() bool {
	return v.Type == LList && len(v.Cells) == 0
}

// IsTrue returns true if v is the atom true.  No other value is truthy.
func (v *LVal) IsTrue() bool {
	return v.Type == LAtom && v.Str == TrueAtom
}

// Copy creates a deep copy of the receiver.
func (v *LVal) Copy() *LVal {
	if v == nil {
		return nil
	}
	cp := &LVal{}
	*cp = *v
	cp.Cells = v.copyCells()
	return cp
}

func (v *LVal) copyCells() []*LVal {
	if len(v.Cells) == 0 {
		return nil
	}
	cells := make([]*LVal, len(v.Cells))
	for i := range cells {
		cells[i] = v.Cells[i].Copy()
	}
	return cells
}

// String returns the canonical source form of v without resolving any
// symbols.  Lists are rendered with single spaces between their children.
func (v *LVal) String() string {
	switch v.Type {
	case LAtom:
		return v.Str
	case LList:
		var buf strings.Builder
		v.writeList(&buf)
		return buf.String()
	case LError:
		return GoError(v).Error()
	case LMarkVoid:
		return "#<void>"
	default:
		return fmt.Sprintf("#<%s %#v>", v.Type, v)
	}
}

func (v *LVal) writeList(buf *strings.Builder) {
	buf.WriteString("(")
	for i, c := range v.Cells {
		if i > 0 {
			buf.WriteString(" ")
		}
		if c.Type == LList {
			c.writeList(buf)
		} else {
			buf.WriteString(c.String())
		}
	}
	buf.WriteString(")")
}

var defaultSourceLocation = &token.Location{
	File: "<native code>",
	Pos:  -1,
}

func nativeSource() *token.Location {
	return defaultSourceLocation
}
