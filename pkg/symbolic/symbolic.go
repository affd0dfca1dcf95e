// Package symbolic is a thin wrapper over a boolean/pseudo-boolean SAT
// backend. It stands in for the "opaque first-order solver with integer,
// real and boolean theories plus pseudo-boolean constraints" that the
// Plan Encoder and Feature Library are specified against.
//
// Bool terms are backed directly by the SAT backend's boolean formula
// algebra. Int and Real terms are bit-blasted: a Term of sort Int or Real
// is really a BitVec, a fixed-width vector of boolean wires, with Add, Eq,
// Le and Select implemented as boolean circuits (ripple-carry adder,
// XNOR-chain comparator, mux). This keeps every observable value totally
// defined by the boolean backend and lets PbEq/PbLe/PbGe be expressed as
// ordinary equality/inequality against a constant BitVec, rather than
// requiring a literal pseudo-boolean solver entry point.
package symbolic

import "fmt"

// Sort names the theory a Term belongs to.
type Sort int

const (
	SortBool Sort = iota
	SortInt
	SortReal
	SortUninterpreted
)

func (s Sort) String() string {
	switch s {
	case SortBool:
		return "Bool"
	case SortInt:
		return "Int"
	case SortReal:
		return "Real"
	default:
		return "Uninterpreted"
	}
}

// Context owns every variable name minted during the lifetime of a single
// Behaviour Space. Names must be unique per Context; Context is the only
// thing a Plan Encoder and its features share by reference.
type Context struct {
	counter int
}

// NewContext creates a fresh naming context.
func NewContext() *Context {
	return &Context{}
}

// FreshName returns a unique variable name rooted at prefix, suitable for
// passing to bf.Var. Names are never reused within a Context's lifetime.
func (c *Context) FreshName(prefix string) string {
	c.counter++
	return fmt.Sprintf("%s#%d", prefix, c.counter)
}

// BitsForBound exposes bitsForBound to callers outside this package that
// need to size a BitVec to hold any value in [0, maxVal] — the Feature
// Library sizes its own per-predicate and per-aggregate integers this way.
func BitsForBound(maxVal int) int { return bitsForBound(maxVal) }
