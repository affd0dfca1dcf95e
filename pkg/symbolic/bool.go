package symbolic

import (
	"fmt"
	"sync/atomic"

	"github.com/crillab/gophersat/bf"
)

var identityCounter int64

// evalFn evaluates a term against a backend model (a name -> bool
// assignment, as produced by bf.Solve). Every BoolTerm carries one of
// these alongside its bf.Formula so the symbolic layer can read values
// back out of a model without depending on bf's internal AST shape.
type evalFn func(model map[string]bool) bool

// BoolTerm is a Bool-sorted term: a formula over the backend's boolean
// variables, paired with a matching evaluator. It is the base currency of
// the symbolic layer — Int/Real terms (BitVec) are built out of slices of
// BoolTerm.
type BoolTerm struct {
	f    bf.Formula
	eval evalFn
}

// Formula exposes the underlying backend formula, for code that needs to
// hand a BoolTerm to the solver directly (assertions, assumptions).
func (b BoolTerm) Formula() bf.Formula { return b.f }

// Eval reads this term's value out of a solved model.
func (b BoolTerm) Eval(model map[string]bool) bool { return b.eval(model) }

// freshIdentityName mints a name that can never collide with a Context's
// FreshName output (distinct prefix, process-wide counter), used only for
// the tautology/contradiction gadgets behind the nullary And()/Or() and
// BoolConst.
func freshIdentityName() string {
	n := atomic.AddInt64(&identityCounter, 1)
	return fmt.Sprintf("__identity__#%d", n)
}

// NewBoolVar mints a fresh named boolean variable in ctx.
func (c *Context) NewBoolVar(prefix string) BoolTerm {
	name := c.FreshName(prefix)
	return BoolTerm{
		f:    bf.Var(name),
		eval: func(m map[string]bool) bool { return m[name] },
	}
}

// BoolConst returns a term that always evaluates to val, regardless of any
// model. Implemented as a tautology/contradiction gadget over a dedicated
// variable rather than relying on the backend exposing literal True/False
// formula constructors.
func (c *Context) BoolConst(val bool) BoolTerm {
	name := freshIdentityName()
	v := bf.Var(name)
	f := bf.Or(v, bf.Not(v))
	if !val {
		f = bf.And(v, bf.Not(v))
	}
	return BoolTerm{
		f:    f,
		eval: func(map[string]bool) bool { return val },
	}
}

// Not negates a BoolTerm.
func Not(a BoolTerm) BoolTerm {
	return BoolTerm{
		f:    bf.Not(a.f),
		eval: func(m map[string]bool) bool { return !a.eval(m) },
	}
}

// And conjoins zero or more BoolTerms. And() with no arguments is the
// identity for conjunction: a fresh tautology.
func And(terms ...BoolTerm) BoolTerm {
	if len(terms) == 0 {
		return (&Context{}).BoolConst(true)
	}
	fs := make([]bf.Formula, len(terms))
	for i, t := range terms {
		fs[i] = t.f
	}
	return BoolTerm{
		f: bf.And(fs...),
		eval: func(m map[string]bool) bool {
			for _, t := range terms {
				if !t.eval(m) {
					return false
				}
			}
			return true
		},
	}
}

// Or disjoins zero or more BoolTerms. Or() with no arguments is the
// identity for disjunction: a fresh contradiction.
func Or(terms ...BoolTerm) BoolTerm {
	if len(terms) == 0 {
		return (&Context{}).BoolConst(false)
	}
	fs := make([]bf.Formula, len(terms))
	for i, t := range terms {
		fs[i] = t.f
	}
	return BoolTerm{
		f: bf.Or(fs...),
		eval: func(m map[string]bool) bool {
			for _, t := range terms {
				if t.eval(m) {
					return true
				}
			}
			return false
		},
	}
}

// Implies builds a -> b.
func Implies(a, b BoolTerm) BoolTerm {
	return Or(Not(a), b)
}

// Iff builds a <-> b.
func Iff(a, b BoolTerm) BoolTerm {
	return And(Implies(a, b), Implies(b, a))
}

// Distinct asserts that no two terms in the slice are both true; useful
// for at-most-one style gaps in hand-rolled encodings that don't go
// through PbLe.
func Distinct(terms ...BoolTerm) BoolTerm {
	clauses := make([]BoolTerm, 0, len(terms)*(len(terms)-1)/2)
	for i := 0; i < len(terms); i++ {
		for j := i + 1; j < len(terms); j++ {
			clauses = append(clauses, Or(Not(terms[i]), Not(terms[j])))
		}
	}
	return And(clauses...)
}
