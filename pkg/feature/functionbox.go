package feature

import (
	"fmt"
	"strconv"

	"github.com/gitrdm/bplan/pkg/planenc"
	"github.com/gitrdm/bplan/pkg/planerr"
	"github.com/gitrdm/bplan/pkg/symbolic"
)

// FunctionSpec names one tracked numeric function, as parsed from a
// ":function NAME MIN MAX DELTA" line by pkg/specdsl. Key is the grounded
// numeric fluent's String() key looked up via
// Capabilities.NumericFluentAtLastStep.
type FunctionSpec struct {
	Name  string
	Key   string
	Min   int
	Max   int
	Delta int
}

func (s FunctionSpec) numBoxes() int {
	if s.Delta <= 0 {
		return 1
	}
	n := (s.Max - s.Min + s.Delta - 1) / s.Delta
	if n < 1 {
		n = 1
	}
	return n
}

// functionBoxFeature implements the function-box feature of spec.md
// §4.2.5.
type functionBoxFeature struct {
	specs  []FunctionSpec
	domain *DomainSet

	boxVars []symbolic.BitVec
}

// NewFunctionBox builds the function-box feature over the given function
// specs (parsed from a ":function" DSL file by pkg/specdsl).
func NewFunctionBox(specs []FunctionSpec) Feature {
	return &functionBoxFeature{specs: specs, domain: NewDomainSet()}
}

func (f *functionBoxFeature) Name() string { return "functions" }

func (f *functionBoxFeature) Attach(enc planenc.Capabilities) ([]symbolic.BoolTerm, error) {
	ctx := enc.Ctx()
	f.boxVars = make([]symbolic.BitVec, len(f.specs))
	var assertions []symbolic.BoolTerm

	for si, spec := range f.specs {
		z, ok := enc.NumericFluentAtLastStep(spec.Key)
		if !ok {
			return nil, fmt.Errorf("function-box feature: unknown numeric fluent %q: %w", spec.Key, planerr.ErrSpecParse)
		}
		numBoxes := spec.numBoxes()
		width := symbolic.BitsForBound(numBoxes - 1)
		box := ctx.NewBitVec(fmt.Sprintf("box_%s", sanitize(spec.Name)), width)

		for i := 0; i < numBoxes; i++ {
			lower := spec.Min + i*spec.Delta
			upper := lower + spec.Delta
			var inBox symbolic.BoolTerm
			if i == numBoxes-1 {
				// last box is closed on the right, per spec.md §4.2.5.
				inBox = symbolic.And(z.Ge(ctx.ConstInt(lower, z.Width())), z.Le(ctx.ConstInt(spec.Max, z.Width())))
			} else {
				inBox = symbolic.And(z.Ge(ctx.ConstInt(lower, z.Width())), z.Lt(ctx.ConstInt(upper, z.Width())))
			}
			assertions = append(assertions, symbolic.Iff(box.Eq(ctx.ConstInt(i, width)), inBox))
		}
		f.boxVars[si] = box
	}
	return assertions, nil
}

func (f *functionBoxFeature) BehaviourExpr(m *symbolic.Model) symbolic.BoolTerm {
	var terms []symbolic.BoolTerm
	for _, box := range f.boxVars {
		v := m.EvalInt(box)
		terms = append(terms, box.Eq(symbolic.NewContext().ConstInt(v, box.Width())))
	}
	return symbolic.And(terms...)
}

func (f *functionBoxFeature) Discretise(m *symbolic.Model) Reading {
	values := make(map[string]string, len(f.specs))
	for i, spec := range f.specs {
		v := m.EvalInt(f.boxVars[i])
		values["box_"+spec.Name] = strconv.Itoa(v)
	}
	r := Reading{Values: values}
	f.domain.Add(r)
	return r
}

func (f *functionBoxFeature) Domain() *DomainSet { return f.domain }
