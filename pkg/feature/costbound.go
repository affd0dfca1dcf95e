package feature

import (
	"strconv"

	"github.com/gitrdm/bplan/pkg/planenc"
	"github.com/gitrdm/bplan/pkg/symbolic"
	"github.com/gitrdm/bplan/pkg/task"
)

// costBoundFeature implements cost_bound_makespan_optimal of spec.md
// §4.2.2.
type costBoundFeature struct {
	isOversub         bool
	quality           float64
	optimalPlanLength int
	domain            *DomainSet

	cost symbolic.BitVec
}

// NewCostBound builds the makespan/cost-bound feature. quality is the
// quality_bound_factor q; optimalPlanLength is the seed plan's length
// supplied by the external optimal planner (spec.md §1).
func NewCostBound(t *task.Task, quality float64, optimalPlanLength int) Feature {
	return &costBoundFeature{
		isOversub:         t.IsOversubscription(),
		quality:           quality,
		optimalPlanLength: optimalPlanLength,
		domain:            NewDomainSet(),
	}
}

func (f *costBoundFeature) Name() string { return "cost_bound_makespan_optimal" }

func (f *costBoundFeature) Attach(enc planenc.Capabilities) ([]symbolic.BoolTerm, error) {
	ctx := enc.Ctx()
	h := enc.Horizon()
	width := symbolic.BitsForBound(h)

	stepCosts := make([]symbolic.BoolTerm, 0, h)
	for t := 0; t < h; t++ {
		stepCosts = append(stepCosts, symbolic.Or(enc.GetActionsVars(t)...))
	}
	f.cost = ctx.SumBits(stepCosts...)

	var assertions []symbolic.BoolTerm
	if f.isOversub {
		bound := int(f.quality * float64(h))
		if f.optimalPlanLength > 0 {
			bound = int(f.quality * float64(f.optimalPlanLength))
		}
		assertions = append(assertions, f.cost.Le(ctx.ConstInt(bound, f.cost.Width())))
		hv := enc.HorizonVar()
		assertions = append(assertions, hv.Le(ctx.ConstInt(bound, hv.Width())))
		for step := bound; step <= h; step++ {
			assertions = append(assertions, enc.DisableActionsAtT(step)...)
		}
	} else if f.quality != 1.0 {
		// When q == 1.0, H already equals the optimal plan length L, so
		// cost >= L together with cost < H could never hold; the feature
		// adds no assertions in that case per spec.md §4.2.2, leaving cost
		// attached (for Discretise) but unconstrained beyond Φ itself.
		assertions = append(assertions, f.cost.Ge(ctx.ConstInt(f.optimalPlanLength, width)))
		assertions = append(assertions, f.cost.Lt(ctx.ConstInt(h, width)))
	}

	return assertions, nil
}

func (f *costBoundFeature) BehaviourExpr(m *symbolic.Model) symbolic.BoolTerm {
	v := m.EvalInt(f.cost)
	return f.cost.Eq(symbolic.NewContext().ConstInt(v, f.cost.Width()))
}

func (f *costBoundFeature) Discretise(m *symbolic.Model) Reading {
	v := m.EvalInt(f.cost)
	r := Reading{Values: map[string]string{"cost": strconv.Itoa(v)}}
	f.domain.Add(r)
	return r
}

func (f *costBoundFeature) Domain() *DomainSet { return f.domain }
