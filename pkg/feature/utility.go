package feature

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gitrdm/bplan/pkg/planenc"
	"github.com/gitrdm/bplan/pkg/planerr"
	"github.com/gitrdm/bplan/pkg/symbolic"
	"github.com/gitrdm/bplan/pkg/task"
)

// goalLastStepVar finds last_i, the truth of oversubscription goal g at
// the encoded last step, by matching g against t.Goal (the grounded
// oversubscription metric's goals are always a subset of t.Goal).
func goalLastStepVar(enc planenc.Capabilities, t *task.Task, g task.Fluent) (symbolic.BoolTerm, error) {
	for i, goal := range t.Goal {
		if goal.String() == g.String() {
			return enc.GoalLastStepVar(i), nil
		}
	}
	return symbolic.BoolTerm{}, fmt.Errorf("utility feature: goal %q not in task goal set: %w", g.String(), planerr.ErrSpecParse)
}

// utilityValueFeature implements utility_value of spec.md §4.2.4.
type utilityValueFeature struct {
	task   *task.Task
	domain *DomainSet

	utility symbolic.BitVec
}

// NewUtilityValue builds the utility-value feature over t's oversubscription
// metric (t.Metric.Oversub).
func NewUtilityValue(t *task.Task) Feature {
	return &utilityValueFeature{task: t, domain: NewDomainSet()}
}

func (f *utilityValueFeature) Name() string { return "utility_value" }

func (f *utilityValueFeature) Attach(enc planenc.Capabilities) ([]symbolic.BoolTerm, error) {
	ctx := enc.Ctx()
	goals := f.task.Metric.Oversub
	maxSum := 0
	for _, gu := range goals {
		maxSum += gu.Utility
	}
	width := symbolic.BitsForBound(maxSum)

	var assertions []symbolic.BoolTerm
	uvTerms := make([]symbolic.BitVec, len(goals))
	for i, gu := range goals {
		last, err := goalLastStepVar(enc, f.task, gu.Goal)
		if err != nil {
			return nil, err
		}
		uv := ctx.NewBitVec(fmt.Sprintf("uv_%s", sanitize(gu.Goal.String())), width)
		assertions = append(assertions, uv.Eq(symbolic.Select(last, ctx.ConstInt(gu.Utility, width), ctx.ConstInt(0, width))))
		uvTerms[i] = uv
	}
	f.utility = symbolic.Sum(uvTerms...)
	assertions = append(assertions, f.utility.Gt(ctx.ConstInt(0, f.utility.Width())))
	return assertions, nil
}

func (f *utilityValueFeature) BehaviourExpr(m *symbolic.Model) symbolic.BoolTerm {
	v := m.EvalInt(f.utility)
	return f.utility.Eq(symbolic.NewContext().ConstInt(v, f.utility.Width()))
}

func (f *utilityValueFeature) Discretise(m *symbolic.Model) Reading {
	v := m.EvalInt(f.utility)
	r := Reading{Values: map[string]string{"utility": strconv.Itoa(v)}}
	f.domain.Add(r)
	return r
}

func (f *utilityValueFeature) Domain() *DomainSet { return f.domain }

// utilitySetFeature implements utility_set of spec.md §4.2.4.
type utilitySetFeature struct {
	task   *task.Task
	domain *DomainSet

	us []symbolic.BoolTerm
}

// NewUtilitySet builds the utility-set feature over t's oversubscription
// metric.
func NewUtilitySet(t *task.Task) Feature {
	return &utilitySetFeature{task: t, domain: NewDomainSet()}
}

func (f *utilitySetFeature) Name() string { return "utility_set" }

func (f *utilitySetFeature) Attach(enc planenc.Capabilities) ([]symbolic.BoolTerm, error) {
	ctx := enc.Ctx()
	goals := f.task.Metric.Oversub
	f.us = make([]symbolic.BoolTerm, len(goals))
	var assertions []symbolic.BoolTerm
	for i, gu := range goals {
		last, err := goalLastStepVar(enc, f.task, gu.Goal)
		if err != nil {
			return nil, err
		}
		us := ctx.NewBoolVar(fmt.Sprintf("us_%s", sanitize(gu.Goal.String())))
		assertions = append(assertions, symbolic.Iff(us, last))
		f.us[i] = us
	}
	assertions = append(assertions, ctx.PbGe(f.us, 1))
	return assertions, nil
}

func (f *utilitySetFeature) BehaviourExpr(m *symbolic.Model) symbolic.BoolTerm {
	var terms []symbolic.BoolTerm
	for _, us := range f.us {
		if m.EvalBool(us) {
			terms = append(terms, us)
		} else {
			terms = append(terms, symbolic.Not(us))
		}
	}
	return symbolic.And(terms...)
}

func (f *utilitySetFeature) Discretise(m *symbolic.Model) Reading {
	bits := make([]string, len(f.us))
	for i, us := range f.us {
		if m.EvalBool(us) {
			bits[i] = "1"
		} else {
			bits[i] = "0"
		}
	}
	r := Reading{Values: map[string]string{"utility_set": strings.Join(bits, "")}}
	f.domain.Add(r)
	return r
}

func (f *utilitySetFeature) Domain() *DomainSet { return f.domain }
