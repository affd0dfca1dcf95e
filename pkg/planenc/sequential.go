package planenc

import (
	"fmt"
	"sort"

	"github.com/gitrdm/bplan/pkg/planerr"
	"github.com/gitrdm/bplan/pkg/symbolic"
	"github.com/gitrdm/bplan/pkg/task"
)

// sequentialEncoder implements both the seq and forall variants of
// spec.md §4.1: seq enforces at most one action per step via PbLe, forall
// drops that clause. forall adds no mutex or non-interference constraint
// of its own, so any set of actions whose preconditions hold may be
// selected at the same step. Both variants share the frame-axiom
// construction below: a fluent is true after a step if some selected
// action adds it, or if it was true and no selected action deletes it.
type sequentialEncoder struct {
	ctx        *symbolic.Context
	task       *task.Task
	exactlyOne bool
	// relaxed selects the r2e ("relaxed-to-exists") frame axiom: delete
	// effects are ignored, so each fluent's truth value is a monotonic
	// achievement chain (once true, always true) rather than a faithful
	// STRIPS transition. goal_predicates_vars (GoalPredicateVars) then
	// reads directly off this chain, matching spec.md §4.1's description
	// of r2e as tracking "chain variables" of fluent occurrence.
	relaxed bool
	// qfuf selects the quantifier-free uninterpreted-function variant: a
	// single Int-sorted ActVar per step replaces the per-action boolean
	// row, with action identity recovered via equality against a constant
	// action index (len(task.Actions) denotes the distinguished nop
	// action). The backend has no native uninterpreted-function theory, so
	// ActVar is modeled directly as a bounded Int term — behaviourally
	// identical for a finite, statically enumerable action sort, which is
	// the only use spec.md §4.1 makes of it here.
	qfuf   bool
	actVar []symbolic.BitVec // one per action step, width log2(len(Actions)+1)

	horizon int // H

	actionNames []string
	actionVars  [][]symbolic.BoolTerm // [step 0..H][action index]

	boolKeys    []string
	boolFluents [][]symbolic.BoolTerm // [step 0..H+1][fluent index]

	numKeys    []string
	numFluents [][]symbolic.BitVec // [step 0..H+1][fluent index]

	horizonVar    symbolic.BitVec
	goalStates    []symbolic.BoolTerm   // length H+1, indexed by action-step t
	goalPredSteps [][]symbolic.BoolTerm // [goalIndex][action-step t], length H+1 each

	objectActions map[string][]symbolic.BoolTerm // object name -> per (step,action) firing predicates
}

func newSequential(ctx *symbolic.Context, t *task.Task, exactlyOne bool) (*sequentialEncoder, error) {
	return &sequentialEncoder{ctx: ctx, task: t, exactlyOne: exactlyOne}, nil
}

func collectFluentKeys(t *task.Task) (boolKeys, numKeys []string) {
	boolSet := map[string]bool{}
	numSet := map[string]bool{}
	add := func(f task.Fluent) { boolSet[f.String()] = true }
	for _, g := range t.Goal {
		add(g)
	}
	for k := range t.Init.Bool {
		boolSet[k] = true
	}
	for k := range t.Init.Numeric {
		numSet[k] = true
	}
	for _, a := range t.Actions {
		for _, f := range a.Pre {
			add(f)
		}
		for _, f := range a.PreNeg {
			add(f)
		}
		for _, f := range a.Add {
			add(f)
		}
		for _, f := range a.Del {
			add(f)
		}
		for _, ne := range a.Numeric {
			numSet[ne.Fluent.String()] = true
		}
	}
	for k := range boolSet {
		boolKeys = append(boolKeys, k)
	}
	for k := range numSet {
		numKeys = append(numKeys, k)
	}
	sort.Strings(boolKeys)
	sort.Strings(numKeys)
	return boolKeys, numKeys
}

func numericEffectValue(ne task.NumericEffect) int { return int(ne.Value) }

// Encode builds Φ for horizon h, returning the root assertion. It is
// deterministic; its only error is ErrInvalidConfig for h < 1
// (UnsupportedEncoding is raised by New, never here).
func (e *sequentialEncoder) Encode(h int, opts Options) (symbolic.BoolTerm, error) {
	if h < 1 {
		return symbolic.BoolTerm{}, fmt.Errorf("horizon must be >= 1, got %d: %w", h, planerr.ErrInvalidConfig)
	}
	e.horizon = h
	ctx := e.ctx
	t := e.task

	e.boolKeys, e.numKeys = collectFluentKeys(t)

	e.actionNames = make([]string, len(t.Actions))
	for i, a := range t.Actions {
		e.actionNames[i] = a.Name
	}

	var qfufAssertions []symbolic.BoolTerm

	// Mint action-selection vars for steps 0..H (H+1 steps; step H is
	// always forced empty below — "last-step silence").
	e.actionVars = make([][]symbolic.BoolTerm, h+1)
	if e.qfuf {
		nopIdx := len(t.Actions)
		width := bitsForHorizon(nopIdx + 1)
		if width < 1 {
			width = 1
		}
		e.actVar = make([]symbolic.BitVec, h+1)
		for step := 0; step <= h; step++ {
			av := ctx.NewBitVec(fmt.Sprintf("actvar_%d", step), width)
			e.actVar[step] = av
			qfufAssertions = append(qfufAssertions, av.Le(ctx.ConstInt(nopIdx, width)))
			row := make([]symbolic.BoolTerm, len(t.Actions))
			for i := range t.Actions {
				row[i] = av.Eq(ctx.ConstInt(i, width))
			}
			e.actionVars[step] = row
		}
	} else {
		for step := 0; step <= h; step++ {
			row := make([]symbolic.BoolTerm, len(t.Actions))
			for i, a := range t.Actions {
				row[i] = ctx.NewBoolVar(fmt.Sprintf("act_%s_%d", a.Name, step))
			}
			e.actionVars[step] = row
		}
	}

	// Mint fluent vars for steps 0..H+1 (H+2 time points).
	numFluentSteps := h + 2
	e.boolFluents = make([][]symbolic.BoolTerm, numFluentSteps)
	e.numFluents = make([][]symbolic.BitVec, numFluentSteps)
	for step := 0; step < numFluentSteps; step++ {
		brow := make([]symbolic.BoolTerm, len(e.boolKeys))
		for i, k := range e.boolKeys {
			brow[i] = ctx.NewBoolVar(fmt.Sprintf("f_%s_%d", k, step))
		}
		e.boolFluents[step] = brow

		nrow := make([]symbolic.BitVec, len(e.numKeys))
		for i, k := range e.numKeys {
			nrow[i] = ctx.NewBitVec(fmt.Sprintf("n_%s_%d", k, step), numericWidth)
		}
		e.numFluents[step] = nrow
	}

	var assertions []symbolic.BoolTerm
	assertions = append(assertions, qfufAssertions...)

	// 1. Initial.
	for i, k := range e.boolKeys {
		v := t.Init.Bool[k]
		if v {
			assertions = append(assertions, e.boolFluents[0][i])
		} else {
			assertions = append(assertions, symbolic.Not(e.boolFluents[0][i]))
		}
	}
	for i, k := range e.numKeys {
		v := int(t.Init.Numeric[k])
		assertions = append(assertions, e.numFluents[0][i].Eq(ctx.ConstInt(v, numericWidth)))
	}

	// Frame axioms for t in [0,H]: fluent[t+1] determined by fluent[t] and action[t].
	boolIdx := map[string]int{}
	for i, k := range e.boolKeys {
		boolIdx[k] = i
	}
	numIdx := map[string]int{}
	for i, k := range e.numKeys {
		numIdx[k] = i
	}

	for step := 0; step <= h; step++ {
		for fi, key := range e.boolKeys {
			var addSel, delSel []symbolic.BoolTerm
			for ai, a := range t.Actions {
				for _, f := range a.Add {
					if f.String() == key {
						addSel = append(addSel, e.actionVars[step][ai])
					}
				}
				for _, f := range a.Del {
					if f.String() == key {
						delSel = append(delSel, e.actionVars[step][ai])
					}
				}
			}
			var next symbolic.BoolTerm
			if e.relaxed {
				next = symbolic.Or(e.boolFluents[step][fi], symbolic.Or(addSel...))
			} else {
				next = symbolic.Or(
					symbolic.Or(addSel...),
					symbolic.And(e.boolFluents[step][fi], symbolic.Not(symbolic.Or(delSel...))),
				)
			}
			assertions = append(assertions, symbolic.Iff(e.boolFluents[step+1][fi], next))
		}

		for fi, key := range e.numKeys {
			// acc folds the effects of the actions selected at this step in
			// action order. Under seq's at-most-one clause that is a single
			// effect; forall has no such clause, so when several selected
			// actions touch this fluent their effects are applied in turn.
			acc := e.numFluents[step][fi]
			for ai, a := range t.Actions {
				for _, ne := range a.Numeric {
					if ne.Fluent.String() != key {
						continue
					}
					var newVal symbolic.BitVec
					switch ne.Kind {
					case task.NumAssign:
						newVal = ctx.ConstInt(numericEffectValue(ne), numericWidth)
					case task.NumIncrease:
						newVal = acc.Add(ctx.ConstInt(numericEffectValue(ne), numericWidth))
					case task.NumDecrease:
						newVal = acc.Sub(ctx.ConstInt(numericEffectValue(ne), numericWidth))
					}
					acc = symbolic.Select(e.actionVars[step][ai], newVal, acc)
				}
			}
			assertions = append(assertions, e.numFluents[step+1][fi].Eq(acc))
		}
	}

	// Preconditions: an action selected at step t needs its positive
	// preconditions true and its negative preconditions false at t.
	for step := 0; step <= h; step++ {
		for ai, a := range t.Actions {
			var pre []symbolic.BoolTerm
			for _, f := range a.Pre {
				pre = append(pre, e.boolFluents[step][boolIdx[f.String()]])
			}
			for _, f := range a.PreNeg {
				pre = append(pre, symbolic.Not(e.boolFluents[step][boolIdx[f.String()]]))
			}
			if len(pre) > 0 {
				assertions = append(assertions, symbolic.Implies(e.actionVars[step][ai], symbolic.And(pre...)))
			}
		}
	}

	// Goal chain + horizon pinpointing.
	isOver := t.IsOversubscription()
	offset := 1
	if isOver {
		offset = 0
	}
	e.goalStates = make([]symbolic.BoolTerm, h+1)
	e.goalPredSteps = make([][]symbolic.BoolTerm, len(t.Goal))
	for gi := range t.Goal {
		e.goalPredSteps[gi] = make([]symbolic.BoolTerm, h+1)
	}
	for step := 0; step <= h; step++ {
		fluentStep := step + 1
		if isOver {
			fluentStep = step
		}
		var preds []symbolic.BoolTerm
		for gi, g := range t.Goal {
			fi, ok := boolIdx[g.String()]
			var p symbolic.BoolTerm
			if ok {
				p = e.boolFluents[fluentStep][fi]
			} else {
				p = ctx.BoolConst(false)
			}
			preds = append(preds, p)
			e.goalPredSteps[gi][step] = p
		}
		if isOver {
			e.goalStates[step] = symbolic.Or(preds...)
		} else {
			e.goalStates[step] = symbolic.And(preds...)
		}
	}

	if opts.HorizonPlanning {
		e.horizonVar = ctx.ConstInt(h, bitsForHorizon(h))
	} else {
		e.horizonVar = ctx.NewBitVec("horizon", bitsForHorizon(h))
		assertions = append(assertions, e.horizonVar.Ge(ctx.ConstInt(0, e.horizonVar.Width())))
		assertions = append(assertions, e.horizonVar.Le(ctx.ConstInt(h, e.horizonVar.Width())))

		if isOver {
			assertions = append(assertions, ctx.PbGe(e.goalStates, 1))
		} else {
			assertions = append(assertions, symbolic.Or(e.goalStates...))
		}

		for idx, gState := range e.goalStates {
			var pre []symbolic.BoolTerm
			pre = append(pre, gState)
			for j := 0; j < idx; j++ {
				pre = append(pre, symbolic.Not(e.goalStates[j]))
			}
			assertions = append(assertions, symbolic.Iff(symbolic.And(pre...), e.horizonVar.Eq(ctx.ConstInt(idx+offset, e.horizonVar.Width()))))
		}
	}

	// Gap-freeness.
	stepHasAction := func(step int) symbolic.BoolTerm {
		return symbolic.Or(e.actionVars[step]...)
	}
	for step := 1; step <= h; step++ {
		assertions = append(assertions, symbolic.Implies(stepHasAction(step), stepHasAction(step-1)))
	}

	// Post-goal silence.
	if !opts.DisableAfterGoalStateActions {
		for step, gState := range e.goalStates {
			var after []symbolic.BoolTerm
			for t2 := step + 1; t2 <= h; t2++ {
				after = append(after, symbolic.Not(stepHasAction(t2)))
			}
			assertions = append(assertions, symbolic.Iff(gState, symbolic.And(after...)))
		}
	}

	// Last-step silence.
	for ai := range t.Actions {
		assertions = append(assertions, symbolic.Not(e.actionVars[h][ai]))
	}

	// At-most-one-action-per-step (seq and r2e).
	if e.exactlyOne && !opts.SkipActions {
		for step := 0; step < h; step++ {
			assertions = append(assertions, e.ctx.PbLe(e.actionVars[step], 1))
		}
	}

	// Precompute per-object firing predicates for actions_that_uses_resource.
	e.objectActions = map[string][]symbolic.BoolTerm{}
	for step := 0; step <= h; step++ {
		for ai, a := range t.Actions {
			for _, p := range a.Parameters {
				e.objectActions[p.Name] = append(e.objectActions[p.Name], e.actionVars[step][ai])
			}
		}
	}

	return symbolic.And(assertions...), nil
}

func bitsForHorizon(h int) int {
	w := 0
	for v := h; v > 0; v >>= 1 {
		w++
	}
	if w == 0 {
		w = 1
	}
	return w
}

func (e *sequentialEncoder) Ctx() *symbolic.Context             { return e.ctx }
func (e *sequentialEncoder) Horizon() int                       { return e.horizon }
func (e *sequentialEncoder) HorizonVar() symbolic.BitVec        { return e.horizonVar }
func (e *sequentialEncoder) GetActionsVars(t int) []symbolic.BoolTerm {
	return append([]symbolic.BoolTerm{}, e.actionVars[t]...)
}

func (e *sequentialEncoder) DisableActionsAtT(t int) []symbolic.BoolTerm {
	out := make([]symbolic.BoolTerm, len(e.actionVars[t]))
	for i, v := range e.actionVars[t] {
		out[i] = symbolic.Not(v)
	}
	return out
}

func (e *sequentialEncoder) ActionsThatUsesResource(name string) []symbolic.BoolTerm {
	return append([]symbolic.BoolTerm{}, e.objectActions[name]...)
}

func (e *sequentialEncoder) GoalPredicateVars(i int) []symbolic.BoolTerm {
	return append([]symbolic.BoolTerm{}, e.goalPredSteps[i]...)
}

func (e *sequentialEncoder) NumGoalPredicates() int { return len(e.task.Goal) }

func (e *sequentialEncoder) GoalLastStepVar(i int) symbolic.BoolTerm {
	last := len(e.boolFluents) - 1
	key := e.task.Goal[i].String()
	for fi, k := range e.boolKeys {
		if k == key {
			return e.boolFluents[last][fi]
		}
	}
	return e.ctx.BoolConst(false)
}

func (e *sequentialEncoder) NumericFluentAtLastStep(name string) (symbolic.BitVec, bool) {
	last := len(e.numFluents) - 1
	for fi, k := range e.numKeys {
		if k == name {
			return e.numFluents[last][fi], true
		}
	}
	return symbolic.BitVec{}, false
}

func (e *sequentialEncoder) FluentChain(name string) ([]symbolic.BoolTerm, bool) {
	fi := -1
	for i, k := range e.boolKeys {
		if k == name {
			fi = i
			break
		}
	}
	if fi < 0 {
		return nil, false
	}
	// Mirrors the non-oversubscription goal convention: fluentStep = step+1,
	// so chain[step] reads the fluent's value after step's action fires.
	chain := make([]symbolic.BoolTerm, e.horizon+1)
	for step := 0; step <= e.horizon; step++ {
		chain[step] = e.boolFluents[step+1][fi]
	}
	return chain, true
}

func (e *sequentialEncoder) Convert(actions []task.ActionInstance) ([]symbolic.BoolTerm, error) {
	nameIdx := map[string]int{}
	for i, n := range e.actionNames {
		nameIdx[n] = i
	}
	out := make([]symbolic.BoolTerm, 0, len(actions))
	for _, ai := range actions {
		idx, ok := nameIdx[ai.Action.Name]
		if !ok {
			return nil, fmt.Errorf("convert: unknown action %q", ai.Action.Name)
		}
		if ai.Step > e.horizon {
			return nil, fmt.Errorf("convert: step %d exceeds horizon %d", ai.Step, e.horizon)
		}
		out = append(out, e.actionVars[ai.Step][idx])
	}
	return out, nil
}

func (e *sequentialEncoder) ExtractPlan(model *symbolic.Model, h int) *task.Plan {
	plan := &task.Plan{Task: e.task}
	if model == nil {
		return plan
	}
	for step := 0; step < h && step <= e.horizon; step++ {
		for ai, a := range e.task.Actions {
			v := e.actionVars[step][ai]
			if model.EvalBool(v) {
				plan.Actions = append(plan.Actions, task.ActionInstance{Action: a, Step: step})
				plan.Literals = append(plan.Literals, v)
			}
		}
	}
	return plan
}
