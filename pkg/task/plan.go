package task

import (
	"sort"
	"strings"

	"github.com/gitrdm/bplan/pkg/symbolic"
)

// ActionInstance is one grounded action occupying one plan step.
type ActionInstance struct {
	Action Action
	Step   int
}

// Plan is the extracted result of a single Behaviour Space check: an
// ordered action sequence, the solver literals that selected it (for
// later forbidding) and its discretised behaviour. Never mutated after
// Behaviour Space.Check returns it.
type Plan struct {
	Task     *Task                `json:"-"`
	Actions  []ActionInstance     `json:"actions"`
	Literals []symbolic.BoolTerm  `json:"-"` // z3_actions_vars equivalent

	BehaviourExpr symbolic.BoolTerm `json:"-"` // conjunction of feature_var = v equalities
	HasBehaviour  bool              `json:"has_behaviour"`
	BehaviourStr  string            `json:"behaviour_str"`
	FeatureValues map[string]string `json:"feature_values"` // feature name -> canonical value string
}

// ActionKey renders a stable fingerprint of the action sequence, used by
// the Iterator to detect duplicate plans without relying on solver state.
func (p *Plan) ActionKey() string {
	var b strings.Builder
	for i, a := range p.Actions {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(a.Action.String())
	}
	return b.String()
}

// CanonicalBehaviourStr renders FeatureValues as a stable string: feature
// names sorted lexicographically, "name=value" pairs joined by " ∧ ". This
// is the canonical rendering Design Notes §9 calls for, avoiding any
// dependence on the backend's own formula pretty-printer.
func CanonicalBehaviourStr(values map[string]string) string {
	names := make([]string, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + "=" + values[n]
	}
	return strings.Join(parts, " ∧ ")
}

// LiftedPlan is a Plan with its action sequence translated back through
// the (out-of-scope) grounding/compilation pipeline into lifted action
// instances. In this module, grounding is assumed already done, so lifting
// is the identity — LiftedPlan exists to match the external-interface
// naming of spec.md §6 and as the extension point a real PDDL front end
// would hook into.
type LiftedPlan struct {
	*Plan
}

// Lift wraps a Plan as a LiftedPlan. A real deployment would map grounded
// action/object names back to their lifted PDDL names here.
func Lift(p *Plan) *LiftedPlan { return &LiftedPlan{Plan: p} }

// Apply applies action to state, returning the successor state. If the
// action's preconditions do not hold in s, Apply returns s unchanged with
// ok=false. Plans from the Plan Encoder only select applicable actions;
// the Simulator Counter calls Apply directly and relies on this check.
func Apply(s State, a Action) (State, bool) {
	if !s.Satisfies(a.Pre, a.PreNeg) {
		return s, false
	}
	out := s.Clone()
	for _, f := range a.Del {
		out.Bool[f.String()] = false
	}
	for _, f := range a.Add {
		out.Bool[f.String()] = true
	}
	for _, ne := range a.Numeric {
		key := ne.Fluent.String()
		switch ne.Kind {
		case NumAssign:
			out.Numeric[key] = ne.Value
		case NumIncrease:
			out.Numeric[key] += ne.Value
		case NumDecrease:
			out.Numeric[key] -= ne.Value
		}
	}
	return out, true
}

// Simulate runs a plan forward from t's initial state, returning the full
// state trace states[0..len(actions)] (states[0] is the initial state).
// It stops early, with a shorter trace, the first time an action's
// preconditions are violated — callers (Simulator Counter) treat a short
// trace as an inapplicable plan.
func Simulate(t *Task, actions []ActionInstance) []State {
	states := make([]State, 0, len(actions)+1)
	states = append(states, t.Init.Clone())
	cur := t.Init
	for _, ai := range actions {
		next, ok := Apply(cur, ai.Action)
		if !ok {
			return states
		}
		states = append(states, next)
		cur = next
	}
	return states
}

// SatisfiesGoal reports whether state satisfies t's goal condition. For
// oversubscription tasks any one goal predicate suffices; otherwise every
// goal predicate must hold.
func SatisfiesGoal(t *Task, s State) bool {
	if t.IsOversubscription() {
		for _, g := range t.Goal {
			if s.Bool[g.String()] {
				return true
			}
		}
		return len(t.Goal) == 0
	}
	for _, g := range t.Goal {
		if !s.Bool[g.String()] {
			return false
		}
	}
	return true
}
