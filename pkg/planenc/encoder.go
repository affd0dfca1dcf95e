// Package planenc implements the Plan Encoder: it turns a grounded task
// and a horizon into a boolean formula Φ whose models are bounded plans,
// and exposes the auxiliary API (the "encoder capability trait" of
// spec.md Design Notes §9) the Feature Library needs without resorting to
// monkey-patching encoder instances at runtime.
package planenc

import (
	"fmt"

	"github.com/gitrdm/bplan/pkg/planerr"
	"github.com/gitrdm/bplan/pkg/symbolic"
	"github.com/gitrdm/bplan/pkg/task"
)

// Kind names one of the four Plan Encoder variants.
type Kind string

const (
	KindSeq    Kind = "seq"
	KindForall Kind = "forall"
	KindR2E    Kind = "r2e"
	KindQFUF   Kind = "qfuf"
)

// Options mirror the encode(H, options) contract of spec.md §4.1.
type Options struct {
	// DisableAfterGoalStateActions, if true, allows non-goal-preserving
	// actions after the first goal step (used when appending plans to the
	// behaviour space).
	DisableAfterGoalStateActions bool
	// HorizonPlanning, if true, fixes horizon_var = H and drops the
	// goal-achievement constraint (used by feature tests needing
	// full-length traces).
	HorizonPlanning bool
	// SkipActions, if true, omits the at-most-one-action-per-step clause.
	SkipActions bool
}

// NumericBound is the inclusive upper bound every numeric fluent value is
// assumed to stay within. Numeric planning in this module always concerns
// small bounded resources (energy levels, counts) described by the
// function-box DSL's own MIN/MAX, so a single generous static bound keeps
// the bit-blasted BitVec width fixed and small; per-fluent bounds taken
// from the function-box spec refine this at the feature layer (§4.2.5).
const NumericBound = 4095

// numericWidth is the BitVec width covering [0, NumericBound].
var numericWidth = func() int {
	w := 0
	for v := NumericBound; v > 0; v >>= 1 {
		w++
	}
	return w
}()

// Capabilities is the read-only interface Feature implementations depend
// on instead of a concrete encoder type — see Design Notes §9 ("encoder
// capability trait/interface"). A Feature never outlives the Context this
// interface is borrowed from.
type Capabilities interface {
	// Ctx returns the shared symbolic Context.
	Ctx() *symbolic.Context
	// Horizon returns H, the encoded horizon.
	Horizon() int
	// HorizonVar returns horizon_var, the step at which a goal first holds.
	HorizonVar() symbolic.BitVec
	// GetActionsVars returns booleans true iff some real (non-nop) action
	// fires at step t.
	GetActionsVars(t int) []symbolic.BoolTerm
	// DisableActionsAtT returns assertions forcing no real action at t.
	DisableActionsAtT(t int) []symbolic.BoolTerm
	// ActionsThatUsesResource returns predicates true iff an action
	// referencing object name as a parameter fires at some step.
	ActionsThatUsesResource(name string) []symbolic.BoolTerm
	// GoalPredicateVars returns gp[i], the chain of step-indexed booleans
	// for goal (or landmark) predicate i.
	GoalPredicateVars(i int) []symbolic.BoolTerm
	// NumGoalPredicates is the number of tracked goal/landmark predicates.
	NumGoalPredicates() int
	// GoalLastStepVar returns goal predicate i's truth value at the last
	// encoded step (used by the utility features).
	GoalLastStepVar(i int) symbolic.BoolTerm
	// NumericFluentAtLastStep returns the last-step BitVec for a numeric
	// fluent, by its String() key, and whether it exists in this task.
	NumericFluentAtLastStep(name string) (symbolic.BitVec, bool)
	// FluentChain returns the per-action-step chain of booleans for an
	// arbitrary grounded boolean fluent, by its String() key, and whether
	// it is tracked at all. This generalises GoalPredicateVars to the
	// landmark predicates of spec.md §4.2.1 ("goal (or landmark)
	// predicate i"), which need not be members of the task's own goal.
	FluentChain(name string) ([]symbolic.BoolTerm, bool)
	// Convert produces the per-step action/selection literals picking out
	// an externally supplied sequential plan.
	Convert(actions []task.ActionInstance) ([]symbolic.BoolTerm, error)
	// ExtractPlan reads back a sequential plan up to step h.
	ExtractPlan(model *symbolic.Model, h int) *task.Plan
}

// Encoder is the full Plan Encoder contract: Capabilities plus the
// encode(H, options) -> Φ operation.
type Encoder interface {
	Capabilities
	Encode(h int, opts Options) (symbolic.BoolTerm, error)
}

// New builds the Encoder variant named by kind for task t, over a fresh
// symbolic Context.
func New(kind Kind, t *task.Task) (Encoder, error) {
	ctx := symbolic.NewContext()
	switch kind {
	case KindSeq:
		enc, err := newSequential(ctx, t, true)
		if err != nil {
			return nil, err
		}
		return enc, nil
	case KindForall:
		enc, err := newSequential(ctx, t, false)
		if err != nil {
			return nil, err
		}
		return enc, nil
	case KindR2E:
		if t.IsOversubscription() {
			return nil, fmt.Errorf("r2e encoder with oversubscription task: %w", planerr.ErrUnsupportedEncoding)
		}
		enc, err := newRelaxedToExists(ctx, t)
		if err != nil {
			return nil, err
		}
		return enc, nil
	case KindQFUF:
		enc, err := newQFUF(ctx, t)
		if err != nil {
			return nil, err
		}
		return enc, nil
	default:
		return nil, fmt.Errorf("unknown encoder kind %q: %w", kind, planerr.ErrInvalidConfig)
	}
}
