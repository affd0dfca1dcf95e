// Package behaviourspace implements the Behaviour Space of spec.md §4.3:
// it owns the encoder, the attached features and the single incremental
// Solver handle, and exposes Check/TestPlan/Reset.
package behaviourspace

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/gitrdm/bplan/pkg/feature"
	"github.com/gitrdm/bplan/pkg/planconfig"
	"github.com/gitrdm/bplan/pkg/planenc"
	"github.com/gitrdm/bplan/pkg/planerr"
	"github.com/gitrdm/bplan/pkg/symbolic"
	"github.com/gitrdm/bplan/pkg/task"
)

// SeedPlanResult is the external optimal planner's answer: a concrete
// plan and its length. Grounding/PDDL parsing and the optimal planner
// itself are out of scope for this module per spec.md §1 — SeedPlanner is
// the collaborator interface a real deployment implements.
type SeedPlanResult struct {
	Actions []task.ActionInstance
	Length  int
}

// SeedPlanner produces the optimal seed plan Behaviour Space construction
// needs to pick a horizon (non-oversubscription tasks only).
type SeedPlanner interface {
	Plan(t *task.Task) (SeedPlanResult, error)
}

// BehaviourValue is the behaviour reading TestPlan returns for an
// externally supplied plan, without materialising a new Plan.
type BehaviourValue struct {
	FeatureValues map[string]string
	BehaviourExpr symbolic.BoolTerm
	BehaviourStr  string
}

// Space is the Behaviour Space: one encoder, its attached features and
// one Solver, serialising every check per spec.md §5.
type Space struct {
	id     uuid.UUID
	logger *log.Logger

	task     *task.Task
	cfg      planconfig.Config
	enc      planenc.Encoder
	solver   *symbolic.Solver
	features []feature.Feature

	permanent []symbolic.BoolTerm

	SeedPlan *task.Plan
}

// New builds a Space for t under cfg, attaching features in order. For
// non-oversubscription tasks it invokes planner once to pick
// H = floor(seed plan length * quality_bound_factor); for oversubscription
// tasks H is cfg.UpperBound directly, per spec.md §4.3.
func New(t *task.Task, cfg planconfig.Config, features []feature.Feature, planner SeedPlanner) (*Space, error) {
	var h int
	var seed SeedPlanResult
	if t.IsOversubscription() {
		h = cfg.UpperBound
	} else {
		if planner == nil {
			return nil, fmt.Errorf("behaviourspace: no SeedPlanner supplied: %w", planerr.ErrNoSeedPlan)
		}
		var err error
		seed, err = planner.Plan(t)
		if err != nil {
			return nil, fmt.Errorf("behaviourspace: seed plan: %v: %w", err, planerr.ErrNoSeedPlan)
		}
		h = int(float64(seed.Length) * cfg.QualityBoundFactor)
		if h < 1 {
			h = 1
		}
	}

	enc, err := planenc.New(planenc.Kind(cfg.Encoder), t)
	if err != nil {
		return nil, err
	}
	phi, err := enc.Encode(h, planenc.Options{
		DisableAfterGoalStateActions: cfg.DisableAfterGoalStateActions,
		HorizonPlanning:              cfg.HorizonPlanning,
	})
	if err != nil {
		return nil, err
	}

	permanent := []symbolic.BoolTerm{phi}
	for _, f := range features {
		assertions, err := f.Attach(enc)
		if err != nil {
			return nil, err
		}
		permanent = append(permanent, assertions...)
	}

	solver := symbolic.NewSolver(enc.Ctx(), nil)
	solver.Assert(permanent...)

	s := &Space{
		id:        uuid.New(),
		logger:    log.New(os.Stderr, "", log.LstdFlags),
		task:      t,
		cfg:       cfg,
		enc:       enc,
		solver:    solver,
		features:  features,
		permanent: permanent,
	}

	if !t.IsOversubscription() && !cfg.IgnoreSeedPlan {
		seedPlan, err := s.materialiseSeedPlan(seed)
		if err != nil {
			s.logger.Printf("[BSS] %s seed plan could not be re-checked: %v", s.id, err)
		} else {
			s.SeedPlan = seedPlan
		}
	}

	s.logger.Printf("[BSS] %s constructed: encoder=%s horizon=%d features=%d", s.id, cfg.Encoder, h, len(features))
	return s, nil
}

func (s *Space) materialiseSeedPlan(seed SeedPlanResult) (*task.Plan, error) {
	lits, err := s.enc.Convert(seed.Actions)
	if err != nil {
		return nil, err
	}
	return s.Check(context.Background(), lits, s.timeout(), s.cfg.SolverMemoryLimitMB)
}

func (s *Space) timeout() time.Duration {
	return time.Duration(s.cfg.SolverTimeoutMS) * time.Millisecond
}

// Check invokes the solver incrementally with assumptions scoped to this
// one call. On sat it extracts and lifts the plan, attaching its
// behaviour expression, behaviour string and selection literals. A
// recovered solver error (exhaustion or exception) is logged and reported
// as a plain "no plan" (nil, nil), matching spec.md §7's propagation
// policy; any other error aborts the caller's job.
func (s *Space) Check(ctx context.Context, assumptions []symbolic.BoolTerm, timeout time.Duration, memLimitMB int) (*task.Plan, error) {
	model, err := s.solver.Check(ctx, assumptions, timeout, memLimitMB)
	if err != nil {
		s.logger.Printf("[BSS] %s check recovered: %v", s.id, err)
		if symbolic.IsRecoverable(err) {
			return nil, nil
		}
		return nil, err
	}
	if model == nil {
		return nil, nil
	}

	h := model.EvalInt(s.enc.HorizonVar())
	plan := s.enc.ExtractPlan(model, h)
	s.attachBehaviour(plan, model)
	s.logger.Printf("[BSS] %s check sat: %d actions horizon=%d", s.id, len(plan.Actions), h)
	return plan, nil
}

// TestPlan converts actions into the encoder's selection literals and
// checks them as assumptions, returning the resulting behaviour reading
// without building a new Plan — used to count behaviours of externally
// supplied plans (spec.md §4.3).
func (s *Space) TestPlan(ctx context.Context, actions []task.ActionInstance) (*BehaviourValue, error) {
	lits, err := s.enc.Convert(actions)
	if err != nil {
		return nil, err
	}
	model, err := s.solver.Check(ctx, lits, s.timeout(), s.cfg.SolverMemoryLimitMB)
	if err != nil {
		s.logger.Printf("[BSS] %s test_plan recovered: %v", s.id, err)
		if symbolic.IsRecoverable(err) {
			return nil, nil
		}
		return nil, err
	}
	if model == nil {
		return nil, nil
	}
	values, expr := s.readFeatures(model)
	return &BehaviourValue{
		FeatureValues: values,
		BehaviourExpr: expr,
		BehaviourStr:  task.CanonicalBehaviourStr(values),
	}, nil
}

// Reset reinstantiates the solver from Φ ∪ features, per spec.md §4.3.
func (s *Space) Reset() {
	s.solver.Reset()
	s.solver.Assert(s.permanent...)
	s.logger.Printf("[BSS] %s reset", s.id)
}

func (s *Space) attachBehaviour(plan *task.Plan, model *symbolic.Model) {
	if len(s.features) == 0 {
		return
	}
	values, expr := s.readFeatures(model)
	plan.FeatureValues = values
	plan.BehaviourExpr = expr
	plan.HasBehaviour = true
	plan.BehaviourStr = task.CanonicalBehaviourStr(values)
}

func (s *Space) readFeatures(model *symbolic.Model) (map[string]string, symbolic.BoolTerm) {
	values := map[string]string{}
	exprs := make([]symbolic.BoolTerm, 0, len(s.features))
	for _, f := range s.features {
		r := f.Discretise(model)
		for k, v := range r.Values {
			values[k] = v
		}
		exprs = append(exprs, f.BehaviourExpr(model))
	}
	return values, symbolic.And(exprs...)
}

// ID returns this Space's session identifier, used in log lines and CLI
// output.
func (s *Space) ID() uuid.UUID { return s.id }
