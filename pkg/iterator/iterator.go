// Package iterator implements the Forbidden-Behaviour Iterator of
// spec.md §4.4: a strictly sequential two-phase search over a single
// Behaviour Space, accumulating up to k plans.
package iterator

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gitrdm/bplan/pkg/behaviourspace"
	"github.com/gitrdm/bplan/pkg/planconfig"
	"github.com/gitrdm/bplan/pkg/symbolic"
	"github.com/gitrdm/bplan/pkg/task"
)

// Iterator drives one Behaviour Space through the two-phase algorithm.
// Every Check call is sequential — there is no cross-call parallelism,
// per spec.md §5.
type Iterator struct {
	space  *behaviourspace.Space
	cfg    planconfig.Config
	logger *log.Logger
}

// New builds an Iterator over space, configured by cfg's behaviours_only
// flag and solver limits; ignore_seed_plan takes effect earlier, in
// behaviourspace.New.
func New(space *behaviourspace.Space, cfg planconfig.Config) *Iterator {
	return &Iterator{space: space, cfg: cfg, logger: log.New(os.Stderr, "", log.LstdFlags)}
}

// Run accumulates up to k plans, returning the plans found so far even on
// partial success (fewer than k), per spec.md §7's user-visible-behaviour
// policy. k == 0 returns immediately, doing no solver work, satisfying
// spec.md §8's first boundary scenario.
func (it *Iterator) Run(ctx context.Context, k int) ([]*task.Plan, error) {
	if k <= 0 {
		return nil, nil
	}

	var plans []*task.Plan
	seen := map[string]bool{}
	add := func(p *task.Plan) {
		plans = append(plans, p)
		seen[p.ActionKey()] = true
	}

	if it.space.SeedPlan != nil && !seen[it.space.SeedPlan.ActionKey()] {
		add(it.space.SeedPlan)
	}
	if len(plans) >= k {
		return plans, nil
	}

	timeout := time.Duration(it.cfg.SolverTimeoutMS) * time.Millisecond
	memLimit := it.cfg.SolverMemoryLimitMB

	// Phase 1: forbid every seen behaviour vector.
	for {
		var behaviours []symbolic.BoolTerm
		for _, p := range plans {
			if p.HasBehaviour {
				behaviours = append(behaviours, p.BehaviourExpr)
			}
		}
		var assumptions []symbolic.BoolTerm
		if len(behaviours) > 0 {
			assumptions = []symbolic.BoolTerm{symbolic.Not(symbolic.Or(behaviours...))}
		}
		p, err := it.space.Check(ctx, assumptions, timeout, memLimit)
		if err != nil {
			return plans, err
		}
		if p == nil {
			it.logger.Printf("[ITER] phase 1 exhausted with %d plans", len(plans))
			break
		}
		if seen[p.ActionKey()] {
			// A model with a behaviour vector already forbidden should
			// never satisfy the assumption; treat a duplicate as
			// exhaustion rather than loop forever.
			break
		}
		add(p)
		if len(plans) >= k {
			return plans, nil
		}
	}

	if it.cfg.BehavioursOnly {
		return plans, nil
	}

	// Phase 2: stay within already-seen behaviours, forbid seen plans.
	for {
		var behaviours []symbolic.BoolTerm
		var sequences []symbolic.BoolTerm
		for _, p := range plans {
			if p.HasBehaviour {
				behaviours = append(behaviours, p.BehaviourExpr)
			}
			if len(p.Literals) > 0 {
				sequences = append(sequences, symbolic.And(p.Literals...))
			}
		}
		var assumptions []symbolic.BoolTerm
		if len(behaviours) > 0 {
			assumptions = append(assumptions, symbolic.Or(behaviours...))
		}
		if len(sequences) > 0 {
			assumptions = append(assumptions, symbolic.Not(symbolic.Or(sequences...)))
		}
		p, err := it.space.Check(ctx, assumptions, timeout, memLimit)
		if err != nil {
			return plans, err
		}
		if p == nil {
			it.logger.Printf("[ITER] phase 2 exhausted with %d plans", len(plans))
			break
		}
		if seen[p.ActionKey()] {
			break
		}
		add(p)
		if len(plans) >= k {
			return plans, nil
		}
	}

	return plans, nil
}
