package planenc

import (
	"github.com/gitrdm/bplan/pkg/symbolic"
	"github.com/gitrdm/bplan/pkg/task"
)

// relaxedToExistsEncoder is the r2e variant of spec.md §4.1: it reuses the
// sequentialEncoder's step structure but relaxes the frame axiom to ignore
// delete effects, turning every fluent into a monotonic achievement chain.
// A fluent's "chain variables" (goal_predicates_vars) are then simply its
// per-step boolean terms, already monotonic by construction. Oversubscription
// is rejected at construction time (New), per spec.md's resolved open
// question.
type relaxedToExistsEncoder struct {
	*sequentialEncoder
}

func newRelaxedToExists(ctx *symbolic.Context, t *task.Task) (*relaxedToExistsEncoder, error) {
	inner, err := newSequential(ctx, t, true)
	if err != nil {
		return nil, err
	}
	inner.relaxed = true
	return &relaxedToExistsEncoder{sequentialEncoder: inner}, nil
}
