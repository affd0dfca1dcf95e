package planenc

import (
	"github.com/gitrdm/bplan/pkg/symbolic"
	"github.com/gitrdm/bplan/pkg/task"
)

// qfufEncoder is the qfuf variant of spec.md §4.1. See sequentialEncoder's
// qfuf field for how ActVar is modeled without a native uninterpreted
// function theory.
type qfufEncoder struct {
	*sequentialEncoder
}

func newQFUF(ctx *symbolic.Context, t *task.Task) (*qfufEncoder, error) {
	inner, err := newSequential(ctx, t, false)
	if err != nil {
		return nil, err
	}
	inner.qfuf = true
	return &qfufEncoder{sequentialEncoder: inner}, nil
}
