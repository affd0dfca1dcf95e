package simcount

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gitrdm/bplan/pkg/feature"
	"github.com/gitrdm/bplan/pkg/task"
)

func blocksworldTask() *task.Task {
	onAB := task.Fluent{Name: "on", Params: []string{"a", "b"}}
	clearA := task.Fluent{Name: "clear", Params: []string{"a"}}
	clearB := task.Fluent{Name: "clear", Params: []string{"b"}}

	init := task.NewState()
	init.Bool[clearA.String()] = true
	init.Bool[clearB.String()] = true

	stack := task.Action{
		Name:       "stack",
		Parameters: []task.Object{{Name: "a"}, {Name: "b"}},
		Pre:        []task.Fluent{clearA, clearB},
		Add:        []task.Fluent{onAB},
		Del:        []task.Fluent{clearB},
	}
	return &task.Task{
		Name:    "blocksworld",
		Objects: []task.Object{{Name: "a"}, {Name: "b"}},
		Actions: []task.Action{stack},
		Init:    init,
		Goal:    []task.Fluent{onAB},
		Metric:  task.Metric{Kind: task.MetricPlanLength},
	}
}

func plan(actions ...task.ActionInstance) *task.Plan {
	return &task.Plan{Actions: actions}
}

func TestCountDistinguishesByFingerprint(t *testing.T) {
	tsk := blocksworldTask()
	stack := tsk.Actions[0]
	c := New([]feature.SimulatorTwin{feature.NewCostTwin()})

	plans := []*task.Plan{
		plan(task.ActionInstance{Action: stack, Step: 0}),
		plan(), // zero-action plan: a distinct cost fingerprint
	}
	assert.Equal(t, 2, c.Count(tsk, plans))
}

func TestCountCollapsesIdenticalFingerprints(t *testing.T) {
	tsk := blocksworldTask()
	stack := tsk.Actions[0]
	c := New([]feature.SimulatorTwin{feature.NewCostTwin()})

	plans := []*task.Plan{
		plan(task.ActionInstance{Action: stack, Step: 0}),
		plan(task.ActionInstance{Action: stack, Step: 0}),
	}
	assert.Equal(t, 1, c.Count(tsk, plans), "both plans have identical cost fingerprints")
}

func TestSelectKRoundRobinsAcrossBuckets(t *testing.T) {
	tsk := blocksworldTask()
	stack := tsk.Actions[0]
	c := New([]feature.SimulatorTwin{feature.NewCostTwin()})

	zero1 := plan()
	zero2 := plan()
	one1 := plan(task.ActionInstance{Action: stack, Step: 0})

	plans := []*task.Plan{zero1, zero2, one1}
	selected := c.SelectK(tsk, plans, 2)
	if assert.Len(t, selected, 2) {
		assert.Same(t, zero1, selected[0], "selected[0] should be the first-seen cost=0 plan")
		assert.Same(t, one1, selected[1], "selected[1] should be the cost=1 plan, drawn on the first round")
	}
}

func TestSelectKStopsWhenBucketsExhausted(t *testing.T) {
	tsk := blocksworldTask()
	c := New([]feature.SimulatorTwin{feature.NewCostTwin()})

	plans := []*task.Plan{plan(), plan()}
	selected := c.SelectK(tsk, plans, 5)
	assert.Len(t, selected, 2, "only 2 plans exist, a single bucket")
}

func TestSelectKZero(t *testing.T) {
	tsk := blocksworldTask()
	c := New([]feature.SimulatorTwin{feature.NewCostTwin()})
	assert.Empty(t, c.SelectK(tsk, []*task.Plan{plan()}, 0))
}
