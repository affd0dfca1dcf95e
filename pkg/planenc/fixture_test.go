package planenc

import "github.com/gitrdm/bplan/pkg/task"

// onestepTask is the smallest possible classical task: one action that
// flips clear_b to false and on_a_b to true, starting from a state where
// the goal does not yet hold and ending in one where it does.
func onestepTask() *task.Task {
	onAB := task.Fluent{Name: "on", Params: []string{"a", "b"}}
	clearA := task.Fluent{Name: "clear", Params: []string{"a"}}
	clearB := task.Fluent{Name: "clear", Params: []string{"b"}}

	init := task.NewState()
	init.Bool[clearA.String()] = true
	init.Bool[clearB.String()] = true

	stack := task.Action{
		Name:       "stack",
		Parameters: []task.Object{{Name: "a", Type: "block"}, {Name: "b", Type: "block"}},
		Pre:        []task.Fluent{clearA, clearB},
		Add:        []task.Fluent{onAB},
		Del:        []task.Fluent{clearB},
	}

	return &task.Task{
		Name:    "onestep",
		Objects: []task.Object{{Name: "a", Type: "block"}, {Name: "b", Type: "block"}},
		Actions: []task.Action{stack},
		Init:    init,
		Goal:    []task.Fluent{onAB},
		Metric:  task.Metric{Kind: task.MetricPlanLength},
	}
}

// oversubTask offers two independent goal predicates with different
// utilities and no action that can achieve both, forcing a genuine choice.
func oversubTask() *task.Task {
	g1 := task.Fluent{Name: "g1"}
	g2 := task.Fluent{Name: "g2"}

	a1 := task.Action{Name: "do1", Add: []task.Fluent{g1}}
	a2 := task.Action{Name: "do2", Add: []task.Fluent{g2}}

	return &task.Task{
		Name:    "oversub",
		Actions: []task.Action{a1, a2},
		Init:    task.NewState(),
		Goal:    []task.Fluent{g1, g2},
		Metric: task.Metric{
			Kind: task.MetricOversubscription,
			Oversub: []task.GoalUtility{
				{Goal: g1, Utility: 10},
				{Goal: g2, Utility: 5},
			},
		},
	}
}
