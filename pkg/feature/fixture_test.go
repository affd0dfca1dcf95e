package feature

import (
	"context"
	"testing"
	"time"

	"github.com/gitrdm/bplan/pkg/planenc"
	"github.com/gitrdm/bplan/pkg/symbolic"
	"github.com/gitrdm/bplan/pkg/task"
)

// stackTowerTask is spec.md §8's blocksworld scenario: stack b on c, then
// a on b (stack_a_b deletes clear(b), which stack_b_c needs), so on(b,c)
// is achieved strictly before on(a,b).
func stackTowerTask() *task.Task {
	onAB := task.Fluent{Name: "on", Params: []string{"a", "b"}}
	onBC := task.Fluent{Name: "on", Params: []string{"b", "c"}}
	clearA := task.Fluent{Name: "clear", Params: []string{"a"}}
	clearB := task.Fluent{Name: "clear", Params: []string{"b"}}
	clearC := task.Fluent{Name: "clear", Params: []string{"c"}}

	init := task.NewState()
	init.Bool[clearA.String()] = true
	init.Bool[clearB.String()] = true
	init.Bool[clearC.String()] = true

	stackAB := task.Action{
		Name:       "stack_a_b",
		Parameters: []task.Object{{Name: "a"}, {Name: "b"}},
		Pre:        []task.Fluent{clearA, clearB},
		Add:        []task.Fluent{onAB},
		Del:        []task.Fluent{clearB},
	}
	stackBC := task.Action{
		Name:       "stack_b_c",
		Parameters: []task.Object{{Name: "b"}, {Name: "c"}},
		Pre:        []task.Fluent{clearB, clearC},
		Add:        []task.Fluent{onBC},
		Del:        []task.Fluent{clearC},
	}

	return &task.Task{
		Name:    "stack_tower",
		Objects: []task.Object{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		Actions: []task.Action{stackAB, stackBC},
		Init:    init,
		Goal:    []task.Fluent{onAB, onBC},
		Metric:  task.Metric{Kind: task.MetricPlanLength},
	}
}

// oversubTask offers two independent goal predicates with different
// utilities, achievable by two independent actions, so a behaviour-space
// search has a genuine oversubscription choice to make.
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

func buildEncoder(t *testing.T, tsk *task.Task, h int, opts planenc.Options) (planenc.Encoder, symbolic.BoolTerm) {
	t.Helper()
	enc, err := planenc.New(planenc.KindSeq, tsk)
	if err != nil {
		t.Fatalf("planenc.New: %v", err)
	}
	phi, err := enc.Encode(h, opts)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return enc, phi
}

func checkAll(t *testing.T, enc planenc.Encoder, phi symbolic.BoolTerm, extra []symbolic.BoolTerm, assumptions []symbolic.BoolTerm) *symbolic.Model {
	t.Helper()
	s := symbolic.NewSolver(enc.Ctx(), nil)
	s.Assert(phi)
	s.Assert(extra...)
	model, err := s.Check(context.Background(), assumptions, 5*time.Second, 0)
	if err != nil {
		t.Fatalf("solver check failed: %v", err)
	}
	return model
}
