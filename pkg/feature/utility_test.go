package feature

import (
	"testing"

	"github.com/gitrdm/bplan/pkg/planenc"
	"github.com/gitrdm/bplan/pkg/task"
)

func TestUtilityValueEndToEnd(t *testing.T) {
	tsk := oversubTask()
	enc, phi := buildEncoder(t, tsk, 3, planenc.Options{})

	f := NewUtilityValue(tsk)
	assertions, err := f.Attach(enc)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	model := checkAll(t, enc, phi, assertions, nil)
	if model == nil {
		t.Fatal("an oversubscription task with a satisfiable single goal should be satisfiable")
	}

	reading := f.Discretise(model)
	v, ok := reading.Values["utility"]
	if !ok {
		t.Fatal("Discretise should report a utility entry")
	}
	switch v {
	case "5", "10", "15":
	default:
		t.Errorf("utility = %q, want one of 5, 10, 15 (g2, g1, or both)", v)
	}
}

func TestUtilityValueRejectsGoalOutsideTaskGoalSet(t *testing.T) {
	tsk := oversubTask()
	tsk.Metric.Oversub = append(tsk.Metric.Oversub, task.GoalUtility{Goal: task.Fluent{Name: "g3"}, Utility: 1})
	enc, _ := buildEncoder(t, tsk, 3, planenc.Options{})

	f := NewUtilityValue(tsk)
	if _, err := f.Attach(enc); err == nil {
		t.Error("Attach should error when an oversubscription goal is not in the task's own goal set")
	}
}

func TestUtilitySetEndToEnd(t *testing.T) {
	tsk := oversubTask()
	enc, phi := buildEncoder(t, tsk, 3, planenc.Options{})

	f := NewUtilitySet(tsk)
	assertions, err := f.Attach(enc)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	model := checkAll(t, enc, phi, assertions, nil)
	if model == nil {
		t.Fatal("should be satisfiable")
	}

	reading := f.Discretise(model)
	bits, ok := reading.Values["utility_set"]
	if !ok {
		t.Fatal("Discretise should report a utility_set entry")
	}
	if len(bits) != 2 {
		t.Fatalf("utility_set bitstring length = %d, want 2 (one per goal)", len(bits))
	}
	if bits == "00" {
		t.Error("utility_set should never be all-zero: PbGe(us, 1) forces at least one goal achieved")
	}
}
