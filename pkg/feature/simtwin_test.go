package feature

import (
	"testing"

	"github.com/gitrdm/bplan/pkg/task"
)

func TestGoalOrderingTwinFingerprint(t *testing.T) {
	twin := NewGoalOrderingTwin([]string{"on_a_b", "on_b_c"})

	states := []task.State{
		{Bool: map[string]bool{}},
		{Bool: map[string]bool{"on_a_b": true}},
		{Bool: map[string]bool{"on_a_b": true, "on_b_c": true}},
	}
	fp := twin.Fingerprint(states, nil)
	want := "sg_on_a_b=1|sg_on_b_c=2"
	if fp != want {
		t.Errorf("Fingerprint = %q, want %q", fp, want)
	}
}

func TestGoalOrderingTwinNeverAchieved(t *testing.T) {
	twin := NewGoalOrderingTwin([]string{"never_true"})
	states := []task.State{{Bool: map[string]bool{}}, {Bool: map[string]bool{}}}
	if got := twin.Fingerprint(states, nil); got != "sg_never_true=never" {
		t.Errorf("Fingerprint = %q, want sg_never_true=never", got)
	}
}

func TestCostTwinFingerprint(t *testing.T) {
	twin := NewCostTwin()
	states := make([]task.State, 4) // init + 3 actions
	if got := twin.Fingerprint(states, nil); got != "cost=3" {
		t.Errorf("Fingerprint = %q, want cost=3", got)
	}
}

func TestResourceTwinFingerprint(t *testing.T) {
	twin := NewResourceTwin([]string{"a", "b", "c"})
	actions := []task.ActionInstance{
		{Action: task.Action{Parameters: []task.Object{{Name: "a"}, {Name: "b"}}}},
	}
	if got := twin.Fingerprint(nil, actions); got != "resource_count=2" {
		t.Errorf("Fingerprint = %q, want resource_count=2", got)
	}
}

func TestUtilityValueTwinFingerprint(t *testing.T) {
	goals := []task.GoalUtility{
		{Goal: task.Fluent{Name: "g1"}, Utility: 10},
		{Goal: task.Fluent{Name: "g2"}, Utility: 5},
	}
	twin := NewUtilityValueTwin(goals)
	states := []task.State{{Bool: map[string]bool{"g1": true, "g2": false}}}
	if got := twin.Fingerprint(states, nil); got != "utility=10" {
		t.Errorf("Fingerprint = %q, want utility=10", got)
	}
}

func TestUtilitySetTwinFingerprint(t *testing.T) {
	goals := []task.GoalUtility{
		{Goal: task.Fluent{Name: "g1"}, Utility: 10},
		{Goal: task.Fluent{Name: "g2"}, Utility: 5},
	}
	twin := NewUtilitySetTwin(goals)
	states := []task.State{{Bool: map[string]bool{"g1": true, "g2": false}}}
	if got := twin.Fingerprint(states, nil); got != "utility_set=10" {
		t.Errorf("Fingerprint = %q, want utility_set=10", got)
	}
}

func TestFunctionBoxTwinFingerprint(t *testing.T) {
	twin := NewFunctionBoxTwin([]FunctionSpec{{Name: "energy", Key: "energy_rover0", Min: 0, Max: 20, Delta: 5}})
	states := []task.State{{Numeric: map[string]float64{"energy_rover0": 12}}}
	if got := twin.Fingerprint(states, nil); got != "box_energy=2" {
		t.Errorf("Fingerprint = %q, want box_energy=2", got)
	}
}

func TestFunctionBoxTwinEmptyStates(t *testing.T) {
	twin := NewFunctionBoxTwin([]FunctionSpec{{Name: "energy", Min: 0, Max: 20, Delta: 5}})
	if got := twin.Fingerprint(nil, nil); got != "functions=" {
		t.Errorf("Fingerprint = %q, want \"functions=\"", got)
	}
}
