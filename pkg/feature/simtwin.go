package feature

import (
	"strconv"
	"strings"

	"github.com/gitrdm/bplan/pkg/task"
)

// SimulatorTwin mirrors one Feature for the Simulator Counter of spec.md
// §4.5: given a concrete state trace (and the action sequence that
// produced it) rather than a solver Model, it yields the same kind of
// string fingerprint Feature.Discretise would, without ever touching
// pkg/symbolic.
type SimulatorTwin interface {
	Name() string
	Fingerprint(states []task.State, actions []task.ActionInstance) string
}

// goalOrderingTwin mirrors orderingFeature: for each tracked predicate it
// finds the first state index at which the predicate holds (matching the
// fluentStep = step+1 convention sg_i uses), or "never".
type goalOrderingTwin struct {
	preds []string // fluent String() keys, in the Feature's own order
}

// NewGoalOrderingTwin builds the simulator twin for either ordering
// feature variant, tracking the same predicate keys.
func NewGoalOrderingTwin(predKeys []string) SimulatorTwin {
	return &goalOrderingTwin{preds: predKeys}
}

func (t *goalOrderingTwin) Name() string { return "goal_predicate_ordering" }

func (t *goalOrderingTwin) Fingerprint(states []task.State, _ []task.ActionInstance) string {
	parts := make([]string, len(t.preds))
	for i, key := range t.preds {
		sg := "never"
		for k := 1; k < len(states); k++ {
			if states[k].Bool[key] {
				sg = strconv.Itoa(k)
				break
			}
		}
		parts[i] = "sg_" + key + "=" + sg
	}
	return strings.Join(parts, "|")
}

// costTwin mirrors costBoundFeature: the makespan is simply the number of
// actions actually applied.
type costTwin struct{}

// NewCostTwin builds the cost-bound simulator twin.
func NewCostTwin() SimulatorTwin { return costTwin{} }

func (costTwin) Name() string { return "cost_bound_makespan_optimal" }

func (costTwin) Fingerprint(states []task.State, _ []task.ActionInstance) string {
	return "cost=" + strconv.Itoa(len(states)-1)
}

// resourceTwin mirrors resourceCountFeature: a resource is "used" if any
// action in the sequence references it as a grounded parameter.
type resourceTwin struct {
	names []string
}

// NewResourceTwin builds the resource-count simulator twin.
func NewResourceTwin(names []string) SimulatorTwin { return &resourceTwin{names: names} }

func (t *resourceTwin) Name() string { return "resource_count" }

func (t *resourceTwin) Fingerprint(_ []task.State, actions []task.ActionInstance) string {
	count := 0
	for _, name := range t.names {
		used := false
		for _, ai := range actions {
			if ai.Action.UsesObject(name) {
				used = true
				break
			}
		}
		if used {
			count++
		}
	}
	return "resource_count=" + strconv.Itoa(count)
}

// utilityTwin mirrors both utilityValueFeature and utilitySetFeature,
// reading final-state goal achievement off the last simulated state.
type utilityTwin struct {
	goals []task.GoalUtility
	asSet bool
}

// NewUtilityValueTwin builds the utility-value simulator twin.
func NewUtilityValueTwin(goals []task.GoalUtility) SimulatorTwin {
	return &utilityTwin{goals: goals}
}

// NewUtilitySetTwin builds the utility-set simulator twin.
func NewUtilitySetTwin(goals []task.GoalUtility) SimulatorTwin {
	return &utilityTwin{goals: goals, asSet: true}
}

func (t *utilityTwin) Name() string {
	if t.asSet {
		return "utility_set"
	}
	return "utility_value"
}

func (t *utilityTwin) Fingerprint(states []task.State, _ []task.ActionInstance) string {
	if len(states) == 0 {
		return t.Name() + "=0"
	}
	final := states[len(states)-1]
	if t.asSet {
		bits := make([]byte, len(t.goals))
		for i, gu := range t.goals {
			if final.Bool[gu.Goal.String()] {
				bits[i] = '1'
			} else {
				bits[i] = '0'
			}
		}
		return "utility_set=" + string(bits)
	}
	sum := 0
	for _, gu := range t.goals {
		if final.Bool[gu.Goal.String()] {
			sum += gu.Utility
		}
	}
	return "utility=" + strconv.Itoa(sum)
}

// functionBoxTwin mirrors functionBoxFeature, partitioning the final
// state's numeric reading the same way Attach partitions z.
type functionBoxTwin struct {
	specs []FunctionSpec
}

// NewFunctionBoxTwin builds the function-box simulator twin.
func NewFunctionBoxTwin(specs []FunctionSpec) SimulatorTwin {
	return &functionBoxTwin{specs: specs}
}

func (t *functionBoxTwin) Name() string { return "functions" }

func (t *functionBoxTwin) Fingerprint(states []task.State, _ []task.ActionInstance) string {
	if len(states) == 0 {
		return "functions="
	}
	final := states[len(states)-1]
	parts := make([]string, len(t.specs))
	for i, spec := range t.specs {
		z := int(final.Numeric[spec.Key])
		box := 0
		if spec.Delta > 0 {
			box = (z - spec.Min) / spec.Delta
		}
		if box >= spec.numBoxes() {
			box = spec.numBoxes() - 1
		}
		if box < 0 {
			box = 0
		}
		parts[i] = "box_" + spec.Name + "=" + strconv.Itoa(box)
	}
	return strings.Join(parts, "|")
}
