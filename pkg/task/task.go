// Package task holds the grounded planning task data model: the immutable
// input the Behaviour Space core receives once PDDL parsing, grounding and
// preprocessing (out of scope for this module, per spec.md §1) have run.
package task

// Object is a grounded domain object of a given type.
type Object struct {
	Name string
	Type string
}

func (o Object) String() string { return o.Name }

// Fluent is a grounded proposition or numeric function application, e.g.
// on(a,b) or energy(rover0). Parameters are object names.
type Fluent struct {
	Name   string
	Params []string
}

// String renders the fluent the way the source renders grounded
// predicates, e.g. "on_a_b".
func (f Fluent) String() string {
	s := f.Name
	for _, p := range f.Params {
		s += "_" + p
	}
	return s
}

// NumericEffect assigns, increases or decreases a numeric fluent.
type NumericEffectKind int

const (
	NumAssign NumericEffectKind = iota
	NumIncrease
	NumDecrease
)

// NumericEffect is a single numeric side effect of a grounded action.
type NumericEffect struct {
	Fluent Fluent
	Kind   NumericEffectKind
	Value  float64
}

// Action is a grounded action: preconditions, add/delete effects and
// optional numeric effects. Parameters are the objects this action was
// grounded with, in declaration order — the Resource-Set feature scans
// these to find actions referencing a given object.
type Action struct {
	Name       string
	Parameters []Object
	Pre        []Fluent
	PreNeg     []Fluent // negative preconditions
	Add        []Fluent
	Del        []Fluent
	Numeric    []NumericEffect
}

// UsesObject reports whether name appears among this action's grounded
// parameters.
func (a Action) UsesObject(name string) bool {
	for _, p := range a.Parameters {
		if p.Name == name {
			return true
		}
	}
	return false
}

// String renders e.g. "move(rover0,waypoint1,waypoint2)".
func (a Action) String() string {
	s := a.Name + "("
	for i, p := range a.Parameters {
		if i > 0 {
			s += ","
		}
		s += p.Name
	}
	return s + ")"
}

// MetricKind enumerates the at-most-one quality metric the core honours;
// every other metric kind the grounded task might carry is ignored.
type MetricKind int

const (
	MetricNone MetricKind = iota
	MetricOversubscription
	MetricMakespanOptimal
	MetricPlanLength
)

// GoalUtility is one (goal predicate, utility) pair of an oversubscription
// metric.
type GoalUtility struct {
	Goal    Fluent
	Utility int
}

// Metric is the grounded task's single recognised quality metric.
type Metric struct {
	Kind          MetricKind
	Oversub       []GoalUtility // only populated when Kind == MetricOversubscription
}

// State is a full assignment to every fluent: booleans for propositions,
// floats for numeric fluents (by convention, a numeric fluent's boolean
// reading is "defined", so State stores both maps).
type State struct {
	Bool    map[string]bool
	Numeric map[string]float64
}

// NewState builds an empty state.
func NewState() State {
	return State{Bool: map[string]bool{}, Numeric: map[string]float64{}}
}

// Clone returns a deep copy, used by the Simulator Counter to fork states
// across a plan trace without aliasing.
func (s State) Clone() State {
	out := NewState()
	for k, v := range s.Bool {
		out.Bool[k] = v
	}
	for k, v := range s.Numeric {
		out.Numeric[k] = v
	}
	return out
}

// Satisfies reports whether every positive fluent in pos holds and every
// fluent in neg does not.
func (s State) Satisfies(pos, neg []Fluent) bool {
	for _, f := range pos {
		if !s.Bool[f.String()] {
			return false
		}
	}
	for _, f := range neg {
		if s.Bool[f.String()] {
			return false
		}
	}
	return true
}

// Task is the grounded planning task: objects, grounded actions, initial
// state, goal conditions and at most one quality metric. Immutable once
// built; every component (encoder, features, iterator) only ever reads it.
type Task struct {
	Name    string
	Objects []Object
	Actions []Action
	Init    State
	Goal    []Fluent // conjunctive goal condition (classical) or the
	// union of oversubscription goal predicates (see Metric.Oversub)
	Metric Metric
}

// Object looks up a grounded object by name.
func (t *Task) Object(name string) (Object, bool) {
	for _, o := range t.Objects {
		if o.Name == name {
			return o, true
		}
	}
	return Object{}, false
}

// IsOversubscription reports whether this task's metric is
// Oversubscription — several encoders and features branch on this.
func (t *Task) IsOversubscription() bool {
	return t.Metric.Kind == MetricOversubscription
}
