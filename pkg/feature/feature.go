// Package feature implements the Feature Library of spec.md §4.2: a tagged
// variant set of behaviour-discriminating features (Design Notes' "dynamic
// dispatch over feature kinds ... represent features as a tagged variant
// with per-variant attach/behaviour_expr/discretise implementations").
//
// A Feature never outlives the planenc.Capabilities it was Attach-ed to.
// Attach cannot mutate the encoder's Φ directly — Capabilities is
// deliberately read-only (see planenc's Design Notes comment) — so it
// returns the assertions it needs; the caller (behaviourspace.Space) is
// responsible for asserting them into its Solver before the first Check.
package feature

import (
	"sort"
	"strings"
	"sync"

	"github.com/gitrdm/bplan/pkg/planenc"
	"github.com/gitrdm/bplan/pkg/symbolic"
)

// Feature is the shared contract of spec.md §4.2's three operations, plus
// a Name identifying the feature and a Domain used to satisfy testable
// invariant 3 ("F.discretise(m) is a member of F.domain after the call").
// A Plan's FeatureValues map is keyed by the keys of each Reading, not by
// Name.
type Feature interface {
	// Name identifies this feature instance, e.g. "goal_predicate_ordering"
	// or "resource_count".
	Name() string
	// Attach appends this feature's assertions against enc, returning them
	// for the caller to Assert into the permanent Φ.
	Attach(enc planenc.Capabilities) ([]symbolic.BoolTerm, error)
	// BehaviourExpr returns the conjunction of equalities pinning this
	// feature's output variables to their values in m — the clause the
	// Iterator negates to forbid repeating this exact behaviour.
	BehaviourExpr(m *symbolic.Model) symbolic.BoolTerm
	// Discretise reads m into this feature's canonical small
	// representation, recording it as a side effect in Domain().
	Discretise(m *symbolic.Model) Reading
	// Domain is the growing set of distinct readings this feature has ever
	// produced.
	Domain() *DomainSet
}

// Reading is one feature's canonical discretised value: zero or more named
// sub-readings (an ordering feature emits one sg_<name> entry per tracked
// predicate; the function-box feature one box_<name> entry per function;
// the others one entry each, keyed "cost", "resource_count", "utility" or
// "utility_set"). Plan.FeatureValues is the union of every attached
// feature's Reading.Values.
type Reading struct {
	Values map[string]string
}

// key renders a Reading canonically for domain-membership bookkeeping:
// sorted sub-keys, "name=value" pairs joined by "|".
func (r Reading) key() string {
	names := make([]string, 0, len(r.Values))
	for n := range r.Values {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + "=" + r.Values[n]
	}
	return strings.Join(parts, "|")
}

// DomainSet is a feature's set of observed Reading values, grown by
// Discretise and safe for concurrent use (a Behaviour Space's solver calls
// are serialised, but nothing stops a caller from inspecting Domain from
// another goroutine between calls).
type DomainSet struct {
	mu   sync.Mutex
	seen map[string]Reading
}

// NewDomainSet builds an empty DomainSet.
func NewDomainSet() *DomainSet {
	return &DomainSet{seen: map[string]Reading{}}
}

// Add records r as a member of the domain.
func (d *DomainSet) Add(r Reading) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen[r.key()] = r
}

// Contains reports whether r has already been recorded.
func (d *DomainSet) Contains(r Reading) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.seen[r.key()]
	return ok
}

// Len reports the number of distinct readings observed so far.
func (d *DomainSet) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// sanitize turns a fluent/resource name into a valid bf.Var identifier
// fragment by collapsing characters a Context.FreshName-derived name
// should not contain.
func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
