// Package simcount implements the Simulator Counter of spec.md §4.5: a
// model-free alternative to the Behaviour Space that counts and selects
// among externally supplied plans by simulating them forward through the
// task's transition function, rather than reading a solver model.
package simcount

import (
	"strings"

	"github.com/gitrdm/bplan/pkg/feature"
	"github.com/gitrdm/bplan/pkg/task"
)

// Counter fingerprints plans using a fixed set of feature simulator
// twins.
type Counter struct {
	twins []feature.SimulatorTwin
}

// New builds a Counter over the given simulator twins.
func New(twins []feature.SimulatorTwin) *Counter {
	return &Counter{twins: twins}
}

func (c *Counter) fingerprint(t *task.Task, p *task.Plan) string {
	states := task.Simulate(t, p.Actions)
	parts := make([]string, len(c.twins))
	for i, tw := range c.twins {
		parts[i] = tw.Fingerprint(states, p.Actions)
	}
	return strings.Join(parts, "||")
}

// Count reports the number of distinct simulated behaviour fingerprints
// among plans.
func (c *Counter) Count(t *task.Task, plans []*task.Plan) int {
	seen := map[string]bool{}
	for _, p := range plans {
		seen[c.fingerprint(t, p)] = true
	}
	return len(seen)
}

// SelectK implements select_k(k) of spec.md §4.5: round-robin over
// fingerprint buckets (in first-seen order), popping one plan per bucket
// per round until k plans are chosen or every bucket is empty.
func (c *Counter) SelectK(t *task.Task, plans []*task.Plan, k int) []*task.Plan {
	var order []string
	buckets := map[string][]*task.Plan{}
	for _, p := range plans {
		fp := c.fingerprint(t, p)
		if _, ok := buckets[fp]; !ok {
			order = append(order, fp)
		}
		buckets[fp] = append(buckets[fp], p)
	}

	var out []*task.Plan
	for len(out) < k {
		progressed := false
		for _, fp := range order {
			if len(out) >= k {
				break
			}
			bucket := buckets[fp]
			if len(bucket) == 0 {
				continue
			}
			out = append(out, bucket[0])
			buckets[fp] = bucket[1:]
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return out
}
