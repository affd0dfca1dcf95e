package symbolic

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/crillab/gophersat/bf"

	"github.com/gitrdm/bplan/pkg/planerr"
)

// Backend is the "opaque first-order solver" of spec.md §1, reduced to
// the single operation the symbolic layer needs from it: decide the
// satisfiability of a boolean formula and, if satisfiable, hand back a
// variable assignment. Production code always uses gophersatBackend; tests
// may substitute a fake.
type Backend interface {
	Solve(f bf.Formula) (model map[string]bool, sat bool)
}

// gophersatBackend is the production Backend, delegating straight to
// gophersat's bf package.
type gophersatBackend struct{}

func (gophersatBackend) Solve(f bf.Formula) (map[string]bool, bool) {
	model := bf.Solve(f)
	return model, model != nil
}

// DefaultBackend is the gophersat-backed Backend used whenever a caller
// does not supply one explicitly.
var DefaultBackend Backend = gophersatBackend{}

// Model is a satisfying assignment returned by Solver.Check. It is
// immutable and safe to retain after the Solver that produced it has
// moved on to its next Check call.
type Model struct {
	values map[string]bool
}

// EvalBool reads a BoolTerm's value out of the model.
func (m *Model) EvalBool(t BoolTerm) bool { return t.Eval(m.values) }

// EvalInt reads a BitVec's value out of the model.
func (m *Model) EvalInt(b BitVec) int { return b.Eval(m.values) }

// Solver is the single-owner handle around a Backend described in
// spec.md §5: assertions added via Assert form the permanent context Φ;
// assumptions passed to Check are scoped to that one call and never
// persist, matching the source's own re-derive-every-call discipline
// rather than a push/pop stack.
type Solver struct {
	ctx        *Context
	backend    Backend
	assertions []BoolTerm
}

// NewSolver creates a Solver over ctx using backend. Pass nil for backend
// to use DefaultBackend.
func NewSolver(ctx *Context, backend Backend) *Solver {
	if backend == nil {
		backend = DefaultBackend
	}
	return &Solver{ctx: ctx, backend: backend}
}

// Assert adds permanent assertions to Φ. Must be called before the first
// Check that should observe them; assertions are never retracted except
// by Reset.
func (s *Solver) Assert(terms ...BoolTerm) {
	s.assertions = append(s.assertions, terms...)
}

// Reset drops every permanent assertion, returning the Solver to an empty
// Φ. Callers (Behaviour Space) re-Assert the formula immediately after.
func (s *Solver) Reset() {
	s.assertions = s.assertions[:0]
}

// Check decides satisfiability of Φ ∧ assumptions within the given
// timeout, running the backend solve on a goroutine and racing it against
// a timer — the only suspension point in the whole system (spec.md §5).
// A timeout or backend panic is surfaced as an error distinguishable via
// errors.Is against planerr.ErrSolverExhausted / planerr.ErrSolverException;
// the Iterator treats both identically to unsat.
func (s *Solver) Check(ctx context.Context, assumptions []BoolTerm, timeout time.Duration, memoryLimitMB int) (*Model, error) {
	formula := And(append(append([]BoolTerm{}, s.assertions...), assumptions...)...)

	if memoryLimitMB > 0 {
		prev := debug.SetMemoryLimit(int64(memoryLimitMB) * 1024 * 1024)
		defer debug.SetMemoryLimit(prev)
	}

	type result struct {
		model map[string]bool
		sat   bool
		err   error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %v", planerr.ErrSolverException, r)}
			}
		}()
		model, sat := s.backend.Solve(formula.Formula())
		done <- result{model: model, sat: sat}
	}()

	var timer *time.Timer
	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer = time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", planerr.ErrSolverException, ctx.Err())
	case <-timeoutCh:
		return nil, planerr.ErrSolverExhausted
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		if !r.sat {
			return nil, nil
		}
		return &Model{values: r.model}, nil
	}
}

// IsRecoverable reports whether err is one the Iterator should treat as a
// plain unsat (timeout, memory exhaustion, backend exception) rather than
// propagate.
func IsRecoverable(err error) bool {
	return errors.Is(err, planerr.ErrSolverExhausted) || errors.Is(err, planerr.ErrSolverException)
}
