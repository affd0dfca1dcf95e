package symbolic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crillab/gophersat/bf"

	"github.com/gitrdm/bplan/pkg/planerr"
)

// fakeBackend lets tests drive Solver.Check without depending on gophersat's
// own search, per the Backend seam Solver already exposes for this purpose.
type fakeBackend struct {
	model map[string]bool
	sat   bool
	delay time.Duration
	panic bool
}

func (f fakeBackend) Solve(bf.Formula) (map[string]bool, bool) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.panic {
		panic("boom")
	}
	return f.model, f.sat
}

func TestSolverCheckSat(t *testing.T) {
	ctx := NewContext()
	s := NewSolver(ctx, fakeBackend{model: map[string]bool{"x": true}, sat: true})
	model, err := s.Check(context.Background(), nil, time.Second, 0)
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if model == nil {
		t.Fatal("Check returned nil model for sat backend")
	}
}

func TestSolverCheckUnsat(t *testing.T) {
	ctx := NewContext()
	s := NewSolver(ctx, fakeBackend{sat: false})
	model, err := s.Check(context.Background(), nil, time.Second, 0)
	if err != nil {
		t.Fatalf("Check returned error on unsat: %v", err)
	}
	if model != nil {
		t.Fatal("Check should return nil model on unsat")
	}
}

func TestSolverCheckTimeout(t *testing.T) {
	ctx := NewContext()
	s := NewSolver(ctx, fakeBackend{sat: true, delay: 50 * time.Millisecond})
	_, err := s.Check(context.Background(), nil, time.Millisecond, 0)
	if !errors.Is(err, planerr.ErrSolverExhausted) {
		t.Fatalf("Check error = %v, want ErrSolverExhausted", err)
	}
	if !IsRecoverable(err) {
		t.Error("timeout error should be recoverable")
	}
}

func TestSolverCheckPanicRecovered(t *testing.T) {
	ctx := NewContext()
	s := NewSolver(ctx, fakeBackend{panic: true})
	_, err := s.Check(context.Background(), nil, time.Second, 0)
	if !errors.Is(err, planerr.ErrSolverException) {
		t.Fatalf("Check error = %v, want ErrSolverException", err)
	}
	if !IsRecoverable(err) {
		t.Error("panic error should be recoverable")
	}
}

func TestSolverCheckContextCancelled(t *testing.T) {
	ctx := NewContext()
	s := NewSolver(ctx, fakeBackend{sat: true, delay: 50 * time.Millisecond})
	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Check(cctx, nil, time.Second, 0)
	if err == nil {
		t.Fatal("Check should error on a cancelled context")
	}
}

func TestSolverAssertResetReassert(t *testing.T) {
	ctx := NewContext()
	s := NewSolver(ctx, fakeBackend{sat: true, model: map[string]bool{}})
	s.Assert(ctx.BoolConst(true))
	if len(s.assertions) != 1 {
		t.Fatalf("assertions = %d, want 1", len(s.assertions))
	}
	s.Reset()
	if len(s.assertions) != 0 {
		t.Fatalf("assertions after Reset = %d, want 0", len(s.assertions))
	}
	s.Assert(ctx.BoolConst(true), ctx.BoolConst(true))
	if len(s.assertions) != 2 {
		t.Fatalf("assertions after re-assert = %d, want 2", len(s.assertions))
	}
}

func TestIsRecoverableFalseForOtherErrors(t *testing.T) {
	if IsRecoverable(errors.New("some other failure")) {
		t.Error("an unrelated error should not be recoverable")
	}
}

func TestModelEvalBoolAndInt(t *testing.T) {
	ctx := NewContext()
	m := &Model{values: map[string]bool{"a": true, "b": false}}
	a := BoolTerm{f: bf.Var("a"), eval: func(vals map[string]bool) bool { return vals["a"] }}
	if !m.EvalBool(a) {
		t.Error("EvalBool should read true for a")
	}
	bv := ctx.ConstInt(3, 3)
	if got := m.EvalInt(bv); got != 3 {
		t.Errorf("EvalInt(const 3) = %d, want 3", got)
	}
}
