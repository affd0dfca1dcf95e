// Package planerr defines the error taxonomy shared across the planner core.
//
// Errors that must abort a job (configuration and unsupported-task errors)
// are exported sentinels meant to be wrapped with context via fmt.Errorf's
// %w verb and compared with errors.Is. Errors that the Forbidden-Behaviour
// Iterator recovers from locally (solver exhaustion, solver exceptions) are
// exported only so symbolic.Solver can produce them and IsRecoverable can
// name them; callers outside the iterator never see them propagate, only a
// nil plan and a log line.
package planerr

import "errors"

var (
	// ErrUnsupportedEncoding is returned when a (task, encoder variant) pair
	// cannot be encoded, e.g. the r2e encoder asked to handle oversubscription.
	ErrUnsupportedEncoding = errors.New("planerr: unsupported encoding")

	// ErrNoSeedPlan is returned when the external optimal planner collaborator
	// fails to produce a seed plan during Behaviour Space initialisation.
	ErrNoSeedPlan = errors.New("planerr: no seed plan")

	// ErrSpecParse is returned when a resource or function DSL file is malformed.
	ErrSpecParse = errors.New("planerr: spec parse error")

	// ErrInvalidPlan is returned by post-hoc plan validation, when enabled.
	ErrInvalidPlan = errors.New("planerr: invalid plan")

	// ErrInvalidConfig is returned for configuration errors detected before
	// a job starts (unknown encoder/feature kind, out-of-range options).
	ErrInvalidConfig = errors.New("planerr: invalid configuration")
)

// ErrSolverExhausted marks a check that ran out of time or memory budget.
// The Iterator treats it identically to unsat: it is never returned to a
// caller, only logged.
var ErrSolverExhausted = errors.New("planerr: solver exhausted (timeout or memory limit)")

// ErrSolverException marks a backend failure unrelated to the formula's
// satisfiability (e.g. a panic recovered from the SAT backend).
var ErrSolverException = errors.New("planerr: solver exception")
