package analysis

import (
	"errors"
	"fmt"
)

// ErrDiverged marks a ramp step whose nonlinear solve did not converge.
var ErrDiverged = errors.New("analysis: nonlinear solve diverged")

// ConvergenceError reports where a continuation ramp stopped. LastGood is
// the last homotopy or bias value that converged; NaN if none did.
type ConvergenceError struct {
	Stage    string // "equilibrium" or "bias sweep"
	Step     int
	Value    float64 // the value that failed
	LastGood float64
	Err      error
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s step %d at %g failed (last converged %g): %v",
		e.Stage, e.Step, e.Value, e.LastGood, e.Err)
}

func (e *ConvergenceError) Unwrap() error { return ErrDiverged }
