package analysis

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/edp1096/toy-dd/pkg/system"
)

// Sweep ramps the voltage of one contact through a ladder of bias values,
// solving the full system at every step and accumulating the terminal
// current. Non-convergence at any step ends the sweep.
type Sweep struct {
	*BaseAnalysis
	Contact int // boundary region being ramped
	Biases  []float64

	iv       *IVAccumulator
	solution []float64
}

// NewSweep builds a uniform bias ladder from start to stop inclusive.
func NewSweep(sys *system.System, conv Convergence, log *slog.Logger, contact int, start, stop, step, area float64) (*Sweep, error) {
	if step <= 0 {
		return nil, fmt.Errorf("sweep: step must be positive, got %g", step)
	}
	biases := make([]float64, 0)
	for v := start; v <= stop+step/2; v += step {
		biases = append(biases, v)
	}
	if len(biases) == 0 {
		return nil, fmt.Errorf("sweep: empty bias ladder (start %g, stop %g)", start, stop)
	}
	return &Sweep{
		BaseAnalysis: NewBaseAnalysis(sys, conv, log),
		Contact:      contact,
		Biases:       biases,
		iv:           &IVAccumulator{Area: area},
	}, nil
}

// NewScanSweep derives the ladder from a scan rate (V/s) and a time step:
// the bias at step i is scanRate*i*tstep, up to stop.
func NewScanSweep(sys *system.System, conv Convergence, log *slog.Logger, contact int, scanRate, tstep, stop, area float64) (*Sweep, error) {
	if scanRate <= 0 || tstep <= 0 {
		return nil, fmt.Errorf("sweep: scan rate and time step must be positive")
	}
	return NewSweep(sys, conv, log, contact, 0, stop, scanRate*tstep, area)
}

// Execute runs the ramp starting from the converged state u0, typically the
// equilibrium solution. u0 is not modified.
func (s *Sweep) Execute(u0 []float64) error {
	sys := s.System()
	st := sys.Params()

	tf, err := sys.TestFunction(s.Contact)
	if err != nil {
		return fmt.Errorf("sweep: %v", err)
	}

	if len(u0) != sys.NumDOF() {
		return fmt.Errorf("sweep: initial state has %d entries, want %d", len(u0), sys.NumDOF())
	}
	guess := make([]float64, len(u0))
	copy(guess, u0)
	sol := make([]float64, len(u0))
	lastGood := math.NaN()

	for step, v := range s.Biases {
		st.SetContactVoltage(s.Contact, v)

		copy(sol, guess)
		iters, err := s.doNewton(sol)
		if err != nil {
			s.solution = guess
			return &ConvergenceError{
				Stage:    "bias sweep",
				Step:     step,
				Value:    v,
				LastGood: lastGood,
				Err:      err,
			}
		}

		flux := sys.IntegrateFlux(sol, tf)
		s.iv.Add(v, flux, st.Layout.Charge)
		s.log.Debug("bias step converged", "bias", v, "iterations", iters,
			"current", s.iv.Last().Current)

		lastGood = v
		copy(guess, sol)
	}

	s.solution = sol
	return nil
}

// Points returns the accumulated (voltage, |current|) curve.
func (s *Sweep) Points() []IVPoint { return s.iv.Points() }

// Solution returns the state of the last converged bias step.
func (s *Sweep) Solution() []float64 { return s.solution }
