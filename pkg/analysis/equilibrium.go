package analysis

import (
	"log/slog"
	"math"

	"github.com/edp1096/toy-dd/pkg/system"
)

// HomotopySchedule is the fixed coupling ramp {0} followed by 10^-i for
// i = 20..0: 22 strictly increasing values ending at 1.
func HomotopySchedule() []float64 {
	s := make([]float64, 0, 22)
	s = append(s, 0)
	for i := 20; i >= 0; i-- {
		s = append(s, math.Pow(10, -float64(i)))
	}
	return s
}

// Equilibrium ramps the homotopy parameter from a linear Poisson problem to
// the fully coupled zero-bias system, warm-starting every step from the
// previous converged solution.
type Equilibrium struct {
	*BaseAnalysis
	Schedule []float64

	solution []float64
}

func NewEquilibrium(sys *system.System, conv Convergence, log *slog.Logger) *Equilibrium {
	return &Equilibrium{
		BaseAnalysis: NewBaseAnalysis(sys, conv, log),
		Schedule:     HomotopySchedule(),
	}
}

func (eq *Equilibrium) Execute() error {
	sys := eq.System()
	phys := sys.Phys

	guess := sys.InitialGuess()
	sol := make([]float64, len(guess))
	lastGood := math.NaN()

	for step, lambda := range eq.Schedule {
		phys.Lambda = lambda

		copy(sol, guess)
		iters, err := eq.doNewton(sol)
		if err != nil {
			// Retain the last converged state and coupling.
			if !math.IsNaN(lastGood) {
				phys.Lambda = lastGood
				eq.solution = guess
			}
			return &ConvergenceError{
				Stage:    "equilibrium",
				Step:     step,
				Value:    lambda,
				LastGood: lastGood,
				Err:      err,
			}
		}

		eq.log.Debug("homotopy step converged", "lambda", lambda, "iterations", iters)
		lastGood = lambda
		copy(guess, sol)
	}

	eq.solution = sol
	eq.log.Info("equilibrium solved", "steps", len(eq.Schedule))
	return nil
}

// Solution returns the converged zero-bias state, valid after Execute.
func (eq *Equilibrium) Solution() []float64 { return eq.solution }
