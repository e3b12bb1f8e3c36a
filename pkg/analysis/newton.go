package analysis

import (
	"fmt"
	"math"
)

// doNewton runs a damped Newton iteration on u in place and returns the
// iteration count. Convergence is judged on the damped update between
// successive solutions.
func (b *BaseAnalysis) doNewton(u []float64) (int, error) {
	mat := b.sys.Matrix()
	damp := b.conv.Damp0
	if damp <= 0 || damp > 1 {
		damp = 1
	}

	for iter := 0; iter < b.conv.MaxIter; iter++ {
		if err := b.sys.Assemble(u); err != nil {
			return iter, fmt.Errorf("assembly: %v", err)
		}
		if err := mat.Solve(); err != nil {
			return iter, fmt.Errorf("linear solve: %v", err)
		}

		delta := mat.Solution() // 1-based
		converged := true
		for i := range u {
			d := damp * delta[i+1]
			if math.IsNaN(d) || math.IsInf(d, 0) {
				return iter, fmt.Errorf("update is not finite at dof %d", i)
			}
			u[i] += d
			if !b.CheckConverged(d, u[i]) {
				converged = false
			}
		}
		if converged {
			return iter + 1, nil
		}

		damp = math.Min(1, damp*b.conv.DampGrowth)
	}

	return b.conv.MaxIter, fmt.Errorf("failed to converge in %d iterations", b.conv.MaxIter)
}
