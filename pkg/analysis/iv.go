package analysis

import "math"

type IVPoint struct {
	Voltage float64
	Current float64 // A, magnitude
}

// IVAccumulator turns per-carrier terminal fluxes into an append-only IV
// curve ordered by ramp step.
type IVAccumulator struct {
	Area   float64 // device cross section, m^2
	points []IVPoint
}

// Add combines the carrier entries of a per-species flux vector into the
// net terminal current, scales by the cross-sectional area and appends the
// point. The flux entries follow the residual sign convention, so each one
// is weighted by its carrier's charge number.
func (a *IVAccumulator) Add(voltage float64, flux []float64, charge []int) {
	total := 0.0
	for c, z := range charge {
		total += float64(z) * flux[c]
	}
	a.points = append(a.points, IVPoint{
		Voltage: voltage,
		Current: math.Abs(total) * a.Area,
	})
}

func (a *IVAccumulator) Points() []IVPoint { return a.points }

func (a *IVAccumulator) Last() IVPoint {
	if len(a.points) == 0 {
		return IVPoint{}
	}
	return a.points[len(a.points)-1]
}
