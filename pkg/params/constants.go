package params

import "github.com/edp1096/toy-dd/internal/consts"

// Constants carries the physical constants every kernel call depends on.
// Passed by value so kernels stay pure and can be tested with scaled units.
type Constants struct {
	Q  float64 // Elementary charge (C)
	KB float64 // Boltzmann constant (J/K)
	E0 float64 // Vacuum permittivity (F/m)
}

func DefaultConstants() Constants {
	return Constants{
		Q:  consts.CHARGE,
		KB: consts.BOLTZMANN,
		E0: consts.EPSILON0,
	}
}

// ThermalVoltage returns kB*T/q.
func (c Constants) ThermalVoltage(temp float64) float64 {
	if temp <= 0 {
		temp = consts.REFTEMP
	}
	return c.KB * temp / c.Q
}
