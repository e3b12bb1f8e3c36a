package params

import "fmt"

// Store holds the material data of a layered device: per-region and
// per-boundary-region parameters indexed by region and carrier. It is
// read-only during assembly. Contact voltages are the one exception and may
// be changed between solves through SetContactVoltage.
type Store struct {
	Layout Layout
	Const  Constants

	NumRegions         int
	NumBoundaryRegions int

	Temperature float64 // K

	// Region x carrier
	DensityOfStates [][]float64 // 1/m^3
	BandEdgeEnergy  [][]float64 // J
	Mobility        [][]float64 // m^2/(V s)
	Doping          [][]float64 // 1/m^3, signed per carrier convention
	SRHLifetime     [][]float64
	SRHTrapDensity  [][]float64
	Auger           [][]float64

	// Region
	DielectricConstant []float64 // relative
	Radiative          []float64
	IntrinsicDoping    []float64 // 1/m^3

	// Boundary region x carrier
	BDensityOfStates [][]float64
	BBandEdgeEnergy  [][]float64
	BDoping          [][]float64

	// PenaltyReference is 1/alpha of the contact penalty method.
	PenaltyReference float64

	contactVoltage []float64
}

// UT returns the thermal voltage at the store temperature.
func (s *Store) UT() float64 {
	return s.Const.ThermalVoltage(s.Temperature)
}

func (s *Store) ContactVoltage(breg int) float64 {
	return s.contactVoltage[breg]
}

func (s *Store) SetContactVoltage(breg int, v float64) {
	s.contactVoltage[breg] = v
}

// Validate checks array shapes and sign constraints. The builder calls it on
// Build; callers constructing a Store by hand can use it directly.
func (s *Store) Validate() error {
	nc := s.Layout.NumCarriers
	if nc < 1 {
		return fmt.Errorf("params: no carriers configured")
	}
	if s.NumRegions < 1 {
		return fmt.Errorf("params: no regions configured")
	}
	if s.NumBoundaryRegions < 1 {
		return fmt.Errorf("params: no boundary regions configured")
	}
	if s.Temperature <= 0 {
		return fmt.Errorf("params: temperature must be positive, got %g", s.Temperature)
	}
	if s.PenaltyReference <= 0 {
		return fmt.Errorf("params: penalty reference must be positive, got %g", s.PenaltyReference)
	}

	regionCarrier := map[string][][]float64{
		"density of states": s.DensityOfStates,
		"band edge energy":  s.BandEdgeEnergy,
		"mobility":          s.Mobility,
		"doping":            s.Doping,
		"srh lifetime":      s.SRHLifetime,
		"srh trap density":  s.SRHTrapDensity,
		"auger coefficient": s.Auger,
	}
	for name, arr := range regionCarrier {
		if err := checkShape(name, arr, s.NumRegions, nc); err != nil {
			return err
		}
	}

	region := map[string][]float64{
		"dielectric constant":   s.DielectricConstant,
		"radiative coefficient": s.Radiative,
		"intrinsic doping":      s.IntrinsicDoping,
	}
	for name, arr := range region {
		if len(arr) != s.NumRegions {
			return fmt.Errorf("params: %s has %d regions, want %d", name, len(arr), s.NumRegions)
		}
	}

	boundaryCarrier := map[string][][]float64{
		"boundary density of states": s.BDensityOfStates,
		"boundary band edge energy":  s.BBandEdgeEnergy,
		"boundary doping":            s.BDoping,
	}
	for name, arr := range boundaryCarrier {
		if err := checkShape(name, arr, s.NumBoundaryRegions, nc); err != nil {
			return err
		}
	}
	if len(s.contactVoltage) != s.NumBoundaryRegions {
		return fmt.Errorf("params: %d contact voltages, want %d", len(s.contactVoltage), s.NumBoundaryRegions)
	}

	for r := 0; r < s.NumRegions; r++ {
		if s.DielectricConstant[r] <= 0 {
			return fmt.Errorf("params: region %d: dielectric constant %g must be positive", r, s.DielectricConstant[r])
		}
		for c := 0; c < nc; c++ {
			if s.DensityOfStates[r][c] < 0 {
				return fmt.Errorf("params: region %d carrier %d: negative density of states %g", r, c, s.DensityOfStates[r][c])
			}
			if s.Mobility[r][c] < 0 {
				return fmt.Errorf("params: region %d carrier %d: negative mobility %g", r, c, s.Mobility[r][c])
			}
		}
	}
	for b := 0; b < s.NumBoundaryRegions; b++ {
		for c := 0; c < nc; c++ {
			if s.BDensityOfStates[b][c] <= 0 {
				return fmt.Errorf("params: boundary region %d carrier %d: density of states %g must be positive", b, c, s.BDensityOfStates[b][c])
			}
		}
	}

	return nil
}

func checkShape(name string, arr [][]float64, rows, cols int) error {
	if len(arr) != rows {
		return fmt.Errorf("params: %s has %d rows, want %d", name, len(arr), rows)
	}
	for r := range arr {
		if len(arr[r]) != cols {
			return fmt.Errorf("params: %s row %d has %d carriers, want %d", name, r, len(arr[r]), cols)
		}
	}
	return nil
}
