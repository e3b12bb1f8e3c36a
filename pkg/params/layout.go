package params

import "fmt"

// Layout fixes the unknown ordering of the coupled system: one quasi-Fermi
// potential per charge carrier first, the electrostatic potential always last.
type Layout struct {
	NumCarriers int
	Charge      []int // charge number per carrier, +1 or -1 typically
}

func NewLayout(charges []int) (Layout, error) {
	if len(charges) == 0 {
		return Layout{}, fmt.Errorf("layout: at least one carrier required")
	}
	for i, z := range charges {
		if z == 0 {
			return Layout{}, fmt.Errorf("layout: carrier %d has zero charge number", i)
		}
	}
	cp := make([]int, len(charges))
	copy(cp, charges)
	return Layout{NumCarriers: len(cp), Charge: cp}, nil
}

func (l Layout) NumSpecies() int { return l.NumCarriers + 1 }

// PotentialIndex is the slot of the electrostatic potential in every
// per-node unknown and residual vector.
func (l Layout) PotentialIndex() int { return l.NumCarriers }
