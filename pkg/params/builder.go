package params

import (
	"fmt"

	"github.com/edp1096/toy-dd/internal/consts"
)

// CarrierRegion is the per-carrier material data of one region.
type CarrierRegion struct {
	DensityOfStates float64
	BandEdgeEnergy  float64 // J
	Mobility        float64
	Doping          float64
	SRHLifetime     float64
	SRHTrapDensity  float64
	Auger           float64
}

// Region is the carrier-independent material data of one region.
type Region struct {
	DielectricConstant float64
	Radiative          float64
	IntrinsicDoping    float64
}

// BoundaryCarrier is the per-carrier data of one boundary region.
type BoundaryCarrier struct {
	DensityOfStates float64
	BandEdgeEnergy  float64 // J
	Doping          float64
}

// Builder assembles a Store slot by slot. Build fails if any region,
// boundary-region or carrier slot was never set, so partially initialized
// parameter tables cannot reach the solver.
type Builder struct {
	store *Store

	regionSet   []bool
	carrierSet  [][]bool
	boundarySet [][]bool
	contactSet  []bool
}

func NewBuilder(layout Layout, c Constants, numRegions, numBoundaryRegions int) *Builder {
	nc := layout.NumCarriers
	s := &Store{
		Layout:             layout,
		Const:              c,
		NumRegions:         numRegions,
		NumBoundaryRegions: numBoundaryRegions,
		Temperature:        consts.REFTEMP,
		DensityOfStates:    grid(numRegions, nc),
		BandEdgeEnergy:     grid(numRegions, nc),
		Mobility:           grid(numRegions, nc),
		Doping:             grid(numRegions, nc),
		SRHLifetime:        grid(numRegions, nc),
		SRHTrapDensity:     grid(numRegions, nc),
		Auger:              grid(numRegions, nc),
		DielectricConstant: make([]float64, numRegions),
		Radiative:          make([]float64, numRegions),
		IntrinsicDoping:    make([]float64, numRegions),
		BDensityOfStates:   grid(numBoundaryRegions, nc),
		BBandEdgeEnergy:    grid(numBoundaryRegions, nc),
		BDoping:            grid(numBoundaryRegions, nc),
		PenaltyReference:   1e10,
		contactVoltage:     make([]float64, numBoundaryRegions),
	}

	b := &Builder{
		store:       s,
		regionSet:   make([]bool, numRegions),
		carrierSet:  make([][]bool, numRegions),
		boundarySet: make([][]bool, numBoundaryRegions),
		contactSet:  make([]bool, numBoundaryRegions),
	}
	for r := range b.carrierSet {
		b.carrierSet[r] = make([]bool, nc)
	}
	for br := range b.boundarySet {
		b.boundarySet[br] = make([]bool, nc)
	}
	return b
}

func grid(rows, cols int) [][]float64 {
	g := make([][]float64, rows)
	for r := range g {
		g[r] = make([]float64, cols)
	}
	return g
}

func (b *Builder) SetTemperature(temp float64) *Builder {
	b.store.Temperature = temp
	return b
}

func (b *Builder) SetPenaltyReference(p float64) *Builder {
	b.store.PenaltyReference = p
	return b
}

func (b *Builder) SetRegion(r int, p Region) *Builder {
	b.store.DielectricConstant[r] = p.DielectricConstant
	b.store.Radiative[r] = p.Radiative
	b.store.IntrinsicDoping[r] = p.IntrinsicDoping
	b.regionSet[r] = true
	return b
}

func (b *Builder) SetCarrierRegion(r, carrier int, p CarrierRegion) *Builder {
	s := b.store
	s.DensityOfStates[r][carrier] = p.DensityOfStates
	s.BandEdgeEnergy[r][carrier] = p.BandEdgeEnergy
	s.Mobility[r][carrier] = p.Mobility
	s.Doping[r][carrier] = p.Doping
	s.SRHLifetime[r][carrier] = p.SRHLifetime
	s.SRHTrapDensity[r][carrier] = p.SRHTrapDensity
	s.Auger[r][carrier] = p.Auger
	b.carrierSet[r][carrier] = true
	return b
}

func (b *Builder) SetBoundaryCarrier(breg, carrier int, p BoundaryCarrier) *Builder {
	s := b.store
	s.BDensityOfStates[breg][carrier] = p.DensityOfStates
	s.BBandEdgeEnergy[breg][carrier] = p.BandEdgeEnergy
	s.BDoping[breg][carrier] = p.Doping
	b.boundarySet[breg][carrier] = true
	return b
}

func (b *Builder) SetContactVoltage(breg int, v float64) *Builder {
	b.store.contactVoltage[breg] = v
	b.contactSet[breg] = true
	return b
}

func (b *Builder) Build() (*Store, error) {
	for r, ok := range b.regionSet {
		if !ok {
			return nil, fmt.Errorf("params: region %d never set", r)
		}
		for c, cok := range b.carrierSet[r] {
			if !cok {
				return nil, fmt.Errorf("params: region %d carrier %d never set", r, c)
			}
		}
	}
	for br := range b.boundarySet {
		for c, ok := range b.boundarySet[br] {
			if !ok {
				return nil, fmt.Errorf("params: boundary region %d carrier %d never set", br, c)
			}
		}
		if !b.contactSet[br] {
			return nil, fmt.Errorf("params: boundary region %d has no contact voltage", br)
		}
	}

	if err := b.store.Validate(); err != nil {
		return nil, err
	}
	return b.store, nil
}
