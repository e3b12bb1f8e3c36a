package physics

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-dd/pkg/params"
	"github.com/edp1096/toy-dd/pkg/stat"
)

// Scheme selects the charge-transport flux discretization.
type Scheme int

const (
	ScharfetterGummel Scheme = iota
	Sedan
)

func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "scharfetter-gummel", "sg":
		return ScharfetterGummel, nil
	case "sedan":
		return Sedan, nil
	}
	return 0, fmt.Errorf("physics: unknown flux scheme %q", name)
}

// Physics evaluates the edge flux and node reaction kernels of the
// drift-diffusion system. The kernels are pure functions of their inputs;
// Lambda is the homotopy coupling parameter and is written only by the
// continuation loop between solves.
type Physics struct {
	Params *params.Store
	Dist   []stat.Distribution // per carrier
	Scheme Scheme

	// Lambda in [0,1] scales the bulk space charge during equilibrium
	// bootstrapping. The contact penalty stays unscaled so the Lambda=0
	// system remains nonsingular.
	Lambda float64

	// SumRegionRates reproduces the recombination aggregation that sums
	// rate prefactors over all regions at every node. Off by default: a
	// node uses its own region only.
	SumRegionRates bool
}

func New(store *params.Store, dist []stat.Distribution, scheme Scheme) (*Physics, error) {
	if store == nil {
		return nil, fmt.Errorf("physics: nil parameter store")
	}
	if len(dist) != store.Layout.NumCarriers {
		return nil, fmt.Errorf("physics: %d distributions for %d carriers", len(dist), store.Layout.NumCarriers)
	}
	return &Physics{Params: store, Dist: dist, Scheme: scheme, Lambda: 1}, nil
}

// eta is the reduced chemical potential charge/UT*(phi - psi + E/q).
func (p *Physics) eta(z, ut, phi, psi, bandEdge float64) float64 {
	return z / ut * (phi - psi + bandEdge/p.Params.Const.Q)
}

// Flux writes the integrated current across one edge of the given region
// into f: one entry per carrier plus the discrete Poisson flux in the
// potential slot. uk and ul are the unknown vectors at the two endpoints.
func (p *Physics) Flux(f, uk, ul []float64, region int) {
	st := p.Params
	ip := st.Layout.PotentialIndex()
	ut := st.UT()

	dpsi := ul[ip] - uk[ip]
	f[ip] = -st.DielectricConstant[region] * st.Const.E0 * dpsi

	for c := 0; c < st.Layout.NumCarriers; c++ {
		z := float64(st.Layout.Charge[c])
		etaK := p.eta(z, ut, uk[c], uk[ip], st.BandEdgeEnergy[region][c])
		etaL := p.eta(z, ut, ul[c], ul[ip], st.BandEdgeEnergy[region][c])
		fK := p.Dist[c].Eval(etaK)
		fL := p.Dist[c].Eval(etaL)

		arg := z * dpsi / ut
		if p.Scheme == Sedan {
			// Statistics correction; reduces to the plain argument under
			// Boltzmann statistics where ln F(eta) == eta.
			arg += (etaL - etaK) - logGuarded(fL) + logGuarded(fK)
		}
		bp, bm := BernoulliPair(arg)

		j0 := z * st.Const.Q * st.Mobility[region][c] * ut * st.DensityOfStates[region][c]
		f[c] = z * j0 * (bp*fK - bm*fL)
	}
}

// Reaction writes the bulk volume term of the given region into f: space
// charge in the potential slot, recombination in the carrier slots.
func (p *Physics) Reaction(f, u []float64, region int) {
	st := p.Params
	nc := st.Layout.NumCarriers
	ip := st.Layout.PotentialIndex()
	ut := st.UT()

	charge := st.IntrinsicDoping[region]
	for c := 0; c < nc; c++ {
		z := float64(st.Layout.Charge[c])
		charge -= z * st.Doping[region][c]
		eta := p.eta(z, ut, u[c], u[ip], st.BandEdgeEnergy[region][c])
		charge += z * st.DensityOfStates[region][c] * p.Dist[c].Eval(eta)
	}
	f[ip] = -st.Const.Q * p.Lambda * charge

	// Detailed balance: the factor vanishes when all quasi-Fermi
	// potentials coincide, so net recombination is zero at equilibrium.
	sum := 0.0
	prod := 1.0
	for c := 0; c < nc; c++ {
		sum += float64(st.Layout.Charge[c]) * u[c]
		prod *= u[c]
	}
	balance := 1 - math.Exp(-sum)

	rate := 0.0
	if p.SumRegionRates {
		for r := 0; r < st.NumRegions; r++ {
			rate += p.ratePrefactor(r, u)
		}
	} else {
		rate = p.ratePrefactor(region, u)
	}

	for c := 0; c < nc; c++ {
		f[c] = st.Const.Q * float64(st.Layout.Charge[c]) * rate * prod * balance
	}
}

// ratePrefactor sums the radiative, Auger and Shockley-Read-Hall rate
// contributions of one region.
func (p *Physics) ratePrefactor(region int, u []float64) float64 {
	st := p.Params
	nc := st.Layout.NumCarriers

	rate := st.Radiative[region]
	for c := 0; c < nc; c++ {
		rate += st.Auger[region][c] * u[c]
	}

	den := 0.0
	for c := 0; c < nc; c++ {
		// Trap densities pair with the opposite carrier.
		den += st.SRHTrapDensity[region][nc-1-c] * (u[c] + st.SRHLifetime[region][c])
	}
	if den != 0 {
		rate += 1 / den
	}
	return rate
}

// BReaction writes the boundary residual at one boundary node into f. The
// potential slot carries the penalty-scaled contact space charge evaluated
// at the externally held contact voltage; carrier slots are zero since the
// quasi-Fermi potentials are fixed by Dirichlet values outside this kernel.
func (p *Physics) BReaction(f, u []float64, breg int) {
	st := p.Params
	nc := st.Layout.NumCarriers
	ip := st.Layout.PotentialIndex()
	ut := st.UT()
	v := st.ContactVoltage(breg)

	charge := 0.0
	for c := 0; c < nc; c++ {
		z := float64(st.Layout.Charge[c])
		eta := p.eta(z, ut, v, u[ip], st.BBandEdgeEnergy[breg][c])
		charge += z * (st.BDensityOfStates[breg][c]*p.Dist[c].Eval(eta) - st.BDoping[breg][c])
	}
	f[ip] = -st.PenaltyReference * st.Const.Q * charge

	for c := 0; c < nc; c++ {
		f[c] = 0
	}
}

// ContactNeutralPotential returns the potential at which the contact space
// charge vanishes for the boundary region's present voltage. The charge is
// strictly decreasing in psi, so bisection over an expanding bracket is
// safe for every statistics kind.
func (p *Physics) ContactNeutralPotential(breg int) float64 {
	st := p.Params
	v := st.ContactVoltage(breg)
	ut := st.UT()

	charge := func(psi float64) float64 {
		c := 0.0
		for i := 0; i < st.Layout.NumCarriers; i++ {
			z := float64(st.Layout.Charge[i])
			eta := p.eta(z, ut, v, psi, st.BBandEdgeEnergy[breg][i])
			c += z * (st.BDensityOfStates[breg][i]*p.Dist[i].Eval(eta) - st.BDoping[breg][i])
		}
		return c
	}

	lo, hi := v-1, v+1
	for w := 1.0; charge(lo) <= 0 && w < 64; w *= 2 {
		lo = v - 2*w
	}
	for w := 1.0; charge(hi) >= 0 && w < 64; w *= 2 {
		hi = v + 2*w
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		c := charge(mid)
		switch {
		case c == 0:
			return mid
		case c > 0:
			lo = mid
		default:
			hi = mid
		}
	}
	return (lo + hi) / 2
}

func logGuarded(x float64) float64 {
	if x < math.SmallestNonzeroFloat64 {
		x = math.SmallestNonzeroFloat64
	}
	return math.Log(x)
}
