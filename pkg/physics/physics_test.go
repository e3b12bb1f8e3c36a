package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-dd/pkg/params"
	"github.com/edp1096/toy-dd/pkg/stat"
)

// testStore builds a single-region electron/hole store with symmetric band
// edges around mid gap.
func testStore(t *testing.T, mod func(b *params.Builder)) *params.Store {
	t.Helper()

	layout, err := params.NewLayout([]int{-1, +1})
	require.NoError(t, err)

	c := params.DefaultConstants()
	eGap := 1.12 * c.Q

	b := params.NewBuilder(layout, c, 1, 2)
	b.SetTemperature(300.0)
	b.SetRegion(0, params.Region{DielectricConstant: 11.7})
	b.SetCarrierRegion(0, 0, params.CarrierRegion{
		DensityOfStates: 1e25, BandEdgeEnergy: +eGap / 2, Mobility: 0.14,
	})
	b.SetCarrierRegion(0, 1, params.CarrierRegion{
		DensityOfStates: 1e25, BandEdgeEnergy: -eGap / 2, Mobility: 0.045,
	})
	for br := 0; br < 2; br++ {
		b.SetBoundaryCarrier(br, 0, params.BoundaryCarrier{DensityOfStates: 1e25, BandEdgeEnergy: +eGap / 2})
		b.SetBoundaryCarrier(br, 1, params.BoundaryCarrier{DensityOfStates: 1e25, BandEdgeEnergy: -eGap / 2})
		b.SetContactVoltage(br, 0)
	}
	if mod != nil {
		mod(b)
	}

	store, err := b.Build()
	require.NoError(t, err)
	return store
}

func boltzmannPair() []stat.Distribution {
	return []stat.Distribution{{Kind: stat.Boltzmann}, {Kind: stat.Boltzmann}}
}

func TestSedanMatchesScharfetterGummelUnderBoltzmann(t *testing.T) {
	store := testStore(t, nil)

	sg, err := New(store, boltzmannPair(), ScharfetterGummel)
	require.NoError(t, err)
	sd, err := New(store, boltzmannPair(), Sedan)
	require.NoError(t, err)

	states := []struct{ uk, ul []float64 }{
		{[]float64{0, 0, 0}, []float64{0, 0, 0.3}},
		{[]float64{0.1, 0.2, -0.2}, []float64{0.05, 0.25, 0.4}},
		{[]float64{-0.3, 0.3, 0.1}, []float64{0.3, -0.3, -0.1}},
		{[]float64{0.5, 0.5, 0.5}, []float64{0.5, 0.5, 0.55}},
	}

	fa := make([]float64, 3)
	fb := make([]float64, 3)
	for _, s := range states {
		sg.Flux(fa, s.uk, s.ul, 0)
		sd.Flux(fb, s.uk, s.ul, 0)
		for c := 0; c < 2; c++ {
			tol := 1e-10 * math.Max(math.Abs(fa[c]), 1e-30)
			assert.InDelta(t, fa[c], fb[c], tol, "carrier %d at uk=%v ul=%v", c, s.uk, s.ul)
		}
		assert.Equal(t, fa[2], fb[2], "poisson flux is scheme independent")
	}
}

func TestFluxVanishesAtEquilibrium(t *testing.T) {
	store := testStore(t, nil)
	p, err := New(store, boltzmannPair(), ScharfetterGummel)
	require.NoError(t, err)

	f := make([]float64, 3)

	// Equal quasi-Fermi potentials on both sides, arbitrary potential jump.
	for _, dpsi := range []float64{-0.5, -0.05, 0, 0.02, 0.4} {
		uk := []float64{0, 0, 0.1}
		ul := []float64{0, 0, 0.1 + dpsi}
		p.Flux(f, uk, ul, 0)

		for c := 0; c < 2; c++ {
			// Scale of the two cancelling terms.
			scale := math.Abs(float64(store.Layout.Charge[c])) * store.Const.Q *
				store.Mobility[0][c] * store.UT() * store.DensityOfStates[0][c]
			assert.InDelta(t, 0, f[c], 1e-11*scale, "carrier %d at dpsi=%g", c, dpsi)
		}
	}
}

func TestPoissonFluxSlot(t *testing.T) {
	store := testStore(t, nil)
	p, err := New(store, boltzmannPair(), ScharfetterGummel)
	require.NoError(t, err)

	f := make([]float64, 3)
	uk := []float64{0, 0, 0.1}
	ul := []float64{0, 0, 0.25}
	p.Flux(f, uk, ul, 0)

	want := -11.7 * store.Const.E0 * 0.15
	assert.InDelta(t, want, f[2], 1e-18)
}

func TestRecombinationVanishesAtEquilibrium(t *testing.T) {
	store := testStore(t, func(b *params.Builder) {
		b.SetRegion(0, params.Region{DielectricConstant: 11.7, Radiative: 1e-16})
		b.SetCarrierRegion(0, 0, params.CarrierRegion{
			DensityOfStates: 1e25, BandEdgeEnergy: 0.56 * params.DefaultConstants().Q,
			Mobility: 0.14, SRHLifetime: 1e-7, SRHTrapDensity: 1e20, Auger: 1e-42,
		})
		b.SetCarrierRegion(0, 1, params.CarrierRegion{
			DensityOfStates: 1e25, BandEdgeEnergy: -0.56 * params.DefaultConstants().Q,
			Mobility: 0.045, SRHLifetime: 1e-7, SRHTrapDensity: 1e20, Auger: 1e-42,
		})
	})
	p, err := New(store, boltzmannPair(), ScharfetterGummel)
	require.NoError(t, err)

	f := make([]float64, 3)
	// Equal quasi-Fermi potentials: the detailed-balance factor is zero no
	// matter the rate prefactor.
	for _, phi := range []float64{-0.2, 0, 0.15} {
		u := []float64{phi, phi, 0.3}
		p.Reaction(f, u, 0)
		assert.Zero(t, f[0], "electron slot at phi=%g", phi)
		assert.Zero(t, f[1], "hole slot at phi=%g", phi)
	}
}

func TestSRHGuardsZeroTrapDensity(t *testing.T) {
	store := testStore(t, nil) // all trap densities zero
	p, err := New(store, boltzmannPair(), ScharfetterGummel)
	require.NoError(t, err)

	f := make([]float64, 3)
	u := []float64{0.1, 0.3, 0.2} // off equilibrium
	p.Reaction(f, u, 0)

	// Radiative and Auger are zero too, so the whole rate is zero and no
	// division fault occurred.
	assert.Zero(t, f[0])
	assert.Zero(t, f[1])
	assert.False(t, math.IsNaN(f[2]))
}

func TestLambdaScalesSpaceCharge(t *testing.T) {
	store := testStore(t, func(b *params.Builder) {
		b.SetCarrierRegion(0, 0, params.CarrierRegion{
			DensityOfStates: 1e25, BandEdgeEnergy: 0.56 * params.DefaultConstants().Q,
			Mobility: 0.14, Doping: 4.6e24,
		})
	})
	p, err := New(store, boltzmannPair(), ScharfetterGummel)
	require.NoError(t, err)

	f := make([]float64, 3)
	u := []float64{0, 0, 0.1}

	p.Lambda = 0
	p.Reaction(f, u, 0)
	assert.Zero(t, f[2])

	p.Lambda = 1
	p.Reaction(f, u, 0)
	full := f[2]
	require.NotZero(t, full)

	p.Lambda = 0.5
	p.Reaction(f, u, 0)
	assert.InDelta(t, full/2, f[2], 1e-12*math.Abs(full))
}

func TestBReactionCarrierSlotsZero(t *testing.T) {
	store := testStore(t, nil)
	p, err := New(store, boltzmannPair(), ScharfetterGummel)
	require.NoError(t, err)

	f := []float64{99, 99, 99}
	u := []float64{0.2, -0.1, 0.05}
	p.BReaction(f, u, 0)

	assert.Zero(t, f[0])
	assert.Zero(t, f[1])
}

func TestBReactionNeutralContact(t *testing.T) {
	// Symmetric DOS and band edges, no boundary doping, zero volts: the
	// electron and hole contributions cancel exactly.
	store := testStore(t, nil)
	p, err := New(store, boltzmannPair(), ScharfetterGummel)
	require.NoError(t, err)

	f := make([]float64, 3)
	u := []float64{0, 0, 0}
	p.BReaction(f, u, 0)
	assert.Zero(t, f[2])
}

func TestSumRegionRatesAggregation(t *testing.T) {
	layout, err := params.NewLayout([]int{-1, +1})
	require.NoError(t, err)
	c := params.DefaultConstants()

	b := params.NewBuilder(layout, c, 2, 2)
	b.SetTemperature(300.0)
	for r := 0; r < 2; r++ {
		b.SetRegion(r, params.Region{DielectricConstant: 11.7, Radiative: float64(r+1) * 1e-16})
		b.SetCarrierRegion(r, 0, params.CarrierRegion{DensityOfStates: 1e25, BandEdgeEnergy: 0.56 * c.Q, Mobility: 0.14})
		b.SetCarrierRegion(r, 1, params.CarrierRegion{DensityOfStates: 1e25, BandEdgeEnergy: -0.56 * c.Q, Mobility: 0.045})
	}
	for br := 0; br < 2; br++ {
		b.SetBoundaryCarrier(br, 0, params.BoundaryCarrier{DensityOfStates: 1e25, BandEdgeEnergy: 0.56 * c.Q})
		b.SetBoundaryCarrier(br, 1, params.BoundaryCarrier{DensityOfStates: 1e25, BandEdgeEnergy: -0.56 * c.Q})
		b.SetContactVoltage(br, 0)
	}
	store, err := b.Build()
	require.NoError(t, err)

	p, err := New(store, boltzmannPair(), ScharfetterGummel)
	require.NoError(t, err)

	f := make([]float64, 3)
	u := []float64{0.1, 0.3, 0.2}

	p.Reaction(f, u, 0)
	own := f[1]

	p.SumRegionRates = true
	p.Reaction(f, u, 0)
	summed := f[1]

	// Region 1 has a larger radiative coefficient, so the all-regions sum
	// is strictly bigger in magnitude.
	assert.InDelta(t, 3*own, summed, 1e-12*math.Abs(summed))
}
