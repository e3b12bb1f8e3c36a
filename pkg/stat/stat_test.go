package stat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKinds = []Kind{Boltzmann, Blakemore, FermiDiracMinusOne, FermiDiracOneHalf}

func TestStrictlyIncreasing(t *testing.T) {
	// Above eta of roughly 37 the bounded kinds saturate at their limit in
	// double precision, so strictness is only meaningful below that.
	for _, k := range allKinds {
		d := Distribution{Kind: k}
		prev := d.Eval(-60)
		for eta := -59.5; eta <= 30; eta += 0.5 {
			cur := d.Eval(eta)
			assert.Greater(t, cur, prev, "%s at eta=%g", k, eta)
			prev = cur
		}
		assert.GreaterOrEqual(t, d.Eval(60), d.Eval(30), "%s", k)
	}
}

func TestVanishesForLargeNegativeArgument(t *testing.T) {
	for _, k := range allKinds {
		d := Distribution{Kind: k}
		assert.Less(t, d.Eval(-80), 1e-30, "%s", k)
		assert.Greater(t, d.Eval(-80), 0.0, "%s", k)
	}
}

func TestBoltzmannIsExp(t *testing.T) {
	d := Distribution{Kind: Boltzmann}
	assert.Equal(t, 1.0, d.Eval(0))
	assert.Equal(t, math.Exp(2.5), d.Eval(2.5))
	assert.Equal(t, math.Exp(-30), d.Eval(-30))
}

func TestBlakemoreBoundedAbove(t *testing.T) {
	d := Distribution{Kind: Blakemore}
	bound := 1 / 0.27
	for _, eta := range []float64{0, 5, 50, 500, 5000} {
		v := d.Eval(eta)
		assert.LessOrEqual(t, v, bound, "eta=%g", eta)
	}
	assert.Less(t, d.Eval(5), bound)
	// Approaches the bound in the degenerate limit.
	assert.InDelta(t, bound, d.Eval(5000), 1e-9)
}

func TestFermiDiracMinusOneIsLogistic(t *testing.T) {
	d := Distribution{Kind: FermiDiracMinusOne}
	for _, eta := range []float64{-20, -1, 0, 1, 20} {
		want := 1 / (math.Exp(-eta) + 1)
		assert.InDelta(t, want, d.Eval(eta), 1e-15)
	}
	assert.Less(t, d.Eval(1000), 1.0+1e-15)
}

func TestNondegenerateLimitMatchesBoltzmann(t *testing.T) {
	// Every statistics tends to exp(eta) far below the band edge.
	b := Distribution{Kind: Boltzmann}
	for _, k := range []Kind{Blakemore, FermiDiracMinusOne, FermiDiracOneHalf} {
		d := Distribution{Kind: k}
		eta := -12.0
		ratio := d.Eval(eta) / b.Eval(eta)
		assert.InDelta(t, 1.0, ratio, 1e-3, "%s", k)
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("boltzmann")
	require.NoError(t, err)
	assert.Equal(t, Boltzmann, k)

	k, err = ParseKind("blakemore")
	require.NoError(t, err)
	assert.Equal(t, Blakemore, k)

	_, err = ParseKind("maxwell")
	assert.Error(t, err)
}
