package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBernoulliPairDifference(t *testing.T) {
	// bm - bp must recover x to within one rounding of bp + x, for any
	// argument, including where the closed forms cancel catastrophically.
	args := []float64{-700, -40, -3, -1e-3, -1e-12, 0, 1e-12, 1e-3, 1, 40, 700}
	for _, x := range args {
		bp, bm := BernoulliPair(x)
		ulp := 2.3e-16 * math.Max(math.Abs(bp), math.Abs(bm))
		assert.InDelta(t, x, bm-bp, ulp+1e-300, "difference property at x=%g", x)
	}
}

func TestBernoulliPairPositive(t *testing.T) {
	// Beyond |x| of roughly 36 the smaller component drops below the ulp
	// of the larger one and the asymptotic branch keeps it positive, down
	// to the underflow limit of the exponential near |x| = 745.
	for _, x := range []float64{-744, -700, -50, -37, -30, -10, -0.5, -1e-8,
		1e-8, 0.5, 10, 30, 37, 50, 700, 744} {
		bp, bm := BernoulliPair(x)
		assert.Greater(t, bp, 0.0, "bp at x=%g", x)
		assert.Greater(t, bm, 0.0, "bm at x=%g", x)
	}
}

func TestBernoulliPairAtZero(t *testing.T) {
	bp, bm := BernoulliPair(0)
	assert.Equal(t, 1.0, bp)
	assert.Equal(t, 1.0, bm)
}

func TestBernoulliPairMatchesClosedForm(t *testing.T) {
	// Away from the singularity the series branch must agree with
	// x/(exp(x)-1).
	for _, x := range []float64{-5, -0.1, 0.1, 2, 20} {
		bp, _ := BernoulliPair(x)
		want := x / (math.Exp(x) - 1)
		assert.InDelta(t, want, bp, 1e-14*math.Abs(want))
	}
}

func TestBernoulliSeriesBranchContinuity(t *testing.T) {
	// Values just inside and outside the series switch must agree.
	x := bernoulliSeriesTol * 0.99
	y := bernoulliSeriesTol * 1.01
	bpx, _ := BernoulliPair(x)
	bpy, _ := BernoulliPair(y)
	assert.InDelta(t, bpx, bpy, 1e-10)
}
