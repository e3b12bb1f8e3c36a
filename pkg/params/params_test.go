package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-dd/internal/consts"
)

func TestLayout(t *testing.T) {
	l, err := NewLayout([]int{-1, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, l.NumCarriers)
	assert.Equal(t, 3, l.NumSpecies())
	assert.Equal(t, 2, l.PotentialIndex())

	_, err = NewLayout(nil)
	assert.Error(t, err)

	_, err = NewLayout([]int{-1, 0})
	assert.Error(t, err, "zero charge number")
}

func TestThermalVoltage(t *testing.T) {
	c := DefaultConstants()
	ut := c.ThermalVoltage(consts.REFTEMP)
	assert.InDelta(t, 0.02586, ut, 1e-4)

	s := &Store{Const: c, Temperature: consts.REFTEMP}
	assert.Equal(t, ut, s.UT())
}

func completeBuilder(t *testing.T) *Builder {
	t.Helper()
	layout, err := NewLayout([]int{-1, 1})
	require.NoError(t, err)

	b := NewBuilder(layout, DefaultConstants(), 1, 2)
	b.SetRegion(0, Region{DielectricConstant: 11.7})
	for c := 0; c < 2; c++ {
		b.SetCarrierRegion(0, c, CarrierRegion{
			DensityOfStates: 1e25,
			Mobility:        0.1,
		})
		for br := 0; br < 2; br++ {
			b.SetBoundaryCarrier(br, c, BoundaryCarrier{DensityOfStates: 1e25})
		}
	}
	b.SetContactVoltage(0, 0)
	b.SetContactVoltage(1, 0)
	return b
}

func TestBuilderComplete(t *testing.T) {
	s, err := completeBuilder(t).Build()
	require.NoError(t, err)
	assert.Equal(t, consts.REFTEMP, s.Temperature)
	assert.Equal(t, 1e10, s.PenaltyReference)
	assert.Equal(t, 1, s.NumRegions)
	assert.Equal(t, 2, s.NumBoundaryRegions)
}

func TestBuilderMissingSlots(t *testing.T) {
	layout, err := NewLayout([]int{-1, 1})
	require.NoError(t, err)

	// Nothing set at all.
	_, err = NewBuilder(layout, DefaultConstants(), 1, 2).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region 0")

	// One carrier slot left out.
	b := completeBuilder(t)
	b.carrierSet[0][1] = false
	_, err = b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier 1")

	// Contact voltage left out.
	b = completeBuilder(t)
	b.contactSet[1] = false
	_, err = b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contact voltage")
}

func TestValidateRejectsBadValues(t *testing.T) {
	build := func(mod func(*Builder)) error {
		b := completeBuilder(t)
		mod(b)
		_, err := b.Build()
		return err
	}

	assert.Error(t, build(func(b *Builder) { b.SetTemperature(-5) }))
	assert.Error(t, build(func(b *Builder) { b.SetPenaltyReference(0) }))
	assert.Error(t, build(func(b *Builder) {
		b.SetRegion(0, Region{DielectricConstant: 0})
	}))
	assert.Error(t, build(func(b *Builder) {
		b.SetCarrierRegion(0, 0, CarrierRegion{DensityOfStates: -1, Mobility: 0.1})
	}))
	assert.Error(t, build(func(b *Builder) {
		b.SetCarrierRegion(0, 0, CarrierRegion{DensityOfStates: 1e25, Mobility: -0.1})
	}))
	assert.Error(t, build(func(b *Builder) {
		b.SetBoundaryCarrier(0, 0, BoundaryCarrier{DensityOfStates: 0})
	}))
}

func TestContactVoltageRoundTrip(t *testing.T) {
	s, err := completeBuilder(t).Build()
	require.NoError(t, err)

	s.SetContactVoltage(1, 0.35)
	assert.Equal(t, 0.35, s.ContactVoltage(1))
	assert.Equal(t, 0.0, s.ContactVoltage(0))
}
