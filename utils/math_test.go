package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRamps(t *testing.T) {
	for _, x := range []float64{-3.5, -1e-12, 0, 1e-12, 2, 1e8} {
		assert.Equal(t, x, RPlus(x)+RMinus(x))
		assert.GreaterOrEqual(t, RPlus(x), 0.)
		assert.LessOrEqual(t, RMinus(x), 0.)
		if x != 0 {
			assert.Equal(t, 1., DRPlus(x)+DRMinus(x))
		}
	}
	assert.Equal(t, 0., DRPlus(0))
	assert.Equal(t, 0., DRMinus(0))
	assert.Equal(t, 2., RPlus(2))
	assert.Equal(t, -2., RMinus(-2))
}

func TestPOW(t *testing.T) {
	assert.Equal(t, 8., POW(2, 3))
	assert.Equal(t, 0.25, POW(2, -2))
	assert.InDelta(t, 1024., POW(2, 10), 1e-12)
}
