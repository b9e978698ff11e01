package quadrature

import (
	"errors"
	"math"
	"testing"

	"github.com/SarahRo/asimov-contact/element"
	"github.com/SarahRo/asimov-contact/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJacobiGQ(t *testing.T) {
	// Three point Gauss-Legendre
	x, w := JacobiGQ(0, 0, 2)
	assert.InDeltaSlice(t, []float64{-math.Sqrt(0.6), 0, math.Sqrt(0.6)}, x, 1.e-12)
	assert.InDeltaSlice(t, []float64{5. / 9, 8. / 9, 5. / 9}, w, 1.e-12)

	x, w = JacobiGQ(1, 0, 0)
	assert.InDeltaSlice(t, []float64{-1. / 3}, x, 1.e-14)
	assert.InDeltaSlice(t, []float64{2}, w, 1.e-14)

	// Weights integrate the Jacobi weight itself
	_, w = JacobiGQ(2, 0, 3)
	var sum float64
	for _, v := range w {
		sum += v
	}
	assert.InDelta(t, 8./3, sum, 1.e-12)
}

func factorial(n int) float64 {
	f := 1.
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

func TestSimplexRule(t *testing.T) {
	for _, cell := range []element.CellType{element.Interval, element.Triangle, element.Tetrahedron} {
		t.Run(cell.String(), func(t *testing.T) {
			tdim := cell.TopologicalDim()
			for degree := 0; degree <= 4; degree++ {
				pts, w := SimplexRule(cell, degree)
				var sum float64
				for _, v := range w {
					sum += v
				}
				assert.InDelta(t, cell.ReferenceVolume(), sum, 1.e-13)
				// Exact for the monomial x^degree
				var (
					integral float64
					exact    = factorial(degree) / factorial(degree+tdim)
				)
				for p := range w {
					integral += w[p] * math.Pow(pts.At(p, 0), float64(degree))
				}
				assert.InDelta(t, exact, integral, 1.e-13)
			}
		})
	}
	// Mixed monomial x y^2 on the triangle, 1!2!/5!
	pts, w := SimplexRule(element.Triangle, 3)
	var integral float64
	for p := range w {
		integral += w[p] * pts.At(p, 0) * pts.At(p, 1) * pts.At(p, 1)
	}
	assert.InDelta(t, 2./120, integral, 1.e-14)
}

func TestNewRule(t *testing.T) {
	qr, err := NewRule(element.Triangle, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, qr.NumEntities())
	assert.Equal(t, 2, qr.NumPoints())
	for p := 0; p < qr.NumPoints(); p++ {
		assert.InDelta(t, 1., qr.Points[0].At(p, 0)+qr.Points[0].At(p, 1), 1.e-14)
		assert.InDelta(t, 0., qr.Points[1].At(p, 0), 1.e-14)
		assert.InDelta(t, 0., qr.Points[2].At(p, 1), 1.e-14)
	}

	qr, err = NewRule(element.Tetrahedron, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, qr.NumEntities())
	assert.Equal(t, 1, qr.NumPoints())
	assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.25}, qr.Points[0].Data(), 1.e-14)

	qr, err = NewRule(element.Interval, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, qr.NumEntities())
	assert.Equal(t, []float64{1}, qr.Points[1].Data())

	_, err = NewRule(element.Tetrahedron, 1, 1)
	assert.True(t, errors.Is(err, utils.ErrUnsupported))
}
