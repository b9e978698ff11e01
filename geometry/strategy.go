package geometry

import (
	"math"

	"github.com/SarahRo/asimov-contact/utils"
)

// Strategy selects how per quadrature point geometry is refreshed. It is
// chosen once per coordinate map; for affine maps the quantities computed for
// the first point hold for the whole cell.
type Strategy uint8

const (
	Affine Strategy = iota
	NonAffine
)

func NewStrategy(cmap CoordinateMap) Strategy {
	if cmap.IsAffine() {
		return Affine
	}
	return NonAffine
}

func (s Strategy) String() string {
	return [...]string{"Affine", "NonAffine"}[s]
}

// UpdateJacobian returns the facet surface measure at quadrature point q.
// Affine maps return priorDetJ untouched. Otherwise J, K and Jtot = J Jf are
// recomputed from dphi[q] and |det(Jtot)| is returned.
func (s Strategy) UpdateJacobian(q int, priorDetJ float64, J, K, Jtot, Jf utils.Matrix,
	dphi []utils.Matrix, coords utils.Matrix) float64 {
	switch s {
	case Affine:
		return priorDetJ
	default:
		return FacetJacobianDeterminant(q, J, K, Jtot, Jf, dphi, coords)
	}
}

// UpdateNormal recomputes the physical normal of localFacet from K. Affine
// maps leave n untouched.
func (s Strategy) UpdateNormal(n []float64, K, nRef utils.Matrix, localFacet int) {
	switch s {
	case Affine:
		return
	default:
		PhysicalFacetNormal(n, K, nRef.RawRow(localFacet))
	}
}

// FacetJacobianDeterminant computes the cell jacobian at quadrature point q,
// composes it with the reference facet jacobian Jf and returns |det(J Jf)|.
// Point facets (Jf without storage) have unit measure.
func FacetJacobianDeterminant(q int, J, K, Jtot, Jf utils.Matrix,
	dphi []utils.Matrix, coords utils.Matrix) float64 {
	ComputeJacobian(dphi[q], coords, J)
	ComputeJacobianInverse(J, K)
	if Jf.M == nil {
		return 1
	}
	Jtot.M.Mul(J.M, Jf.M)
	return math.Abs(ComputeJacobianDeterminant(Jtot))
}
