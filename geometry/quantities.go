package geometry

import (
	"fmt"
	"math"

	"github.com/SarahRo/asimov-contact/utils"
	"gonum.org/v1/gonum/floats"
)

// PhysicalFacetNormal computes n = K^T nRef, normalized.
func PhysicalFacetNormal(n []float64, K utils.Matrix, nRef []float64) {
	var (
		tdim, gdim = K.Dims()
		k          = K.Data()
	)
	if len(n) != gdim || len(nRef) != tdim {
		panic(fmt.Errorf("normal has length %d, reference normal %d, need %d and %d",
			len(n), len(nRef), gdim, tdim))
	}
	for i := 0; i < gdim; i++ {
		var sum float64
		for j := 0; j < tdim; j++ {
			sum += k[j*gdim+i] * nRef[j]
		}
		n[i] = sum
	}
	floats.Scale(1./floats.Norm(n, 2), n)
}

// ComputeCircumradius returns the circumradius of a simplex cell from its
// jacobian determinant and vertex coordinates (first tdim+1 rows of coords).
func ComputeCircumradius(tdim int, detJ float64, coords utils.Matrix) (R float64, err error) {
	dist := func(i, j int) float64 {
		return floats.Distance(coords.RawRow(i), coords.RawRow(j), 2)
	}
	switch tdim {
	case 1:
		R = math.Abs(detJ) / 2
	case 2:
		var (
			area    = math.Abs(detJ) / 2
			a, b, c = dist(1, 2), dist(0, 2), dist(0, 1)
		)
		R = a * b * c / (4 * area)
	case 3:
		var (
			vol = math.Abs(detJ) / 6
			la  = dist(0, 1) * dist(2, 3)
			lb  = dist(0, 2) * dist(1, 3)
			lc  = dist(0, 3) * dist(1, 2)
		)
		R = math.Sqrt((la+lb+lc)*(la+lb-lc)*(la-lb+lc)*(-la+lb+lc)) / (24 * vol)
	default:
		err = fmt.Errorf("%w: circumradius of a cell with topological dimension %d",
			utils.ErrUnsupported, tdim)
	}
	return
}
