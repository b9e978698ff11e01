package geometry

import (
	"github.com/SarahRo/asimov-contact/utils"
)

// CoordinateMap maps reference coordinates of a cell to physical coordinates
// through the cell's geometry nodes.
//
// Tabulations are stored as (derivative, point, node, 1), derivatives in
// graded lexicographic order, see NumDerivatives.
type CoordinateMap interface {
	IsAffine() bool
	TopologicalDim() int
	NumDofs() int
	TabulateShape(nd, nPts int) [4]int
	Tabulate(nd int, X utils.Matrix, basis utils.Tensor4)
	// PullBackNonAffine solves x(X) = x for X by Newton iteration. An error
	// wrapping utils.ErrNotConverged is returned when any point fails.
	PullBackNonAffine(X, x, coords utils.Matrix) error
}

// NumDerivatives is the number of derivative slices for all orders up to nd
// in tdim dimensions, binomial(nd+tdim, tdim).
func NumDerivatives(tdim, nd int) (n int) {
	n = 1
	for i := 1; i <= tdim; i++ {
		n = n * (nd + i) / i
	}
	return
}

// DerivativeIndex returns the slice index of the derivative with multi-index
// (nx, ny, nz) in tdim dimensions.
func DerivativeIndex(tdim int, nx, ny, nz int) int {
	switch tdim {
	case 1:
		return nx
	case 2:
		return (nx+ny)*(nx+ny+1)/2 + ny
	default:
		var (
			n = nx + ny + nz
			s = ny + nz
		)
		return n*(n+1)*(n+2)/6 + s*(s+1)/2 + nz
	}
}

// DerivativeMultiIndices lists the multi-indices for all orders up to nd, in
// slice order.
func DerivativeMultiIndices(tdim, nd int) (ind [][3]int) {
	ind = make([][3]int, 0, NumDerivatives(tdim, nd))
	for n := 0; n <= nd; n++ {
		switch tdim {
		case 1:
			ind = append(ind, [3]int{n, 0, 0})
		case 2:
			for ny := 0; ny <= n; ny++ {
				ind = append(ind, [3]int{n - ny, ny, 0})
			}
		case 3:
			for s := 0; s <= n; s++ {
				for nz := 0; nz <= s; nz++ {
					ind = append(ind, [3]int{n - s, s - nz, nz})
				}
			}
		}
	}
	return
}

// ShapeDerivatives copies the first derivatives at point p of a tabulation
// into dphi (tdim x nodes).
func ShapeDerivatives(tab utils.Tensor4, p int, dphi utils.Matrix) {
	var (
		tdim, nDofs = dphi.Dims()
		data        = dphi.Data()
	)
	for i := 0; i < tdim; i++ {
		for k := 0; k < nDofs; k++ {
			data[i*nDofs+k] = tab.At(1+i, p, k, 0)
		}
	}
}

// CellCoordinates gathers the geometry nodes listed in dofs from a stride-3
// coordinate array into coords (nodes x gdim).
func CellCoordinates(x []float64, dofs []int, coords utils.Matrix) {
	var (
		_, gdim = coords.Dims()
		data    = coords.Data()
	)
	for i, d := range dofs {
		copy(data[i*gdim:(i+1)*gdim], x[3*d:3*d+gdim])
	}
}
