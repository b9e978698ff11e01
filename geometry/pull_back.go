package geometry

import (
	"fmt"

	"github.com/SarahRo/asimov-contact/utils"
)

// PullBack computes reference coordinates X of the physical points x in one
// cell along with J, K and detJ at every point. J, K and detJ must hold at
// least as many entries as x has rows.
//
// Affine maps evaluate the jacobian once at the reference origin and copy it
// to every point. Non-affine maps run Newton iteration and evaluate the
// jacobian at each converged point.
func PullBack(cmap CoordinateMap, J, K []utils.Matrix, detJ []float64,
	x, X, coords utils.Matrix) (err error) {
	var (
		nPts, _ = x.Dims()
	)
	checkCapacity("J", len(J), nPts)
	checkCapacity("K", len(K), nPts)
	checkCapacity("detJ", len(detJ), nPts)
	if nPts == 0 {
		return
	}
	if cmap.IsAffine() {
		pullBackAffine(cmap, J[0], K[0], x, X, coords)
		detJ[0] = ComputeJacobianDeterminant(J[0])
		for p := 1; p < nPts; p++ {
			J[p].CopyFrom(J[0])
			K[p].CopyFrom(K[0])
			detJ[p] = detJ[0]
		}
		return
	}
	if err = cmap.PullBackNonAffine(X, x, coords); err != nil {
		return
	}
	var (
		tdim = cmap.TopologicalDim()
		tab  = utils.NewTensor4(cmap.TabulateShape(1, nPts))
		dphi = utils.NewMatrix(tdim, cmap.NumDofs())
	)
	cmap.Tabulate(1, X, tab)
	for p := 0; p < nPts; p++ {
		ShapeDerivatives(tab, p, dphi)
		ComputeJacobian(dphi, coords, J[p])
		ComputeJacobianInverse(J[p], K[p])
		detJ[p] = ComputeJacobianDeterminant(J[p])
	}
	return
}

// PullBackHessian is PullBack that also returns the second derivatives of the
// geometric map, H (gdim x tdim(tdim+1)/2) per point, instead of detJ. H is
// zero for affine maps.
func PullBackHessian(cmap CoordinateMap, J, K, H []utils.Matrix,
	x, X, coords utils.Matrix) (err error) {
	var (
		nPts, _ = x.Dims()
	)
	checkCapacity("J", len(J), nPts)
	checkCapacity("K", len(K), nPts)
	checkCapacity("H", len(H), nPts)
	if nPts == 0 {
		return
	}
	if cmap.IsAffine() {
		pullBackAffine(cmap, J[0], K[0], x, X, coords)
		H[0].Fill(0)
		for p := 1; p < nPts; p++ {
			J[p].CopyFrom(J[0])
			K[p].CopyFrom(K[0])
			H[p].Fill(0)
		}
		return
	}
	if err = cmap.PullBackNonAffine(X, x, coords); err != nil {
		return
	}
	var (
		tdim    = cmap.TopologicalDim()
		nDofs   = cmap.NumDofs()
		nSecond = tdim * (tdim + 1) / 2
		tab     = utils.NewTensor4(cmap.TabulateShape(2, nPts))
		dphi    = utils.NewMatrix(tdim, nDofs)
		ddphi   = utils.NewMatrix(nSecond, nDofs)
	)
	cmap.Tabulate(2, X, tab)
	for p := 0; p < nPts; p++ {
		ShapeDerivatives(tab, p, dphi)
		ComputeJacobian(dphi, coords, J[p])
		ComputeJacobianInverse(J[p], K[p])
		for s := 0; s < nSecond; s++ {
			for k := 0; k < nDofs; k++ {
				ddphi.Set(s, k, tab.At(1+tdim+s, p, k, 0))
			}
		}
		ComputeJacobian(ddphi, coords, H[p])
	}
	return
}

// pullBackAffine computes J and K from the shape derivatives at the reference
// origin and maps x to X in closed form.
func pullBackAffine(cmap CoordinateMap, J, K, x, X, coords utils.Matrix) {
	var (
		tdim    = cmap.TopologicalDim()
		nDofs   = cmap.NumDofs()
		_, gdim = coords.Dims()
		tab     = utils.NewTensor4(cmap.TabulateShape(1, 1))
		dphi    = utils.NewMatrix(tdim, nDofs)
		x0      = make([]float64, gdim)
	)
	cmap.Tabulate(1, utils.NewMatrix(1, tdim), tab)
	ShapeDerivatives(tab, 0, dphi)
	ComputeJacobian(dphi, coords, J)
	ComputeJacobianInverse(J, K)
	for k := 0; k < nDofs; k++ {
		phi := tab.At(0, 0, k, 0)
		for j := 0; j < gdim; j++ {
			x0[j] += phi * coords.At(k, j)
		}
	}
	PullBackAffine(X, K, x0, x)
}

func checkCapacity(name string, have, need int) {
	if have < need {
		panic(fmt.Errorf("%s holds %d points, need at least %d", name, have, need))
	}
}
