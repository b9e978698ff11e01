package basis

import (
	"fmt"

	"github.com/SarahRo/asimov-contact/fem"
	"github.com/SarahRo/asimov-contact/geometry"
	"github.com/SarahRo/asimov-contact/utils"
)

func checkDerivatives(nd int) error {
	if nd < 0 || nd > 1 {
		return fmt.Errorf("%w: basis derivatives of order %d, only 0 and 1 are supported",
			utils.ErrInvalidArgument, nd)
	}
	return nil
}

// blockSizes returns the per block dimension, value size and reference value
// size of el.
func blockSizes(el fem.FiniteElement) (bs, dim, vs, rvs int) {
	bs = el.BlockSize()
	dim = el.SpaceDimension() / bs
	vs = el.ValueSize() / bs
	rvs = el.ReferenceValueSize() / bs
	return
}

func numRows(x utils.Matrix) (n int) {
	if x.M != nil {
		n, _ = x.Dims()
	}
	return
}

// BasisAtPointsInCell evaluates the physical basis functions of el, and their
// first derivatives when nd is 1, at the points x of one cell with geometry
// nodes coords. perm is the cell's permutation code. The result has shape
// (nd*tdim+1, nPts, dim*bs, vs*bs) and replicates the basis of one block on
// the diagonal of each block:
//
//	out(k, p, i*bs+b, j*bs+b) = phys(k, p, i, j)
//
// A negative cell is an inactive point set: the result is zero and J, K and
// detJ are left untouched.
func BasisAtPointsInCell(J, K []utils.Matrix, detJ []float64, x, coords utils.Matrix,
	cell int, perm uint32, el fem.FiniteElement, cmap geometry.CoordinateMap, nd int) (out utils.Tensor4, err error) {
	if err = checkDerivatives(nd); err != nil {
		return
	}
	var (
		tdim             = cmap.TopologicalDim()
		nPts             = numRows(x)
		nDerivs          = nd*tdim + 1
		bs, dim, vs, rvs = blockSizes(el)
	)
	out = utils.NewTensor4([4]int{nDerivs, nPts, dim * bs, vs * bs})
	if cell < 0 || nPts == 0 {
		return
	}
	X := utils.NewMatrix(nPts, tdim)
	if err = geometry.PullBack(cmap, J, K, detJ, x, X, coords); err != nil {
		return
	}
	var (
		tab       = utils.NewTensor4(el.TabulateShape(nd, nPts))
		phys      = utils.NewTensor4([4]int{nDerivs, nPts, dim, vs})
		pushFwd   = el.PushForward()
		transform = el.DofTransformation()
		cellInfo  = []uint32{perm}
	)
	el.Tabulate(nd, X, tab)
	for q := 0; q < nPts; q++ {
		for j := 0; j < nDerivs; j++ {
			U := tab.MatrixView(j, q)
			transform(U.Data(), cellInfo, 0, rvs)
			pushFwd(phys.MatrixView(j, q), U, J[q], detJ[q], K[q])
		}
	}
	for k := 0; k < nDerivs; k++ {
		for p := 0; p < nPts; p++ {
			for b := 0; b < bs; b++ {
				for i := 0; i < dim; i++ {
					for j := 0; j < vs; j++ {
						out.Set(k, p, i*bs+b, j*bs+b, phys.At(k, p, i, j))
					}
				}
			}
		}
	}
	return
}

// EvaluateBasisShape returns the shape of the tensor filled by
// EvaluateBasisFunctions for nPts points.
func EvaluateBasisShape(V *fem.FunctionSpace, nPts, nd int) [4]int {
	var (
		tdim          = V.Mesh.Topology.Dim()
		_, dim, vs, _ = blockSizes(V.Element)
	)
	return [4]int{nd*tdim + 1, nPts, dim, vs}
}

// EvaluateBasisFunctions evaluates the physical basis of one block of V at
// the points x, point p lying in cells[p]. All reference points are
// tabulated in one call. Entries of negative cells are skipped and their
// slots in basisValues are left untouched.
func EvaluateBasisFunctions(V *fem.FunctionSpace, x utils.Matrix, cells []int,
	basisValues utils.Tensor4, nd int) (err error) {
	if err = checkDerivatives(nd); err != nil {
		return
	}
	var (
		nPts = numRows(x)
	)
	switch {
	case nPts != len(cells):
		err = fmt.Errorf("%w: %d points and %d cells", utils.ErrInvalidArgument, nPts, len(cells))
	case nPts != basisValues.Shape[1]:
		err = fmt.Errorf("%w: basis values hold %d points, need %d", utils.ErrInvalidArgument,
			basisValues.Shape[1], nPts)
	case basisValues.Shape != EvaluateBasisShape(V, nPts, nd):
		err = fmt.Errorf("%w: basis values have shape %v, need %v", utils.ErrInvalidArgument,
			basisValues.Shape, EvaluateBasisShape(V, nPts, nd))
	}
	if err != nil || nPts == 0 {
		return
	}
	var (
		el = V.Element
		bs = el.BlockSize()
	)
	if nse := el.NumSubElements(); nse > 1 && nse != bs {
		err = fmt.Errorf("%w: cannot evaluate basis functions of a mixed space, extract subspaces",
			utils.ErrInvalidArgument)
		return
	}
	var (
		geom     = V.Mesh.Geometry
		cmap     = geom.CMap
		tdim     = cmap.TopologicalDim()
		gdim     = geom.Dim
		cellInfo []uint32
	)
	if el.NeedsDofTransformations() {
		cellInfo = V.Mesh.Topology.CellPermutationInfo()
	}
	var (
		coords = utils.NewMatrix(cmap.NumDofs(), gdim)
		X      = utils.NewMatrix(nPts, tdim)
		J      = utils.NewMatrices(nPts, gdim, tdim)
		K      = utils.NewMatrices(nPts, tdim, gdim)
		detJ   = make([]float64, nPts)
		Xp     = utils.NewMatrix(1, tdim)
	)
	for p, cell := range cells {
		if cell < 0 {
			continue
		}
		geom.CellCoordinates(cell, coords)
		xp := utils.NewMatrix(1, gdim, x.RawRow(p))
		if err = geometry.PullBack(cmap, J[p:p+1], K[p:p+1], detJ[p:p+1], xp, Xp, coords); err != nil {
			return
		}
		X.SetRow(p, Xp.RawRow(0))
	}

	var (
		_, _, _, rvs = blockSizes(el)
		tab          = utils.NewTensor4(el.TabulateShape(nd, nPts))
		pushFwd      = el.PushForward()
		transform    = el.DofTransformation()
	)
	el.Tabulate(nd, X, tab)
	for j := 0; j < tab.Shape[0]; j++ {
		for p, cell := range cells {
			if cell < 0 {
				continue
			}
			U := tab.MatrixView(j, p)
			transform(U.Data(), cellInfo, cell, rvs)
			pushFwd(basisValues.MatrixView(j, p), U, J[p], detJ[p], K[p])
		}
	}
	return
}
