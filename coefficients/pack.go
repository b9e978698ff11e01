package coefficients

import (
	"fmt"
	"runtime"

	"github.com/SarahRo/asimov-contact/element"
	"github.com/SarahRo/asimov-contact/fem"
	"github.com/SarahRo/asimov-contact/geometry"
	"github.com/SarahRo/asimov-contact/mesh"
	"github.com/SarahRo/asimov-contact/quadrature"
	"github.com/SarahRo/asimov-contact/types"
	"github.com/SarahRo/asimov-contact/utils"
)

// Entity counts from which packing is split over goroutines
var ParallelThreshold = 512

func newRule(m *mesh.Mesh, qDegree int, integral types.IntegralType) (*quadrature.Rule, error) {
	tdim := m.Topology.Dim()
	switch integral {
	case types.Cell:
		return quadrature.NewRule(m.Topology.Cell, qDegree, tdim)
	case types.ExteriorFacet:
		return quadrature.NewRule(m.Topology.Cell, qDegree, tdim-1)
	}
	return nil, fmt.Errorf("%w: integral type %v", utils.ErrUnsupported, integral)
}

// forEachEntity calls pack over [0, n), split over goroutines for large n.
// Each call owns the range it is given.
func forEachEntity(n int, pack func(kMin, kMax int)) {
	if n < ParallelThreshold {
		pack(0, n)
		return
	}
	pm := utils.NewPartitionMap(runtime.NumCPU(), n)
	pm.ForEach(func(_, kMin, kMax int) { pack(kMin, kMax) })
}

// shapeDerivatives tabulates the first derivatives of the geometric map at
// every quadrature point of every local entity, as [entity][point](tdim x nodes).
func shapeDerivatives(cmap geometry.CoordinateMap, qr *quadrature.Rule) (dphi [][]utils.Matrix) {
	var (
		tdim  = cmap.TopologicalDim()
		nDofs = cmap.NumDofs()
		nq    = qr.NumPoints()
	)
	dphi = make([][]utils.Matrix, qr.NumEntities())
	for e, pts := range qr.Points {
		tab := utils.NewTensor4(cmap.TabulateShape(1, nq))
		cmap.Tabulate(1, pts, tab)
		dphi[e] = utils.NewMatrices(nq, tdim, nDofs)
		for q := 0; q < nq; q++ {
			geometry.ShapeDerivatives(tab, q, dphi[e][q])
		}
	}
	return
}

// PackCoefficientQuadrature evaluates u at the quadrature points of degree
// qDegree on each active entity. Entities are cells or exterior facets,
// following integral. Values are stored per entity, point, block and value
// component:
//
//	coeffs[cstride*i + q*(bs*vs) + k*vs + j], cstride = vs*bs*nq
func PackCoefficientQuadrature(u *fem.Function, qDegree int, integral types.IntegralType,
	entities []int) (coeffs []float64, cstride int, err error) {
	var (
		V  = u.Space
		m  = V.Mesh
		qr *quadrature.Rule
	)
	if qr, err = newRule(m, qDegree, integral); err != nil {
		return
	}
	var active []types.ActiveEntity
	if active, err = ActiveEntities(m, integral, entities); err != nil {
		return
	}
	var (
		el      = V.Element
		dofmap  = V.DofMap
		data    = u.X
		bs      = dofmap.BlockSize
		dim     = el.SpaceDimension() / el.BlockSize()
		vs      = el.ValueSize() / el.BlockSize()
		rvs     = el.ReferenceValueSize() / el.BlockSize()
		nq      = qr.NumPoints()
		refVals = make([]utils.Tensor4, qr.NumEntities())
	)
	for e, pts := range qr.Points {
		refVals[e] = utils.NewTensor4(el.TabulateShape(0, nq))
		el.Tabulate(0, pts, refVals[e])
	}
	cstride = vs * bs * nq
	coeffs = make([]float64, len(active)*cstride)

	if !el.NeedsDofTransformations() {
		forEachEntity(len(active), func(kMin, kMax int) {
			for i := kMin; i < kMax; i++ {
				var (
					ae   = active[i]
					ref  = refVals[ae.LocalIndex]
					dofs = dofmap.CellDofs(ae.Cell)
				)
				for d, dof := range dofs {
					for q := 0; q < nq; q++ {
						for k := 0; k < bs; k++ {
							for l := 0; l < vs; l++ {
								coeffs[cstride*i+q*(bs*vs)+k*vs+l] += ref.At(0, q, d, l) * data[bs*dof+k]
							}
						}
					}
				}
			}
		})
		return
	}

	var (
		geom      = m.Geometry
		cmap      = geom.CMap
		strategy  = geometry.NewStrategy(cmap)
		tdim      = cmap.TopologicalDim()
		gdim      = geom.Dim
		dphi      = shapeDerivatives(cmap, qr)
		cellInfo  = m.Topology.CellPermutationInfo()
		pushFwd   = el.PushForward()
		transform = el.DofTransformation()
	)
	forEachEntity(len(active), func(kMin, kMax int) {
		var (
			coords = utils.NewMatrix(cmap.NumDofs(), gdim)
			J      = utils.NewMatrix(gdim, tdim)
			K      = utils.NewMatrix(tdim, gdim)
			U      = utils.NewMatrix(dim, rvs)
			phys   = utils.NewMatrix(dim, vs)
			detJ   float64
		)
		for i := kMin; i < kMax; i++ {
			var (
				ae   = active[i]
				dofs = dofmap.CellDofs(ae.Cell)
			)
			geom.CellCoordinates(ae.Cell, coords)
			for q := 0; q < nq; q++ {
				if q == 0 || strategy == geometry.NonAffine {
					geometry.ComputeJacobian(dphi[ae.LocalIndex][q], coords, J)
					geometry.ComputeJacobianInverse(J, K)
					detJ = geometry.ComputeJacobianDeterminant(J)
				}
				copy(U.Data(), refVals[ae.LocalIndex].Slice(0, q))
				transform(U.Data(), cellInfo, ae.Cell, rvs)
				pushFwd(phys, U, J, detJ, K)
				for d, dof := range dofs {
					for k := 0; k < bs; k++ {
						for j := 0; j < vs; j++ {
							coeffs[cstride*i+q*(bs*vs)+k*vs+j] += phys.At(d, j) * data[bs*dof+k]
						}
					}
				}
			}
		}
	})
	return
}

// PackGradientQuadrature evaluates the physical gradient of u at the
// quadrature points of each active entity, stored per entity, point, block,
// value component and spatial direction:
//
//	coeffs[cstride*i + q*(bs*vs*gdim) + (k*vs+l)*gdim + c], cstride = bs*vs*gdim*nq
//
// Only identity mapped elements are supported.
func PackGradientQuadrature(u *fem.Function, qDegree int, integral types.IntegralType,
	entities []int) (coeffs []float64, cstride int, err error) {
	var (
		V  = u.Space
		m  = V.Mesh
		el = V.Element
		qr *quadrature.Rule
	)
	if el.MapType() != element.IdentityMap {
		err = fmt.Errorf("%w: gradients of %v elements", utils.ErrUnsupported, el.Family())
		return
	}
	if qr, err = newRule(m, qDegree, integral); err != nil {
		return
	}
	var active []types.ActiveEntity
	if active, err = ActiveEntities(m, integral, entities); err != nil {
		return
	}
	var (
		geom     = m.Geometry
		cmap     = geom.CMap
		strategy = geometry.NewStrategy(cmap)
		tdim     = cmap.TopologicalDim()
		gdim     = geom.Dim
		dofmap   = V.DofMap
		data     = u.X
		bs       = dofmap.BlockSize
		vs       = el.ValueSize() / el.BlockSize()
		nq       = qr.NumPoints()
		refVals  = make([]utils.Tensor4, qr.NumEntities())
		dphi     = shapeDerivatives(cmap, qr)
	)
	for e, pts := range qr.Points {
		refVals[e] = utils.NewTensor4(el.TabulateShape(1, nq))
		el.Tabulate(1, pts, refVals[e])
	}
	cstride = bs * vs * gdim * nq
	coeffs = make([]float64, len(active)*cstride)
	forEachEntity(len(active), func(kMin, kMax int) {
		var (
			coords = utils.NewMatrix(cmap.NumDofs(), gdim)
			J      = utils.NewMatrix(gdim, tdim)
			K      = utils.NewMatrix(tdim, gdim)
			grad   = make([]float64, gdim)
		)
		for i := kMin; i < kMax; i++ {
			var (
				ae   = active[i]
				ref  = refVals[ae.LocalIndex]
				dofs = dofmap.CellDofs(ae.Cell)
			)
			geom.CellCoordinates(ae.Cell, coords)
			for q := 0; q < nq; q++ {
				if q == 0 || strategy == geometry.NonAffine {
					geometry.ComputeJacobian(dphi[ae.LocalIndex][q], coords, J)
					geometry.ComputeJacobianInverse(J, K)
				}
				for d, dof := range dofs {
					for l := 0; l < vs; l++ {
						// grad = K^T dphi/dX
						for c := 0; c < gdim; c++ {
							grad[c] = 0
							for r := 0; r < tdim; r++ {
								grad[c] += K.At(r, c) * ref.At(1+r, q, d, l)
							}
						}
						for k := 0; k < bs; k++ {
							base := cstride*i + q*(bs*vs*gdim) + (k*vs+l)*gdim
							for c := 0; c < gdim; c++ {
								coeffs[base+c] += grad[c] * data[bs*dof+k]
							}
						}
					}
				}
			}
		}
	})
	return
}

// PackCircumradius computes the circumradius of the cell owning each active
// facet, from the jacobian at the facet midpoint. Only affine geometries are
// supported.
func PackCircumradius(m *mesh.Mesh, activeFacets []types.ActiveEntity) (R []float64, cstride int, err error) {
	var (
		geom = m.Geometry
		cmap = geom.CMap
		tdim = cmap.TopologicalDim()
		gdim = geom.Dim
		qr   *quadrature.Rule
	)
	if !cmap.IsAffine() {
		err = fmt.Errorf("%w: circumradius of non-affine cells", utils.ErrUnsupported)
		return
	}
	if qr, err = quadrature.NewRule(m.Topology.Cell, 0, tdim-1); err != nil {
		return
	}
	var (
		dphi   = shapeDerivatives(cmap, qr)
		coords = utils.NewMatrix(cmap.NumDofs(), gdim)
		J      = utils.NewMatrix(gdim, tdim)
	)
	cstride = 1
	R = make([]float64, len(activeFacets))
	for i, af := range activeFacets {
		geom.CellCoordinates(af.Cell, coords)
		geometry.ComputeJacobian(dphi[af.LocalIndex][0], coords, J)
		if R[i], err = geometry.ComputeCircumradius(tdim, geometry.ComputeJacobianDeterminant(J), coords); err != nil {
			return nil, 0, err
		}
	}
	return
}
