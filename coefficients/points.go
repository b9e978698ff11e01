package coefficients

import (
	"github.com/SarahRo/asimov-contact/geometry"
	"github.com/SarahRo/asimov-contact/mesh"
	"github.com/SarahRo/asimov-contact/quadrature"
	"github.com/SarahRo/asimov-contact/types"
	"github.com/SarahRo/asimov-contact/utils"
)

// PackPhysicalPoints maps the quadrature points of degree qDegree on each
// active entity to physical space, stored as x[cstride*i + q*gdim + c] with
// cstride = nq*gdim.
func PackPhysicalPoints(m *mesh.Mesh, qDegree int, integral types.IntegralType,
	entities []int) (x []float64, cstride int, err error) {
	var (
		qr     *quadrature.Rule
		active []types.ActiveEntity
	)
	if qr, err = newRule(m, qDegree, integral); err != nil {
		return
	}
	if active, err = ActiveEntities(m, integral, entities); err != nil {
		return
	}
	var (
		geom   = m.Geometry
		cmap   = geom.CMap
		gdim   = geom.Dim
		nq     = qr.NumPoints()
		tabs   = make([]utils.Tensor4, qr.NumEntities())
		coords = utils.NewMatrix(cmap.NumDofs(), gdim)
	)
	for e, pts := range qr.Points {
		tabs[e] = utils.NewTensor4(cmap.TabulateShape(0, nq))
		cmap.Tabulate(0, pts, tabs[e])
	}
	cstride = nq * gdim
	x = make([]float64, len(active)*cstride)
	for i, ae := range active {
		geom.CellCoordinates(ae.Cell, coords)
		geometry.PushForwardPoints(tabs[ae.LocalIndex], coords,
			utils.NewMatrix(nq, gdim, x[i*cstride:(i+1)*cstride]))
	}
	return
}
