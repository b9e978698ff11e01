package fem

import (
	"github.com/SarahRo/asimov-contact/element"
	"github.com/SarahRo/asimov-contact/geometry"
	"github.com/SarahRo/asimov-contact/utils"
)

// Interpolate sets the coefficients of u from f, which writes the field value
// at x into val. Blocks of val are stored block after block, each with the
// element's per block value size.
//
// Lagrange coefficients are point values at the nodes. Edge element
// coefficients are the tangential (N1curl) or normal (RT) component at the
// edge midpoint, against the edge vector running from its lower to its higher
// numbered vertex.
func (u *Function) Interpolate(f func(x, val []float64)) (err error) {
	var (
		V    = u.Space
		el   = V.Element
		m    = V.Mesh
		geom = m.Geometry
		topo = m.Topology
		gdim = geom.Dim
		bs   = el.BlockSize()
		vs   = el.ValueSize() / bs
		val  = make([]float64, bs*vs)
	)
	if el.Family() == element.Lagrange {
		var (
			lb     *element.LagrangeBasis
			coords = utils.NewMatrix(geom.NumDofsPerCell(), gdim)
		)
		if lb, err = element.NewLagrangeBasis(el.Cell(), el.Degree()); err != nil {
			return
		}
		var (
			nPts, _ = lb.Nodes.Dims()
			tab     = utils.NewTensor4(geom.CMap.TabulateShape(0, nPts))
			x       = utils.NewMatrix(nPts, gdim)
		)
		geom.CMap.Tabulate(0, lb.Nodes, tab)
		for c := 0; c < topo.NumCells(); c++ {
			geom.CellCoordinates(c, coords)
			geometry.PushForwardPoints(tab, coords, x)
			for i, d := range V.DofMap.CellDofs(c) {
				f(x.RawRow(i), val)
				copy(u.X[d*bs:(d+1)*bs], val)
			}
		}
		return
	}
	var (
		mid = make([]float64, gdim)
		dir = make([]float64, gdim)
	)
	for e, key := range topo.Edges() {
		ev := key.GetVertices(false)
		for j := 0; j < gdim; j++ {
			a, b := geom.X[3*ev[0]+j], geom.X[3*ev[1]+j]
			mid[j] = 0.5 * (a + b)
			dir[j] = b - a
		}
		if el.Family() == element.RT {
			dir[0], dir[1] = dir[1], -dir[0]
		}
		f(mid, val)
		for b := 0; b < bs; b++ {
			var dot float64
			for j := 0; j < vs; j++ {
				dot += val[b*vs+j] * dir[j]
			}
			u.X[e*bs+b] = dot
		}
	}
	return
}
