package element

import (
	"fmt"

	"github.com/SarahRo/asimov-contact/geometry"
	"github.com/SarahRo/asimov-contact/utils"
)

// LagrangeBasis is the nodal basis of degree 1 or 2 on a simplex, built by
// inverting the monomial Vandermonde matrix at the nodes. Nodes are the
// vertices followed by the edge midpoints, in local edge order.
type LagrangeBasis struct {
	Cell   CellType
	Degree int
	Nodes  utils.Matrix // Np x tdim
	exps   [][3]int     // Monomial exponents
	coeffs utils.Matrix // Row j holds the monomial j coefficient of each basis
}

func NewLagrangeBasis(cell CellType, degree int) (lb *LagrangeBasis, err error) {
	if cell == Point || degree < 1 || degree > 2 {
		err = fmt.Errorf("%w: lagrange degree %d on %v", utils.ErrUnsupported, degree, cell)
		return
	}
	var (
		tdim = cell.TopologicalDim()
	)
	lb = &LagrangeBasis{
		Cell:   cell,
		Degree: degree,
		Nodes:  lagrangeNodes(cell, degree),
		exps:   geometry.DerivativeMultiIndices(tdim, degree),
	}
	Np := len(lb.exps)
	V := utils.NewMatrix(Np, Np)
	for i := 0; i < Np; i++ {
		for j, e := range lb.exps {
			V.Set(i, j, monomial(lb.Nodes.RawRow(i), e, [3]int{}))
		}
	}
	if lb.coeffs, err = V.Inverse(); err != nil {
		return nil, err
	}
	lb.coeffs.SetReadOnly("lagrange coefficients")
	lb.Nodes.SetReadOnly("lagrange nodes")
	return
}

func lagrangeNodes(cell CellType, degree int) (R utils.Matrix) {
	var (
		tdim  = cell.TopologicalDim()
		verts = cell.ReferenceVertices()
		edges = cell.EdgeVertices()
		nv    = cell.NumVertices()
		Np    = nv
	)
	if degree == 2 {
		Np += len(edges)
	}
	R = utils.NewMatrix(Np, tdim)
	for v := 0; v < nv; v++ {
		R.SetRow(v, verts.RawRow(v))
	}
	if degree == 2 {
		for e, ev := range edges {
			for i := 0; i < tdim; i++ {
				R.Set(nv+e, i, 0.5*(verts.At(ev[0], i)+verts.At(ev[1], i)))
			}
		}
	}
	return
}

// monomial evaluates the derivative d of x^e at X.
func monomial(X []float64, e, d [3]int) (val float64) {
	val = 1
	for i := 0; i < len(X); i++ {
		if d[i] > e[i] {
			return 0
		}
		for k := 0; k < d[i]; k++ {
			val *= float64(e[i] - k)
		}
		val *= utils.POW(X[i], e[i]-d[i])
	}
	return
}

func (lb *LagrangeBasis) Dim() int { return len(lb.exps) }

func (lb *LagrangeBasis) TabulateShape(nd, nPts int) [4]int {
	return [4]int{geometry.NumDerivatives(lb.Cell.TopologicalDim(), nd), nPts, lb.Dim(), 1}
}

// Tabulate evaluates the basis and its derivatives up to order nd at the
// points X (nPts x tdim).
func (lb *LagrangeBasis) Tabulate(nd int, X utils.Matrix, out utils.Tensor4) {
	var (
		tdim    = lb.Cell.TopologicalDim()
		nPts, _ = X.Dims()
		derivs  = geometry.DerivativeMultiIndices(tdim, nd)
		Np      = lb.Dim()
		m       = make([]float64, Np)
		c       = lb.coeffs.Data()
	)
	out.CheckShape(lb.TabulateShape(nd, nPts))
	for k, d := range derivs {
		for p := 0; p < nPts; p++ {
			Xp := X.RawRow(p)
			for j, e := range lb.exps {
				m[j] = monomial(Xp, e, d)
			}
			for i := 0; i < Np; i++ {
				var sum float64
				for j := 0; j < Np; j++ {
					sum += c[j*Np+i] * m[j]
				}
				out.Set(k, p, i, 0, sum)
			}
		}
	}
}
