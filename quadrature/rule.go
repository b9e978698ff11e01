package quadrature

import (
	"fmt"

	"github.com/SarahRo/asimov-contact/element"
	"github.com/SarahRo/asimov-contact/utils"
)

// Rule holds quadrature points and weights on the local entities of dimension
// Dim of a reference cell. Points are in the cell's reference coordinates,
// one set per entity: a single set for the cell itself, one per local facet
// otherwise. Weights refer to the entity's own reference measure.
type Rule struct {
	Cell    element.CellType
	Degree  int
	Dim     int
	Points  []utils.Matrix
	Weights [][]float64
}

func NewRule(cell element.CellType, degree, dim int) (qr *Rule, err error) {
	var (
		tdim = cell.TopologicalDim()
	)
	if degree < 0 {
		err = fmt.Errorf("%w: quadrature degree %d", utils.ErrInvalidArgument, degree)
		return
	}
	qr = &Rule{Cell: cell, Degree: degree, Dim: dim}
	switch dim {
	case tdim:
		pts, w := SimplexRule(cell, degree)
		qr.Points = []utils.Matrix{pts}
		qr.Weights = [][]float64{w}
	case tdim - 1:
		var (
			pts utils.Matrix
			w   []float64
		)
		if dim == 0 {
			w = []float64{1}
		} else {
			pts, w = SimplexRule(cell.FacetType(), degree)
		}
		for f := 0; f < cell.NumFacets(); f++ {
			qr.Points = append(qr.Points, cell.MapFacetPoints(f, pts))
			qr.Weights = append(qr.Weights, w)
		}
	default:
		err = fmt.Errorf("%w: quadrature on entities of dimension %d of a %v",
			utils.ErrUnsupported, dim, cell)
		qr = nil
	}
	return
}

func (qr *Rule) NumEntities() int { return len(qr.Points) }

// NumPoints returns the number of points per entity
func (qr *Rule) NumPoints() int { return len(qr.Weights[0]) }

// SimplexRule returns a collapsed Gauss-Jacobi rule exact for polynomials of
// the given degree on the reference simplex.
func SimplexRule(cell element.CellType, degree int) (pts utils.Matrix, w []float64) {
	m := (degree + 2) / 2
	switch cell {
	case element.Interval:
		xa, wa := JacobiGQ(0, 0, m-1)
		pts = utils.NewMatrix(m, 1)
		w = make([]float64, m)
		for i := range xa {
			pts.Set(i, 0, 0.5*(1+xa[i]))
			w[i] = 0.5 * wa[i]
		}
	case element.Triangle:
		var (
			xa, wa = JacobiGQ(0, 0, m-1)
			xb, wb = JacobiGQ(1, 0, m-1)
		)
		pts = utils.NewMatrix(m*m, 2)
		w = make([]float64, m*m)
		var ip int
		for i := range xa {
			for j := range xb {
				pts.Set(ip, 0, 0.25*(1+xa[i])*(1-xb[j]))
				pts.Set(ip, 1, 0.5*(1+xb[j]))
				w[ip] = wa[i] * wb[j] / 8
				ip++
			}
		}
	case element.Tetrahedron:
		var (
			xa, wa = JacobiGQ(0, 0, m-1)
			xb, wb = JacobiGQ(1, 0, m-1)
			xc, wc = JacobiGQ(2, 0, m-1)
		)
		pts = utils.NewMatrix(m*m*m, 3)
		w = make([]float64, m*m*m)
		var ip int
		for i := range xa {
			for j := range xb {
				for k := range xc {
					pts.Set(ip, 0, 0.125*(1+xa[i])*(1-xb[j])*(1-xc[k]))
					pts.Set(ip, 1, 0.25*(1+xb[j])*(1-xc[k]))
					pts.Set(ip, 2, 0.5*(1+xc[k]))
					w[ip] = wa[i] * wb[j] * wc[k] / 64
					ip++
				}
			}
		}
	default:
		panic(fmt.Errorf("no quadrature rule for %v", cell))
	}
	return
}
