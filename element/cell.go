package element

import (
	"fmt"
	"math"
	"strings"

	"github.com/SarahRo/asimov-contact/utils"
)

// CellType represents the supported reference simplices
type CellType uint8

const (
	Point CellType = iota
	Interval
	Triangle
	Tetrahedron
)

func (c CellType) String() string {
	names := []string{"Point", "Interval", "Triangle", "Tetrahedron"}
	if int(c) < len(names) {
		return names[c]
	}
	return "Invalid"
}

func NewCellType(name string) (c CellType, err error) {
	switch strings.ToLower(name) {
	case "point":
		c = Point
	case "interval", "line":
		c = Interval
	case "triangle", "tri":
		c = Triangle
	case "tetrahedron", "tet":
		c = Tetrahedron
	default:
		err = fmt.Errorf("%w: unknown cell type %q", utils.ErrInvalidArgument, name)
	}
	return
}

// TopologicalDim returns the dimension of the reference cell
func (c CellType) TopologicalDim() int { return int(c) }

func (c CellType) NumVertices() int { return int(c) + 1 }

func (c CellType) NumFacets() int {
	if c == Point {
		return 0
	}
	return int(c) + 1
}

func (c CellType) NumEdges() int { return len(c.EdgeVertices()) }

// FacetType returns the cell type of the facets of c
func (c CellType) FacetType() CellType {
	if c == Point {
		panic(fmt.Errorf("a point has no facets"))
	}
	return c - 1
}

// ReferenceVertices returns the vertex coordinates of the reference cell, one
// row per vertex.
func (c CellType) ReferenceVertices() utils.Matrix {
	switch c {
	case Interval:
		return utils.NewMatrix(2, 1, []float64{0, 1})
	case Triangle:
		return utils.NewMatrix(3, 2, []float64{
			0, 0,
			1, 0,
			0, 1,
		})
	case Tetrahedron:
		return utils.NewMatrix(4, 3, []float64{
			0, 0, 0,
			1, 0, 0,
			0, 1, 0,
			0, 0, 1,
		})
	}
	panic(fmt.Errorf("no reference vertices for %v", c))
}

// FacetVertices returns the local vertices of each facet. Facet i of a
// simplex is the one opposite vertex i.
func (c CellType) FacetVertices() [][]int {
	switch c {
	case Interval:
		return [][]int{{0}, {1}}
	case Triangle:
		return [][]int{{1, 2}, {0, 2}, {0, 1}}
	case Tetrahedron:
		return [][]int{{1, 2, 3}, {0, 2, 3}, {0, 1, 3}, {0, 1, 2}}
	}
	return nil
}

// EdgeVertices returns the local vertices of each edge
func (c CellType) EdgeVertices() [][]int {
	switch c {
	case Interval:
		return [][]int{{0, 1}}
	case Triangle:
		return [][]int{{1, 2}, {0, 2}, {0, 1}}
	case Tetrahedron:
		return [][]int{{2, 3}, {1, 3}, {1, 2}, {0, 3}, {0, 2}, {0, 1}}
	}
	return nil
}

// ReferenceFacetNormals returns the outward unit normal of each facet of the
// reference cell, one row per facet.
func (c CellType) ReferenceFacetNormals() utils.Matrix {
	switch c {
	case Interval:
		return utils.NewMatrix(2, 1, []float64{-1, 1})
	case Triangle:
		s := 1. / math.Sqrt2
		return utils.NewMatrix(3, 2, []float64{
			s, s,
			-1, 0,
			0, -1,
		})
	case Tetrahedron:
		s := 1. / math.Sqrt(3)
		return utils.NewMatrix(4, 3, []float64{
			s, s, s,
			-1, 0, 0,
			0, -1, 0,
			0, 0, -1,
		})
	}
	panic(fmt.Errorf("no facet normals for %v", c))
}

// FacetJacobians returns for each facet the (tdim x tdim-1) jacobian of the
// map from the reference facet to the facet of the reference cell. Facets of
// an interval are points and carry an empty matrix.
func (c CellType) FacetJacobians() (Jf []utils.Matrix) {
	var (
		tdim  = c.TopologicalDim()
		verts = c.ReferenceVertices()
	)
	Jf = make([]utils.Matrix, c.NumFacets())
	if tdim == 1 {
		return
	}
	for f, fv := range c.FacetVertices() {
		Jf[f] = utils.NewMatrix(tdim, tdim-1)
		for k := 1; k < len(fv); k++ {
			for i := 0; i < tdim; i++ {
				Jf[f].Set(i, k-1, verts.At(fv[k], i)-verts.At(fv[0], i))
			}
		}
	}
	return
}

// MapFacetPoints maps points s on the reference facet (nPts x tdim-1) onto
// local facet f of the reference cell. Facets of an interval are single
// points and s is ignored.
func (c CellType) MapFacetPoints(f int, s utils.Matrix) (X utils.Matrix) {
	var (
		tdim  = c.TopologicalDim()
		verts = c.ReferenceVertices()
		fv    = c.FacetVertices()[f]
	)
	if tdim == 1 {
		return utils.NewMatrix(1, 1, []float64{verts.At(fv[0], 0)})
	}
	nPts, _ := s.Dims()
	X = utils.NewMatrix(nPts, tdim)
	for p := 0; p < nPts; p++ {
		for i := 0; i < tdim; i++ {
			val := verts.At(fv[0], i)
			for k := 1; k < len(fv); k++ {
				val += s.At(p, k-1) * (verts.At(fv[k], i) - verts.At(fv[0], i))
			}
			X.Set(p, i, val)
		}
	}
	return
}

// ReferenceVolume returns the measure of the reference cell
func (c CellType) ReferenceVolume() float64 {
	switch c {
	case Triangle:
		return 0.5
	case Tetrahedron:
		return 1. / 6.
	}
	return 1
}
