package mesh

import (
	"fmt"

	"github.com/SarahRo/asimov-contact/element"
	"github.com/SarahRo/asimov-contact/geometry"
	"github.com/SarahRo/asimov-contact/utils"
)

// Geometry holds the coordinates of the geometry nodes, stored with stride 3
// regardless of Dim, and the nodes of each cell.
type Geometry struct {
	X      []float64
	Dofmap [][]int
	CMap   *element.CoordinateElement
	Dim    int
}

func (g *Geometry) NumNodes() int { return len(g.X) / 3 }

func (g *Geometry) NumDofsPerCell() int { return g.CMap.NumDofs() }

// CellCoordinates gathers the geometry nodes of cell into coords (nodes x Dim)
func (g *Geometry) CellCoordinates(cell int, coords utils.Matrix) {
	geometry.CellCoordinates(g.X, g.Dofmap[cell], coords)
}

type Mesh struct {
	Geometry *Geometry
	Topology *Topology
}

// NewMesh builds a mesh from vertex coordinates x (nverts x gdim, row major)
// and cell vertices. Degree 2 geometry adds a node at the midpoint of every
// edge, numbered after the vertices.
func NewMesh(cell element.CellType, degree, gdim int, x []float64, cells [][]int) (m *Mesh, err error) {
	var (
		cmap *element.CoordinateElement
		tdim = cell.TopologicalDim()
	)
	if gdim < tdim || gdim > 3 {
		err = fmt.Errorf("%w: geometric dimension %d for a %v mesh", utils.ErrInvalidArgument, gdim, cell)
		return
	}
	if len(x)%gdim != 0 {
		err = fmt.Errorf("%w: %d coordinates do not divide into dimension %d", utils.ErrInvalidArgument, len(x), gdim)
		return
	}
	if cmap, err = element.NewCoordinateElement(cell, degree); err != nil {
		return
	}
	var (
		nv   = len(x) / gdim
		topo = NewTopology(cell, cells)
	)
	for c, verts := range cells {
		if len(verts) != cell.NumVertices() {
			err = fmt.Errorf("%w: cell %d has %d vertices, need %d", utils.ErrInvalidArgument,
				c, len(verts), cell.NumVertices())
			return
		}
	}
	if topo.NumVertices > nv {
		err = fmt.Errorf("%w: cells reference vertex %d of %d", utils.ErrInvalidArgument, topo.NumVertices-1, nv)
		return
	}
	geom := &Geometry{CMap: cmap, Dim: gdim}
	nNodes := nv
	if degree == 2 {
		nNodes += len(topo.Edges())
	}
	geom.X = make([]float64, 3*nNodes)
	for v := 0; v < nv; v++ {
		copy(geom.X[3*v:3*v+gdim], x[v*gdim:(v+1)*gdim])
	}
	geom.Dofmap = make([][]int, len(cells))
	for c, verts := range cells {
		geom.Dofmap[c] = append(make([]int, 0, cmap.NumDofs()), verts...)
	}
	if degree == 2 {
		for e, key := range topo.Edges() {
			ev := key.GetVertices(false)
			for j := 0; j < gdim; j++ {
				geom.X[3*(nv+e)+j] = 0.5 * (geom.X[3*ev[0]+j] + geom.X[3*ev[1]+j])
			}
		}
		for c, edges := range topo.CellEdges() {
			for _, e := range edges {
				geom.Dofmap[c] = append(geom.Dofmap[c], nv+e)
			}
		}
	}
	m = &Mesh{Geometry: geom, Topology: topo}
	return
}

// Transform applies f to the coordinates of every geometry node
func (m *Mesh) Transform(f func(x []float64)) {
	for n := 0; n < m.Geometry.NumNodes(); n++ {
		f(m.Geometry.X[3*n : 3*n+3])
	}
}
