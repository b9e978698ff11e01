package fem

import (
	"fmt"

	"github.com/SarahRo/asimov-contact/element"
	"github.com/SarahRo/asimov-contact/mesh"
	"github.com/SarahRo/asimov-contact/utils"
)

// FiniteElement is the local basis of a function space. Tabulation and the
// value sizes of Tabulate/PushForward refer to a single block.
type FiniteElement interface {
	Cell() element.CellType
	Family() element.Family
	Degree() int
	BlockSize() int
	SpaceDimension() int
	ValueSize() int
	ReferenceValueSize() int
	NumSubElements() int
	NeedsDofTransformations() bool
	TabulateShape(nd, nPts int) [4]int
	Tabulate(nd int, X utils.Matrix, out utils.Tensor4)
	MapType() element.MapType
	PushForward() element.PushForwardFunc
	DofTransformation() element.DofTransformFunc
}

// DofMap maps local dofs of each cell to global dof nodes. Each node carries
// BlockSize values.
type DofMap struct {
	BlockSize int
	NumNodes  int
	cellDofs  [][]int
}

func (dm *DofMap) CellDofs(cell int) []int { return dm.cellDofs[cell] }

func (dm *DofMap) NumCells() int { return len(dm.cellDofs) }

type FunctionSpace struct {
	Mesh    *mesh.Mesh
	Element FiniteElement
	DofMap  *DofMap
}

func NewFunctionSpace(m *mesh.Mesh, el FiniteElement) (V *FunctionSpace, err error) {
	topo := m.Topology
	if el.Cell() != topo.Cell {
		err = fmt.Errorf("%w: %v element on a %v mesh", utils.ErrInvalidArgument, el.Cell(), topo.Cell)
		return
	}
	dm := &DofMap{
		BlockSize: el.BlockSize(),
		cellDofs:  make([][]int, topo.NumCells()),
	}
	switch el.Family() {
	case element.Lagrange:
		dm.NumNodes = topo.NumVertices
		for c, verts := range topo.Cells {
			dm.cellDofs[c] = append([]int{}, verts...)
		}
		if el.Degree() == 2 {
			for c, edges := range topo.CellEdges() {
				for _, e := range edges {
					dm.cellDofs[c] = append(dm.cellDofs[c], topo.NumVertices+e)
				}
			}
			dm.NumNodes += len(topo.Edges())
		}
	default:
		dm.NumNodes = len(topo.Edges())
		for c, edges := range topo.CellEdges() {
			dm.cellDofs[c] = append([]int{}, edges...)
		}
	}
	V = &FunctionSpace{Mesh: m, Element: el, DofMap: dm}
	return
}

// Function holds the coefficients of a field in a function space, BlockSize
// values per dof node.
type Function struct {
	Space *FunctionSpace
	X     []float64
	Name  string
}

func NewFunction(V *FunctionSpace, name ...string) (u *Function) {
	u = &Function{
		Space: V,
		X:     make([]float64, V.DofMap.NumNodes*V.DofMap.BlockSize),
		Name:  "unnamed",
	}
	if len(name) != 0 {
		u.Name = name[0]
	}
	return
}
