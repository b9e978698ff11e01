package element

import (
	"fmt"
	"strings"

	"github.com/SarahRo/asimov-contact/geometry"
	"github.com/SarahRo/asimov-contact/utils"
)

type Family uint8

const (
	Lagrange Family = iota
	N1curl          // Nedelec first kind
	RT              // Raviart-Thomas
)

func (f Family) String() string {
	return [...]string{"Lagrange", "N1curl", "RT"}[f]
}

func NewFamily(name string) (f Family, err error) {
	switch strings.ToLower(name) {
	case "lagrange", "p", "cg":
		f = Lagrange
	case "n1curl", "nedelec":
		f = N1curl
	case "rt", "raviart-thomas":
		f = RT
	default:
		err = fmt.Errorf("%w: unknown element family %q", utils.ErrInvalidArgument, name)
	}
	return
}

type MapType uint8

const (
	IdentityMap MapType = iota
	CovariantPiola
	ContravariantPiola
)

// PushForwardFunc maps reference values U (dim x refValueSize) to physical
// values u (dim x valueSize).
type PushForwardFunc func(u, U, J utils.Matrix, detJ float64, K utils.Matrix)

// DofTransformFunc corrects reference values stored as (dof, width) rows for
// the orientation of cell, encoded in cellInfo.
type DofTransformFunc func(data []float64, cellInfo []uint32, cell int, width int)

// FiniteElement is a scalar or vector valued element, optionally repeated
// over blockSize components. Tabulation, value sizes and push-forward act on
// one block.
type FiniteElement struct {
	cell      CellType
	family    Family
	degree    int
	blockSize int
	lagrange  *LagrangeBasis
}

func NewFiniteElement(family Family, cell CellType, degree, blockSize int) (fe *FiniteElement, err error) {
	if blockSize < 1 {
		err = fmt.Errorf("%w: block size %d", utils.ErrInvalidArgument, blockSize)
		return
	}
	fe = &FiniteElement{
		cell:      cell,
		family:    family,
		degree:    degree,
		blockSize: blockSize,
	}
	switch family {
	case Lagrange:
		if fe.lagrange, err = NewLagrangeBasis(cell, degree); err != nil {
			return nil, err
		}
	case N1curl, RT:
		if cell != Triangle || degree != 1 {
			return nil, fmt.Errorf("%w: %v degree %d on %v", utils.ErrUnsupported, family, degree, cell)
		}
	}
	return
}

func (fe *FiniteElement) Cell() CellType { return fe.cell }
func (fe *FiniteElement) Family() Family { return fe.family }
func (fe *FiniteElement) Degree() int    { return fe.degree }
func (fe *FiniteElement) BlockSize() int { return fe.blockSize }

func (fe *FiniteElement) NumSubElements() int {
	if fe.blockSize > 1 {
		return fe.blockSize
	}
	return 0
}

func (fe *FiniteElement) dimPerBlock() int {
	if fe.family == Lagrange {
		return fe.lagrange.Dim()
	}
	return fe.cell.NumEdges()
}

func (fe *FiniteElement) valueSizePerBlock() int {
	if fe.family == Lagrange {
		return 1
	}
	return fe.cell.TopologicalDim()
}

func (fe *FiniteElement) SpaceDimension() int     { return fe.dimPerBlock() * fe.blockSize }
func (fe *FiniteElement) ValueSize() int          { return fe.valueSizePerBlock() * fe.blockSize }
func (fe *FiniteElement) ReferenceValueSize() int { return fe.valueSizePerBlock() * fe.blockSize }

func (fe *FiniteElement) MapType() MapType {
	switch fe.family {
	case N1curl:
		return CovariantPiola
	case RT:
		return ContravariantPiola
	}
	return IdentityMap
}

func (fe *FiniteElement) NeedsDofTransformations() bool {
	return fe.family != Lagrange
}

// TabulateShape is the shape of one block's reference tabulation
func (fe *FiniteElement) TabulateShape(nd, nPts int) [4]int {
	return [4]int{geometry.NumDerivatives(fe.cell.TopologicalDim(), nd), nPts,
		fe.dimPerBlock(), fe.valueSizePerBlock()}
}

// Tabulate evaluates one block's reference basis and its derivatives up to
// order nd at X.
func (fe *FiniteElement) Tabulate(nd int, X utils.Matrix, out utils.Tensor4) {
	if fe.family == Lagrange {
		fe.lagrange.Tabulate(nd, X, out)
		return
	}
	var (
		nPts, _ = X.Dims()
	)
	out.CheckShape(fe.TabulateShape(nd, nPts))
	out.Fill(0)
	for p := 0; p < nPts; p++ {
		x, y := X.At(p, 0), X.At(p, 1)
		// Nedelec: (-y, x), (y, 1-x), (1-y, x)
		val := [3][2]float64{{-y, x}, {y, 1 - x}, {1 - y, x}}
		dx := [3][2]float64{{0, 1}, {0, -1}, {0, 1}}
		dy := [3][2]float64{{-1, 0}, {1, 0}, {-1, 0}}
		if fe.family == RT {
			// Rotation of the Nedelec basis: (v, -u)
			for i := 0; i < 3; i++ {
				val[i] = [2]float64{val[i][1], -val[i][0]}
				dx[i] = [2]float64{dx[i][1], -dx[i][0]}
				dy[i] = [2]float64{dy[i][1], -dy[i][0]}
			}
		}
		for i := 0; i < 3; i++ {
			for c := 0; c < 2; c++ {
				out.Set(0, p, i, c, val[i][c])
				if nd > 0 {
					out.Set(1, p, i, c, dx[i][c])
					out.Set(2, p, i, c, dy[i][c])
				}
			}
		}
	}
}

// PushForward returns the map from reference to physical values
func (fe *FiniteElement) PushForward() PushForwardFunc {
	switch fe.MapType() {
	case CovariantPiola:
		return func(u, U, J utils.Matrix, detJ float64, K utils.Matrix) {
			u.M.Mul(U.M, K.M)
		}
	case ContravariantPiola:
		return func(u, U, J utils.Matrix, detJ float64, K utils.Matrix) {
			u.M.Mul(U.M, J.T())
			u.Scale(1. / detJ)
		}
	}
	return func(u, U, J utils.Matrix, detJ float64, K utils.Matrix) {
		u.CopyFrom(U)
	}
}

// DofTransformation returns the orientation correction of the reference
// basis. Edge dofs of degree 1 vector elements change sign on cells whose
// edge is reflected.
func (fe *FiniteElement) DofTransformation() DofTransformFunc {
	if !fe.NeedsDofTransformations() {
		return func(data []float64, cellInfo []uint32, cell int, width int) {}
	}
	nEdges := fe.cell.NumEdges()
	return func(data []float64, cellInfo []uint32, cell int, width int) {
		info := cellInfo[cell]
		for e := 0; e < nEdges; e++ {
			if info>>e&1 == 0 {
				continue
			}
			for i := e * width; i < (e+1)*width; i++ {
				data[i] = -data[i]
			}
		}
	}
}
