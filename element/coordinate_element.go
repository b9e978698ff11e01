package element

import (
	"fmt"

	"github.com/SarahRo/asimov-contact/geometry"
	"github.com/SarahRo/asimov-contact/utils"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultNewtonTol           = 1.e-8
	DefaultNewtonMaxIterations = 10
)

// CoordinateElement is the Lagrange geometric map of a mesh. Degree 1 maps
// on simplices are affine.
type CoordinateElement struct {
	*LagrangeBasis
	NewtonTol           float64
	NewtonMaxIterations int
}

func NewCoordinateElement(cell CellType, degree int) (ce *CoordinateElement, err error) {
	var lb *LagrangeBasis
	if lb, err = NewLagrangeBasis(cell, degree); err != nil {
		return
	}
	ce = &CoordinateElement{
		LagrangeBasis:       lb,
		NewtonTol:           DefaultNewtonTol,
		NewtonMaxIterations: DefaultNewtonMaxIterations,
	}
	return
}

var _ geometry.CoordinateMap = &CoordinateElement{}

func (ce *CoordinateElement) IsAffine() bool { return ce.Degree == 1 }

func (ce *CoordinateElement) TopologicalDim() int { return ce.Cell.TopologicalDim() }

func (ce *CoordinateElement) NumDofs() int { return ce.Dim() }

// PullBackNonAffine finds X with x(X) = x for each row of x, starting Newton
// iteration from the reference origin.
func (ce *CoordinateElement) PullBackNonAffine(X, x, coords utils.Matrix) (err error) {
	var (
		tdim       = ce.TopologicalDim()
		nPts, gdim = x.Dims()
		tab        = utils.NewTensor4(ce.TabulateShape(1, 1))
		Xk         = utils.NewMatrix(1, tdim)
		xk         = utils.NewMatrix(1, gdim)
		dphi       = utils.NewMatrix(tdim, ce.NumDofs())
		J          = utils.NewMatrix(gdim, tdim)
		K          = utils.NewMatrix(tdim, gdim)
		dX         = make([]float64, tdim)
	)
	for p := 0; p < nPts; p++ {
		Xk.Fill(0)
		var converged bool
		for k := 0; k < ce.NewtonMaxIterations; k++ {
			ce.Tabulate(1, Xk, tab)
			geometry.PushForwardPoints(tab, coords, xk)
			geometry.ShapeDerivatives(tab, 0, dphi)
			geometry.ComputeJacobian(dphi, coords, J)
			geometry.ComputeJacobianInverse(J, K)
			for i := 0; i < tdim; i++ {
				dX[i] = 0
				for j := 0; j < gdim; j++ {
					dX[i] += K.At(i, j) * (x.At(p, j) - xk.At(0, j))
				}
			}
			floats.Add(Xk.RawRow(0), dX)
			if floats.Norm(dX, 2) < ce.NewtonTol {
				converged = true
				break
			}
		}
		if !converged {
			err = fmt.Errorf("%w: point %d after %d iterations", utils.ErrNotConverged,
				p, ce.NewtonMaxIterations)
			return
		}
		X.SetRow(p, Xk.RawRow(0))
	}
	return
}
