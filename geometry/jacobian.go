package geometry

import (
	"fmt"
	"math"

	"github.com/SarahRo/asimov-contact/utils"
	"gonum.org/v1/gonum/mat"
)

// ComputeJacobian computes J = coords^T dphi^T, (gdim x tdim).
func ComputeJacobian(dphi, coords, J utils.Matrix) {
	J.M.Mul(coords.T(), dphi.T())
}

// ComputeJacobianInverse computes K, the inverse of J for square J and the
// pseudo-inverse (J^T J)^-1 J^T otherwise.
func ComputeJacobianInverse(J, K utils.Matrix) {
	var (
		gdim, tdim = J.Dims()
		j          = J.Data()
		k          = K.Data()
	)
	if gdim == tdim {
		switch tdim {
		case 1:
			k[0] = 1. / j[0]
		case 2:
			idet := 1. / (j[0]*j[3] - j[1]*j[2])
			k[0], k[1] = idet*j[3], -idet*j[1]
			k[2], k[3] = -idet*j[2], idet*j[0]
		case 3:
			w0 := j[4]*j[8] - j[5]*j[7]
			w1 := j[3]*j[8] - j[5]*j[6]
			w2 := j[3]*j[7] - j[4]*j[6]
			idet := 1. / (j[0]*w0 - j[1]*w1 + j[2]*w2)
			k[0] = w0 * idet
			k[1] = (j[2]*j[7] - j[1]*j[8]) * idet
			k[2] = (j[1]*j[5] - j[2]*j[4]) * idet
			k[3] = -w1 * idet
			k[4] = (j[0]*j[8] - j[2]*j[6]) * idet
			k[5] = (j[2]*j[3] - j[0]*j[5]) * idet
			k[6] = w2 * idet
			k[7] = (j[1]*j[6] - j[0]*j[7]) * idet
			k[8] = (j[0]*j[4] - j[1]*j[3]) * idet
		default:
			if err := K.M.Inverse(J.M); err != nil {
				panic(fmt.Errorf("unable to invert jacobian: %v", err))
			}
		}
		return
	}
	// Manifold: K = (J^T J)^-1 J^T
	var (
		JtJ  = mat.NewDense(tdim, tdim, nil)
		JtJi = mat.NewDense(tdim, tdim, nil)
	)
	JtJ.Mul(J.T(), J.M)
	switch tdim {
	case 1:
		JtJi.Set(0, 0, 1./JtJ.At(0, 0))
	case 2:
		a, b, c, d := JtJ.At(0, 0), JtJ.At(0, 1), JtJ.At(1, 0), JtJ.At(1, 1)
		idet := 1. / (a*d - b*c)
		JtJi.Set(0, 0, d*idet)
		JtJi.Set(0, 1, -b*idet)
		JtJi.Set(1, 0, -c*idet)
		JtJi.Set(1, 1, a*idet)
	default:
		panic(fmt.Errorf("pseudo-inverse not supported for %dx%d jacobian", gdim, tdim))
	}
	K.M.Mul(JtJi, J.T())
}

// ComputeJacobianDeterminant returns det(J) for square J and the
// pseudo-determinant sqrt(det(J^T J)) otherwise.
func ComputeJacobianDeterminant(J utils.Matrix) float64 {
	var (
		gdim, tdim = J.Dims()
		j          = J.Data()
	)
	if gdim == tdim {
		switch tdim {
		case 1:
			return j[0]
		case 2:
			return j[0]*j[3] - j[1]*j[2]
		case 3:
			return j[0]*(j[4]*j[8]-j[5]*j[7]) - j[1]*(j[3]*j[8]-j[5]*j[6]) + j[2]*(j[3]*j[7]-j[4]*j[6])
		default:
			return mat.Det(J.M)
		}
	}
	if tdim == 0 {
		return 1
	}
	JtJ := mat.NewDense(tdim, tdim, nil)
	JtJ.Mul(J.T(), J.M)
	return math.Sqrt(mat.Det(JtJ))
}

// PullBackAffine computes X = K (x - x0) for every row of x.
func PullBackAffine(X, K utils.Matrix, x0 []float64, x utils.Matrix) {
	var (
		tdim, gdim = K.Dims()
		nPts, _    = x.Dims()
		k          = K.Data()
		Xd         = X.Data()
		xd         = x.Data()
	)
	for p := 0; p < nPts; p++ {
		for i := 0; i < tdim; i++ {
			var sum float64
			for j := 0; j < gdim; j++ {
				sum += k[i*gdim+j] * (xd[p*gdim+j] - x0[j])
			}
			Xd[p*tdim+i] = sum
		}
	}
}

// PushForwardPoints computes physical points x = phi^T coords from the values
// of a tabulation (nd >= 0), the forward geometric map.
func PushForwardPoints(tab utils.Tensor4, coords, x utils.Matrix) {
	var (
		nPts    = tab.Shape[1]
		nDofs   = tab.Shape[2]
		_, gdim = coords.Dims()
		xd      = x.Data()
		cd      = coords.Data()
	)
	for p := 0; p < nPts; p++ {
		for j := 0; j < gdim; j++ {
			var sum float64
			for k := 0; k < nDofs; k++ {
				sum += tab.At(0, p, k, 0) * cd[k*gdim+j]
			}
			xd[p*gdim+j] = sum
		}
	}
}
