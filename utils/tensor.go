package utils

import "fmt"

// Tensor4 is a dense rank-4 array stored row-major in a flat slice. The basis
// pipeline indexes it as (derivative, point, basis function, component).
type Tensor4 struct {
	Shape [4]int
	Data  []float64
}

func NewTensor4(shape [4]int) (T Tensor4) {
	T = Tensor4{
		Shape: shape,
		Data:  make([]float64, shape[0]*shape[1]*shape[2]*shape[3]),
	}
	return
}

func (t Tensor4) Index(i, j, k, l int) int {
	return ((i*t.Shape[1]+j)*t.Shape[2]+k)*t.Shape[3] + l
}

func (t Tensor4) At(i, j, k, l int) float64 { return t.Data[t.Index(i, j, k, l)] }

func (t Tensor4) Set(i, j, k, l int, val float64) { t.Data[t.Index(i, j, k, l)] = val }

func (t Tensor4) Size() int { return len(t.Data) }

// Slice returns the contiguous block t(i, j, :, :).
func (t Tensor4) Slice(i, j int) []float64 {
	var (
		size = t.Shape[2] * t.Shape[3]
		beg  = t.Index(i, j, 0, 0)
	)
	return t.Data[beg : beg+size]
}

// MatrixView returns t(i, j, :, :) as a Matrix sharing storage with t.
func (t Tensor4) MatrixView(i, j int) Matrix {
	return NewMatrix(t.Shape[2], t.Shape[3], t.Slice(i, j))
}

func (t Tensor4) Fill(val float64) {
	for i := range t.Data {
		t.Data[i] = val
	}
}

func (t Tensor4) CheckShape(shape [4]int) {
	if t.Shape != shape {
		panic(fmt.Errorf("tensor shape mismatch: have %v, need %v", t.Shape, shape))
	}
}
