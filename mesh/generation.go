package mesh

import (
	"github.com/SarahRo/asimov-contact/element"
)

// CreateInterval returns n equal intervals on [x0, x1]
func CreateInterval(n int, x0, x1 float64) (*Mesh, error) {
	var (
		x     = make([]float64, n+1)
		cells = make([][]int, n)
		h     = (x1 - x0) / float64(n)
	)
	for i := range x {
		x[i] = x0 + float64(i)*h
	}
	for i := range cells {
		cells[i] = []int{i, i + 1}
	}
	return NewMesh(element.Interval, 1, 1, x, cells)
}

// CreateRectangle splits each of nx x ny rectangles on [p0, p1] into two
// triangles along its rising diagonal.
func CreateRectangle(nx, ny int, p0, p1 [2]float64, degree int) (*Mesh, error) {
	var (
		x     = make([]float64, 0, 2*(nx+1)*(ny+1))
		cells = make([][]int, 0, 2*nx*ny)
		hx    = (p1[0] - p0[0]) / float64(nx)
		hy    = (p1[1] - p0[1]) / float64(ny)
	)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			x = append(x, p0[0]+float64(i)*hx, p0[1]+float64(j)*hy)
		}
	}
	vert := func(i, j int) int { return j*(nx+1) + i }
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			var (
				v0, v1 = vert(i, j), vert(i+1, j)
				v2, v3 = vert(i, j+1), vert(i+1, j+1)
			)
			cells = append(cells, []int{v0, v1, v3}, []int{v0, v2, v3})
		}
	}
	return NewMesh(element.Triangle, degree, 2, x, cells)
}

// CreateBox splits each of nx x ny x nz boxes on [p0, p1] into six
// tetrahedra sharing the box diagonal.
func CreateBox(nx, ny, nz int, p0, p1 [3]float64, degree int) (*Mesh, error) {
	var (
		n     = [3]int{nx, ny, nz}
		x     = make([]float64, 0, 3*(nx+1)*(ny+1)*(nz+1))
		cells = make([][]int, 0, 6*nx*ny*nz)
		h     [3]float64
	)
	for d := 0; d < 3; d++ {
		h[d] = (p1[d] - p0[d]) / float64(n[d])
	}
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				x = append(x, p0[0]+float64(i)*h[0], p0[1]+float64(j)*h[1], p0[2]+float64(k)*h[2])
			}
		}
	}
	vert := func(ijk [3]int) int { return (ijk[2]*(ny+1)+ijk[1])*(nx+1) + ijk[0] }
	paths := [6][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				for _, path := range paths {
					var (
						ijk = [3]int{i, j, k}
						tet = []int{vert(ijk)}
					)
					for _, d := range path {
						ijk[d]++
						tet = append(tet, vert(ijk))
					}
					cells = append(cells, tet)
				}
			}
		}
	}
	return NewMesh(element.Tetrahedron, degree, 3, x, cells)
}
