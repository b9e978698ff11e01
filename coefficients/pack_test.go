package coefficients

import (
	"errors"
	"math"
	"testing"

	"github.com/SarahRo/asimov-contact/element"
	"github.com/SarahRo/asimov-contact/fem"
	"github.com/SarahRo/asimov-contact/geometry"
	"github.com/SarahRo/asimov-contact/mesh"
	"github.com/SarahRo/asimov-contact/quadrature"
	"github.com/SarahRo/asimov-contact/types"
	"github.com/SarahRo/asimov-contact/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFunction(t *testing.T, m *mesh.Mesh, family element.Family, degree, bs int,
	f func(x, val []float64)) *fem.Function {
	el, err := element.NewFiniteElement(family, m.Topology.Cell, degree, bs)
	require.NoError(t, err)
	V, err := fem.NewFunctionSpace(m, el)
	require.NoError(t, err)
	u := fem.NewFunction(V)
	require.NoError(t, u.Interpolate(f))
	return u
}

// quadraturePoints returns the physical quadrature points of an active entity
func quadraturePoints(m *mesh.Mesh, qr *quadrature.Rule, ae types.ActiveEntity) (x utils.Matrix) {
	var (
		g      = m.Geometry
		pts    = qr.Points[ae.LocalIndex]
		tab    = utils.NewTensor4(g.CMap.TabulateShape(0, qr.NumPoints()))
		coords = utils.NewMatrix(g.NumDofsPerCell(), g.Dim)
	)
	g.CMap.Tabulate(0, pts, tab)
	g.CellCoordinates(ae.Cell, coords)
	x = utils.NewMatrix(qr.NumPoints(), g.Dim)
	geometry.PushForwardPoints(tab, coords, x)
	return
}

// checkPacked compares packed values against f at the physical quadrature points
func checkPacked(t *testing.T, m *mesh.Mesh, integral types.IntegralType, qDegree int, entities []int,
	coeffs []float64, cstride, width int, f func(x, val []float64)) {
	var (
		qdim = m.Topology.Dim()
		val  = make([]float64, width)
	)
	if integral == types.ExteriorFacet {
		qdim--
	}
	qr, err := quadrature.NewRule(m.Topology.Cell, qDegree, qdim)
	require.NoError(t, err)
	active, err := ActiveEntities(m, integral, entities)
	require.NoError(t, err)
	require.Equal(t, width*qr.NumPoints(), cstride)
	require.Len(t, coeffs, cstride*len(entities))
	for i, ae := range active {
		x := quadraturePoints(m, qr, ae)
		for q := 0; q < qr.NumPoints(); q++ {
			f(x.RawRow(q), val)
			assert.InDeltaSlice(t, val, coeffs[cstride*i+q*width:cstride*i+(q+1)*width], 1.e-12)
		}
	}
}

func TestPackBlockedLagrange(t *testing.T) {
	m, err := mesh.CreateRectangle(3, 2, [2]float64{0, 0}, [2]float64{1.5, 1}, 1)
	require.NoError(t, err)
	f := func(x, val []float64) { val[0], val[1] = x[0]+2*x[1], 3*x[0]-x[1] }
	u := newFunction(t, m, element.Lagrange, 1, 2, f)

	cells := []int{0, 3, 5, 11}
	coeffs, cstride, err := PackCoefficientQuadrature(u, 2, types.Cell, cells)
	require.NoError(t, err)
	checkPacked(t, m, types.Cell, 2, cells, coeffs, cstride, 2, f)

	facets := m.Topology.ExteriorFacets()
	coeffs, cstride, err = PackCoefficientQuadrature(u, 3, types.ExteriorFacet, facets)
	require.NoError(t, err)
	checkPacked(t, m, types.ExteriorFacet, 3, facets, coeffs, cstride, 2, f)
}

func TestPackQuadraticTetrahedra(t *testing.T) {
	m, err := mesh.CreateBox(2, 1, 1, [3]float64{0, 0, 0}, [3]float64{1, 1, 1}, 1)
	require.NoError(t, err)
	f := func(x, val []float64) { val[0] = x[0]*x[1] + x[2]*x[2] - x[0] }
	u := newFunction(t, m, element.Lagrange, 2, 1, f)
	cells := utils.NewRange(0, m.Topology.NumCells()-1)
	coeffs, cstride, err := PackCoefficientQuadrature(u, 2, types.Cell, cells)
	require.NoError(t, err)
	checkPacked(t, m, types.Cell, 2, cells, coeffs, cstride, 1, f)

	facets := m.Topology.ExteriorFacets()
	coeffs, cstride, err = PackCoefficientQuadrature(u, 1, types.ExteriorFacet, facets)
	require.NoError(t, err)
	checkPacked(t, m, types.ExteriorFacet, 1, facets, coeffs, cstride, 1, f)
}

func TestPackInterval(t *testing.T) {
	m, err := mesh.CreateInterval(4, -1, 1)
	require.NoError(t, err)
	f := func(x, val []float64) { val[0] = 2 - 3*x[0] }
	u := newFunction(t, m, element.Lagrange, 1, 1, f)
	facets := m.Topology.ExteriorFacets()
	coeffs, cstride, err := PackCoefficientQuadrature(u, 2, types.ExteriorFacet, facets)
	require.NoError(t, err)
	assert.Equal(t, 1, cstride)
	checkPacked(t, m, types.ExteriorFacet, 2, facets, coeffs, cstride, 1, f)
}

// reflectedMesh is two triangles with non-matching local vertex orderings
func reflectedMesh() (*mesh.Mesh, error) {
	return mesh.NewMesh(element.Triangle, 1, 2, []float64{0, 0, 1, 0, 0, 1, 1.2, 1.1},
		[][]int{{2, 0, 1}, {1, 3, 2}})
}

func TestPackEdgeElements(t *testing.T) {
	f := func(x, val []float64) { val[0], val[1] = 3, -1 }
	meshes := map[string]func() (*mesh.Mesh, error){
		"reflected": reflectedMesh,
		"rectangle": func() (*mesh.Mesh, error) {
			return mesh.CreateRectangle(2, 3, [2]float64{-1, 0}, [2]float64{1, 2}, 1)
		},
	}
	for name, create := range meshes {
		m, err := create()
		require.NoError(t, err)
		for _, family := range []element.Family{element.N1curl, element.RT} {
			t.Run(name+"/"+family.String(), func(t *testing.T) {
				u := newFunction(t, m, family, 1, 1, f)
				cells := utils.NewRange(0, m.Topology.NumCells()-1)
				coeffs, cstride, err := PackCoefficientQuadrature(u, 2, types.Cell, cells)
				require.NoError(t, err)
				checkPacked(t, m, types.Cell, 2, cells, coeffs, cstride, 2, f)

				facets := m.Topology.ExteriorFacets()
				coeffs, cstride, err = PackCoefficientQuadrature(u, 1, types.ExteriorFacet, facets)
				require.NoError(t, err)
				checkPacked(t, m, types.ExteriorFacet, 1, facets, coeffs, cstride, 2, f)
			})
		}
	}
}

func TestPackMultiBlockMultiValue(t *testing.T) {
	m, err := reflectedMesh()
	require.NoError(t, err)
	// Block k holds the vector value (val[2k], val[2k+1])
	f := func(x, val []float64) { val[0], val[1], val[2], val[3] = 3, -1, 0.5, 2 }
	for _, family := range []element.Family{element.N1curl, element.RT} {
		t.Run(family.String(), func(t *testing.T) {
			u := newFunction(t, m, family, 1, 2, f)
			cells := utils.NewRange(0, m.Topology.NumCells()-1)
			coeffs, cstride, err := PackCoefficientQuadrature(u, 2, types.Cell, cells)
			require.NoError(t, err)
			checkPacked(t, m, types.Cell, 2, cells, coeffs, cstride, 4, f)

			facets := m.Topology.ExteriorFacets()
			coeffs, cstride, err = PackCoefficientQuadrature(u, 1, types.ExteriorFacet, facets)
			require.NoError(t, err)
			checkPacked(t, m, types.ExteriorFacet, 1, facets, coeffs, cstride, 4, f)
		})
	}
}

func TestPackParallel(t *testing.T) {
	m, err := mesh.CreateRectangle(6, 6, [2]float64{0, 0}, [2]float64{1, 1}, 2)
	require.NoError(t, err)
	m.Transform(func(x []float64) { x[0] += 0.1 * x[1] * x[1] })
	f := func(x, val []float64) { val[0], val[1] = math.Sin(x[0]), x[0]*x[1] }
	u := newFunction(t, m, element.Lagrange, 2, 2, f)
	v := newFunction(t, m, element.N1curl, 1, 1, f)
	cells := utils.NewRange(0, m.Topology.NumCells()-1)

	serialU, _, err := PackCoefficientQuadrature(u, 3, types.Cell, cells)
	require.NoError(t, err)
	serialV, _, err := PackCoefficientQuadrature(v, 3, types.Cell, cells)
	require.NoError(t, err)
	serialG, _, err := PackGradientQuadrature(u, 3, types.Cell, cells)
	require.NoError(t, err)

	threshold := ParallelThreshold
	ParallelThreshold = 1
	defer func() { ParallelThreshold = threshold }()
	parallelU, _, err := PackCoefficientQuadrature(u, 3, types.Cell, cells)
	require.NoError(t, err)
	parallelV, _, err := PackCoefficientQuadrature(v, 3, types.Cell, cells)
	require.NoError(t, err)
	parallelG, _, err := PackGradientQuadrature(u, 3, types.Cell, cells)
	require.NoError(t, err)
	assert.Equal(t, serialU, parallelU)
	assert.Equal(t, serialV, parallelV)
	assert.Equal(t, serialG, parallelG)
}

func TestPackGradient(t *testing.T) {
	m, err := mesh.CreateRectangle(2, 2, [2]float64{0, 0}, [2]float64{2, 1}, 1)
	require.NoError(t, err)
	u := newFunction(t, m, element.Lagrange, 1, 2,
		func(x, val []float64) { val[0], val[1] = x[0]+2*x[1], 3*x[0]-x[1] })
	facets := m.Topology.ExteriorFacets()
	coeffs, cstride, err := PackGradientQuadrature(u, 2, types.ExteriorFacet, facets)
	require.NoError(t, err)
	nq := cstride / 4
	assert.Equal(t, 2, nq)
	require.Len(t, coeffs, cstride*len(facets))
	for i := range facets {
		for q := 0; q < nq; q++ {
			assert.InDeltaSlice(t, []float64{1, 2, 3, -1}, coeffs[cstride*i+4*q:cstride*i+4*(q+1)], 1.e-13)
		}
	}

	// Quadratic on a curved mesh: gradient (2x, 1)
	curved, err := mesh.CreateRectangle(2, 2, [2]float64{0, 0}, [2]float64{1, 1}, 2)
	require.NoError(t, err)
	curved.Transform(func(x []float64) { x[1] += 0.1 * x[0] * (1 - x[0]) })
	w := newFunction(t, curved, element.Lagrange, 2, 1, func(x, val []float64) { val[0] = x[0]*x[0] + x[1] })
	cells := []int{0, 1, 6}
	coeffs, cstride, err = PackGradientQuadrature(w, 2, types.Cell, cells)
	require.NoError(t, err)
	grad := func(x, val []float64) { val[0], val[1] = 2*x[0], 1 }
	checkPacked(t, curved, types.Cell, 2, cells, coeffs, cstride, 2, grad)
}

func TestPackCircumradius(t *testing.T) {
	m, err := mesh.CreateRectangle(1, 1, [2]float64{0, 0}, [2]float64{1, 1}, 1)
	require.NoError(t, err)
	active, err := ActiveEntities(m, types.ExteriorFacet, m.Topology.ExteriorFacets())
	require.NoError(t, err)
	R, cstride, err := PackCircumradius(m, active)
	require.NoError(t, err)
	assert.Equal(t, 1, cstride)
	require.Len(t, R, 4)
	for _, r := range R {
		assert.InDelta(t, 0.5*math.Sqrt2, r, 1.e-14)
	}

	box, err := mesh.CreateBox(1, 1, 1, [3]float64{0, 0, 0}, [3]float64{2, 2, 2}, 1)
	require.NoError(t, err)
	active, err = ActiveEntities(box, types.ExteriorFacet, box.Topology.ExteriorFacets())
	require.NoError(t, err)
	R, _, err = PackCircumradius(box, active)
	require.NoError(t, err)
	for _, r := range R {
		// Kuhn tetrahedra span a cube diagonal
		assert.InDelta(t, math.Sqrt(3), r, 1.e-13)
	}

	curved, err := mesh.CreateRectangle(1, 1, [2]float64{0, 0}, [2]float64{1, 1}, 2)
	require.NoError(t, err)
	_, _, err = PackCircumradius(curved, nil)
	assert.True(t, errors.Is(err, utils.ErrUnsupported))
}

func TestPackErrors(t *testing.T) {
	m, err := mesh.CreateRectangle(2, 2, [2]float64{0, 0}, [2]float64{1, 1}, 1)
	require.NoError(t, err)
	u := newFunction(t, m, element.Lagrange, 1, 1, func(x, val []float64) { val[0] = x[0] })
	v := newFunction(t, m, element.N1curl, 1, 1, func(x, val []float64) { val[0], val[1] = x[1], 1 })

	_, _, err = PackCoefficientQuadrature(u, 2, types.InteriorFacet, []int{0})
	assert.True(t, errors.Is(err, utils.ErrUnsupported))
	_, _, err = PackCoefficientQuadrature(u, 2, types.Cell, []int{8})
	assert.True(t, errors.Is(err, utils.ErrInvalidArgument))
	_, _, err = PackCoefficientQuadrature(u, -1, types.Cell, []int{0})
	assert.True(t, errors.Is(err, utils.ErrInvalidArgument))

	var interior int
	for f, cells := range m.Topology.FacetCells() {
		if len(cells) == 2 {
			interior = f
			break
		}
	}
	_, _, err = PackCoefficientQuadrature(u, 2, types.ExteriorFacet, []int{interior})
	assert.True(t, errors.Is(err, utils.ErrInvalidArgument))
	_, _, err = PackGradientQuadrature(v, 2, types.Cell, []int{0})
	assert.True(t, errors.Is(err, utils.ErrUnsupported))

	coeffs, cstride, err := PackCoefficientQuadrature(u, 2, types.Cell, nil)
	require.NoError(t, err)
	assert.Empty(t, coeffs)
	assert.Equal(t, 4, cstride)
}

func TestPackPhysicalPoints(t *testing.T) {
	m, err := mesh.CreateRectangle(3, 2, [2]float64{0, 0}, [2]float64{2, 1}, 1)
	require.NoError(t, err)
	facets := m.Topology.ExteriorFacets()
	x, cstride, err := PackPhysicalPoints(m, 2, types.ExteriorFacet, facets)
	require.NoError(t, err)
	assert.Equal(t, 4, cstride)
	require.Len(t, x, 4*len(facets))
	onBoundary := func(v, lo, hi float64) bool { return math.Abs(v-lo) < 1.e-14 || math.Abs(v-hi) < 1.e-14 }
	for p := 0; p < len(x); p += 2 {
		assert.True(t, onBoundary(x[p], 0, 2) || onBoundary(x[p+1], 0, 1), "%v", x[p:p+2])
	}

	cells := []int{2, 7}
	x, cstride, err = PackPhysicalPoints(m, 1, types.Cell, cells)
	require.NoError(t, err)
	qr, err := quadrature.NewRule(element.Triangle, 1, 2)
	require.NoError(t, err)
	active, err := ActiveEntities(m, types.Cell, cells)
	require.NoError(t, err)
	for i, ae := range active {
		assert.InDeltaSlice(t, quadraturePoints(m, qr, ae).Data(), x[i*cstride:(i+1)*cstride], 1.e-15)
	}
}
