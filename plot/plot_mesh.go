package plot

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/SarahRo/asimov-contact/mesh"
	"github.com/SarahRo/asimov-contact/utils"
	"github.com/notargets/avs/chart2d"
	"github.com/notargets/avs/geometry"
	utils2 "github.com/notargets/avs/utils"
)

// NewTriMesh converts the vertices and cells of a triangle mesh for plotting
func NewTriMesh(m *mesh.Mesh) (gm geometry.TriMesh, err error) {
	var (
		topo = m.Topology
		geom = m.Geometry
		nv   = topo.NumVertices
	)
	if topo.Dim() != 2 || geom.Dim != 2 {
		err = fmt.Errorf("%w: plotting a %v mesh in %d dimensions", utils.ErrUnsupported, topo.Cell, geom.Dim)
		return
	}
	gm = geometry.TriMesh{
		XY:       make([]float32, 2*nv),
		TriVerts: make([][3]int64, topo.NumCells()),
	}
	// Vertices are the first geometry nodes
	for i := 0; i < nv; i++ {
		gm.XY[2*i] = float32(geom.X[3*i])
		gm.XY[2*i+1] = float32(geom.X[3*i+1])
	}
	for k, verts := range topo.Cells {
		for n := 0; n < 3; n++ {
			gm.TriVerts[k][n] = int64(verts[n])
		}
	}
	return
}

// AddCrossHairs appends two line segments of half width size crossing at each
// point of xy.
func AddCrossHairs(xy []float64, size float32, lines []float32) []float32 {
	for i := 0; i < len(xy)/2; i++ {
		x, y := float32(xy[2*i]), float32(xy[2*i+1])
		lines = append(lines,
			x-size, y,
			x+size, y,
			x, y-size,
			x, y+size,
		)
	}
	return lines
}

// BoundingBox returns the extent of the points in XY, grown by scale about
// its center.
func BoundingBox(XY []float32, scale float32) (xMin, xMax, yMin, yMax float32) {
	xMin, xMax = float32(math.MaxFloat32), -float32(math.MaxFloat32)
	yMin, yMax = float32(math.MaxFloat32), -float32(math.MaxFloat32)
	for i := 0; i < len(XY)/2; i++ {
		x, y := XY[2*i], XY[2*i+1]
		xMin, xMax = min(xMin, x), max(xMax, x)
		yMin, yMax = min(yMin, y), max(yMax, y)
	}
	var (
		xc, yc = 0.5 * (xMin + xMax), 0.5 * (yMin + yMax)
		hx, hy = 0.5 * scale * (xMax - xMin), 0.5 * scale * (yMax - yMin)
	)
	return xc - hx, xc + hx, yc - hy, yc + hy
}

// PlotPoints draws the mesh with a cross at each point of xy (x, y pairs)
// and keeps the window open for delay.
func PlotPoints(m *mesh.Mesh, xy []float64, col color.RGBA, delay time.Duration) (err error) {
	var gm geometry.TriMesh
	if gm, err = NewTriMesh(m); err != nil {
		return
	}
	xMin, xMax, yMin, yMax := BoundingBox(gm.XY, 1.1)
	ch := chart2d.NewChart2D(xMin, xMax, yMin, yMax,
		1024, 1024, utils2.WHITE, utils2.BLACK)
	ch.AddTriMesh(gm)
	size := 0.01 * max(xMax-xMin, yMax-yMin)
	ch.AddLine(AddCrossHairs(xy, size, nil), col)
	time.Sleep(delay)
	return
}
