package mesh

import (
	"sort"
	"sync"

	"github.com/SarahRo/asimov-contact/element"
	"github.com/SarahRo/asimov-contact/types"
)

// Topology holds cell to vertex connectivity. Facet and edge connectivity and
// the cell permutation table are built on first use and read-only afterwards.
type Topology struct {
	Cell        element.CellType
	Cells       [][]int // Cell to vertex connectivity [ncells][nverts_per_cell]
	NumVertices int

	facetOnce  sync.Once
	cellFacets [][]int // Cell to facet connectivity [ncells][nfacets_per_cell]
	facetCells [][]int // Facet to cell connectivity, one or two cells per facet
	facetMap   map[types.FacetKey]int

	edgeOnce  sync.Once
	cellEdges [][]int // Cell to edge connectivity [ncells][nedges_per_cell]
	edges     []types.EdgeKey

	permOnce sync.Once
	cellInfo []uint32
}

func NewTopology(cell element.CellType, cells [][]int) (t *Topology) {
	t = &Topology{Cell: cell, Cells: cells}
	for _, verts := range cells {
		for _, v := range verts {
			if v+1 > t.NumVertices {
				t.NumVertices = v + 1
			}
		}
	}
	return
}

func (t *Topology) Dim() int { return t.Cell.TopologicalDim() }

func (t *Topology) NumCells() int { return len(t.Cells) }

// CellFacets returns the facets of each cell, in local facet order
func (t *Topology) CellFacets() [][]int {
	t.facetOnce.Do(t.buildFacets)
	return t.cellFacets
}

// FacetCells returns the cells sharing each facet
func (t *Topology) FacetCells() [][]int {
	t.facetOnce.Do(t.buildFacets)
	return t.facetCells
}

func (t *Topology) NumFacets() int { return len(t.FacetCells()) }

// ExteriorFacets returns the facets attached to a single cell, ascending
func (t *Topology) ExteriorFacets() (facets []int) {
	for f, cells := range t.FacetCells() {
		if len(cells) == 1 {
			facets = append(facets, f)
		}
	}
	return
}

// FindFacet returns the facet with the given vertices, in any order
func (t *Topology) FindFacet(verts []int) (f int, ok bool) {
	t.facetOnce.Do(t.buildFacets)
	f, ok = t.facetMap[types.NewFacetKey(verts)]
	return
}

func (t *Topology) buildFacets() {
	var (
		nc       = t.NumCells()
		localFVs = t.Cell.FacetVertices()
		faceMap  = make(map[types.FacetKey]int)
	)
	t.facetMap = faceMap
	t.cellFacets = make([][]int, nc)
	for c, verts := range t.Cells {
		t.cellFacets[c] = make([]int, len(localFVs))
		for lf, lfv := range localFVs {
			fv := make([]int, len(lfv))
			for i, lv := range lfv {
				fv[i] = verts[lv]
			}
			key := types.NewFacetKey(fv)
			f, exists := faceMap[key]
			if !exists {
				f = len(t.facetCells)
				faceMap[key] = f
				t.facetCells = append(t.facetCells, nil)
			}
			t.facetCells[f] = append(t.facetCells[f], c)
			t.cellFacets[c][lf] = f
		}
	}
}

// CellEdges returns the edges of each cell, in local edge order
func (t *Topology) CellEdges() [][]int {
	t.edgeOnce.Do(t.buildEdges)
	return t.cellEdges
}

// Edges returns the vertex pair of every edge
func (t *Topology) Edges() []types.EdgeKey {
	t.edgeOnce.Do(t.buildEdges)
	return t.edges
}

func (t *Topology) buildEdges() {
	var (
		localEVs = t.Cell.EdgeVertices()
		edgeMap  = make(map[types.EdgeKey]int)
	)
	t.cellEdges = make([][]int, t.NumCells())
	for c, verts := range t.Cells {
		t.cellEdges[c] = make([]int, len(localEVs))
		for le, lev := range localEVs {
			key := types.NewEdgeKey([2]int{verts[lev[0]], verts[lev[1]]})
			e, exists := edgeMap[key]
			if !exists {
				e = len(t.edges)
				edgeMap[key] = e
				t.edges = append(t.edges, key)
			}
			t.cellEdges[c][le] = e
		}
	}
}

// CellPermutationInfo returns, per cell, the orientation of its sub-entities
// relative to ascending global vertex order. For tetrahedra bit 3f is the
// reflection and bits 3f+1, 3f+2 the rotation count of face f, and edge
// reflections start at bit 12. For triangles bit e is the reflection of edge
// e.
func (t *Topology) CellPermutationInfo() []uint32 {
	t.permOnce.Do(t.buildPermutationInfo)
	return t.cellInfo
}

func (t *Topology) buildPermutationInfo() {
	var (
		tdim     = t.Dim()
		localEVs = t.Cell.EdgeVertices()
		edgeOff  uint
	)
	t.cellInfo = make([]uint32, t.NumCells())
	if tdim == 3 {
		edgeOff = 3 * uint(t.Cell.NumFacets())
	}
	for c, verts := range t.Cells {
		var info uint32
		if tdim == 3 {
			for f, lfv := range t.Cell.FacetVertices() {
				rots, refl := faceOrientation(verts[lfv[0]], verts[lfv[1]], verts[lfv[2]])
				info |= uint32(refl) << (3 * uint(f))
				info |= uint32(rots) << (3*uint(f) + 1)
			}
		}
		if tdim >= 2 {
			for e, lev := range localEVs {
				if verts[lev[0]] > verts[lev[1]] {
					info |= 1 << (edgeOff + uint(e))
				}
			}
		}
		t.cellInfo[c] = info
	}
}

// faceOrientation returns the number of rotations bringing the lowest vertex
// first, and whether the remaining two are then descending.
func faceOrientation(v0, v1, v2 int) (rots, refl int) {
	v := []int{v0, v1, v2}
	sorted := []int{v0, v1, v2}
	sort.Ints(sorted)
	for v[0] != sorted[0] {
		v[0], v[1], v[2] = v[1], v[2], v[0]
		rots++
	}
	if v[1] > v[2] {
		refl = 1
	}
	return
}
