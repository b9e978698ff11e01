package coefficients

import (
	"fmt"

	"github.com/SarahRo/asimov-contact/mesh"
	"github.com/SarahRo/asimov-contact/types"
	"github.com/SarahRo/asimov-contact/utils"
)

// ActiveEntities resolves mesh entity indices to (cell, local index) pairs.
// Cells map to themselves with local index 0. Exterior facets map to their
// single owning cell and their position among its facets.
func ActiveEntities(m *mesh.Mesh, integral types.IntegralType, entities []int) (active []types.ActiveEntity, err error) {
	var (
		topo = m.Topology
	)
	active = make([]types.ActiveEntity, len(entities))
	switch integral {
	case types.Cell:
		for i, c := range entities {
			if c < 0 || c >= topo.NumCells() {
				return nil, fmt.Errorf("%w: cell %d out of range [0,%d)", utils.ErrInvalidArgument, c, topo.NumCells())
			}
			active[i] = types.ActiveEntity{Cell: c}
		}
	case types.ExteriorFacet:
		var (
			facetCells = topo.FacetCells()
			cellFacets = topo.CellFacets()
		)
		for i, f := range entities {
			if f < 0 || f >= len(facetCells) {
				return nil, fmt.Errorf("%w: facet %d out of range [0,%d)", utils.ErrInvalidArgument, f, len(facetCells))
			}
			if len(facetCells[f]) != 1 {
				return nil, fmt.Errorf("%w: facet %d is attached to %d cells, exterior facets have one",
					utils.ErrInvalidArgument, f, len(facetCells[f]))
			}
			cell := facetCells[f][0]
			active[i] = types.ActiveEntity{Cell: cell, LocalIndex: utils.Index(cellFacets[cell]).Find(f)}
		}
	default:
		return nil, fmt.Errorf("%w: integral type %v", utils.ErrUnsupported, integral)
	}
	return
}
