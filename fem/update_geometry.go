package fem

import (
	"fmt"

	"github.com/SarahRo/asimov-contact/element"
	"github.com/SarahRo/asimov-contact/mesh"
	"github.com/SarahRo/asimov-contact/utils"
)

// UpdateGeometry adds the nodal values of the displacement u to the geometry
// nodes of m. u must be a Lagrange field on m with the dof layout of the
// geometry and at most three components.
func UpdateGeometry(u *Function, m *mesh.Mesh) (err error) {
	var (
		V    = u.Space
		el   = V.Element
		geom = m.Geometry
		bs   = V.DofMap.BlockSize
	)
	switch {
	case V.Mesh != m:
		err = fmt.Errorf("%w: displacement is defined on another mesh", utils.ErrInvalidArgument)
	case el.Family() != element.Lagrange || el.Degree() != geom.CMap.Degree:
		err = fmt.Errorf("%w: %v degree %d displacement on degree %d geometry",
			utils.ErrInvalidArgument, el.Family(), el.Degree(), geom.CMap.Degree)
	case bs > 3:
		err = fmt.Errorf("%w: displacement block size %d", utils.ErrInvalidArgument, bs)
	}
	if err != nil {
		return
	}
	// Scatter operator from dof values to stride 3 node coordinates
	S := utils.NewDOK(len(geom.X), len(u.X))
	for c := 0; c < m.Topology.NumCells(); c++ {
		var (
			dofs  = V.DofMap.CellDofs(c)
			xdofs = geom.Dofmap[c]
		)
		for i := range dofs {
			for j := 0; j < bs; j++ {
				S.Set(3*xdofs[i]+j, bs*dofs[i]+j, 1)
			}
		}
	}
	S.SetReadOnly("geometry scatter")
	S.ToCSR().MulVecTo(geom.X, false, u.X)
	return
}
