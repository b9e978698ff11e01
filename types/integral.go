package types

import "fmt"

type IntegralType uint8

const (
	Cell IntegralType = iota
	ExteriorFacet
	InteriorFacet
)

func (it IntegralType) String() string {
	switch it {
	case Cell:
		return "cell"
	case ExteriorFacet:
		return "exterior_facet"
	case InteriorFacet:
		return "interior_facet"
	}
	return fmt.Sprintf("IntegralType(%d)", uint8(it))
}

var IntegralNameMap = map[string]IntegralType{
	"cell":           Cell,
	"dx":             Cell,
	"exterior_facet": ExteriorFacet,
	"ds":             ExteriorFacet,
	"interior_facet": InteriorFacet,
	"ds_int":         InteriorFacet,
}

func NewIntegralType(name string) (it IntegralType, err error) {
	var ok bool
	if it, ok = IntegralNameMap[name]; !ok {
		err = fmt.Errorf("unknown integral type %q", name)
	}
	return
}

// ActiveEntity is a cell, or a (cell, local facet) pair, selected for evaluation.
type ActiveEntity struct {
	Cell       int
	LocalIndex int
}
