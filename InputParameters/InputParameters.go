package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title            string            `yaml:"Title"`
	Mesh             MeshParameters    `yaml:"Mesh"`
	Element          ElementParameters `yaml:"Element"`
	QuadratureDegree int               `yaml:"QuadratureDegree"`
	Integral         string            `yaml:"Integral"` // cell (dx) or exterior_facet (ds)
	Gradient         bool              `yaml:"Gradient"`
	Circumradius     bool              `yaml:"Circumradius"`
	Field            AffineField       `yaml:"Field"`
	Displacement     *AffineField      `yaml:"Displacement"`
	Markers          map[string][]int  `yaml:"Markers"` // Named entity lists, all entities if empty
}

type MeshParameters struct {
	Type     string    `yaml:"Type"` // interval, rectangle, box or su2
	N        []int     `yaml:"N"`
	Min      []float64 `yaml:"Min"`
	Max      []float64 `yaml:"Max"`
	Degree   int       `yaml:"Degree"`
	File     string    `yaml:"File"`     // SU2 mesh file
	Boundary []string  `yaml:"Boundary"` // SU2 marker tags to pack on
}

type ElementParameters struct {
	Family    string `yaml:"Family"`
	Degree    int    `yaml:"Degree"`
	BlockSize int    `yaml:"BlockSize"`
}

// AffineField is the vector field f(x) = Constant + Gradient x
type AffineField struct {
	Constant []float64   `yaml:"Constant"`
	Gradient [][]float64 `yaml:"Gradient"`
}

func (ip *InputParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	if ip.Mesh.Degree == 0 {
		ip.Mesh.Degree = 1
	}
	if ip.Element.Degree == 0 {
		ip.Element.Degree = 1
	}
	if ip.Element.BlockSize == 0 {
		ip.Element.BlockSize = 1
	}
	if len(ip.Integral) == 0 {
		ip.Integral = "cell"
	}
	if ip.QuadratureDegree < 0 {
		err = fmt.Errorf("negative quadrature degree %d", ip.QuadratureDegree)
	}
	return
}

// Eval returns f as an interpolation callback for a field of width values.
// Missing constant or gradient entries are zero.
func (af *AffineField) Eval(width int) func(x, val []float64) {
	return func(x, val []float64) {
		for i := 0; i < width; i++ {
			val[i] = 0
			if i < len(af.Constant) {
				val[i] = af.Constant[i]
			}
			if i < len(af.Gradient) {
				for j, g := range af.Gradient[i] {
					if j < len(x) {
						val[i] += g * x[j]
					}
				}
			}
		}
	}
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	if ip.Mesh.Type == "su2" {
		fmt.Printf("[%s] %s %v\t= Mesh\n", ip.Mesh.Type, ip.Mesh.File, ip.Mesh.Boundary)
	} else {
		fmt.Printf("[%s] %v [%v,%v]\t= Mesh\n", ip.Mesh.Type, ip.Mesh.N, ip.Mesh.Min, ip.Mesh.Max)
	}
	fmt.Printf("[%d]\t\t\t\t= Geometry Degree\n", ip.Mesh.Degree)
	fmt.Printf("[%s] P%d x %d\t\t= Element\n", ip.Element.Family, ip.Element.Degree, ip.Element.BlockSize)
	fmt.Printf("[%d]\t\t\t\t= Quadrature Degree\n", ip.QuadratureDegree)
	fmt.Printf("[%s]\t\t\t= Integral\n", ip.Integral)
	fmt.Printf("%v + %v x\t= Field\n", ip.Field.Constant, ip.Field.Gradient)
	if ip.Displacement != nil {
		fmt.Printf("%v + %v x\t= Displacement\n", ip.Displacement.Constant, ip.Displacement.Gradient)
	}
	keys := make([]string, len(ip.Markers))
	i := 0
	for k := range ip.Markers {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("Markers[%s] = %v\n", key, ip.Markers[key])
	}
}
