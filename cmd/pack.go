/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"image/color"
	"io/ioutil"
	"os"
	"time"

	"github.com/SarahRo/asimov-contact/InputParameters"
	"github.com/SarahRo/asimov-contact/coefficients"
	"github.com/SarahRo/asimov-contact/element"
	"github.com/SarahRo/asimov-contact/fem"
	"github.com/SarahRo/asimov-contact/mesh"
	"github.com/SarahRo/asimov-contact/plot"
	"github.com/SarahRo/asimov-contact/types"
	"github.com/SarahRo/asimov-contact/utils"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"
)

// PackCmd represents the pack command
var PackCmd = &cobra.Command{
	Use:   "pack",
	Short: "Pack a field at quadrature points of a generated mesh",
	Long: `
Generates a mesh, interpolates an affine field onto a finite element space and
packs its values at the quadrature points of the selected entities,

asimov-contact pack -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("pack called")
		ICFile, _ := cmd.Flags().GetString("inputConditionsFile")
		ip := processInput(ICFile)
		ip.Print()
		graph, _ := cmd.Flags().GetBool("graph")
		dr, _ := cmd.Flags().GetInt("delay")
		if code := runPackCommand(ip, graph, time.Duration(dr)*time.Millisecond); code != 0 {
			os.Exit(code)
		}
	},
}

// runPackCommand returns the process exit code, so deferred profile writers
// have run before the caller exits
func runPackCommand(ip *InputParameters.InputParameters, graph bool, delay time.Duration) int {
	switch viper.GetString("profile") {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}
	if pt := viper.GetInt("parallelThreshold"); pt > 0 {
		coefficients.ParallelThreshold = pt
	}
	start := time.Now()
	res, err := RunPack(ip)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		return 1
	}
	res.Print()
	fmt.Printf("Elapsed time = %v\n", time.Since(start))
	if graph {
		if err = plotPoints(res, ip.QuadratureDegree, delay); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			return 1
		}
	}
	return 0
}

func init() {
	rootCmd.AddCommand(PackCmd)
	PackCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Mesh\n\t- Element\n\t- Field")
	PackCmd.Flags().BoolP("graph", "g", false, "display the mesh and the packed quadrature points")
	PackCmd.Flags().IntP("delay", "d", 10000, "milliseconds to keep the graph open")
}

func processInput(ICFile string) (ip *InputParameters.InputParameters) {
	var (
		err error
	)
	if len(ICFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Test Case"
Mesh:
  Type: rectangle # Can be interval or box
  N: [8, 8]
  Min: [0, 0]
  Max: [1, 1]
  Degree: 1
Element:
  Family: Lagrange # Can be N1curl or RT on triangles
  Degree: 2
  BlockSize: 2
QuadratureDegree: 2
Integral: exterior_facet
Field:
  Constant: [0, 1]
  Gradient: [[1, 0], [0, -1]]
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = ioutil.ReadFile(ICFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.InputParameters{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

type PackResult struct {
	Mesh         *mesh.Mesh
	Integral     types.IntegralType
	Entities     []int
	Coefficients []float64
	CStride      int
	Gradients    []float64
	GStride      int
	Circumradii  []float64
}

// RunPack builds the mesh, space and field described by ip and packs them
func RunPack(ip *InputParameters.InputParameters) (res *PackResult, err error) {
	var (
		m      *mesh.Mesh
		family element.Family
		el     *element.FiniteElement
		V      *fem.FunctionSpace
	)
	var fileMarkers map[string][]int
	res = &PackResult{}
	if m, fileMarkers, err = createMesh(ip.Mesh); err != nil {
		return
	}
	res.Mesh = m
	if ip.Displacement != nil {
		if err = displace(m, ip.Displacement); err != nil {
			return
		}
	}
	if family, err = element.NewFamily(ip.Element.Family); err != nil {
		return
	}
	if el, err = element.NewFiniteElement(family, m.Topology.Cell, ip.Element.Degree, ip.Element.BlockSize); err != nil {
		return
	}
	if V, err = fem.NewFunctionSpace(m, el); err != nil {
		return
	}
	u := fem.NewFunction(V, "u")
	if err = u.Interpolate(ip.Field.Eval(el.ValueSize())); err != nil {
		return
	}
	if res.Integral, err = types.NewIntegralType(ip.Integral); err != nil {
		return
	}
	markers := make(map[string][]int, len(ip.Markers)+len(ip.Mesh.Boundary))
	for name, ents := range ip.Markers {
		markers[name] = ents
	}
	for _, tag := range ip.Mesh.Boundary {
		ents, ok := fileMarkers[tag]
		if !ok {
			err = fmt.Errorf("%w: no boundary marker %q in %s", utils.ErrInvalidArgument, tag, ip.Mesh.File)
			return
		}
		markers[tag] = ents
	}
	res.Entities = selectEntities(m, res.Integral, markers)
	if res.Coefficients, res.CStride, err = coefficients.PackCoefficientQuadrature(u, ip.QuadratureDegree,
		res.Integral, res.Entities); err != nil {
		return
	}
	if ip.Gradient {
		if res.Gradients, res.GStride, err = coefficients.PackGradientQuadrature(u, ip.QuadratureDegree,
			res.Integral, res.Entities); err != nil {
			return
		}
	}
	if ip.Circumradius {
		if res.Integral != types.ExteriorFacet {
			err = fmt.Errorf("%w: circumradius is packed on exterior facets, not %v",
				utils.ErrInvalidArgument, res.Integral)
			return
		}
		var active []types.ActiveEntity
		if active, err = coefficients.ActiveEntities(m, res.Integral, res.Entities); err != nil {
			return
		}
		if res.Circumradii, _, err = coefficients.PackCircumradius(m, active); err != nil {
			return
		}
	}
	return
}

func createMesh(mp InputParameters.MeshParameters) (m *mesh.Mesh, markers map[string][]int, err error) {
	var dim int
	switch mp.Type {
	case "su2":
		return mesh.ReadSU2File(mp.File, mp.Degree)
	case "interval":
		dim = 1
	case "rectangle":
		dim = 2
	case "box":
		dim = 3
	default:
		return nil, nil, fmt.Errorf("%w: unknown mesh type %q", utils.ErrInvalidArgument, mp.Type)
	}
	if len(mp.N) != dim || len(mp.Min) != dim || len(mp.Max) != dim {
		return nil, nil, fmt.Errorf("%w: %s mesh needs %d divisions and corner coordinates",
			utils.ErrInvalidArgument, mp.Type, dim)
	}
	switch dim {
	case 1:
		m, err = mesh.CreateInterval(mp.N[0], mp.Min[0], mp.Max[0])
	case 2:
		m, err = mesh.CreateRectangle(mp.N[0], mp.N[1],
			[2]float64{mp.Min[0], mp.Min[1]}, [2]float64{mp.Max[0], mp.Max[1]}, mp.Degree)
	case 3:
		m, err = mesh.CreateBox(mp.N[0], mp.N[1], mp.N[2],
			[3]float64{mp.Min[0], mp.Min[1], mp.Min[2]}, [3]float64{mp.Max[0], mp.Max[1], mp.Max[2]}, mp.Degree)
	}
	return
}

// displace moves the geometry nodes of m by an affine displacement field
func displace(m *mesh.Mesh, d *InputParameters.AffineField) (err error) {
	var (
		gdim = m.Geometry.Dim
		el   *element.FiniteElement
		V    *fem.FunctionSpace
	)
	if el, err = element.NewFiniteElement(element.Lagrange, m.Topology.Cell, m.Geometry.CMap.Degree, gdim); err != nil {
		return
	}
	if V, err = fem.NewFunctionSpace(m, el); err != nil {
		return
	}
	u := fem.NewFunction(V, "displacement")
	if err = u.Interpolate(d.Eval(gdim)); err != nil {
		return
	}
	return fem.UpdateGeometry(u, m)
}

// selectEntities returns the sorted union of the marked entities, or every
// entity of the integral type when nothing is marked.
func selectEntities(m *mesh.Mesh, integral types.IntegralType, markers map[string][]int) (entities []int) {
	if len(markers) == 0 {
		if integral == types.Cell {
			return utils.NewRange(0, m.Topology.NumCells()-1)
		}
		return m.Topology.ExteriorFacets()
	}
	var marked utils.Index
	for _, ents := range markers {
		marked = append(marked, ents...)
	}
	unique, _ := utils.SortCells(marked, utils.NewIndex(len(marked)))
	return unique
}

// plotPoints draws the physical quadrature points of the packed entities
func plotPoints(res *PackResult, qDegree int, delay time.Duration) (err error) {
	var x []float64
	if x, _, err = coefficients.PackPhysicalPoints(res.Mesh, qDegree, res.Integral, res.Entities); err != nil {
		return
	}
	return plot.PlotPoints(res.Mesh, x, color.RGBA{R: 255, A: 255}, delay)
}

func (res *PackResult) Print() {
	fmt.Printf("%d %v entities on %d cells\n", len(res.Entities), res.Integral, res.Mesh.Topology.NumCells())
	printRange("Coefficients", res.Coefficients, res.CStride)
	if res.Gradients != nil {
		printRange("Gradients", res.Gradients, res.GStride)
	}
	if res.Circumradii != nil {
		printRange("Circumradii", res.Circumradii, 1)
	}
}

func printRange(name string, vals []float64, cstride int) {
	if len(vals) == 0 {
		fmt.Printf("%s: empty\n", name)
		return
	}
	fmt.Printf("%s: stride %d, min %8.5f, max %8.5f, sum %8.5f\n",
		name, cstride, floats.Min(vals), floats.Max(vals), floats.Sum(vals))
}
