package cmd

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/SarahRo/asimov-contact/InputParameters"
	"github.com/SarahRo/asimov-contact/types"
	"github.com/SarahRo/asimov-contact/utils"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestRunPack(t *testing.T) {
	fileInput := []byte(`
Title: Test Case
Mesh:
  Type: rectangle
  N: [2, 2]
  Min: [0, 0]
  Max: [1, 1]
Element:
  Family: Lagrange
  BlockSize: 2
QuadratureDegree: 2
Integral: ds
Gradient: true
Circumradius: true
Field:
  Constant: [0, 1]
  Gradient: [[1, 0], [0, -1]]
Displacement:
  Constant: [0.5, 0]
`)
	var ip InputParameters.InputParameters
	require.NoError(t, ip.Parse(fileInput))
	res, err := RunPack(&ip)
	require.NoError(t, err)
	res.Print()
	assert.Equal(t, types.ExteriorFacet, res.Integral)
	assert.Len(t, res.Entities, 8)
	assert.Equal(t, 2*2*2, res.CStride)
	require.Len(t, res.Coefficients, 8*res.CStride)
	// First component is x on the displaced square [0.5, 1.5] x [0, 1]
	var xs []float64
	for i := 0; i < len(res.Coefficients); i += 2 {
		xs = append(xs, res.Coefficients[i])
	}
	assert.InDelta(t, 0.5, floats.Min(xs), 1.e-14)
	assert.InDelta(t, 1.5, floats.Max(xs), 1.e-14)

	assert.Equal(t, 2*2*2*2, res.GStride)
	for i := 0; i < len(res.Gradients); i += 4 {
		assert.InDeltaSlice(t, []float64{1, 0, 0, -1}, res.Gradients[i:i+4], 1.e-13)
	}
	require.Len(t, res.Circumradii, 8)
	for _, r := range res.Circumradii {
		assert.InDelta(t, 0.25*math.Sqrt2, r, 1.e-14)
	}
}

func TestRunPackMarkers(t *testing.T) {
	ip := &InputParameters.InputParameters{
		Mesh:     InputParameters.MeshParameters{Type: "box", N: []int{1, 1, 1}, Min: []float64{0, 0, 0}, Max: []float64{1, 1, 1}, Degree: 1},
		Element:  InputParameters.ElementParameters{Family: "P", Degree: 2, BlockSize: 1},
		Integral: "dx",
		Markers:  map[string][]int{"a": {4, 1}, "b": {1, 0}},
		Field:    InputParameters.AffineField{Constant: []float64{2}},
	}
	res, err := RunPack(ip)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 4}, res.Entities)
	for _, v := range res.Coefficients {
		assert.InDelta(t, 2., v, 1.e-13)
	}
	assert.Nil(t, res.Gradients)
}

func TestRunPackSU2(t *testing.T) {
	su2 := `NDIME= 2
NPOIN= 4
0 0
2 0
0 2
2 2
NELEM= 2
5 0 1 3
5 0 3 2
NMARK= 2
MARKER_TAG= bottom
MARKER_ELEMS= 1
3 0 1
MARKER_TAG= top
MARKER_ELEMS= 1
3 2 3
`
	file := filepath.Join(t.TempDir(), "square.su2")
	require.NoError(t, os.WriteFile(file, []byte(su2), 0644))
	ip := &InputParameters.InputParameters{
		Mesh:             InputParameters.MeshParameters{Type: "su2", File: file, Degree: 1, Boundary: []string{"top"}},
		Element:          InputParameters.ElementParameters{Family: "N1curl", Degree: 1, BlockSize: 1},
		QuadratureDegree: 1,
		Integral:         "exterior_facet",
		Field:            InputParameters.AffineField{Constant: []float64{1, 2}},
	}
	res, err := RunPack(ip)
	require.NoError(t, err)
	require.Len(t, res.Entities, 1)
	assert.InDeltaSlice(t, []float64{1, 2}, res.Coefficients, 1.e-13)

	ip.Mesh.Boundary = []string{"left"}
	_, err = RunPack(ip)
	assert.True(t, errors.Is(err, utils.ErrInvalidArgument))
}

func TestRunPackErrors(t *testing.T) {
	base := InputParameters.InputParameters{
		Mesh:     InputParameters.MeshParameters{Type: "rectangle", N: []int{1, 1}, Min: []float64{0, 0}, Max: []float64{1, 1}, Degree: 1},
		Element:  InputParameters.ElementParameters{Family: "RT", Degree: 1, BlockSize: 1},
		Integral: "cell",
	}
	ip := base
	ip.Circumradius = true
	_, err := RunPack(&ip)
	assert.True(t, errors.Is(err, utils.ErrInvalidArgument))

	ip = base
	ip.Gradient = true
	_, err = RunPack(&ip)
	assert.True(t, errors.Is(err, utils.ErrUnsupported))

	ip = base
	ip.Mesh.Type = "sphere"
	_, err = RunPack(&ip)
	assert.True(t, errors.Is(err, utils.ErrInvalidArgument))

	ip = base
	ip.Mesh.N = []int{1}
	_, err = RunPack(&ip)
	assert.True(t, errors.Is(err, utils.ErrInvalidArgument))

	ip = base
	ip.Integral = "vertex"
	_, err = RunPack(&ip)
	assert.Error(t, err)
}

func TestRunPackCommandProfile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(wd)) }()
	viper.Set("profile", "mem")
	defer viper.Set("profile", "")

	// The profile is flushed even when packing fails
	ip := InputParameters.InputParameters{
		Mesh:     InputParameters.MeshParameters{Type: "sphere"},
		Element:  InputParameters.ElementParameters{Family: "Lagrange", Degree: 1, BlockSize: 1},
		Integral: "cell",
	}
	assert.Equal(t, 1, runPackCommand(&ip, false, 0))
	assert.FileExists(t, filepath.Join(dir, "mem.pprof"))

	ip.Mesh = InputParameters.MeshParameters{Type: "rectangle", N: []int{1, 1}, Min: []float64{0, 0}, Max: []float64{1, 1}, Degree: 1}
	assert.Equal(t, 0, runPackCommand(&ip, false, 0))
}
