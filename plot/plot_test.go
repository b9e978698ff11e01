package plot

import (
	"errors"
	"testing"

	"github.com/SarahRo/asimov-contact/mesh"
	"github.com/SarahRo/asimov-contact/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTriMesh(t *testing.T) {
	m, err := mesh.CreateRectangle(1, 1, [2]float64{0, 0}, [2]float64{2, 1}, 2)
	require.NoError(t, err)
	gm, err := NewTriMesh(m)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 2, 0, 0, 1, 2, 1}, gm.XY)
	assert.Equal(t, [][3]int64{{0, 1, 3}, {0, 2, 3}}, gm.TriVerts)

	box, err := mesh.CreateBox(1, 1, 1, [3]float64{0, 0, 0}, [3]float64{1, 1, 1}, 1)
	require.NoError(t, err)
	_, err = NewTriMesh(box)
	assert.True(t, errors.Is(err, utils.ErrUnsupported))
}

func TestAddCrossHairs(t *testing.T) {
	lines := AddCrossHairs([]float64{1, 2, -1, 0}, 0.5, []float32{9})
	assert.Equal(t, []float32{9,
		0.5, 2, 1.5, 2, 1, 1.5, 1, 2.5,
		-1.5, 0, -0.5, 0, -1, -0.5, -1, 0.5,
	}, lines)
}

func TestBoundingBox(t *testing.T) {
	xMin, xMax, yMin, yMax := BoundingBox([]float32{0, 0, 2, 1, 1, -1}, 2)
	assert.Equal(t, []float32{-1, 3, -2, 2}, []float32{xMin, xMax, yMin, yMax})
}
