package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/SarahRo/asimov-contact/element"
	"github.com/SarahRo/asimov-contact/utils"
)

// SU2/VTK element type identifiers
var su2CellTypeMap = map[int]element.CellType{
	3:  element.Interval,    // VTK_LINE
	5:  element.Triangle,    // VTK_TRIANGLE
	10: element.Tetrahedron, // VTK_TETRA
}

// ReadSU2File reads a simplex mesh in SU2 native format, see ReadSU2
func ReadSU2File(filename string, degree int) (m *Mesh, markers map[string][]int, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return
	}
	defer file.Close()
	return ReadSU2(file, degree)
}

// ReadSU2 reads a triangle (NDIME=2) or tetrahedron (NDIME=3) mesh in SU2
// native format. Boundary markers are returned as lists of facet indices of
// the mesh, keyed by MARKER_TAG.
func ReadSU2(r io.Reader, degree int) (m *Mesh, markers map[string][]int, err error) {
	var (
		scanner  = bufio.NewScanner(r)
		ndime    int
		cell     element.CellType
		x        []float64
		cells    [][]int
		boundary = make(map[string][][]int)
		tags     []string
	)
	nextLine := func(what string) (string, error) {
		if !scanner.Scan() {
			return "", fmt.Errorf("%w: unexpected EOF reading %s", utils.ErrInvalidArgument, what)
		}
		return scanner.Text(), nil
	}
	readNodes := func(fields []string, n int, what string) (nodes []int, err error) {
		if len(fields) < n+1 {
			return nil, fmt.Errorf("%w: %s expects %d nodes, got %d fields", utils.ErrInvalidArgument, what, n, len(fields)-1)
		}
		nodes = make([]int, n)
		for j := range nodes {
			if nodes[j], err = strconv.Atoi(fields[1+j]); err != nil {
				return nil, fmt.Errorf("%w: invalid node index: %v", utils.ErrInvalidArgument, err)
			}
		}
		return
	}
	for scanner.Scan() {
		line := scanner.Text()
		// Skip comments (text after %)
		if idx := strings.Index(line, "%"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "NDIME="):
			fmt.Sscanf(line, "NDIME=%d", &ndime)
			switch ndime {
			case 2:
				cell = element.Triangle
			case 3:
				cell = element.Tetrahedron
			default:
				return nil, nil, fmt.Errorf("%w: dimension NDIME=%d", utils.ErrUnsupported, ndime)
			}
		case strings.HasPrefix(line, "NPOIN="):
			if ndime == 0 {
				return nil, nil, fmt.Errorf("%w: NPOIN= before NDIME=", utils.ErrInvalidArgument)
			}
			var npoin int
			fmt.Sscanf(line, "NPOIN=%d", &npoin)
			x = make([]float64, 0, npoin*ndime)
			for i := 0; i < npoin; i++ {
				var l string
				if l, err = nextLine("nodes"); err != nil {
					return nil, nil, err
				}
				// Legacy format may have explicit ID at end of line (ignored)
				fields := strings.Fields(l)
				if len(fields) < ndime {
					return nil, nil, fmt.Errorf("%w: node line %q has fewer than %d coordinates",
						utils.ErrInvalidArgument, l, ndime)
				}
				for j := 0; j < ndime; j++ {
					var xj float64
					if xj, err = strconv.ParseFloat(fields[j], 64); err != nil {
						return nil, nil, fmt.Errorf("%w: invalid coordinate: %v", utils.ErrInvalidArgument, err)
					}
					x = append(x, xj)
				}
			}
		case strings.HasPrefix(line, "NELEM="):
			var nelem int
			fmt.Sscanf(line, "NELEM=%d", &nelem)
			cells = make([][]int, 0, nelem)
			for i := 0; i < nelem; i++ {
				var l string
				if l, err = nextLine("elements"); err != nil {
					return nil, nil, err
				}
				fields := strings.Fields(l)
				su2Type := parseSU2Type(fields)
				if ct, ok := su2CellTypeMap[su2Type]; !ok || ct != cell {
					return nil, nil, fmt.Errorf("%w: element type %d in a %v mesh", utils.ErrUnsupported, su2Type, cell)
				}
				var nodes []int
				if nodes, err = readNodes(fields, cell.NumVertices(), "element"); err != nil {
					return nil, nil, err
				}
				cells = append(cells, nodes)
			}
		case strings.HasPrefix(line, "NMARK="):
			var nmark int
			fmt.Sscanf(line, "NMARK=%d", &nmark)
			for i := 0; i < nmark; i++ {
				var tagLine, elemLine string
				if tagLine, err = nextLine("marker tag"); err != nil {
					return nil, nil, err
				}
				tagLine = strings.TrimSpace(tagLine)
				if !strings.HasPrefix(tagLine, "MARKER_TAG=") {
					return nil, nil, fmt.Errorf("%w: expected MARKER_TAG=, got: %s", utils.ErrInvalidArgument, tagLine)
				}
				tag := strings.TrimSpace(strings.TrimPrefix(tagLine, "MARKER_TAG="))
				if elemLine, err = nextLine("marker elements"); err != nil {
					return nil, nil, err
				}
				var nMarkerElems int
				if _, err = fmt.Sscanf(strings.TrimSpace(elemLine), "MARKER_ELEMS=%d", &nMarkerElems); err != nil {
					return nil, nil, fmt.Errorf("%w: invalid MARKER_ELEMS line: %s", utils.ErrInvalidArgument, elemLine)
				}
				tags = append(tags, tag)
				for j := 0; j < nMarkerElems; j++ {
					var l string
					if l, err = nextLine("boundary elements"); err != nil {
						return nil, nil, err
					}
					fields := strings.Fields(l)
					su2Type := parseSU2Type(fields)
					if ct, ok := su2CellTypeMap[su2Type]; !ok || ct != cell.FacetType() {
						return nil, nil, fmt.Errorf("%w: boundary element type %d in a %v mesh",
							utils.ErrUnsupported, su2Type, cell)
					}
					var nodes []int
					if nodes, err = readNodes(fields, cell.FacetType().NumVertices(), "boundary element"); err != nil {
						return nil, nil, err
					}
					boundary[tag] = append(boundary[tag], nodes)
				}
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading file: %v", err)
	}
	if ndime == 0 || x == nil {
		return nil, nil, fmt.Errorf("%w: missing required NDIME= or NPOIN= section", utils.ErrInvalidArgument)
	}
	nv := len(x) / ndime
	for c, verts := range cells {
		for _, v := range verts {
			if v < 0 || v >= nv {
				return nil, nil, fmt.Errorf("%w: cell %d node index %d out of range [0,%d)",
					utils.ErrInvalidArgument, c, v, nv)
			}
		}
	}
	if m, err = NewMesh(cell, degree, ndime, x, cells); err != nil {
		return nil, nil, err
	}
	markers = make(map[string][]int, len(tags))
	for _, tag := range tags {
		facets := make([]int, 0, len(boundary[tag]))
		for _, nodes := range boundary[tag] {
			f, ok := m.Topology.FindFacet(nodes)
			if !ok {
				return nil, nil, fmt.Errorf("%w: marker %s element %v is not a facet of the mesh",
					utils.ErrInvalidArgument, tag, nodes)
			}
			facets = append(facets, f)
		}
		markers[tag] = facets
	}
	return
}

// parseSU2Type returns the element type leading fields, -1 if there is none
func parseSU2Type(fields []string) int {
	if len(fields) == 0 {
		return -1
	}
	t, err := strconv.Atoi(fields[0])
	if err != nil {
		return -1
	}
	return t
}
