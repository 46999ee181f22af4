package mesh

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/chazu/stlembed/pkg/kernel"
)

// ErrIndexOutOfRange is returned when a kernel mesh's index buffer
// references a vertex past the end of its position buffer.
var ErrIndexOutOfRange = errors.New("mesh: vertex index out of range")

// Model is an indexed triangle mesh built in one linear pass.
//
// The vertices slice is authoritative; index is a lookup cache over it and
// always satisfies vertices[index[v]] == v. Indices are dense, start at 0 and
// are never reused. A Model is not safe for concurrent use.
type Model struct {
	vertices  []Vertex
	index     map[Vertex]int
	triangles []Triangle
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{index: make(map[Vertex]int)}
}

// Index returns the table index for v, appending v to the table if no equal
// vertex is present yet. It is the only way vertices enter the table.
func (m *Model) Index(v Vertex) int {
	if i, ok := m.index[v]; ok {
		return i
	}
	i := len(m.vertices)
	m.vertices = append(m.vertices, v)
	m.index[v] = i
	return i
}

// AddFacet resolves the three corners of a facet in order and appends the
// resulting triangle.
func (m *Model) AddFacet(v0, v1, v2 Vertex) Triangle {
	t := Triangle{V0: m.Index(v0), V1: m.Index(v1), V2: m.Index(v2)}
	m.triangles = append(m.triangles, t)
	return t
}

// VertexCount returns the size of the vertex table.
func (m *Model) VertexCount() int {
	return len(m.vertices)
}

// Vertex returns the vertex at table index i.
func (m *Model) Vertex(i int) Vertex {
	return m.vertices[i]
}

// Vertices returns a copy of the vertex table in index order.
func (m *Model) Vertices() []Vertex {
	return slices.Clone(m.vertices)
}

// TriangleCount returns the number of triangles appended so far. Callers
// combining several inputs into one model use it to mark part boundaries.
func (m *Model) TriangleCount() int {
	return len(m.triangles)
}

// Triangle returns the i-th triangle in parse order.
func (m *Model) Triangle(i int) Triangle {
	return m.triangles[i]
}

// Triangles returns a copy of the triangle list in parse order.
func (m *Model) Triangles() []Triangle {
	return slices.Clone(m.triangles)
}

// Bounds returns the axis-aligned bounds of all vertex positions.
// An empty model reports zero bounds.
func (m *Model) Bounds() (min, max [3]float64) {
	if len(m.vertices) == 0 {
		return min, max
	}
	min = [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range m.vertices {
		p := v.Position()
		for k := range 3 {
			min[k] = math.Min(min[k], p[k])
			max[k] = math.Max(max[k], p[k])
		}
	}
	return min, max
}

// ToMesh flattens the model into render buffers. Positions and normals are
// narrowed to float32.
func (m *Model) ToMesh(name string) *kernel.Mesh {
	out := &kernel.Mesh{
		Vertices: make([]float32, 0, 3*len(m.vertices)),
		Normals:  make([]float32, 0, 3*len(m.vertices)),
		Indices:  make([]uint32, 0, 3*len(m.triangles)),
		PartName: name,
	}
	for _, v := range m.vertices {
		out.Vertices = append(out.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
		out.Normals = append(out.Normals, float32(v.NX), float32(v.NY), float32(v.NZ))
	}
	for _, t := range m.triangles {
		out.Indices = append(out.Indices, uint32(t.V0), uint32(t.V1), uint32(t.V2))
	}
	return out
}

// FromMesh builds a model from flat buffers, deduplicating vertices by value.
// Triangle order and winding are preserved.
func FromMesh(km *kernel.Mesh) (*Model, error) {
	if len(km.Vertices) != len(km.Normals) {
		return nil, fmt.Errorf("mesh: %d position floats but %d normal floats", len(km.Vertices), len(km.Normals))
	}
	if len(km.Indices)%3 != 0 {
		return nil, fmt.Errorf("mesh: index count %d is not a multiple of 3", len(km.Indices))
	}
	m := NewModel()
	n := uint32(km.VertexCount())
	for t := 0; t < km.TriangleCount(); t++ {
		var corners [3]Vertex
		for j, idx := range km.Triangle(t) {
			if idx >= n {
				return nil, fmt.Errorf("%w: triangle %d references %d (%d vertices)", ErrIndexOutOfRange, t, idx, n)
			}
			p, nrm := km.Position(int(idx)), km.Normal(int(idx))
			corners[j] = Vertex{
				X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2]),
				NX: float64(nrm[0]), NY: float64(nrm[1]), NZ: float64(nrm[2]),
			}
		}
		m.AddFacet(corners[0], corners[1], corners[2])
	}
	return m, nil
}
