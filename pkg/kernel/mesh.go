package kernel

// Mesh is a flat triangle mesh. It is the exchange format between the
// solid kernel, the STL writer and the indexed model.
// Vertices and Normals hold 3 floats per vertex, Indices holds 3 per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Position returns the position of vertex i.
func (m *Mesh) Position(i int) [3]float32 {
	return [3]float32{m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]}
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) [3]float32 {
	return [3]float32{m.Normals[3*i], m.Normals[3*i+1], m.Normals[3*i+2]}
}

// Triangle returns the three vertex indices of triangle t.
func (m *Mesh) Triangle(t int) [3]uint32 {
	return [3]uint32{m.Indices[3*t], m.Indices[3*t+1], m.Indices[3*t+2]}
}
