// Package mesh holds the deduplicated indexed mesh: an ordered vertex table,
// a lookup from vertex value to index, and the ordered triangle list.
package mesh

import "cmp"

// Vertex is a position paired with the normal of the facet it came from.
// Vertices are plain values: two vertices are equal iff all six components
// compare equal with ==, so the same position under two different normals
// yields two distinct vertices.
type Vertex struct {
	X, Y, Z    float64
	NX, NY, NZ float64
}

// NewVertex builds a vertex from a position and a normal.
func NewVertex(pos, normal [3]float64) Vertex {
	return Vertex{
		X: pos[0], Y: pos[1], Z: pos[2],
		NX: normal[0], NY: normal[1], NZ: normal[2],
	}
}

// Position returns (x, y, z).
func (v Vertex) Position() [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// Normal returns (nx, ny, nz).
func (v Vertex) Normal() [3]float64 {
	return [3]float64{v.NX, v.NY, v.NZ}
}

// Compare orders vertices lexicographically by (x, y, z, nx, ny, nz).
// It returns -1, 0 or +1 and is suitable for slices.SortFunc.
func Compare(a, b Vertex) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Z, b.Z); c != 0 {
		return c
	}
	if c := cmp.Compare(a.NX, b.NX); c != 0 {
		return c
	}
	if c := cmp.Compare(a.NY, b.NY); c != 0 {
		return c
	}
	return cmp.Compare(a.NZ, b.NZ)
}

// Triangle is an ordered triple of vertex-table indices. The order is the
// facet's winding and is never permuted.
type Triangle struct {
	V0, V1, V2 int
}

// Indices returns the triangle's indices in winding order.
func (t Triangle) Indices() [3]int {
	return [3]int{t.V0, t.V1, t.V2}
}
