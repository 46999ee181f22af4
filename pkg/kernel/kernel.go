// Package kernel defines the abstract geometry kernel used to synthesize
// STL sources from primitive solids, and the flat Mesh buffer format shared
// by the kernel, the STL writer and the emitters.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds solids and tessellates them into meshes.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// ToMesh tessellates s. The result is unindexed: every triangle owns
	// its three vertices, each carrying the triangle's face normal.
	ToMesh(s Solid) (*Mesh, error)
}
