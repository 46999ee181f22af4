// Package tessellate turns named fixture shapes into triangle meshes using a
// geometry kernel. One mesh is produced per part, so a multi-part shape can
// be written as one STL file per part and fed back through the converter.
package tessellate

import (
	"fmt"
	"sort"

	"github.com/chazu/stlembed/pkg/kernel"
)

// PrimitiveKind selects the kernel primitive for a part.
type PrimitiveKind int

const (
	PrimBox      PrimitiveKind = iota // Size is x, y, z
	PrimCylinder                      // Size is height, radius, unused
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimBox:
		return "box"
	case PrimCylinder:
		return "cylinder"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", int(k))
	}
}

// Part is one primitive of a shape, positioned by a rotation (Euler
// degrees) followed by a translation.
type Part struct {
	Name        string
	Kind        PrimitiveKind
	Size        [3]float64
	Hole        float64    // radius of a Z-axis bore through the part, 0 for none
	Clip        [3]float64 // keep only what lies inside a centered box of this size
	Rotation    [3]float64
	Translation [3]float64
}

// Shape is a named list of parts.
type Shape struct {
	Name  string
	Parts []Part
}

var shapes = map[string]Shape{
	"box": {Name: "box", Parts: []Part{
		{Name: "box", Kind: PrimBox, Size: [3]float64{20, 20, 20}},
	}},
	"cylinder": {Name: "cylinder", Parts: []Part{
		{Name: "cylinder", Kind: PrimCylinder, Size: [3]float64{20, 8, 0}},
	}},
	"arm": {Name: "arm", Parts: []Part{
		{Name: "base", Kind: PrimCylinder, Size: [3]float64{6, 15, 0}, Hole: 4,
			Clip: [3]float64{26, 32, 8}, Translation: [3]float64{0, 0, 3}},
		{Name: "upper-arm", Kind: PrimBox, Size: [3]float64{6, 6, 40},
			Translation: [3]float64{0, 0, 26}},
		{Name: "forearm", Kind: PrimBox, Size: [3]float64{30, 6, 6},
			Rotation: [3]float64{0, 0, 30}, Translation: [3]float64{12, 7, 46}},
	}},
}

// Names returns the known shape names, sorted.
func Names() []string {
	names := make([]string, 0, len(shapes))
	for name := range shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the shape called name.
func Lookup(name string) (Shape, error) {
	s, ok := shapes[name]
	if !ok {
		return Shape{}, fmt.Errorf("tessellate: unknown shape %q", name)
	}
	return s, nil
}

// Tessellate builds every part of s with k and returns one mesh per part, in
// part order, each carrying the part name.
func Tessellate(s Shape, k kernel.Kernel) ([]*kernel.Mesh, error) {
	meshes := make([]*kernel.Mesh, 0, len(s.Parts))
	for _, p := range s.Parts {
		m, err := tessellatePart(p, k)
		if err != nil {
			return nil, fmt.Errorf("tessellate: shape %s: %w", s.Name, err)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// Merge unions every part of s into one solid and returns its mesh, named
// after the shape.
func Merge(s Shape, k kernel.Kernel) (*kernel.Mesh, error) {
	if len(s.Parts) == 0 {
		return nil, fmt.Errorf("tessellate: shape %s has no parts", s.Name)
	}
	var merged kernel.Solid
	for _, p := range s.Parts {
		solid, err := buildSolid(p, k)
		if err != nil {
			return nil, fmt.Errorf("tessellate: shape %s: %w", s.Name, err)
		}
		if merged == nil {
			merged = solid
			continue
		}
		merged = k.Union(merged, solid)
	}
	mesh, err := k.ToMesh(merged)
	if err != nil {
		return nil, fmt.Errorf("tessellate: shape %s: %w", s.Name, err)
	}
	mesh.PartName = s.Name
	return mesh, nil
}

func tessellatePart(p Part, k kernel.Kernel) (*kernel.Mesh, error) {
	solid, err := buildSolid(p, k)
	if err != nil {
		return nil, err
	}
	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("part %s: %w", p.Name, err)
	}
	mesh.PartName = p.Name
	return mesh, nil
}

func buildSolid(p Part, k kernel.Kernel) (kernel.Solid, error) {
	var solid kernel.Solid
	switch p.Kind {
	case PrimBox:
		solid = k.Box(p.Size[0], p.Size[1], p.Size[2])
	case PrimCylinder:
		solid = k.Cylinder(p.Size[0], p.Size[1], 32)
	default:
		return nil, fmt.Errorf("part %s has unsupported primitive %v", p.Name, p.Kind)
	}

	if p.Hole > 0 {
		min, max := solid.BoundingBox()
		bore := k.Cylinder(max[2]-min[2]+2, p.Hole, 32)
		solid = k.Difference(solid, bore)
	}
	if c := p.Clip; c != [3]float64{} {
		solid = k.Intersection(solid, k.Box(c[0], c[1], c[2]))
	}

	// Rotation first, then translation.
	if r := p.Rotation; r != [3]float64{} {
		solid = k.Rotate(solid, r[0], r[1], r[2])
	}
	if t := p.Translation; t != [3]float64{} {
		solid = k.Translate(solid, t[0], t[1], t[2])
	}
	return solid, nil
}
