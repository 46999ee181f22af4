package emit

import (
	"errors"
	"io"

	"github.com/chazu/stlembed/pkg/mesh"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// GLB writes a binary glTF asset. All parts share one POSITION and one
// NORMAL accessor; each part is a named node and mesh whose single
// primitive has its own index accessor.
type GLB struct{}

func (GLB) Emit(open Output, m *mesh.Model, parts []mesh.Part) error {
	doc, err := BuildGLTF(m, parts)
	if err != nil {
		return err
	}
	return write(open, ".glb", func(w io.Writer) error {
		enc := gltf.NewEncoder(w)
		enc.AsBinary = true
		return enc.Encode(doc)
	})
}

// BuildGLTF builds the glTF document for m. With no parts, the whole model
// becomes a single mesh called "model".
func BuildGLTF(m *mesh.Model, parts []mesh.Part) (*gltf.Document, error) {
	if m.TriangleCount() == 0 {
		return nil, errors.New("emit: glb: model has no triangles")
	}
	if len(parts) == 0 {
		parts = []mesh.Part{{Name: "model", Start: 0, End: m.TriangleCount()}}
	}

	positions := make([][3]float32, m.VertexCount())
	normals := make([][3]float32, m.VertexCount())
	for i := range positions {
		v := m.Vertex(i)
		positions[i] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
		normals[i] = [3]float32{float32(v.NX), float32(v.NY), float32(v.NZ)}
	}

	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, positions)
	nrm := modeler.WriteNormal(doc, normals)

	for _, p := range parts {
		if p.Count() == 0 {
			continue
		}
		indices := make([]uint32, 0, 3*p.Count())
		for i := p.Start; i < p.End; i++ {
			t := m.Triangle(i)
			indices = append(indices, uint32(t.V0), uint32(t.V1), uint32(t.V2))
		}
		idx := modeler.WriteIndices(doc, indices)

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: p.Name,
			Primitives: []*gltf.Primitive{{
				Indices: gltf.Index(idx),
				Attributes: map[string]int{
					gltf.POSITION: pos,
					gltf.NORMAL:   nrm,
				},
			}},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: p.Name,
			Mesh: gltf.Index(len(doc.Meshes) - 1),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	return doc, nil
}
