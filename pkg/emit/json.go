package emit

import (
	"encoding/json"
	"io"

	"github.com/chazu/stlembed/pkg/mesh"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// MeshData is one part in the JSON document. Its indices point into the
// document's shared vertex buffers.
type MeshData struct {
	PartName string   `json:"partName"`
	Color    string   `json:"color"`
	Start    int      `json:"triangleStart"`
	End      int      `json:"triangleEnd"`
	Indices  []uint32 `json:"indices"`
}

// Bounds is the axis-aligned bounding box of the vertex positions.
type Bounds struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// Document is the JSON artifact.
type Document struct {
	Vertices []float32  `json:"vertices"`
	Normals  []float32  `json:"normals"`
	Meshes   []MeshData `json:"meshes"`
	Bounds   Bounds     `json:"bounds"`
}

// JSON writes the model as a Document.
type JSON struct{}

func (JSON) Emit(open Output, m *mesh.Model, parts []mesh.Part) error {
	doc := NewDocument(m, parts)
	return write(open, ".json", func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	})
}

// NewDocument flattens m. With no parts the whole model becomes one mesh
// called "model".
func NewDocument(m *mesh.Model, parts []mesh.Part) Document {
	if len(parts) == 0 {
		parts = []mesh.Part{{Name: "model", Start: 0, End: m.TriangleCount()}}
	}
	flat := m.ToMesh("")
	doc := Document{
		Vertices: flat.Vertices,
		Normals:  flat.Normals,
		Meshes:   make([]MeshData, 0, len(parts)),
	}
	doc.Bounds.Min, doc.Bounds.Max = m.Bounds()
	for i, p := range parts {
		doc.Meshes = append(doc.Meshes, MeshData{
			PartName: p.Name,
			Color:    colorPalette[i%len(colorPalette)],
			Start:    p.Start,
			End:      p.End,
			Indices:  flat.Indices[3*p.Start : 3*p.End],
		})
	}
	return doc
}
