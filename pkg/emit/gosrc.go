package emit

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strconv"

	"github.com/chazu/stlembed/pkg/mesh"
)

// valuesPerLine bounds the width of generated slice literals.
const valuesPerLine = 12

// GoSource writes a gofmt'd Go file holding the model as []float32
// positions and normals, []uint32 indices, and per-part triangle ranges.
type GoSource struct {
	Package string // defaults to "model"
	Prefix  string
}

func (g GoSource) Emit(open Output, m *mesh.Model, parts []mesh.Part) error {
	src, err := g.Source(m, parts)
	if err != nil {
		return err
	}
	return write(open, ".go", func(w io.Writer) error {
		_, err := w.Write(src)
		return err
	})
}

// Source renders the Go file.
func (g GoSource) Source(m *mesh.Model, parts []mesh.Part) ([]byte, error) {
	if err := checkParts("go", parts); err != nil {
		return nil, err
	}
	pkg := g.Package
	if pkg == "" {
		pkg = "model"
	}
	name := func(s string) string {
		if g.Prefix == "" {
			return s
		}
		return identifier(g.Prefix) + s
	}

	var b bytes.Buffer
	fmt.Fprintln(&b, "// Code generated by stlembed. DO NOT EDIT.")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "package %s\n\n", identifier(pkg))

	if len(parts) > 0 {
		fmt.Fprintln(&b, "// Triangle ranges [start, end) of each part.")
		fmt.Fprintln(&b, "const (")
		for _, p := range parts {
			id := name(exported(p.Name))
			fmt.Fprintf(&b, "%sTriangleStart = %d\n", id, p.Start)
			fmt.Fprintf(&b, "%sTriangleEnd = %d\n", id, p.End)
		}
		fmt.Fprintln(&b, ")")
		fmt.Fprintln(&b)
	}

	fmt.Fprintf(&b, "// %s holds x, y, z for each of the %d vertices.\n", name("Positions"), m.VertexCount())
	fmt.Fprintf(&b, "var %s = []float32{\n", name("Positions"))
	floats(&b, m, func(v mesh.Vertex) [3]float64 { return v.Position() })
	fmt.Fprintln(&b, "}")
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "// %s holds nx, ny, nz for each vertex.\n", name("Normals"))
	fmt.Fprintf(&b, "var %s = []float32{\n", name("Normals"))
	floats(&b, m, func(v mesh.Vertex) [3]float64 { return v.Normal() })
	fmt.Fprintln(&b, "}")
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "// %s holds three vertex indices for each of the %d triangles.\n", name("Indices"), m.TriangleCount())
	fmt.Fprintf(&b, "var %s = []uint32{\n", name("Indices"))
	n := 0
	for i := 0; i < m.TriangleCount(); i++ {
		for _, idx := range m.Triangle(i).Indices() {
			b.WriteString(strconv.Itoa(idx))
			b.WriteString(", ")
			if n++; n%valuesPerLine == 0 {
				b.WriteByte('\n')
			}
		}
	}
	fmt.Fprintln(&b, "\n}")

	out, err := format.Source(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("emit: format go source: %w", err)
	}
	return out, nil
}

func floats(b *bytes.Buffer, m *mesh.Model, field func(mesh.Vertex) [3]float64) {
	n := 0
	for i := 0; i < m.VertexCount(); i++ {
		for _, f := range field(m.Vertex(i)) {
			b.WriteString(strconv.FormatFloat(float64(float32(f)), 'g', -1, 32))
			b.WriteString(", ")
			if n++; n%valuesPerLine == 0 {
				b.WriteByte('\n')
			}
		}
	}
	b.WriteByte('\n')
}
