package emit

import (
	"bufio"
	"fmt"
	"io"

	"github.com/chazu/stlembed/pkg/mesh"
)

// CPP writes a header and a source file declaring nanogui matrices:
//
//	MatrixXu <prefix>indices(3, triangles)
//	MatrixXf <prefix>positions(3, vertices)
//	MatrixXf <prefix>normals(3, vertices)
//
// filled column by column in <prefix>initModel(). The header also defines
// <part>_TRIANGLE_START and <part>_TRIANGLE_END for every part.
type CPP struct {
	Prefix string
}

func (c CPP) Emit(open Output, m *mesh.Model, parts []mesh.Part) error {
	if err := checkParts("cpp", parts); err != nil {
		return err
	}
	if err := write(open, ".h", func(w io.Writer) error { return c.header(w, m, parts) }); err != nil {
		return err
	}
	return write(open, ".cpp", func(w io.Writer) error { return c.source(w, m) })
}

func (c CPP) header(w io.Writer, m *mesh.Model, parts []mesh.Part) error {
	p := c.Prefix
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "#pragma once")
	fmt.Fprintln(bw, "#include <nanogui/common.h>")
	fmt.Fprintln(bw, "using namespace nanogui;")
	fmt.Fprintln(bw)
	for _, part := range parts {
		id := identifier(part.Name)
		fmt.Fprintf(bw, "#define %s_TRIANGLE_START %d\n", id, part.Start)
		fmt.Fprintf(bw, "#define %s_TRIANGLE_END %d\n", id, part.End)
	}
	if len(parts) > 0 {
		fmt.Fprintln(bw)
	}
	fmt.Fprintf(bw, "extern MatrixXu %sindices;\n", p)
	fmt.Fprintf(bw, "extern MatrixXf %spositions;\n", p)
	fmt.Fprintf(bw, "extern MatrixXf %snormals;\n", p)
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "extern void %sinitModel();\n", p)
	return bw.Flush()
}

func (c CPP) source(w io.Writer, m *mesh.Model) error {
	p := c.Prefix
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "#include <nanogui/common.h>")
	fmt.Fprintln(bw, "using namespace nanogui;")
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "MatrixXu %sindices(3, %d);\n", p, m.TriangleCount())
	fmt.Fprintf(bw, "MatrixXf %spositions(3, %d);\n", p, m.VertexCount())
	fmt.Fprintf(bw, "MatrixXf %snormals(3, %d);\n", p, m.VertexCount())
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "void %sinitModel() {\n", p)
	for i := 0; i < m.TriangleCount(); i++ {
		t := m.Triangle(i)
		fmt.Fprintf(bw, "   %sindices.col(%d) << %d,%d,%d;\n", p, i, t.V0, t.V1, t.V2)
	}
	for i := 0; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		fmt.Fprintf(bw, "   %spositions.col(%d) << %f,%f,%f;\n", p, i, v.X, v.Y, v.Z)
	}
	for i := 0; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		fmt.Fprintf(bw, "   %snormals.col(%d) << %f,%f,%f;\n", p, i, v.NX, v.NY, v.NZ)
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
