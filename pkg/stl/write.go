package stl

import (
	"bufio"
	"fmt"
	"io"

	"github.com/chazu/stlembed/pkg/kernel"
)

// Write encodes km as an ASCII STL solid called name. Each triangle's facet
// normal is taken from its first corner. Numbers are written with nine
// significant digits in exponent form, enough for float32 values to survive
// a Write/Parse round trip unchanged.
func Write(w io.Writer, name string, km *kernel.Mesh) error {
	if len(km.Vertices) != len(km.Normals) {
		return fmt.Errorf("stl: %d position floats but %d normal floats", len(km.Vertices), len(km.Normals))
	}
	n := uint32(km.VertexCount())

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for t := 0; t < km.TriangleCount(); t++ {
		tri := km.Triangle(t)
		for _, idx := range tri {
			if idx >= n {
				return fmt.Errorf("stl: triangle %d references vertex %d of %d", t, idx, n)
			}
		}
		nrm := km.Normal(int(tri[0]))
		fmt.Fprintf(bw, "  facet normal %.8e %.8e %.8e\n", nrm[0], nrm[1], nrm[2])
		fmt.Fprintln(bw, "    outer loop")
		for _, idx := range tri {
			p := km.Position(int(idx))
			fmt.Fprintf(bw, "      vertex %.8e %.8e %.8e\n", p[0], p[1], p[2])
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}
