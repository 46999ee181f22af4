// Command stlgen writes ASCII STL fixtures generated with the sdfx kernel.
//
//	stlgen -shape arm -o testdata/arm.stl
//
// A single-part shape is written to the -o path. A multi-part shape is
// written as one file per part, <base>_<part>.stl, or with -merge as one
// file holding the union of its parts. Each file is read back and checked
// against the generated mesh, then printed as a name=path argument ready
// for stlembed.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chazu/stlembed/pkg/kernel"
	"github.com/chazu/stlembed/pkg/kernel/sdfx"
	"github.com/chazu/stlembed/pkg/mesh"
	"github.com/chazu/stlembed/pkg/stl"
	"github.com/chazu/stlembed/pkg/tessellate"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("stlgen: ")

	shape := flag.String("shape", "box", "shape to generate: "+strings.Join(tessellate.Names(), ", "))
	out := flag.String("o", "", "output STL path (default <shape>.stl)")
	cells := flag.Int("cells", sdfx.DefaultMeshCells, "marching cubes cells along the longest axis")
	merge := flag.Bool("merge", false, "write the union of all parts as one file")
	flag.Parse()

	s, err := tessellate.Lookup(*shape)
	if err != nil {
		log.Fatal(err)
	}
	if *out == "" {
		*out = s.Name + ".stl"
	}

	k := sdfx.NewWithCells(*cells)
	var meshes []*kernel.Mesh
	if *merge {
		var m *kernel.Mesh
		m, err = tessellate.Merge(s, k)
		meshes = []*kernel.Mesh{m}
	} else {
		meshes, err = tessellate.Tessellate(s, k)
	}
	if err != nil {
		log.Fatal(err)
	}

	for _, m := range meshes {
		path := partPath(*out, m.PartName, len(meshes))
		if err := writeSTL(path, m); err != nil {
			log.Fatal(err)
		}
		if err := verifySTL(path, m); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s=%s\n", m.PartName, path)
	}
}

// partPath names the file for one part of an n-part shape.
func partPath(out, part string, n int) string {
	if n == 1 {
		return out
	}
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "_" + part + ext
}

func writeSTL(path string, m *kernel.Mesh) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return stl.Write(f, m.PartName, m)
}

// verifySTL parses the file at path and checks that it indexes to the same
// model as m. The STL text carries enough digits to restore every float32
// exactly, so the two models must agree buffer for buffer.
func verifySTL(path string, m *kernel.Mesh) error {
	want, err := mesh.FromMesh(m)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	got := mesh.NewModel()
	if _, err := stl.ParseReader(f, got); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if got.VertexCount() != want.VertexCount() || got.TriangleCount() != want.TriangleCount() {
		return fmt.Errorf("%s: read back %d vertices, %d triangles; generated %d, %d",
			path, got.VertexCount(), got.TriangleCount(), want.VertexCount(), want.TriangleCount())
	}
	g, w := got.ToMesh(m.PartName), want.ToMesh(m.PartName)
	if !slices.Equal(g.Vertices, w.Vertices) || !slices.Equal(g.Normals, w.Normals) || !slices.Equal(g.Indices, w.Indices) {
		return errors.New(path + ": read back a different mesh than was generated")
	}
	return nil
}
