// Package convert parses a list of named STL inputs into one shared indexed
// model, recording where each input's triangles start and end.
package convert

import (
	"fmt"
	"io"
	"os"

	"github.com/chazu/stlembed/pkg/mesh"
	"github.com/chazu/stlembed/pkg/stl"
)

// Input is one STL source contributing a named part to the combined model.
type Input struct {
	Name string
	Path string
}

// Opener opens an input for reading.
type Opener func(path string) (io.ReadCloser, error)

// OpenFile is the default Opener.
func OpenFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Result is the outcome of a successful conversion. The model is read-only.
type Result struct {
	Model *mesh.Model
	Parts []mesh.Part
	// Solids maps part name to the name declared on its "solid" line.
	Solids map[string]string
}

// Convert parses every input, in order, into a single model. Vertices shared
// between inputs are deduplicated across the whole model. The first failure
// aborts the run and no result is returned. A nil open uses OpenFile.
func Convert(inputs []Input, open Opener) (*Result, error) {
	if open == nil {
		open = OpenFile
	}
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if in.Name == "" {
			return nil, fmt.Errorf("convert: input %q has no part name", in.Path)
		}
		if seen[in.Name] {
			return nil, fmt.Errorf("convert: duplicate part name %q", in.Name)
		}
		seen[in.Name] = true
	}

	res := &Result{
		Model:  mesh.NewModel(),
		Parts:  make([]mesh.Part, 0, len(inputs)),
		Solids: make(map[string]string, len(inputs)),
	}
	for _, in := range inputs {
		part, solid, err := convertOne(res.Model, in, open)
		if err != nil {
			return nil, err
		}
		res.Parts = append(res.Parts, part)
		res.Solids[in.Name] = solid
	}
	return res, nil
}

// convertOne holds the input open only for the duration of its parse.
func convertOne(m *mesh.Model, in Input, open Opener) (mesh.Part, string, error) {
	f, err := open(in.Path)
	if err != nil {
		return mesh.Part{}, "", fmt.Errorf("convert: part %q: %w", in.Name, err)
	}
	defer f.Close()

	start := m.TriangleCount()
	solid, err := stl.ParseReader(f, m)
	if err != nil {
		return mesh.Part{}, "", fmt.Errorf("convert: part %q (%s): %w", in.Name, in.Path, err)
	}
	return mesh.Part{Name: in.Name, Start: start, End: m.TriangleCount()}, solid, nil
}
