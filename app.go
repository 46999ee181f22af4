package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/stlembed/pkg/convert"
	"github.com/chazu/stlembed/pkg/emit"
	"github.com/chazu/stlembed/pkg/manifest"
	"github.com/chazu/stlembed/pkg/mesh"
)

// App runs build plans: parse every input STL into one shared model, then
// hand the model to the selected emitter.
type App struct {
	engine  *manifest.Engine
	open    convert.Opener
	create  func(path string) (io.WriteCloser, error)
	verbose bool
}

// Summary describes a finished build.
type Summary struct {
	Parts     []mesh.Part
	Vertices  int
	Triangles int
	Artifacts []string
}

// NewApp creates an App that reads and writes the local filesystem.
func NewApp(verbose bool) *App {
	return &App{
		engine:  manifest.NewEngine(),
		open:    convert.OpenFile,
		create:  createFile,
		verbose: verbose,
	}
}

// PlanFromArgs builds a plan from command line inputs of the form
// name=file.stl. A bare file.stl is named after its base name.
func (a *App) PlanFromArgs(args []string, out manifest.Output) (*manifest.Plan, error) {
	p := &manifest.Plan{Output: out}
	for _, arg := range args {
		name, path, ok := strings.Cut(arg, "=")
		if !ok {
			path = arg
			name = strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
		}
		p.Inputs = append(p.Inputs, convert.Input{Name: name, Path: path})
	}
	if errs := manifest.Validate(p); len(errs) > 0 {
		return nil, joinErrors(errs)
	}
	return p, nil
}

// LoadScript evaluates the build script at path.
func (a *App) LoadScript(path string) (*manifest.Plan, error) {
	p, evalErrs, err := a.engine.EvaluateFile(path)
	if err != nil {
		log.Printf("Evaluate fatal error: %v", err)
		return nil, err
	}
	if len(evalErrs) > 0 {
		return nil, fmt.Errorf("%s: %w", path, joinErrors(evalErrs))
	}
	return p, nil
}

// Build converts the plan's inputs and writes the output artifacts. Nothing
// is written if any input fails to parse.
func (a *App) Build(p *manifest.Plan) (*Summary, error) {
	emitter, err := emit.ByName(p.Output.Format, p.EmitOptions())
	if err != nil {
		return nil, err
	}

	res, err := convert.Convert(p.ResolvedInputs(), a.open)
	if err != nil {
		return nil, err
	}
	for _, part := range res.Parts {
		a.logf("part %s (solid %q): triangles [%d, %d)", part.Name, res.Solids[part.Name], part.Start, part.End)
	}
	a.logf("model: %d vertices, %d triangles", res.Model.VertexCount(), res.Model.TriangleCount())

	sum := &Summary{
		Parts:     res.Parts,
		Vertices:  res.Model.VertexCount(),
		Triangles: res.Model.TriangleCount(),
	}
	out := FileOutput(p.OutputPath(), a.create, func(path string) {
		sum.Artifacts = append(sum.Artifacts, path)
		a.logf("wrote %s", path)
	})
	if err := emitter.Emit(out, res.Model, res.Parts); err != nil {
		return nil, err
	}
	return sum, nil
}

func (a *App) logf(format string, args ...any) {
	if a.verbose {
		log.Printf(format, args...)
	}
}

// FileOutput returns an emit.Output that creates base+suffix with create
// and reports each path opened to created, which may be nil.
func FileOutput(base string, create func(string) (io.WriteCloser, error), created func(string)) emit.Output {
	return func(suffix string) (io.WriteCloser, error) {
		path := base + suffix
		w, err := create(path)
		if err != nil {
			return nil, err
		}
		if created != nil {
			created(path)
		}
		return w, nil
	}
}

func createFile(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

func joinErrors[E error](errs []E) error {
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}
	return errors.Join(joined...)
}
