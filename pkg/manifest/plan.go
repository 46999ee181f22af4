package manifest

import (
	"fmt"
	"path/filepath"

	"github.com/chazu/stlembed/pkg/convert"
	"github.com/chazu/stlembed/pkg/emit"
)

// Output describes where and how the combined model is written.
type Output struct {
	Path    string // artifact base path; emitters append their suffixes
	Format  string // one of emit.Formats()
	Prefix  string
	Package string
}

// DefaultOutput is used for fields a script leaves unset.
var DefaultOutput = Output{Path: "model", Format: "cpp"}

// Plan is the result of evaluating a build script: the parts to convert, in
// order, and the output to produce.
type Plan struct {
	Inputs []convert.Input
	Output Output
	// Dir is the directory relative paths are resolved against. Empty means
	// the working directory.
	Dir string
}

// ResolvedInputs returns Inputs with relative paths joined onto Dir.
func (p *Plan) ResolvedInputs() []convert.Input {
	out := make([]convert.Input, len(p.Inputs))
	for i, in := range p.Inputs {
		out[i] = convert.Input{Name: in.Name, Path: p.resolve(in.Path)}
	}
	return out
}

// OutputPath returns Output.Path resolved against Dir.
func (p *Plan) OutputPath() string {
	return p.resolve(p.Output.Path)
}

// EmitOptions returns the emitter options carried by the plan.
func (p *Plan) EmitOptions() emit.Options {
	return emit.Options{Prefix: p.Output.Prefix, Package: p.Output.Package}
}

func (p *Plan) resolve(path string) string {
	if p.Dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Dir, path)
}

// ValidationError describes one problem with an evaluated plan.
type ValidationError struct {
	Part    string // offending part name, empty for plan-level problems
	Message string
}

func (e ValidationError) Error() string {
	if e.Part == "" {
		return e.Message
	}
	return fmt.Sprintf("part %q: %s", e.Part, e.Message)
}

// Validate checks a plan without touching the filesystem. An empty slice
// means the plan can be run.
func Validate(p *Plan) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateInputs(p)...)
	errs = append(errs, validateOutput(p)...)
	return errs
}

func validateInputs(p *Plan) []ValidationError {
	if len(p.Inputs) == 0 {
		return []ValidationError{{Message: "no meshes declared"}}
	}
	var errs []ValidationError
	seen := make(map[string]bool, len(p.Inputs))
	for i, in := range p.Inputs {
		switch {
		case in.Name == "":
			errs = append(errs, ValidationError{Message: fmt.Sprintf("mesh %d has no name", i+1)})
		case seen[in.Name]:
			errs = append(errs, ValidationError{Part: in.Name, Message: "declared more than once"})
		}
		seen[in.Name] = true
		if in.Path == "" {
			errs = append(errs, ValidationError{Part: in.Name, Message: "no file given"})
		}
	}
	names := make([]string, len(p.Inputs))
	for i, in := range p.Inputs {
		names[i] = in.Name
	}
	for _, msg := range emit.SymbolCollisions(p.Output.Format, names) {
		errs = append(errs, ValidationError{Message: msg})
	}
	return errs
}

func validateOutput(p *Plan) []ValidationError {
	var errs []ValidationError
	if p.Output.Path == "" {
		errs = append(errs, ValidationError{Message: "output path is empty"})
	}
	if _, err := emit.ByName(p.Output.Format, p.EmitOptions()); err != nil {
		errs = append(errs, ValidationError{Message: err.Error()})
	}
	return errs
}
