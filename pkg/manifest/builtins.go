package manifest

import (
	"fmt"
	"strings"

	"github.com/chazu/stlembed/pkg/convert"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	return strings.CutPrefix(str.S, kwPrefix)
}

// kwArgs holds a mixed positional and keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs splits args into keyword and positional arguments. A keyword
// with nothing after it maps to SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// stringArg returns the keyword argument key, else the positional argument
// at pos. found is false when neither was given.
func (a kwArgs) stringArg(key string, pos int) (val string, found bool, err error) {
	s, ok := a.kw[key]
	if !ok {
		if pos < 0 || pos >= len(a.positional) {
			return "", false, nil
		}
		s = a.positional[pos]
	}
	val, err = toString(s)
	if err != nil {
		return "", true, fmt.Errorf("%s: %w", key, err)
	}
	return val, true, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toString extracts a string or a keyword name from a Sexp, so :cpp and
// "cpp" read the same.
func toString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
	}
	if name, ok := strings.CutPrefix(str.S, kwPrefix); ok {
		return name, nil
	}
	return str.S, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the build script builtins. They append to p as
// the script runs. Source must go through preprocessSource first so that
// :keyword tokens are recognizable.
func registerBuiltins(env *zygo.Zlisp, p *Plan) {
	outputSeen := false

	// -----------------------------------------------------------------------
	// (mesh "name" "file.stl")
	// (mesh :name "name" :file "file.stl")
	// -----------------------------------------------------------------------
	env.AddFunction("mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		partName, ok, err := pa.stringArg("name", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: %w", err)
		}
		if !ok {
			return zygo.SexpNull, fmt.Errorf("mesh requires a name")
		}
		file, ok, err := pa.stringArg("file", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh %q: %w", partName, err)
		}
		if !ok {
			return zygo.SexpNull, fmt.Errorf("mesh %q requires a file", partName)
		}
		for key := range pa.kw {
			if key != "name" && key != "file" {
				return zygo.SexpNull, fmt.Errorf("mesh %q: unknown keyword :%s", partName, key)
			}
		}

		p.Inputs = append(p.Inputs, convert.Input{Name: partName, Path: file})
		return &zygo.SexpStr{S: partName}, nil
	})

	// -----------------------------------------------------------------------
	// (output :path "model" :format "cpp" :prefix "arm_" :package "model")
	// -----------------------------------------------------------------------
	env.AddFunction("output", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if outputSeen {
			return zygo.SexpNull, fmt.Errorf("output may only be declared once")
		}
		outputSeen = true

		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("output takes keyword arguments only")
		}
		fields := map[string]*string{
			"path":    &p.Output.Path,
			"format":  &p.Output.Format,
			"prefix":  &p.Output.Prefix,
			"package": &p.Output.Package,
		}
		for key, v := range pa.kw {
			dst, ok := fields[key]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("output: unknown keyword :%s", key)
			}
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("output: %s: %w", key, err)
			}
			*dst = s
		}
		return zygo.SexpNull, nil
	})
}
