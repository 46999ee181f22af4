// Package emit serializes a finished indexed model into artifacts that can be
// compiled into, or loaded by, another program.
//
// Emitters only read the model: the vertex table in index order, the
// triangle list in parse order, and the part ranges.
package emit

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/chazu/stlembed/pkg/mesh"
)

// Output opens the artifact identified by suffix (for example ".h" or
// ".cpp"). The emitter closes what it opens.
type Output func(suffix string) (io.WriteCloser, error)

// Emitter writes a model and its part ranges.
type Emitter interface {
	Emit(open Output, m *mesh.Model, parts []mesh.Part) error
}

// Options configures the emitters that generate source code.
type Options struct {
	// Prefix is prepended to every generated symbol.
	Prefix string
	// Package is the Go package name for the "go" format.
	Package string
}

var formats = map[string]func(Options) Emitter{
	"cpp":  func(o Options) Emitter { return CPP{Prefix: o.Prefix} },
	"go":   func(o Options) Emitter { return GoSource{Package: o.Package, Prefix: o.Prefix} },
	"glb":  func(Options) Emitter { return GLB{} },
	"json": func(Options) Emitter { return JSON{} },
}

// Formats returns the names accepted by ByName, sorted.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName returns the emitter for format.
func ByName(format string, opts Options) (Emitter, error) {
	mk, ok := formats[format]
	if !ok {
		return nil, fmt.Errorf("emit: unknown format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
	return mk(opts), nil
}

// write opens one artifact, runs fn against it and closes it, keeping the
// first error.
func write(open Output, suffix string, fn func(w io.Writer) error) (err error) {
	w, err := open(suffix)
	if err != nil {
		return fmt.Errorf("emit: open %s: %w", suffix, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("emit: close %s: %w", suffix, cerr)
		}
	}()
	return fn(w)
}

// symbolForms maps the source-generating formats to the function naming a
// part's symbols in that language.
var symbolForms = map[string]struct {
	lang string
	sym  func(string) string
}{
	"cpp": {"C", identifier},
	"go":  {"Go", exported},
}

// SymbolCollisions describes each pair of part names that differ but would
// generate the same symbol in format's output, such as "arm-base" and
// "arm_base" for cpp, or "arm" and "Arm" for go. Formats that generate no
// symbols never collide.
func SymbolCollisions(format string, names []string) []string {
	form, ok := symbolForms[format]
	if !ok {
		return nil
	}
	var msgs []string
	owner := make(map[string]string, len(names))
	for _, name := range names {
		sym := form.sym(name)
		if prev, ok := owner[sym]; ok {
			if prev != name {
				msgs = append(msgs, fmt.Sprintf("parts %q and %q both map to %s symbol %s", prev, name, form.lang, sym))
			}
			continue
		}
		owner[sym] = name
	}
	return msgs
}

func checkParts(format string, parts []mesh.Part) error {
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.Name
	}
	msgs := SymbolCollisions(format, names)
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("emit: %s", strings.Join(msgs, "; "))
}

// identifier turns a part name into a C/Go identifier fragment.
func identifier(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || (unicode.IsLetter(r) && r < unicode.MaxASCII):
			b.WriteRune(r)
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// exported returns name in Go exported camel case: "arm-base" -> "ArmBase".
func exported(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range identifier(name) {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	out := b.String()
	if out == "" || !unicode.IsLetter(rune(out[0])) {
		out = "P" + out
	}
	return out
}
