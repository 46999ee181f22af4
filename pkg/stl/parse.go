// Package stl reads and writes the ASCII STL format.
//
// The reader is a strict line grammar:
//
//	solid [name]
//	  facet normal N N N
//	    outer loop
//	      vertex N N N
//	      vertex N N N
//	      vertex N N N
//	    endloop
//	  endfacet
//	  ...
//	endsolid [name]
//
// Every facet becomes one triangle in a mesh.Model. Any deviation aborts the
// parse with a *FormatError.
package stl

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/chazu/stlembed/pkg/linereader"
	"github.com/chazu/stlembed/pkg/mesh"
)

// number matches a signed decimal, a signed integer, or a signed decimal
// with an exponent. An exponent needs digits on both sides of the point.
const number = `([-+]?(?:\d+\.\d+[eE][-+]?\d+|\d*\.\d+|\d+))`

var (
	facetNormalPattern = regexp.MustCompile(`^facet\s+normal\s+` + number + `\s+` + number + `\s+` + number + `$`)
	vertexPattern      = regexp.MustCompile(`^vertex\s+` + number + `\s+` + number + `\s+` + number + `$`)
)

// ParseReader parses one solid from r into m. See Parse.
func ParseReader(r io.Reader, m *mesh.Model) (string, error) {
	return Parse(linereader.New(r), m)
}

// Parse consumes one solid from lr and appends its facets to m, in input
// order. It returns the solid's name (the text after "solid", possibly
// empty).
//
// On error the model may already hold the facets that preceded the bad one;
// the failing facet itself is never added. Callers must treat the model as
// unusable after an error.
func Parse(lr *linereader.Reader, m *mesh.Model) (string, error) {
	name, err := parseHeader(lr)
	if err != nil {
		return "", err
	}

	for {
		ok, err := parseFacet(lr, m)
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
	}

	if err := parseFooter(lr); err != nil {
		return "", err
	}
	return name, nil
}

func parseHeader(lr *linereader.Reader) (string, error) {
	line, err := next(lr, "header \"solid\"")
	if err != nil {
		return "", err
	}
	rest, ok := cutKeyword(line, "solid")
	if !ok {
		return "", formatErr(lr, "expected header \"solid\", got %q", line)
	}
	return rest, nil
}

func parseFooter(lr *linereader.Reader) error {
	line, err := next(lr, "footer \"endsolid\"")
	if err != nil {
		return err
	}
	if _, ok := cutKeyword(line, "endsolid"); !ok {
		return formatErr(lr, "expected \"facet normal\" or footer \"endsolid\", got %q", line)
	}
	return nil
}

// parseFacet reads one facet block. It returns false, with the line pushed
// back, when the next line does not start with "facet". A line that does
// but is malformed is an error here, not at the footer.
func parseFacet(lr *linereader.Reader, m *mesh.Model) (bool, error) {
	line, err := next(lr, "\"facet normal\" or \"endsolid\"")
	if err != nil {
		return false, err
	}
	if _, ok := cutKeyword(line, "facet"); !ok {
		lr.Unget()
		return false, nil
	}
	nm := facetNormalPattern.FindStringSubmatch(normalize(line))
	if nm == nil {
		return false, formatErr(lr, "expected \"facet normal x y z\", got %q", line)
	}
	normal, err := parseTriple(lr, nm[1:])
	if err != nil {
		return false, err
	}

	if err := expectLiteral(lr, "outer loop"); err != nil {
		return false, err
	}

	var corners [3]mesh.Vertex
	for i := range corners {
		line, err := next(lr, "\"vertex\"")
		if err != nil {
			return false, err
		}
		vm := vertexPattern.FindStringSubmatch(normalize(line))
		if vm == nil {
			return false, formatErr(lr, "expected \"vertex x y z\", got %q", line)
		}
		pos, err := parseTriple(lr, vm[1:])
		if err != nil {
			return false, err
		}
		corners[i] = mesh.NewVertex(pos, normal)
	}

	if err := expectLiteral(lr, "endloop"); err != nil {
		return false, err
	}
	if err := expectLiteral(lr, "endfacet"); err != nil {
		return false, err
	}

	// Resolve indices only once the whole block has been accepted.
	m.AddFacet(corners[0], corners[1], corners[2])
	return true, nil
}

// next fetches a line, turning exhaustion into a FormatError that names the
// production that was still expecting input.
func next(lr *linereader.Reader, want string) (string, error) {
	line, err := lr.Next()
	if err == nil {
		return line, nil
	}
	if errors.Is(err, linereader.ErrExhausted) {
		return "", &FormatError{
			Line: lr.Line(),
			Msg:  "unexpected end of input, expected " + want,
			Err:  err,
		}
	}
	return "", err
}

func expectLiteral(lr *linereader.Reader, literal string) error {
	line, err := next(lr, strconv.Quote(literal))
	if err != nil {
		return err
	}
	if normalize(line) != literal {
		return formatErr(lr, "expected %q, got %q", literal, line)
	}
	return nil
}

func parseTriple(lr *linereader.Reader, fields []string) ([3]float64, error) {
	var out [3]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return out, &FormatError{Line: lr.Line(), Msg: fmt.Sprintf("bad number %q", f), Err: err}
		}
		out[i] = x
	}
	return out, nil
}

// normalize trims the line and collapses interior whitespace runs to a
// single space, so fixed-text productions compare token by token.
func normalize(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// cutKeyword reports whether the first token of line is kw and returns the
// remainder of the line with surrounding whitespace removed.
func cutKeyword(line, kw string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != kw {
		return "", false
	}
	return strings.Join(fields[1:], " "), true
}

func formatErr(lr *linereader.Reader, format string, args ...any) error {
	return &FormatError{Line: lr.Line(), Msg: fmt.Sprintf(format, args...)}
}
