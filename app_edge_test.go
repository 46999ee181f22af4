package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/stlembed/pkg/linereader"
	"github.com/chazu/stlembed/pkg/manifest"
	"github.com/chazu/stlembed/pkg/stl"
)

// ---------------------------------------------------------------------------
// Argument handling
// ---------------------------------------------------------------------------

func TestPlanFromArgsBareFileUsesBaseName(t *testing.T) {
	plan, err := NewApp(false).PlanFromArgs([]string{"dir/arm_base.stl", "wrist=w.stl"}, manifest.DefaultOutput)
	if err != nil {
		t.Fatalf("PlanFromArgs: %v", err)
	}
	if plan.Inputs[0].Name != "arm_base" || plan.Inputs[0].Path != "dir/arm_base.stl" {
		t.Errorf("input 0 = %+v", plan.Inputs[0])
	}
	if plan.Inputs[1].Name != "wrist" || plan.Inputs[1].Path != "w.stl" {
		t.Errorf("input 1 = %+v", plan.Inputs[1])
	}
}

func TestPlanFromArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		out  manifest.Output
		want string
	}{
		{"no inputs", nil, manifest.DefaultOutput, "no meshes declared"},
		{"duplicate", []string{"a=x.stl", "a=y.stl"}, manifest.DefaultOutput, "declared more than once"},
		{"empty name", []string{"=x.stl"}, manifest.DefaultOutput, "has no name"},
		{"empty file", []string{"a="}, manifest.DefaultOutput, "no file given"},
		{"unknown format", []string{"a=x.stl"}, manifest.Output{Path: "m", Format: "obj"}, "unknown format"},
		{"symbol collision", []string{"arm-base.stl", "arm_base=b.stl"}, manifest.DefaultOutput, "both map to C symbol arm_base"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewApp(false).PlanFromArgs(tt.args, tt.out)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Failure leaves no output behind
// ---------------------------------------------------------------------------

func TestBuildMalformedInputWritesNothing(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "base.stl", baseSTL)
	bad := writeFile(t, dir, "bad.stl", `solid bad
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 1 1 0
    endloop
endsolid bad
`)

	app := NewApp(false)
	plan, err := app.PlanFromArgs([]string{"base=" + good, "bad=" + bad},
		manifest.Output{Path: filepath.Join(dir, "model"), Format: "cpp"})
	if err != nil {
		t.Fatalf("PlanFromArgs: %v", err)
	}
	_, err = app.Build(plan)
	if err == nil {
		t.Fatal("expected error for missing endfacet")
	}

	var fe *stl.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("error %v is not a *stl.FormatError", err)
	}
	if fe.Line != 8 {
		t.Errorf("FormatError.Line = %d, want 8", fe.Line)
	}
	if !strings.Contains(err.Error(), `part "bad"`) {
		t.Errorf("error should name the part: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "model.h")); !os.IsNotExist(err) {
		t.Error("model.h should not exist after a failed build")
	}
}

func TestBuildTruncatedInputIsExhausted(t *testing.T) {
	dir := t.TempDir()
	cut := writeFile(t, dir, "cut.stl", "solid cut\n  facet normal 0 0 1\n    outer loop\n")

	app := NewApp(false)
	plan, err := app.PlanFromArgs([]string{cut}, manifest.Output{Path: filepath.Join(dir, "model"), Format: "go"})
	if err != nil {
		t.Fatalf("PlanFromArgs: %v", err)
	}
	_, err = app.Build(plan)
	if !errors.Is(err, linereader.ErrExhausted) {
		t.Errorf("error = %v, want wrapping ErrExhausted", err)
	}
}

func TestBuildMissingFile(t *testing.T) {
	dir := t.TempDir()
	app := NewApp(false)
	plan, err := app.PlanFromArgs([]string{filepath.Join(dir, "nope.stl")},
		manifest.Output{Path: filepath.Join(dir, "model"), Format: "cpp"})
	if err != nil {
		t.Fatalf("PlanFromArgs: %v", err)
	}
	if _, err := app.Build(plan); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestBuildUnknownFormat(t *testing.T) {
	app := NewApp(false)
	plan := &manifest.Plan{Output: manifest.Output{Path: "m", Format: "obj"}}
	if _, err := app.Build(plan); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

// ---------------------------------------------------------------------------
// Scripts
// ---------------------------------------------------------------------------

func TestLoadScriptEvalErrors(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "bad.lisp", `(mesh "a" "a.stl") (mesh "a" "b.stl")`)
	_, err := NewApp(false).LoadScript(script)
	if err == nil {
		t.Fatal("expected error for duplicate part")
	}
	if !strings.Contains(err.Error(), "declared more than once") || !strings.Contains(err.Error(), "bad.lisp") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadScriptMissing(t *testing.T) {
	if _, err := NewApp(false).LoadScript(filepath.Join(t.TempDir(), "none.lisp")); err == nil {
		t.Fatal("expected error for missing script")
	}
}

// ---------------------------------------------------------------------------
// Output plumbing
// ---------------------------------------------------------------------------

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func TestFileOutput(t *testing.T) {
	var opened, reported []string
	create := func(path string) (io.WriteCloser, error) {
		opened = append(opened, path)
		if strings.HasSuffix(path, ".bad") {
			return nil, errors.New("denied")
		}
		return nopCloser{io.Discard}, nil
	}
	out := FileOutput("gen/model", create, func(p string) { reported = append(reported, p) })

	if _, err := out(".h"); err != nil {
		t.Fatalf("open .h: %v", err)
	}
	if _, err := out(".bad"); err == nil {
		t.Fatal("expected create error")
	}
	if strings.Join(opened, ",") != "gen/model.h,gen/model.bad" {
		t.Errorf("opened = %v", opened)
	}
	if strings.Join(reported, ",") != "gen/model.h" {
		t.Errorf("reported = %v, failed opens must not be reported", reported)
	}

	if _, err := FileOutput("x", create, nil)(".go"); err != nil {
		t.Errorf("nil callback: %v", err)
	}
}

func TestCreateFileMakesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "model.h")
	w, err := createFile(path)
	if err != nil {
		t.Fatalf("createFile: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("stat: %v", err)
	}
}
