// Command stlembed converts ASCII STL files into a single deduplicated,
// indexed triangle model and writes it as source code or a binary asset.
//
//	stlembed base=arm_base.stl arm=arm_arm.stl
//	stlembed -format go -package assets -o assets/arm base.stl arm.stl
//	stlembed -script arm.lisp
//
// Part order on the command line (or in the script) is triangle order in
// the model; every part's [start, end) triangle range is written alongside.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/chazu/stlembed/pkg/emit"
	"github.com/chazu/stlembed/pkg/manifest"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("stlembed: ")

	var out manifest.Output
	script := flag.String("script", "", "Lisp build script declaring meshes and output")
	flag.StringVar(&out.Path, "o", manifest.DefaultOutput.Path, "output base path; emitters add their suffixes")
	flag.StringVar(&out.Format, "format", manifest.DefaultOutput.Format, "output format: "+strings.Join(emit.Formats(), ", "))
	flag.StringVar(&out.Prefix, "prefix", "", "prefix for generated symbols")
	flag.StringVar(&out.Package, "package", "", "package name for -format go")
	verbose := flag.Bool("verbose", false, "log parts and artifacts")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: stlembed [flags] name=file.stl ...\n       stlembed [flags] -script build.lisp\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	app := NewApp(*verbose)

	var (
		plan *manifest.Plan
		err  error
	)
	switch {
	case *script != "" && flag.NArg() > 0:
		log.Fatal("give either -script or STL arguments, not both")
	case *script != "":
		plan, err = app.LoadScript(*script)
	default:
		plan, err = app.PlanFromArgs(flag.Args(), out)
	}
	if err != nil {
		log.Print(err)
		flag.Usage()
		os.Exit(2)
	}

	sum, err := app.Build(plan)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%d parts, %d vertices, %d triangles -> %s\n",
		len(sum.Parts), sum.Vertices, sum.Triangles, strings.Join(sum.Artifacts, ", "))
}
