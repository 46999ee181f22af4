// Package manifest evaluates Lisp build scripts that declare which STL files
// make up a model and how the combined model is emitted:
//
//	; arm.lisp
//	(mesh "base" "base.stl")
//	(mesh :name "upper-arm" :file "upper_arm.stl")
//	(output :path "arm" :format :cpp :prefix "arm_")
//
// Scripts run in a zygomys sandbox, so they cannot touch the filesystem;
// they only produce a Plan.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error in a build script, such as a parse
// error, a bad builtin call or a failed validation.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates build scripts. It is safe for concurrent use; each call
// to Evaluate creates a fresh sandbox.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs source and returns the plan it declares.
//
// Return semantics:
//   - On success: returns plan + nil errors + nil error
//   - On parse/eval/validation failure: returns nil plan + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Plan, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		p, evalErrs, err := evaluate(source)
		ch <- evalResult{plan: p, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// EvaluateFile reads and evaluates the script at path. Relative paths in the
// resulting plan resolve against the script's directory.
func (e *Engine) EvaluateFile(path string) (*Plan, []EvalError, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("manifest: %w", err)
	}
	p, evalErrs, err := e.Evaluate(string(src))
	if p != nil {
		p.Dir = filepath.Dir(path)
	}
	return p, evalErrs, err
}

func evaluate(source string) (*Plan, []EvalError, error) {
	p := &Plan{Output: DefaultOutput}

	if strings.TrimSpace(source) != "" {
		env := zygo.NewZlispSandbox()
		defer env.Stop()
		registerBuiltins(env, p)

		if err := env.LoadString(preprocessSource(source)); err != nil {
			return nil, parseZygomysError(err), nil
		}
		if _, err := env.Run(); err != nil {
			return nil, parseZygomysError(err), nil
		}
	}

	if verrs := Validate(p); len(verrs) > 0 {
		evalErrs := make([]EvalError, len(verrs))
		for i, v := range verrs {
			evalErrs[i] = EvalError{Message: v.Error()}
		}
		return nil, evalErrs, nil
	}
	return p, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalErrors, extracting the
// line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
