// Package evalexpr compiles the algebraic text produced by the unit
// engine's emitter into a runnable single-variable function, backed by
// github.com/expr-lang/expr. It exists for the "general algebraic" mapping
// kind: anything the scalar/identity fast paths in package unit can't
// express as a bare multiply gets compiled here instead of hand-rolling an
// expression evaluator.
package evalexpr

import (
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"
)

// Func is a compiled single-variable expression: y = f(varName).
type Func struct {
	program *vm.Program
	varName string
}

var env = map[string]any{
	"input_units":  0.0,
	"output_units": 0.0,
	"log10":        func(x float64) float64 { return math.Log10(x) },
	"log":          func(x float64) float64 { return math.Log(x) },
	"exp":          func(x float64) float64 { return math.Exp(x) },
	"sqrt":         func(x float64) float64 { return math.Sqrt(x) },
	"pi":           math.Pi,
	"e":            math.E,
}

// Compile parses and type-checks src, an algebraic expression in the
// machine-mode syntax produced by package unit's emitter, over the single
// free variable varName ("input_units" or "output_units").
func Compile(src, varName string) (*Func, error) {
	program, err := expr.Compile(src, expr.Env(env), expr.AsFloat64())
	if err != nil {
		return nil, errors.Wrapf(err, "compiling expression %q", src)
	}
	return &Func{program: program, varName: varName}, nil
}

// Eval runs the compiled expression at x. Because the program was compiled
// against a map-shaped environment, Run needs the full environment at call
// time too (map environments resolve function names dynamically), not just
// the free variable.
func (f *Func) Eval(x float64) (float64, error) {
	scoped := make(map[string]any, len(env))
	for k, v := range env {
		scoped[k] = v
	}
	scoped[f.varName] = x
	out, err := expr.Run(f.program, scoped)
	if err != nil {
		return 0, errors.Wrapf(err, "evaluating %s=%g", f.varName, x)
	}
	v, ok := out.(float64)
	if !ok {
		return 0, errors.Errorf("expression did not produce a float64, got %T", out)
	}
	return v, nil
}
