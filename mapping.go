package unit

import "github.com/axisunits/unitalgebra/internal/evalexpr"

// MappingKind identifies which of the three compiled-mapping strategies
// backs a Mapping.
type MappingKind int

const (
	Identity MappingKind = iota
	Scalar
	General
)

func (k MappingKind) String() string {
	switch k {
	case Identity:
		return "identity"
	case Scalar:
		return "scalar"
	case General:
		return "general"
	default:
		return "?"
	}
}

// Mapping is a compiled one-dimensional numeric mapping: given a value
// expressed in the input units, Apply returns the equivalent value in the
// output units. Invert, when non-nil, runs the mapping the other way.
type Mapping struct {
	Kind  MappingKind
	Scale float64 // meaningful only when Kind == Scalar

	forward *evalexpr.Func
	inverse *evalexpr.Func
}

// Apply evaluates the mapping at x.
func (m *Mapping) Apply(x float64) (float64, error) {
	switch m.Kind {
	case Identity:
		return x, nil
	case Scalar:
		return m.Scale * x, nil
	default:
		return m.forward.Eval(x)
	}
}

// Invert evaluates the mapping's inverse at y, undoing Apply. It always
// succeeds for Identity and Scalar (for Scalar it divides by Scale;
// CompileMapping does not itself reject a zero coefficient, although
// Simplify folds Mul(0, x) to the constant 0, so analysed candidates never
// carry one); for General it returns an error when no inverse expression
// was compiled.
func (m *Mapping) Invert(y float64) (float64, error) {
	switch m.Kind {
	case Identity:
		return y, nil
	case Scalar:
		return y / m.Scale, nil
	default:
		if m.inverse == nil {
			return 0, internalErr("mapping has no compiled inverse")
		}
		return m.inverse.Eval(y)
	}
}

// CompileMapping turns a dimensional-analysis candidate tree (a function of
// the single free variable "input_units") into a Mapping, choosing the
// cheapest strategy the tree's shape allows: a bare LoadVar compiles to
// Identity, Mul(k, LoadVar) to Scalar, anything else to General, which
// hands both the forward and inverse algebraic text to evalexpr.
func CompileMapping(candidate *Node) (*Mapping, error) {
	switch {
	case candidate.Op == LoadVar:
		return &Mapping{Kind: Identity}, nil

	case candidate.Op == Mul && len(candidate.Args) == 2:
		if k, ok := candidate.Args[0].ConstValue(); ok && candidate.Args[1].Op == LoadVar {
			if k == 1 {
				return &Mapping{Kind: Identity}, nil
			}
			return &Mapping{Kind: Scalar, Scale: k}, nil
		}
		if k, ok := candidate.Args[1].ConstValue(); ok && candidate.Args[0].Op == LoadVar {
			if k == 1 {
				return &Mapping{Kind: Identity}, nil
			}
			return &Mapping{Kind: Scalar, Scale: k}, nil
		}
		return compileGeneral(candidate)

	default:
		return compileGeneral(candidate)
	}
}

func compileGeneral(candidate *Node) (*Mapping, error) {
	forwardSrc, err := Emit(candidate, MachineMode)
	if err != nil {
		return nil, err
	}
	forward, err := evalexpr.Compile(forwardSrc, "input_units")
	if err != nil {
		return nil, internalErr("compiling forward mapping: %s", err)
	}

	m := &Mapping{Kind: General, forward: forward}

	inverted, err := InvertTree(candidate, NewLoadVar("output_units"))
	if err != nil {
		// Not every candidate is invertible (e.g. a non-injective
		// function); Apply still works, Invert will return an error if
		// ever called.
		return m, nil
	}
	inverted, err = Simplify(inverted, false)
	if err != nil {
		return m, nil
	}
	inverseSrc, err := Emit(inverted, MachineMode)
	if err != nil {
		return m, nil
	}
	inverse, err := evalexpr.Compile(inverseSrc, "output_units")
	if err != nil {
		return m, nil
	}
	m.inverse = inverse
	return m, nil
}
