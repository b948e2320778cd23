package unit

import "math"

// Opcode identifies the operation a Node performs. The set is closed: the
// engine supports a fixed arithmetic vocabulary over units, not general
// symbolic algebra.
type Opcode int

const (
	Null Opcode = iota
	LoadConst
	LoadVar
	LoadPi
	LoadE
	Log10
	Ln
	Exp
	Sqrt
	Pow
	Div
	Mul
)

// Arity returns the fixed number of arguments an opcode takes: 0 for the
// load-* leaves and Null, 1 for the single-argument functions, 2 for the
// binary operators.
func (op Opcode) Arity() int {
	switch op {
	case LoadConst, LoadVar, LoadPi, LoadE, Null:
		return 0
	case Log10, Ln, Exp, Sqrt:
		return 1
	case Pow, Div, Mul:
		return 2
	default:
		return 0
	}
}

func (op Opcode) String() string {
	switch op {
	case Null:
		return "Null"
	case LoadConst:
		return "LoadConst"
	case LoadVar:
		return "LoadVar"
	case LoadPi:
		return "LoadPi"
	case LoadE:
		return "LoadE"
	case Log10:
		return "Log10"
	case Ln:
		return "Ln"
	case Exp:
		return "Exp"
	case Sqrt:
		return "Sqrt"
	case Pow:
		return "Pow"
	case Div:
		return "Div"
	case Mul:
		return "Mul"
	default:
		return "?"
	}
}

// Bad is the sentinel constant meaning "no constant value", the Go analogue
// of the AST__BAD double the original C engine used to flag unresolved
// LoadConst nodes.
const Bad = math.MaxFloat64

// Node is one node of a unit expression tree. It owns its Args outright: a
// Node is never shared between two parents, so Copy/deep-copy semantics
// apply wherever a tree is reused (e.g. during dimensional analysis, which
// derives several working copies from the same input tree).
type Node struct {
	Op   Opcode
	Args []*Node

	// Const holds the loaded value for a LoadConst node; Bad otherwise.
	Const float64

	// Name holds the parsed unit symbol for a LoadVar node.
	Name string
	// KnownUnit is the catalogue entry Name resolved to, if any.
	KnownUnit *CatalogEntry
	// Prefix is the decimal multiplier Name resolved to, if any.
	Prefix *Multiplier
}

// NewLoadConst builds a leaf node loading a numeric constant.
func NewLoadConst(v float64) *Node {
	return &Node{Op: LoadConst, Const: v}
}

// NewLoadVar builds a leaf node loading a named symbol.
func NewLoadVar(name string) *Node {
	return &Node{Op: LoadVar, Name: name, Const: Bad}
}

// NewNode builds a branch node of the given opcode over the given
// arguments. The argument count must match op.Arity(); callers within this
// package are expected to honor that invariant (enforced by construction,
// not by a runtime arity check — arity is modeled as shape, not a dynamic
// vector).
func NewNode(op Opcode, args ...*Node) *Node {
	return &Node{Op: op, Args: args, Const: Bad}
}

// IsConst reports whether n is a LoadConst leaf.
func (n *Node) IsConst() bool {
	return n.Op == LoadConst
}

// ConstValue returns n's constant value if n is a LoadConst leaf, or Bad
// with ok=false otherwise. Bare LoadPi/LoadE nodes are not folded here —
// FixConstants is responsible for turning them into LoadConst nodes.
func (n *Node) ConstValue() (float64, bool) {
	if n.Op == LoadConst {
		return n.Const, true
	}
	return Bad, false
}

// Copy produces a deep, independent copy of the subtree rooted at n. Every
// child is copied recursively so the result shares no Node with n.
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	cp := &Node{
		Op:        n.Op,
		Const:     n.Const,
		Name:      n.Name,
		KnownUnit: n.KnownUnit,
		Prefix:    n.Prefix,
	}
	if n.Args != nil {
		cp.Args = make([]*Node, len(n.Args))
		for i, a := range n.Args {
			cp.Args[i] = a.Copy()
		}
	}
	return cp
}

// Free releases the subtree rooted at n. The engine runs under a garbage
// collector, so Free has no effect on memory reclamation; it exists to
// mirror the tree-ownership discipline of the original engine (every
// temporary tree formed during inversion, concatenation or simplification
// is explicitly released as soon as it has served its purpose) and to make
// use-after-free bugs in this package loud in tests: a freed node's Args
// are nilled out so any accidental later traversal panics instead of
// silently reading stale structure.
func (n *Node) Free() {
	if n == nil {
		return
	}
	for _, a := range n.Args {
		a.Free()
	}
	n.Args = nil
}

// LeafNames returns the distinct LoadVar names appearing in the subtree
// rooted at n, in first-encountered order.
func (n *Node) LeafNames() []string {
	seen := map[string]bool{}
	var names []string
	var walk func(*Node)
	walk = func(node *Node) {
		if node == nil {
			return
		}
		if node.Op == LoadVar {
			if !seen[node.Name] {
				seen[node.Name] = true
				names = append(names, node.Name)
			}
			return
		}
		for _, a := range node.Args {
			walk(a)
		}
	}
	walk(n)
	return names
}
