package unit

import (
	"math"
	"sort"
)

// ulpTolerance is the wide equality tolerance used by Cmp when comparing
// two constants.
const ulpTolerance = 1e5

func constEqual(a, b float64) bool {
	if a == b {
		return true
	}
	scale := (math.Abs(a) + math.Abs(b)) * 2.220446049250313e-16
	tol := ulpTolerance * math.Max(scale, 2.2250738585072014e-308)
	return math.Abs(a-b) <= tol
}

// opOrder gives a total order over opcodes for Cmp's "different opcodes
// compare by opcode order" rule.
func opOrder(op Opcode) int { return int(op) }

// Cmp is a structural compare of two trees: 0 if equivalent, ±1
// otherwise. When exact is false, a Mul node whose children mismatch in
// natural order is also tried swapped, which is the sole mechanism that
// defeats Mul's order-sensitivity (Mul stays a 2-ary node here rather
// than a sorted multiset).
func Cmp(a, b *Node, exact bool) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil || b == nil {
		return cmpBool(a == nil, b == nil)
	}
	if a.Op != b.Op {
		return cmpInt(opOrder(a.Op), opOrder(b.Op))
	}
	switch a.Op {
	case LoadVar:
		return cmpStr(a.Name, b.Name)
	case LoadConst:
		if constEqual(a.Const, b.Const) {
			return 0
		}
		return cmpFloat(a.Const, b.Const)
	}
	if len(a.Args) != len(b.Args) {
		return cmpInt(len(a.Args), len(b.Args))
	}
	straight := 0
	for i := range a.Args {
		if r := Cmp(a.Args[i], b.Args[i], exact); r != 0 {
			straight = r
			break
		}
	}
	if straight == 0 {
		return 0
	}
	if !exact && a.Op == Mul && len(a.Args) == 2 {
		if Cmp(a.Args[0], b.Args[1], exact) == 0 && Cmp(a.Args[1], b.Args[0], exact) == 0 {
			return 0
		}
	}
	return straight
}

func cmpBool(a, b bool) int {
	if a == b {
		return 0
	}
	if a {
		return -1
	}
	return 1
}
func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
func cmpStr(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// factor is one (base, exponent) pair produced by FindFactors.
type factor struct {
	tree *Node
	exp  float64
}

// FindFactors walks a tree and decomposes it as coeff * Π factor^exp.
func FindFactors(node *Node) (coeff float64, factors []factor, err error) {
	coeff = 1
	switch node.Op {
	case LoadConst:
		return node.Const, nil, nil

	case Mul:
		c0, f0, err := FindFactors(node.Args[0])
		if err != nil {
			return 0, nil, err
		}
		c1, f1, err := FindFactors(node.Args[1])
		if err != nil {
			return 0, nil, err
		}
		return c0 * c1, mergeFactors(f0, f1), nil

	case Div:
		c0, f0, err := FindFactors(node.Args[0])
		if err != nil {
			return 0, nil, err
		}
		c1, f1, err := FindFactors(node.Args[1])
		if err != nil {
			return 0, nil, err
		}
		if c1 == 0 {
			return 0, nil, domainErr("division by zero while extracting factors")
		}
		return c0 / c1, mergeFactors(f0, negateFactors(f1)), nil

	case Pow:
		k, ok := node.Args[1].ConstValue()
		if !ok {
			return 0, nil, varExpErr("exponent is not constant")
		}
		c, f, err := FindFactors(node.Args[0])
		if err != nil {
			return 0, nil, err
		}
		nc, err := powConst(c, k)
		if err != nil {
			return 0, nil, err
		}
		return nc, scaleFactors(f, k), nil

	case Sqrt:
		c, f, err := FindFactors(node.Args[0])
		if err != nil {
			return 0, nil, err
		}
		if c < 0 {
			return 0, nil, domainErr("square root of negative constant")
		}
		return math.Sqrt(c), scaleFactors(f, 0.5), nil

	default:
		// Any other node (LoadVar, LoadPi, LoadE, Log10, Ln, Exp) is an
		// opaque unit factor with power 1.
		return 1, []factor{{tree: node, exp: 1}}, nil
	}
}

func mergeFactors(a, b []factor) []factor {
	out := make([]factor, 0, len(a)+len(b))
	out = append(out, a...)
	for _, fb := range b {
		merged := false
		for i := range out {
			if Cmp(out[i].tree, fb.tree, false) == 0 {
				out[i].exp += fb.exp
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, fb)
		}
	}
	return out
}

func negateFactors(fs []factor) []factor {
	out := make([]factor, len(fs))
	for i, f := range fs {
		out[i] = factor{tree: f.tree, exp: -f.exp}
	}
	return out
}

func scaleFactors(fs []factor, k float64) []factor {
	out := make([]factor, len(fs))
	for i, f := range fs {
		out[i] = factor{tree: f.tree, exp: f.exp * k}
	}
	return out
}

func powConst(base, exp float64) (float64, error) {
	if base == 0 && exp == 0 {
		return 0, domainErr("0**0 is undefined")
	}
	if base < 0 && exp != math.Trunc(exp) {
		return 0, domainErr("negative base %g raised to non-integer power %g", base, exp)
	}
	return math.Pow(base, exp), nil
}

// CombineFactors is the inverse of FindFactors: sort factors into
// canonical order, drop zero-exponent entries, emit bare factors for
// exponent 1 and Pow nodes otherwise, and prefix the coefficient as a
// leading Mul unless it is exactly 1. Uses a correct, stable sort so the
// result is deterministic regardless of the input permutation of factors.
func CombineFactors(coeff float64, factors []factor) *Node {
	kept := make([]factor, 0, len(factors))
	for _, f := range factors {
		if f.exp != 0 {
			kept = append(kept, f)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return Cmp(kept[i].tree, kept[j].tree, false) < 0
	})

	var result *Node
	for _, f := range kept {
		var term *Node
		if f.exp == 1 {
			term = f.tree
		} else {
			term = NewNode(Pow, f.tree, NewLoadConst(f.exp))
		}
		if result == nil {
			result = term
		} else {
			result = NewNode(Mul, result, term)
		}
	}

	if result == nil {
		return NewLoadConst(coeff)
	}
	if coeff == 1 {
		return result
	}
	return NewNode(Mul, NewLoadConst(coeff), result)
}

// InvertTree builds the inverse function of head applied to src, using a
// fixed case table keyed on head's opcode. It returns (nil, error) when head is not
// invertible (more than one LoadVar on its variable path, or a head shape
// not covered by the table) — callers must treat that as "no mapping
// exists", not necessarily a hard error.
func InvertTree(head, src *Node) (*Node, error) {
	switch head.Op {
	case Exp:
		inner, err := InvertTree(head.Args[0], NewNode(Ln, src))
		return inner, err

	case Ln:
		inner, err := InvertTree(head.Args[0], NewNode(Exp, src))
		return inner, err

	case Pow:
		k, ok := head.Args[1].ConstValue()
		if !ok {
			return nil, varExpErr("exponent is not constant")
		}
		if k == 0 {
			return nil, internalErr("cannot invert a Pow node with exponent 0")
		}
		return InvertTree(head.Args[0], NewNode(Pow, src, NewLoadConst(1/k)))

	case Mul:
		k, x, ok := oneConstOperand(head)
		if !ok {
			return nil, internalErr("Mul node is not invertible: needs exactly one constant operand")
		}
		if k == 0 {
			return nil, domainErr("cannot invert multiplication by zero")
		}
		return InvertTree(x, NewNode(Mul, NewLoadConst(1/k), src))

	case LoadVar:
		return src, nil

	default:
		return nil, internalErr("node of type %s is not invertible", head.Op)
	}
}

// oneConstOperand reports whether exactly one of a 2-ary Mul's operands is
// a constant, returning that constant and the other operand.
func oneConstOperand(mul *Node) (k float64, other *Node, ok bool) {
	if len(mul.Args) != 2 {
		return 0, nil, false
	}
	c0, ok0 := mul.Args[0].ConstValue()
	c1, ok1 := mul.Args[1].ConstValue()
	switch {
	case ok0 && !ok1:
		return c0, mul.Args[1], true
	case ok1 && !ok0:
		return c1, mul.Args[0], true
	default:
		return 0, nil, false
	}
}

// ConcatTree substitutes a copy of tree1 for the single LoadVar leaf found
// in a copy of tree2, producing a tree representing tree2 composed with
// tree1 (tree2 ∘ tree1). tree2 must contain exactly one LoadVar leaf.
func ConcatTree(tree1, tree2 *Node) (*Node, error) {
	leaves := collectLoadVars(tree2)
	if len(leaves) != 1 {
		return nil, internalErr("ConcatTree requires exactly one LoadVar leaf in tree2, found %d", len(leaves))
	}
	result := tree2.Copy()
	target := leaves[0].Name
	result = replaceLoadVar(result, target, tree1)
	return result, nil
}

func collectLoadVars(n *Node) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(node *Node) {
		if node == nil {
			return
		}
		if node.Op == LoadVar {
			out = append(out, node)
			return
		}
		for _, a := range node.Args {
			walk(a)
		}
	}
	walk(n)
	return out
}

// replaceLoadVar mutates root in place, replacing every LoadVar node named
// name with a deep copy of repl. The root itself may be such a node.
func replaceLoadVar(root *Node, name string, repl *Node) *Node {
	if root.Op == LoadVar && root.Name == name {
		return repl.Copy()
	}
	for i, a := range root.Args {
		root.Args[i] = replaceLoadVar(a, name, repl)
	}
	return root
}

// FixUnits produces a copy of node in which every LoadVar leaf whose name
// is not keep's name is replaced by the constant 1.
func FixUnits(node *Node, keep *Node) *Node {
	if node.Op == LoadVar {
		if node.Name == keep.Name {
			return node.Copy()
		}
		return NewLoadConst(1)
	}
	cp := node.Copy()
	for i, a := range node.Args {
		cp.Args[i] = FixUnits(a, keep)
	}
	return cp
}

// RemakeTree replaces every LoadVar leaf that refers to a known derived
// unit with a copy of its definition subtree, recursively, so that every
// leaf in the result refers either to a basic catalogue unit or to a
// user-introduced unknown symbol. A leaf that carries a prefix multiplier
// (e.g. "km", or the "kg" that appears inside Newton's own built-in
// definition) is rewritten the same way regardless of whether its base
// unit is itself basic or derived: the prefix scale must not depend on
// whether the unit underneath happens to have a definition tree.
func RemakeTree(node *Node) (*Node, error) {
	if node.Op == LoadVar {
		switch {
		case node.KnownUnit != nil && node.KnownUnit.Definition != nil:
			expanded, err := RemakeTree(node.KnownUnit.Definition.Copy())
			if err != nil {
				return nil, err
			}
			if node.Prefix != nil {
				expanded = applyPrefix(expanded, node.Prefix.Scale)
			}
			return expanded, nil
		case node.KnownUnit != nil && node.Prefix != nil:
			base := NewLoadVar(node.KnownUnit.Symbol)
			base.KnownUnit = node.KnownUnit
			return applyPrefix(base, node.Prefix.Scale), nil
		}
		return node, nil
	}
	for i, a := range node.Args {
		r, err := RemakeTree(a)
		if err != nil {
			return nil, err
		}
		node.Args[i] = r
	}
	return node, nil
}

// applyPrefix scales tree by a prefix multiplier. A value expressed in the
// prefixed unit (e.g. "km") is converted to the base unit by multiplying by
// scale, so the tree — which maps base-unit values to prefixed-unit values,
// per the same literal-coefficient reciprocation convention as parser.go's
// reciprocateCoefficient — carries 1/scale.
func applyPrefix(tree *Node, scale float64) *Node {
	return NewNode(Mul, NewLoadConst(1.0/scale), tree)
}

// FixConstants collapses every subtree whose variable leaves have all been
// fixed to constants into a single LoadConst node. When unity is true, the
// coefficient of any Mul(const, LoadVar|Pow|Sqrt) surviving the fold is
// forced to 1 — the label-mode specialization that keeps a rendered label
// qualitatively invariant under scaling.
func FixConstants(node *Node, unity bool) (*Node, error) {
	if node.Op == LoadConst {
		return node, nil
	}
	if node.Op == LoadPi {
		return NewLoadConst(math.Pi), nil
	}
	if node.Op == LoadE {
		return NewLoadConst(math.E), nil
	}
	if node.Op == LoadVar {
		return node, nil
	}

	allConst := true
	for i, a := range node.Args {
		r, err := FixConstants(a, unity)
		if err != nil {
			return nil, err
		}
		node.Args[i] = r
		if r.Op != LoadConst {
			allConst = false
		}
	}

	if allConst {
		v, err := evalOp(node)
		if err != nil {
			return nil, err
		}
		return NewLoadConst(v), nil
	}

	if unity && node.Op == Mul && len(node.Args) == 2 {
		if _, ok := node.Args[0].ConstValue(); ok {
			switch node.Args[1].Op {
			case LoadVar, Sqrt, Pow:
				node.Args[0] = NewLoadConst(1)
			}
		}
	}

	return node, nil
}

// evalOp evaluates a branch node all of whose arguments are already
// LoadConst, applying the relevant domain checks.
func evalOp(node *Node) (float64, error) {
	arg := func(i int) float64 { v, _ := node.Args[i].ConstValue(); return v }
	switch node.Op {
	case Log10:
		v := arg(0)
		if v <= 0 {
			return 0, domainErr("log10 of non-positive value %g", v)
		}
		return math.Log10(v), nil
	case Ln:
		v := arg(0)
		if v <= 0 {
			return 0, domainErr("ln of non-positive value %g", v)
		}
		return math.Log(v), nil
	case Exp:
		return math.Exp(arg(0)), nil
	case Sqrt:
		v := arg(0)
		if v < 0 {
			return 0, domainErr("square root of negative value %g", v)
		}
		return math.Sqrt(v), nil
	case Pow:
		return powConst(arg(0), arg(1))
	case Div:
		if arg(1) == 0 {
			return 0, domainErr("division by zero")
		}
		return arg(0) / arg(1), nil
	case Mul:
		return arg(0) * arg(1), nil
	default:
		return 0, internalErr("evalOp: unexpected opcode %s", node.Op)
	}
}
