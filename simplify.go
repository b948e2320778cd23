package unit

import "math"

// ln10 is used to rewrite Log10 in terms of Ln: log10(x) = ln(x)/ln(10).
var ln10 = math.Log(10)

// Simplify canonicalises tree into a normal form with no Div or
// Sqrt nodes, constants pulled left in Mul, factors sorted. It mutates and
// returns tree (or a replacement), applying rewrites bottom-up to a fixed
// point. unity forces multiplicative constants adjacent to LoadVar/Pow/Sqrt
// to 1 after each pass, the label-mode specialization used when rendering
// a unit as a human-readable axis label.
func Simplify(tree *Node, unity bool) (*Node, error) {
	for {
		next, changed, err := simplifyPass(tree, unity)
		if err != nil {
			return nil, err
		}
		tree = next

		before := tree.Copy()
		fixed, err := FixConstants(tree, unity)
		if err != nil {
			return nil, err
		}
		fixedChanged := Cmp(fixed, before, true) != 0
		tree = fixed

		if !changed && !fixedChanged {
			return tree, nil
		}
	}
}

// simplifyPass applies one bottom-up sweep of the rewrite rules and
// reports whether anything changed.
func simplifyPass(node *Node, unity bool) (*Node, bool, error) {
	if node.Op == LoadConst || node.Op == LoadVar {
		return node, false, nil
	}
	if node.Op == LoadPi || node.Op == LoadE {
		return node, false, nil
	}

	changedAny := false
	for i, a := range node.Args {
		r, c, err := simplifyPass(a, unity)
		if err != nil {
			return nil, false, err
		}
		node.Args[i] = r
		changedAny = changedAny || c
	}

	newNode, changed, err := rewriteOnce(node)
	if err != nil {
		return nil, false, err
	}
	return newNode, changedAny || changed, nil
}

// rewriteOnce applies the first matching rewrite rule at node's own head,
// checked in a fixed order.
func rewriteOnce(node *Node) (*Node, bool, error) {
	switch node.Op {
	case Ln:
		x := node.Args[0]
		if x.Op == Exp {
			return x.Args[0], true, nil
		}
		if x.Op == Pow {
			k := x.Args[1]
			return NewNode(Mul, k, NewNode(Ln, x.Args[0])), true, nil
		}

	case Exp:
		x := node.Args[0]
		if x.Op == Ln {
			return x.Args[0], true, nil
		}

	case Log10:
		return NewNode(Mul, NewLoadConst(1/ln10), NewNode(Ln, node.Args[0])), true, nil

	case Sqrt:
		return NewNode(Pow, node.Args[0], NewLoadConst(0.5)), true, nil

	case Pow:
		base, exp := node.Args[0], node.Args[1]

		if base.Op == Exp {
			return NewNode(Exp, NewNode(Mul, exp, base.Args[0])), true, nil
		}

		if k, ok := exp.ConstValue(); ok {
			if k == 0 {
				if bc, ok := base.ConstValue(); ok && bc == 0 {
					return nil, false, domainErr("0**0 is undefined")
				}
				return NewLoadConst(1), true, nil
			}
			if k == 1 {
				return base, true, nil
			}
		}

		if base.Op == Pow {
			if a, ok := base.Args[1].ConstValue(); ok {
				if b, ok := exp.ConstValue(); ok {
					return NewNode(Pow, base.Args[0], NewLoadConst(a*b)), true, nil
				}
				return NewNode(Pow, base.Args[0], NewNode(Mul, NewLoadConst(a), exp)), true, nil
			}
		}

		if base.Op == Mul && len(base.Args) == 2 {
			return NewNode(Mul,
				NewNode(Pow, base.Args[0], exp.Copy()),
				NewNode(Pow, base.Args[1], exp.Copy())), true, nil
		}

	case Div:
		num, den := node.Args[0], node.Args[1]
		if k, ok := den.ConstValue(); ok {
			if k == 0 {
				return nil, false, domainErr("division by zero")
			}
			if k == 1 {
				return num, true, nil
			}
			return NewNode(Mul, NewLoadConst(1/k), num), true, nil
		}
		return NewNode(Mul, num, NewNode(Pow, den, NewLoadConst(-1))), true, nil

	case Mul:
		x, y := node.Args[0], node.Args[1]

		if k, ok := y.ConstValue(); ok {
			if _, xIsConst := x.ConstValue(); !xIsConst {
				return NewNode(Mul, NewLoadConst(k), x), true, nil
			}
		}
		if k, ok := x.ConstValue(); ok {
			if k == 0 {
				return NewLoadConst(0), true, nil
			}
			if constEqual(k, 1) {
				return y, true, nil
			}
		}

		return combineMul(node)
	}

	return node, false, nil
}

// combineMul re-derives a Mul node's canonical factorization. Used as the
// terminal step of the Mul rewrite rule: once the simple single-constant
// rewrites above no longer apply, extract and recombine factors so
// multi-operand products end up sorted and coefficient-first.
func combineMul(node *Node) (*Node, bool, error) {
	coeff, factors, err := FindFactors(node)
	if err != nil {
		return nil, false, err
	}
	combined := CombineFactors(coeff, factors)
	if Cmp(combined, node, true) == 0 {
		return node, false, nil
	}
	return combined, true, nil
}
