package unit

import "math"

// Complicate undoes selected canonicalisations to improve readability for
// text emission. It is never used for comparison — only Simplify's output
// is a normal form — and is run to a fixed point the same way Simplify is.
func Complicate(tree *Node) *Node {
	for {
		next, changed := complicatePass(tree)
		tree = next
		if !changed {
			return tree
		}
	}
}

func complicatePass(node *Node) (*Node, bool) {
	changedAny := false
	for i, a := range node.Args {
		r, c := complicatePass(a)
		node.Args[i] = r
		changedAny = changedAny || c
	}

	if node.Op == Mul && len(node.Args) == 2 {
		k, kIsConst := node.Args[0].ConstValue()
		rhs := node.Args[1]

		// Mul(k, Ln(x)) with k = n/(10 ln 10) for integer n -> Log10(Pow(x, n/10)).
		if kIsConst && rhs.Op == Ln {
			n := k * 10 * ln10
			if isNearInt(n) && n != 0 {
				ni := math.Round(n)
				inner := rhs.Args[0]
				if ni == 10 {
					return NewNode(Log10, inner), true
				}
				return NewNode(Log10, NewNode(Pow, inner, NewLoadConst(ni/10))), true
			}
		}

		// Mul(A, Pow(B,-1)) -> Div(A,B).
		if rhs.Op == Pow {
			if e, ok := rhs.Args[1].ConstValue(); ok && e == -1 {
				return NewNode(Div, node.Args[0], rhs.Args[0]), true
			}
		}
		if node.Args[0].Op == Pow {
			if e, ok := node.Args[0].Args[1].ConstValue(); ok && e == -1 {
				return NewNode(Div, rhs, node.Args[0].Args[0]), true
			}
		}

		// Mul(Pow(x,k1), Pow(y,k2)) with k1==k2 -> Pow(Mul(x,y), k1).
		if node.Args[0].Op == Pow && rhs.Op == Pow {
			k1, ok1 := node.Args[0].Args[1].ConstValue()
			k2, ok2 := rhs.Args[1].ConstValue()
			if ok1 && ok2 && k1 == k2 {
				return NewNode(Pow, NewNode(Mul, node.Args[0].Args[0], rhs.Args[0]), NewLoadConst(k1)), true
			}
		}

		// Mul(k, Sqrt(x)) with k>0 -> Sqrt(Mul(k^2, x)).
		if kIsConst && k > 0 && rhs.Op == Sqrt {
			return NewNode(Sqrt, NewNode(Mul, NewLoadConst(k*k), rhs.Args[0])), true
		}
	}

	if node.Op == Pow {
		if e, ok := node.Args[1].ConstValue(); ok && e == 0.5 {
			return NewNode(Sqrt, node.Args[0]), true
		}
	}

	return node, changedAny
}

func isNearInt(v float64) bool {
	return math.Abs(v-math.Round(v)) < 1e-6
}
