package unit

import (
	"strconv"
	"strings"
)

// EmitMode selects the rendering conventions: machine mode
// targets a downstream expression evaluator, label mode targets a
// human-readable axis annotation.
type EmitMode int

const (
	MachineMode EmitMode = iota
	LabelMode
)

// Emit renders tree to algebraic text with minimal redundant
// parenthesisation. In LabelMode, multiplicative constants adjacent to a
// LoadVar, Pow or Sqrt node are first forced to 1 by Simplify's unity mode
// (a label is qualitatively invariant under
// scaling), and the tree is then run through Complicate before rendering so
// that e.g. Hz**0.5 prints as sqrt(Hz).
func Emit(tree *Node, mode EmitMode) (string, error) {
	if tree == nil {
		return "", nil
	}
	work := tree.Copy()
	if mode == LabelMode {
		simplified, err := Simplify(work, true)
		if err != nil {
			return "", err
		}
		work = Complicate(simplified)
	}
	var b strings.Builder
	emitNode(&b, work, mode, precTop)
	return b.String(), nil
}

// precedence levels, low to high, used to decide when a child needs
// parenthesising relative to its parent.
const (
	precTop = iota
	precMul
	precDiv
	precPow
	precAtom
)

func emitNode(b *strings.Builder, n *Node, mode EmitMode, parentPrec int) {
	switch n.Op {
	case LoadConst:
		b.WriteString(formatConst(n.Const))
	case LoadPi:
		b.WriteString("pi")
	case LoadE:
		b.WriteString("e")
	case LoadVar:
		if mode == LabelMode {
			b.WriteString(" ")
			b.WriteString(n.Name)
			b.WriteString(" ")
		} else {
			b.WriteString(n.Name)
		}
	case Log10:
		name := "log10"
		if mode == LabelMode {
			name = "log"
		}
		emitCall(b, name, n.Args[0], mode)
	case Ln:
		name := "log"
		if mode == LabelMode {
			name = "ln"
		}
		emitCall(b, name, n.Args[0], mode)
	case Exp:
		emitCall(b, "exp", n.Args[0], mode)
	case Sqrt:
		emitCall(b, "sqrt", n.Args[0], mode)
	case Pow:
		needParen := parentPrec > precPow
		open(b, needParen)
		emitNode(b, n.Args[0], mode, precAtomOrHigher(n.Args[0]))
		b.WriteString("**")
		emitNode(b, n.Args[1], mode, precPow+1)
		closeParen(b, needParen)
	case Div:
		needParen := parentPrec > precDiv
		open(b, needParen)
		emitNode(b, n.Args[0], mode, precDiv+1)
		b.WriteString("/")
		emitNode(b, n.Args[1], mode, precDiv+1)
		closeParen(b, needParen)
	case Mul:
		needParen := parentPrec > precMul
		open(b, needParen)
		emitMulOperand(b, n.Args[0], mode)
		b.WriteString("*")
		emitMulOperand(b, n.Args[1], mode)
		closeParen(b, needParen)
	}
}

// precAtomOrHigher reports the precedence a Pow's left operand should be
// rendered at: compound expressions (Mul, Div) need parentheses, bare
// atoms and right-associating Pow do not.
func precAtomOrHigher(n *Node) int {
	switch n.Op {
	case Mul, Div:
		return precPow
	default:
		return precAtom
	}
}

// emitMulOperand renders one operand of a Mul node, parenthesising it when
// it is itself a Div (a Mul operand that is itself a Div needs
// parenthesising to preserve precedence — applied symmetrically to either
// operand here since Mul's own children are unordered after
// simplification).
func emitMulOperand(b *strings.Builder, n *Node, mode EmitMode) {
	needParen := n.Op == Div
	open(b, needParen)
	emitNode(b, n, mode, precMul+1)
	closeParen(b, needParen)
}

func emitCall(b *strings.Builder, name string, arg *Node, mode EmitMode) {
	b.WriteString(name)
	b.WriteString("(")
	emitNode(b, arg, mode, precTop)
	b.WriteString(")")
}

func open(b *strings.Builder, need bool) {
	if need {
		b.WriteString("(")
	}
}

func closeParen(b *strings.Builder, need bool) {
	if need {
		b.WriteString(")")
	}
}

// formatConst renders a constant at full double precision.
func formatConst(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
