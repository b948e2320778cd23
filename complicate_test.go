package unit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComplicatePowHalfBackToSqrt(t *testing.T) {
	require := require.New(t)
	tree := NewNode(Pow, NewLoadVar("Hz"), NewLoadConst(0.5))
	got := Complicate(tree)
	require.Equal(Sqrt, got.Op)
}

func TestComplicateNegativePowBackToDiv(t *testing.T) {
	require := require.New(t)
	tree := NewNode(Mul, NewLoadVar("A"), NewNode(Pow, NewLoadVar("B"), NewLoadConst(-1)))
	got := Complicate(tree)
	require.Equal(Div, got.Op)
	require.Equal("A", got.Args[0].Name)
	require.Equal("B", got.Args[1].Name)
}

func TestComplicateSamePowExponentsMergeIntoPowOfMul(t *testing.T) {
	require := require.New(t)
	tree := NewNode(Mul,
		NewNode(Pow, NewLoadVar("x"), NewLoadConst(2)),
		NewNode(Pow, NewLoadVar("y"), NewLoadConst(2)))
	got := Complicate(tree)
	require.Equal(Pow, got.Op)
	require.Equal(Mul, got.Args[0].Op)
	k, ok := got.Args[1].ConstValue()
	require.True(ok)
	require.Equal(2.0, k)
}

func TestComplicatePositiveCoeffSqrtFoldsIntoRadicand(t *testing.T) {
	require := require.New(t)
	tree := NewNode(Mul, NewLoadConst(3), NewNode(Sqrt, NewLoadVar("x")))
	got := Complicate(tree)
	require.Equal(Sqrt, got.Op)
	k, ok := got.Args[0].Args[0].ConstValue()
	require.True(ok)
	require.Equal(9.0, k)
}

func TestComplicateLog10Recovery(t *testing.T) {
	require := require.New(t)
	// Mul(1/ln10, Ln(x)) is exactly Simplify's own Log10 rewrite; Complicate
	// must undo it back to Log10(x).
	tree := NewNode(Mul, NewLoadConst(1/ln10), NewNode(Ln, NewLoadVar("x")))
	got := Complicate(tree)
	require.Equal(Log10, got.Op)
	require.Equal("x", got.Args[0].Name)
}
