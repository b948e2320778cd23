package unit

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestCmpOpcodeOrder(t *testing.T) {
	require := require.New(t)
	a := NewLoadConst(1)
	b := NewLoadVar("m")
	require.NotEqual(0, Cmp(a, b, true))
}

func TestCmpConstWideTolerance(t *testing.T) {
	require := require.New(t)
	a := NewLoadConst(1.0)
	b := NewLoadConst(1.0 + 1e-13)
	require.Equal(0, Cmp(a, b, true), "constants within ULP tolerance should compare equal")
}

func TestCmpMulCommutative(t *testing.T) {
	require := require.New(t)
	m := NewLoadVar("m")
	s := NewLoadVar("s")
	a := NewNode(Mul, m, s)
	b := NewNode(Mul, s, m)

	require.NotEqual(0, Cmp(a, b, true), "exact compare must not see through operand order")
	require.Equal(0, Cmp(a, b, false), "commutative compare must see through operand order")
}

func TestFindFactorsCombineFactorsRoundTrip(t *testing.T) {
	require := require.New(t)
	// kg m / s**2 -> coeff 1, factors {kg:1, m:1, s:-2}
	tree := NewNode(Div, NewNode(Mul, NewLoadVar("kg"), NewLoadVar("m")), NewNode(Pow, NewLoadVar("s"), NewLoadConst(2)))
	coeff, factors, err := FindFactors(tree)
	require.NoError(err)
	require.Equal(1.0, coeff)
	require.Len(factors, 3)

	rebuilt := CombineFactors(coeff, factors)
	simplified, err := Simplify(tree, false)
	require.NoError(err)
	require.Equal(0, Cmp(rebuilt, simplified, false))
}

func TestCombineFactorsDropsZeroExponent(t *testing.T) {
	require := require.New(t)
	factors := []factor{{tree: NewLoadVar("m"), exp: 1}, {tree: NewLoadVar("s"), exp: 0}}
	result := CombineFactors(2, factors)
	require.Equal(Mul, result.Op)
	names := result.LeafNames()
	require.Equal([]string{"m"}, names)
}

func TestCombineFactorsStableUnderPermutation(t *testing.T) {
	require := require.New(t)
	f1 := []factor{{tree: NewLoadVar("a"), exp: 1}, {tree: NewLoadVar("b"), exp: 1}, {tree: NewLoadVar("c"), exp: 1}}
	f2 := []factor{f1[2], f1[0], f1[1]}
	require.Equal(0, Cmp(CombineFactors(1, f1), CombineFactors(1, f2), false),
		"canonical order must not depend on input permutation")
}

func TestInvertTreeMul(t *testing.T) {
	require := require.New(t)
	src := NewLoadVar("input_units")
	// head = Mul(2, x); inverse of x -> x at src should give Mul(1/2, src)
	head := NewNode(Mul, NewLoadConst(2), NewLoadVar("x"))
	inv, err := InvertTree(head, src)
	require.NoError(err)
	folded, err := Simplify(inv, false)
	require.NoError(err)
	require.Equal(Mul, folded.Op)
	k, ok := folded.Args[0].ConstValue()
	require.True(ok)
	require.InDelta(0.5, k, 1e-12)
}

func TestInvertTreePowExpLn(t *testing.T) {
	require := require.New(t)
	src := NewLoadVar("input_units")

	pow := NewNode(Pow, NewLoadVar("x"), NewLoadConst(3))
	inv, err := InvertTree(pow, src)
	require.NoError(err)
	require.Equal(Pow, inv.Op)
	k, _ := inv.Args[1].ConstValue()
	require.InDelta(1.0/3, k, 1e-12)

	expTree := NewNode(Exp, NewLoadVar("x"))
	inv, err = InvertTree(expTree, src)
	require.NoError(err)
	require.Equal(Ln, inv.Op)

	lnTree := NewNode(Ln, NewLoadVar("x"))
	inv, err = InvertTree(lnTree, src)
	require.NoError(err)
	require.Equal(Exp, inv.Op)
}

func TestInvertTreeRejectsNonInvertibleShape(t *testing.T) {
	require := require.New(t)
	head := NewNode(Mul, NewLoadVar("x"), NewLoadVar("y")) // two variables, no constant operand
	_, err := InvertTree(head, NewLoadVar("src"))
	require.Error(err)
}

func TestConcatTreeComposes(t *testing.T) {
	require := require.New(t)
	// tree2 = Mul(2, x); tree1 = Mul(3, y). Concat substitutes tree1 for x.
	tree2 := NewNode(Mul, NewLoadConst(2), NewLoadVar("x"))
	tree1 := NewNode(Mul, NewLoadConst(3), NewLoadVar("y"))
	result, err := ConcatTree(tree1, tree2)
	require.NoError(err)
	simplified, err := Simplify(result, false)
	require.NoError(err)
	k, ok := simplified.Args[0].ConstValue()
	require.True(ok)
	require.InDelta(6, k, 1e-12)
}

func TestFixUnitsPinsOtherLeavesToOne(t *testing.T) {
	require := require.New(t)
	tree := NewNode(Mul, NewLoadVar("m"), NewLoadVar("s"))
	fixed := FixUnits(tree, NewLoadVar("m"))
	simplified, err := Simplify(fixed, false)
	require.NoError(err)
	require.Equal(LoadVar, simplified.Op)
	require.Equal("m", simplified.Name)
}

func TestFixConstantsFoldsPiAndE(t *testing.T) {
	require := require.New(t)
	tree := NewNode(Mul, &Node{Op: LoadPi, Const: Bad}, NewLoadConst(2))
	folded, err := FixConstants(tree, false)
	require.NoError(err)
	v, ok := folded.ConstValue()
	require.True(ok)
	require.InDelta(2*math.Pi, v, 1e-9)

	tree = NewNode(Mul, &Node{Op: LoadE, Const: Bad}, NewLoadConst(2))
	folded, err = FixConstants(tree, false)
	require.NoError(err)
	v, ok = folded.ConstValue()
	require.True(ok)
	require.InDelta(2*math.E, v, 1e-9)
}

func TestFixConstantsDomainErrors(t *testing.T) {
	_, err := FixConstants(NewNode(Ln, NewLoadConst(-1)), false)
	requireDomainError(t, err)

	_, err = FixConstants(NewNode(Sqrt, NewLoadConst(-4)), false)
	requireDomainError(t, err)

	_, err = FixConstants(NewNode(Div, NewLoadConst(1), NewLoadConst(0)), false)
	requireDomainError(t, err)

	_, err = FixConstants(NewNode(Pow, NewLoadConst(-2), NewLoadConst(0.5)), false)
	requireDomainError(t, err)
}

func requireDomainError(t *testing.T, err error) {
	t.Helper()
	require := require.New(t)
	require.Error(err)
	ue, ok := AsUnitError(err)
	require.True(ok)
	require.Equal(DomainError, ue.Kind)
}

func TestNodeCopyIsIndependent(t *testing.T) {
	require := require.New(t)
	orig := NewNode(Mul, NewLoadConst(2), NewLoadVar("m"))
	cp := orig.Copy()
	cp.Args[0].Const = 99
	require.Equal(2.0, orig.Args[0].Const)
	require.Equal(99.0, cp.Args[0].Const)
}

func TestNodeFreeNilsArgs(t *testing.T) {
	require := require.New(t)
	n := NewNode(Mul, NewLoadConst(2), NewLoadVar("m"))
	n.Free()
	require.Nil(n.Args)
}

func TestLeafNamesDedupesInOrder(t *testing.T) {
	require := require.New(t)
	tree := NewNode(Mul, NewLoadVar("m"), NewNode(Mul, NewLoadVar("s"), NewLoadVar("m")))
	require.Equal([]string{"m", "s"}, tree.LeafNames())
}

// TestSimplifyCommutativeOfParse checks that simplifying two independently
// built trees that are the same expression up to operand order must
// produce structurally identical canonical forms. Cmp alone only reports
// a pass/fail bit; go-cmp's
// cmp.Diff gives a field-by-field diff when a property test like this one
// fails, which a pointer-based tree's %+v does not (it just prints
// addresses for the nested Node.Args slices).
func TestSimplifyCommutativeOfParse(t *testing.T) {
	require := require.New(t)

	left := NewNode(Mul, NewLoadVar("kg"), NewNode(Mul, NewLoadVar("m"), NewLoadVar("m")))
	right := NewNode(Mul, NewNode(Mul, NewLoadVar("m"), NewLoadVar("kg")), NewLoadVar("m"))

	leftSimplified, err := Simplify(left, false)
	require.NoError(err)
	rightSimplified, err := Simplify(right, false)
	require.NoError(err)

	if diff := cmp.Diff(leftSimplified, rightSimplified); diff != "" {
		t.Fatalf("canonical forms diverge under operand reordering (-left +right):\n%s", diff)
	}
}
