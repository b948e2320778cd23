package unit

// Candidate is the result of dimensional analysis: a 1-D tree expressing
// out_units as a function of a single fresh variable "input_units" loaded
// with a value expressed in in_units.
type Candidate struct {
	Tree *Node
}

// AnalyseDimensions builds the candidate conversion tree relating in and
// out. It returns (nil, nil) — not an error — when in and out are not related by a
// single-variable function.
//
// For each basic-unit leaf appearing in either tree, the other leaves are
// pinned to 1 and both restrictions are simplified. If exactly one side
// collapses to a constant the two systems disagree on that dimension and
// are incompatible; if both collapse, the dimension cancels and carries no
// information. Otherwise the restriction of in is inverted and composed
// with the restriction of out to produce this dimension's candidate, which
// must structurally agree (commutative compare) with every other
// dimension's candidate.
func AnalyseDimensions(in, out *Node) (*Candidate, error) {
	if in == nil && out == nil {
		return &Candidate{Tree: NewLoadVar("input_units")}, nil
	}
	if in == nil {
		in = NewLoadConst(1)
	}
	if out == nil {
		out = NewLoadConst(1)
	}

	leaves := unionLeafNames(in, out)
	if len(leaves) == 0 {
		// Both sides are pure constants: the mapping is a trivial scalar.
		inC, err := Simplify(in.Copy(), false)
		if err != nil {
			return nil, err
		}
		outC, err := Simplify(out.Copy(), false)
		if err != nil {
			return nil, err
		}
		k, inOk := inC.ConstValue()
		j, outOk := outC.ConstValue()
		if !inOk || !outOk || k == 0 {
			return nil, internalErr("constant restriction did not fold to a scalar")
		}
		return &Candidate{Tree: NewNode(Mul, NewLoadConst(j/k), NewLoadVar("input_units"))}, nil
	}

	var stored *Node
	haveStored := false

	for _, u := range leaves {
		keep := NewLoadVar(u)

		inU, err := Simplify(FixUnits(in, keep), false)
		if err != nil {
			return nil, err
		}
		outU, err := Simplify(FixUnits(out, keep), false)
		if err != nil {
			return nil, err
		}

		_, inIsConst := inU.ConstValue()
		_, outIsConst := outU.ConstValue()

		switch {
		case inIsConst && outIsConst:
			// u cancels out of both sides: no information about
			// compatibility, move to the next basic unit.
			continue
		case inIsConst != outIsConst:
			// The two systems depend on u differently: incompatible.
			return nil, nil
		}

		freshVar := NewLoadVar("input_units")
		inverted, err := InvertTree(inU, freshVar)
		if err != nil {
			// u appears in a shape InvertTree cannot handle: treat as
			// incompatible rather than propagating an internal error.
			return nil, nil
		}
		candidate, err := ConcatTree(inverted, outU)
		if err != nil {
			return nil, nil
		}
		candidate, err = Simplify(candidate, false)
		if err != nil {
			return nil, err
		}

		if !haveStored {
			stored = candidate
			haveStored = true
			continue
		}
		if Cmp(stored, candidate, false) != 0 {
			return nil, nil
		}
	}

	if !haveStored {
		// Every basic unit cancelled on both sides: in and out are both
		// dimensionless scale factors of one another.
		inC, err := Simplify(in.Copy(), false)
		if err != nil {
			return nil, err
		}
		outC, err := Simplify(out.Copy(), false)
		if err != nil {
			return nil, err
		}
		k, inOk := inC.ConstValue()
		j, outOk := outC.ConstValue()
		if !inOk || !outOk || k == 0 {
			return nil, internalErr("dimensionless restriction did not fold to a scalar")
		}
		return &Candidate{Tree: NewNode(Mul, NewLoadConst(j/k), NewLoadVar("input_units"))}, nil
	}

	return &Candidate{Tree: stored}, nil
}

// unionLeafNames returns the distinct LoadVar names across both trees, in
// first-encountered order (in's leaves first, then out's).
func unionLeafNames(in, out *Node) []string {
	seen := map[string]bool{}
	var names []string
	for _, n := range in.LeafNames() {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for _, n := range out.LeafNames() {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	return names
}
