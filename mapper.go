package unit

// UnitMapper is the engine's primary entry point. It parses
// in_units and out_units, runs dimensional analysis, and on success
// compiles a Mapping plus — when in_label is non-empty — a rendered label
// for out_units. A nil mapping with a nil error means the two unit systems
// are not related by a single-variable function; that is a legitimate
// result, not a failure.
func UnitMapper(inUnits, outUnits, inLabel string) (*Mapping, string, error) {
	return UnitMapperIn(DefaultCatalogue(), inUnits, outUnits, inLabel)
}

// UnitMapperIn is UnitMapper against a supplied resolver (typically an
// Overlay built from a supplementary catalogue), letting a host extend the
// unit vocabulary without mutating the process-wide singleton.
func UnitMapperIn(r unitResolver, inUnits, outUnits, inLabel string) (*Mapping, string, error) {
	inTree, err := parseWithResolver(r, inUnits)
	if err != nil {
		return nil, "", err
	}
	outTree, err := parseWithResolver(r, outUnits)
	if err != nil {
		return nil, "", err
	}

	candidate, err := AnalyseDimensions(inTree, outTree)
	if err != nil {
		return nil, "", err
	}
	if candidate == nil {
		return nil, "", nil
	}

	mapping, err := CompileMapping(candidate.Tree)
	if err != nil {
		return nil, "", err
	}

	if inLabel == "" {
		return mapping, "", nil
	}

	labelTree := replaceLoadVar(candidate.Tree.Copy(), "input_units", NewLoadVar(inLabel))
	outLabel, err := Emit(labelTree, LabelMode)
	if err != nil {
		return nil, "", err
	}
	return mapping, outLabel, nil
}

// UnitLabel is the engine's second entry point: the catalogue's
// long-form descriptive label for a single known unit symbol.
func UnitLabel(symbol string) (string, bool) {
	return DefaultCatalogue().LongLabel(symbol)
}
