package unit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, exp string) *Node {
	t.Helper()
	tree, err := ParseUnit(exp)
	require.NoError(t, err, "ParseUnit(%q)", exp)
	return tree
}

func TestAnalyseDimensionsBothEmptyIsIdentity(t *testing.T) {
	require := require.New(t)
	cand, err := AnalyseDimensions(nil, nil)
	require.NoError(err)
	require.Equal(LoadVar, cand.Tree.Op)
	require.Equal("input_units", cand.Tree.Name)
}

func TestAnalyseDimensionsIncompatibleBasicUnits(t *testing.T) {
	require := require.New(t)
	in := mustParse(t, "m")
	out := mustParse(t, "s")
	cand, err := AnalyseDimensions(in, out)
	require.NoError(err)
	require.Nil(cand, "metres and seconds must not be related by a single-variable function")
}

func TestAnalyseDimensionsScalarRatio(t *testing.T) {
	require := require.New(t)
	in := mustParse(t, "km/h")
	out := mustParse(t, "m/s")
	cand, err := AnalyseDimensions(in, out)
	require.NoError(err)
	require.NotNil(cand)

	mapping, err := CompileMapping(cand.Tree)
	require.NoError(err)
	require.Equal(Scalar, mapping.Kind)

	got, err := mapping.Apply(1)
	require.NoError(err)
	require.InDelta(1000.0/3600.0, got, 1e-9)
}

func TestAnalyseDimensionsSqrtFunction(t *testing.T) {
	require := require.New(t)
	in := mustParse(t, "Hz")
	out := mustParse(t, "sqrt(Hz)")
	cand, err := AnalyseDimensions(in, out)
	require.NoError(err)
	require.NotNil(cand)

	mapping, err := CompileMapping(cand.Tree)
	require.NoError(err)
	got, err := mapping.Apply(4)
	require.NoError(err)
	require.InDelta(2.0, got, 1e-9)
}

func TestAnalyseDimensionsUnknownSymbolsSameNameIsIdentity(t *testing.T) {
	require := require.New(t)
	in := mustParse(t, "zorkmid")
	out := mustParse(t, "zorkmid")
	cand, err := AnalyseDimensions(in, out)
	require.NoError(err)
	require.NotNil(cand)
	mapping, err := CompileMapping(cand.Tree)
	require.NoError(err)
	require.Equal(Identity, mapping.Kind)
}

func TestAnalyseDimensionsUnknownSymbolOnOneSideOnlyIsIncompatible(t *testing.T) {
	require := require.New(t)
	in := mustParse(t, "zorkmid")
	out := mustParse(t, "m")
	cand, err := AnalyseDimensions(in, out)
	require.NoError(err)
	require.Nil(cand)
}

func TestAnalyseDimensionsPrefixOrthogonality(t *testing.T) {
	cases := []struct {
		prefixed, base string
		scale          float64
	}{
		{"km", "m", 1e3},
		{"mJy", "Jy", 1e-3},
		{"kpc", "pc", 1e3},
	}
	for _, tt := range cases {
		t.Run(tt.prefixed, func(t *testing.T) {
			require := require.New(t)
			in := mustParse(t, tt.prefixed)
			out := mustParse(t, tt.base)
			cand, err := AnalyseDimensions(in, out)
			require.NoError(err)
			require.NotNil(cand)
			mapping, err := CompileMapping(cand.Tree)
			require.NoError(err)
			got, err := mapping.Apply(1)
			require.NoError(err)
			require.InDelta(tt.scale, got, tt.scale*1e-9)
		})
	}
}
