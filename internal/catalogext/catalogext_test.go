package catalogext

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadRegistersUnitsInFileOrder(t *testing.T) {
	require := require.New(t)
	doc := `
units:
  - symbol: smoot
    label: smoot
    def: "1.702 m"
  - symbol: smoots_per_pole
    label: smoots per pole
    def: "smoot/367"
`
	overlay, err := Load(strings.NewReader(doc))
	require.NoError(err)

	entry, ok := overlay.Lookup("smoot")
	require.True(ok)
	require.Equal("smoot", entry.Symbol)

	entry, ok = overlay.Lookup("smoots_per_pole")
	require.True(ok)
	require.Equal("smoots per pole", entry.Label)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	require := require.New(t)
	doc := `
units:
  - symbol: smoot
    label: smoot
    definition: "1.702 m"
`
	_, err := Load(strings.NewReader(doc))
	require.Error(err)
}

func TestLoadRejectsShadowingABuiltinUnit(t *testing.T) {
	require := require.New(t)
	doc := `
units:
  - symbol: m
    label: metre-ish
    def: "1 m"
`
	_, err := Load(strings.NewReader(doc))
	require.Error(err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	require := require.New(t)
	_, err := Load(strings.NewReader("units: [this is not a unit list"))
	require.Error(err)
}

func TestLoadFileReadsFromDisk(t *testing.T) {
	require := require.New(t)
	path := t.TempDir() + "/extra.yaml"
	content := "units:\n  - symbol: smoot\n    label: smoot\n    def: \"1.702 m\"\n"
	require.NoError(os.WriteFile(path, []byte(content), 0o644))

	overlay, err := LoadFile(path)
	require.NoError(err)
	_, ok := overlay.Lookup("smoot")
	require.True(ok)
}

func TestLoadFileReportsMissingFile(t *testing.T) {
	require := require.New(t)
	_, err := LoadFile("/nonexistent/path/extra.yaml")
	require.Error(err)
}
