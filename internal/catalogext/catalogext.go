// Package catalogext loads supplementary unit definitions from a YAML
// document and layers them over the built-in catalogue as an Overlay,
// grounded on the decode-then-populate pattern the gcp2prom config loader
// uses for its own YAML-driven tables.
package catalogext

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	unit "github.com/axisunits/unitalgebra"
)

// unitSpec is one YAML entry under "units": a symbol, its descriptive
// label, and a definition expression parsed the same way a built-in
// derived unit is.
type unitSpec struct {
	Symbol string `yaml:"symbol"`
	Label  string `yaml:"label"`
	Def    string `yaml:"def"`
}

// document is the shape of a supplementary catalogue file.
type document struct {
	Units []unitSpec `yaml:"units"`
}

// Load decodes a YAML document from r and returns an Overlay on top of
// unit.DefaultCatalogue() with every listed unit registered, in file
// order (later entries may reference earlier ones, the same forward-only
// rule the built-in catalogue itself follows).
func Load(r io.Reader) (*unit.Overlay, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.SetStrict(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding supplementary catalogue")
	}

	overlay := unit.NewOverlay(unit.DefaultCatalogue())
	for _, u := range doc.Units {
		if err := overlay.Add(u.Symbol, u.Label, u.Def); err != nil {
			return nil, errors.Wrapf(err, "registering unit %q", u.Symbol)
		}
	}
	return overlay, nil
}

// LoadFile opens path and decodes it via Load.
func LoadFile(path string) (*unit.Overlay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening supplementary catalogue %q", path)
	}
	defer f.Close()
	return Load(f)
}
