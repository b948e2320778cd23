package unit

import (
	"sort"
	"sync"
)

// CatalogEntry is an immutable record describing one known unit symbol,
// either basic (Definition == nil) or derived (Definition is a tree over
// basic units and constants, built by the parser during catalogue
// construction).
type CatalogEntry struct {
	Symbol     string
	Label      string
	Definition *Node
}

// Multiplier is an immutable decimal SI prefix.
type Multiplier struct {
	Symbol string
	Scale  float64
	Label  string
}

// Catalogue is the process-wide, read-only registry of known units and
// prefixes. It is built once, lazily, behind a sync.Once, and never
// mutated afterwards — safe to share across goroutines without further
// locking.
type Catalogue struct {
	units    map[string]*CatalogEntry
	mults    map[string]*Multiplier
	sortedMu []string // multiplier symbols, longest first
}

var (
	catOnce sync.Once
	cat     *Catalogue
)

// DefaultCatalogue returns the process-wide catalogue, building it on first
// use. Subsequent calls are free: the table is immutable and the
// initializer runs exactly once even under concurrent callers.
func DefaultCatalogue() *Catalogue {
	catOnce.Do(func() {
		cat = buildCatalogue()
	})
	return cat
}

// unitDef is one entry to register: symbol, long label, and an optional
// definition string parsed (against the partially built catalogue) the
// same way a user's unit expression would be.
type unitDef struct {
	symbol, label, def string
}

// basicUnitDefs and derivedUnitDefs register units in dependency order:
// basic IAU units first, then SI derived units (definitions may only refer
// to already-registered units), then astronomical conveniences.
var basicUnitDefs = []unitDef{
	{"m", "metre", ""},
	{"g", "gram", ""},
	{"s", "second", ""},
	{"rad", "radian", ""},
	{"sr", "steradian", ""},
	{"K", "Kelvin", ""},
	{"A", "Ampere", ""},
	{"mol", "mole", ""},
	{"cd", "candela", ""},
}

var derivedUnitDefs = []unitDef{
	{"Hz", "Hertz", "1/s"},
	{"N", "Newton", "kg m/s**2"},
	{"J", "Joule", "N m"},
	{"W", "Watt", "J/s"},
	{"C", "Coulomb", "A s"},
	{"V", "Volt", "J/C"},
	{"Pa", "Pascal", "N/m**2"},
	{"Ohm", "Ohm", "V/A"},
	{"S", "Siemens", "A/V"},
	{"F", "Farad", "C/V"},
	{"Wb", "Weber", "V s"},
	{"T", "Tesla", "Wb/m**2"},
	{"H", "Henry", "Wb/A"},
	{"lm", "lumen", "cd sr"},
	{"lx", "lux", "lm/m**2"},

	{"deg", "degree", "pi/180 rad"},
	{"arcmin", "arc-minute", "1/60 deg"},
	{"arcsec", "arc-second", "1/3600 deg"},
	{"mas", "milli-arcsecond", "1/3600000 deg"},
	{"min", "minute", "60 s"},
	{"h", "hour", "3600 s"},
	{"d", "day", "86400 s"},
	{"a", "year", "31557600 s"},
	{"yr", "year", "31557600 s"},
	{"eV", "electron-Volt", "1.60217733E-19 J"},
	{"erg", "erg", "1.0E-7 J"},
	{"Ry", "Rydberg", "13.605692 eV"},
	{"solMass", "solar mass", "1.9891E30 kg"},
	{"u", "unified atomic mass unit", "1.6605387E-27 kg"},
	{"solLum", "solar luminosity", "3.8268E26 W"},
	{"Angstrom", "Angstrom", "1.0E-10 m"},
	{"solRad", "solar radius", "6.9599E8 m"},
	{"AU", "astronomical unit", "1.49598E11 m"},
	{"lyr", "light year", "9.460730E15 m"},
	{"pc", "parsec", "3.0867E16 m"},
	{"count", "count", ""},
	{"ct", "count", ""},
	{"photon", "photon", ""},
	{"ph", "photon", ""},
	{"Jy", "Jansky", "1.0E-26 W/m**2/Hz"},
	{"mag", "magnitude", ""},
	{"G", "Gauss", "1.0E-4 T"},
	{"pixel", "pixel", ""},
	{"pix", "pixel", ""},
	{"barn", "barn", "1.0E-28 m**2"},
	{"D", "Debye", "1.0E-29/3 C.m"},
}

// prefixDefs mirrors GetMultipliers, the 20 SI decimal prefixes.
var prefixDefs = []struct {
	sym   string
	scale float64
	label string
}{
	{"d", 1.0e-1, "deci"},
	{"c", 1.0e-2, "centi"},
	{"m", 1.0e-3, "milli"},
	{"u", 1.0e-6, "micro"},
	{"n", 1.0e-9, "nano"},
	{"p", 1.0e-12, "pico"},
	{"f", 1.0e-15, "femto"},
	{"a", 1.0e-18, "atto"},
	{"z", 1.0e-21, "zepto"},
	{"y", 1.0e-24, "yocto"},
	{"da", 1.0e1, "deca"},
	{"h", 1.0e2, "hecto"},
	{"k", 1.0e3, "kilo"},
	{"M", 1.0e6, "mega"},
	{"G", 1.0e9, "giga"},
	{"T", 1.0e12, "tera"},
	{"P", 1.0e15, "peta"},
	{"E", 1.0e18, "exa"},
	{"Z", 1.0e21, "zetta"},
	{"Y", 1.0e24, "yotta"},
}

func buildCatalogue() *Catalogue {
	c := &Catalogue{
		units: make(map[string]*CatalogEntry),
		mults: make(map[string]*Multiplier),
	}

	for _, p := range prefixDefs {
		c.mults[p.sym] = &Multiplier{Symbol: p.sym, Scale: p.scale, Label: p.label}
	}
	c.sortedMu = make([]string, 0, len(c.mults))
	for s := range c.mults {
		c.sortedMu = append(c.sortedMu, s)
	}
	sort.Slice(c.sortedMu, func(i, j int) bool { return len(c.sortedMu[i]) > len(c.sortedMu[j]) })

	for _, d := range basicUnitDefs {
		c.units[d.symbol] = &CatalogEntry{Symbol: d.symbol, Label: d.label}
	}
	for _, d := range derivedUnitDefs {
		entry := &CatalogEntry{Symbol: d.symbol, Label: d.label}
		if d.def != "" {
			tree, err := parseDefinitionTree(c, d.def)
			if err != nil {
				// A malformed built-in definition is a programming error
				// in this file, not a runtime condition callers can act
				// on; fail loudly rather than silently registering a
				// broken unit.
				panic("unit: bad built-in definition for " + d.symbol + ": " + err.Error())
			}
			entry.Definition = tree
		}
		c.units[d.symbol] = entry
	}
	return c
}

// parseDefinitionTree parses a derived-unit definition string against the
// catalogue as currently built (so a later entry, e.g. "erg", may refer to
// an earlier one, "J"). It deliberately skips RemakeTree/FixConstants
// recursion bookkeeping beyond what the ordinary parser does — derived
// definitions are themselves parsed by the same parser used for user
// input.
func parseDefinitionTree(c *Catalogue, exp string) (*Node, error) {
	return parseWithCatalogue(c, exp)
}

// Lookup returns the catalogue entry for an exact symbol, if any.
func (c *Catalogue) Lookup(symbol string) (*CatalogEntry, bool) {
	e, ok := c.units[symbol]
	return e, ok
}

// LongLabel returns the descriptive label for a known basic or derived
// unit symbol, used by UnitLabel.
func (c *Catalogue) LongLabel(symbol string) (string, bool) {
	if e, ok := c.units[symbol]; ok {
		return e.Label, true
	}
	return "", false
}

// MultiplierLookup returns the prefix multiplier for an exact prefix
// symbol, if any.
func (c *Catalogue) MultiplierLookup(symbol string) (*Multiplier, bool) {
	m, ok := c.mults[symbol]
	return m, ok
}

// ResolveSymbol takes a candidate symbol string and returns the longest
// matching catalogue symbol
// and an optional preceding prefix. The prefix must itself be a known
// multiplier symbol and must not consume the entire input; resolution
// prefers the longest prefix match that leaves a non-empty known unit (so
// "da"+"?" is preferred over "d"+"a..." whenever both could apply, and
// "pa" resolves as prefix "p" + unit "a" (year), not a non-existent unit
// "pa").
func (c *Catalogue) ResolveSymbol(symbol string) (entry *CatalogEntry, prefix *Multiplier, ok bool) {
	if e, has := c.units[symbol]; has {
		return e, nil, true
	}
	for _, p := range c.sortedMu {
		if p == "" || len(p) >= len(symbol) {
			continue
		}
		if symbol[:len(p)] != p {
			continue
		}
		suffix := symbol[len(p):]
		if suffix == "" {
			continue
		}
		if e, has := c.units[suffix]; has {
			return e, c.mults[p], true
		}
	}
	return nil, nil, false
}

// Overlay holds additional unit entries in a private layer without
// touching the process-wide immutable catalogue. See
// internal/catalogext for the YAML-driven loader that builds such an
// overlay; Catalogue itself never exposes a mutator so the singleton
// stays provably read-only after initialization.
type Overlay struct {
	base  *Catalogue
	extra map[string]*CatalogEntry
}

// NewOverlay creates an Overlay layered on top of base (normally
// DefaultCatalogue()).
func NewOverlay(base *Catalogue) *Overlay {
	return &Overlay{base: base, extra: make(map[string]*CatalogEntry)}
}

// Add registers symbol as a derived unit defined by defExpr, evaluated
// against the overlay itself (so supplements may reference earlier
// supplements as well as any base catalogue unit). Add refuses to shadow
// a symbol already present in the base catalogue.
func (o *Overlay) Add(symbol, label, defExpr string) error {
	if _, ok := o.base.units[symbol]; ok {
		return parseErr("cannot redefine built-in unit %q", symbol)
	}
	tree, err := parseWithResolver(o, defExpr)
	if err != nil {
		return err
	}
	o.extra[symbol] = &CatalogEntry{Symbol: symbol, Label: label, Definition: tree}
	return nil
}

// Lookup checks the overlay first, then falls back to the base catalogue.
func (o *Overlay) Lookup(symbol string) (*CatalogEntry, bool) {
	if e, ok := o.extra[symbol]; ok {
		return e, true
	}
	return o.base.Lookup(symbol)
}

func (o *Overlay) LongLabel(symbol string) (string, bool) {
	if e, ok := o.extra[symbol]; ok {
		return e.Label, true
	}
	return o.base.LongLabel(symbol)
}

func (o *Overlay) MultiplierLookup(symbol string) (*Multiplier, bool) {
	return o.base.MultiplierLookup(symbol)
}

func (o *Overlay) ResolveSymbol(symbol string) (*CatalogEntry, *Multiplier, bool) {
	if e, ok := o.extra[symbol]; ok {
		return e, nil, true
	}
	return o.base.ResolveSymbol(symbol)
}
