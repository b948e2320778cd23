// Package diag is the structured-logging surface for unit-engine
// diagnostics: a symbol that fell back to an unknown leaf, a pair of unit
// systems found incompatible, a compiled mapping, and an engine error.
// The engine package itself does not log; callers that don't care get a
// no-op logger, and the CLI in cmd/unitmapper wires a real one.
package diag

import "github.com/sirupsen/logrus"

// Logger is a per-call diagnostics sink with a fixed "system" field,
// mirroring the go-mysql-server audit logger's WithField("system", ...)
// pattern.
type Logger struct {
	entry *logrus.Entry
}

// New wraps l, tagging every entry with system="unitalgebra". A nil l
// yields a Logger whose methods are safe no-ops.
func New(l *logrus.Logger) *Logger {
	if l == nil {
		return &Logger{}
	}
	return &Logger{entry: l.WithField("system", "unitalgebra")}
}

// Noop returns a Logger that discards everything, the default for library
// callers that never configure diagnostics.
func Noop() *Logger {
	return &Logger{}
}

func (d *Logger) fields(action string, extra logrus.Fields) logrus.Fields {
	f := logrus.Fields{"action": action}
	for k, v := range extra {
		f[k] = v
	}
	return f
}

// ParseFallback records that a symbol in a unit string did not resolve
// against the catalogue and was kept as an opaque leaf.
func (d *Logger) ParseFallback(symbol, expr string) {
	if d.entry == nil {
		return
	}
	d.entry.WithFields(d.fields("parse_fallback", logrus.Fields{
		"symbol": symbol,
		"expr":   expr,
	})).Warn("unresolved unit symbol")
}

// Incompatible records that dimensional analysis found the two unit
// systems unrelated by a single-variable function.
func (d *Logger) Incompatible(inUnits, outUnits string) {
	if d.entry == nil {
		return
	}
	d.entry.WithFields(d.fields("incompatible", logrus.Fields{
		"in_units":  inUnits,
		"out_units": outUnits,
	})).Info("unit systems are not related by a single-variable function")
}

// Mapped records a successful mapping compilation, along with which of the
// three mapping kinds (identity/scalar/general) the compiler chose.
func (d *Logger) Mapped(inUnits, outUnits, kind string) {
	if d.entry == nil {
		return
	}
	d.entry.WithFields(d.fields("mapped", logrus.Fields{
		"in_units":  inUnits,
		"out_units": outUnits,
		"kind":      kind,
	})).Debug("compiled unit mapping")
}

// Error records an error surfaced from the engine, with its classified
// kind attached for log-based alerting.
func (d *Logger) Error(kind string, err error) {
	if d.entry == nil {
		return
	}
	d.entry.WithFields(d.fields("error", logrus.Fields{
		"kind": kind,
		"err":  err,
	})).Error("unit engine error")
}
