package unit

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies the fatal error conditions the engine can raise.
// Incompatibility between two well-formed unit systems is deliberately not
// one of these kinds: it is reported as a nil mapping, not an error.
type ErrorKind int

const (
	// ParseError covers unbalanced parentheses, stray characters, missing
	// operands, empty function calls and trailing tokens.
	ParseError ErrorKind = iota
	// DomainError covers folding a log/sqrt of a non-positive constant,
	// 0**0, a negative base to a non-integer exponent, or division by zero.
	DomainError
	// VariableExponentError covers a Pow whose right operand is not a
	// constant once simplification has run.
	VariableExponentError
	// InternalError covers a broken post-condition, e.g. inverting a tree
	// that does not have exactly one LoadVar leaf on its variable path.
	InternalError
)

func (k ErrorKind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case DomainError:
		return "DomainError"
	case VariableExponentError:
		return "VariableExponentError"
	case InternalError:
		return "InternalError"
	default:
		return "UnknownError"
	}
}

// UnitError is the single error type returned by every exported operation.
// It carries the kind and a one-line diagnostic; the engine never attempts
// partial recovery across sibling subexpressions, so only one UnitError is
// ever in flight for a given call.
type UnitError struct {
	Kind ErrorKind
	msg  string
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

// newErr constructs a *UnitError and immediately wraps it with pkg/errors so
// the returned error carries a stack trace for diagnostics, the way
// dolthub/go-mysql-server and signadot/tony-format chain error context.
func newErr(kind ErrorKind, format string, args ...interface{}) error {
	return errors.WithStack(&UnitError{Kind: kind, msg: fmt.Sprintf(format, args...)})
}

func parseErr(format string, args ...interface{}) error {
	return newErr(ParseError, format, args...)
}

func domainErr(format string, args ...interface{}) error {
	return newErr(DomainError, format, args...)
}

func varExpErr(format string, args ...interface{}) error {
	return newErr(VariableExponentError, format, args...)
}

func internalErr(format string, args ...interface{}) error {
	return newErr(InternalError, format, args...)
}

// AsUnitError unwraps err (through any pkg/errors wrapping) to the
// underlying *UnitError, if any.
func AsUnitError(err error) (*UnitError, bool) {
	var ue *UnitError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
