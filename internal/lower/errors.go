package lower

import (
	"errors"
	"fmt"
)

// ErrorKind classifies lowering failures.
type ErrorKind string

const (
	KindExpectingExpr       ErrorKind = "expecting_expr"
	KindExpectingDefinition ErrorKind = "expecting_definition"
	KindExpectingScript     ErrorKind = "expecting_script"
	KindExpectingFunDef     ErrorKind = "expecting_fun_def"
	KindNotImplemented      ErrorKind = "not_implemented"
	KindNonIntegralFloat    ErrorKind = "non_integral_float"
)

// Sentinels for errors.Is. A *Error matches the sentinel of its kind.
var (
	ErrExpectingExpr       = &Error{Kind: KindExpectingExpr}
	ErrExpectingDefinition = &Error{Kind: KindExpectingDefinition}
	ErrExpectingScript     = &Error{Kind: KindExpectingScript}
	ErrExpectingFunDef     = &Error{Kind: KindExpectingFunDef}
	ErrNotImplemented      = &Error{Kind: KindNotImplemented}
	ErrNonIntegralFloat    = &Error{Kind: KindNonIntegralFloat}
)

// Error is a lowering failure. Node names the IR construct that failed.
type Error struct {
	Kind    ErrorKind
	Node    string
	Message string
}

func (e *Error) Error() string {
	var msg string
	switch {
	case e.Node != "" && e.Message != "":
		msg = fmt.Sprintf("%s: %s", e.Node, e.Message)
	case e.Node != "":
		msg = e.Node
	default:
		msg = e.Message
	}
	if msg == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind ErrorKind, node, format string, args ...any) *Error {
	return &Error{Kind: kind, Node: node, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a lowering error anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind, true
	}
	return "", false
}

// IsProjectionError reports whether err is a shape mismatch
// (expecting expr, definition, script or function definition).
func IsProjectionError(err error) bool {
	kind, ok := KindOf(err)
	if !ok {
		return false
	}
	switch kind {
	case KindExpectingExpr, KindExpectingDefinition, KindExpectingScript, KindExpectingFunDef:
		return true
	}
	return false
}

// IsNotImplemented reports whether err is an unimplemented-feature error.
func IsNotImplemented(err error) bool {
	return errors.Is(err, ErrNotImplemented)
}
