package target

import (
	"errors"
	"fmt"
)

// ErrNilNode is returned when dispatch reaches a missing expression or
// definition.
var ErrNilNode = errors.New("nil target node")

// Visitor has one method per target node kind.
type Visitor[R any] interface {
	VisitVar(v *Var) (R, error)
	VisitInt(i *Int) (R, error)
	VisitString(s *String) (R, error)
	VisitBinOp(b *BinOp) (R, error)
	VisitSequence(s *Sequence) (R, error)
	VisitAssignment(a *Assignment) (R, error)
	VisitIf(i *If) (R, error)
	VisitFunction(f *Function) (R, error)
}

// VisitExpr dispatches e to the matching method of v.
func VisitExpr[R any](v Visitor[R], e Expr) (R, error) {
	var zero R
	switch e := e.(type) {
	case nil:
		return zero, ErrNilNode
	case *Var:
		if e == nil {
			return zero, ErrNilNode
		}
		return v.VisitVar(e)
	case *Int:
		if e == nil {
			return zero, ErrNilNode
		}
		return v.VisitInt(e)
	case *String:
		if e == nil {
			return zero, ErrNilNode
		}
		return v.VisitString(e)
	case *BinOp:
		if e == nil {
			return zero, ErrNilNode
		}
		return v.VisitBinOp(e)
	case *Sequence:
		if e == nil {
			return zero, ErrNilNode
		}
		return v.VisitSequence(e)
	case *Assignment:
		if e == nil {
			return zero, ErrNilNode
		}
		return v.VisitAssignment(e)
	case *If:
		if e == nil {
			return zero, ErrNilNode
		}
		return v.VisitIf(e)
	default:
		return zero, fmt.Errorf("unknown target expression %T", e)
	}
}

// VisitDefinition dispatches d to the matching method of v.
func VisitDefinition[R any](v Visitor[R], d Definition) (R, error) {
	var zero R
	switch d := d.(type) {
	case nil:
		return zero, ErrNilNode
	case *Function:
		if d == nil {
			return zero, ErrNilNode
		}
		return v.VisitFunction(d)
	default:
		return zero, fmt.Errorf("unknown target definition %T", d)
	}
}
