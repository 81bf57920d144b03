package ir

import (
	"errors"
	"fmt"
)

// ErrNilNode is returned when dispatch reaches a missing node or expression.
var ErrNilNode = errors.New("nil IR node")

// ErrUnknownNode is returned when dispatch reaches a kind it does not know.
// Well-formed trees never trigger it.
var ErrUnknownNode = errors.New("unknown IR node")

// ExprVisitor has one method per expression kind.
type ExprVisitor[R any] interface {
	VisitLiteral(lit Literal) (R, error)
	VisitIdent(id *Ident) (R, error)
	VisitBinary(bin *BinaryExpr) (R, error)
	VisitApply(app *Apply) (R, error)
}

// Visitor has one method per statement-level node kind plus the expression
// methods. ExprNode and ParenExpr have no method of their own: dispatch
// forwards their inner expression to VisitExpr.
//
// Implementations supply only the per-kind methods. Dispatch is done by the
// free functions Visit and VisitExpr, which cannot be overridden.
type Visitor[R any] interface {
	ExprVisitor[R]
	VisitScript(s *Script) (R, error)
	VisitFunDef(f *FunDef) (R, error)
	VisitVarDef(v *VarDef) (R, error)
	VisitReturnStmt(r *ReturnStmt) (R, error)
	VisitBlockStmt(b *BlockStmt) (R, error)
	VisitIfStmt(s *IfStmt) (R, error)
	VisitExprStmt(s *ExprStmt) (R, error)
}

// Visit dispatches n to the matching method of v.
func Visit[R any](v Visitor[R], n Node) (R, error) {
	var zero R
	switch n := n.(type) {
	case nil:
		return zero, ErrNilNode
	case *Script:
		if n == nil {
			return zero, fmt.Errorf("script: %w", ErrNilNode)
		}
		return v.VisitScript(n)
	case *FunDef:
		if n == nil {
			return zero, fmt.Errorf("fun_def: %w", ErrNilNode)
		}
		return v.VisitFunDef(n)
	case *VarDef:
		if n == nil {
			return zero, fmt.Errorf("var_def: %w", ErrNilNode)
		}
		return v.VisitVarDef(n)
	case *ReturnStmt:
		if n == nil {
			return zero, fmt.Errorf("return: %w", ErrNilNode)
		}
		return v.VisitReturnStmt(n)
	case *BlockStmt:
		if n == nil {
			return zero, fmt.Errorf("block: %w", ErrNilNode)
		}
		return v.VisitBlockStmt(n)
	case *IfStmt:
		if n == nil {
			return zero, fmt.Errorf("if: %w", ErrNilNode)
		}
		return v.VisitIfStmt(n)
	case *ExprStmt:
		if n == nil {
			return zero, fmt.Errorf("expr_stmt: %w", ErrNilNode)
		}
		return v.VisitExprStmt(n)
	case *ExprNode:
		if n == nil {
			return zero, fmt.Errorf("expr: %w", ErrNilNode)
		}
		return VisitExpr[R](v, n.Expr)
	case *ParenExpr:
		if n == nil {
			return zero, fmt.Errorf("paren: %w", ErrNilNode)
		}
		return VisitExpr[R](v, n.Expr)
	default:
		return zero, fmt.Errorf("%w: %T", ErrUnknownNode, n)
	}
}

// VisitExpr dispatches e to the matching expression method of v.
func VisitExpr[R any](v ExprVisitor[R], e Expr) (R, error) {
	var zero R
	switch e := e.(type) {
	case nil:
		return zero, ErrNilNode
	case Literal:
		return v.VisitLiteral(e)
	case *Ident:
		if e == nil {
			return zero, fmt.Errorf("ident: %w", ErrNilNode)
		}
		return v.VisitIdent(e)
	case *BinaryExpr:
		if e == nil {
			return zero, fmt.Errorf("binary: %w", ErrNilNode)
		}
		return v.VisitBinary(e)
	case *Apply:
		if e == nil {
			return zero, fmt.Errorf("apply: %w", ErrNilNode)
		}
		return v.VisitApply(e)
	default:
		return zero, fmt.Errorf("%w: %T", ErrUnknownNode, e)
	}
}
