package ir

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder reports which visit method received the node.
type recorder struct{}

func (recorder) VisitScript(*Script) (string, error)         { return "script", nil }
func (recorder) VisitFunDef(*FunDef) (string, error)         { return "fun_def", nil }
func (recorder) VisitVarDef(*VarDef) (string, error)         { return "var_def", nil }
func (recorder) VisitReturnStmt(*ReturnStmt) (string, error) { return "return", nil }
func (recorder) VisitBlockStmt(*BlockStmt) (string, error)   { return "block", nil }
func (recorder) VisitIfStmt(*IfStmt) (string, error)         { return "if", nil }
func (recorder) VisitExprStmt(*ExprStmt) (string, error)     { return "expr_stmt", nil }
func (recorder) VisitLiteral(Literal) (string, error)        { return "literal", nil }
func (recorder) VisitIdent(*Ident) (string, error)           { return "ident", nil }
func (recorder) VisitBinary(*BinaryExpr) (string, error)     { return "binary", nil }
func (recorder) VisitApply(*Apply) (string, error)           { return "apply", nil }

func TestVisitDispatchesByKind(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{&Script{}, "script"},
		{&FunDef{}, "fun_def"},
		{&VarDef{}, "var_def"},
		{&ReturnStmt{}, "return"},
		{&BlockStmt{}, "block"},
		{&IfStmt{}, "if"},
		{&ExprStmt{}, "expr_stmt"},
		{&ExprNode{Expr: Name("a")}, "ident"},
		{&ParenExpr{Expr: Binary(OpAdd, Name("a"), Name("b"))}, "binary"},
		{&ExprNode{Expr: StringLit("s")}, "literal"},
		{&ParenExpr{Expr: &Apply{Name: "f"}}, "apply"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := Visit[string](recorder{}, tt.node)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVisitExprDispatchesLiterals(t *testing.T) {
	for _, lit := range []Expr{BoolLit(true), Float64Lit(1.5), NewBigInt(3), StringLit("x")} {
		got, err := VisitExpr[string](recorder{}, lit)
		require.NoError(t, err)
		assert.Equal(t, "literal", got)
	}
}

func TestVisitNil(t *testing.T) {
	_, err := Visit[string](recorder{}, nil)
	assert.ErrorIs(t, err, ErrNilNode)

	var s *Script
	_, err = Visit[string](recorder{}, s)
	assert.ErrorIs(t, err, ErrNilNode)

	_, err = Visit[string](recorder{}, &ExprNode{})
	assert.ErrorIs(t, err, ErrNilNode)

	var id *Ident
	_, err = VisitExpr[string](recorder{}, id)
	assert.ErrorIs(t, err, ErrNilNode)
}

// failing rejects identifiers.
type failing struct{ recorder }

var errBoom = errors.New("boom")

func (failing) VisitIdent(*Ident) (string, error) { return "", errBoom }

func TestVisitPropagatesErrors(t *testing.T) {
	_, err := Visit[string](failing{}, &ParenExpr{Expr: Name("a")})
	assert.ErrorIs(t, err, errBoom)
}
