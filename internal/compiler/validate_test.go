package compiler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jutus/internal/ir"
	"github.com/roach88/jutus/internal/lower"
	"github.com/roach88/jutus/internal/testutil"
)

func codes(diags []ValidationError) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func fn(name string, stmts ...ir.Node) *ir.FunDef {
	return ir.NewFunDef(name, nil, ir.NewBlock(stmts...))
}

func TestValidateCleanScript(t *testing.T) {
	script := ir.NewScript(testutil.AddFunction(), testutil.SubFunction(), testutil.BoolFunction("T", true))
	assert.Empty(t, Validate(script, lower.DefaultOptions()))
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name  string
		node  ir.Node
		code  string
		field string
	}{
		{
			name:  "nil root",
			node:  nil,
			code:  ErrUnsupportedNode,
			field: "$",
		},
		{
			name:  "script child not a function",
			node:  ir.NewScript(&ir.VarDef{Name: "x", Value: ir.NewBigInt(1)}),
			code:  ErrNotFunDef,
			field: "$.body[0]",
		},
		{
			name:  "empty function name",
			node:  ir.NewScript(fn("", ir.Return(ir.BoolLit(true)))),
			code:  ErrEmptyIdentifier,
			field: "$.body[0].name",
		},
		{
			name:  "duplicate function",
			node:  ir.NewScript(testutil.AddFunction(), testutil.AddFunction()),
			code:  ErrDuplicateFunction,
			field: "$.body[1].name",
		},
		{
			name: "fun type arity",
			node: ir.NewScript(&ir.FunDef{
				Name:    "f",
				Params:  []ir.NameType{{Name: "a", Type: ir.UnknownType{}}},
				FunType: &ir.FunType{Params: []ir.Type{}, Ret: ir.UnknownType{}},
				Body:    ir.NewBlock(ir.Return(ir.Name("a"))),
			}),
			code:  ErrFunTypeArity,
			field: "$.body[0].fun_type",
		},
		{
			name:  "bare return",
			node:  ir.NewScript(fn("f", &ir.ReturnStmt{})),
			code:  ErrBareReturn,
			field: "$.body[0].body.body[0]",
		},
		{
			name:  "apply",
			node:  ir.NewScript(fn("f", ir.Return(&ir.Apply{Name: "g", Args: []ir.Expr{ir.Name("x")}}))),
			code:  ErrApplyUnsupported,
			field: "$.body[0].body.body[0].value",
		},
		{
			name:  "fractional float",
			node:  ir.NewScript(fn("f", ir.Return(ir.Float64Lit(1.5)))),
			code:  ErrNonIntegralFloat,
			field: "$.body[0].body.body[0].value",
		},
		{
			name:  "nan",
			node:  ir.NewScript(fn("f", ir.Return(ir.Float64Lit(math.NaN())))),
			code:  ErrNonIntegralFloat,
			field: "$.body[0].body.body[0].value",
		},
		{
			name:  "duplicate param",
			node:  ir.NewScript(ir.NewFunDef("f", []string{"a", "a"}, ir.NewBlock(ir.Return(ir.Name("a"))))),
			code:  ErrDuplicateParam,
			field: "$.body[0].params[1]",
		},
		{
			name:  "unknown operator",
			node:  ir.NewScript(fn("f", ir.Return(ir.Binary(ir.BinOp(99), ir.Name("a"), ir.Name("b"))))),
			code:  ErrUnknownOperator,
			field: "$.body[0].body.body[0].value",
		},
		{
			name:  "nested function",
			node:  ir.NewScript(fn("outer", fn("inner", ir.Return(ir.BoolLit(true))))),
			code:  ErrNestedDefinition,
			field: "$.body[0].body.body[0]",
		},
		{
			name:  "missing body",
			node:  ir.NewScript(&ir.FunDef{Name: "f"}),
			code:  ErrUnsupportedNode,
			field: "$.body[0].body",
		},
		{
			name:  "empty identifier",
			node:  ir.NewScript(fn("f", ir.Return(ir.Name(" ")))),
			code:  ErrEmptyIdentifier,
			field: "$.body[0].body.body[0].value.name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Validate(tt.node, lower.DefaultOptions())
			require.True(t, HasErrors(diags), "diagnostics: %v", diags)

			var found *ValidationError
			for i := range diags {
				if diags[i].Code == tt.code {
					found = &diags[i]
					break
				}
			}
			require.NotNil(t, found, "expected %s in %v", tt.code, codes(diags))
			assert.Equal(t, tt.field, found.Field)
			assert.False(t, found.IsWarning())
		})
	}
}

func TestValidateCollectsAll(t *testing.T) {
	script := ir.NewScript(
		fn("f", &ir.ReturnStmt{}),
		fn("f", ir.Return(&ir.Apply{Name: "g"})),
	)
	assert.Equal(t, []string{ErrBareReturn, ErrDuplicateFunction, ErrApplyUnsupported}, codes(Validate(script, lower.DefaultOptions())))
}

func TestValidateWarnings(t *testing.T) {
	script := ir.NewScript(
		testutil.MaxFunction(),
		fn("lt", ir.Return(ir.Binary(ir.OpLt, ir.Name("a"), ir.Name("b")))),
	)

	diags := Validate(script, lower.DefaultOptions())
	assert.False(t, HasErrors(diags))
	assert.Equal(t, []string{WarnThenDiscarded, WarnLtCollapsed}, codes(Warnings(diags)))
	assert.Equal(t, "$.body[0].body.body[0].then", diags[0].Field)

	diags = Validate(script, lower.Options{IfBranch: lower.IfBranchThen})
	assert.Equal(t, []string{WarnLtCollapsed}, codes(diags))
}

func TestValidateIfArmsFollowBranchPolicy(t *testing.T) {
	script := ir.NewScript(fn("pick", &ir.IfStmt{
		Cond: ir.BoolLit(true),
		Then: nil,
		Else: ir.Return(ir.Name("b")),
	}))

	_, err := lower.BuildModule("pick.ir", script, lower.DefaultOptions())
	require.NoError(t, err)
	diags := Validate(script, lower.DefaultOptions())
	assert.False(t, HasErrors(diags))
	assert.Equal(t, []string{WarnThenDiscarded}, codes(diags))

	diags = Validate(script, lower.Options{IfBranch: lower.IfBranchThen})
	assert.True(t, HasErrors(diags))
	assert.Equal(t, []string{ErrUnsupportedNode}, codes(diags))
	assert.Equal(t, "$.body[0].body.body[0].then", diags[0].Field)
}

func TestValidateFloatPolicy(t *testing.T) {
	script := ir.NewScript(fn("f", ir.Return(ir.Float64Lit(2.5))))
	assert.True(t, HasErrors(Validate(script, lower.DefaultOptions())))
	assert.Empty(t, Validate(script, lower.Options{Floats: lower.FloatsText}))

	whole := ir.NewScript(fn("f", ir.Return(ir.Float64Lit(4))))
	assert.Empty(t, Validate(whole, lower.DefaultOptions()))
}

func TestValidateNonScriptRoot(t *testing.T) {
	assert.Empty(t, Validate(testutil.AddFunction(), lower.DefaultOptions()))
	assert.Empty(t, Validate(&ir.ExprNode{Expr: ir.NewBigInt(7)}, lower.DefaultOptions()))
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Field: "$.body[0]", Message: "bad", Code: ErrNotFunDef}
	assert.Equal(t, "[E101] $.body[0]: bad", e.Error())
	assert.False(t, e.IsWarning())
	assert.True(t, ValidationError{Code: WarnLtCollapsed}.IsWarning())
}
