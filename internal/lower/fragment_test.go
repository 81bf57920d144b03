package lower

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jutus/internal/ir"
	"github.com/roach88/jutus/internal/target"
)

func TestProjections(t *testing.T) {
	expr := ExprFragment{Expr: tvar("x")}
	def := DefFragment{Def: &target.Function{Name: "f"}}
	script := ScriptFragment{Defs: []target.Definition{&target.Function{Name: "f"}}}

	e, err := AsExpr(expr)
	require.NoError(t, err)
	assert.Equal(t, tvar("x"), e)

	d, err := AsDefinition(def)
	require.NoError(t, err)
	assert.Equal(t, "f", d.DefinitionName())

	s, err := AsScript(script)
	require.NoError(t, err)
	assert.Len(t, s, 1)

	tests := []struct {
		name string
		fn   func() error
		want error
	}{
		{"def as expr", func() error { _, err := AsExpr(def); return err }, ErrExpectingExpr},
		{"script as expr", func() error { _, err := AsExpr(script); return err }, ErrExpectingExpr},
		{"nil as expr", func() error { _, err := AsExpr(nil); return err }, ErrExpectingExpr},
		{"expr as def", func() error { _, err := AsDefinition(expr); return err }, ErrExpectingDefinition},
		{"expr as script", func() error { _, err := AsScript(expr); return err }, ErrExpectingScript},
		{"def as script", func() error { _, err := AsScript(def); return err }, ErrExpectingScript},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsProjectionError(err))
		})
	}
}

func TestAssembleModule(t *testing.T) {
	f, err := Lower(addScript(), DefaultOptions())
	require.NoError(t, err)

	m, err := Assemble("examples/add.js", f)
	require.NoError(t, err)
	assert.Equal(t, "examples/add.js", m.Name)
	assert.Equal(t, target.KindValidator, m.Kind)
	assert.Equal(t, []string{}, m.Docs)
	assert.Nil(t, m.TypeInfo)
	assert.Len(t, m.Definitions, 1)

	_, err = Assemble("x", ExprFragment{Expr: tvar("x")})
	assert.ErrorIs(t, err, ErrExpectingScript)

	empty := NewModule("empty", nil)
	assert.NotNil(t, empty.Definitions)
	assert.Empty(t, empty.Definitions)
}

func TestBuildModuleRequiresScript(t *testing.T) {
	_, err := BuildModule("x", ir.NewFunDef("f", nil, ir.NewBlock()), DefaultOptions())
	assert.ErrorIs(t, err, ErrExpectingScript)
}

func TestErrorFormatting(t *testing.T) {
	err := newError(KindExpectingFunDef, "script.body[1]", "got %s", "statement")
	assert.Equal(t, "expecting_fun_def: script.body[1]: got statement", err.Error())
	assert.Equal(t, "not_implemented", (&Error{Kind: KindNotImplemented}).Error())
	assert.Equal(t, "expecting_expr: bare", (&Error{Kind: KindExpectingExpr, Message: "bare"}).Error())

	wrapped := fmt.Errorf("fun f: %w", err)
	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindExpectingFunDef, kind)
	assert.False(t, errors.Is(wrapped, ErrExpectingExpr))

	_, ok = KindOf(errors.New("other"))
	assert.False(t, ok)
	assert.False(t, IsProjectionError(errors.New("other")))
	assert.False(t, IsProjectionError(ErrNotImplemented))
}

func TestOptions(t *testing.T) {
	b, err := ParseIfBranch("then")
	require.NoError(t, err)
	assert.Equal(t, IfBranchThen, b)
	_, err = ParseIfBranch("both")
	assert.Error(t, err)

	p, err := ParseFloatPolicy("text")
	require.NoError(t, err)
	assert.Equal(t, FloatsText, p)
	_, err = ParseFloatPolicy("round")
	assert.Error(t, err)

	assert.Equal(t, "else", DefaultOptions().IfBranch.String())
	assert.Equal(t, "reject", DefaultOptions().Floats.String())

	h1, err := DefaultOptions().Hash()
	require.NoError(t, err)
	h2, err := Options{IfBranch: IfBranchThen}.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
