package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const maxYAML = `
kind: script
body:
  - kind: fun_def
    name: max
    params: [a, b]
    body:
      kind: block
      body:
        - kind: if
          cond: {kind: binary, op: ">=", left: {kind: ident, name: a}, right: {kind: ident, name: b}}
          then: {kind: return, value: {kind: ident, name: a}}
          else: {kind: return, value: {kind: ident, name: b}}
`

func TestUnmarshalYAML(t *testing.T) {
	n, err := UnmarshalYAML([]byte(maxYAML))
	require.NoError(t, err)

	s := n.(*Script)
	require.Len(t, s.Body, 1)
	f := s.Body[0].(*FunDef)
	assert.Equal(t, "max", f.Name)

	ifs := f.Body.Body[0].(*IfStmt)
	assert.Equal(t, OpGtEq, ifs.Cond.(*BinaryExpr).Op)
	assert.Equal(t, "a", ifs.Then.(*ReturnStmt).Value.(*Ident).Name)
	assert.Equal(t, "b", ifs.Else.(*ReturnStmt).Value.(*Ident).Name)
}

func TestUnmarshalYAMLLiterals(t *testing.T) {
	n, err := UnmarshalYAML([]byte(`
kind: block
body:
  - {kind: var_def, name: x, type: bigint, mutable: true, value: {kind: bigint, value: 5}}
  - {kind: var_def, name: y, value: {kind: float64, value: 2.5}}
  - {kind: expr_stmt, expr: {kind: string, value: "hi"}}
`))
	require.NoError(t, err)

	b := n.(*BlockStmt)
	require.Len(t, b.Body, 3)
	x := b.Body[0].(*VarDef)
	assert.True(t, x.Mutable)
	assert.Equal(t, "5", x.Value.(BigIntLit).Text())
	assert.Equal(t, Float64Lit(2.5), b.Body[1].(*VarDef).Value)
	assert.Equal(t, StringLit("hi"), b.Body[2].(*ExprStmt).Expr)
}

func TestUnmarshalYAMLWideIntegers(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"plain 30 digits", "123456789012345678901234567890", "123456789012345678901234567890"},
		{"negative", "-123456789012345678901234567890", "-123456789012345678901234567890"},
		{"above uint64", "18446744073709551616", "18446744073709551616"},
		{"quoted", `"123456789012345678901234567890"`, "123456789012345678901234567890"},
		{"hex", "0xff", "255"},
		{"underscores", "1_000_000", "1000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := UnmarshalYAML([]byte("kind: var_def\nname: x\nvalue:\n  kind: bigint\n  value: " + tt.value + "\n"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.(*VarDef).Value.(BigIntLit).Text())
		})
	}
}

func TestUnmarshalYAMLFloats(t *testing.T) {
	tests := []struct {
		value string
		check func(float64) bool
	}{
		{"2.5", func(f float64) bool { return f == 2.5 }},
		{"5", func(f float64) bool { return f == 5 }},
		{".inf", func(f float64) bool { return math.IsInf(f, 1) }},
		{"-.inf", func(f float64) bool { return math.IsInf(f, -1) }},
		{".nan", math.IsNaN},
		{"1e400", func(f float64) bool { return math.IsInf(f, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			n, err := UnmarshalYAML([]byte("kind: expr\nexpr: {kind: float64, value: " + tt.value + "}\n"))
			require.NoError(t, err)
			f := float64(n.(*ExprNode).Expr.(Float64Lit))
			assert.True(t, tt.check(f), "got %v", f)
		})
	}
}

func TestUnmarshalYAMLAnchors(t *testing.T) {
	n, err := UnmarshalYAML([]byte(`
kind: block
body:
  - &ret {kind: return, value: {kind: ident, name: a}}
  - *ret
`))
	require.NoError(t, err)
	b := n.(*BlockStmt)
	require.Len(t, b.Body, 2)
	assert.Equal(t, MustFingerprint(b.Body[0]), MustFingerprint(b.Body[1]))

	_, err = UnmarshalYAML([]byte("kind: return\nkind: block\n"))
	assert.Error(t, err)
}

func TestDecodeYAMLNode(t *testing.T) {
	var doc struct {
		Program yaml.Node `yaml:"program"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("program:\n  kind: return\n"), &doc))

	n, err := DecodeYAMLNode(&doc.Program)
	require.NoError(t, err)
	assert.IsType(t, &ReturnStmt{}, n)

	_, err = DecodeYAMLNode(&yaml.Node{})
	assert.ErrorIs(t, err, ErrNilNode)
}

func TestUnmarshalYAMLInvalid(t *testing.T) {
	_, err := UnmarshalYAML([]byte("kind: [unclosed"))
	assert.Error(t, err)

	_, err = UnmarshalYAML([]byte("kind: loop"))
	assert.ErrorIs(t, err, ErrUnknownNode)
}
