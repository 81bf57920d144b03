package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpAdd(t *testing.T) {
	out, err := Dump(addProgram())
	require.NoError(t, err)

	assert.Equal(t, `Script
  FunDef add(a: unknown, b: unknown) -> unknown
    Block
      Return
        Binary +
          Ident a
          Ident b`, out)
}

func TestDumpKitchenSink(t *testing.T) {
	out, err := Dump(kitchenSink())
	require.NoError(t, err)

	assert.Equal(t, `Script
  FunDef f(x: bigint, s: string) -> bool
    Block
      VarDef let mut y: float64
        Literal float64 2.5
      VarDef let big: bigint
        Literal bigint 123456789012345678901234567890
      If
        Binary <
          Ident x
          Literal bigint 10
        Then
          Return
            Literal bool true
        Else
          Block
            ExprStmt
              Apply log/1
                Literal string "hi \"there\""
      Ident x
      Binary &&
        Literal bool false
        Literal bool true
      Return <none>`, out)
}

func TestDumpExpr(t *testing.T) {
	out, err := DumpExpr(Binary(OpMul, NewBigInt(2), Name("n")))
	require.NoError(t, err)
	assert.Equal(t, "Binary *\n  Literal bigint 2\n  Ident n", out)
}

func TestDumpNilChild(t *testing.T) {
	_, err := Dump(NewScript(&FunDef{Name: "f"}))
	assert.ErrorIs(t, err, ErrNilNode)
}
