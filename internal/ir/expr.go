package ir

import (
	"fmt"
	"math/big"
)

// Expr is a sealed interface over expression nodes.
type Expr interface {
	irExpr()
}

// Literal is a sealed interface over constant values.
type Literal interface {
	Expr
	irLiteral()
	TypeOf() Type
}

// BoolLit is a boolean constant.
type BoolLit bool

// Float64Lit is a 64-bit float constant.
type Float64Lit float64

// BigIntLit is an arbitrary-precision integer constant. The wrapped value is
// never mutated after construction.
type BigIntLit struct {
	Value *big.Int
}

// StringLit is a text constant.
type StringLit string

func (BoolLit) irExpr()    {}
func (Float64Lit) irExpr() {}
func (BigIntLit) irExpr()  {}
func (StringLit) irExpr()  {}

func (BoolLit) irLiteral()    {}
func (Float64Lit) irLiteral() {}
func (BigIntLit) irLiteral()  {}
func (StringLit) irLiteral()  {}

func (BoolLit) TypeOf() Type    { return BooleanType{} }
func (Float64Lit) TypeOf() Type { return Float64Type{} }
func (BigIntLit) TypeOf() Type  { return BigIntType{} }
func (StringLit) TypeOf() Type  { return StringType{} }

// NewBigInt creates a BigIntLit from an int64.
func NewBigInt(v int64) BigIntLit {
	return BigIntLit{Value: big.NewInt(v)}
}

// ParseBigInt parses a base-10 integer literal.
func ParseBigInt(s string) (BigIntLit, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return BigIntLit{}, fmt.Errorf("invalid integer literal %q", s)
	}
	return BigIntLit{Value: v}, nil
}

// Text returns the canonical decimal form. A nil value reads as zero.
func (b BigIntLit) Text() string {
	if b.Value == nil {
		return "0"
	}
	return b.Value.String()
}

// Ident is a reference to a name. No scope resolution happens in the IR.
type Ident struct {
	Name string
}

// BinaryExpr applies Op to Left and Right.
type BinaryExpr struct {
	Op    BinOp
	Left  Expr
	Right Expr
}

// Apply calls the function named Name with Args.
type Apply struct {
	Name string
	Args []Expr
}

func (*Ident) irExpr()      {}
func (*BinaryExpr) irExpr() {}
func (*Apply) irExpr()      {}

// BinOp is a binary operator tag.
type BinOp int

const (
	OpEq BinOp = iota + 1
	OpNotEq
	OpLt
	OpLtEq
	OpGt
	OpGtEq
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpOr
	OpAnd
)

var binOpNames = map[BinOp]string{
	OpEq:    "eq",
	OpNotEq: "not_eq",
	OpLt:    "lt",
	OpLtEq:  "lt_eq",
	OpGt:    "gt",
	OpGtEq:  "gt_eq",
	OpAdd:   "add",
	OpSub:   "sub",
	OpMul:   "mul",
	OpDiv:   "div",
	OpMod:   "mod",
	OpOr:    "or",
	OpAnd:   "and",
}

var binOpSymbols = map[BinOp]string{
	OpEq:    "==",
	OpNotEq: "!=",
	OpLt:    "<",
	OpLtEq:  "<=",
	OpGt:    ">",
	OpGtEq:  ">=",
	OpAdd:   "+",
	OpSub:   "-",
	OpMul:   "*",
	OpDiv:   "/",
	OpMod:   "%",
	OpOr:    "||",
	OpAnd:   "&&",
}

// String returns the wire name of the operator.
func (op BinOp) String() string {
	if name, ok := binOpNames[op]; ok {
		return name
	}
	return fmt.Sprintf("BinOp(%d)", int(op))
}

// Symbol returns the source-level spelling of the operator.
func (op BinOp) Symbol() string {
	if sym, ok := binOpSymbols[op]; ok {
		return sym
	}
	return "?"
}

// Valid reports whether op is one of the defined operators.
func (op BinOp) Valid() bool {
	_, ok := binOpNames[op]
	return ok
}

// ParseBinOp accepts either the wire name ("lt_eq") or the symbol ("<=").
func ParseBinOp(s string) (BinOp, error) {
	for op, name := range binOpNames {
		if name == s {
			return op, nil
		}
	}
	for op, sym := range binOpSymbols {
		if sym == s {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown binary operator %q", s)
}

// BinOps returns every operator in declaration order.
func BinOps() []BinOp {
	ops := make([]BinOp, 0, len(binOpNames))
	for op := OpEq; op <= OpAnd; op++ {
		ops = append(ops, op)
	}
	return ops
}
