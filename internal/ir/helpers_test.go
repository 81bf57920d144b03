package ir

// addProgram is `function add(a, b) { return a + b; }`.
func addProgram() *Script {
	return NewScript(
		NewFunDef("add", []string{"a", "b"}, NewBlock(
			Return(Binary(OpAdd, Name("a"), Name("b"))),
		)),
	)
}

// kitchenSink exercises every node and expression kind.
func kitchenSink() *Script {
	return NewScript(
		&FunDef{
			Name: "f",
			Params: []NameType{
				{Name: "x", Type: BigIntType{}},
				{Name: "s", Type: StringType{}},
			},
			FunType: &FunType{Params: []Type{BigIntType{}, StringType{}}, Ret: BooleanType{}},
			Body: NewBlock(
				&VarDef{Name: "y", Type: Float64Type{}, Mutable: true, Value: Float64Lit(2.5)},
				&VarDef{Name: "big", Type: BigIntType{}, Value: mustBig("123456789012345678901234567890")},
				&IfStmt{
					Cond: Binary(OpLt, Name("x"), NewBigInt(10)),
					Then: Return(BoolLit(true)),
					Else: NewBlock(&ExprStmt{Expr: &Apply{Name: "log", Args: []Expr{StringLit("hi \"there\"")}}}),
				},
				&ExprNode{Expr: Name("x")},
				&ParenExpr{Expr: Binary(OpAnd, BoolLit(false), BoolLit(true))},
				&ReturnStmt{},
			),
		},
	)
}

func mustBig(s string) BigIntLit {
	b, err := ParseBigInt(s)
	if err != nil {
		panic(err)
	}
	return b
}
