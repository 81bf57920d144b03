package testutil

import "github.com/roach88/jutus/internal/ir"

// AddFunction is `function add(a, b) { return a + b; }`.
func AddFunction() *ir.FunDef {
	return ir.NewFunDef("add", []string{"a", "b"}, ir.NewBlock(
		ir.Return(ir.Binary(ir.OpAdd, ir.Name("a"), ir.Name("b"))),
	))
}

// SubFunction is `function sub(a, b) { let d = a - b; return d; }`.
func SubFunction() *ir.FunDef {
	return ir.NewFunDef("sub", []string{"a", "b"}, ir.NewBlock(
		&ir.VarDef{Name: "d", Type: ir.UnknownType{}, Mutable: false, Value: ir.Binary(ir.OpSub, ir.Name("a"), ir.Name("b"))},
		ir.Return(ir.Name("d")),
	))
}

// MaxFunction is `function max(a, b) { if (a >= b) return a; else return b; }`.
func MaxFunction() *ir.FunDef {
	return ir.NewFunDef("max", []string{"a", "b"}, ir.NewBlock(
		&ir.IfStmt{
			Cond: ir.Binary(ir.OpGtEq, ir.Name("a"), ir.Name("b")),
			Then: ir.Return(ir.Name("a")),
			Else: ir.Return(ir.Name("b")),
		},
	))
}

// BoolFunction is `function <name>() { return <value>; }`.
func BoolFunction(name string, value bool) *ir.FunDef {
	return ir.NewFunDef(name, nil, ir.NewBlock(ir.Return(ir.BoolLit(value))))
}

// ExampleScript holds add, sub, max, TheTrue and TheFalse in that order.
func ExampleScript() *ir.Script {
	return ir.NewScript(
		AddFunction(),
		SubFunction(),
		MaxFunction(),
		BoolFunction("TheTrue", true),
		BoolFunction("TheFalse", false),
	)
}

// AddScriptJSON is AddFunction as a script document.
const AddScriptJSON = `{
  "kind": "script",
  "body": [{
    "kind": "fun_def",
    "name": "add",
    "params": ["a", "b"],
    "body": {"kind": "block", "body": [{
      "kind": "return",
      "value": {"kind": "binary", "op": "add",
        "left": {"kind": "ident", "name": "a"},
        "right": {"kind": "ident", "name": "b"}}
    }]}
  }]
}`
