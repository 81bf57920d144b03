package ir

// Layer classifies a node within the single IR model.
type Layer int

const (
	LayerModule Layer = iota + 1
	LayerDefinition
	LayerStatement
	LayerExpression
)

func (l Layer) String() string {
	switch l {
	case LayerModule:
		return "module"
	case LayerDefinition:
		return "definition"
	case LayerStatement:
		return "statement"
	case LayerExpression:
		return "expression"
	}
	return "unknown"
}

// Node is the closed union of IR nodes.
type Node interface {
	irNode()
	Layer() Layer
}

// Script is the translation unit root.
type Script struct {
	Body []Node
}

// FunDef is a function definition. FunType mirrors the parameter types and
// is carried explicitly for convenience.
type FunDef struct {
	Name    string
	Params  []NameType
	FunType *FunType
	Body    *BlockStmt
}

// VarDef is a variable definition. The initializer is owned by the node.
type VarDef struct {
	Name    string
	Type    Type
	Mutable bool
	Value   Expr
}

// ReturnStmt returns Value. A nil Value is a bare return.
type ReturnStmt struct {
	Value Expr
}

// BlockStmt is an ordered sequence of nodes.
type BlockStmt struct {
	Body []Node
}

// IfStmt branches on Cond. Then and Else are arbitrary nodes.
type IfStmt struct {
	Cond Expr
	Then Node
	Else Node
}

// ExprStmt evaluates an expression for its effect.
type ExprStmt struct {
	Expr Expr
}

// ExprNode embeds a bare expression in node position.
type ExprNode struct {
	Expr Expr
}

// ParenExpr is a parenthesized expression in node position.
type ParenExpr struct {
	Expr Expr
}

func (*Script) irNode()     {}
func (*FunDef) irNode()     {}
func (*VarDef) irNode()     {}
func (*ReturnStmt) irNode() {}
func (*BlockStmt) irNode()  {}
func (*IfStmt) irNode()     {}
func (*ExprStmt) irNode()   {}
func (*ExprNode) irNode()   {}
func (*ParenExpr) irNode()  {}

func (*Script) Layer() Layer     { return LayerModule }
func (*FunDef) Layer() Layer     { return LayerDefinition }
func (*VarDef) Layer() Layer     { return LayerDefinition }
func (*ReturnStmt) Layer() Layer { return LayerStatement }
func (*BlockStmt) Layer() Layer  { return LayerStatement }
func (*IfStmt) Layer() Layer     { return LayerStatement }
func (*ExprStmt) Layer() Layer   { return LayerStatement }
func (*ExprNode) Layer() Layer   { return LayerExpression }
func (*ParenExpr) Layer() Layer  { return LayerExpression }

// TypeOf returns the function type, deriving it from the parameters when the
// node was built without one.
func (f *FunDef) TypeOf() Type {
	if f.FunType == nil {
		return DeriveFunType(f.Params, nil)
	}
	return f.FunType
}

// TypeOf returns the declared type, or UnknownType when none was recorded.
func (v *VarDef) TypeOf() Type {
	if v.Type == nil {
		return UnknownType{}
	}
	return v.Type
}

// NewScript creates a Script from top-level nodes.
func NewScript(body ...Node) *Script {
	return &Script{Body: body}
}

// NewBlock creates a BlockStmt from nodes.
func NewBlock(body ...Node) *BlockStmt {
	return &BlockStmt{Body: body}
}

// NewFunDef creates a FunDef with unknown-typed parameters and an unknown
// return type.
func NewFunDef(name string, params []string, body *BlockStmt) *FunDef {
	nts := make([]NameType, len(params))
	for i, p := range params {
		nts[i] = NameType{Name: p, Type: UnknownType{}}
	}
	return &FunDef{
		Name:    name,
		Params:  nts,
		FunType: DeriveFunType(nts, nil),
		Body:    body,
	}
}

// Return creates a ReturnStmt with a value.
func Return(value Expr) *ReturnStmt {
	return &ReturnStmt{Value: value}
}

// Name creates an identifier reference.
func Name(name string) *Ident {
	return &Ident{Name: name}
}

// Binary creates a BinaryExpr.
func Binary(op BinOp, left, right Expr) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right}
}
