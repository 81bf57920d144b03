package target

import "fmt"

// Span is a byte range in the original source.
type Span struct {
	Start int
	End   int
}

// NoSpan is the placeholder location used when source positions are not
// tracked.
func NoSpan() Span {
	return Span{}
}

// Expr is the closed union of untyped expressions.
type Expr interface {
	targetExpr()
	Span() Span
}

// Var references a name, including the built-in constructors True and False.
type Var struct {
	Location Span
	Name     string
}

// Int is an integer literal kept as its decimal text.
type Int struct {
	Location Span
	Value    string
}

// String is a text literal.
type String struct {
	Location Span
	Value    string
}

// BinOp applies Name to Left and Right.
type BinOp struct {
	Location Span
	Name     BinOpKind
	Left     Expr
	Right    Expr
}

// Sequence evaluates Expressions in order; its value is the last one.
type Sequence struct {
	Location    Span
	Expressions []Expr
}

// Assignment binds Value to Pattern.
type Assignment struct {
	Location   Span
	Value      Expr
	Pattern    VarPattern
	Kind       AssignmentKind
	Annotation *Annotation
}

// If is a conditional with one or more branches and a mandatory final else.
type If struct {
	Location  Span
	Branches  []IfBranch
	FinalElse Expr
}

// IfBranch is one condition/body pair of an If.
type IfBranch struct {
	Condition Expr
	Body      Expr
	Location  Span
}

func (*Var) targetExpr()        {}
func (*Int) targetExpr()        {}
func (*String) targetExpr()     {}
func (*BinOp) targetExpr()      {}
func (*Sequence) targetExpr()   {}
func (*Assignment) targetExpr() {}
func (*If) targetExpr()         {}

func (e *Var) Span() Span        { return e.Location }
func (e *Int) Span() Span        { return e.Location }
func (e *String) Span() Span     { return e.Location }
func (e *BinOp) Span() Span      { return e.Location }
func (e *Sequence) Span() Span   { return e.Location }
func (e *Assignment) Span() Span { return e.Location }
func (e *If) Span() Span         { return e.Location }

// VarPattern binds a single name.
type VarPattern struct {
	Location Span
	Name     string
}

// AssignmentKind distinguishes binding forms. Only let exists at this layer.
type AssignmentKind int

const (
	AssignLet AssignmentKind = iota
)

func (k AssignmentKind) String() string {
	if k == AssignLet {
		return "let"
	}
	return fmt.Sprintf("AssignmentKind(%d)", int(k))
}

// Annotation is a type annotation written in the target language.
type Annotation struct {
	Name string
}

// BinOpKind is the backend's binary operator set. Every arithmetic and
// ordering operator is integer-flavored.
type BinOpKind int

const (
	And BinOpKind = iota + 1
	Or
	Eq
	NotEq
	LtInt
	LtEqInt
	GtEqInt
	GtInt
	AddInt
	SubInt
	MultInt
	DivInt
	ModInt
)

var binOpKinds = []struct {
	name   string
	symbol string
}{
	And:     {"And", "&&"},
	Or:      {"Or", "||"},
	Eq:      {"Eq", "=="},
	NotEq:   {"NotEq", "!="},
	LtInt:   {"LtInt", "<"},
	LtEqInt: {"LtEqInt", "<="},
	GtEqInt: {"GtEqInt", ">="},
	GtInt:   {"GtInt", ">"},
	AddInt:  {"AddInt", "+"},
	SubInt:  {"SubInt", "-"},
	MultInt: {"MultInt", "*"},
	DivInt:  {"DivInt", "/"},
	ModInt:  {"ModInt", "%"},
}

func (k BinOpKind) valid() bool {
	return k >= And && k <= ModInt
}

// String returns the backend's name for the operator, e.g. "AddInt".
func (k BinOpKind) String() string {
	if !k.valid() {
		return fmt.Sprintf("BinOpKind(%d)", int(k))
	}
	return binOpKinds[k].name
}

// Symbol returns the operator as written in backend source.
func (k BinOpKind) Symbol() string {
	if !k.valid() {
		return "?"
	}
	return binOpKinds[k].symbol
}

// Definition is the closed union of module-level definitions.
type Definition interface {
	targetDefinition()
	DefinitionName() string
}

// Function is a function definition.
type Function struct {
	Arguments        []Arg
	Body             Expr
	Doc              string
	Location         Span
	Name             string
	Public           bool
	ReturnAnnotation *Annotation
	EndPosition      int
}

func (*Function) targetDefinition() {}

// DefinitionName returns the function name.
func (f *Function) DefinitionName() string { return f.Name }

// ArgName is the binder of a function argument.
type ArgName struct {
	Name     string
	Location Span
}

// Arg is a function argument with an optional annotation.
type Arg struct {
	ArgName    ArgName
	Location   Span
	Annotation *Annotation
}

// ModuleKind is the backend's module category.
type ModuleKind int

const (
	KindLib ModuleKind = iota
	KindValidator
)

func (k ModuleKind) String() string {
	switch k {
	case KindLib:
		return "lib"
	case KindValidator:
		return "validator"
	}
	return fmt.Sprintf("ModuleKind(%d)", int(k))
}

// Module is a named, untyped module handed to the backend.
type Module struct {
	Name        string
	Docs        []string
	TypeInfo    any // filled in by the backend type checker; nil until then
	Definitions []Definition
	Kind        ModuleKind
}

// DefinitionNames lists the definition names in order.
func (m *Module) DefinitionNames() []string {
	names := make([]string, len(m.Definitions))
	for i, d := range m.Definitions {
		names[i] = d.DefinitionName()
	}
	return names
}
