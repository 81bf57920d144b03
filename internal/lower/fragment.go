package lower

import (
	"fmt"

	"github.com/roach88/jutus/internal/target"
)

// Fragment is the result of visiting one IR node: a target expression, a
// definition, or a script (ordered definitions).
type Fragment interface {
	fragment()
	Shape() string
}

// ExprFragment wraps a lowered expression.
type ExprFragment struct {
	Expr target.Expr
}

// DefFragment wraps a lowered definition.
type DefFragment struct {
	Def target.Definition
}

// ScriptFragment wraps the lowered definitions of a script.
type ScriptFragment struct {
	Defs []target.Definition
}

func (ExprFragment) fragment()   {}
func (DefFragment) fragment()    {}
func (ScriptFragment) fragment() {}

func (ExprFragment) Shape() string   { return "expression" }
func (DefFragment) Shape() string    { return "definition" }
func (ScriptFragment) Shape() string { return "script" }

func shapeOf(f Fragment) string {
	if f == nil {
		return "nothing"
	}
	return f.Shape()
}

// AsExpr narrows f to an expression.
func AsExpr(f Fragment) (target.Expr, error) {
	if e, ok := f.(ExprFragment); ok {
		return e.Expr, nil
	}
	return nil, &Error{Kind: KindExpectingExpr, Message: fmt.Sprintf("got %s", shapeOf(f))}
}

// AsDefinition narrows f to a definition.
func AsDefinition(f Fragment) (target.Definition, error) {
	if d, ok := f.(DefFragment); ok {
		return d.Def, nil
	}
	return nil, &Error{Kind: KindExpectingDefinition, Message: fmt.Sprintf("got %s", shapeOf(f))}
}

// AsScript narrows f to an ordered list of definitions.
func AsScript(f Fragment) ([]target.Definition, error) {
	if s, ok := f.(ScriptFragment); ok {
		return s.Defs, nil
	}
	return nil, &Error{Kind: KindExpectingScript, Message: fmt.Sprintf("got %s", shapeOf(f))}
}
