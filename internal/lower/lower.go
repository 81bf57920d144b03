package lower

import (
	"fmt"
	"math"
	"strconv"

	"github.com/roach88/jutus/internal/ir"
	"github.com/roach88/jutus/internal/target"
)

// binOps maps IR operators to target operators. OpLt shares LtEqInt with
// OpLtEq.
var binOps = map[ir.BinOp]target.BinOpKind{
	ir.OpEq:    target.Eq,
	ir.OpNotEq: target.NotEq,
	ir.OpLt:    target.LtEqInt,
	ir.OpLtEq:  target.LtEqInt,
	ir.OpGt:    target.GtInt,
	ir.OpGtEq:  target.GtEqInt,
	ir.OpAdd:   target.AddInt,
	ir.OpSub:   target.SubInt,
	ir.OpMul:   target.MultInt,
	ir.OpDiv:   target.DivInt,
	ir.OpMod:   target.ModInt,
	ir.OpOr:    target.Or,
	ir.OpAnd:   target.And,
}

// TargetOp returns the target operator for an IR operator.
func TargetOp(op ir.BinOp) (target.BinOpKind, bool) {
	k, ok := binOps[op]
	return k, ok
}

// Lowerer lowers IR nodes to target fragments.
type Lowerer struct {
	opts Options
}

var _ ir.Visitor[Fragment] = (*Lowerer)(nil)

// New creates a Lowerer.
func New(opts Options) *Lowerer {
	return &Lowerer{opts: opts}
}

// Options returns the options the Lowerer was built with.
func (l *Lowerer) Options() Options {
	return l.opts
}

// Lower visits n.
func (l *Lowerer) Lower(n ir.Node) (Fragment, error) {
	return ir.Visit[Fragment](l, n)
}

// Lower is a shorthand for New(opts).Lower(n).
func Lower(n ir.Node, opts Options) (Fragment, error) {
	return New(opts).Lower(n)
}

func (l *Lowerer) expr(e ir.Expr) (target.Expr, error) {
	f, err := ir.VisitExpr[Fragment](l, e)
	if err != nil {
		return nil, err
	}
	return AsExpr(f)
}

func (l *Lowerer) nodeExpr(n ir.Node) (target.Expr, error) {
	f, err := ir.Visit[Fragment](l, n)
	if err != nil {
		return nil, err
	}
	return AsExpr(f)
}

// VisitScript lowers every top-level function in order. Any other top-level
// node fails with KindExpectingFunDef.
func (l *Lowerer) VisitScript(s *ir.Script) (Fragment, error) {
	defs := make([]target.Definition, 0, len(s.Body))
	for i, child := range s.Body {
		fd, ok := child.(*ir.FunDef)
		if !ok || fd == nil {
			return nil, newError(KindExpectingFunDef, fmt.Sprintf("script.body[%d]", i), "got %s", describe(child))
		}
		f, err := l.VisitFunDef(fd)
		if err != nil {
			return nil, err
		}
		def, err := AsDefinition(f)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return ScriptFragment{Defs: defs}, nil
}

// VisitFunDef produces a public function with unannotated arguments.
func (l *Lowerer) VisitFunDef(f *ir.FunDef) (Fragment, error) {
	args := make([]target.Arg, len(f.Params))
	for i, p := range f.Params {
		args[i] = target.Arg{
			ArgName:  target.ArgName{Name: p.Name, Location: target.NoSpan()},
			Location: target.NoSpan(),
		}
	}

	if f.Body == nil {
		return nil, newError(KindExpectingExpr, "fun "+f.Name, "missing body")
	}
	body, err := l.nodeExpr(f.Body)
	if err != nil {
		return nil, fmt.Errorf("fun %s: %w", f.Name, err)
	}

	return DefFragment{Def: &target.Function{
		Arguments: args,
		Body:      body,
		Location:  target.NoSpan(),
		Name:      f.Name,
		Public:    true,
	}}, nil
}

// VisitVarDef produces an immutable let binding. The mutability flag is
// dropped: the target has no mutable locals.
func (l *Lowerer) VisitVarDef(v *ir.VarDef) (Fragment, error) {
	value, err := l.expr(v.Value)
	if err != nil {
		return nil, fmt.Errorf("let %s: %w", v.Name, err)
	}
	return ExprFragment{Expr: &target.Assignment{
		Location: target.NoSpan(),
		Value:    value,
		Pattern:  target.VarPattern{Location: target.NoSpan(), Name: v.Name},
		Kind:     target.AssignLet,
	}}, nil
}

// VisitReturnStmt yields the lowered value. A bare return fails with
// KindExpectingExpr.
func (l *Lowerer) VisitReturnStmt(r *ir.ReturnStmt) (Fragment, error) {
	if r.Value == nil {
		return nil, newError(KindExpectingExpr, "return", "bare return has no value")
	}
	value, err := l.expr(r.Value)
	if err != nil {
		return nil, fmt.Errorf("return: %w", err)
	}
	return ExprFragment{Expr: value}, nil
}

// VisitBlockStmt lowers each child to an expression and wraps them in a
// sequence.
func (l *Lowerer) VisitBlockStmt(b *ir.BlockStmt) (Fragment, error) {
	exprs := make([]target.Expr, len(b.Body))
	for i, child := range b.Body {
		e, err := l.nodeExpr(child)
		if err != nil {
			return nil, fmt.Errorf("block[%d]: %w", i, err)
		}
		exprs[i] = e
	}
	return ExprFragment{Expr: &target.Sequence{Location: target.NoSpan(), Expressions: exprs}}, nil
}

// VisitIfStmt produces a conditional with one branch and a final else. Which
// arm feeds the branch body depends on Options.IfBranch.
func (l *Lowerer) VisitIfStmt(s *ir.IfStmt) (Fragment, error) {
	cond, err := l.expr(s.Cond)
	if err != nil {
		return nil, fmt.Errorf("if condition: %w", err)
	}

	branchArm := s.Else
	if l.opts.IfBranch == IfBranchThen {
		branchArm = s.Then
	}
	body, err := l.nodeExpr(branchArm)
	if err != nil {
		return nil, fmt.Errorf("if branch: %w", err)
	}
	// Lowered separately so the branch and the final else never share nodes.
	final, err := l.nodeExpr(s.Else)
	if err != nil {
		return nil, fmt.Errorf("if else: %w", err)
	}

	return ExprFragment{Expr: &target.If{
		Location: target.NoSpan(),
		Branches: []target.IfBranch{{
			Condition: cond,
			Body:      body,
			Location:  target.NoSpan(),
		}},
		FinalElse: final,
	}}, nil
}

// VisitExprStmt wraps the expression in a one-element sequence.
func (l *Lowerer) VisitExprStmt(s *ir.ExprStmt) (Fragment, error) {
	e, err := l.expr(s.Expr)
	if err != nil {
		return nil, err
	}
	return ExprFragment{Expr: &target.Sequence{Location: target.NoSpan(), Expressions: []target.Expr{e}}}, nil
}

func (l *Lowerer) VisitLiteral(lit ir.Literal) (Fragment, error) {
	switch v := lit.(type) {
	case ir.BoolLit:
		name := "False"
		if v {
			name = "True"
		}
		return ExprFragment{Expr: &target.Var{Location: target.NoSpan(), Name: name}}, nil
	case ir.Float64Lit:
		text, err := l.floatText(float64(v))
		if err != nil {
			return nil, err
		}
		return ExprFragment{Expr: &target.Int{Location: target.NoSpan(), Value: text}}, nil
	case ir.BigIntLit:
		return ExprFragment{Expr: &target.Int{Location: target.NoSpan(), Value: v.Text()}}, nil
	case ir.StringLit:
		return ExprFragment{Expr: &target.String{Location: target.NoSpan(), Value: string(v)}}, nil
	}
	return nil, newError(KindNotImplemented, "literal", "unsupported literal %T", lit)
}

func (l *Lowerer) floatText(f float64) (string, error) {
	if l.opts.Floats == FloatsText {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return "", newError(KindNonIntegralFloat, "literal", "float %s has no integer equivalent", ir.FormatFloat(f))
	}
	if f == 0 {
		return "0", nil
	}
	return strconv.FormatFloat(f, 'f', 0, 64), nil
}

func (l *Lowerer) VisitIdent(id *ir.Ident) (Fragment, error) {
	return ExprFragment{Expr: &target.Var{Location: target.NoSpan(), Name: id.Name}}, nil
}

func (l *Lowerer) VisitBinary(b *ir.BinaryExpr) (Fragment, error) {
	left, err := l.expr(b.Left)
	if err != nil {
		return nil, err
	}
	right, err := l.expr(b.Right)
	if err != nil {
		return nil, err
	}
	op, ok := binOps[b.Op]
	if !ok {
		return nil, newError(KindNotImplemented, "binary", "operator %s has no target equivalent", b.Op)
	}
	return ExprFragment{Expr: &target.BinOp{
		Location: target.NoSpan(),
		Name:     op,
		Left:     left,
		Right:    right,
	}}, nil
}

// VisitApply always fails: function application is not lowered yet.
func (l *Lowerer) VisitApply(a *ir.Apply) (Fragment, error) {
	return nil, newError(KindNotImplemented, "apply "+a.Name, "function application is not supported")
}

func describe(n ir.Node) string {
	if n == nil {
		return "nothing"
	}
	return fmt.Sprintf("%s %T", n.Layer(), n)
}
