package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump renders a node tree as an indented outline, one node per line.
// ExprNode and ParenExpr wrappers are transparent in the outline.
func Dump(n Node) (string, error) {
	return Visit[string](dumper{}, n)
}

// DumpExpr renders an expression tree as an indented outline.
func DumpExpr(e Expr) (string, error) {
	return VisitExpr[string](dumper{}, e)
}

// dumper prints one line for the node it visits and descends with a copy at
// depth+1, so a dumper value is never mutated.
type dumper struct {
	depth int
}

func (d dumper) line(format string, args ...any) string {
	return strings.Repeat("  ", d.depth) + fmt.Sprintf(format, args...)
}

func (d dumper) child() dumper {
	return dumper{depth: d.depth + 1}
}

func (d dumper) nodes(head string, nodes []Node) (string, error) {
	lines := []string{head}
	for _, n := range nodes {
		s, err := Visit[string](d.child(), n)
		if err != nil {
			return "", err
		}
		lines = append(lines, s)
	}
	return strings.Join(lines, "\n"), nil
}

func (d dumper) exprs(head string, exprs ...Expr) (string, error) {
	lines := []string{head}
	for _, e := range exprs {
		s, err := VisitExpr[string](d.child(), e)
		if err != nil {
			return "", err
		}
		lines = append(lines, s)
	}
	return strings.Join(lines, "\n"), nil
}

func (d dumper) VisitScript(s *Script) (string, error) {
	return d.nodes(d.line("Script"), s.Body)
}

func (d dumper) VisitFunDef(f *FunDef) (string, error) {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Name + ": " + p.TypeOf().String()
	}
	ret := "unknown"
	if ft, ok := f.TypeOf().(*FunType); ok {
		ret = typeString(ft.Ret)
	}
	head := d.line("FunDef %s(%s) -> %s", f.Name, strings.Join(params, ", "), ret)
	if f.Body == nil {
		return "", fmt.Errorf("fun_def %q body: %w", f.Name, ErrNilNode)
	}
	body, err := Visit[string](d.child(), f.Body)
	if err != nil {
		return "", err
	}
	return head + "\n" + body, nil
}

func (d dumper) VisitVarDef(v *VarDef) (string, error) {
	binder := "let"
	if v.Mutable {
		binder = "let mut"
	}
	return d.exprs(d.line("VarDef %s %s: %s", binder, v.Name, v.TypeOf()), v.Value)
}

func (d dumper) VisitReturnStmt(r *ReturnStmt) (string, error) {
	if r.Value == nil {
		return d.line("Return <none>"), nil
	}
	return d.exprs(d.line("Return"), r.Value)
}

func (d dumper) VisitBlockStmt(b *BlockStmt) (string, error) {
	return d.nodes(d.line("Block"), b.Body)
}

func (d dumper) VisitIfStmt(s *IfStmt) (string, error) {
	cond, err := VisitExpr[string](d.child(), s.Cond)
	if err != nil {
		return "", err
	}
	arm := d.child()
	then, err := arm.nodes(arm.line("Then"), []Node{s.Then})
	if err != nil {
		return "", err
	}
	els, err := arm.nodes(arm.line("Else"), []Node{s.Else})
	if err != nil {
		return "", err
	}
	return strings.Join([]string{d.line("If"), cond, then, els}, "\n"), nil
}

func (d dumper) VisitExprStmt(s *ExprStmt) (string, error) {
	return d.exprs(d.line("ExprStmt"), s.Expr)
}

func (d dumper) VisitLiteral(lit Literal) (string, error) {
	switch v := lit.(type) {
	case BoolLit:
		return d.line("Literal bool %t", bool(v)), nil
	case Float64Lit:
		return d.line("Literal float64 %s", FormatFloat(float64(v))), nil
	case BigIntLit:
		return d.line("Literal bigint %s", v.Text()), nil
	case StringLit:
		return d.line("Literal string %s", strconv.Quote(string(v))), nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnknownNode, lit)
}

func (d dumper) VisitIdent(id *Ident) (string, error) {
	return d.line("Ident %s", id.Name), nil
}

func (d dumper) VisitBinary(b *BinaryExpr) (string, error) {
	return d.exprs(d.line("Binary %s", b.Op.Symbol()), b.Left, b.Right)
}

func (d dumper) VisitApply(a *Apply) (string, error) {
	return d.exprs(d.line("Apply %s/%d", a.Name, len(a.Args)), a.Args...)
}
