package compiler

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/jutus/internal/ir"
	"github.com/roach88/jutus/internal/lower"
)

// Validation codes. E1xx are errors (the program will not lower), W2xx are
// warnings about approximate lowering rules.
const (
	ErrUnsupportedNode   = "E100" // nil or unsupported node
	ErrNotFunDef         = "E101" // script child is not a function definition
	ErrEmptyIdentifier   = "E102" // empty name
	ErrDuplicateFunction = "E103" // duplicate function name in a script
	ErrFunTypeArity      = "E104" // fun_type parameter count differs from params
	ErrBareReturn        = "E105" // return without a value
	ErrApplyUnsupported  = "E106" // function application cannot be lowered
	ErrNonIntegralFloat  = "E107" // float literal with no integer equivalent
	ErrDuplicateParam    = "E108" // duplicate parameter name
	ErrUnknownOperator   = "E109" // binary operator outside the table
	ErrNestedDefinition  = "E110" // function or script nested below the top level

	WarnThenDiscarded = "W201" // then arm ignored by the default if lowering
	WarnLtCollapsed   = "W202" // < lowers to <=
)

// ValidationError is one diagnostic found by Validate.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// IsWarning reports whether the diagnostic is a warning.
func (e ValidationError) IsWarning() bool {
	return strings.HasPrefix(e.Code, "W")
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []ValidationError) bool {
	for _, d := range diags {
		if !d.IsWarning() {
			return true
		}
	}
	return false
}

// Warnings returns only the warning diagnostics.
func Warnings(diags []ValidationError) []ValidationError {
	var out []ValidationError
	for _, d := range diags {
		if d.IsWarning() {
			out = append(out, d)
		}
	}
	return out
}

// Validate checks an IR tree against the rules the lowering pass enforces and
// reports approximate rules that will apply. It returns every diagnostic
// (does not fail-fast). The root may be a Script or any other node.
func Validate(n ir.Node, opts lower.Options) []ValidationError {
	var diags []ValidationError
	v := validator{diags: &diags, opts: opts, path: "$"}
	v.node(n)
	return diags
}

// validator walks the tree with ir.Visit. Each value carries the path of the
// node it visits; all copies append to the same diagnostics slice.
type validator struct {
	diags *[]ValidationError
	opts  lower.Options
	path  string
	depth int
}

var _ ir.Visitor[struct{}] = validator{}

func (v validator) at(segment string) validator {
	v.path = v.path + segment
	return v
}

func (v validator) report(code, format string, args ...any) {
	*v.diags = append(*v.diags, ValidationError{
		Field:   v.path,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	})
}

func (v validator) node(n ir.Node) {
	if _, err := ir.Visit[struct{}](v, n); err != nil {
		v.report(ErrUnsupportedNode, "%v", err)
	}
}

func (v validator) expr(e ir.Expr) {
	if _, err := ir.VisitExpr[struct{}](v, e); err != nil {
		v.report(ErrUnsupportedNode, "%v", err)
	}
}

func (v validator) name(field, name string) {
	if strings.TrimSpace(name) == "" {
		v.at("." + field).report(ErrEmptyIdentifier, "name must be non-empty")
	}
}

func (v validator) VisitScript(s *ir.Script) (struct{}, error) {
	if v.depth > 0 {
		v.report(ErrNestedDefinition, "script may only appear at the root")
		return struct{}{}, nil
	}
	seen := make(map[string]bool)
	for i, child := range s.Body {
		cv := v.at(fmt.Sprintf(".body[%d]", i))
		cv.depth = 1
		fd, ok := child.(*ir.FunDef)
		if !ok || fd == nil {
			cv.report(ErrNotFunDef, "expected function definition, got %s", layerName(child))
			if child != nil {
				cv.node(child)
			}
			continue
		}
		if fd.Name != "" && seen[fd.Name] {
			cv.at(".name").report(ErrDuplicateFunction, "duplicate function name %q", fd.Name)
		}
		seen[fd.Name] = true
		cv.node(fd)
	}
	return struct{}{}, nil
}

func (v validator) VisitFunDef(f *ir.FunDef) (struct{}, error) {
	if v.depth > 1 {
		v.report(ErrNestedDefinition, "function %q is nested inside a body", f.Name)
	}
	v.name("name", f.Name)

	params := make(map[string]bool)
	for i, p := range f.Params {
		pv := v.at(fmt.Sprintf(".params[%d]", i))
		pv.name("name", p.Name)
		if p.Name != "" && params[p.Name] {
			pv.report(ErrDuplicateParam, "duplicate parameter %q", p.Name)
		}
		params[p.Name] = true
	}
	if f.FunType != nil && len(f.FunType.Params) != len(f.Params) {
		v.at(".fun_type").report(ErrFunTypeArity, "function type has %d parameters, definition has %d",
			len(f.FunType.Params), len(f.Params))
	}

	bv := v.at(".body")
	bv.depth = v.depth + 1
	if f.Body == nil {
		bv.report(ErrUnsupportedNode, "function body is missing")
		return struct{}{}, nil
	}
	bv.node(f.Body)
	return struct{}{}, nil
}

func (v validator) VisitVarDef(d *ir.VarDef) (struct{}, error) {
	v.name("name", d.Name)
	v.at(".value").expr(d.Value)
	return struct{}{}, nil
}

func (v validator) VisitReturnStmt(r *ir.ReturnStmt) (struct{}, error) {
	if r.Value == nil {
		v.report(ErrBareReturn, "return without a value cannot be lowered")
		return struct{}{}, nil
	}
	v.at(".value").expr(r.Value)
	return struct{}{}, nil
}

func (v validator) VisitBlockStmt(b *ir.BlockStmt) (struct{}, error) {
	for i, child := range b.Body {
		cv := v.at(fmt.Sprintf(".body[%d]", i))
		cv.depth = v.depth + 1
		cv.node(child)
	}
	return struct{}{}, nil
}

func (v validator) VisitIfStmt(s *ir.IfStmt) (struct{}, error) {
	v.at(".cond").expr(s.Cond)
	if v.opts.IfBranch == lower.IfBranchElse {
		// Lowering never reads the then arm, so only the warning applies.
		v.at(".then").report(WarnThenDiscarded, "then arm is not lowered; both branches use the else arm")
	} else {
		tv := v.at(".then")
		tv.depth = v.depth + 1
		tv.node(s.Then)
	}
	ev := v.at(".else")
	ev.depth = v.depth + 1
	ev.node(s.Else)
	return struct{}{}, nil
}

func (v validator) VisitExprStmt(s *ir.ExprStmt) (struct{}, error) {
	v.at(".expr").expr(s.Expr)
	return struct{}{}, nil
}

func (v validator) VisitLiteral(lit ir.Literal) (struct{}, error) {
	f, ok := lit.(ir.Float64Lit)
	if !ok || v.opts.Floats == lower.FloatsText {
		return struct{}{}, nil
	}
	x := float64(f)
	if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
		v.report(ErrNonIntegralFloat, "float %s has no integer equivalent", ir.FormatFloat(x))
	}
	return struct{}{}, nil
}

func (v validator) VisitIdent(id *ir.Ident) (struct{}, error) {
	v.name("name", id.Name)
	return struct{}{}, nil
}

func (v validator) VisitBinary(b *ir.BinaryExpr) (struct{}, error) {
	if _, ok := lower.TargetOp(b.Op); !ok {
		v.report(ErrUnknownOperator, "operator %s has no target equivalent", b.Op)
	}
	if b.Op == ir.OpLt {
		v.report(WarnLtCollapsed, "< is lowered as <=")
	}
	v.at(".left").expr(b.Left)
	v.at(".right").expr(b.Right)
	return struct{}{}, nil
}

func (v validator) VisitApply(a *ir.Apply) (struct{}, error) {
	v.name("name", a.Name)
	v.report(ErrApplyUnsupported, "call to %q cannot be lowered", a.Name)
	for i, arg := range a.Args {
		v.at(fmt.Sprintf(".args[%d]", i)).expr(arg)
	}
	return struct{}{}, nil
}

func layerName(n ir.Node) string {
	if n == nil {
		return "nothing"
	}
	return fmt.Sprintf("%s (%T)", n.Layer(), n)
}
