package target

import (
	"fmt"
	"strings"
)

// Format renders a module as backend source text. Definitions are separated
// by a blank line and the output ends with a newline.
func Format(m *Module) (string, error) {
	if m == nil {
		return "", ErrNilNode
	}
	defs := make([]string, len(m.Definitions))
	for i, d := range m.Definitions {
		s, err := FormatDefinition(d)
		if err != nil {
			return "", fmt.Errorf("definition %d: %w", i, err)
		}
		defs[i] = s
	}
	var b strings.Builder
	for _, doc := range m.Docs {
		b.WriteString("//// " + doc + "\n")
	}
	if len(m.Docs) > 0 && len(defs) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(strings.Join(defs, "\n\n"))
	if len(defs) > 0 {
		b.WriteString("\n")
	}
	return b.String(), nil
}

// FormatDefinition renders a single definition.
func FormatDefinition(d Definition) (string, error) {
	return VisitDefinition[string](formatter{}, d)
}

// FormatExpr renders a single expression.
func FormatExpr(e Expr) (string, error) {
	return VisitExpr[string](formatter{}, e)
}

// formatter renders nodes without leading indentation; nested blocks are
// indented by the caller.
type formatter struct{}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "  " + l
		}
	}
	return strings.Join(lines, "\n")
}

func annotation(a *Annotation) string {
	if a == nil {
		return ""
	}
	return ": " + a.Name
}

// block renders the body of a braced construct: a sequence is spread one
// expression per line, anything else is a single line.
func (f formatter) block(e Expr) (string, error) {
	seq, ok := e.(*Sequence)
	if !ok {
		return VisitExpr[string](f, e)
	}
	lines := make([]string, len(seq.Expressions))
	for i, x := range seq.Expressions {
		s, err := VisitExpr[string](f, x)
		if err != nil {
			return "", err
		}
		lines[i] = s
	}
	return strings.Join(lines, "\n"), nil
}

func (f formatter) braced(head string, body Expr) (string, error) {
	inner, err := f.block(body)
	if err != nil {
		return "", err
	}
	if inner == "" {
		return head + " {}", nil
	}
	return head + " {\n" + indent(inner) + "\n}", nil
}

func (f formatter) VisitVar(v *Var) (string, error) {
	return v.Name, nil
}

func (f formatter) VisitInt(i *Int) (string, error) {
	return i.Value, nil
}

func (f formatter) VisitString(s *String) (string, error) {
	return `@"` + stringEscaper.Replace(s.Value) + `"`, nil
}

// stringEscaper escapes what the backend's string literal syntax requires;
// every other byte is written as is.
var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func (f formatter) operand(e Expr) (string, error) {
	s, err := VisitExpr[string](f, e)
	if err != nil {
		return "", err
	}
	switch e.(type) {
	case *BinOp:
		return "(" + s + ")", nil
	case *If, *Assignment:
		return "{\n" + indent(s) + "\n}", nil
	}
	return s, nil
}

func (f formatter) VisitBinOp(b *BinOp) (string, error) {
	left, err := f.operand(b.Left)
	if err != nil {
		return "", err
	}
	right, err := f.operand(b.Right)
	if err != nil {
		return "", err
	}
	return left + " " + b.Name.Symbol() + " " + right, nil
}

func (f formatter) VisitSequence(s *Sequence) (string, error) {
	switch len(s.Expressions) {
	case 0:
		return "{}", nil
	case 1:
		return VisitExpr[string](f, s.Expressions[0])
	}
	inner, err := f.block(s)
	if err != nil {
		return "", err
	}
	return "{\n" + indent(inner) + "\n}", nil
}

func (f formatter) VisitAssignment(a *Assignment) (string, error) {
	value, err := VisitExpr[string](f, a.Value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s%s = %s", a.Kind, a.Pattern.Name, annotation(a.Annotation), value), nil
}

func (f formatter) VisitIf(i *If) (string, error) {
	if len(i.Branches) == 0 {
		return "", fmt.Errorf("if without branches")
	}
	var parts []string
	for n, br := range i.Branches {
		cond, err := VisitExpr[string](f, br.Condition)
		if err != nil {
			return "", err
		}
		head := "if " + cond
		if n > 0 {
			head = "else " + head
		}
		s, err := f.braced(head, br.Body)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	s, err := f.braced("else", i.FinalElse)
	if err != nil {
		return "", err
	}
	parts = append(parts, s)
	return strings.Join(parts, " "), nil
}

func (f formatter) VisitFunction(fn *Function) (string, error) {
	args := make([]string, len(fn.Arguments))
	for i, a := range fn.Arguments {
		args[i] = a.ArgName.Name + annotation(a.Annotation)
	}
	head := fmt.Sprintf("fn %s(%s)", fn.Name, strings.Join(args, ", "))
	if fn.Public {
		head = "pub " + head
	}
	if fn.ReturnAnnotation != nil {
		head += " -> " + fn.ReturnAnnotation.Name
	}
	body, err := f.braced(head, fn.Body)
	if err != nil {
		return "", err
	}
	if fn.Doc == "" {
		return body, nil
	}
	var doc strings.Builder
	for _, l := range strings.Split(fn.Doc, "\n") {
		doc.WriteString("/// " + l + "\n")
	}
	return doc.String() + body, nil
}
