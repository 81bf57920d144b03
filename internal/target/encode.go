package target

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/jutus/internal/canonical"
)

// Encode converts a module to generic maps and slices for JSON output and
// fingerprinting. Source spans are not encoded.
func Encode(m *Module) (map[string]any, error) {
	if m == nil {
		return nil, ErrNilNode
	}
	defs := make([]any, len(m.Definitions))
	for i, d := range m.Definitions {
		enc, err := VisitDefinition[any](encoder{}, d)
		if err != nil {
			return nil, fmt.Errorf("definitions[%d]: %w", i, err)
		}
		defs[i] = enc
	}
	docs := m.Docs
	if docs == nil {
		docs = []string{}
	}
	return map[string]any{
		"name":        m.Name,
		"kind":        m.Kind.String(),
		"docs":        docs,
		"definitions": defs,
	}, nil
}

// EncodeExpr converts a single expression to generic form.
func EncodeExpr(e Expr) (any, error) {
	return VisitExpr[any](encoder{}, e)
}

// MarshalModule encodes a module as indented JSON.
func MarshalModule(m *Module) ([]byte, error) {
	enc, err := Encode(m)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(enc, "", "  ")
}

// Fingerprint computes a content hash of a module.
func Fingerprint(m *Module) (string, error) {
	enc, err := Encode(m)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return canonical.Hash(canonical.DomainModule, enc)
}

type encoder struct{}

func (e encoder) expr(x Expr) (any, error) {
	return VisitExpr[any](e, x)
}

func withAnnotation(m map[string]any, key string, a *Annotation) map[string]any {
	if a != nil {
		m[key] = a.Name
	}
	return m
}

func (e encoder) VisitVar(v *Var) (any, error) {
	return map[string]any{"kind": "var", "name": v.Name}, nil
}

func (e encoder) VisitInt(i *Int) (any, error) {
	return map[string]any{"kind": "int", "value": i.Value}, nil
}

func (e encoder) VisitString(s *String) (any, error) {
	return map[string]any{"kind": "string", "value": s.Value}, nil
}

func (e encoder) VisitBinOp(b *BinOp) (any, error) {
	left, err := e.expr(b.Left)
	if err != nil {
		return nil, fmt.Errorf("bin_op left: %w", err)
	}
	right, err := e.expr(b.Right)
	if err != nil {
		return nil, fmt.Errorf("bin_op right: %w", err)
	}
	return map[string]any{"kind": "bin_op", "name": b.Name.String(), "left": left, "right": right}, nil
}

func (e encoder) VisitSequence(s *Sequence) (any, error) {
	exprs := make([]any, len(s.Expressions))
	for i, x := range s.Expressions {
		enc, err := e.expr(x)
		if err != nil {
			return nil, fmt.Errorf("sequence[%d]: %w", i, err)
		}
		exprs[i] = enc
	}
	return map[string]any{"kind": "sequence", "expressions": exprs}, nil
}

func (e encoder) VisitAssignment(a *Assignment) (any, error) {
	value, err := e.expr(a.Value)
	if err != nil {
		return nil, fmt.Errorf("assignment %q: %w", a.Pattern.Name, err)
	}
	return withAnnotation(map[string]any{
		"kind":        "assignment",
		"assign_kind": a.Kind.String(),
		"pattern":     map[string]any{"kind": "var", "name": a.Pattern.Name},
		"value":       value,
	}, "annotation", a.Annotation), nil
}

func (e encoder) VisitIf(i *If) (any, error) {
	branches := make([]any, len(i.Branches))
	for n, br := range i.Branches {
		cond, err := e.expr(br.Condition)
		if err != nil {
			return nil, fmt.Errorf("if branches[%d] condition: %w", n, err)
		}
		body, err := e.expr(br.Body)
		if err != nil {
			return nil, fmt.Errorf("if branches[%d] body: %w", n, err)
		}
		branches[n] = map[string]any{"condition": cond, "body": body}
	}
	final, err := e.expr(i.FinalElse)
	if err != nil {
		return nil, fmt.Errorf("if final_else: %w", err)
	}
	return map[string]any{"kind": "if", "branches": branches, "final_else": final}, nil
}

func (e encoder) VisitFunction(f *Function) (any, error) {
	args := make([]any, len(f.Arguments))
	for i, a := range f.Arguments {
		args[i] = withAnnotation(map[string]any{"name": a.ArgName.Name}, "annotation", a.Annotation)
	}
	body, err := e.expr(f.Body)
	if err != nil {
		return nil, fmt.Errorf("fn %q body: %w", f.Name, err)
	}
	return withAnnotation(map[string]any{
		"kind":      "fn",
		"name":      f.Name,
		"public":    f.Public,
		"doc":       f.Doc,
		"arguments": args,
		"body":      body,
	}, "return_annotation", f.ReturnAnnotation), nil
}
