package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// Node kinds as they appear in the "kind" field of encoded documents.
const (
	KindScript   = "script"
	KindFunDef   = "fun_def"
	KindVarDef   = "var_def"
	KindReturn   = "return"
	KindBlock    = "block"
	KindIf       = "if"
	KindExprStmt = "expr_stmt"
	KindExpr     = "expr"
	KindParen    = "paren"

	KindBool    = "bool"
	KindFloat64 = "float64"
	KindBigInt  = "bigint"
	KindString  = "string"
	KindIdent   = "ident"
	KindBinary  = "binary"
	KindApply   = "apply"

	KindFun = "fun"
)

// MarshalNode encodes a node tree as tagged JSON. The encoding is lossless:
// floats travel as shortest round-trip strings (NaN and infinities included)
// and big integers as decimal strings.
func MarshalNode(n Node) ([]byte, error) {
	m, err := EncodeNode(n)
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// MarshalNodeIndent is MarshalNode with indentation, for dumps and fixtures.
func MarshalNodeIndent(n Node) ([]byte, error) {
	m, err := EncodeNode(n)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(m, "", "  ")
}

// MarshalExpr encodes an expression as tagged JSON.
func MarshalExpr(e Expr) ([]byte, error) {
	m, err := EncodeExpr(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// MarshalType encodes a type as JSON.
func MarshalType(t Type) ([]byte, error) {
	return json.Marshal(EncodeType(t))
}

// UnmarshalNode decodes tagged JSON produced by MarshalNode.
func UnmarshalNode(data []byte) (Node, error) {
	raw, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	return DecodeNode(raw)
}

// UnmarshalExpr decodes tagged JSON produced by MarshalExpr.
func UnmarshalExpr(data []byte) (Expr, error) {
	raw, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	return DecodeExpr(raw)
}

// UnmarshalType decodes JSON produced by MarshalType.
func UnmarshalType(data []byte) (Type, error) {
	raw, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	return DecodeType(raw)
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode IR json: %w", err)
	}
	return raw, nil
}

// EncodeNode converts a node tree to generic maps and slices. The result only
// holds strings, bools, slices and maps, so it is accepted by canonical.Marshal.
func EncodeNode(n Node) (map[string]any, error) {
	switch n := n.(type) {
	case nil:
		return nil, ErrNilNode
	case *Script:
		body, err := encodeNodes(n.Body)
		if err != nil {
			return nil, fmt.Errorf("script: %w", err)
		}
		return map[string]any{"kind": KindScript, "body": body}, nil
	case *FunDef:
		if n.Body == nil {
			return nil, fmt.Errorf("fun_def %q: body: %w", n.Name, ErrNilNode)
		}
		body, err := EncodeNode(n.Body)
		if err != nil {
			return nil, fmt.Errorf("fun_def %q: %w", n.Name, err)
		}
		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			params[i] = map[string]any{"name": p.Name, "type": EncodeType(p.TypeOf())}
		}
		return map[string]any{
			"kind":     KindFunDef,
			"name":     n.Name,
			"params":   params,
			"fun_type": EncodeType(n.TypeOf()),
			"body":     body,
		}, nil
	case *VarDef:
		value, err := EncodeExpr(n.Value)
		if err != nil {
			return nil, fmt.Errorf("var_def %q: %w", n.Name, err)
		}
		return map[string]any{
			"kind":    KindVarDef,
			"name":    n.Name,
			"type":    EncodeType(n.TypeOf()),
			"mutable": n.Mutable,
			"value":   value,
		}, nil
	case *ReturnStmt:
		m := map[string]any{"kind": KindReturn}
		if n.Value != nil {
			value, err := EncodeExpr(n.Value)
			if err != nil {
				return nil, fmt.Errorf("return: %w", err)
			}
			m["value"] = value
		}
		return m, nil
	case *BlockStmt:
		body, err := encodeNodes(n.Body)
		if err != nil {
			return nil, fmt.Errorf("block: %w", err)
		}
		return map[string]any{"kind": KindBlock, "body": body}, nil
	case *IfStmt:
		cond, err := EncodeExpr(n.Cond)
		if err != nil {
			return nil, fmt.Errorf("if cond: %w", err)
		}
		then, err := EncodeNode(n.Then)
		if err != nil {
			return nil, fmt.Errorf("if then: %w", err)
		}
		els, err := EncodeNode(n.Else)
		if err != nil {
			return nil, fmt.Errorf("if else: %w", err)
		}
		return map[string]any{"kind": KindIf, "cond": cond, "then": then, "else": els}, nil
	case *ExprStmt:
		return encodeWrapped(KindExprStmt, n.Expr)
	case *ExprNode:
		return encodeWrapped(KindExpr, n.Expr)
	case *ParenExpr:
		return encodeWrapped(KindParen, n.Expr)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownNode, n)
	}
}

func encodeWrapped(kind string, e Expr) (map[string]any, error) {
	inner, err := EncodeExpr(e)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return map[string]any{"kind": kind, "expr": inner}, nil
}

func encodeNodes(nodes []Node) ([]any, error) {
	out := make([]any, len(nodes))
	for i, child := range nodes {
		m, err := EncodeNode(child)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = m
	}
	return out, nil
}

// EncodeExpr converts an expression to generic maps and slices.
func EncodeExpr(e Expr) (map[string]any, error) {
	switch e := e.(type) {
	case nil:
		return nil, ErrNilNode
	case BoolLit:
		return map[string]any{"kind": KindBool, "value": bool(e)}, nil
	case Float64Lit:
		return map[string]any{"kind": KindFloat64, "value": FormatFloat(float64(e))}, nil
	case BigIntLit:
		return map[string]any{"kind": KindBigInt, "value": e.Text()}, nil
	case StringLit:
		return map[string]any{"kind": KindString, "value": string(e)}, nil
	case *Ident:
		return map[string]any{"kind": KindIdent, "name": e.Name}, nil
	case *BinaryExpr:
		if !e.Op.Valid() {
			return nil, fmt.Errorf("binary: unknown operator %s", e.Op)
		}
		left, err := EncodeExpr(e.Left)
		if err != nil {
			return nil, fmt.Errorf("binary left: %w", err)
		}
		right, err := EncodeExpr(e.Right)
		if err != nil {
			return nil, fmt.Errorf("binary right: %w", err)
		}
		return map[string]any{"kind": KindBinary, "op": e.Op.String(), "left": left, "right": right}, nil
	case *Apply:
		args := make([]any, len(e.Args))
		for i, a := range e.Args {
			m, err := EncodeExpr(a)
			if err != nil {
				return nil, fmt.Errorf("apply %q args[%d]: %w", e.Name, i, err)
			}
			args[i] = m
		}
		return map[string]any{"kind": KindApply, "name": e.Name, "args": args}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownNode, e)
	}
}

// EncodeType converts a type to its generic form: scalar types become their
// keyword, function types an object. A nil type encodes as "unknown".
func EncodeType(t Type) any {
	switch t := t.(type) {
	case nil:
		return UnknownType{}.String()
	case *FunType:
		params := make([]any, len(t.Params))
		for i, p := range t.Params {
			params[i] = EncodeType(p)
		}
		return map[string]any{"kind": KindFun, "params": params, "ret": EncodeType(t.Ret)}
	default:
		return t.String()
	}
}

// FormatFloat renders f as the shortest decimal that parses back to f.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// DecodeNode converts a generic document (as produced by encoding/json or
// yaml.v3) into a node tree.
func DecodeNode(raw any) (Node, error) {
	m, kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindScript:
		body, err := decodeNodes(m["body"])
		if err != nil {
			return nil, fmt.Errorf("script.body%w", err)
		}
		return &Script{Body: body}, nil
	case KindFunDef:
		return decodeFunDef(m)
	case KindVarDef:
		name, err := stringField(m, "name")
		if err != nil {
			return nil, fmt.Errorf("var_def: %w", err)
		}
		t, err := optionalType(m, "type")
		if err != nil {
			return nil, fmt.Errorf("var_def %q: %w", name, err)
		}
		mutable, _ := m["mutable"].(bool)
		value, err := DecodeExpr(m["value"])
		if err != nil {
			return nil, fmt.Errorf("var_def %q value: %w", name, err)
		}
		return &VarDef{Name: name, Type: t, Mutable: mutable, Value: value}, nil
	case KindReturn:
		rv, ok := m["value"]
		if !ok || rv == nil {
			return &ReturnStmt{}, nil
		}
		value, err := DecodeExpr(rv)
		if err != nil {
			return nil, fmt.Errorf("return value: %w", err)
		}
		return &ReturnStmt{Value: value}, nil
	case KindBlock:
		body, err := decodeNodes(m["body"])
		if err != nil {
			return nil, fmt.Errorf("block.body%w", err)
		}
		return &BlockStmt{Body: body}, nil
	case KindIf:
		cond, err := DecodeExpr(m["cond"])
		if err != nil {
			return nil, fmt.Errorf("if cond: %w", err)
		}
		then, err := DecodeNode(m["then"])
		if err != nil {
			return nil, fmt.Errorf("if then: %w", err)
		}
		els, err := DecodeNode(m["else"])
		if err != nil {
			return nil, fmt.Errorf("if else: %w", err)
		}
		return &IfStmt{Cond: cond, Then: then, Else: els}, nil
	case KindExprStmt, KindExpr, KindParen:
		e, err := DecodeExpr(m["expr"])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		switch kind {
		case KindExprStmt:
			return &ExprStmt{Expr: e}, nil
		case KindExpr:
			return &ExprNode{Expr: e}, nil
		default:
			return &ParenExpr{Expr: e}, nil
		}
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrUnknownNode, kind)
	}
}

func decodeFunDef(m map[string]any) (*FunDef, error) {
	name, err := stringField(m, "name")
	if err != nil {
		return nil, fmt.Errorf("fun_def: %w", err)
	}

	rawParams, _ := m["params"].([]any)
	params := make([]NameType, len(rawParams))
	for i, rp := range rawParams {
		switch p := rp.(type) {
		case string:
			params[i] = NameType{Name: p, Type: UnknownType{}}
		case map[string]any:
			pname, err := stringField(p, "name")
			if err != nil {
				return nil, fmt.Errorf("fun_def %q params[%d]: %w", name, i, err)
			}
			t, err := optionalType(p, "type")
			if err != nil {
				return nil, fmt.Errorf("fun_def %q params[%d]: %w", name, i, err)
			}
			params[i] = NameType{Name: pname, Type: t}
		default:
			return nil, fmt.Errorf("fun_def %q params[%d]: expected name or object, got %T", name, i, rp)
		}
	}

	var funType *FunType
	if rawFT, ok := m["fun_type"]; ok && rawFT != nil {
		t, err := DecodeType(rawFT)
		if err != nil {
			return nil, fmt.Errorf("fun_def %q fun_type: %w", name, err)
		}
		ft, ok := t.(*FunType)
		if !ok {
			return nil, fmt.Errorf("fun_def %q fun_type: expected function type, got %s", name, t)
		}
		funType = ft
	} else {
		funType = DeriveFunType(params, nil)
	}

	bodyNode, err := DecodeNode(m["body"])
	if err != nil {
		return nil, fmt.Errorf("fun_def %q body: %w", name, err)
	}
	body, ok := bodyNode.(*BlockStmt)
	if !ok {
		return nil, fmt.Errorf("fun_def %q body: expected block, got %T", name, bodyNode)
	}

	return &FunDef{Name: name, Params: params, FunType: funType, Body: body}, nil
}

func decodeNodes(raw any) ([]Node, error) {
	if raw == nil {
		return []Node{}, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf(": expected list, got %T", raw)
	}
	nodes := make([]Node, len(items))
	for i, item := range items {
		n, err := DecodeNode(item)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		nodes[i] = n
	}
	return nodes, nil
}

// DecodeExpr converts a generic document into an expression.
func DecodeExpr(raw any) (Expr, error) {
	m, kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindBool:
		b, ok := m["value"].(bool)
		if !ok {
			return nil, fmt.Errorf("bool: value must be true or false, got %T", m["value"])
		}
		return BoolLit(b), nil
	case KindFloat64:
		f, err := floatValue(m["value"])
		if err != nil {
			return nil, fmt.Errorf("float64: %w", err)
		}
		return Float64Lit(f), nil
	case KindBigInt:
		b, err := bigIntValue(m["value"])
		if err != nil {
			return nil, fmt.Errorf("bigint: %w", err)
		}
		return b, nil
	case KindString:
		s, ok := m["value"].(string)
		if !ok {
			return nil, fmt.Errorf("string: value must be a string, got %T", m["value"])
		}
		return StringLit(s), nil
	case KindIdent:
		name, err := stringField(m, "name")
		if err != nil {
			return nil, fmt.Errorf("ident: %w", err)
		}
		return &Ident{Name: name}, nil
	case KindBinary:
		opName, err := stringField(m, "op")
		if err != nil {
			return nil, fmt.Errorf("binary: %w", err)
		}
		op, err := ParseBinOp(opName)
		if err != nil {
			return nil, err
		}
		left, err := DecodeExpr(m["left"])
		if err != nil {
			return nil, fmt.Errorf("binary %s left: %w", op, err)
		}
		right, err := DecodeExpr(m["right"])
		if err != nil {
			return nil, fmt.Errorf("binary %s right: %w", op, err)
		}
		return &BinaryExpr{Op: op, Left: left, Right: right}, nil
	case KindApply:
		name, err := stringField(m, "name")
		if err != nil {
			return nil, fmt.Errorf("apply: %w", err)
		}
		rawArgs, _ := m["args"].([]any)
		args := make([]Expr, len(rawArgs))
		for i, ra := range rawArgs {
			a, err := DecodeExpr(ra)
			if err != nil {
				return nil, fmt.Errorf("apply %q args[%d]: %w", name, i, err)
			}
			args[i] = a
		}
		return &Apply{Name: name, Args: args}, nil
	default:
		return nil, fmt.Errorf("%w: expression kind %q", ErrUnknownNode, kind)
	}
}

// DecodeType converts a type keyword or function type object into a Type.
func DecodeType(raw any) (Type, error) {
	switch v := raw.(type) {
	case nil:
		return UnknownType{}, nil
	case string:
		t, ok := TypeFromName(v)
		if !ok {
			return nil, fmt.Errorf("unknown type %q", v)
		}
		return t, nil
	case map[string]any:
		kind, _ := v["kind"].(string)
		if kind != KindFun {
			return DecodeType(kind)
		}
		rawParams, _ := v["params"].([]any)
		params := make([]Type, len(rawParams))
		for i, rp := range rawParams {
			t, err := DecodeType(rp)
			if err != nil {
				return nil, fmt.Errorf("fun params[%d]: %w", i, err)
			}
			params[i] = t
		}
		ret, err := DecodeType(v["ret"])
		if err != nil {
			return nil, fmt.Errorf("fun ret: %w", err)
		}
		return &FunType{Params: params, Ret: ret}, nil
	default:
		return nil, fmt.Errorf("type must be a keyword or object, got %T", raw)
	}
}

func kindOf(raw any) (map[string]any, string, error) {
	if raw == nil {
		return nil, "", ErrNilNode
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, "", fmt.Errorf("expected object, got %T", raw)
	}
	kind, ok := m["kind"].(string)
	if !ok || kind == "" {
		return nil, "", fmt.Errorf("missing \"kind\" field")
	}
	return m, kind, nil
}

func stringField(m map[string]any, key string) (string, error) {
	s, ok := m[key].(string)
	if !ok {
		return "", fmt.Errorf("field %q must be a string, got %T", key, m[key])
	}
	return s, nil
}

func optionalType(m map[string]any, key string) (Type, error) {
	raw, ok := m[key]
	if !ok {
		return UnknownType{}, nil
	}
	return DecodeType(raw)
}

func floatValue(raw any) (float64, error) {
	switch v := raw.(type) {
	case string:
		return parseFloatText(v)
	case json.Number:
		return parseFloatText(v.String())
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("value must be a number or string, got %T", raw)
	}
}

// parseFloatText reads a decimal float; values out of range saturate to
// ±Inf or zero rather than failing.
func parseFloatText(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !isRangeErr(err) {
		return 0, fmt.Errorf("invalid float %q", s)
	}
	return f, nil
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// maxExactFloatInt is 2^53, the largest magnitude below which every integer
// is representable as a float64.
const maxExactFloatInt = 1 << 53

func bigIntValue(raw any) (BigIntLit, error) {
	switch v := raw.(type) {
	case string:
		return ParseBigInt(v)
	case json.Number:
		return ParseBigInt(v.String())
	case int:
		return NewBigInt(int64(v)), nil
	case int64:
		return NewBigInt(v), nil
	case uint64:
		return BigIntLit{Value: new(big.Int).SetUint64(v)}, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return BigIntLit{}, fmt.Errorf("value %v is not an integer", v)
		}
		if math.Abs(v) > maxExactFloatInt {
			return BigIntLit{}, fmt.Errorf("value %v is too large to be exact as a number; write it as a string", v)
		}
		i, _ := big.NewFloat(v).Int(nil)
		return BigIntLit{Value: i}, nil
	default:
		return BigIntLit{}, fmt.Errorf("value must be an integer or string, got %T", raw)
	}
}
