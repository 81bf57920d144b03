package ir

import (
	"fmt"
	"strings"
)

// Type is a sealed interface over the static types that can be attached to
// IR bindings. Types are carried through lowering but not checked here.
type Type interface {
	irType()
	String() string
}

// UnitType is the type of statements with no value.
type UnitType struct{}

// BooleanType is the type of true/false.
type BooleanType struct{}

// Float64Type is the type of 64-bit float literals.
type Float64Type struct{}

// BigIntType is the type of arbitrary-precision integers.
type BigIntType struct{}

// StringType is the type of text strings.
type StringType struct{}

// UnknownType marks a binding whose type could not be determined upstream.
type UnknownType struct{}

// FunType is a function type: ordered parameter types and a return type.
type FunType struct {
	Params []Type
	Ret    Type
}

func (UnitType) irType()    {}
func (BooleanType) irType() {}
func (Float64Type) irType() {}
func (BigIntType) irType()  {}
func (StringType) irType()  {}
func (UnknownType) irType() {}
func (*FunType) irType()    {}

func (UnitType) String() string    { return "unit" }
func (BooleanType) String() string { return "bool" }
func (Float64Type) String() string { return "float64" }
func (BigIntType) String() string  { return "bigint" }
func (StringType) String() string  { return "string" }
func (UnknownType) String() string { return "unknown" }

func (f *FunType) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = typeString(p)
	}
	return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), typeString(f.Ret))
}

func typeString(t Type) string {
	if t == nil {
		return UnknownType{}.String()
	}
	return t.String()
}

// Typed is implemented by every entity that carries a static type.
type Typed interface {
	TypeOf() Type
}

// NameType pairs an identifier with its declared type.
type NameType struct {
	Name string
	Type Type
}

// TypeOf returns the declared type, or UnknownType when none was recorded.
func (n NameType) TypeOf() Type {
	if n.Type == nil {
		return UnknownType{}
	}
	return n.Type
}

// DeriveFunType builds a function type from parameters and a return type.
// A nil return type becomes UnknownType.
func DeriveFunType(params []NameType, ret Type) *FunType {
	ps := make([]Type, len(params))
	for i, p := range params {
		ps[i] = p.TypeOf()
	}
	if ret == nil {
		ret = UnknownType{}
	}
	return &FunType{Params: ps, Ret: ret}
}

// TypeFromName maps a type keyword to its Type. The boolean is false for
// unrecognized names.
func TypeFromName(name string) (Type, bool) {
	switch name {
	case "unit":
		return UnitType{}, true
	case "bool", "boolean":
		return BooleanType{}, true
	case "float64":
		return Float64Type{}, true
	case "bigint", "big_int":
		return BigIntType{}, true
	case "string":
		return StringType{}, true
	case "unknown":
		return UnknownType{}, true
	}
	return nil, false
}
