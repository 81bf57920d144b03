package lower

import (
	"github.com/roach88/jutus/internal/ir"
	"github.com/roach88/jutus/internal/target"
)

// NewModule wraps definitions in a validator module with empty docs and no
// type information.
func NewModule(name string, defs []target.Definition) *target.Module {
	if defs == nil {
		defs = []target.Definition{}
	}
	return &target.Module{
		Name:        name,
		Docs:        []string{},
		TypeInfo:    nil,
		Definitions: defs,
		Kind:        target.KindValidator,
	}
}

// Assemble narrows a script fragment and wraps it with NewModule.
func Assemble(name string, f Fragment) (*target.Module, error) {
	defs, err := AsScript(f)
	if err != nil {
		return nil, err
	}
	return NewModule(name, defs), nil
}

// BuildModule lowers a script and assembles the result.
func BuildModule(name string, n ir.Node, opts Options) (*target.Module, error) {
	f, err := Lower(n, opts)
	if err != nil {
		return nil, err
	}
	return Assemble(name, f)
}
