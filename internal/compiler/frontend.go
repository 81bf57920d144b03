package compiler

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/roach88/jutus/internal/ir"
	"github.com/roach88/jutus/internal/target"
)

//go:generate mockgen -destination=mocks_test.go -package=compiler . Frontend,Backend

// Frontend turns source text into an IR tree. It covers both parsing and the
// source-to-IR pass of a language.
type Frontend interface {
	Parse(ctx context.Context, src Source) (ir.Node, error)
}

// Backend consumes an assembled module, e.g. type checking and code
// generation. A nil Backend skips the stage.
type Backend interface {
	Check(ctx context.Context, m *target.Module) error
}

// FrontendFunc adapts a function to Frontend.
type FrontendFunc func(ctx context.Context, src Source) (ir.Node, error)

// Parse calls f.
func (f FrontendFunc) Parse(ctx context.Context, src Source) (ir.Node, error) {
	return f(ctx, src)
}

// IRDocumentFrontend reads IR documents. The format is taken from
// Extra["format"] ("json" or "yaml"), then from the file extension, and
// otherwise JSON is assumed when the text starts with '{'.
type IRDocumentFrontend struct{}

// Parse decodes src.Code as an IR document.
func (IRDocumentFrontend) Parse(ctx context.Context, src Source) (ir.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if documentFormat(src) == "json" {
		return ir.UnmarshalNode([]byte(src.Code))
	}
	return ir.UnmarshalYAML([]byte(src.Code))
}

func documentFormat(src Source) string {
	if f := strings.ToLower(src.Extra["format"]); f == "json" || f == "yaml" {
		return f
	}
	switch strings.ToLower(filepath.Ext(src.ScriptPath)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}
	if strings.HasPrefix(strings.TrimSpace(src.Code), "{") {
		return "json"
	}
	return "yaml"
}
