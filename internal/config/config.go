package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/jutus/internal/lower"
)

//go:embed schema.cue
var schemaSource string

// DefaultStorePath is used when no store path is configured.
const DefaultStorePath = ".jutus/jutus.db"

// Config is a loaded configuration.
type Config struct {
	Lowering  lower.Options
	StorePath string
	// File is the path the configuration was read from, empty for defaults.
	File string
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Lowering:  lower.DefaultOptions(),
		StorePath: DefaultStorePath,
	}
}

// Error is a configuration error with its CUE position when known.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads and parses the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(path, data)
}

// LoadOptional is Load, except that a missing file yields Default.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse checks data against the schema and extracts the configuration.
// filename is used in error positions.
func Parse(filename string, data []byte) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile config schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}

	v = schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Config{}, formatCUEError(err)
	}

	cfg := Default()
	cfg.File = filename

	if s, ok, err := lookupString(v, "lowering.if_branch"); err != nil {
		return Config{}, err
	} else if ok {
		b, err := lower.ParseIfBranch(s)
		if err != nil {
			return Config{}, fieldError(v, "lowering.if_branch", err)
		}
		cfg.Lowering.IfBranch = b
	}

	if s, ok, err := lookupString(v, "lowering.floats"); err != nil {
		return Config{}, err
	} else if ok {
		p, err := lower.ParseFloatPolicy(s)
		if err != nil {
			return Config{}, fieldError(v, "lowering.floats", err)
		}
		cfg.Lowering.Floats = p
	}

	if s, ok, err := lookupString(v, "store.path"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.StorePath = s
	}

	return cfg, nil
}

func lookupString(v cue.Value, path string) (string, bool, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() || !f.IsConcrete() {
		return "", false, nil
	}
	s, err := f.String()
	if err != nil {
		return "", false, formatCUEError(err)
	}
	return s, true, nil
}

func fieldError(v cue.Value, path string, err error) error {
	return &Error{
		Field:   path,
		Message: err.Error(),
		Pos:     v.LookupPath(cue.ParsePath(path)).Pos(),
	}
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	e := &Error{
		Field:   pathOf(first),
		Message: first.Error(),
	}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		e.Pos = positions[0]
	}
	return e
}

func pathOf(err cueerrors.Error) string {
	if p := err.Path(); len(p) > 0 {
		return strings.Join(p, ".")
	}
	return "cue"
}
