package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jutus/internal/lower"
)

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse("jutus.cue", nil)
	require.NoError(t, err)
	assert.Equal(t, lower.DefaultOptions(), cfg.Lowering)
	assert.Equal(t, DefaultStorePath, cfg.StorePath)
	assert.Equal(t, "jutus.cue", cfg.File)
}

func TestParseFull(t *testing.T) {
	src := `
lowering: {
	if_branch: "then"
	floats:    "text"
}
store: path: "/tmp/runs.db"
`
	cfg, err := Parse("jutus.cue", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, lower.IfBranchThen, cfg.Lowering.IfBranch)
	assert.Equal(t, lower.FloatsText, cfg.Lowering.Floats)
	assert.Equal(t, "/tmp/runs.db", cfg.StorePath)
}

func TestParsePartial(t *testing.T) {
	cfg, err := Parse("jutus.cue", []byte(`lowering: floats: "text"`))
	require.NoError(t, err)
	assert.Equal(t, lower.IfBranchElse, cfg.Lowering.IfBranch)
	assert.Equal(t, lower.FloatsText, cfg.Lowering.Floats)
	assert.Equal(t, DefaultStorePath, cfg.StorePath)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad if branch", `lowering: if_branch: "both"`},
		{"bad float policy", `lowering: floats: "round"`},
		{"unknown key", `lowering: strict: true`},
		{"unknown section", `backend: name: "aiken"`},
		{"empty store path", `store: path: ""`},
		{"wrong type", `lowering: if_branch: 1`},
		{"syntax", `lowering: {`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("jutus.cue", []byte(tt.src))
			require.Error(t, err)

			var cfgErr *Error
			require.True(t, errors.As(err, &cfgErr), "got %T: %v", err, err)
			assert.NotEmpty(t, cfgErr.Message)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse("jutus.cue", []byte("lowering: {\n\tif_branch: \"both\"\n}\n"))

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	require.True(t, cfgErr.Pos.IsValid())
	assert.Contains(t, err.Error(), "jutus.cue:")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jutus.cue")
	require.NoError(t, os.WriteFile(path, []byte(`lowering: if_branch: "then"`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, lower.IfBranchThen, cfg.Lowering.IfBranch)
	assert.Equal(t, path, cfg.File)

	_, err = Load(filepath.Join(dir, "missing.cue"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOptional(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "missing.cue"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestErrorString(t *testing.T) {
	e := &Error{Field: "lowering.floats", Message: "bad value"}
	assert.Equal(t, "lowering.floats: bad value", e.Error())
}
