package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "jutus", cmd.Use)
	assert.Contains(t, cmd.Long, "validator")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"lower", "check", "dump", "history", "test"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestLowerCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	lowerCmd, _, err := cmd.Find([]string{"lower"})
	require.NoError(t, err)

	for _, name := range []string{"if-branch", "floats", "lang", "output", "record", "db"} {
		assert.NotNil(t, lowerCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "o", lowerCmd.Flags().Lookup("output").Shorthand)
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "--format", "xml", "lower", "x.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "max.yaml", maxScriptYAML)
	cfg := writeFile(t, dir, "jutus.cue", `lowering: if_branch: "then"`)

	out, _, err := execute(t, "--config", cfg, "lower", script)
	require.NoError(t, err)
	assert.Contains(t, out, "if a >= b {\n    a\n  }")

	// Flags win over the config file.
	out, _, err = execute(t, "--config", cfg, "lower", "--if-branch", "else", script)
	require.NoError(t, err)
	assert.Contains(t, out, "if a >= b {\n    b\n  }")
}

func TestConfigFileInvalid(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "max.yaml", maxScriptYAML)
	cfg := writeFile(t, dir, "jutus.cue", `lowering: if_branch: "both"`)

	out, _, err := execute(t, "--config", cfg, "lower", script)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")

	_, _, err = execute(t, "--config", "missing.cue", "lower", script)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
