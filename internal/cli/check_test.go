package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckClean(t *testing.T) {
	out, _, err := execute(t, "check", addScript(t))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ ")
}

func TestCheckWarningsOnly(t *testing.T) {
	script := writeFile(t, t.TempDir(), "max.yaml", maxScriptYAML)

	out, _, err := execute(t, "check", script)
	require.NoError(t, err)
	assert.Contains(t, out, "[W201]")

	out, _, err = execute(t, "check", "--if-branch", "then", script)
	require.NoError(t, err)
	assert.NotContains(t, out, "W201")
}

func TestCheckErrors(t *testing.T) {
	script := writeFile(t, t.TempDir(), "bare.json", bareReturnJSON)

	out, _, err := execute(t, "check", script)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ ")
	assert.Contains(t, out, "[E105] $.body[0].body.body[0]")
}

func TestCheckJSON(t *testing.T) {
	script := writeFile(t, t.TempDir(), "bare.json", bareReturnJSON)

	out, _, err := execute(t, "--format", "json", "check", script)
	require.Error(t, err)
	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeInvalidIR, resp.Error.Code)

	out, _, err = execute(t, "--format", "json", "check", addScript(t))
	require.NoError(t, err)
	resp = decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]any)
	assert.Empty(t, data["diagnostics"])
}

func TestCheckParseFailure(t *testing.T) {
	script := writeFile(t, t.TempDir(), "bad.yaml", "kind: [")
	out, _, err := execute(t, "check", script)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E011]")
}
