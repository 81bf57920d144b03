package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/jutus/internal/testutil"
)

const maxScriptYAML = `kind: script
body:
  - kind: fun_def
    name: max
    params: [a, b]
    body:
      kind: block
      body:
        - kind: if
          cond: {kind: binary, op: gt_eq, left: {kind: ident, name: a}, right: {kind: ident, name: b}}
          then: {kind: return, value: {kind: ident, name: a}}
          else: {kind: return, value: {kind: ident, name: b}}
`

const topLevelVarJSON = `{"kind":"script","body":[{"kind":"var_def","name":"x","value":{"kind":"bigint","value":"1"}}]}`

const bareReturnJSON = `{"kind":"script","body":[{"kind":"fun_def","name":"f","params":[],"body":{"kind":"block","body":[{"kind":"return"}]}}]}`

// writeFile writes content to name inside a fresh temp dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func addScript(t *testing.T) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "add.json", testutil.AddScriptJSON)
}

// execute runs the root command and returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}
