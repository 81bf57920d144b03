package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jutus/internal/ir"
)

func TestExampleScriptOrder(t *testing.T) {
	s := ExampleScript()
	var names []string
	for _, n := range s.Body {
		names = append(names, n.(*ir.FunDef).Name)
	}
	assert.Equal(t, []string{"add", "sub", "max", "TheTrue", "TheFalse"}, names)
}

func TestAddScriptJSONMatchesBuilder(t *testing.T) {
	decoded, err := ir.UnmarshalNode([]byte(AddScriptJSON))
	require.NoError(t, err)
	assert.Equal(t, ir.MustFingerprint(ir.NewScript(AddFunction())), ir.MustFingerprint(decoded))
}
