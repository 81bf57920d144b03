package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// okTranslation creates a successful translation with minimal fields.
func okTranslation(id, irHash, moduleHash string, seq int64) Translation {
	return Translation{
		ID:          id,
		ScriptName:  "add.js",
		ScriptPath:  "examples/add.js",
		Language:    "javascript",
		IRHash:      irHash,
		OptionsHash: "opts-default",
		ModuleHash:  moduleHash,
		ModuleJSON:  `{"name":"examples/add.js"}`,
		Status:      StatusOK,
		Seq:         seq,
	}
}
