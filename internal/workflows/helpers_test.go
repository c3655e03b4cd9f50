package workflows

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/caselock/internal/configs"
	"github.com/PolarWolf314/caselock/internal/securestore"
)

// newTestEnv builds an Env rooted in a temp dir with an in-memory store.
func newTestEnv(t *testing.T) *Env {
	t.Helper()

	dir := t.TempDir()
	settings := &configs.Settings{
		ConfigDir: filepath.Join(dir, "config"),
		DataDir:   filepath.Join(dir, "data"),
	}
	env, err := NewEnv(settings, EnvOptions{Store: securestore.NewMemoryStore()})
	if err != nil {
		t.Fatalf("Failed to create env: %v", err)
	}
	return env
}

// exportBundle returns env's bundle JSON with the given label.
func exportBundle(t *testing.T, env *Env, label string) string {
	t.Helper()

	result, err := ExportBundle(context.Background(), env, ExportOptions{Label: label})
	if err != nil {
		t.Fatalf("ExportBundle failed: %v", err)
	}
	return result.Bundle
}
