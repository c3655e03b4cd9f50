package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/caselock/internal/configs"
)

// useDevice points the CLI at a per-device config and data directory under
// root, using the file store backend so tests never touch a system keyring.
func useDevice(t *testing.T, root, name string) {
	t.Helper()

	settings := &configs.Settings{
		ConfigDir: filepath.Join(root, name, "config"),
		DataDir:   filepath.Join(root, name, "data"),
	}
	t.Setenv(configs.EnvConfigDir, settings.ConfigDir)
	t.Setenv(configs.EnvDataDir, settings.DataDir)
	t.Setenv("NO_COLOR", "1")
	t.Setenv(caseKeyEnv, "")

	config := configs.DefaultConfig()
	config.Store.Backend = configs.BackendFile
	config.Device.Label = name
	if err := configs.SaveConfig(settings, config); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
}

// setupTestEnvironment creates a temp root with a single device selected.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	useDevice(t, root, "alice")
	return root
}

// runCLI executes the command tree with args and captures stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	ResetGlobalState()
	var stdout, stderr bytes.Buffer
	RootCmd.SetOut(&stdout)
	RootCmd.SetErr(&stderr)
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})

	err := RootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustRunCLI is runCLI that fails the test on error.
func mustRunCLI(t *testing.T, args ...string) string {
	t.Helper()

	stdout, stderr, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("caselock %s failed: %v\nstdout: %s\nstderr: %s", strings.Join(args, " "), err, stdout, stderr)
	}
	return stdout
}

// newCase runs `case new --json` and returns the case id and key.
func newCase(t *testing.T) (string, string) {
	t.Helper()

	var created struct {
		CaseID  string `json:"caseId"`
		CaseKey string `json:"caseKey"`
	}
	out := mustRunCLI(t, "case", "new", "--json")
	if err := json.Unmarshal([]byte(out), &created); err != nil {
		t.Fatalf("Failed to parse case new output %q: %v", out, err)
	}
	return created.CaseID, created.CaseKey
}
