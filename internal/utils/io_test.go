package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadPiped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in")
	if err := os.WriteFile(path, []byte("case:v1:aa:bb\n"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open file: %v", err)
	}
	defer f.Close()

	data, err := readPiped(f)
	if err != nil {
		t.Fatalf("readPiped failed: %v", err)
	}
	if string(data) != "case:v1:aa:bb\n" {
		t.Errorf("Unexpected data %q", data)
	}
}

func TestReadPiped_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open file: %v", err)
	}
	defer f.Close()

	if _, err := readPiped(f); err == nil {
		t.Error("Expected error for empty input")
	}
}
