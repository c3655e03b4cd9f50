package securestore

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/PolarWolf314/caselock/internal/configs"
)

// FileStore persists values in a 0600 TOML file. Values are NOT encrypted at
// rest; it exists for hosts without a usable platform keyring.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type fileContents struct {
	Values map[string]string `toml:"values"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) load() (*fileContents, error) {
	contents := &fileContents{Values: make(map[string]string)}
	if _, err := os.Stat(f.path); os.IsNotExist(err) {
		return contents, nil
	}
	if err := configs.LoadTOML(f.path, contents); err != nil {
		return nil, fmt.Errorf("failed to read store %s: %w", f.path, err)
	}
	if contents.Values == nil {
		contents.Values = make(map[string]string)
	}
	return contents, nil
}

func (f *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	contents, err := f.load()
	if err != nil {
		return "", false, err
	}
	value, ok := contents.Values[key]
	return value, ok, nil
}

func (f *FileStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	contents, err := f.load()
	if err != nil {
		return err
	}
	contents.Values[key] = value
	if err := configs.SaveTOML(f.path, contents); err != nil {
		return fmt.Errorf("failed to write store %s: %w", f.path, err)
	}
	return nil
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	contents, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := contents.Values[key]; !ok {
		return nil
	}
	delete(contents.Values, key)
	if err := configs.SaveTOML(f.path, contents); err != nil {
		return fmt.Errorf("failed to write store %s: %w", f.path, err)
	}
	return nil
}

func (f *FileStore) Secure() bool {
	return false
}
