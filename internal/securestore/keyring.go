package securestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/99designs/keyring"
)

// KeyringStore keeps values in the platform credential store (macOS
// Keychain, Secret Service, KWallet, Windows Credential Manager, pass) or,
// failing those, keyring's passphrase-encrypted file backend.
type KeyringStore struct {
	// mu serializes access; not every keyring backend is goroutine safe.
	mu      sync.Mutex
	ring    keyring.Keyring
	service string
}

// KeyringOptions configures OpenKeyring.
type KeyringOptions struct {
	Service string
	// FileDir is used by the encrypted file backend.
	FileDir string
	// Prompt supplies the file backend passphrase.
	Prompt keyring.PromptFunc
	// Backends restricts the backends tried, in order. Empty means all.
	Backends []keyring.BackendType
}

func OpenKeyring(opts KeyringOptions) (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:                    opts.Service,
		AllowedBackends:                opts.Backends,
		KeychainName:                   "login",
		KeychainTrustApplication:       true,
		KeychainSynchronizable:         false,
		KeychainAccessibleWhenUnlocked: true,
		LibSecretCollectionName:        opts.Service,
		KWalletAppID:                   opts.Service,
		KWalletFolder:                  opts.Service,
		WinCredPrefix:                  opts.Service,
		PassPrefix:                     opts.Service,
		FileDir:                        opts.FileDir,
		FilePasswordFunc:               opts.Prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring for %s: %w", opts.Service, err)
	}
	return NewKeyringStore(ring, opts.Service), nil
}

// NewKeyringStore wraps an already opened keyring.
func NewKeyringStore(ring keyring.Keyring, service string) *KeyringStore {
	return &KeyringStore{ring: ring, service: service}
}

func (k *KeyringStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	item, err := k.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s from keyring: %w", key, err)
	}
	return string(item.Data), true, nil
}

func (k *KeyringStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	err := k.ring.Set(keyring.Item{
		Key:         key,
		Data:        []byte(value),
		Label:       k.service + " " + key,
		Description: "caselock device identity",
	})
	if err != nil {
		return fmt.Errorf("failed to write %s to keyring: %w", key, err)
	}
	return nil
}

func (k *KeyringStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	err := k.ring.Remove(key)
	// The file backend reports a missing item as a filesystem error.
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s from keyring: %w", key, err)
	}
	return nil
}

func (k *KeyringStore) Secure() bool {
	return true
}
