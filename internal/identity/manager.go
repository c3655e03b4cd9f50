package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/curve25519"

	kerrors "github.com/PolarWolf314/caselock/internal/errors"
	"github.com/PolarWolf314/caselock/internal/secrets"
	"github.com/PolarWolf314/caselock/internal/securestore"
)

// Store keys under which device material is persisted.
const (
	DeviceIDKey   = "device_id"
	PrivateKeyKey = "device_private_key"
)

// Identity is the public half of a device identity.
type Identity struct {
	DeviceID  string
	PublicKey string
}

// Manager owns the device key pair. The identity is created on first use,
// cached for the life of the Manager and never rotated.
type Manager struct {
	store  securestore.Store
	random io.Reader

	// mu guards the check-then-create bootstrap and the cached fields below.
	mu         sync.Mutex
	loaded     bool
	identity   Identity
	privateKey []byte
}

// Option configures a Manager.
type Option func(*Manager)

// WithRandom replaces crypto/rand as the source for new identity material.
func WithRandom(r io.Reader) Option {
	return func(m *Manager) {
		m.random = r
	}
}

func NewManager(store securestore.Store, opts ...Option) *Manager {
	m := &Manager{store: store, random: rand.Reader}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetOrCreate returns the device identity, generating and persisting any
// missing part first. Concurrent callers block on the same bootstrap and all
// observe the identity it produced. Storage failures abort the call.
func (m *Manager) GetOrCreate(ctx context.Context) (Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.loadLocked(ctx); err != nil {
		return Identity{}, err
	}
	return m.identity, nil
}

// SharedSecret performs X25519 between the device private key and a peer
// public key. The result is the same from either side of the pair.
func (m *Manager) SharedSecret(ctx context.Context, peerPublicKey []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.loadLocked(ctx); err != nil {
		return nil, err
	}
	return X25519(m.privateKey, peerPublicKey)
}

func (m *Manager) loadLocked(ctx context.Context) error {
	if m.loaded {
		return nil
	}

	deviceID, err := m.getOrGenerate(ctx, DeviceIDKey, secrets.DeviceIDSize)
	if err != nil {
		return err
	}
	privateKeyHex, err := m.getOrGenerate(ctx, PrivateKeyKey, secrets.PrivateKeySize)
	if err != nil {
		return err
	}

	privateKey, err := secrets.ParsePrivateKey(privateKeyHex)
	if err != nil {
		return err
	}
	publicKey, err := PublicKey(privateKey)
	if err != nil {
		return err
	}

	m.identity = Identity{DeviceID: deviceID, PublicKey: hex.EncodeToString(publicKey)}
	m.privateKey = privateKey
	m.loaded = true
	return nil
}

func (m *Manager) getOrGenerate(ctx context.Context, key string, size int) (string, error) {
	value, ok, err := m.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w: %w", key, kerrors.ErrStorage, err)
	}
	if ok && value != "" {
		return value, nil
	}

	value, err = secrets.RandomHex(m.random, size)
	if err != nil {
		return "", fmt.Errorf("generating %s: %w", key, err)
	}
	if err := m.store.Set(ctx, key, value); err != nil {
		return "", fmt.Errorf("writing %s: %w: %w", key, kerrors.ErrStorage, err)
	}
	return value, nil
}

// PublicKey derives the X25519 public key for privateKey.
func PublicKey(privateKey []byte) ([]byte, error) {
	pub, err := curve25519.X25519(privateKey, curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidPrivateKey, err)
	}
	return pub, nil
}

// X25519 computes the shared secret between a private and a public key.
// Low-order public keys, which would yield an all-zero secret, are rejected.
func X25519(privateKey, peerPublicKey []byte) ([]byte, error) {
	if len(peerPublicKey) != secrets.PublicKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d bytes", kerrors.ErrInvalidPublicKey, secrets.PublicKeySize, len(peerPublicKey))
	}
	shared, err := curve25519.X25519(privateKey, peerPublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidPublicKey, err)
	}
	return shared, nil
}
