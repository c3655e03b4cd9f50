package wrap

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"

	kerrors "github.com/PolarWolf314/caselock/internal/errors"
	"github.com/PolarWolf314/caselock/internal/identity"
	"github.com/PolarWolf314/caselock/internal/secrets"
)

// KDFInfo binds derived wrapping keys to this use. HKDF runs without a salt.
const KDFInfo = "caselock/case-key-wrap/v1"

// createdAtLayout matches ISO-8601 with millisecond precision in UTC.
const createdAtLayout = "2006-01-02T15:04:05.000Z"

// LocalIdentity is the device identity used for key agreement.
// *identity.Manager implements it.
type LocalIdentity interface {
	GetOrCreate(ctx context.Context) (identity.Identity, error)
	SharedSecret(ctx context.Context, peerPublicKey []byte) ([]byte, error)
}

// Wrapper wraps and unwraps case keys between this device and one peer.
//
// Agreement is static-static: the wrapping key for a given pair of devices
// never changes. Compromise of either long-term private key exposes every
// case key ever wrapped between the pair.
type Wrapper struct {
	local  LocalIdentity
	random io.Reader
	now    func() time.Time
}

// Option configures a Wrapper.
type Option func(*Wrapper)

// WithRandom replaces crypto/rand as the nonce source.
func WithRandom(r io.Reader) Option {
	return func(w *Wrapper) {
		w.random = r
	}
}

// WithClock replaces time.Now for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(w *Wrapper) {
		w.now = now
	}
}

func NewWrapper(local LocalIdentity, opts ...Option) *Wrapper {
	w := &Wrapper{local: local, random: rand.Reader, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// DeriveWrappingKey expands an X25519 shared secret into a 32-byte key with
// HKDF-SHA256, no salt, and KDFInfo.
func DeriveWrappingKey(shared []byte) ([]byte, error) {
	key := make([]byte, secrets.CaseKeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, shared, nil, []byte(KDFInfo)), key); err != nil {
		return nil, fmt.Errorf("deriving wrapping key: %w", err)
	}
	return key, nil
}

// Wrap encrypts caseKeyHex for the device owning recipientPublicKeyHex.
func (w *Wrapper) Wrap(ctx context.Context, caseKeyHex, recipientPublicKeyHex string) (*CaseKeyEnvelope, error) {
	caseKey, err := secrets.ParseCaseKey(caseKeyHex)
	if err != nil {
		return nil, err
	}
	defer secrets.Zero(caseKey)

	recipient, err := secrets.ParsePublicKey(recipientPublicKeyHex)
	if err != nil {
		return nil, err
	}

	self, err := w.local.GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading device identity: %w", err)
	}

	wrappingKey, err := w.wrappingKey(ctx, recipient)
	if err != nil {
		return nil, err
	}
	defer secrets.Zero(wrappingKey)

	nonce, ciphertext, err := secrets.SealWithRandom(w.random, wrappingKey, caseKey)
	if err != nil {
		return nil, err
	}

	return &CaseKeyEnvelope{
		Version:            Version1,
		SenderDeviceID:     self.DeviceID,
		SenderPublicKey:    self.PublicKey,
		RecipientPublicKey: hex.EncodeToString(recipient),
		Nonce:              hex.EncodeToString(nonce),
		Cipher:             hex.EncodeToString(ciphertext),
		CreatedAt:          w.now().UTC().Format(createdAtLayout),
	}, nil
}

// Unwrap recovers the hex case key from an envelope addressed to this device.
// A failed authentication check returns ErrAuthFailed.
func (w *Wrapper) Unwrap(ctx context.Context, env *CaseKeyEnvelope) (string, error) {
	if env == nil {
		return "", fmt.Errorf("%w: nil envelope", kerrors.ErrMalformedEnvelope)
	}
	if err := env.validate(); err != nil {
		return "", err
	}

	sender, err := secrets.ParsePublicKey(env.SenderPublicKey)
	if err != nil {
		return "", fmt.Errorf("sender public key: %w", err)
	}
	nonce, err := hex.DecodeString(env.Nonce)
	if err != nil {
		return "", fmt.Errorf("%w: nonce: %v", kerrors.ErrMalformedEnvelope, err)
	}
	ciphertext, err := hex.DecodeString(env.Cipher)
	if err != nil {
		return "", fmt.Errorf("%w: cipher: %v", kerrors.ErrMalformedEnvelope, err)
	}

	self, err := w.local.GetOrCreate(ctx)
	if err != nil {
		return "", fmt.Errorf("loading device identity: %w", err)
	}
	if !strings.EqualFold(env.RecipientPublicKey, self.PublicKey) {
		return "", kerrors.ErrNotRecipient
	}

	wrappingKey, err := w.wrappingKey(ctx, sender)
	if err != nil {
		return "", err
	}
	defer secrets.Zero(wrappingKey)

	caseKey, err := secrets.Open(wrappingKey, nonce, ciphertext)
	if err != nil {
		return "", err
	}
	defer secrets.Zero(caseKey)

	if len(caseKey) != secrets.CaseKeySize {
		return "", fmt.Errorf("%w: unwrapped %d bytes", kerrors.ErrInvalidKeyLength, len(caseKey))
	}
	return hex.EncodeToString(caseKey), nil
}

func (w *Wrapper) wrappingKey(ctx context.Context, peer []byte) ([]byte, error) {
	shared, err := w.local.SharedSecret(ctx, peer)
	if err != nil {
		return nil, err
	}
	defer secrets.Zero(shared)

	return DeriveWrappingKey(shared)
}
