package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/caselock/internal/errors"
)

const (
	// CaseKeySize is the length of a case key in bytes.
	CaseKeySize = 32
	// PublicKeySize is the length of an X25519 public key in bytes.
	PublicKeySize = 32
	// PrivateKeySize is the length of an X25519 private key in bytes.
	PrivateKeySize = 32
	// DeviceIDSize is the length of a device id in bytes.
	DeviceIDSize = 16
)

// NewCaseKey returns a fresh hex encoded case key.
func NewCaseKey() (string, error) {
	return randomHex(rand.Reader, CaseKeySize)
}

// RandomHex reads n bytes from r and hex encodes them.
func RandomHex(r io.Reader, n int) (string, error) {
	return randomHex(r, n)
}

func randomHex(r io.Reader, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ParseCaseKey decodes a hex case key, which must be exactly 32 bytes.
func ParseCaseKey(caseKeyHex string) ([]byte, error) {
	return decodeFixed(caseKeyHex, CaseKeySize, kerrors.ErrInvalidKeyLength)
}

// ParsePublicKey decodes a hex X25519 public key.
func ParsePublicKey(publicKeyHex string) ([]byte, error) {
	key, err := decodeFixed(publicKeyHex, PublicKeySize, kerrors.ErrInvalidPublicKey)
	if err != nil && !errors.Is(err, kerrors.ErrInvalidPublicKey) {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrInvalidPublicKey, err)
	}
	return key, err
}

// ParsePrivateKey decodes a hex X25519 private key.
func ParsePrivateKey(privateKeyHex string) ([]byte, error) {
	key, err := decodeFixed(privateKeyHex, PrivateKeySize, kerrors.ErrInvalidPrivateKey)
	if err != nil && !errors.Is(err, kerrors.ErrInvalidPrivateKey) {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrInvalidPrivateKey, err)
	}
	return key, err
}

// IsPublicKeyHex reports whether s is a 64 character hex string.
func IsPublicKeyHex(s string) bool {
	_, err := decodeFixed(s, PublicKeySize, kerrors.ErrInvalidPublicKey)
	return err == nil
}

func decodeFixed(s string, size int, lengthErr error) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidKeyEncoding, err)
	}
	if len(b) != size {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d bytes", lengthErr, size, len(b))
	}
	return b, nil
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
