package secrets

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	kerrors "github.com/PolarWolf314/caselock/internal/errors"
)

const (
	// NonceSize is the XChaCha20-Poly1305 nonce length (192 bits).
	NonceSize = chacha20poly1305.NonceSizeX
	// Overhead is the Poly1305 tag length appended to every ciphertext.
	Overhead = chacha20poly1305.Overhead
)

// Seal encrypts plaintext under a 32-byte key with XChaCha20-Poly1305 and a
// nonce freshly drawn from crypto/rand. The returned ciphertext carries the tag.
func Seal(key, plaintext []byte) (nonce, ciphertext []byte, err error) {
	return SealWithRandom(rand.Reader, key, plaintext)
}

// SealWithRandom is Seal with an explicit nonce source.
func SealWithRandom(random io.Reader, key, plaintext []byte) (nonce, ciphertext []byte, err error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidKeyLength, err)
	}

	nonce = make([]byte, NonceSize)
	if _, err := io.ReadFull(random, nonce); err != nil {
		return nil, nil, fmt.Errorf("%w: reading nonce: %v", kerrors.ErrEncryptFailed, err)
	}

	return nonce, aead.Seal(nil, nonce, plaintext, nil), nil
}

// Open reverses Seal. A tag mismatch returns ErrAuthFailed and no plaintext.
func Open(key, nonce, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidKeyLength, err)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d bytes", kerrors.ErrMalformedEnvelope, NonceSize, len(nonce))
	}
	if len(ciphertext) < Overhead {
		return nil, fmt.Errorf("%w: ciphertext shorter than authentication tag", kerrors.ErrMalformedEnvelope)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, kerrors.ErrAuthFailed
	}
	return plaintext, nil
}
