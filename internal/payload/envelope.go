package payload

import (
	"encoding/hex"
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/caselock/internal/errors"
)

const (
	tagV1    = "case:v1:"
	segments = 4
)

// Envelope is a parsed payload value. The concrete types are Legacy and V1;
// callers dispatch with a type switch over exactly those.
type Envelope interface {
	envelope()
}

// Legacy is a value stored before encryption existed. It is plaintext.
type Legacy struct {
	Text string
}

// V1 is case:v1:<nonce-hex>:<ciphertext-hex>.
type V1 struct {
	Nonce      []byte
	Ciphertext []byte
}

func (Legacy) envelope() {}
func (V1) envelope() {}

// String renders the wire form.
func (e V1) String() string {
	return tagV1 + hex.EncodeToString(e.Nonce) + ":" + hex.EncodeToString(e.Ciphertext)
}

// ParseEnvelope classifies s. Anything without the case:v1: tag, or that does
// not split into exactly four colon separated segments, is Legacy. A tagged
// value with undecodable hex is ErrMalformedEnvelope.
func ParseEnvelope(s string) (Envelope, error) {
	if !strings.HasPrefix(s, tagV1) {
		return Legacy{Text: s}, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) != segments {
		return Legacy{Text: s}, nil
	}

	nonce, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %v", kerrors.ErrMalformedEnvelope, err)
	}
	ciphertext, err := hex.DecodeString(parts[3])
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext: %v", kerrors.ErrMalformedEnvelope, err)
	}
	return V1{Nonce: nonce, Ciphertext: ciphertext}, nil
}

// IsEncrypted reports whether s is a tagged envelope rather than legacy text.
func IsEncrypted(s string) bool {
	env, err := ParseEnvelope(s)
	if err != nil {
		return true
	}
	_, legacy := env.(Legacy)
	return !legacy
}
