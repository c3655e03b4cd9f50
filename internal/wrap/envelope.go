package wrap

import (
	"encoding/json"
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/caselock/internal/errors"
)

// Version is a case key envelope format version.
type Version int

// Version1 is static-static X25519, HKDF-SHA256, XChaCha20-Poly1305.
const Version1 Version = 1

// CaseKeyEnvelope carries one case key wrapped for exactly one recipient.
// Field order matches the wire format.
type CaseKeyEnvelope struct {
	Version            Version `json:"version"`
	SenderDeviceID     string  `json:"senderDeviceId"`
	SenderPublicKey    string  `json:"senderPublicKey"`
	RecipientPublicKey string  `json:"recipientPublicKey"`
	Nonce              string  `json:"nonce"`
	Cipher             string  `json:"cipher"`
	CreatedAt          string  `json:"createdAt"`
}

// Marshal encodes an envelope to its JSON wire form.
func Marshal(env *CaseKeyEnvelope) (string, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("encoding case key envelope: %w", err)
	}
	return string(raw), nil
}

// ParseEnvelope decodes the JSON wire form. Unknown versions are
// ErrUnsupportedVersion; missing fields are ErrMalformedEnvelope.
func ParseEnvelope(raw string) (*CaseKeyEnvelope, error) {
	var env CaseKeyEnvelope
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &env); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrMalformedEnvelope, err)
	}
	if err := env.validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

func (e *CaseKeyEnvelope) validate() error {
	switch e.Version {
	case Version1:
		return e.validateV1()
	default:
		return fmt.Errorf("%w: %d", kerrors.ErrUnsupportedVersion, e.Version)
	}
}

func (e *CaseKeyEnvelope) validateV1() error {
	fields := []struct {
		name  string
		value string
	}{
		{"senderDeviceId", e.SenderDeviceID},
		{"senderPublicKey", e.SenderPublicKey},
		{"recipientPublicKey", e.RecipientPublicKey},
		{"nonce", e.Nonce},
		{"cipher", e.Cipher},
	}

	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", kerrors.ErrMalformedEnvelope, strings.Join(missing, ", "))
	}
	return nil
}
