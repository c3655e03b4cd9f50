package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PolarWolf314/caselock/internal/identity"
	"github.com/PolarWolf314/caselock/internal/secrets"
)

// Version is a public key bundle format version.
type Version int

// Version1 is the only bundle format.
const Version1 Version = 1

// PublicKeyBundle is the shareable public identity of one device.
// Field order matches the wire format.
type PublicKeyBundle struct {
	Version   Version `json:"version"`
	DeviceID  string  `json:"deviceId"`
	PublicKey string  `json:"publicKey"`
	Label     string  `json:"label,omitempty"`
}

// IdentitySource supplies the local identity. *identity.Manager implements it.
type IdentitySource interface {
	GetOrCreate(ctx context.Context) (identity.Identity, error)
}

// Export serializes the local identity as a version 1 bundle. An empty label
// is omitted from the output.
func Export(ctx context.Context, source IdentitySource, label string) (string, error) {
	id, err := source.GetOrCreate(ctx)
	if err != nil {
		return "", fmt.Errorf("loading device identity: %w", err)
	}
	return Encode(PublicKeyBundle{
		Version:   Version1,
		DeviceID:  id.DeviceID,
		PublicKey: id.PublicKey,
		Label:     strings.TrimSpace(label),
	})
}

// Encode serializes a bundle without consulting the identity store.
func Encode(b PublicKeyBundle) (string, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("encoding public key bundle: %w", err)
	}
	return string(raw), nil
}

// Parse reads a bundle received from a peer. It returns nil for anything that
// is not a well formed bundle of a known version: invalid JSON, an unknown
// version, a missing device id, or a public key that is not 64 hex chars.
// It never returns an error, so untrusted input can be probed safely.
func Parse(raw string) *PublicKeyBundle {
	var b PublicKeyBundle
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &b); err != nil {
		return nil
	}

	switch b.Version {
	case Version1:
		if b.DeviceID == "" || b.PublicKey == "" {
			return nil
		}
		if !secrets.IsPublicKeyHex(b.PublicKey) {
			return nil
		}
		return &b
	default:
		return nil
	}
}
