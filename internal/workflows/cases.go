package workflows

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/PolarWolf314/caselock/internal/audit"
	kerrors "github.com/PolarWolf314/caselock/internal/errors"
	"github.com/PolarWolf314/caselock/internal/payload"
	"github.com/PolarWolf314/caselock/internal/secrets"
	"github.com/PolarWolf314/caselock/internal/wrap"
)

// NewCaseResult holds a freshly generated case id and key.
type NewCaseResult struct {
	CaseID  string
	CaseKey string
}

// NewCase generates a case id and a random 32-byte case key.
func NewCase(ctx context.Context, env *Env) (*NewCaseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	caseKey, err := secrets.NewCaseKey()
	if err != nil {
		return nil, err
	}
	result := &NewCaseResult{
		CaseID:  uuid.NewString(),
		CaseKey: caseKey,
	}

	env.Audit.Record(audit.Entry{
		Operation: "case new",
		CaseID:    result.CaseID,
	})
	return result, nil
}

// EncryptOptions configures payload encryption.
type EncryptOptions struct {
	Plaintext string
	CaseKey   string
}

// EncryptPayload seals a payload under a case key.
func EncryptPayload(ctx context.Context, opts EncryptOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return payload.Encrypt(opts.Plaintext, strings.TrimSpace(opts.CaseKey))
}

// DecryptOptions configures payload decryption.
type DecryptOptions struct {
	Envelope string
	CaseKey  string
}

// DecryptResult is the recovered payload.
type DecryptResult struct {
	Plaintext string

	// Legacy is true when the input was not an encrypted envelope and was
	// returned unchanged.
	Legacy bool
}

// DecryptPayload opens a payload envelope. Untagged values pass through.
//
// Returns ErrAuthFailed if the envelope was tampered with or the key is wrong.
func DecryptPayload(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plaintext, err := payload.Decrypt(opts.Envelope, strings.TrimSpace(opts.CaseKey))
	if err != nil {
		return nil, err
	}
	return &DecryptResult{
		Plaintext: plaintext,
		Legacy:    !payload.IsEncrypted(opts.Envelope),
	}, nil
}

// WrapOptions configures the case key wrap workflow.
type WrapOptions struct {
	CaseKey string

	// Recipient is a device id, a unique peer label or a raw public key.
	Recipient string

	// CaseID is recorded in the audit log when set.
	CaseID string
}

// WrapResult carries the serialized case key envelope.
type WrapResult struct {
	Envelope          string
	RecipientDeviceID string
	RecipientLabel    string
}

// WrapCaseKey wraps a case key for one recipient device.
//
// Returns ErrPeerNotFound if the recipient is not a known peer or public key.
func WrapCaseKey(ctx context.Context, env *Env, opts WrapOptions) (*WrapResult, error) {
	recipient, err := env.Peers.Resolve(opts.Recipient)
	if err != nil {
		return nil, err
	}

	wrapper, err := env.Wrapper()
	if err != nil {
		return nil, err
	}
	envelope, err := wrapper.Wrap(ctx, strings.TrimSpace(opts.CaseKey), recipient.PublicKey)
	if err != nil {
		return nil, err
	}
	raw, err := wrap.Marshal(envelope)
	if err != nil {
		return nil, err
	}

	env.Audit.Record(audit.Entry{
		Device:    envelope.SenderDeviceID,
		Operation: "case wrap",
		Peer:      recipient.DeviceID,
		PeerLabel: recipient.Label,
		CaseID:    opts.CaseID,
	})
	return &WrapResult{
		Envelope:          raw,
		RecipientDeviceID: recipient.DeviceID,
		RecipientLabel:    recipient.Label,
	}, nil
}

// UnwrapResult is the recovered case key and what is known about its sender.
type UnwrapResult struct {
	CaseKey        string
	SenderDeviceID string
	SenderLabel    string

	// KnownSender is true when the sender's public key matches a peer entry.
	KnownSender bool
}

// UnwrapCaseKey recovers a case key from an envelope addressed to this device.
//
// Returns ErrNotRecipient if the envelope was wrapped for another device.
// Returns ErrAuthFailed if the envelope was tampered with.
func UnwrapCaseKey(ctx context.Context, env *Env, raw string) (*UnwrapResult, error) {
	envelope, err := wrap.ParseEnvelope(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}

	wrapper, err := env.Wrapper()
	if err != nil {
		return nil, err
	}
	caseKey, err := wrapper.Unwrap(ctx, envelope)
	if err != nil {
		return nil, err
	}

	result := &UnwrapResult{
		CaseKey:        caseKey,
		SenderDeviceID: envelope.SenderDeviceID,
	}
	sender, err := env.Peers.Get(envelope.SenderDeviceID)
	switch {
	case err == nil:
		result.SenderLabel = sender.Label
		result.KnownSender = strings.EqualFold(sender.PublicKey, envelope.SenderPublicKey)
	case errors.Is(err, kerrors.ErrPeerNotFound):
	default:
		return nil, err
	}

	self, err := env.self(ctx)
	if err != nil {
		return nil, err
	}
	env.Audit.Record(audit.Entry{
		Device:    self.DeviceID,
		Operation: "case unwrap",
		Peer:      envelope.SenderDeviceID,
		PeerLabel: result.SenderLabel,
	})
	return result, nil
}
