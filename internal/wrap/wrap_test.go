package wrap

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	kerrors "github.com/PolarWolf314/caselock/internal/errors"
	"github.com/PolarWolf314/caselock/internal/identity"
	"github.com/PolarWolf314/caselock/internal/payload"
	"github.com/PolarWolf314/caselock/internal/secrets"
	"github.com/PolarWolf314/caselock/internal/securestore"
)

type device struct {
	manager *identity.Manager
	id      identity.Identity
	wrapper *Wrapper
}

func newDevice(t *testing.T, opts ...Option) device {
	t.Helper()
	m := identity.NewManager(securestore.NewMemoryStore())
	id, err := m.GetOrCreate(context.Background())
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	return device{manager: m, id: id, wrapper: NewWrapper(m, opts...)}
}

func newCaseKey(t *testing.T) string {
	t.Helper()
	k, err := secrets.NewCaseKey()
	if err != nil {
		t.Fatalf("NewCaseKey failed: %v", err)
	}
	return k
}

func TestWrapUnwrap_RoundTrip(t *testing.T) {
	ctx := context.Background()
	alice, bob := newDevice(t), newDevice(t)
	k := newCaseKey(t)

	env, err := alice.wrapper.Wrap(ctx, k, bob.id.PublicKey)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}

	got, err := bob.wrapper.Unwrap(ctx, env)
	if err != nil {
		t.Fatalf("Unwrap failed: %v", err)
	}
	if got != k {
		t.Errorf("Expected case key %s, got %s", k, got)
	}
}

func TestWrap_EnvelopeFields(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.FixedZone("AEST", 10*3600))
	alice := newDevice(t, WithClock(func() time.Time { return fixed }))
	bob := newDevice(t)

	env, err := alice.wrapper.Wrap(ctx, newCaseKey(t), strings.ToUpper(bob.id.PublicKey))
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}

	if env.Version != Version1 {
		t.Errorf("Expected version 1, got %d", env.Version)
	}
	if env.SenderDeviceID != alice.id.DeviceID || env.SenderPublicKey != alice.id.PublicKey {
		t.Errorf("Sender fields do not match the local identity: %+v", env)
	}
	if env.RecipientPublicKey != bob.id.PublicKey {
		t.Errorf("Expected normalized recipient key %s, got %s", bob.id.PublicKey, env.RecipientPublicKey)
	}
	if len(env.Nonce) != 48 {
		t.Errorf("Expected 48 hex char nonce, got %d", len(env.Nonce))
	}
	if len(env.Cipher) != 2*(secrets.CaseKeySize+secrets.Overhead) {
		t.Errorf("Unexpected cipher length %d", len(env.Cipher))
	}
	if env.CreatedAt != "2026-03-13T23:26:53.589Z" {
		t.Errorf("Expected UTC ISO-8601 timestamp, got %s", env.CreatedAt)
	}
}

func TestMarshal_WireFormat(t *testing.T) {
	env := &CaseKeyEnvelope{
		Version:            Version1,
		SenderDeviceID:     "aa",
		SenderPublicKey:    "bb",
		RecipientPublicKey: "cc",
		Nonce:              "dd",
		Cipher:             "ee",
		CreatedAt:          "2026-01-02T03:04:05.000Z",
	}

	raw, err := Marshal(env)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"version":1,"senderDeviceId":"aa","senderPublicKey":"bb","recipientPublicKey":"cc","nonce":"dd","cipher":"ee","createdAt":"2026-01-02T03:04:05.000Z"}`
	if raw != want {
		t.Errorf("Unexpected wire form\n got: %s\nwant: %s", raw, want)
	}

	parsed, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("ParseEnvelope failed: %v", err)
	}
	if *parsed != *env {
		t.Errorf("Expected %+v, got %+v", env, parsed)
	}
}

func TestParseEnvelope_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"not json", "nope", kerrors.ErrMalformedEnvelope},
		{"unknown version", `{"version":2,"senderDeviceId":"a","senderPublicKey":"b","recipientPublicKey":"c","nonce":"d","cipher":"e"}`, kerrors.ErrUnsupportedVersion},
		{"missing version", `{"senderDeviceId":"a"}`, kerrors.ErrUnsupportedVersion},
		{"missing cipher", `{"version":1,"senderDeviceId":"a","senderPublicKey":"b","recipientPublicKey":"c","nonce":"d"}`, kerrors.ErrMalformedEnvelope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseEnvelope(tt.raw); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got: %v", tt.want, err)
			}
		})
	}
}

func TestKeyAgreementSymmetry(t *testing.T) {
	ctx := context.Background()
	alice, bob := newDevice(t), newDevice(t)
	alicePub, _ := hex.DecodeString(alice.id.PublicKey)
	bobPub, _ := hex.DecodeString(bob.id.PublicKey)

	ab, err := alice.manager.SharedSecret(ctx, bobPub)
	if err != nil {
		t.Fatalf("SharedSecret failed: %v", err)
	}
	ba, err := bob.manager.SharedSecret(ctx, alicePub)
	if err != nil {
		t.Fatalf("SharedSecret failed: %v", err)
	}
	if !bytes.Equal(ab, ba) {
		t.Fatal("Shared secrets differ")
	}

	kab, err := DeriveWrappingKey(ab)
	if err != nil {
		t.Fatalf("DeriveWrappingKey failed: %v", err)
	}
	kba, err := DeriveWrappingKey(ba)
	if err != nil {
		t.Fatalf("DeriveWrappingKey failed: %v", err)
	}
	if !bytes.Equal(kab, kba) {
		t.Error("Wrapping keys differ")
	}
	if len(kab) != 32 {
		t.Errorf("Expected 32 byte wrapping key, got %d", len(kab))
	}
	if bytes.Equal(kab, ab) {
		t.Error("Wrapping key must not equal the raw shared secret")
	}
}

func TestWrap_FreshNonceEachTime(t *testing.T) {
	ctx := context.Background()
	alice, bob := newDevice(t), newDevice(t)
	k := newCaseKey(t)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		env, err := alice.wrapper.Wrap(ctx, k, bob.id.PublicKey)
		if err != nil {
			t.Fatalf("Wrap failed: %v", err)
		}
		if seen[env.Nonce] {
			t.Fatalf("Nonce reused after %d wraps", i)
		}
		seen[env.Nonce] = true
	}
}

func flipHexBit(t *testing.T, s string, bit int) string {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("Bad hex in test: %v", err)
	}
	b[bit/8] ^= 1 << (bit % 8)
	return hex.EncodeToString(b)
}

func TestUnwrap_TamperDetection(t *testing.T) {
	ctx := context.Background()
	alice, bob := newDevice(t), newDevice(t)

	env, err := alice.wrapper.Wrap(ctx, newCaseKey(t), bob.id.PublicKey)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}

	for bit := 0; bit < len(env.Nonce)*4; bit++ {
		tampered := *env
		tampered.Nonce = flipHexBit(t, env.Nonce, bit)
		if got, err := bob.wrapper.Unwrap(ctx, &tampered); !errors.Is(err, kerrors.ErrAuthFailed) || got != "" {
			t.Fatalf("Nonce bit %d: expected ErrAuthFailed, got %q, %v", bit, got, err)
		}
	}

	for bit := 0; bit < len(env.Cipher)*4; bit++ {
		tampered := *env
		tampered.Cipher = flipHexBit(t, env.Cipher, bit)
		if got, err := bob.wrapper.Unwrap(ctx, &tampered); !errors.Is(err, kerrors.ErrAuthFailed) || got != "" {
			t.Fatalf("Cipher bit %d: expected ErrAuthFailed, got %q, %v", bit, got, err)
		}
	}
}

func TestUnwrap_SubstitutedSender(t *testing.T) {
	ctx := context.Background()
	alice, bob, mallory := newDevice(t), newDevice(t), newDevice(t)

	env, err := alice.wrapper.Wrap(ctx, newCaseKey(t), bob.id.PublicKey)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	env.SenderPublicKey = mallory.id.PublicKey

	if _, err := bob.wrapper.Unwrap(ctx, env); !errors.Is(err, kerrors.ErrAuthFailed) {
		t.Errorf("Expected ErrAuthFailed, got: %v", err)
	}
}

func TestUnwrap_NotRecipient(t *testing.T) {
	ctx := context.Background()
	alice, bob, carol := newDevice(t), newDevice(t), newDevice(t)

	env, err := alice.wrapper.Wrap(ctx, newCaseKey(t), bob.id.PublicKey)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}

	if _, err := carol.wrapper.Unwrap(ctx, env); !errors.Is(err, kerrors.ErrNotRecipient) {
		t.Errorf("Expected ErrNotRecipient, got: %v", err)
	}
}

func TestWrap_ToSelf(t *testing.T) {
	ctx := context.Background()
	alice := newDevice(t)
	k := newCaseKey(t)

	env, err := alice.wrapper.Wrap(ctx, k, alice.id.PublicKey)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	got, err := alice.wrapper.Unwrap(ctx, env)
	if err != nil || got != k {
		t.Errorf("Expected self-wrapped key to round trip, got %q, %v", got, err)
	}
}

func TestWrap_InvalidInput(t *testing.T) {
	ctx := context.Background()
	alice, bob := newDevice(t), newDevice(t)

	if _, err := alice.wrapper.Wrap(ctx, "abcd", bob.id.PublicKey); !errors.Is(err, kerrors.ErrInvalidKeyLength) {
		t.Errorf("Expected ErrInvalidKeyLength, got: %v", err)
	}
	if _, err := alice.wrapper.Wrap(ctx, newCaseKey(t), "abcd"); !errors.Is(err, kerrors.ErrInvalidPublicKey) {
		t.Errorf("Expected ErrInvalidPublicKey, got: %v", err)
	}
	if _, err := alice.wrapper.Wrap(ctx, newCaseKey(t), strings.Repeat("00", 32)); !errors.Is(err, kerrors.ErrInvalidPublicKey) {
		t.Errorf("Expected ErrInvalidPublicKey for low-order key, got: %v", err)
	}
	if _, err := bob.wrapper.Unwrap(ctx, nil); !errors.Is(err, kerrors.ErrMalformedEnvelope) {
		t.Errorf("Expected ErrMalformedEnvelope for nil envelope, got: %v", err)
	}
}

func TestUnwrap_MalformedHex(t *testing.T) {
	ctx := context.Background()
	alice, bob := newDevice(t), newDevice(t)

	env, err := alice.wrapper.Wrap(ctx, newCaseKey(t), bob.id.PublicKey)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}

	badNonce := *env
	badNonce.Nonce = "zz"
	if _, err := bob.wrapper.Unwrap(ctx, &badNonce); !errors.Is(err, kerrors.ErrMalformedEnvelope) {
		t.Errorf("Expected ErrMalformedEnvelope, got: %v", err)
	}

	badSender := *env
	badSender.SenderPublicKey = "zz"
	if _, err := bob.wrapper.Unwrap(ctx, &badSender); !errors.Is(err, kerrors.ErrInvalidPublicKey) {
		t.Errorf("Expected ErrInvalidPublicKey, got: %v", err)
	}
}

// TestShareCaseBetweenDevices walks the full flow: A encrypts a field with a
// new case key, wraps the key for B, and B reads the field.
func TestShareCaseBetweenDevices(t *testing.T) {
	ctx := context.Background()
	a, b := newDevice(t), newDevice(t)

	k := newCaseKey(t)
	e1, err := payload.Encrypt("BMI: 27.4", k)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	w, err := a.wrapper.Wrap(ctx, k, b.id.PublicKey)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}

	// The envelope crosses devices as JSON.
	raw, err := Marshal(w)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	received, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("ParseEnvelope failed: %v", err)
	}

	kPrime, err := b.wrapper.Unwrap(ctx, received)
	if err != nil {
		t.Fatalf("Unwrap failed: %v", err)
	}
	if kPrime != k {
		t.Fatalf("Recovered key %s does not match %s", kPrime, k)
	}

	got, err := payload.Decrypt(e1, kPrime)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if got != "BMI: 27.4" {
		t.Errorf("Expected %q, got %q", "BMI: 27.4", got)
	}
}
