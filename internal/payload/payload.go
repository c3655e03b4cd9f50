package payload

import (
	"fmt"

	kerrors "github.com/PolarWolf314/caselock/internal/errors"
	"github.com/PolarWolf314/caselock/internal/secrets"
)

// Encrypt seals plaintext under the hex case key and returns
// case:v1:<nonce-hex>:<ciphertext-hex>. Each call draws a new nonce.
func Encrypt(plaintext, caseKeyHex string) (string, error) {
	key, err := secrets.ParseCaseKey(caseKeyHex)
	if err != nil {
		return "", err
	}
	defer secrets.Zero(key)

	nonce, ciphertext, err := secrets.Seal(key, []byte(plaintext))
	if err != nil {
		return "", err
	}
	return V1{Nonce: nonce, Ciphertext: ciphertext}.String(), nil
}

// Decrypt opens an envelope produced by Encrypt. Legacy plaintext is returned
// unchanged. A failed authentication check returns ErrAuthFailed and an empty
// string, never partial output.
func Decrypt(envelope, caseKeyHex string) (string, error) {
	env, err := ParseEnvelope(envelope)
	if err != nil {
		return "", err
	}

	switch e := env.(type) {
	case Legacy:
		return e.Text, nil
	case V1:
		key, err := secrets.ParseCaseKey(caseKeyHex)
		if err != nil {
			return "", err
		}
		defer secrets.Zero(key)

		plaintext, err := secrets.Open(key, e.Nonce, e.Ciphertext)
		if err != nil {
			return "", err
		}
		return string(plaintext), nil
	default:
		return "", fmt.Errorf("%w: %T", kerrors.ErrUnsupportedVersion, env)
	}
}
