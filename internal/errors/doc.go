// Package errors provides typed error values for caselock.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Storage errors: the secure store failed (ErrStorage)
//   - Key errors: malformed key material (ErrInvalidKeyLength, ErrInvalidPublicKey)
//   - Crypto errors: tag verification failures (ErrAuthFailed)
//   - Envelope errors: wire values that cannot be read (ErrMalformedEnvelope)
//   - Peer errors: the local peer directory (ErrPeerNotFound)
//
// Legacy plaintext passed to payload decryption is not an error: it is
// returned unchanged.
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("reading device id: %w: %v", kerrors.ErrStorage, err)
//
// Handle errors in the CLI layer:
//
//	key, err := wrapper.Unwrap(ctx, env)
//	if errors.Is(err, kerrors.ErrAuthFailed) {
//	    // Show user-friendly message
//	}
package errors
