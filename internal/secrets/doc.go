// Package secrets provides the cryptographic primitives shared by payload
// encryption and case key wrapping.
//
// # Encryption Architecture
//
// caselock uses a hybrid scheme:
//
//  1. A random 256-bit case key encrypts one case's field data
//  2. To share a case, the case key is encrypted under a wrapping key that
//     both devices derive from X25519 agreement between their identities
//  3. The recipient re-derives the wrapping key, recovers the case key, then
//     decrypts the field data
//
// Every encryption uses XChaCha20-Poly1305 with a random 24-byte nonce, so
// encrypting the same value twice produces different output.
//
// # Key Material
//
// Keys, nonces and ciphertexts are hex encoded at every boundary. Helpers
// here generate and validate that hex: NewCaseKey, ParseCaseKey,
// ParsePublicKey, ParsePrivateKey.
package secrets
