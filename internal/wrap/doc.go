// Package wrap shares a case key with one other device.
//
// The sender combines its private key with the recipient's public key
// (X25519), expands the result with HKDF-SHA256 into a wrapping key and
// seals the raw case key with XChaCha20-Poly1305. The envelope carries the
// sender's public key, so the recipient can repeat the agreement from its
// side and open it without any other shared state:
//
//	{"version":1,"senderDeviceId":"..","senderPublicKey":"..","recipientPublicKey":"..",
//	 "nonce":"<48 hex>","cipher":"<hex>","createdAt":"2026-01-02T03:04:05.000Z"}
//
// # Threat model
//
// Both keys in the agreement are long-term device keys. There is no
// ephemeral key and no ratchet, so the wrapping key between two devices is
// constant and there is no forward secrecy: whoever later obtains either
// device's private key can unwrap every envelope ever exchanged between
// that pair.
package wrap
