// Package payload encrypts case field values under a case key.
//
// Encrypted values are strings of the form
//
//	case:v1:<48 hex nonce>:<hex ciphertext with tag>
//
// Values that do not carry the tag are records written before encryption
// was introduced; Decrypt returns them unchanged.
package payload
