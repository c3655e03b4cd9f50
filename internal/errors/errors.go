package errors

import "errors"

// Storage errors indicate the secure store could not serve a request.
var (
	// ErrStorage indicates the secure store could not be read or written.
	ErrStorage = errors.New("secure storage unavailable")

	// ErrUnknownBackend indicates the configured store backend does not exist.
	ErrUnknownBackend = errors.New("unknown secure store backend")
)

// Key errors indicate malformed or unusable key material.
var (
	// ErrInvalidKeyLength indicates a symmetric key has an unexpected length.
	ErrInvalidKeyLength = errors.New("invalid symmetric key length")

	// ErrInvalidKeyEncoding indicates key material is not valid hex.
	ErrInvalidKeyEncoding = errors.New("invalid key encoding")

	// ErrInvalidPublicKey indicates a public key is malformed or a low-order point.
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrInvalidPrivateKey indicates the stored private key is malformed.
	ErrInvalidPrivateKey = errors.New("invalid or unsupported private key format")
)

// Cryptographic errors indicate failures while sealing or opening data.
var (
	// ErrAuthFailed indicates an AEAD tag did not verify: the data was
	// tampered with or the wrong key was used.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrEncryptFailed indicates payload or key encryption failed.
	ErrEncryptFailed = errors.New("failed to encrypt")
)

// Envelope errors indicate a wire value could not be interpreted.
var (
	// ErrMalformedEnvelope indicates a tagged envelope has bad structure or encoding.
	ErrMalformedEnvelope = errors.New("malformed envelope")

	// ErrUnsupportedVersion indicates an envelope carries an unknown version.
	ErrUnsupportedVersion = errors.New("unsupported envelope version")

	// ErrNotRecipient indicates a case key envelope was wrapped for another device.
	ErrNotRecipient = errors.New("envelope is not addressed to this device")
)

// Peer errors indicate issues with the local peer directory.
var (
	// ErrPeerNotFound indicates no bundle is stored for the given device.
	ErrPeerNotFound = errors.New("peer not found")

	// ErrPeerExists indicates a bundle is already stored for the given device.
	ErrPeerExists = errors.New("peer already exists")

	// ErrInvalidBundle indicates a public key bundle could not be parsed.
	ErrInvalidBundle = errors.New("invalid public key bundle")
)

// Audit errors.
var (
	// ErrInvalidDateFormat indicates a --since/--until value is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")
)
