// Package identity bootstraps and holds the device identity: a random
// 128-bit device id and an X25519 key pair.
//
// # Lifecycle
//
// The identity is created lazily by the first GetOrCreate call and persisted
// through a securestore.Store under two keys:
//
//   - device_id: 32 hex chars
//   - device_private_key: 64 hex chars
//
// A Manager loads it once and serves it from memory afterwards. There is no
// teardown or rotation path. The check-then-create sequence runs under the
// Manager's mutex, so concurrent first use cannot produce two identities.
// Two Managers sharing one store in the same process are not coordinated;
// create one per store.
//
// # Private key custody
//
// The private key never leaves the Manager. Key agreement goes through
// SharedSecret.
package identity
