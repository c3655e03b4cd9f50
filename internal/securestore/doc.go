// Package securestore provides the key-value store that holds a device's
// identity material.
//
// Three backends implement Store:
//
//   - KeyringStore: the platform credential store via 99designs/keyring.
//     Encrypted at rest.
//   - FileStore: a 0600 TOML file. Not encrypted at rest.
//   - MemoryStore: process memory. Not persisted.
//
// Each backend reports Secure(). A store that is not encrypted at rest still
// works, so the weaker guarantee must be surfaced by the caller.
package securestore
