// Package configs manages caselock configuration and on-disk locations.
//
// # Locations
//
// ResolveSettings picks two directories:
//
//   - ConfigDir: $CASELOCK_CONFIG_DIR, else <user config dir>/caselock
//   - DataDir: $CASELOCK_DATA_DIR, else $XDG_DATA_HOME/caselock, else ~/.local/share/caselock
//
// ConfigDir holds config.toml. DataDir holds peers.toml, the audit log,
// the keyring file backend and, when selected, the plain file store.
//
// # config.toml
//
//	[device]
//	label = "theatre-ipad"
//
//	[store]
//	backend = "keyring"   # keyring | file | memory
//	service = "caselock"
//	file_path = ""
//
//	[audit]
//	enabled = true
//
// All TOML files are written with 0600 permissions.
package configs
