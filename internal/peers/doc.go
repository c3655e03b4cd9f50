// Package peers keeps the public key bundles this device has imported, so a
// case key can be wrapped for a peer by device id or label instead of a raw
// public key.
//
// Peers are stored in <data dir>/peers.toml:
//
//	[peers.0f1e2d3c4b5a69788796a5b4c3d2e1f0]
//	public_key = "..."
//	label = "theatre-ipad"
//	added_at = 2026-01-02T03:04:05Z
package peers
