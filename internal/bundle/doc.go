// Package bundle encodes and decodes public key bundles, the snapshot of a
// device identity that is shared out of band with other devices:
//
//	{"version":1,"deviceId":"<hex>","publicKey":"<64 hex>","label":"<string>"}
//
// Parse returns nil rather than an error for malformed input, so callers
// branch on the result instead of inspecting failures.
package bundle
