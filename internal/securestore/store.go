package securestore

import "context"

// Store is the key-value contract the identity layer persists device
// material through. Implementations must be safe for concurrent use.
//
// Get reports ok=false, with a nil error, when the key is absent.
// Delete of an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error

	// Secure reports whether values are encrypted at rest. Callers surface
	// a false result to the user; the store itself never refuses to work.
	Secure() bool
}
