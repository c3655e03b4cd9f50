package workflows

import (
	"context"

	"github.com/PolarWolf314/caselock/internal/audit"
	"github.com/PolarWolf314/caselock/internal/identity"
)

// IdentityResult describes the local device identity.
type IdentityResult struct {
	identity.Identity

	// Backend is the configured store backend name.
	Backend string

	// Secure reports whether the backend encrypts keys at rest.
	Secure bool
}

// ShowIdentity returns the device identity, bootstrapping it if absent.
func ShowIdentity(ctx context.Context, env *Env) (*IdentityResult, error) {
	return loadIdentity(ctx, env)
}

// InitIdentity bootstraps the device identity and records it in the audit log.
// Calling it again returns the existing identity unchanged.
func InitIdentity(ctx context.Context, env *Env) (*IdentityResult, error) {
	result, err := loadIdentity(ctx, env)
	if err != nil {
		return nil, err
	}

	env.Audit.Record(audit.Entry{
		Device:    result.DeviceID,
		Operation: "identity init",
		Backend:   result.Backend,
	})
	return result, nil
}

func loadIdentity(ctx context.Context, env *Env) (*IdentityResult, error) {
	store, err := env.Store()
	if err != nil {
		return nil, err
	}
	self, err := env.self(ctx)
	if err != nil {
		return nil, err
	}
	return &IdentityResult{
		Identity: self,
		Backend:  env.Config.Store.Backend,
		Secure:   store.Secure(),
	}, nil
}
