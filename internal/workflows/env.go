package workflows

import (
	"context"
	"fmt"
	"sync"

	"github.com/99designs/keyring"

	"github.com/PolarWolf314/caselock/internal/audit"
	"github.com/PolarWolf314/caselock/internal/configs"
	"github.com/PolarWolf314/caselock/internal/identity"
	"github.com/PolarWolf314/caselock/internal/peers"
	"github.com/PolarWolf314/caselock/internal/securestore"
	"github.com/PolarWolf314/caselock/internal/wrap"
)

// EnvOptions configures how an Env is loaded.
type EnvOptions struct {
	// Prompt unlocks the keyring file backend. May be nil.
	Prompt keyring.PromptFunc

	// Store overrides the configured backend. Used by tests.
	Store securestore.Store

	// WrapOptions are passed to the case key wrapper.
	WrapOptions []wrap.Option
}

// Env holds everything a workflow needs: settings, config and lazily opened
// store-backed services. Opening the secure store is deferred because some
// backends talk to system daemons or prompt for a password.
type Env struct {
	Settings *configs.Settings
	Config   *configs.Config
	Peers    *peers.Directory
	Audit    *audit.Log

	opts EnvOptions

	mu       sync.Mutex
	store    securestore.Store
	identity *identity.Manager
}

// LoadEnv resolves settings and loads config.toml.
func LoadEnv(opts EnvOptions) (*Env, error) {
	settings, err := configs.ResolveSettings()
	if err != nil {
		return nil, fmt.Errorf("resolving settings: %w", err)
	}
	return NewEnv(settings, opts)
}

// NewEnv loads config.toml from explicit settings.
func NewEnv(settings *configs.Settings, opts EnvOptions) (*Env, error) {
	config, err := configs.LoadConfig(settings)
	if err != nil {
		return nil, err
	}
	return &Env{
		Settings: settings,
		Config:   config,
		Peers:    peers.NewDirectory(settings.PeersPath()),
		Audit:    audit.NewLog(settings.AuditPath(), config.Audit.Enabled),
		opts:     opts,
		store:    opts.Store,
	}, nil
}

// Store opens the configured secure store on first use.
func (e *Env) Store() (securestore.Store, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store != nil {
		return e.store, nil
	}
	store, err := securestore.Open(e.Config, e.Settings, e.opts.Prompt)
	if err != nil {
		return nil, err
	}
	e.store = store
	return store, nil
}

// Identity returns the device identity manager bound to the store.
func (e *Env) Identity() (*identity.Manager, error) {
	store, err := e.Store()
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.identity == nil {
		e.identity = identity.NewManager(store)
	}
	return e.identity, nil
}

// Wrapper returns a case key wrapper for the local identity.
func (e *Env) Wrapper() (*wrap.Wrapper, error) {
	ids, err := e.Identity()
	if err != nil {
		return nil, err
	}
	return wrap.NewWrapper(ids, e.opts.WrapOptions...), nil
}

// self loads the local identity, creating it when absent.
func (e *Env) self(ctx context.Context) (identity.Identity, error) {
	ids, err := e.Identity()
	if err != nil {
		return identity.Identity{}, err
	}
	return ids.GetOrCreate(ctx)
}
