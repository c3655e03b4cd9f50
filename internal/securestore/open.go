package securestore

import (
	"fmt"

	"github.com/99designs/keyring"

	"github.com/PolarWolf314/caselock/internal/configs"
	kerrors "github.com/PolarWolf314/caselock/internal/errors"
)

// Open builds the store selected by config. prompt is only consulted by the
// keyring file backend and may be nil when no terminal is available.
func Open(config *configs.Config, s *configs.Settings, prompt keyring.PromptFunc) (Store, error) {
	switch config.Store.Backend {
	case configs.BackendKeyring:
		return OpenKeyring(KeyringOptions{
			Service: config.Store.Service,
			FileDir: s.KeyringDir(),
			Prompt:  prompt,
		})
	case configs.BackendFile:
		return NewFileStore(config.StorePath(s)), nil
	case configs.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", kerrors.ErrUnknownBackend, config.Store.Backend)
	}
}
