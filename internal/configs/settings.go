package configs

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "caselock"

// Environment overrides for the config and data directories.
const (
	EnvConfigDir = "CASELOCK_CONFIG_DIR"
	EnvDataDir   = "CASELOCK_DATA_DIR"
)

type Settings struct {
	// ConfigDir holds config.toml.
	ConfigDir string
	// DataDir holds the peer directory, the file store and the audit log.
	DataDir string
}

func (s *Settings) ConfigPath() string {
	return filepath.Join(s.ConfigDir, "config.toml")
}

func (s *Settings) PeersPath() string {
	return filepath.Join(s.DataDir, "peers.toml")
}

func (s *Settings) AuditPath() string {
	return filepath.Join(s.DataDir, "audit.jsonl")
}

func (s *Settings) DefaultStorePath() string {
	return filepath.Join(s.DataDir, "store.toml")
}

// KeyringDir is where the keyring file backend keeps its encrypted items.
func (s *Settings) KeyringDir() string {
	return filepath.Join(s.DataDir, "keyring")
}

// ResolveSettings determines the config and data directories, honouring the
// CASELOCK_* overrides, then XDG_DATA_HOME, then platform defaults.
func ResolveSettings() (*Settings, error) {
	configDir := os.Getenv(EnvConfigDir)
	if configDir == "" {
		userConfigDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("error getting config directory: %w", err)
		}
		configDir = filepath.Join(userConfigDir, appName)
	}

	dataDir := os.Getenv(EnvDataDir)
	if dataDir == "" {
		base := os.Getenv("XDG_DATA_HOME")
		if base == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("error getting home directory: %w", err)
			}
			base = filepath.Join(homeDir, ".local", "share")
		}
		dataDir = filepath.Join(base, appName)
	}

	return &Settings{ConfigDir: configDir, DataDir: dataDir}, nil
}
