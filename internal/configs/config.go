package configs

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	kerrors "github.com/PolarWolf314/caselock/internal/errors"
)

// Store backend names accepted in [store].backend.
const (
	BackendKeyring = "keyring"
	BackendFile    = "file"
	BackendMemory  = "memory"
)

type Config struct {
	Device Device      `toml:"device"`
	Store  StoreConfig `toml:"store"`
	Audit  Audit       `toml:"audit"`
}

type Device struct {
	// Label is embedded in exported public key bundles.
	Label string `toml:"label"`
}

type StoreConfig struct {
	Backend  string `toml:"backend"`
	Service  string `toml:"service"`
	FilePath string `toml:"file_path"`
}

type Audit struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendKeyring,
			Service: appName,
		},
		Audit: Audit{Enabled: true},
	}
}

// LoadConfig loads config.toml, filling unset fields with defaults.
// A missing file yields DefaultConfig.
func LoadConfig(s *Settings) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(s.ConfigPath()); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(s.ConfigPath(), config); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if config.Store.Backend == "" {
		config.Store.Backend = BackendKeyring
	}
	if config.Store.Service == "" {
		config.Store.Service = appName
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes config.toml.
func SaveConfig(s *Settings, config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := SaveTOML(s.ConfigPath(), config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendKeyring, BackendFile, BackendMemory:
		return nil
	default:
		return fmt.Errorf("%w: %q", kerrors.ErrUnknownBackend, c.Store.Backend)
	}
}

// settableKeys maps dotted config keys to setters.
var settableKeys = map[string]func(c *Config, value string) error{
	"device.label": func(c *Config, v string) error {
		c.Device.Label = v
		return nil
	},
	"store.backend": func(c *Config, v string) error {
		candidate := *c
		candidate.Store.Backend = strings.ToLower(v)
		if err := candidate.Validate(); err != nil {
			return err
		}
		c.Store.Backend = candidate.Store.Backend
		return nil
	},
	"store.service": func(c *Config, v string) error {
		if v == "" {
			return fmt.Errorf("store.service cannot be empty")
		}
		c.Store.Service = v
		return nil
	},
	"store.file_path": func(c *Config, v string) error {
		c.Store.FilePath = v
		return nil
	},
	"audit.enabled": func(c *Config, v string) error {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("audit.enabled must be true or false: %w", err)
		}
		c.Audit.Enabled = enabled
		return nil
	},
}

// Set updates a single dotted key such as "store.backend".
func (c *Config) Set(key, value string) error {
	setter, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(SettableKeys(), ", "))
	}
	return setter(c, value)
}

// SettableKeys lists the keys accepted by Set, sorted.
func SettableKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StorePath returns the file backend path, defaulting into the data directory.
func (c *Config) StorePath(s *Settings) string {
	if c.Store.FilePath != "" {
		return c.Store.FilePath
	}
	return s.DefaultStorePath()
}
