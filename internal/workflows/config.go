package workflows

import (
	"context"

	"github.com/PolarWolf314/caselock/internal/configs"
)

// ConfigResult describes the effective configuration.
type ConfigResult struct {
	Config     *configs.Config
	ConfigPath string
	DataDir    string
	StorePath  string
}

// ShowConfig returns the effective configuration and resolved paths.
func ShowConfig(ctx context.Context, env *Env) (*ConfigResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &ConfigResult{
		Config:     env.Config,
		ConfigPath: env.Settings.ConfigPath(),
		DataDir:    env.Settings.DataDir,
		StorePath:  env.Config.StorePath(env.Settings),
	}, nil
}

// SetConfig updates one dotted key and saves config.toml. Env.Config is
// only changed once the new value validates and is saved.
func SetConfig(ctx context.Context, env *Env, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	updated := *env.Config
	if err := updated.Set(key, value); err != nil {
		return err
	}
	if err := configs.SaveConfig(env.Settings, &updated); err != nil {
		return err
	}
	*env.Config = updated
	return nil
}
