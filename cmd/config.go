package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/caselock/internal/configs"
	"github.com/PolarWolf314/caselock/internal/ui"
	"github.com/PolarWolf314/caselock/internal/workflows"
)

var configShowJSON bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage caselock configuration",
	Long: `Reads and edits config.toml. The config directory can be moved with
CASELOCK_CONFIG_DIR and the data directory with CASELOCK_DATA_DIR.

Examples:
  caselock config show
  caselock config set store.backend file
  caselock config set device.label theatre-ipad`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		env, err := loadEnv()
		if err != nil {
			return fail(cmd, err)
		}
		result, err := workflows.ShowConfig(cmd.Context(), env)
		if err != nil {
			return fail(cmd, err)
		}

		out := cmd.OutOrStdout()
		if configShowJSON {
			data, err := json.MarshalIndent(configJSON(result), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config to JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		c := result.Config
		fmt.Fprintln(out, ui.Info.Sprint("Configuration")+" "+ui.Muted.Sprint(result.ConfigPath))
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  %-16s %s\n", "device.label:", valueOrUnset(c.Device.Label))
		fmt.Fprintf(out, "  %-16s %s\n", "store.backend:", c.Store.Backend)
		fmt.Fprintf(out, "  %-16s %s\n", "store.service:", c.Store.Service)
		if c.Store.Backend == configs.BackendFile {
			fmt.Fprintf(out, "  %-16s %s\n", "store.file_path:", ui.Path.Sprint(result.StorePath))
		}
		fmt.Fprintf(out, "  %-16s %t\n", "audit.enabled:", c.Audit.Enabled)
		fmt.Fprintf(out, "  %-16s %s\n", "data dir:", ui.Path.Sprint(result.DataDir))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Sets one configuration value. Valid keys: " + strings.Join(configs.SettableKeys(), ", ") + ".",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config set command")
		Logger.Debugf("Setting %s=%s", args[0], args[1])

		env, err := loadEnv()
		if err != nil {
			return fail(cmd, err)
		}
		if err := workflows.SetConfig(cmd.Context(), env, args[0], args[1]); err != nil {
			return fail(cmd, err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Tick()+" Set "+ui.Flag.Sprint(args[0])+" to "+ui.Highlight.Sprint(args[1]))
		if args[0] == "store.backend" {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Arrow()+" Keys in the previous store are not moved; this device gets a new identity on next use")
		}
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func resetConfigState() {
	configShowJSON = false
}

func configJSON(r *workflows.ConfigResult) map[string]any {
	return map[string]any{
		"config_path": r.ConfigPath,
		"data_dir":    r.DataDir,
		"device": map[string]any{
			"label": r.Config.Device.Label,
		},
		"store": map[string]any{
			"backend":   r.Config.Store.Backend,
			"service":   r.Config.Store.Service,
			"file_path": r.StorePath,
		},
		"audit": map[string]any{
			"enabled": r.Config.Audit.Enabled,
		},
	}
}

func valueOrUnset(v string) string {
	if v == "" {
		return ui.Muted.Sprint("not set")
	}
	return v
}
