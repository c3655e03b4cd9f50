package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/caselock/internal/ui"
	"github.com/PolarWolf314/caselock/internal/workflows"
)

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Show or create this device's identity",
	Long: `A device identity is a random device id and an X25519 key pair kept in
the secure store. It is created on first use and never rotated.`,
}

var identityShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the device id and public key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIdentity(cmd, workflows.ShowIdentity)
	},
}

var identityInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the device identity if it does not exist yet",
	Long: `Creates the device identity in the configured secure store. Running it
again is safe and prints the existing identity.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIdentity(cmd, workflows.InitIdentity)
	},
}

func init() {
	identityCmd.AddCommand(identityShowCmd)
	identityCmd.AddCommand(identityInitCmd)
}

func runIdentity(cmd *cobra.Command, load func(context.Context, *workflows.Env) (*workflows.IdentityResult, error)) error {
	Logger.Infof("Starting %s command", cmd.CommandPath())

	env, err := loadEnv()
	if err != nil {
		return fail(cmd, err)
	}
	if _, err := openStore(env); err != nil {
		return fail(cmd, err)
	}

	spinner, cleanup := startSpinner("Loading device identity...", cmd.OutOrStdout())
	defer cleanup()

	result, err := load(cmd.Context(), env)
	if err != nil {
		return fail(cmd, err)
	}
	Logger.Infof("Identity loaded from %s store", result.Backend)

	spinner.FinalMSG = ui.Tick() + " Device identity\n" +
		fmt.Sprintf("  %-11s %s\n", "Device ID:", ui.Highlight.Sprint(result.DeviceID)) +
		fmt.Sprintf("  %-11s %s\n", "Public key:", result.PublicKey) +
		fmt.Sprintf("  %-11s %s", "Store:", result.Backend)
	return nil
}
