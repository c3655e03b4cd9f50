package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/caselock/internal/workflows"
)

var bundleLabel string

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Share this device's public key",
}

var bundleExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print this device's public key bundle as JSON",
	Long: `Prints a public key bundle that another device can record with
'caselock peer add'. The bundle holds no secret material.

Examples:
  caselock bundle export
  caselock bundle export --label theatre-ipad > theatre-ipad.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting bundle export command")

		env, err := loadEnv()
		if err != nil {
			return fail(cmd, err)
		}
		if _, err := openStore(env); err != nil {
			return fail(cmd, err)
		}

		result, err := workflows.ExportBundle(cmd.Context(), env, workflows.ExportOptions{Label: bundleLabel})
		if err != nil {
			return fail(cmd, err)
		}
		Logger.Infof("Exported bundle with label %q", result.Label)

		fmt.Fprintln(cmd.OutOrStdout(), result.Bundle)
		return nil
	},
}

func init() {
	bundleExportCmd.Flags().StringVarP(&bundleLabel, "label", "l", "", "label to embed (defaults to device.label, then the hostname)")
	bundleCmd.AddCommand(bundleExportCmd)
}

func resetBundleState() {
	bundleLabel = ""
}
