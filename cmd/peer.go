package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/caselock/internal/peers"
	"github.com/PolarWolf314/caselock/internal/ui"
	"github.com/PolarWolf314/caselock/internal/utils"
	"github.com/PolarWolf314/caselock/internal/workflows"
)

var (
	peerReplace  bool
	peerListJSON bool
)

var peerCmd = &cobra.Command{
	Use:   "peer",
	Short: "Manage the devices you share case keys with",
	Long: `The peer directory records public key bundles received from other
devices so they can be addressed by device id or label.`,
}

var peerAddCmd = &cobra.Command{
	Use:   "add [bundle-json|-]",
	Short: "Record another device's public key bundle",
	Long: `Parses a public key bundle and stores it in the peer directory. Pass the
bundle JSON as an argument, or pipe it on stdin.

Examples:
  caselock peer add '{"version":1,"deviceId":"...","publicKey":"..."}'
  caselock peer add < theatre-ipad.json
  caselock peer add --replace < theatre-ipad.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting peer add command")

		raw, err := utils.ArgOrStdin(args)
		if err != nil {
			return fail(cmd, err)
		}
		env, err := loadEnv()
		if err != nil {
			return fail(cmd, err)
		}

		peer, err := workflows.AddPeer(cmd.Context(), env, workflows.PeerAddOptions{Bundle: raw, Replace: peerReplace})
		if err != nil {
			return fail(cmd, err)
		}
		Logger.Infof("Peer %s stored in %s", peer.DeviceID, env.Settings.PeersPath())

		fmt.Fprintln(cmd.OutOrStdout(), ui.Tick()+" Added peer "+peerName(*peer))
		return nil
	},
}

var peerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known peers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting peer list command")

		env, err := loadEnv()
		if err != nil {
			return fail(cmd, err)
		}
		list, err := workflows.ListPeers(cmd.Context(), env)
		if err != nil {
			return fail(cmd, err)
		}
		Logger.Debugf("Loaded %d peers", len(list))

		out := cmd.OutOrStdout()
		if peerListJSON {
			data, err := json.MarshalIndent(list, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal peers to JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if len(list) == 0 {
			fmt.Fprintln(out, "No peers found.")
			fmt.Fprintln(out, ui.Arrow()+" Add one with "+ui.Code.Sprint("caselock peer add"))
			return nil
		}
		for _, p := range list {
			label := p.Label
			if label == "" {
				label = "-"
			}
			fmt.Fprintf(out, "%-20s  %-32s  %s  %s\n", label, p.DeviceID, utils.ShortID(p.PublicKey), p.AddedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var peerRemoveCmd = &cobra.Command{
	Use:   "remove <device-id|label>",
	Short: "Forget a peer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting peer remove command")

		env, err := loadEnv()
		if err != nil {
			return fail(cmd, err)
		}
		peer, err := workflows.RemovePeer(cmd.Context(), env, args[0])
		if err != nil {
			return fail(cmd, err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Tick()+" Removed peer "+peerName(*peer))
		return nil
	},
}

func init() {
	peerAddCmd.Flags().BoolVar(&peerReplace, "replace", false, "overwrite an existing entry for the same device")
	peerListCmd.Flags().BoolVar(&peerListJSON, "json", false, "output as JSON array")

	peerCmd.AddCommand(peerAddCmd)
	peerCmd.AddCommand(peerListCmd)
	peerCmd.AddCommand(peerRemoveCmd)
}

func resetPeerState() {
	peerReplace = false
	peerListJSON = false
}

func peerName(p peers.Peer) string {
	if p.Label == "" {
		return ui.Highlight.Sprint(p.DeviceID)
	}
	return ui.Highlight.Sprint(p.Label) + " " + ui.Muted.Sprint(p.DeviceID)
}
