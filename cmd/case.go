package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/caselock/internal/ui"
	"github.com/PolarWolf314/caselock/internal/utils"
	"github.com/PolarWolf314/caselock/internal/workflows"
)

// caseKeyEnv supplies --key when the flag is not given, keeping keys out of
// shell history.
const caseKeyEnv = "CASELOCK_CASE_KEY"

var (
	caseKey     string
	caseTo      string
	caseID      string
	caseNewJSON bool
)

var caseCmd = &cobra.Command{
	Use:   "case",
	Short: "Create case keys, encrypt payloads and share keys",
	Long: `Each clinical case has its own 32-byte key. Payloads are sealed under it
with XChaCha20-Poly1305 and the key itself is shared by wrapping it for one
other device.

The case key is read from --key, or from the ` + caseKeyEnv + ` environment variable.`,
}

var caseNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a case id and case key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting case new command")

		env, err := loadEnv()
		if err != nil {
			return fail(cmd, err)
		}
		result, err := workflows.NewCase(cmd.Context(), env)
		if err != nil {
			return fail(cmd, err)
		}

		out := cmd.OutOrStdout()
		if caseNewJSON {
			data, err := json.Marshal(map[string]string{"caseId": result.CaseID, "caseKey": result.CaseKey})
			if err != nil {
				return fmt.Errorf("failed to marshal case to JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		fmt.Fprintf(out, "case id:  %s\ncase key: %s\n", result.CaseID, ui.Key.Sprint(result.CaseKey))
		return nil
	},
}

var caseEncryptCmd = &cobra.Command{
	Use:   "encrypt [plaintext|-]",
	Short: "Encrypt a payload under a case key",
	Long: `Prints a case:v1:<nonce>:<ciphertext> envelope. Every call uses a fresh
nonce, so encrypting the same text twice gives different envelopes.

Examples:
  caselock case encrypt --key $KEY "BMI: 27.4"
  echo "BMI: 27.4" | caselock case encrypt --key $KEY`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting case encrypt command")

		key, err := resolveCaseKey()
		if err != nil {
			return fail(cmd, err)
		}
		plaintext, err := utils.ArgOrStdin(args)
		if err != nil {
			return fail(cmd, err)
		}

		sealed, err := workflows.EncryptPayload(cmd.Context(), workflows.EncryptOptions{Plaintext: plaintext, CaseKey: key})
		if err != nil {
			return fail(cmd, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), sealed)
		return nil
	},
}

var caseDecryptCmd = &cobra.Command{
	Use:   "decrypt [envelope|-]",
	Short: "Decrypt a payload envelope",
	Long: `Opens a case:v1 envelope. Values without the case:v1 tag are legacy
plaintext and are printed unchanged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting case decrypt command")

		key, err := resolveCaseKey()
		if err != nil {
			return fail(cmd, err)
		}
		envelope, err := utils.ArgOrStdin(args)
		if err != nil {
			return fail(cmd, err)
		}

		result, err := workflows.DecryptPayload(cmd.Context(), workflows.DecryptOptions{Envelope: envelope, CaseKey: key})
		if err != nil {
			return fail(cmd, err)
		}
		if result.Legacy {
			Logger.Warnf("Input is not an encrypted envelope, printing it unchanged")
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Plaintext)
		return nil
	},
}

var caseWrapCmd = &cobra.Command{
	Use:   "wrap",
	Short: "Wrap a case key for another device",
	Long: `Encrypts the case key for one recipient and prints the envelope JSON.
--to accepts a peer device id, a unique peer label or a raw public key.

Examples:
  caselock case wrap --key $KEY --to theatre-ipad
  caselock case wrap --key $KEY --to 3f1c...e9 --case 6d0b...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting case wrap command")

		key, err := resolveCaseKey()
		if err != nil {
			return fail(cmd, err)
		}
		env, err := loadEnv()
		if err != nil {
			return fail(cmd, err)
		}
		if _, err := openStore(env); err != nil {
			return fail(cmd, err)
		}

		spinner, cleanup := startSpinner("Wrapping case key...", cmd.ErrOrStderr())
		defer cleanup()

		result, err := workflows.WrapCaseKey(cmd.Context(), env, workflows.WrapOptions{
			CaseKey:   key,
			Recipient: caseTo,
			CaseID:    caseID,
		})
		if err != nil {
			return fail(cmd, err)
		}

		recipient := result.RecipientLabel
		if recipient == "" {
			recipient = result.RecipientDeviceID
		}
		if recipient == "" {
			recipient = "public key " + utils.ShortID(strings.ToLower(caseTo))
		}
		Logger.Infof("Wrapped case key for %s", recipient)

		fmt.Fprintln(cmd.OutOrStdout(), result.Envelope)
		spinner.FinalMSG = ui.Tick() + " Case key wrapped for " + ui.Highlight.Sprint(recipient)
		return nil
	},
}

var caseUnwrapCmd = &cobra.Command{
	Use:   "unwrap [envelope-json|-]",
	Short: "Recover a case key wrapped for this device",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting case unwrap command")

		raw, err := utils.ArgOrStdin(args)
		if err != nil {
			return fail(cmd, err)
		}
		env, err := loadEnv()
		if err != nil {
			return fail(cmd, err)
		}
		if _, err := openStore(env); err != nil {
			return fail(cmd, err)
		}

		spinner, cleanup := startSpinner("Unwrapping case key...", cmd.ErrOrStderr())
		defer cleanup()

		result, err := workflows.UnwrapCaseKey(cmd.Context(), env, raw)
		if err != nil {
			return fail(cmd, err)
		}

		if !result.KnownSender {
			Logger.WarnfAlways("sender %s is not in your peer directory", result.SenderDeviceID)
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.CaseKey)
		sender := result.SenderLabel
		if sender == "" {
			sender = result.SenderDeviceID
		}
		spinner.FinalMSG = ui.Tick() + " Case key from " + ui.Highlight.Sprint(sender)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{caseEncryptCmd, caseDecryptCmd, caseWrapCmd} {
		c.Flags().StringVarP(&caseKey, "key", "k", "", "case key as 64 hex characters (or set "+caseKeyEnv+")")
	}
	caseWrapCmd.Flags().StringVar(&caseTo, "to", "", "recipient device id, label or public key")
	caseWrapCmd.Flags().StringVar(&caseID, "case", "", "case id to record in the audit log")
	_ = caseWrapCmd.MarkFlagRequired("to")
	caseNewCmd.Flags().BoolVar(&caseNewJSON, "json", false, "output as JSON")

	caseCmd.AddCommand(caseNewCmd)
	caseCmd.AddCommand(caseEncryptCmd)
	caseCmd.AddCommand(caseDecryptCmd)
	caseCmd.AddCommand(caseWrapCmd)
	caseCmd.AddCommand(caseUnwrapCmd)
}

func resetCaseState() {
	caseKey = ""
	caseTo = ""
	caseID = ""
	caseNewJSON = false
}

// resolveCaseKey returns --key, falling back to the environment.
func resolveCaseKey() (string, error) {
	if caseKey != "" {
		return caseKey, nil
	}
	if key := os.Getenv(caseKeyEnv); key != "" {
		Logger.Debugf("Using case key from %s", caseKeyEnv)
		return key, nil
	}
	return "", fmt.Errorf("no case key given: pass --key or set %s", caseKeyEnv)
}
