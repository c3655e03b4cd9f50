package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/PolarWolf314/caselock/internal/configs"
	kerrors "github.com/PolarWolf314/caselock/internal/errors"
	logger "github.com/PolarWolf314/caselock/internal/logging"
	"github.com/PolarWolf314/caselock/internal/securestore"
	"github.com/PolarWolf314/caselock/internal/ui"
	"github.com/PolarWolf314/caselock/internal/utils"
	"github.com/PolarWolf314/caselock/internal/workflows"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	RootCmd = &cobra.Command{
		Use:   "caselock",
		Short: "caselock - end-to-end encryption for clinical case logs",
		Long: `caselock encrypts case log payloads under a per-case key and shares that
key with another device through a static X25519 key agreement.

Typical flow:
  caselock identity init                 # create this device's key pair
  caselock bundle export > me.json       # send to the other device
  caselock peer add < them.json          # record the other device
  caselock case new                      # new case id and key
  caselock case encrypt --key <k> "BMI: 27.4"
  caselock case wrap --key <k> --to <peer>

Run 'caselock help <command>' for more details on a specific command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Diagnostics go to stderr so command output can be piped.
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
				Out:     cmd.ErrOrStderr(),
				Err:     cmd.ErrOrStderr(),
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(identityCmd)
	RootCmd.AddCommand(bundleCmd)
	RootCmd.AddCommand(peerCmd)
	RootCmd.AddCommand(caseCmd)
	RootCmd.AddCommand(configCmd)
	RootCmd.AddCommand(logCmd)
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

// reportedError marks an error whose message was already shown to the user.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

func reported(err error) error {
	return reportedError{err}
}

// IsReported reports whether err was already printed by a command.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// loadEnv loads settings and config for a command.
func loadEnv() (*workflows.Env, error) {
	Logger.Debugf("Resolving settings")
	env, err := workflows.LoadEnv(workflows.EnvOptions{Prompt: keyringPrompt})
	if err != nil {
		return nil, err
	}
	Logger.Debugf("Config: %s, data dir: %s", env.Settings.ConfigPath(), env.Settings.DataDir)
	return env, nil
}

// openStore opens the secure store and warns when it is not encrypted at rest.
func openStore(env *workflows.Env) (securestore.Store, error) {
	Logger.Debugf("Opening %s store", env.Config.Store.Backend)
	store, err := env.Store()
	if err != nil {
		return nil, err
	}
	if !store.Secure() {
		Logger.WarnfAlways("the %s store backend does not encrypt keys at rest", env.Config.Store.Backend)
	}
	return store, nil
}

// keyringPrompt stops any running spinner before asking for the keyring
// file backend password.
func keyringPrompt(prompt string) (string, error) {
	if activeSpinner != nil {
		activeSpinner.Stop()
	}
	return utils.KeyringPrompt(prompt)
}

// formatError maps sentinel errors to user-facing messages.
func formatError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrAuthFailed):
		return ui.Cross() + " Authentication failed: the data was modified or the key is wrong"

	case errors.Is(err, kerrors.ErrNotRecipient):
		return ui.Cross() + " This envelope was wrapped for another device\n" +
			ui.Arrow() + " Run " + ui.Code.Sprint("caselock identity show") + " and compare the public key with " + ui.Flag.Sprint("recipientPublicKey")

	case errors.Is(err, kerrors.ErrPeerNotFound):
		return ui.Cross() + " " + err.Error() + "\n" +
			ui.Arrow() + " Add the device with " + ui.Code.Sprint("caselock peer add") + " or pass its public key"

	case errors.Is(err, kerrors.ErrPeerExists):
		return ui.Cross() + " " + err.Error() + "\n" +
			ui.Arrow() + " Use " + ui.Flag.Sprint("--replace") + " to overwrite it"

	case errors.Is(err, kerrors.ErrInvalidBundle):
		return ui.Cross() + " Not a valid public key bundle\n" +
			ui.Arrow() + " Export one with " + ui.Code.Sprint("caselock bundle export")

	case errors.Is(err, kerrors.ErrUnknownBackend):
		return ui.Cross() + " " + err.Error() + "\n" +
			ui.Arrow() + " Valid backends: " + configs.BackendKeyring + ", " + configs.BackendFile + ", " + configs.BackendMemory

	case errors.Is(err, kerrors.ErrStorage):
		return ui.Cross() + " Secure storage unavailable\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrInvalidKeyLength), errors.Is(err, kerrors.ErrInvalidKeyEncoding):
		return ui.Cross() + " Invalid case key: expected 64 hex characters\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	default:
		return ui.Cross() + " " + err.Error()
	}
}

// fail prints err for the user and returns it marked as reported.
func fail(cmd *cobra.Command, err error) error {
	Logger.Errorf("%s failed: %v", cmd.CommandPath(), err)
	if activeSpinner != nil {
		activeSpinner.Stop()
	}
	fmt.Fprintln(cmd.ErrOrStderr(), formatError(err))
	return reported(err)
}

// Helper functions for testing

// ResetGlobalState resets all global variables and flags to their defaults.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetCommandFlags(RootCmd)
	resetCaseState()
	resetPeerState()
	resetLogState()
	resetBundleState()
	resetConfigState()
}

// resetCommandFlags restores every flag in the tree to its default value.
func resetCommandFlags(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetCommandFlags(child)
	}
}

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}

