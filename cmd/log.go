package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/caselock/internal/audit"
	kerrors "github.com/PolarWolf314/caselock/internal/errors"
	"github.com/PolarWolf314/caselock/internal/utils"
	"github.com/PolarWolf314/caselock/internal/workflows"
)

var (
	logLimit     int
	logReverse   bool
	logPeer      string
	logOperation string
	logSince     string
	logUntil     string
	logOneline   bool
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logPeer, "peer", "", "filter by peer device id or label")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "compact one-line format")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

func resetLogState() {
	logLimit = 0
	logReverse = false
	logPeer = ""
	logOperation = ""
	logSince = ""
	logUntil = ""
	logOneline = false
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the local audit log of key management operations. The log
never contains keys, ciphertext or plaintext.

Examples:
  caselock log                              # View full log
  caselock log -n 10                        # Last 10 entries
  caselock log --reverse                    # Most recent first
  caselock log --peer theatre-ipad          # Filter by peer
  caselock log --operation "case wrap"      # Filter by operation
  caselock log --since 2026-01-01           # Filter by date
  caselock log --json                       # JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, _ []string) error {
	Logger.Infof("Reading audit log")

	env, err := loadEnv()
	if err != nil {
		return fail(cmd, err)
	}

	opts := workflows.LogOptions{
		Limit:      logLimit,
		Reverse:    logReverse,
		Peer:       logPeer,
		Operations: logOperation,
		Since:      logSince,
		Until:      logUntil,
	}
	result, err := workflows.Log(cmd.Context(), env, opts)
	if err != nil {
		if !errors.Is(err, kerrors.ErrInvalidDateFormat) {
			err = fmt.Errorf("failed to read audit log: %w", err)
		}
		return fail(cmd, err)
	}
	Logger.Debugf("%s: %d of %d entries kept", result.Path, len(result.Entries), result.TotalEntriesBeforeFilter)

	out := cmd.OutOrStdout()
	printer := logPrinter()

	// JSON consumers always get an array.
	if len(result.Entries) == 0 && !logJSON {
		msg := "No audit log entries found."
		if result.TotalEntriesBeforeFilter > 0 {
			msg = "No audit log entries found matching the filters."
		}
		fmt.Fprintln(out, msg)
		return nil
	}

	return printer(out, result.Entries)
}

// logPrinter picks the output format from the command flags.
func logPrinter() func(io.Writer, []audit.Entry) error {
	switch {
	case logJSON:
		return printLogJSON
	case logOneline:
		return printLogOneline
	default:
		return printLogTable
	}
}

func printLogJSON(out io.Writer, entries []audit.Entry) error {
	if entries == nil {
		entries = []audit.Entry{}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding log entries: %w", err)
	}
	return nil
}

func printLogOneline(out io.Writer, entries []audit.Entry) error {
	for _, e := range entries {
		line := strings.TrimSpace(strings.Join([]string{
			workflows.FormatDate(e.Timestamp), e.Operation, workflows.FormatDetails(e),
		}, " "))
		fmt.Fprintln(out, line)
	}
	return nil
}

func printLogTable(out io.Writer, entries []audit.Entry) error {
	for _, e := range entries {
		fmt.Fprintf(out, "%-19s  %-13s  %-13s  %s\n",
			workflows.FormatDateTime(e.Timestamp),
			utils.ShortID(e.Device),
			e.Operation,
			workflows.FormatDetails(e))
	}
	return nil
}
