package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sealbox/sealbox/internal/audit"
	"github.com/sealbox/sealbox/internal/ui"
)

var (
	logLimit     int
	logOperation string
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown (most recent)")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation (encrypt or decrypt)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")

	RootCmd.AddCommand(logCmd)
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the audit log of encrypt and decrypt operations.

Examples:
  sealbox log                      # View full log
  sealbox log -n 10                # Last 10 entries
  sealbox log --operation decrypt  # Only decrypt operations
  sealbox log --json               # JSON output`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting log command")

		entries, err := audit.ReadEntries()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read audit log: %v", err)
		}
		Logger.Debugf("Parsed %d entries from audit log", len(entries))

		if logOperation != "" {
			filtered := entries[:0]
			for _, e := range entries {
				if e.Operation == logOperation {
					filtered = append(filtered, e)
				}
			}
			entries = filtered
		}
		if logLimit > 0 && len(entries) > logLimit {
			entries = entries[len(entries)-logLimit:]
		}

		if len(entries) == 0 {
			fmt.Println("No audit log entries found.")
			return nil
		}

		if logJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		for _, e := range entries {
			fmt.Println(formatLogEntry(e))
		}
		return nil
	},
}

func formatLogEntry(e audit.Entry) string {
	var b strings.Builder
	b.WriteString(ui.Muted.Sprint(e.Timestamp))
	b.WriteString(" ")
	b.WriteString(ui.Highlight.Sprint(e.User))
	b.WriteString(" ")
	b.WriteString(e.Operation)

	switch {
	case e.Error != "":
		b.WriteString(" ")
		b.WriteString(ui.Error.Sprint("failed"))
		b.WriteString(": " + e.Error)
	case e.Operation == "encrypt":
		b.WriteString(fmt.Sprintf(" %s for %d recipient key(s)", ui.Path.Sprint(e.Payload), e.Recipients))
		if e.Skipped > 0 {
			b.WriteString(fmt.Sprintf(", %d skipped", e.Skipped))
		}
	case e.Operation == "decrypt":
		b.WriteString(fmt.Sprintf(" %s with key %s", ui.Path.Sprint(e.Payload), ui.Highlight.Sprint(e.Fingerprint)))
	}
	return b.String()
}
