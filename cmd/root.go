package cmd

import (
	logger "github.com/sealbox/sealbox/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	RootCmd = &cobra.Command{
		Use:   "sealbox",
		Short: "Encrypt files for multiple recipients using their SSH keys",
		Long: `Sealbox encrypts a file once and wraps the encryption key for any number
of recipients, identified by their SSH public keys. Any listed recipient
can decrypt with their own private key; nobody else can.

The output is a plain-text envelope that survives mail clients, pastebins,
and version control.

Usage:
  sealbox <command> [flags]

Available Commands:
  encrypt    Encrypt input for one or more recipients
  decrypt    Decrypt an envelope with your private key
  version    Show version and compatibility information

Run 'sealbox help <command>' for more details on a specific command.
`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing sealbox with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(encryptCmd)
	RootCmd.AddCommand(decryptCmd)
	RootCmd.AddCommand(versionCmd)
}
