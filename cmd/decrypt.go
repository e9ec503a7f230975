package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sealbox/sealbox/internal/audit"
	"github.com/sealbox/sealbox/internal/configs"
	"github.com/sealbox/sealbox/internal/engine"
	serrors "github.com/sealbox/sealbox/internal/errors"
	"github.com/sealbox/sealbox/internal/keys"
	"github.com/sealbox/sealbox/internal/ui"
	"github.com/sealbox/sealbox/internal/version"
)

var (
	decryptKeyFile string
	decryptInput   string
	decryptOutput  string
	decryptExpert  bool
)

func init() {
	decryptCmd.Flags().StringVarP(&decryptKeyFile, "key-file", "k", "", "private key file (default from config)")
	decryptCmd.Flags().StringVarP(&decryptInput, "input", "i", "", "envelope file (default stdin)")
	decryptCmd.Flags().StringVarP(&decryptOutput, "output", "o", "", "output file (default stdout)")
	decryptCmd.Flags().BoolVar(&decryptExpert, "expert", false, "skip the version compatibility check")

	// Recipient selection belongs to encrypt; accept the flags so the
	// mistake gets a specific diagnosis instead of a usage dump.
	decryptCmd.Flags().StringSlice("recipient", nil, "")
	decryptCmd.Flags().StringSlice("group", nil, "")
	_ = decryptCmd.Flags().MarkHidden("recipient")
	_ = decryptCmd.Flags().MarkHidden("group")
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt an envelope with your private key",
	Long: `Reads an envelope from standard input (or --input), finds the wrapped
session key matching your private key's fingerprint, and writes the
decrypted payload.

Keys protected by a passphrase prompt for it on the controlling terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")
		ctx := cmd.Context()

		if cmd.Flags().Changed("recipient") || cmd.Flags().Changed("group") {
			Logger.Errorf("%v", serrors.ErrConflictingFlags)
			return serrors.ErrConflictingFlags
		}

		config, err := configs.Load()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}

		keyPath := decryptKeyFile
		if keyPath == "" {
			keyPath = config.Keys.PrivateKeyPath
		}
		Logger.Debugf("Loading private key from: %s", keyPath)
		material, err := os.ReadFile(keyPath)
		if err != nil {
			return Logger.ErrorfAndReturn("%v: %s: %v", serrors.ErrKeyFileUnreadable, keyPath, err)
		}

		input, _, err := openInput(decryptInput)
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}
		defer input.Close()

		// Plaintext is buffered so a failed decrypt never touches a
		// pre-existing file at the output path.
		var plaintext bytes.Buffer

		// No spinner here: the passphrase prompt needs the terminal.
		result, err := engine.Decrypt(ctx, engine.DecryptOptions{
			PrivateKey: material,
			Prompt:     keys.TerminalPrompt,
			Input:      input,
			Output:     &plaintext,
			Expert:     decryptExpert,
			Logger:     Logger,
		})
		if err != nil {
			audit.Log(audit.Entry{Operation: "decrypt", Error: err.Error()})
			return decryptFailure(err)
		}

		output, err := openOutput(decryptOutput)
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}
		if _, err := output.Write(plaintext.Bytes()); err != nil {
			output.Close()
			return Logger.ErrorfAndReturn("failed to write plaintext: %v", err)
		}
		if err := output.Close(); err != nil {
			return Logger.ErrorfAndReturn("failed to write plaintext: %v", err)
		}

		audit.Log(audit.Entry{
			Operation:   "decrypt",
			Payload:     result.PayloadName,
			Fingerprint: result.Fingerprint,
			Producer:    result.Producer,
		})

		Logger.Infof("Decrypt command completed successfully")
		message := ui.Success.Sprint("✓") + " Decrypted " + ui.Highlight.Sprint(result.PayloadName) +
			" with key " + ui.Highlight.Sprint(result.Fingerprint)
		if decryptOutput != "" {
			message += "\n" + ui.Info.Sprint("→") + " Plaintext written to " + ui.Path.Sprint(decryptOutput)
		}
		fmt.Fprintln(os.Stderr, message)
		return nil
	},
}

// decryptFailure prints a targeted hint for the well-known failure modes
// before handing the error back for a non-zero exit.
func decryptFailure(err error) error {
	switch {
	case errors.Is(err, serrors.ErrNotForThisKey):
		fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" This envelope was not encrypted for your key\n"+
			ui.Error.Sprint("Error: ")+err.Error())
	case errors.Is(err, serrors.ErrIncompatibleVersion):
		fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" This envelope was produced for a different version of sealbox\n"+
			ui.Error.Sprint("Error: ")+err.Error()+"\n"+
			ui.Info.Sprint("→")+" This copy is "+version.Current+"; rerun with "+ui.Code.Sprint("--expert")+" to try anyway")
	case errors.Is(err, serrors.ErrNoTerminal):
		fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" Your private key needs a passphrase, but no terminal is attached\n"+
			ui.Error.Sprint("Error: ")+err.Error())
	default:
		fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" Decryption failed\n"+
			ui.Error.Sprint("Error: ")+err.Error())
	}
	return err
}
