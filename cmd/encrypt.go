package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sealbox/sealbox/internal/audit"
	"github.com/sealbox/sealbox/internal/configs"
	"github.com/sealbox/sealbox/internal/engine"
	serrors "github.com/sealbox/sealbox/internal/errors"
	"github.com/sealbox/sealbox/internal/keysource"
	"github.com/sealbox/sealbox/internal/ui"
	"github.com/sealbox/sealbox/internal/workdir"
)

var (
	encryptKeyFiles   []string
	encryptRecipients []string
	encryptGroups     []string
	encryptInput      string
	encryptOutput     string
)

func init() {
	encryptCmd.Flags().StringSliceVarP(&encryptKeyFiles, "key-file", "k", nil, "public key file or glob pattern (repeatable)")
	encryptCmd.Flags().StringSliceVarP(&encryptRecipients, "recipient", "r", nil, "recipient identifier resolved through key sources (repeatable)")
	encryptCmd.Flags().StringSliceVarP(&encryptGroups, "group", "g", nil, "group name expanded to its members (repeatable)")
	encryptCmd.Flags().StringVarP(&encryptInput, "input", "i", "", "input file (default stdin)")
	encryptCmd.Flags().StringVarP(&encryptOutput, "output", "o", "", "output file (default stdout)")
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt input once for one or more recipients",
	Long: `Encrypts standard input (or --input) with a fresh session key and wraps
that key for every recipient, so any one of them can decrypt the result.

Recipients can be given as explicit key files (--key-file), as identifiers
resolved through the configured key sources (--recipient), or as groups
expanded to their members (--group). All three can be combined.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")
		ctx := cmd.Context()
		spinner, cleanup := startSpinner("Collecting recipient keys...", verbose)
		defer cleanup()

		config, err := configs.Load()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}

		if len(encryptKeyFiles)+len(encryptRecipients)+len(encryptGroups) == 0 {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " No recipients specified\n" +
				ui.Info.Sprint("→") + " Use " + ui.Code.Sprint("--recipient") + ", " +
				ui.Code.Sprint("--group") + ", or " + ui.Code.Sprint("--key-file")
			return serrors.ErrNoRecipients
		}

		materials, err := collectMaterials(cmd, config)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to collect recipient keys: %v", err)
		}
		Logger.Debugf("Collected key material for %d recipient sources", len(materials))

		work, err := workdir.New()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to create working directory: %v", err)
		}
		defer func() {
			if err := work.Release(); err != nil {
				Logger.Warnf("failed to remove working directory: %v", err)
			}
		}()
		// Signal-driven exits release the workdir too.
		go func() {
			<-ctx.Done()
			_ = work.Release()
		}()

		input, inputName, err := openInput(encryptInput)
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}
		defer input.Close()

		// The envelope is buffered so a failed encrypt never touches a
		// pre-existing file at the output path.
		var sealed bytes.Buffer

		spinner.Suffix = " Encrypting..."
		result, err := engine.Encrypt(ctx, engine.EncryptOptions{
			Keys:      materials,
			Input:     input,
			InputName: inputName,
			Output:    &sealed,
			Work:      work,
			Logger:    Logger,
		})
		if err != nil {
			audit.Log(audit.Entry{Operation: "encrypt", Error: err.Error()})
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Encryption failed\n" +
				ui.Error.Sprint("Error: ") + err.Error()
			return err
		}

		output, err := openOutput(encryptOutput)
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}
		if _, err := output.Write(sealed.Bytes()); err != nil {
			output.Close()
			return Logger.ErrorfAndReturn("failed to write envelope: %v", err)
		}
		if err := output.Close(); err != nil {
			return Logger.ErrorfAndReturn("failed to write envelope: %v", err)
		}

		entry := audit.Entry{
			Operation:  "encrypt",
			Payload:    result.PayloadName,
			Recipients: len(result.Recipients),
			Skipped:    len(result.Skipped),
		}
		if encryptInput != "" {
			entry.Inputs = []string{encryptInput}
		}
		audit.Log(entry)

		Logger.Infof("Encrypt command completed successfully for %d recipients", len(result.Recipients))
		finalMessage := ui.Success.Sprint("✓") + fmt.Sprintf(" Encrypted %s for %d recipient key(s)",
			ui.Highlight.Sprint(result.PayloadName), len(result.Recipients))
		if len(result.Skipped) > 0 {
			finalMessage += "\n" + ui.Info.Sprint("→") + fmt.Sprintf(" Skipped %d unusable key(s), see warnings above", len(result.Skipped))
		}
		if encryptOutput != "" {
			finalMessage += "\n" + ui.Info.Sprint("→") + " Envelope written to " + ui.Path.Sprint(encryptOutput)
		}
		spinner.FinalMSG = finalMessage
		return nil
	},
}

// collectMaterials gathers raw key text from explicit key files, resolved
// recipients, and expanded groups, in that order.
func collectMaterials(cmd *cobra.Command, config *configs.Config) ([]keysource.Material, error) {
	ctx := cmd.Context()

	var materials []keysource.Material

	if len(encryptKeyFiles) > 0 {
		Logger.Debugf("Reading %d key file pattern(s)", len(encryptKeyFiles))
		fromFiles, err := keysource.ReadKeyFiles(encryptKeyFiles)
		if err != nil {
			return nil, err
		}
		materials = append(materials, fromFiles...)
	}

	resolver := keysource.Chain{
		keysource.FileProvider{Template: config.Keys.RecipientTemplate},
	}
	if config.Directory.URL != "" {
		Logger.Debugf("Directory service enabled: %s", config.Directory.URL)
		resolver = append(resolver, keysource.NewDirectoryProvider(config.Directory.URL))
	}

	for _, recipient := range encryptRecipients {
		text, err := resolver.Lookup(ctx, recipient)
		if err != nil {
			return nil, fmt.Errorf("looking up %s: %w", recipient, err)
		}
		materials = append(materials, keysource.Material{Label: recipient, Text: text})
	}

	groups := keysource.GroupProvider{Members: resolver, GroupFile: config.Groups.File}
	for _, group := range encryptGroups {
		text, err := groups.Lookup(ctx, group)
		if err != nil {
			return nil, err
		}
		materials = append(materials, keysource.Material{Label: group, Text: text})
	}

	return materials, nil
}
