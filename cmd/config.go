package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sealbox/sealbox/internal/configs"
	"github.com/sealbox/sealbox/internal/ui"
)

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	RootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage sealbox configuration",
	Long:  `Inspect and initialize the sealbox configuration file.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the configuration file with current defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")

		path, err := configs.ConfigPath()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to locate config path: %v", err)
		}
		if _, err := os.Stat(path); err == nil {
			fmt.Println(ui.Error.Sprint("✗") + " Config file already exists at " + ui.Path.Sprint(path))
			fmt.Println(ui.Info.Sprint("→") + " Edit it directly, or remove it and rerun " + ui.Code.Sprint("sealbox config init"))
			return nil
		}

		config, err := configs.Load()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to build default configuration: %v", err)
		}
		if err := configs.Save(config); err != nil {
			return Logger.ErrorfAndReturn("failed to write config: %v", err)
		}

		fmt.Println(ui.Success.Sprint("✓") + " Config written to " + ui.Path.Sprint(path))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		config, err := configs.Load()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}
		path, err := configs.ConfigPath()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to locate config path: %v", err)
		}

		fmt.Println("Config file: " + ui.Path.Sprint(path))
		fmt.Println("  private key:        " + config.Keys.PrivateKeyPath)
		fmt.Println("  recipient template: " + config.Keys.RecipientTemplate)
		fmt.Println("  group file:         " + config.Groups.File)
		if config.Directory.URL != "" {
			fmt.Println("  directory service:  " + config.Directory.URL)
		} else {
			fmt.Println("  directory service:  " + ui.Muted.Sprint("disabled"))
		}
		return nil
	},
}
