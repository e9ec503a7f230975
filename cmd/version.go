package cmd

import (
	"fmt"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/sealbox/sealbox/internal/ui"
	"github.com/sealbox/sealbox/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and compatibility information",
	Run: func(cmd *cobra.Command, args []string) {
		banner := figure.NewColorFigure("sealbox", "alligator2", "green", true)
		banner.Print()
		fmt.Println()

		fmt.Printf("%s %s\n", ui.Success.Sprint("sealbox"), ui.Highlight.Sprint(version.Current))
		fmt.Printf("%s encrypts for versions:  %s\n", ui.Info.Sprint("→"), strings.Join(version.EncryptFor, ", "))
		fmt.Printf("%s decrypts from versions: %s\n", ui.Info.Sprint("→"), strings.Join(version.DecryptFrom, ", "))
	},
}
