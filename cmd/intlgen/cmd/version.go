package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"intlpipe/internal/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build details of intlgen.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Get().Full())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
