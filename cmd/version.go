package cmd

import (
	"fmt"

	"github.com/ethanolivertroy/dep-inventory/internal/build"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the application version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dep-inventory version %s\n", build.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
