package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "warcserve",
	Short: "Restored-archive mirror server",
	Long: `warcserve serves a restored snapshot of the archived cdc.gov web
properties out of a local key-value database, rewriting links so the
mirrored site is self-contained.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
