package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=..."
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print the version",
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "yt-web-downloader", Version)
	},
}
