package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// buildVersion is overridden at link time via -ldflags
// "-X main.buildVersion=...", left as "dev" for a plain `go build`.
var buildVersion = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wdlsem version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), buildVersion)
		return nil
	},
}
