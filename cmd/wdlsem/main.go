// Command wdlsem is a thin CLI over the wdlsem analyzer package: it
// drives the Public API against real filesystem source, prints
// diagnostics, and reads project defaults from an optional wdlsem.toml,
// the way vovakirdan-surge's cmd/surge wraps its own driver package.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wdlsem",
	Short: "Static semantic analyzer for WDL",
	Long:  `wdlsem type-checks WDL documents and their imports and reports diagnostics.`,
}

func main() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
