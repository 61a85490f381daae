package main

import (
	"fmt"
	"runtime"

	"tilseg/internal/version"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
		fmt.Fprintf(cmd.OutOrStdout(), "  Go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
