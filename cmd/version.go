package cmd

import (
	"fmt"
	"runtime"

	"github.com/fbz-tec/csvstream/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "csvstream %s (commit %s, built %s, %s/%s)\n",
			version.AppVersion, version.GitCommit, version.BuildTime, runtime.GOOS, runtime.GOARCH)
	},
}
