// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit hash, build date, and Go runtime details.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("api2test %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		cmd.Printf("%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
