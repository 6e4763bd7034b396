// File: version.go
// Title: scpid Version Command
// Description: Prints daemon and SCPI standard version information.
// Version: v0.1.0
// Created: 2025-08-26

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/stonerlab/goscpi/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scpid v%s\n", version.Daemon)
		fmt.Printf("  SCPI Version: %s\n", version.SCPI)
		fmt.Printf("  Go Version:   %s\n", runtime.Version())
		fmt.Printf("  OS/Arch:      %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
