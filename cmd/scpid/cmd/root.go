// File: root.go
// Title: scpid Root Command
// Description: Defines the root cobra command and the persistent flags
//              shared by all subcommands.
// Version: v0.1.0
// Created: 2025-08-26

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "scpid",
	Short: "SCPI instrument daemon",
	Long: `scpid hosts a SCPI-1999 instrument behind line-oriented transports.

The daemon compiles a SCPI command tree (IEEE-488.2 common commands, the
mandatory SYSTem/STATus subsystems and the embedded instrument's own
commands) and serves it over raw TCP and/or WebSocket, one session per
connection.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
