// File: main.go
// Title: scpid Entry Point
// Description: Starts the scpid command line interface.
// Version: v0.1.0
// Created: 2025-08-26

package main

import (
	"os"

	"github.com/stonerlab/goscpi/cmd/scpid/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
