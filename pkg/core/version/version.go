// File: version.go
// Title: Central Version Management
// Description: Holds the daemon and protocol version constants reported by
//              the version command and by SYSTem:VERSion?.
// Version: v0.1.0
// Created: 2025-08-26

package version

const (
	// Daemon is the goscpi release version
	Daemon = "0.1.0"

	// SCPI is the SCPI standard revision implemented by the interpreter,
	// reported verbatim by SYSTem:VERSion?
	SCPI = "1999.1"
)
