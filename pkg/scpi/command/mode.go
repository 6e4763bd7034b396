// File: mode.go
// Title: Command Concurrency Modes
// Description: Defines the three dispatch disciplines a command leaf can be
//              tagged with. The mode is declared per registration entry; the
//              zero value is synchronous execution.
// Version: v0.1.0
// Created: 2025-08-26

package command

// Mode selects the concurrency discipline a leaf is dispatched under
type Mode int

const (
	// Sync runs the handler to completion on the session control flow
	// before the next command is processed. Handlers must be quick since
	// they hold up all further command processing.
	Sync Mode = iota

	// Background schedules the handler as an independent task and returns
	// immediately; the task is tracked in the task registry and runs
	// concurrently with subsequent commands.
	Background

	// Blocking runs the handler to completion before the next input line
	// is read, but already-running background tasks keep making progress
	// while it waits. Used by commands such as *WAI and *OPC? that must
	// hold off new input without starving in-flight work.
	Blocking
)

// String returns the mode name used in logs
func (m Mode) String() string {
	switch m {
	case Sync:
		return "sync"
	case Background:
		return "background"
	case Blocking:
		return "blocking"
	default:
		return "unknown"
	}
}
