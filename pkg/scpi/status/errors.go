// File: errors.go
// Title: SCPI Error Codes
// Description: Defines the coded error type used throughout the interpreter.
//              Every failure surfaced to the bus controller is one of these
//              entries, queued for retrieval via SYSTem:ERRor:NEXT?. Codes
//              follow the SCPI-1999 standard error numbering.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial error code set

package status

import (
	"errors"
	"fmt"
)

// Error is a coded SCPI error queue entry
type Error struct {
	Code    int
	Message string
}

// Error implements the error interface, using the standard SCPI
// "<code>,<message>" rendering
func (e *Error) Error() string {
	return fmt.Sprintf("%d,\"%s\"", e.Code, e.Message)
}

// Is reports whether target is a SCPI error with the same code, so the
// sentinel values below work with errors.Is even when wrapped via Errorf
func (e *Error) Is(target error) bool {
	var scpiErr *Error
	if !errors.As(target, &scpiErr) {
		return false
	}
	return e.Code == scpiErr.Code
}

// Predefined SCPI errors. The negative codes are fixed by the standard;
// handlers report domain failures with ErrExecution or an Errorf variant.
var (
	// NoError is dequeued from an empty error queue
	NoError = &Error{Code: 0, Message: "No error"}

	// ErrCommand reports an unrecognized command header
	ErrCommand = &Error{Code: -100, Message: "Command error"}

	// ErrSyntax reports a malformed command, including a path that ends
	// on a branch node with no invocable leaf
	ErrSyntax = &Error{Code: -102, Message: "Syntax error"}

	// ErrDataType reports a parameter that cannot be converted
	ErrDataType = &Error{Code: -104, Message: "Data type error"}

	// ErrParameterNotAllowed reports more parameters than the command takes
	ErrParameterNotAllowed = &Error{Code: -108, Message: "Parameter not allowed"}

	// ErrMissingParameter reports fewer parameters than the command takes
	ErrMissingParameter = &Error{Code: -109, Message: "Missing parameter"}

	// ErrExecution reports a failure inside a command handler
	ErrExecution = &Error{Code: -200, Message: "Execution error"}

	// ErrDataOutOfRange reports a numeric parameter outside its bounds
	ErrDataOutOfRange = &Error{Code: -222, Message: "Data out of range"}

	// ErrQueueOverflow replaces the newest entry when the queue is full
	ErrQueueOverflow = &Error{Code: -350, Message: "Queue overflow"}
)

// Errorf builds an Error sharing code with base but carrying a specific
// message, so queued entries can name the offending token
func Errorf(base *Error, format string, args ...interface{}) *Error {
	return &Error{
		Code:    base.Code,
		Message: fmt.Sprintf("%s; %s", base.Message, fmt.Sprintf(format, args...)),
	}
}

// Classify maps an arbitrary error onto a queueable SCPI error. Coded
// errors pass through; anything else becomes an execution error carrying
// the original message.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var scpiErr *Error
	if errors.As(err, &scpiErr) {
		return scpiErr
	}
	return &Error{Code: ErrExecution.Code, Message: fmt.Sprintf("%s; %s", ErrExecution.Message, err.Error())}
}
