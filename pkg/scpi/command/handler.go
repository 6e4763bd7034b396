// File: handler.go
// Title: Command Handler Contract
// Description: Defines the handler signature shared by all command leaves
//              and the Invocation passed to a handler: the converted typed
//              parameters plus a reply channel back to the session that
//              issued the command.
// Version: v0.1.0
// Created: 2025-08-26

package command

import (
	"context"
	"fmt"
)

// HandlerFunc is the callable bound to a command leaf. Query handlers
// produce their response via the Invocation; domain failures are reported
// through the returned error, which the dispatcher converts into an error
// queue entry.
type HandlerFunc func(ctx context.Context, inv *Invocation) error

// Invocation carries one dispatched command's converted parameters and the
// reply writer of the originating session
type Invocation struct {
	// Args holds the typed parameters in declared order
	Args []interface{}

	reply func(string)
}

// NewInvocation builds an invocation; reply may be nil for commands that
// never respond
func NewInvocation(args []interface{}, reply func(string)) *Invocation {
	return &Invocation{Args: args, reply: reply}
}

// Reply sends a response line back to the controller
func (inv *Invocation) Reply(response string) {
	if inv.reply != nil {
		inv.reply(response)
	}
}

// Replyf sends a formatted response line back to the controller
func (inv *Invocation) Replyf(format string, args ...interface{}) {
	inv.Reply(fmt.Sprintf(format, args...))
}

// Float returns parameter ix as a float64. The converter list guarantees
// the dynamic type, so a mismatch is a programming error and panics.
func (inv *Invocation) Float(ix int) float64 {
	return inv.Args[ix].(float64)
}

// Int returns parameter ix as an int64
func (inv *Invocation) Int(ix int) int64 {
	return inv.Args[ix].(int64)
}

// Bool returns parameter ix as a bool
func (inv *Invocation) Bool(ix int) bool {
	return inv.Args[ix].(bool)
}

// String returns parameter ix as a string
func (inv *Invocation) String(ix int) string {
	return inv.Args[ix].(string)
}
