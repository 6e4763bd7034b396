// File: session.go
// Title: Instrument Session
// Description: One session per connected controller. A session owns its
//              resolution cursor and a response writer; Execute processes
//              one input line (any number of semicolon-separated commands)
//              and Run drives a line loop over an io.Reader. Errors are
//              queued and processing continues, matching instrument
//              behavior on a real bus.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial session loop

package scpi

import (
	"bufio"
	"context"
	"io"
	"sync"

	"github.com/stonerlab/goscpi/pkg/core/logging"
	"github.com/stonerlab/goscpi/pkg/scpi/parser"
	"github.com/stonerlab/goscpi/pkg/scpi/status"
	"github.com/stonerlab/goscpi/pkg/scpi/token"
)

// Session is one controller connection to the instrument
type Session struct {
	inst   *Instrument
	logger *logging.Logger

	cursorMu sync.Mutex
	cursor   parser.Cursor

	writeMu sync.Mutex
	out     io.Writer
}

// NewSession opens a session writing responses to out. Close releases it.
func (inst *Instrument) NewSession(out io.Writer) *Session {
	s := &Session{
		inst:   inst,
		logger: inst.logger.WithName("session"),
		out:    out,
	}
	inst.addSession(s)
	return s
}

// Close detaches the session from the instrument
func (s *Session) Close() {
	s.inst.removeSession(s)
}

// Execute processes one input line. Each semicolon-separated command is
// resolved and dispatched in order; a failing command is recorded in the
// error queue and the remaining commands still run. The returned error is
// reserved for transport-level failures and is currently always nil.
func (s *Session) Execute(ctx context.Context, line string) error {
	for _, cmd := range token.SplitCommands(line) {
		res, serr := s.resolve(cmd)
		if serr != nil {
			s.inst.dispatcher.Fault(cmd, serr)
			continue
		}
		s.inst.dispatcher.Dispatch(ctx, res.Leaf, res.Args, s.reply)
	}
	return nil
}

// Run reads lines from r until EOF or context cancellation, executing each
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.Execute(ctx, scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (s *Session) resolve(cmd string) (*parser.Resolved, *status.Error) {
	s.cursorMu.Lock()
	defer s.cursorMu.Unlock()
	return s.inst.currentResolver().Resolve(cmd, &s.cursor)
}

// reply writes one response line. Background tasks may reply concurrently
// with the session loop, so writes are serialized.
func (s *Session) reply(response string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := io.WriteString(s.out, response+"\n"); err != nil {
		s.logger.Warn("response write failed", logging.Fields{"error": err.Error()})
	}
}

func (s *Session) resetCursor() {
	s.cursorMu.Lock()
	defer s.cursorMu.Unlock()
	s.cursor.Reset()
}
