// File: instrument.go
// Title: Instrument Facade
// Description: Ties the interpreter together: one Instrument owns the
//              compiled command tree, the error queue, the IEEE-488.2
//              status registers and the background task registry, and
//              hands out Sessions to transports. The mandatory IEEE-488.2
//              and SCPI commands are installed at construction; embedding
//              applications extend that set with their own commands.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial instrument facade

package scpi

import (
	"context"
	"fmt"
	"sync"

	"github.com/stonerlab/goscpi/pkg/core/logging"
	"github.com/stonerlab/goscpi/pkg/scpi/command"
	"github.com/stonerlab/goscpi/pkg/scpi/dispatch"
	"github.com/stonerlab/goscpi/pkg/scpi/parser"
	"github.com/stonerlab/goscpi/pkg/scpi/status"
)

// Identity is the four-field *IDN? response
type Identity struct {
	Manufacturer string
	Model        string
	SerialNumber string
	Firmware     string
}

// String renders the identity in the standard comma-separated form
func (id Identity) String() string {
	return fmt.Sprintf("%s,%s,%s,%s", id.Manufacturer, id.Model, id.SerialNumber, id.Firmware)
}

// Options configures a new instrument
type Options struct {
	// Identity is reported by *IDN?
	Identity Identity

	// ErrorQueueDepth bounds the error queue; zero selects the default
	ErrorQueueDepth int

	// Logger receives interpreter diagnostics; nil selects the default
	Logger *logging.Logger
}

// Instrument is one SCPI instrument: status model, task registry and the
// installed command tree. All exported methods are safe for concurrent use
// by multiple sessions.
type Instrument struct {
	identity   Identity
	logger     *logging.Logger
	queue      *status.Queue
	regs       *status.Registers
	dispatcher *dispatch.Dispatcher
	base       *command.Set

	mu       sync.Mutex
	resolver *parser.Resolver
	sessions map[*Session]struct{}
}

// New creates an instrument with the mandatory command set installed.
// The power-on bit is latched in the standard event register, as a real
// device does after a cold start.
func New(opts Options) (*Instrument, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default().WithName("scpi")
	}
	depth := opts.ErrorQueueDepth
	if depth <= 0 {
		depth = status.DefaultQueueDepth
	}

	inst := &Instrument{
		identity: opts.Identity,
		logger:   logger,
		queue:    status.NewQueue(depth),
		regs:     status.NewRegisters(),
		sessions: make(map[*Session]struct{}),
	}
	inst.dispatcher = dispatch.New(dispatch.Options{
		Registry:  dispatch.NewRegistry(),
		Queue:     inst.queue,
		Registers: inst.regs,
		Logger:    logger.WithName("dispatch"),
	})
	inst.regs.SetEvent(status.EsrPowerOn)

	inst.base = inst.baseSet()
	if err := inst.Install(inst.base); err != nil {
		return nil, fmt.Errorf("installing mandatory commands: %w", err)
	}
	return inst, nil
}

// Commands returns a fresh command set extending the mandatory one.
// Declare application commands on it and pass it to Install.
func (inst *Instrument) Commands() *command.Set {
	return inst.base.Extend()
}

// Install compiles the set and swaps it in as the active command tree.
// Running sessions pick up the new tree on their next command.
func (inst *Instrument) Install(set *command.Set) error {
	tree, err := set.Build()
	if err != nil {
		return err
	}
	inst.mu.Lock()
	inst.resolver = parser.NewResolver(tree)
	inst.mu.Unlock()
	return nil
}

// Registry exposes the background task registry for embedding commands
// that list or wait on tasks
func (inst *Instrument) Registry() *dispatch.Registry {
	return inst.dispatcher.Registry()
}

// Registers exposes the status model so embedding code can drive the
// OPERation and QUEStionable condition registers
func (inst *Instrument) Registers() *status.Registers {
	return inst.regs
}

// Reset implements *RST: user tasks are cancelled and drained, the error
// queue and status registers are cleared, and every session cursor drops
// back to the root. System tasks, named with a leading underscore, survive.
func (inst *Instrument) Reset(ctx context.Context) error {
	registry := inst.dispatcher.Registry()
	registry.CancelUserTasks()
	if err := registry.Wait(ctx); err != nil {
		return status.Errorf(status.ErrExecution, "reset interrupted: %v", err)
	}

	inst.queue.Clear()
	inst.regs.Clear()

	inst.mu.Lock()
	sessions := make([]*Session, 0, len(inst.sessions))
	for s := range inst.sessions {
		sessions = append(sessions, s)
	}
	inst.mu.Unlock()
	for _, s := range sessions {
		s.resetCursor()
	}

	inst.logger.Info("instrument reset")
	return nil
}

func (inst *Instrument) currentResolver() *parser.Resolver {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.resolver
}

func (inst *Instrument) addSession(s *Session) {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.sessions[s] = struct{}{}
}

func (inst *Instrument) removeSession(s *Session) {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	delete(inst.sessions, s)
}
