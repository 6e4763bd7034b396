// File: dispatcher.go
// Title: Command Dispatcher
// Description: Executes resolved commands under their declared concurrency
//              mode. Sync and Blocking leaves run inline on the session's
//              control flow; Background leaves are scheduled as registry
//              tasks with their own cancellable context. All faults,
//              including handler panics, are funneled into the instrument's
//              error queue with the matching standard event register bit.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial dispatcher

package dispatch

import (
	"context"

	"github.com/stonerlab/goscpi/pkg/core/logging"
	"github.com/stonerlab/goscpi/pkg/scpi/command"
	"github.com/stonerlab/goscpi/pkg/scpi/param"
	"github.com/stonerlab/goscpi/pkg/scpi/status"
)

// Options configures a dispatcher. Registry, Queue and Registers are
// required; Logger falls back to the package default.
type Options struct {
	Registry  *Registry
	Queue     *status.Queue
	Registers *status.Registers
	Logger    *logging.Logger
}

// Dispatcher runs command leaves and records their outcomes in the
// instrument's status model
type Dispatcher struct {
	registry *Registry
	queue    *status.Queue
	regs     *status.Registers
	logger   *logging.Logger
}

// New creates a dispatcher
func New(opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default().WithName("dispatch")
	}
	return &Dispatcher{
		registry: opts.Registry,
		queue:    opts.Queue,
		regs:     opts.Registers,
		logger:   logger,
	}
}

// Registry exposes the task registry for commands that need to wait on or
// enumerate background work
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch converts the raw parameters and runs the leaf under its mode.
// The returned error, if any, has already been queued; callers only use it
// to decide whether to keep processing the rest of the input line.
func (d *Dispatcher) Dispatch(ctx context.Context, leaf *command.Leaf, rawArgs []string, reply func(string)) *status.Error {
	args, err := param.Apply(leaf.Converters, rawArgs)
	if err != nil {
		return d.Fault(leaf.Name, err)
	}
	inv := command.NewInvocation(args, reply)

	switch leaf.Mode {
	case command.Background:
		taskCtx, cancel := context.WithCancel(context.Background())
		rec := d.registry.Add(leaf.Name, cancel)
		d.logger.Debug("task scheduled", logging.Fields{
			"command": leaf.Name,
			"task_id": rec.ID,
		})
		go func() {
			defer rec.Finish()
			defer cancel()
			if err := d.run(taskCtx, leaf, inv); err != nil {
				d.Fault(leaf.Name, err)
			}
		}()
		return nil

	default:
		// Sync and Blocking both run inline; background tasks keep making
		// progress on their own goroutines either way.
		if err := d.run(ctx, leaf, inv); err != nil {
			return d.Fault(leaf.Name, err)
		}
		return nil
	}
}

// run invokes the handler, turning a panic into an execution error
func (d *Dispatcher) run(ctx context.Context, leaf *command.Leaf, inv *command.Invocation) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = status.Errorf(status.ErrExecution, "%s panicked: %v", leaf.Name, rec)
		}
	}()
	return leaf.Handler(ctx, inv)
}

// Fault records a failure: the error is pushed onto the error queue and
// the matching standard event bit is latched. Codes in the -1xx range
// count as command errors, everything else as execution errors. Sessions
// also call this for resolution failures that never reach a handler.
func (d *Dispatcher) Fault(name string, err error) *status.Error {
	se := status.Classify(err)
	d.queue.Push(se)

	if se.Code <= -100 && se.Code > -200 {
		d.regs.SetEvent(status.EsrCommandError)
	} else {
		d.regs.SetEvent(status.EsrExecutionError)
	}

	d.logger.Warn("command failed", logging.Fields{
		"command": name,
		"code":    se.Code,
		"error":   se.Message,
	})
	return se
}
