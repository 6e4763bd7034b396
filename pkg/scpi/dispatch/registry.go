// File: registry.go
// Title: Background Task Registry
// Description: Tracks background command executions. Every scheduled task
//              gets a unique id and a done channel; the registry supports
//              sweeping finished tasks, waiting for outstanding work (*WAI,
//              *OPC?) and cancelling user tasks on *RST while system tasks,
//              named with a leading underscore, keep running.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial registry

package dispatch

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SystemTaskPrefix marks task names that survive a *RST
const SystemTaskPrefix = "_"

// sweepInterval is the poll period used while waiting for tasks to finish
const sweepInterval = 10 * time.Millisecond

// Record is one tracked background execution
type Record struct {
	// ID is the unique task id
	ID string

	// Name is the command name the task was scheduled for
	Name string

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Finish marks the task as completed. Safe to call more than once.
func (rec *Record) Finish() {
	rec.once.Do(func() { close(rec.done) })
}

// Done reports whether the task has completed
func (rec *Record) Done() bool {
	select {
	case <-rec.done:
		return true
	default:
		return false
	}
}

// Registry tracks the in-flight background tasks of one instrument
type Registry struct {
	mu    sync.Mutex
	tasks map[string]*Record
}

// NewRegistry creates an empty task registry
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]*Record)}
}

// Add registers a new task and returns its record. Finished tasks are
// swept on the way in, so the registry never grows beyond the number of
// concurrently running tasks.
func (r *Registry) Add(name string, cancel context.CancelFunc) *Record {
	rec := &Record{
		ID:     uuid.NewString(),
		Name:   name,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	r.tasks[rec.ID] = rec
	return rec
}

// Sweep drops finished tasks and returns the number still running
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	return len(r.tasks)
}

func (r *Registry) sweepLocked() {
	for id, rec := range r.tasks {
		if rec.Done() {
			delete(r.tasks, id)
		}
	}
}

// Pending returns the names of unfinished user tasks, skipping system
// tasks and any name listed in exclude. System tasks are long-lived
// infrastructure and must never hold up *WAI or *OPC.
func (r *Registry) Pending(exclude ...string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()

	var names []string
	for _, rec := range r.tasks {
		if skip[rec.Name] || strings.HasPrefix(rec.Name, SystemTaskPrefix) {
			continue
		}
		names = append(names, rec.Name)
	}
	sort.Strings(names)
	return names
}

// Wait blocks until every task not listed in exclude has finished, the
// context is cancelled, or the context deadline passes
func (r *Registry) Wait(ctx context.Context, exclude ...string) error {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		if len(r.Pending(exclude...)) == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// CancelUserTasks cancels every running task except system tasks, whose
// names start with SystemTaskPrefix. Used by *RST.
func (r *Registry) CancelUserTasks() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.tasks {
		if strings.HasPrefix(rec.Name, SystemTaskPrefix) {
			continue
		}
		if rec.cancel != nil {
			rec.cancel()
		}
	}
}

// Names returns the sorted names of all tracked tasks, finished ones
// included, for diagnostic queries
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.tasks))
	for _, rec := range r.tasks {
		names = append(names, rec.Name)
	}
	sort.Strings(names)
	return names
}
