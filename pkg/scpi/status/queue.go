// File: queue.go
// Title: SCPI Error Queue
// Description: Implements the bounded FIFO error queue. Failures from
//              resolution, conversion and dispatch are pushed here and
//              drained one entry at a time by SYSTem:ERRor:NEXT?.
// Version: v0.1.0
// Created: 2025-08-26

package status

import "sync"

// DefaultQueueDepth bounds the error queue when no depth is configured
const DefaultQueueDepth = 32

// Queue is a bounded FIFO of SCPI errors, safe for concurrent use
type Queue struct {
	mu      sync.Mutex
	entries []*Error
	depth   int
}

// NewQueue creates an error queue holding at most depth entries
func NewQueue(depth int) *Queue {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	return &Queue{depth: depth}
}

// Push appends an error to the queue. When the queue is full the newest
// entry is replaced by a queue-overflow error, preserving the older ones.
func (q *Queue) Push(err *Error) {
	if err == nil || err.Code == 0 {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) >= q.depth {
		q.entries[len(q.entries)-1] = ErrQueueOverflow
		return
	}
	q.entries = append(q.entries, err)
}

// Pop removes and returns the oldest error, or NoError when empty
func (q *Queue) Pop() *Error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return NoError
	}
	entry := q.entries[0]
	q.entries = q.entries[1:]
	return entry
}

// Len returns the number of queued errors
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Empty reports whether the queue holds no errors
func (q *Queue) Empty() bool {
	return q.Len() == 0
}

// Clear discards all queued errors
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
}
