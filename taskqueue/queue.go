package taskqueue

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ArvinYang1925/kaiso-meow-backend/logger"
)

// Status of a registered job.
type Status int

const (
	StatusPending Status = iota
	StatusProcessing
	StatusCompleted
	StatusFailed
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Task is a unit of background work.
type Task func() error

// Info is a point-in-time snapshot of a registered job.
type Info struct {
	ID     string
	Status Status
}

var (
	ErrEmptyKey     = errors.New("task key must not be empty")
	ErrDuplicateJob = errors.New("a job with this key is already registered")
)

// Queue is an in-process, single-worker FIFO task queue keyed by job
// identity. At most one job per key may be registered at a time, and jobs
// run strictly one after another in enqueue order. The registry holds only
// queued and in-flight jobs; a job that reaches a terminal state is
// removed immediately, freeing its key for reuse.
//
// Enqueue may be called from any goroutine; the pending list and registry
// are guarded by a mutex shared with the drain loop.
type Queue struct {
	mu      sync.Mutex
	pending []*entry
	tasks   map[string]*entry
	running bool
}

type entry struct {
	id     string
	task   Task
	status Status
}

// New returns an empty queue. The worker goroutine is started lazily by
// the first Enqueue and exits whenever the pending list drains.
func New() *Queue {
	return &Queue{tasks: make(map[string]*entry)}
}

// Enqueue registers task under key at the tail of the pending list.
// It never blocks on the task itself. Returns ErrEmptyKey for an empty
// key and ErrDuplicateJob if a job with the same key is already queued
// or running.
func (q *Queue) Enqueue(key string, task Task) error {
	if key == "" {
		return ErrEmptyKey
	}

	q.mu.Lock()
	if _, exists := q.tasks[key]; exists {
		q.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateJob, key)
	}

	e := &entry{id: key, task: task, status: StatusPending}
	q.pending = append(q.pending, e)
	q.tasks[key] = e

	start := !q.running
	if start {
		q.running = true
	}
	q.mu.Unlock()

	if start {
		go q.drain()
	}
	return nil
}

// Has reports whether a job with the given key is currently registered,
// either pending or processing. Finished jobs report false.
func (q *Queue) Has(key string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.tasks[key]
	return ok
}

// Info returns a snapshot of the registered job with the given key.
// The second return is false if no such job is registered, which covers
// both "never enqueued" and "already finished".
func (q *Queue) Info(key string) (Info, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e, ok := q.tasks[key]
	if !ok {
		return Info{}, false
	}
	return Info{ID: e.id, Status: e.status}, true
}

// drain pops and runs pending jobs until the list is empty. Only one
// drain instance is ever active: Enqueue starts it when flipping running
// to true, and it clears running under the same lock that observes the
// empty list.
func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		e := q.pending[0]
		q.pending = q.pending[1:]
		e.status = StatusProcessing
		q.mu.Unlock()

		err := runTask(e.task)

		q.mu.Lock()
		if err != nil {
			e.status = StatusFailed
		} else {
			e.status = StatusCompleted
		}
		delete(q.tasks, e.id)
		q.mu.Unlock()

		if err != nil {
			logger.Errorf("task %s failed: %v", e.id, err)
		} else {
			logger.Debugf("task %s completed", e.id)
		}
	}
}

// runTask runs the task body, converting a panic into an error so that
// one bad job can never stop the worker from draining the rest.
func runTask(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task()
}
