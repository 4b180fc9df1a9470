package shell

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Task is a handle on one command submitted to a Session.
// It completes once the command has been written to the shell (or could not be).
// Completion says nothing about the command's exit status inside the shell.
type Task struct {
	// ID uniquely identifies the task.
	ID string

	// Command is the command text without the trailing newline.
	Command string

	done chan struct{}
	once sync.Once
	err  error
}

func newTask(command string) *Task {
	return &Task{
		ID:      uuid.NewString(),
		Command: command,
		done:    make(chan struct{}),
	}
}

// CompletedTask returns a task that has already finished with err.
func CompletedTask(command string, err error) *Task {
	t := newTask(command)
	t.finish(err)
	return t
}

func (t *Task) finish(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
	})
}

// Done is closed when the task completes.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the task's error. It is only meaningful after Done is closed.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task completes or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// taskQueue is an unbounded FIFO drained by a session's writer goroutine.
type taskQueue struct {
	mu     sync.Mutex
	items  []*Task
	closed bool
	notify chan struct{}
}

func newTaskQueue() *taskQueue {
	return &taskQueue{notify: make(chan struct{}, 1)}
}

// push enqueues t. It returns false once the queue is closed.
func (q *taskQueue) push(t *Task) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, t)
	q.mu.Unlock()
	q.signal()
	return true
}

// pop blocks until a task is available or the queue is closed.
func (q *taskQueue) pop() (*Task, bool) {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return nil, false
		}
		if len(q.items) > 0 {
			t := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			q.mu.Unlock()
			return t, true
		}
		q.mu.Unlock()
		<-q.notify
	}
}

// close stops the queue and fails every task that was never written.
func (q *taskQueue) close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	pending := q.items
	q.items = nil
	q.mu.Unlock()
	q.signal()

	for _, t := range pending {
		t.finish(ErrSessionStopped)
	}
}

func (q *taskQueue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
