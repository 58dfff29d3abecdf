package reconcile

import (
	"context"
	"sync"
)

// Task is a background write whose outcome can be awaited or ignored.
// Abandoning a task does not cancel it.
type Task struct {
	done chan struct{}
	once sync.Once
	err  error
}

// Go runs fn in a new goroutine and returns its task.
func Go(fn func() error) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		t.finish(fn())
	}()
	return t
}

// Completed returns a task that has already finished with err.
func Completed(err error) *Task {
	t := &Task{done: make(chan struct{})}
	t.finish(err)
	return t
}

func (t *Task) finish(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
	})
}

// Done is closed when the task finishes.
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

// Wait blocks until the task finishes or ctx ends. A ctx error means the
// caller stopped waiting, not that the task failed.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
