// File: services/scheduler.go
package services

import (
	"context"
	"sync"
	"time"
)

// Task is a cancellable handle on a recurring job.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Every runs fn each interval until the returned Task is cancelled or ctx ends.
// The first run happens one interval after the call; callers that want an
// immediate run do it themselves. Runs never overlap each other.
func Every(ctx context.Context, interval time.Duration, fn func(context.Context)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	ticker := time.NewTicker(interval)
	go func() {
		defer close(t.done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// a tick may race with cancellation; cancellation wins
				if ctx.Err() != nil {
					return
				}
				fn(ctx)
			}
		}
	}()
	return t
}

// Cancel stops the task. Safe to call more than once and on a nil Task.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.once.Do(t.cancel)
}

// Done is closed once the task's goroutine has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
