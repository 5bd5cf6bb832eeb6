// Package loop provides a single goroutine dispatch loop for surfaces that
// have no event loop of their own.
package loop

import (
	"context"
	"sync"
)

// Loop runs dispatched functions one at a time on the goroutine that called [Loop.Run].
type Loop struct {
	queue chan func()
	stop  chan struct{}
	once  sync.Once
}

// New creates a stopped-until-run loop. Work dispatched before [Loop.Run] is queued.
func New() *Loop {
	return &Loop{
		queue: make(chan func(), 64),
		stop:  make(chan struct{}),
	}
}

// Dispatch queues fn for the next iteration. It never blocks the caller;
// work dispatched after [Loop.Stop] is dropped.
func (l *Loop) Dispatch(fn func()) {
	select {
	case <-l.stop:
		return
	default:
	}

	select {
	case l.queue <- fn:
	default:
		go func() {
			select {
			case l.queue <- fn:
			case <-l.stop:
			}
		}()
	}
}

// Run processes dispatched work until [Loop.Stop] is called or ctx is done.
// It returns ctx.Err() when the context ended the loop.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-l.stop:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Stop ends [Loop.Run]. Calling it more than once has no further effect.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// Done is closed once the loop has been stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.stop
}
