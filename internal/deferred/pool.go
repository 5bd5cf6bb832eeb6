package deferred

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/scandium/internal/shared"
	"golang.org/x/sync/semaphore"
)

// DefaultPoolSize matches the usual worker count of a reactor thread pool.
const DefaultPoolSize = 10

// Pool bounds the goroutines parked on pending results.
type Pool struct {
	sem     *semaphore.Weighted
	size    int
	timeout time.Duration
}

// NewPool returns a pool with size slots. Waits longer than timeout fail; zero means no limit.
func NewPool(size int, timeout time.Duration) *Pool {
	if size <= 0 {
		size = DefaultPoolSize
	}
	return &Pool{
		sem:     semaphore.NewWeighted(int64(size)),
		size:    size,
		timeout: timeout,
	}
}

func (p *Pool) Size() int              { return p.size }
func (p *Pool) Timeout() time.Duration { return p.timeout }

// Block takes a slot and waits for pending to settle.
//
// The timeout covers both the wait for a slot and the wait for the result.
func (p *Pool) Block(ctx context.Context, pending Pending) (any, error) {
	waitCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.sem.Acquire(waitCtx, 1); err != nil {
		return nil, p.waitErr(ctx, err)
	}
	defer p.sem.Release(1)

	v, err := Await(waitCtx, pending)
	if err != nil && waitCtx.Err() != nil && errors.Is(err, waitCtx.Err()) {
		return nil, p.waitErr(ctx, err)
	}
	return v, err
}

// waitErr tells a request that went away apart from one that ran out of time.
func (p *Pool) waitErr(parent context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: no result after %s", shared.ErrTimeout, p.timeout)
	}
	return err
}
