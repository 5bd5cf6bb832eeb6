package deferred

import (
	"context"
	"fmt"
	"sync"
)

// Pending is a result that settles later. Result is only meaningful once Done is closed.
type Pending interface {
	Done() <-chan struct{}
	Result() (any, error)
}

// Deferred is a single-assignment asynchronous result.
type Deferred struct {
	once  sync.Once
	done  chan struct{}
	value any
	err   error
}

var _ Pending = (*Deferred)(nil)

// New returns an unsettled [Deferred].
func New() *Deferred {
	return &Deferred{done: make(chan struct{})}
}

// Succeed returns a [Deferred] already resolved with v.
func Succeed(v any) *Deferred {
	d := New()
	d.Resolve(v)
	return d
}

// Failed returns a [Deferred] already failed with err.
func Failed(err error) *Deferred {
	d := New()
	d.Fail(err)
	return d
}

// Resolve settles d with v. It reports false if d had already settled.
func (d *Deferred) Resolve(v any) bool {
	return d.settle(v, nil)
}

// Fail settles d with err. A nil err is replaced so the failure stays visible.
func (d *Deferred) Fail(err error) bool {
	if err == nil {
		err = fmt.Errorf("deferred failed without an error")
	}
	return d.settle(nil, err)
}

func (d *Deferred) settle(v any, err error) bool {
	settled := false
	d.once.Do(func() {
		d.value, d.err = v, err
		close(d.done)
		settled = true
	})
	return settled
}

// Done is closed once d settles.
func (d *Deferred) Done() <-chan struct{} {
	return d.done
}

// Result returns the settled value and error. Before Done is closed it returns nil, nil.
func (d *Deferred) Result() (any, error) {
	select {
	case <-d.done:
		return d.value, d.err
	default:
		return nil, nil
	}
}

// Wait blocks until d settles or ctx is done.
func (d *Deferred) Wait(ctx context.Context) (any, error) {
	return Await(ctx, d)
}

// Then calls fn with the result on its own goroutine once d settles.
func (d *Deferred) Then(fn func(v any, err error)) {
	go func() {
		<-d.done
		fn(d.value, d.err)
	}()
}

// Await blocks until p settles or ctx is done.
func Await(ctx context.Context, p Pending) (any, error) {
	select {
	case <-p.Done():
		return p.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Maybe runs fn inline and wraps its outcome in a settled [Deferred].
// A panic in fn becomes a failure. If fn itself returns a [Pending], that value is chained.
func Maybe(fn func() (any, error)) (d *Deferred) {
	d = New()
	defer func() {
		if r := recover(); r != nil {
			d.Fail(fmt.Errorf("panic: %v", r))
		}
	}()

	v, err := fn()
	if err != nil {
		d.Fail(err)
		return d
	}
	if p, ok := v.(Pending); ok {
		go func() {
			<-p.Done()
			v, err := p.Result()
			if err != nil {
				d.Fail(err)
				return
			}
			d.Resolve(v)
		}()
		return d
	}
	d.Resolve(v)
	return d
}

// Go runs fn on a new goroutine and returns its result as a [Deferred].
func Go(ctx context.Context, fn func(ctx context.Context) (any, error)) *Deferred {
	d := New()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.Fail(fmt.Errorf("panic: %v", r))
			}
		}()
		v, err := fn(ctx)
		if err != nil {
			d.Fail(err)
			return
		}
		d.Resolve(v)
	}()
	return d
}
