package loop

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoop(t *testing.T) {
	t.Run("runs dispatched work in order", func(t *testing.T) {
		l := New()
		var got []int
		for i := range 3 {
			l.Dispatch(func() { got = append(got, i) })
		}
		l.Dispatch(l.Stop)

		if err := l.Run(context.Background()); err != nil {
			t.Fatalf("Run() = %v", err)
		}
		if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
			t.Errorf("unexpected order %v", got)
		}
	})

	t.Run("Stop from another goroutine", func(t *testing.T) {
		l := New()
		go func() {
			time.Sleep(10 * time.Millisecond)
			l.Stop()
			l.Stop()
		}()

		done := make(chan error, 1)
		go func() { done <- l.Run(context.Background()) }()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run() = %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("loop did not stop")
		}
	})

	t.Run("context ends the loop", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		if err := New().Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected DeadlineExceeded, got %v", err)
		}
	})

	t.Run("dispatch after stop is dropped", func(t *testing.T) {
		l := New()
		l.Stop()
		var ran atomic.Bool
		l.Dispatch(func() { ran.Store(true) })
		l.Run(context.Background())
		if ran.Load() {
			t.Error("work dispatched after Stop should not run")
		}
	})

	t.Run("dispatch does not block when queue is full", func(t *testing.T) {
		l := New()
		var count atomic.Int32
		for range 200 {
			l.Dispatch(func() { count.Add(1) })
		}

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			for count.Load() < 200 {
				time.Sleep(time.Millisecond)
			}
			cancel()
		}()
		l.Run(ctx)

		if count.Load() != 200 {
			t.Errorf("expected 200 runs, got %d", count.Load())
		}
	})
}
