package browser

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/desertthunder/scandium/internal/shared"
)

type fakeListener struct{}

func (fakeListener) PrintRequested()           {}
func (fakeListener) UnsupportedContent(string) {}
func (fakeListener) RequestFinished(*Reply)    {}
func (fakeListener) Closed()                   {}

// closeListener signals when the surface reports the window closed.
type closeListener struct {
	fakeListener
	closed chan struct{}
}

func (c *closeListener) Closed() { close(c.closed) }

func TestLoopSurface(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("system surface opens the url on show", func(t *testing.T) {
		var opened []string
		s := newLoopSurface(func(url string) error { opened = append(opened, url); return nil }, logger)
		s.Navigate("http://localhost:8080/")
		s.Show()

		if len(opened) != 1 || opened[0] != "http://localhost:8080/" {
			t.Errorf("unexpected opened urls %v", opened)
		}
	})

	t.Run("open failure is not fatal", func(t *testing.T) {
		s := newLoopSurface(func(string) error { return errors.New("no browser") }, logger)
		s.Navigate("http://localhost:8080/")
		s.Show()
	})

	t.Run("terminate ends run and reports close", func(t *testing.T) {
		s := NewHeadlessSurface(logger)
		l := &closeListener{closed: make(chan struct{})}
		s.Install(l)

		ran := make(chan struct{})
		s.Dispatch(func() { close(ran) })
		s.Dispatch(s.Terminate)

		if err := s.Run(context.Background()); err != nil {
			t.Errorf("Run() = %v", err)
		}
		select {
		case <-ran:
		default:
			t.Error("dispatched work should run before terminate")
		}
		select {
		case <-l.closed:
		case <-time.After(time.Second):
			t.Error("listener should hear the close")
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		s := NewHeadlessSurface(logger)
		s.Install(fakeListener{})
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		if err := s.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected DeadlineExceeded, got %v", err)
		}
	})

	t.Run("window closes its loop surface", func(t *testing.T) {
		s := NewHeadlessSurface(logger)
		w, err := NewWindow(Options{URL: "http://localhost:8080/", Surface: s, Logger: logger})
		if err != nil {
			t.Fatalf("failed to create window: %v", err)
		}

		s.Dispatch(w.Show)
		s.Dispatch(w.Close)

		done := make(chan error, 1)
		go func() { done <- w.Run(context.Background()) }()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run() = %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("window did not close")
		}
		if w.State() != Closed {
			t.Errorf("expected closed, got %s", w.State())
		}
	})
}
