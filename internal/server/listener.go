package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scandium/internal/shared"
	"golang.org/x/sync/semaphore"
)

// DefaultHost keeps the listener reachable from the local browser only.
const DefaultHost = "127.0.0.1"

var (
	claimsMu sync.Mutex
	claims   = map[int]struct{}{}
)

func claimPort(port int) error {
	claimsMu.Lock()
	defer claimsMu.Unlock()
	if _, taken := claims[port]; taken {
		return fmt.Errorf("%w: %d", shared.ErrPortInUse, port)
	}
	claims[port] = struct{}{}
	return nil
}

func releasePort(port int) {
	claimsMu.Lock()
	defer claimsMu.Unlock()
	delete(claims, port)
}

// ListenOptions configures [Listen].
type ListenOptions struct {
	Host   string
	Logger *log.Logger
	// MaxConcurrent bounds the requests being handled at once. Zero means no limit.
	MaxConcurrent int
}

// Server is a bound HTTP listener. It is bound as soon as [Listen] returns.
type Server struct {
	http     *http.Server
	listener net.Listener
	port     int
	logger   *log.Logger
	once     sync.Once
}

// Listen claims port and binds a TCP listener for handler on it. Port 0 picks a free port.
func Listen(port int, handler http.Handler, opts ListenOptions) (*Server, error) {
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	if port != 0 {
		if err := claimPort(port); err != nil {
			return nil, err
		}
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(opts.Host, strconv.Itoa(port)))
	if err != nil {
		if port != 0 {
			releasePort(port)
		}
		return nil, fmt.Errorf("failed to listen on port %d: %w", port, err)
	}

	bound := listener.Addr().(*net.TCPAddr).Port
	if port == 0 {
		if err := claimPort(bound); err != nil {
			listener.Close()
			return nil, err
		}
	}

	if opts.MaxConcurrent > 0 {
		handler = limitConcurrency(int64(opts.MaxConcurrent), handler)
	}

	return &Server{
		http: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ErrorLog:          opts.Logger.StandardLog(log.StandardLogOptions{ForceLevel: log.WarnLevel}),
		},
		listener: listener,
		port:     bound,
		logger:   shared.WithLogger(opts.Logger, "port", bound),
	}, nil
}

// limitConcurrency holds requests beyond n until a slot frees up. A request
// whose context ends while waiting gets a 503.
func limitConcurrency(n int64, next http.Handler) http.Handler {
	sem := semaphore.NewWeighted(n)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := sem.Acquire(r.Context(), 1); err != nil {
			http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
			return
		}
		defer sem.Release(1)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) Port() int      { return s.port }
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Serve accepts connections until the server is shut down. It returns nil after a shutdown.
func (s *Server) Serve() error {
	s.logger.Info("serving", "addr", s.listener.Addr().String())
	if err := s.http.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully and releases its port claim.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		defer releasePort(s.port)
		if err = s.http.Shutdown(ctx); err != nil {
			s.logger.Warn("graceful shutdown failed, closing", "error", err)
			err = s.http.Close()
		}
		s.listener.Close()
		s.logger.Info("server stopped")
	})
	return err
}
