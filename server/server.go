package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/grafana/resolveref/log"
	"golang.org/x/sync/errgroup"
)

// DefaultShutdownTimeout bounds how long Serve waits for in-flight requests after its context ends.
const DefaultShutdownTimeout = 10 * time.Second

// ErrServerStarted is returned by Serve when the server was already started.
var ErrServerStarted = errors.New("server already started")

// Config configures a Server.
type Config struct {
	// Address is the TCP listen address, e.g. ":8080" or "127.0.0.1:0". Required.
	Address string
	// Handler serves incoming requests. Required.
	Handler http.Handler
	// ShutdownTimeout defaults to DefaultShutdownTimeout if zero.
	ShutdownTimeout time.Duration
	// Logger defaults to a no-op logger.
	Logger log.Logger
}

// Server serves HTTP on a TCP listener until its context is cancelled.
type Server struct {
	address         string
	handler         http.Handler
	shutdownTimeout time.Duration
	logger          log.Logger

	started atomic.Bool
	// ready is closed once the listener is bound.
	ready chan struct{}
	addr  net.Addr
}

// New creates a Server. Call Serve to start accepting connections.
func New(cfg Config) (*Server, error) {
	if cfg.Address == "" {
		return nil, errors.New("address cannot be empty")
	}
	if cfg.Handler == nil {
		return nil, errors.New("handler cannot be nil")
	}

	s := &Server{
		address:         cfg.Address,
		handler:         cfg.Handler,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          cfg.Logger,
		ready:           make(chan struct{}),
	}
	if s.shutdownTimeout == 0 {
		s.shutdownTimeout = DefaultShutdownTimeout
	}
	if s.logger == nil {
		s.logger = log.Noop()
	}

	return s, nil
}

// Ready returns a channel closed once the server accepts connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address. Only valid after Ready is closed.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Serve accepts connections until ctx is cancelled, then shuts down gracefully.
// A Server serves once; later calls return ErrServerStarted.
func (s *Server) Serve(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrServerStarted
	}

	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.address, err)
	}
	s.addr = listener.Addr()
	close(s.ready)

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("HTTP server listening", "address", s.addr.String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("HTTP server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("HTTP server stopped", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}
