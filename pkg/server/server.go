/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"golang.org/x/time/rate"

	pferrors "github.com/NVIDIA/playfit/pkg/errors"
)

// Server serves the health, readiness and metrics endpoints plus any
// registered API handlers.
type Server struct {
	name     string
	version  string
	config   *Config
	handlers map[string]http.HandlerFunc

	rateLimiter *rate.Limiter
	httpServer  *http.Server

	mu    sync.RWMutex
	ready bool
}

// Option configures a Server.
type Option func(*Server)

// WithName sets the server name reported on the default route.
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// WithVersion sets the server version reported on the default route.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithConfig replaces DefaultConfig.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithHandler registers API handlers by path. They get rate limiting and
// request metrics.
func WithHandler(handlers map[string]http.HandlerFunc) Option {
	return func(s *Server) {
		for path, h := range handlers {
			s.handlers[path] = h
		}
	}
}

// New creates a Server.
func New(opts ...Option) *Server {
	s := &Server{
		name:     "playfitd",
		version:  "dev",
		config:   DefaultConfig(),
		handlers: make(map[string]http.HandlerFunc),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.rateLimiter = rate.NewLimiter(s.config.RateLimit, s.config.RateLimitBurst)
	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(s.config.Address, strconv.Itoa(s.config.Port)),
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Ready reports whether the server accepts API traffic.
func (s *Server) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *Server) setReady(ready bool) {
	s.mu.Lock()
	s.ready = ready
	s.mu.Unlock()
}

// Run serves until ctx is done or SIGINT/SIGTERM arrives, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return pferrors.Wrap(pferrors.ErrCodeUnavailable,
			fmt.Sprintf("failed to listen on %s", s.httpServer.Addr), err)
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			"name", s.name,
			"version", s.version,
			"address", ln.Addr().String(),
		)
		if serr := s.httpServer.Serve(ln); serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
		}
		close(errCh)
	}()
	s.setReady(true)

	select {
	case serr := <-errCh:
		s.setReady(false)
		if serr != nil {
			return pferrors.Wrap(pferrors.ErrCodeInternal, "server failed", serr)
		}
		return nil
	case <-ctx.Done():
	}

	s.setReady(false)
	slog.Info("server shutting down", "timeout", s.config.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return pferrors.Wrap(pferrors.ErrCodeTimeout, "graceful shutdown failed", err)
	}
	<-errCh

	slog.Info("server stopped")
	return nil
}
