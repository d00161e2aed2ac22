// Package serve runs an http.Server until its context ends.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dubz-banking/dubz/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	defaultShutdownTimeout = 30 * time.Second
)

// ErrServe is returned when the listener fails.
var ErrServe = errors.New("http serve failed")

// NewServer returns an http.Server with the standard timeouts.
func NewServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// Run listens on addr and serves h until ctx is cancelled.
func Run(ctx context.Context, addr string, h http.Handler, grace time.Duration, log logger.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: listen %s: %w", ErrServe, addr, err)
	}
	return Serve(ctx, ln, h, grace, log)
}

// Serve serves h on ln until ctx is cancelled, then shuts down gracefully
// within grace. A clean shutdown returns nil.
func Serve(ctx context.Context, ln net.Listener, h http.Handler, grace time.Duration, log logger.Logger) error {
	if grace <= 0 {
		grace = defaultShutdownTimeout
	}
	srv := NewServer(ln.Addr().String(), h)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(ctx, "starting HTTP server", logger.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%w: %w", ErrServe, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(ctx, "shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "server shutdown failed", logger.Error(err))
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info(ctx, "server stopped")
		return nil
	})
	return g.Wait()
}
