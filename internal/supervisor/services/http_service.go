// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPServer is the lifecycle subset of *http.Server.
//
// Depending on the interface rather than the concrete server lets tests
// drive the service with a fake. *http.Server satisfies it through:
//   - ListenAndServe() error
//   - Shutdown(ctx context.Context) error
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs an HTTP server under supervision.
//
// It bridges the blocking ListenAndServe call and suture's context-driven
// Serve method:
//
//  1. ListenAndServe runs in its own goroutine
//  2. Serve waits for context cancellation or a server error
//  3. Cancellation triggers Shutdown bounded by the shutdown timeout
//
// Example usage:
//
//	server := &http.Server{Addr: ":8350", Handler: router}
//	svc := services.NewHTTPServerService(server, 10*time.Second, logging.Logger())
//	tree.AddAPIService(svc)
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	addr            string
	logger          zerolog.Logger
	name            string
}

// NewHTTPServerService creates the service.
//
// shutdownTimeout bounds how long in-flight requests may drain once the
// service is stopped; a non-positive value defaults to 10s. When server is
// an *http.Server its Addr is recorded for the startup log line.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration, logger zerolog.Logger) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	svc := &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		logger:          logger.With().Str("service", "http-server").Logger(),
		name:            "http-server",
	}
	if s, ok := server.(*http.Server); ok {
		svc.addr = s.Addr
	}
	return svc
}

// Serve implements suture.Service.
//
// Lifecycle:
//  1. Start ListenAndServe in a goroutine
//  2. Block until the context is canceled or the server fails
//  3. On cancellation, call Shutdown with a fresh deadline and wait for the
//     listener goroutine to exit
//
// A listener failure is returned wrapped so suture restarts the service.
// After a graceful shutdown the context error is returned.
// http.ErrServerClosed is expected during shutdown and is not an error.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	// ListenAndServe blocks until the server stops.
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	h.logger.Info().Str("addr", h.addr).Msg("http server listening")

	select {
	case err := <-errCh:
		// Bind failure or crash.
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		// Closed from outside the service.
		return nil

	case <-ctx.Done():
		// ctx is already canceled; shutdown needs its own deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		h.logger.Info().Dur("timeout", h.shutdownTimeout).Msg("http server shutting down")
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}

		// The listener goroutine closes errCh once ListenAndServe returns.
		<-errCh
		return ctx.Err()
	}
}

// String implements fmt.Stringer.
// Suture uses it to name the service in its event log.
func (h *HTTPServerService) String() string {
	return h.name
}
