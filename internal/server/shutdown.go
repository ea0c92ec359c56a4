// If you are AI: This file handles graceful shutdown orchestration for the server process.

package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// ShutdownHandler manages graceful shutdown on SIGINT or SIGTERM.
type ShutdownHandler struct {
	server  *Server
	timeout time.Duration
	ctx     context.Context
}

// NewShutdownHandler creates a handler that listens for termination signals.
// Cancelling ctx starts shutdown as if a signal had arrived.
// In-flight responses and websocket streams get timeout to finish once shutdown begins.
func NewShutdownHandler(server *Server, ctx context.Context, timeout time.Duration) *ShutdownHandler {
	return &ShutdownHandler{
		server:  server,
		timeout: timeout,
		ctx:     ctx,
	}
}

// Wait blocks until a termination signal is received or the parent context
// is cancelled, then initiates shutdown.
// This method should be called from the main goroutine.
func (h *ShutdownHandler) Wait() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		h.server.logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-h.ctx.Done():
		h.server.logger.Info().Msg("shutting down")
	}

	// Shutdown server with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	return h.server.Shutdown(shutdownCtx)
}
