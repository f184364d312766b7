package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	httpAdapter "github.com/aretw0/flowcanvas/pkg/adapters/http"
	"github.com/aretw0/flowcanvas/pkg/adapters/mcp"
	"github.com/aretw0/flowcanvas/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// NewServeHandler wires the session manager, metrics and HTTP adapter.
// The returned close function tears all sessions down.
func NewServeHandler(env *Env) (http.Handler, func(context.Context), error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, nil, fmt.Errorf("failed to register go collector: %w", err)
	}
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, nil, err
	}

	mgr := env.NewManager(metrics)
	handler, err := httpAdapter.NewHandler(mgr,
		httpAdapter.WithLogger(env.Logger),
		httpAdapter.WithAllowedOrigins(env.Config.Server.AllowedOrigins),
		httpAdapter.WithViewport(env.Config.Viewport()),
		httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)
	if err != nil {
		return nil, nil, err
	}
	return handler, mgr.Close, nil
}

// Serve runs the HTTP API until SIGINT/SIGTERM.
func Serve(env *Env, port int) error {
	if port != 0 {
		env.Config.Server.Port = port
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	handler, closeSessions, err := NewServeHandler(env)
	if err != nil {
		return err
	}

	// Request contexts derive from baseCtx so open SSE streams end on shutdown.
	baseCtx, stopRequests := context.WithCancel(context.Background())
	defer stopRequests()

	srv := &http.Server{
		Addr:              env.Config.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		env.Logger.Info("Starting flowcanvas server", "addr", srv.Addr)
		printSystemMessage(os.Stdout, "Listening on %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-sigCtx.Done():
		env.Logger.Info("Start shutdown", "signal", fmt.Sprint(sigCtx.Signal()))

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		stopRequests()
		closeSessions(ctx)
		if err := srv.Shutdown(ctx); err != nil {
			env.Logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		printSystemMessage(os.Stdout, "flowcanvas server stopped gracefully")
		return nil
	}
}

// ServeMCP runs the MCP adapter over stdio, or over SSE when port is set.
func ServeMCP(env *Env, port int) error {
	mgr := env.NewManager(nil)
	srv := mcp.NewServer(mgr, mcp.WithLogger(env.Logger))

	if port == 0 {
		env.Logger.Info("Starting flowcanvas MCP server (stdio)")
		return srv.ServeStdio()
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()
	defer mgr.Close(context.Background())

	env.Logger.Info("Starting flowcanvas MCP server (SSE)", "port", port)
	err := srv.ServeSSE(sigCtx, port)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	if err == nil {
		env.Logger.Info("MCP server stopped gracefully")
	}
	return err
}
