package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/samber/oops"

	slogctx "github.com/veqryn/slog-context"

	"github.com/uganda-data/session-client/internal/apiclient"
	"github.com/uganda-data/session-client/internal/config"
	"github.com/uganda-data/session-client/internal/openapi"
	"github.com/uganda-data/session-client/pkg/csrf"
	"github.com/uganda-data/session-client/pkg/guard"
	"github.com/uganda-data/session-client/pkg/session"
)

// Deps are the components the console serves.
type Deps struct {
	Store *session.Store
	Guard *guard.Guard
	API   *apiclient.Client
	CSRF  *csrf.Protector
}

// createHTTPServer creates the console http server using the given config
func createHTTPServer(ctx context.Context, cfg *config.Config, deps Deps) (*http.Server, error) {
	m, err := initMeters(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if deps.CSRF == nil {
		deps.CSRF = csrf.New(nil)
	}

	openAPIServer := newOpenAPIServer(deps)
	strictHandler := openapi.NewStrictHandlerWithOptions(
		openAPIServer,
		[]openapi.StrictMiddlewareFunc{
			newRequestMiddleware(),
			newTraceMiddleware(cfg, m),
		},
		openapi.StrictHTTPServerOptions{
			RequestErrorHandlerFunc:  requestErrorHandler,
			ResponseErrorHandlerFunc: responseErrorHandler,
		},
	)

	api := openapi.HandlerWithOptions(strictHandler, openapi.StdHTTPServerOptions{
		ErrorHandlerFunc: requestErrorHandler,
	})
	protect := deps.CSRF.Middleware(openAPIServer.csrfBinding)

	mux := http.NewServeMux()
	mux.Handle("/", protect(api))
	mux.Handle("/dashboard/", protect(deps.Guard.Middleware(api)))
	if loginPath := deps.Guard.LoginPath(); loginPath != guard.DefaultLoginPath {
		mux.Handle("GET "+loginPath, protect(rewritePath(api, guard.DefaultLoginPath)))
	}

	return &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: consoleMiddleware(mux),
	}, nil
}

// StartHTTPServer starts the console server and blocks until ctx is done.
func StartHTTPServer(ctx context.Context, cfg *config.Config, deps Deps) error {
	server, err := createHTTPServer(ctx, cfg, deps)
	if err != nil {
		return err
	}

	slogctx.Info(ctx, "Starting a listener", "address", server.Addr)

	// Parse network if the address if provided in the format of network://address.
	// Otherwise use tcp network by default.
	network := "tcp"
	if idx := strings.IndexRune(server.Addr, ':'); idx != -1 && len(server.Addr) > idx+3 && server.Addr[idx:idx+3] == "://" {
		network = server.Addr[:idx]
		server.Addr = server.Addr[idx+3:]
	}

	listener, err := new(net.ListenConfig).Listen(ctx, network, server.Addr)
	if err != nil {
		return oops.In("HTTP Server").
			WithContext(ctx).
			Wrapf(err, "Failed to create a listener")
	}

	slogctx.Info(ctx, "A listener started", "address", listener.Addr().String())

	go func() {
		slogctx.Info(ctx, "Serving an HTTP server", "address", listener.Addr().String())
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogctx.Error(ctx, "Failed to serve an HTTP server", "error", err)
		}

		slogctx.Info(ctx, "Stopped an HTTP server")
	}()

	<-ctx.Done()

	shutdownCtx, shutdownRelease := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
	defer shutdownRelease()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return oops.In("HTTP Server").
			WithContext(ctx).
			Wrapf(err, "Failed shutting down HTTP server")
	}

	slogctx.Info(ctx, "Completed graceful shutdown of HTTP server")

	return nil
}
