package business

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/uganda-data/session-client/internal/apiclient"
	"github.com/uganda-data/session-client/internal/authapi"
	"github.com/uganda-data/session-client/internal/business/server"
	"github.com/uganda-data/session-client/internal/config"
	"github.com/uganda-data/session-client/pkg/csrf"
	"github.com/uganda-data/session-client/pkg/guard"
	"github.com/uganda-data/session-client/pkg/session"
)

const logoutTimeout = 5 * time.Second

// Main runs the session keep-alive and the console server until ctx is
// done, then signs the session out.
func Main(ctx context.Context, cfg *config.Config) error {
	deps, err := initComponents(cfg)
	if err != nil {
		return fmt.Errorf("initialising components: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// errChan is used to capture the first error and shutdown.
	errChan := make(chan error, 1)

	// wg is used to wait for the keep-alive and the server to stop.
	var wg sync.WaitGroup

	wg.Go(func() {
		deps.Store.Run(ctx)
		errChan <- nil
	})

	wg.Go(func() {
		errChan <- server.StartHTTPServer(ctx, cfg, deps)
	})

	// wait for any error to initiate the shutdown
	if err := <-errChan; err != nil {
		slogctx.Error(ctx, "Shutting down", "error", err)
	}
	cancel()

	wg.Wait()

	// the refresh cookie only lives in memory, revoke it before it is lost
	logoutCtx, logoutCancel := context.WithTimeout(context.WithoutCancel(ctx), logoutTimeout)
	defer logoutCancel()
	deps.Store.Logout(logoutCtx)

	return nil
}

func initComponents(cfg *config.Config) (server.Deps, error) {
	exchanger, err := authapi.NewClient(cfg.Backend.BaseURL,
		authapi.WithTimeout(cfg.Backend.Timeout),
		authapi.WithPaths(authapi.Paths{
			Login:   cfg.Backend.LoginPath,
			Refresh: cfg.Backend.RefreshPath,
			Logout:  cfg.Backend.LogoutPath,
		}),
	)
	if err != nil {
		return server.Deps{}, fmt.Errorf("creating auth client: %w", err)
	}

	store, err := session.NewStore(exchanger, session.WithRefreshInterval(cfg.Session.RefreshInterval))
	if err != nil {
		return server.Deps{}, fmt.Errorf("creating session store: %w", err)
	}

	api, err := apiclient.New(cfg.Backend.BaseURL, store,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.Backend.Timeout}),
		apiclient.WithCacheTTL(cfg.APIClient.CacheTTL),
	)
	if err != nil {
		return server.Deps{}, fmt.Errorf("creating api client: %w", err)
	}

	secret, err := config.LoadCSRFSecret(cfg.HTTP)
	if err != nil {
		return server.Deps{}, err
	}

	return server.Deps{
		Store: store,
		Guard: guard.New(store,
			guard.WithLoginPath(cfg.Session.LoginPath),
			guard.WithReturnParam(cfg.Session.ReturnParam),
		),
		API:  api,
		CSRF: csrf.New(secret),
	}, nil
}
