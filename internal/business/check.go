package business

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	slogctx "github.com/veqryn/slog-context"

	"github.com/uganda-data/session-client/internal/apiclient"
	"github.com/uganda-data/session-client/internal/config"
	"github.com/uganda-data/session-client/pkg/session"
)

var errNotRenewed = errors.New("session was not renewed by refresh")

type checkReport struct {
	Login   session.Session    `json:"login"`
	Refresh session.Session    `json:"refresh"`
	Profile *apiclient.Profile `json:"profile,omitempty"`
	Logout  session.Session    `json:"logout"`
}

// CheckMain signs in with the configured credentials, renews the session,
// signs out and prints what the store held after each step.
func CheckMain(ctx context.Context, cfg *config.Config) error {
	email, password, err := config.LoadCredentials(cfg.Check)
	if err != nil {
		return err
	}

	deps, err := initComponents(cfg)
	if err != nil {
		return fmt.Errorf("initialising components: %w", err)
	}

	return runCheck(ctx, deps.Store, deps.API, email, password, os.Stdout)
}

func runCheck(ctx context.Context, store *session.Store, api *apiclient.Client, email, password string, out io.Writer) error {
	var report checkReport

	if err := store.Login(ctx, email, password); err != nil {
		return fmt.Errorf("check login: %w", err)
	}
	report.Login = store.Snapshot()
	slogctx.Info(ctx, "Check signed in", "user_id", report.Login.UserID, "role", string(report.Login.Role))

	// never leave a dangling session on the backend
	loggedOut := false
	defer func() {
		if !loggedOut {
			store.Logout(context.WithoutCancel(ctx))
		}
	}()

	store.CheckAuthStatus(ctx)
	report.Refresh = store.Snapshot()
	if !report.Refresh.IsAuthenticated {
		return errNotRenewed
	}

	if api != nil {
		profile, err := api.Profile(ctx)
		if err != nil {
			slogctx.Warn(ctx, "Check could not load the profile", "error", err)
		} else {
			report.Profile = &profile
		}
	}

	store.Logout(ctx)
	loggedOut = true
	report.Logout = store.Snapshot()
	slogctx.Info(ctx, "Check signed out", "state", string(report.Logout.State))

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("writing check report: %w", err)
	}

	return nil
}
