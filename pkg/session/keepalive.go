package session

import (
	"context"
	"time"

	slogctx "github.com/veqryn/slog-context"
)

// Run keeps the session alive until ctx is done. It checks the session
// once immediately, then on every refresh interval and whenever the
// console becomes visible again after being hidden.
func (s *Store) Run(ctx context.Context) {
	slogctx.Info(ctx, "Starting session keep-alive", "interval", s.refreshInterval.String())

	s.CheckAuthStatus(ctx)

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slogctx.Info(ctx, "Stopped session keep-alive")
			return
		case <-ticker.C:
			s.CheckAuthStatus(ctx)
		case <-s.wake:
			slogctx.Debug(ctx, "Console became visible, checking session")
			s.CheckAuthStatus(ctx)
		}
	}
}

// SetVisible records whether the console is currently shown to the user.
// A hidden to visible transition wakes Run for a catch-up refresh.
func (s *Store) SetVisible(visible bool) {
	s.mu.Lock()
	wasVisible := s.visible
	s.visible = visible
	s.mu.Unlock()

	if !visible || wasVisible {
		return
	}

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Visible reports the last visibility passed to SetVisible.
func (s *Store) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.visible
}
