package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uganda-data/session-client/pkg/session"
	sessionmock "github.com/uganda-data/session-client/pkg/session/mock"
)

func runStore(t *testing.T, store *session.Store) {
	t.Helper()

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		defer close(done)
		store.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestStore_Run(t *testing.T) {
	t.Run("checks immediately and on every interval", func(t *testing.T) {
		exchanger := sessionmock.NewExchanger(sessionmock.WithRefreshErr(assert.AnError))
		store := newStore(t, exchanger, session.WithRefreshInterval(10*time.Millisecond))

		runStore(t, store)

		require.Eventually(t, func() bool {
			return exchanger.RefreshCalls() >= 3
		}, time.Second, 5*time.Millisecond)
		assert.False(t, store.Snapshot().IsAuthenticated)
	})

	t.Run("resolves the initial loading state", func(t *testing.T) {
		exchanger := sessionmock.NewExchanger(sessionmock.WithRefreshCredentials(session.Credentials{
			AccessToken: "t", UserID: "1", Role: session.RoleUser,
		}))
		store := newStore(t, exchanger, session.WithRefreshInterval(time.Hour))
		require.True(t, store.Snapshot().IsLoading)

		runStore(t, store)

		require.Eventually(t, func() bool {
			return !store.Snapshot().IsLoading
		}, time.Second, 5*time.Millisecond)
		assert.True(t, store.Snapshot().IsAuthenticated)
	})
}

func TestStore_SetVisible(t *testing.T) {
	exchanger := sessionmock.NewExchanger(sessionmock.WithRefreshErr(assert.AnError))
	store := newStore(t, exchanger, session.WithRefreshInterval(time.Hour))
	assert.True(t, store.Visible())

	runStore(t, store)
	require.Eventually(t, func() bool {
		return exchanger.RefreshCalls() == 1
	}, time.Second, 5*time.Millisecond)

	// visible to visible is not a transition
	store.SetVisible(true)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, exchanger.RefreshCalls())

	store.SetVisible(false)
	assert.False(t, store.Visible())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, exchanger.RefreshCalls())

	store.SetVisible(true)
	require.Eventually(t, func() bool {
		return exchanger.RefreshCalls() == 2
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, exchanger.RefreshCalls())
}
