package authapi_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uganda-data/session-client/internal/authapi"
	"github.com/uganda-data/session-client/internal/authapi/authmock"
	"github.com/uganda-data/session-client/internal/serviceerr"
	"github.com/uganda-data/session-client/pkg/session"
)

var testUser = authmock.User{
	Email:     "valid@x.com",
	Password:  "correctpw",
	Number:    "6f0f6c9e-5b0a-4f5e-9a51-0d3c2a6c1f10",
	Role:      "ADMIN",
	FirstName: "Nakato",
	LastName:  "Achieng",
}

func newClient(t *testing.T, backend *authmock.Server, opts ...authapi.Option) *authapi.Client {
	t.Helper()

	client, err := authapi.NewClient(backend.URL, opts...)
	require.NoError(t, err)

	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name      string
		baseURL   string
		assertErr assert.ErrorAssertionFunc
	}{
		{name: "http", baseURL: "http://localhost:8080", assertErr: assert.NoError},
		{name: "https with path", baseURL: "https://api.example.com/backend/", assertErr: assert.NoError},
		{name: "missing scheme", baseURL: "localhost:8080", assertErr: assert.Error},
		{name: "unsupported scheme", baseURL: "ftp://example.com", assertErr: assert.Error},
		{name: "invalid", baseURL: "http://[::1", assertErr: assert.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := authapi.NewClient(tt.baseURL)
			if !tt.assertErr(t, err, fmt.Sprintf("NewClient(%s)", tt.baseURL)) || err != nil {
				return
			}

			assert.NotNil(t, client.HTTPClient().Jar)
			assert.Equal(t, authapi.DefaultTimeout, client.HTTPClient().Timeout)
		})
	}
}

func TestClient_Login(t *testing.T) {
	backend := authmock.NewServer(t, authmock.WithUser(testUser))

	tests := []struct {
		name      string
		prepare   func()
		password  string
		assertErr assert.ErrorAssertionFunc
		wantMsg   string
	}{
		{
			name:      "Success",
			password:  testUser.Password,
			assertErr: assert.NoError,
		},
		{
			name:     "Wrong password",
			password: "wrongpw",
			assertErr: func(t assert.TestingT, err error, i ...any) bool {
				return assert.ErrorIs(t, err, serviceerr.ErrInvalidCredentials, i...)
			},
			wantMsg: "Invalid email or password",
		},
		{
			name:     "Server error",
			prepare:  func() { backend.FailNext("/auth/login", http.StatusInternalServerError) },
			password: testUser.Password,
			assertErr: func(t assert.TestingT, err error, i ...any) bool {
				return assert.ErrorIs(t, err, serviceerr.ErrServerError, i...)
			},
			wantMsg: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepare != nil {
				tt.prepare()
			}
			client := newClient(t, backend)

			creds, err := client.Login(t.Context(), testUser.Email, tt.password)
			if !tt.assertErr(t, err, fmt.Sprintf("Login(%s)", tt.password)) || err != nil {
				assert.Equal(t, tt.wantMsg, serviceerr.Message(err, ""))
				assert.False(t, client.HasRefreshCookie())

				return
			}

			assert.NotEmpty(t, creds.AccessToken)
			assert.Equal(t, testUser.Number, creds.UserID)
			assert.Equal(t, session.RoleAdmin, creds.Role)
			assert.WithinDuration(t, time.Now().Add(authmock.DefaultAccessTTL), creds.ExpiresAt, 5*time.Second)
			assert.True(t, client.HasRefreshCookie())
		})
	}
}

func TestClient_LoginUnreachable(t *testing.T) {
	backend := authmock.NewServer(t, authmock.WithUser(testUser))
	client := newClient(t, backend)
	backend.Close()

	_, err := client.Login(t.Context(), testUser.Email, testUser.Password)
	assert.ErrorIs(t, err, serviceerr.ErrTemporarilyUnavailable)
}

func TestClient_Timeout(t *testing.T) {
	backend := authmock.NewServer(t, authmock.WithUser(testUser))
	release := backend.Hold("/auth/login")
	defer release()

	client := newClient(t, backend, authapi.WithTimeout(50*time.Millisecond))

	_, err := client.Login(t.Context(), testUser.Email, testUser.Password)
	assert.ErrorIs(t, err, serviceerr.ErrTemporarilyUnavailable)
}

func TestClient_Refresh(t *testing.T) {
	t.Run("without a refresh cookie", func(t *testing.T) {
		backend := authmock.NewServer(t, authmock.WithUser(testUser))
		client := newClient(t, backend)

		_, err := client.Refresh(t.Context())
		assert.ErrorIs(t, err, serviceerr.ErrUnauthorized)
		assert.Equal(t, "Missing refresh token", serviceerr.Message(err, ""))
	})

	t.Run("uses and rotates the cookie from login", func(t *testing.T) {
		backend := authmock.NewServer(t, authmock.WithUser(testUser))
		client := newClient(t, backend)

		_, err := client.Login(t.Context(), testUser.Email, testUser.Password)
		require.NoError(t, err)

		for range 2 {
			creds, err := client.Refresh(t.Context())
			require.NoError(t, err)
			assert.NotEmpty(t, creds.AccessToken)
			assert.Empty(t, creds.UserID)
			assert.Empty(t, creds.Role)
			assert.False(t, creds.ExpiresAt.IsZero())
		}
		assert.Equal(t, 1, backend.Sessions())
	})

	t.Run("identity in the response", func(t *testing.T) {
		backend := authmock.NewServer(t, authmock.WithUser(testUser), authmock.WithIdentityOnRefresh())
		client := newClient(t, backend)

		_, err := client.Login(t.Context(), testUser.Email, testUser.Password)
		require.NoError(t, err)

		creds, err := client.Refresh(t.Context())
		require.NoError(t, err)
		assert.Equal(t, testUser.Number, creds.UserID)
		assert.Equal(t, session.RoleAdmin, creds.Role)
	})

	t.Run("relative expiry", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }

		backend := authmock.NewServer(t,
			authmock.WithUser(testUser),
			authmock.WithRelativeExpiry(),
			authmock.WithClock(clock),
			authmock.WithAccessTTL(10*time.Minute),
		)
		client := newClient(t, backend, authapi.WithClock(clock))

		creds, err := client.Login(t.Context(), testUser.Email, testUser.Password)
		require.NoError(t, err)
		assert.Equal(t, now.Add(10*time.Minute), creds.ExpiresAt)
	})
}

func TestClient_Logout(t *testing.T) {
	backend := authmock.NewServer(t, authmock.WithUser(testUser))
	client := newClient(t, backend)

	creds, err := client.Login(t.Context(), testUser.Email, testUser.Password)
	require.NoError(t, err)
	require.True(t, client.HasRefreshCookie())

	require.NoError(t, client.Logout(t.Context(), creds.AccessToken))
	assert.False(t, client.HasRefreshCookie())
	assert.Zero(t, backend.Sessions())

	_, err = client.Refresh(t.Context())
	assert.ErrorIs(t, err, serviceerr.ErrUnauthorized)

	backend.FailNext("/auth/logout", http.StatusForbidden)
	assert.Error(t, client.Logout(t.Context(), ""))
}

func TestClient_Paths(t *testing.T) {
	backend := authmock.NewServer(t, authmock.WithUser(testUser))
	client := newClient(t, backend, authapi.WithPaths(authapi.Paths{Login: "/auth/signin"}))

	_, err := client.Login(t.Context(), testUser.Email, testUser.Password)
	assert.Error(t, err)
	assert.Equal(t, 1, backend.Calls("/auth/signin"))
	assert.Zero(t, backend.Calls("/auth/login"))
}

// TestClient_SessionLifecycle runs the store against the fake backend.
func TestClient_SessionLifecycle(t *testing.T) {
	backend := authmock.NewServer(t, authmock.WithUser(testUser))
	client := newClient(t, backend)

	store, err := session.NewStore(client)
	require.NoError(t, err)

	store.CheckAuthStatus(t.Context())
	assert.False(t, store.Snapshot().IsAuthenticated)
	assert.False(t, store.Snapshot().IsLoading)

	err = store.Login(t.Context(), testUser.Email, "wrongpw")
	require.ErrorIs(t, err, serviceerr.ErrInvalidCredentials)
	assert.False(t, store.Snapshot().IsAuthenticated)

	require.NoError(t, store.Login(t.Context(), testUser.Email, testUser.Password))
	loggedIn := store.Snapshot()
	assert.True(t, loggedIn.IsAuthenticated)
	assert.Equal(t, testUser.Number, loggedIn.UserID)

	// refresh only carries the token, identity comes from its claims
	store.CheckAuthStatus(t.Context())
	refreshed := store.Snapshot()
	assert.True(t, refreshed.IsAuthenticated)
	assert.Equal(t, testUser.Number, refreshed.UserID)
	assert.Equal(t, session.RoleAdmin, refreshed.Role)

	backend.FailNext("/auth/logout", http.StatusInternalServerError)
	store.Logout(t.Context())
	assert.False(t, store.Snapshot().IsAuthenticated)
}
