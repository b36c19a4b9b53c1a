package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uganda-data/session-client/internal/apiclient"
	"github.com/uganda-data/session-client/internal/authapi/authmock"
	"github.com/uganda-data/session-client/internal/openapi"
	"github.com/uganda-data/session-client/pkg/guard"
	"github.com/uganda-data/session-client/pkg/session"
)

func TestStartHTTPServer_ContextCancellation(t *testing.T) {
	t.Run("gracefully shuts down when context is cancelled", func(t *testing.T) {
		backend := authmock.NewServer(t, authmock.WithUser(testUser))
		socket := filepath.Join(t.TempDir(), "console.sock")

		ctx, cancel := context.WithCancel(t.Context())

		errChan := make(chan error, 1)
		go func() {
			errChan <- StartHTTPServer(ctx, testConfig("unix://"+socket), newDeps(t, backend))
		}()

		client := &http.Client{Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				return new(net.Dialer).DialContext(ctx, "unix", socket)
			},
		}}

		require.Eventually(t, func() bool {
			req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, "http://console/healthz", nil)
			if err != nil {
				return false
			}
			resp, err := client.Do(req)
			if err != nil {
				return false
			}
			resp.Body.Close()

			return resp.StatusCode == http.StatusOK
		}, 5*time.Second, 20*time.Millisecond)

		cancel()

		select {
		case err := <-errChan:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("Server did not shut down within timeout")
		}
	})
}

func TestCreateHTTPServer(t *testing.T) {
	backend := authmock.NewServer(t, authmock.WithUser(testUser))

	for _, address := range []string{"localhost:8080", "unix:///tmp/test.sock"} {
		t.Run(address, func(t *testing.T) {
			server, err := createHTTPServer(t.Context(), testConfig(address), newDeps(t, backend))

			require.NoError(t, err)
			assert.Equal(t, address, server.Addr)
			assert.NotNil(t, server.Handler)
		})
	}
}

func TestConsole_SessionLifecycle(t *testing.T) {
	backend := authmock.NewServer(t, authmock.WithUser(testUser))
	deps := newDeps(t, backend)
	c := newConsole(t, deps)

	// protected views redirect to login, carrying the requested location
	resp, _ := c.do(http.MethodGet, "/dashboard/profile?tab=keys", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fdashboard%2Fprofile%3Ftab%3Dkeys", resp.Header.Get("Location"))

	// mutations need a token
	resp, body := c.do(http.MethodPost, "/api/login", map[string]string{"email": testUser.Email, "password": testUser.Password})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.JSONEq(t, `{"error":"access_denied","error_description":"invalid CSRF token"}`, string(body))

	s := c.fetchToken()
	assert.False(t, s.IsAuthenticated)

	resp, body = c.do(http.MethodPost, "/api/login?next=%2Fdashboard%2Fprofile", map[string]string{
		"email":    testUser.Email,
		"password": "wrongpw",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"error":"invalid_credentials","error_description":"Invalid email or password"}`, string(body))

	anonymousToken := c.token
	resp, body = c.do(http.MethodPost, "/api/login?next=%2Fdashboard%2Fprofile", map[string]string{
		"email":    testUser.Email,
		"password": testUser.Password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login openapi.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))
	assert.Equal(t, "/dashboard/profile", login.Redirect)
	assert.True(t, login.Session.IsAuthenticated)
	require.NotNil(t, login.Session.UserId)
	assert.Equal(t, testUser.Number, *login.Session.UserId)
	assert.Equal(t, openapi.Authenticated, login.Session.State)
	assert.NotContains(t, string(body), deps.Store.Snapshot().AccessToken)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	resp, body = c.do(http.MethodGet, "/dashboard/profile", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"name":"Amara Kizza"`)

	// a token issued before login no longer works
	loggedInToken := c.token
	c.token = anonymousToken
	resp, _ = c.do(http.MethodPost, "/dashboard/api-keys", map[string]string{"name": "etl"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	c.token = loggedInToken

	resp, body = c.do(http.MethodPost, "/dashboard/api-keys", map[string]string{"name": "etl"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created apiclient.CreatedAPIKey
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Contains(t, created.Key, "UG_")

	resp, body = c.do(http.MethodGet, "/dashboard/api-keys", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var keys []apiclient.APIKey
	require.NoError(t, json.Unmarshal(body, &keys))
	require.Len(t, keys, 1)
	assert.Equal(t, "etl", keys[0].Name)

	resp, _ = c.do(http.MethodDelete, "/dashboard/api-keys/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = c.do(http.MethodDelete, "/dashboard/api-keys/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"error":"not_found"`)

	resp, body = c.do(http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loggedOut session.Session
	require.NoError(t, json.Unmarshal(body, &loggedOut))
	assert.False(t, loggedOut.IsAuthenticated)
	assert.Equal(t, session.StateUnauthenticated, loggedOut.State)

	resp, _ = c.do(http.MethodGet, "/dashboard/api-keys", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestConsole_LoginErrors(t *testing.T) {
	tests := []struct {
		name       string
		prepare    func(*authmock.Server)
		body       any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "Empty password",
			body:       map[string]string{"email": testUser.Email},
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name:       "Malformed body",
			body:       []int{1, 2},
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name:       "Backend unreachable",
			prepare:    func(b *authmock.Server) { b.Close() },
			body:       map[string]string{"email": testUser.Email, "password": testUser.Password},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "temporarily_unavailable",
		},
		{
			name:       "Backend failure",
			prepare:    func(b *authmock.Server) { b.FailNext("/auth/login", http.StatusInternalServerError) },
			body:       map[string]string{"email": testUser.Email, "password": testUser.Password},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "server_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := authmock.NewServer(t, authmock.WithUser(testUser))
			c := newConsole(t, newDeps(t, backend))
			c.fetchToken()

			if tt.prepare != nil {
				tt.prepare(backend)
			}

			resp, body := c.do(http.MethodPost, "/api/login", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var got openapi.ErrorModel
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tt.wantCode, got.Error)
		})
	}
}

func TestConsole_LoginPage(t *testing.T) {
	backend := authmock.NewServer(t, authmock.WithUser(testUser))
	deps := newDeps(t, backend)
	c := newConsole(t, deps)

	resp, body := c.do(http.MethodGet, "/login?next=%2Fdashboard%2Fprofile", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"login":"/api/login","next":"/dashboard/profile"}`, string(body))

	resp, body = c.do(http.MethodGet, "/login?next=https%3A%2F%2Fevil.example", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"login":"/api/login","next":""}`, string(body))

	require.NoError(t, deps.Store.Login(t.Context(), testUser.Email, testUser.Password))

	resp, _ = c.do(http.MethodGet, "/login", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, DefaultLandingPath, resp.Header.Get("Location"))
}

func TestConsole_Visibility(t *testing.T) {
	backend := authmock.NewServer(t, authmock.WithUser(testUser))
	deps := newDeps(t, backend)
	c := newConsole(t, deps)
	c.fetchToken()

	resp, _ := c.do(http.MethodPost, "/api/visibility", map[string]bool{"visible": false})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.False(t, deps.Store.Visible())

	resp, _ = c.do(http.MethodPost, "/api/visibility", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = c.do(http.MethodPost, "/api/visibility", map[string]bool{"visible": true})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.True(t, deps.Store.Visible())
}

func TestConsole_RevokedToken(t *testing.T) {
	backend := authmock.NewServer(t, authmock.WithUser(testUser))
	deps := newDeps(t, backend)
	c := newConsole(t, deps)

	require.NoError(t, deps.Store.Login(t.Context(), testUser.Email, testUser.Password))

	backend.FailNext("/v1/auth/profile", http.StatusUnauthorized)
	resp, _ := c.do(http.MethodGet, "/dashboard/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// the refresh cookie is still valid, so the check renews the session
	assert.Equal(t, 1, backend.Calls("/auth/refresh"))
	assert.True(t, deps.Store.Snapshot().IsAuthenticated)
}

func TestConsole_Ping(t *testing.T) {
	backend := authmock.NewServer(t, authmock.WithUser(testUser))
	c := newConsole(t, newDeps(t, backend))

	resp, body := c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"result":"ping"}`, string(body))
}

func TestConsole_CustomLoginPath(t *testing.T) {
	backend := authmock.NewServer(t, authmock.WithUser(testUser))
	deps := newDeps(t, backend)
	deps.Guard = guard.New(deps.Store, guard.WithLoginPath("/signin"))
	c := newConsole(t, deps)

	resp, _ := c.do(http.MethodGet, "/dashboard/profile", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/signin?next=%2Fdashboard%2Fprofile", resp.Header.Get("Location"))

	resp, body := c.do(http.MethodGet, "/signin?next=%2Fdashboard%2Fprofile", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"login":"/api/login","next":"/dashboard/profile"}`, string(body))
}
