package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/stretchr/testify/require"

	"github.com/uganda-data/session-client/internal/apiclient"
	"github.com/uganda-data/session-client/internal/authapi"
	"github.com/uganda-data/session-client/internal/authapi/authmock"
	"github.com/uganda-data/session-client/internal/config"
	"github.com/uganda-data/session-client/pkg/csrf"
	"github.com/uganda-data/session-client/pkg/guard"
	"github.com/uganda-data/session-client/pkg/session"
)

var testUser = authmock.User{
	Email:     "valid@x.com",
	Password:  "correctpw",
	Number:    "3d9a8c1e-2b47-4f0a-9c6e-5e1f7a2b8d40",
	Role:      "USER",
	FirstName: "Amara",
	LastName:  "Kizza",
}

func testConfig(address string) *config.Config {
	return &config.Config{
		BaseConfig: commoncfg.BaseConfig{
			Application: commoncfg.Application{
				Name: "test-app",
			},
		},
		HTTP: config.HTTPServer{
			Address:         address,
			ShutdownTimeout: time.Second,
		},
	}
}

func newDeps(t *testing.T, backend *authmock.Server) Deps {
	t.Helper()

	exchanger, err := authapi.NewClient(backend.URL)
	require.NoError(t, err)

	store, err := session.NewStore(exchanger)
	require.NoError(t, err)

	api, err := apiclient.New(backend.URL, store)
	require.NoError(t, err)

	return Deps{
		Store: store,
		Guard: guard.New(store),
		API:   api,
		CSRF:  csrf.New([]byte("0123456789abcdef0123456789abcdef")),
	}
}

// console drives the console handler like the browser would, keeping the
// latest CSRF token it was handed.
type console struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
	token  string
}

func newConsole(t *testing.T, deps Deps) *console {
	t.Helper()

	srv, err := createHTTPServer(t.Context(), testConfig("localhost:0"), deps)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)

	client := ts.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &console{t: t, server: ts, client: client}
}

func (c *console) do(method, path string, body any) (*http.Response, []byte) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(c.t.Context(), method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	if c.token != "" {
		req.Header.Set(csrf.HeaderName, c.token)
	}

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	if token := resp.Header.Get(csrf.HeaderName); token != "" {
		c.token = token
	}

	return resp, respBody
}

// fetchToken loads the session the way the console page does on start.
func (c *console) fetchToken() session.Session {
	c.t.Helper()

	resp, body := c.do(http.MethodGet, "/api/session", nil)
	require.Equal(c.t, http.StatusOK, resp.StatusCode)

	var s session.Session
	require.NoError(c.t, json.Unmarshal(body, &s))

	return s
}
