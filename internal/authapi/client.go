// Package authapi implements the login, refresh and logout exchanges
// against the console backend over HTTP.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	slogctx "github.com/veqryn/slog-context"

	"github.com/uganda-data/session-client/internal/serviceerr"
	"github.com/uganda-data/session-client/pkg/session"
)

const (
	DefaultLoginPath   = "/auth/login"
	DefaultRefreshPath = "/auth/refresh"
	DefaultLogoutPath  = "/auth/logout"
	DefaultTimeout     = 10 * time.Second

	// RefreshCookie is the cookie the backend keeps the refresh credential in.
	RefreshCookie = "refresh_token"

	// expires_in values below this are a lifetime in seconds rather than a
	// unix timestamp.
	relativeExpiryLimit = int64(365 * 24 * time.Hour / time.Second)

	maxErrorBody = 64 << 10
)

type Paths struct {
	Login   string
	Refresh string
	Logout  string
}

type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its cookie jar, if any, is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithPaths overrides the exchange endpoints. Empty paths keep the default.
func WithPaths(p Paths) Option {
	return func(c *Client) {
		if p.Login != "" {
			c.paths.Login = p.Login
		}
		if p.Refresh != "" {
			c.paths.Refresh = p.Refresh
		}
		if p.Logout != "" {
			c.paths.Logout = p.Logout
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// Client talks to the authentication endpoints of the backend. The
// refresh credential never leaves its cookie jar.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	paths      Paths
	now        func() time.Time
}

var _ session.Exchanger = (*Client)(nil)

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url must be http or https, got %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		timeout: DefaultTimeout,
		paths: Paths{
			Login:   DefaultLoginPath,
			Refresh: DefaultRefreshPath,
			Logout:  DefaultLogoutPath,
		},
		now: time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	hc := &http.Client{}
	if c.httpClient != nil {
		copied := *c.httpClient
		hc = &copied
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		hc.Jar = jar
	}
	if hc.Timeout == 0 {
		hc.Timeout = c.timeout
	}
	c.httpClient = hc

	return c, nil
}

// HTTPClient returns the client carrying the session cookies, for other
// callers of the same backend.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// HasRefreshCookie reports whether the jar holds a refresh credential.
func (c *Client) HasRefreshCookie() bool {
	for _, cookie := range c.httpClient.Jar.Cookies(c.baseURL) {
		if cookie.Name == RefreshCookie && cookie.Value != "" {
			return true
		}
	}

	return false
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse is the body of a successful login or refresh. The
// refresh token in the login body is ignored in favor of the cookie.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	UserNumber  string `json:"user_number"`
	Role        string `json:"role"`
	ExpiresIn   int64  `json:"expires_in"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) Login(ctx context.Context, email, password string) (session.Credentials, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return session.Credentials{}, fmt.Errorf("encoding login request: %w", err)
	}

	resp, err := c.do(ctx, c.paths.Login, bytes.NewReader(body), "")
	if err != nil {
		return session.Credentials{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		code := serviceerr.CodeInvalidCredentials
		if resp.StatusCode >= http.StatusInternalServerError {
			code = serviceerr.CodeServerError
		}

		return session.Credentials{}, serviceerr.New(code, errorMessage(resp, "login failed"))
	}

	return c.decodeTokens(resp)
}

func (c *Client) Refresh(ctx context.Context) (session.Credentials, error) {
	resp, err := c.do(ctx, c.paths.Refresh, nil, "")
	if err != nil {
		return session.Credentials{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return session.Credentials{}, serviceerr.New(serviceerr.CodeUnauthorized, errorMessage(resp, "session expired"))
	}

	return c.decodeTokens(resp)
}

func (c *Client) Logout(ctx context.Context, accessToken string) error {
	resp, err := c.do(ctx, c.paths.Logout, nil, accessToken)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("logout rejected with status %d: %s", resp.StatusCode, errorMessage(resp, "logout failed"))
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	return nil
}

func (c *Client) do(ctx context.Context, path string, body io.Reader, accessToken string) (*http.Response, error) {
	endpoint := c.baseURL.JoinPath(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		slogctx.Debug(ctx, "Backend request failed", "path", path, "error", err)

		return nil, fmt.Errorf("%w: %w", serviceerr.ErrTemporarilyUnavailable, err)
	}

	return resp, nil
}

func (c *Client) decodeTokens(resp *http.Response) (session.Credentials, error) {
	var tokens tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return session.Credentials{}, fmt.Errorf("%w: decoding token response: %w", serviceerr.ErrServerError, err)
	}

	if tokens.AccessToken == "" {
		return session.Credentials{}, fmt.Errorf("%w: token response without access token", serviceerr.ErrServerError)
	}

	return session.Credentials{
		AccessToken: tokens.AccessToken,
		UserID:      tokens.UserNumber,
		Role:        session.Role(tokens.Role),
		ExpiresAt:   c.expiry(tokens.ExpiresIn),
	}, nil
}

func (c *Client) expiry(expiresIn int64) time.Time {
	switch {
	case expiresIn <= 0:
		return time.Time{}
	case expiresIn < relativeExpiryLimit:
		return c.now().Add(time.Duration(expiresIn) * time.Second)
	default:
		return time.Unix(expiresIn, 0)
	}
}

// errorMessage returns the message of a backend error body, which carries
// it either in "message" or in "error".
func errorMessage(resp *http.Response, fallback string) string {
	var body errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err != nil {
		return fallback
	}

	switch {
	case body.Message != "":
		return body.Message
	case body.Error != "":
		return body.Error
	default:
		return fallback
	}
}
