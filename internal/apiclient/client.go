// Package apiclient calls the authenticated console endpoints of the
// backend on behalf of the current session.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	slogctx "github.com/veqryn/slog-context"

	"github.com/uganda-data/session-client/internal/serviceerr"
	"github.com/uganda-data/session-client/pkg/session"
)

const (
	DefaultCacheTTL = 30 * time.Second

	apiKeysPrefix = "api_keys_"
	profilePrefix = "profile_"

	maxBody = 1 << 20
)

type APIKey struct {
	Number     string     `json:"number"`
	Name       string     `json:"name"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CreatedAPIKey is returned once on creation. Key is never shown again.
type CreatedAPIKey struct {
	Message string `json:"message"`
	Key     string `json:"key"`
	ID      string `json:"id"`
}

type Profile struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Option func(*Client)

// WithHTTPClient sets the client whose transport requests are sent
// through. It is wrapped to attach the session credentials.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = d
	}
}

type Client struct {
	baseURL    *url.URL
	sessions   session.Reader
	httpClient *http.Client
	cacheTTL   time.Duration
	cache      *cache.Cache
}

func New(baseURL string, sessions session.Reader, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url must be http or https, got %q", baseURL)
	}

	c := &Client{
		baseURL:  u,
		sessions: sessions,
		cacheTTL: DefaultCacheTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	hc := &http.Client{}
	if c.httpClient != nil {
		copied := *c.httpClient
		hc = &copied
	}
	hc.Transport = &Transport{Sessions: sessions, Base: hc.Transport}
	c.httpClient = hc

	c.cache = cache.New(cache.NoExpiration, 0)
	if c.cacheTTL > 0 {
		c.cache = cache.New(c.cacheTTL, 2*c.cacheTTL)
	}

	return c, nil
}

func (c *Client) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	cacheKey := c.cacheKey(apiKeysPrefix)
	if cached, ok := c.cache.Get(cacheKey); ok {
		//nolint:forcetypeassert
		return cached.([]APIKey), nil
	}

	var keys []APIKey
	if err := c.do(ctx, http.MethodGet, "/v1/api-keys", nil, &keys); err != nil {
		return nil, fmt.Errorf("listing api keys: %w", err)
	}

	c.store(cacheKey, apiKeysPrefix, keys)

	return keys, nil
}

// CreateAPIKey creates a key named name. A nil expiresAt never expires.
func (c *Client) CreateAPIKey(ctx context.Context, name string, expiresAt *time.Time) (CreatedAPIKey, error) {
	if strings.TrimSpace(name) == "" {
		return CreatedAPIKey{}, serviceerr.New(serviceerr.CodeInvalidRequest, "name is required")
	}

	req := struct {
		Name      string     `json:"name"`
		ExpiresAt *time.Time `json:"expires_at,omitempty"`
	}{Name: name, ExpiresAt: expiresAt}

	var created CreatedAPIKey
	if err := c.do(ctx, http.MethodPost, "/v1/api-keys", req, &created); err != nil {
		return CreatedAPIKey{}, fmt.Errorf("creating api key: %w", err)
	}

	c.cache.Delete(c.cacheKey(apiKeysPrefix))
	slogctx.Info(ctx, "Created API key", "number", created.ID)

	return created, nil
}

func (c *Client) DeleteAPIKey(ctx context.Context, number string) error {
	if number == "" {
		return serviceerr.New(serviceerr.CodeInvalidRequest, "api key number is required")
	}

	if err := c.do(ctx, http.MethodDelete, "/v1/api-keys/"+url.PathEscape(number), nil, nil); err != nil {
		return fmt.Errorf("deleting api key: %w", err)
	}

	c.cache.Delete(c.cacheKey(apiKeysPrefix))
	slogctx.Info(ctx, "Deleted API key", "number", number)

	return nil
}

func (c *Client) Profile(ctx context.Context) (Profile, error) {
	cacheKey := c.cacheKey(profilePrefix)
	if cached, ok := c.cache.Get(cacheKey); ok {
		//nolint:forcetypeassert
		return cached.(Profile), nil
	}

	var resp struct {
		Data Profile `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/auth/profile", nil, &resp); err != nil {
		return Profile{}, fmt.Errorf("getting profile: %w", err)
	}

	c.store(cacheKey, profilePrefix, resp.Data)

	return resp.Data, nil
}

// cacheKey scopes prefix to the current principal. It is empty without one.
func (c *Client) cacheKey(prefix string) string {
	snapshot := c.sessions.Snapshot()
	if !snapshot.IsAuthenticated {
		return ""
	}

	return prefix + snapshot.UserID
}

// store caches v under key, the key computed before the request. Nothing
// is cached when the principal changed while the request was in flight.
func (c *Client) store(key, prefix string, v any) {
	if key == "" || c.cacheTTL <= 0 {
		return
	}

	if key != c.cacheKey(prefix) {
		return
	}

	c.cache.Set(key, v, cache.DefaultExpiration)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		return fmt.Errorf("%w: %w", serviceerr.ErrTemporarilyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return statusError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %w", serviceerr.ErrServerError, err)
	}

	return nil
}

func statusError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&body)

	description := body.Message
	if description == "" {
		description = body.Error
	}
	if description == "" {
		description = http.StatusText(resp.StatusCode)
	}

	var code serviceerr.Code
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = serviceerr.CodeInvalidRequest
	case http.StatusUnauthorized:
		code = serviceerr.CodeUnauthorized
	case http.StatusForbidden:
		code = serviceerr.CodeAccessDenied
	case http.StatusNotFound:
		code = serviceerr.CodeNotFound
	case http.StatusConflict:
		code = serviceerr.CodeConflict
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		code = serviceerr.CodeTemporarilyUnavailable
	default:
		code = serviceerr.CodeServerError
	}

	return serviceerr.New(code, description)
}
