package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/stretchr/testify/require"

	"github.com/uganda-data/session-client/pkg/session"
)

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

// newAccessToken returns an HS256 token carrying the backend's access token claims.
func newAccessToken(t *testing.T, userNumber, role string, expiry time.Time) string {
	t.Helper()

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: testSigningKey},
		(&jose.SignerOptions{}).WithType("JWT"))
	require.NoError(t, err)

	token, err := jwt.Signed(signer).
		Claims(jwt.Claims{Expiry: jwt.NewNumericDate(expiry)}).
		Claims(map[string]any{
			"user_number": userNumber,
			"user_role":   role,
			"type":        "access",
		}).
		Serialize()
	require.NoError(t, err)

	return token
}

// funcExchanger lets a test script every exchange individually.
type funcExchanger struct {
	login   func(ctx context.Context, email, password string) (session.Credentials, error)
	refresh func(ctx context.Context) (session.Credentials, error)
	logout  func(ctx context.Context, accessToken string) error
}

func (f *funcExchanger) Login(ctx context.Context, email, password string) (session.Credentials, error) {
	if f.login == nil {
		return session.Credentials{}, nil
	}

	return f.login(ctx, email, password)
}

func (f *funcExchanger) Refresh(ctx context.Context) (session.Credentials, error) {
	if f.refresh == nil {
		return session.Credentials{}, nil
	}

	return f.refresh(ctx)
}

func (f *funcExchanger) Logout(ctx context.Context, accessToken string) error {
	if f.logout == nil {
		return nil
	}

	return f.logout(ctx, accessToken)
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newStore(t *testing.T, exchanger session.Exchanger, opts ...session.Option) *session.Store {
	t.Helper()

	store, err := session.NewStore(exchanger, opts...)
	require.NoError(t, err)

	return store
}

func requireConsistent(t *testing.T, s session.Session) {
	t.Helper()

	present := s.AccessToken != "" && s.UserID != "" && s.Role != ""
	absent := s.AccessToken == "" && s.UserID == "" && s.Role == ""

	require.True(t, present || absent, "partially populated session: %+v", s)
	require.Equal(t, present, s.IsAuthenticated, "isAuthenticated disagrees with credentials: %+v", s)
}
