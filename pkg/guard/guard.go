// Package guard gates access to protected views on the state of the
// session store. It only reads the store and never triggers a check.
package guard

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	slogctx "github.com/veqryn/slog-context"

	"github.com/uganda-data/session-client/pkg/session"
)

const (
	DefaultLoginPath   = "/login"
	DefaultReturnParam = "next"
)

type Action int

const (
	Allow Action = iota
	Redirect
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the outcome of guarding one navigation. Location is only
// set for redirects.
type Decision struct {
	Action   Action
	Location string
}

type Option func(*Guard)

func WithLoginPath(path string) Option {
	return func(g *Guard) {
		if path != "" {
			g.loginPath = path
		}
	}
}

// WithReturnParam sets the query parameter carrying the originally
// requested location to the login entry point.
func WithReturnParam(name string) Option {
	return func(g *Guard) {
		if name != "" {
			g.returnParam = name
		}
	}
}

type Guard struct {
	sessions    session.Reader
	loginPath   string
	returnParam string
}

func New(sessions session.Reader, opts ...Option) *Guard {
	g := &Guard{
		sessions:    sessions,
		loginPath:   DefaultLoginPath,
		returnParam: DefaultReturnParam,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *Guard) LoginPath() string {
	return g.loginPath
}

// Decide allows an authenticated session and otherwise redirects to the
// login entry point, carrying the path and query of requested.
func (g *Guard) Decide(s session.Session, requested *url.URL) Decision {
	if s.IsAuthenticated {
		return Decision{Action: Allow}
	}

	location := g.loginPath
	if requested != nil {
		if ret := requested.RequestURI(); ret != "" && ret != g.loginPath {
			location += "?" + url.Values{g.returnParam: {ret}}.Encode()
		}
	}

	return Decision{Action: Redirect, Location: location}
}

// Middleware serves next only to an authenticated session. The snapshot
// the decision was made on is available to next through FromContext.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snapshot := g.sessions.Snapshot()

		decision := g.Decide(snapshot, r.URL)
		if decision.Action == Redirect {
			slogctx.Debug(r.Context(), "Redirecting to login", "path", r.URL.Path, "location", decision.Location)

			status := http.StatusFound
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				status = http.StatusSeeOther
			}
			http.Redirect(w, r, decision.Location, status)

			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, snapshot)
		ctx = slogctx.With(ctx, "user_id", snapshot.UserID, "role", string(snapshot.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ReturnTo returns the location to resume after login. Only same-origin
// absolute paths are honored, anything else yields fallback.
func (g *Guard) ReturnTo(r *http.Request, fallback string) string {
	ret := r.URL.Query().Get(g.returnParam)
	if !isLocalPath(ret) {
		return fallback
	}

	return ret
}

func isLocalPath(p string) bool {
	if p == "" || p[0] != '/' {
		return false
	}
	// "//host" and "/\host" are treated as network paths by browsers.
	if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
		return false
	}
	if strings.ContainsAny(p, "\r\n\t") {
		return false
	}

	u, err := url.Parse(p)
	if err != nil {
		return false
	}

	return u.Scheme == "" && u.Host == ""
}

type contextKey string

const sessionKey contextKey = "session"

// FromContext returns the session snapshot a guarded request was
// allowed on.
func FromContext(ctx context.Context) (session.Session, error) {
	s, ok := ctx.Value(sessionKey).(session.Session)
	if !ok {
		return session.Session{}, errors.New("session not found in context")
	}

	return s, nil
}
