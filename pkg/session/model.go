package session

import "time"

// State is the lifecycle state of the client session.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating" // login or refresh in flight
	StateAuthenticated   State = "authenticated"
	StateLoggingOut      State = "logging_out"
)

// Role is the authorization tier of the signed in principal. Tiers other
// than the known ones are carried verbatim.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Session is a read-only snapshot of the authentication state.
type Session struct {
	IsAuthenticated bool `json:"isAuthenticated"`
	// AccessToken is the short-lived credential sent on every authenticated request.
	AccessToken string    `json:"-"`
	UserID      string    `json:"userId,omitempty"`
	Role        Role      `json:"role,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt,omitzero"` // zero if unknown
	// IsLoading is true while an exchange is in flight and until the
	// first status check has resolved.
	IsLoading bool  `json:"isLoading"`
	State     State `json:"state"`
}

// Credentials is the result of a successful login or refresh exchange.
type Credentials struct {
	AccessToken string
	UserID      string
	Role        Role
	ExpiresAt   time.Time
}

func (c Credentials) complete() bool {
	return c.AccessToken != "" && c.UserID != "" && c.Role != ""
}
