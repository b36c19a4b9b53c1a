package apiclient

import (
	"net/http"

	"github.com/uganda-data/session-client/pkg/session"
)

const UserNumberHeader = "User-Number"

// Transport attaches the credentials of the current session to every
// request. Requests made without a session pass through untouched.
type Transport struct {
	Sessions session.Reader
	Base     http.RoundTripper
}

func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	snapshot := t.Sessions.Snapshot()
	if !snapshot.IsAuthenticated {
		return t.base().RoundTrip(r)
	}

	// a RoundTripper must not modify the request it was given
	authed := r.Clone(r.Context())
	authed.Header.Set("Authorization", "Bearer "+snapshot.AccessToken)
	authed.Header.Set(UserNumberHeader, snapshot.UserID)

	return t.base().RoundTrip(authed)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}

	return http.DefaultTransport
}
